package domain

import "time"

// FeeHead aggregates one fee type across all bills and payments for a
// student. Balances use the stored discount snapshots, never the current
// discount rules, so historical totals stay accurate.
type FeeHead struct {
	FeeTypeID     int32  `json:"fee_type_id"`
	FeeType       string `json:"fee_type"`
	GrossPaise    int64  `json:"gross_paise"`
	DiscountPaise int64  `json:"discount_paise"`
	NetPaise      int64  `json:"net_paise"`
	PaidPaise     int64  `json:"paid_paise"`
	BalancePaise  int64  `json:"balance_paise"`  // floored at 0 for display
	AdvancePaise  int64  `json:"advance_paise"`  // |negative balance|, surfaced separately
}

// StatementSummary totals the fee heads plus the derived advance balance.
type StatementSummary struct {
	TotalGrossPaise    int64 `json:"total_gross_paise"`
	TotalDiscountPaise int64 `json:"total_discount_paise"`
	TotalNetPaise      int64 `json:"total_net_paise"`
	TotalPaidPaise     int64 `json:"total_paid_paise"`
	TotalDuesPaise     int64 `json:"total_dues_paise"`    // sum of floored balances
	TotalAdvancePaise  int64 `json:"total_advance_paise"` // sum of head-level overpayments
	AdvanceBalancePaise int64 `json:"advance_balance_paise"` // spendable credit: paid - billed
}

// StatementStudent is the student header on derived views.
type StatementStudent struct {
	StudentID  string `json:"student_id"`
	Name       string `json:"name"`
	FatherName string `json:"father_name"`
	ClassName  string `json:"class_name"`
	Section    string `json:"section"`
}

// PendingBillView is a bill row on statements and dashboards with the status
// and balance recomputed at read time.
type PendingBillView struct {
	BillNo           string        `json:"bill_no"`
	Month            int           `json:"month"`
	Year             int           `json:"year"`
	DueDate          time.Time     `json:"due_date"`
	AmountPaise      int64         `json:"amount_paise"` // gross
	AdvanceUsedPaise int64         `json:"advance_used_paise"`
	PaidPaise        int64         `json:"paid_paise"`
	BalancePaise     int64         `json:"balance_paise"`
	Status           BillStatus    `json:"status"`
	Items            []ReceiptLine `json:"items"`
}

// TransactionView is a payment row on derived views.
type TransactionView struct {
	ReceiptNo   string        `json:"receipt_no"`
	Date        time.Time     `json:"date"`
	AmountPaise int64         `json:"amount_paise"`
	PaymentMode PaymentMode   `json:"payment_mode"`
	Details     []ReceiptLine `json:"details,omitempty"`
}

// Statement is the full recomputed-on-read ledger view for a student.
type Statement struct {
	Student      StatementStudent  `json:"student"`
	Session      string            `json:"session"`
	FeeHeads     []FeeHead         `json:"fee_heads"`
	Summary      StatementSummary  `json:"summary"`
	Transactions []TransactionView `json:"transactions"`
	PendingBills []PendingBillView `json:"pending_bills"`
}

// Dashboard is the statement plus recent activity.
type Dashboard struct {
	Student            StatementStudent  `json:"student"`
	Summary            StatementSummary  `json:"summary"`
	FeeHeads           []FeeHead         `json:"fee_heads"`
	RecentTransactions []TransactionView `json:"recent_transactions"`
	PendingBills       []PendingBillView `json:"pending_bills"`
}

// MonthlyPayments groups a year's transactions by calendar month for the fee
// book (all twelve months present, empty months included).
type MonthlyPayments struct {
	Month          int               `json:"month"`
	Transactions   []TransactionView `json:"transactions"`
	TotalPaidPaise int64             `json:"total_paid_paise"`
}

// FeeBook is the yearly per-student fee register.
type FeeBook struct {
	Student             StatementStudent  `json:"student"`
	Session             string            `json:"session"`
	OpeningBalancePaise int64             `json:"opening_balance_paise"`
	FeeStructure        []FeeHead         `json:"fee_structure"`
	MonthlyPayments     []MonthlyPayments `json:"monthly_payments"`
	Summary             StatementSummary  `json:"summary"`
	ClosingBalancePaise int64             `json:"closing_balance_paise"`
}

// OutstandingStudent is one defaulter row in the class-wise report.
type OutstandingStudent struct {
	StudentID        string            `json:"student_id"`
	Name             string            `json:"name"`
	FatherName       string            `json:"father_name"`
	Section          string            `json:"section"`
	GuardianEmail    string            `json:"guardian_email,omitempty"`
	TotalBilledPaise int64             `json:"total_billed_paise"`
	TotalPaidPaise   int64             `json:"total_paid_paise"`
	OutstandingPaise int64             `json:"outstanding_paise"`
	Bills            []PendingBillView `json:"bills"`
}

// OutstandingClass groups defaulters by class.
type OutstandingClass struct {
	ClassName             string               `json:"class_name"`
	TotalOutstandingPaise int64                `json:"total_outstanding_paise"`
	StudentCount          int                  `json:"student_count"`
	Students              []OutstandingStudent `json:"students"`
}

// BillBatch is one entry of the bill generation history: bills created within
// the same minute are treated as one batch.
type BillBatch struct {
	Timestamp        time.Time `json:"timestamp"`
	BillType         string    `json:"bill_type"` // Single Student | Entire Section | Entire Class | Multiple Classes
	Month            int       `json:"month"`
	Year             int       `json:"year"`
	Classes          []string  `json:"classes"`
	Sections         []string  `json:"sections"`
	FeeTypes         []string  `json:"fee_types"`
	StudentCount     int       `json:"student_count"`
	TotalAmountPaise int64     `json:"total_amount_paise"`
	HasPayments      bool      `json:"has_payments"` // a batch with payments cannot be deleted
	BillNumbers      []string  `json:"bill_numbers"`
}
