package domain

import "time"

type PaymentMode string

const (
	PaymentModeCash    PaymentMode = "cash"
	PaymentModeCheque  PaymentMode = "cheque"
	PaymentModeOnline  PaymentMode = "online"
	PaymentModeCard    PaymentMode = "card"
	PaymentModeUPI     PaymentMode = "upi"
	PaymentModeAdvance PaymentMode = "advance"
)

// ValidPaymentMode reports whether m is a known payment mode.
func ValidPaymentMode(m PaymentMode) bool {
	switch m {
	case PaymentModeCash, PaymentModeCheque, PaymentModeOnline,
		PaymentModeCard, PaymentModeUPI, PaymentModeAdvance:
		return true
	}
	return false
}

// FeeTransaction is a payment event. A payment is a fact: rows are never
// edited after insert. Corrections require a new transaction (reversal flows
// are an acknowledged gap and deliberately not modeled here).
type FeeTransaction struct {
	ID            int32              `json:"id"`
	TransactionID string             `json:"transaction_id"` // UUID
	ReceiptNo     string             `json:"receipt_no"`     // unique display code
	StudentID     string             `json:"student_id"`
	SessionID     int32              `json:"session_id"`
	AmountPaise   int64              `json:"amount_paise"` // net of line-level discounts
	PaymentMode   PaymentMode        `json:"payment_mode"`
	Description   string             `json:"description"`
	Remarks       string             `json:"remarks"`
	CollectedBy   string             `json:"collected_by"`
	BillNo        string             `json:"bill_no,omitempty"` // bill this payment was applied to
	Date          time.Time          `json:"date"`
	Details       []FeePaymentDetail `json:"details"`
	CreatedAt     time.Time          `json:"created_at"`
}

// FeePaymentDetail is one fee head within a payment.
type FeePaymentDetail struct {
	ID                  int32  `json:"id"`
	TransactionID       int32  `json:"transaction_id"`
	FeeTypeID           int32  `json:"fee_type_id"`
	FeeTypeName         string `json:"fee_type_name"`
	AmountPaise         int64  `json:"amount_paise"`
	DiscountAmountPaise int64  `json:"discount_amount_paise"`
	NetAmountPaise      int64  `json:"net_amount_paise"`
}

// ReceiptLine is one fee head on a rendered receipt.
type ReceiptLine struct {
	FeeType        string `json:"fee_type"`
	AmountPaise    int64  `json:"amount_paise"`
	DiscountPaise  int64  `json:"discount_paise"`
	NetAmountPaise int64  `json:"net_amount_paise"`
}

// ReceiptSummary is the structured result of a collection, consumed by the
// receipt renderer and returned to API callers.
type ReceiptSummary struct {
	ReceiptNo     string        `json:"receipt_no"`
	TransactionID string        `json:"transaction_id"`
	AmountPaise   int64         `json:"amount_paise"`
	Date          time.Time     `json:"date"`
	PaymentMode   PaymentMode   `json:"payment_mode"`
	IsAdvance     bool          `json:"is_advance"`
	BillNo        string        `json:"bill_no,omitempty"`
	StudentID     string        `json:"student_id"`
	StudentName   string        `json:"student_name"`
	ClassName     string        `json:"class_name"`
	Lines         []ReceiptLine `json:"lines"`
}
