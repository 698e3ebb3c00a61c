package service

import (
	"context"
	"time"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/repository"
)

type FeeTypeService interface {
	CreateFeeType(ctx context.Context, ft *domain.FeeType) error
	GetFeeType(ctx context.Context, id int32) (*domain.FeeType, error)
	ListFeeTypes(ctx context.Context, activeOnly bool) ([]domain.FeeType, error)
	UpdateFeeType(ctx context.Context, ft *domain.FeeType) error
	DeleteFeeType(ctx context.Context, id int32) error
}

// StructureItemInput is one (feeType, amount) pair in a structure upsert.
type StructureItemInput struct {
	FeeTypeID   int32 `json:"fee_type_id"`
	AmountPaise int64 `json:"amount_paise"`
}

type FeeStructureService interface {
	GetStructure(ctx context.Context, sessionID int32, className string) (*domain.FeeStructure, error)
	ListStructures(ctx context.Context, sessionID int32) ([]domain.FeeStructure, error)
	UpsertItems(ctx context.Context, sessionID int32, className string, items []StructureItemInput) (*domain.FeeStructure, error)
	RemoveItem(ctx context.Context, sessionID int32, className string, feeTypeID int32) error
	// CopyStructures clones every structure of one session into another,
	// skipping classes that already have one. Returns the number copied.
	CopyStructures(ctx context.Context, fromSessionID, toSessionID int32) (int, error)
	// GetClassFees lists the fee types configured for a class with amounts.
	GetClassFees(ctx context.Context, sessionID int32, className string) ([]domain.FeeStructureItem, error)
}

type DiscountService interface {
	ListDiscounts(ctx context.Context, studentID string, sessionID int32) ([]domain.StudentFeeDiscount, error)
	UpsertDiscount(ctx context.Context, d *domain.StudentFeeDiscount) error
	DeleteDiscount(ctx context.Context, id int32) error
}

// GenerateBillsRequest selects the students and period for a generation
// batch. Students are targeted explicitly by ID or broadly by class/section.
type GenerateBillsRequest struct {
	SessionID  int32      `json:"session_id"`
	Month      int        `json:"month"`
	Year       int        `json:"year"`
	StudentIDs []string   `json:"student_ids,omitempty"`
	ClassNames []string   `json:"class_names,omitempty"`
	Section    string     `json:"section,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"` // default: configured day of the following month
	// SelectedFeeTypeIDs narrows the structure items billed; empty means all.
	SelectedFeeTypeIDs []int32 `json:"selected_fee_type_ids,omitempty"`
	// AutoLateFees defaults from config when nil.
	AutoLateFees *bool `json:"auto_late_fees,omitempty"`
}

type BillingService interface {
	GenerateDemandBills(ctx context.Context, req GenerateBillsRequest) (*domain.BatchResult, error)
	GetBill(ctx context.Context, billNo string) (*domain.DemandBill, error)
	ListStudentBills(ctx context.Context, studentID string, sessionID int32) ([]domain.DemandBill, error)
	// DeleteDemandBillBatch removes bills by number. It refuses the whole
	// batch if any target bill has recorded payments.
	DeleteDemandBillBatch(ctx context.Context, billNos []string) (int64, error)
	// UpdateBillStatus applies operator transitions (SENT, CANCELLED). It
	// never touches amounts.
	UpdateBillStatus(ctx context.Context, billNo string, status domain.BillStatus) error
	// MarkOverdueBills flips past-due open bills to OVERDUE; used by the
	// nightly job.
	MarkOverdueBills(ctx context.Context, asOf time.Time) (int64, error)
}

// PaymentDetailInput is one fee head within a payment submission.
type PaymentDetailInput struct {
	FeeTypeID           int32 `json:"fee_type_id"`
	AmountPaise         int64 `json:"amount_paise"`
	DiscountAmountPaise int64 `json:"discount_amount_paise,omitempty"`
}

// CollectFeeRequest is a payment submission. The transaction amount is
// derived from the details, never supplied directly.
type CollectFeeRequest struct {
	StudentID   string               `json:"student_id"`
	SessionID   int32                `json:"session_id"`
	Details     []PaymentDetailInput `json:"details"`
	PaymentMode domain.PaymentMode   `json:"payment_mode"`
	Description string               `json:"description,omitempty"`
	Remarks     string               `json:"remarks,omitempty"`
	CollectedBy string               `json:"collected_by,omitempty"`
	BillNo      string               `json:"bill_no,omitempty"` // explicit target, optional
	IsAdvance   bool                 `json:"is_advance,omitempty"`
	Date        *time.Time           `json:"date,omitempty"` // defaults to now
}

type CollectionService interface {
	CollectFee(ctx context.Context, req CollectFeeRequest) (*domain.ReceiptSummary, error)
	GetReceipt(ctx context.Context, receiptNo string) (*domain.ReceiptSummary, error)
}

type StatementService interface {
	GetStudentStatement(ctx context.Context, studentID string, sessionID int32) (*domain.Statement, error)
	GetStudentDashboard(ctx context.Context, studentID string, sessionID int32) (*domain.Dashboard, error)
	GetYearlyFeeBook(ctx context.Context, studentID string, sessionID int32) (*domain.FeeBook, error)
	GetTransactions(ctx context.Context, q repository.TransactionQuery) ([]domain.FeeTransaction, error)
	GetOutstandingReport(ctx context.Context, sessionID int32) ([]domain.OutstandingClass, error)
	GetBillGenerationHistory(ctx context.Context, sessionID int32) ([]domain.BillBatch, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error) // returns access token
}

// EmailService sends guardian-facing mail. Implementations must be safe to
// call with sending disabled (no-op success).
type EmailService interface {
	SendFeeReminder(ctx context.Context, student *domain.Student, bills []domain.DemandBill) error
}

// Renderer turns a resolved receipt or bill into printable bytes.
type Renderer interface {
	RenderReceipt(receipt *domain.ReceiptSummary) ([]byte, error)
	RenderBill(bill *domain.DemandBill, student *domain.Student) ([]byte, error)
}
