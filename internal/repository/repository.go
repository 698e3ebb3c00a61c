package repository

import (
	"context"
	"time"

	"schoolfee-backend/internal/domain"
)

type FeeTypeRepository interface {
	Create(ctx context.Context, ft *domain.FeeType) error
	GetByID(ctx context.Context, id int32) (*domain.FeeType, error)
	// FindByNameContains returns the first fee type whose name contains the
	// fragment (used for the transport fee lookup), or ErrNotFound.
	FindByNameContains(ctx context.Context, fragment string) (*domain.FeeType, error)
	List(ctx context.Context, activeOnly bool) ([]domain.FeeType, error)
	Update(ctx context.Context, ft *domain.FeeType) error
	Delete(ctx context.Context, id int32) error
	CountStructureUsage(ctx context.Context, feeTypeID int32) (int32, error)
	CountBillUsage(ctx context.Context, feeTypeID int32) (int32, error)
}

type FeeStructureRepository interface {
	// GetByClass loads the structure with its items (fee type names resolved),
	// or ErrNotFound if none is configured for (session, class).
	GetByClass(ctx context.Context, sessionID int32, className string) (*domain.FeeStructure, error)
	ListBySession(ctx context.Context, sessionID int32) ([]domain.FeeStructure, error)
	// Upsert creates the structure header if absent and returns it.
	Upsert(ctx context.Context, sessionID int32, className string) (*domain.FeeStructure, error)
	// UpsertItem inserts or updates the amount for (structure, feeType).
	UpsertItem(ctx context.Context, structureID, feeTypeID int32, amountPaise int64) error
	DeleteItem(ctx context.Context, structureID, feeTypeID int32) error
}

type DiscountRepository interface {
	ListForStudent(ctx context.Context, studentID string, sessionID int32) ([]domain.StudentFeeDiscount, error)
	// Upsert inserts or updates the rule keyed (student, feeType, session).
	Upsert(ctx context.Context, d *domain.StudentFeeDiscount) error
	Delete(ctx context.Context, id int32) error
}

type BillRepository interface {
	// Create persists the bill and all its line items in a single database
	// transaction. A unique-constraint violation on (student, session, month,
	// year) is returned as domain.ErrConflict so concurrent generation races
	// collapse into the "skipped" outcome.
	Create(ctx context.Context, bill *domain.DemandBill) error
	GetByBillNo(ctx context.Context, billNo string) (*domain.DemandBill, error)
	ExistsForPeriod(ctx context.Context, studentID string, sessionID int32, month, year int) (bool, error)
	// ListByStudent returns all bills with items, newest period first.
	ListByStudent(ctx context.Context, studentID string, sessionID int32) ([]domain.DemandBill, error)
	// ListBefore returns bills for periods strictly earlier than (month, year).
	ListBefore(ctx context.Context, studentID string, sessionID int32, month, year int) ([]domain.DemandBill, error)
	// FindOldestOpen returns the oldest bill (year asc, month asc) still in an
	// open status, or ErrNotFound.
	FindOldestOpen(ctx context.Context, studentID string, sessionID int32) (*domain.DemandBill, error)
	// UpdatePayment syncs the mutable payment-tracking fields. Nothing else on
	// a bill is ever updated.
	UpdatePayment(ctx context.Context, billNo string, paidPaise, netPaise int64, status domain.BillStatus, paidDate *time.Time) error
	UpdateStatus(ctx context.Context, billNo string, status domain.BillStatus) error
	SumNetBilled(ctx context.Context, studentID string, sessionID int32) (int64, error)
	CountPaid(ctx context.Context, billNos []string) (int32, error)
	DeleteByBillNos(ctx context.Context, billNos []string) (int64, error)
	ListBySession(ctx context.Context, sessionID int32) ([]domain.DemandBill, error)
	// MarkOverdue flips open unpaid bills past their due date to OVERDUE and
	// returns the number of rows changed.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
	// ListOverdue returns bills whose due date is more than graceDays past,
	// still carrying a balance.
	ListOverdue(ctx context.Context, asOf time.Time, graceDays int) ([]domain.DemandBill, error)
}

// TransactionQuery filters the transaction listing.
type TransactionQuery struct {
	StudentID   string
	SessionID   int32
	StudentName string
	ClassName   string
	Section     string
	DateFrom    *time.Time
	DateTo      *time.Time
}

type TransactionRepository interface {
	// Create persists the transaction and its payment details in a single
	// database transaction. Rows are immutable afterwards.
	Create(ctx context.Context, txn *domain.FeeTransaction) error
	GetByReceiptNo(ctx context.Context, receiptNo string) (*domain.FeeTransaction, error)
	SumPaid(ctx context.Context, studentID string, sessionID int32) (int64, error)
	// ListByStudent returns transactions with details, date ascending,
	// optionally bounded by [from, to].
	ListByStudent(ctx context.Context, studentID string, sessionID int32, from, to *time.Time) ([]domain.FeeTransaction, error)
	Query(ctx context.Context, q TransactionQuery) ([]domain.FeeTransaction, error)
}

type StudentRepository interface {
	// GetByID resolves the student with their active transport assignment.
	GetByID(ctx context.Context, studentID string) (*domain.Student, error)
	ListByIDs(ctx context.Context, studentIDs []string) ([]domain.Student, error)
	// ListActive returns active students in a session, optionally narrowed by
	// class and section.
	ListActive(ctx context.Context, sessionID int32, className, section string) ([]domain.Student, error)
}

type SessionRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.AcademicSession, error)
	GetActive(ctx context.Context) (*domain.AcademicSession, error)
}
