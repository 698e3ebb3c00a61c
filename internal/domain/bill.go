package domain

import "time"

type BillStatus string

const (
	BillStatusPending       BillStatus = "PENDING"
	BillStatusSent          BillStatus = "SENT"
	BillStatusPartiallyPaid BillStatus = "PARTIALLY_PAID"
	BillStatusPaid          BillStatus = "PAID"
	BillStatusOverdue       BillStatus = "OVERDUE"
	BillStatusCancelled     BillStatus = "CANCELLED"
)

// OpenBillStatuses are the statuses a payment can still be applied to,
// in the priority order used for auto-targeting.
var OpenBillStatuses = []BillStatus{
	BillStatusPending,
	BillStatusSent,
	BillStatusPartiallyPaid,
	BillStatusOverdue,
}

// DemandBill is the ledger entry: one bill per (student, session, month,
// year), enforced by a storage-level unique constraint. Line items are
// immutable after creation; only PaidAmountPaise, NetAmountPaise, Status and
// PaidDate are mutated afterwards, and only by the payment collector.
type DemandBill struct {
	ID                int32      `json:"id"`
	BillNo            string     `json:"bill_no"`
	StudentID         string     `json:"student_id"`
	SessionID         int32      `json:"session_id"`
	Month             int        `json:"month"`
	Year              int        `json:"year"`
	TotalAmountPaise  int64      `json:"total_amount_paise"`  // gross, before discount
	PreviousDuesPaise int64      `json:"previous_dues_paise"` // unpaid remainder rolled forward
	AdvanceUsedPaise  int64      `json:"advance_used_paise"`  // advance credit applied at generation
	DiscountPaise     int64      `json:"discount_paise"`      // sum of item discount snapshots
	NetAmountPaise    int64      `json:"net_amount_paise"`    // cache of DynamicNet, synced transactionally
	PaidAmountPaise   int64      `json:"paid_amount_paise"`   // monotonically non-decreasing
	Status            BillStatus `json:"status"`
	BillDate          time.Time  `json:"bill_date"`
	DueDate           time.Time  `json:"due_date"`
	PaidDate          *time.Time `json:"paid_date,omitempty"`
	Items             []BillItem `json:"items"`
	CreatedAt         time.Time  `json:"created_at"`
}

// BillItem snapshots one fee head at generation time. Amount is gross;
// DiscountAmount is the discount computed from the rules in force when the
// bill was generated. Neither changes afterwards.
type BillItem struct {
	ID                  int32  `json:"id"`
	BillID              int32  `json:"bill_id"`
	FeeTypeID           int32  `json:"fee_type_id"`
	FeeTypeName         string `json:"fee_type_name"`
	AmountPaise         int64  `json:"amount_paise"`
	DiscountAmountPaise int64  `json:"discount_amount_paise"`
}

// DynamicNet derives the payable amount from the immutable line items
// instead of trusting the stored NetAmountPaise, which is only a cache.
// Every code path that needs the bill's net uses this one derivation.
func (b *DemandBill) DynamicNet() int64 {
	var gross, discount int64
	for _, it := range b.Items {
		gross += it.AmountPaise
		discount += it.DiscountAmountPaise
	}
	return gross - discount + b.PreviousDuesPaise - b.AdvanceUsedPaise
}

// Balance is the remaining payable on the bill, never negative.
func (b *DemandBill) Balance() int64 {
	bal := b.DynamicNet() - b.PaidAmountPaise
	if bal < 0 {
		return 0
	}
	return bal
}

// DynamicStatus recomputes the display status from the current balance and
// due date, since the stored status can go stale between generation and
// query time. Cancelled bills keep their status.
func (b *DemandBill) DynamicStatus(now time.Time) BillStatus {
	if b.Status == BillStatusCancelled {
		return BillStatusCancelled
	}
	balance := b.DynamicNet() - b.PaidAmountPaise
	switch {
	case balance <= 0:
		return BillStatusPaid
	case b.PaidAmountPaise > 0:
		return BillStatusPartiallyPaid
	case now.After(b.DueDate):
		return BillStatusOverdue
	default:
		return BillStatusPending
	}
}

// GenerationStatus labels a per-student outcome of a generation batch.
type GenerationStatus string

const (
	GenerationSuccess GenerationStatus = "success"
	GenerationSkipped GenerationStatus = "skipped"
	GenerationFailed  GenerationStatus = "failed"
)

// GenerationResult reports one student's outcome within a batch.
type GenerationResult struct {
	StudentID   string           `json:"student_id"`
	BillNo      string           `json:"bill_no,omitempty"`
	Status      GenerationStatus `json:"status"`
	AmountPaise int64            `json:"amount_paise,omitempty"`
	Reason      string           `json:"reason,omitempty"`
}

// BatchResult summarizes a generation batch. The batch never aborts on a
// single student's failure; failures are isolated and reported here.
type BatchResult struct {
	Total     int                `json:"total"`
	Generated int                `json:"generated"`
	Skipped   int                `json:"skipped"`
	Failed    int                `json:"failed"`
	Results   []GenerationResult `json:"results"`
}
