package domain

import "time"

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

// ValidDiscountType reports whether t is a known discount type.
func ValidDiscountType(t DiscountType) bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// StudentFeeDiscount is a rule, not a historical fact: changing or deleting
// it never touches already-generated bills, because bill items snapshot the
// computed discount at generation time.
//
// For PERCENTAGE the value is a percent (e.g. 10 = 10%); for FIXED the value
// is an amount in paise.
type StudentFeeDiscount struct {
	ID            int32        `json:"id"`
	StudentID     string       `json:"student_id"`
	FeeTypeID     int32        `json:"fee_type_id"`
	FeeTypeName   string       `json:"fee_type_name"`
	SessionID     int32        `json:"session_id"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	Reason        string       `json:"reason"`
	ApprovedBy    string       `json:"approved_by"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
