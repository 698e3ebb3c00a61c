package domain

import "time"

type FeeFrequency string

const (
	FeeFrequencyMonthly   FeeFrequency = "Monthly"
	FeeFrequencyQuarterly FeeFrequency = "Quarterly"
	FeeFrequencyYearly    FeeFrequency = "Yearly"
	FeeFrequencyOneTime   FeeFrequency = "One-time"
	FeeFrequencyRefund    FeeFrequency = "Refundable"
	FeeFrequencyNotSet    FeeFrequency = "NotSet"
)

// ValidFeeFrequency reports whether f is a known recurrence value.
func ValidFeeFrequency(f FeeFrequency) bool {
	switch f {
	case FeeFrequencyMonthly, FeeFrequencyQuarterly, FeeFrequencyYearly,
		FeeFrequencyOneTime, FeeFrequencyRefund, FeeFrequencyNotSet:
		return true
	}
	return false
}

// FeeType is a named fee category (tuition, transport, late fee, ...).
// Display fields stay editable, but a fee type referenced by structures or
// bills cannot be deleted or deactivated.
type FeeType struct {
	ID          int32        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Frequency   FeeFrequency `json:"frequency"`
	IsActive    bool         `json:"is_active"`
	IsDefault   bool         `json:"is_default"`
	CreatedAt   time.Time    `json:"created_at"`
}
