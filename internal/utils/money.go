package utils

import (
	"fmt"
	"math"

	"schoolfee-backend/internal/domain"
)

// All money values are integer paise. Percentage discounts are the only place
// fractional amounts can appear; they round half away from zero.

// PercentOf returns pct percent of amount in paise.
func PercentOf(amountPaise int64, pct float64) int64 {
	return int64(math.Round(float64(amountPaise) * pct / 100))
}

// DiscountAmount computes the discount for a gross amount under a rule.
// PERCENTAGE: gross * value / 100. FIXED: the value itself, in paise.
// The result may exceed gross; flooring net amounts at zero is the caller's
// responsibility, at the bill/head level.
func DiscountAmount(grossPaise int64, dtype domain.DiscountType, value float64) int64 {
	switch dtype {
	case domain.DiscountTypePercentage:
		return PercentOf(grossPaise, value)
	case domain.DiscountTypeFixed:
		return int64(math.Round(value))
	default:
		return 0
	}
}

// FormatPaise renders paise as a rupee string with two decimals, e.g. 302550
// becomes "3025.50".
func FormatPaise(p int64) string {
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	return fmt.Sprintf("%s%d.%02d", sign, p/100, p%100)
}

// PeriodBefore reports whether billing period (y1, m1) is strictly earlier
// than (y2, m2).
func PeriodBefore(y1, m1, y2, m2 int) bool {
	if y1 != y2 {
		return y1 < y2
	}
	return m1 < m2
}
