package utils_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/utils"
)

func TestPercentOf(t *testing.T) {
	assert.Equal(t, int64(30000), utils.PercentOf(300000, 10))
	assert.Equal(t, int64(0), utils.PercentOf(300000, 0))
	assert.Equal(t, int64(300000), utils.PercentOf(300000, 100))
	// Half paise rounds away from zero.
	assert.Equal(t, int64(13), utils.PercentOf(1000, 1.25))
	assert.Equal(t, int64(1), utils.PercentOf(1, 50))
}

func TestDiscountAmount(t *testing.T) {
	assert.Equal(t, int64(25000), utils.DiscountAmount(100000, domain.DiscountTypePercentage, 25))
	assert.Equal(t, int64(5000), utils.DiscountAmount(100000, domain.DiscountTypeFixed, 5000))
	// Fixed discounts are not capped at gross here.
	assert.Equal(t, int64(5000), utils.DiscountAmount(1000, domain.DiscountTypeFixed, 5000))
	assert.Equal(t, int64(0), utils.DiscountAmount(100000, domain.DiscountType("unknown"), 25))
}

func TestFormatPaise(t *testing.T) {
	assert.Equal(t, "3025.50", utils.FormatPaise(302550))
	assert.Equal(t, "0.05", utils.FormatPaise(5))
	assert.Equal(t, "0.00", utils.FormatPaise(0))
	assert.Equal(t, "-12.34", utils.FormatPaise(-1234))
}

func TestPeriodBefore(t *testing.T) {
	assert.True(t, utils.PeriodBefore(2023, 12, 2024, 1))
	assert.True(t, utils.PeriodBefore(2024, 3, 2024, 4))
	assert.False(t, utils.PeriodBefore(2024, 4, 2024, 4))
	assert.False(t, utils.PeriodBefore(2024, 5, 2024, 4))
}

func TestDisplayCodes(t *testing.T) {
	billNo := utils.NewBillNo(2024, 4)
	assert.Regexp(t, regexp.MustCompile(`^BILL202404-[0-9a-f]{8}$`), billNo)

	receiptNo := utils.NewReceiptNo()
	assert.Regexp(t, regexp.MustCompile(`^REC-[0-9a-f]{8}$`), receiptNo)

	assert.NotEqual(t, utils.NewBillNo(2024, 4), utils.NewBillNo(2024, 4))
	assert.Len(t, utils.NewTransactionID(), 36)
}
