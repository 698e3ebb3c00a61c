package service

import (
	"bytes"
	"fmt"
	"strings"

	"schoolfee-backend/internal/config"
	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/utils"
)

// textRenderer emits fixed-width plain-text receipts and bills suitable for
// thermal printers. Amounts come straight from the stored figures.
type textRenderer struct {
	school config.SchoolConfig
}

func NewTextRenderer(school config.SchoolConfig) Renderer {
	return &textRenderer{school: school}
}

const rendererWidth = 58

func (r *textRenderer) RenderReceipt(receipt *domain.ReceiptSummary) ([]byte, error) {
	var buf bytes.Buffer
	r.header(&buf, "FEE RECEIPT")

	fmt.Fprintf(&buf, "Receipt No : %s\n", receipt.ReceiptNo)
	fmt.Fprintf(&buf, "Date       : %s\n", receipt.Date.Format("02 Jan 2006 15:04"))
	fmt.Fprintf(&buf, "Student    : %s (%s)\n", receipt.StudentName, receipt.StudentID)
	fmt.Fprintf(&buf, "Class      : %s\n", receipt.ClassName)
	fmt.Fprintf(&buf, "Mode       : %s\n", receipt.PaymentMode)
	if receipt.BillNo != "" {
		fmt.Fprintf(&buf, "Against    : %s\n", receipt.BillNo)
	}
	if receipt.IsAdvance {
		buf.WriteString("Advance payment\n")
	}
	rule(&buf)

	fmt.Fprintf(&buf, "%-28s %9s %9s %9s\n", "Fee Head", "Amount", "Disc", "Net")
	for _, line := range receipt.Lines {
		fmt.Fprintf(&buf, "%-28s %9s %9s %9s\n",
			truncate(line.FeeType, 28),
			utils.FormatPaise(line.AmountPaise),
			utils.FormatPaise(line.DiscountPaise),
			utils.FormatPaise(line.NetAmountPaise))
	}
	rule(&buf)
	fmt.Fprintf(&buf, "%-28s %29s\n", "TOTAL PAID", utils.FormatPaise(receipt.AmountPaise))
	r.footer(&buf)
	return buf.Bytes(), nil
}

func (r *textRenderer) RenderBill(bill *domain.DemandBill, student *domain.Student) ([]byte, error) {
	var buf bytes.Buffer
	r.header(&buf, "DEMAND BILL")

	fmt.Fprintf(&buf, "Bill No    : %s\n", bill.BillNo)
	fmt.Fprintf(&buf, "Period     : %02d/%d\n", bill.Month, bill.Year)
	fmt.Fprintf(&buf, "Student    : %s (%s)\n", student.Name, student.StudentID)
	fmt.Fprintf(&buf, "Class      : %s %s\n", student.ClassName, student.Section)
	fmt.Fprintf(&buf, "Due Date   : %s\n", bill.DueDate.Format("02 Jan 2006"))
	rule(&buf)

	fmt.Fprintf(&buf, "%-28s %9s %9s %9s\n", "Fee Head", "Amount", "Disc", "Net")
	for _, it := range bill.Items {
		fmt.Fprintf(&buf, "%-28s %9s %9s %9s\n",
			truncate(it.FeeTypeName, 28),
			utils.FormatPaise(it.AmountPaise),
			utils.FormatPaise(it.DiscountAmountPaise),
			utils.FormatPaise(it.AmountPaise-it.DiscountAmountPaise))
	}
	rule(&buf)
	fmt.Fprintf(&buf, "%-38s %19s\n", "Total", utils.FormatPaise(bill.TotalAmountPaise))
	fmt.Fprintf(&buf, "%-38s %19s\n", "Discount", utils.FormatPaise(bill.DiscountPaise))
	if bill.PreviousDuesPaise > 0 {
		fmt.Fprintf(&buf, "%-38s %19s\n", "Previous Dues", utils.FormatPaise(bill.PreviousDuesPaise))
	}
	if bill.AdvanceUsedPaise > 0 {
		fmt.Fprintf(&buf, "%-38s %19s\n", "Advance Adjusted", utils.FormatPaise(bill.AdvanceUsedPaise))
	}
	fmt.Fprintf(&buf, "%-38s %19s\n", "NET PAYABLE", utils.FormatPaise(bill.NetAmountPaise))
	if bill.PaidAmountPaise > 0 {
		fmt.Fprintf(&buf, "%-38s %19s\n", "Paid", utils.FormatPaise(bill.PaidAmountPaise))
		fmt.Fprintf(&buf, "%-38s %19s\n", "Balance", utils.FormatPaise(bill.Balance()))
	}
	r.footer(&buf)
	return buf.Bytes(), nil
}

func (r *textRenderer) header(buf *bytes.Buffer, title string) {
	center(buf, r.school.Name)
	if r.school.Address != "" {
		center(buf, r.school.Address)
	}
	if r.school.Phone != "" {
		center(buf, "Phone: "+r.school.Phone)
	}
	rule(buf)
	center(buf, title)
	rule(buf)
}

func (r *textRenderer) footer(buf *bytes.Buffer) {
	rule(buf)
	if r.school.Notes != "" {
		center(buf, r.school.Notes)
	}
}

func rule(buf *bytes.Buffer) {
	buf.WriteString(strings.Repeat("-", rendererWidth))
	buf.WriteByte('\n')
}

func center(buf *bytes.Buffer, s string) {
	s = truncate(s, rendererWidth)
	pad := (rendererWidth - len(s)) / 2
	if pad > 0 {
		buf.WriteString(strings.Repeat(" ", pad))
	}
	buf.WriteString(s)
	buf.WriteByte('\n')
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
