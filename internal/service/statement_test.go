package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/service"
)

type statementFixture struct {
	billRepo    *MockBillRepo
	txnRepo     *MockTransactionRepo
	studentRepo *MockStudentRepo
	sessionRepo *MockSessionRepo
	svc         service.StatementService
}

func newStatementFixture() *statementFixture {
	f := &statementFixture{
		billRepo:    new(MockBillRepo),
		txnRepo:     new(MockTransactionRepo),
		studentRepo: new(MockStudentRepo),
		sessionRepo: new(MockSessionRepo),
	}
	f.svc = service.NewStatementService(f.billRepo, f.txnRepo, f.studentRepo, f.sessionRepo)
	return f
}

func (f *statementFixture) expectLedger(bills []domain.DemandBill, txns []domain.FeeTransaction) {
	f.studentRepo.On("GetByID", mock.Anything, "S1").Return(&domain.Student{
		StudentID: "S1", Name: "Asha Verma", ClassName: "5", Section: "A", SessionID: 1, Status: "active",
	}, nil)
	f.sessionRepo.On("GetByID", mock.Anything, int32(1)).Return(&domain.AcademicSession{
		ID: 1, Name: "2024-25", IsActive: true,
	}, nil)
	f.billRepo.On("ListByStudent", mock.Anything, "S1", int32(1)).Return(bills, nil)
	f.txnRepo.On("ListByStudent", mock.Anything, "S1", int32(1), (*time.Time)(nil), (*time.Time)(nil)).
		Return(txns, nil)
}

// ledgerBill builds a bill whose cached net already matches the items.
func ledgerBill(billNo string, month int, items []domain.BillItem) domain.DemandBill {
	var net int64
	for _, it := range items {
		net += it.AmountPaise - it.DiscountAmountPaise
	}
	return domain.DemandBill{
		BillNo:         billNo,
		StudentID:      "S1",
		SessionID:      1,
		Month:          month,
		Year:           2024,
		NetAmountPaise: net,
		Status:         domain.BillStatusPending,
		DueDate:        time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Items:          items,
	}
}

func paymentTxn(receiptNo string, date time.Time, details []domain.FeePaymentDetail) domain.FeeTransaction {
	var total int64
	for _, d := range details {
		total += d.NetAmountPaise
	}
	return domain.FeeTransaction{
		ReceiptNo:   receiptNo,
		StudentID:   "S1",
		SessionID:   1,
		AmountPaise: total,
		PaymentMode: domain.PaymentModeCash,
		Date:        date,
		Details:     details,
	}
}

func TestStatementService_GetStudentStatement(t *testing.T) {
	ctx := context.Background()
	april := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)

	t.Run("AggregatesHeadsFromSnapshots", func(t *testing.T) {
		f := newStatementFixture()
		f.expectLedger(
			[]domain.DemandBill{ledgerBill("BILL202404-aaaa0001", 4, []domain.BillItem{
				{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 100000, DiscountAmountPaise: 10000},
				{FeeTypeID: 2, FeeTypeName: "Transport Fee", AmountPaise: 20000},
			})},
			[]domain.FeeTransaction{paymentTxn("REC-00000001", april, []domain.FeePaymentDetail{
				{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 50000, NetAmountPaise: 50000},
			})},
		)

		stmt, err := f.svc.GetStudentStatement(ctx, "S1", 1)
		require.NoError(t, err)

		require.Len(t, stmt.FeeHeads, 2)
		tuition := stmt.FeeHeads[0]
		assert.Equal(t, "Tuition Fee", tuition.FeeType)
		assert.Equal(t, int64(100000), tuition.GrossPaise)
		assert.Equal(t, int64(10000), tuition.DiscountPaise)
		assert.Equal(t, int64(90000), tuition.NetPaise)
		assert.Equal(t, int64(50000), tuition.PaidPaise)
		assert.Equal(t, int64(40000), tuition.BalancePaise)

		transport := stmt.FeeHeads[1]
		assert.Equal(t, int64(20000), transport.BalancePaise)

		assert.Equal(t, int64(60000), stmt.Summary.TotalDuesPaise)
		assert.Equal(t, int64(50000), stmt.Summary.TotalPaidPaise)
		assert.Equal(t, "2024-25", stmt.Session)
	})

	t.Run("OverpaidHeadSurfacesCredit", func(t *testing.T) {
		f := newStatementFixture()
		f.expectLedger(
			[]domain.DemandBill{ledgerBill("BILL202404-aaaa0001", 4, []domain.BillItem{
				{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 90000},
			})},
			[]domain.FeeTransaction{paymentTxn("REC-00000001", april, []domain.FeePaymentDetail{
				{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 100000, NetAmountPaise: 100000},
			})},
		)

		stmt, err := f.svc.GetStudentStatement(ctx, "S1", 1)
		require.NoError(t, err)

		head := stmt.FeeHeads[0]
		assert.Equal(t, int64(0), head.BalancePaise)
		assert.Equal(t, int64(10000), head.AdvancePaise)
		assert.Equal(t, int64(0), stmt.Summary.TotalDuesPaise)
		assert.Equal(t, int64(10000), stmt.Summary.TotalAdvancePaise)
		// Spendable credit comes from the totals, not the per-head negatives.
		assert.Equal(t, int64(10000), stmt.Summary.AdvanceBalancePaise)
	})

	t.Run("CancelledBillsExcluded", func(t *testing.T) {
		f := newStatementFixture()
		cancelled := ledgerBill("BILL202404-aaaa0001", 4, []domain.BillItem{
			{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 100000},
		})
		cancelled.Status = domain.BillStatusCancelled
		f.expectLedger([]domain.DemandBill{cancelled}, nil)

		stmt, err := f.svc.GetStudentStatement(ctx, "S1", 1)
		require.NoError(t, err)
		assert.Empty(t, stmt.FeeHeads)
		assert.Empty(t, stmt.PendingBills)
		assert.Equal(t, int64(0), stmt.Summary.TotalDuesPaise)
	})

	t.Run("PendingBillsOldestFirst", func(t *testing.T) {
		f := newStatementFixture()
		may := ledgerBill("BILL202405-bbbb0002", 5, []domain.BillItem{
			{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 100000},
		})
		april := ledgerBill("BILL202404-aaaa0001", 4, []domain.BillItem{
			{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 100000},
		})
		paid := ledgerBill("BILL202403-cccc0003", 3, []domain.BillItem{
			{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 100000},
		})
		paid.PaidAmountPaise = 100000
		f.expectLedger([]domain.DemandBill{may, april, paid}, nil)

		stmt, err := f.svc.GetStudentStatement(ctx, "S1", 1)
		require.NoError(t, err)

		require.Len(t, stmt.PendingBills, 2)
		assert.Equal(t, "BILL202404-aaaa0001", stmt.PendingBills[0].BillNo)
		assert.Equal(t, "BILL202405-bbbb0002", stmt.PendingBills[1].BillNo)
	})
}

func TestStatementService_GetStudentDashboard(t *testing.T) {
	f := newStatementFixture()

	txns := make([]domain.FeeTransaction, 0, 7)
	for i := 0; i < 7; i++ {
		date := time.Date(2024, 4, i+1, 0, 0, 0, 0, time.UTC)
		txns = append(txns, paymentTxn("REC-0000000"+string(rune('1'+i)), date, []domain.FeePaymentDetail{
			{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 10000, NetAmountPaise: 10000},
		}))
	}
	f.expectLedger(nil, txns)

	dash, err := f.svc.GetStudentDashboard(context.Background(), "S1", 1)
	require.NoError(t, err)

	require.Len(t, dash.RecentTransactions, 5)
	// Repo returns oldest first; the dashboard keeps the latest five.
	assert.Equal(t, txns[2].ReceiptNo, dash.RecentTransactions[0].ReceiptNo)
	assert.Empty(t, dash.RecentTransactions[0].Details)
}

func TestStatementService_GetYearlyFeeBook(t *testing.T) {
	f := newStatementFixture()
	f.expectLedger(
		[]domain.DemandBill{ledgerBill("BILL202404-aaaa0001", 4, []domain.BillItem{
			{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 100000},
		})},
		[]domain.FeeTransaction{
			paymentTxn("REC-00000001", time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), []domain.FeePaymentDetail{
				{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 30000, NetAmountPaise: 30000},
			}),
			paymentTxn("REC-00000002", time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC), []domain.FeePaymentDetail{
				{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 20000, NetAmountPaise: 20000},
			}),
		},
	)

	book, err := f.svc.GetYearlyFeeBook(context.Background(), "S1", 1)
	require.NoError(t, err)

	require.Len(t, book.MonthlyPayments, 12)
	assert.Equal(t, int64(30000), book.MonthlyPayments[3].TotalPaidPaise) // April
	assert.Equal(t, int64(20000), book.MonthlyPayments[6].TotalPaidPaise) // July
	assert.Empty(t, book.MonthlyPayments[0].Transactions)
	assert.Equal(t, int64(50000), book.ClosingBalancePaise)
}

func TestStatementService_GetOutstandingReport(t *testing.T) {
	f := newStatementFixture()

	b1 := ledgerBill("BILL202404-aaaa0001", 4, []domain.BillItem{
		{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 100000},
	})
	b2 := ledgerBill("BILL202404-bbbb0002", 4, []domain.BillItem{
		{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 50000},
	})
	b2.StudentID = "S2"
	settled := ledgerBill("BILL202404-cccc0003", 4, []domain.BillItem{
		{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 40000},
	})
	settled.StudentID = "S3"
	settled.PaidAmountPaise = 40000

	f.billRepo.On("ListBySession", mock.Anything, int32(1)).
		Return([]domain.DemandBill{b1, b2, settled}, nil)
	f.studentRepo.On("ListByIDs", mock.Anything, mock.MatchedBy(func(ids []string) bool {
		return len(ids) == 2
	})).Return([]domain.Student{
		{StudentID: "S1", Name: "Asha Verma", ClassName: "5", Section: "A"},
		{StudentID: "S2", Name: "Rohan Gupta", ClassName: "3", Section: "B"},
	}, nil)

	classes, err := f.svc.GetOutstandingReport(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, classes, 2)
	// Worst class first.
	assert.Equal(t, "5", classes[0].ClassName)
	assert.Equal(t, int64(100000), classes[0].TotalOutstandingPaise)
	assert.Equal(t, "3", classes[1].ClassName)
	require.Len(t, classes[0].Students, 1)
	assert.Equal(t, "S1", classes[0].Students[0].StudentID)
	assert.Equal(t, int64(100000), classes[0].Students[0].OutstandingPaise)
}

func TestStatementService_GetBillGenerationHistory(t *testing.T) {
	f := newStatementFixture()

	batchTime := time.Date(2024, 4, 1, 9, 30, 12, 0, time.UTC)
	b1 := ledgerBill("BILL202404-aaaa0001", 4, []domain.BillItem{
		{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 100000},
	})
	b1.CreatedAt = batchTime
	b2 := ledgerBill("BILL202404-bbbb0002", 4, []domain.BillItem{
		{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 100000},
	})
	b2.StudentID = "S2"
	b2.CreatedAt = batchTime.Add(20 * time.Second) // same minute

	single := ledgerBill("BILL202405-cccc0003", 5, []domain.BillItem{
		{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 100000},
	})
	single.CreatedAt = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	f.billRepo.On("ListBySession", mock.Anything, int32(1)).
		Return([]domain.DemandBill{b1, b2, single}, nil)
	f.studentRepo.On("ListByIDs", mock.Anything, mock.Anything).Return([]domain.Student{
		{StudentID: "S1", Name: "Asha Verma", ClassName: "5", Section: "A"},
		{StudentID: "S2", Name: "Rohan Gupta", ClassName: "5", Section: "A"},
	}, nil)

	batches, err := f.svc.GetBillGenerationHistory(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, batches, 2)
	// Newest batch first.
	assert.Equal(t, "Single Student", batches[0].BillType)
	assert.Equal(t, 5, batches[0].Month)

	sectionBatch := batches[1]
	assert.Equal(t, "Entire Section", sectionBatch.BillType)
	assert.Equal(t, 2, sectionBatch.StudentCount)
	assert.Equal(t, int64(200000), sectionBatch.TotalAmountPaise)
	assert.Equal(t, []string{"5"}, sectionBatch.Classes)
	assert.Equal(t, []string{"Tuition Fee"}, sectionBatch.FeeTypes)
	assert.False(t, sectionBatch.HasPayments)
}
