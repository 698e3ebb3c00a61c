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

type collectionFixture struct {
	txnRepo     *MockTransactionRepo
	billRepo    *MockBillRepo
	feeTypeRepo *MockFeeTypeRepo
	studentRepo *MockStudentRepo
	svc         service.CollectionService
}

func newCollectionFixture() *collectionFixture {
	f := &collectionFixture{
		txnRepo:     new(MockTransactionRepo),
		billRepo:    new(MockBillRepo),
		feeTypeRepo: new(MockFeeTypeRepo),
		studentRepo: new(MockStudentRepo),
	}
	f.svc = service.NewCollectionService(f.txnRepo, f.billRepo, f.feeTypeRepo, f.studentRepo)
	return f
}

func (f *collectionFixture) expectStudent() {
	f.studentRepo.On("GetByID", mock.Anything, "S1").Return(&domain.Student{
		StudentID: "S1", Name: "Asha Verma", ClassName: "5", Section: "A", SessionID: 1, Status: "active",
	}, nil)
}

func (f *collectionFixture) expectTuitionType() {
	f.feeTypeRepo.On("GetByID", mock.Anything, int32(1)).
		Return(&domain.FeeType{ID: 1, Name: "Tuition Fee"}, nil)
}

// openBill has a dynamic net of 1000 rupees from a single tuition item.
func openBill(billNo string, paid int64) *domain.DemandBill {
	return &domain.DemandBill{
		BillNo:          billNo,
		StudentID:       "S1",
		SessionID:       1,
		Month:           4,
		Year:            2024,
		NetAmountPaise:  100000,
		PaidAmountPaise: paid,
		Status:          domain.BillStatusPending,
		Items: []domain.BillItem{
			{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 100000},
		},
	}
}

func tuitionPayment(amount int64) service.CollectFeeRequest {
	date := time.Date(2024, 4, 20, 10, 0, 0, 0, time.UTC)
	return service.CollectFeeRequest{
		StudentID:   "S1",
		SessionID:   1,
		Details:     []service.PaymentDetailInput{{FeeTypeID: 1, AmountPaise: amount}},
		PaymentMode: domain.PaymentModeCash,
		Date:        &date,
	}
}

func TestCollectionService_CollectFee(t *testing.T) {
	ctx := context.Background()

	t.Run("NoDuesRejectedUnlessAdvance", func(t *testing.T) {
		f := newCollectionFixture()
		f.expectStudent()
		f.expectTuitionType()
		f.billRepo.On("ListByStudent", mock.Anything, "S1", int32(1)).Return([]domain.DemandBill{
			*openBill("BILL202404-aaaa0001", 100000), // fully paid
		}, nil)

		_, err := f.svc.CollectFee(ctx, tuitionPayment(40000))
		assert.ErrorIs(t, err, domain.ErrBusinessRule)
		f.txnRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("AdvanceBypassesGuardAndSkipsTargeting", func(t *testing.T) {
		f := newCollectionFixture()
		f.expectStudent()
		f.expectTuitionType()

		var created *domain.FeeTransaction
		f.txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FeeTransaction")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*domain.FeeTransaction) }).
			Return(nil)

		req := tuitionPayment(50000)
		req.IsAdvance = true
		receipt, err := f.svc.CollectFee(ctx, req)
		require.NoError(t, err)

		assert.True(t, receipt.IsAdvance)
		assert.Empty(t, receipt.BillNo)
		require.NotNil(t, created)
		assert.Empty(t, created.BillNo)
		f.billRepo.AssertNotCalled(t, "FindOldestOpen", mock.Anything, mock.Anything, mock.Anything)
		f.billRepo.AssertNotCalled(t, "UpdatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PartialPaymentLeavesBillPartiallyPaid", func(t *testing.T) {
		f := newCollectionFixture()
		f.expectStudent()
		f.expectTuitionType()
		bill := openBill("BILL202404-aaaa0001", 0)
		f.billRepo.On("ListByStudent", mock.Anything, "S1", int32(1)).Return([]domain.DemandBill{*bill}, nil)
		f.billRepo.On("FindOldestOpen", mock.Anything, "S1", int32(1)).Return(bill, nil)
		f.txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FeeTransaction")).Return(nil)
		f.billRepo.On("UpdatePayment", mock.Anything, "BILL202404-aaaa0001",
			int64(40000), int64(100000), domain.BillStatusPartiallyPaid, (*time.Time)(nil)).Return(nil)

		receipt, err := f.svc.CollectFee(ctx, tuitionPayment(40000))
		require.NoError(t, err)
		assert.Equal(t, "BILL202404-aaaa0001", receipt.BillNo)
		assert.Equal(t, int64(40000), receipt.AmountPaise)
		f.billRepo.AssertExpectations(t)
	})

	t.Run("FullPaymentSetsPaidAndPaidDate", func(t *testing.T) {
		f := newCollectionFixture()
		f.expectStudent()
		f.expectTuitionType()
		bill := openBill("BILL202404-aaaa0001", 40000)
		bill.Status = domain.BillStatusPartiallyPaid
		f.billRepo.On("ListByStudent", mock.Anything, "S1", int32(1)).Return([]domain.DemandBill{*bill}, nil)
		f.billRepo.On("FindOldestOpen", mock.Anything, "S1", int32(1)).Return(bill, nil)
		f.txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FeeTransaction")).Return(nil)
		f.billRepo.On("UpdatePayment", mock.Anything, "BILL202404-aaaa0001",
			int64(100000), int64(100000), domain.BillStatusPaid,
			mock.MatchedBy(func(d *time.Time) bool { return d != nil })).Return(nil)

		_, err := f.svc.CollectFee(ctx, tuitionPayment(60000))
		require.NoError(t, err)
		f.billRepo.AssertExpectations(t)
	})

	t.Run("ExplicitBillNoMustBelongToStudent", func(t *testing.T) {
		f := newCollectionFixture()
		f.expectStudent()
		f.expectTuitionType()
		other := openBill("BILL202404-bbbb0002", 0)
		other.StudentID = "S2"
		f.billRepo.On("ListByStudent", mock.Anything, "S1", int32(1)).Return([]domain.DemandBill{
			*openBill("BILL202404-aaaa0001", 0),
		}, nil)
		f.billRepo.On("GetByBillNo", mock.Anything, "BILL202404-bbbb0002").Return(other, nil)

		req := tuitionPayment(40000)
		req.BillNo = "BILL202404-bbbb0002"
		_, err := f.svc.CollectFee(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("RemarksBillReferenceTargetsBill", func(t *testing.T) {
		f := newCollectionFixture()
		f.expectStudent()
		f.expectTuitionType()
		bill := openBill("BILL202403-cccc0003", 0)
		bill.Month = 3
		f.billRepo.On("ListByStudent", mock.Anything, "S1", int32(1)).Return([]domain.DemandBill{*bill}, nil)
		f.billRepo.On("GetByBillNo", mock.Anything, "BILL202403-cccc0003").Return(bill, nil)
		f.txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FeeTransaction")).Return(nil)
		f.billRepo.On("UpdatePayment", mock.Anything, "BILL202403-cccc0003",
			int64(40000), int64(100000), domain.BillStatusPartiallyPaid, (*time.Time)(nil)).Return(nil)

		req := tuitionPayment(40000)
		req.Remarks = "carried over from ledger, see BILL202403-cccc0003"
		receipt, err := f.svc.CollectFee(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "BILL202403-cccc0003", receipt.BillNo)
		f.billRepo.AssertNotCalled(t, "FindOldestOpen", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmptyDetailsRejected", func(t *testing.T) {
		f := newCollectionFixture()
		f.expectStudent()

		req := tuitionPayment(40000)
		req.Details = nil
		_, err := f.svc.CollectFee(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("NonPositiveTotalRejected", func(t *testing.T) {
		f := newCollectionFixture()
		f.expectStudent()
		f.expectTuitionType()

		req := tuitionPayment(40000)
		req.Details = []service.PaymentDetailInput{{FeeTypeID: 1, AmountPaise: 5000, DiscountAmountPaise: 5000}}
		_, err := f.svc.CollectFee(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCollectionService_GetReceipt(t *testing.T) {
	ctx := context.Background()

	f := newCollectionFixture()
	f.expectStudent()
	f.txnRepo.On("GetByReceiptNo", mock.Anything, "REC-deadbeef").Return(&domain.FeeTransaction{
		TransactionID: "3f1d2c4e", ReceiptNo: "REC-deadbeef", StudentID: "S1", SessionID: 1,
		AmountPaise: 40000, PaymentMode: domain.PaymentModeUPI,
		Details: []domain.FeePaymentDetail{
			{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 40000, NetAmountPaise: 40000},
		},
	}, nil)

	receipt, err := f.svc.GetReceipt(ctx, "REC-deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "REC-deadbeef", receipt.ReceiptNo)
	assert.Equal(t, "Asha Verma", receipt.StudentName)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, int64(40000), receipt.Lines[0].NetAmountPaise)
}
