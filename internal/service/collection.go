package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/logger"
	"schoolfee-backend/internal/repository"
	"schoolfee-backend/internal/utils"
)

// Older receipts recorded the target bill only in free-text remarks.
var billNoPattern = regexp.MustCompile(`BILL\d+(?:-[0-9a-f]{8})?`)

type collectionService struct {
	txnRepo     repository.TransactionRepository
	billRepo    repository.BillRepository
	feeTypeRepo repository.FeeTypeRepository
	studentRepo repository.StudentRepository
}

func NewCollectionService(
	txnRepo repository.TransactionRepository,
	billRepo repository.BillRepository,
	feeTypeRepo repository.FeeTypeRepository,
	studentRepo repository.StudentRepository,
) CollectionService {
	return &collectionService{
		txnRepo:     txnRepo,
		billRepo:    billRepo,
		feeTypeRepo: feeTypeRepo,
		studentRepo: studentRepo,
	}
}

// CollectFee records a payment and applies it to the student's bills. The
// transaction and its details are immutable once written; corrections take a
// new transaction.
func (s *collectionService) CollectFee(ctx context.Context, req CollectFeeRequest) (*domain.ReceiptSummary, error) {
	logger.EnterMethod("CollectFee", "studentID", req.StudentID, "sessionID", req.SessionID)

	student, err := s.studentRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		logger.ExitMethodWithError("CollectFee", err)
		return nil, err
	}
	if len(req.Details) == 0 {
		return nil, domain.InvalidInputf("payment details are required")
	}
	if !domain.ValidPaymentMode(req.PaymentMode) {
		return nil, domain.InvalidInputf("unknown payment mode %q", req.PaymentMode)
	}

	isAdvance := req.IsAdvance || req.PaymentMode == domain.PaymentModeAdvance

	var details []domain.FeePaymentDetail
	var total int64
	for _, d := range req.Details {
		if d.AmountPaise < 0 || d.DiscountAmountPaise < 0 {
			return nil, domain.InvalidInputf("payment amounts cannot be negative")
		}
		ft, err := s.feeTypeRepo.GetByID(ctx, d.FeeTypeID)
		if err != nil {
			return nil, err
		}
		net := d.AmountPaise - d.DiscountAmountPaise
		total += net
		details = append(details, domain.FeePaymentDetail{
			FeeTypeID:           d.FeeTypeID,
			FeeTypeName:         ft.Name,
			AmountPaise:         d.AmountPaise,
			DiscountAmountPaise: d.DiscountAmountPaise,
			NetAmountPaise:      net,
		})
	}
	if total <= 0 {
		return nil, domain.InvalidInputf("payment total must be positive")
	}

	// A payment with nothing to pay against is almost always a data-entry
	// mistake; advance payments opt out of the guard explicitly.
	if !isAdvance {
		outstanding, err := s.outstandingDues(ctx, req.StudentID, req.SessionID)
		if err != nil {
			return nil, err
		}
		if outstanding <= 0 {
			return nil, domain.BusinessRulef("student %s has no outstanding dues; flag the payment as advance to accept it", req.StudentID)
		}
	}

	var targetBill *domain.DemandBill
	if !isAdvance {
		targetBill, err = s.resolveTargetBill(ctx, req)
		if err != nil {
			logger.ExitMethodWithError("CollectFee", err)
			return nil, err
		}
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}
	txn := &domain.FeeTransaction{
		TransactionID: utils.NewTransactionID(),
		ReceiptNo:     utils.NewReceiptNo(),
		StudentID:     req.StudentID,
		SessionID:     req.SessionID,
		AmountPaise:   total,
		PaymentMode:   req.PaymentMode,
		Description:   req.Description,
		Remarks:       req.Remarks,
		CollectedBy:   req.CollectedBy,
		Date:          date,
		Details:       details,
	}
	if targetBill != nil {
		txn.BillNo = targetBill.BillNo
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		logger.ExitMethodWithError("CollectFee", err)
		return nil, err
	}

	if targetBill != nil {
		if err := s.applyPayment(ctx, targetBill, total, date); err != nil {
			logger.ExitMethodWithError("CollectFee", err)
			return nil, err
		}
	}

	receipt := buildReceipt(txn, student, isAdvance)
	logger.ExitMethod("CollectFee", "receiptNo", receipt.ReceiptNo, "amount", total)
	return receipt, nil
}

// outstandingDues sums the positive remainders across all of the student's
// bills in the session.
func (s *collectionService) outstandingDues(ctx context.Context, studentID string, sessionID int32) (int64, error) {
	bills, err := s.billRepo.ListByStudent(ctx, studentID, sessionID)
	if err != nil {
		return 0, err
	}
	var dues int64
	for i := range bills {
		if bills[i].Status == domain.BillStatusCancelled {
			continue
		}
		if remainder := bills[i].NetAmountPaise - bills[i].PaidAmountPaise; remainder > 0 {
			dues += remainder
		}
	}
	return dues, nil
}

// resolveTargetBill picks the bill a payment applies to: the explicit bill
// number wins, then a bill number parsed out of the remarks, then the oldest
// open bill. No open bill at all is fine; the payment still lands on the
// ledger.
func (s *collectionService) resolveTargetBill(ctx context.Context, req CollectFeeRequest) (*domain.DemandBill, error) {
	if req.BillNo != "" {
		bill, err := s.billRepo.GetByBillNo(ctx, req.BillNo)
		if err != nil {
			return nil, err
		}
		if bill.StudentID != req.StudentID {
			return nil, domain.InvalidInputf("bill %s does not belong to student %s", req.BillNo, req.StudentID)
		}
		return bill, nil
	}

	if m := billNoPattern.FindString(req.Remarks); m != "" {
		bill, err := s.billRepo.GetByBillNo(ctx, m)
		if err == nil && bill.StudentID == req.StudentID {
			return bill, nil
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		// A stale reference in remarks falls through to auto-targeting.
	}

	bill, err := s.billRepo.FindOldestOpen(ctx, req.StudentID, req.SessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// applyPayment adds the amount to the bill and re-syncs the cached net from
// the line items. PaidDate is set only on the full-PAID transition and
// cleared otherwise.
func (s *collectionService) applyPayment(ctx context.Context, bill *domain.DemandBill, amountPaise int64, date time.Time) error {
	dynamicNet := bill.DynamicNet()
	paid := bill.PaidAmountPaise + amountPaise

	var status domain.BillStatus
	var paidDate *time.Time
	switch {
	case paid >= dynamicNet:
		status = domain.BillStatusPaid
		d := date
		paidDate = &d
	case paid > 0:
		status = domain.BillStatusPartiallyPaid
	default:
		status = bill.Status
	}

	return s.billRepo.UpdatePayment(ctx, bill.BillNo, paid, dynamicNet, status, paidDate)
}

func (s *collectionService) GetReceipt(ctx context.Context, receiptNo string) (*domain.ReceiptSummary, error) {
	txn, err := s.txnRepo.GetByReceiptNo(ctx, receiptNo)
	if err != nil {
		return nil, err
	}
	student, err := s.studentRepo.GetByID(ctx, txn.StudentID)
	if err != nil {
		return nil, err
	}
	isAdvance := txn.PaymentMode == domain.PaymentModeAdvance
	return buildReceipt(txn, student, isAdvance), nil
}

func buildReceipt(txn *domain.FeeTransaction, student *domain.Student, isAdvance bool) *domain.ReceiptSummary {
	lines := make([]domain.ReceiptLine, 0, len(txn.Details))
	for _, d := range txn.Details {
		lines = append(lines, domain.ReceiptLine{
			FeeType:        d.FeeTypeName,
			AmountPaise:    d.AmountPaise,
			DiscountPaise:  d.DiscountAmountPaise,
			NetAmountPaise: d.NetAmountPaise,
		})
	}
	return &domain.ReceiptSummary{
		ReceiptNo:     txn.ReceiptNo,
		TransactionID: txn.TransactionID,
		AmountPaise:   txn.AmountPaise,
		Date:          txn.Date,
		PaymentMode:   txn.PaymentMode,
		IsAdvance:     isAdvance,
		BillNo:        txn.BillNo,
		StudentID:     student.StudentID,
		StudentName:   student.Name,
		ClassName:     student.ClassName,
		Lines:         lines,
	}
}
