package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"schoolfee-backend/internal/config"
	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/logger"
	"schoolfee-backend/internal/repository"
	"schoolfee-backend/internal/utils"
)

const lateFeeItemName = "Late Fee"
const transportNameFragment = "Transport"

type billingService struct {
	billRepo      repository.BillRepository
	structureRepo repository.FeeStructureRepository
	discountRepo  repository.DiscountRepository
	feeTypeRepo   repository.FeeTypeRepository
	txnRepo       repository.TransactionRepository
	studentRepo   repository.StudentRepository
	sessionRepo   repository.SessionRepository
	billing       config.BillingConfig
}

func NewBillingService(
	billRepo repository.BillRepository,
	structureRepo repository.FeeStructureRepository,
	discountRepo repository.DiscountRepository,
	feeTypeRepo repository.FeeTypeRepository,
	txnRepo repository.TransactionRepository,
	studentRepo repository.StudentRepository,
	sessionRepo repository.SessionRepository,
	billing config.BillingConfig,
) BillingService {
	return &billingService{
		billRepo:      billRepo,
		structureRepo: structureRepo,
		discountRepo:  discountRepo,
		feeTypeRepo:   feeTypeRepo,
		txnRepo:       txnRepo,
		studentRepo:   studentRepo,
		sessionRepo:   sessionRepo,
		billing:       billing,
	}
}

// GenerateDemandBills bills every targeted student for the period. Students
// are processed independently; one student's failure never aborts the batch.
func (s *billingService) GenerateDemandBills(ctx context.Context, req GenerateBillsRequest) (*domain.BatchResult, error) {
	logger.EnterMethod("GenerateDemandBills", "sessionID", req.SessionID, "month", req.Month, "year", req.Year)

	if req.Month < 1 || req.Month > 12 {
		return nil, domain.InvalidInputf("month must be 1-12, got %d", req.Month)
	}
	if req.Year < 2000 {
		return nil, domain.InvalidInputf("year %d is out of range", req.Year)
	}
	if _, err := s.sessionRepo.GetByID(ctx, req.SessionID); err != nil {
		return nil, err
	}

	students, err := s.resolveStudents(ctx, req)
	if err != nil {
		logger.ExitMethodWithError("GenerateDemandBills", err)
		return nil, err
	}
	if len(students) == 0 {
		return nil, domain.NotFoundf("no students matched the generation criteria")
	}

	dueDate := s.resolveDueDate(req)
	autoLateFees := s.billing.AutoCalculateLate
	if req.AutoLateFees != nil {
		autoLateFees = *req.AutoLateFees
	}

	var selected map[int32]bool
	if len(req.SelectedFeeTypeIDs) > 0 {
		selected = make(map[int32]bool, len(req.SelectedFeeTypeIDs))
		for _, id := range req.SelectedFeeTypeIDs {
			selected[id] = true
		}
	}

	// The transport fee type is optional school configuration, looked up
	// once per batch.
	transportType, err := s.feeTypeRepo.FindByNameContains(ctx, transportNameFragment)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.ExitMethodWithError("GenerateDemandBills", err)
		return nil, err
	}

	result := &domain.BatchResult{Total: len(students)}
	for i := range students {
		student := &students[i]
		r := s.generateOne(ctx, student, req, dueDate, autoLateFees, selected, transportType)
		switch r.Status {
		case domain.GenerationSuccess:
			result.Generated++
		case domain.GenerationSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
		result.Results = append(result.Results, r)
	}

	logger.ExitMethod("GenerateDemandBills",
		"generated", result.Generated, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

func (s *billingService) generateOne(
	ctx context.Context,
	student *domain.Student,
	req GenerateBillsRequest,
	dueDate time.Time,
	autoLateFees bool,
	selected map[int32]bool,
	transportType *domain.FeeType,
) domain.GenerationResult {
	fail := func(reason string) domain.GenerationResult {
		return domain.GenerationResult{StudentID: student.StudentID, Status: domain.GenerationFailed, Reason: reason}
	}

	exists, err := s.billRepo.ExistsForPeriod(ctx, student.StudentID, req.SessionID, req.Month, req.Year)
	if err != nil {
		return fail(err.Error())
	}
	if exists {
		return domain.GenerationResult{
			StudentID: student.StudentID,
			Status:    domain.GenerationSkipped,
			Reason:    "bill already exists",
		}
	}

	structure, err := s.structureRepo.GetByClass(ctx, req.SessionID, student.ClassName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(fmt.Sprintf("fee structure not found for class %s", student.ClassName))
		}
		return fail(err.Error())
	}

	discounts, err := s.discountRepo.ListForStudent(ctx, student.StudentID, req.SessionID)
	if err != nil {
		return fail(err.Error())
	}
	discountByType := make(map[int32]domain.StudentFeeDiscount, len(discounts))
	for _, d := range discounts {
		discountByType[d.FeeTypeID] = d
	}

	var items []domain.BillItem
	var totalAmount, totalDiscount int64
	for _, it := range structure.Items {
		if strings.EqualFold(it.FeeTypeName, lateFeeItemName) {
			continue
		}
		if selected != nil && !selected[it.FeeTypeID] {
			continue
		}
		var discountAmount int64
		if d, ok := discountByType[it.FeeTypeID]; ok {
			discountAmount = utils.DiscountAmount(it.AmountPaise, d.DiscountType, d.DiscountValue)
		}
		totalAmount += it.AmountPaise
		totalDiscount += discountAmount
		items = append(items, domain.BillItem{
			FeeTypeID:           it.FeeTypeID,
			FeeTypeName:         it.FeeTypeName,
			AmountPaise:         it.AmountPaise,
			DiscountAmountPaise: discountAmount,
		})
	}

	// Transport is charged from the student's route assignment, not the
	// class structure. Transport discounts are a known gap and not applied.
	if transportType != nil && student.Transport != nil &&
		student.Transport.Status == "active" && student.Transport.MonthlyFeePaise > 0 &&
		(selected == nil || selected[transportType.ID]) {
		totalAmount += student.Transport.MonthlyFeePaise
		items = append(items, domain.BillItem{
			FeeTypeID:   transportType.ID,
			FeeTypeName: transportType.Name,
			AmountPaise: student.Transport.MonthlyFeePaise,
		})
	}

	if len(items) == 0 {
		return fail("no billable fee items for the selection")
	}

	priorBills, err := s.billRepo.ListBefore(ctx, student.StudentID, req.SessionID, req.Month, req.Year)
	if err != nil {
		return fail(err.Error())
	}
	var previousDues int64
	overdueMonths := 0
	for i := range priorBills {
		prior := &priorBills[i]
		if prior.Status == domain.BillStatusCancelled {
			continue
		}
		if remainder := prior.NetAmountPaise - prior.PaidAmountPaise; remainder > 0 {
			previousDues += remainder
			overdueMonths++
		}
	}

	if autoLateFees && overdueMonths > 0 {
		if lateItem := structure.ItemNamed(lateFeeItemName); lateItem != nil {
			lateFee := lateItem.AmountPaise * int64(overdueMonths)
			totalAmount += lateFee
			items = append(items, domain.BillItem{
				FeeTypeID:   lateItem.FeeTypeID,
				FeeTypeName: lateItem.FeeTypeName,
				AmountPaise: lateFee,
			})
		}
	}

	advance, err := s.advanceBalance(ctx, student.StudentID, req.SessionID)
	if err != nil {
		return fail(err.Error())
	}
	netBeforeAdvance := totalAmount - totalDiscount + previousDues
	advanceUsed := advance
	if advanceUsed > netBeforeAdvance {
		advanceUsed = netBeforeAdvance
	}
	if advanceUsed < 0 {
		advanceUsed = 0
	}

	bill := &domain.DemandBill{
		BillNo:            utils.NewBillNo(req.Year, req.Month),
		StudentID:         student.StudentID,
		SessionID:         req.SessionID,
		Month:             req.Month,
		Year:              req.Year,
		TotalAmountPaise:  totalAmount,
		PreviousDuesPaise: previousDues,
		AdvanceUsedPaise:  advanceUsed,
		DiscountPaise:     totalDiscount,
		NetAmountPaise:    netBeforeAdvance - advanceUsed,
		Status:            domain.BillStatusPending,
		BillDate:          time.Now(),
		DueDate:           dueDate,
		Items:             items,
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		// A concurrent generation won the insert race; same outcome as the
		// duplicate check above.
		if errors.Is(err, domain.ErrConflict) {
			return domain.GenerationResult{
				StudentID: student.StudentID,
				Status:    domain.GenerationSkipped,
				Reason:    "bill already exists",
			}
		}
		return fail(err.Error())
	}

	return domain.GenerationResult{
		StudentID:   student.StudentID,
		BillNo:      bill.BillNo,
		Status:      domain.GenerationSuccess,
		AmountPaise: bill.NetAmountPaise,
	}
}

// advanceBalance is the spendable credit: everything the student has paid in
// the session minus everything billed. Always derived, never stored.
func (s *billingService) advanceBalance(ctx context.Context, studentID string, sessionID int32) (int64, error) {
	paid, err := s.txnRepo.SumPaid(ctx, studentID, sessionID)
	if err != nil {
		return 0, err
	}
	billed, err := s.billRepo.SumNetBilled(ctx, studentID, sessionID)
	if err != nil {
		return 0, err
	}
	if advance := paid - billed; advance > 0 {
		return advance, nil
	}
	return 0, nil
}

func (s *billingService) resolveStudents(ctx context.Context, req GenerateBillsRequest) ([]domain.Student, error) {
	if len(req.StudentIDs) > 0 {
		students, err := s.studentRepo.ListByIDs(ctx, req.StudentIDs)
		if err != nil {
			return nil, err
		}
		active := students[:0]
		for _, st := range students {
			if st.Status == "active" {
				active = append(active, st)
			}
		}
		return active, nil
	}
	if len(req.ClassNames) > 0 {
		var out []domain.Student
		for _, class := range req.ClassNames {
			students, err := s.studentRepo.ListActive(ctx, req.SessionID, class, req.Section)
			if err != nil {
				return nil, err
			}
			out = append(out, students...)
		}
		return out, nil
	}
	return s.studentRepo.ListActive(ctx, req.SessionID, "", "")
}

func (s *billingService) resolveDueDate(req GenerateBillsRequest) time.Time {
	if req.DueDate != nil {
		return *req.DueDate
	}
	day := s.billing.DueDayOfMonth
	if day <= 0 {
		day = 10
	}
	// Due on the configured day of the month following the bill month.
	return time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.Local).
		AddDate(0, 1, day-1)
}

func (s *billingService) GetBill(ctx context.Context, billNo string) (*domain.DemandBill, error) {
	return s.billRepo.GetByBillNo(ctx, billNo)
}

func (s *billingService) ListStudentBills(ctx context.Context, studentID string, sessionID int32) ([]domain.DemandBill, error) {
	return s.billRepo.ListByStudent(ctx, studentID, sessionID)
}

// DeleteDemandBillBatch removes unpaid bills. A batch containing any bill
// with recorded payments is rejected whole; partial deletes would corrupt
// the dues rollup.
func (s *billingService) DeleteDemandBillBatch(ctx context.Context, billNos []string) (int64, error) {
	logger.EnterMethod("DeleteDemandBillBatch", "count", len(billNos))

	if len(billNos) == 0 {
		return 0, domain.InvalidInputf("no bill numbers given")
	}
	paid, err := s.billRepo.CountPaid(ctx, billNos)
	if err != nil {
		return 0, err
	}
	if paid > 0 {
		return 0, domain.BusinessRulef("%d of the selected bills have payments recorded and cannot be deleted", paid)
	}

	deleted, err := s.billRepo.DeleteByBillNos(ctx, billNos)
	if err != nil {
		logger.ExitMethodWithError("DeleteDemandBillBatch", err)
		return 0, err
	}
	logger.ExitMethod("DeleteDemandBillBatch", "deleted", deleted)
	return deleted, nil
}

func (s *billingService) UpdateBillStatus(ctx context.Context, billNo string, status domain.BillStatus) error {
	if status != domain.BillStatusSent && status != domain.BillStatusCancelled {
		return domain.InvalidInputf("status %q is not an operator transition", status)
	}
	bill, err := s.billRepo.GetByBillNo(ctx, billNo)
	if err != nil {
		return err
	}
	if status == domain.BillStatusCancelled && bill.PaidAmountPaise > 0 {
		return domain.BusinessRulef("bill %s has payments recorded and cannot be cancelled", billNo)
	}
	return s.billRepo.UpdateStatus(ctx, billNo, status)
}

func (s *billingService) MarkOverdueBills(ctx context.Context, asOf time.Time) (int64, error) {
	return s.billRepo.MarkOverdue(ctx, asOf)
}
