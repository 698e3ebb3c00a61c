package service

import (
	"context"
	"sort"
	"time"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/logger"
	"schoolfee-backend/internal/repository"
)

const dashboardRecentTransactions = 5

// statementService derives every view from stored bill and transaction
// snapshots. It never persists anything.
type statementService struct {
	billRepo    repository.BillRepository
	txnRepo     repository.TransactionRepository
	studentRepo repository.StudentRepository
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

func NewStatementService(
	billRepo repository.BillRepository,
	txnRepo repository.TransactionRepository,
	studentRepo repository.StudentRepository,
	sessionRepo repository.SessionRepository,
) StatementService {
	return &statementService{
		billRepo:    billRepo,
		txnRepo:     txnRepo,
		studentRepo: studentRepo,
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

func (s *statementService) GetStudentStatement(ctx context.Context, studentID string, sessionID int32) (*domain.Statement, error) {
	logger.EnterMethod("GetStudentStatement", "studentID", studentID, "sessionID", sessionID)

	student, session, bills, txns, err := s.loadLedger(ctx, studentID, sessionID)
	if err != nil {
		logger.ExitMethodWithError("GetStudentStatement", err)
		return nil, err
	}

	heads, summary := aggregateHeads(bills, txns)
	stmt := &domain.Statement{
		Student:      statementStudent(student),
		Session:      session.Name,
		FeeHeads:     heads,
		Summary:      summary,
		Transactions: transactionViews(txns, true),
		PendingBills: pendingBillViews(bills, s.now()),
	}
	logger.ExitMethod("GetStudentStatement", "dues", summary.TotalDuesPaise)
	return stmt, nil
}

func (s *statementService) GetStudentDashboard(ctx context.Context, studentID string, sessionID int32) (*domain.Dashboard, error) {
	student, _, bills, txns, err := s.loadLedger(ctx, studentID, sessionID)
	if err != nil {
		return nil, err
	}

	heads, summary := aggregateHeads(bills, txns)

	recent := txns
	if len(recent) > dashboardRecentTransactions {
		recent = recent[len(recent)-dashboardRecentTransactions:]
	}

	return &domain.Dashboard{
		Student:            statementStudent(student),
		Summary:            summary,
		FeeHeads:           heads,
		RecentTransactions: transactionViews(recent, false),
		PendingBills:       pendingBillViews(bills, s.now()),
	}, nil
}

// GetYearlyFeeBook is the printable per-student register: the fee heads plus
// every month's payments, empty months included.
func (s *statementService) GetYearlyFeeBook(ctx context.Context, studentID string, sessionID int32) (*domain.FeeBook, error) {
	student, session, bills, txns, err := s.loadLedger(ctx, studentID, sessionID)
	if err != nil {
		return nil, err
	}

	heads, summary := aggregateHeads(bills, txns)

	months := make([]domain.MonthlyPayments, 12)
	for i := range months {
		months[i].Month = i + 1
	}
	for i := range txns {
		t := &txns[i]
		m := int(t.Date.Month()) - 1
		months[m].Transactions = append(months[m].Transactions, toTransactionView(t, true))
		months[m].TotalPaidPaise += t.AmountPaise
	}

	return &domain.FeeBook{
		Student:             statementStudent(student),
		Session:             session.Name,
		OpeningBalancePaise: 0, // dues roll forward inside the session via previousDues
		FeeStructure:        heads,
		MonthlyPayments:     months,
		Summary:             summary,
		ClosingBalancePaise: summary.TotalDuesPaise - summary.AdvanceBalancePaise,
	}, nil
}

func (s *statementService) GetTransactions(ctx context.Context, q repository.TransactionQuery) ([]domain.FeeTransaction, error) {
	if q.SessionID == 0 {
		return nil, domain.InvalidInputf("session is required")
	}
	return s.txnRepo.Query(ctx, q)
}

// GetOutstandingReport groups defaulters by class, worst class first.
func (s *statementService) GetOutstandingReport(ctx context.Context, sessionID int32) ([]domain.OutstandingClass, error) {
	logger.EnterMethod("GetOutstandingReport", "sessionID", sessionID)

	bills, err := s.billRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	type tally struct {
		billed, paid, outstanding int64
		bills                     []domain.DemandBill
	}
	byStudent := make(map[string]*tally)
	for i := range bills {
		b := &bills[i]
		if b.Status == domain.BillStatusCancelled {
			continue
		}
		t := byStudent[b.StudentID]
		if t == nil {
			t = &tally{}
			byStudent[b.StudentID] = t
		}
		t.billed += b.NetAmountPaise
		t.paid += b.PaidAmountPaise
		if remainder := b.NetAmountPaise - b.PaidAmountPaise; remainder > 0 {
			t.outstanding += remainder
			t.bills = append(t.bills, *b)
		}
	}

	ids := make([]string, 0, len(byStudent))
	for id, t := range byStudent {
		if t.outstanding > 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	students, err := s.studentRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	byClass := make(map[string]*domain.OutstandingClass)
	for i := range students {
		st := &students[i]
		t := byStudent[st.StudentID]
		cls := byClass[st.ClassName]
		if cls == nil {
			cls = &domain.OutstandingClass{ClassName: st.ClassName}
			byClass[st.ClassName] = cls
		}
		cls.TotalOutstandingPaise += t.outstanding
		cls.StudentCount++
		cls.Students = append(cls.Students, domain.OutstandingStudent{
			StudentID:        st.StudentID,
			Name:             st.Name,
			FatherName:       st.FatherName,
			Section:          st.Section,
			GuardianEmail:    st.GuardianEmail,
			TotalBilledPaise: t.billed,
			TotalPaidPaise:   t.paid,
			OutstandingPaise: t.outstanding,
			Bills:            pendingBillViews(t.bills, now),
		})
	}

	out := make([]domain.OutstandingClass, 0, len(byClass))
	for _, cls := range byClass {
		sort.Slice(cls.Students, func(i, j int) bool {
			return cls.Students[i].OutstandingPaise > cls.Students[j].OutstandingPaise
		})
		out = append(out, *cls)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TotalOutstandingPaise > out[j].TotalOutstandingPaise
	})

	logger.ExitMethod("GetOutstandingReport", "classes", len(out))
	return out, nil
}

// GetBillGenerationHistory reconstructs generation batches from bill
// creation times: bills created within the same minute form one batch.
func (s *statementService) GetBillGenerationHistory(ctx context.Context, sessionID int32) ([]domain.BillBatch, error) {
	bills, err := s.billRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, nil
	}

	byMinute := make(map[time.Time][]*domain.DemandBill)
	studentIDs := make(map[string]bool)
	for i := range bills {
		b := &bills[i]
		key := b.CreatedAt.Truncate(time.Minute)
		byMinute[key] = append(byMinute[key], b)
		studentIDs[b.StudentID] = true
	}

	ids := make([]string, 0, len(studentIDs))
	for id := range studentIDs {
		ids = append(ids, id)
	}
	students, err := s.studentRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	studentByID := make(map[string]*domain.Student, len(students))
	for i := range students {
		studentByID[students[i].StudentID] = &students[i]
	}

	batches := make([]domain.BillBatch, 0, len(byMinute))
	for ts, group := range byMinute {
		batch := domain.BillBatch{
			Timestamp: ts,
			Month:     group[0].Month,
			Year:      group[0].Year,
		}
		classes := make(map[string]bool)
		sections := make(map[string]bool)
		feeTypes := make(map[string]bool)
		for _, b := range group {
			batch.StudentCount++
			batch.TotalAmountPaise += b.NetAmountPaise
			batch.BillNumbers = append(batch.BillNumbers, b.BillNo)
			if b.PaidAmountPaise > 0 {
				batch.HasPayments = true
			}
			if st := studentByID[b.StudentID]; st != nil {
				classes[st.ClassName] = true
				sections[st.Section] = true
			}
			for _, it := range b.Items {
				feeTypes[it.FeeTypeName] = true
			}
		}
		batch.Classes = sortedKeys(classes)
		batch.Sections = sortedKeys(sections)
		batch.FeeTypes = sortedKeys(feeTypes)
		batch.BillType = classifyBatch(len(group), len(classes), len(sections))
		batches = append(batches, batch)
	}

	sort.Slice(batches, func(i, j int) bool {
		return batches[i].Timestamp.After(batches[j].Timestamp)
	})
	return batches, nil
}

func classifyBatch(billCount, classCount, sectionCount int) string {
	switch {
	case billCount == 1:
		return "Single Student"
	case classCount > 1:
		return "Multiple Classes"
	case sectionCount == 1:
		return "Entire Section"
	default:
		return "Entire Class"
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (s *statementService) loadLedger(ctx context.Context, studentID string, sessionID int32) (*domain.Student, *domain.AcademicSession, []domain.DemandBill, []domain.FeeTransaction, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	bills, err := s.billRepo.ListByStudent(ctx, studentID, sessionID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	txns, err := s.txnRepo.ListByStudent(ctx, studentID, sessionID, nil, nil)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return student, session, bills, txns, nil
}

// aggregateHeads folds every bill line item and every payment detail into
// per-fee-type totals. Discounts come from the stored snapshots; current
// discount rules play no part here.
func aggregateHeads(bills []domain.DemandBill, txns []domain.FeeTransaction) ([]domain.FeeHead, domain.StatementSummary) {
	byType := make(map[int32]*domain.FeeHead)
	var order []int32
	head := func(feeTypeID int32, name string) *domain.FeeHead {
		h := byType[feeTypeID]
		if h == nil {
			h = &domain.FeeHead{FeeTypeID: feeTypeID, FeeType: name}
			byType[feeTypeID] = h
			order = append(order, feeTypeID)
		}
		return h
	}

	var totalBilledNet int64
	for i := range bills {
		b := &bills[i]
		if b.Status == domain.BillStatusCancelled {
			continue
		}
		totalBilledNet += b.NetAmountPaise
		for _, it := range b.Items {
			h := head(it.FeeTypeID, it.FeeTypeName)
			h.GrossPaise += it.AmountPaise
			h.DiscountPaise += it.DiscountAmountPaise
			h.NetPaise += it.AmountPaise - it.DiscountAmountPaise
		}
	}
	for i := range txns {
		for _, d := range txns[i].Details {
			head(d.FeeTypeID, d.FeeTypeName).PaidPaise += d.NetAmountPaise
		}
	}

	var summary domain.StatementSummary
	heads := make([]domain.FeeHead, 0, len(order))
	for _, id := range order {
		h := byType[id]
		balance := h.NetPaise - h.PaidPaise
		if balance >= 0 {
			h.BalancePaise = balance
		} else {
			// Overpaid heads surface the credit instead of a negative dues
			// figure; the money is never silently dropped.
			h.BalancePaise = 0
			h.AdvancePaise = -balance
		}
		summary.TotalGrossPaise += h.GrossPaise
		summary.TotalDiscountPaise += h.DiscountPaise
		summary.TotalNetPaise += h.NetPaise
		summary.TotalPaidPaise += h.PaidPaise
		summary.TotalDuesPaise += h.BalancePaise
		summary.TotalAdvancePaise += h.AdvancePaise
		heads = append(heads, *h)
	}

	// Spendable credit reflects unbilled overpayment, so it is derived from
	// the totals, not from head-level negatives.
	var txnTotal int64
	for i := range txns {
		txnTotal += txns[i].AmountPaise
	}
	if advance := txnTotal - totalBilledNet; advance > 0 {
		summary.AdvanceBalancePaise = advance
	}
	return heads, summary
}

func statementStudent(st *domain.Student) domain.StatementStudent {
	return domain.StatementStudent{
		StudentID:  st.StudentID,
		Name:       st.Name,
		FatherName: st.FatherName,
		ClassName:  st.ClassName,
		Section:    st.Section,
	}
}

func pendingBillViews(bills []domain.DemandBill, now time.Time) []domain.PendingBillView {
	var out []domain.PendingBillView
	for i := range bills {
		b := &bills[i]
		status := b.DynamicStatus(now)
		if status == domain.BillStatusPaid || status == domain.BillStatusCancelled {
			continue
		}
		items := make([]domain.ReceiptLine, 0, len(b.Items))
		for _, it := range b.Items {
			items = append(items, domain.ReceiptLine{
				FeeType:        it.FeeTypeName,
				AmountPaise:    it.AmountPaise,
				DiscountPaise:  it.DiscountAmountPaise,
				NetAmountPaise: it.AmountPaise - it.DiscountAmountPaise,
			})
		}
		out = append(out, domain.PendingBillView{
			BillNo:           b.BillNo,
			Month:            b.Month,
			Year:             b.Year,
			DueDate:          b.DueDate,
			AmountPaise:      b.TotalAmountPaise,
			AdvanceUsedPaise: b.AdvanceUsedPaise,
			PaidPaise:        b.PaidAmountPaise,
			BalancePaise:     b.Balance(),
			Status:           status,
			Items:            items,
		})
	}
	// Oldest period first, same order payments are applied in.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

func transactionViews(txns []domain.FeeTransaction, withDetails bool) []domain.TransactionView {
	out := make([]domain.TransactionView, 0, len(txns))
	for i := range txns {
		out = append(out, toTransactionView(&txns[i], withDetails))
	}
	return out
}

func toTransactionView(t *domain.FeeTransaction, withDetails bool) domain.TransactionView {
	v := domain.TransactionView{
		ReceiptNo:   t.ReceiptNo,
		Date:        t.Date,
		AmountPaise: t.AmountPaise,
		PaymentMode: t.PaymentMode,
	}
	if withDetails {
		for _, d := range t.Details {
			v.Details = append(v.Details, domain.ReceiptLine{
				FeeType:        d.FeeTypeName,
				AmountPaise:    d.AmountPaise,
				DiscountPaise:  d.DiscountAmountPaise,
				NetAmountPaise: d.NetAmountPaise,
			})
		}
	}
	return v
}
