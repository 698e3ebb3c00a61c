package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/repository"
)

// MockFeeTypeRepo
type MockFeeTypeRepo struct {
	mock.Mock
}

func (m *MockFeeTypeRepo) Create(ctx context.Context, ft *domain.FeeType) error {
	args := m.Called(ctx, ft)
	return args.Error(0)
}
func (m *MockFeeTypeRepo) GetByID(ctx context.Context, id int32) (*domain.FeeType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeType), args.Error(1)
}
func (m *MockFeeTypeRepo) FindByNameContains(ctx context.Context, fragment string) (*domain.FeeType, error) {
	args := m.Called(ctx, fragment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeType), args.Error(1)
}
func (m *MockFeeTypeRepo) List(ctx context.Context, activeOnly bool) ([]domain.FeeType, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeType), args.Error(1)
}
func (m *MockFeeTypeRepo) Update(ctx context.Context, ft *domain.FeeType) error {
	args := m.Called(ctx, ft)
	return args.Error(0)
}
func (m *MockFeeTypeRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockFeeTypeRepo) CountStructureUsage(ctx context.Context, feeTypeID int32) (int32, error) {
	args := m.Called(ctx, feeTypeID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockFeeTypeRepo) CountBillUsage(ctx context.Context, feeTypeID int32) (int32, error) {
	args := m.Called(ctx, feeTypeID)
	return args.Get(0).(int32), args.Error(1)
}

// MockStructureRepo
type MockStructureRepo struct {
	mock.Mock
}

func (m *MockStructureRepo) GetByClass(ctx context.Context, sessionID int32, className string) (*domain.FeeStructure, error) {
	args := m.Called(ctx, sessionID, className)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeStructure), args.Error(1)
}
func (m *MockStructureRepo) ListBySession(ctx context.Context, sessionID int32) ([]domain.FeeStructure, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeStructure), args.Error(1)
}
func (m *MockStructureRepo) Upsert(ctx context.Context, sessionID int32, className string) (*domain.FeeStructure, error) {
	args := m.Called(ctx, sessionID, className)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeStructure), args.Error(1)
}
func (m *MockStructureRepo) UpsertItem(ctx context.Context, structureID, feeTypeID int32, amountPaise int64) error {
	args := m.Called(ctx, structureID, feeTypeID, amountPaise)
	return args.Error(0)
}
func (m *MockStructureRepo) DeleteItem(ctx context.Context, structureID, feeTypeID int32) error {
	args := m.Called(ctx, structureID, feeTypeID)
	return args.Error(0)
}

// MockDiscountRepo
type MockDiscountRepo struct {
	mock.Mock
}

func (m *MockDiscountRepo) ListForStudent(ctx context.Context, studentID string, sessionID int32) ([]domain.StudentFeeDiscount, error) {
	args := m.Called(ctx, studentID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudentFeeDiscount), args.Error(1)
}
func (m *MockDiscountRepo) Upsert(ctx context.Context, d *domain.StudentFeeDiscount) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDiscountRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBillRepo
type MockBillRepo struct {
	mock.Mock
}

func (m *MockBillRepo) Create(ctx context.Context, bill *domain.DemandBill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}
func (m *MockBillRepo) GetByBillNo(ctx context.Context, billNo string) (*domain.DemandBill, error) {
	args := m.Called(ctx, billNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DemandBill), args.Error(1)
}
func (m *MockBillRepo) ExistsForPeriod(ctx context.Context, studentID string, sessionID int32, month, year int) (bool, error) {
	args := m.Called(ctx, studentID, sessionID, month, year)
	return args.Bool(0), args.Error(1)
}
func (m *MockBillRepo) ListByStudent(ctx context.Context, studentID string, sessionID int32) ([]domain.DemandBill, error) {
	args := m.Called(ctx, studentID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DemandBill), args.Error(1)
}
func (m *MockBillRepo) ListBefore(ctx context.Context, studentID string, sessionID int32, month, year int) ([]domain.DemandBill, error) {
	args := m.Called(ctx, studentID, sessionID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DemandBill), args.Error(1)
}
func (m *MockBillRepo) FindOldestOpen(ctx context.Context, studentID string, sessionID int32) (*domain.DemandBill, error) {
	args := m.Called(ctx, studentID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DemandBill), args.Error(1)
}
func (m *MockBillRepo) UpdatePayment(ctx context.Context, billNo string, paidPaise, netPaise int64, status domain.BillStatus, paidDate *time.Time) error {
	args := m.Called(ctx, billNo, paidPaise, netPaise, status, paidDate)
	return args.Error(0)
}
func (m *MockBillRepo) UpdateStatus(ctx context.Context, billNo string, status domain.BillStatus) error {
	args := m.Called(ctx, billNo, status)
	return args.Error(0)
}
func (m *MockBillRepo) SumNetBilled(ctx context.Context, studentID string, sessionID int32) (int64, error) {
	args := m.Called(ctx, studentID, sessionID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBillRepo) CountPaid(ctx context.Context, billNos []string) (int32, error) {
	args := m.Called(ctx, billNos)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockBillRepo) DeleteByBillNos(ctx context.Context, billNos []string) (int64, error) {
	args := m.Called(ctx, billNos)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBillRepo) ListBySession(ctx context.Context, sessionID int32) ([]domain.DemandBill, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DemandBill), args.Error(1)
}
func (m *MockBillRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBillRepo) ListOverdue(ctx context.Context, asOf time.Time, graceDays int) ([]domain.DemandBill, error) {
	args := m.Called(ctx, asOf, graceDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DemandBill), args.Error(1)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, txn *domain.FeeTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByReceiptNo(ctx context.Context, receiptNo string) (*domain.FeeTransaction, error) {
	args := m.Called(ctx, receiptNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeTransaction), args.Error(1)
}
func (m *MockTransactionRepo) SumPaid(ctx context.Context, studentID string, sessionID int32) (int64, error) {
	args := m.Called(ctx, studentID, sessionID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockTransactionRepo) ListByStudent(ctx context.Context, studentID string, sessionID int32, from, to *time.Time) ([]domain.FeeTransaction, error) {
	args := m.Called(ctx, studentID, sessionID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeTransaction), args.Error(1)
}
func (m *MockTransactionRepo) Query(ctx context.Context, q repository.TransactionQuery) ([]domain.FeeTransaction, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeTransaction), args.Error(1)
}

// MockStudentRepo
type MockStudentRepo struct {
	mock.Mock
}

func (m *MockStudentRepo) GetByID(ctx context.Context, studentID string) (*domain.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}
func (m *MockStudentRepo) ListByIDs(ctx context.Context, studentIDs []string) ([]domain.Student, error) {
	args := m.Called(ctx, studentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}
func (m *MockStudentRepo) ListActive(ctx context.Context, sessionID int32, className, section string) ([]domain.Student, error) {
	args := m.Called(ctx, sessionID, className, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}

// MockSessionRepo
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) GetByID(ctx context.Context, id int32) (*domain.AcademicSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AcademicSession), args.Error(1)
}
func (m *MockSessionRepo) GetActive(ctx context.Context) (*domain.AcademicSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AcademicSession), args.Error(1)
}
