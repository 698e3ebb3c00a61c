package service

import (
	"context"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/logger"
	"schoolfee-backend/internal/repository"
)

type discountService struct {
	discountRepo repository.DiscountRepository
	feeTypeRepo  repository.FeeTypeRepository
	studentRepo  repository.StudentRepository
}

func NewDiscountService(discountRepo repository.DiscountRepository, feeTypeRepo repository.FeeTypeRepository, studentRepo repository.StudentRepository) DiscountService {
	return &discountService{discountRepo: discountRepo, feeTypeRepo: feeTypeRepo, studentRepo: studentRepo}
}

func (s *discountService) ListDiscounts(ctx context.Context, studentID string, sessionID int32) ([]domain.StudentFeeDiscount, error) {
	return s.discountRepo.ListForStudent(ctx, studentID, sessionID)
}

// UpsertDiscount validates and stores a discount rule. Rules only affect
// bills generated after the change; existing bills keep their snapshots.
func (s *discountService) UpsertDiscount(ctx context.Context, d *domain.StudentFeeDiscount) error {
	logger.EnterMethod("UpsertDiscount", "studentID", d.StudentID, "feeTypeID", d.FeeTypeID)

	if !domain.ValidDiscountType(d.DiscountType) {
		return domain.InvalidInputf("unknown discount type %q", d.DiscountType)
	}
	if d.DiscountValue < 0 {
		return domain.InvalidInputf("discount value cannot be negative")
	}
	if d.DiscountType == domain.DiscountTypePercentage && d.DiscountValue > 100 {
		return domain.InvalidInputf("percentage discount cannot exceed 100")
	}
	if _, err := s.studentRepo.GetByID(ctx, d.StudentID); err != nil {
		return err
	}
	ft, err := s.feeTypeRepo.GetByID(ctx, d.FeeTypeID)
	if err != nil {
		return err
	}
	d.FeeTypeName = ft.Name

	if err := s.discountRepo.Upsert(ctx, d); err != nil {
		logger.ExitMethodWithError("UpsertDiscount", err)
		return err
	}
	logger.ExitMethod("UpsertDiscount", "id", d.ID)
	return nil
}

func (s *discountService) DeleteDiscount(ctx context.Context, id int32) error {
	return s.discountRepo.Delete(ctx, id)
}
