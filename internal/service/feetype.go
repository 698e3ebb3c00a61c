package service

import (
	"context"
	"strings"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/logger"
	"schoolfee-backend/internal/repository"
)

type feeTypeService struct {
	feeTypeRepo repository.FeeTypeRepository
}

func NewFeeTypeService(feeTypeRepo repository.FeeTypeRepository) FeeTypeService {
	return &feeTypeService{feeTypeRepo: feeTypeRepo}
}

func (s *feeTypeService) CreateFeeType(ctx context.Context, ft *domain.FeeType) error {
	logger.EnterMethod("CreateFeeType", "name", ft.Name)

	ft.Name = strings.TrimSpace(ft.Name)
	if ft.Name == "" {
		return domain.InvalidInputf("fee type name is required")
	}
	if !domain.ValidFeeFrequency(ft.Frequency) {
		return domain.InvalidInputf("unknown fee frequency %q", ft.Frequency)
	}

	if err := s.feeTypeRepo.Create(ctx, ft); err != nil {
		logger.ExitMethodWithError("CreateFeeType", err)
		return err
	}
	logger.ExitMethod("CreateFeeType", "id", ft.ID)
	return nil
}

func (s *feeTypeService) GetFeeType(ctx context.Context, id int32) (*domain.FeeType, error) {
	return s.feeTypeRepo.GetByID(ctx, id)
}

func (s *feeTypeService) ListFeeTypes(ctx context.Context, activeOnly bool) ([]domain.FeeType, error) {
	return s.feeTypeRepo.List(ctx, activeOnly)
}

func (s *feeTypeService) UpdateFeeType(ctx context.Context, ft *domain.FeeType) error {
	logger.EnterMethod("UpdateFeeType", "id", ft.ID)

	ft.Name = strings.TrimSpace(ft.Name)
	if ft.Name == "" {
		return domain.InvalidInputf("fee type name is required")
	}
	if !domain.ValidFeeFrequency(ft.Frequency) {
		return domain.InvalidInputf("unknown fee frequency %q", ft.Frequency)
	}

	existing, err := s.feeTypeRepo.GetByID(ctx, ft.ID)
	if err != nil {
		return err
	}
	if existing.IsActive && !ft.IsActive {
		used, err := s.feeTypeRepo.CountStructureUsage(ctx, ft.ID)
		if err != nil {
			return err
		}
		if used > 0 {
			return domain.BusinessRulef("fee type %q is used by %d fee structure(s) and cannot be deactivated", existing.Name, used)
		}
	}

	if err := s.feeTypeRepo.Update(ctx, ft); err != nil {
		logger.ExitMethodWithError("UpdateFeeType", err)
		return err
	}
	logger.ExitMethod("UpdateFeeType", "id", ft.ID)
	return nil
}

// DeleteFeeType refuses to remove default fee types or any fee type still
// referenced by structures or bills. Bill references never go away, so such
// types can only be deactivated.
func (s *feeTypeService) DeleteFeeType(ctx context.Context, id int32) error {
	logger.EnterMethod("DeleteFeeType", "id", id)

	ft, err := s.feeTypeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ft.IsDefault {
		return domain.BusinessRulef("default fee type %q cannot be deleted", ft.Name)
	}

	structures, err := s.feeTypeRepo.CountStructureUsage(ctx, id)
	if err != nil {
		return err
	}
	if structures > 0 {
		return domain.BusinessRulef("fee type %q is used by %d fee structure(s)", ft.Name, structures)
	}

	bills, err := s.feeTypeRepo.CountBillUsage(ctx, id)
	if err != nil {
		return err
	}
	if bills > 0 {
		return domain.BusinessRulef("fee type %q appears on %d bill(s); deactivate it instead", ft.Name, bills)
	}

	if err := s.feeTypeRepo.Delete(ctx, id); err != nil {
		logger.ExitMethodWithError("DeleteFeeType", err)
		return err
	}
	logger.ExitMethod("DeleteFeeType", "id", id)
	return nil
}
