package service

import (
	"context"
	"strings"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/logger"
	"schoolfee-backend/internal/repository"
)

type feeStructureService struct {
	structureRepo repository.FeeStructureRepository
	feeTypeRepo   repository.FeeTypeRepository
}

func NewFeeStructureService(structureRepo repository.FeeStructureRepository, feeTypeRepo repository.FeeTypeRepository) FeeStructureService {
	return &feeStructureService{structureRepo: structureRepo, feeTypeRepo: feeTypeRepo}
}

func (s *feeStructureService) GetStructure(ctx context.Context, sessionID int32, className string) (*domain.FeeStructure, error) {
	return s.structureRepo.GetByClass(ctx, sessionID, className)
}

func (s *feeStructureService) ListStructures(ctx context.Context, sessionID int32) ([]domain.FeeStructure, error) {
	return s.structureRepo.ListBySession(ctx, sessionID)
}

// UpsertItems creates the class structure if needed and sets the amount for
// each given fee type. Repeated calls with the same (feeType, amount) pairs
// are no-ops.
func (s *feeStructureService) UpsertItems(ctx context.Context, sessionID int32, className string, items []StructureItemInput) (*domain.FeeStructure, error) {
	logger.EnterMethod("UpsertItems", "sessionID", sessionID, "className", className, "items", len(items))

	className = strings.TrimSpace(className)
	if className == "" {
		return nil, domain.InvalidInputf("class name is required")
	}
	if len(items) == 0 {
		return nil, domain.InvalidInputf("at least one fee item is required")
	}
	for _, it := range items {
		if it.AmountPaise < 0 {
			return nil, domain.InvalidInputf("fee amount cannot be negative")
		}
		if _, err := s.feeTypeRepo.GetByID(ctx, it.FeeTypeID); err != nil {
			return nil, err
		}
	}

	structure, err := s.structureRepo.Upsert(ctx, sessionID, className)
	if err != nil {
		logger.ExitMethodWithError("UpsertItems", err)
		return nil, err
	}
	for _, it := range items {
		if err := s.structureRepo.UpsertItem(ctx, structure.ID, it.FeeTypeID, it.AmountPaise); err != nil {
			logger.ExitMethodWithError("UpsertItems", err)
			return nil, err
		}
	}

	result, err := s.structureRepo.GetByClass(ctx, sessionID, className)
	if err != nil {
		return nil, err
	}
	logger.ExitMethod("UpsertItems", "structureID", result.ID)
	return result, nil
}

func (s *feeStructureService) RemoveItem(ctx context.Context, sessionID int32, className string, feeTypeID int32) error {
	structure, err := s.structureRepo.GetByClass(ctx, sessionID, className)
	if err != nil {
		return err
	}
	return s.structureRepo.DeleteItem(ctx, structure.ID, feeTypeID)
}

// CopyStructures clones a session's fee setup into another session, used at
// the start of a school year. Classes that already have a structure in the
// target session are left untouched.
func (s *feeStructureService) CopyStructures(ctx context.Context, fromSessionID, toSessionID int32) (int, error) {
	logger.EnterMethod("CopyStructures", "from", fromSessionID, "to", toSessionID)

	if fromSessionID == toSessionID {
		return 0, domain.InvalidInputf("source and target session are the same")
	}

	source, err := s.structureRepo.ListBySession(ctx, fromSessionID)
	if err != nil {
		return 0, err
	}
	if len(source) == 0 {
		return 0, domain.NotFoundf("no fee structures in session %d", fromSessionID)
	}

	existing, err := s.structureRepo.ListBySession(ctx, toSessionID)
	if err != nil {
		return 0, err
	}
	taken := make(map[string]bool, len(existing))
	for _, st := range existing {
		taken[st.ClassName] = true
	}

	copied := 0
	for _, src := range source {
		if taken[src.ClassName] {
			continue
		}
		target, err := s.structureRepo.Upsert(ctx, toSessionID, src.ClassName)
		if err != nil {
			logger.ExitMethodWithError("CopyStructures", err)
			return copied, err
		}
		for _, it := range src.Items {
			if err := s.structureRepo.UpsertItem(ctx, target.ID, it.FeeTypeID, it.AmountPaise); err != nil {
				logger.ExitMethodWithError("CopyStructures", err)
				return copied, err
			}
		}
		copied++
	}

	logger.ExitMethod("CopyStructures", "copied", copied)
	return copied, nil
}

func (s *feeStructureService) GetClassFees(ctx context.Context, sessionID int32, className string) ([]domain.FeeStructureItem, error) {
	structure, err := s.structureRepo.GetByClass(ctx, sessionID, className)
	if err != nil {
		return nil, err
	}
	return structure.Items, nil
}
