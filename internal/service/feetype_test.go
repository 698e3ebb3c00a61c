package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/service"
)

func TestFeeTypeService_CreateFeeType(t *testing.T) {
	ctx := context.Background()

	t.Run("TrimsNameAndCreates", func(t *testing.T) {
		repo := new(MockFeeTypeRepo)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(ft *domain.FeeType) bool {
			return ft.Name == "Library Fee"
		})).Return(nil)
		svc := service.NewFeeTypeService(repo)

		err := svc.CreateFeeType(ctx, &domain.FeeType{
			Name: "  Library Fee  ", Frequency: domain.FeeFrequencyMonthly,
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("EmptyNameRejected", func(t *testing.T) {
		svc := service.NewFeeTypeService(new(MockFeeTypeRepo))
		err := svc.CreateFeeType(ctx, &domain.FeeType{Name: "   ", Frequency: domain.FeeFrequencyMonthly})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("UnknownFrequencyRejected", func(t *testing.T) {
		svc := service.NewFeeTypeService(new(MockFeeTypeRepo))
		err := svc.CreateFeeType(ctx, &domain.FeeType{Name: "Library Fee", Frequency: "fortnightly"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestFeeTypeService_UpdateFeeType(t *testing.T) {
	ctx := context.Background()

	t.Run("DeactivationBlockedWhileInStructures", func(t *testing.T) {
		repo := new(MockFeeTypeRepo)
		repo.On("GetByID", mock.Anything, int32(3)).Return(&domain.FeeType{
			ID: 3, Name: "Lab Fee", Frequency: domain.FeeFrequencyMonthly, IsActive: true,
		}, nil)
		repo.On("CountStructureUsage", mock.Anything, int32(3)).Return(int32(2), nil)
		svc := service.NewFeeTypeService(repo)

		err := svc.UpdateFeeType(ctx, &domain.FeeType{
			ID: 3, Name: "Lab Fee", Frequency: domain.FeeFrequencyMonthly, IsActive: false,
		})
		assert.ErrorIs(t, err, domain.ErrBusinessRule)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("DeactivationAllowedWhenUnused", func(t *testing.T) {
		repo := new(MockFeeTypeRepo)
		repo.On("GetByID", mock.Anything, int32(3)).Return(&domain.FeeType{
			ID: 3, Name: "Lab Fee", Frequency: domain.FeeFrequencyMonthly, IsActive: true,
		}, nil)
		repo.On("CountStructureUsage", mock.Anything, int32(3)).Return(int32(0), nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.FeeType")).Return(nil)
		svc := service.NewFeeTypeService(repo)

		err := svc.UpdateFeeType(ctx, &domain.FeeType{
			ID: 3, Name: "Lab Fee", Frequency: domain.FeeFrequencyMonthly, IsActive: false,
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestFeeTypeService_DeleteFeeType(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultTypeProtected", func(t *testing.T) {
		repo := new(MockFeeTypeRepo)
		repo.On("GetByID", mock.Anything, int32(1)).Return(&domain.FeeType{
			ID: 1, Name: "Tuition Fee", IsDefault: true,
		}, nil)
		svc := service.NewFeeTypeService(repo)

		err := svc.DeleteFeeType(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrBusinessRule)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("StructureUsageBlocksDelete", func(t *testing.T) {
		repo := new(MockFeeTypeRepo)
		repo.On("GetByID", mock.Anything, int32(4)).Return(&domain.FeeType{ID: 4, Name: "Lab Fee"}, nil)
		repo.On("CountStructureUsage", mock.Anything, int32(4)).Return(int32(1), nil)
		svc := service.NewFeeTypeService(repo)

		err := svc.DeleteFeeType(ctx, 4)
		assert.ErrorIs(t, err, domain.ErrBusinessRule)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("BillUsageBlocksDelete", func(t *testing.T) {
		repo := new(MockFeeTypeRepo)
		repo.On("GetByID", mock.Anything, int32(4)).Return(&domain.FeeType{ID: 4, Name: "Lab Fee"}, nil)
		repo.On("CountStructureUsage", mock.Anything, int32(4)).Return(int32(0), nil)
		repo.On("CountBillUsage", mock.Anything, int32(4)).Return(int32(12), nil)
		svc := service.NewFeeTypeService(repo)

		err := svc.DeleteFeeType(ctx, 4)
		assert.ErrorIs(t, err, domain.ErrBusinessRule)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("UnreferencedTypeDeleted", func(t *testing.T) {
		repo := new(MockFeeTypeRepo)
		repo.On("GetByID", mock.Anything, int32(4)).Return(&domain.FeeType{ID: 4, Name: "Lab Fee"}, nil)
		repo.On("CountStructureUsage", mock.Anything, int32(4)).Return(int32(0), nil)
		repo.On("CountBillUsage", mock.Anything, int32(4)).Return(int32(0), nil)
		repo.On("Delete", mock.Anything, int32(4)).Return(nil)
		svc := service.NewFeeTypeService(repo)

		require.NoError(t, svc.DeleteFeeType(ctx, 4))
		repo.AssertExpectations(t)
	})
}
