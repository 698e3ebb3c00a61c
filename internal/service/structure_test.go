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

func TestFeeStructureService_UpsertItems(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesStructureAndSetsAmounts", func(t *testing.T) {
		structRepo := new(MockStructureRepo)
		ftRepo := new(MockFeeTypeRepo)
		ftRepo.On("GetByID", mock.Anything, int32(1)).Return(&domain.FeeType{ID: 1, Name: "Tuition Fee"}, nil)
		ftRepo.On("GetByID", mock.Anything, int32(2)).Return(&domain.FeeType{ID: 2, Name: "Library Fee"}, nil)
		structRepo.On("Upsert", mock.Anything, int32(1), "5").
			Return(&domain.FeeStructure{ID: 7, SessionID: 1, ClassName: "5"}, nil)
		structRepo.On("UpsertItem", mock.Anything, int32(7), int32(1), int64(100000)).Return(nil)
		structRepo.On("UpsertItem", mock.Anything, int32(7), int32(2), int64(5000)).Return(nil)
		structRepo.On("GetByClass", mock.Anything, int32(1), "5").Return(&domain.FeeStructure{
			ID: 7, SessionID: 1, ClassName: "5",
			Items: []domain.FeeStructureItem{
				{FeeTypeID: 1, FeeTypeName: "Tuition Fee", AmountPaise: 100000},
				{FeeTypeID: 2, FeeTypeName: "Library Fee", AmountPaise: 5000},
			},
		}, nil)
		svc := service.NewFeeStructureService(structRepo, ftRepo)

		result, err := svc.UpsertItems(ctx, 1, "5", []service.StructureItemInput{
			{FeeTypeID: 1, AmountPaise: 100000},
			{FeeTypeID: 2, AmountPaise: 5000},
		})
		require.NoError(t, err)
		assert.Len(t, result.Items, 2)
		structRepo.AssertExpectations(t)
	})

	t.Run("NegativeAmountRejected", func(t *testing.T) {
		svc := service.NewFeeStructureService(new(MockStructureRepo), new(MockFeeTypeRepo))
		_, err := svc.UpsertItems(ctx, 1, "5", []service.StructureItemInput{
			{FeeTypeID: 1, AmountPaise: -100},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("UnknownFeeTypeRejected", func(t *testing.T) {
		structRepo := new(MockStructureRepo)
		ftRepo := new(MockFeeTypeRepo)
		ftRepo.On("GetByID", mock.Anything, int32(99)).Return(nil, domain.NotFoundf("fee type 99 not found"))
		svc := service.NewFeeStructureService(structRepo, ftRepo)

		_, err := svc.UpsertItems(ctx, 1, "5", []service.StructureItemInput{
			{FeeTypeID: 99, AmountPaise: 100},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		structRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmptyItemsRejected", func(t *testing.T) {
		svc := service.NewFeeStructureService(new(MockStructureRepo), new(MockFeeTypeRepo))
		_, err := svc.UpsertItems(ctx, 1, "5", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestFeeStructureService_CopyStructures(t *testing.T) {
	ctx := context.Background()

	t.Run("SkipsClassesAlreadyInTarget", func(t *testing.T) {
		structRepo := new(MockStructureRepo)
		structRepo.On("ListBySession", mock.Anything, int32(1)).Return([]domain.FeeStructure{
			{ID: 1, SessionID: 1, ClassName: "5", Items: []domain.FeeStructureItem{
				{FeeTypeID: 1, AmountPaise: 100000},
			}},
			{ID: 2, SessionID: 1, ClassName: "6", Items: []domain.FeeStructureItem{
				{FeeTypeID: 1, AmountPaise: 110000},
			}},
		}, nil)
		structRepo.On("ListBySession", mock.Anything, int32(2)).Return([]domain.FeeStructure{
			{ID: 9, SessionID: 2, ClassName: "5"},
		}, nil)
		structRepo.On("Upsert", mock.Anything, int32(2), "6").
			Return(&domain.FeeStructure{ID: 10, SessionID: 2, ClassName: "6"}, nil)
		structRepo.On("UpsertItem", mock.Anything, int32(10), int32(1), int64(110000)).Return(nil)
		svc := service.NewFeeStructureService(structRepo, new(MockFeeTypeRepo))

		copied, err := svc.CopyStructures(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, copied)
		structRepo.AssertNotCalled(t, "Upsert", mock.Anything, int32(2), "5")
	})

	t.Run("SameSessionRejected", func(t *testing.T) {
		svc := service.NewFeeStructureService(new(MockStructureRepo), new(MockFeeTypeRepo))
		_, err := svc.CopyStructures(ctx, 3, 3)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("EmptySourceIsNotFound", func(t *testing.T) {
		structRepo := new(MockStructureRepo)
		structRepo.On("ListBySession", mock.Anything, int32(1)).Return([]domain.FeeStructure{}, nil)
		svc := service.NewFeeStructureService(structRepo, new(MockFeeTypeRepo))

		_, err := svc.CopyStructures(ctx, 1, 2)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
