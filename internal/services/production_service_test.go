// internal/services/production_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/apperrors"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/models"
)

func newProductionService(db *gorm.DB) *ProductionService {
	return NewProductionService(db, newReconciliation(db))
}

func TestCreateProductionDebitsStockAndDerivesStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductionService(db)

	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 100)
	compound := seedProduct(t, db, "NR70", "NR70 Compound", "compound", 0)
	bom := seedBOM(t, db, compound, rubber)

	production, err := svc.Create(&CreateProductionRequest{
		BOMID: bom.ID,
		FinishedGoods: []ProductionFinishedGoodRequest{
			{CompoundCode: "NR70", CompoundName: "NR70 Compound", EstQty: 50},
		},
		RawMaterials: []ProductionRawMaterialRequest{
			{RawMaterialID: &rubber.ID, EstQty: 50, UsedQty: 30},
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "PROD-0001", production.ProductionCode)
	assert.Equal(t, models.ProductionStatusInProgress, production.Status)
	assert.Equal(t, float64(70), reloadProduct(t, db, rubber.ID).CurrentStock)

	require.Len(t, production.RawMaterials, 1)
	assert.Equal(t, float64(20), production.RawMaterials[0].RemainQty)
}

func TestCreateProductionWithoutActivityStaysPending(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductionService(db)

	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 100)
	compound := seedProduct(t, db, "NR70", "NR70 Compound", "compound", 0)
	bom := seedBOM(t, db, compound, rubber)

	production, err := svc.Create(&CreateProductionRequest{
		BOMID: bom.ID,
		RawMaterials: []ProductionRawMaterialRequest{
			{RawMaterialID: &rubber.ID, EstQty: 40},
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ProductionStatusPending, production.Status)
	// Estimate-only lines still debit the estimate.
	assert.Equal(t, float64(60), reloadProduct(t, db, rubber.ID).CurrentStock)
}

func TestCreateProductionInsufficientStockCreatesNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductionService(db)

	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 10)
	compound := seedProduct(t, db, "NR70", "NR70 Compound", "compound", 0)
	bom := seedBOM(t, db, compound, rubber)

	_, err := svc.Create(&CreateProductionRequest{
		BOMID: bom.ID,
		RawMaterials: []ProductionRawMaterialRequest{
			{RawMaterialID: &rubber.ID, UsedQty: 30},
		},
	}, nil)

	var stockErr *apperrors.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))

	var count int64
	db.Model(&models.Production{}).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, float64(10), reloadProduct(t, db, rubber.ID).CurrentStock)
}

func TestProductionSequenceIncrements(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductionService(db)

	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 100)
	compound := seedProduct(t, db, "NR70", "NR70 Compound", "compound", 0)
	bom := seedBOM(t, db, compound, rubber)

	for i, want := range []string{"PROD-0001", "PROD-0002", "PROD-0003"} {
		production, err := svc.Create(&CreateProductionRequest{
			BOMID: bom.ID,
			RawMaterials: []ProductionRawMaterialRequest{
				{RawMaterialID: &rubber.ID, UsedQty: 5},
			},
		}, nil)
		require.NoError(t, err, "create %d", i)
		assert.Equal(t, want, production.ProductionCode)
	}
}

func TestUpdateRecomputesRemainAndProcessStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductionService(db)

	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 100)
	compound := seedProduct(t, db, "NR70", "NR70 Compound", "compound", 0)
	bom := seedBOM(t, db, compound, rubber)

	production, err := svc.Create(&CreateProductionRequest{
		BOMID: bom.ID,
		RawMaterials: []ProductionRawMaterialRequest{
			{RawMaterialID: &rubber.ID, EstQty: 50, UsedQty: 10},
		},
		Processes: []ProductionProcessRequest{
			{ProcessName: "Mixing"},
			{ProcessName: "Moulding"},
		},
	}, nil)
	require.NoError(t, err)

	updated, err := svc.Update(production.ID, &UpdateProductionRequest{
		RawMaterials: []ProductionRawMaterialRequest{
			// Consumption overruns the estimate; remain clamps at zero.
			{RawMaterialID: &rubber.ID, UsedQty: 60},
		},
		Processes: []ProductionProcessRequest{
			{ProcessName: "Mixing", Start: true, Done: true},
			{ProcessName: "Moulding", Start: true},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.RawMaterials, 1)
	assert.Equal(t, float64(0), updated.RawMaterials[0].RemainQty)

	require.Len(t, updated.Processes, 2)
	assert.Equal(t, models.ProcessStatusCompleted, updated.Processes[0].Status)
	assert.Equal(t, models.ProcessStatusInProgress, updated.Processes[1].Status)
	assert.Equal(t, models.ProductionStatusInProgress, updated.Status)
}

func TestAllProcessesDoneDoesNotComplete(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductionService(db)

	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 100)
	compound := seedProduct(t, db, "NR70", "NR70 Compound", "compound", 0)
	bom := seedBOM(t, db, compound, rubber)

	production, err := svc.Create(&CreateProductionRequest{
		BOMID: bom.ID,
		RawMaterials: []ProductionRawMaterialRequest{
			{RawMaterialID: &rubber.ID, UsedQty: 10},
		},
		Processes: []ProductionProcessRequest{{ProcessName: "Mixing"}},
	}, nil)
	require.NoError(t, err)

	updated, err := svc.Update(production.ID, &UpdateProductionRequest{
		Processes: []ProductionProcessRequest{
			{ProcessName: "Mixing", Start: true, Done: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProductionStatusInProgress, updated.Status)

	finished, err := svc.Finish(production.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductionStatusCompleted, finished.Status)

	// Finishing again is a no-op.
	again, err := svc.Finish(production.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductionStatusCompleted, again.Status)
}

func TestApproveRequiresReadyForQC(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductionService(db)

	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 100)
	compound := seedProduct(t, db, "NR70", "NR70 Compound", "compound", 0)
	bom := seedBOM(t, db, compound, rubber)

	production, err := svc.Create(&CreateProductionRequest{
		BOMID: bom.ID,
		RawMaterials: []ProductionRawMaterialRequest{
			{RawMaterialID: &rubber.ID, UsedQty: 10},
		},
	}, nil)
	require.NoError(t, err)

	_, err = svc.Approve(production.ID, &QCDecisionRequest{ApprovedQty: 10})
	var valErr *apperrors.ValidationError
	require.True(t, errors.As(err, &valErr))
}

func TestApproveCreditsFinishedGoodAndBooksReject(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductionService(db)

	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 100)
	compound := seedProduct(t, db, "NR70", "NR70 Compound", "compound", 10)
	bom := seedBOM(t, db, compound, rubber)

	production, err := svc.Create(&CreateProductionRequest{
		BOMID: bom.ID,
		FinishedGoods: []ProductionFinishedGoodRequest{
			{CompoundCode: "NR70", CompoundName: "NR70 Compound", EstQty: 30, ProdQty: 25},
		},
		RawMaterials: []ProductionRawMaterialRequest{
			{RawMaterialID: &rubber.ID, UsedQty: 30},
		},
	}, nil)
	require.NoError(t, err)

	_, err = svc.MarkReadyForQC(production.ID)
	require.NoError(t, err)

	approved, err := svc.Approve(production.ID, &QCDecisionRequest{ApprovedQty: 20, RejectedQty: 5})
	require.NoError(t, err)

	got := reloadProduct(t, db, compound.ID)
	assert.Equal(t, float64(30), got.CurrentStock)
	assert.Equal(t, float64(5), got.RejectStock)

	require.NotNil(t, approved.QCStatus)
	assert.Equal(t, models.QCStatusApproved, *approved.QCStatus)
	assert.True(t, approved.QCDone)

	// A second approval must not double-credit.
	_, err = svc.Approve(production.ID, &QCDecisionRequest{ApprovedQty: 20})
	var valErr *apperrors.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, float64(30), reloadProduct(t, db, compound.ID).CurrentStock)
}

func TestRejectBooksRejectStockOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductionService(db)

	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 100)
	compound := seedProduct(t, db, "NR70", "NR70 Compound", "compound", 10)
	bom := seedBOM(t, db, compound, rubber)

	production, err := svc.Create(&CreateProductionRequest{
		BOMID: bom.ID,
		FinishedGoods: []ProductionFinishedGoodRequest{
			{CompoundCode: "NR70", CompoundName: "NR70 Compound", EstQty: 30, ProdQty: 25},
		},
		RawMaterials: []ProductionRawMaterialRequest{
			{RawMaterialID: &rubber.ID, UsedQty: 30},
		},
	}, nil)
	require.NoError(t, err)

	_, err = svc.MarkReadyForQC(production.ID)
	require.NoError(t, err)

	rejected, err := svc.Reject(production.ID, &QCDecisionRequest{
		RejectedQty:  25,
		RejectReason: "hardness out of spec",
	})
	require.NoError(t, err)

	got := reloadProduct(t, db, compound.ID)
	assert.Equal(t, float64(10), got.CurrentStock)
	assert.Equal(t, float64(25), got.RejectStock)
	assert.Equal(t, "hardness out of spec", rejected.RejectReason)
}
