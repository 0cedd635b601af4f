// internal/services/reconciliation_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/apperrors"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/models"
)

type ReconciliationTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *ReconciliationService
}

func (s *ReconciliationTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.svc = newReconciliation(s.db)
}

func TestReconciliationSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationTestSuite))
}

func (s *ReconciliationTestSuite) TestStartDebitsUsedQuantityAndAudits() {
	rubber := seedProduct(s.T(), s.db, "NR001", "Natural Rubber", "raw_material", 100)

	production := &models.Production{
		ProductionCode: "PROD-0001",
		BOMID:          seedBOM(s.T(), s.db, rubber, rubber).ID,
		RawMaterials: []models.ProductionRawMaterial{{
			RawMaterialID:   &rubber.ID,
			RawMaterialName: rubber.Name,
			RawMaterialCode: rubber.ProductCode,
			EstQty:          50,
			UsedQty:         30,
		}},
	}

	require.NoError(s.T(), s.svc.Start(production))

	got := reloadProduct(s.T(), s.db, rubber.ID)
	s.Equal(float64(70), got.CurrentStock)
	s.Require().NotNil(got.LastChange)
	s.Equal(models.StockChangeDecrease, got.LastChange.ChangeType)
	s.Equal(float64(30), got.LastChange.Qty)
	s.Require().NotNil(got.LastChange.ProductionID)
	s.Equal(production.ID, *got.LastChange.ProductionID)
}

func (s *ReconciliationTestSuite) TestStartFallsBackToEstimate() {
	rubber := seedProduct(s.T(), s.db, "NR001", "Natural Rubber", "raw_material", 100)

	production := &models.Production{
		ProductionCode: "PROD-0001",
		BOMID:          seedBOM(s.T(), s.db, rubber, rubber).ID,
		RawMaterials: []models.ProductionRawMaterial{{
			RawMaterialID: &rubber.ID,
			EstQty:        50,
		}},
	}

	require.NoError(s.T(), s.svc.Start(production))
	s.Equal(float64(50), reloadProduct(s.T(), s.db, rubber.ID).CurrentStock)
}

func (s *ReconciliationTestSuite) TestStartInsufficientStockLeavesEverythingUntouched() {
	rubber := seedProduct(s.T(), s.db, "NR001", "Natural Rubber", "raw_material", 100)
	sulfur := seedProduct(s.T(), s.db, "CH001", "Sulfur", "chemical", 5)

	production := &models.Production{
		ProductionCode: "PROD-0001",
		BOMID:          seedBOM(s.T(), s.db, rubber, rubber, sulfur).ID,
		RawMaterials: []models.ProductionRawMaterial{
			{RawMaterialID: &rubber.ID, UsedQty: 30},
			{RawMaterialID: &sulfur.ID, UsedQty: 10},
		},
	}

	err := s.svc.Start(production)
	var stockErr *apperrors.InsufficientStockError
	s.Require().True(errors.As(err, &stockErr))
	s.Require().Len(stockErr.Shortfalls, 1)
	s.Equal("CH001", stockErr.Shortfalls[0].ProductCode)
	s.Equal(float64(10), stockErr.Shortfalls[0].Required)
	s.Equal(float64(5), stockErr.Shortfalls[0].Available)

	// Nothing moved and no production row was written.
	s.Equal(float64(100), reloadProduct(s.T(), s.db, rubber.ID).CurrentStock)
	s.Equal(float64(5), reloadProduct(s.T(), s.db, sulfur.ID).CurrentStock)

	var count int64
	s.db.Model(&models.Production{}).Count(&count)
	s.Equal(int64(0), count)
}

func (s *ReconciliationTestSuite) TestStartUnresolvedLineRollsBackEarlierDebits() {
	rubber := seedProduct(s.T(), s.db, "NR001", "Natural Rubber", "raw_material", 100)

	production := &models.Production{
		ProductionCode: "PROD-0001",
		RawMaterials: []models.ProductionRawMaterial{
			{RawMaterialID: &rubber.ID, UsedQty: 30},
			{RawMaterialName: "No Such Material", UsedQty: 10},
		},
	}

	err := s.svc.Start(production)
	var ambErr *apperrors.AmbiguousReferenceError
	s.Require().True(errors.As(err, &ambErr))

	s.Equal(float64(100), reloadProduct(s.T(), s.db, rubber.ID).CurrentStock)
}

func (s *ReconciliationTestSuite) TestApproveCreditsAndBooksRejects() {
	compound := seedProduct(s.T(), s.db, "NR70", "NR70 Compound", "compound", 50)
	compound.RejectStock = 2
	require.NoError(s.T(), s.db.Save(compound).Error)

	production := &models.Production{
		ProductionCode: "PROD-0002",
		FinishedGoods: []models.ProductionFinishedGood{{
			ProductID:    &compound.ID,
			CompoundCode: compound.ProductCode,
			CompoundName: compound.Name,
			EstQty:       30,
			ProdQty:      25,
			ApprovedQty:  20,
			RejectedQty:  5,
		}},
		ApprovedQty: 20,
		RejectedQty: 5,
	}
	require.NoError(s.T(), s.db.Create(production).Error)

	require.NoError(s.T(), s.svc.Approve(production))

	got := reloadProduct(s.T(), s.db, compound.ID)
	s.Equal(float64(70), got.CurrentStock)
	s.Equal(float64(7), got.RejectStock)

	// The audit slot records only the usable-stock credit.
	s.Require().NotNil(got.LastChange)
	s.Equal(models.StockChangeIncrease, got.LastChange.ChangeType)
	s.Equal(float64(20), got.LastChange.Qty)
	s.Require().NotNil(got.LastChange.ProductionID)
	s.Equal(production.ID, *got.LastChange.ProductionID)

	var updated models.Production
	require.NoError(s.T(), s.db.First(&updated, "id = ?", production.ID).Error)
	s.Require().NotNil(updated.QCStatus)
	s.Equal(models.QCStatusApproved, *updated.QCStatus)
	s.True(updated.QCDone)
}

func (s *ReconciliationTestSuite) TestApproveDefaultsToProducedQuantity() {
	compound := seedProduct(s.T(), s.db, "NR70", "NR70 Compound", "compound", 10)

	production := &models.Production{
		ProductionCode: "PROD-0003",
		FinishedGoods: []models.ProductionFinishedGood{{
			ProductID: &compound.ID,
			ProdQty:   25,
		}},
	}
	require.NoError(s.T(), s.db.Create(production).Error)
	require.NoError(s.T(), s.svc.Approve(production))

	s.Equal(float64(35), reloadProduct(s.T(), s.db, compound.ID).CurrentStock)
}

func (s *ReconciliationTestSuite) TestRejectTouchesOnlyRejectStock() {
	compound := seedProduct(s.T(), s.db, "NR70", "NR70 Compound", "compound", 50)

	production := &models.Production{
		ProductionCode: "PROD-0004",
		FinishedGoods: []models.ProductionFinishedGood{{
			ProductID:   &compound.ID,
			ProdQty:     25,
			RejectedQty: 25,
		}},
		RejectedQty:  25,
		RejectReason: "porosity out of range",
	}
	require.NoError(s.T(), s.db.Create(production).Error)
	require.NoError(s.T(), s.svc.Reject(production))

	got := reloadProduct(s.T(), s.db, compound.ID)
	s.Equal(float64(50), got.CurrentStock)
	s.Equal(float64(25), got.RejectStock)
	// Reject-stock movements never write the audit slot.
	s.Nil(got.LastChange)

	var updated models.Production
	require.NoError(s.T(), s.db.First(&updated, "id = ?", production.ID).Error)
	s.Require().NotNil(updated.QCStatus)
	s.Equal(models.QCStatusRejected, *updated.QCStatus)
	s.Equal("porosity out of range", updated.RejectReason)
}

func (s *ReconciliationTestSuite) TestUndoInspectionFloorsAtZero() {
	item := seedProduct(s.T(), s.db, "NR001", "Natural Rubber", "raw_material", 0)

	check := &models.QualityCheck{
		GateEntryID:        uuid.New(),
		ItemID:             uuid.New(),
		ItemName:           item.Name,
		ApprovedQuantity:   40,
		RejectedQuantity:   0,
		MaxAllowedQuantity: 40,
	}
	require.NoError(s.T(), s.svc.CreditInspection(check, "inspection passed"))
	s.Equal(float64(40), reloadProduct(s.T(), s.db, item.ID).CurrentStock)

	// Simulate production having consumed most of the credited stock.
	require.NoError(s.T(), s.db.Model(&models.Product{}).
		Where("id = ?", item.ID).
		Update("current_stock", 10).Error)

	require.NoError(s.T(), s.svc.UndoInspection(check))

	got := reloadProduct(s.T(), s.db, item.ID)
	s.Equal(float64(0), got.CurrentStock)

	var count int64
	s.db.Model(&models.QualityCheck{}).Count(&count)
	s.Equal(int64(0), count)
}
