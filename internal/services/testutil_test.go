// internal/services/testutil_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/models"
)

// setupTestDB opens a fresh in-memory database per test so transactional
// paths run against a real gorm connection.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.BOM{},
		&models.BOMRawMaterial{},
		&models.BOMFinishedGood{},
		&models.Production{},
		&models.ProductionFinishedGood{},
		&models.ProductionRawMaterial{},
		&models.ProductionProcess{},
		&models.Supplier{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.GateEntry{},
		&models.GateEntryItem{},
		&models.QualityCheck{},
	)
	require.NoError(t, err)

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, code, name, category string, stock float64) *models.Product {
	t.Helper()

	product := &models.Product{
		ProductCode:  code,
		Name:         name,
		Category:     category,
		UOM:          "kg",
		CurrentStock: stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func reloadProduct(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Product {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return &product
}

func newReconciliation(db *gorm.DB) *ReconciliationService {
	return NewReconciliationService(db, NewStockService(), NewResolutionService())
}

// seedBOM creates a minimal BOM with one raw-material line per input
// product and one finished-good line for the output product.
func seedBOM(t *testing.T, db *gorm.DB, output *models.Product, inputs ...*models.Product) *models.BOM {
	t.Helper()

	bom := &models.BOM{
		BOMCode:       fmt.Sprintf("NRB-%s", uuid.NewString()[:6]),
		CompoundName:  output.Name,
		CompoundCodes: []string{output.ProductCode},
	}
	for _, in := range inputs {
		snap := in.Snapshot()
		bom.RawMaterials = append(bom.RawMaterials, models.BOMRawMaterial{
			RawMaterialID:   &in.ID,
			RawMaterialName: in.Name,
			RawMaterialCode: in.ProductCode,
			ProductSnapshot: &snap,
		})
	}
	outSnap := output.Snapshot()
	bom.FinishedGoods = append(bom.FinishedGoods, models.BOMFinishedGood{
		IDName:          fmt.Sprintf("%s-%s", output.ID, output.Name),
		ProductID:       &output.ID,
		Quantities:      []string{"100"},
		ProductSnapshot: &outSnap,
	})
	require.NoError(t, db.Create(bom).Error)
	return bom
}
