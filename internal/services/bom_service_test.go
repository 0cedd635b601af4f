// internal/services/bom_service_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBOMGeneratesPrefixedCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBOMService(db)
	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 100)

	bom, err := svc.Create(&CreateBOMRequest{
		CompoundName:  "NR70 Compound",
		CompoundCodes: []string{"NR70"},
		RawMaterials: []BOMRawMaterialRequest{
			{RawMaterialID: &rubber.ID, Weight: "0.8"},
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "NR-001", bom.BOMCode)

	second, err := svc.Create(&CreateBOMRequest{
		CompoundName:  "NR80 Compound",
		CompoundCodes: []string{"NR80"},
		RawMaterials: []BOMRawMaterialRequest{
			{RawMaterialID: &rubber.ID, Weight: "0.9"},
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "NR-002", second.BOMCode)
}

func TestCreateBOMFallsBackToGenericPrefix(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBOMService(db)
	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 100)

	bom, err := svc.Create(&CreateBOMRequest{
		CompoundName: "Unnamed Mix",
		RawMaterials: []BOMRawMaterialRequest{
			{RawMaterialID: &rubber.ID},
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "BOM-001", bom.BOMCode)
}

func TestBOMSnapshotIsFrozenAtAuthoringTime(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBOMService(db)
	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 100)

	bom, err := svc.Create(&CreateBOMRequest{
		CompoundName:  "NR70 Compound",
		CompoundCodes: []string{"NR70"},
		RawMaterials: []BOMRawMaterialRequest{
			{RawMaterialID: &rubber.ID},
		},
	}, nil)
	require.NoError(t, err)

	// Later master-data edits must not propagate into the snapshot.
	rubber.Name = "Natural Rubber RSS4"
	rubber.CurrentStock = 999
	require.NoError(t, db.Save(rubber).Error)

	reloaded, err := svc.Get(bom.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.RawMaterials, 1)
	snap := reloaded.RawMaterials[0].ProductSnapshot
	require.NotNil(t, snap)
	assert.Equal(t, "Natural Rubber", snap.Name)
	assert.Equal(t, float64(100), snap.CurrentStock)
}

func TestUpdateBOMKeepsSnapshotForUnchangedReference(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBOMService(db)
	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 100)
	sulfur := seedProduct(t, db, "CH001", "Sulfur", "chemical", 50)

	bom, err := svc.Create(&CreateBOMRequest{
		CompoundName:  "NR70 Compound",
		CompoundCodes: []string{"NR70"},
		RawMaterials: []BOMRawMaterialRequest{
			{RawMaterialID: &rubber.ID},
		},
	}, nil)
	require.NoError(t, err)

	// Mutate the product between authoring and the edit.
	require.NoError(t, db.Model(rubber).Update("current_stock", 5).Error)

	updated, err := svc.Update(bom.ID, &CreateBOMRequest{
		CompoundName:  "NR70 Compound",
		CompoundCodes: []string{"NR70"},
		RawMaterials: []BOMRawMaterialRequest{
			{RawMaterialID: &rubber.ID},
			{RawMaterialID: &sulfur.ID},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.RawMaterials, 2)

	for _, line := range updated.RawMaterials {
		require.NotNil(t, line.ProductSnapshot)
		switch *line.RawMaterialID {
		case rubber.ID:
			// Unchanged reference keeps the authoring-time snapshot.
			assert.Equal(t, float64(100), line.ProductSnapshot.CurrentStock)
		case sulfur.ID:
			// Newly referenced product gets a fresh snapshot.
			assert.Equal(t, float64(50), line.ProductSnapshot.CurrentStock)
		default:
			t.Fatalf("unexpected raw material %s", line.RawMaterialID)
		}
	}
}

func TestBOMFinishedGoodCompositeIDResolves(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBOMService(db)
	rubber := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 100)
	compound := seedProduct(t, db, "NR70", "NR70 Compound", "compound", 0)

	bom, err := svc.Create(&CreateBOMRequest{
		CompoundName:  "NR70 Compound",
		CompoundCodes: []string{"NR70"},
		RawMaterials: []BOMRawMaterialRequest{
			{RawMaterialID: &rubber.ID},
		},
		FinishedGoods: []BOMFinishedGoodRequest{
			{IDName: fmt.Sprintf("%s-%s", compound.ID, compound.Name), Quantities: []string{"100"}},
		},
	}, nil)
	require.NoError(t, err)

	require.Len(t, bom.FinishedGoods, 1)
	require.NotNil(t, bom.FinishedGoods[0].ProductID)
	assert.Equal(t, compound.ID, *bom.FinishedGoods[0].ProductID)
	require.NotNil(t, bom.FinishedGoods[0].ProductSnapshot)
	assert.Equal(t, "NR70", bom.FinishedGoods[0].ProductSnapshot.ProductCode)
}

func TestBOMLookupPrefersProductMaster(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBOMService(db)
	seedProduct(t, db, "NR70", "NR70 Compound", "compound", 42)

	result, err := svc.Lookup("NR70")
	require.NoError(t, err)
	assert.Equal(t, "NR70 Compound", result.Name)
	assert.Equal(t, float64(42), result.CurrentStock)
	assert.Equal(t, "kg", result.UOM)
}

func TestBOMLookupReportsBOMSource(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBOMService(db)
	compound := seedProduct(t, db, "NR70", "NR70 Compound", "compound", 42)
	seedBOM(t, db, compound)

	result, err := svc.Lookup("NR70")
	require.NoError(t, err)
	assert.Equal(t, "bom.compound_codes", result.Source)
	assert.Equal(t, "NR70 Compound", result.Name)
}

func TestBOMLookupMatchesWholeCompoundCodesOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBOMService(db)
	longer := seedProduct(t, db, "NR701", "NR701 Compound", "compound", 10)
	seedBOM(t, db, longer)
	seedProduct(t, db, "NR70", "NR70 Compound", "compound", 42)

	// "NR701" contains "NR70" but is a different compound code, so the
	// lookup must fall through to the product master.
	result, err := svc.Lookup("NR70")
	require.NoError(t, err)
	assert.Equal(t, "product", result.Source)
}
