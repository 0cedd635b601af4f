// internal/services/resolution_service_test.go
package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/apperrors"
)

func TestResolveByDirectID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResolutionService()
	product := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 10)
	// A decoy with a similar code and name must not win over the direct id.
	seedProduct(t, db, "NR001-B", "Natural Rubber Grade B", "raw_material", 10)

	got, err := svc.Resolve(db, LineRef{ProductID: &product.ID})
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
}

func TestResolveByCompositeIDName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResolutionService()
	product := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 10)

	ref := LineRef{IDName: fmt.Sprintf("%s-%s", product.ID, product.Name)}
	got, err := svc.Resolve(db, ref)
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
}

func TestResolveBySnapshotCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResolutionService()
	product := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 10)

	// Stale id plus a valid snapshot code: the snapshot step must recover.
	staleID := uuid.New()
	snap := product.Snapshot()
	got, err := svc.Resolve(db, LineRef{ProductID: &staleID, Snapshot: &snap})
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
}

func TestResolveByExactThenSubstringName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResolutionService()
	exact := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 10)
	seedProduct(t, db, "NR002", "Natural Rubber Premium", "raw_material", 10)

	got, err := svc.Resolve(db, LineRef{Name: "natural rubber"})
	require.NoError(t, err)
	assert.Equal(t, exact.ID, got.ID, "exact case-insensitive match wins over substring")

	got, err = svc.Resolve(db, LineRef{Name: "Rubber Premium"})
	require.NoError(t, err)
	assert.Equal(t, "NR002", got.ProductCode)
}

func TestResolveExhaustedChainIsHardFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResolutionService()
	seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 10)

	_, err := svc.Resolve(db, LineRef{Name: "Vulcanization Accelerator"})
	var ambErr *apperrors.AmbiguousReferenceError
	require.True(t, errors.As(err, &ambErr))
	assert.Contains(t, ambErr.Error(), "Vulcanization Accelerator")
}

func TestResolveIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResolutionService()
	product := seedProduct(t, db, "NR001", "Natural Rubber", "raw_material", 10)

	ref := LineRef{Code: product.ProductCode}
	first, err := svc.Resolve(db, ref)
	require.NoError(t, err)
	second, err := svc.Resolve(db, ref)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
