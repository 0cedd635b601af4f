// internal/sequence/sequence_test.go
package sequence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordRow struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"size:50;uniqueIndex"`
}

func (recordRow) TableName() string { return "record_rows" }

func openDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&recordRow{}))
	return db
}

func TestNextIDStartsAtOne(t *testing.T) {
	db := openDB(t)

	id, err := NextID(db, "record_rows", "code", "PROD", 4)
	require.NoError(t, err)
	assert.Equal(t, "PROD-0001", id)
}

func TestNextIDIncrementsFromHighest(t *testing.T) {
	db := openDB(t)
	for _, code := range []string{"PROD-0001", "PROD-0005", "PROD-0003"} {
		require.NoError(t, db.Create(&recordRow{Code: code}).Error)
	}

	id, err := NextID(db, "record_rows", "code", "PROD", 4)
	require.NoError(t, err)
	assert.Equal(t, "PROD-0006", id)
}

func TestNextIDIgnoresOtherPrefixes(t *testing.T) {
	db := openDB(t)
	for _, code := range []string{"GATE-0009", "SUP-002"} {
		require.NoError(t, db.Create(&recordRow{Code: code}).Error)
	}

	id, err := NextID(db, "record_rows", "code", "PROD", 4)
	require.NoError(t, err)
	assert.Equal(t, "PROD-0001", id)
}

func TestNextIDTreatsCorruptSuffixAsZero(t *testing.T) {
	db := openDB(t)
	for _, code := range []string{"PROD-XYZ9", "PROD-0002"} {
		require.NoError(t, db.Create(&recordRow{Code: code}).Error)
	}

	id, err := NextID(db, "record_rows", "code", "PROD", 4)
	require.NoError(t, err)
	assert.Equal(t, "PROD-0003", id)
}

func TestNextIDPadsToWidth(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Create(&recordRow{Code: "SUP-099"}).Error)

	id, err := NextID(db, "record_rows", "code", "SUP", 3)
	require.NoError(t, err)
	assert.Equal(t, "SUP-100", id)
}

func TestIsDuplicate(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Create(&recordRow{Code: "PROD-0001"}).Error)

	err := db.Create(&recordRow{Code: "PROD-0001"}).Error
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))

	assert.False(t, IsDuplicate(nil))
	assert.False(t, IsDuplicate(errors.New("connection refused")))
}
