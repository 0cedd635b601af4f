// internal/models/product.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StockChange is the audit slot stored on a Product. It records the most
// recent stock mutation only; every reconciliation write overwrites it
// together with the counter it describes.
type StockChange struct {
	ChangedOn    time.Time       `json:"changed_on"`
	ChangeType   StockChangeType `json:"change_type"`
	Qty          float64         `json:"qty"`
	Reason       string          `json:"reason"`
	ProductionID *uuid.UUID      `json:"production_id,omitempty"`
}

func (s StockChange) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StockChange) Scan(value interface{}) error {
	if value == nil {
		*s = StockChange{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Product is the inventory ledger entity. CurrentStock and RejectStock are
// two independent counters: stock available for use vs. stock that failed
// quality inspection. Both must stay >= 0 in persisted state.
type Product struct {
	BaseModel
	ProductCode  string       `json:"product_id" gorm:"column:product_code;size:100;not null;uniqueIndex"`
	Name         string       `json:"name" gorm:"size:255;not null;index"`
	Category     string       `json:"category" gorm:"size:100;index"`
	UOM          string       `json:"uom" gorm:"size:50"`
	CurrentStock float64      `json:"current_stock" gorm:"default:0"`
	RejectStock  float64      `json:"reject_stock" gorm:"default:0"`
	Price        float64      `json:"price" gorm:"type:decimal(12,2);default:0"`
	LatestPrice  float64      `json:"latest_price" gorm:"type:decimal(12,2);default:0"`
	LastChange   *StockChange `json:"last_change,omitempty" gorm:"type:jsonb"`
}

// Snapshot captures the product's master data at this instant. Snapshots are
// embedded in BOM and production lines and are never refreshed afterwards.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID:    p.ID,
		ProductCode:  p.ProductCode,
		Name:         p.Name,
		Category:     p.Category,
		UOM:          p.UOM,
		CurrentStock: p.CurrentStock,
		TakenAt:      time.Now(),
	}
}

// ProductSnapshot is a frozen copy of Product fields taken at BOM authoring
// time. The resolution chain falls back to these fields when the live
// reference has been renamed or deleted.
type ProductSnapshot struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductCode  string    `json:"product_code"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	UOM          string    `json:"uom"`
	CurrentStock float64   `json:"current_stock"`
	TakenAt      time.Time `json:"taken_at"`
}

func (s ProductSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *ProductSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = ProductSnapshot{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// IsZero reports whether the snapshot was ever taken.
func (s *ProductSnapshot) IsZero() bool {
	return s == nil || (s.ProductID == uuid.Nil && s.ProductCode == "" && s.Name == "")
}
