// internal/models/quality_check.go
package models

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QualityCheck is a gate-entry inspection record: approved/rejected
// quantities checked against the quantity the gate entry admitted.
type QualityCheck struct {
	BaseModel
	GateEntryID        uuid.UUID          `json:"gateman_entry_id" gorm:"type:uuid;not null;index"`
	ItemID             uuid.UUID          `json:"item_id" gorm:"type:uuid;not null;index"`
	ItemName           string             `json:"item_name" gorm:"size:255"`
	ApprovedQuantity   float64            `json:"approved_quantity" gorm:"not null"`
	RejectedQuantity   float64            `json:"rejected_quantity" gorm:"not null"`
	TotalQuantity      float64            `json:"total_quantity"`
	MaxAllowedQuantity float64            `json:"max_allowed_quantity" gorm:"not null"`
	Status             QualityCheckStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	AttachedReport     string             `json:"attached_report" gorm:"size:512"`
	CreatedByID        *uuid.UUID         `json:"created_by" gorm:"type:uuid;index"`

	GateEntry GateEntry `json:"gateman_entry,omitempty" gorm:"foreignKey:GateEntryID"`
	CreatedBy *User     `json:"created_by_user,omitempty" gorm:"foreignKey:CreatedByID"`
}

// BeforeSave enforces approved+rejected <= max_allowed. A violating write is
// rejected, not clamped.
func (q *QualityCheck) BeforeSave(tx *gorm.DB) error {
	if q.ApprovedQuantity < 0 || q.RejectedQuantity < 0 {
		return fmt.Errorf("quantities cannot be negative")
	}
	q.TotalQuantity = q.ApprovedQuantity + q.RejectedQuantity
	if q.TotalQuantity > q.MaxAllowedQuantity {
		return fmt.Errorf("total quantity (%g) cannot exceed maximum allowed quantity (%g)",
			q.TotalQuantity, q.MaxAllowedQuantity)
	}
	return nil
}
