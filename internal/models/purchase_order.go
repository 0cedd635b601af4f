// internal/models/purchase_order.go
package models

import (
	"github.com/google/uuid"
)

// PurchaseOrderItem is one ordered line. RemainQuantity is maintained by
// gate-entry receipts only; quality checks never touch it.
type PurchaseOrderItem struct {
	BaseModel
	PurchaseOrderID uuid.UUID `json:"purchase_order_id" gorm:"type:uuid;not null;index"`
	ItemName        string    `json:"item_name" gorm:"size:255;not null"`
	EstQuantity     float64   `json:"est_quantity" gorm:"not null"`
	ProduceQuantity float64   `json:"produce_quantity" gorm:"default:0"`
	RemainQuantity  float64   `json:"remain_quantity" gorm:"default:0"`
	Category        string    `json:"category" gorm:"size:100;not null"`
}

type PurchaseOrder struct {
	BaseModel
	PONumber   string              `json:"po_number" gorm:"size:50;not null;uniqueIndex"`
	SupplierID uuid.UUID           `json:"supplier" gorm:"type:uuid;not null;index"`
	Status     PurchaseOrderStatus `json:"status" gorm:"type:varchar(20);default:'open';index"`

	Supplier Supplier            `json:"supplier_ref,omitempty" gorm:"foreignKey:SupplierID"`
	Products []PurchaseOrderItem `json:"products" gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
}
