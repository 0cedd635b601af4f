// internal/models/gate_entry.go
package models

import (
	"github.com/google/uuid"
)

// GateEntryItem is one received line of a goods-inward entry. ItemQuantity
// is what actually arrived and is the cap quality checks inspect against.
type GateEntryItem struct {
	BaseModel
	GateEntryID       uuid.UUID `json:"gate_entry_id" gorm:"type:uuid;not null;index"`
	ItemName          string    `json:"item_name" gorm:"size:255;not null"`
	ItemQuantity      float64   `json:"item_quantity" gorm:"not null"`
	OrderedQuantity   float64   `json:"ordered_quantity" gorm:"default:0"`
	RemainingQuantity float64   `json:"remaining_quantity" gorm:"default:0"`
}

// GateEntry records goods received at the gate against a purchase order.
type GateEntry struct {
	BaseModel
	GateEntryCode   string          `json:"gate_entry_id" gorm:"column:gate_entry_code;size:50;uniqueIndex"`
	PORefID         *uuid.UUID      `json:"po_ref" gorm:"type:uuid;index"`
	PONumber        string          `json:"po_number" gorm:"size:50;not null"`
	InvoiceNumber   string          `json:"invoice_number" gorm:"size:100;not null"`
	CompanyName     string          `json:"company_name" gorm:"size:255;not null"`
	AttachedPO      string          `json:"attached_po" gorm:"size:512"`
	AttachedInvoice string          `json:"attached_invoice" gorm:"size:512"`
	Status          GateEntryStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	Items []GateEntryItem `json:"items" gorm:"foreignKey:GateEntryID;constraint:OnDelete:CASCADE"`
	PORef *PurchaseOrder  `json:"purchase_order,omitempty" gorm:"foreignKey:PORefID"`
}
