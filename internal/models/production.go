// internal/models/production.go
package models

import (
	"github.com/google/uuid"
)

// ProductionFinishedGood is an output line of a production run.
// RemainQty is always recomputed as max(0, est-prod); it is never trusted
// as stored truth.
type ProductionFinishedGood struct {
	BaseModel
	ProductionID uuid.UUID        `json:"production_id" gorm:"type:uuid;not null;index"`
	BOMID        uuid.UUID        `json:"bom_id" gorm:"type:uuid;index"`
	CompoundCode string           `json:"compound_code" gorm:"size:100"`
	CompoundName string           `json:"compound_name" gorm:"size:255"`
	ProductID    *uuid.UUID       `json:"product_id" gorm:"type:uuid;index"`
	EstQty       float64          `json:"est_qty" gorm:"not null"`
	ProdQty      float64          `json:"prod_qty" gorm:"default:0"`
	RemainQty    float64          `json:"remain_qty" gorm:"default:0"`
	ApprovedQty  float64          `json:"approved_qty" gorm:"default:0"`
	RejectedQty  float64          `json:"rejected_qty" gorm:"default:0"`
	UOM          string           `json:"uom" gorm:"size:50"`
	Category     string           `json:"category" gorm:"size:100"`
	TotalCost    float64          `json:"total_cost" gorm:"type:decimal(12,2);default:0"`
	Snapshot     *ProductSnapshot `json:"product_snapshot,omitempty" gorm:"type:jsonb"`
}

// ProductionRawMaterial is a consumption line of a production run.
type ProductionRawMaterial struct {
	BaseModel
	ProductionID    uuid.UUID        `json:"production_id" gorm:"type:uuid;not null;index"`
	RawMaterialID   *uuid.UUID       `json:"raw_material_id" gorm:"type:uuid;index"`
	RawMaterialName string           `json:"raw_material_name" gorm:"size:255"`
	RawMaterialCode string           `json:"raw_material_code" gorm:"size:100"`
	EstQty          float64          `json:"est_qty" gorm:"default:0"`
	UsedQty         float64          `json:"used_qty" gorm:"default:0"`
	RemainQty       float64          `json:"remain_qty" gorm:"default:0"`
	UOM             string           `json:"uom" gorm:"size:50"`
	Category        string           `json:"category" gorm:"size:100"`
	TotalCost       float64          `json:"total_cost" gorm:"type:decimal(12,2);default:0"`
	Weight          string           `json:"weight" gorm:"size:50"`
	Tolerance       string           `json:"tolerance" gorm:"size:50"`
	CodeNo          string           `json:"code_no" gorm:"size:50"`
	Snapshot        *ProductSnapshot `json:"product_snapshot,omitempty" gorm:"type:jsonb"`
}

// ProductionProcess is one process step. Status is derived purely from the
// Start/Done flags and recomputed on every update.
type ProductionProcess struct {
	BaseModel
	ProductionID uuid.UUID     `json:"production_id" gorm:"type:uuid;not null;index"`
	ProcessName  string        `json:"process_name" gorm:"size:255"`
	WorkDone     float64       `json:"work_done" gorm:"default:0"`
	Start        bool          `json:"start" gorm:"default:false"`
	Done         bool          `json:"done" gorm:"default:false"`
	Status       ProcessStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Position     int           `json:"position" gorm:"default:0"`
}

// DeriveStatus returns the step status implied by the flags.
func (p *ProductionProcess) DeriveStatus() ProcessStatus {
	switch {
	case p.Done:
		return ProcessStatusCompleted
	case p.Start:
		return ProcessStatusInProgress
	default:
		return ProcessStatusPending
	}
}

// Production is one execution of a BOM. Status never auto-completes from
// child steps; "completed" is reached only through the explicit finish
// action.
type Production struct {
	BaseModel
	ProductionCode string           `json:"production_id" gorm:"column:production_code;size:50;uniqueIndex"`
	BOMID          uuid.UUID        `json:"bom" gorm:"type:uuid;not null;index"`
	Status         ProductionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	QCStatus       *QCStatus        `json:"qc_status" gorm:"type:varchar(20)"`
	QCDone         bool             `json:"qc_done" gorm:"default:false"`
	ReadyForQC     bool             `json:"ready_for_qc" gorm:"default:false"`
	ApprovedQty    float64          `json:"approved_qty" gorm:"default:0"`
	RejectedQty    float64          `json:"rejected_qty" gorm:"default:0"`
	RejectReason   string           `json:"reject_reason" gorm:"type:text"`
	CreatedByID    *uuid.UUID       `json:"created_by" gorm:"type:uuid;index"`

	BOM           BOM                      `json:"bom_ref,omitempty" gorm:"foreignKey:BOMID"`
	FinishedGoods []ProductionFinishedGood `json:"finished_goods" gorm:"foreignKey:ProductionID;constraint:OnDelete:CASCADE"`
	RawMaterials  []ProductionRawMaterial  `json:"raw_materials" gorm:"foreignKey:ProductionID;constraint:OnDelete:CASCADE"`
	Processes     []ProductionProcess      `json:"processes" gorm:"foreignKey:ProductionID;constraint:OnDelete:CASCADE"`
	CreatedBy     *User                    `json:"created_by_user,omitempty" gorm:"foreignKey:CreatedByID"`
}
