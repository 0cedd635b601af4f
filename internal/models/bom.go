// internal/models/bom.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BOMRawMaterial is one expected input line of a BOM. ProductSnapshot is a
// frozen copy of the referenced product taken when the BOM was written.
type BOMRawMaterial struct {
	BaseModel
	BOMID           uuid.UUID        `json:"bom_id" gorm:"type:uuid;not null;index"`
	RawMaterialID   *uuid.UUID       `json:"raw_material_id" gorm:"type:uuid;index"`
	RawMaterialName string           `json:"raw_material_name" gorm:"size:255"`
	RawMaterialCode string           `json:"raw_material_code" gorm:"size:100"`
	Weight          string           `json:"weight" gorm:"size:50"`
	Tolerance       string           `json:"tolerance" gorm:"size:50"`
	CodeNo          string           `json:"code_no" gorm:"size:50"`
	ProductSnapshot *ProductSnapshot `json:"product_snapshot,omitempty" gorm:"type:jsonb"`
}

// BOMFinishedGood is one expected output line. IDName optionally carries the
// composite "<product id>-<name>" string the UI sends; the left half is one
// of the resolution chain's lookup keys.
type BOMFinishedGood struct {
	BaseModel
	BOMID           uuid.UUID        `json:"bom_id" gorm:"type:uuid;not null;index"`
	IDName          string           `json:"finished_good_id_name" gorm:"size:355"`
	ProductID       *uuid.UUID       `json:"product_id" gorm:"type:uuid;index"`
	Tolerances      pq.StringArray   `json:"tolerances" gorm:"type:text[]"`
	Quantities      pq.StringArray   `json:"quantities" gorm:"type:text[]"`
	Comments        pq.StringArray   `json:"comments" gorm:"type:text[]"`
	ProductSnapshot *ProductSnapshot `json:"product_snapshot,omitempty" gorm:"type:jsonb"`
}

// BOM is a named production template. Once created, the embedded snapshots
// are frozen copies; product edits never propagate back into them.
type BOM struct {
	BaseModel
	BOMCode       string         `json:"bom_id" gorm:"column:bom_code;size:50;uniqueIndex"`
	CompoundName  string         `json:"compound_name" gorm:"size:255"`
	CompoundCodes pq.StringArray `json:"compound_codes" gorm:"type:text[]"`
	PartNames     pq.StringArray `json:"part_names" gorm:"type:text[]"`
	Hardnesses    pq.StringArray `json:"hardnesses" gorm:"type:text[]"`
	Quantity      float64        `json:"quantity" gorm:"default:0"`
	Comment       string         `json:"comment" gorm:"type:text"`
	Processes     pq.StringArray `json:"processes" gorm:"type:text[]"`
	CreatedByID   *uuid.UUID     `json:"created_by" gorm:"type:uuid;index"`

	RawMaterials  []BOMRawMaterial  `json:"raw_materials" gorm:"foreignKey:BOMID;constraint:OnDelete:CASCADE"`
	FinishedGoods []BOMFinishedGood `json:"finished_goods" gorm:"foreignKey:BOMID;constraint:OnDelete:CASCADE"`
	CreatedBy     *User             `json:"created_by_user,omitempty" gorm:"foreignKey:CreatedByID"`
}
