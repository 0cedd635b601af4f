// internal/models/supplier.go
package models

type Supplier struct {
	BaseModel
	SupplierCode string `json:"supplier_id" gorm:"column:supplier_code;size:50;uniqueIndex"`
	Name         string `json:"name" gorm:"size:255;not null"`
	CompanyName  string `json:"company_name" gorm:"size:255"`
	Email        string `json:"email" gorm:"size:255"`
	Phone        string `json:"phone" gorm:"size:50;not null"`
	Address      string `json:"address" gorm:"type:text"`
	GSTNumber    string `json:"gst_number" gorm:"size:50"`
}
