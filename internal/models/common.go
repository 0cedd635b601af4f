// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
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

	return json.Unmarshal(bytes, j)
}

// Enums
type ProductionStatus string

const (
	ProductionStatusPending    ProductionStatus = "pending"
	ProductionStatusInProgress ProductionStatus = "in_progress"
	ProductionStatusCompleted  ProductionStatus = "completed"
)

type ProcessStatus string

const (
	ProcessStatusPending    ProcessStatus = "pending"
	ProcessStatusInProgress ProcessStatus = "in_progress"
	ProcessStatusCompleted  ProcessStatus = "completed"
)

type QCStatus string

const (
	QCStatusApproved QCStatus = "approved"
	QCStatusRejected QCStatus = "rejected"
)

type StockChangeType string

const (
	StockChangeIncrease StockChangeType = "increase"
	StockChangeDecrease StockChangeType = "decrease"
)

type QualityCheckStatus string

const (
	QualityCheckStatusPending   QualityCheckStatus = "pending"
	QualityCheckStatusCompleted QualityCheckStatus = "completed"
	QualityCheckStatusReviewed  QualityCheckStatus = "reviewed"
)

type GateEntryStatus string

const (
	GateEntryStatusPending  GateEntryStatus = "pending"
	GateEntryStatusVerified GateEntryStatus = "verified"
	GateEntryStatusRejected GateEntryStatus = "rejected"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusOpen      PurchaseOrderStatus = "open"
	PurchaseOrderStatusPartial   PurchaseOrderStatus = "partial"
	PurchaseOrderStatusFulfilled PurchaseOrderStatus = "fulfilled"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleInventory UserRole = "inventory"
	UserRoleOperator  UserRole = "operator"
	UserRoleInspector UserRole = "inspector"
)
