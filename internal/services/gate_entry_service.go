// internal/services/gate_entry_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/apperrors"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/models"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/sequence"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/utils"
)

type GateEntryService struct {
	db *gorm.DB
}

func NewGateEntryService(db *gorm.DB) *GateEntryService {
	return &GateEntryService{db: db}
}

type GateEntryItemRequest struct {
	ItemName     string  `json:"item_name" validate:"required"`
	ItemQuantity float64 `json:"item_quantity" validate:"gt=0"`
}

type CreateGateEntryRequest struct {
	PONumber        string                 `json:"po_number" validate:"required"`
	InvoiceNumber   string                 `json:"invoice_number" validate:"required"`
	CompanyName     string                 `json:"company_name" validate:"required"`
	AttachedPO      string                 `json:"attached_po"`
	AttachedInvoice string                 `json:"attached_invoice"`
	Items           []GateEntryItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Create records goods arriving at the gate against a purchase order. Each
// item is matched to the PO line by name to carry the ordered and
// still-outstanding quantities onto the entry.
func (s *GateEntryService) Create(req *CreateGateEntryRequest) (*models.GateEntry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid gate entry data: %v", err)
	}

	var po models.PurchaseOrder
	err := s.db.Preload("Products").First(&po, "po_number = ?", req.PONumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("Purchase order", req.PONumber)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase order: %w", err)
	}

	entry := &models.GateEntry{
		PORefID:         &po.ID,
		PONumber:        po.PONumber,
		InvoiceNumber:   req.InvoiceNumber,
		CompanyName:     req.CompanyName,
		AttachedPO:      req.AttachedPO,
		AttachedInvoice: req.AttachedInvoice,
		Status:          models.GateEntryStatusPending,
	}
	for _, r := range req.Items {
		item := models.GateEntryItem{
			ItemName:     r.ItemName,
			ItemQuantity: r.ItemQuantity,
		}
		if line := findPOItem(&po, r.ItemName); line != nil {
			item.OrderedQuantity = line.EstQuantity
			item.RemainingQuantity = line.RemainQuantity
		}
		entry.Items = append(entry.Items, item)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		code, err := sequence.NextID(tx, "gate_entries", "gate_entry_code", "GATE", 4)
		if err != nil {
			return err
		}
		entry.GateEntryCode = code
		return tx.Create(entry).Error
	})
	if sequence.IsDuplicate(err) {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			code, err := sequence.NextID(tx, "gate_entries", "gate_entry_code", "GATE", 4)
			if err != nil {
				return err
			}
			entry.GateEntryCode = code
			entry.ID = uuid.Nil
			return tx.Create(entry).Error
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create gate entry: %w", err)
	}

	return entry, nil
}

// Verify accepts a pending entry and books the received quantities against
// the purchase order's outstanding lines in one transaction. Only verified
// entries are eligible for quality checks.
func (s *GateEntryService) Verify(id uuid.UUID) (*models.GateEntry, error) {
	entry, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if entry.Status == models.GateEntryStatusVerified {
		return entry, nil
	}
	if entry.Status == models.GateEntryStatusRejected {
		return nil, apperrors.NewValidationError("gate entry %s was rejected and cannot be verified", entry.GateEntryCode)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(entry).Update("status", models.GateEntryStatusVerified).Error; err != nil {
			return err
		}
		if entry.PORefID == nil {
			return nil
		}

		var po models.PurchaseOrder
		if err := tx.Preload("Products").First(&po, "id = ?", *entry.PORefID).Error; err != nil {
			return err
		}

		allFulfilled := true
		for i := range po.Products {
			line := &po.Products[i]
			for j := range entry.Items {
				if entry.Items[j].ItemName != line.ItemName {
					continue
				}
				line.ProduceQuantity += entry.Items[j].ItemQuantity
				line.RemainQuantity = clampRemain(line.EstQuantity, line.ProduceQuantity)
			}
			if line.RemainQuantity > 0 {
				allFulfilled = false
			}
			if err := tx.Model(line).Updates(map[string]interface{}{
				"produce_quantity": line.ProduceQuantity,
				"remain_quantity":  line.RemainQuantity,
			}).Error; err != nil {
				return err
			}
		}

		status := models.PurchaseOrderStatusPartial
		if allFulfilled {
			status = models.PurchaseOrderStatusFulfilled
		}
		return tx.Model(&po).Update("status", status).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify gate entry: %w", err)
	}

	entry.Status = models.GateEntryStatusVerified
	logrus.WithFields(logrus.Fields{
		"gate_entry": entry.GateEntryCode,
		"po_number":  entry.PONumber,
	}).Info("gate entry verified")
	return entry, nil
}

// Reject marks a pending entry rejected; its items never become available
// for inspection and the purchase order is untouched.
func (s *GateEntryService) Reject(id uuid.UUID) (*models.GateEntry, error) {
	entry, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if entry.Status == models.GateEntryStatusVerified {
		return nil, apperrors.NewValidationError("gate entry %s is already verified", entry.GateEntryCode)
	}
	if err := s.db.Model(entry).Update("status", models.GateEntryStatusRejected).Error; err != nil {
		return nil, fmt.Errorf("failed to reject gate entry: %w", err)
	}
	entry.Status = models.GateEntryStatusRejected
	return entry, nil
}

func (s *GateEntryService) Get(id uuid.UUID) (*models.GateEntry, error) {
	var entry models.GateEntry
	err := s.db.Preload("Items").First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("Gate entry", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load gate entry: %w", err)
	}
	return &entry, nil
}

func (s *GateEntryService) List(params utils.PaginationParams) ([]models.GateEntry, int64, error) {
	query := s.db.Model(&models.GateEntry{})
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(gate_entry_code) LIKE ? OR LOWER(po_number) LIKE ? OR LOWER(company_name) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count gate entries: %w", err)
	}

	var entries []models.GateEntry
	err := utils.ApplyPagination(query, params).
		Order("created_at DESC").
		Preload("Items").
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch gate entries: %w", err)
	}
	return entries, total, nil
}

func findPOItem(po *models.PurchaseOrder, name string) *models.PurchaseOrderItem {
	for i := range po.Products {
		if strings.EqualFold(po.Products[i].ItemName, name) {
			return &po.Products[i]
		}
	}
	return nil
}
