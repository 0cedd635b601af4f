// internal/services/purchase_order_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/apperrors"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/models"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/sequence"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/utils"
)

type PurchaseOrderService struct {
	db *gorm.DB
}

func NewPurchaseOrderService(db *gorm.DB) *PurchaseOrderService {
	return &PurchaseOrderService{db: db}
}

type PurchaseOrderItemRequest struct {
	ItemName    string  `json:"item_name" validate:"required"`
	EstQuantity float64 `json:"est_quantity" validate:"gt=0"`
	Category    string  `json:"category" validate:"required"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID uuid.UUID                  `json:"supplier" validate:"required"`
	Products   []PurchaseOrderItemRequest `json:"products" validate:"required,min=1,dive"`
}

// Create opens a purchase order; every line starts with the full estimated
// quantity outstanding.
func (s *PurchaseOrderService) Create(req *CreatePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid purchase order data: %v", err)
	}

	var supplier models.Supplier
	err := s.db.First(&supplier, "id = ?", req.SupplierID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("Supplier", req.SupplierID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}

	po := &models.PurchaseOrder{
		SupplierID: supplier.ID,
		Status:     models.PurchaseOrderStatusOpen,
	}
	for _, r := range req.Products {
		po.Products = append(po.Products, models.PurchaseOrderItem{
			ItemName:       r.ItemName,
			EstQuantity:    r.EstQuantity,
			RemainQuantity: r.EstQuantity,
			Category:       r.Category,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		number, err := sequence.NextID(tx, "purchase_orders", "po_number", "PO", 4)
		if err != nil {
			return err
		}
		po.PONumber = number
		return tx.Create(po).Error
	})
	if sequence.IsDuplicate(err) {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			number, err := sequence.NextID(tx, "purchase_orders", "po_number", "PO", 4)
			if err != nil {
				return err
			}
			po.PONumber = number
			po.ID = uuid.Nil
			return tx.Create(po).Error
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}
	return po, nil
}

func (s *PurchaseOrderService) Get(id uuid.UUID) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := s.db.Preload("Products").Preload("Supplier").First(&po, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("Purchase order", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase order: %w", err)
	}
	return &po, nil
}

func (s *PurchaseOrderService) List(params utils.PaginationParams) ([]models.PurchaseOrder, int64, error) {
	query := s.db.Model(&models.PurchaseOrder{})
	if params.Search != "" {
		query = query.Where("LOWER(po_number) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}

	var orders []models.PurchaseOrder
	err := utils.ApplyPagination(query, params).
		Order("created_at DESC").
		Preload("Products").
		Preload("Supplier").
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch purchase orders: %w", err)
	}
	return orders, total, nil
}

// Cancel closes an open purchase order. Orders with receipts booked keep
// their history and cannot be cancelled.
func (s *PurchaseOrderService) Cancel(id uuid.UUID) (*models.PurchaseOrder, error) {
	po, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if po.Status != models.PurchaseOrderStatusOpen {
		return nil, apperrors.NewValidationError("purchase order %s is %s and cannot be cancelled", po.PONumber, po.Status)
	}
	if err := s.db.Model(po).Update("status", models.PurchaseOrderStatusCancelled).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel purchase order: %w", err)
	}
	po.Status = models.PurchaseOrderStatusCancelled
	return po, nil
}
