// internal/services/product_service.go
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

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type CreateProductRequest struct {
	ProductCode  string  `json:"product_id"`
	Name         string  `json:"name" validate:"required"`
	Category     string  `json:"category" validate:"required"`
	UOM          string  `json:"uom" validate:"required"`
	CurrentStock float64 `json:"current_stock" validate:"gte=0"`
	Price        float64 `json:"price" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	UOM         string   `json:"uom"`
	Price       *float64 `json:"price"`
	LatestPrice *float64 `json:"latest_price"`
}

// Create registers a product. When no code is supplied one is issued from
// the RUB sequence.
func (s *ProductService) Create(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid product data: %v", err)
	}

	product := &models.Product{
		ProductCode:  req.ProductCode,
		Name:         req.Name,
		Category:     req.Category,
		UOM:          req.UOM,
		CurrentStock: req.CurrentStock,
		Price:        req.Price,
		LatestPrice:  req.Price,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if product.ProductCode == "" {
			code, err := sequence.NextID(tx, "products", "product_code", "RUB", 4)
			if err != nil {
				return err
			}
			product.ProductCode = code
		}
		return tx.Create(product).Error
	})
	if sequence.IsDuplicate(err) {
		if req.ProductCode != "" {
			return nil, apperrors.NewValidationError("product code %s is already in use", req.ProductCode)
		}
		err = s.db.Transaction(func(tx *gorm.DB) error {
			code, err := sequence.NextID(tx, "products", "product_code", "RUB", 4)
			if err != nil {
				return err
			}
			product.ProductCode = code
			product.ID = uuid.Nil
			return tx.Create(product).Error
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update edits master data only. Stock counters move exclusively through
// reconciliation transactions, and BOM snapshots taken earlier keep the
// old values.
func (s *ProductService) Update(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.UOM != "" {
		updates["uom"] = req.UOM
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.LatestPrice != nil {
		updates["latest_price"] = *req.LatestPrice
	}
	if len(updates) == 0 {
		return product, nil
	}

	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.Get(id)
}

func (s *ProductService) Get(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("Product", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &product, nil
}

func (s *ProductService) GetByCode(code string) (*models.Product, error) {
	var product models.Product
	err := s.db.First(&product, "product_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("Product", code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &product, nil
}

func (s *ProductService) List(params utils.PaginationParams, category string) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(product_code) LIKE ?", searchTerm, searchTerm)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	err := utils.ApplyPagination(query, params).Order("name ASC").Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, total, nil
}

func (s *ProductService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Product", id.String())
	}
	return nil
}
