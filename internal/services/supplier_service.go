// internal/services/supplier_service.go
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

type SupplierService struct {
	db *gorm.DB
}

func NewSupplierService(db *gorm.DB) *SupplierService {
	return &SupplierService{db: db}
}

type SupplierRequest struct {
	Name        string `json:"name" validate:"required"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"required"`
	Address     string `json:"address"`
	GSTNumber   string `json:"gst_number"`
}

func (s *SupplierService) Create(req *SupplierRequest) (*models.Supplier, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid supplier data: %v", err)
	}

	supplier := &models.Supplier{
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		GSTNumber:   req.GSTNumber,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		code, err := sequence.NextID(tx, "suppliers", "supplier_code", "SUP", 3)
		if err != nil {
			return err
		}
		supplier.SupplierCode = code
		return tx.Create(supplier).Error
	})
	if sequence.IsDuplicate(err) {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			code, err := sequence.NextID(tx, "suppliers", "supplier_code", "SUP", 3)
			if err != nil {
				return err
			}
			supplier.SupplierCode = code
			supplier.ID = uuid.Nil
			return tx.Create(supplier).Error
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return supplier, nil
}

func (s *SupplierService) Update(id uuid.UUID, req *SupplierRequest) (*models.Supplier, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid supplier data: %v", err)
	}

	supplier, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	supplier.Name = req.Name
	supplier.CompanyName = req.CompanyName
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.GSTNumber = req.GSTNumber

	if err := s.db.Save(supplier).Error; err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}

func (s *SupplierService) Get(id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := s.db.First(&supplier, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("Supplier", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}
	return &supplier, nil
}

func (s *SupplierService) List(params utils.PaginationParams) ([]models.Supplier, int64, error) {
	query := s.db.Model(&models.Supplier{})
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(company_name) LIKE ? OR LOWER(supplier_code) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count suppliers: %w", err)
	}

	var suppliers []models.Supplier
	err := utils.ApplyPagination(query, params).Order("created_at DESC").Find(&suppliers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch suppliers: %w", err)
	}
	return suppliers, total, nil
}

func (s *SupplierService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Supplier{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete supplier: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Supplier", id.String())
	}
	return nil
}
