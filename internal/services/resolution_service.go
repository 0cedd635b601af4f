// internal/services/resolution_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/apperrors"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/models"
)

// LineRef carries the loose identifiers a line item may have accumulated on
// its way through BOM snapshot, production line and QC request. Any field
// may be stale or missing.
type LineRef struct {
	ProductID *uuid.UUID              // direct reference, most authoritative
	IDName    string                  // composite "<id>-<name>" from a BOM line
	Snapshot  *models.ProductSnapshot // frozen copy taken at BOM authoring time
	Code      string                  // loose product code
	Name      string                  // loose free-text name
}

// Label names the line item in error messages.
func (r LineRef) Label() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Code != "":
		return r.Code
	case r.IDName != "":
		return r.IDName
	case r.ProductID != nil:
		return r.ProductID.String()
	default:
		return "(unidentified line)"
	}
}

// ResolutionService maps a loosely-identified line item to exactly one
// Product using an ordered fallback chain. Each step is attempted only if
// the previous yielded nothing; an exhausted chain is a hard failure, never
// a silent skip, because skipping would leave a real quantity movement
// unrecorded in the ledger.
type ResolutionService struct{}

func NewResolutionService() *ResolutionService {
	return &ResolutionService{}
}

// Resolve runs the chain with the caller's transaction handle so lookups
// see the same snapshot as the mutations that follow them.
func (s *ResolutionService) Resolve(tx *gorm.DB, ref LineRef) (*models.Product, error) {
	// 1. Direct reference id.
	if ref.ProductID != nil && *ref.ProductID != uuid.Nil {
		product, err := s.byID(tx, *ref.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			return product, nil
		}
	}

	// 2. Composite "<id>-<name>" string: the id half as a direct lookup,
	// then the left-of-hyphen fragment as a product code. A uuid spans the
	// first five hyphen-separated groups.
	if ref.IDName != "" {
		parts := strings.SplitN(ref.IDName, "-", 6)
		if len(parts) >= 5 {
			if id, err := uuid.Parse(strings.Join(parts[:5], "-")); err == nil {
				product, err := s.byID(tx, id)
				if err != nil {
					return nil, err
				}
				if product != nil {
					return product, nil
				}
			}
		}
		if left, _, found := strings.Cut(ref.IDName, "-"); found && left != "" {
			product, err := s.byCode(tx, left)
			if err != nil {
				return nil, err
			}
			if product != nil {
				return product, nil
			}
		}
	}

	// 3. Snapshot's stored code, then the snapshot's own internal id.
	if !ref.Snapshot.IsZero() {
		if ref.Snapshot.ProductCode != "" {
			product, err := s.byCode(tx, ref.Snapshot.ProductCode)
			if err != nil {
				return nil, err
			}
			if product != nil {
				return product, nil
			}
		}
		if ref.Snapshot.ProductID != uuid.Nil {
			product, err := s.byID(tx, ref.Snapshot.ProductID)
			if err != nil {
				return nil, err
			}
			if product != nil {
				return product, nil
			}
		}
	}

	// 4. Exact code match.
	if ref.Code != "" {
		product, err := s.byCode(tx, ref.Code)
		if err != nil {
			return nil, err
		}
		if product != nil {
			return product, nil
		}
	}

	// 5. Exact name match, case-insensitive.
	// 6. Partial case-insensitive substring match.
	if ref.Name != "" {
		product, err := s.byExactName(tx, ref.Name)
		if err != nil {
			return nil, err
		}
		if product != nil {
			return product, nil
		}

		product, err = s.byNameSubstring(tx, ref.Name)
		if err != nil {
			return nil, err
		}
		if product != nil {
			return product, nil
		}
	}

	// 7. Composite: code equality OR name substring.
	if ref.Code != "" || ref.Name != "" {
		product, err := s.byCodeOrName(tx, ref.Code, ref.Name)
		if err != nil {
			return nil, err
		}
		if product != nil {
			return product, nil
		}
	}

	return nil, &apperrors.AmbiguousReferenceError{LineItem: ref.Label()}
}

func (s *ResolutionService) byID(tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := tx.First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("product lookup by id failed: %w", err)
	}
	return &product, nil
}

func (s *ResolutionService) byCode(tx *gorm.DB, code string) (*models.Product, error) {
	var product models.Product
	err := tx.First(&product, "product_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("product lookup by code failed: %w", err)
	}
	return &product, nil
}

func (s *ResolutionService) byExactName(tx *gorm.DB, name string) (*models.Product, error) {
	var product models.Product
	err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("product lookup by name failed: %w", err)
	}
	return &product, nil
}

func (s *ResolutionService) byNameSubstring(tx *gorm.DB, name string) (*models.Product, error) {
	var product models.Product
	searchTerm := "%" + strings.ToLower(name) + "%"
	err := tx.Where("LOWER(name) LIKE ?", searchTerm).
		Order("name").
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("product lookup by name substring failed: %w", err)
	}
	return &product, nil
}

func (s *ResolutionService) byCodeOrName(tx *gorm.DB, code, name string) (*models.Product, error) {
	if code == "" {
		code = "__none__"
	}
	if name == "" {
		name = "__none__"
	}

	var product models.Product
	searchTerm := "%" + strings.ToLower(name) + "%"
	err := tx.Where("product_code = ? OR LOWER(name) LIKE ?", code, searchTerm).
		Order("name").
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("product lookup by code or name failed: %w", err)
	}
	return &product, nil
}
