// internal/services/bom_service.go
package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/apperrors"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/models"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/sequence"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/utils"
)

type BOMService struct {
	db *gorm.DB
}

func NewBOMService(db *gorm.DB) *BOMService {
	return &BOMService{db: db}
}

type BOMRawMaterialRequest struct {
	RawMaterialID   *uuid.UUID `json:"raw_material_id"`
	RawMaterialName string     `json:"raw_material_name"`
	RawMaterialCode string     `json:"raw_material_code"`
	Weight          string     `json:"weight"`
	Tolerance       string     `json:"tolerance"`
	CodeNo          string     `json:"code_no"`
}

type BOMFinishedGoodRequest struct {
	IDName     string   `json:"finished_good_id_name" validate:"required"`
	Tolerances []string `json:"tolerances"`
	Quantities []string `json:"quantities"`
	Comments   []string `json:"comments"`
}

type CreateBOMRequest struct {
	CompoundName  string                   `json:"compound_name"`
	CompoundCodes []string                 `json:"compound_codes"`
	PartNames     []string                 `json:"part_names"`
	Hardnesses    []string                 `json:"hardnesses"`
	Quantity      float64                  `json:"quantity"`
	Comment       string                   `json:"comment"`
	Processes     []string                 `json:"processes"`
	RawMaterials  []BOMRawMaterialRequest  `json:"raw_materials" validate:"required,min=1,dive"`
	FinishedGoods []BOMFinishedGoodRequest `json:"finished_goods"`
}

var nonAlpha = regexp.MustCompile(`[^a-zA-Z]`)

// bomPrefix derives the id prefix from the first compound code, e.g.
// "NR70" -> "NR". Falls back to "BOM".
func bomPrefix(compoundCodes []string) string {
	base := "BOM"
	if len(compoundCodes) > 0 && compoundCodes[0] != "" {
		cleaned := strings.ToUpper(nonAlpha.ReplaceAllString(compoundCodes[0], ""))
		if len(cleaned) >= 3 {
			base = cleaned[:3]
		} else if cleaned != "" {
			base = cleaned
		}
	}
	return base
}

// Create authors a BOM. For every line that references a Product, a frozen
// snapshot of that product is embedded next to the reference id; the
// snapshot is never refreshed afterwards, so productions run months later
// resolve and categorize against what was true at authoring time.
func (s *BOMService) Create(req *CreateBOMRequest, createdBy *uuid.UUID) (*models.BOM, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid BOM data: %v", err)
	}

	bom := &models.BOM{
		CompoundName:  req.CompoundName,
		CompoundCodes: pq.StringArray(dropEmpty(req.CompoundCodes)),
		PartNames:     pq.StringArray(dropEmpty(req.PartNames)),
		Hardnesses:    pq.StringArray(dropEmpty(req.Hardnesses)),
		Quantity:      req.Quantity,
		Comment:       req.Comment,
		Processes:     pq.StringArray(dropEmpty(req.Processes)),
		CreatedByID:   createdBy,
	}

	snapshots, err := s.snapshotProducts(req)
	if err != nil {
		return nil, err
	}

	bom.RawMaterials = s.buildRawMaterialLines(req.RawMaterials, snapshots, nil)
	bom.FinishedGoods = s.buildFinishedGoodLines(req.FinishedGoods, snapshots, nil)

	prefix := bomPrefix(req.CompoundCodes)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		code, err := sequence.NextID(tx, "boms", "bom_code", prefix, 3)
		if err != nil {
			return err
		}
		bom.BOMCode = code
		return tx.Create(bom).Error
	})
	if sequence.IsDuplicate(err) {
		// A concurrent create took the same id; regenerate once.
		err = s.db.Transaction(func(tx *gorm.DB) error {
			code, err := sequence.NextID(tx, "boms", "bom_code", prefix, 3)
			if err != nil {
				return err
			}
			bom.BOMCode = code
			bom.ID = uuid.Nil
			return tx.Create(bom).Error
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create BOM: %w", err)
	}

	return bom, nil
}

// Update rewrites the BOM's lines. Snapshots of lines whose product
// reference is unchanged are carried over untouched; only a newly
// referenced product gets a fresh snapshot.
func (s *BOMService) Update(id uuid.UUID, req *CreateBOMRequest) (*models.BOM, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid BOM data: %v", err)
	}

	bom, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	existing := make(map[uuid.UUID]*models.ProductSnapshot)
	for i := range bom.RawMaterials {
		line := &bom.RawMaterials[i]
		if line.RawMaterialID != nil && !line.ProductSnapshot.IsZero() {
			existing[*line.RawMaterialID] = line.ProductSnapshot
		}
	}
	for i := range bom.FinishedGoods {
		line := &bom.FinishedGoods[i]
		if line.ProductID != nil && !line.ProductSnapshot.IsZero() {
			existing[*line.ProductID] = line.ProductSnapshot
		}
	}

	snapshots, err := s.snapshotProducts(req)
	if err != nil {
		return nil, err
	}

	rawLines := s.buildRawMaterialLines(req.RawMaterials, snapshots, existing)
	fgLines := s.buildFinishedGoodLines(req.FinishedGoods, snapshots, existing)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bom_id = ?", bom.ID).Delete(&models.BOMRawMaterial{}).Error; err != nil {
			return err
		}
		if err := tx.Where("bom_id = ?", bom.ID).Delete(&models.BOMFinishedGood{}).Error; err != nil {
			return err
		}

		bom.CompoundName = req.CompoundName
		bom.CompoundCodes = pq.StringArray(dropEmpty(req.CompoundCodes))
		bom.PartNames = pq.StringArray(dropEmpty(req.PartNames))
		bom.Hardnesses = pq.StringArray(dropEmpty(req.Hardnesses))
		bom.Quantity = req.Quantity
		bom.Comment = req.Comment
		bom.Processes = pq.StringArray(dropEmpty(req.Processes))
		bom.RawMaterials = rawLines
		bom.FinishedGoods = fgLines

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(bom).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update BOM: %w", err)
	}

	return s.Get(id)
}

func (s *BOMService) Get(id uuid.UUID) (*models.BOM, error) {
	var bom models.BOM
	err := s.db.Preload("RawMaterials").Preload("FinishedGoods").First(&bom, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("BOM", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load BOM: %w", err)
	}
	return &bom, nil
}

func (s *BOMService) List(params utils.PaginationParams) ([]models.BOM, int64, error) {
	query := s.db.Model(&models.BOM{})

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(compound_name) LIKE ? OR LOWER(bom_code) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count BOMs: %w", err)
	}

	var boms []models.BOM
	err := utils.ApplyPagination(query, params).
		Order("created_at DESC").
		Preload("RawMaterials").
		Preload("FinishedGoods").
		Find(&boms).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch BOMs: %w", err)
	}

	return boms, total, nil
}

func (s *BOMService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.BOM{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete BOM: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("BOM", id.String())
	}
	return nil
}

// LookupResult is the auto-fill payload for BOM authoring: unit, category
// and live stock for a product code.
type LookupResult struct {
	UOM          string  `json:"uom"`
	Category     string  `json:"category"`
	Name         string  `json:"name"`
	ProductCode  string  `json:"product_id"`
	CurrentStock float64 `json:"current_stock"`
	Source       string  `json:"source"`
}

// Lookup resolves a compound code to product master data, preferring a BOM
// that already uses the code.
func (s *BOMService) Lookup(code string) (*LookupResult, error) {
	if code == "" {
		return nil, apperrors.NewValidationError("code query param is required")
	}

	source := "product"
	// text[] columns render as "{NR70,NR80}", so the cast keeps the
	// prefilter valid on every dialect; exact membership is checked below.
	var boms []models.BOM
	err := s.db.Where("CAST(compound_codes AS TEXT) LIKE ?", "%"+code+"%").Find(&boms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search BOMs: %w", err)
	}
	for _, b := range boms {
		for _, cc := range b.CompoundCodes {
			if cc == code {
				source = "bom.compound_codes"
			}
		}
	}

	var product models.Product
	err = s.db.First(&product, "product_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("Product", code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}

	return &LookupResult{
		UOM:          product.UOM,
		Category:     product.Category,
		Name:         product.Name,
		ProductCode:  product.ProductCode,
		CurrentStock: product.CurrentStock,
		Source:       source,
	}, nil
}

// snapshotProducts loads every product referenced by the request in one
// query and returns a map of frozen snapshots keyed by product id.
func (s *BOMService) snapshotProducts(req *CreateBOMRequest) (map[uuid.UUID]*models.ProductSnapshot, error) {
	ids := make([]uuid.UUID, 0, len(req.RawMaterials)+len(req.FinishedGoods))
	for _, rm := range req.RawMaterials {
		if rm.RawMaterialID != nil && *rm.RawMaterialID != uuid.Nil {
			ids = append(ids, *rm.RawMaterialID)
		}
	}
	for _, fg := range req.FinishedGoods {
		if id := parseCompositeID(fg.IDName); id != nil {
			ids = append(ids, *id)
		}
	}

	snapshots := make(map[uuid.UUID]*models.ProductSnapshot, len(ids))
	if len(ids) == 0 {
		return snapshots, nil
	}

	var products []models.Product
	if err := s.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products for snapshot: %w", err)
	}
	for i := range products {
		snap := products[i].Snapshot()
		snapshots[products[i].ID] = &snap
	}
	return snapshots, nil
}

func (s *BOMService) buildRawMaterialLines(
	reqs []BOMRawMaterialRequest,
	fresh map[uuid.UUID]*models.ProductSnapshot,
	existing map[uuid.UUID]*models.ProductSnapshot,
) []models.BOMRawMaterial {
	lines := make([]models.BOMRawMaterial, 0, len(reqs))
	for _, r := range reqs {
		line := models.BOMRawMaterial{
			RawMaterialID:   r.RawMaterialID,
			RawMaterialName: r.RawMaterialName,
			RawMaterialCode: r.RawMaterialCode,
			Weight:          r.Weight,
			Tolerance:       r.Tolerance,
			CodeNo:          r.CodeNo,
		}
		if r.RawMaterialID != nil {
			if snap, ok := existing[*r.RawMaterialID]; ok {
				line.ProductSnapshot = snap
			} else if snap, ok := fresh[*r.RawMaterialID]; ok {
				line.ProductSnapshot = snap
			}
			if line.ProductSnapshot != nil {
				if line.RawMaterialName == "" {
					line.RawMaterialName = line.ProductSnapshot.Name
				}
				if line.RawMaterialCode == "" {
					line.RawMaterialCode = line.ProductSnapshot.ProductCode
				}
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func (s *BOMService) buildFinishedGoodLines(
	reqs []BOMFinishedGoodRequest,
	fresh map[uuid.UUID]*models.ProductSnapshot,
	existing map[uuid.UUID]*models.ProductSnapshot,
) []models.BOMFinishedGood {
	lines := make([]models.BOMFinishedGood, 0, len(reqs))
	for _, r := range reqs {
		line := models.BOMFinishedGood{
			IDName:     r.IDName,
			Tolerances: pq.StringArray(r.Tolerances),
			Quantities: pq.StringArray(r.Quantities),
			Comments:   pq.StringArray(r.Comments),
		}
		if id := parseCompositeID(r.IDName); id != nil {
			line.ProductID = id
			if snap, ok := existing[*id]; ok {
				line.ProductSnapshot = snap
			} else if snap, ok := fresh[*id]; ok {
				line.ProductSnapshot = snap
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// parseCompositeID extracts the product id from a "<id>-<name>" composite
// string. A uuid spans the first five hyphen-separated groups.
func parseCompositeID(idName string) *uuid.UUID {
	if idName == "" {
		return nil
	}
	parts := strings.SplitN(idName, "-", 6)
	if len(parts) >= 5 {
		candidate := strings.Join(parts[:5], "-")
		if id, err := uuid.Parse(candidate); err == nil {
			return &id
		}
	}
	return nil
}

func dropEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
