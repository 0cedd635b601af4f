// internal/services/production_service.go
package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/apperrors"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/models"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/sequence"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/utils"
)

type ProductionService struct {
	db             *gorm.DB
	reconciliation *ReconciliationService
}

func NewProductionService(db *gorm.DB, reconciliation *ReconciliationService) *ProductionService {
	return &ProductionService{db: db, reconciliation: reconciliation}
}

type ProductionFinishedGoodRequest struct {
	CompoundCode string  `json:"compound_code"`
	CompoundName string  `json:"compound_name"`
	EstQty       float64 `json:"est_qty"`
	ProdQty      float64 `json:"prod_qty"`
	UOM          string  `json:"uom"`
	Category     string  `json:"category"`
}

type ProductionRawMaterialRequest struct {
	RawMaterialID   *uuid.UUID `json:"raw_material_id"`
	RawMaterialName string     `json:"raw_material_name"`
	RawMaterialCode string     `json:"raw_material_code"`
	EstQty          float64    `json:"est_qty"`
	UsedQty         float64    `json:"used_qty"`
	UOM             string     `json:"uom"`
	Category        string     `json:"category"`
}

type ProductionProcessRequest struct {
	ID          *uuid.UUID `json:"id"`
	ProcessName string     `json:"process_name"`
	WorkDone    float64    `json:"work_done"`
	Start       bool       `json:"start"`
	Done        bool       `json:"done"`
}

type CreateProductionRequest struct {
	BOMID         uuid.UUID                       `json:"bom" validate:"required"`
	FinishedGoods []ProductionFinishedGoodRequest `json:"finished_goods"`
	RawMaterials  []ProductionRawMaterialRequest  `json:"raw_materials"`
	Processes     []ProductionProcessRequest      `json:"processes"`
}

type UpdateProductionRequest struct {
	FinishedGoods []ProductionFinishedGoodRequest `json:"finished_goods"`
	RawMaterials  []ProductionRawMaterialRequest  `json:"raw_materials"`
	Processes     []ProductionProcessRequest      `json:"processes"`
}

type QCDecisionRequest struct {
	ApprovedQty  float64 `json:"approved_qty"`
	RejectedQty  float64 `json:"rejected_qty"`
	RejectReason string  `json:"reject_reason"`
}

// Create builds a production run from its BOM, assigns the next PROD id and
// hands the run to the reconciliation unit, which persists it and debits
// the raw-material lines atomically. No row is written when any line fails
// to resolve or stock is short.
func (s *ProductionService) Create(req *CreateProductionRequest, createdBy *uuid.UUID) (*models.Production, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid production data: %v", err)
	}

	var bom models.BOM
	err := s.db.Preload("RawMaterials").Preload("FinishedGoods").First(&bom, "id = ?", req.BOMID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("BOM", req.BOMID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load BOM: %w", err)
	}

	production := &models.Production{
		BOMID:       bom.ID,
		CreatedByID: createdBy,
	}
	production.FinishedGoods = buildFinishedGoods(&bom, req.FinishedGoods)
	production.RawMaterials = buildRawMaterials(&bom, req.RawMaterials, totalEstQty(production.FinishedGoods))
	production.Processes = buildProcesses(&bom, req.Processes)
	s.refreshDerivedState(production)

	code, err := sequence.NextID(s.db, "productions", "production_code", "PROD", 4)
	if err != nil {
		return nil, err
	}
	production.ProductionCode = code

	err = s.reconciliation.Start(production)
	if sequence.IsDuplicate(err) {
		code, err = sequence.NextID(s.db, "productions", "production_code", "PROD", 4)
		if err != nil {
			return nil, err
		}
		production.ProductionCode = code
		production.ID = uuid.Nil
		err = s.reconciliation.Start(production)
	}
	if err != nil {
		return nil, err
	}

	return s.Get(production.ID)
}

// Update rewrites quantities and process flags, then recomputes remain
// values, per-step statuses and the run status. Stock is not touched here;
// ledger effects happen only at create, approve and reject.
func (s *ProductionService) Update(id uuid.UUID, req *UpdateProductionRequest) (*models.Production, error) {
	production, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	applyFinishedGoodUpdates(production, req.FinishedGoods)
	applyRawMaterialUpdates(production, req.RawMaterials)
	applyProcessUpdates(production, req.Processes)
	s.refreshDerivedState(production)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range production.FinishedGoods {
			if err := tx.Save(&production.FinishedGoods[i]).Error; err != nil {
				return err
			}
		}
		for i := range production.RawMaterials {
			if err := tx.Save(&production.RawMaterials[i]).Error; err != nil {
				return err
			}
		}
		for i := range production.Processes {
			if err := tx.Save(&production.Processes[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(production).Update("status", production.Status).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update production: %w", err)
	}

	return s.Get(id)
}

// MarkReadyForQC flags the run for inspection. The run status is left
// untouched.
func (s *ProductionService) MarkReadyForQC(id uuid.UUID) (*models.Production, error) {
	production, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if production.QCDone {
		return nil, apperrors.NewValidationError("production %s has already been through QC", production.ProductionCode)
	}
	if err := s.db.Model(production).Update("ready_for_qc", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark production ready for QC: %w", err)
	}
	production.ReadyForQC = true
	return production, nil
}

// Approve records the QC verdict and credits finished goods through the
// reconciliation unit. When the run has a single output line the body
// quantities are applied to that line.
func (s *ProductionService) Approve(id uuid.UUID, req *QCDecisionRequest) (*models.Production, error) {
	production, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !production.ReadyForQC {
		return nil, apperrors.NewValidationError("production %s is not marked ready for QC", production.ProductionCode)
	}
	if production.QCDone {
		return nil, apperrors.NewValidationError("production %s has already been through QC", production.ProductionCode)
	}
	if req.ApprovedQty < 0 || req.RejectedQty < 0 {
		return nil, apperrors.NewValidationError("quantities cannot be negative")
	}

	production.ApprovedQty = req.ApprovedQty
	production.RejectedQty = req.RejectedQty
	if len(production.FinishedGoods) == 1 {
		line := &production.FinishedGoods[0]
		if req.ApprovedQty > 0 {
			line.ApprovedQty = req.ApprovedQty
		}
		line.RejectedQty = req.RejectedQty
	}

	if err := s.reconciliation.Approve(production); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Reject books the full rejected quantity into reject stock and stores the
// reason. Usable stock is never credited.
func (s *ProductionService) Reject(id uuid.UUID, req *QCDecisionRequest) (*models.Production, error) {
	production, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !production.ReadyForQC {
		return nil, apperrors.NewValidationError("production %s is not marked ready for QC", production.ProductionCode)
	}
	if production.QCDone {
		return nil, apperrors.NewValidationError("production %s has already been through QC", production.ProductionCode)
	}

	production.ApprovedQty = 0
	production.RejectedQty = req.RejectedQty
	production.RejectReason = req.RejectReason
	if len(production.FinishedGoods) == 1 && req.RejectedQty > 0 {
		production.FinishedGoods[0].RejectedQty = req.RejectedQty
	}

	if err := s.reconciliation.Reject(production); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Finish moves the run to completed. Idempotent; finishing a completed run
// is a no-op. Completion is never inferred from process flags.
func (s *ProductionService) Finish(id uuid.UUID) (*models.Production, error) {
	production, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if production.Status == models.ProductionStatusCompleted {
		return production, nil
	}
	if err := s.db.Model(production).Update("status", models.ProductionStatusCompleted).Error; err != nil {
		return nil, fmt.Errorf("failed to finish production: %w", err)
	}
	production.Status = models.ProductionStatusCompleted

	logrus.WithField("production", production.ProductionCode).Info("production finished")
	return production, nil
}

func (s *ProductionService) Delete(id uuid.UUID) error {
	production, err := s.Get(id)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("production_id = ?", id).Delete(&models.ProductionFinishedGood{}).Error; err != nil {
			return err
		}
		if err := tx.Where("production_id = ?", id).Delete(&models.ProductionRawMaterial{}).Error; err != nil {
			return err
		}
		if err := tx.Where("production_id = ?", id).Delete(&models.ProductionProcess{}).Error; err != nil {
			return err
		}
		return tx.Delete(production).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete production: %w", err)
	}
	return nil
}

func (s *ProductionService) Get(id uuid.UUID) (*models.Production, error) {
	var production models.Production
	err := s.db.
		Preload("FinishedGoods").
		Preload("RawMaterials").
		Preload("Processes", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("BOM").
		First(&production, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("Production", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load production: %w", err)
	}
	return &production, nil
}

func (s *ProductionService) List(params utils.PaginationParams) ([]models.Production, int64, error) {
	query := s.db.Model(&models.Production{})
	if params.Search != "" {
		query = query.Where("LOWER(production_code) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count productions: %w", err)
	}

	var productions []models.Production
	err := utils.ApplyPagination(query, params).
		Order("created_at DESC").
		Preload("FinishedGoods").
		Preload("RawMaterials").
		Preload("Processes", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Find(&productions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch productions: %w", err)
	}
	return productions, total, nil
}

// refreshDerivedState recomputes remain quantities, per-step statuses and
// the run status. A completed run stays completed.
func (s *ProductionService) refreshDerivedState(p *models.Production) {
	anyActivity := false

	for i := range p.FinishedGoods {
		line := &p.FinishedGoods[i]
		line.RemainQty = clampRemain(line.EstQty, line.ProdQty)
	}
	for i := range p.RawMaterials {
		line := &p.RawMaterials[i]
		line.RemainQty = clampRemain(line.EstQty, line.UsedQty)
		if line.UsedQty > 0 {
			anyActivity = true
		}
	}
	for i := range p.Processes {
		step := &p.Processes[i]
		step.Status = step.DeriveStatus()
		if step.Start || step.Done {
			anyActivity = true
		}
	}

	if p.Status == models.ProductionStatusCompleted {
		return
	}
	if anyActivity {
		p.Status = models.ProductionStatusInProgress
	} else {
		p.Status = models.ProductionStatusPending
	}
}

func clampRemain(est, consumed float64) float64 {
	remain := est - consumed
	if remain < 0 {
		return 0
	}
	return remain
}

func totalEstQty(lines []models.ProductionFinishedGood) float64 {
	var total float64
	for i := range lines {
		total += lines[i].EstQty
	}
	return total
}

// buildFinishedGoods merges request lines over the BOM's output defaults.
// With no request lines, one line per BOM finished good is seeded from the
// BOM's first quantity value.
func buildFinishedGoods(bom *models.BOM, reqs []ProductionFinishedGoodRequest) []models.ProductionFinishedGood {
	if len(reqs) > 0 {
		lines := make([]models.ProductionFinishedGood, 0, len(reqs))
		for _, r := range reqs {
			line := models.ProductionFinishedGood{
				BOMID:        bom.ID,
				CompoundCode: r.CompoundCode,
				CompoundName: r.CompoundName,
				EstQty:       r.EstQty,
				ProdQty:      r.ProdQty,
				UOM:          r.UOM,
				Category:     r.Category,
			}
			attachBOMFinishedGood(bom, &line)
			lines = append(lines, line)
		}
		return lines
	}

	lines := make([]models.ProductionFinishedGood, 0, len(bom.FinishedGoods))
	for i := range bom.FinishedGoods {
		src := &bom.FinishedGoods[i]
		line := models.ProductionFinishedGood{
			BOMID:     bom.ID,
			ProductID: src.ProductID,
			Snapshot:  src.ProductSnapshot,
		}
		if src.ProductSnapshot != nil {
			line.CompoundCode = src.ProductSnapshot.ProductCode
			line.CompoundName = src.ProductSnapshot.Name
			line.Category = src.ProductSnapshot.Category
			line.UOM = src.ProductSnapshot.UOM
		}
		if len(src.Quantities) > 0 {
			if qty, err := strconv.ParseFloat(src.Quantities[0], 64); err == nil {
				line.EstQty = qty
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// attachBOMFinishedGood links a request line back to the matching BOM
// output line's product reference and frozen snapshot, matched by code.
func attachBOMFinishedGood(bom *models.BOM, line *models.ProductionFinishedGood) {
	for i := range bom.FinishedGoods {
		src := &bom.FinishedGoods[i]
		if src.ProductSnapshot == nil {
			continue
		}
		if src.ProductSnapshot.ProductCode == line.CompoundCode || src.ProductSnapshot.Name == line.CompoundName {
			line.ProductID = src.ProductID
			line.Snapshot = src.ProductSnapshot
			if line.UOM == "" {
				line.UOM = src.ProductSnapshot.UOM
			}
			if line.Category == "" {
				line.Category = src.ProductSnapshot.Category
			}
			return
		}
	}
}

// buildRawMaterials merges request lines over the BOM's input defaults.
// When a BOM line carries a per-unit weight and the request gives no
// estimate, the estimate is scaled as weight x total output estimate.
func buildRawMaterials(bom *models.BOM, reqs []ProductionRawMaterialRequest, outputEst float64) []models.ProductionRawMaterial {
	if len(reqs) > 0 {
		lines := make([]models.ProductionRawMaterial, 0, len(reqs))
		for _, r := range reqs {
			line := models.ProductionRawMaterial{
				RawMaterialID:   r.RawMaterialID,
				RawMaterialName: r.RawMaterialName,
				RawMaterialCode: r.RawMaterialCode,
				EstQty:          r.EstQty,
				UsedQty:         r.UsedQty,
				UOM:             r.UOM,
				Category:        r.Category,
			}
			attachBOMRawMaterial(bom, &line, outputEst)
			lines = append(lines, line)
		}
		return lines
	}

	lines := make([]models.ProductionRawMaterial, 0, len(bom.RawMaterials))
	for i := range bom.RawMaterials {
		src := &bom.RawMaterials[i]
		line := models.ProductionRawMaterial{
			RawMaterialID:   src.RawMaterialID,
			RawMaterialName: src.RawMaterialName,
			RawMaterialCode: src.RawMaterialCode,
			Weight:          src.Weight,
			Tolerance:       src.Tolerance,
			CodeNo:          src.CodeNo,
			Snapshot:        src.ProductSnapshot,
			EstQty:          scaledEstimate(src.Weight, outputEst),
		}
		if src.ProductSnapshot != nil {
			line.UOM = src.ProductSnapshot.UOM
			line.Category = src.ProductSnapshot.Category
		}
		lines = append(lines, line)
	}
	return lines
}

func attachBOMRawMaterial(bom *models.BOM, line *models.ProductionRawMaterial, outputEst float64) {
	for i := range bom.RawMaterials {
		src := &bom.RawMaterials[i]
		match := (line.RawMaterialID != nil && src.RawMaterialID != nil && *line.RawMaterialID == *src.RawMaterialID) ||
			(line.RawMaterialCode != "" && line.RawMaterialCode == src.RawMaterialCode) ||
			(line.RawMaterialName != "" && line.RawMaterialName == src.RawMaterialName)
		if !match {
			continue
		}
		if line.RawMaterialID == nil {
			line.RawMaterialID = src.RawMaterialID
		}
		if line.RawMaterialName == "" {
			line.RawMaterialName = src.RawMaterialName
		}
		if line.RawMaterialCode == "" {
			line.RawMaterialCode = src.RawMaterialCode
		}
		line.Weight = src.Weight
		line.Tolerance = src.Tolerance
		line.CodeNo = src.CodeNo
		line.Snapshot = src.ProductSnapshot
		if line.EstQty == 0 {
			line.EstQty = scaledEstimate(src.Weight, outputEst)
		}
		if line.UOM == "" && src.ProductSnapshot != nil {
			line.UOM = src.ProductSnapshot.UOM
		}
		return
	}
}

// scaledEstimate converts a BOM per-unit weight string into an estimated
// consumption for the run's total output estimate.
func scaledEstimate(weight string, outputEst float64) float64 {
	if weight == "" || outputEst <= 0 {
		return 0
	}
	w, err := strconv.ParseFloat(weight, 64)
	if err != nil || w <= 0 {
		return 0
	}
	return w * outputEst
}

func buildProcesses(bom *models.BOM, reqs []ProductionProcessRequest) []models.ProductionProcess {
	if len(reqs) > 0 {
		steps := make([]models.ProductionProcess, 0, len(reqs))
		for i, r := range reqs {
			step := models.ProductionProcess{
				ProcessName: r.ProcessName,
				WorkDone:    r.WorkDone,
				Start:       r.Start,
				Done:        r.Done,
				Position:    i,
			}
			step.Status = step.DeriveStatus()
			steps = append(steps, step)
		}
		return steps
	}

	steps := make([]models.ProductionProcess, 0, len(bom.Processes))
	for i, name := range bom.Processes {
		steps = append(steps, models.ProductionProcess{
			ProcessName: name,
			Position:    i,
			Status:      models.ProcessStatusPending,
		})
	}
	return steps
}

func applyFinishedGoodUpdates(p *models.Production, reqs []ProductionFinishedGoodRequest) {
	for _, r := range reqs {
		for i := range p.FinishedGoods {
			line := &p.FinishedGoods[i]
			if (r.CompoundCode != "" && r.CompoundCode == line.CompoundCode) ||
				(r.CompoundName != "" && r.CompoundName == line.CompoundName) {
				if r.EstQty > 0 {
					line.EstQty = r.EstQty
				}
				line.ProdQty = r.ProdQty
				break
			}
		}
	}
}

func applyRawMaterialUpdates(p *models.Production, reqs []ProductionRawMaterialRequest) {
	for _, r := range reqs {
		for i := range p.RawMaterials {
			line := &p.RawMaterials[i]
			match := (r.RawMaterialID != nil && line.RawMaterialID != nil && *r.RawMaterialID == *line.RawMaterialID) ||
				(r.RawMaterialCode != "" && r.RawMaterialCode == line.RawMaterialCode) ||
				(r.RawMaterialName != "" && r.RawMaterialName == line.RawMaterialName)
			if match {
				if r.EstQty > 0 {
					line.EstQty = r.EstQty
				}
				line.UsedQty = r.UsedQty
				break
			}
		}
	}
}

func applyProcessUpdates(p *models.Production, reqs []ProductionProcessRequest) {
	for _, r := range reqs {
		for i := range p.Processes {
			step := &p.Processes[i]
			match := (r.ID != nil && *r.ID == step.ID) ||
				(r.ProcessName != "" && r.ProcessName == step.ProcessName)
			if match {
				step.Start = r.Start
				step.Done = r.Done
				step.WorkDone = r.WorkDone
				break
			}
		}
	}
}
