// internal/services/qualitycheck_service.go
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
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/utils"
)

type QualityCheckService struct {
	db             *gorm.DB
	reconciliation *ReconciliationService
}

func NewQualityCheckService(db *gorm.DB, reconciliation *ReconciliationService) *QualityCheckService {
	return &QualityCheckService{db: db, reconciliation: reconciliation}
}

type CreateQualityCheckRequest struct {
	GateEntryID      uuid.UUID `json:"gateman_entry_id" validate:"required"`
	ItemID           uuid.UUID `json:"item_id" validate:"required"`
	ApprovedQuantity float64   `json:"approved_quantity" validate:"gte=0"`
	RejectedQuantity float64   `json:"rejected_quantity" validate:"gte=0"`
	AttachedReport   string    `json:"attached_report"`
}

type UpdateQualityCheckRequest struct {
	ApprovedQuantity float64 `json:"approved_quantity" validate:"gte=0"`
	RejectedQuantity float64 `json:"rejected_quantity" validate:"gte=0"`
	AttachedReport   string  `json:"attached_report"`
}

// AvailableItem is a gate-entry line still open for inspection. Remaining
// is the received quantity minus everything already inspected.
type AvailableItem struct {
	GateEntryID   uuid.UUID `json:"gateman_entry_id"`
	GateEntryCode string    `json:"gate_entry_code"`
	ItemID        uuid.UUID `json:"item_id"`
	ItemName      string    `json:"item_name"`
	ItemQuantity  float64   `json:"item_quantity"`
	Inspected     float64   `json:"inspected_quantity"`
	Remaining     float64   `json:"remaining_quantity"`
	InvoiceNumber string    `json:"invoice_number"`
	CompanyName   string    `json:"company_name"`
}

// Available lists items of verified gate entries with uninspected quantity
// left.
func (s *QualityCheckService) Available() ([]AvailableItem, error) {
	var entries []models.GateEntry
	err := s.db.Preload("Items").
		Where("status = ?", models.GateEntryStatusVerified).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load gate entries: %w", err)
	}

	items := make([]AvailableItem, 0)
	for i := range entries {
		entry := &entries[i]
		for j := range entry.Items {
			item := &entry.Items[j]

			var inspected float64
			err := s.db.Model(&models.QualityCheck{}).
				Where("item_id = ?", item.ID).
				Select("COALESCE(SUM(total_quantity), 0)").
				Scan(&inspected).Error
			if err != nil {
				return nil, fmt.Errorf("failed to sum inspections: %w", err)
			}

			remaining := item.ItemQuantity - inspected
			if remaining <= 0 {
				continue
			}
			items = append(items, AvailableItem{
				GateEntryID:   entry.ID,
				GateEntryCode: entry.GateEntryCode,
				ItemID:        item.ID,
				ItemName:      item.ItemName,
				ItemQuantity:  item.ItemQuantity,
				Inspected:     inspected,
				Remaining:     remaining,
				InvoiceNumber: entry.InvoiceNumber,
				CompanyName:   entry.CompanyName,
			})
		}
	}
	return items, nil
}

// Create records an inspection and credits its approved quantity into
// usable stock in one transaction. The max-allowed cap is what remains
// uninspected on the gate-entry line, so repeated partial inspections can
// never overrun the received quantity.
func (s *QualityCheckService) Create(req *CreateQualityCheckRequest, createdBy *uuid.UUID) (*models.QualityCheck, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid quality check data: %v", err)
	}

	var entry models.GateEntry
	err := s.db.Preload("Items").First(&entry, "id = ?", req.GateEntryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("Gate entry", req.GateEntryID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load gate entry: %w", err)
	}
	if entry.Status != models.GateEntryStatusVerified {
		return nil, apperrors.NewValidationError("gate entry %s is not verified", entry.GateEntryCode)
	}

	var item *models.GateEntryItem
	for i := range entry.Items {
		if entry.Items[i].ID == req.ItemID {
			item = &entry.Items[i]
			break
		}
	}
	if item == nil {
		return nil, apperrors.NewNotFoundError("Gate entry item", req.ItemID.String())
	}

	var inspected float64
	err = s.db.Model(&models.QualityCheck{}).
		Where("item_id = ?", item.ID).
		Select("COALESCE(SUM(total_quantity), 0)").
		Scan(&inspected).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum inspections: %w", err)
	}

	maxAllowed := item.ItemQuantity - inspected
	total := req.ApprovedQuantity + req.RejectedQuantity
	if total > maxAllowed {
		return nil, apperrors.NewValidationError(
			"total quantity (%g) exceeds remaining inspectable quantity (%g) for %s",
			total, maxAllowed, item.ItemName)
	}

	check := &models.QualityCheck{
		GateEntryID:        entry.ID,
		ItemID:             item.ID,
		ItemName:           item.ItemName,
		ApprovedQuantity:   req.ApprovedQuantity,
		RejectedQuantity:   req.RejectedQuantity,
		MaxAllowedQuantity: maxAllowed,
		Status:             models.QualityCheckStatusCompleted,
		AttachedReport:     req.AttachedReport,
		CreatedByID:        createdBy,
	}

	reason := fmt.Sprintf("Quality check passed - %s (gate entry %s)", item.ItemName, entry.GateEntryCode)
	if err := s.reconciliation.CreditInspection(check, reason); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"gate_entry": entry.GateEntryCode,
		"item":       item.ItemName,
		"approved":   req.ApprovedQuantity,
		"rejected":   req.RejectedQuantity,
	}).Info("quality check recorded")

	return check, nil
}

// Update edits an inspection; only the approved-quantity difference is
// applied to usable stock.
func (s *QualityCheckService) Update(id uuid.UUID, req *UpdateQualityCheckRequest) (*models.QualityCheck, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid quality check data: %v", err)
	}

	check, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	total := req.ApprovedQuantity + req.RejectedQuantity
	if total > check.MaxAllowedQuantity {
		return nil, apperrors.NewValidationError(
			"total quantity (%g) cannot exceed maximum allowed quantity (%g)",
			total, check.MaxAllowedQuantity)
	}

	diff := req.ApprovedQuantity - check.ApprovedQuantity
	check.ApprovedQuantity = req.ApprovedQuantity
	check.RejectedQuantity = req.RejectedQuantity
	check.Status = models.QualityCheckStatusReviewed
	if req.AttachedReport != "" {
		check.AttachedReport = req.AttachedReport
	}

	reason := fmt.Sprintf("Quality check %s updated - %s", id, check.ItemName)
	if err := s.reconciliation.AdjustInspection(check, diff, reason); err != nil {
		return nil, err
	}
	return check, nil
}

// Delete removes an inspection and reverses its approved credit, floored
// at zero.
func (s *QualityCheckService) Delete(id uuid.UUID) error {
	check, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.reconciliation.UndoInspection(check)
}

func (s *QualityCheckService) Get(id uuid.UUID) (*models.QualityCheck, error) {
	var check models.QualityCheck
	err := s.db.Preload("GateEntry").First(&check, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("Quality check", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quality check: %w", err)
	}
	return &check, nil
}

func (s *QualityCheckService) List(params utils.PaginationParams) ([]models.QualityCheck, int64, error) {
	query := s.db.Model(&models.QualityCheck{})
	if params.Search != "" {
		query = query.Where("LOWER(item_name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count quality checks: %w", err)
	}

	var checks []models.QualityCheck
	err := utils.ApplyPagination(query, params).
		Order("created_at DESC").
		Preload("GateEntry").
		Find(&checks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch quality checks: %w", err)
	}
	return checks, total, nil
}
