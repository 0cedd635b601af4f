// internal/services/reconciliation_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/apperrors"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/models"
)

// ReconciliationService executes every stock-affecting operation as one
// atomic unit spanning the affected Product rows plus the owning
// Production or QualityCheck record. Either every mutation commits or none
// does: a resolution failure or stock shortfall on line 3 of 5 rolls back
// lines 1-2 as well.
type ReconciliationService struct {
	db         *gorm.DB
	stock      *StockService
	resolution *ResolutionService
}

func NewReconciliationService(db *gorm.DB, stock *StockService, resolution *ResolutionService) *ReconciliationService {
	return &ReconciliationService{
		db:         db,
		stock:      stock,
		resolution: resolution,
	}
}

type plannedDebit struct {
	product *models.Product
	qty     float64
	line    *models.ProductionRawMaterial
}

// Start persists a new production run and debits its raw-material lines in
// one transaction. Sufficiency is verified for every line before any
// mutation is applied, so the caller sees the complete shortfall list
// rather than the first failure.
func (r *ReconciliationService) Start(production *models.Production) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		planned := make([]plannedDebit, 0, len(production.RawMaterials))
		var shortfalls []apperrors.StockShortfall

		for i := range production.RawMaterials {
			line := &production.RawMaterials[i]

			qty := line.EstQty
			if line.UsedQty > 0 {
				qty = line.UsedQty
			}
			if qty <= 0 {
				continue
			}

			product, err := r.resolution.Resolve(tx, LineRef{
				ProductID: line.RawMaterialID,
				Snapshot:  line.Snapshot,
				Code:      line.RawMaterialCode,
				Name:      line.RawMaterialName,
			})
			if err != nil {
				return err
			}

			// Backfill the authoritative reference so later operations
			// resolve on the first step of the chain.
			line.RawMaterialID = &product.ID

			if product.CurrentStock < qty {
				shortfalls = append(shortfalls, apperrors.StockShortfall{
					ProductCode: product.ProductCode,
					ProductName: product.Name,
					Required:    qty,
					Available:   product.CurrentStock,
				})
				continue
			}

			planned = append(planned, plannedDebit{product: product, qty: qty, line: line})
		}

		if len(shortfalls) > 0 {
			return &apperrors.InsufficientStockError{Shortfalls: shortfalls}
		}

		if err := tx.Create(production).Error; err != nil {
			return fmt.Errorf("failed to create production: %w", err)
		}

		for _, p := range planned {
			reason := fmt.Sprintf("Production %s started - consumed %s", production.ProductionCode, p.line.RawMaterialName)
			if err := r.stock.Debit(tx, p.product, p.qty, reason, &production.ID); err != nil {
				return err
			}
		}

		logrus.WithFields(logrus.Fields{
			"production": production.ProductionCode,
			"lines":      len(planned),
		}).Info("production started, raw materials debited")

		return nil
	})
}

// Approve credits finished goods into usable stock and books rejected
// quantities into reject stock, then marks the production approved, all in
// one transaction. Only the usable-stock delta touches the audit slot;
// reject-stock increments are silent there.
func (r *ReconciliationService) Approve(production *models.Production) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range production.FinishedGoods {
			line := &production.FinishedGoods[i]

			delta := line.ProdQty
			if line.ApprovedQty > 0 {
				delta = line.ApprovedQty
			}
			if delta <= 0 && line.RejectedQty <= 0 {
				continue
			}

			product, err := r.resolution.Resolve(tx, LineRef{
				ProductID: line.ProductID,
				Snapshot:  line.Snapshot,
				Code:      line.CompoundCode,
				Name:      line.CompoundName,
			})
			if err != nil {
				return err
			}
			line.ProductID = &product.ID

			reason := fmt.Sprintf("Production %s approved - produced %s", production.ProductionCode, line.CompoundName)
			if err := r.stock.Credit(tx, product, delta, reason, &production.ID); err != nil {
				return err
			}
			if err := r.stock.AddReject(tx, product, line.RejectedQty); err != nil {
				return err
			}
			if err := tx.Model(line).Updates(map[string]interface{}{
				"product_id":   line.ProductID,
				"approved_qty": line.ApprovedQty,
				"rejected_qty": line.RejectedQty,
			}).Error; err != nil {
				return fmt.Errorf("failed to update finished good line: %w", err)
			}
		}

		approved := models.QCStatusApproved
		if err := tx.Model(production).Updates(map[string]interface{}{
			"qc_status":    approved,
			"qc_done":      true,
			"approved_qty": production.ApprovedQty,
			"rejected_qty": production.RejectedQty,
		}).Error; err != nil {
			return fmt.Errorf("failed to mark production approved: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"production":   production.ProductionCode,
			"approved_qty": production.ApprovedQty,
			"rejected_qty": production.RejectedQty,
		}).Info("production approved, finished goods credited")

		return nil
	})
}

// Reject books rejected quantities into reject stock for every output line
// and marks the production rejected. Usable stock is untouched.
func (r *ReconciliationService) Reject(production *models.Production) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range production.FinishedGoods {
			line := &production.FinishedGoods[i]

			qty := line.RejectedQty
			if qty <= 0 {
				qty = line.ProdQty
			}
			if qty <= 0 {
				continue
			}

			product, err := r.resolution.Resolve(tx, LineRef{
				ProductID: line.ProductID,
				Snapshot:  line.Snapshot,
				Code:      line.CompoundCode,
				Name:      line.CompoundName,
			})
			if err != nil {
				return err
			}

			if err := r.stock.AddReject(tx, product, qty); err != nil {
				return err
			}
		}

		rejected := models.QCStatusRejected
		if err := tx.Model(production).Updates(map[string]interface{}{
			"qc_status":     rejected,
			"qc_done":       true,
			"approved_qty":  production.ApprovedQty,
			"rejected_qty":  production.RejectedQty,
			"reject_reason": production.RejectReason,
		}).Error; err != nil {
			return fmt.Errorf("failed to mark production rejected: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"production": production.ProductionCode,
			"reason":     production.RejectReason,
		}).Info("production rejected")

		return nil
	})
}

// CreditInspection books a gate-entry quality check into the ledger:
// approved quantity into usable stock (audited) and rejected quantity into
// reject stock, together with the QualityCheck record itself.
func (r *ReconciliationService) CreditInspection(check *models.QualityCheck, reason string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(check).Error; err != nil {
			return err
		}

		if check.ApprovedQuantity <= 0 {
			return nil
		}

		product, err := r.resolution.Resolve(tx, LineRef{Name: check.ItemName})
		if err != nil {
			return err
		}

		if err := r.stock.Credit(tx, product, check.ApprovedQuantity, reason, nil); err != nil {
			return err
		}
		return r.stock.AddReject(tx, product, check.RejectedQuantity)
	})
}

// AdjustInspection applies the approved-quantity difference of a quality
// check edit to usable stock, in the same transaction as the record update.
func (r *ReconciliationService) AdjustInspection(check *models.QualityCheck, diff float64, reason string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(check).Error; err != nil {
			return err
		}

		if diff == 0 {
			return nil
		}

		product, err := r.resolution.Resolve(tx, LineRef{Name: check.ItemName})
		if err != nil {
			return err
		}

		if diff > 0 {
			return r.stock.Credit(tx, product, diff, reason, nil)
		}
		return r.stock.RevertCredit(tx, product, -diff, reason)
	})
}

// UndoInspection reverses a previously committed approval when its quality
// check record is deleted: usable stock loses the approved quantity,
// floored at zero, and the record is removed in the same unit.
func (r *ReconciliationService) UndoInspection(check *models.QualityCheck) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if check.ApprovedQuantity > 0 {
			product, err := r.resolution.Resolve(tx, LineRef{Name: check.ItemName})
			if err != nil {
				return err
			}

			reason := fmt.Sprintf("Quality check deleted - %s (removed %g units)", check.ItemName, check.ApprovedQuantity)
			if err := r.stock.RevertCredit(tx, product, check.ApprovedQuantity, reason); err != nil {
				return err
			}
		}

		if err := tx.Delete(&models.QualityCheck{}, check.ID).Error; err != nil {
			return fmt.Errorf("failed to delete quality check: %w", err)
		}
		return nil
	})
}
