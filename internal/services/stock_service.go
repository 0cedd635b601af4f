// internal/services/stock_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/apperrors"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/models"
)

// StockService performs the ledger mutations on Product stock counters.
// Every method takes the caller's transaction handle so the mutation joins
// the enclosing reconciliation unit; none of them opens a transaction of
// its own.
type StockService struct{}

func NewStockService() *StockService {
	return &StockService{}
}

// Debit removes qty from usable stock and overwrites the audit slot in the
// same statement. The decrement is guarded by a stock-sufficiency predicate
// so a concurrent unit that consumed the stock first turns this into an
// InsufficientStockError instead of driving the counter negative.
func (s *StockService) Debit(tx *gorm.DB, product *models.Product, qty float64, reason string, productionID *uuid.UUID) error {
	if qty <= 0 {
		return nil
	}

	change := models.StockChange{
		ChangedOn:    time.Now(),
		ChangeType:   models.StockChangeDecrease,
		Qty:          qty,
		Reason:       reason,
		ProductionID: productionID,
	}

	result := tx.Model(&models.Product{}).
		Where("id = ? AND current_stock >= ?", product.ID, qty).
		Updates(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock - ?", qty),
			"last_change":   change,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to debit stock for %s: %w", product.ProductCode, result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperrors.InsufficientStockError{
			Shortfalls: []apperrors.StockShortfall{{
				ProductCode: product.ProductCode,
				ProductName: product.Name,
				Required:    qty,
				Available:   product.CurrentStock,
			}},
		}
	}
	return nil
}

// Credit adds qty to usable stock and overwrites the audit slot.
func (s *StockService) Credit(tx *gorm.DB, product *models.Product, qty float64, reason string, productionID *uuid.UUID) error {
	if qty <= 0 {
		return nil
	}

	change := models.StockChange{
		ChangedOn:    time.Now(),
		ChangeType:   models.StockChangeIncrease,
		Qty:          qty,
		Reason:       reason,
		ProductionID: productionID,
	}

	err := tx.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock + ?", qty),
			"last_change":   change,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to credit stock for %s: %w", product.ProductCode, err)
	}
	return nil
}

// AddReject adds qty to the reject counter. Reject-stock changes do not
// touch the audit slot; only usable-stock movements are audited.
func (s *StockService) AddReject(tx *gorm.DB, product *models.Product, qty float64) error {
	if qty <= 0 {
		return nil
	}

	err := tx.Model(&models.Product{}).
		Where("id = ?", product.ID).
		UpdateColumn("reject_stock", gorm.Expr("reject_stock + ?", qty)).Error
	if err != nil {
		return fmt.Errorf("failed to update reject stock for %s: %w", product.ProductCode, err)
	}
	return nil
}

// RevertCredit undoes a previously committed credit, flooring usable stock
// at zero, and records the reversal in the audit slot.
func (s *StockService) RevertCredit(tx *gorm.DB, product *models.Product, qty float64, reason string) error {
	if qty <= 0 {
		return nil
	}

	// Re-read inside the transaction so the floor is computed against the
	// committed value, not a stale snapshot.
	var current models.Product
	if err := tx.First(&current, product.ID).Error; err != nil {
		return fmt.Errorf("failed to load product %s: %w", product.ProductCode, err)
	}

	newStock := current.CurrentStock - qty
	if newStock < 0 {
		newStock = 0
	}

	change := models.StockChange{
		ChangedOn:  time.Now(),
		ChangeType: models.StockChangeDecrease,
		Qty:        qty,
		Reason:     reason,
	}

	err := tx.Model(&models.Product{}).
		Where("id = ?", current.ID).
		Updates(map[string]interface{}{
			"current_stock": newStock,
			"last_change":   change,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to revert stock for %s: %w", product.ProductCode, err)
	}
	return nil
}
