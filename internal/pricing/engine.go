package pricing

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ospanov/bar-exchange/internal/models"
)

const fixedModeKey = "fixed_mode"

// Engine applies the market movement rule: each order bumps the ordered
// drink up and drags every other drink down. All mutation of live prices
// funnels through here, except direct admin overrides and freeze/restore.
//
// The engine does no locking of its own; the service layer serializes
// callers because the rule is a read-then-write over the whole board.
type Engine struct {
	DB *gorm.DB

	// FixedPrices maps product name to the pinned price applied when
	// fixed mode starts.
	FixedPrices map[string]float64
}

// IsFixed reports whether fixed mode is active. A missing settings row
// counts as floating.
func (e *Engine) IsFixed(ctx context.Context) (bool, error) {
	var s models.Setting
	err := e.DB.WithContext(ctx).Where("key = ?", fixedModeKey).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.Value == "1", nil
}

// ApplyOrderEffect moves the board after an order of quantity units of the
// given product:
//
//   - fixed mode active: nothing changes, checked before anything else
//   - the ordered product gains 5 per unit
//   - every other product loses 1 per unit, unless its price is not
//     strictly greater than the total decrement, in which case it is left
//     untouched (not floored to zero)
//
// Quantity below 1 is clamped to 1; there is no error path for bad input.
// Applying the same order twice moves prices twice.
func (e *Engine) ApplyOrderEffect(ctx context.Context, productID uint, quantity int) error {
	fixed, err := e.IsFixed(ctx)
	if err != nil {
		return err
	}
	if fixed {
		return nil
	}

	if quantity < 1 {
		quantity = 1
	}

	return e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("id = ?", productID).
			Update("price", gorm.Expr("price + ?", 5*quantity)).Error; err != nil {
			return err
		}

		return tx.Model(&models.Product{}).
			Where("id <> ? AND price > ?", productID, quantity).
			Update("price", gorm.Expr("price - ?", quantity)).Error
	})
}
