package pricing

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ospanov/bar-exchange/internal/models"
)

// StartFixedMode snapshots the current price of every configured product
// into the backup table, pins the product at its configured fixed price and
// raises the fixed_mode flag. Any previous backup generation is discarded
// first, so the operation is safe to repeat. Configured names with no
// matching product are skipped silently.
func (e *Engine) StartFixedMode(ctx context.Context) error {
	names := make([]string, 0, len(e.FixedPrices))
	for name := range e.FixedPrices {
		names = append(names, name)
	}
	sort.Strings(names)

	return e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.FixedPriceBackup{}).Error; err != nil {
			return err
		}

		for _, name := range names {
			var prod models.Product
			err := tx.Where("name = ?", name).First(&prod).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			backup := models.FixedPriceBackup{ProductID: prod.ID, Price: prod.Price}
			if err := tx.Create(&backup).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.Product{}).
				Where("id = ?", prod.ID).
				Update("price", e.FixedPrices[name]).Error; err != nil {
				return err
			}
		}

		return setFixedMode(tx, true)
	})
}

// StopFixedMode writes every backed-up price back over the live price,
// clears the backup table and drops the fixed_mode flag.
func (e *Engine) StopFixedMode(ctx context.Context) error {
	return e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var backups []models.FixedPriceBackup
		if err := tx.Find(&backups).Error; err != nil {
			return err
		}

		for _, b := range backups {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", b.ProductID).
				Update("price", b.Price).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("1 = 1").Delete(&models.FixedPriceBackup{}).Error; err != nil {
			return err
		}

		return setFixedMode(tx, false)
	})
}

func setFixedMode(tx *gorm.DB, active bool) error {
	value := "0"
	if active {
		value = "1"
	}
	s := models.Setting{Key: fixedModeKey, Value: value}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&s).Error
}
