package repo

import (
	"context"

	"github.com/ospanov/bar-exchange/internal/models"
)

func (r *GormRepo) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	table := models.Table{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *GormRepo) GetTables(ctx context.Context) ([]models.Table, error) {
	var items []models.Table
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateTable(ctx context.Context, table *models.Table) (*models.Table, error) {
	if err := r.DB.WithContext(ctx).Create(table).Error; err != nil {
		return nil, err
	}
	return table, nil
}
