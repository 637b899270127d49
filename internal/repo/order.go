package repo

import (
	"context"

	"github.com/ospanov/bar-exchange/internal/models"
)

// BillLine is one row of a table's bill, joined with the product name.
// UnitPrice is the ledger price, not the live one.
type BillLine struct {
	OrderID     uint    `json:"order_id"`
	ProductName string  `json:"product_name"`
	Quantity    uint    `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormRepo) BillForTable(ctx context.Context, tableID uint) ([]BillLine, error) {
	var lines []BillLine
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("orders.id AS order_id, products.name AS product_name, orders.quantity, orders.unit_price, orders.unit_price * orders.quantity AS line_total").
		Joins("JOIN products ON products.id = orders.product_id").
		Where("orders.table_id = ?", tableID).
		Order("orders.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// ClearTable deletes every ledger row for the table. Irreversible.
func (r *GormRepo) ClearTable(ctx context.Context, tableID uint) error {
	return r.DB.WithContext(ctx).Where("table_id = ?", tableID).
		Delete(&models.Order{}).Error
}
