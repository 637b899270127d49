package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/ospanov/bar-exchange/internal/models"
	"github.com/ospanov/bar-exchange/internal/pricing"
	"github.com/ospanov/bar-exchange/internal/repo"
	"github.com/ospanov/bar-exchange/internal/transport"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
)

// MarketService is the single entry point for everything that touches the
// board. The mutex serializes order submissions, freeze transitions and
// admin price writes: the movement rule is a read-then-write over shared
// state and must not interleave.
type MarketService struct {
	Repo   *repo.GormRepo
	Engine *pricing.Engine

	mu sync.Mutex
}

func (s *MarketService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return prod, err
}

func (s *MarketService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *MarketService) Board(ctx context.Context) ([]models.Product, error) {
	return s.Repo.AllProducts(ctx)
}

func (s *MarketService) AddProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be > 0", ErrValidation)
	}

	prod := models.Product{Name: req.Name, Price: req.Price}
	return s.Repo.CreateProduct(ctx, &prod)
}

// SetProductPrice is the direct admin override. It bypasses the movement
// rule, accepts any price and does not touch the fixed-price backup, so an
// edit made while fixed mode is active is lost when the freeze ends.
func (s *MarketService) SetProductPrice(ctx context.Context, id uint, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.Repo.SetProductPrice(ctx, id, price)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return err
}

func (s *MarketService) GetTables(ctx context.Context) ([]models.Table, error) {
	return s.Repo.GetTables(ctx)
}

func (s *MarketService) AddTable(ctx context.Context, req transport.CreateTableRequest) (*models.Table, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	table := models.Table{Name: req.Name}
	return s.Repo.CreateTable(ctx, &table)
}

// SubmitOrder places every line of the submission against the table. Lines
// are processed strictly in request order and each line goes through the
// mandatory two-step contract:
//
//  1. read the product's current price and append the ledger row at it
//  2. apply the engine's movement effect
//
// Capture before mutate: the ledger must hold the point-of-sale price, not
// the post-movement one. Because lines run sequentially, a later line sees
// the board as moved by the earlier ones.
func (s *MarketService) SubmitOrder(ctx context.Context, tableID uint, req transport.SubmitOrderRequest) ([]models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Repo.GetTable(ctx, tableID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: table %d", ErrNotFound, tableID)
		}
		return nil, err
	}

	orders := make([]models.Order, 0, len(req.Items))
	for _, item := range req.Items {
		prod, err := s.Repo.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrNotFound, item.ProductID)
			}
			return nil, err
		}

		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}

		order := models.Order{
			TableID:   tableID,
			ProductID: prod.ID,
			UnitPrice: prod.Price,
			Quantity:  uint(qty),
		}
		if _, err := s.Repo.CreateOrder(ctx, &order); err != nil {
			return nil, err
		}

		if err := s.Engine.ApplyOrderEffect(ctx, prod.ID, qty); err != nil {
			return nil, err
		}

		orders = append(orders, order)
	}

	return orders, nil
}

func (s *MarketService) TableBill(ctx context.Context, tableID uint) (*transport.BillResponse, error) {
	if _, err := s.Repo.GetTable(ctx, tableID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: table %d", ErrNotFound, tableID)
		}
		return nil, err
	}

	lines, err := s.Repo.BillForTable(ctx, tableID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, l := range lines {
		total += l.LineTotal
	}

	return &transport.BillResponse{TableID: tableID, Lines: lines, Total: total}, nil
}

func (s *MarketService) ClearTable(ctx context.Context, tableID uint) error {
	if _, err := s.Repo.GetTable(ctx, tableID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: table %d", ErrNotFound, tableID)
		}
		return err
	}
	return s.Repo.ClearTable(ctx, tableID)
}

// StartFixedMode freezes the board. Conflict if already frozen, so the
// backup always holds genuine pre-freeze prices.
func (s *MarketService) StartFixedMode(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fixed, err := s.Engine.IsFixed(ctx)
	if err != nil {
		return err
	}
	if fixed {
		return fmt.Errorf("%w: fixed mode already active", ErrConflict)
	}
	return s.Engine.StartFixedMode(ctx)
}

func (s *MarketService) StopFixedMode(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fixed, err := s.Engine.IsFixed(ctx)
	if err != nil {
		return err
	}
	if !fixed {
		return fmt.Errorf("%w: fixed mode not active", ErrConflict)
	}
	return s.Engine.StopFixedMode(ctx)
}

func (s *MarketService) FixedModeActive(ctx context.Context) (bool, error) {
	return s.Engine.IsFixed(ctx)
}
