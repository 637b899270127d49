package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ospanov/bar-exchange/internal/config"
	"github.com/ospanov/bar-exchange/internal/hash"
	"github.com/ospanov/bar-exchange/internal/models"
)

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// Open connects per DB_DRIVER: sqlite (default, local file like the bar's
// single-terminal setup) or postgres via DATABASE_URL.
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	var db *gorm.DB
	var err error

	switch cfg.DB_DRIVER {
	case "postgres":
		if cfg.DATABASE_URL == "" {
			return nil, fmt.Errorf("DATABASE_URL is empty")
		}
		db, err = gorm.Open(postgres.Open(cfg.DATABASE_URL), gormCfg)
	default:
		db, err = gorm.Open(sqlite.Open(cfg.DB_PATH), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}
	if cfg.DB_DRIVER == "postgres" {
		configurePool(sqlDB)
	} else {
		// sqlite: one writer connection, no pool to speak of
		sqlDB.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.Table{},
		&models.Order{},
		&models.FixedPriceBackup{},
		&models.Setting{},
		&models.User{},
	)
}

// Seed fills an empty database with the opening menu and floor plan, and
// creates the admin account from config when no user exists yet.
func Seed(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		menu := []models.Product{
			{Name: "Bira", Price: 100},
			{Name: "Tekila", Price: 150},
			{Name: "Viski", Price: 250},
			{Name: "Vodka", Price: 200},
		}
		if err := db.Create(&menu).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		tables := []models.Table{
			{Name: "Masa 1"}, {Name: "Masa 2"}, {Name: "Masa 3"}, {Name: "Masa 4"},
		}
		if err := db.Create(&tables).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 && cfg.ADMIN_PASSWORD != "" {
		pwHash, err := hash.HashPassword(cfg.ADMIN_PASSWORD)
		if err != nil {
			return err
		}
		admin := models.User{Username: cfg.ADMIN_USERNAME, PasswordHash: pwHash, Role: "admin"}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
	}

	return nil
}
