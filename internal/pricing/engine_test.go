package pricing

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ospanov/bar-exchange/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.FixedPriceBackup{}, &models.Setting{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func seedMenu(t *testing.T, db *gorm.DB) map[string]uint {
	menu := []models.Product{
		{Name: "Bira", Price: 100},
		{Name: "Tekila", Price: 150},
		{Name: "Viski", Price: 250},
		{Name: "Vodka", Price: 200},
	}
	require.NoError(t, db.Create(&menu).Error)

	ids := map[string]uint{}
	for _, p := range menu {
		ids[p.Name] = p.ID
	}
	return ids
}

func price(t *testing.T, db *gorm.DB, id uint) float64 {
	var prod models.Product
	require.NoError(t, db.First(&prod, id).Error)
	return prod.Price
}

func TestApplyOrderEffectMovesBoard(t *testing.T) {
	db := initTestDB(t)
	ids := seedMenu(t, db)
	e := &Engine{DB: db}

	require.NoError(t, e.ApplyOrderEffect(context.Background(), ids["Bira"], 1))

	require.Equal(t, float64(105), price(t, db, ids["Bira"]))
	require.Equal(t, float64(149), price(t, db, ids["Tekila"]))
	require.Equal(t, float64(249), price(t, db, ids["Viski"]))
	require.Equal(t, float64(199), price(t, db, ids["Vodka"]))

	// same order again: movement doubles, not idempotent
	require.NoError(t, e.ApplyOrderEffect(context.Background(), ids["Bira"], 1))
	require.Equal(t, float64(110), price(t, db, ids["Bira"]))
	require.Equal(t, float64(148), price(t, db, ids["Tekila"]))
}

func TestApplyOrderEffectQuantityScales(t *testing.T) {
	db := initTestDB(t)
	ids := seedMenu(t, db)
	e := &Engine{DB: db}

	require.NoError(t, e.ApplyOrderEffect(context.Background(), ids["Tekila"], 3))

	require.Equal(t, float64(165), price(t, db, ids["Tekila"]))
	require.Equal(t, float64(97), price(t, db, ids["Bira"]))
	require.Equal(t, float64(247), price(t, db, ids["Viski"]))
}

func TestApplyOrderEffectClampsQuantity(t *testing.T) {
	for _, qty := range []int{0, -4} {
		db := initTestDB(t)
		ids := seedMenu(t, db)
		e := &Engine{DB: db}

		require.NoError(t, e.ApplyOrderEffect(context.Background(), ids["Bira"], qty))

		require.Equal(t, float64(105), price(t, db, ids["Bira"]))
		require.Equal(t, float64(149), price(t, db, ids["Tekila"]))
	}
}

func TestApplyOrderEffectLowPricesLeftUntouched(t *testing.T) {
	db := initTestDB(t)
	cheap := models.Product{Name: "Su", Price: 2}
	ordered := models.Product{Name: "Bira", Price: 100}
	exact := models.Product{Name: "Cips", Price: 3}
	require.NoError(t, db.Create(&cheap).Error)
	require.NoError(t, db.Create(&ordered).Error)
	require.NoError(t, db.Create(&exact).Error)

	e := &Engine{DB: db}
	require.NoError(t, e.ApplyOrderEffect(context.Background(), ordered.ID, 3))

	// price <= quantity: not decremented, and not floored to zero either
	require.Equal(t, float64(2), price(t, db, cheap.ID))
	require.Equal(t, float64(3), price(t, db, exact.ID))
	require.Equal(t, float64(115), price(t, db, ordered.ID))
}

func TestApplyOrderEffectNoOpWhileFixed(t *testing.T) {
	db := initTestDB(t)
	ids := seedMenu(t, db)
	require.NoError(t, setFixedMode(db, true))

	e := &Engine{DB: db}
	require.NoError(t, e.ApplyOrderEffect(context.Background(), ids["Bira"], 5))

	require.Equal(t, float64(100), price(t, db, ids["Bira"]))
	require.Equal(t, float64(150), price(t, db, ids["Tekila"]))
	require.Equal(t, float64(250), price(t, db, ids["Viski"]))
	require.Equal(t, float64(200), price(t, db, ids["Vodka"]))
}

func TestIsFixedDefaultsToFloating(t *testing.T) {
	db := initTestDB(t)
	e := &Engine{DB: db}

	fixed, err := e.IsFixed(context.Background())
	require.NoError(t, err)
	require.False(t, fixed)
}
