package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ospanov/bar-exchange/internal/hash"
	"github.com/ospanov/bar-exchange/internal/models"
	"github.com/ospanov/bar-exchange/internal/pricing"
	"github.com/ospanov/bar-exchange/internal/repo"
	"github.com/ospanov/bar-exchange/internal/service"
	"github.com/ospanov/bar-exchange/internal/service/token"
	"github.com/ospanov/bar-exchange/internal/transport"
)

type testEnv struct {
	E      *echo.Echo
	DB     *gorm.DB
	P      *ProductHandler
	T      *TableHandler
	M      *MarketHandler
	A      *AuthHandler
	Tokens *token.TokenService
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Product{}, &models.Table{}, &models.Order{},
		&models.FixedPriceBackup{}, &models.Setting{}, &models.User{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)

	gormRepo := &repo.GormRepo{DB: db}
	engine := &pricing.Engine{DB: db, FixedPrices: map[string]float64{"Bira": 80}}
	svc := &service.MarketService{Repo: gormRepo, Engine: engine}
	tokens := &token.TokenService{JWTSecret: []byte("test-secret")}

	return &testEnv{
		E:      echo.New(),
		DB:     db,
		P:      &ProductHandler{Svc: svc},
		T:      &TableHandler{Svc: svc},
		M:      &MarketHandler{Svc: svc},
		A:      &AuthHandler{DB: db, Tokens: tokens},
		Tokens: tokens,
	}
}

func (env *testEnv) doJSONRequest(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func TestCreateProductHandler(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/admin/products",
		transport.CreateProductRequest{Name: "Bira", Price: 100})
	require.NoError(t, env.P.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Bira", resp.Name)
	require.Equal(t, float64(100), resp.Price)
	require.NotZero(t, resp.ID)
}

func TestCreateProductHandlerRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/admin/products",
		transport.CreateProductRequest{Name: "", Price: 100})
	err := env.P.CreateProduct(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestSubmitOrderHandler(t *testing.T) {
	env := newTestEnv(t)

	bira := models.Product{Name: "Bira", Price: 100}
	require.NoError(t, env.DB.Create(&bira).Error)
	table := models.Table{Name: "Masa 1"}
	require.NoError(t, env.DB.Create(&table).Error)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/tables/1/orders",
		transport.SubmitOrderRequest{Items: []transport.OrderItem{
			{ProductID: bira.ID, Quantity: 2},
		}})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.T.SubmitOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	require.Equal(t, float64(100), orders[0].UnitPrice)

	var live models.Product
	require.NoError(t, env.DB.First(&live, bira.ID).Error)
	require.Equal(t, float64(110), live.Price)
}

func TestFreezeEndpoints(t *testing.T) {
	env := newTestEnv(t)

	bira := models.Product{Name: "Bira", Price: 100}
	require.NoError(t, env.DB.Create(&bira).Error)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/admin/market/freeze", nil)
	require.NoError(t, env.M.StartFreeze(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(t, http.MethodGet, "/api/v1/market/status", nil)
	require.NoError(t, env.M.Status(c))
	var status transport.MarketStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.True(t, status.FixedMode)

	_, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/admin/market/freeze", nil)
	err := env.M.StartFreeze(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusConflict, httpErr.Code)

	rec, c = env.doJSONRequest(t, http.MethodDelete, "/api/v1/admin/market/freeze", nil)
	require.NoError(t, env.M.StopFreeze(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var live models.Product
	require.NoError(t, env.DB.First(&live, bira.ID).Error)
	require.Equal(t, float64(100), live.Price)
}

func TestLoginAndAdminMiddleware(t *testing.T) {
	env := newTestEnv(t)

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	user := models.User{Username: "admin", PasswordHash: pwHash, Role: "admin"}
	require.NoError(t, env.DB.Create(&user).Error)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/login",
		transport.LoginRequest{Username: "admin", Password: "password"})
	require.NoError(t, env.A.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var tok transport.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.AccessToken)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	guarded := env.Tokens.AdminOnly(next)

	// with the token
	rec, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/admin/products", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+tok.AccessToken)
	require.NoError(t, guarded(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// without
	_, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/admin/products", nil)
	err = guarded(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	user := models.User{Username: "admin", PasswordHash: pwHash, Role: "admin"}
	require.NoError(t, env.DB.Create(&user).Error)

	_, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/login",
		transport.LoginRequest{Username: "admin", Password: "wrong"})
	err = env.A.Login(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
