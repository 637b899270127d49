package transport

import "github.com/ospanov/bar-exchange/internal/repo"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type CreateProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type SetPriceRequest struct {
	Price float64 `json:"price"`
}

type CreateTableRequest struct {
	Name string `json:"name"`
}

type OrderItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type SubmitOrderRequest struct {
	Items []OrderItem `json:"items"`
}

type BillResponse struct {
	TableID uint            `json:"table_id"`
	Lines   []repo.BillLine `json:"lines"`
	Total   float64         `json:"total"`
}

type MarketStatusResponse struct {
	FixedMode bool `json:"fixed_mode"`
}
