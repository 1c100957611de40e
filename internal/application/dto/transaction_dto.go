package dto

import "time"

// StockMovementRequest body para POST /api/transactions/stock-in y stock-out.
type StockMovementRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Notes     string `json:"notes" validate:"max=500"`
}

// TransactionResponse salida de una entrada del libro.
type TransactionResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Notes     *string   `json:"notes"`
	Date      time.Time `json:"date"`
}

// StockMovementResponse resultado de un movimiento registrado.
type StockMovementResponse struct {
	Transaction     TransactionResponse `json:"transaction"`
	NewQuantity     int                 `json:"new_quantity"`
	LowStockWarning bool                `json:"low_stock_warning"`
}

// TransactionListQuery filtros de GET /api/transactions. Fechas RFC3339 o YYYY-MM-DD.
type TransactionListQuery struct {
	Type      string `query:"type"`
	ProductID string `query:"product_id"`
	UserID    string `query:"user_id"`
	From      string `query:"from"`
	To        string `query:"to"`
	PageRequest
}

// TransactionListResponse lista paginada del libro.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// MovementTotalsResponse conteo y cantidad de un tipo.
type MovementTotalsResponse struct {
	Count    int `json:"count"`
	Quantity int `json:"quantity"`
}

// MovementStatsResponse salida de GET /api/transactions/stats.
type MovementStatsResponse struct {
	From       time.Time              `json:"from"`
	To         time.Time              `json:"to"`
	TotalCount int                    `json:"total_transactions"`
	StockIn    MovementTotalsResponse `json:"stock_in"`
	StockOut   MovementTotalsResponse `json:"stock_out"`
}
