package models

import "time"

// Event types
const (
	EventTypeSaleCreated         = "SALE_CREATED"
	EventTypeSaleDeleted         = "SALE_DELETED"
	EventTypeTransactionPosted   = "CUSTOMER_TRANSACTION_POSTED"
	EventTypeRepairStatusChanged = "REPAIR_STATUS_CHANGED"
	EventTypeProductsImported    = "PRODUCTS_IMPORTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// StockMovement is one product stock change caused by a sale
type StockMovement struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
	Stock     int    `json:"stock"`
}

// SaleCreatedEvent published after a sale and its stock decrements are written
type SaleCreatedEvent struct {
	BaseEvent
	SaleID      string          `json:"sale_id"`
	TotalPrice  float64         `json:"total_price"`
	TotalProfit float64         `json:"total_profit"`
	Movements   []StockMovement `json:"movements"`
}

// SaleDeletedEvent published after a sale is removed and stock restored
type SaleDeletedEvent struct {
	BaseEvent
	SaleID    string          `json:"sale_id"`
	Movements []StockMovement `json:"movements"`
}

// TransactionPostedEvent published after a ledger posting
type TransactionPostedEvent struct {
	BaseEvent
	TransactionID string  `json:"transaction_id"`
	CustomerID    string  `json:"customer_id"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Debt          float64 `json:"debt"`
	Credit        float64 `json:"credit"`
}

// RepairStatusChangedEvent published when a repair moves between statuses
type RepairStatusChangedEvent struct {
	BaseEvent
	RepairID string `json:"repair_id"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// ProductsImportedEvent published after a bulk product import
type ProductsImportedEvent struct {
	BaseEvent
	Count int `json:"count"`
}
