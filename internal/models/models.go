package models

import (
	"encoding/json"
	"time"
)

// Base carries the string id every stored record is keyed by.
type Base struct {
	ID string `json:"id"`
}

func (b *Base) GetID() string   { return b.ID }
func (b *Base) SetID(id string) { b.ID = id }

// Category groups products in the catalog
type Category struct {
	Base
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// Product represents an accessory or part kept in stock
type Product struct {
	Base
	Name        string    `json:"name" binding:"required"`
	Category    string    `json:"category"`
	PhoneModel  string    `json:"phoneModel,omitempty"`
	Stock       int       `json:"stock"`
	MinQuantity int       `json:"minQuantity"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts the legacy "quantity" field as stock when "stock"
// is absent.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	aux := struct {
		*plain
		Stock    *int `json:"stock"`
		Quantity *int `json:"quantity"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch {
	case aux.Stock != nil:
		p.Stock = *aux.Stock
	case aux.Quantity != nil:
		p.Stock = *aux.Quantity
	}
	return nil
}

// CustomerInfo is the optional buyer snapshot stored on a sale
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// SaleItem is a point-in-time snapshot of a sold product. Profit is per unit.
// StockDeducted is what was actually taken from stock; nil on rows written
// before it was tracked.
type SaleItem struct {
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	Quantity      int     `json:"quantity" binding:"gt=0"`
	SalePrice     float64 `json:"salePrice"`
	Profit        float64 `json:"profit"`
	StockDeducted *int    `json:"stockDeducted,omitempty"`
}

// Sale represents a product sale
type Sale struct {
	Base
	Items         []SaleItem    `json:"items" binding:"required,min=1,dive"`
	TotalPrice    float64       `json:"totalPrice"`
	TotalProfit   float64       `json:"totalProfit"`
	Date          time.Time     `json:"date"`
	CustomerInfo  *CustomerInfo `json:"customerInfo,omitempty"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// Repair statuses
const (
	RepairStatusInProgress = "in_progress"
	RepairStatusCompleted  = "completed"
	RepairStatusDelivered  = "delivered"
)

// RepairRecord tracks a device left for repair
type RepairRecord struct {
	Base
	CustomerName       string     `json:"customerName"`
	CustomerPhone      string     `json:"customerPhone"`
	DeviceInfo         string     `json:"deviceInfo"`
	IMEI               string     `json:"imei,omitempty"`
	ProblemDescription string     `json:"problemDescription"`
	RepairCost         float64    `json:"repairCost"`
	PartsCost          float64    `json:"partsCost"`
	Profit             float64    `json:"profit"`
	Status             string     `json:"status" binding:"omitempty,oneof=in_progress completed delivered"`
	CreatedAt          time.Time  `json:"createdAt"`
	DeliveredAt        *time.Time `json:"deliveredAt,omitempty"`
}

// PhoneStock is a second-hand or new handset on the shelf
type PhoneStock struct {
	Base
	Brand         string    `json:"brand"`
	Model         string    `json:"model"`
	IMEI          string    `json:"imei"`
	PurchasePrice float64   `json:"purchasePrice"`
	SalePrice     float64   `json:"salePrice,omitempty"`
	Condition     string    `json:"condition,omitempty"`
	Color         string    `json:"color,omitempty"`
	Storage       string    `json:"storage,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PhoneSale records a handset sold to a customer
type PhoneSale struct {
	Base
	Brand         string    `json:"brand"`
	Model         string    `json:"model"`
	IMEI          string    `json:"imei"`
	PurchasePrice float64   `json:"purchasePrice"`
	SalePrice     float64   `json:"salePrice"`
	Profit        float64   `json:"profit"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	Notes         string    `json:"notes,omitempty"`
	Date          time.Time `json:"date"`
}

// Customer is a ledger (cari) account. Debt and Credit are running balances
// and only change through transaction postings.
type Customer struct {
	Base
	Name      string    `json:"name" binding:"required"`
	Phone     string    `json:"phone"`
	Debt      float64   `json:"debt"`
	Credit    float64   `json:"credit"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Customer transaction types
const (
	TransactionDebt            = "debt"
	TransactionCredit          = "credit"
	TransactionPaymentReceived = "payment_received"
	TransactionPaymentMade     = "payment_made"
)

// CustomerTransaction is a single ledger posting
type CustomerTransaction struct {
	Base
	CustomerID  string    `json:"customerId" binding:"required"`
	Type        string    `json:"type" binding:"required,oneof=debt credit payment_received payment_made"`
	Amount      float64   `json:"amount" binding:"gt=0"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Expense is a shop running cost
type Expense struct {
	Base
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
}

// CustomerRequest is a product or device a customer asked to be notified about
type CustomerRequest struct {
	Base
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	Request       string    `json:"request"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ActivityEntry is a domain event persisted by the activity worker
type ActivityEntry struct {
	Base
	EventType string          `json:"eventType"`
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}
