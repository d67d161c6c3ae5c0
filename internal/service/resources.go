package service

import (
	"strings"
	"time"

	"stoktakip-service/internal/models"
	"stoktakip-service/internal/store"
)

// Resources groups the plain CRUD services. Records with side effects
// (sales, ledger postings, repair status) go through their own services,
// which reuse these for listing.
type Resources struct {
	Categories       *Resource[models.Category, *models.Category]
	Products         *Resource[models.Product, *models.Product]
	Sales            *Resource[models.Sale, *models.Sale]
	Repairs          *Resource[models.RepairRecord, *models.RepairRecord]
	Customers        *Resource[models.Customer, *models.Customer]
	Transactions     *Resource[models.CustomerTransaction, *models.CustomerTransaction]
	PhoneStock       *Resource[models.PhoneStock, *models.PhoneStock]
	PhoneSales       *Resource[models.PhoneSale, *models.PhoneSale]
	Expenses         *Resource[models.Expense, *models.Expense]
	CustomerRequests *Resource[models.CustomerRequest, *models.CustomerRequest]
	Activity         *Resource[models.ActivityEntry, *models.ActivityEntry]
}

// NewResources wires a resource service per collection
func NewResources(st *store.Store, now Clock) *Resources {
	return &Resources{
		Categories:       NewResource(st.Categories, prepareCategory, now),
		Products:         NewResource(st.Products, prepareProduct, now),
		Sales:            NewResource(st.Sales, prepareSale, now),
		Repairs:          NewResource(st.Repairs, prepareRepair, now),
		Customers:        NewResource(st.Customers, prepareCustomer, now),
		Transactions:     NewResource(st.Transactions, nil, now),
		PhoneStock:       NewResource(st.PhoneStock, preparePhoneStock, now),
		PhoneSales:       NewResource(st.PhoneSales, preparePhoneSale, now),
		Expenses:         NewResource(st.Expenses, prepareExpense, now),
		CustomerRequests: NewResource(st.CustomerRequests, prepareCustomerRequest, now),
		Activity:         NewResource(st.Activity, nil, now),
	}
}

func prepareCategory(c *models.Category, _ time.Time) error {
	c.Name = strings.TrimSpace(c.Name)
	return nil
}

func prepareProduct(p *models.Product, now time.Time) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Stock < 0 {
		p.Stock = 0
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	return nil
}

// prepareSale recomputes totals from the items; an edited sale never keeps
// stale totals. Stock is only touched by SaleService.Create and Delete.
func prepareSale(s *models.Sale, now time.Time) error {
	if s.Date.IsZero() {
		s.Date = now
	}
	s.TotalPrice, s.TotalProfit = SaleTotals(s.Items)
	return nil
}

// SaleTotals returns Σ salePrice×quantity and Σ profit×quantity
func SaleTotals(items []models.SaleItem) (price, profit float64) {
	for _, item := range items {
		q := float64(item.Quantity)
		price += item.SalePrice * q
		profit += item.Profit * q
	}
	return price, profit
}

func prepareRepair(r *models.RepairRecord, now time.Time) error {
	if r.Status == "" {
		r.Status = models.RepairStatusInProgress
	}
	r.Profit = r.RepairCost - r.PartsCost
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.Status == models.RepairStatusDelivered && r.DeliveredAt == nil {
		t := now
		r.DeliveredAt = &t
	}
	return nil
}

// prepareCustomer leaves debt and credit alone; LedgerService owns them.
func prepareCustomer(c *models.Customer, now time.Time) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	return nil
}

func preparePhoneStock(p *models.PhoneStock, now time.Time) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	return nil
}

func preparePhoneSale(p *models.PhoneSale, now time.Time) error {
	p.Profit = p.SalePrice - p.PurchasePrice
	if p.Date.IsZero() {
		p.Date = now
	}
	return nil
}

func prepareExpense(e *models.Expense, now time.Time) error {
	if e.Date.IsZero() {
		e.Date = now
	}
	return nil
}

func prepareCustomerRequest(r *models.CustomerRequest, now time.Time) error {
	if r.Status == "" {
		r.Status = "pending"
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	return nil
}
