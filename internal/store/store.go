package store

import (
	"context"
	"fmt"

	"stoktakip-service/internal/kv"
	"stoktakip-service/internal/models"
)

// Key prefixes, one per resource type
const (
	PrefixCategory            = "category"
	PrefixProduct             = "product"
	PrefixSale                = "sale"
	PrefixRepair              = "repair"
	PrefixCustomer            = "customer"
	PrefixCustomerTransaction = "customer-transaction"
	PrefixPhoneStock          = "phone-stock"
	PrefixPhoneSale           = "phone-sale"
	PrefixExpense             = "expense"
	PrefixCustomerRequest     = "customer-request"
	PrefixActivity            = "activity"
)

// Store exposes one typed collection per resource over a shared kv.Store
type Store struct {
	kv kv.Store

	Categories       *Collection[models.Category, *models.Category]
	Products         *Collection[models.Product, *models.Product]
	Sales            *Collection[models.Sale, *models.Sale]
	Repairs          *Collection[models.RepairRecord, *models.RepairRecord]
	Customers        *Collection[models.Customer, *models.Customer]
	Transactions     *Collection[models.CustomerTransaction, *models.CustomerTransaction]
	PhoneStock       *Collection[models.PhoneStock, *models.PhoneStock]
	PhoneSales       *Collection[models.PhoneSale, *models.PhoneSale]
	Expenses         *Collection[models.Expense, *models.Expense]
	CustomerRequests *Collection[models.CustomerRequest, *models.CustomerRequest]
	Activity         *Collection[models.ActivityEntry, *models.ActivityEntry]
}

// NewStore creates a store on top of the given key-value backend
func NewStore(s kv.Store) *Store {
	return &Store{
		kv:               s,
		Categories:       NewCollection[models.Category](s, PrefixCategory),
		Products:         NewCollection[models.Product](s, PrefixProduct),
		Sales:            NewCollection[models.Sale](s, PrefixSale),
		Repairs:          NewCollection[models.RepairRecord](s, PrefixRepair),
		Customers:        NewCollection[models.Customer](s, PrefixCustomer),
		Transactions:     NewCollection[models.CustomerTransaction](s, PrefixCustomerTransaction),
		PhoneStock:       NewCollection[models.PhoneStock](s, PrefixPhoneStock),
		PhoneSales:       NewCollection[models.PhoneSale](s, PrefixPhoneSale),
		Expenses:         NewCollection[models.Expense](s, PrefixExpense),
		CustomerRequests: NewCollection[models.CustomerRequest](s, PrefixCustomerRequest),
		Activity:         NewCollection[models.ActivityEntry](s, PrefixActivity),
	}
}

// Apply writes a batch built from several collections' PutOp/DeleteOp
func (s *Store) Apply(ctx context.Context, ops []kv.Op) error {
	if err := s.kv.Apply(ctx, ops); err != nil {
		return fmt.Errorf("apply batch: %w", err)
	}
	return nil
}

// TransactionsForCustomer returns the ledger postings of one customer
func (s *Store) TransactionsForCustomer(ctx context.Context, customerID string) ([]models.CustomerTransaction, error) {
	all, err := s.Transactions.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.CustomerTransaction, 0)
	for _, tx := range all {
		if tx.CustomerID == customerID {
			out = append(out, tx)
		}
	}
	return out, nil
}
