package service

import (
	"context"

	"stoktakip-service/internal/analytics"
	"stoktakip-service/internal/models"
	"stoktakip-service/internal/store"
	"stoktakip-service/internal/util"
)

// ReportService loads records and hands them to the analytics functions
type ReportService struct {
	store *store.Store
	now   Clock
}

// NewReportService creates a new report service
func NewReportService(st *store.Store, now Clock) *ReportService {
	return &ReportService{store: st, now: now}
}

// Summary returns the sales of the period with their totals
func (r *ReportService) Summary(ctx context.Context, period string) (analytics.SalesSummary, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Summary")
	defer span.End()

	sales, err := r.store.Sales.List(ctx)
	if err != nil {
		return analytics.SalesSummary{}, err
	}
	return analytics.SummarizePeriod(sales, period, r.now()), nil
}

// Overview returns the profit/loss composition for the range
func (r *ReportService) Overview(ctx context.Context, rng analytics.DateRange) (analytics.ProfitLossReport, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Overview")
	defer span.End()

	sales, err := r.store.Sales.List(ctx)
	if err != nil {
		return analytics.ProfitLossReport{}, err
	}
	repairs, err := r.store.Repairs.List(ctx)
	if err != nil {
		return analytics.ProfitLossReport{}, err
	}
	phoneSales, err := r.store.PhoneSales.List(ctx)
	if err != nil {
		return analytics.ProfitLossReport{}, err
	}
	expenses, err := r.store.Expenses.List(ctx)
	if err != nil {
		return analytics.ProfitLossReport{}, err
	}

	return analytics.ProfitLoss(sales, repairs, phoneSales, expenses, rng), nil
}

// Customers returns lifetime stats per customer, highest revenue first
func (r *ReportService) Customers(ctx context.Context) ([]analytics.CustomerStat, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Customers")
	defer span.End()

	customers, err := r.store.Customers.List(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := r.store.Sales.List(ctx)
	if err != nil {
		return nil, err
	}
	repairs, err := r.store.Repairs.List(ctx)
	if err != nil {
		return nil, err
	}
	phoneSales, err := r.store.PhoneSales.List(ctx)
	if err != nil {
		return nil, err
	}

	return analytics.CustomerLifetime(customers, sales, repairs, phoneSales), nil
}

// LowStock returns products at or below their minimum quantity
func (r *ReportService) LowStock(ctx context.Context) ([]models.Product, error) {
	products, err := r.store.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.LowStock(products), nil
}
