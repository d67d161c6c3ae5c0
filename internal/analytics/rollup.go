package analytics

import (
	"stoktakip-service/internal/models"
)

// Rollup is the count/revenue/profit of one transaction category. Cost is
// revenue minus profit.
type Rollup struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
	Cost    float64 `json:"cost"`
}

func (r *Rollup) add(revenue, profit float64) {
	r.Count++
	r.Revenue += revenue
	r.Profit += profit
	r.Cost += revenue - profit
}

// FilterSales returns the sales dated inside r
func FilterSales(sales []models.Sale, r DateRange) []models.Sale {
	out := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if r.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

// SummarizeSales sums product sales dated inside r
func SummarizeSales(sales []models.Sale, r DateRange) Rollup {
	var out Rollup
	for _, s := range sales {
		if r.Contains(s.Date) {
			out.add(s.TotalPrice, s.TotalProfit)
		}
	}
	return out
}

// SummarizeRepairs sums repairs created inside r; revenue is the repair cost
// charged to the customer.
func SummarizeRepairs(repairs []models.RepairRecord, r DateRange) Rollup {
	var out Rollup
	for _, rep := range repairs {
		if r.Contains(rep.CreatedAt) {
			out.add(rep.RepairCost, rep.Profit)
		}
	}
	return out
}

// SummarizePhoneSales sums handset sales dated inside r
func SummarizePhoneSales(phoneSales []models.PhoneSale, r DateRange) Rollup {
	var out Rollup
	for _, ps := range phoneSales {
		if r.Contains(ps.Date) {
			out.add(ps.SalePrice, ps.Profit)
		}
	}
	return out
}

// SumExpenses totals expenses dated inside r
func SumExpenses(expenses []models.Expense, r DateRange) float64 {
	var total float64
	for _, e := range expenses {
		if r.Contains(e.Date) {
			total += e.Amount
		}
	}
	return total
}

// Margin is profit/revenue, or 0 when there is no revenue
func Margin(profit, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return profit / revenue
}

// ProfitLossReport composes the three transaction categories
type ProfitLossReport struct {
	Sales        Rollup  `json:"sales"`
	Repairs      Rollup  `json:"repairs"`
	PhoneSales   Rollup  `json:"phoneSales"`
	TotalRevenue float64 `json:"totalRevenue"`
	TotalProfit  float64 `json:"totalProfit"`
	TotalCost    float64 `json:"totalCost"`
	Margin       float64 `json:"margin"`
	Expenses     float64 `json:"expenses"`
	NetProfit    float64 `json:"netProfit"`
}

// ProfitLoss filters each category by r independently and adds them up
func ProfitLoss(
	sales []models.Sale,
	repairs []models.RepairRecord,
	phoneSales []models.PhoneSale,
	expenses []models.Expense,
	r DateRange,
) ProfitLossReport {
	rep := ProfitLossReport{
		Sales:      SummarizeSales(sales, r),
		Repairs:    SummarizeRepairs(repairs, r),
		PhoneSales: SummarizePhoneSales(phoneSales, r),
		Expenses:   SumExpenses(expenses, r),
	}

	for _, c := range []Rollup{rep.Sales, rep.Repairs, rep.PhoneSales} {
		rep.TotalRevenue += c.Revenue
		rep.TotalProfit += c.Profit
		rep.TotalCost += c.Cost
	}
	rep.Margin = Margin(rep.TotalProfit, rep.TotalRevenue)
	rep.NetProfit = rep.TotalProfit - rep.Expenses

	return rep
}

// LowStock returns products at or below their minimum quantity
func LowStock(products []models.Product) []models.Product {
	out := make([]models.Product, 0)
	for _, p := range products {
		if p.Stock <= p.MinQuantity {
			out = append(out, p)
		}
	}
	return out
}
