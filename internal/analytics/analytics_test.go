package analytics

import (
	"testing"
	"time"

	"stoktakip-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 15, 14, 30, 0, 0, time.Local)

func sale(id string, at time.Time, price, profit float64) models.Sale {
	return models.Sale{Base: models.Base{ID: id}, Date: at, TotalPrice: price, TotalProfit: profit}
}

func TestDateRangeIsInclusiveOnWholeDays(t *testing.T) {
	day := time.Date(2026, 10, 10, 15, 0, 0, 0, time.Local)
	r := NewDateRange(day, day)

	assert.True(t, r.Contains(time.Date(2026, 10, 10, 0, 0, 0, 0, time.Local)))
	assert.True(t, r.Contains(time.Date(2026, 10, 10, 23, 59, 59, 999e6, time.Local)))
	assert.False(t, r.Contains(time.Date(2026, 10, 11, 0, 0, 0, 0, time.Local)))
	assert.False(t, r.Contains(time.Date(2026, 10, 9, 23, 59, 59, 0, time.Local)))
}

func TestZeroDateRangeMatchesEverything(t *testing.T) {
	var r DateRange
	assert.True(t, r.Contains(time.Time{}))
	assert.True(t, r.Contains(now))
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2026-10-01", "2026-10-15", time.Local)
	require.NoError(t, err)
	assert.True(t, r.Contains(time.Date(2026, 10, 15, 22, 0, 0, 0, time.Local)))

	open, err := ParseDateRange("", "", time.Local)
	require.NoError(t, err)
	assert.True(t, open.Start.IsZero())

	_, err = ParseDateRange("15/10/2026", "", time.Local)
	assert.Error(t, err)

	_, err = ParseDateRange("2026-10-15", "2026-10-01", time.Local)
	assert.Error(t, err)
}

func TestSummarizePeriodDaily(t *testing.T) {
	sales := []models.Sale{
		sale("today", now.Add(-time.Hour), 100, 30),
		sale("yesterday", now.AddDate(0, 0, -1), 50, 10),
	}

	summary := SummarizePeriod(sales, PeriodDaily, now)

	assert.Equal(t, 1, summary.TotalSales)
	require.Len(t, summary.Sales, 1)
	assert.Equal(t, "today", summary.Sales[0].ID)
	assert.Equal(t, 100.0, summary.TotalRevenue)
	assert.Equal(t, 30.0, summary.TotalProfit)
}

func TestSummarizePeriodWeekly(t *testing.T) {
	sales := []models.Sale{
		sale("old", now.AddDate(0, 0, -10), 80, 20),
		sale("recent", now.AddDate(0, 0, -2), 40, 15),
	}

	summary := SummarizePeriod(sales, PeriodWeekly, now)

	assert.Equal(t, 1, summary.TotalSales)
	assert.Equal(t, "recent", summary.Sales[0].ID)
	require.NotNil(t, summary.From)
	assert.Equal(t, now.Add(-7*24*time.Hour), *summary.From)
}

func TestSummarizePeriodMonthlyAndAll(t *testing.T) {
	sales := []models.Sale{
		sale("a", now.AddDate(0, 0, -20), 10, 1),
		sale("b", now.AddDate(0, -2, 0), 10, 1),
	}

	assert.Equal(t, 1, SummarizePeriod(sales, PeriodMonthly, now).TotalSales)

	all := SummarizePeriod(sales, "", now)
	assert.Equal(t, PeriodAll, all.Period)
	assert.Equal(t, 2, all.TotalSales)
	assert.Nil(t, all.From)

	unknown := SummarizePeriod(sales, "yearly", now)
	assert.Equal(t, 2, unknown.TotalSales)
}

func TestProfitLoss(t *testing.T) {
	r := NewDateRange(now.AddDate(0, 0, -7), now)

	sales := []models.Sale{
		sale("in", now, 200, 50),
		sale("out", now.AddDate(0, 0, -30), 999, 999),
	}
	repairs := []models.RepairRecord{
		{RepairCost: 300, PartsCost: 100, Profit: 200, CreatedAt: now.AddDate(0, 0, -1)},
	}
	phoneSales := []models.PhoneSale{
		{SalePrice: 5000, PurchasePrice: 4500, Profit: 500, Date: now.AddDate(0, 0, -3)},
	}
	expenses := []models.Expense{
		{Amount: 150, Date: now},
		{Amount: 1000, Date: now.AddDate(0, -1, 0)},
	}

	rep := ProfitLoss(sales, repairs, phoneSales, expenses, r)

	assert.Equal(t, Rollup{Count: 1, Revenue: 200, Profit: 50, Cost: 150}, rep.Sales)
	assert.Equal(t, Rollup{Count: 1, Revenue: 300, Profit: 200, Cost: 100}, rep.Repairs)
	assert.Equal(t, Rollup{Count: 1, Revenue: 5000, Profit: 500, Cost: 4500}, rep.PhoneSales)
	assert.Equal(t, 5500.0, rep.TotalRevenue)
	assert.Equal(t, 750.0, rep.TotalProfit)
	assert.Equal(t, 4750.0, rep.TotalCost)
	assert.InDelta(t, 750.0/5500.0, rep.Margin, 1e-9)
	assert.Equal(t, 150.0, rep.Expenses)
	assert.Equal(t, 600.0, rep.NetProfit)
}

func TestMarginWithoutRevenue(t *testing.T) {
	assert.Equal(t, 0.0, Margin(10, 0))
	rep := ProfitLoss(nil, nil, nil, nil, DateRange{})
	assert.Equal(t, 0.0, rep.Margin)
}

func TestCustomerLifetime(t *testing.T) {
	d1 := now.AddDate(0, 0, -30)
	d2 := now.AddDate(0, 0, -5)
	d3 := now.AddDate(0, 0, -1)

	customers := []models.Customer{
		{Base: models.Base{ID: "c1"}, Name: "Ahmet Yılmaz", Phone: "0532 111 22 33", Debt: 120},
		{Base: models.Base{ID: "c2"}, Name: "No Phone"},
	}
	sales := []models.Sale{
		{TotalPrice: 100, Date: d2, CustomerInfo: &models.CustomerInfo{Name: "Ahmet", Phone: "0532-111-2233"}},
		{TotalPrice: 999, Date: d2},
	}
	repairs := []models.RepairRecord{
		{CustomerName: "Ahmet", CustomerPhone: "05321112233", RepairCost: 400, CreatedAt: d1},
		{CustomerName: "Zeynep", CustomerPhone: "0544 000 00 00", RepairCost: 50, CreatedAt: d3},
	}
	phoneSales := []models.PhoneSale{
		{CustomerName: "Zeynep K.", CustomerPhone: "05440000000", SalePrice: 7000, Date: d3},
		{CustomerName: "Anon", SalePrice: 10, Date: d3},
	}

	stats := CustomerLifetime(customers, sales, repairs, phoneSales)
	require.Len(t, stats, 3)

	zeynep := stats[0]
	assert.Equal(t, "Zeynep", zeynep.Name)
	assert.Equal(t, 7050.0, zeynep.TotalRevenue)
	assert.Equal(t, 2, zeynep.TransactionCount)
	assert.Empty(t, zeynep.CustomerID)

	ahmet := stats[1]
	assert.Equal(t, "Ahmet Yılmaz", ahmet.Name)
	assert.Equal(t, "c1", ahmet.CustomerID)
	assert.Equal(t, 120.0, ahmet.Debt)
	assert.Equal(t, 500.0, ahmet.TotalRevenue)
	assert.Equal(t, 2, ahmet.TransactionCount)
	require.NotNil(t, ahmet.FirstPurchase)
	require.NotNil(t, ahmet.LastPurchase)
	assert.Equal(t, d1, *ahmet.FirstPurchase)
	assert.Equal(t, d2, *ahmet.LastPurchase)

	noPhone := stats[2]
	assert.Equal(t, "c2", noPhone.CustomerID)
	assert.Zero(t, noPhone.TransactionCount)
	assert.Nil(t, noPhone.FirstPurchase)
}

func TestLowStock(t *testing.T) {
	products := []models.Product{
		{Name: "ok", Stock: 10, MinQuantity: 2},
		{Name: "edge", Stock: 2, MinQuantity: 2},
		{Name: "out", Stock: 0, MinQuantity: 1},
	}

	low := LowStock(products)
	require.Len(t, low, 2)
	assert.Equal(t, "edge", low[0].Name)
	assert.Equal(t, "out", low[1].Name)
}
