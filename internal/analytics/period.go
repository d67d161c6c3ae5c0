package analytics

import (
	"time"

	"stoktakip-service/internal/models"
)

// Report periods accepted by the sales summary
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodAll     = "all"
)

// PeriodStart returns the cutoff for period relative to now. ok is false for
// "all" and for unknown periods, meaning no cutoff.
//
// daily starts at local midnight, weekly is the last 7×24h and monthly goes
// back one calendar month.
func PeriodStart(period string, now time.Time) (cutoff time.Time, ok bool) {
	switch period {
	case PeriodDaily:
		return startOfDay(now), true
	case PeriodWeekly:
		return now.Add(-7 * 24 * time.Hour), true
	case PeriodMonthly:
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}

// SalesSummary is the body of the period report
type SalesSummary struct {
	Period       string        `json:"period"`
	From         *time.Time    `json:"from,omitempty"`
	TotalSales   int           `json:"totalSales"`
	TotalRevenue float64       `json:"totalRevenue"`
	TotalProfit  float64       `json:"totalProfit"`
	Sales        []models.Sale `json:"sales"`
}

// SummarizePeriod keeps sales dated at or after the period cutoff and sums them
func SummarizePeriod(sales []models.Sale, period string, now time.Time) SalesSummary {
	if period == "" {
		period = PeriodAll
	}
	summary := SalesSummary{Period: period, Sales: make([]models.Sale, 0)}

	cutoff, limited := PeriodStart(period, now)
	if limited {
		summary.From = &cutoff
	}

	for _, s := range sales {
		if limited && s.Date.Before(cutoff) {
			continue
		}
		summary.Sales = append(summary.Sales, s)
		summary.TotalSales++
		summary.TotalRevenue += s.TotalPrice
		summary.TotalProfit += s.TotalProfit
	}

	return summary
}
