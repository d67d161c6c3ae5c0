package analytics

import (
	"sort"
	"strings"
	"time"

	"stoktakip-service/internal/models"
)

// CustomerStat is the lifetime view of one customer, identified by phone
type CustomerStat struct {
	Phone            string     `json:"phone"`
	Name             string     `json:"name"`
	CustomerID       string     `json:"customerId,omitempty"`
	Debt             float64    `json:"debt"`
	Credit           float64    `json:"credit"`
	TotalRevenue     float64    `json:"totalRevenue"`
	TransactionCount int        `json:"transactionCount"`
	FirstPurchase    *time.Time `json:"firstPurchase,omitempty"`
	LastPurchase     *time.Time `json:"lastPurchase,omitempty"`
}

func (c *CustomerStat) record(revenue float64, at time.Time) {
	c.TotalRevenue += revenue
	c.TransactionCount++

	if at.IsZero() {
		return
	}
	if c.FirstPurchase == nil || at.Before(*c.FirstPurchase) {
		t := at
		c.FirstPurchase = &t
	}
	if c.LastPurchase == nil || at.After(*c.LastPurchase) {
		t := at
		c.LastPurchase = &t
	}
}

type customerIndex struct {
	byKey map[string]*CustomerStat
	order []string
}

// lookup returns the stat for key, creating it with name on first sight
func (ix *customerIndex) lookup(key, name string) *CustomerStat {
	if st, ok := ix.byKey[key]; ok {
		if st.Name == "" {
			st.Name = name
		}
		return st
	}
	st := &CustomerStat{Name: name}
	ix.byKey[key] = st
	ix.order = append(ix.order, key)
	return st
}

// CustomerLifetime merges explicit customer records with the buyers seen in
// sales, repairs and phone sales, keyed by phone number. Records without a
// phone are not attributed to anyone. Result is ordered by revenue, highest
// first.
func CustomerLifetime(
	customers []models.Customer,
	sales []models.Sale,
	repairs []models.RepairRecord,
	phoneSales []models.PhoneSale,
) []CustomerStat {
	ix := &customerIndex{byKey: make(map[string]*CustomerStat)}

	for _, c := range customers {
		key := normalizePhone(c.Phone)
		if key == "" {
			key = "id:" + c.ID
		}
		st := ix.lookup(key, c.Name)
		st.Phone = strings.TrimSpace(c.Phone)
		st.CustomerID = c.ID
		st.Debt += c.Debt
		st.Credit += c.Credit
	}

	for _, s := range sales {
		if s.CustomerInfo == nil {
			continue
		}
		if key := normalizePhone(s.CustomerInfo.Phone); key != "" {
			st := ix.lookup(key, s.CustomerInfo.Name)
			st.Phone = strings.TrimSpace(s.CustomerInfo.Phone)
			st.record(s.TotalPrice, s.Date)
		}
	}

	for _, r := range repairs {
		if key := normalizePhone(r.CustomerPhone); key != "" {
			st := ix.lookup(key, r.CustomerName)
			st.Phone = strings.TrimSpace(r.CustomerPhone)
			st.record(r.RepairCost, r.CreatedAt)
		}
	}

	for _, ps := range phoneSales {
		if key := normalizePhone(ps.CustomerPhone); key != "" {
			st := ix.lookup(key, ps.CustomerName)
			st.Phone = strings.TrimSpace(ps.CustomerPhone)
			st.record(ps.SalePrice, ps.Date)
		}
	}

	out := make([]CustomerStat, 0, len(ix.order))
	for _, key := range ix.order {
		out = append(out, *ix.byKey[key])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalRevenue > out[j].TotalRevenue
	})

	return out
}

// normalizePhone drops spaces, dashes and brackets so "0532 111 22 33" and
// "0532-111-2233" are the same customer.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		switch r {
		case ' ', '-', '(', ')', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
