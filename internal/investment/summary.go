package investment

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"nivesh/internal/models"
)

// Summary aggregates a portfolio's holdings.
type Summary struct {
	Holdings      int             `json:"holdings"`
	Clients       int             `json:"clients"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	PurchaseValue decimal.Decimal `json:"purchase_value"`
	ReturnAmount  decimal.Decimal `json:"return_amount"`
	ReturnPct     decimal.Decimal `json:"return_pct"`
	ByType        []TypeTotal     `json:"by_type"`
}

// TypeTotal is the allocation of one variant within a Summary.
type TypeTotal struct {
	Type         models.InvestmentType `json:"investment_type"`
	Label        string                `json:"label"`
	Count        int                   `json:"count"`
	CurrentValue decimal.Decimal       `json:"current_value"`
	SharePct     decimal.Decimal       `json:"share_pct"`
}

// Summarize totals holdings overall and per variant. Types are listed in
// display order, with unknown records last.
func Summarize(hs []Holding) Summary {
	s := Summary{CurrentValue: decimal.Zero, PurchaseValue: decimal.Zero}
	totals := map[models.InvestmentType]*TypeTotal{}
	clients := map[string]struct{}{}

	for _, h := range hs {
		s.Holdings++
		s.CurrentValue = s.CurrentValue.Add(h.CurrentValue)
		s.PurchaseValue = s.PurchaseValue.Add(h.PurchaseValue)
		if h.ClientCode != "" {
			clients[h.ClientCode] = struct{}{}
		}
		tt, ok := totals[h.Type]
		if !ok {
			tt = &TypeTotal{Type: h.Type, Label: h.Type.Label(), CurrentValue: decimal.Zero}
			totals[h.Type] = tt
		}
		tt.Count++
		tt.CurrentValue = tt.CurrentValue.Add(h.CurrentValue)
	}
	s.Clients = len(clients)
	s.ReturnAmount, s.ReturnPct = Returns(s.PurchaseValue, s.CurrentValue)

	order := append(append([]models.InvestmentType{}, models.InvestmentTypes...), models.TypeUnknown)
	for _, t := range order {
		tt, ok := totals[t]
		if !ok {
			continue
		}
		tt.SharePct = decimal.Zero
		if !s.CurrentValue.IsZero() {
			tt.SharePct = tt.CurrentValue.Div(s.CurrentValue).Mul(hundred).Round(2)
		}
		s.ByType = append(s.ByType, *tt)
	}
	return s
}

// Maturity is a holding that matures within the look-ahead window.
type Maturity struct {
	DetailID     uint                  `json:"detail_id"`
	ClientCode   string                `json:"client_code"`
	Type         models.InvestmentType `json:"investment_type"`
	Name         string                `json:"name"`
	Amount       decimal.Decimal       `json:"amount"`
	MaturityDate models.Date           `json:"maturity_date"`
	DaysLeft     int                   `json:"days_left"`
}

// UpcomingMaturities returns the holdings maturing between from and
// from+days inclusive, soonest first.
func UpcomingMaturities(hs []Holding, from time.Time, days int) []Maturity {
	start := models.DateOf(from).Time
	end := start.AddDate(0, 0, days)

	out := []Maturity{}
	for _, h := range hs {
		if h.MaturityDate == nil {
			continue
		}
		md := h.MaturityDate.Time
		if md.Before(start) || md.After(end) {
			continue
		}
		out = append(out, Maturity{
			DetailID:     h.DetailID,
			ClientCode:   h.ClientCode,
			Type:         h.Type,
			Name:         h.Name,
			Amount:       h.CurrentValue,
			MaturityDate: *h.MaturityDate,
			DaysLeft:     int(md.Sub(start).Hours() / 24),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MaturityDate.Before(out[j].MaturityDate.Time)
	})
	return out
}

// Filter keeps holdings of type t (any type when t is empty) whose name,
// label or client code contains q, ignoring case.
func Filter(hs []Holding, q string, t models.InvestmentType) []Holding {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]Holding, 0, len(hs))
	for _, h := range hs {
		if t != "" && h.Type != t {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(h.Name), q) &&
			!strings.Contains(strings.ToLower(h.Label), q) &&
			!strings.Contains(strings.ToLower(h.ClientCode), q) {
			continue
		}
		out = append(out, h)
	}
	return out
}
