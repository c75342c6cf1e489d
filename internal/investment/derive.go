package investment

import (
	"time"

	"github.com/shopspring/decimal"

	"nivesh/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Holding is a classified record with its display values.
type Holding struct {
	DetailID      uint                  `json:"detail_id"`
	ClientCode    string                `json:"client_code"`
	Type          models.InvestmentType `json:"investment_type"`
	Label         string                `json:"label"`
	Name          string                `json:"name"`
	CurrentValue  decimal.Decimal       `json:"current_value"`
	PurchaseValue decimal.Decimal       `json:"purchase_value"`
	ReturnAmount  decimal.Decimal       `json:"return_amount"`
	ReturnPct     decimal.Decimal       `json:"return_pct"`
	HeldSince     *models.Date          `json:"held_since"`
	MaturityDate  *models.Date          `json:"maturity_date"`
}

// Derive classifies a record and computes its display values. Unknown
// records get a generic label and zero values.
func Derive(r Record) Holding {
	t := Classify(r)
	current := currentValue(t, r)
	purchase := purchaseValue(t, r, current)
	amount, pct := Returns(purchase, current)

	h := Holding{
		DetailID:      r.DetailID(),
		ClientCode:    r.ClientCode(),
		Type:          t,
		Label:         t.Label(),
		Name:          DisplayName(t, r),
		CurrentValue:  current,
		PurchaseValue: purchase,
		ReturnAmount:  amount,
		ReturnPct:     pct,
	}
	if d, ok := HoldingDate(r); ok {
		hd := models.DateOf(d)
		h.HeldSince = &hd
	}
	if d, ok := maturityDate(r); ok {
		md := models.DateOf(d)
		h.MaturityDate = &md
	}
	return h
}

// DeriveAll derives every record, preserving order.
func DeriveAll(rs []Record) []Holding {
	out := make([]Holding, 0, len(rs))
	for _, r := range rs {
		out = append(out, Derive(r))
	}
	return out
}

// Returns computes the absolute return and the percentage return rounded
// to two places. The percentage is zero when purchase is zero.
func Returns(purchase, current decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	amount := current.Sub(purchase)
	if purchase.IsZero() {
		return amount, decimal.Zero
	}
	return amount, amount.Div(purchase).Mul(hundred).Round(2)
}

// DisplayName picks the field that names a holding of the given variant.
func DisplayName(t models.InvestmentType, r Record) string {
	switch t {
	case models.TypeEquity:
		return r.Str("stock_symbol")
	case models.TypeDemat:
		return "Demat " + r.Str("dp_id")
	case models.TypeDebt:
		return r.Str("company_name")
	case models.TypeFixedDeposit:
		return r.Str("bank_name")
	case models.TypeMutualFund:
		return r.Str("fund_name")
	case models.TypePPF:
		return "PPF " + r.Str("account_no")
	case models.TypeNSC:
		return "NSC " + r.Str("certificate_no")
	case models.TypeNPS:
		return "NPS " + r.Str("pran")
	case models.TypeBullion:
		return r.Str("type") + " " + r.Str("form")
	case models.TypeRealEstate:
		return r.Str("property_type") + " Property"
	}
	return "Unknown Investment"
}

func currentValue(t models.InvestmentType, r Record) decimal.Decimal {
	switch t {
	case models.TypeEquity:
		return r.Num("current_price").Mul(r.Num("units"))
	case models.TypeDebt:
		return r.Num("face_value")
	case models.TypeFixedDeposit:
		return r.Num("principal")
	case models.TypeMutualFund:
		return r.Num("nav").Mul(r.Num("units"))
	case models.TypePPF:
		return r.Num("deposits")
	case models.TypeNSC:
		return r.Num("purchase_amount")
	case models.TypeNPS:
		return r.Num("contribution")
	case models.TypeBullion, models.TypeRealEstate:
		return r.Num("current_value")
	}
	return decimal.Zero
}

// purchaseValue falls back to the current value for variants that carry no
// separate cost basis.
func purchaseValue(t models.InvestmentType, r Record, current decimal.Decimal) decimal.Decimal {
	switch t {
	case models.TypeEquity:
		return r.Num("buy_price").Mul(r.Num("units"))
	case models.TypeBullion, models.TypeRealEstate:
		return r.Num("purchase_price")
	}
	return current
}

var holdingDateKeys = []string{"start_date", "buy_date", "issue_date", "purchase_date", "created_at"}

// HoldingDate returns the date a holding was entered into, trying the
// variant's own dates before the record's creation time.
func HoldingDate(r Record) (time.Time, bool) {
	for _, k := range holdingDateKeys {
		if d, ok := r.Date(k); ok {
			return d, true
		}
	}
	if nested, ok := r["client_detail"].(map[string]any); ok {
		return Record(nested).Date("start_date")
	}
	return time.Time{}, false
}

func maturityDate(r Record) (time.Time, bool) {
	if d, ok := r.Date("maturity_date"); ok {
		return d, true
	}
	if nested, ok := r["client_detail"].(map[string]any); ok {
		return Record(nested).Date("end_date")
	}
	return time.Time{}, false
}
