package investment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"nivesh/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   models.InvestmentType
	}{
		{"stock_symbol_beats_bank_name", Record{"stock_symbol": "INFY", "bank_name": "HDFC"}, models.TypeEquity},
		{"dp_id", Record{"dp_id": "IN300", "broker_code": "ZER"}, models.TypeDemat},
		{"company_name", Record{"company_name": "Tata"}, models.TypeDebt},
		{"bank_name", Record{"bank_name": "HDFC", "principal": 1.0}, models.TypeFixedDeposit},
		{"fund_name", Record{"fund_name": "SBI Bluechip"}, models.TypeMutualFund},
		{"account_no_and_branch", Record{"account_no": "PPF1", "branch": "Andheri"}, models.TypePPF},
		{"account_no_without_branch", Record{"account_no": "PPF1"}, models.TypeUnknown},
		{"certificate_no", Record{"certificate_no": "N1"}, models.TypeNSC},
		{"pran", Record{"pran": "1100"}, models.TypeNPS},
		{"type_and_form", Record{"type": "gold", "form": "bar"}, models.TypeBullion},
		{"property_type", Record{"property_type": "residential"}, models.TypeRealEstate},
		{"nil_and_blank_are_absent", Record{"stock_symbol": nil, "dp_id": "  ", "pran": "1100"}, models.TypeNPS},
		{"nothing_matches", Record{"foo": "bar"}, models.TypeUnknown},
		{"explicit_tag_wins", Record{"investment_type": "fixed_deposit", "stock_symbol": "INFY"}, models.TypeFixedDeposit},
		{"invalid_tag_falls_back", Record{"investment_type": "crypto", "fund_name": "X"}, models.TypeMutualFund},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.record); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestReturns(t *testing.T) {
	t.Run("zero_purchase", func(t *testing.T) {
		amount, pct := Returns(decimal.Zero, decimal.Zero)
		if !amount.IsZero() || !pct.IsZero() {
			t.Errorf("expected 0/0, got %s/%s", amount, pct)
		}
	})

	t.Run("gain", func(t *testing.T) {
		amount, pct := Returns(decimal.NewFromInt(100000), decimal.NewFromInt(115000))
		if !amount.Equal(decimal.NewFromInt(15000)) {
			t.Errorf("expected 15000, got %s", amount)
		}
		if !pct.Equal(decimal.NewFromFloat(15.0)) {
			t.Errorf("expected 15.0, got %s", pct)
		}
	})

	t.Run("loss_rounds_to_two_places", func(t *testing.T) {
		_, pct := Returns(decimal.NewFromInt(3), decimal.NewFromInt(2))
		if !pct.Equal(decimal.RequireFromString("-33.33")) {
			t.Errorf("expected -33.33, got %s", pct)
		}
	})
}

func TestDerive(t *testing.T) {
	t.Run("equity", func(t *testing.T) {
		h := Derive(Record{
			"detail_id": 7.0, "client_code": "C001", "stock_symbol": "INFY",
			"units": 10.0, "buy_price": 1000.0, "current_price": 1150.0, "buy_date": "2024-02-01",
		})
		if h.Type != models.TypeEquity || h.Name != "INFY" || h.Label != "Equity" {
			t.Errorf("unexpected holding: %+v", h)
		}
		if h.DetailID != 7 || h.ClientCode != "C001" {
			t.Errorf("unexpected identity: %d %s", h.DetailID, h.ClientCode)
		}
		if !h.CurrentValue.Equal(decimal.NewFromInt(11500)) || !h.PurchaseValue.Equal(decimal.NewFromInt(10000)) {
			t.Errorf("unexpected values: %s / %s", h.CurrentValue, h.PurchaseValue)
		}
		if !h.ReturnPct.Equal(decimal.NewFromInt(15)) {
			t.Errorf("expected 15%%, got %s", h.ReturnPct)
		}
		if h.HeldSince == nil || h.HeldSince.String() != "2024-02-01" {
			t.Errorf("expected held since 2024-02-01, got %v", h.HeldSince)
		}
	})

	t.Run("display_names", func(t *testing.T) {
		cases := map[string]Record{
			"HDFC Bank":            {"bank_name": "HDFC Bank", "principal": 500000.0},
			"SBI Bluechip":         {"fund_name": "SBI Bluechip", "nav": 80.0, "units": 10.0},
			"PPF PPF1":             {"account_no": "PPF1", "branch": "Andheri"},
			"NSC N1":               {"certificate_no": "N1"},
			"NPS 1100":             {"pran": "1100"},
			"gold coin":            {"type": "gold", "form": "coin"},
			"residential Property": {"property_type": "residential"},
			"Tata Capital":         {"company_name": "Tata Capital", "face_value": 1000.0},
			"Demat IN300":          {"dp_id": "IN300"},
		}
		for want, r := range cases {
			if got := Derive(r).Name; got != want {
				t.Errorf("expected %q, got %q", want, got)
			}
		}
	})

	t.Run("mutual_fund_value", func(t *testing.T) {
		h := Derive(Record{"fund_name": "X", "nav": 80.5, "units": 10.0})
		if !h.CurrentValue.Equal(decimal.RequireFromString("805")) {
			t.Errorf("expected 805, got %s", h.CurrentValue)
		}
		if !h.ReturnAmount.IsZero() {
			t.Errorf("expected no return without cost basis, got %s", h.ReturnAmount)
		}
	})

	t.Run("real_estate", func(t *testing.T) {
		h := Derive(Record{"property_type": "commercial", "purchase_price": 100000.0, "current_value": 115000.0, "purchase_date": "2020-05-05"})
		if !h.ReturnAmount.Equal(decimal.NewFromInt(15000)) || !h.ReturnPct.Equal(decimal.NewFromInt(15)) {
			t.Errorf("unexpected returns %s / %s", h.ReturnAmount, h.ReturnPct)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		h := Derive(Record{"foo": "bar"})
		if h.Type != models.TypeUnknown || h.Name != "Unknown Investment" || h.Label != "Unknown" {
			t.Errorf("unexpected holding: %+v", h)
		}
		if !h.CurrentValue.IsZero() || !h.PurchaseValue.IsZero() || !h.ReturnPct.IsZero() {
			t.Errorf("expected zero values, got %+v", h)
		}
	})
}

func TestHoldingDate(t *testing.T) {
	created := time.Date(2023, 3, 4, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{"start_date_first", Record{"start_date": "2024-01-01", "buy_date": "2023-01-01"}, "2024-01-01"},
		{"issue_date", Record{"issue_date": "2022-06-30"}, "2022-06-30"},
		{"created_at_timestamp", Record{"created_at": "2023-03-04T10:00:00Z"}, "2023-03-04"},
		{"created_at_time", Record{"created_at": created}, "2023-03-04"},
		{"nested_detail", Record{"client_detail": map[string]any{"start_date": "2021-01-01"}}, "2021-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := HoldingDate(tt.record)
			if !ok {
				t.Fatal("expected a date")
			}
			if got := d.Format(models.DateLayout); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	if _, ok := HoldingDate(Record{}); ok {
		t.Error("expected no date for an empty record")
	}
}

func TestNewRecord(t *testing.T) {
	end := models.NewDate(2025, 1, 1)
	detail := models.ClientDetail{
		DetailID:       3,
		ClientCode:     "C001",
		AvenueID:       4,
		InvestmentType: models.TypeFixedDeposit,
		StartDate:      models.NewDate(2024, 1, 1),
		EndDate:        &end,
	}
	fd := &models.FixedDeposit{BankName: "HDFC Bank", Principal: 500000, InterestRate: 7.5, MaturityDate: &end}
	fd.SetDetailID(3)

	r, err := NewRecord(detail, fd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.DetailID() != 3 || r.ClientCode() != "C001" || r.Tag() != models.TypeFixedDeposit {
		t.Errorf("unexpected record identity: %v", r)
	}
	if r.Str("bank_name") != "HDFC Bank" {
		t.Errorf("expected bank_name, got %v", r["bank_name"])
	}
	nested, ok := r["client_detail"].(map[string]any)
	if !ok || nested["start_date"] != "2024-01-01" {
		t.Errorf("expected nested client_detail, got %v", r["client_detail"])
	}

	h := Derive(r)
	if h.MaturityDate == nil || h.MaturityDate.String() != "2025-01-01" {
		t.Errorf("expected maturity 2025-01-01, got %v", h.MaturityDate)
	}
	if !h.CurrentValue.Equal(decimal.NewFromInt(500000)) {
		t.Errorf("expected 500000, got %s", h.CurrentValue)
	}
}
