package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"nivesh/internal/models"
	"nivesh/internal/pagination"
	"nivesh/internal/testutil"
)

func TestPortfolioService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(NewInvestmentService(db))

	testutil.SeedTestAvenues(t, db)
	a := testutil.CreateTestClient(t, db)
	b := testutil.CreateTestClient(t, db)
	testutil.CreateTestEquity(t, db, a.ClientCode, "INFY", 10, 1000, 1150)
	testutil.CreateTestFixedDeposit(t, db, a.ClientCode, "SBI", 50000, models.NewDate(2025, 2, 1))
	testutil.CreateTestFixedDeposit(t, db, b.ClientCode, "HDFC", 75000, models.NewDate(2026, 6, 1))

	t.Run("holdings", func(t *testing.T) {
		holdings, err := svc.Holdings(InvestmentFilter{ClientCode: a.ClientCode})
		testutil.AssertNoError(t, err)
		if len(holdings) != 2 {
			t.Fatalf("expected 2 holdings, got %d", len(holdings))
		}
		equity := holdings[1]
		if equity.Type != models.TypeEquity {
			t.Fatalf("expected equity, got %s", equity.Type)
		}
		if !equity.ReturnAmount.Equal(decimal.NewFromInt(1500)) || !equity.ReturnPct.Equal(decimal.NewFromInt(15)) {
			t.Errorf("expected return 1500 / 15%%, got %s / %s", equity.ReturnAmount, equity.ReturnPct)
		}
	})

	t.Run("summary", func(t *testing.T) {
		summary, err := svc.Summary(InvestmentFilter{})
		testutil.AssertNoError(t, err)
		if summary.Holdings != 3 || summary.Clients != 2 {
			t.Errorf("expected 3 holdings for 2 clients, got %d / %d", summary.Holdings, summary.Clients)
		}
		if !summary.CurrentValue.Equal(decimal.NewFromInt(136500)) {
			t.Errorf("expected current value 136500, got %s", summary.CurrentValue)
		}
	})

	t.Run("page_with_search", func(t *testing.T) {
		page, err := svc.HoldingsPage(InvestmentFilter{}, "hdfc", pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 || len(page.Data) != 1 || page.Data[0].Name != "HDFC" {
			t.Errorf("expected the HDFC deposit only, got %+v", page)
		}
		if page.PageSize != 20 {
			t.Errorf("expected default page size 20, got %d", page.PageSize)
		}
	})

	t.Run("page_past_end", func(t *testing.T) {
		page, err := svc.HoldingsPage(InvestmentFilter{}, "", pagination.PageRequest{Page: 5, PageSize: 2})
		testutil.AssertNoError(t, err)
		if len(page.Data) != 0 || page.TotalItems != 3 || page.TotalPages != 2 {
			t.Errorf("unexpected page: %+v", page)
		}
	})

	t.Run("maturities", func(t *testing.T) {
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		maturities, err := svc.Maturities(from, 90)
		testutil.AssertNoError(t, err)
		if len(maturities) != 1 {
			t.Fatalf("expected 1 maturity, got %d", len(maturities))
		}
		if maturities[0].ClientCode != a.ClientCode || maturities[0].DaysLeft != 31 {
			t.Errorf("unexpected maturity: %+v", maturities[0])
		}
	})

	t.Run("maturities_invalid_window", func(t *testing.T) {
		_, err := svc.Maturities(time.Now(), 0)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		testutil.AssertNoError(t, svc.WriteHoldingsCSV(&buf, InvestmentFilter{ClientCode: b.ClientCode}))

		rows, err := csv.NewReader(&buf).ReadAll()
		testutil.AssertNoError(t, err)
		if len(rows) != 2 {
			t.Fatalf("expected header and 1 row, got %d rows", len(rows))
		}
		if rows[0][0] != "Detail ID" || rows[1][1] != b.ClientCode || rows[1][3] != "HDFC" {
			t.Errorf("unexpected csv: %v", rows)
		}
		if rows[1][9] != "2026-06-01" {
			t.Errorf("expected maturity date 2026-06-01, got %q", rows[1][9])
		}
	})
}
