package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"nivesh/internal/investment"
	"nivesh/internal/models"
	"nivesh/internal/pagination"
	"nivesh/internal/services"
)

type mockPortfolioService struct {
	holdingsFn     func(filter services.InvestmentFilter) ([]investment.Holding, error)
	holdingsPageFn func(filter services.InvestmentFilter, search string, page pagination.PageRequest) (*pagination.PageResponse[investment.Holding], error)
	summaryFn      func(filter services.InvestmentFilter) (*investment.Summary, error)
	maturitiesFn   func(from time.Time, days int) ([]investment.Maturity, error)
	writeCSVFn     func(w io.Writer, filter services.InvestmentFilter) error
}

func (m *mockPortfolioService) Holdings(filter services.InvestmentFilter) ([]investment.Holding, error) {
	if m.holdingsFn != nil {
		return m.holdingsFn(filter)
	}
	return []investment.Holding{}, nil
}

func (m *mockPortfolioService) HoldingsPage(filter services.InvestmentFilter, search string, page pagination.PageRequest) (*pagination.PageResponse[investment.Holding], error) {
	if m.holdingsPageFn != nil {
		return m.holdingsPageFn(filter, search, page)
	}
	resp := pagination.NewPageResponse([]investment.Holding{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockPortfolioService) Summary(filter services.InvestmentFilter) (*investment.Summary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(filter)
	}
	return &investment.Summary{}, nil
}

func (m *mockPortfolioService) Maturities(from time.Time, days int) ([]investment.Maturity, error) {
	if m.maturitiesFn != nil {
		return m.maturitiesFn(from, days)
	}
	return []investment.Maturity{}, nil
}

func (m *mockPortfolioService) WriteHoldingsCSV(w io.Writer, filter services.InvestmentFilter) error {
	if m.writeCSVFn != nil {
		return m.writeCSVFn(w, filter)
	}
	return nil
}

func setupPortfolioRouter(svc services.PortfolioServicer, now time.Time) *gin.Engine {
	handler := NewPortfolioHandler(svc)
	handler.now = func() time.Time { return now }
	r := gin.New()
	r.GET("/portfolio/summary/", handler.Summary)
	r.GET("/portfolio/holdings/", handler.Holdings)
	r.GET("/portfolio/maturities/", handler.Maturities)
	r.GET("/reports/holdings.csv", handler.HoldingsCSV)
	return r
}

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func TestPortfolioHandler_Summary(t *testing.T) {
	t.Run("returns the summary for the client filter", func(t *testing.T) {
		var got services.InvestmentFilter
		svc := &mockPortfolioService{
			summaryFn: func(filter services.InvestmentFilter) (*investment.Summary, error) {
				got = filter
				return &investment.Summary{Holdings: 3, Clients: 1, CurrentValue: decimal.NewFromInt(136500)}, nil
			},
		}
		r := setupPortfolioRouter(svc, testNow)

		rec := doRequest(r, "GET", "/portfolio/summary/?client_code=C001", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["holdings"] != float64(3) || result["current_value"] != "136500" {
			t.Errorf("unexpected summary: %v", result)
		}
		if got.ClientCode != "C001" {
			t.Errorf("expected client filter C001, got %q", got.ClientCode)
		}
	})
}

func TestPortfolioHandler_Holdings(t *testing.T) {
	t.Run("passes search and page", func(t *testing.T) {
		var gotSearch string
		var gotPage pagination.PageRequest
		svc := &mockPortfolioService{
			holdingsPageFn: func(_ services.InvestmentFilter, search string, page pagination.PageRequest) (*pagination.PageResponse[investment.Holding], error) {
				gotSearch, gotPage = search, page
				resp := pagination.NewPageResponse([]investment.Holding{{DetailID: 4, Type: models.TypeEquity}}, 2, 5, 6)
				return &resp, nil
			},
		}
		r := setupPortfolioRouter(svc, testNow)

		rec := doRequest(r, "GET", "/portfolio/holdings/?q=hdfc&page=2&page_size=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotSearch != "hdfc" || gotPage.Page != 2 || gotPage.PageSize != 5 {
			t.Errorf("unexpected args: %q %+v", gotSearch, gotPage)
		}
		result := parseJSON(t, rec)
		if result["total_pages"] != float64(2) {
			t.Errorf("expected 2 pages, got %v", result["total_pages"])
		}
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupPortfolioRouter(&mockPortfolioService{}, testNow)

		rec := doRequest(r, "GET", "/portfolio/holdings/?page_size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorField(t, parseJSON(t, rec), "page_size")
	})
}

func TestPortfolioHandler_Maturities(t *testing.T) {
	t.Run("defaults to a 60 day window from now", func(t *testing.T) {
		var gotFrom time.Time
		var gotDays int
		svc := &mockPortfolioService{
			maturitiesFn: func(from time.Time, days int) ([]investment.Maturity, error) {
				gotFrom, gotDays = from, days
				return []investment.Maturity{}, nil
			},
		}
		r := setupPortfolioRouter(svc, testNow)

		rec := doRequest(r, "GET", "/portfolio/maturities/", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotDays != 60 || !gotFrom.Equal(testNow) {
			t.Errorf("unexpected window: %v %d", gotFrom, gotDays)
		}
		if rec.Body.String() != "[]" {
			t.Errorf("expected [], got %s", rec.Body.String())
		}
	})

	t.Run("returns 400 on an out of range window", func(t *testing.T) {
		r := setupPortfolioRouter(&mockPortfolioService{}, testNow)

		for _, days := range []string{"0", "-3", "abc", "4000"} {
			rec := doRequest(r, "GET", "/portfolio/maturities/?days="+days, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("days=%s: expected 400, got %d", days, rec.Code)
				continue
			}
			assertErrorField(t, parseJSON(t, rec), "days")
		}
	})
}

func TestPortfolioHandler_HoldingsCSV(t *testing.T) {
	t.Run("returns an attachment named after today", func(t *testing.T) {
		svc := &mockPortfolioService{
			writeCSVFn: func(w io.Writer, _ services.InvestmentFilter) error {
				_, err := fmt.Fprint(w, "Detail ID,Client Code\n1,C001\n")
				return err
			},
		}
		r := setupPortfolioRouter(svc, testNow)

		rec := doRequest(r, "GET", "/reports/holdings.csv", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
			t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
		}
		if !strings.Contains(rec.Header().Get("Content-Disposition"), "holdings-2025-03-10.csv") {
			t.Errorf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
		}
		if !strings.Contains(rec.Body.String(), "1,C001") {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("returns JSON 500 when the export fails", func(t *testing.T) {
		svc := &mockPortfolioService{
			writeCSVFn: func(io.Writer, services.InvestmentFilter) error { return errors.New("db gone") },
		}
		r := setupPortfolioRouter(svc, testNow)

		rec := doRequest(r, "GET", "/reports/holdings.csv", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	t.Run("returns 200 when all dependencies answer", func(t *testing.T) {
		handler := NewHealthHandler(map[string]Pinger{"database": stubPinger{}, "redis": nil})
		r := gin.New()
		r.GET("/health", handler.Health)

		rec := doRequest(r, "GET", "/health", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		deps := result["dependencies"].(map[string]interface{})
		if result["status"] != "ok" || deps["database"] != "ok" {
			t.Errorf("unexpected body: %v", result)
		}
		if _, ok := deps["redis"]; ok {
			t.Error("nil checks should be skipped")
		}
	})

	t.Run("returns 503 when a dependency is down", func(t *testing.T) {
		handler := NewHealthHandler(map[string]Pinger{"database": stubPinger{err: errors.New("connection refused")}})
		r := gin.New()
		r.GET("/health", handler.Health)

		rec := doRequest(r, "GET", "/health", "")

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		if parseJSON(t, rec)["status"] != "degraded" {
			t.Error("expected degraded status")
		}
	})
}
