package services

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/investment"
	"nivesh/internal/models"
	"nivesh/internal/pagination"
)

// portfolioService derives holdings, totals and maturities from stored
// investments.
type portfolioService struct {
	investments InvestmentServicer
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(investments InvestmentServicer) PortfolioServicer {
	return &portfolioService{investments: investments}
}

// Holdings classifies every matching investment and computes its values.
func (s *portfolioService) Holdings(filter InvestmentFilter) ([]investment.Holding, error) {
	records, err := s.investments.ListInvestments(filter)
	if err != nil {
		return nil, err
	}
	return investment.DeriveAll(records), nil
}

// HoldingsPage returns one page of holdings matching a free-text search.
func (s *portfolioService) HoldingsPage(filter InvestmentFilter, search string, page pagination.PageRequest) (*pagination.PageResponse[investment.Holding], error) {
	holdings, err := s.Holdings(filter)
	if err != nil {
		return nil, err
	}
	resp := pagination.Slice(investment.Filter(holdings, search, ""), page)
	return &resp, nil
}

// Summary totals the matching holdings.
func (s *portfolioService) Summary(filter InvestmentFilter) (*investment.Summary, error) {
	holdings, err := s.Holdings(filter)
	if err != nil {
		return nil, err
	}
	summary := investment.Summarize(holdings)
	return &summary, nil
}

// Maturities lists holdings maturing within days of from.
func (s *portfolioService) Maturities(from time.Time, days int) ([]investment.Maturity, error) {
	if days <= 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"days": "must be 1 or more"})
	}
	holdings, err := s.Holdings(InvestmentFilter{})
	if err != nil {
		return nil, err
	}
	return investment.UpcomingMaturities(holdings, from, days), nil
}

var csvHeader = []string{
	"Detail ID", "Client Code", "Type", "Name", "Purchase Value", "Current Value", "Return", "Return %", "Held Since", "Maturity Date",
}

// WriteHoldingsCSV writes the matching holdings as a CSV report.
func (s *portfolioService) WriteHoldingsCSV(w io.Writer, filter InvestmentFilter) error {
	holdings, err := s.Holdings(filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, h := range holdings {
		row := []string{
			uintString(h.DetailID),
			h.ClientCode,
			h.Label,
			h.Name,
			investment.FormatINR(h.PurchaseValue),
			investment.FormatINR(h.CurrentValue),
			investment.FormatINR(h.ReturnAmount),
			investment.FormatPct(h.ReturnPct),
			dateString(h.HeldSince),
			dateString(h.MaturityDate),
		}
		if err := cw.Write(row); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func dateString(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
