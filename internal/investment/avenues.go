package investment

import (
	"context"

	"nivesh/internal/logger"
	"nivesh/internal/models"
)

// AvenueSource fetches the selectable investment avenues.
type AvenueSource interface {
	ListAvenues(ctx context.Context) ([]models.InvestmentAvenue, error)
}

// DefaultAvenues returns the built-in avenues, one per variant with ids
// 1 through 10. A fresh slice is returned on every call.
func DefaultAvenues() []models.InvestmentAvenue {
	names := map[models.InvestmentType]string{
		models.TypeEquity:       "Equity",
		models.TypeDemat:        "Demat Account",
		models.TypeDebt:         "Debt Securities",
		models.TypeFixedDeposit: "Fixed Deposit",
		models.TypeMutualFund:   "Mutual Fund",
		models.TypePPF:          "PPF",
		models.TypeNSC:          "NSC",
		models.TypeNPS:          "NPS",
		models.TypeBullion:      "Bullion",
		models.TypeRealEstate:   "Real Estate",
	}
	out := make([]models.InvestmentAvenue, 0, len(models.InvestmentTypes))
	for i, t := range models.InvestmentTypes {
		out = append(out, models.InvestmentAvenue{
			AvenueID:       uint(i + 1),
			AvenueName:     names[t],
			InvestmentType: t,
			IsActive:       true,
		})
	}
	return out
}

// AvenueRegistry supplies avenues to the form and keeps it usable when the
// source is unavailable.
type AvenueRegistry struct {
	source AvenueSource
}

// NewAvenueRegistry creates a registry over source. A nil source always
// yields the built-in avenues.
func NewAvenueRegistry(source AvenueSource) *AvenueRegistry {
	return &AvenueRegistry{source: source}
}

// ListAvenues returns the source's avenues, or the built-in ten when the
// source fails or has none. The result is never empty.
func (r *AvenueRegistry) ListAvenues(ctx context.Context) []models.InvestmentAvenue {
	if r.source == nil {
		return DefaultAvenues()
	}
	avenues, err := r.source.ListAvenues(ctx)
	if err != nil {
		logger.Named("avenues").Warnw("Falling back to built-in avenues", "error", err)
		return DefaultAvenues()
	}
	if len(avenues) == 0 {
		logger.Named("avenues").Warnw("Avenue source returned nothing, using built-in avenues")
		return DefaultAvenues()
	}
	return avenues
}

// Lookup finds an avenue by id in a list.
func Lookup(avenues []models.InvestmentAvenue, id uint) (models.InvestmentAvenue, bool) {
	for _, a := range avenues {
		if a.AvenueID == id {
			return a, true
		}
	}
	return models.InvestmentAvenue{}, false
}
