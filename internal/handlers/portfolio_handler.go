package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/pagination"
	"nivesh/internal/services"
)

const (
	defaultMaturityWindow = 60
	maxMaturityWindow     = 3650
)

// PortfolioHandler serves the read-side portfolio views and reports.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
	now              func() time.Time
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, now: time.Now}
}

// Summary handles the portfolio summary.
// @Summary     Portfolio summary
// @Description Totals, returns and allocation by investment type
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       client_code     query string false "Client code"
// @Param       investment_type query string false "Investment type"
// @Success     200 {object} investment.Summary "Summary"
// @Router      /portfolio/summary/ [get]
func (h *PortfolioHandler) Summary(c *gin.Context) {
	filter, err := investmentFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	summary, err := h.portfolioService.Summary(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Holdings handles the paginated holdings table.
// @Summary     Holdings
// @Description Classified holdings with derived name, values and returns
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       client_code     query string false "Client code"
// @Param       investment_type query string false "Investment type"
// @Param       q               query string false "Search name, type or client code"
// @Param       page            query int    false "Page number (default 1)"
// @Param       page_size       query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[investment.Holding] "Paginated holdings"
// @Router      /portfolio/holdings/ [get]
func (h *PortfolioHandler) Holdings(c *gin.Context) {
	filter, err := investmentFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	resp, err := h.portfolioService.HoldingsPage(filter, c.Query("q"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Maturities handles the upcoming maturities list.
// @Summary     Upcoming maturities
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       days query int false "Look-ahead window in days (default 60)"
// @Success     200 {array} investment.Maturity "Maturities, soonest first"
// @Failure     400 {object} ErrorResponse "Invalid window"
// @Router      /dashboard/maturities/ [get]
func (h *PortfolioHandler) Maturities(c *gin.Context) {
	days := defaultMaturityWindow
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxMaturityWindow {
			respondWithError(c, apperrors.WithFields(apperrors.ErrValidation,
				map[string]string{"days": "must be between 1 and " + strconv.Itoa(maxMaturityWindow)}))
			return
		}
		days = n
	}
	maturities, err := h.portfolioService.Maturities(h.now(), days)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, maturities)
}

// HoldingsCSV handles the holdings export.
// @Summary     Export holdings
// @Tags        reports
// @Produce     text/csv
// @Security    BearerAuth
// @Param       client_code     query string false "Client code"
// @Param       investment_type query string false "Investment type"
// @Success     200 {file} file "holdings.csv"
// @Router      /reports/holdings.csv [get]
func (h *PortfolioHandler) HoldingsCSV(c *gin.Context) {
	filter, err := investmentFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	// Buffered so a failure can still be answered with JSON.
	var buf bytes.Buffer
	if err := h.portfolioService.WriteHoldingsCSV(&buf, filter); err != nil {
		respondWithError(c, err)
		return
	}

	filename := "holdings-" + h.now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
