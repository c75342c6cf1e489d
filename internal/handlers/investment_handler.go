package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/investment"
	"nivesh/internal/models"
	"nivesh/internal/services"
)

// InvestmentHandler handles investment-related requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
	auditService      services.AuditServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer, auditService services.AuditServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService, auditService: auditService}
}

// UpdateInvestmentRequest represents the request payload for updating an
// investment. Both parts are optional; investment_data is merged over the
// stored variant fields.
type UpdateInvestmentRequest struct {
	ClientDetail   *services.DetailUpdate `json:"client_detail"`
	InvestmentData map[string]any         `json:"investment_data"`
}

// investmentFilter reads the client_code and investment_type (or type)
// query parameters shared by the list endpoints.
func investmentFilter(c *gin.Context) (services.InvestmentFilter, error) {
	filter := services.InvestmentFilter{
		ClientCode:     strings.TrimSpace(c.Query("client_code")),
		InvestmentType: models.InvestmentType(strings.TrimSpace(c.Query("investment_type"))),
	}
	if filter.InvestmentType == "" {
		filter.InvestmentType = models.InvestmentType(strings.TrimSpace(c.Query("type")))
	}
	if filter.InvestmentType != "" && !filter.InvestmentType.Valid() {
		return filter, apperrors.WithFields(apperrors.ErrUnsupportedVariant,
			map[string]string{"investment_type": "is not a supported investment type"})
	}
	return filter, nil
}

// CreateInvestment handles recording a new investment.
// @Summary     Create investment
// @Description Store a client detail and its variant record. investment_type must match the avenue unless type_override is set.
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key header string                 false "Replays the first response for repeated submissions"
// @Param       request         body   investment.Submission true  "Submission"
// @Success     201 {object} map[string]interface{} "Created flat record"
// @Failure     400 {object} ErrorResponse "Validation error, unsupported variant or avenue mismatch"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Client or avenue not found"
// @Failure     409 {object} ErrorResponse "Idempotency conflict"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/ [post]
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var sub investment.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	record, err := h.investmentService.CreateInvestment(&sub)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_INVESTMENT", "investment", uintString(record.DetailID()), c.ClientIP(),
		map[string]interface{}{
			"client_code":     sub.ClientDetail.ClientCode,
			"avenue_id":       sub.ClientDetail.AvenueID,
			"investment_type": string(sub.InvestmentType),
			"type_override":   sub.TypeOverride,
		})

	c.JSON(http.StatusCreated, record)
}

// ListInvestments handles listing investments as flat records.
// @Summary     List investments
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       client_code     query string false "Client code"
// @Param       investment_type query string false "Investment type"
// @Success     200 {array} map[string]interface{} "Flat records"
// @Failure     400 {object} ErrorResponse "Unsupported investment type"
// @Router      /investments/ [get]
func (h *InvestmentHandler) ListInvestments(c *gin.Context) {
	filter, err := investmentFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	records, err := h.investmentService.ListInvestments(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetInvestment handles fetching one investment.
// @Summary     Get investment
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Detail ID"
// @Success     200 {object} map[string]interface{} "Flat record"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Router      /investments/{id}/ [get]
func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	record, err := h.investmentService.GetInvestment(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpdateInvestment handles changing an investment.
// @Summary     Update investment
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                     true "Detail ID"
// @Param       request body UpdateInvestmentRequest true "Fields to change"
// @Success     200 {object} map[string]interface{} "Updated flat record"
// @Failure     400 {object} ErrorResponse "Validation error"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Router      /investments/{id}/ [put]
func (h *InvestmentHandler) UpdateInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	record, err := h.investmentService.UpdateInvestment(id, req.ClientDetail, req.InvestmentData)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	for k, v := range req.InvestmentData {
		changes[k] = v
	}
	h.auditService.Log(userID, "UPDATE_INVESTMENT", "investment", uintString(id), c.ClientIP(), changes)

	c.JSON(http.StatusOK, record)
}

// DeleteInvestment handles removing an investment.
// @Summary     Delete investment
// @Tags        investments
// @Security    BearerAuth
// @Param       id path int true "Detail ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Router      /investments/{id}/ [delete]
func (h *InvestmentHandler) DeleteInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.investmentService.DeleteInvestment(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_INVESTMENT", "investment", uintString(id), c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// AuditEntryResponse is one step of an investment's history.
type AuditEntryResponse struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"user_id"`
	Action    string          `json:"action"`
	Changes   json.RawMessage `json:"changes,omitempty" swaggertype:"object"`
	CreatedAt time.Time       `json:"created_at"`
}

// InvestmentHistory handles listing the audit trail of one investment.
// The trail outlives the record, so a deleted investment still has one.
// @Summary     Investment history
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Detail ID"
// @Success     200 {array}  AuditEntryResponse
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Router      /investments/{id}/history/ [get]
func (h *InvestmentHandler) InvestmentHistory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.auditService.History("investment", uintString(id))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if len(entries) == 0 {
		if _, err := h.investmentService.GetInvestment(id); err != nil {
			respondWithError(c, err)
			return
		}
	}

	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			Changes:   e.ChangeSet(),
			CreatedAt: e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}
