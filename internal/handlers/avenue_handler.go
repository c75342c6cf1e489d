package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nivesh/internal/models"
	"nivesh/internal/services"
)

// AvenueHandler handles investment avenue requests.
type AvenueHandler struct {
	avenueService services.AvenueServicer
	auditService  services.AuditServicer
}

// NewAvenueHandler creates a new AvenueHandler.
func NewAvenueHandler(avenueService services.AvenueServicer, auditService services.AuditServicer) *AvenueHandler {
	return &AvenueHandler{avenueService: avenueService, auditService: auditService}
}

// CreateAvenueRequest represents the request payload for creating an avenue.
type CreateAvenueRequest struct {
	AvenueName     string                `json:"avenue_name" binding:"required,max=200"`
	InvestmentType models.InvestmentType `json:"investment_type" binding:"required,investment_type"`
	Description    string                `json:"description" binding:"max=500"`
}

// UpdateAvenueRequest represents the request payload for updating an avenue.
type UpdateAvenueRequest struct {
	AvenueName     *string                `json:"avenue_name" binding:"omitempty,max=200"`
	InvestmentType *models.InvestmentType `json:"investment_type" binding:"omitempty,investment_type"`
	Description    *string                `json:"description" binding:"omitempty,max=500"`
	IsActive       *bool                  `json:"is_active"`
}

// ListAvenues handles listing the active investment avenues.
// @Summary     List investment avenues
// @Tags        avenues
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.InvestmentAvenue "Active avenues"
// @Router      /investment-avenues/ [get]
func (h *AvenueHandler) ListAvenues(c *gin.Context) {
	avenues, err := h.avenueService.ListAvenues(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	if avenues == nil {
		avenues = []models.InvestmentAvenue{}
	}
	c.JSON(http.StatusOK, avenues)
}

// GetAvenue handles fetching one avenue.
// @Summary     Get investment avenue
// @Tags        avenues
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Avenue ID"
// @Success     200 {object} models.InvestmentAvenue "Avenue"
// @Failure     404 {object} ErrorResponse "Avenue not found"
// @Router      /investment-avenues/{id}/ [get]
func (h *AvenueHandler) GetAvenue(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	avenue, err := h.avenueService.GetAvenue(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, avenue)
}

// CreateAvenue handles adding an avenue.
// @Summary     Create investment avenue
// @Tags        avenues
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAvenueRequest true "Avenue details"
// @Success     201 {object} models.InvestmentAvenue "Avenue created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /investment-avenues/ [post]
func (h *AvenueHandler) CreateAvenue(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAvenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	avenue, err := h.avenueService.CreateAvenue(&models.InvestmentAvenue{
		AvenueName:     req.AvenueName,
		InvestmentType: req.InvestmentType,
		Description:    req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_AVENUE", "avenue", uintString(avenue.AvenueID), c.ClientIP(),
		map[string]interface{}{"avenue_name": avenue.AvenueName, "investment_type": string(avenue.InvestmentType)})

	c.JSON(http.StatusCreated, avenue)
}

// UpdateAvenue handles partial updates of an avenue.
// @Summary     Update investment avenue
// @Tags        avenues
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Avenue ID"
// @Param       request body UpdateAvenueRequest true "Fields to change"
// @Success     200 {object} models.InvestmentAvenue "Updated avenue"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Avenue not found"
// @Failure     409 {object} ErrorResponse "Avenue in use"
// @Router      /investment-avenues/{id}/ [put]
func (h *AvenueHandler) UpdateAvenue(c *gin.Context) {
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

	var req UpdateAvenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	avenue, err := h.avenueService.UpdateAvenue(id, services.AvenueUpdate{
		AvenueName:     req.AvenueName,
		InvestmentType: req.InvestmentType,
		Description:    req.Description,
		IsActive:       req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_AVENUE", "avenue", uintString(id), c.ClientIP(), nil)

	c.JSON(http.StatusOK, avenue)
}

// DeleteAvenue handles removing an unused avenue.
// @Summary     Delete investment avenue
// @Tags        avenues
// @Security    BearerAuth
// @Param       id path int true "Avenue ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Avenue not found"
// @Failure     409 {object} ErrorResponse "Avenue in use"
// @Router      /investment-avenues/{id}/ [delete]
func (h *AvenueHandler) DeleteAvenue(c *gin.Context) {
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

	if err := h.avenueService.DeleteAvenue(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_AVENUE", "avenue", uintString(id), c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
