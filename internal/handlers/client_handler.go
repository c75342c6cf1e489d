package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/models"
	"nivesh/internal/services"
)

// ClientHandler handles client master requests.
type ClientHandler struct {
	clientService services.ClientServicer
	auditService  services.AuditServicer
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService services.ClientServicer, auditService services.AuditServicer) *ClientHandler {
	return &ClientHandler{clientService: clientService, auditService: auditService}
}

// CreateClientRequest represents the request payload for creating a client.
type CreateClientRequest struct {
	ClientCode string `json:"client_code" binding:"required,max=32"`
	ClientName string `json:"client_name" binding:"required,max=200"`
	GroupName  string `json:"group_name" binding:"max=200"`
	PAN        string `json:"pan" binding:"omitempty,pan"`
	Aadhaar    string `json:"aadhaar" binding:"omitempty,aadhaar"`
	Mobile     string `json:"mobile" binding:"omitempty,mobile"`
	Email      string `json:"email" binding:"omitempty,email"`
	DOB        string `json:"dob" binding:"omitempty,isodate"`
	Address    string `json:"address" binding:"max=500"`
}

// UpdateClientRequest represents the request payload for updating a client.
type UpdateClientRequest struct {
	ClientName *string `json:"client_name" binding:"omitempty,max=200"`
	GroupName  *string `json:"group_name" binding:"omitempty,max=200"`
	PAN        *string `json:"pan" binding:"omitempty,pan"`
	Aadhaar    *string `json:"aadhaar" binding:"omitempty,aadhaar"`
	Mobile     *string `json:"mobile" binding:"omitempty,mobile"`
	Email      *string `json:"email" binding:"omitempty,email"`
	DOB        *string `json:"dob" binding:"omitempty,isodate"`
	Address    *string `json:"address" binding:"omitempty,max=500"`
	IsActive   *bool   `json:"is_active"`
}

func parseOptionalDate(s string) (*models.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"dob": "must be a date formatted YYYY-MM-DD"})
	}
	return &d, nil
}

// CreateClient handles adding a client to the client master.
// @Summary     Create client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateClientRequest true "Client details"
// @Success     201 {object} models.Client "Client created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate client code"
// @Router      /clients/ [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	dob, err := parseOptionalDate(req.DOB)
	if err != nil {
		respondWithError(c, err)
		return
	}

	client, err := h.clientService.CreateClient(&models.Client{
		ClientCode: req.ClientCode,
		ClientName: req.ClientName,
		GroupName:  req.GroupName,
		PAN:        req.PAN,
		Aadhaar:    req.Aadhaar,
		Mobile:     req.Mobile,
		Email:      req.Email,
		DOB:        dob,
		Address:    req.Address,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CLIENT", "client", client.ClientCode, c.ClientIP(),
		map[string]interface{}{"client_name": client.ClientName})

	c.JSON(http.StatusCreated, client)
}

// ListClients handles listing clients.
// @Summary     List clients
// @Tags        clients
// @Produce     json
// @Security    BearerAuth
// @Param       search query string false "Match name, code or PAN"
// @Param       group  query string false "Group name"
// @Param       active query bool   false "Only active clients"
// @Success     200 {array} models.Client "Clients"
// @Router      /clients/ [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	filter := services.ClientFilter{
		Search:     c.Query("search"),
		GroupName:  c.Query("group"),
		ActiveOnly: c.Query("active") == "true",
	}
	clients, err := h.clientService.ListClients(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClient handles fetching one client.
// @Summary     Get client
// @Tags        clients
// @Produce     json
// @Security    BearerAuth
// @Param       code path string true "Client code"
// @Success     200 {object} models.Client "Client"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /clients/{code}/ [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientService.GetClient(c.Param("code"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles partial updates of a client.
// @Summary     Update client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       code    path string              true "Client code"
// @Param       request body UpdateClientRequest true "Fields to change"
// @Success     200 {object} models.Client "Updated client"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /clients/{code}/ [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	update := services.ClientUpdate{
		ClientName: req.ClientName,
		GroupName:  req.GroupName,
		PAN:        req.PAN,
		Aadhaar:    req.Aadhaar,
		Mobile:     req.Mobile,
		Email:      req.Email,
		Address:    req.Address,
		IsActive:   req.IsActive,
	}
	if req.DOB != nil {
		if update.DOB, err = parseOptionalDate(*req.DOB); err != nil {
			respondWithError(c, err)
			return
		}
	}

	client, err := h.clientService.UpdateClient(c.Param("code"), update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CLIENT", "client", client.ClientCode, c.ClientIP(), nil)

	c.JSON(http.StatusOK, client)
}

// DeleteClient handles removing a client. Clients with holdings are
// deactivated instead.
// @Summary     Delete client
// @Tags        clients
// @Security    BearerAuth
// @Param       code path string true "Client code"
// @Success     204 "Deleted or deactivated"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /clients/{code}/ [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	code := strings.ToUpper(c.Param("code"))
	if err := h.clientService.DeleteClient(code); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CLIENT", "client", code, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
