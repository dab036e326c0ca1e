package handler

import (
	"net/http"

	"github.com/droneflow/droneflow-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ClientHandler handles client registry HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// AreaRequest represents one area in a client form
type AreaRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name" validate:"required,max=255"`
	Hectares decimal.Decimal `json:"hectares"`
}

// ClientRequest represents the request body for creating or editing a client
type ClientRequest struct {
	Name        string        `json:"name" validate:"required,max=255"`
	Contact     string        `json:"contact" validate:"max=255"`
	Areas       []AreaRequest `json:"areas" validate:"dive"`
	IsPartner   bool          `json:"isPartner"`
	PartnerSlot string        `json:"partnerSlot"`
}

func (r ClientRequest) toInput() service.ClientInput {
	areas := make([]service.AreaInput, len(r.Areas))
	for i, a := range r.Areas {
		areas[i] = service.AreaInput{ID: a.ID, Name: a.Name, Hectares: a.Hectares}
	}
	return service.ClientInput{
		Name:        r.Name,
		Contact:     r.Contact,
		Areas:       areas,
		IsPartner:   r.IsPartner,
		PartnerSlot: r.PartnerSlot,
	}
}

// GetClients handles GET /api/v1/clients
func (h *ClientHandler) GetClients(c echo.Context) error {
	clients, err := h.clientService.ListClients(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "Failed to get clients")
	}

	response := make([]ClientResponse, len(clients))
	for i, client := range clients {
		response[i] = toClientResponse(client)
	}
	return c.JSON(http.StatusOK, response)
}

// GetClient handles GET /api/v1/clients/:id
func (h *ClientHandler) GetClient(c echo.Context) error {
	client, err := h.clientService.GetClient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleServiceError(c, err, "Failed to get client")
	}
	return c.JSON(http.StatusOK, toClientResponse(*client))
}

// CreateClient handles POST /api/v1/clients
func (h *ClientHandler) CreateClient(c echo.Context) error {
	var req ClientRequest
	if detail, errs := bindAndValidate(c, &req); detail != "" {
		return NewValidationError(c, detail, errs)
	}

	client, err := h.clientService.CreateClient(c.Request().Context(), req.toInput())
	if err != nil {
		return handleServiceError(c, err, "Failed to create client")
	}
	return c.JSON(http.StatusCreated, toClientResponse(*client))
}

// UpdateClient handles PUT /api/v1/clients/:id
func (h *ClientHandler) UpdateClient(c echo.Context) error {
	var req ClientRequest
	if detail, errs := bindAndValidate(c, &req); detail != "" {
		return NewValidationError(c, detail, errs)
	}

	client, err := h.clientService.UpdateClient(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return handleServiceError(c, err, "Failed to update client")
	}
	return c.JSON(http.StatusOK, toClientResponse(*client))
}

// DeleteClient handles DELETE /api/v1/clients/:id
func (h *ClientHandler) DeleteClient(c echo.Context) error {
	if err := h.clientService.DeleteClient(c.Request().Context(), c.Param("id")); err != nil {
		return handleServiceError(c, err, "Failed to delete client")
	}
	return c.NoContent(http.StatusNoContent)
}
