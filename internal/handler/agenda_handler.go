package handler

import (
	"net/http"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/droneflow/droneflow-backend/internal/middleware"
	"github.com/droneflow/droneflow-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// AgendaHandler handles agenda HTTP requests
type AgendaHandler struct {
	agendaService *service.AgendaService
	monthService  *service.MonthService
}

// NewAgendaHandler creates a new AgendaHandler
func NewAgendaHandler(agendaService *service.AgendaService, monthService *service.MonthService) *AgendaHandler {
	return &AgendaHandler{agendaService: agendaService, monthService: monthService}
}

// CreateAgendaRequest represents the request body for scheduling an application
type CreateAgendaRequest struct {
	Date     string          `json:"date" validate:"required,datetime=2006-01-02"`
	ClientID string          `json:"clientId" validate:"required"`
	AreaID   string          `json:"areaId" validate:"required"`
	Hectares decimal.Decimal `json:"hectares"`
	Type     string          `json:"type" validate:"required,oneof=spraying solid_dispersion"`
	Notes    string          `json:"notes" validate:"max=500"`
}

// ExecuteAgendaRequest represents the request body for executing a scheduled application
type ExecuteAgendaRequest struct {
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// GetAgenda godoc
// @Summary List agenda
// @Description Get the scheduled applications of a month
// @Tags agenda
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Success 200 {array} AgendaItemResponse
// @Failure 400 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /agenda [get]
func (h *AgendaHandler) GetAgenda(c echo.Context) error {
	key, errs := queryMonthKey(c, h.monthService.DefaultKey())
	if errs != nil {
		return NewValidationError(c, "Invalid month key", errs)
	}

	items, err := h.agendaService.ListAgenda(c.Request().Context(), key)
	if err != nil {
		return handleServiceError(c, err, "Failed to get agenda")
	}

	response := make([]AgendaItemResponse, len(items))
	for i, item := range items {
		response[i] = toAgendaItemResponse(item)
	}
	return c.JSON(http.StatusOK, response)
}

// CreateAgendaItem godoc
// @Summary Schedule an application
// @Description Schedule an application as pending
// @Tags agenda
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAgendaRequest true "Agenda item"
// @Success 201 {object} AgendaItemResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /agenda [post]
func (h *AgendaHandler) CreateAgendaItem(c echo.Context) error {
	var req CreateAgendaRequest
	if detail, errs := bindAndValidate(c, &req); detail != "" {
		return NewValidationError(c, detail, errs)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", nil)
	}

	item, err := h.agendaService.CreateAgendaItem(c.Request().Context(), service.AgendaInput{
		Date:      date,
		ClientID:  req.ClientID,
		AreaID:    req.AreaID,
		Hectares:  req.Hectares,
		Type:      domain.ApplicationType(req.Type),
		Notes:     req.Notes,
		CreatedBy: middleware.GetEmail(c),
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to create agenda item")
	}
	return c.JSON(http.StatusCreated, toAgendaItemResponse(*item))
}

// ConfirmAgendaItem godoc
// @Summary Confirm an agenda item
// @Description Mark a scheduled application as confirmed
// @Tags agenda
// @Produce json
// @Security BearerAuth
// @Param id path string true "Agenda item ID"
// @Success 200 {object} AgendaItemResponse
// @Failure 404 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /agenda/{id}/confirm [patch]
func (h *AgendaHandler) ConfirmAgendaItem(c echo.Context) error {
	item, err := h.agendaService.ConfirmAgendaItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleServiceError(c, err, "Failed to confirm agenda item")
	}
	return c.JSON(http.StatusOK, toAgendaItemResponse(*item))
}

// ExecuteAgendaItem godoc
// @Summary Execute an agenda item
// @Description Turn a scheduled application into a service record and drop it from the agenda
// @Tags agenda
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Agenda item ID"
// @Param request body ExecuteAgendaRequest true "Unit price"
// @Success 201 {object} ServiceRecordResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /agenda/{id}/execute [post]
func (h *AgendaHandler) ExecuteAgendaItem(c echo.Context) error {
	var req ExecuteAgendaRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if !req.UnitPrice.IsPositive() {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "unitPrice", Message: "must be greater than zero"},
		})
	}

	record, err := h.agendaService.ExecuteAgendaItem(c.Request().Context(), c.Param("id"), req.UnitPrice)
	if err != nil {
		return handleServiceError(c, err, "Failed to execute agenda item")
	}
	return c.JSON(http.StatusCreated, toServiceRecordResponse(*record))
}

// DeleteAgendaItem godoc
// @Summary Delete an agenda item
// @Description Remove a scheduled application
// @Tags agenda
// @Produce json
// @Security BearerAuth
// @Param id path string true "Agenda item ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /agenda/{id} [delete]
func (h *AgendaHandler) DeleteAgendaItem(c echo.Context) error {
	if err := h.agendaService.DeleteAgendaItem(c.Request().Context(), c.Param("id")); err != nil {
		return handleServiceError(c, err, "Failed to delete agenda item")
	}
	return c.NoContent(http.StatusNoContent)
}
