package handler

import (
	"net/http"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/droneflow/droneflow-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ServiceRecordHandler handles service record HTTP requests
type ServiceRecordHandler struct {
	recordService *service.ServiceRecordService
	monthService  *service.MonthService
}

// NewServiceRecordHandler creates a new ServiceRecordHandler
func NewServiceRecordHandler(recordService *service.ServiceRecordService, monthService *service.MonthService) *ServiceRecordHandler {
	return &ServiceRecordHandler{recordService: recordService, monthService: monthService}
}

// CreateServiceRecordRequest represents the request body for registering an application
type CreateServiceRecordRequest struct {
	Date      string          `json:"date" validate:"required,datetime=2006-01-02"`
	ClientID  string          `json:"clientId" validate:"required"`
	AreaID    string          `json:"areaId" validate:"required"`
	Hectares  decimal.Decimal `json:"hectares"`
	Type      string          `json:"type" validate:"required,oneof=spraying solid_dispersion"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// GetServiceRecords godoc
// @Summary List service records
// @Description Get the applications of a month; scope active skips closed records
// @Tags services
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Param scope query string false "active or all"
// @Success 200 {array} ServiceRecordResponse
// @Failure 400 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /services [get]
func (h *ServiceRecordHandler) GetServiceRecords(c echo.Context) error {
	key, errs := queryMonthKey(c, h.monthService.DefaultKey())
	if errs != nil {
		return NewValidationError(c, "Invalid month key", errs)
	}
	scope, ok := service.ParseAggregationScope(c.QueryParam("scope"))
	if !ok {
		return NewValidationError(c, "Invalid scope", []ValidationError{
			{Field: "scope", Message: "Scope must be 'active' or 'all'"},
		})
	}

	records, err := h.recordService.ListServiceRecords(c.Request().Context(), key, scope)
	if err != nil {
		return handleServiceError(c, err, "Failed to get service records")
	}
	return c.JSON(http.StatusOK, toServiceRecordResponses(records))
}

// CreateServiceRecord godoc
// @Summary Register an application
// @Description Register a drone application; the total is hectares x unit price
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateServiceRecordRequest true "Service record"
// @Success 201 {object} ServiceRecordResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /services [post]
func (h *ServiceRecordHandler) CreateServiceRecord(c echo.Context) error {
	var req CreateServiceRecordRequest
	if detail, errs := bindAndValidate(c, &req); detail != "" {
		return NewValidationError(c, detail, errs)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", nil)
	}

	record, err := h.recordService.CreateServiceRecord(c.Request().Context(), service.ServiceRecordInput{
		Date:      date,
		ClientID:  req.ClientID,
		AreaID:    req.AreaID,
		Hectares:  req.Hectares,
		Type:      domain.ApplicationType(req.Type),
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to create service record")
	}
	return c.JSON(http.StatusCreated, toServiceRecordResponse(*record))
}

// DeleteServiceRecord godoc
// @Summary Delete a service record
// @Description Delete an application that is still in the open cycle
// @Tags services
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service record ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /services/{id} [delete]
func (h *ServiceRecordHandler) DeleteServiceRecord(c echo.Context) error {
	if err := h.recordService.DeleteServiceRecord(c.Request().Context(), c.Param("id")); err != nil {
		return handleServiceError(c, err, "Failed to delete service record")
	}
	return c.NoContent(http.StatusNoContent)
}
