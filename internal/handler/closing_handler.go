package handler

import (
	"net/http"

	"github.com/droneflow/droneflow-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// ClosingHandler handles month closing HTTP requests
type ClosingHandler struct {
	monthService *service.MonthService
}

// NewClosingHandler creates a new ClosingHandler
func NewClosingHandler(monthService *service.MonthService) *ClosingHandler {
	return &ClosingHandler{monthService: monthService}
}

// MonthStatusResponse reports whether a month is open or closed
type MonthStatusResponse struct {
	MonthYear string               `json:"monthYear"`
	Year      int                  `json:"year"`
	Month     int                  `json:"month"`
	Label     string               `json:"label"`
	State     string               `json:"state"`
	Archive   *ClosedMonthResponse `json:"archive,omitempty"`
}

// ListClosings godoc
// @Summary List closed months
// @Description Get every archived month, newest first
// @Tags closings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ClosedMonthResponse
// @Failure 500 {object} ProblemDetails
// @Router /closings [get]
func (h *ClosingHandler) ListClosings(c echo.Context) error {
	months, err := h.monthService.List(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "Failed to list closed months")
	}

	response := make([]ClosedMonthResponse, len(months))
	for i, m := range months {
		response[i] = toClosedMonthResponse(m)
	}
	return c.JSON(http.StatusOK, response)
}

// GetStatus godoc
// @Summary Get month status
// @Description Report whether a month is open or closed, with its archive when closed
// @Tags closings
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} MonthStatusResponse
// @Failure 400 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /closings/{year}/{month} [get]
func (h *ClosingHandler) GetStatus(c echo.Context) error {
	key, errs := pathMonthKey(c)
	if errs != nil {
		return NewValidationError(c, "Invalid month key", errs)
	}

	status, err := h.monthService.Status(c.Request().Context(), key)
	if err != nil {
		return handleServiceError(c, err, "Failed to get month status")
	}

	response := MonthStatusResponse{
		MonthYear: key.String(),
		Year:      key.Year,
		Month:     key.Month,
		Label:     key.Label(),
		State:     string(status.State),
	}
	if status.Archive != nil {
		archive := toClosedMonthResponse(*status.Archive)
		response.Archive = &archive
	}
	return c.JSON(http.StatusOK, response)
}

// Preview godoc
// @Summary Preview a month closing
// @Description Compute full-period totals and partner summaries without writing anything
// @Tags closings
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} PeriodResponse
// @Failure 400 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /closings/{year}/{month}/preview [get]
func (h *ClosingHandler) Preview(c echo.Context) error {
	key, errs := pathMonthKey(c)
	if errs != nil {
		return NewValidationError(c, "Invalid month key", errs)
	}

	preview, err := h.monthService.Preview(c.Request().Context(), key)
	if err != nil {
		return handleServiceError(c, err, "Failed to preview closing")
	}
	return c.JSON(http.StatusOK, toPeriodResponse(preview))
}

// CloseMonth godoc
// @Summary Close a month
// @Description Archive the month snapshot and flag its records closed
// @Tags closings
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 201 {object} ClosedMonthResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /closings/{year}/{month} [post]
func (h *ClosingHandler) CloseMonth(c echo.Context) error {
	key, errs := pathMonthKey(c)
	if errs != nil {
		return NewValidationError(c, "Invalid month key", errs)
	}

	archive, err := h.monthService.Close(c.Request().Context(), key)
	if err != nil {
		return handleServiceError(c, err, "Failed to close month")
	}
	return c.JSON(http.StatusCreated, toClosedMonthResponse(*archive))
}

// ReopenMonth godoc
// @Summary Reopen a month
// @Description Delete the month archive and restore its records
// @Tags closings
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 204
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /closings/{year}/{month} [delete]
func (h *ClosingHandler) ReopenMonth(c echo.Context) error {
	key, errs := pathMonthKey(c)
	if errs != nil {
		return NewValidationError(c, "Invalid month key", errs)
	}

	if err := h.monthService.Reopen(c.Request().Context(), key); err != nil {
		return handleServiceError(c, err, "Failed to reopen month")
	}
	return c.NoContent(http.StatusNoContent)
}
