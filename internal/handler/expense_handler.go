package handler

import (
	"net/http"

	"github.com/droneflow/droneflow-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
	monthService   *service.MonthService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService, monthService *service.MonthService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, monthService: monthService}
}

// CreateExpenseRequest represents the request body for booking an expense
type CreateExpenseRequest struct {
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Description string          `json:"description" validate:"required,max=500"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" validate:"max=100"`
}

// GetExpenses godoc
// @Summary List expenses
// @Description Get the expenses of a month
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Param scope query string false "active or all"
// @Success 200 {array} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /expenses [get]
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
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

	expenses, err := h.expenseService.ListExpenses(c.Request().Context(), key, scope)
	if err != nil {
		return handleServiceError(c, err, "Failed to get expenses")
	}
	return c.JSON(http.StatusOK, toExpenseResponses(expenses))
}

// CreateExpense godoc
// @Summary Book an expense
// @Description Book a cost into an open month
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "Expense"
// @Success 201 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req CreateExpenseRequest
	if detail, errs := bindAndValidate(c, &req); detail != "" {
		return NewValidationError(c, detail, errs)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", nil)
	}

	expense, err := h.expenseService.CreateExpense(c.Request().Context(), service.ExpenseInput{
		Date:        date,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to create expense")
	}
	return c.JSON(http.StatusCreated, toExpenseResponse(*expense))
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Description Delete an expense that is still in the open cycle
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	if err := h.expenseService.DeleteExpense(c.Request().Context(), c.Param("id")); err != nil {
		return handleServiceError(c, err, "Failed to delete expense")
	}
	return c.NoContent(http.StatusNoContent)
}
