package handler

import (
	"net/http"
	"strconv"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/droneflow/droneflow-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// DashboardHandler handles dashboard and partner balance HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	monthService     *service.MonthService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService, monthService *service.MonthService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, monthService: monthService}
}

// DashboardSummaryResponse represents the dashboard summary in API responses
type DashboardSummaryResponse struct {
	MonthYear     string `json:"monthYear"`
	Label         string `json:"label"`
	HectaresMonth string `json:"hectaresMonth"`
	HectaresYear  string `json:"hectaresYear"`
	BalanceMonth  string `json:"balanceMonth"`
	BalanceYear   string `json:"balanceYear"`
	OpenServices  int    `json:"openServices"`
	OpenExpenses  int    `json:"openExpenses"`
}

// YearlyReportRowResponse represents one month of the yearly report
type YearlyReportRowResponse struct {
	MonthYear string `json:"monthYear"`
	Label     string `json:"label"`
	Revenue   string `json:"revenue"`
	Costs     string `json:"costs"`
	Balance   string `json:"balance"`
	Closed    bool   `json:"closed"`
}

// GetSummary handles GET /api/v1/dashboard/summary?year=&month=
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	key, errs := queryMonthKey(c, h.monthService.DefaultKey())
	if errs != nil {
		return NewValidationError(c, "Invalid month key", errs)
	}

	stats, err := h.dashboardService.GetSummaryForMonth(c.Request().Context(), key)
	if err != nil {
		return handleServiceError(c, err, "Failed to get dashboard summary")
	}

	return c.JSON(http.StatusOK, DashboardSummaryResponse{
		MonthYear:     stats.Key.String(),
		Label:         stats.Key.Label(),
		HectaresMonth: stats.HectaresMonth.StringFixed(2),
		HectaresYear:  stats.HectaresYear.StringFixed(2),
		BalanceMonth:  stats.BalanceMonth.StringFixed(2),
		BalanceYear:   stats.BalanceYear.StringFixed(2),
		OpenServices:  stats.OpenServices,
		OpenExpenses:  stats.OpenExpenses,
	})
}

// GetYearlyReport handles GET /api/v1/dashboard/yearly?year=
func (h *DashboardHandler) GetYearlyReport(c echo.Context) error {
	year := h.monthService.DefaultKey().Year
	if raw := c.QueryParam("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < domain.MinYear || parsed > domain.MaxYear {
			return NewValidationError(c, "Invalid year", []ValidationError{
				{Field: "year", Message: "Year must be between 2000 and 2100"},
			})
		}
		year = parsed
	}

	rows, err := h.dashboardService.GetYearlyReport(c.Request().Context(), year)
	if err != nil {
		return handleServiceError(c, err, "Failed to get yearly report")
	}

	response := make([]YearlyReportRowResponse, len(rows))
	for i, row := range rows {
		response[i] = YearlyReportRowResponse{
			MonthYear: row.Key.String(),
			Label:     row.Label,
			Revenue:   row.Revenue.StringFixed(2),
			Costs:     row.Costs.StringFixed(2),
			Balance:   row.Balance.StringFixed(2),
			Closed:    row.Closed,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetPartnerBalance handles GET /api/v1/partners/balance?year=&month=
func (h *DashboardHandler) GetPartnerBalance(c echo.Context) error {
	key, errs := queryMonthKey(c, h.monthService.DefaultKey())
	if errs != nil {
		return NewValidationError(c, "Invalid month key", errs)
	}

	balance, err := h.dashboardService.GetPartnerBalance(c.Request().Context(), key)
	if err != nil {
		return handleServiceError(c, err, "Failed to get partner balance")
	}
	return c.JSON(http.StatusOK, toPeriodResponse(balance))
}
