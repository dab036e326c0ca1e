package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes. protected runs in front of every
// /api/v1 route except the health check.
func RegisterRoutes(
	e *echo.Echo,
	protected []echo.MiddlewareFunc,
	clientHandler *ClientHandler,
	serviceRecordHandler *ServiceRecordHandler,
	expenseHandler *ExpenseHandler,
	agendaHandler *AgendaHandler,
	dashboardHandler *DashboardHandler,
	closingHandler *ClosingHandler,
) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// API version 1
	api := e.Group("/api/v1", protected...)

	clients := api.Group("/clients")
	clients.GET("", clientHandler.GetClients)
	clients.GET("/:id", clientHandler.GetClient)
	clients.POST("", clientHandler.CreateClient)
	clients.PUT("/:id", clientHandler.UpdateClient)
	clients.DELETE("/:id", clientHandler.DeleteClient)

	services := api.Group("/services")
	services.GET("", serviceRecordHandler.GetServiceRecords)
	services.POST("", serviceRecordHandler.CreateServiceRecord)
	services.DELETE("/:id", serviceRecordHandler.DeleteServiceRecord)

	expenses := api.Group("/expenses")
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	agenda := api.Group("/agenda")
	agenda.GET("", agendaHandler.GetAgenda)
	agenda.POST("", agendaHandler.CreateAgendaItem)
	agenda.PATCH("/:id/confirm", agendaHandler.ConfirmAgendaItem)
	agenda.POST("/:id/execute", agendaHandler.ExecuteAgendaItem)
	agenda.DELETE("/:id", agendaHandler.DeleteAgendaItem)

	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", dashboardHandler.GetSummary)
	dashboard.GET("/yearly", dashboardHandler.GetYearlyReport)

	api.GET("/partners/balance", dashboardHandler.GetPartnerBalance)

	closings := api.Group("/closings")
	closings.GET("", closingHandler.ListClosings)
	closings.GET("/:year/:month", closingHandler.GetStatus)
	closings.GET("/:year/:month/preview", closingHandler.Preview)
	closings.POST("/:year/:month", closingHandler.CloseMonth)
	closings.DELETE("/:year/:month", closingHandler.ReopenMonth)
}
