package handler

import (
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/droneflow/droneflow-backend/internal/service"
)

// AreaResponse represents a client area in API responses
type AreaResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Hectares string `json:"hectares"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Contact     string         `json:"contact"`
	Areas       []AreaResponse `json:"areas"`
	IsPartner   bool           `json:"isPartner"`
	PartnerSlot string         `json:"partnerSlot,omitempty"`
}

// ServiceRecordResponse represents a service record in API responses
type ServiceRecordResponse struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
	AreaID     string `json:"areaId"`
	AreaName   string `json:"areaName"`
	Hectares   string `json:"hectares"`
	Type       string `json:"type"`
	UnitPrice  string `json:"unitPrice"`
	TotalValue string `json:"totalValue"`
	Closed     bool   `json:"closed"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Closed      bool   `json:"closed"`
}

// AgendaItemResponse represents a scheduled application in API responses
type AgendaItemResponse struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
	AreaID     string `json:"areaId"`
	AreaName   string `json:"areaName"`
	Hectares   string `json:"hectares"`
	Type       string `json:"type"`
	Notes      string `json:"notes,omitempty"`
	CreatedBy  string `json:"createdBy"`
	Status     string `json:"status"`
}

// PartnerSummaryResponse represents one partner's share in API responses
type PartnerSummaryResponse struct {
	SlotID        string  `json:"slotId"`
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	GrossProfit   string  `json:"grossProfit"`
	Deductions    string  `json:"deductions"`
	NetProfit     string  `json:"netProfit"`
	Salary        *string `json:"salary,omitempty"`
	TotalTakeHome string  `json:"totalTakeHome"`
	OwesCapital   bool    `json:"owesCapital"`
}

// ClosedMonthResponse represents an archive in API responses
type ClosedMonthResponse struct {
	ID               string                   `json:"id"`
	MonthYear        string                   `json:"monthYear"`
	Year             int                      `json:"year"`
	Month            int                      `json:"month"`
	Label            string                   `json:"label"`
	TotalRevenue     string                   `json:"totalRevenue"`
	TotalExpenses    string                   `json:"totalExpenses"`
	NetProfit        string                   `json:"netProfit"`
	Hectares         string                   `json:"hectares"`
	Services         []ServiceRecordResponse  `json:"services"`
	Expenses         []ExpenseResponse        `json:"expenses"`
	PartnerSummaries []PartnerSummaryResponse `json:"partnerSummaries"`
	ClosedAt         string                   `json:"closedAt"`
}

// PeriodResponse represents a computed (not archived) month view
type PeriodResponse struct {
	MonthYear        string                   `json:"monthYear"`
	Label            string                   `json:"label"`
	Scope            string                   `json:"scope"`
	TotalRevenue     string                   `json:"totalRevenue"`
	VariableExpenses string                   `json:"variableExpenses"`
	FixedSalary      string                   `json:"fixedSalary"`
	TotalExpenses    string                   `json:"totalExpenses"`
	NetProfit        string                   `json:"netProfit"`
	Hectares         string                   `json:"hectares"`
	Services         []ServiceRecordResponse  `json:"services"`
	Expenses         []ExpenseResponse        `json:"expenses"`
	PartnerSummaries []PartnerSummaryResponse `json:"partnerSummaries"`
}

func toClientResponse(c domain.Client) ClientResponse {
	areas := make([]AreaResponse, len(c.Areas))
	for i, a := range c.Areas {
		areas[i] = AreaResponse{ID: a.ID, Name: a.Name, Hectares: a.Hectares.StringFixed(2)}
	}
	return ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		Contact:     c.Contact,
		Areas:       areas,
		IsPartner:   c.IsPartner,
		PartnerSlot: c.PartnerSlot,
	}
}

func toServiceRecordResponse(r domain.ServiceRecord) ServiceRecordResponse {
	return ServiceRecordResponse{
		ID:         r.ID,
		Date:       r.Date.Format(dateLayout),
		ClientID:   r.ClientID,
		ClientName: r.ClientName,
		AreaID:     r.AreaID,
		AreaName:   r.AreaName,
		Hectares:   r.Hectares.StringFixed(2),
		Type:       string(r.Type),
		UnitPrice:  r.UnitPrice.StringFixed(2),
		TotalValue: r.TotalValue.StringFixed(2),
		Closed:     r.Closed,
	}
}

func toServiceRecordResponses(records []domain.ServiceRecord) []ServiceRecordResponse {
	response := make([]ServiceRecordResponse, len(records))
	for i, r := range records {
		response[i] = toServiceRecordResponse(r)
	}
	return response
}

func toExpenseResponse(e domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Date:        e.Date.Format(dateLayout),
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		Category:    e.Category,
		Closed:      e.Closed,
	}
}

func toExpenseResponses(expenses []domain.Expense) []ExpenseResponse {
	response := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		response[i] = toExpenseResponse(e)
	}
	return response
}

func toAgendaItemResponse(item domain.AgendaItem) AgendaItemResponse {
	return AgendaItemResponse{
		ID:         item.ID,
		Date:       item.Date.Format(dateLayout),
		ClientID:   item.ClientID,
		ClientName: item.ClientName,
		AreaID:     item.AreaID,
		AreaName:   item.AreaName,
		Hectares:   item.Hectares.StringFixed(2),
		Type:       string(item.Type),
		Notes:      item.Notes,
		CreatedBy:  item.CreatedBy,
		Status:     string(item.Status),
	}
}

func toPartnerSummaryResponses(summaries []domain.PartnerSummary) []PartnerSummaryResponse {
	response := make([]PartnerSummaryResponse, len(summaries))
	for i, s := range summaries {
		r := PartnerSummaryResponse{
			SlotID:        s.SlotID,
			Name:          s.Name,
			Role:          string(s.Role),
			GrossProfit:   s.GrossProfit.StringFixed(2),
			Deductions:    s.Deductions.StringFixed(2),
			NetProfit:     s.NetProfit.StringFixed(2),
			TotalTakeHome: s.TotalTakeHome().StringFixed(2),
			OwesCapital:   s.OwesCapital(),
		}
		if s.Salary != nil {
			salary := s.Salary.StringFixed(2)
			r.Salary = &salary
		}
		response[i] = r
	}
	return response
}

func toClosedMonthResponse(m domain.ClosedMonth) ClosedMonthResponse {
	return ClosedMonthResponse{
		ID:               m.ID,
		MonthYear:        m.Key.String(),
		Year:             m.Key.Year,
		Month:            m.Key.Month,
		Label:            m.Label,
		TotalRevenue:     m.TotalRevenue.StringFixed(2),
		TotalExpenses:    m.TotalExpenses.StringFixed(2),
		NetProfit:        m.NetProfit.StringFixed(2),
		Hectares:         m.Hectares.StringFixed(2),
		Services:         toServiceRecordResponses(m.Services),
		Expenses:         toExpenseResponses(m.Expenses),
		PartnerSummaries: toPartnerSummaryResponses(m.PartnerSummaries),
		ClosedAt:         m.ClosedAt.Format(time.RFC3339),
	}
}

func toPeriodResponse(p *service.MonthPreview) PeriodResponse {
	t := p.Totals
	return PeriodResponse{
		MonthYear:        t.Key.String(),
		Label:            t.Key.Label(),
		Scope:            string(t.Scope),
		TotalRevenue:     t.TotalRevenue.StringFixed(2),
		VariableExpenses: t.VariableExpenses.StringFixed(2),
		FixedSalary:      t.FixedSalary.StringFixed(2),
		TotalExpenses:    t.TotalExpenses.StringFixed(2),
		NetProfit:        t.NetProfit.StringFixed(2),
		Hectares:         t.TotalHectares.StringFixed(2),
		Services:         toServiceRecordResponses(t.PeriodServices),
		Expenses:         toExpenseResponses(t.PeriodExpenses),
		PartnerSummaries: toPartnerSummaryResponses(p.Summaries),
	}
}
