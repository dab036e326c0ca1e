package supabase

import (
	"context"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	serviceRecordsTable = "service_records"
	expensesTable       = "expenses"
	agendaTable         = "agenda_items"
)

// ServiceRecordRepository implements domain.ServiceRecordRepository on PostgREST
type ServiceRecordRepository struct {
	client *Client
}

// NewServiceRecordRepository creates a new ServiceRecordRepository
func NewServiceRecordRepository(client *Client) *ServiceRecordRepository {
	return &ServiceRecordRepository{client: client}
}

type serviceRecordRow struct {
	ID              string          `json:"id"`
	ServiceDate     string          `json:"service_date"`
	ClientID        string          `json:"client_id"`
	ClientName      string          `json:"client_name"`
	AreaID          string          `json:"area_id"`
	AreaName        string          `json:"area_name"`
	Hectares        decimal.Decimal `json:"hectares"`
	ApplicationType string          `json:"application_type"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalValue      decimal.Decimal `json:"total_value"`
	Closed          bool            `json:"closed"`
}

func toServiceRecordRow(rec domain.ServiceRecord) serviceRecordRow {
	return serviceRecordRow{
		ID:              rec.ID,
		ServiceDate:     formatDate(rec.Date),
		ClientID:        rec.ClientID,
		ClientName:      rec.ClientName,
		AreaID:          rec.AreaID,
		AreaName:        rec.AreaName,
		Hectares:        rec.Hectares,
		ApplicationType: string(rec.Type),
		UnitPrice:       rec.UnitPrice,
		TotalValue:      rec.TotalValue,
		Closed:          rec.Closed,
	}
}

func (r serviceRecordRow) toDomain() (domain.ServiceRecord, error) {
	date, err := parseDate(r.ServiceDate)
	if err != nil {
		return domain.ServiceRecord{}, err
	}
	return domain.ServiceRecord{
		ID:         r.ID,
		Date:       date,
		ClientID:   r.ClientID,
		ClientName: r.ClientName,
		AreaID:     r.AreaID,
		AreaName:   r.AreaName,
		Hectares:   r.Hectares,
		Type:       domain.ApplicationType(r.ApplicationType),
		UnitPrice:  r.UnitPrice,
		TotalValue: r.TotalValue,
		Closed:     r.Closed,
	}, nil
}

// ListAll returns every service record in date order
func (r *ServiceRecordRepository) ListAll(ctx context.Context) ([]domain.ServiceRecord, error) {
	var rows []serviceRecordRow
	if err := r.client.selectAll(ctx, serviceRecordsTable, "service_date.asc,id.asc", &rows); err != nil {
		return nil, err
	}
	records := make([]domain.ServiceRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Insert adds a new service record
func (r *ServiceRecordRepository) Insert(ctx context.Context, record domain.ServiceRecord) error {
	return r.client.insert(ctx, serviceRecordsTable, []serviceRecordRow{toServiceRecordRow(record)})
}

// UpsertMany writes all records in one request
func (r *ServiceRecordRepository) UpsertMany(ctx context.Context, records []domain.ServiceRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]serviceRecordRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, toServiceRecordRow(rec))
	}
	return r.client.upsert(ctx, serviceRecordsTable, rows)
}

// DeleteByID removes a service record
func (r *ServiceRecordRepository) DeleteByID(ctx context.Context, id string) error {
	return r.client.deleteEq(ctx, serviceRecordsTable, "id", id)
}

// ExpenseRepository implements domain.ExpenseRepository on PostgREST
type ExpenseRepository struct {
	client *Client
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(client *Client) *ExpenseRepository {
	return &ExpenseRepository{client: client}
}

type expenseRow struct {
	ID          string          `json:"id"`
	ExpenseDate string          `json:"expense_date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Closed      bool            `json:"closed"`
}

func toExpenseRow(e domain.Expense) expenseRow {
	return expenseRow{
		ID:          e.ID,
		ExpenseDate: formatDate(e.Date),
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		Closed:      e.Closed,
	}
}

// ListAll returns every expense in date order
func (r *ExpenseRepository) ListAll(ctx context.Context) ([]domain.Expense, error) {
	var rows []expenseRow
	if err := r.client.selectAll(ctx, expensesTable, "expense_date.asc,id.asc", &rows); err != nil {
		return nil, err
	}
	expenses := make([]domain.Expense, 0, len(rows))
	for _, row := range rows {
		date, err := parseDate(row.ExpenseDate)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, domain.Expense{
			ID:          row.ID,
			Date:        date,
			Description: row.Description,
			Amount:      row.Amount,
			Category:    row.Category,
			Closed:      row.Closed,
		})
	}
	return expenses, nil
}

// Insert adds a new expense
func (r *ExpenseRepository) Insert(ctx context.Context, expense domain.Expense) error {
	return r.client.insert(ctx, expensesTable, []expenseRow{toExpenseRow(expense)})
}

// UpsertMany writes all expenses in one request
func (r *ExpenseRepository) UpsertMany(ctx context.Context, expenses []domain.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	rows := make([]expenseRow, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, toExpenseRow(e))
	}
	return r.client.upsert(ctx, expensesTable, rows)
}

// DeleteByID removes an expense
func (r *ExpenseRepository) DeleteByID(ctx context.Context, id string) error {
	return r.client.deleteEq(ctx, expensesTable, "id", id)
}

// AgendaRepository implements domain.AgendaRepository on PostgREST
type AgendaRepository struct {
	client *Client
}

// NewAgendaRepository creates a new AgendaRepository
func NewAgendaRepository(client *Client) *AgendaRepository {
	return &AgendaRepository{client: client}
}

type agendaRow struct {
	ID              string          `json:"id"`
	ScheduledDate   string          `json:"scheduled_date"`
	ClientID        string          `json:"client_id"`
	ClientName      string          `json:"client_name"`
	AreaID          string          `json:"area_id"`
	AreaName        string          `json:"area_name"`
	Hectares        decimal.Decimal `json:"hectares"`
	ApplicationType string          `json:"application_type"`
	Notes           string          `json:"notes"`
	CreatedBy       string          `json:"created_by"`
	Status          string          `json:"status"`
}

func toAgendaRow(item domain.AgendaItem) agendaRow {
	return agendaRow{
		ID:              item.ID,
		ScheduledDate:   formatDate(item.Date),
		ClientID:        item.ClientID,
		ClientName:      item.ClientName,
		AreaID:          item.AreaID,
		AreaName:        item.AreaName,
		Hectares:        item.Hectares,
		ApplicationType: string(item.Type),
		Notes:           item.Notes,
		CreatedBy:       item.CreatedBy,
		Status:          string(item.Status),
	}
}

// ListAll returns every agenda item in date order
func (r *AgendaRepository) ListAll(ctx context.Context) ([]domain.AgendaItem, error) {
	var rows []agendaRow
	if err := r.client.selectAll(ctx, agendaTable, "scheduled_date.asc,id.asc", &rows); err != nil {
		return nil, err
	}
	items := make([]domain.AgendaItem, 0, len(rows))
	for _, row := range rows {
		date, err := parseDate(row.ScheduledDate)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.AgendaItem{
			ID:         row.ID,
			Date:       date,
			ClientID:   row.ClientID,
			ClientName: row.ClientName,
			AreaID:     row.AreaID,
			AreaName:   row.AreaName,
			Hectares:   row.Hectares,
			Type:       domain.ApplicationType(row.ApplicationType),
			Notes:      row.Notes,
			CreatedBy:  row.CreatedBy,
			Status:     domain.AgendaStatus(row.Status),
		})
	}
	return items, nil
}

// Insert adds a new agenda item
func (r *AgendaRepository) Insert(ctx context.Context, item domain.AgendaItem) error {
	return r.client.insert(ctx, agendaTable, []agendaRow{toAgendaRow(item)})
}

// UpsertMany writes all agenda items in one request
func (r *AgendaRepository) UpsertMany(ctx context.Context, items []domain.AgendaItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]agendaRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, toAgendaRow(item))
	}
	return r.client.upsert(ctx, agendaTable, rows)
}

// DeleteByID removes an agenda item
func (r *AgendaRepository) DeleteByID(ctx context.Context, id string) error {
	return r.client.deleteEq(ctx, agendaTable, "id", id)
}
