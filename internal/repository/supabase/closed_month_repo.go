package supabase

import (
	"context"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const closedMonthsTable = "closed_months"

// ClosedMonthRepository implements domain.ClosedMonthRepository on PostgREST
type ClosedMonthRepository struct {
	client *Client
}

// NewClosedMonthRepository creates a new ClosedMonthRepository
func NewClosedMonthRepository(client *Client) *ClosedMonthRepository {
	return &ClosedMonthRepository{client: client}
}

type closedMonthRow struct {
	ID               string                  `json:"id"`
	MonthYear        string                  `json:"month_year"`
	Year             int                     `json:"year"`
	Month            int                     `json:"month"`
	Label            string                  `json:"label"`
	TotalRevenue     decimal.Decimal         `json:"total_revenue"`
	TotalExpenses    decimal.Decimal         `json:"total_expenses"`
	NetProfit        decimal.Decimal         `json:"net_profit"`
	Hectares         decimal.Decimal         `json:"hectares"`
	Services         []domain.ServiceRecord  `json:"services"`
	Expenses         []domain.Expense        `json:"expenses"`
	PartnerSummaries []domain.PartnerSummary `json:"partner_summaries"`
	ClosedAt         time.Time               `json:"closed_at"`
}

func toClosedMonthRow(m domain.ClosedMonth) closedMonthRow {
	row := closedMonthRow{
		ID:               m.ID,
		MonthYear:        m.Key.String(),
		Year:             m.Key.Year,
		Month:            m.Key.Month,
		Label:            m.Label,
		TotalRevenue:     m.TotalRevenue,
		TotalExpenses:    m.TotalExpenses,
		NetProfit:        m.NetProfit,
		Hectares:         m.Hectares,
		Services:         m.Services,
		Expenses:         m.Expenses,
		PartnerSummaries: m.PartnerSummaries,
		ClosedAt:         m.ClosedAt,
	}
	if row.Services == nil {
		row.Services = []domain.ServiceRecord{}
	}
	if row.Expenses == nil {
		row.Expenses = []domain.Expense{}
	}
	if row.PartnerSummaries == nil {
		row.PartnerSummaries = []domain.PartnerSummary{}
	}
	return row
}

// toDomain keys the archive by month_year, the unique column; year and
// month are only used when month_year cannot be parsed.
func (r closedMonthRow) toDomain() domain.ClosedMonth {
	key := domain.MonthKey{Year: r.Year, Month: r.Month}
	if parsed, err := domain.ParseMonthKey(r.MonthYear); err == nil {
		key = parsed
	}
	return domain.ClosedMonth{
		ID:               r.ID,
		Key:              key,
		Label:            r.Label,
		TotalRevenue:     r.TotalRevenue,
		TotalExpenses:    r.TotalExpenses,
		NetProfit:        r.NetProfit,
		Hectares:         r.Hectares,
		Services:         r.Services,
		Expenses:         r.Expenses,
		PartnerSummaries: r.PartnerSummaries,
		ClosedAt:         r.ClosedAt.UTC(),
	}
}

// ListAll returns every archive
func (r *ClosedMonthRepository) ListAll(ctx context.Context) ([]domain.ClosedMonth, error) {
	var rows []closedMonthRow
	if err := r.client.selectAll(ctx, closedMonthsTable, "year.desc,month.desc", &rows); err != nil {
		return nil, err
	}
	months := make([]domain.ClosedMonth, 0, len(rows))
	for _, row := range rows {
		months = append(months, row.toDomain())
	}
	return months, nil
}

// GetByKey returns the archive of a month or domain.ErrNotFound
func (r *ClosedMonthRepository) GetByKey(ctx context.Context, key domain.MonthKey) (*domain.ClosedMonth, error) {
	var rows []closedMonthRow
	if err := r.client.selectEq(ctx, closedMonthsTable, "month_year", key.String(), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	m := rows[0].toDomain()
	return &m, nil
}

// Insert stores an archive. A 409 from the unique month_year key means the
// month was closed concurrently.
func (r *ClosedMonthRepository) Insert(ctx context.Context, month domain.ClosedMonth) error {
	err := r.client.insert(ctx, closedMonthsTable, []closedMonthRow{toClosedMonthRow(month)})
	if isConflict(err) {
		return domain.ErrMonthAlreadyClosed
	}
	return err
}

// DeleteByKey removes the archive of a month
func (r *ClosedMonthRepository) DeleteByKey(ctx context.Context, key domain.MonthKey) error {
	return r.client.deleteEq(ctx, closedMonthsTable, "month_year", key.String())
}
