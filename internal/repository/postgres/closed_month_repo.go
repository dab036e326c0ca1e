package postgres

import (
	"context"
	"errors"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClosedMonthRepository implements domain.ClosedMonthRepository using PostgreSQL.
// Record snapshots and partner summaries are stored as JSONB.
type ClosedMonthRepository struct {
	pool *pgxpool.Pool
}

// NewClosedMonthRepository creates a new ClosedMonthRepository
func NewClosedMonthRepository(pool *pgxpool.Pool) *ClosedMonthRepository {
	return &ClosedMonthRepository{pool: pool}
}

const selectClosedMonthSQL = `
SELECT id, year, month, label, total_revenue, total_expenses, net_profit, hectares,
    services, expenses, partner_summaries, closed_at
FROM closed_months`

// ListAll returns every archive
func (r *ClosedMonthRepository) ListAll(ctx context.Context) ([]domain.ClosedMonth, error) {
	rows, err := r.pool.Query(ctx, selectClosedMonthSQL+` ORDER BY year DESC, month DESC`)
	if err != nil {
		return nil, persistenceError("list closed months", err)
	}
	defer rows.Close()

	months := []domain.ClosedMonth{}
	for rows.Next() {
		m, err := scanClosedMonth(rows)
		if err != nil {
			return nil, persistenceError("scan closed month", err)
		}
		months = append(months, m)
	}
	return months, persistenceError("list closed months", rows.Err())
}

// GetByKey returns the archive of a month or domain.ErrNotFound
func (r *ClosedMonthRepository) GetByKey(ctx context.Context, key domain.MonthKey) (*domain.ClosedMonth, error) {
	row := r.pool.QueryRow(ctx, selectClosedMonthSQL+` WHERE month_year = $1`, key.String())
	m, err := scanClosedMonth(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, persistenceError("get closed month", err)
	}
	return &m, nil
}

// Insert stores an archive. The unique month_year constraint turns a
// concurrent second close into domain.ErrMonthAlreadyClosed.
func (r *ClosedMonthRepository) Insert(ctx context.Context, month domain.ClosedMonth) error {
	services, expenses, summaries := month.Services, month.Expenses, month.PartnerSummaries
	if services == nil {
		services = []domain.ServiceRecord{}
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	if summaries == nil {
		summaries = []domain.PartnerSummary{}
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO closed_months (id, month_year, year, month, label, total_revenue, total_expenses,
    net_profit, hectares, services, expenses, partner_summaries, closed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		month.ID,
		month.Key.String(),
		month.Key.Year,
		month.Key.Month,
		month.Label,
		toNumeric(month.TotalRevenue),
		toNumeric(month.TotalExpenses),
		toNumeric(month.NetProfit),
		toNumeric(month.Hectares),
		services,
		expenses,
		summaries,
		pgtype.Timestamptz{Time: month.ClosedAt, Valid: true},
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrMonthAlreadyClosed
		}
		return persistenceError("insert closed month", err)
	}
	return nil
}

// DeleteByKey removes the archive of a month
func (r *ClosedMonthRepository) DeleteByKey(ctx context.Context, key domain.MonthKey) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM closed_months WHERE month_year = $1`, key.String())
	return persistenceError("delete closed month", err)
}

func scanClosedMonth(row pgx.Row) (domain.ClosedMonth, error) {
	var (
		m                             domain.ClosedMonth
		revenue, costs, net, hectares pgtype.Numeric
		closedAt                      pgtype.Timestamptz
	)
	err := row.Scan(&m.ID, &m.Key.Year, &m.Key.Month, &m.Label, &revenue, &costs, &net, &hectares,
		&m.Services, &m.Expenses, &m.PartnerSummaries, &closedAt)
	if err != nil {
		return domain.ClosedMonth{}, err
	}
	m.TotalRevenue = pgNumericToDecimal(revenue)
	m.TotalExpenses = pgNumericToDecimal(costs)
	m.NetProfit = pgNumericToDecimal(net)
	m.Hectares = pgNumericToDecimal(hectares)
	m.ClosedAt = closedAt.Time.UTC()
	return m, nil
}
