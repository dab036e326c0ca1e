package postgres

import (
	"context"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const insertExpenseSQL = `
INSERT INTO expenses (id, expense_date, description, amount, category, closed)
VALUES ($1, $2, $3, $4, $5, $6)`

const upsertExpenseSQL = insertExpenseSQL + `
ON CONFLICT (id) DO UPDATE SET
    expense_date = EXCLUDED.expense_date,
    description = EXCLUDED.description,
    amount = EXCLUDED.amount,
    category = EXCLUDED.category,
    closed = EXCLUDED.closed`

// ListAll returns every expense in date order
func (r *ExpenseRepository) ListAll(ctx context.Context) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, expense_date, description, amount, category, closed
FROM expenses
ORDER BY expense_date, id`)
	if err != nil {
		return nil, persistenceError("list expenses", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var (
			e      domain.Expense
			date   pgtype.Date
			amount pgtype.Numeric
		)
		if err := rows.Scan(&e.ID, &date, &e.Description, &amount, &e.Category, &e.Closed); err != nil {
			return nil, persistenceError("scan expense", err)
		}
		e.Date = pgDateToTime(date)
		e.Amount = pgNumericToDecimal(amount)
		expenses = append(expenses, e)
	}
	return expenses, persistenceError("list expenses", rows.Err())
}

// Insert adds a new expense
func (r *ExpenseRepository) Insert(ctx context.Context, expense domain.Expense) error {
	_, err := r.pool.Exec(ctx, insertExpenseSQL, expenseArgs(expense)...)
	return persistenceError("insert expense", err)
}

// UpsertMany writes all expenses in one transaction
func (r *ExpenseRepository) UpsertMany(ctx context.Context, expenses []domain.Expense) error {
	batch := &pgx.Batch{}
	for _, e := range expenses {
		batch.Queue(upsertExpenseSQL, expenseArgs(e)...)
	}
	return persistenceError("upsert expenses", sendBatch(ctx, r.pool, batch))
}

// DeleteByID removes an expense
func (r *ExpenseRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	return persistenceError("delete expense", err)
}

func expenseArgs(e domain.Expense) []any {
	return []any{e.ID, timeToPgDate(e.Date), e.Description, toNumeric(e.Amount), e.Category, e.Closed}
}
