package postgres

import (
	"context"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AgendaRepository implements domain.AgendaRepository using PostgreSQL
type AgendaRepository struct {
	pool *pgxpool.Pool
}

// NewAgendaRepository creates a new AgendaRepository
func NewAgendaRepository(pool *pgxpool.Pool) *AgendaRepository {
	return &AgendaRepository{pool: pool}
}

const insertAgendaSQL = `
INSERT INTO agenda_items (id, scheduled_date, client_id, client_name, area_id, area_name,
    hectares, application_type, notes, created_by, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const upsertAgendaSQL = insertAgendaSQL + `
ON CONFLICT (id) DO UPDATE SET
    scheduled_date = EXCLUDED.scheduled_date,
    client_id = EXCLUDED.client_id,
    client_name = EXCLUDED.client_name,
    area_id = EXCLUDED.area_id,
    area_name = EXCLUDED.area_name,
    hectares = EXCLUDED.hectares,
    application_type = EXCLUDED.application_type,
    notes = EXCLUDED.notes,
    created_by = EXCLUDED.created_by,
    status = EXCLUDED.status`

// ListAll returns every agenda item in date order
func (r *AgendaRepository) ListAll(ctx context.Context) ([]domain.AgendaItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, scheduled_date, client_id, client_name, area_id, area_name,
    hectares, application_type, notes, created_by, status
FROM agenda_items
ORDER BY scheduled_date, id`)
	if err != nil {
		return nil, persistenceError("list agenda", err)
	}
	defer rows.Close()

	items := []domain.AgendaItem{}
	for rows.Next() {
		var (
			item            domain.AgendaItem
			date            pgtype.Date
			hectares        pgtype.Numeric
			appType, status string
		)
		if err := rows.Scan(&item.ID, &date, &item.ClientID, &item.ClientName, &item.AreaID, &item.AreaName,
			&hectares, &appType, &item.Notes, &item.CreatedBy, &status); err != nil {
			return nil, persistenceError("scan agenda item", err)
		}
		item.Date = pgDateToTime(date)
		item.Hectares = pgNumericToDecimal(hectares)
		item.Type = domain.ApplicationType(appType)
		item.Status = domain.AgendaStatus(status)
		items = append(items, item)
	}
	return items, persistenceError("list agenda", rows.Err())
}

// Insert adds a new agenda item
func (r *AgendaRepository) Insert(ctx context.Context, item domain.AgendaItem) error {
	_, err := r.pool.Exec(ctx, insertAgendaSQL, agendaArgs(item)...)
	return persistenceError("insert agenda item", err)
}

// UpsertMany writes all agenda items in one transaction
func (r *AgendaRepository) UpsertMany(ctx context.Context, items []domain.AgendaItem) error {
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(upsertAgendaSQL, agendaArgs(item)...)
	}
	return persistenceError("upsert agenda", sendBatch(ctx, r.pool, batch))
}

// DeleteByID removes an agenda item
func (r *AgendaRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM agenda_items WHERE id = $1`, id)
	return persistenceError("delete agenda item", err)
}

func agendaArgs(item domain.AgendaItem) []any {
	return []any{
		item.ID,
		timeToPgDate(item.Date),
		item.ClientID,
		item.ClientName,
		item.AreaID,
		item.AreaName,
		toNumeric(item.Hectares),
		string(item.Type),
		item.Notes,
		item.CreatedBy,
		string(item.Status),
	}
}
