package postgres

import (
	"context"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ServiceRecordRepository implements domain.ServiceRecordRepository using PostgreSQL
type ServiceRecordRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRecordRepository creates a new ServiceRecordRepository
func NewServiceRecordRepository(pool *pgxpool.Pool) *ServiceRecordRepository {
	return &ServiceRecordRepository{pool: pool}
}

const insertServiceRecordSQL = `
INSERT INTO service_records (id, service_date, client_id, client_name, area_id, area_name,
    hectares, application_type, unit_price, total_value, closed)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const upsertServiceRecordSQL = insertServiceRecordSQL + `
ON CONFLICT (id) DO UPDATE SET
    service_date = EXCLUDED.service_date,
    client_id = EXCLUDED.client_id,
    client_name = EXCLUDED.client_name,
    area_id = EXCLUDED.area_id,
    area_name = EXCLUDED.area_name,
    hectares = EXCLUDED.hectares,
    application_type = EXCLUDED.application_type,
    unit_price = EXCLUDED.unit_price,
    total_value = EXCLUDED.total_value,
    closed = EXCLUDED.closed`

// ListAll returns every service record in date order
func (r *ServiceRecordRepository) ListAll(ctx context.Context) ([]domain.ServiceRecord, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, service_date, client_id, client_name, area_id, area_name,
    hectares, application_type, unit_price, total_value, closed
FROM service_records
ORDER BY service_date, id`)
	if err != nil {
		return nil, persistenceError("list service records", err)
	}
	defer rows.Close()

	records := []domain.ServiceRecord{}
	for rows.Next() {
		var (
			rec                    domain.ServiceRecord
			date                   pgtype.Date
			hectares, price, total pgtype.Numeric
			appType                string
		)
		if err := rows.Scan(&rec.ID, &date, &rec.ClientID, &rec.ClientName, &rec.AreaID, &rec.AreaName,
			&hectares, &appType, &price, &total, &rec.Closed); err != nil {
			return nil, persistenceError("scan service record", err)
		}
		rec.Date = pgDateToTime(date)
		rec.Hectares = pgNumericToDecimal(hectares)
		rec.Type = domain.ApplicationType(appType)
		rec.UnitPrice = pgNumericToDecimal(price)
		rec.TotalValue = pgNumericToDecimal(total)
		records = append(records, rec)
	}
	return records, persistenceError("list service records", rows.Err())
}

// Insert adds a new service record
func (r *ServiceRecordRepository) Insert(ctx context.Context, record domain.ServiceRecord) error {
	_, err := r.pool.Exec(ctx, insertServiceRecordSQL, serviceRecordArgs(record)...)
	return persistenceError("insert service record", err)
}

// UpsertMany writes all records in one transaction
func (r *ServiceRecordRepository) UpsertMany(ctx context.Context, records []domain.ServiceRecord) error {
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(upsertServiceRecordSQL, serviceRecordArgs(rec)...)
	}
	return persistenceError("upsert service records", sendBatch(ctx, r.pool, batch))
}

// DeleteByID removes a service record
func (r *ServiceRecordRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM service_records WHERE id = $1`, id)
	return persistenceError("delete service record", err)
}

func serviceRecordArgs(rec domain.ServiceRecord) []any {
	return []any{
		rec.ID,
		timeToPgDate(rec.Date),
		rec.ClientID,
		rec.ClientName,
		rec.AreaID,
		rec.AreaName,
		toNumeric(rec.Hectares),
		string(rec.Type),
		toNumeric(rec.UnitPrice),
		toNumeric(rec.TotalValue),
		rec.Closed,
	}
}
