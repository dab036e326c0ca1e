package postgres

import (
	"context"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientRepository implements domain.ClientRepository using PostgreSQL
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

const upsertClientSQL = `
INSERT INTO clients (id, name, contact, areas, is_partner, partner_slot)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    contact = EXCLUDED.contact,
    areas = EXCLUDED.areas,
    is_partner = EXCLUDED.is_partner,
    partner_slot = EXCLUDED.partner_slot`

// ListAll returns every client in registration order
func (r *ClientRepository) ListAll(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, name, contact, areas, is_partner, partner_slot
FROM clients
ORDER BY created_at, id`)
	if err != nil {
		return nil, persistenceError("list clients", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		var (
			c    domain.Client
			slot pgtype.Text
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Contact, &c.Areas, &c.IsPartner, &slot); err != nil {
			return nil, persistenceError("scan client", err)
		}
		if slot.Valid {
			c.PartnerSlot = slot.String
		}
		if c.Areas == nil {
			c.Areas = []domain.Area{}
		}
		clients = append(clients, c)
	}
	return clients, persistenceError("list clients", rows.Err())
}

// Insert adds a new client
func (r *ClientRepository) Insert(ctx context.Context, client domain.Client) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO clients (id, name, contact, areas, is_partner, partner_slot)
VALUES ($1, $2, $3, $4, $5, $6)`, clientArgs(client)...)
	return persistenceError("insert client", err)
}

// UpsertMany writes all clients in one transaction
func (r *ClientRepository) UpsertMany(ctx context.Context, clients []domain.Client) error {
	batch := &pgx.Batch{}
	for _, c := range clients {
		batch.Queue(upsertClientSQL, clientArgs(c)...)
	}
	return persistenceError("upsert clients", sendBatch(ctx, r.pool, batch))
}

// DeleteByID removes a client
func (r *ClientRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return persistenceError("delete client", err)
}

func clientArgs(c domain.Client) []any {
	areas := c.Areas
	if areas == nil {
		areas = []domain.Area{}
	}
	slot := pgtype.Text{String: c.PartnerSlot, Valid: c.PartnerSlot != ""}
	return []any{c.ID, c.Name, c.Contact, areas, c.IsPartner, slot}
}
