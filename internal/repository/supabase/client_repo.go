package supabase

import (
	"context"

	"github.com/droneflow/droneflow-backend/internal/domain"
)

const clientsTable = "clients"

// ClientRepository implements domain.ClientRepository on PostgREST
type ClientRepository struct {
	client *Client
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(client *Client) *ClientRepository {
	return &ClientRepository{client: client}
}

type clientRow struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Contact     string        `json:"contact"`
	Areas       []domain.Area `json:"areas"`
	IsPartner   bool          `json:"is_partner"`
	PartnerSlot *string       `json:"partner_slot"`
}

func toClientRow(c domain.Client) clientRow {
	row := clientRow{
		ID:        c.ID,
		Name:      c.Name,
		Contact:   c.Contact,
		Areas:     c.Areas,
		IsPartner: c.IsPartner,
	}
	if row.Areas == nil {
		row.Areas = []domain.Area{}
	}
	if c.PartnerSlot != "" {
		slot := c.PartnerSlot
		row.PartnerSlot = &slot
	}
	return row
}

func (r clientRow) toDomain() domain.Client {
	c := domain.Client{
		ID:        r.ID,
		Name:      r.Name,
		Contact:   r.Contact,
		Areas:     r.Areas,
		IsPartner: r.IsPartner,
	}
	if c.Areas == nil {
		c.Areas = []domain.Area{}
	}
	if r.PartnerSlot != nil {
		c.PartnerSlot = *r.PartnerSlot
	}
	return c
}

// ListAll returns every client in registration order
func (r *ClientRepository) ListAll(ctx context.Context) ([]domain.Client, error) {
	var rows []clientRow
	if err := r.client.selectAll(ctx, clientsTable, "created_at.asc,id.asc", &rows); err != nil {
		return nil, err
	}
	clients := make([]domain.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, row.toDomain())
	}
	return clients, nil
}

// Insert adds a new client
func (r *ClientRepository) Insert(ctx context.Context, client domain.Client) error {
	return r.client.insert(ctx, clientsTable, []clientRow{toClientRow(client)})
}

// UpsertMany writes all clients in one request
func (r *ClientRepository) UpsertMany(ctx context.Context, clients []domain.Client) error {
	if len(clients) == 0 {
		return nil
	}
	rows := make([]clientRow, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, toClientRow(c))
	}
	return r.client.upsert(ctx, clientsTable, rows)
}

// DeleteByID removes a client
func (r *ClientRepository) DeleteByID(ctx context.Context, id string) error {
	return r.client.deleteEq(ctx, clientsTable, "id", id)
}
