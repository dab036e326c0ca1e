package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool connects to DRONEFLOW_TEST_DATABASE_URL and applies the schema.
// Tables are truncated so every test starts from an empty ledger.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DRONEFLOW_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("DRONEFLOW_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, EnsureSchema(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE clients, service_records, expenses, agenda_items, closed_months`)
	require.NoError(t, err)
	return pool
}

func TestClientRepository_Integration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewClientRepository(pool)

	client := domain.Client{
		ID:   uuid.NewString(),
		Name: "Fazenda Boa Vista",
		Areas: []domain.Area{
			{ID: "a1", Name: "Talhão Norte", Hectares: decimal.RequireFromString("42.5")},
		},
	}
	require.NoError(t, repo.Insert(ctx, client))

	client.IsPartner = true
	client.PartnerSlot = "kaka"
	require.NoError(t, repo.UpsertMany(ctx, []domain.Client{client}))

	clients, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "kaka", clients[0].PartnerSlot)
	require.Len(t, clients[0].Areas, 1)
	assert.True(t, clients[0].Areas[0].Hectares.Equal(decimal.RequireFromString("42.5")))

	require.NoError(t, repo.DeleteByID(ctx, client.ID))
	clients, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestServiceRecordRepository_Integration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewServiceRecordRepository(pool)

	rec := domain.ServiceRecord{
		ID:         uuid.NewString(),
		Date:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		ClientID:   "c1",
		ClientName: "Fazenda Boa Vista",
		AreaID:     "a1",
		AreaName:   "Talhão Norte",
		Hectares:   decimal.RequireFromString("12.75"),
		Type:       domain.ApplicationSolidDispersion,
		UnitPrice:  decimal.NewFromInt(120),
		TotalValue: decimal.NewFromInt(1530),
	}
	require.NoError(t, repo.Insert(ctx, rec))

	rec.Closed = true
	require.NoError(t, repo.UpsertMany(ctx, []domain.ServiceRecord{rec}))

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	got := records[0]
	assert.True(t, got.Closed)
	assert.Equal(t, rec.Date, got.Date)
	assert.Equal(t, domain.ApplicationSolidDispersion, got.Type)
	assert.True(t, got.Hectares.Equal(rec.Hectares))
	assert.True(t, got.TotalValue.Equal(rec.TotalValue))
}

func TestExpenseAndAgendaRepository_Integration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	expenses := NewExpenseRepository(pool)
	agenda := NewAgendaRepository(pool)

	exp := domain.Expense{
		ID:          uuid.NewString(),
		Date:        time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Description: "Combustível",
		Amount:      decimal.RequireFromString("350.40"),
		Category:    "geral",
	}
	require.NoError(t, expenses.Insert(ctx, exp))
	list, err := expenses.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Amount.Equal(exp.Amount))

	item := domain.AgendaItem{
		ID:       uuid.NewString(),
		Date:     time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		ClientID: "c1",
		AreaID:   "a1",
		Hectares: decimal.NewFromInt(30),
		Type:     domain.ApplicationSpraying,
		Status:   domain.AgendaStatusPending,
	}
	require.NoError(t, agenda.Insert(ctx, item))
	item.Status = domain.AgendaStatusConfirmed
	require.NoError(t, agenda.UpsertMany(ctx, []domain.AgendaItem{item}))

	items, err := agenda.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.AgendaStatusConfirmed, items[0].Status)

	require.NoError(t, agenda.DeleteByID(ctx, item.ID))
	require.NoError(t, expenses.DeleteByID(ctx, exp.ID))
}

func TestClosedMonthRepository_Integration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewClosedMonthRepository(pool)
	key := domain.MonthKey{Year: 2024, Month: 3}

	_, err := repo.GetByKey(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	archive := domain.ClosedMonth{
		ID:            uuid.NewString(),
		Key:           key,
		Label:         key.Label(),
		TotalRevenue:  decimal.NewFromInt(10000),
		TotalExpenses: decimal.NewFromInt(2000),
		NetProfit:     decimal.NewFromInt(3000),
		Hectares:      decimal.NewFromInt(100),
		PartnerSummaries: []domain.PartnerSummary{
			{SlotID: "kaka", Name: "Kaká", Role: domain.PartnerRolePartnerClient},
		},
		ClosedAt: time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Insert(ctx, archive))

	dup := archive
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.Insert(ctx, dup), domain.ErrMonthAlreadyClosed)

	got, err := repo.GetByKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, key, got.Key)
	assert.True(t, got.NetProfit.Equal(archive.NetProfit))
	assert.Equal(t, archive.ClosedAt, got.ClosedAt)
	require.Len(t, got.PartnerSummaries, 1)
	assert.Empty(t, got.Services)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.DeleteByKey(ctx, key))
	_, err = repo.GetByKey(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
