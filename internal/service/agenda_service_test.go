package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/droneflow/droneflow-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAgendaService(f *recordFixture) (*AgendaService, *testutil.MockAgendaRepository) {
	agenda := testutil.NewMockAgendaRepository()
	records := NewServiceRecordService(f.services, f.clients, f.closed)
	return NewAgendaService(agenda, f.clients, records), agenda
}

func TestCreateAgendaItem(t *testing.T) {
	f := newRecordFixture()
	svc, agenda := newAgendaService(f)

	item, err := svc.CreateAgendaItem(context.Background(), AgendaInput{
		Date:      testutil.Date(2024, time.March, 18),
		ClientID:  "c1",
		AreaID:    "a1",
		Type:      domain.ApplicationSpraying,
		Notes:     "levar bico extra",
		CreatedBy: "geraldo@droneflow.app",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.AgendaStatusPending, item.Status)
	assert.Equal(t, "42.50", item.Hectares.StringFixed(2))
	assert.Equal(t, "Talhão Norte", item.AreaName)
	assert.Len(t, agenda.Items, 1)
}

func TestCreateAgendaItem_UnknownArea(t *testing.T) {
	f := newRecordFixture()
	svc, _ := newAgendaService(f)

	_, err := svc.CreateAgendaItem(context.Background(), AgendaInput{
		Date:     testutil.Date(2024, time.March, 18),
		ClientID: "c1",
		AreaID:   "zz",
		Type:     domain.ApplicationSpraying,
	})

	assert.ErrorIs(t, err, domain.ErrAreaNotFound)
}

func TestListAgenda_FiltersMonthInDateOrder(t *testing.T) {
	f := newRecordFixture()
	svc, agenda := newAgendaService(f)
	agenda.AddItem(domain.AgendaItem{ID: "late", Date: testutil.Date(2024, time.March, 28)})
	agenda.AddItem(domain.AgendaItem{ID: "other", Date: testutil.Date(2024, time.April, 2)})
	agenda.AddItem(domain.AgendaItem{ID: "early", Date: testutil.Date(2024, time.March, 3)})

	items, err := svc.ListAgenda(context.Background(), march2024)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "early", items[0].ID)
	assert.Equal(t, "late", items[1].ID)
}

func TestConfirmAgendaItem(t *testing.T) {
	f := newRecordFixture()
	svc, agenda := newAgendaService(f)
	agenda.AddItem(domain.AgendaItem{ID: "ag1", Date: testutil.Date(2024, time.March, 3), Status: domain.AgendaStatusPending})

	item, err := svc.ConfirmAgendaItem(context.Background(), "ag1")

	require.NoError(t, err)
	assert.Equal(t, domain.AgendaStatusConfirmed, item.Status)
	assert.Equal(t, domain.AgendaStatusConfirmed, agenda.Items[0].Status)

	_, err = svc.ConfirmAgendaItem(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrAgendaNotFound)
}

func TestExecuteAgendaItem_CreatesServiceAndRemovesItem(t *testing.T) {
	f := newRecordFixture()
	svc, agenda := newAgendaService(f)
	agenda.AddItem(domain.AgendaItem{
		ID:       "ag1",
		Date:     testutil.Date(2024, time.March, 3),
		ClientID: "c1",
		AreaID:   "a1",
		Hectares: decimal.NewFromInt(30),
		Type:     domain.ApplicationSolidDispersion,
	})

	record, err := svc.ExecuteAgendaItem(context.Background(), "ag1", decimal.NewFromInt(120))

	require.NoError(t, err)
	assert.Equal(t, "3600.00", record.TotalValue.StringFixed(2))
	assert.Equal(t, domain.ApplicationSolidDispersion, record.Type)
	assert.Empty(t, agenda.Items)
	assert.Len(t, f.services.Records, 1)
}

func TestExecuteAgendaItem_ClosedMonthKeepsItem(t *testing.T) {
	f := newRecordFixture()
	f.closed.AddMonth(domain.ClosedMonth{ID: "cm", Key: march2024})
	svc, agenda := newAgendaService(f)
	agenda.AddItem(domain.AgendaItem{
		ID: "ag1", Date: testutil.Date(2024, time.March, 3), ClientID: "c1", AreaID: "a1",
		Hectares: decimal.NewFromInt(30), Type: domain.ApplicationSpraying,
	})

	_, err := svc.ExecuteAgendaItem(context.Background(), "ag1", decimal.NewFromInt(100))

	assert.ErrorIs(t, err, domain.ErrMonthClosed)
	assert.Len(t, agenda.Items, 1)
	assert.Empty(t, f.services.Records)
}

func TestExecuteAgendaItem_RemovalFailureStillReturnsRecord(t *testing.T) {
	f := newRecordFixture()
	svc, agenda := newAgendaService(f)
	agenda.AddItem(domain.AgendaItem{
		ID: "ag1", Date: testutil.Date(2024, time.March, 3), ClientID: "c1", AreaID: "a1",
		Hectares: decimal.NewFromInt(10), Type: domain.ApplicationSpraying,
	})
	agenda.DeleteErr = errors.New("store offline")

	record, err := svc.ExecuteAgendaItem(context.Background(), "ag1", decimal.NewFromInt(100))

	assert.Error(t, err)
	require.NotNil(t, record)
	assert.Len(t, f.services.Records, 1)
}

func TestDeleteAgendaItem(t *testing.T) {
	f := newRecordFixture()
	svc, agenda := newAgendaService(f)
	agenda.AddItem(domain.AgendaItem{ID: "ag1", Date: testutil.Date(2024, time.March, 3)})

	require.NoError(t, svc.DeleteAgendaItem(context.Background(), "ag1"))
	assert.Empty(t, agenda.Items)
	assert.ErrorIs(t, svc.DeleteAgendaItem(context.Background(), "ag1"), domain.ErrAgendaNotFound)
}
