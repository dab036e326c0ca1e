package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/droneflow/droneflow-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type monthFixture struct {
	clients  *testutil.MockClientRepository
	services *testutil.MockServiceRecordRepository
	expenses *testutil.MockExpenseRepository
	closed   *testutil.MockClosedMonthRepository
	svc      *MonthService
}

func newMonthFixture() *monthFixture {
	f := &monthFixture{
		clients:  testutil.NewMockClientRepository(),
		services: testutil.NewMockServiceRecordRepository(),
		expenses: testutil.NewMockExpenseRepository(),
		closed:   testutil.NewMockClosedMonthRepository(),
	}
	for _, c := range partnerClients() {
		f.clients.AddClient(c)
	}
	f.svc = NewMonthService(f.clients, f.services, f.expenses, f.closed, domain.DefaultDistributionSettings())
	f.svc.WithNow(func() time.Time { return time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC) })
	return f
}

func (f *monthFixture) seedMarch() {
	f.services.AddRecord(testutil.NewService("c1", testutil.Date(2024, time.March, 4), 60, 100))
	f.services.AddRecord(testutil.NewService("p1", testutil.Date(2024, time.March, 12), 20, 100))
	f.services.AddRecord(testutil.NewService("c1", testutil.Date(2024, time.March, 30), 20, 100))
	f.services.AddRecord(testutil.NewService("c1", testutil.Date(2024, time.April, 1), 15, 100))
	f.expenses.AddExpense(testutil.NewExpense(testutil.Date(2024, time.March, 8), 1200))
	f.expenses.AddExpense(testutil.NewExpense(testutil.Date(2024, time.March, 22), 800))
	f.expenses.AddExpense(testutil.NewExpense(testutil.Date(2024, time.April, 3), 400))
}

func TestMonthService_Close_ArchivesAndFlagsRecords(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()
	ctx := context.Background()

	archive, err := f.svc.Close(ctx, march2024)

	require.NoError(t, err)
	assert.Equal(t, "Março 2024", archive.Label)
	assert.Equal(t, "10000.00", archive.TotalRevenue.StringFixed(2))
	assert.Equal(t, "7000.00", archive.TotalExpenses.StringFixed(2))
	assert.Equal(t, "3000.00", archive.NetProfit.StringFixed(2))
	assert.Equal(t, "100.00", archive.Hectares.StringFixed(2))
	assert.Len(t, archive.Services, 3)
	assert.Len(t, archive.Expenses, 2)
	require.Len(t, archive.PartnerSummaries, 4)
	assert.Equal(t, "2000.00", archive.PartnerSummaries[1].Deductions.StringFixed(2))
	assert.Equal(t, time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC), archive.ClosedAt)
	assert.True(t, f.closed.Has(march2024))

	for _, r := range f.services.Records {
		assert.Equal(t, march2024.Contains(r.Date), r.Closed, "service %s", r.Date)
	}
	for _, e := range f.expenses.Expenses {
		assert.Equal(t, march2024.Contains(e.Date), e.Closed, "expense %s", e.Date)
	}
	// the archived copies keep the state they had when the snapshot was taken
	for _, r := range archive.Services {
		assert.False(t, r.Closed)
	}
}

func TestMonthService_Close_ActiveCycleDropsToZero(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()
	ctx := context.Background()

	_, err := f.svc.Close(ctx, march2024)
	require.NoError(t, err)

	services, _ := f.services.ListAll(ctx)
	expenses, _ := f.expenses.ListAll(ctx)
	active := AggregatePeriod(march2024, ScopeActiveCycle, services, expenses, f.svc.Settings())
	full := AggregatePeriod(march2024, ScopeFullPeriod, services, expenses, f.svc.Settings())

	assert.True(t, active.TotalRevenue.IsZero())
	assert.True(t, active.TotalHectares.IsZero())
	assert.Empty(t, active.PeriodServices)
	assert.Equal(t, "10000.00", full.TotalRevenue.StringFixed(2))
}

func TestMonthService_Close_EmptyMonth(t *testing.T) {
	f := newMonthFixture()

	archive, err := f.svc.Close(context.Background(), march2024)

	require.NoError(t, err)
	assert.Equal(t, "5000.00", archive.TotalExpenses.StringFixed(2))
	assert.Equal(t, "-5000.00", archive.NetProfit.StringFixed(2))
	assert.Empty(t, archive.Services)
	assert.Empty(t, archive.Expenses)
	for _, s := range archive.PartnerSummaries {
		assert.Equal(t, "-1250.00", s.GrossProfit.StringFixed(2), s.Name)
	}
	assert.Equal(t, 0, f.services.UpsertCalls)
	assert.Equal(t, 0, f.expenses.UpsertCalls)
}

func TestMonthService_Close_RejectsAlreadyClosed(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()
	ctx := context.Background()

	_, err := f.svc.Close(ctx, march2024)
	require.NoError(t, err)

	_, err = f.svc.Close(ctx, march2024)
	assert.ErrorIs(t, err, domain.ErrMonthAlreadyClosed)
}

func TestMonthService_Close_InsertFailureLeavesRecordsUntouched(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()
	f.closed.InsertErr = fmt.Errorf("%w: connection reset", domain.ErrPersistence)

	_, err := f.svc.Close(context.Background(), march2024)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.False(t, f.closed.Has(march2024))
	assert.Equal(t, 0, f.services.UpsertCalls)
	assert.Equal(t, 0, f.expenses.UpsertCalls)
	for _, r := range f.services.Records {
		assert.False(t, r.Closed)
	}
}

func TestMonthService_Close_FlaggingFailureRollsBack(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()
	f.expenses.UpsertErr = fmt.Errorf("%w: timeout", domain.ErrPersistence)

	_, err := f.svc.Close(context.Background(), march2024)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.False(t, f.closed.Has(march2024), "archive must be removed again")
	for _, r := range f.services.Records {
		assert.False(t, r.Closed, "service %s must be restored", r.ID)
	}
}

func TestMonthService_Close_InvalidKey(t *testing.T) {
	f := newMonthFixture()

	_, err := f.svc.Close(context.Background(), domain.MonthKey{Year: 2024, Month: 13})

	assert.ErrorIs(t, err, domain.ErrInvalidMonthKey)
}

func TestMonthService_Close_MirrorsArchive(t *testing.T) {
	f := newMonthFixture()
	exporter := &testutil.MockArchiveExporter{}
	f.svc.SetArchiveExporter(exporter)

	_, err := f.svc.Close(context.Background(), march2024)
	require.NoError(t, err)
	assert.Equal(t, []domain.MonthKey{march2024}, exporter.Exported)
}

func TestMonthService_Close_MirrorFailureIsNotFatal(t *testing.T) {
	f := newMonthFixture()
	f.svc.SetArchiveExporter(&testutil.MockArchiveExporter{ExportErr: errors.New("bucket unavailable")})

	_, err := f.svc.Close(context.Background(), march2024)

	require.NoError(t, err)
	assert.True(t, f.closed.Has(march2024))
}

func TestMonthService_Reopen_RestoresRecords(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()
	ctx := context.Background()

	_, err := f.svc.Close(ctx, march2024)
	require.NoError(t, err)

	err = f.svc.Reopen(ctx, march2024)

	require.NoError(t, err)
	assert.False(t, f.closed.Has(march2024))
	for _, r := range f.services.Records {
		assert.False(t, r.Closed)
	}
	for _, e := range f.expenses.Expenses {
		assert.False(t, e.Closed)
	}

	status, err := f.svc.Status(ctx, march2024)
	require.NoError(t, err)
	assert.Equal(t, domain.MonthStateOpen, status.State)
	assert.Nil(t, status.Archive)
}

func TestMonthService_Reopen_KeepPolicyLeavesFlags(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()
	f.svc.SetReopenPolicy(ReopenKeepRecordsClosed)
	ctx := context.Background()

	_, err := f.svc.Close(ctx, march2024)
	require.NoError(t, err)

	require.NoError(t, f.svc.Reopen(ctx, march2024))

	assert.False(t, f.closed.Has(march2024))
	for _, r := range f.services.Records {
		assert.Equal(t, march2024.Contains(r.Date), r.Closed)
	}
}

func TestMonthService_Reopen_SkipsRecordsDeletedSinceClosing(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()
	ctx := context.Background()

	archive, err := f.svc.Close(ctx, march2024)
	require.NoError(t, err)
	require.NoError(t, f.services.DeleteByID(ctx, archive.Services[0].ID))

	require.NoError(t, f.svc.Reopen(ctx, march2024))

	_, found := f.services.Get(archive.Services[0].ID)
	assert.False(t, found)
	assert.Len(t, f.services.Records, 3)
}

func TestMonthService_Reopen_NotClosed(t *testing.T) {
	f := newMonthFixture()

	err := f.svc.Reopen(context.Background(), march2024)

	assert.ErrorIs(t, err, domain.ErrMonthNotClosed)
	assert.Equal(t, 0, f.closed.DeleteCalls)
}

func TestMonthService_Reopen_DeleteFailureKeepsMonthClosed(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()
	ctx := context.Background()
	_, err := f.svc.Close(ctx, march2024)
	require.NoError(t, err)
	f.closed.DeleteErr = fmt.Errorf("%w: unavailable", domain.ErrPersistence)

	err = f.svc.Reopen(ctx, march2024)

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.True(t, f.closed.Has(march2024))
	for _, r := range f.services.Records {
		assert.Equal(t, march2024.Contains(r.Date), r.Closed)
	}
}

func TestMonthService_Reopen_RestoreFailureKeepsMonthClosed(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()
	ctx := context.Background()
	_, err := f.svc.Close(ctx, march2024)
	require.NoError(t, err)
	f.services.UpsertErr = fmt.Errorf("%w: unavailable", domain.ErrPersistence)

	err = f.svc.Reopen(ctx, march2024)

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.True(t, f.closed.Has(march2024))
	for _, r := range f.services.Records {
		assert.Equal(t, march2024.Contains(r.Date), r.Closed)
	}

	f.services.UpsertErr = nil
	require.NoError(t, f.svc.Reopen(ctx, march2024))
	assert.False(t, f.closed.Has(march2024))
}

func TestMonthService_Reopen_PartialRestoreIsRolledBack(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()
	ctx := context.Background()
	_, err := f.svc.Close(ctx, march2024)
	require.NoError(t, err)
	f.expenses.UpsertErr = fmt.Errorf("%w: unavailable", domain.ErrPersistence)

	err = f.svc.Reopen(ctx, march2024)

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.True(t, f.closed.Has(march2024))
	for _, r := range f.services.Records {
		assert.Equal(t, march2024.Contains(r.Date), r.Closed)
	}

	status, err := f.svc.Status(ctx, march2024)
	require.NoError(t, err)
	assert.Equal(t, domain.MonthStateClosed, status.State)
}

func TestMonthService_CloseAfterReopen(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()
	ctx := context.Background()

	_, err := f.svc.Close(ctx, march2024)
	require.NoError(t, err)
	require.NoError(t, f.svc.Reopen(ctx, march2024))

	archive, err := f.svc.Close(ctx, march2024)

	require.NoError(t, err)
	assert.Equal(t, "10000.00", archive.TotalRevenue.StringFixed(2))
}

func TestMonthService_Preview_DoesNotWrite(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()

	preview, err := f.svc.Preview(context.Background(), march2024)

	require.NoError(t, err)
	assert.Equal(t, "3000.00", preview.Totals.NetProfit.StringFixed(2))
	assert.Len(t, preview.Summaries, 4)
	assert.False(t, f.closed.Has(march2024))
	assert.Equal(t, 0, f.services.UpsertCalls)
}

func TestMonthService_List_NewestFirst(t *testing.T) {
	f := newMonthFixture()
	for _, k := range []domain.MonthKey{{Year: 2023, Month: 9}, {Year: 2024, Month: 1}, {Year: 2023, Month: 10}} {
		f.closed.AddMonth(domain.ClosedMonth{ID: k.String(), Key: k, Label: k.Label()})
	}

	months, err := f.svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, months, 3)
	assert.Equal(t, domain.MonthKey{Year: 2024, Month: 1}, months[0].Key)
	assert.Equal(t, domain.MonthKey{Year: 2023, Month: 10}, months[1].Key)
	assert.Equal(t, domain.MonthKey{Year: 2023, Month: 9}, months[2].Key)
}

func TestMonthService_DefaultKeyUsesClock(t *testing.T) {
	f := newMonthFixture()

	assert.Equal(t, domain.MonthKey{Year: 2024, Month: 4}, f.svc.DefaultKey())
}

func TestMonthService_Status_PropagatesStoreErrors(t *testing.T) {
	f := newMonthFixture()
	f.closed.ListErr = fmt.Errorf("%w: offline", domain.ErrPersistence)

	_, err := f.svc.Status(context.Background(), march2024)

	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestMonthService_PendingClosing(t *testing.T) {
	f := newMonthFixture()
	f.seedMarch()
	ctx := context.Background()

	pending, err := f.svc.PendingClosing(ctx, march2024)
	require.NoError(t, err)
	assert.Equal(t, 5, pending)

	_, err = f.svc.Close(ctx, march2024)
	require.NoError(t, err)

	pending, err = f.svc.PendingClosing(ctx, march2024)
	require.NoError(t, err)
	assert.Zero(t, pending)

	_, err = f.svc.PendingClosing(ctx, domain.MonthKey{Year: 2024, Month: 13})
	assert.ErrorIs(t, err, domain.ErrInvalidMonthKey)
}
