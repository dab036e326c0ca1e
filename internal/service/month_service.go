package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReopenPolicy decides what happens to the records of a reopened month
type ReopenPolicy string

const (
	// ReopenRestoreRecords clears the closed flag on the archived records
	ReopenRestoreRecords ReopenPolicy = "restore"
	// ReopenKeepRecordsClosed only deletes the archive
	ReopenKeepRecordsClosed ReopenPolicy = "keep"
)

// MonthPreview is the full-period closing computation for a month
type MonthPreview struct {
	Totals    PeriodTotals
	Summaries []domain.PartnerSummary
}

// MonthService moves months between open and closed.
// A month is closed iff its archive exists in the ledger store.
type MonthService struct {
	clientRepo      domain.ClientRepository
	serviceRepo     domain.ServiceRecordRepository
	expenseRepo     domain.ExpenseRepository
	closedMonthRepo domain.ClosedMonthRepository
	settings        domain.DistributionSettings
	reopenPolicy    ReopenPolicy
	exporter        domain.ArchiveExporter
	now             func() time.Time
}

// NewMonthService creates a new MonthService
func NewMonthService(
	clientRepo domain.ClientRepository,
	serviceRepo domain.ServiceRecordRepository,
	expenseRepo domain.ExpenseRepository,
	closedMonthRepo domain.ClosedMonthRepository,
	settings domain.DistributionSettings,
) *MonthService {
	return &MonthService{
		clientRepo:      clientRepo,
		serviceRepo:     serviceRepo,
		expenseRepo:     expenseRepo,
		closedMonthRepo: closedMonthRepo,
		settings:        settings,
		reopenPolicy:    ReopenRestoreRecords,
		now:             time.Now,
	}
}

// WithNow overrides the clock for deterministic tests
func (s *MonthService) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// SetReopenPolicy sets how reopening treats the archived records
func (s *MonthService) SetReopenPolicy(policy ReopenPolicy) {
	s.reopenPolicy = policy
}

// SetArchiveExporter sets the optional mirror for archives
func (s *MonthService) SetArchiveExporter(exporter domain.ArchiveExporter) {
	s.exporter = exporter
}

// Settings returns the distribution settings in use
func (s *MonthService) Settings() domain.DistributionSettings {
	return s.settings
}

// DefaultKey returns the key of the current month
func (s *MonthService) DefaultKey() domain.MonthKey {
	return domain.MonthKeyOf(s.now())
}

// Status reports whether a month is open or closed
func (s *MonthService) Status(ctx context.Context, key domain.MonthKey) (*domain.MonthStatus, error) {
	if !key.Valid() {
		return nil, domain.ErrInvalidMonthKey
	}
	archive, err := s.archive(ctx, key)
	if err != nil {
		return nil, err
	}
	status := &domain.MonthStatus{Key: key, State: domain.MonthStateOpen}
	if archive != nil {
		status.State = domain.MonthStateClosed
		status.Archive = archive
	}
	return status, nil
}

// Preview computes the closing snapshot from live data without writing anything
func (s *MonthService) Preview(ctx context.Context, key domain.MonthKey) (*MonthPreview, error) {
	if !key.Valid() {
		return nil, domain.ErrInvalidMonthKey
	}
	clients, services, expenses, err := s.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	totals := AggregatePeriod(key, ScopeFullPeriod, services, expenses, s.settings)
	return &MonthPreview{
		Totals:    totals,
		Summaries: DistributeProfit(totals, clients, s.settings),
	}, nil
}

// Close archives the month and flags its records closed. Nothing is flagged
// unless the archive write succeeded; if flagging fails the archive is
// removed again so the month stays open.
func (s *MonthService) Close(ctx context.Context, key domain.MonthKey) (*domain.ClosedMonth, error) {
	if !key.Valid() {
		return nil, domain.ErrInvalidMonthKey
	}

	existing, err := s.archive(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrMonthAlreadyClosed
	}

	preview, err := s.Preview(ctx, key)
	if err != nil {
		return nil, err
	}
	totals := preview.Totals

	archive := domain.ClosedMonth{
		ID:               uuid.NewString(),
		Key:              key,
		Label:            key.Label(),
		TotalRevenue:     totals.TotalRevenue,
		TotalExpenses:    totals.TotalExpenses,
		NetProfit:        totals.NetProfit,
		Hectares:         totals.TotalHectares,
		Services:         totals.PeriodServices,
		Expenses:         totals.PeriodExpenses,
		PartnerSummaries: preview.Summaries,
		ClosedAt:         s.now().UTC(),
	}

	if err := s.closedMonthRepo.Insert(ctx, archive); err != nil {
		if errors.Is(err, domain.ErrMonthAlreadyClosed) {
			return nil, err
		}
		return nil, fmt.Errorf("insert archive %s: %w", key, err)
	}

	if err := s.flagRecords(ctx, totals.PeriodServices, totals.PeriodExpenses, true); err != nil {
		s.rollbackClose(ctx, key, totals)
		return nil, fmt.Errorf("flag records of %s: %w", key, err)
	}

	log.Info().
		Str("month_key", key.String()).
		Int("services", len(archive.Services)).
		Int("expenses", len(archive.Expenses)).
		Str("net_profit", archive.NetProfit.StringFixed(2)).
		Msg("Month closed")

	if s.exporter != nil {
		if err := s.exporter.Export(ctx, archive); err != nil {
			log.Warn().Err(err).Str("month_key", key.String()).Msg("Failed to mirror closed month archive")
		}
	}

	return &archive, nil
}

// Reopen deletes the month's archive. Under ReopenRestoreRecords the
// records listed in the archive that still exist are flagged open first;
// the archive is only deleted once they are, and a failed delete flags them
// closed again so the month stays closed.
func (s *MonthService) Reopen(ctx context.Context, key domain.MonthKey) error {
	if !key.Valid() {
		return domain.ErrInvalidMonthKey
	}

	archive, err := s.archive(ctx, key)
	if err != nil {
		return err
	}
	if archive == nil {
		return domain.ErrMonthNotClosed
	}

	var services []domain.ServiceRecord
	var expenses []domain.Expense
	if s.reopenPolicy == ReopenRestoreRecords {
		services, expenses, err = s.archivedRecords(ctx, archive)
		if err != nil {
			return fmt.Errorf("restore records of %s: %w", key, err)
		}
		if err := s.flagRecords(ctx, services, expenses, false); err != nil {
			s.rollbackReopen(ctx, key, services, expenses)
			return fmt.Errorf("restore records of %s: %w", key, err)
		}
	}

	if err := s.closedMonthRepo.DeleteByKey(ctx, key); err != nil {
		s.rollbackReopen(ctx, key, services, expenses)
		return fmt.Errorf("delete archive %s: %w", key, err)
	}

	log.Info().Str("month_key", key.String()).Str("policy", string(s.reopenPolicy)).Msg("Month reopened")

	if s.exporter != nil {
		if err := s.exporter.Remove(ctx, key); err != nil {
			log.Warn().Err(err).Str("month_key", key.String()).Msg("Failed to remove mirrored archive")
		}
	}
	return nil
}

// List returns every archive, newest month first
func (s *MonthService) List(ctx context.Context) ([]domain.ClosedMonth, error) {
	months, err := s.closedMonthRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(months, func(i, j int) bool {
		return months[j].Key.Before(months[i].Key)
	})
	return months, nil
}

// PendingClosing reports how many open records of the month wait for a
// close. Zero means nothing to close: either the month is archived or it
// has no open records.
func (s *MonthService) PendingClosing(ctx context.Context, key domain.MonthKey) (int, error) {
	if !key.Valid() {
		return 0, domain.ErrInvalidMonthKey
	}
	archive, err := s.archive(ctx, key)
	if err != nil {
		return 0, err
	}
	if archive != nil {
		return 0, nil
	}
	_, services, expenses, err := s.loadLedger(ctx)
	if err != nil {
		return 0, err
	}
	totals := AggregatePeriod(key, ScopeActiveCycle, services, expenses, s.settings)
	return len(totals.PeriodServices) + len(totals.PeriodExpenses), nil
}

// archive returns nil without error when the month has no archive
func (s *MonthService) archive(ctx context.Context, key domain.MonthKey) (*domain.ClosedMonth, error) {
	archive, err := s.closedMonthRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return archive, nil
}

func (s *MonthService) loadLedger(ctx context.Context) ([]domain.Client, []domain.ServiceRecord, []domain.Expense, error) {
	clients, err := s.clientRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	services, err := s.serviceRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	expenses, err := s.expenseRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return clients, services, expenses, nil
}

// flagRecords writes the closed flag on copies of the given records
func (s *MonthService) flagRecords(ctx context.Context, services []domain.ServiceRecord, expenses []domain.Expense, closed bool) error {
	if len(services) > 0 {
		flagged := make([]domain.ServiceRecord, len(services))
		for i, r := range services {
			r.Closed = closed
			flagged[i] = r
		}
		if err := s.serviceRepo.UpsertMany(ctx, flagged); err != nil {
			return err
		}
	}
	if len(expenses) > 0 {
		flagged := make([]domain.Expense, len(expenses))
		for i, e := range expenses {
			e.Closed = closed
			flagged[i] = e
		}
		if err := s.expenseRepo.UpsertMany(ctx, flagged); err != nil {
			return err
		}
	}
	return nil
}

// rollbackClose writes back the records as they were before flagging and
// removes the archive. Failures are logged; the caller reports the original error.
func (s *MonthService) rollbackClose(ctx context.Context, key domain.MonthKey, totals PeriodTotals) {
	if len(totals.PeriodServices) > 0 {
		if err := s.serviceRepo.UpsertMany(ctx, totals.PeriodServices); err != nil {
			log.Error().Err(err).Str("month_key", key.String()).Msg("Failed to restore service records after flagging error")
		}
	}
	if len(totals.PeriodExpenses) > 0 {
		if err := s.expenseRepo.UpsertMany(ctx, totals.PeriodExpenses); err != nil {
			log.Error().Err(err).Str("month_key", key.String()).Msg("Failed to restore expenses after flagging error")
		}
	}
	if err := s.closedMonthRepo.DeleteByKey(ctx, key); err != nil {
		log.Error().Err(err).Str("month_key", key.String()).Msg("Failed to roll back archive after flagging error")
	}
}

// archivedRecords returns the live records named by the archive that are
// still flagged closed. Records deleted since closing are not resurrected.
func (s *MonthService) archivedRecords(ctx context.Context, archive *domain.ClosedMonth) ([]domain.ServiceRecord, []domain.Expense, error) {
	_, services, expenses, err := s.loadLedger(ctx)
	if err != nil {
		return nil, nil, err
	}

	serviceIDs := make(map[string]bool, len(archive.Services))
	for _, r := range archive.Services {
		serviceIDs[r.ID] = true
	}
	expenseIDs := make(map[string]bool, len(archive.Expenses))
	for _, e := range archive.Expenses {
		expenseIDs[e.ID] = true
	}

	var liveServices []domain.ServiceRecord
	for _, r := range services {
		if serviceIDs[r.ID] && r.Closed {
			liveServices = append(liveServices, r)
		}
	}
	var liveExpenses []domain.Expense
	for _, e := range expenses {
		if expenseIDs[e.ID] && e.Closed {
			liveExpenses = append(liveExpenses, e)
		}
	}
	return liveServices, liveExpenses, nil
}

// rollbackReopen flags the restored records closed again. Failures are
// logged; the caller reports the original error.
func (s *MonthService) rollbackReopen(ctx context.Context, key domain.MonthKey, services []domain.ServiceRecord, expenses []domain.Expense) {
	if err := s.flagRecords(ctx, services, expenses, true); err != nil {
		log.Error().Err(err).Str("month_key", key.String()).Msg("Failed to re-flag records after reopen error")
	}
}
