package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/droneflow/droneflow-backend/internal/util"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultReminderSpec runs the reminder at 08:00 on the first day of every month
const DefaultReminderSpec = "0 8 1 * *"

// ClosingChecker reports how many open records of a month still wait for a close
type ClosingChecker interface {
	PendingClosing(ctx context.Context, key domain.MonthKey) (int, error)
}

// Scheduler runs the closing reminder
type Scheduler struct {
	cron    *cron.Cron
	checker ClosingChecker
	spec    string
	now     func() time.Time
}

// NewScheduler creates a new scheduler. An empty spec falls back to DefaultReminderSpec.
func NewScheduler(checker ClosingChecker, spec string) *Scheduler {
	if spec == "" {
		spec = DefaultReminderSpec
	}
	return &Scheduler{
		cron:    cron.New(),
		checker: checker,
		spec:    spec,
		now:     time.Now,
	}
}

// Start registers the reminder and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.remind); err != nil {
		return fmt.Errorf("failed to schedule closing reminder: %w", err)
	}
	s.cron.Start()
	log.Info().Str("spec", s.spec).Msg("Closing reminder scheduled")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) remind() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := s.CheckPendingClosing(ctx, s.now()); err != nil {
		log.Error().Err(err).Msg("Closing reminder failed")
	}
}

// CheckPendingClosing looks at the month before now and logs a warning when
// it still has open records and no archive. It returns the pending count.
func (s *Scheduler) CheckPendingClosing(ctx context.Context, now time.Time) (int, error) {
	year, month := util.PreviousMonth(now)
	if !util.IsHistoricalMonth(year, month, now) {
		return 0, nil
	}
	key := domain.MonthKey{Year: year, Month: month}

	pending, err := s.checker.PendingClosing(ctx, key)
	if err != nil {
		return 0, err
	}
	if pending > 0 {
		log.Warn().
			Str("month_key", key.String()).
			Int("open_records", pending).
			Msgf("%s is still open", key.Label())
	}
	return pending, nil
}
