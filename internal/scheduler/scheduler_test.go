package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	pending map[domain.MonthKey]int
	err     error
	asked   []domain.MonthKey
}

func (s *stubChecker) PendingClosing(ctx context.Context, key domain.MonthKey) (int, error) {
	s.asked = append(s.asked, key)
	if s.err != nil {
		return 0, s.err
	}
	return s.pending[key], nil
}

func TestCheckPendingClosing_PreviousMonth(t *testing.T) {
	checker := &stubChecker{pending: map[domain.MonthKey]int{{Year: 2024, Month: 3}: 4}}
	s := NewScheduler(checker, "")

	pending, err := s.CheckPendingClosing(context.Background(), time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, 4, pending)
	assert.Equal(t, []domain.MonthKey{{Year: 2024, Month: 3}}, checker.asked)
}

func TestCheckPendingClosing_YearBoundary(t *testing.T) {
	checker := &stubChecker{}
	s := NewScheduler(checker, "")

	pending, err := s.CheckPendingClosing(context.Background(), time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Zero(t, pending)
	assert.Equal(t, []domain.MonthKey{{Year: 2023, Month: 12}}, checker.asked)
}

func TestCheckPendingClosing_Error(t *testing.T) {
	checker := &stubChecker{err: domain.ErrPersistence}
	s := NewScheduler(checker, "")

	_, err := s.CheckPendingClosing(context.Background(), time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC))

	assert.True(t, errors.Is(err, domain.ErrPersistence))
}

func TestNewScheduler_DefaultSpec(t *testing.T) {
	s := NewScheduler(&stubChecker{}, "")
	assert.Equal(t, DefaultReminderSpec, s.spec)

	s = NewScheduler(&stubChecker{}, "*/5 * * * *")
	assert.Equal(t, "*/5 * * * *", s.spec)
}

func TestStart_InvalidSpec(t *testing.T) {
	s := NewScheduler(&stubChecker{}, "not a cron spec")

	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(&stubChecker{}, "0 8 1 * *")

	require.NoError(t, s.Start())
	s.Stop()
}
