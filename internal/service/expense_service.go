package service

import (
	"context"
	"strings"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultExpenseCategory is used when the form leaves the category blank
const DefaultExpenseCategory = "geral"

// ExpenseService handles cost entries
type ExpenseService struct {
	expenseRepo     domain.ExpenseRepository
	closedMonthRepo domain.ClosedMonthRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, closedMonthRepo domain.ClosedMonthRepository) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo, closedMonthRepo: closedMonthRepo}
}

// ExpenseInput holds the input for creating an expense
type ExpenseInput struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    string
}

// CreateExpense books a cost into an open month
func (s *ExpenseService) CreateExpense(ctx context.Context, input ExpenseInput) (*domain.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" || len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrInvalidInput
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	key := domain.MonthKeyOf(input.Date)
	if !key.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if err := ensureMonthOpen(ctx, s.closedMonthRepo, key); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = DefaultExpenseCategory
	}

	expense := domain.Expense{
		ID:          uuid.NewString(),
		Date:        calendarDay(input.Date),
		Description: description,
		Amount:      input.Amount.Round(2),
		Category:    category,
	}
	if err := s.expenseRepo.Insert(ctx, expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListExpenses returns the month's expenses in date order
func (s *ExpenseService) ListExpenses(ctx context.Context, key domain.MonthKey, scope AggregationScope) ([]domain.Expense, error) {
	if !key.Valid() {
		return nil, domain.ErrInvalidMonthKey
	}
	expenses, err := s.expenseRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return AggregatePeriod(key, scope, nil, expenses, domain.DistributionSettings{}).PeriodExpenses, nil
}

// DeleteExpense removes an expense that is still in the open cycle
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	expenses, err := s.expenseRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, e := range expenses {
		if e.ID != id {
			continue
		}
		if e.Closed {
			return domain.ErrRecordClosed
		}
		if err := ensureMonthOpen(ctx, s.closedMonthRepo, domain.MonthKeyOf(e.Date)); err != nil {
			return err
		}
		return s.expenseRepo.DeleteByID(ctx, id)
	}
	return domain.ErrExpenseNotFound
}
