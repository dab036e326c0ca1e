package service

import (
	"context"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/droneflow/droneflow-backend/internal/util"
	"github.com/shopspring/decimal"
)

// DashboardService handles dashboard-related business logic
type DashboardService struct {
	monthService *MonthService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(monthService *MonthService) *DashboardService {
	return &DashboardService{monthService: monthService}
}

// GetSummary returns the dashboard stats for the current month
func (s *DashboardService) GetSummary(ctx context.Context) (*domain.DashboardStats, error) {
	return s.GetSummaryForMonth(ctx, s.monthService.DefaultKey())
}

// GetSummaryForMonth returns the dashboard stats for a month. The month
// balance follows the open cycle; the year balance counts every record of
// the year and one salary per month elapsed.
func (s *DashboardService) GetSummaryForMonth(ctx context.Context, key domain.MonthKey) (*domain.DashboardStats, error) {
	if !key.Valid() {
		return nil, domain.ErrInvalidMonthKey
	}
	_, services, expenses, err := s.monthService.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	settings := s.monthService.Settings()

	active := AggregatePeriod(key, ScopeActiveCycle, services, expenses, settings)
	full := AggregatePeriod(key, ScopeFullPeriod, services, expenses, settings)

	yearRevenue, yearExpenses, yearHectares := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range services {
		if r.Date.Year() == key.Year {
			yearRevenue = yearRevenue.Add(r.TotalValue)
			yearHectares = yearHectares.Add(r.Hectares)
		}
	}
	for _, e := range expenses {
		if e.Date.Year() == key.Year {
			yearExpenses = yearExpenses.Add(e.Amount)
		}
	}
	salaries := settings.FixedSalary.Mul(decimal.NewFromInt(int64(util.MonthsElapsed(key.Month))))

	return &domain.DashboardStats{
		Key:           key,
		HectaresMonth: full.TotalHectares,
		HectaresYear:  yearHectares,
		BalanceMonth:  active.NetProfit,
		BalanceYear:   yearRevenue.Sub(yearExpenses).Sub(salaries),
		OpenServices:  len(active.PeriodServices),
		OpenExpenses:  len(active.PeriodExpenses),
	}, nil
}

// GetYearlyReport returns one row per month of the year with revenue,
// costs including the salary, and balance over the full period
func (s *DashboardService) GetYearlyReport(ctx context.Context, year int) ([]domain.YearlyReportRow, error) {
	if !(domain.MonthKey{Year: year, Month: 1}).Valid() {
		return nil, domain.ErrInvalidMonthKey
	}
	_, services, expenses, err := s.monthService.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	archives, err := s.monthService.List(ctx)
	if err != nil {
		return nil, err
	}
	closed := make(map[domain.MonthKey]bool, len(archives))
	for _, a := range archives {
		closed[a.Key] = true
	}
	settings := s.monthService.Settings()

	rows := make([]domain.YearlyReportRow, 0, 12)
	for month := 1; month <= 12; month++ {
		key := domain.MonthKey{Year: year, Month: month}
		totals := AggregatePeriod(key, ScopeFullPeriod, services, expenses, settings)
		rows = append(rows, domain.YearlyReportRow{
			Key:     key,
			Label:   key.Label(),
			Revenue: totals.TotalRevenue,
			Costs:   totals.TotalExpenses,
			Balance: totals.NetProfit,
			Closed:  closed[key],
		})
	}
	return rows, nil
}

// GetPartnerBalance returns the live distribution of the month's open cycle
func (s *DashboardService) GetPartnerBalance(ctx context.Context, key domain.MonthKey) (*MonthPreview, error) {
	if !key.Valid() {
		return nil, domain.ErrInvalidMonthKey
	}
	clients, services, expenses, err := s.monthService.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	settings := s.monthService.Settings()
	totals := AggregatePeriod(key, ScopeActiveCycle, services, expenses, settings)
	return &MonthPreview{
		Totals:    totals,
		Summaries: DistributeProfit(totals, clients, settings),
	}, nil
}
