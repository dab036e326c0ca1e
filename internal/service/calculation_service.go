package service

import (
	"sort"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// AggregationScope selects which records of a month are summed
type AggregationScope string

const (
	// ScopeActiveCycle only sums records not yet flagged closed (live dashboard)
	ScopeActiveCycle AggregationScope = "active"
	// ScopeFullPeriod sums every record dated inside the month (closing and history)
	ScopeFullPeriod AggregationScope = "all"
)

// ParseAggregationScope maps a query value to a scope, defaulting to the active cycle
func ParseAggregationScope(s string) (AggregationScope, bool) {
	switch AggregationScope(s) {
	case "", ScopeActiveCycle:
		return ScopeActiveCycle, true
	case ScopeFullPeriod:
		return ScopeFullPeriod, true
	}
	return "", false
}

// PeriodTotals is the aggregated view of one month
type PeriodTotals struct {
	Key              domain.MonthKey
	Scope            AggregationScope
	TotalRevenue     decimal.Decimal
	VariableExpenses decimal.Decimal
	FixedSalary      decimal.Decimal
	TotalExpenses    decimal.Decimal
	TotalHectares    decimal.Decimal
	NetProfit        decimal.Decimal
	PeriodServices   []domain.ServiceRecord
	PeriodExpenses   []domain.Expense
}

// AggregatePeriod filters services and expenses into the month window and
// sums revenue, cost and area. The fixed salary is added to the expenses
// exactly once per call. Inputs are never modified.
func AggregatePeriod(key domain.MonthKey, scope AggregationScope, services []domain.ServiceRecord, expenses []domain.Expense, settings domain.DistributionSettings) PeriodTotals {
	totals := PeriodTotals{
		Key:              key,
		Scope:            scope,
		TotalRevenue:     decimal.Zero,
		VariableExpenses: decimal.Zero,
		FixedSalary:      settings.FixedSalary,
		TotalHectares:    decimal.Zero,
		PeriodServices:   []domain.ServiceRecord{},
		PeriodExpenses:   []domain.Expense{},
	}

	for _, s := range services {
		if !key.Contains(s.Date) || (scope == ScopeActiveCycle && s.Closed) {
			continue
		}
		totals.PeriodServices = append(totals.PeriodServices, s)
		totals.TotalRevenue = totals.TotalRevenue.Add(s.TotalValue)
		totals.TotalHectares = totals.TotalHectares.Add(s.Hectares)
	}

	for _, e := range expenses {
		if !key.Contains(e.Date) || (scope == ScopeActiveCycle && e.Closed) {
			continue
		}
		totals.PeriodExpenses = append(totals.PeriodExpenses, e)
		totals.VariableExpenses = totals.VariableExpenses.Add(e.Amount)
	}

	sort.SliceStable(totals.PeriodServices, func(i, j int) bool {
		return totals.PeriodServices[i].Date.Before(totals.PeriodServices[j].Date)
	})
	sort.SliceStable(totals.PeriodExpenses, func(i, j int) bool {
		return totals.PeriodExpenses[i].Date.Before(totals.PeriodExpenses[j].Date)
	})

	totals.TotalExpenses = totals.VariableExpenses.Add(settings.FixedSalary)
	totals.NetProfit = totals.TotalRevenue.Sub(totals.TotalExpenses)
	return totals
}

// DistributeProfit splits the period's net profit equally across the roster,
// then applies role-specific deductions and salary. Summaries follow roster order.
func DistributeProfit(totals PeriodTotals, clients []domain.Client, settings domain.DistributionSettings) []domain.PartnerSummary {
	roster := settings.Roster
	if len(roster) == 0 {
		return []domain.PartnerSummary{}
	}

	grossShare := totals.NetProfit.Div(decimal.NewFromInt(int64(len(roster))))
	links := domain.PartnerLinks(clients)

	summaries := make([]domain.PartnerSummary, 0, len(roster))
	for _, slot := range roster {
		deductions := decimal.Zero
		if slot.DeductionEligible() {
			if clientID, ok := links[slot.ID]; ok {
				deductions = clientHectares(totals.PeriodServices, clientID).Mul(settings.ServiceRate)
			}
		}

		summary := domain.PartnerSummary{
			SlotID:      slot.ID,
			Name:        slot.FullName,
			Role:        slot.Role,
			GrossProfit: grossShare,
			Deductions:  deductions,
			NetProfit:   grossShare.Sub(deductions),
		}
		if slot.CarriesSalary() {
			salary := settings.FixedSalary
			summary.Salary = &salary
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// clientHectares sums the hectares serviced for one client
func clientHectares(services []domain.ServiceRecord, clientID string) decimal.Decimal {
	total := decimal.Zero
	for _, s := range services {
		if s.ClientID == clientID {
			total = total.Add(s.Hectares)
		}
	}
	return total
}
