package domain

import "github.com/shopspring/decimal"

// DashboardStats holds the headline numbers of the home screen
type DashboardStats struct {
	Key           MonthKey
	HectaresMonth decimal.Decimal
	HectaresYear  decimal.Decimal
	BalanceMonth  decimal.Decimal
	BalanceYear   decimal.Decimal
	OpenServices  int
	OpenExpenses  int
}

// YearlyReportRow is one month of the yearly report
type YearlyReportRow struct {
	Key     MonthKey
	Label   string
	Revenue decimal.Decimal
	Costs   decimal.Decimal
	Balance decimal.Decimal
	Closed  bool
}
