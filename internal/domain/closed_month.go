package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ClosedMonth is the immutable archive of a closed month. Its existence
// is the only source of truth for a month being closed.
type ClosedMonth struct {
	ID               string           `json:"id"`
	Key              MonthKey         `json:"-"`
	Label            string           `json:"label"`
	TotalRevenue     decimal.Decimal  `json:"totalRevenue"`
	TotalExpenses    decimal.Decimal  `json:"totalExpenses"`
	NetProfit        decimal.Decimal  `json:"netProfit"`
	Hectares         decimal.Decimal  `json:"hectares"`
	Services         []ServiceRecord  `json:"services"`
	Expenses         []Expense        `json:"expenses"`
	PartnerSummaries []PartnerSummary `json:"partnerSummaries"`
	ClosedAt         time.Time        `json:"closedAt"`
}

// MonthState is derived from archive existence
type MonthState string

const (
	MonthStateOpen   MonthState = "open"
	MonthStateClosed MonthState = "closed"
)

// MonthStatus reports the state of a month and its archive when closed
type MonthStatus struct {
	Key     MonthKey
	State   MonthState
	Archive *ClosedMonth
}

// ClosedMonthRepository is the ledger store collection of archives.
// Insert must fail with ErrMonthAlreadyClosed when the key is taken.
type ClosedMonthRepository interface {
	ListAll(ctx context.Context) ([]ClosedMonth, error)
	GetByKey(ctx context.Context, key MonthKey) (*ClosedMonth, error)
	Insert(ctx context.Context, month ClosedMonth) error
	DeleteByKey(ctx context.Context, key MonthKey) error
}

// ArchiveExporter mirrors archives outside the ledger store
type ArchiveExporter interface {
	Export(ctx context.Context, month ClosedMonth) error
	Remove(ctx context.Context, key MonthKey) error
}
