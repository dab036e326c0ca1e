package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one cost entry
type Expense struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Closed      bool            `json:"closed"`
}

// ExpenseRepository is the ledger store collection of expenses
type ExpenseRepository interface {
	ListAll(ctx context.Context) ([]Expense, error)
	Insert(ctx context.Context, expense Expense) error
	UpsertMany(ctx context.Context, expenses []Expense) error
	DeleteByID(ctx context.Context, id string) error
}
