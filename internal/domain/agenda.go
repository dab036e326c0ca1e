package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AgendaStatus tracks whether a scheduled application was confirmed
type AgendaStatus string

const (
	AgendaStatusPending   AgendaStatus = "pending"
	AgendaStatusConfirmed AgendaStatus = "confirmed"
)

// AgendaItem is a scheduled application that has not been executed yet
type AgendaItem struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"date"`
	ClientID   string          `json:"clientId"`
	ClientName string          `json:"clientName"`
	AreaID     string          `json:"areaId"`
	AreaName   string          `json:"areaName"`
	Hectares   decimal.Decimal `json:"hectares"`
	Type       ApplicationType `json:"type"`
	Notes      string          `json:"notes,omitempty"`
	CreatedBy  string          `json:"createdBy"`
	Status     AgendaStatus    `json:"status"`
}

// AgendaRepository is the ledger store collection of agenda items
type AgendaRepository interface {
	ListAll(ctx context.Context) ([]AgendaItem, error)
	Insert(ctx context.Context, item AgendaItem) error
	UpsertMany(ctx context.Context, items []AgendaItem) error
	DeleteByID(ctx context.Context, id string) error
}
