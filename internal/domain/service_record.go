package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ApplicationType is the kind of drone application performed
type ApplicationType string

const (
	ApplicationSpraying        ApplicationType = "spraying"
	ApplicationSolidDispersion ApplicationType = "solid_dispersion"
)

// Valid reports whether the application type is known
func (t ApplicationType) Valid() bool {
	return t == ApplicationSpraying || t == ApplicationSolidDispersion
}

// ServiceRecord is one billable application event
type ServiceRecord struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"date"`
	ClientID   string          `json:"clientId"`
	ClientName string          `json:"clientName"`
	AreaID     string          `json:"areaId"`
	AreaName   string          `json:"areaName"`
	Hectares   decimal.Decimal `json:"hectares"`
	Type       ApplicationType `json:"type"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalValue decimal.Decimal `json:"totalValue"`
	Closed     bool            `json:"closed"`
}

// ServiceTotal computes hectares x unit price rounded to cents
func ServiceTotal(hectares, unitPrice decimal.Decimal) decimal.Decimal {
	return hectares.Mul(unitPrice).Round(2)
}

// ServiceRecordRepository is the ledger store collection of service records
type ServiceRecordRepository interface {
	ListAll(ctx context.Context) ([]ServiceRecord, error)
	Insert(ctx context.Context, record ServiceRecord) error
	UpsertMany(ctx context.Context, records []ServiceRecord) error
	DeleteByID(ctx context.Context, id string) error
}
