package service

import (
	"context"
	"errors"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceRecordService handles billable application records
type ServiceRecordService struct {
	serviceRepo     domain.ServiceRecordRepository
	clientRepo      domain.ClientRepository
	closedMonthRepo domain.ClosedMonthRepository
}

// NewServiceRecordService creates a new ServiceRecordService
func NewServiceRecordService(
	serviceRepo domain.ServiceRecordRepository,
	clientRepo domain.ClientRepository,
	closedMonthRepo domain.ClosedMonthRepository,
) *ServiceRecordService {
	return &ServiceRecordService{
		serviceRepo:     serviceRepo,
		clientRepo:      clientRepo,
		closedMonthRepo: closedMonthRepo,
	}
}

// ServiceRecordInput holds the input for registering an application.
// A zero Hectares defaults to the whole area.
type ServiceRecordInput struct {
	Date      time.Time
	ClientID  string
	AreaID    string
	Hectares  decimal.Decimal
	Type      domain.ApplicationType
	UnitPrice decimal.Decimal
}

// CreateServiceRecord registers an application. The total is hectares x
// unit price rounded to cents; client and area names are copied from the registry.
func (s *ServiceRecordService) CreateServiceRecord(ctx context.Context, input ServiceRecordInput) (*domain.ServiceRecord, error) {
	if !input.Type.Valid() || !input.UnitPrice.IsPositive() || input.Hectares.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	key := domain.MonthKeyOf(input.Date)
	if !key.Valid() {
		return nil, domain.ErrInvalidInput
	}

	client, area, err := resolveClientArea(ctx, s.clientRepo, input.ClientID, input.AreaID)
	if err != nil {
		return nil, err
	}
	hectares := input.Hectares
	if hectares.IsZero() {
		hectares = area.Hectares
	}

	if err := ensureMonthOpen(ctx, s.closedMonthRepo, key); err != nil {
		return nil, err
	}

	record := domain.ServiceRecord{
		ID:         uuid.NewString(),
		Date:       calendarDay(input.Date),
		ClientID:   client.ID,
		ClientName: client.Name,
		AreaID:     area.ID,
		AreaName:   area.Name,
		Hectares:   hectares,
		Type:       input.Type,
		UnitPrice:  input.UnitPrice,
		TotalValue: domain.ServiceTotal(hectares, input.UnitPrice),
	}
	if err := s.serviceRepo.Insert(ctx, record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListServiceRecords returns the month's records in date order
func (s *ServiceRecordService) ListServiceRecords(ctx context.Context, key domain.MonthKey, scope AggregationScope) ([]domain.ServiceRecord, error) {
	if !key.Valid() {
		return nil, domain.ErrInvalidMonthKey
	}
	records, err := s.serviceRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return AggregatePeriod(key, scope, records, nil, domain.DistributionSettings{}).PeriodServices, nil
}

// DeleteServiceRecord removes a record that is still in the open cycle
func (s *ServiceRecordService) DeleteServiceRecord(ctx context.Context, id string) error {
	records, err := s.serviceRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.ID != id {
			continue
		}
		if r.Closed {
			return domain.ErrRecordClosed
		}
		if err := ensureMonthOpen(ctx, s.closedMonthRepo, domain.MonthKeyOf(r.Date)); err != nil {
			return err
		}
		return s.serviceRepo.DeleteByID(ctx, id)
	}
	return domain.ErrServiceNotFound
}

func resolveClientArea(ctx context.Context, clientRepo domain.ClientRepository, clientID, areaID string) (domain.Client, domain.Area, error) {
	clients, err := clientRepo.ListAll(ctx)
	if err != nil {
		return domain.Client{}, domain.Area{}, err
	}
	client, ok := findClient(clients, clientID)
	if !ok {
		return domain.Client{}, domain.Area{}, domain.ErrClientNotFound
	}
	area, ok := client.Area(areaID)
	if !ok {
		return domain.Client{}, domain.Area{}, domain.ErrAreaNotFound
	}
	return client, area, nil
}

// ensureMonthOpen rejects writes into a month that has an archive
func ensureMonthOpen(ctx context.Context, closedMonthRepo domain.ClosedMonthRepository, key domain.MonthKey) error {
	_, err := closedMonthRepo.GetByKey(ctx, key)
	if err == nil {
		return domain.ErrMonthClosed
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// calendarDay drops the time of day, keeping the caller's calendar date
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
