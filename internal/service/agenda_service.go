package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AgendaService handles scheduled applications
type AgendaService struct {
	agendaRepo     domain.AgendaRepository
	clientRepo     domain.ClientRepository
	serviceRecords *ServiceRecordService
}

// NewAgendaService creates a new AgendaService
func NewAgendaService(agendaRepo domain.AgendaRepository, clientRepo domain.ClientRepository, serviceRecords *ServiceRecordService) *AgendaService {
	return &AgendaService{
		agendaRepo:     agendaRepo,
		clientRepo:     clientRepo,
		serviceRecords: serviceRecords,
	}
}

// AgendaInput holds the input for scheduling an application
type AgendaInput struct {
	Date      time.Time
	ClientID  string
	AreaID    string
	Hectares  decimal.Decimal
	Type      domain.ApplicationType
	Notes     string
	CreatedBy string
}

// CreateAgendaItem schedules an application as pending
func (s *AgendaService) CreateAgendaItem(ctx context.Context, input AgendaInput) (*domain.AgendaItem, error) {
	if !input.Type.Valid() || input.Hectares.IsNegative() || !domain.MonthKeyOf(input.Date).Valid() {
		return nil, domain.ErrInvalidInput
	}
	notes := strings.TrimSpace(input.Notes)
	if len(notes) > domain.MaxDescriptionLength {
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

	item := domain.AgendaItem{
		ID:         uuid.NewString(),
		Date:       calendarDay(input.Date),
		ClientID:   client.ID,
		ClientName: client.Name,
		AreaID:     area.ID,
		AreaName:   area.Name,
		Hectares:   hectares,
		Type:       input.Type,
		Notes:      notes,
		CreatedBy:  strings.TrimSpace(input.CreatedBy),
		Status:     domain.AgendaStatusPending,
	}
	if err := s.agendaRepo.Insert(ctx, item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListAgenda returns the month's scheduled applications in date order
func (s *AgendaService) ListAgenda(ctx context.Context, key domain.MonthKey) ([]domain.AgendaItem, error) {
	if !key.Valid() {
		return nil, domain.ErrInvalidMonthKey
	}
	items, err := s.agendaRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.AgendaItem, 0, len(items))
	for _, item := range items {
		if key.Contains(item.Date) {
			result = append(result, item)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// ConfirmAgendaItem marks a scheduled application as confirmed with the client
func (s *AgendaService) ConfirmAgendaItem(ctx context.Context, id string) (*domain.AgendaItem, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Status = domain.AgendaStatusConfirmed
	if err := s.agendaRepo.UpsertMany(ctx, []domain.AgendaItem{item}); err != nil {
		return nil, err
	}
	return &item, nil
}

// ExecuteAgendaItem turns a scheduled application into a service record
// billed at unitPrice and removes it from the agenda.
func (s *AgendaService) ExecuteAgendaItem(ctx context.Context, id string, unitPrice decimal.Decimal) (*domain.ServiceRecord, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	record, err := s.serviceRecords.CreateServiceRecord(ctx, ServiceRecordInput{
		Date:      item.Date,
		ClientID:  item.ClientID,
		AreaID:    item.AreaID,
		Hectares:  item.Hectares,
		Type:      item.Type,
		UnitPrice: unitPrice,
	})
	if err != nil {
		return nil, err
	}

	if err := s.agendaRepo.DeleteByID(ctx, id); err != nil {
		// the record exists; a leftover agenda entry can be deleted by hand
		log.Warn().Err(err).Str("agenda_id", id).Str("service_id", record.ID).Msg("Failed to remove executed agenda item")
		return record, fmt.Errorf("remove executed agenda item %s: %w", id, err)
	}
	return record, nil
}

// DeleteAgendaItem removes a scheduled application
func (s *AgendaService) DeleteAgendaItem(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return s.agendaRepo.DeleteByID(ctx, id)
}

func (s *AgendaService) find(ctx context.Context, id string) (domain.AgendaItem, error) {
	items, err := s.agendaRepo.ListAll(ctx)
	if err != nil {
		return domain.AgendaItem{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.AgendaItem{}, domain.ErrAgendaNotFound
}
