package service

import (
	"context"
	"strings"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientService handles the client registry
type ClientService struct {
	clientRepo domain.ClientRepository
	roster     domain.Roster
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo domain.ClientRepository, roster domain.Roster) *ClientService {
	return &ClientService{clientRepo: clientRepo, roster: roster}
}

// AreaInput holds one area of a client form. An empty ID creates a new area.
type AreaInput struct {
	ID       string
	Name     string
	Hectares decimal.Decimal
}

// ClientInput holds the input for creating or editing a client
type ClientInput struct {
	Name        string
	Contact     string
	Areas       []AreaInput
	IsPartner   bool
	PartnerSlot string
}

// ListClients returns the whole registry
func (s *ClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clientRepo.ListAll(ctx)
}

// GetClient returns a client by id
func (s *ClientService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	clients, err := s.clientRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	client, ok := findClient(clients, id)
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return &client, nil
}

// CreateClient registers a new client
func (s *ClientService) CreateClient(ctx context.Context, input ClientInput) (*domain.Client, error) {
	clients, err := s.clientRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	client := buildClient(uuid.NewString(), input)
	if err := s.validate(client, clients); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Insert(ctx, client); err != nil {
		return nil, err
	}
	return &client, nil
}

// UpdateClient replaces the editable fields of a client. Areas keep their ids
// when the input carries them so existing service records still resolve.
func (s *ClientService) UpdateClient(ctx context.Context, id string, input ClientInput) (*domain.Client, error) {
	clients, err := s.clientRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := findClient(clients, id); !ok {
		return nil, domain.ErrClientNotFound
	}

	client := buildClient(id, input)
	if err := s.validate(client, clients); err != nil {
		return nil, err
	}

	if err := s.clientRepo.UpsertMany(ctx, []domain.Client{client}); err != nil {
		return nil, err
	}
	return &client, nil
}

// DeleteClient removes a client. Historical records keep the denormalized name.
func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	clients, err := s.clientRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	if _, ok := findClient(clients, id); !ok {
		return domain.ErrClientNotFound
	}
	return s.clientRepo.DeleteByID(ctx, id)
}

// validate checks the client itself and its partner link against the registry
func (s *ClientService) validate(client domain.Client, registry []domain.Client) error {
	if err := client.Validate(); err != nil {
		return err
	}
	if client.PartnerSlot == "" {
		return nil
	}

	slot, ok := s.roster.Slot(client.PartnerSlot)
	if !ok {
		return domain.ErrUnknownPartnerSlot
	}
	if !slot.DeductionEligible() {
		return domain.ErrPartnerSlotRole
	}
	for _, other := range registry {
		if other.ID != client.ID && other.IsPartner && other.PartnerSlot == client.PartnerSlot {
			return domain.ErrPartnerSlotTaken
		}
	}
	return nil
}

func buildClient(id string, input ClientInput) domain.Client {
	client := domain.Client{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Contact:     strings.TrimSpace(input.Contact),
		Areas:       make([]domain.Area, 0, len(input.Areas)),
		IsPartner:   input.IsPartner,
		PartnerSlot: strings.TrimSpace(input.PartnerSlot),
	}
	for _, a := range input.Areas {
		areaID := a.ID
		if areaID == "" {
			areaID = uuid.NewString()
		}
		client.Areas = append(client.Areas, domain.Area{
			ID:       areaID,
			Name:     strings.TrimSpace(a.Name),
			Hectares: a.Hectares,
		})
	}
	return client
}

func findClient(clients []domain.Client, id string) (domain.Client, bool) {
	for _, c := range clients {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Client{}, false
}
