package service

import (
	"context"
	"errors"
	"testing"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/droneflow/droneflow-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newClientService() (*ClientService, *testutil.MockClientRepository) {
	repo := testutil.NewMockClientRepository()
	return NewClientService(repo, domain.DefaultRoster()), repo
}

func TestCreateClient_Success(t *testing.T) {
	svc, repo := newClientService()

	client, err := svc.CreateClient(context.Background(), ClientInput{
		Name:    "  Fazenda Santa Rita ",
		Contact: "55 99999-0000",
		Areas: []AreaInput{
			{Name: "Talhão 1", Hectares: decimal.NewFromInt(40)},
			{Name: "Talhão 2", Hectares: decimal.RequireFromString("12.5")},
		},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if client.Name != "Fazenda Santa Rita" {
		t.Errorf("Expected trimmed name, got %q", client.Name)
	}
	if client.ID == "" {
		t.Error("Expected generated id")
	}
	if len(client.Areas) != 2 || client.Areas[0].ID == "" || client.Areas[0].ID == client.Areas[1].ID {
		t.Errorf("Expected two areas with distinct ids, got %+v", client.Areas)
	}
	if len(repo.Clients) != 1 {
		t.Errorf("Expected client to be stored, got %d", len(repo.Clients))
	}
}

func TestCreateClient_NameRequired(t *testing.T) {
	svc, _ := newClientService()

	_, err := svc.CreateClient(context.Background(), ClientInput{Name: "   "})
	if !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestCreateClient_RejectsEmptyArea(t *testing.T) {
	svc, _ := newClientService()

	_, err := svc.CreateClient(context.Background(), ClientInput{
		Name:  "Fazenda",
		Areas: []AreaInput{{Name: "Talhão", Hectares: decimal.Zero}},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateClient_PartnerSlotRules(t *testing.T) {
	tests := []struct {
		name    string
		slot    string
		wantErr error
	}{
		{"partner client slot", "kaka", nil},
		{"unknown slot", "joao", domain.ErrUnknownPartnerSlot},
		{"technical slot", "geraldo", domain.ErrPartnerSlotRole},
		{"institutional slot", "reserva", domain.ErrPartnerSlotRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newClientService()
			_, err := svc.CreateClient(context.Background(), ClientInput{
				Name:        "Partner farm",
				IsPartner:   true,
				PartnerSlot: tt.slot,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateClient_PartnerSlotTaken(t *testing.T) {
	svc, repo := newClientService()
	repo.AddClient(domain.Client{ID: "p1", Name: "Kaká", IsPartner: true, PartnerSlot: "kaka"})

	_, err := svc.CreateClient(context.Background(), ClientInput{Name: "Another", IsPartner: true, PartnerSlot: "kaka"})
	if !errors.Is(err, domain.ErrPartnerSlotTaken) {
		t.Errorf("Expected ErrPartnerSlotTaken, got %v", err)
	}
}

func TestCreateClient_SlotRequiresPartnerFlag(t *testing.T) {
	svc, repo := newClientService()

	_, err := svc.CreateClient(context.Background(), ClientInput{Name: "Ordinary", PartnerSlot: "kaka"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if len(repo.Clients) != 0 {
		t.Errorf("Expected nothing stored, got %d clients", len(repo.Clients))
	}

	client, err := svc.CreateClient(context.Background(), ClientInput{Name: "Ordinary", PartnerSlot: "  "})
	if err != nil {
		t.Fatalf("Expected blank slot to be accepted, got %v", err)
	}
	if client.PartnerSlot != "" {
		t.Errorf("Expected no slot, got %q", client.PartnerSlot)
	}
}

func TestUpdateClient_KeepsOwnSlotAndAreaIDs(t *testing.T) {
	svc, repo := newClientService()
	repo.AddClient(domain.Client{
		ID: "p1", Name: "Kaká", IsPartner: true, PartnerSlot: "kaka",
		Areas: []domain.Area{{ID: "a1", Name: "Sede", Hectares: decimal.NewFromInt(20)}},
	})

	client, err := svc.UpdateClient(context.Background(), "p1", ClientInput{
		Name:        "Kaká Cardoso",
		IsPartner:   true,
		PartnerSlot: "kaka",
		Areas:       []AreaInput{{ID: "a1", Name: "Sede", Hectares: decimal.NewFromInt(25)}},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if client.Areas[0].ID != "a1" {
		t.Errorf("Expected area id to be kept, got %s", client.Areas[0].ID)
	}
	if repo.Clients[0].Name != "Kaká Cardoso" {
		t.Errorf("Expected stored name to change, got %s", repo.Clients[0].Name)
	}
}

func TestUpdateClient_NotFound(t *testing.T) {
	svc, _ := newClientService()

	_, err := svc.UpdateClient(context.Background(), "missing", ClientInput{Name: "X"})
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("Expected ErrClientNotFound, got %v", err)
	}
}

func TestDeleteClient(t *testing.T) {
	svc, repo := newClientService()
	repo.AddClient(domain.Client{ID: "c1", Name: "Fazenda"})

	if err := svc.DeleteClient(context.Background(), "c1"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(repo.Clients) != 0 {
		t.Errorf("Expected client removed, got %d left", len(repo.Clients))
	}

	if err := svc.DeleteClient(context.Background(), "c1"); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("Expected ErrClientNotFound, got %v", err)
	}
}
