package domain

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Area is a farm plot registered under a client
type Area struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Hectares decimal.Decimal `json:"hectares"`
}

// Client is a registry entry. PartnerSlot links the client to a roster
// slot when the client is also one of the company's partners.
type Client struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	Areas       []Area `json:"areas"`
	IsPartner   bool   `json:"isPartner"`
	PartnerSlot string `json:"partnerSlot,omitempty"`
}

// Area looks up an area by id
func (c Client) Area(id string) (Area, bool) {
	for _, a := range c.Areas {
		if a.ID == id {
			return a, true
		}
	}
	return Area{}, false
}

// Validate checks the client fields that do not depend on the rest of the registry
func (c Client) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if c.PartnerSlot != "" && !c.IsPartner {
		return ErrInvalidInput
	}
	for _, a := range c.Areas {
		if strings.TrimSpace(a.Name) == "" || !a.Hectares.IsPositive() {
			return ErrInvalidInput
		}
	}
	return nil
}

// PartnerLinks maps roster slot id to the linked client id. When two
// clients claim the same slot the first in registry order wins.
func PartnerLinks(clients []Client) map[string]string {
	links := make(map[string]string)
	for _, c := range clients {
		if !c.IsPartner || c.PartnerSlot == "" {
			continue
		}
		if _, ok := links[c.PartnerSlot]; !ok {
			links[c.PartnerSlot] = c.ID
		}
	}
	return links
}

// ClientRepository is the ledger store collection of clients
type ClientRepository interface {
	ListAll(ctx context.Context) ([]Client, error)
	Insert(ctx context.Context, client Client) error
	UpsertMany(ctx context.Context, clients []Client) error
	DeleteByID(ctx context.Context, id string) error
}
