package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PartnerRole tags how a roster slot takes part in the profit split
type PartnerRole string

const (
	PartnerRoleTechnical     PartnerRole = "technical"
	PartnerRolePartnerClient PartnerRole = "partner_client"
	PartnerRoleInstitutional PartnerRole = "institutional"
)

// PartnerSlot is one of the quotas in the profit split
type PartnerSlot struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	FullName string      `json:"fullName"`
	Role     PartnerRole `json:"role"`
}

// DeductionEligible reports whether the slot pays for hectares it contracted as a client
func (p PartnerSlot) DeductionEligible() bool {
	return p.Role == PartnerRolePartnerClient
}

// CarriesSalary reports whether the slot receives the fixed monthly salary
func (p PartnerSlot) CarriesSalary() bool {
	return p.Role == PartnerRoleTechnical
}

// Roster is the ordered list of partner slots
type Roster []PartnerSlot

// RosterSize is the number of quotas the net profit is split into
const RosterSize = 4

// DefaultRoster returns the company's partner roster
func DefaultRoster() Roster {
	return Roster{
		{ID: "geraldo", Name: "Geraldo", FullName: "Geraldo Júnior", Role: PartnerRoleTechnical},
		{ID: "kaka", Name: "Kaká", FullName: "Kaká Cardoso", Role: PartnerRolePartnerClient},
		{ID: "patrick", Name: "Patrick", FullName: "Patrick Brauner", Role: PartnerRolePartnerClient},
		{ID: "reserva", Name: "Reserva", FullName: "Fundo de Reserva", Role: PartnerRoleInstitutional},
	}
}

// Slot looks up a slot by id
func (r Roster) Slot(id string) (PartnerSlot, bool) {
	for _, p := range r {
		if p.ID == id {
			return p, true
		}
	}
	return PartnerSlot{}, false
}

// Validate checks the roster shape: four slots, two partner-clients, one technical
func (r Roster) Validate() error {
	if len(r) != RosterSize {
		return fmt.Errorf("%w: expected %d slots, got %d", ErrInvalidRoster, RosterSize, len(r))
	}
	seen := make(map[string]bool, len(r))
	var partnerClients, technical int
	for _, p := range r {
		if p.ID == "" || seen[p.ID] {
			return fmt.Errorf("%w: missing or duplicate slot id %q", ErrInvalidRoster, p.ID)
		}
		seen[p.ID] = true
		switch p.Role {
		case PartnerRolePartnerClient:
			partnerClients++
		case PartnerRoleTechnical:
			technical++
		case PartnerRoleInstitutional:
		default:
			return fmt.Errorf("%w: unknown role %q", ErrInvalidRoster, p.Role)
		}
	}
	if partnerClients != 2 {
		return fmt.Errorf("%w: expected 2 partner-client slots, got %d", ErrInvalidRoster, partnerClients)
	}
	if technical != 1 {
		return fmt.Errorf("%w: expected 1 technical slot, got %d", ErrInvalidRoster, technical)
	}
	return nil
}

// DistributionSettings carries the business constants consumed by the
// aggregator and the distribution calculator.
type DistributionSettings struct {
	// ServiceRate is charged per hectare a partner contracted as a client
	ServiceRate decimal.Decimal
	// FixedSalary is the technical partner's monthly salary, booked as a fixed cost
	FixedSalary decimal.Decimal
	Roster      Roster
}

// DefaultDistributionSettings returns R$100/ha, R$5000 salary and the default roster
func DefaultDistributionSettings() DistributionSettings {
	return DistributionSettings{
		ServiceRate: decimal.NewFromInt(100),
		FixedSalary: decimal.NewFromInt(5000),
		Roster:      DefaultRoster(),
	}
}

// Validate checks rates and roster
func (s DistributionSettings) Validate() error {
	if s.ServiceRate.IsNegative() {
		return fmt.Errorf("%w: service rate must not be negative", ErrInvalidInput)
	}
	if s.FixedSalary.IsNegative() {
		return fmt.Errorf("%w: fixed salary must not be negative", ErrInvalidInput)
	}
	return s.Roster.Validate()
}

// PartnerSummary is the computed payout of one roster slot
type PartnerSummary struct {
	SlotID      string           `json:"slotId"`
	Name        string           `json:"name"`
	Role        PartnerRole      `json:"role"`
	GrossProfit decimal.Decimal  `json:"grossProfit"`
	Deductions  decimal.Decimal  `json:"deductions"`
	NetProfit   decimal.Decimal  `json:"netProfit"`
	Salary      *decimal.Decimal `json:"salary,omitempty"`
}

// TotalTakeHome returns net profit plus salary when present
func (p PartnerSummary) TotalTakeHome() decimal.Decimal {
	if p.Salary == nil {
		return p.NetProfit
	}
	return p.NetProfit.Add(*p.Salary)
}

// OwesCapital reports the capital-call condition (negative net profit)
func (p PartnerSummary) OwesCapital() bool {
	return p.NetProfit.IsNegative()
}
