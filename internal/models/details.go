package models

import (
	"fmt"
	"slices"
	"time"
)

// Details is the kind-specific payload of a listing. The set of
// implementations is closed: GoodDetails, ServiceDetails and GiftDetails.
type Details interface {
	Kind() Kind
	isDetails()
}

// GoodDetails describes an item lent or rented out.
type GoodDetails struct {
	Condition       string  `json:"condition"`
	Brand           string  `json:"brand,omitempty"`
	Model           string  `json:"model,omitempty"`
	Deposit         float64 `json:"deposit"`
	DepositRequired bool    `json:"deposit_required"`
	MaxLoanDays     int     `json:"max_loan_days"`
}

// NewGoodDetails returns a good in "good" condition lendable for a week.
func NewGoodDetails(condition string) *GoodDetails {
	if condition == "" {
		condition = "good"
	}
	return &GoodDetails{Condition: condition, MaxLoanDays: 7}
}

func (*GoodDetails) Kind() Kind { return KindGood }
func (*GoodDetails) isDetails() {}

// SetDeposit records the deposit. Any positive deposit makes it required.
func (g *GoodDetails) SetDeposit(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("deposit cannot be negative: %w", ErrValidation)
	}
	g.Deposit = amount
	if amount > 0 {
		g.DepositRequired = true
	}
	return nil
}

// ServiceDetails describes help offered by a member: tutoring, rides, repairs.
type ServiceDetails struct {
	ServiceKind      string         `json:"service_kind"`
	EstimatedMinutes int            `json:"estimated_minutes"`
	Days             []time.Weekday `json:"days,omitempty"`
	Hours            string         `json:"hours,omitempty"`
	TravelPossible   bool           `json:"travel_possible"`
	Expertise        string         `json:"expertise"`
	Skills           []string       `json:"skills,omitempty"`
}

// NewServiceDetails returns an hour-long intermediate service with travel.
func NewServiceDetails(serviceKind string) *ServiceDetails {
	return &ServiceDetails{
		ServiceKind:      serviceKind,
		EstimatedMinutes: 60,
		TravelPossible:   true,
		Expertise:        "intermediate",
	}
}

func (*ServiceDetails) Kind() Kind { return KindService }
func (*ServiceDetails) isDetails() {}

// AddDay adds an availability day once.
func (s *ServiceDetails) AddDay(day time.Weekday) {
	if !slices.Contains(s.Days, day) {
		s.Days = append(s.Days, day)
	}
}

// AddSkill adds a skill tag once.
func (s *ServiceDetails) AddSkill(skill string) {
	if skill != "" && !slices.Contains(s.Skills, skill) {
		s.Skills = append(s.Skills, skill)
	}
}

// GiftDetails describes something given away for free.
type GiftDetails struct {
	Condition          string `json:"condition"`
	Reason             string `json:"reason,omitempty"`
	PickupOnly         bool   `json:"pickup_only"`
	PickupInstructions string `json:"pickup_instructions,omitempty"`
	Quantity           int    `json:"quantity"`
}

// NewGiftDetails returns a single gift to be picked up on site.
func NewGiftDetails(condition, reason string) *GiftDetails {
	if condition == "" {
		condition = "good"
	}
	return &GiftDetails{Condition: condition, Reason: reason, PickupOnly: true, Quantity: 1}
}

func (*GiftDetails) Kind() Kind { return KindGift }
func (*GiftDetails) isDetails() {}

// SetQuantity sets how many units are left.
func (g *GiftDetails) SetQuantity(n int) error {
	if n < 0 {
		return fmt.Errorf("quantity cannot be negative: %w", ErrValidation)
	}
	g.Quantity = n
	return nil
}
