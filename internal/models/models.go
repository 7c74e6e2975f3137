// Package models holds the marketplace entities (accounts, listings,
// reservations, transactions and ratings), their lifecycle rules and the
// contracts they consume from the pluggable policies and collaborators.
package models

import (
	"context"
	"strings"
	"time"
)

// Clock returns the current time. Entities and services take one so tests
// can pin timestamps.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

// PricingPolicy maps a base price and a duration to a total price.
// Implementations must be pure: the same inputs always give the same output.
type PricingPolicy interface {
	ComputePrice(basePrice float64, duration time.Duration) float64
	Name() string
	Description() string
}

// PaymentMethod moves value between two accounts.
//
// Pay mutates balances only when it reports success. Validate is a read-only
// confirmation that the payment behind a transaction holds.
type PaymentMethod interface {
	Name() string
	Pay(amount float64, payer, payee *Account) bool
	Validate(tx *Transaction) bool
}

// Observer receives the notifications a listing publishes.
type Observer interface {
	Receive(listing *Listing, message string)
}

// Scheduler is the external calendar the reservation lifecycle is mirrored
// to. Calls are best effort: a failure never blocks a local transition.
type Scheduler interface {
	AddEvent(ctx context.Context, r *Reservation) error
	RemoveEvent(ctx context.Context, reservationID string) error
	UpdateEvent(ctx context.Context, r *Reservation) error
	CheckAvailability(ctx context.Context, r *Reservation) (bool, error)
}

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
