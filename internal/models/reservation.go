package models

import (
	"fmt"
	"time"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "PENDING"
	ReservationConfirmed  ReservationStatus = "CONFIRMED"
	ReservationInProgress ReservationStatus = "IN_PROGRESS"
	ReservationCompleted  ReservationStatus = "COMPLETED"
	ReservationCancelled  ReservationStatus = "CANCELLED"
	ReservationRefused    ReservationStatus = "REFUSED"
)

// ParseReservationStatus accepts the status names case-insensitively.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch st := ReservationStatus(upper(s)); st {
	case ReservationPending, ReservationConfirmed, ReservationInProgress,
		ReservationCompleted, ReservationCancelled, ReservationRefused:
		return st, nil
	}
	return "", fmt.Errorf("unknown reservation status %q: %w", s, ErrValidation)
}

// Terminal reports whether no transition leaves the status.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCompleted || s == ReservationCancelled || s == ReservationRefused
}

// Reservation is a time-bounded claim on a listing. Its total price is
// derived from the listing's base price, the window and the pricing policy,
// and is recomputed whenever one of the last two changes.
type Reservation struct {
	id        string
	listing   *Listing
	requester *Account
	owner     *Account
	start     time.Time
	end       time.Time
	createdAt time.Time
	status    ReservationStatus
	total     float64
	message   string
	policy    PricingPolicy
}

// NewReservation builds a PENDING reservation and prices it. The owner is
// copied from the listing now and is not re-read later.
func NewReservation(id string, listing *Listing, requester *Account, start, end time.Time, policy PricingPolicy, createdAt time.Time) (*Reservation, error) {
	if listing == nil || requester == nil {
		return nil, fmt.Errorf("reservation needs a listing and a requester: %w", ErrValidation)
	}
	if policy == nil {
		return nil, fmt.Errorf("reservation needs a pricing policy: %w", ErrValidation)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("reservation end %s must be after start %s: %w",
			end.Format(time.RFC3339), start.Format(time.RFC3339), ErrValidation)
	}
	r := &Reservation{
		id:        id,
		listing:   listing,
		requester: requester,
		owner:     listing.Owner(),
		start:     start,
		end:       end,
		createdAt: createdAt,
		status:    ReservationPending,
		policy:    policy,
	}
	r.recompute()
	return r, nil
}

func (r *Reservation) ID() string                { return r.id }
func (r *Reservation) Listing() *Listing         { return r.listing }
func (r *Reservation) Requester() *Account       { return r.requester }
func (r *Reservation) Owner() *Account           { return r.owner }
func (r *Reservation) StartsAt() time.Time       { return r.start }
func (r *Reservation) EndsAt() time.Time         { return r.end }
func (r *Reservation) CreatedAt() time.Time      { return r.createdAt }
func (r *Reservation) Status() ReservationStatus { return r.status }
func (r *Reservation) TotalPrice() float64       { return r.total }
func (r *Reservation) Message() string           { return r.message }
func (r *Reservation) Policy() PricingPolicy     { return r.policy }
func (r *Reservation) Duration() time.Duration   { return r.end.Sub(r.start) }

// Hours returns the whole hours in the window.
func (r *Reservation) Hours() int64 { return int64(r.Duration() / time.Hour) }

// CanBeRated reports whether participants may rate each other.
func (r *Reservation) CanBeRated() bool { return r.status == ReservationCompleted }

// Involves reports whether the account is the requester or the owner.
func (r *Reservation) Involves(a *Account) bool {
	return r.requester.Is(a) || r.owner.Is(a)
}

func (r *Reservation) SetMessage(msg string) { r.message = msg }

// SetPolicy swaps the pricing policy and reprices.
func (r *Reservation) SetPolicy(p PricingPolicy) error {
	if p == nil {
		return fmt.Errorf("reservation needs a pricing policy: %w", ErrValidation)
	}
	r.policy = p
	r.recompute()
	return nil
}

// Reschedule moves the window and reprices.
func (r *Reservation) Reschedule(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("reservation end must be after start: %w", ErrValidation)
	}
	r.start, r.end = start, end
	r.recompute()
	return nil
}

// Recompute reprices from the listing's current base price.
func (r *Reservation) Recompute() float64 {
	r.recompute()
	return r.total
}

func (r *Reservation) recompute() {
	r.total = r.policy.ComputePrice(r.listing.BasePrice(), r.Duration())
}

// The transition methods below report whether the status changed. A call
// from a state the transition does not leave is ignored.

// Confirm moves PENDING to CONFIRMED.
func (r *Reservation) Confirm() bool {
	return r.move(ReservationConfirmed, ReservationPending)
}

// Start moves CONFIRMED to IN_PROGRESS.
func (r *Reservation) Start() bool {
	return r.move(ReservationInProgress, ReservationConfirmed)
}

// Complete moves IN_PROGRESS or CONFIRMED to COMPLETED.
func (r *Reservation) Complete() bool {
	return r.move(ReservationCompleted, ReservationInProgress, ReservationConfirmed)
}

// Cancel moves PENDING or CONFIRMED to CANCELLED.
func (r *Reservation) Cancel() bool {
	return r.move(ReservationCancelled, ReservationPending, ReservationConfirmed)
}

// Refuse moves PENDING to REFUSED.
func (r *Reservation) Refuse() bool {
	return r.move(ReservationRefused, ReservationPending)
}

func (r *Reservation) move(to ReservationStatus, from ...ReservationStatus) bool {
	for _, f := range from {
		if r.status == f {
			r.status = to
			return true
		}
	}
	return false
}

func (r *Reservation) String() string {
	return fmt.Sprintf("Reservation[%s] %s %s -> %s by %s, %.2f, %s",
		r.id, r.listing.Title(),
		r.start.Format(time.DateOnly), r.end.Format(time.DateOnly),
		r.requester.FullName(), r.total, r.status)
}
