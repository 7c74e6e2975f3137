package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/Houssam365/campuShare/internal/idgen"
	"github.com/Houssam365/campuShare/internal/models"
	"github.com/Houssam365/campuShare/internal/pricing"
)

// DefaultCalendarTimeout bounds every call to the external calendar.
const DefaultCalendarTimeout = 2 * time.Second

// ReservationLedger creates reservations and drives their lifecycle. Besides
// moving the reservation it keeps the listing status and the external
// calendar in line.
//
// A lifecycle call from a state the transition does not leave is ignored and
// reported as (false, nil), unless the ledger is strict, in which case it
// fails with models.ErrState. Side effects only run when the reservation
// actually moved.
type ReservationLedger struct {
	ids       idgen.Source
	clock     models.Clock
	policies  *pricing.Registry
	scheduler models.Scheduler
	timeout   time.Duration
	strict    bool
	logger    *log.Logger

	reservations []*models.Reservation
	byID         map[string]*models.Reservation
}

// LedgerOption configures a ReservationLedger.
type LedgerOption func(*ReservationLedger)

// WithScheduler mirrors confirmed reservations into an external calendar.
func WithScheduler(s models.Scheduler) LedgerOption {
	return func(l *ReservationLedger) { l.scheduler = s }
}

// WithCalendarTimeout bounds each calendar call.
func WithCalendarTimeout(d time.Duration) LedgerOption {
	return func(l *ReservationLedger) { l.timeout = d }
}

// WithStrictTransitions turns ignored lifecycle calls into errors.
func WithStrictTransitions(strict bool) LedgerOption {
	return func(l *ReservationLedger) { l.strict = strict }
}

// WithPolicies sets the pricing policies CreateNamed resolves names with.
func WithPolicies(r *pricing.Registry) LedgerOption {
	return func(l *ReservationLedger) { l.policies = r }
}

// WithLedgerLogger sets where calendar failures are reported.
func WithLedgerLogger(logger *log.Logger) LedgerOption {
	return func(l *ReservationLedger) { l.logger = logger }
}

// WithIDs sets the reservation id source.
func WithIDs(ids idgen.Source) LedgerOption {
	return func(l *ReservationLedger) { l.ids = ids }
}

// WithClock sets the clock reservations are stamped with.
func WithClock(clock models.Clock) LedgerOption {
	return func(l *ReservationLedger) { l.clock = clock }
}

func NewReservationLedger(opts ...LedgerOption) *ReservationLedger {
	l := &ReservationLedger{
		ids:     idgen.WithPrefix("RES-", idgen.UUID()),
		clock:   models.SystemClock,
		timeout: DefaultCalendarTimeout,
		byID:    make(map[string]*models.Reservation),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.policies == nil {
		l.policies = pricing.NewRegistry(pricing.DefaultHourlyRate, pricing.DefaultDailyDiscount)
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard, "", 0)
	}
	return l
}

func (l *ReservationLedger) Strict() bool { return l.strict }

// Create books listing for requester over [start, end) priced by policy.
// The window is checked first, then self-dealing, then availability. Nothing
// is recorded when a check fails.
func (l *ReservationLedger) Create(listing *models.Listing, requester *models.Account, start, end time.Time, policy models.PricingPolicy) (*models.Reservation, error) {
	if listing == nil || requester == nil {
		return nil, fmt.Errorf("reservation needs a listing and a requester: %w", models.ErrValidation)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("reservation end must be after start: %w", models.ErrValidation)
	}
	if requester.Is(listing.Owner()) {
		return nil, fmt.Errorf("reserve %q: %w", listing.Title(), models.ErrSelfDealing)
	}
	if !listing.IsAvailable() {
		return nil, fmt.Errorf("listing %q is %s, not available: %w", listing.Title(), listing.Status(), models.ErrState)
	}
	r, err := models.NewReservation(l.ids(), listing, requester, start, end, policy, l.clock())
	if err != nil {
		return nil, err
	}
	l.reservations = append(l.reservations, r)
	l.byID[r.ID()] = r
	listing.Publish(fmt.Sprintf("new reservation request from %s for '%s'", requester.FullName(), listing.Title()))
	return r, nil
}

// CreateNamed is Create with the policy looked up by name.
func (l *ReservationLedger) CreateNamed(listing *models.Listing, requester *models.Account, start, end time.Time, policy string) (*models.Reservation, error) {
	p, err := l.policies.ByName(policy)
	if err != nil {
		return nil, err
	}
	return l.Create(listing, requester, start, end, p)
}

func (l *ReservationLedger) ReserveHourly(listing *models.Listing, requester *models.Account, start, end time.Time) (*models.Reservation, error) {
	return l.CreateNamed(listing, requester, start, end, pricing.NameHourly)
}

func (l *ReservationLedger) ReserveDaily(listing *models.Listing, requester *models.Account, start, end time.Time) (*models.Reservation, error) {
	return l.CreateNamed(listing, requester, start, end, pricing.NameDaily)
}

func (l *ReservationLedger) ReserveFlat(listing *models.Listing, requester *models.Account, start, end time.Time) (*models.Reservation, error) {
	return l.CreateNamed(listing, requester, start, end, pricing.NameFlat)
}

func (l *ReservationLedger) ReserveFree(listing *models.Listing, requester *models.Account, start, end time.Time) (*models.Reservation, error) {
	return l.CreateNamed(listing, requester, start, end, pricing.NameFree)
}

func (l *ReservationLedger) ignored(r *models.Reservation, action string) (bool, error) {
	if l.strict {
		return false, fmt.Errorf("cannot %s reservation %s in status %s: %w", action, r.ID(), r.Status(), models.ErrState)
	}
	return false, nil
}

// Confirm accepts a pending request. The listing becomes RESERVED and the
// booking is added to the calendar.
func (l *ReservationLedger) Confirm(r *models.Reservation) (bool, error) {
	if !r.Confirm() {
		return l.ignored(r, "confirm")
	}
	listing := r.Listing()
	listing.ChangeStatus(models.ListingReserved)
	l.mirror("add", r.ID(), func(ctx context.Context) error { return l.scheduler.AddEvent(ctx, r) })
	listing.Publish("reservation confirmed for: " + listing.Title())
	return true, nil
}

// Start marks a confirmed reservation as under way.
func (l *ReservationLedger) Start(r *models.Reservation) (bool, error) {
	if !r.Start() {
		return l.ignored(r, "start")
	}
	return true, nil
}

// Complete closes a reservation. The listing becomes ACTIVE again and the
// calendar event is removed.
func (l *ReservationLedger) Complete(r *models.Reservation) (bool, error) {
	if !r.Complete() {
		return l.ignored(r, "complete")
	}
	r.Listing().ChangeStatus(models.ListingActive)
	l.mirror("remove", r.ID(), func(ctx context.Context) error { return l.scheduler.RemoveEvent(ctx, r.ID()) })
	return true, nil
}

// Cancel withdraws a pending or confirmed reservation. A RESERVED listing is
// made ACTIVE again; any other listing status is left alone.
func (l *ReservationLedger) Cancel(r *models.Reservation) (bool, error) {
	if !r.Cancel() {
		return l.ignored(r, "cancel")
	}
	listing := r.Listing()
	if listing.Status() == models.ListingReserved {
		listing.ChangeStatus(models.ListingActive)
	}
	l.mirror("remove", r.ID(), func(ctx context.Context) error { return l.scheduler.RemoveEvent(ctx, r.ID()) })
	listing.Publish("reservation cancelled for: " + listing.Title())
	return true, nil
}

// Refuse declines a pending request.
func (l *ReservationLedger) Refuse(r *models.Reservation) (bool, error) {
	if !r.Refuse() {
		return l.ignored(r, "refuse")
	}
	return true, nil
}

// ChangePolicy reprices a reservation with another policy.
func (l *ReservationLedger) ChangePolicy(r *models.Reservation, policy models.PricingPolicy) error {
	if r.Status().Terminal() {
		return fmt.Errorf("reservation %s is %s: %w", r.ID(), r.Status(), models.ErrState)
	}
	return r.SetPolicy(policy)
}

// ChangePolicyNamed is ChangePolicy with the policy looked up by name.
func (l *ReservationLedger) ChangePolicyNamed(r *models.Reservation, policy string) error {
	p, err := l.policies.ByName(policy)
	if err != nil {
		return err
	}
	return l.ChangePolicy(r, p)
}

// Reschedule moves a reservation's window and reprices it. A booking already
// in the calendar is updated there.
func (l *ReservationLedger) Reschedule(r *models.Reservation, start, end time.Time) error {
	if r.Status().Terminal() {
		return fmt.Errorf("reservation %s is %s: %w", r.ID(), r.Status(), models.ErrState)
	}
	if err := r.Reschedule(start, end); err != nil {
		return err
	}
	if s := r.Status(); s == models.ReservationConfirmed || s == models.ReservationInProgress {
		l.mirror("update", r.ID(), func(ctx context.Context) error { return l.scheduler.UpdateEvent(ctx, r) })
	}
	return nil
}

// CheckCalendar asks the calendar whether the window is free. Without a
// calendar every window is free.
func (l *ReservationLedger) CheckCalendar(r *models.Reservation) (bool, error) {
	if l.scheduler == nil {
		return true, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	return l.scheduler.CheckAvailability(ctx, r)
}

// mirror runs a calendar call. Failures are logged and dropped: the local
// transition has already happened and stands.
func (l *ReservationLedger) mirror(op, reservationID string, call func(ctx context.Context) error) {
	if l.scheduler == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	if err := call(ctx); err != nil {
		l.logger.Printf("calendar %s for reservation %s failed: %v", op, reservationID, err)
	}
}

// Find looks a reservation up by id.
func (l *ReservationLedger) Find(id string) (*models.Reservation, error) {
	r, ok := l.byID[id]
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", id, models.ErrNotFound)
	}
	return r, nil
}

// All returns every reservation in creation order.
func (l *ReservationLedger) All() []*models.Reservation {
	return append([]*models.Reservation(nil), l.reservations...)
}

func (l *ReservationLedger) filter(keep func(*models.Reservation) bool) []*models.Reservation {
	var out []*models.Reservation
	for _, r := range l.reservations {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// ByRequester returns the reservations an account asked for.
func (l *ReservationLedger) ByRequester(accountID string) []*models.Reservation {
	return l.filter(func(r *models.Reservation) bool { return r.Requester().ID == accountID })
}

// ByOwner returns the reservations made on an account's listings.
func (l *ReservationLedger) ByOwner(accountID string) []*models.Reservation {
	return l.filter(func(r *models.Reservation) bool { return r.Owner().ID == accountID })
}

// PendingForOwner returns the requests an owner has yet to answer.
func (l *ReservationLedger) PendingForOwner(accountID string) []*models.Reservation {
	return l.filter(func(r *models.Reservation) bool {
		return r.Owner().ID == accountID && r.Status() == models.ReservationPending
	})
}

// ByAccount returns the reservations an account takes part in on either side.
func (l *ReservationLedger) ByAccount(accountID string) []*models.Reservation {
	return l.filter(func(r *models.Reservation) bool {
		return r.Requester().ID == accountID || r.Owner().ID == accountID
	})
}

func (l *ReservationLedger) ByStatus(status models.ReservationStatus) []*models.Reservation {
	return l.filter(func(r *models.Reservation) bool { return r.Status() == status })
}

func (l *ReservationLedger) Count() int { return len(l.reservations) }
