package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Houssam365/campuShare/internal/idgen"
	"github.com/Houssam365/campuShare/internal/models"
)

var now = time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

// ticker returns a clock advancing one minute per call.
func ticker() models.Clock {
	t := now
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

type fixture struct {
	accounts     *AccountRegistry
	catalog      *ListingCatalog
	reservations *ReservationLedger
	transactions *TransactionLedger
	ratings      *RatingService
}

func newFixture(opts ...LedgerOption) *fixture {
	clock := ticker()
	opts = append([]LedgerOption{WithIDs(idgen.Sequence("res")), WithClock(clock)}, opts...)
	return &fixture{
		accounts:     NewAccountRegistry(idgen.Sequence("acc"), clock, DefaultInitialPoints),
		catalog:      NewListingCatalog(idgen.Sequence("lst"), clock),
		reservations: NewReservationLedger(opts...),
		transactions: NewTransactionLedger(idgen.Sequence("tx"), clock),
		ratings:      NewRatingService(idgen.Sequence("rating"), clock),
	}
}

func (f *fixture) account(t *testing.T, first string) *models.Account {
	t.Helper()
	a, err := f.accounts.Register(first, "Doe", first+"@etu.example.fr")
	require.NoError(t, err)
	return a
}

func (f *fixture) good(t *testing.T, owner *models.Account, title string, price float64) *models.Listing {
	t.Helper()
	l, err := f.catalog.PublishGood(owner, title, "", "misc", "", price)
	require.NoError(t, err)
	return l
}

// recorder collects every message it receives.
type recorder struct {
	messages []string
}

func (r *recorder) Receive(_ *models.Listing, msg string) { r.messages = append(r.messages, msg) }

// fakeScheduler records calls and fails when told to.
type fakeScheduler struct {
	fail    error
	added   []string
	removed []string
	updated []string
	free    bool
}

func (s *fakeScheduler) AddEvent(_ context.Context, r *models.Reservation) error {
	s.added = append(s.added, r.ID())
	return s.fail
}

func (s *fakeScheduler) RemoveEvent(_ context.Context, id string) error {
	s.removed = append(s.removed, id)
	return s.fail
}

func (s *fakeScheduler) UpdateEvent(_ context.Context, r *models.Reservation) error {
	s.updated = append(s.updated, r.ID())
	return s.fail
}

func (s *fakeScheduler) CheckAvailability(context.Context, *models.Reservation) (bool, error) {
	return s.free, s.fail
}

var errCalendarDown = errors.New("calendar down")

// stubMethod pays or refuses without touching balances.
type stubMethod struct{ ok bool }

func (stubMethod) Name() string                                         { return "stub" }
func (m stubMethod) Pay(float64, *models.Account, *models.Account) bool { return m.ok }
func (m stubMethod) Validate(*models.Transaction) bool                  { return m.ok }
