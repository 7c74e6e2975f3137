package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return epoch }

func newAccount(t *testing.T, id string, points int) *Account {
	t.Helper()
	a, err := NewAccount(id, "First-"+id, "Last", id+"@etu.univ.fr", points, epoch)
	require.NoError(t, err)
	return a
}

func newGood(t *testing.T, owner *Account, price float64) *Listing {
	t.Helper()
	l, err := NewListing(NewListingParams{
		ID:        "lst-1",
		Title:     "Calculator",
		Owner:     owner,
		Category:  "electronics",
		BasePrice: price,
		Details:   NewGoodDetails("like new"),
		Clock:     fixedClock,
	})
	require.NoError(t, err)
	return l
}

func newGift(t *testing.T, owner *Account) *Listing {
	t.Helper()
	l, err := NewListing(NewListingParams{
		ID:        "gift-1",
		Title:     "Old textbooks",
		Owner:     owner,
		BasePrice: 25,
		Details:   NewGiftDetails("", "moving out"),
		Clock:     fixedClock,
	})
	require.NoError(t, err)
	return l
}

// flatPolicy returns the base price unchanged.
type flatPolicy struct{}

func (flatPolicy) ComputePrice(base float64, _ time.Duration) float64 { return base }
func (flatPolicy) Name() string                                       { return "flat" }
func (flatPolicy) Description() string                                { return "flat" }

// perHour charges base per started hour, minimum one.
type perHour struct{}

func (perHour) ComputePrice(base float64, d time.Duration) float64 {
	h := int(d / time.Hour)
	if h < 1 {
		h = 1
	}
	return base * float64(h)
}
func (perHour) Name() string        { return "per-hour" }
func (perHour) Description() string { return "per hour" }

// stubMethod reports a canned outcome and counts calls.
type stubMethod struct {
	ok    bool
	calls int
}

func (m *stubMethod) Name() string { return "stub" }
func (m *stubMethod) Pay(float64, *Account, *Account) bool {
	m.calls++
	return m.ok
}
func (m *stubMethod) Validate(*Transaction) bool { return m.ok }

// recorder collects every message it receives.
type recorder struct {
	messages []string
}

func (r *recorder) Receive(_ *Listing, msg string) { r.messages = append(r.messages, msg) }

type panicker struct{}

func (panicker) Receive(*Listing, string) { panic("sink down") }

// funcObserver is not comparable.
type funcObserver func(*Listing, string)

func (f funcObserver) Receive(l *Listing, msg string) { f(l, msg) }
