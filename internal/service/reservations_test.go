package service

import (
	"bytes"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Houssam365/campuShare/internal/models"
	"github.com/Houssam365/campuShare/internal/pricing"
)

func TestReservationLedger_CreateValidatesInOrder(t *testing.T) {
	f := newFixture()
	owner, req := f.account(t, "Olive"), f.account(t, "Rick")
	l := f.good(t, owner, "Tent", 10)

	// a bad window is reported even when the requester is the owner
	_, err := f.reservations.Create(l, owner, now, now, pricing.Flat{})
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.False(t, errors.Is(err, models.ErrSelfDealing))

	_, err = f.reservations.Create(l, owner, now, now.Add(time.Hour), pricing.Flat{})
	assert.True(t, errors.Is(err, models.ErrSelfDealing))

	l.ChangeStatus(models.ListingExpired)
	_, err = f.reservations.Create(l, req, now, now.Add(time.Hour), pricing.Flat{})
	assert.True(t, errors.Is(err, models.ErrState))

	assert.Zero(t, f.reservations.Count())
}

func TestReservationLedger_CreateNotifiesOwner(t *testing.T) {
	f := newFixture()
	owner, req := f.account(t, "Olive"), f.account(t, "Rick")
	l := f.good(t, owner, "Tent", 10)
	rec := &recorder{}
	l.Subscribe(rec)

	r, err := f.reservations.ReserveHourly(l, req, now, now.Add(3*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "res-1", r.ID())
	assert.Equal(t, 30.0, r.TotalPrice())
	assert.Equal(t, []string{"new reservation request from Rick Doe for 'Tent'"}, rec.messages)
	assert.True(t, l.IsAvailable())
}

func TestReservationLedger_ConvenienceConstructors(t *testing.T) {
	f := newFixture()
	owner, req := f.account(t, "Olive"), f.account(t, "Rick")
	l := f.good(t, owner, "Tent", 10)
	end := now.Add(8 * 24 * time.Hour)

	daily, err := f.reservations.ReserveDaily(l, req, now, end)
	require.NoError(t, err)
	flat, err := f.reservations.ReserveFlat(l, req, now, end)
	require.NoError(t, err)
	free, err := f.reservations.ReserveFree(l, req, now, end)
	require.NoError(t, err)

	assert.Equal(t, 64.0, daily.TotalPrice())
	assert.Equal(t, 10.0, flat.TotalPrice())
	assert.Zero(t, free.TotalPrice())

	_, err = f.reservations.CreateNamed(l, req, now, end, "weekly")
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestReservationLedger_LifecycleSideEffects(t *testing.T) {
	cal := &fakeScheduler{}
	f := newFixture(WithScheduler(cal))
	owner, req := f.account(t, "Olive"), f.account(t, "Rick")
	l := f.good(t, owner, "Tent", 10)
	rec := &recorder{}
	l.Subscribe(rec)
	r, err := f.reservations.ReserveDaily(l, req, now, now.Add(10*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 80.0, r.TotalPrice())

	ok, err := f.reservations.Confirm(r)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.ListingReserved, l.Status())
	assert.Equal(t, []string{r.ID()}, cal.added)
	assert.Contains(t, rec.messages, "reservation confirmed for: Tent")

	ok, err = f.reservations.Start(r)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.reservations.Complete(r)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.ListingActive, l.Status())
	assert.Equal(t, models.ReservationCompleted, r.Status())
	assert.True(t, r.CanBeRated())
	assert.Equal(t, []string{r.ID()}, cal.removed)
}

func TestReservationLedger_IgnoredTransitionsHaveNoSideEffects(t *testing.T) {
	cal := &fakeScheduler{}
	f := newFixture(WithScheduler(cal))
	owner, req := f.account(t, "Olive"), f.account(t, "Rick")
	l := f.good(t, owner, "Tent", 10)
	r, _ := f.reservations.ReserveFlat(l, req, now, now.Add(time.Hour))

	ok, err := f.reservations.Complete(r)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, l.IsAvailable())
	assert.Empty(t, cal.removed)

	_, _ = f.reservations.Confirm(r)
	price := r.TotalPrice()
	ok, err = f.reservations.Confirm(r)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, cal.added, 1)
	assert.Equal(t, price, r.TotalPrice())
	assert.Equal(t, models.ReservationConfirmed, r.Status())
}

func TestReservationLedger_StrictTransitions(t *testing.T) {
	f := newFixture(WithStrictTransitions(true))
	owner, req := f.account(t, "Olive"), f.account(t, "Rick")
	l := f.good(t, owner, "Tent", 10)
	r, _ := f.reservations.ReserveFlat(l, req, now, now.Add(time.Hour))
	require.True(t, f.reservations.Strict())

	_, err := f.reservations.Start(r)
	assert.True(t, errors.Is(err, models.ErrState))

	ok, err := f.reservations.Refuse(r)
	require.NoError(t, err)
	assert.True(t, ok)

	for name, op := range map[string]func(*models.Reservation) (bool, error){
		"confirm":  f.reservations.Confirm,
		"start":    f.reservations.Start,
		"complete": f.reservations.Complete,
		"cancel":   f.reservations.Cancel,
		"refuse":   f.reservations.Refuse,
	} {
		ok, err := op(r)
		assert.False(t, ok, name)
		assert.True(t, errors.Is(err, models.ErrState), name)
	}
	assert.Equal(t, models.ReservationRefused, r.Status())
}

func TestReservationLedger_CancelOnlyReactivatesReservedListing(t *testing.T) {
	f := newFixture()
	owner, req := f.account(t, "Olive"), f.account(t, "Rick")
	l := f.good(t, owner, "Tent", 10)
	rec := &recorder{}
	l.Subscribe(rec)

	confirmed, _ := f.reservations.ReserveFlat(l, req, now, now.Add(time.Hour))
	_, _ = f.reservations.Confirm(confirmed)
	ok, err := f.reservations.Cancel(confirmed)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.ListingActive, l.Status())
	assert.Equal(t, "reservation cancelled for: Tent", rec.messages[len(rec.messages)-1])

	pending, _ := f.reservations.ReserveFlat(l, req, now, now.Add(time.Hour))
	l.ChangeStatus(models.ListingUnavailable)
	_, err = f.reservations.Cancel(pending)
	require.NoError(t, err)
	assert.Equal(t, models.ListingUnavailable, l.Status())
	assert.Equal(t, models.ReservationCancelled, pending.Status())
}

func TestReservationLedger_CalendarFailureDoesNotBlock(t *testing.T) {
	cal := &fakeScheduler{fail: errCalendarDown}
	var buf bytes.Buffer
	f := newFixture(WithScheduler(cal), WithLedgerLogger(log.New(&buf, "", 0)))
	owner, req := f.account(t, "Olive"), f.account(t, "Rick")
	l := f.good(t, owner, "Tent", 10)
	r, _ := f.reservations.ReserveFlat(l, req, now, now.Add(time.Hour))

	ok, err := f.reservations.Confirm(r)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.ListingReserved, l.Status())

	ok, err = f.reservations.Complete(r)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.ListingActive, l.Status())

	assert.Contains(t, buf.String(), "calendar add for reservation res-1 failed: calendar down")
	assert.Contains(t, buf.String(), "calendar remove for reservation res-1 failed")
}

func TestReservationLedger_PolicyAndReschedule(t *testing.T) {
	cal := &fakeScheduler{}
	f := newFixture(WithScheduler(cal))
	owner, req := f.account(t, "Olive"), f.account(t, "Rick")
	l := f.good(t, owner, "Tent", 10)
	r, _ := f.reservations.ReserveFlat(l, req, now, now.Add(5*time.Hour))

	require.NoError(t, f.reservations.ChangePolicyNamed(r, "hourly"))
	assert.Equal(t, 50.0, r.TotalPrice())

	require.NoError(t, f.reservations.Reschedule(r, now, now.Add(2*time.Hour)))
	assert.Equal(t, 20.0, r.TotalPrice())
	assert.Empty(t, cal.updated)

	_, _ = f.reservations.Confirm(r)
	require.NoError(t, f.reservations.Reschedule(r, now, now.Add(4*time.Hour)))
	assert.Equal(t, 40.0, r.TotalPrice())
	assert.Equal(t, []string{r.ID()}, cal.updated)

	err := f.reservations.Reschedule(r, now, now.Add(-time.Hour))
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Equal(t, 40.0, r.TotalPrice())

	_, _ = f.reservations.Complete(r)
	assert.True(t, errors.Is(f.reservations.ChangePolicy(r, pricing.Free{}), models.ErrState))
	assert.True(t, errors.Is(f.reservations.ChangePolicyNamed(r, "nope"), models.ErrValidation))
}

func TestReservationLedger_Queries(t *testing.T) {
	f := newFixture()
	olive, rick, sue := f.account(t, "Olive"), f.account(t, "Rick"), f.account(t, "Sue")
	tent := f.good(t, olive, "Tent", 10)
	bike := f.good(t, sue, "Bike", 5)

	r1, _ := f.reservations.ReserveFlat(tent, rick, now, now.Add(time.Hour))
	r2, _ := f.reservations.ReserveFlat(bike, rick, now, now.Add(time.Hour))
	r3, _ := f.reservations.ReserveFlat(tent, sue, now, now.Add(time.Hour))
	_, _ = f.reservations.Refuse(r3)

	got, err := f.reservations.Find(r2.ID())
	require.NoError(t, err)
	assert.Same(t, r2, got)
	_, err = f.reservations.Find("res-99")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	assert.Equal(t, []*models.Reservation{r1, r2}, f.reservations.ByRequester(rick.ID))
	assert.Equal(t, []*models.Reservation{r1, r3}, f.reservations.ByOwner(olive.ID))
	assert.Equal(t, []*models.Reservation{r1}, f.reservations.PendingForOwner(olive.ID))
	assert.Equal(t, []*models.Reservation{r2, r3}, f.reservations.ByAccount(sue.ID))
	assert.Equal(t, []*models.Reservation{r3}, f.reservations.ByStatus(models.ReservationRefused))
	assert.Len(t, f.reservations.All(), 3)
}

func TestReservationLedger_CheckCalendar(t *testing.T) {
	f := newFixture()
	owner, req := f.account(t, "Olive"), f.account(t, "Rick")
	r, _ := f.reservations.ReserveFlat(f.good(t, owner, "Tent", 10), req, now, now.Add(time.Hour))

	free, err := f.reservations.CheckCalendar(r)
	require.NoError(t, err)
	assert.True(t, free)

	busy := newFixture(WithScheduler(&fakeScheduler{free: false}))
	free, err = busy.reservations.CheckCalendar(r)
	require.NoError(t, err)
	assert.False(t, free)
}
