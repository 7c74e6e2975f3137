// Package calendar mirrors reservations into an external calendar.
//
// Adapter turns reservations into calendar events and remembers which event
// belongs to which reservation. The event API behind it is pluggable;
// SimulatedAPI is an in-process stand-in.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Houssam365/campuShare/internal/models"
)

// ErrNoEvent is returned when a reservation has no mirrored event.
var ErrNoEvent = errors.New("no calendar event for reservation")

// Event is what the external calendar stores.
type Event struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// EventAPI is the external calendar service.
type EventAPI interface {
	CreateEvent(ctx context.Context, e Event) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
	UpdateEvent(ctx context.Context, eventID string, e Event) error
	CheckAvailability(ctx context.Context, start, end time.Time) (bool, error)
}

var _ models.Scheduler = (*Adapter)(nil)

// Adapter implements models.Scheduler on top of an EventAPI.
type Adapter struct {
	api EventAPI

	mu     sync.Mutex
	events map[string]string // reservation id -> event id
}

func NewAdapter(api EventAPI) *Adapter {
	return &Adapter{api: api, events: make(map[string]string)}
}

func eventFor(r *models.Reservation) Event {
	return Event{
		Title: "CampusShare: " + r.Listing().Title(),
		Description: fmt.Sprintf("Reservation #%s\nRequester: %s\nOwner: %s\nPrice: %.2f",
			r.ID(), r.Requester().FullName(), r.Owner().FullName(), r.TotalPrice()),
		Location: r.Listing().Location(),
		Start:    r.StartsAt(),
		End:      r.EndsAt(),
	}
}

func (a *Adapter) AddEvent(ctx context.Context, r *models.Reservation) error {
	id, err := a.api.CreateEvent(ctx, eventFor(r))
	if err != nil {
		return fmt.Errorf("create event for reservation %s: %w", r.ID(), err)
	}
	a.mu.Lock()
	a.events[r.ID()] = id
	a.mu.Unlock()
	return nil
}

func (a *Adapter) RemoveEvent(ctx context.Context, reservationID string) error {
	id, ok := a.EventID(reservationID)
	if !ok {
		return fmt.Errorf("%w %s", ErrNoEvent, reservationID)
	}
	if err := a.api.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	a.mu.Lock()
	delete(a.events, reservationID)
	a.mu.Unlock()
	return nil
}

// UpdateEvent rewrites the mirrored event, creating it when the reservation
// has none yet.
func (a *Adapter) UpdateEvent(ctx context.Context, r *models.Reservation) error {
	id, ok := a.EventID(r.ID())
	if !ok {
		return a.AddEvent(ctx, r)
	}
	if err := a.api.UpdateEvent(ctx, id, eventFor(r)); err != nil {
		return fmt.Errorf("update event %s: %w", id, err)
	}
	return nil
}

func (a *Adapter) CheckAvailability(ctx context.Context, r *models.Reservation) (bool, error) {
	return a.api.CheckAvailability(ctx, r.StartsAt(), r.EndsAt())
}

// EventID returns the event mirrored for a reservation.
func (a *Adapter) EventID(reservationID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id, ok := a.events[reservationID]
	return id, ok
}

// SimulatedAPI keeps events in memory and logs every call. Every window is
// reported available.
type SimulatedAPI struct {
	CalendarID string
	apiKey     string
	logger     *log.Logger

	mu     sync.Mutex
	events map[string]Event
}

var _ EventAPI = (*SimulatedAPI)(nil)

func NewSimulatedAPI(calendarID, apiKey string, logger *log.Logger) *SimulatedAPI {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &SimulatedAPI{CalendarID: calendarID, apiKey: apiKey, logger: logger, events: make(map[string]Event)}
}

func (s *SimulatedAPI) CreateEvent(ctx context.Context, e Event) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := "gcal_" + uuid.NewString()
	s.mu.Lock()
	s.events[id] = e
	s.mu.Unlock()
	s.logger.Printf("[calendar %s] created %s %q %s -> %s", s.CalendarID, id, e.Title,
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
	return id, nil
}

func (s *SimulatedAPI) DeleteEvent(ctx context.Context, eventID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[eventID]; !ok {
		return fmt.Errorf("event %s not found", eventID)
	}
	delete(s.events, eventID)
	s.logger.Printf("[calendar %s] deleted %s", s.CalendarID, eventID)
	return nil
}

func (s *SimulatedAPI) UpdateEvent(ctx context.Context, eventID string, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[eventID]; !ok {
		return fmt.Errorf("event %s not found", eventID)
	}
	s.events[eventID] = e
	s.logger.Printf("[calendar %s] updated %s %q", s.CalendarID, eventID, e.Title)
	return nil
}

func (s *SimulatedAPI) CheckAvailability(ctx context.Context, start, end time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.logger.Printf("[calendar %s] availability %s -> %s", s.CalendarID,
		start.Format(time.RFC3339), end.Format(time.RFC3339))
	return true, nil
}

// Configured reports whether both a calendar id and an API key were given.
func (s *SimulatedAPI) Configured() bool { return s.CalendarID != "" && s.apiKey != "" }

// Event returns a stored event.
func (s *SimulatedAPI) Event(eventID string) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	return e, ok
}

// Len returns how many events are stored.
func (s *SimulatedAPI) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
