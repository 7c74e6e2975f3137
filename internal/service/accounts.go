package service

import (
	"fmt"

	"github.com/Houssam365/campuShare/internal/idgen"
	"github.com/Houssam365/campuShare/internal/models"
)

// DefaultInitialPoints is the balance a new member starts with.
const DefaultInitialPoints = 100

// AccountRegistry holds the registered members in registration order.
type AccountRegistry struct {
	ids           idgen.Source
	clock         models.Clock
	initialPoints int

	accounts []*models.Account
	byID     map[string]*models.Account
}

func NewAccountRegistry(ids idgen.Source, clock models.Clock, initialPoints int) *AccountRegistry {
	if ids == nil {
		ids = idgen.UUID()
	}
	if clock == nil {
		clock = models.SystemClock
	}
	if initialPoints < 0 {
		initialPoints = DefaultInitialPoints
	}
	return &AccountRegistry{
		ids:           ids,
		clock:         clock,
		initialPoints: initialPoints,
		byID:          make(map[string]*models.Account),
	}
}

// Register creates a member holding the default starting balance.
func (r *AccountRegistry) Register(firstName, lastName, email string) (*models.Account, error) {
	return r.RegisterWithPoints(firstName, lastName, email, r.initialPoints)
}

// RegisterWithPoints creates a member holding points.
func (r *AccountRegistry) RegisterWithPoints(firstName, lastName, email string, points int) (*models.Account, error) {
	a, err := models.NewAccount(r.ids(), firstName, lastName, email, points, r.clock())
	if err != nil {
		return nil, err
	}
	r.accounts = append(r.accounts, a)
	r.byID[a.ID] = a
	return a, nil
}

// Find looks a member up by id.
func (r *AccountRegistry) Find(id string) (*models.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, models.ErrNotFound)
	}
	return a, nil
}

// All returns the members in registration order.
func (r *AccountRegistry) All() []*models.Account {
	return append([]*models.Account(nil), r.accounts...)
}

// Deposit credits points to a member.
func (r *AccountRegistry) Deposit(id string, points int) (*models.Account, error) {
	a, err := r.Find(id)
	if err != nil {
		return nil, err
	}
	if !a.Credit(points) {
		return nil, fmt.Errorf("deposit must be positive, got %d: %w", points, models.ErrValidation)
	}
	return a, nil
}

func (r *AccountRegistry) Count() int { return len(r.accounts) }
