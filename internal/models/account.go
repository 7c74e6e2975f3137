package models

import (
	"fmt"
	"strings"
	"time"
)

// Account is a campus member. The same account plays buyer, seller and rater.
//
// Balance changes only through Credit and Debit (which payment methods call);
// reputation changes only through ApplyRating.
type Account struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`

	balance     int
	reputation  float64
	ratingCount int
}

// NewAccount returns an account holding the given starting balance.
func NewAccount(id, firstName, lastName, email string, initialPoints int, createdAt time.Time) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("account id is required: %w", ErrValidation)
	}
	if strings.TrimSpace(firstName) == "" && strings.TrimSpace(lastName) == "" {
		return nil, fmt.Errorf("account name is required: %w", ErrValidation)
	}
	if initialPoints < 0 {
		return nil, fmt.Errorf("initial points cannot be negative: %w", ErrValidation)
	}
	return &Account{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		CreatedAt: createdAt,
		balance:   initialPoints,
	}, nil
}

// FullName returns "First Last".
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Balance returns the point balance.
func (a *Account) Balance() int { return a.balance }

// Reputation returns the running average of received ratings, 0 when unrated.
func (a *Account) Reputation() float64 { return a.reputation }

// RatingCount returns how many ratings the account received.
func (a *Account) RatingCount() int { return a.ratingCount }

// Credit adds points. Non-positive amounts are refused.
func (a *Account) Credit(points int) bool {
	if points <= 0 {
		return false
	}
	a.balance += points
	return true
}

// Debit removes points. It refuses non-positive amounts and never lets the
// balance go below zero.
func (a *Account) Debit(points int) bool {
	if points <= 0 || a.balance < points {
		return false
	}
	a.balance -= points
	return true
}

// ApplyRating folds a new score into the running mean.
func (a *Account) ApplyRating(score int) {
	sum := a.reputation*float64(a.ratingCount) + float64(score)
	a.ratingCount++
	a.reputation = sum / float64(a.ratingCount)
}

// HasCampusEmail reports whether the e-mail looks like a university address.
func (a *Account) HasCampusEmail() bool {
	e := strings.ToLower(a.Email)
	return strings.HasSuffix(e, ".edu") ||
		strings.Contains(e, "@etu.") ||
		strings.Contains(e, "@student.") ||
		strings.Contains(e, ".univ-")
}

// Is reports whether both values denote the same account.
func (a *Account) Is(other *Account) bool {
	if a == nil || other == nil {
		return false
	}
	return a == other || a.ID == other.ID
}

func (a *Account) String() string {
	return fmt.Sprintf("Account[%s] %s (%d pts, %.1f/5 from %d ratings)",
		a.ID, a.FullName(), a.balance, a.reputation, a.ratingCount)
}
