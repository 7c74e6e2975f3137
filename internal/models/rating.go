package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinScore = 1
	MaxScore = 5
)

// Rating is a 1-5 score one participant of a completed reservation leaves
// about the other.
type Rating struct {
	ID            string    `json:"id"`
	Rater         *Account  `json:"-"`
	Rated         *Account  `json:"-"`
	Score         int       `json:"score"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
	ReservationID string    `json:"reservation_id"`
}

// NewRating checks the score range.
func NewRating(id string, rater, rated *Account, score int, comment, reservationID string, at time.Time) (*Rating, error) {
	if score < MinScore || score > MaxScore {
		return nil, fmt.Errorf("score %d must be between %d and %d: %w", score, MinScore, MaxScore, ErrValidation)
	}
	if rater == nil || rated == nil {
		return nil, fmt.Errorf("rating needs a rater and a rated account: %w", ErrValidation)
	}
	return &Rating{
		ID:            id,
		Rater:         rater,
		Rated:         rated,
		Score:         score,
		Comment:       comment,
		CreatedAt:     at,
		ReservationID: reservationID,
	}, nil
}

// Stars renders the score as five filled or empty stars.
func (r *Rating) Stars() string {
	return strings.Repeat("★", r.Score) + strings.Repeat("☆", MaxScore-r.Score)
}

func (r *Rating) String() string {
	return fmt.Sprintf("%s - %s\n%q - by %s",
		r.Stars(), r.CreatedAt.Format(time.DateOnly), r.Comment, r.Rater.FullName())
}
