package service

import (
	"fmt"
	"strings"

	"github.com/Houssam365/campuShare/internal/idgen"
	"github.com/Houssam365/campuShare/internal/models"
)

// RatingService records the ratings participants of completed reservations
// leave about each other and folds them into reputations.
type RatingService struct {
	ids   idgen.Source
	clock models.Clock

	ratings []*models.Rating
}

func NewRatingService(ids idgen.Source, clock models.Clock) *RatingService {
	if ids == nil {
		ids = idgen.WithPrefix("EVAL-", idgen.UUID())
	}
	if clock == nil {
		clock = models.SystemClock
	}
	return &RatingService{ids: ids, clock: clock}
}

// Rate records rater's score for the other participant of r. The
// reservation must be completed, rater must take part in it and may rate it
// only once.
func (s *RatingService) Rate(r *models.Reservation, rater *models.Account, score int, comment string) (*models.Rating, error) {
	if r == nil || rater == nil {
		return nil, fmt.Errorf("rating needs a reservation and a rater: %w", models.ErrValidation)
	}
	if !r.CanBeRated() {
		return nil, fmt.Errorf("reservation %s is %s, only completed reservations can be rated: %w",
			r.ID(), r.Status(), models.ErrState)
	}
	if score < models.MinScore || score > models.MaxScore {
		return nil, fmt.Errorf("score %d must be between %d and %d: %w", score, models.MinScore, models.MaxScore, models.ErrValidation)
	}
	var rated *models.Account
	switch {
	case rater.Is(r.Requester()):
		rated = r.Owner()
	case rater.Is(r.Owner()):
		rated = r.Requester()
	default:
		return nil, fmt.Errorf("%s did not take part in reservation %s: %w", rater.FullName(), r.ID(), models.ErrValidation)
	}
	if s.HasRated(rater.ID, r.ID()) {
		return nil, fmt.Errorf("%s already rated reservation %s: %w", rater.FullName(), r.ID(), models.ErrState)
	}
	rating, err := models.NewRating(s.ids(), rater, rated, score, comment, r.ID(), s.clock())
	if err != nil {
		return nil, err
	}
	s.ratings = append(s.ratings, rating)
	rated.ApplyRating(score)
	return rating, nil
}

// RateOwner lets the requester rate the owner.
func (s *RatingService) RateOwner(r *models.Reservation, score int, comment string) (*models.Rating, error) {
	return s.Rate(r, r.Requester(), score, comment)
}

// RateRequester lets the owner rate the requester.
func (s *RatingService) RateRequester(r *models.Reservation, score int, comment string) (*models.Rating, error) {
	return s.Rate(r, r.Owner(), score, comment)
}

func (s *RatingService) HasRated(raterID, reservationID string) bool {
	for _, rt := range s.ratings {
		if rt.Rater.ID == raterID && rt.ReservationID == reservationID {
			return true
		}
	}
	return false
}

func (s *RatingService) filter(keep func(*models.Rating) bool) []*models.Rating {
	var out []*models.Rating
	for _, rt := range s.ratings {
		if keep(rt) {
			out = append(out, rt)
		}
	}
	return out
}

// Received returns the ratings about an account.
func (s *RatingService) Received(accountID string) []*models.Rating {
	return s.filter(func(rt *models.Rating) bool { return rt.Rated.ID == accountID })
}

// Given returns the ratings an account left.
func (s *RatingService) Given(accountID string) []*models.Rating {
	return s.filter(func(rt *models.Rating) bool { return rt.Rater.ID == accountID })
}

// ForReservation returns the ratings left on a reservation.
func (s *RatingService) ForReservation(reservationID string) []*models.Rating {
	return s.filter(func(rt *models.Rating) bool { return rt.ReservationID == reservationID })
}

// Average is the mean score an account received, 0 without ratings.
func (s *RatingService) Average(accountID string) float64 {
	received := s.Received(accountID)
	if len(received) == 0 {
		return 0
	}
	sum := 0
	for _, rt := range received {
		sum += rt.Score
	}
	return float64(sum) / float64(len(received))
}

// Distribution counts received ratings per score; index 0 holds the ones.
func (s *RatingService) Distribution(accountID string) [models.MaxScore]int {
	var d [models.MaxScore]int
	for _, rt := range s.Received(accountID) {
		d[rt.Score-1]++
	}
	return d
}

// Summary renders an account's reputation and distribution, best scores first.
func (s *RatingService) Summary(a *models.Account) string {
	received := s.Received(a.ID)
	if len(received) == 0 {
		return "no ratings yet"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %.1f★ (%d ratings)\n", a.FullName(), a.Reputation(), len(received))
	d := s.Distribution(a.ID)
	for score := models.MaxScore; score >= models.MinScore; score-- {
		fmt.Fprintf(&b, "  %d★: %d\n", score, d[score-1])
	}
	return b.String()
}

func (s *RatingService) Count() int { return len(s.ratings) }
