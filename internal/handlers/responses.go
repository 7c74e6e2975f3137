package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Houssam365/campuShare/internal/models"
)

// money renders an amount with two decimals, rounding half away from zero.
func money(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(2)
}

type accountResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	CampusEmail bool      `json:"campus_email"`
	Balance     int       `json:"balance"`
	Reputation  float64   `json:"reputation"`
	RatingCount int       `json:"rating_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func newAccountResponse(a *models.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Email:       a.Email,
		CampusEmail: a.HasCampusEmail(),
		Balance:     a.Balance(),
		Reputation:  a.Reputation(),
		RatingCount: a.RatingCount(),
		CreatedAt:   a.CreatedAt,
	}
}

type listingResponse struct {
	ID          string               `json:"id"`
	Kind        models.Kind          `json:"kind"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	OwnerID     string               `json:"owner_id"`
	BasePrice   string               `json:"base_price"`
	Status      models.ListingStatus `json:"status"`
	Location    string               `json:"location,omitempty"`
	Images      []string             `json:"images,omitempty"`
	Views       int                  `json:"views"`
	Subscribers int                  `json:"subscribers"`
	Details     string               `json:"details"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func newListingResponse(l *models.Listing) listingResponse {
	return listingResponse{
		ID:          l.ID(),
		Kind:        l.Kind(),
		Title:       l.Title(),
		Description: l.Description(),
		Category:    l.Category(),
		OwnerID:     l.Owner().ID,
		BasePrice:   money(l.BasePrice()),
		Status:      l.Status(),
		Location:    l.Location(),
		Images:      l.Images(),
		Views:       l.Views(),
		Subscribers: l.SubscriberCount(),
		Details:     l.DetailsText(),
		CreatedAt:   l.CreatedAt(),
		UpdatedAt:   l.UpdatedAt(),
	}
}

func newListingResponses(ls []*models.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, newListingResponse(l))
	}
	return out
}

type reservationResponse struct {
	ID           string                   `json:"id"`
	ListingID    string                   `json:"listing_id"`
	ListingTitle string                   `json:"listing_title"`
	RequesterID  string                   `json:"requester_id"`
	OwnerID      string                   `json:"owner_id"`
	StartsAt     time.Time                `json:"starts_at"`
	EndsAt       time.Time                `json:"ends_at"`
	Status       models.ReservationStatus `json:"status"`
	Policy       string                   `json:"policy"`
	TotalPrice   string                   `json:"total_price"`
	Message      string                   `json:"message,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
}

func newReservationResponse(r *models.Reservation) reservationResponse {
	return reservationResponse{
		ID:           r.ID(),
		ListingID:    r.Listing().ID(),
		ListingTitle: r.Listing().Title(),
		RequesterID:  r.Requester().ID,
		OwnerID:      r.Owner().ID,
		StartsAt:     r.StartsAt(),
		EndsAt:       r.EndsAt(),
		Status:       r.Status(),
		Policy:       r.Policy().Name(),
		TotalPrice:   money(r.TotalPrice()),
		Message:      r.Message(),
		CreatedAt:    r.CreatedAt(),
	}
}

type transactionResponse struct {
	ID        string                   `json:"id"`
	Reference string                   `json:"reference"`
	ListingID string                   `json:"listing_id"`
	PayerID   string                   `json:"payer_id"`
	PayeeID   string                   `json:"payee_id"`
	Method    string                   `json:"method"`
	Amount    string                   `json:"amount"`
	Status    models.TransactionStatus `json:"status"`
	CreatedAt time.Time                `json:"created_at"`
}

func newTransactionResponse(t *models.Transaction) transactionResponse {
	return transactionResponse{
		ID:        t.ID(),
		Reference: t.Reference(),
		ListingID: t.ListingID(),
		PayerID:   t.Payer().ID,
		PayeeID:   t.Payee().ID,
		Method:    t.Method().Name(),
		Amount:    money(t.Amount()),
		Status:    t.Status(),
		CreatedAt: t.CreatedAt(),
	}
}

func newTransactionResponses(ts []*models.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, newTransactionResponse(t))
	}
	return out
}

type ratingResponse struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservation_id"`
	RaterID       string    `json:"rater_id"`
	RatedID       string    `json:"rated_id"`
	Score         int       `json:"score"`
	Stars         string    `json:"stars"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

func newRatingResponse(rt *models.Rating) ratingResponse {
	return ratingResponse{
		ID:            rt.ID,
		ReservationID: rt.ReservationID,
		RaterID:       rt.Rater.ID,
		RatedID:       rt.Rated.ID,
		Score:         rt.Score,
		Stars:         rt.Stars(),
		Comment:       rt.Comment,
		CreatedAt:     rt.CreatedAt,
	}
}
