package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Houssam365/campuShare/internal/models"
)

func (h *Handler) CreateReservationHandler(c *gin.Context) {
	var requestBody struct {
		ListingID string    `json:"listing_id" binding:"required"`
		Start     time.Time `json:"start" binding:"required"`
		End       time.Time `json:"end" binding:"required"`
		Policy    string    `json:"policy" binding:"required"`
		Message   string    `json:"message"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := h.Catalog.Find(requestBody.ListingID)
	if err != nil {
		h.fail(c, err)
		return
	}
	r, err := h.Reservations.CreateNamed(l, actor(c), requestBody.Start, requestBody.End, requestBody.Policy)
	if err != nil {
		h.fail(c, err)
		return
	}
	r.SetMessage(requestBody.Message)
	c.JSON(http.StatusCreated, newReservationResponse(r))
}

// ListReservationsHandler lists reservations, optionally those involving
// ?account= and those in ?status=.
func (h *Handler) ListReservationsHandler(c *gin.Context) {
	var rs []*models.Reservation
	if id := c.Query("account"); id != "" {
		rs = h.Reservations.ByAccount(id)
	} else {
		rs = h.Reservations.All()
	}
	if v := c.Query("status"); v != "" {
		status, err := models.ParseReservationStatus(v)
		if err != nil {
			h.fail(c, err)
			return
		}
		kept := rs[:0:0]
		for _, r := range rs {
			if r.Status() == status {
				kept = append(kept, r)
			}
		}
		rs = kept
	}
	out := make([]reservationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, newReservationResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetReservationHandler(c *gin.Context) {
	r, err := h.Reservations.Find(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newReservationResponse(r))
}

// role decides whether the caller may act on a reservation.
type role func(r *models.Reservation, a *models.Account) bool

func ownerOnly(r *models.Reservation, a *models.Account) bool   { return r.Owner().Is(a) }
func participant(r *models.Reservation, a *models.Account) bool { return r.Involves(a) }

func (h *Handler) reservationFor(c *gin.Context, allowed role) (*models.Reservation, error) {
	r, err := h.Reservations.Find(c.Param("id"))
	if err != nil {
		return nil, err
	}
	if !allowed(r, actor(c)) {
		return nil, fmt.Errorf("reservation %s: %w", r.ID(), errForbidden)
	}
	return r, nil
}

// transition runs one lifecycle step. An ignored step answers 200 with
// "changed": false; the ledger turns it into a conflict when strict.
func (h *Handler) transition(c *gin.Context, allowed role, step func(*models.Reservation) (bool, error)) {
	r, err := h.reservationFor(c, allowed)
	if err != nil {
		h.fail(c, err)
		return
	}
	changed, err := step(r)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed, "reservation": newReservationResponse(r)})
}

func (h *Handler) ConfirmReservationHandler(c *gin.Context) {
	h.transition(c, ownerOnly, h.Reservations.Confirm)
}

func (h *Handler) StartReservationHandler(c *gin.Context) {
	h.transition(c, ownerOnly, h.Reservations.Start)
}

func (h *Handler) CompleteReservationHandler(c *gin.Context) {
	h.transition(c, ownerOnly, h.Reservations.Complete)
}

func (h *Handler) CancelReservationHandler(c *gin.Context) {
	h.transition(c, participant, h.Reservations.Cancel)
}

func (h *Handler) RefuseReservationHandler(c *gin.Context) {
	h.transition(c, ownerOnly, h.Reservations.Refuse)
}

func (h *Handler) ChangePolicyHandler(c *gin.Context) {
	var requestBody struct {
		Policy string `json:"policy" binding:"required"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.reservationFor(c, participant)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Reservations.ChangePolicyNamed(r, requestBody.Policy); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newReservationResponse(r))
}

func (h *Handler) RescheduleHandler(c *gin.Context) {
	var requestBody struct {
		Start time.Time `json:"start" binding:"required"`
		End   time.Time `json:"end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.reservationFor(c, participant)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Reservations.Reschedule(r, requestBody.Start, requestBody.End); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newReservationResponse(r))
}

func (h *Handler) AvailabilityHandler(c *gin.Context) {
	r, err := h.Reservations.Find(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	free, err := h.Reservations.CheckCalendar(r)
	if err != nil {
		h.Logger.Printf("calendar availability for reservation %s failed: %v", r.ID(), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Calendar unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": free})
}

func (h *Handler) RateReservationHandler(c *gin.Context) {
	var requestBody struct {
		Score   int    `json:"score" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.Reservations.Find(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	rt, err := h.Ratings.Rate(r, actor(c), requestBody.Score, requestBody.Comment)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRatingResponse(rt))
}
