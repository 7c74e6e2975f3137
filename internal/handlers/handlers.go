// Package handlers exposes the marketplace services over HTTP with gin.
package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Houssam365/campuShare/internal/models"
	"github.com/Houssam365/campuShare/internal/notify"
	"github.com/Houssam365/campuShare/internal/payment"
	"github.com/Houssam365/campuShare/internal/service"
)

// AccountHeader names the acting account on every command.
const AccountHeader = "X-Account-ID"

const actorKey = "account"

var errForbidden = errors.New("forbidden")

// Services groups what the handlers drive.
type Services struct {
	Accounts     *service.AccountRegistry
	Catalog      *service.ListingCatalog
	Reservations *service.ReservationLedger
	Transactions *service.TransactionLedger
	Ratings      *service.RatingService
	Payments     *payment.Registry
	Inbox        *notify.Inbox
}

// Handler is the receiver of every route. The services it holds are not safe
// for concurrent use, so Serialize must wrap every request.
type Handler struct {
	Services
	Logger *log.Logger

	mu    sync.Mutex
	sinks map[string]models.Observer
}

func NewHandler(s Services, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Handler{Services: s, Logger: logger, sinks: make(map[string]models.Observer)}
}

// Serialize runs requests one at a time.
func (h *Handler) Serialize() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.mu.Lock()
		defer h.mu.Unlock()
		c.Next()
	}
}

// RequireAccount resolves the X-Account-ID header into the acting account.
func (h *Handler) RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(AccountHeader)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": AccountHeader + " header is missing"})
			return
		}
		a, err := h.Accounts.Find(id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown account " + id})
			return
		}
		c.Set(actorKey, a)
		c.Next()
	}
}

func actor(c *gin.Context) *models.Account {
	return c.MustGet(actorKey).(*models.Account)
}

// fail writes err with the status its kind maps to.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, errForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.Logger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *Handler) PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func (h *Handler) RegisterAccountHandler(c *gin.Context) {
	var requestBody struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name"`
		Email     string `json:"email" binding:"required,email"`
		Points    *int   `json:"points" binding:"omitempty,gte=0"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		a   *models.Account
		err error
	)
	if requestBody.Points != nil {
		a, err = h.Accounts.RegisterWithPoints(requestBody.FirstName, requestBody.LastName, requestBody.Email, *requestBody.Points)
	} else {
		a, err = h.Accounts.Register(requestBody.FirstName, requestBody.LastName, requestBody.Email)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newAccountResponse(a))
}

func (h *Handler) ListAccountsHandler(c *gin.Context) {
	accounts := h.Accounts.All()
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, newAccountResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetAccountHandler(c *gin.Context) {
	a, err := h.Accounts.Find(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(a))
}

func (h *Handler) DepositHandler(c *gin.Context) {
	var requestBody struct {
		Points int `json:"points" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.Accounts.Deposit(c.Param("id"), requestBody.Points)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(a))
}

func (h *Handler) AccountRatingsHandler(c *gin.Context) {
	a, err := h.Accounts.Find(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	received := h.Ratings.Received(a.ID)
	out := make([]ratingResponse, 0, len(received))
	for _, rt := range received {
		out = append(out, newRatingResponse(rt))
	}
	c.JSON(http.StatusOK, gin.H{
		"average":      h.Ratings.Average(a.ID),
		"count":        len(received),
		"distribution": h.Ratings.Distribution(a.ID),
		"summary":      h.Ratings.Summary(a),
		"ratings":      out,
	})
}

func (h *Handler) AccountNotificationsHandler(c *gin.Context) {
	a, err := h.Accounts.Find(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	notifications := h.Inbox.For(a.ID)
	if notifications == nil {
		notifications = []notify.Notification{}
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *Handler) AccountTransactionsHandler(c *gin.Context) {
	a, err := h.Accounts.Find(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newTransactionResponses(h.Transactions.ForAccount(a.ID)))
}

func (h *Handler) ListTransactionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"transactions":  newTransactionResponses(h.Transactions.History()),
		"total_volume":  money(h.Transactions.TotalVolume()),
		"success_count": h.Transactions.SuccessCount(),
	})
}
