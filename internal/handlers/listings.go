package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Houssam365/campuShare/internal/models"
	"github.com/Houssam365/campuShare/internal/notify"
	"github.com/Houssam365/campuShare/internal/service"
)

func (h *Handler) CreateListingHandler(c *gin.Context) {
	var requestBody struct {
		Kind        string  `json:"kind" binding:"required"`
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Price       float64 `json:"price" binding:"gte=0"`
		Condition   string  `json:"condition"`
		ServiceKind string  `json:"service_kind"`
		Minutes     int     `json:"minutes" binding:"gte=0"`
		Reason      string  `json:"reason"`
		Quantity    int     `json:"quantity" binding:"gte=0"`
		Location    string  `json:"location"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, err := models.ParseKind(requestBody.Kind)
	if err != nil {
		h.fail(c, err)
		return
	}

	owner := actor(c)
	var l *models.Listing
	switch kind {
	case models.KindGood:
		l, err = h.Catalog.PublishGood(owner, requestBody.Title, requestBody.Description,
			requestBody.Category, requestBody.Condition, requestBody.Price)
	case models.KindService:
		l, err = h.Catalog.PublishService(owner, requestBody.Title, requestBody.Description,
			requestBody.Category, requestBody.ServiceKind, requestBody.Price, requestBody.Minutes)
	case models.KindGift:
		l, err = h.Catalog.PublishGift(owner, requestBody.Title, requestBody.Description,
			requestBody.Category, requestBody.Condition, requestBody.Reason)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if g, ok := l.Gift(); ok && requestBody.Quantity > 0 {
		if err := g.SetQuantity(requestBody.Quantity); err != nil {
			h.fail(c, err)
			return
		}
	}
	if requestBody.Location != "" {
		l.SetLocation(requestBody.Location)
	}

	// Owners hear about requests on their own listings.
	sink, err := h.sinkFor(owner, notify.ChannelPush, "")
	if err != nil {
		h.fail(c, err)
		return
	}
	l.Subscribe(sink)

	c.JSON(http.StatusCreated, newListingResponse(l))
}

// ListListingsHandler searches the active listings. Query parameters: q,
// category, kind, max_price and sort (date, price_asc, price_desc).
func (h *Handler) ListListingsHandler(c *gin.Context) {
	f := service.Filter{
		Keyword:  c.Query("q"),
		Category: c.Query("category"),
	}
	if v := c.Query("kind"); v != "" {
		kind, err := models.ParseKind(v)
		if err != nil {
			h.fail(c, err)
			return
		}
		f.Kind = kind
	}
	if v := c.Query("max_price"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
			return
		}
		f.MaxPrice = &limit
	}
	strategy, err := service.SortByName(c.Query("sort"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponses(service.Browse(h.Catalog.Search(f), strategy)))
}

func (h *Handler) GetListingHandler(c *gin.Context) {
	l, err := h.Catalog.View(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(l))
}

// ownedListing loads the listing in the path and checks the caller owns it.
func (h *Handler) ownedListing(c *gin.Context) (*models.Listing, error) {
	l, err := h.Catalog.Find(c.Param("id"))
	if err != nil {
		return nil, err
	}
	if !l.Owner().Is(actor(c)) {
		return nil, fmt.Errorf("listing %s belongs to another account: %w", l.ID(), errForbidden)
	}
	return l, nil
}

func (h *Handler) UpdatePriceHandler(c *gin.Context) {
	var requestBody struct {
		Price *float64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := h.ownedListing(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := l.SetBasePrice(*requestBody.Price); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(l))
}

func (h *Handler) UpdateStatusHandler(c *gin.Context) {
	var requestBody struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := models.ParseListingStatus(requestBody.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	l, err := h.ownedListing(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	l.ChangeStatus(status)
	c.JSON(http.StatusOK, newListingResponse(l))
}

func (h *Handler) DeleteListingHandler(c *gin.Context) {
	l, err := h.ownedListing(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if _, err := h.Catalog.Remove(l.ID()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(l))
}

func (h *Handler) SubscribeHandler(c *gin.Context) {
	var requestBody struct {
		Channel string `json:"channel" binding:"required,oneof=email push sms"`
		Phone   string `json:"phone" binding:"required_if=Channel sms"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := h.Catalog.Find(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	sink, err := h.sinkFor(actor(c), requestBody.Channel, requestBody.Phone)
	if err != nil {
		h.fail(c, err)
		return
	}
	l.Subscribe(sink)
	c.JSON(http.StatusOK, gin.H{"message": "Subscribed", "subscribers": l.SubscriberCount()})
}

// sinkFor returns the account's sink for channel, creating it on first use
// so that subscribing twice reuses the same observer. SMS sinks are also
// keyed by phone number.
func (h *Handler) sinkFor(a *models.Account, channel, phone string) (models.Observer, error) {
	key := a.ID + "/" + channel
	if channel == notify.ChannelSMS {
		key += "/" + phone
	}
	if s, ok := h.sinks[key]; ok {
		return s, nil
	}
	var s models.Observer
	switch channel {
	case notify.ChannelEmail:
		s = notify.NewEmail(a, h.Inbox, h.Logger)
	case notify.ChannelPush:
		s = notify.NewPush(a, h.Inbox, h.Logger)
	case notify.ChannelSMS:
		s = notify.NewSMS(a, phone, h.Inbox, h.Logger)
	default:
		return nil, fmt.Errorf("unknown channel %q: %w", channel, models.ErrValidation)
	}
	h.sinks[key] = s
	return s, nil
}

func (h *Handler) BuyListingHandler(c *gin.Context) {
	var requestBody struct {
		Method string `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	method, err := h.Payments.ByName(requestBody.Method)
	if err != nil {
		h.fail(c, err)
		return
	}
	l, err := h.Catalog.Find(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	tx, err := h.Transactions.Settle(l, actor(c), method)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !tx.Succeeded() {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment rejected", "transaction": newTransactionResponse(tx)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Purchase successful!", "transaction": newTransactionResponse(tx)})
}
