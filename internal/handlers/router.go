package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts every route on r. Requests are serialized; commands
// and per-caller routes require the X-Account-ID header.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.Use(h.Serialize())
	r.GET("/ping", h.PingHandler)

	// Public routes
	publicRoutes := r.Group("/")
	{
		publicRoutes.POST("/accounts", h.RegisterAccountHandler)
		publicRoutes.GET("/accounts", h.ListAccountsHandler)
		publicRoutes.GET("/accounts/:id", h.GetAccountHandler)
		publicRoutes.GET("/accounts/:id/ratings", h.AccountRatingsHandler)
		publicRoutes.GET("/accounts/:id/notifications", h.AccountNotificationsHandler)
		publicRoutes.GET("/accounts/:id/transactions", h.AccountTransactionsHandler)
		publicRoutes.POST("/accounts/:id/deposit", h.DepositHandler)

		publicRoutes.GET("/listings", h.ListListingsHandler)
		publicRoutes.GET("/listings/:id", h.GetListingHandler)

		publicRoutes.GET("/reservations", h.ListReservationsHandler)
		publicRoutes.GET("/reservations/:id", h.GetReservationHandler)
		publicRoutes.GET("/reservations/:id/availability", h.AvailabilityHandler)

		publicRoutes.GET("/transactions", h.ListTransactionsHandler)
	}

	// Routes acting as an account
	api := r.Group("/")
	api.Use(h.RequireAccount())
	{
		listingsGroup := api.Group("/listings")
		{
			listingsGroup.POST("", h.CreateListingHandler)
			listingsGroup.PUT("/:id/price", h.UpdatePriceHandler)
			listingsGroup.PUT("/:id/status", h.UpdateStatusHandler)
			listingsGroup.DELETE("/:id", h.DeleteListingHandler)
			listingsGroup.POST("/:id/subscribe", h.SubscribeHandler)
			listingsGroup.POST("/:id/buy", h.BuyListingHandler)
		}

		reservationsGroup := api.Group("/reservations")
		{
			reservationsGroup.POST("", h.CreateReservationHandler)
			reservationsGroup.POST("/:id/confirm", h.ConfirmReservationHandler)
			reservationsGroup.POST("/:id/start", h.StartReservationHandler)
			reservationsGroup.POST("/:id/complete", h.CompleteReservationHandler)
			reservationsGroup.POST("/:id/cancel", h.CancelReservationHandler)
			reservationsGroup.POST("/:id/refuse", h.RefuseReservationHandler)
			reservationsGroup.PUT("/:id/policy", h.ChangePolicyHandler)
			reservationsGroup.PUT("/:id/schedule", h.RescheduleHandler)
			reservationsGroup.POST("/:id/ratings", h.RateReservationHandler)
		}
	}
}

// NewRouter builds a gin engine with the given middleware and every route.
func NewRouter(h *Handler, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.Default()
	router.Use(middleware...)
	h.RegisterRoutes(router)
	return router
}
