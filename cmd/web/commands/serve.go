package commands

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/spf13/cobra"

	"github.com/Houssam365/campuShare/internal/calendar"
	"github.com/Houssam365/campuShare/internal/config"
	"github.com/Houssam365/campuShare/internal/handlers"
	"github.com/Houssam365/campuShare/internal/idgen"
	"github.com/Houssam365/campuShare/internal/models"
	"github.com/Houssam365/campuShare/internal/notify"
	"github.com/Houssam365/campuShare/internal/payment"
	"github.com/Houssam365/campuShare/internal/pricing"
	"github.com/Houssam365/campuShare/internal/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the marketplace HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stderr, "", log.LstdFlags)

			h, err := buildHandler(cfg, logger)
			if err != nil {
				return err
			}

			corsConfig := cors.DefaultConfig()
			corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
			corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, handlers.AccountHeader)
			router := handlers.NewRouter(h, cors.New(corsConfig))

			logger.Printf("Server listening on %s", cfg.Addr())
			return router.Run(cfg.Addr())
		},
	}
}

// buildHandler wires the services described by cfg behind the HTTP handlers.
func buildHandler(cfg *config.Config, logger *log.Logger) (*handlers.Handler, error) {
	ids, err := idgen.FromName(cfg.IDStrategy)
	if err != nil {
		return nil, err
	}
	clock := models.Clock(models.SystemClock)

	ledgerOpts := []service.LedgerOption{
		service.WithIDs(idgen.WithPrefix("RES-", ids)),
		service.WithClock(clock),
		service.WithPolicies(pricing.NewRegistry(cfg.HourlyRate, cfg.DailyDiscount)),
		service.WithStrictTransitions(cfg.StrictTransitions),
		service.WithCalendarTimeout(cfg.CalendarTimeout),
		service.WithLedgerLogger(logger),
	}
	if cfg.CalendarEnabled {
		api := calendar.NewSimulatedAPI(cfg.CalendarID, cfg.CalendarAPIKey, logger)
		if !api.Configured() {
			logger.Printf("calendar enabled without CALENDAR_ID or CALENDAR_API_KEY, events stay local")
		}
		ledgerOpts = append(ledgerOpts, service.WithScheduler(calendar.NewAdapter(api)))
	}

	card := payment.NewSimulatedCard(
		payment.WithSuccessRate(cfg.CardSuccessRate),
		payment.WithLatency(cfg.CardLatency),
		payment.WithLogger(logger),
	)

	return handlers.NewHandler(handlers.Services{
		Accounts:     service.NewAccountRegistry(ids, clock, cfg.InitialPoints),
		Catalog:      service.NewListingCatalog(ids, clock),
		Reservations: service.NewReservationLedger(ledgerOpts...),
		Transactions: service.NewTransactionLedger(ids, clock),
		Ratings:      service.NewRatingService(ids, clock),
		Payments:     payment.NewRegistry(payment.NewFree(logger), payment.NewPoints(logger), card),
		Inbox:        notify.NewInbox(clock),
	}, logger), nil
}
