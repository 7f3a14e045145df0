package cmd

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cardwise/cardwise/internal/config"
	"github.com/cardwise/cardwise/internal/handlers"
	"github.com/cardwise/cardwise/internal/logging"
	"github.com/cardwise/cardwise/internal/seed"
	"github.com/cardwise/cardwise/internal/service"
	"github.com/cardwise/cardwise/internal/store"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the card catalog API server",
	Long: `Start the JSON API serving the card catalog, card detail, quiz
recommendations and newsletter signup. Without DATABASE_URL the server
runs entirely from the seed catalog.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if envPort := os.Getenv("PORT"); envPort != "" && port == "8080" {
			port = envPort
		}

		logger, cleanup := logging.Initialize()
		defer cleanup()

		// Seed catalog. Validation failure is survivable as long as a
		// database is configured.
		var seedCards []seed.Card
		if cfg.SeedPath != "" {
			seedCards, err = seed.Load(cfg.SeedPath)
		} else {
			seedCards, err = seed.LoadEmbedded()
		}
		if err != nil {
			logger.Warn("seed catalog unavailable", zap.Error(err))
			seedCards = nil
		}

		var source service.CardSource
		if cfg.DatabaseConfigured() {
			db, err := store.NewDB(cfg.DatabaseURL)
			if err != nil {
				logger.Fatal("Failed to connect to database", zap.Error(err))
			}
			defer db.Close()
			source = store.NewCardStore(db)
		} else {
			logger.Info("no database configured, serving seed catalog only")
		}

		if source == nil && seedCards == nil {
			logger.Fatal("no usable card source: database not configured and seed catalog invalid")
		}

		reconciler := service.NewReconciler(source, seedCards, logger)
		newsletter := service.NewNewsletterService(cfg.Newsletter, logger)
		metrics := service.NewAPIMetrics()

		app := fiber.New(fiber.Config{
			AppName: "Cardwise API",
		})

		app.Use(fiberlogger.New())
		app.Use(handlers.MetricsMiddleware(metrics))

		app.Get("/api/health", handlers.HealthHandler(reconciler, metrics))
		app.Get("/api/cards", handlers.ListCardsHandler(reconciler))
		app.Get("/api/cards/:slug", handlers.CardDetailHandler(reconciler))
		app.Post("/api/quiz", handlers.QuizHandler(reconciler))
		app.Post("/api/newsletter/subscribe", handlers.NewsletterSubscribeHandler(newsletter))

		logger.Info("starting server", zap.String("port", port))
		if err := app.Listen(":" + port); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to run the server on")
}
