package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dirlenor/demo-crm-liff/internal/config"
	"github.com/dirlenor/demo-crm-liff/internal/handler"
	"github.com/dirlenor/demo-crm-liff/internal/repository"
	"github.com/dirlenor/demo-crm-liff/internal/service"
	"github.com/dirlenor/demo-crm-liff/internal/validator"
	"github.com/dirlenor/demo-crm-liff/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Tour Loyalty Points API",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit (explicit, prevents large payloads)
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator
	validate := validator.New()

	// Repositories
	memberRepo := repository.NewMemberRepository(pool)
	txnRepo := repository.NewTransactionRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	redemptionRepo := repository.NewRedemptionRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	// Services
	ledgerService := service.NewLedgerService(pool, memberRepo, txnRepo)
	couponService := service.NewCouponService(pool, couponRepo, memberRepo, txnRepo)
	productService := service.NewProductService(productRepo)
	redemptionService := service.NewRedemptionService(pool, redemptionRepo, productRepo, memberRepo, txnRepo, cfg.Redemption.TTL())
	paymentService := service.NewPaymentService(pool, paymentRepo, memberRepo, txnRepo)
	statsService := service.NewStatsService(memberRepo, txnRepo, couponRepo)

	// Handlers
	memberHandler := handler.NewMemberHandler(ledgerService, validate)
	pointsHandler := handler.NewPointsHandler(ledgerService, validate)
	couponHandler := handler.NewCouponHandler(couponService, validate)
	productHandler := handler.NewProductHandler(productService, validate)
	redemptionHandler := handler.NewRedemptionHandler(redemptionService, validate)
	paymentHandler := handler.NewPaymentHandler(paymentService, validate)
	statsHandler := handler.NewStatsHandler(statsService)
	healthHandler := handler.NewHealthHandler(pool)

	// Routes
	app.Get("/health", healthHandler.Check)

	app.Post("/api/members", memberHandler.Upsert)
	app.Get("/api/members", memberHandler.List)
	app.Get("/api/members/:id", memberHandler.Get)
	app.Put("/api/members/:id/points", memberHandler.AdjustPoints)
	app.Get("/api/members/:id/transactions", memberHandler.History)
	app.Get("/api/members/:id/redemptions", redemptionHandler.ListByUser)

	app.Post("/api/points/earn", pointsHandler.Earn)
	app.Post("/api/points/redeem", pointsHandler.Redeem)

	app.Post("/api/coupons", couponHandler.Create)
	app.Get("/api/coupons", couponHandler.List)
	app.Post("/api/coupons/claim", couponHandler.Claim)
	app.Get("/api/coupons/:code", couponHandler.Get)
	app.Delete("/api/coupons/:code", couponHandler.Delete)

	app.Get("/api/products", productHandler.List)
	app.Post("/api/products", productHandler.Create)
	app.Post("/api/products/redeem", redemptionHandler.Redeem)
	app.Get("/api/products/:id", productHandler.Get)
	app.Put("/api/products/:id", productHandler.Update)
	app.Delete("/api/products/:id", productHandler.Delete)

	app.Get("/api/redemptions/:id", redemptionHandler.GetDetail)
	app.Post("/api/redemptions/:id/confirm", redemptionHandler.Confirm)
	app.Post("/api/redemptions/:id/cancel", redemptionHandler.Cancel)

	app.Post("/api/payments/topup", paymentHandler.TopUp)
	app.Get("/api/payments/:id", paymentHandler.Get)

	app.Get("/api/admin/stats", statsHandler.Stats)
	app.Get("/api/transactions", statsHandler.Transactions)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
