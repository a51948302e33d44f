package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"veggie-kart/internal/catalog"
	"veggie-kart/internal/config"
	"veggie-kart/internal/database"
	"veggie-kart/internal/handler"
	"veggie-kart/internal/notify"
	"veggie-kart/internal/payment"
	"veggie-kart/internal/repository"
	"veggie-kart/internal/router"
	"veggie-kart/internal/scheduler"
	"veggie-kart/internal/service"
)

const (
	notifyTimeout = 10 * time.Second
	sweepTimeout  = time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting veggie-kart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Load the product catalogue, from S3 when enabled with local fallback
	var s3Loader catalog.Loader
	if cfg.S3.Enabled {
		s3Loader, err = catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		}
	} else {
		logger.Info().Msg("using local file system for the catalogue (S3 disabled)")
	}

	loader := catalog.NewFallbackLoader(s3Loader, catalog.NewFileLoader(logger), cfg.S3.Prefix, cfg.S3.Enabled, logger)
	products, err := loader.Load(ctx, cfg.Catalog.FilePath)
	if err != nil {
		return fmt.Errorf("failed to load catalogue: %w", err)
	}
	logger.Info().Int("products", products.Size()).Msg("catalogue loaded")

	// Initialize repositories
	challengeRepo := repository.NewChallengeRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	sessionRepo := repository.NewSessionRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	invoiceRepo := repository.NewInvoiceRepository(pool, logger)

	// Background timers and outbound collaborators
	timers := scheduler.New(logger)
	defer timers.Stop()

	sender := notify.NewAsyncSender(notify.NewLogSender(logger), notifyTimeout, logger)
	gateway := payment.NewSimulatedGateway(cfg.Checkout.OnlinePaymentDelay, logger)
	pricing := service.NewPricing(cfg.Store)

	// Initialize services
	productService := service.NewProductService(products, logger)
	sessionService := service.NewSessionService(sessionRepo, cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, logger)
	authService := service.NewAuthService(challengeRepo, userRepo, sessionRepo, sessionService, timers, sender, cfg.OTP.TTL, pricing, logger)
	userService := service.NewUserService(userRepo, logger)
	cartService := service.NewCartService(cartRepo, userRepo, products, sender, pricing, cfg.Cart.AbandonedAfter, cfg.Store.ShopWhatsApp, logger)
	orderService := service.NewOrderService(orderRepo, userRepo, invoiceRepo, cartRepo, products, gateway, sender, pricing, logger)

	timers.Every("cart:abandoned", cfg.Cart.CheckInterval, func() {
		sweepCtx, sweepCancel := context.WithTimeout(ctx, sweepTimeout)
		defer sweepCancel()

		if _, err := cartService.SweepAbandoned(sweepCtx); err != nil {
			logger.Error().Err(err).Msg("abandoned cart sweep failed")
		}
	})

	// Initialize HTTP handlers and router
	mux := router.New(router.Handlers{
		Product: handler.NewProductHandler(productService, logger),
		Auth:    handler.NewAuthHandler(authService, userService, logger),
		Cart:    handler.NewCartHandler(cartService, logger),
		Order:   handler.NewOrderHandler(orderService, logger),
	}, cfg.Auth.APIKey, sessionService, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
