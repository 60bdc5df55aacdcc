package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/fulfillment"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/payment"
	"github.com/storefront/backend/internal/infrastructure/session"
	"github.com/storefront/backend/internal/infrastructure/storefront"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting checkout backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Session store (Redis in production, in-memory fallback in development)
	sessions, err := session.NewStore(cfg.Redis, cfg.Session, log)
	if err != nil {
		log.Fatal("Failed to create session store", zap.Error(err))
	}

	// Idempotency store guards cart-merge replays against duplicates
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotency, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotency.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Fulfillment partner client
	printfulClient, err := fulfillment.NewPrintfulClient(&fulfillment.PrintfulConfig{
		APIKey:  cfg.Printful.APIKey,
		StoreID: cfg.Printful.StoreID,
		BaseURL: cfg.Printful.BaseURL,
		Timeout: cfg.Printful.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to create Printful client", zap.Error(err))
	}

	// Storefront backend client (user cart, orders, address book)
	storefrontClient, err := storefront.NewClient(&storefront.Config{
		BaseURL: cfg.Storefront.BaseURL,
		Timeout: cfg.Storefront.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to create storefront client", zap.Error(err))
	}

	// Stripe payment verification
	stripeVerifier, err := payment.NewStripeVerifier(&payment.StripeConfig{
		SecretKey: cfg.Stripe.SecretKey,
	}, log)
	if err != nil {
		log.Fatal("Failed to create Stripe verifier", zap.Error(err))
	}

	// Login token verification
	tokenVerifier := auth.NewTokenVerifier(cfg.Auth)

	// Checkout orchestrator
	checkoutService := checkoutapp.NewCheckoutService(
		sessions,
		printfulClient,
		storefrontClient,
		storefrontClient,
		stripeVerifier,
		storefrontClient,
		tokenVerifier,
		idempotency,
		log,
	)

	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Checkout domain
	checkoutRoutes := router.NewDomainGroup("checkout", "/checkout")
	checkoutRoutes.POST("/sessions", checkoutHandler.Create)
	checkoutRoutes.GET("/sessions/:session_id", checkoutHandler.Get)
	checkoutRoutes.PUT("/sessions/:session_id/customer", checkoutHandler.UpdateCustomer)
	checkoutRoutes.POST("/sessions/:session_id/lines", checkoutHandler.AddLine)
	checkoutRoutes.DELETE("/sessions/:session_id/lines/:line_id", checkoutHandler.RemoveLine)
	checkoutRoutes.POST("/sessions/:session_id/rates", checkoutHandler.FetchRates)
	checkoutRoutes.PUT("/sessions/:session_id/rates/selection", checkoutHandler.SelectRate)
	checkoutRoutes.POST("/sessions/:session_id/login", checkoutHandler.Login)
	checkoutRoutes.POST("/sessions/:session_id/merge", checkoutHandler.ResolveMerge)
	checkoutRoutes.GET("/sessions/:session_id/totals", checkoutHandler.Totals)
	checkoutRoutes.GET("/sessions/:session_id/region-check", checkoutHandler.CheckRegion)
	checkoutRoutes.POST("/sessions/:session_id/order", checkoutHandler.CreateOrderDraft)
	checkoutRoutes.POST("/sessions/:session_id/payment/confirm", checkoutHandler.ConfirmPayment)
	checkoutRoutes.GET("/sessions/:session_id/addresses", checkoutHandler.SavedAddresses)
	checkoutRoutes.POST("/address/validate", checkoutHandler.ValidateAddress)
	checkoutRoutes.POST("/variants/resolve", checkoutHandler.ResolveVariants)
	r.Register(checkoutRoutes)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
