package app

import (
	"context"
	"io"
	"time"

	"github.com/mygitvirtual012322/instaspy/internal/config"
	"github.com/mygitvirtual012322/instaspy/internal/geo"
	"github.com/mygitvirtual012322/instaspy/internal/ledger"
	"github.com/mygitvirtual012322/instaspy/internal/logger"
	"github.com/mygitvirtual012322/instaspy/internal/metrics"
	"github.com/mygitvirtual012322/instaspy/internal/middleware"
	"github.com/mygitvirtual012322/instaspy/internal/operator"
	operatorhandler "github.com/mygitvirtual012322/instaspy/internal/operator/handler"
	"github.com/mygitvirtual012322/instaspy/internal/payment"
	"github.com/mygitvirtual012322/instaspy/internal/payment/gateway"
	paymenthandler "github.com/mygitvirtual012322/instaspy/internal/payment/handler"
	"github.com/mygitvirtual012322/instaspy/internal/session"
	"github.com/mygitvirtual012322/instaspy/internal/tracking"
	trackinghandler "github.com/mygitvirtual012322/instaspy/internal/tracking/handler"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	var sessionStore session.Store
	if infra.Redis != nil {
		sessionStore = session.NewRedisStore(infra.Redis)
	} else {
		sessionStore = session.NewMemoryStore()
	}

	var orderLedger ledger.Ledger
	if infra.DB != nil {
		orderLedger, err = ledger.NewPostgresLedger(ctx, infra.DB)
		if err != nil {
			return nil, nil, err
		}
	} else {
		orderLedger = ledger.NewFileLedger(cfg.OrdersFile)
	}

	var locator geo.Locator
	var geoCloser io.Closer
	if cfg.GeoIPDatabasePath != "" {
		maxmind, err := geo.NewMaxMindLocator(cfg.GeoIPDatabasePath)
		if err != nil {
			return nil, nil, err
		}
		locator = maxmind
		geoCloser = maxmind
	} else if cfg.GeoIPAPIBaseURL != "" {
		locator = geo.NewAPILocator(cfg.GeoIPAPIBaseURL)
	}

	registry := tracking.NewRegistry(locator)
	ttl := time.Duration(cfg.SessionTTLSeconds) * time.Second

	gatewayClient := gateway.New(gateway.Config{
		BaseURL:  cfg.GatewayURL,
		APIKey:   cfg.GatewayAPIKey,
		ClientID: cfg.GatewayClientID,
	})

	var notifier payment.Notifier
	if cfg.NotifyURL != "" {
		notifier = payment.NewHTTPNotifier(cfg.NotifyURL)
	}

	reconciler := payment.NewReconciler(gatewayClient, orderLedger, notifier)

	credentials := operator.NewCredentials(cfg.AdminPasswordHash)
	if !credentials.Enabled() {
		logger.Warn("ADMIN_PASSWORD_HASH not set, operator login disabled", nil)
	}

	trackHandler := trackinghandler.NewHandler(registry, orderLedger, ttl)
	payHandler := paymenthandler.NewHandler(reconciler, orderLedger)
	opHandler := operatorhandler.NewHandler(credentials, sessionStore)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.GinMiddleware())

	// ----------------------------
	// Public Routes
	// ----------------------------

	trackHandler.RegisterRoutes(router)
	payHandler.RegisterRoutes(router)
	opHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", metrics.Handler())

	// ----------------------------
	// Operator Routes
	// ----------------------------

	admin := router.Group("/admin")
	admin.Use(middleware.GinRequireOperator(authMiddleware))

	admin.GET("/live", trackHandler.Live)
	admin.GET("/orders", payHandler.Orders)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if geoCloser != nil {
			if err := geoCloser.Close(); err != nil {
				return err
			}
		}
		return infra.close()
	}, nil
}
