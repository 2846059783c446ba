package main

import (
	"time"

	"cardapio-api/internal/handler"
	mid "cardapio-api/internal/middleware"
	"cardapio-api/pkg/config"
	"cardapio-api/pkg/database"
	"cardapio-api/pkg/jwtutil"
	"cardapio-api/pkg/logger"
	"cardapio-api/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting cardapio-api", cfg.LogConfig()...)

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized", zap.String("metrics_prefix", cfg.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire handlers to the database-backed services
	handler.Init(database.GetDB(), cfg)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
	}))
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Storefront endpoints share an in-memory rate limiter
	rateLimiter := echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RateLimit.Rate),
			Burst:     cfg.RateLimit.Burst,
			ExpiresIn: 3 * time.Minute,
		}),
	})

	// Ops endpoints
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	api := e.Group("/api")

	// Authentication routes
	auth := api.Group("/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)

	// Public storefront routes - tenant resolved from slug/header/subdomain
	api.GET("/menu/:tenantSlug", handler.GetMenu, rateLimiter, mid.ResolveTenant)
	api.GET("/storefront/:tenantSlug", handler.GetStorefront, rateLimiter, mid.ResolveTenant)
	api.POST("/orders/:tenantSlug/create", handler.CreateOrder, rateLimiter, mid.ResolveTenant)
	api.GET("/orders/customers/orders/:phone", handler.ListCustomerOrders, rateLimiter, mid.ResolveTenant)

	// Payment routes - the webhook is called by the provider, not the storefront
	api.POST("/payments/pix", handler.CreatePixCharge, rateLimiter)
	api.POST("/payments/webhook", handler.PaymentWebhook)

	// Admin routes - require bearer JWT; tenant context comes from the claims
	admin := api.Group("", mid.AuthMiddleware)
	admin.GET("/orders", handler.ListOrders)
	admin.GET("/orders/:id", handler.GetOrder)
	admin.PATCH("/orders/:id/status", handler.UpdateOrderStatus)
	admin.DELETE("/orders/:id", handler.CancelOrder)

	admin.GET("/categories", handler.ListCategories)
	admin.GET("/categories/:id", handler.GetCategory)
	admin.POST("/categories", handler.CreateCategory)
	admin.PUT("/categories/:id", handler.UpdateCategory)
	admin.DELETE("/categories/:id", handler.DeleteCategory)

	admin.GET("/products", handler.ListProducts)
	admin.GET("/products/:id", handler.GetProduct)
	admin.POST("/products", handler.CreateProduct)
	admin.PUT("/products/:id", handler.UpdateProduct)
	admin.PATCH("/products/:id/availability", handler.UpdateProductAvailability)
	admin.DELETE("/products/:id", handler.DeleteProduct)

	admin.GET("/customers", handler.ListCustomers)
	admin.GET("/customers/:id", handler.GetCustomer)

	admin.GET("/config", handler.GetConfig)
	admin.PUT("/config", handler.UpdateConfig)

	admin.GET("/analytics/summary", handler.AnalyticsSummary)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
