package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appfulfillment "github.com/locddhe176242/G174---MMS-sub001/internal/application/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/identity"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/inventory"
	"github.com/locddhe176242/G174---MMS-sub001/internal/infrastructure/auth"
	"github.com/locddhe176242/G174---MMS-sub001/internal/infrastructure/cache"
	"github.com/locddhe176242/G174---MMS-sub001/internal/infrastructure/config"
	"github.com/locddhe176242/G174---MMS-sub001/internal/infrastructure/event"
	"github.com/locddhe176242/G174---MMS-sub001/internal/infrastructure/logger"
	"github.com/locddhe176242/G174---MMS-sub001/internal/infrastructure/persistence"
	"github.com/locddhe176242/G174---MMS-sub001/internal/interfaces/http/handler"
	"github.com/locddhe176242/G174---MMS-sub001/internal/interfaces/http/middleware"
	"github.com/locddhe176242/G174---MMS-sub001/internal/interfaces/http/router"
	"go.uber.org/zap"
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

	log.Info("Starting fulfillment backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	deliveryRepo := persistence.NewGormDeliveryRepository(db.DB)
	issueRepo := persistence.NewGormGoodIssueRepository(db.DB)
	returnRepo := persistence.NewGormReturnOrderRepository(db.DB)
	salesOrderReader := persistence.NewGormSalesOrderReader(db.DB)
	stockRepo := persistence.NewGormWarehouseStockRepository(db.DB)

	// Advisory stock reads go through the snapshot cache when enabled.
	// The approval transaction always reads authoritative rows, so a
	// stale snapshot can only produce an optimistic advisory answer.
	var stockReader inventory.WarehouseStockReader = stockRepo
	var snapshotReader *cache.CachedStockReader
	if cfg.Stock.SnapshotCacheEnabled {
		factory := cache.NewSnapshotStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(true),
		)
		store, err := factory.CreateStore()
		if err != nil {
			log.Fatal("Failed to create stock snapshot store", zap.Error(err))
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Error("Error closing snapshot store", zap.Error(err))
			}
		}()
		snapshotReader = cache.NewCachedStockReader(stockRepo, store,
			cache.WithSnapshotTTL(cfg.Stock.SnapshotTTL),
			cache.WithReaderLogger(log),
		)
		stockReader = snapshotReader
		log.Info("Stock snapshot cache enabled", zap.Duration("ttl", cfg.Stock.SnapshotTTL))
	}

	// Domain services
	ledger := fulfillment.NewQuantityLedger(returnRepo, stockReader)
	validator := fulfillment.NewStockAvailabilityValidator(ledger)
	assembler := fulfillment.NewDocumentAssembler(ledger, issueRepo)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	deliveryService := appfulfillment.NewDeliveryService(deliveryRepo, salesOrderReader, assembler)
	issueService := appfulfillment.NewGoodIssueService(issueRepo, deliveryRepo, assembler, validator, txScope)
	returnService := appfulfillment.NewReturnOrderService(returnRepo, deliveryRepo, assembler, ledger, txScope)

	// Event bus: snapshot invalidation after stock-affecting approvals
	eventBus := event.NewInMemoryEventBus(log)
	if snapshotReader != nil {
		snapshotHandler := appfulfillment.NewStockSnapshotHandler(snapshotReader, issueRepo, log)
		eventBus.Subscribe(snapshotHandler)
	}
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	deliveryService.SetEventPublisher(eventBus)
	issueService.SetEventPublisher(eventBus)
	returnService.SetEventPublisher(eventBus)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	var tokenBlacklist auth.TokenBlacklist
	if blacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis); err != nil {
		log.Warn("Token blacklist unavailable, revocation checks disabled", zap.Error(err))
	} else {
		tokenBlacklist = blacklist
		defer func() {
			if err := blacklist.Close(); err != nil {
				log.Error("Error closing token blacklist", zap.Error(err))
			}
		}()
	}

	// HTTP handlers
	deliveryHandler := handler.NewDeliveryHandler(deliveryService)
	issueHandler := handler.NewGoodIssueHandler(issueService)
	returnHandler := handler.NewReturnOrderHandler(returnService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.HealthCheck)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.Logger = log
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	warehouseOnly := middleware.RequireAnyRole(identity.RoleWarehouse)
	managerOnly := middleware.RequireRole(identity.RoleManager)

	// Delivery routes
	deliveryRoutes := router.NewDomainGroup("deliveries", "/deliveries")
	deliveryRoutes.POST("", deliveryHandler.Create)
	deliveryRoutes.GET("", deliveryHandler.List)
	deliveryRoutes.GET("/:id", deliveryHandler.GetByID)
	deliveryRoutes.GET("/:id/permissions", deliveryHandler.GetEditPermissions)
	deliveryRoutes.PUT("/:id/items/:item_id", deliveryHandler.UpdateItem)
	deliveryRoutes.DELETE("/:id/items/:item_id", deliveryHandler.RemoveItem)
	deliveryRoutes.PUT("/:id/tracking", deliveryHandler.SetTracking)
	deliveryRoutes.PUT("/:id/notes", deliveryHandler.SetNotes)
	deliveryRoutes.POST("/:id/pick", warehouseOnly, deliveryHandler.Pick)
	deliveryRoutes.POST("/:id/ship", warehouseOnly, deliveryHandler.Ship)
	deliveryRoutes.POST("/:id/deliver", warehouseOnly, deliveryHandler.MarkDelivered)
	deliveryRoutes.POST("/:id/cancel", deliveryHandler.Cancel)
	deliveryRoutes.DELETE("/:id", deliveryHandler.Delete)

	// Good issue routes
	issueRoutes := router.NewDomainGroup("good-issues", "/good-issues")
	issueRoutes.POST("", issueHandler.Create)
	issueRoutes.GET("", issueHandler.List)
	issueRoutes.GET("/:id", issueHandler.GetByID)
	issueRoutes.GET("/:id/permissions", issueHandler.GetEditPermissions)
	issueRoutes.GET("/:id/availability", issueHandler.CheckAvailability)
	issueRoutes.PUT("/:id/items/:item_id", issueHandler.UpdateItem)
	issueRoutes.PUT("/:id/notes", issueHandler.SetNotes)
	issueRoutes.POST("/:id/submit", warehouseOnly, issueHandler.SubmitForApproval)
	issueRoutes.POST("/:id/reject", warehouseOnly, issueHandler.Reject)
	issueRoutes.POST("/:id/revoke", managerOnly, issueHandler.Revoke)
	issueRoutes.DELETE("/:id", issueHandler.Delete)

	// Return order routes
	returnRoutes := router.NewDomainGroup("return-orders", "/return-orders")
	returnRoutes.POST("", returnHandler.Create)
	returnRoutes.GET("", returnHandler.List)
	returnRoutes.GET("/:id", returnHandler.GetByID)
	returnRoutes.GET("/:id/permissions", returnHandler.GetEditPermissions)
	returnRoutes.PUT("/:id/items/:item_id", returnHandler.UpdateItem)
	returnRoutes.PUT("/:id/reason", returnHandler.SetReason)
	returnRoutes.POST("/:id/approve", warehouseOnly, returnHandler.Approve)
	returnRoutes.POST("/:id/reject", warehouseOnly, returnHandler.Reject)
	returnRoutes.POST("/:id/cancel", returnHandler.Cancel)
	returnRoutes.DELETE("/:id", returnHandler.Delete)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/health", systemHandler.HealthCheck)

	r.Register(deliveryRoutes).
		Register(issueRoutes).
		Register(returnRoutes).
		Register(systemRoutes)

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
