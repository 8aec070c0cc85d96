package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/template"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	billingapp "github.com/vetdesk/backend/internal/application/billing"
	documentapp "github.com/vetdesk/backend/internal/application/document"
	identityapp "github.com/vetdesk/backend/internal/application/identity"
	notificationapp "github.com/vetdesk/backend/internal/application/notification"
	partyapp "github.com/vetdesk/backend/internal/application/party"
	patientapp "github.com/vetdesk/backend/internal/application/patient"
	schedulingapp "github.com/vetdesk/backend/internal/application/scheduling"
	stockapp "github.com/vetdesk/backend/internal/application/stock"
	"github.com/vetdesk/backend/internal/domain/shared"
	"github.com/vetdesk/backend/internal/infrastructure/auth"
	"github.com/vetdesk/backend/internal/infrastructure/cache"
	"github.com/vetdesk/backend/internal/infrastructure/config"
	"github.com/vetdesk/backend/internal/infrastructure/documents"
	"github.com/vetdesk/backend/internal/infrastructure/event"
	"github.com/vetdesk/backend/internal/infrastructure/logger"
	notifinfra "github.com/vetdesk/backend/internal/infrastructure/notification"
	"github.com/vetdesk/backend/internal/infrastructure/persistence"
	"github.com/vetdesk/backend/internal/infrastructure/schedulecache"
	"github.com/vetdesk/backend/internal/infrastructure/scheduler"
	"github.com/vetdesk/backend/internal/infrastructure/storage"
	"github.com/vetdesk/backend/internal/infrastructure/telemetry"
	"github.com/vetdesk/backend/internal/interfaces/http/handler"
	"github.com/vetdesk/backend/internal/interfaces/http/middleware"
	"github.com/vetdesk/backend/internal/interfaces/http/router"
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

	log.Info("Starting VetDesk Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Day buckets and YYYY-MM-DD query params resolve in practice-local time
	if loc, err := time.LoadLocation(cfg.App.Timezone); err == nil {
		time.Local = loc
	} else {
		log.Warn("Unknown timezone, staying on system local time",
			zap.String("timezone", cfg.App.Timezone), zap.Error(err))
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
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
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	patientRepo := persistence.NewGormPatientRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	actRepo := persistence.NewGormFinancialActRepository(db.DB)
	allocationRepo := persistence.NewGormAllocationRepository(db.DB)
	balanceStore := persistence.NewGormBalanceStore(db.DB)
	stockLocationRepo := persistence.NewGormStockLocationRepository(db.DB)
	stockLevelRepo := persistence.NewGormStockLevelRepository(db.DB)
	stockStore := persistence.NewGormStockStore(db.DB)
	reminderRepo := persistence.NewGormReminderRepository(db.DB)
	areaRepo := persistence.NewGormRosterAreaRepository(db.DB)
	shiftRepo := persistence.NewGormRosterShiftRepository(db.DB)
	scheduleRepo := persistence.NewGormScheduleRepository(db.DB)
	appointmentRepo := persistence.NewGormAppointmentRepository(db.DB)
	eventQueryFactory := persistence.NewGormEventQueryFactory(db.DB)
	overlapQuery := persistence.NewGormOverlapQuery(db.DB)

	// Telemetry: OTLP metrics for cache activity, allocation passes and
	// reminder dispatch. Disabled config yields a no-op provider.
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()
	practiceMetrics, err := telemetry.NewPracticeMetrics(meterProvider, log)
	if err != nil {
		log.Fatal("Failed to create practice metrics", zap.Error(err))
	}

	cacheOpts := []schedulecache.Option{
		schedulecache.WithLogger(log),
		schedulecache.WithShardCount(cfg.Cache.ShardCount),
		schedulecache.WithStats(telemetry.NewCacheStats(practiceMetrics)),
	}

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authOpts := []identityapp.AuthServiceOption{}
	if blacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err == nil {
		authOpts = append(authOpts, identityapp.WithTokenBlacklist(blacklist))
	} else {
		log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		authOpts = append(authOpts, identityapp.WithTokenBlacklist(auth.NewInMemoryTokenBlacklist()))
	}
	authService := identityapp.NewAuthService(userRepo, jwtService, log, authOpts...)
	userService := identityapp.NewUserService(userRepo, log)

	// Party and patient services
	customerService := partyapp.NewCustomerService(customerRepo, partyapp.WithCustomerLogger(log))
	patientService := patientapp.NewPatientService(patientRepo, customerRepo, patientapp.WithPatientLogger(log))

	// Billing services
	chargeService := billingapp.NewChargeService(actRepo, customerRepo, eventBus, billingapp.WithChargeLogger(log))
	paymentService := billingapp.NewPaymentService(actRepo, customerRepo, eventBus, billingapp.WithPaymentLogger(log))
	accountService := billingapp.NewAccountService(actRepo, customerRepo, billingapp.WithAccountLogger(log))

	balanceOpts := []billingapp.BalanceUpdaterOption{
		billingapp.WithBalanceLogger(log),
		billingapp.WithBalanceMetrics(practiceMetrics),
	}
	if cfg.Balance.LockEnabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		balanceOpts = append(balanceOpts, billingapp.WithBalanceLocker(redislock.New(redisClient)))
		log.Info("Per-customer balance locking enabled")
	}
	balanceUpdater := billingapp.NewBalanceUpdater(actRepo, allocationRepo, balanceStore, balanceOpts...)

	// Stock services
	stockService := stockapp.NewStockService(stockLocationRepo, stockLevelRepo, stockStore, stockapp.WithStockLogger(log))
	stockUpdater := stockapp.NewChargeStockUpdater(stockStore, stockapp.WithUpdaterLogger(log))

	// Scheduling services
	rosterService := schedulingapp.NewRosterService(
		eventQueryFactory, overlapQuery, shiftRepo, areaRepo, scheduleRepo,
		eventBus, cacheOpts, schedulingapp.WithRosterLogger(log),
	)
	scheduleService := schedulingapp.NewScheduleService(
		eventQueryFactory, appointmentRepo, scheduleRepo,
		eventBus, cacheOpts, schedulingapp.WithScheduleLogger(log),
	)

	// Reminder service
	reminderOpts := []notificationapp.ReminderServiceOption{
		notificationapp.WithReminderLogger(log),
		notificationapp.WithReminderLead(cfg.Reminder.Lead),
		notificationapp.WithReminderMetrics(practiceMetrics),
	}
	if cfg.Reminder.Template != "" {
		tmpl, err := template.New("reminder").Parse(cfg.Reminder.Template)
		if err != nil {
			log.Fatal("Invalid reminder template", zap.Error(err))
		}
		reminderOpts = append(reminderOpts, notificationapp.WithReminderTemplate(tmpl))
	}
	reminderService := notificationapp.NewReminderService(
		reminderRepo, customerRepo, patientRepo,
		notifinfra.NewLogTransport(log), reminderOpts...,
	)

	// Invoice document service
	templateEngine, err := documents.NewInvoiceTemplateEngine()
	if err != nil {
		log.Fatal("Failed to load invoice templates", zap.Error(err))
	}
	pdfRenderer, err := documents.NewChromedpRenderer(&documents.ChromedpConfig{Logger: log})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()
	var objectStore storage.ObjectStorage
	if cfg.Documents.Storage == "s3" {
		objectStore, err = storage.NewS3ObjectStorage(&cfg.Documents)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		log.Info("Using S3 document storage",
			zap.String("bucket", cfg.Documents.S3Bucket),
			zap.String("region", cfg.Documents.S3Region))
	} else {
		objectStore = storage.NewStubObjectStorage()
		log.Info("Using stub document storage")
	}
	documentService := documentapp.NewService(
		actRepo, customerRepo, patientRepo,
		templateEngine, pdfRenderer, objectStore,
		documentapp.WithLogger(log),
		documentapp.WithKeyPrefix(cfg.Documents.S3Prefix),
	)

	// Subscribe event handlers, each behind an idempotency guard so a
	// redelivered financial act or appointment event applies once.
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	subscribers := []shared.EventHandler{
		balanceUpdater,
		stockUpdater,
		rosterService,
		scheduleService,
		reminderService,
	}
	for _, h := range event.WrapHandlersWithIdempotency(subscribers, idempotencyStore, log,
		event.WithIdempotencyMetrics(event.GlobalIdempotencyMetrics)) {
		eventBus.Subscribe(h)
	}
	log.Info("Event handlers registered",
		zap.Strings("balance_events", balanceUpdater.EventTypes()),
		zap.Strings("stock_events", stockUpdater.EventTypes()),
		zap.Strings("roster_events", rosterService.EventTypes()),
		zap.Strings("schedule_events", scheduleService.EventTypes()),
		zap.Strings("reminder_events", reminderService.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Reminder dispatch scheduler
	reminderScheduler, err := scheduler.NewReminderScheduler(scheduler.ReminderSchedulerConfig{
		CronSchedule: cfg.Reminder.CronSchedule,
	}, reminderService, scheduler.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create reminder scheduler", zap.Error(err))
	}
	if cfg.Reminder.Enabled {
		reminderScheduler.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := reminderScheduler.Stop(ctx); err != nil {
				log.Error("Error stopping reminder scheduler", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	customerHandler := handler.NewCustomerHandler(customerService, patientService)
	patientHandler := handler.NewPatientHandler(patientService)
	chargeHandler := handler.NewChargeHandler(chargeService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	accountHandler := handler.NewAccountHandler(accountService)
	rosterHandler := handler.NewRosterHandler(rosterService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	stockHandler := handler.NewStockHandler(stockService)
	documentHandler := handler.NewDocumentHandler(documentService)
	reminderHandler := handler.NewReminderHandler(reminderScheduler)

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
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes.
	// The iCal feed is exempt: calendar clients cannot send bearer tokens.
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/rosters/ical",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Authentication
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Staff management, admin only
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.POST("", middleware.RequireRole("ADMIN"), userHandler.Create)
	userRoutes.PUT("/:id", middleware.RequireRole("ADMIN"), userHandler.Update)
	userRoutes.DELETE("/:id", middleware.RequireRole("ADMIN"), userHandler.Deactivate)

	// Customers and their patients
	customerRoutes := router.NewDomainGroup("customers", "/customers")
	customerRoutes.POST("", customerHandler.Create)
	customerRoutes.GET("", customerHandler.List)
	customerRoutes.GET("/:id", customerHandler.GetByID)
	customerRoutes.PUT("/:id", customerHandler.Update)
	customerRoutes.DELETE("/:id", customerHandler.Deactivate)
	customerRoutes.GET("/:id/patients", customerHandler.ListPatients)
	customerRoutes.GET("/:id/balance", accountHandler.GetBalance)

	patientRoutes := router.NewDomainGroup("patients", "/patients")
	patientRoutes.POST("", patientHandler.Create)
	patientRoutes.GET("/:id", patientHandler.GetByID)
	patientRoutes.PUT("/:id", patientHandler.Update)
	patientRoutes.POST("/:id/transfer", patientHandler.Transfer)
	patientRoutes.POST("/:id/deceased", patientHandler.MarkDeceased)

	// Charges: invoices, counter charges, credits
	chargeRoutes := router.NewDomainGroup("charges", "/charges")
	chargeRoutes.POST("", chargeHandler.Create)
	chargeRoutes.GET("", chargeHandler.ListByCustomer)
	chargeRoutes.GET("/:id", chargeHandler.GetByID)
	chargeRoutes.DELETE("/:id", chargeHandler.Delete)
	chargeRoutes.POST("/:id/items", chargeHandler.AddItem)
	chargeRoutes.PUT("/:id/items/:item_id", chargeHandler.UpdateItem)
	chargeRoutes.DELETE("/:id/items/:item_id", chargeHandler.RemoveItem)
	chargeRoutes.POST("/:id/complete", chargeHandler.Complete)
	chargeRoutes.POST("/:id/post", chargeHandler.Post)
	chargeRoutes.POST("/:id/document", documentHandler.Generate)
	chargeRoutes.GET("/:id/document", documentHandler.Download)
	chargeRoutes.DELETE("/:id/document", documentHandler.Delete)

	// Payments and adjustments
	paymentRoutes := router.NewDomainGroup("payments", "/payments")
	paymentRoutes.POST("", paymentHandler.Create)
	paymentRoutes.POST("/:id/post", paymentHandler.Post)

	// Rosters: shifts, per-area and per-user event feeds
	rosterRoutes := router.NewDomainGroup("rosters", "/rosters")
	rosterRoutes.GET("/areas/:area_id/events", rosterHandler.GetAreaEvents)
	rosterRoutes.GET("/areas/:area_id/mod-hash", rosterHandler.GetAreaModHash)
	rosterRoutes.GET("/areas/:area_id/schedules", rosterHandler.GetSchedules)
	rosterRoutes.GET("/users/:user_id/events", rosterHandler.GetUserEvents)
	rosterRoutes.GET("/users/:user_id/mod-hash", rosterHandler.GetUserModHash)
	rosterRoutes.POST("/overlap-check", rosterHandler.CheckOverlap)
	rosterRoutes.POST("/shifts", rosterHandler.CreateShift)
	rosterRoutes.PUT("/shifts/:id", rosterHandler.UpdateShift)
	rosterRoutes.DELETE("/shifts/:id", rosterHandler.DeleteShift)
	rosterRoutes.GET("/ical/:user_id", rosterHandler.ICalFeed)

	// Appointment schedules
	scheduleRoutes := router.NewDomainGroup("schedules", "/schedules")
	scheduleRoutes.GET("/:id/events", scheduleHandler.GetEvents)
	scheduleRoutes.GET("/:id/mod-hash", scheduleHandler.GetModHash)

	appointmentRoutes := router.NewDomainGroup("appointments", "/appointments")
	appointmentRoutes.POST("", scheduleHandler.CreateAppointment)
	appointmentRoutes.POST("/:id/reschedule", scheduleHandler.Reschedule)
	appointmentRoutes.POST("/:id/transition", scheduleHandler.Transition)
	appointmentRoutes.DELETE("/:id", scheduleHandler.DeleteAppointment)

	// Stock locations and levels
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.POST("/locations", stockHandler.CreateLocation)
	stockRoutes.GET("/locations", stockHandler.ListLocations)
	stockRoutes.GET("/locations/:id/levels", stockHandler.GetLevels)
	stockRoutes.POST("/adjustments", stockHandler.Adjust)

	// Reminder scheduler control
	reminderRoutes := router.NewDomainGroup("reminders", "/reminders")
	reminderRoutes.GET("/scheduler", reminderHandler.GetStatus)
	reminderRoutes.POST("/dispatch", middleware.RequireRole("ADMIN"), reminderHandler.TriggerDispatch)

	r.Register(authRoutes).
		Register(userRoutes).
		Register(customerRoutes).
		Register(patientRoutes).
		Register(chargeRoutes).
		Register(paymentRoutes).
		Register(rosterRoutes).
		Register(scheduleRoutes).
		Register(appointmentRoutes).
		Register(stockRoutes).
		Register(reminderRoutes)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
