package main

import (
	"etailor-admin/internal/auth"
	"etailor-admin/internal/handler"
	"etailor-admin/internal/middleware"
	"etailor-admin/internal/model"
	"etailor-admin/internal/stats"
	"etailor-admin/internal/store"
	"etailor-admin/internal/upload"
	"etailor-admin/pkg/config"
	"etailor-admin/pkg/database"
	"etailor-admin/pkg/jwtutil"
	"etailor-admin/pkg/logger"
	"etailor-admin/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("etailor-admin")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting admin service...", cfg.LogConfig()...)

	// Open the database; the handle is owned here and passed down explicitly
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connection established")

	if err := database.Migrate(db,
		&model.Admin{},
		&model.RefreshToken{},
		&model.Tailor{},
		&model.Subscription{},
		&model.Announcement{},
		&model.AppConfiguration{},
		&model.Customer{},
		&model.Order{},
		&model.LoginEvent{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Wire stores, services and handlers
	jwt := jwtutil.NewJWTUtil(&cfg.JWT)
	admins := store.NewAdminStore(db)
	tokens := store.NewTokenStore(db)
	events := store.NewLoginEventStore(db)
	authService := auth.NewService(admins, tokens, jwt)
	engine := stats.NewEngine(db)

	uploads, err := upload.NewDiskStore(cfg.Upload.Dir)
	if err != nil {
		log.Fatal("Failed to initialize upload store", zap.Error(err))
	}

	authHandler := handler.NewAuthHandler(authService, db, jwt, events, uploads, cfg)
	dashboardHandler := handler.NewDashboardHandler(engine, cfg)
	reportHandler := handler.NewReportHandler(engine, cfg)
	tailorHandler := handler.NewTailorHandler(db, uploads, cfg)
	subscriptionHandler := handler.NewSubscriptionHandler(db, cfg)
	announcementHandler := handler.NewAnnouncementHandler(db, uploads, cfg)
	configurationHandler := handler.NewConfigurationHandler(db, uploads, cfg)

	guard := middleware.NewSessionGuard(jwt, authService, &cfg.JWT)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)
	e.GET("/api/tailor-stats/yearly", reportHandler.YearlyTailorStats)

	// Session endpoints
	authGroup := e.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/tailor-login", authHandler.TailorLogin)

	// Dashboard and reports - session required
	dashboard := e.Group("/dashboard", guard.Middleware)
	dashboard.GET("/api/dashboard-stats", dashboardHandler.Stats)

	api := e.Group("/api", guard.Middleware)
	api.GET("/reports", reportHandler.Report)

	// Tailor CRUD
	tailors := e.Group("/tailor", guard.Middleware)
	tailors.GET("/list", tailorHandler.List)
	tailors.GET("/view/:id", tailorHandler.Get)
	tailors.PUT("/update/:id", tailorHandler.Update)
	tailors.DELETE("/delete/:id", tailorHandler.Delete)

	// Subscription CRUD
	subscriptions := e.Group("/subscription", guard.Middleware)
	subscriptions.POST("/create", subscriptionHandler.Create)
	subscriptions.GET("/list", subscriptionHandler.List)
	subscriptions.GET("/view/:id", subscriptionHandler.Get)
	subscriptions.PUT("/update/:id", subscriptionHandler.Update)
	subscriptions.DELETE("/delete/:id", subscriptionHandler.Delete)

	// Announcement CRUD
	announcements := e.Group("/announcement", guard.Middleware)
	announcements.GET("/list", announcementHandler.List)
	announcements.POST("/create", announcementHandler.Create)
	announcements.DELETE("/delete/:id", announcementHandler.Delete)

	// App configuration
	configuration := e.Group("/configuration")
	configuration.POST("/set", configurationHandler.Create, guard.Middleware)
	configuration.PUT("/set/:id", configurationHandler.Update, guard.Middleware)
	configuration.GET("/get/:id", configurationHandler.Get)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
