package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/revendehq/revende_api/internal/cache"
	"github.com/revendehq/revende_api/internal/config"
	"github.com/revendehq/revende_api/internal/database"
	"github.com/revendehq/revende_api/internal/handler"
	"github.com/revendehq/revende_api/internal/middleware"
	"github.com/revendehq/revende_api/internal/repository"
	"github.com/revendehq/revende_api/internal/service"
	"github.com/revendehq/revende_api/internal/worker"
	"github.com/revendehq/revende_api/pkg/tiendanube"
)

// main is the application entrypoint for the Revende API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting revende api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize category cache
	categoryCache := cache.NewCategoryCache(redisClient)

	// 4. Initialize store API client
	tiendaClient := tiendanube.NewClient(tiendanube.Config{
		BaseURL:     cfg.Tienda.APIBase,
		StoreID:     cfg.Tienda.StoreID,
		AccessToken: cfg.Tienda.AccessToken,
	})

	// 5. Initialize repositories
	userRepo := repository.NewUserRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	gamificationRepo := repository.NewGamificationRepository(db)
	consolidacionRepo := repository.NewConsolidacionRepository(db)

	// 6. Initialize services
	authSvc := service.NewAuthService(userRepo)
	gamificationSvc := service.NewGamificationService(gamificationRepo, badgeRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, userRepo, gamificationSvc)
	catalogSvc := service.NewCatalogService(catalogRepo, tiendaClient, categoryCache)
	syncSvc := service.NewSyncService(tiendaClient, catalogRepo, categoryCache)
	consolidacionSvc := service.NewConsolidacionService(consolidacionRepo, pedidoRepo)

	// Profile photo storage is optional: without a bucket the photo upload
	// endpoint echoes the image back instead of failing.
	var photoStore service.PhotoStore
	if storageSvc, err := service.NewStorageService(&cfg.S3); err != nil {
		log.Warn().Err(err).Msg("Object storage disabled")
	} else {
		photoStore = storageSvc
	}
	profileSvc := service.NewProfileService(userRepo, photoStore)

	// 7. Initialize handlers
	rateLimiter := middleware.NewInvalidAuthRateLimiter()
	handlers := &Handlers{
		Health:        handler.NewHealthHandler(db, redisClient),
		Auth:          handler.NewAuthHandler(authSvc, rateLimiter),
		Pedido:        handler.NewPedidoHandler(pedidoSvc),
		Catalog:       handler.NewCatalogHandler(catalogSvc),
		Gamification:  handler.NewGamificationHandler(gamificationSvc),
		Profile:       handler.NewProfileHandler(profileSvc),
		User:          handler.NewUserHandler(profileSvc),
		Consolidacion: handler.NewConsolidacionHandler(consolidacionSvc),
		Admin:         handler.NewAdminHandler(gamificationSvc, catalogSvc),
		Sync:          handler.NewSyncHandler(syncSvc, cfg.CronSecret, cfg.Worker.SyncTimeout),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewSyncWorker(syncSvc, cfg.Worker.SyncInterval, cfg.Worker.SyncTimeout).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	Pedido        *handler.PedidoHandler
	Catalog       *handler.CatalogHandler
	Gamification  *handler.GamificationHandler
	Profile       *handler.ProfileHandler
	User          *handler.UserHandler
	Consolidacion *handler.ConsolidacionHandler
	Admin         *handler.AdminHandler
	Sync          *handler.SyncHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/api/health", handlers.Health.GetHealth)

	// Public routes
	router.POST("/api/auth/registro", handlers.Auth.Registro)
	router.POST("/api/auth/login", handlers.Auth.Login)
	router.GET("/api/profile/public/:handle", handlers.Profile.Public)

	// Cron trigger (guarded by shared secret, not JWT)
	router.GET("/api/cron/sync-catalog", handlers.Sync.SyncCatalog)

	// Authenticated routes
	api := router.Group("/api")
	api.Use(jwtMiddleware.Handle())
	{
		// Pedidos
		api.POST("/pedidos", handlers.Pedido.Crear)
		api.POST("/pedidos/create", handlers.Pedido.Crear) // legacy alias
		api.GET("/pedidos", handlers.Pedido.Listar)
		api.PUT("/pedidos/:id/status", handlers.Pedido.CambiarStatus)
		api.PATCH("/pedidos/:id/status", handlers.Pedido.CambiarStatus) // legacy alias

		// Catalog
		api.GET("/catalogo", handlers.Catalog.List)
		api.GET("/catalogo/categories", handlers.Catalog.Categories)
		api.GET("/best-sellers", handlers.Catalog.BestSellers)

		// Gamification
		api.GET("/gamification/stats", handlers.Gamification.Stats)

		// Profile
		api.POST("/profile/upload-photo", handlers.Profile.UploadFoto)
		api.PUT("/user/update", handlers.User.Update)

		// Consolidaciones
		api.POST("/consolidaciones", handlers.Consolidacion.Crear)
		api.GET("/consolidaciones", handlers.Consolidacion.Listar)
		api.GET("/consolidaciones/pendientes", handlers.Consolidacion.Pendientes)

		// Admin
		api.POST("/admin/seed-badges", handlers.Admin.SeedBadges)
		api.POST("/admin/limpiar-cache", handlers.Admin.LimpiarCache)
		api.GET("/admin/diagnostico-gamificacion", handlers.Admin.DiagnosticoGamificacion)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
