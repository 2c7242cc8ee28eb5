package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/nutrition-service/internal/api/http"
	"github.com/spec-kit/nutrition-service/internal/api/http/handlers"
	"github.com/spec-kit/nutrition-service/internal/auth"
	"github.com/spec-kit/nutrition-service/internal/config"
	"github.com/spec-kit/nutrition-service/internal/events"
	"github.com/spec-kit/nutrition-service/internal/observability"
	"github.com/spec-kit/nutrition-service/internal/persistence"
	"github.com/spec-kit/nutrition-service/internal/repository"
	"github.com/spec-kit/nutrition-service/internal/service"
	"github.com/spec-kit/nutrition-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}
	if cfg.Postgres.RunSeed {
		if err := persistence.Seed(ctx, pg.PoolHandle(), cfg.Auth.BcryptCost, logger); err != nil {
			logger.Fatal("failed to seed mock data", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	clinicianRepo := repository.NewClinicianRepository(pool)
	patientRepo := repository.NewPatientRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:      userRepo,
		ClinicianRepo: clinicianRepo,
		Denylist:      redis,
		Logger:        logger,
	})
	userService := service.NewUserService(*cfg, userRepo, clinicianRepo, patientRepo, dispatcher)
	patientService := service.NewPatientService(userRepo, patientRepo, progressRepo, planRepo, dispatcher)
	planService := service.NewPlanService(planRepo, patientRepo, dispatcher)

	cookies := auth.CookiePolicy{
		Secure: cfg.App.IsProduction(),
		Domain: cfg.Auth.CookieDomain,
	}
	routeGuard := auth.NewRouteGuard(authService.TokenManager(), cookies, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, clinicianRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Pages:          handlers.NewPagesHandler(cfg.App.Name),
		Auth:           handlers.NewAuthHandler(authService, cookies),
		Dashboard:      handlers.NewDashboardHandler(userService, patientService, planService, clinicianRepo),
		Patients:       handlers.NewPatientsHandler(patientService),
		Plans:          handlers.NewPlansHandler(planService),
		AdminUsers:     handlers.NewAdminUsersHandler(userService),
		RouteGuard:     routeGuard,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
