package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/hightask/helpdesk-api/internal/api/http"
	"github.com/hightask/helpdesk-api/internal/api/http/handlers"
	"github.com/hightask/helpdesk-api/internal/auth"
	"github.com/hightask/helpdesk-api/internal/config"
	"github.com/hightask/helpdesk-api/internal/events"
	"github.com/hightask/helpdesk-api/internal/observability"
	"github.com/hightask/helpdesk-api/internal/persistence"
	"github.com/hightask/helpdesk-api/internal/repository"
	"github.com/hightask/helpdesk-api/internal/service"
	"github.com/hightask/helpdesk-api/internal/storage"
	"github.com/hightask/helpdesk-api/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	ticketStore := repository.NewTicketStore(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	userService := service.NewUserService(*cfg, userRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      ticketStore,
		Dispatcher: dispatcher,
	})
	suggestionService := service.NewSuggestionService()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	signer := storage.NewURLSigner(cfg.Auth.JWTSecret)
	objectStore := storage.NewObjectStore(redis.Client, signer, cfg.Storage.MaxUploadBytes)

	if admin, err := authService.BootstrapDefaultAdmin(ctx); err != nil {
		logger.Fatal("failed to bootstrap default admin", zap.Error(err))
	} else if admin != nil {
		logger.Info("default admin ready", zap.String("email", admin.Email))
	}

	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Storage.MaxUploadBytes) * 2,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, suggestionService),
		Users:          handlers.NewUsersHandler(userService),
		Attachments:    handlers.NewAttachmentsHandler(objectStore, ticketService, cfg.Storage),
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
