package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/usecase-portal/internal/api/http"
	"github.com/spec-kit/usecase-portal/internal/api/http/handlers"
	"github.com/spec-kit/usecase-portal/internal/auth"
	"github.com/spec-kit/usecase-portal/internal/config"
	"github.com/spec-kit/usecase-portal/internal/events"
	"github.com/spec-kit/usecase-portal/internal/extract"
	"github.com/spec-kit/usecase-portal/internal/inference"
	"github.com/spec-kit/usecase-portal/internal/observability"
	"github.com/spec-kit/usecase-portal/internal/persistence"
	"github.com/spec-kit/usecase-portal/internal/repository"
	"github.com/spec-kit/usecase-portal/internal/resolve"
	"github.com/spec-kit/usecase-portal/internal/service"
	"github.com/spec-kit/usecase-portal/internal/worker"
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
	productRepo := repository.NewProductRepository(pool)
	sentimentLabelRepo := repository.NewSentimentLabelRepository(pool)
	imageLabelRepo := repository.NewImageLabelRepository(pool)
	translationRepo := repository.NewTranslationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	completer := inference.NewClient(inference.ClientConfig{
		BaseURL: cfg.Inference.BaseURL,
		APIKey:  cfg.Inference.APIKey,
		Timeout: cfg.Inference.Timeout(),
	}, logger)
	synthetic := resolve.NewSyntheticIDs()
	textExtractor := extract.PlainText{}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Redis:      redis.Client,
		Logger:     logger,
	})
	productSearchService := service.NewProductSearchService(productRepo, completer, cfg.Inference.ChatModel, synthetic, dispatcher, logger)
	sentimentService := service.NewSentimentService(sentimentLabelRepo, completer, cfg.Inference.ChatModel, dispatcher, logger)
	imageService := service.NewImageService(service.ImageServiceOptions{
		Labels: imageLabelRepo,
		// No OCR engine is wired, so classification always reaches the
		// vision model; swap in a real reader to activate the label table.
		OCR:            extract.NoOCR{},
		Completer:      completer,
		Model:          cfg.Inference.VisionModel,
		BrandOverrides: cfg.Inference.BrandOverrides,
		MaxRetries:     cfg.Inference.MaxRetries,
		RetryDelay:     cfg.Inference.RetryDelay(),
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	translationService := service.NewTranslationService(translationRepo, completer, cfg.Inference.ChatModel, dispatcher, logger)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{BodyLimit: 32 << 20})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		ProductSearch:  handlers.NewProductSearchHandler(productSearchService),
		Image:          handlers.NewImageHandler(imageService),
		Sentiment:      handlers.NewSentimentHandler(sentimentService, textExtractor),
		Translation:    handlers.NewTranslationHandler(translationService, textExtractor),
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
