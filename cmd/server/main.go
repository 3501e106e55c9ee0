package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/eventhub/backend/api/handler"
	"github.com/eventhub/backend/internal/config"
	"github.com/eventhub/backend/internal/infrastructure/geocode"
	"github.com/eventhub/backend/internal/infrastructure/mailer"
	"github.com/eventhub/backend/internal/infrastructure/monitor"
	"github.com/eventhub/backend/internal/infrastructure/outbox"
	pgInfra "github.com/eventhub/backend/internal/infrastructure/postgres"
	redisInfra "github.com/eventhub/backend/internal/infrastructure/redis"
	"github.com/eventhub/backend/internal/infrastructure/storage"
	"github.com/eventhub/backend/internal/middleware"
	"github.com/eventhub/backend/internal/router"
	"github.com/eventhub/backend/internal/services"
	"github.com/eventhub/backend/internal/services/lifecycle"
	"github.com/eventhub/backend/pkg/httpcontext"
	"github.com/eventhub/backend/pkg/logger"
	"github.com/eventhub/backend/repository/postgres"
	eventUC "github.com/eventhub/backend/usecase/event"
	identityUC "github.com/eventhub/backend/usecase/identity"
	moderationUC "github.com/eventhub/backend/usecase/moderation"
	rsvpUC "github.com/eventhub/backend/usecase/rsvp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	outboxStore, err := outbox.Open(cfg.Outbox.Path, "notifications")
	if err != nil {
		zapLogger.Fatal("failed to open notification outbox", zap.Error(err))
	}
	manager.Register("outbox", func(ctx context.Context) error {
		return outboxStore.Close()
	})

	mon := monitor.New(pool, redisClient, outboxStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	eventRepo := postgres.NewEventRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	rsvpRepo := postgres.NewRsvpRepository(pool)
	requestImageRepo := postgres.NewRequestImageRepository(pool)
	eventImageRepo := postgres.NewEventImageRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txManager := postgres.NewTxManager(pool)

	media := storage.NewFileStore(cfg.Storage.EventsDir, cfg.Storage.RequestsDir)

	geoCache := geocode.NewRedisCache(redisClient, cfg.Geocoder.CacheTTL, zapLogger)
	geocoder := geocode.NewClient(geocode.Config{
		BaseURL:  cfg.Geocoder.URL,
		APIKey:   cfg.Geocoder.APIKey,
		Timeout:  cfg.Geocoder.Timeout,
		CacheTTL: cfg.Geocoder.CacheTTL,
	}, geoCache, zapLogger)

	smtpMailer := mailer.NewSMTP(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	dispatcher := services.NewDispatcher(smtpMailer, userRepo, outboxStore, zapLogger, services.DispatcherConfig{
		DrainInterval: cfg.Outbox.DrainInterval,
		MaxRetries:    cfg.Outbox.MaxRetry,
		Retention:     time.Duration(cfg.Outbox.RetentionHours) * time.Hour,
	})
	dispatcher.Start()
	manager.Register("dispatcher", func(ctx context.Context) error {
		dispatcher.Stop(ctx)
		return nil
	})

	moderationUseCase := moderationUC.New(
		requestRepo, eventRepo, rsvpRepo, requestImageRepo, eventImageRepo,
		txManager, geocoder, media, dispatcher, zapLogger,
	)
	eventUseCase := eventUC.New(eventRepo, rsvpRepo, eventImageRepo, media, zapLogger)
	rsvpUseCase := rsvpUC.New(rsvpRepo, eventRepo, userRepo, dispatcher, zapLogger)
	identityUseCase := identityUC.New(userRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Event:   apiHandler.NewEventHandler(eventUseCase, ctxAdapter, zapLogger),
		Request: apiHandler.NewRequestHandler(moderationUseCase, ctxAdapter, zapLogger),
		Rsvp:    apiHandler.NewRsvpHandler(rsvpUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, identityUseCase, zapLogger)
	r := router.New(handlers, authMiddleware, middleware.RequireAdmin)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
