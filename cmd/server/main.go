package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fashionhub/config"
	"fashionhub/internal/api"
	"fashionhub/internal/broker"
	"fashionhub/internal/kv"
	"fashionhub/internal/service"
	"fashionhub/internal/store"
	"fashionhub/internal/util"
	"fashionhub/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer util.SyncLogger()
	logger := util.GetLogger()

	tp, err := util.InitTracer("storefront", cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Failed to shutdown tracer", zap.Error(err))
			}
		}()
	}

	backend, err := openBackend(cfg)
	if err != nil {
		logger.Fatal("Failed to open storage backend",
			zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer backend.Close()
	logger.Info("Storage backend ready", zap.String("backend", cfg.Storage.Backend))

	st := store.New(backend)

	var publisher broker.Publisher = broker.NopPublisher{}
	var producer *broker.Producer
	if cfg.Kafka.Enabled {
		producer = broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		publisher = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	settings := service.NewSettingsService(st)
	auth := service.NewAuthService(st)
	catalog := service.NewCatalogService(st)
	cart := service.NewCartService(st)
	orders := service.NewOrderService(st, cart, settings, publisher)
	wishlist := service.NewWishlistService(st)
	currency := service.NewCurrencyService(st)
	analytics := service.NewAnalyticsService(st)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := auth.EnsureDefaultAdmin(bootCtx); err != nil {
		logger.Fatal("Failed to bootstrap admin account", zap.Error(err))
	}
	if _, err := catalog.List(bootCtx); err != nil {
		logger.Fatal("Failed to seed catalog", zap.Error(err))
	}
	bootCancel()

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	var notifications *worker.NotificationWorker
	if cfg.Kafka.Enabled {
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
		notifications = worker.NewNotificationWorker(consumer)
		go func() {
			if err := notifications.Start(workerCtx); err != nil && workerCtx.Err() == nil {
				logger.Error("Notification worker stopped", zap.Error(err))
			}
		}()
		logger.Info("Notification worker started", zap.String("group", cfg.Kafka.ConsumerGroup))
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	handler := api.NewHandler(auth, catalog, cart, orders, settings, wishlist, currency, analytics)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	workerCancel()
	if notifications != nil {
		if err := notifications.Stop(); err != nil {
			logger.Error("Failed to stop notification worker", zap.Error(err))
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("Failed to close Kafka producer", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func openBackend(cfg *config.Config) (kv.Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return kv.NewMemory(), nil
	case "file":
		return kv.NewFileStore(cfg.Storage.FileDir)
	case "redis":
		return kv.NewRedis(cfg.Storage.RedisAddr, cfg.Storage.RedisPassword, cfg.Storage.RedisDB)
	case "postgres":
		return kv.NewPostgres(cfg.Storage.PostgresURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
