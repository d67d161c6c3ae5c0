package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stoktakip-service/config"
	"stoktakip-service/internal/api"
	"stoktakip-service/internal/broker"
	"stoktakip-service/internal/kv"
	"stoktakip-service/internal/service"
	"stoktakip-service/internal/store"
	"stoktakip-service/internal/util"
	"stoktakip-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting stoktakip service")

	tp, err := util.InitTracer("stoktakip-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	backend := kv.Open(context.Background(), cfg, logger)
	defer backend.Close()
	logger.Info("KV store ready", zap.String("backend", backend.Name))

	st := store.NewStore(backend.Store)

	var sink broker.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		sink = broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
	} else {
		sink = broker.NewLogSink(logger)
		logger.Info("Kafka not configured, events go to the log")
	}
	defer sink.Close()

	eventPublisher := broker.NewEventPublisher(sink)

	now := time.Now
	resources := service.NewResources(st, now)
	saleService := service.NewSaleService(st, resources, backend.Locker, eventPublisher)
	ledgerService := service.NewLedgerService(st, resources, backend.Locker, eventPublisher, now)
	repairService := service.NewRepairService(st, resources, eventPublisher, now)
	catalogService := service.NewCatalogService(resources, eventPublisher)
	reportService := service.NewReportService(st, now)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var activityWorker *worker.ActivityWorker
	if len(cfg.Kafka.Brokers) > 0 {
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
		activityWorker = worker.NewActivityWorker(consumer, st)
		go func() {
			if err := activityWorker.Start(workerCtx); err != nil {
				logger.Error("Activity worker error", zap.Error(err))
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(resources, saleService, ledgerService, repairService, catalogService, reportService)
	handler.SetupRoutes(router, cfg.Server.APIPrefixes)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port), zap.Strings("prefixes", cfg.Server.APIPrefixes))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if activityWorker != nil {
		activityWorker.Stop()
	}

	logger.Info("Server exited")
}
