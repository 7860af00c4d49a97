package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"vision-alert-service/internal/adapters/primary/http/handlers"
	"vision-alert-service/internal/adapters/primary/http/middleware"
	"vision-alert-service/internal/adapters/secondary/postgres"
	"vision-alert-service/internal/adapters/secondary/telegram"
	"vision-alert-service/internal/config"
	"vision-alert-service/internal/core/ports/output"
	"vision-alert-service/internal/core/services"
	"vision-alert-service/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Apply schema migrations before opening the pool
	if err := postgres.Migrate(cfg.Database.DSN()); err != nil {
		log.Fatalf("migrate db: %v", err)
	}

	// Create database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	// Secondary Adapters (Output Ports)
	alertRepo := postgres.NewAlertRepository(pool)
	ruleRepo := postgres.NewRuleRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)

	var notifier ports.Notifier = telegram.NewClient(cfg.Telegram)
	if notifier.IsAvailable() {
		log.Info("telegram notifier initialized")
	} else {
		log.Warn("telegram notifier disabled or missing token; alerts will fail delivery")
	}

	// Core Services
	alertSvc := services.NewAlertService(alertRepo, ruleRepo, notifier)
	ruleSvc := services.NewRuleService(ruleRepo)
	detectionSvc := services.NewDetectionService(eventRepo)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(alertSvc, ruleSvc, detectionSvc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1/alert-service")
	h.RegisterRoutes(api)
	h.RegisterLegacyRoutes(router)

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus exposition
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional Telegram command bot
	if cfg.Telegram.PollingEnabled && notifier.IsAvailable() {
		bot := telegram.NewBot(telegram.NewClient(cfg.Telegram), statusReport(alertSvc))
		go bot.Run(rootCtx)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	<-rootCtx.Done()
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

// statusReport answers the bot's /status command with delivery totals.
func statusReport(alertSvc *services.AlertService) telegram.StatusFunc {
	return func(ctx context.Context) string {
		_, sent, err := alertSvc.List(ctx, ports.AlertListFilter{Status: "SENT", Limit: 1})
		if err != nil {
			return "alert service is running (history unavailable)"
		}
		_, failed, err := alertSvc.List(ctx, ports.AlertListFilter{Status: "FAILED", Limit: 1})
		if err != nil {
			return "alert service is running (history unavailable)"
		}
		return fmt.Sprintf("alert service is running: %d sent, %d failed", sent, failed)
	}
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
