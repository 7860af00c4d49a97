package main

import (
	"context"
	"os/signal"
	"syscall"

	"vision-alert-service/internal/adapters/secondary/apiclient"
	"vision-alert-service/internal/adapters/secondary/camera"
	"vision-alert-service/internal/adapters/secondary/inference"
	"vision-alert-service/internal/config"
	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/services"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	rule := domain.MonitorRule{
		Name:             "default",
		Enabled:          true,
		TargetClass:      cfg.Detector.TargetClass,
		ConfThreshold:    cfg.Detector.ConfThreshold,
		IoUThreshold:     cfg.Detector.IoUThreshold,
		MinDuration:      cfg.Detector.MinDuration,
		SamplingDuration: cfg.Detector.SamplingDuration,
		SleepDuration:    cfg.Detector.SleepDuration,
		CameraURL:        cfg.Detector.CameraURL,
	}
	if err := rule.Validate(); err != nil {
		log.Fatalf("invalid detector config: %v", err)
	}

	frames := camera.NewSnapshotSource(cfg.Detector.CameraURL)

	infClient := inference.NewClient(cfg.Detector.InferenceURL)
	if !infClient.IsAvailable() {
		log.Warn("inference sidecar not reachable yet, starting anyway")
	}

	server, err := apiclient.New(cfg.Detector.AlertServerURL)
	if err != nil {
		log.Fatalf("alert server client: %v", err)
	}

	monitor := services.NewMonitor(frames, infClient, server, server).
		WithSampleInterval(cfg.Detector.SampleInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"camera":    cfg.Detector.CameraURL,
		"inference": cfg.Detector.InferenceURL,
		"target":    cfg.Detector.TargetClass,
	}).Info("detector started")

	monitor.Run(ctx, []domain.MonitorRule{rule})

	log.Info("detector stopped")
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
