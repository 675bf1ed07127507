package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/backend"
	"github.com/Domenick1991/flightdesk/internal/bootstrap"
	"github.com/Domenick1991/flightdesk/internal/metrics"
	"github.com/Domenick1991/flightdesk/internal/session"
	"github.com/Domenick1991/flightdesk/internal/web"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	client := backend.NewClient(cfg.Backend.BaseURL, backend.WithRecorder(collector))

	snapshots := session.NewRedisSnapshots(cfg.Redis, time.Duration(cfg.Session.SnapshotTTLMinutes)*time.Minute)
	manager := session.NewManager(client, snapshots, logger)

	server, err := web.NewServer(manager, client, logger, web.Options{
		CookieName:    cfg.Session.CookieName,
		TemplatesGlob: cfg.HTTP.TemplatesGlob,
		AuthPerMinute: cfg.RateLimit.AuthPerMinute,
		Metrics:       metrics.Handler(registry),
		PageViews:     collector,
	})
	if err != nil {
		log.Fatalf("init server: %v", err)
	}

	if err := bootstrap.Run(ctx, cfg.HTTP.Address, server.Handler(), logger); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
