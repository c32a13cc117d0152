package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"EcoUrban/internal/api"
	"EcoUrban/internal/config"
	"EcoUrban/internal/fixture"
	"EcoUrban/internal/forecast"
	"EcoUrban/internal/logging"
	"EcoUrban/internal/metrics"
	"EcoUrban/internal/notifier"
	"EcoUrban/internal/predictor"
	"EcoUrban/internal/recorder"
	"EcoUrban/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load config
	cfgPath := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("init logging")
	}
	log.Info().Str("config", cfgPath).Msg("EcoUrban forecast service starting")

	// Series shown on the dashboard
	series := fixture.SampleSeries()
	if cfg.Series.File != "" {
		series, err = fixture.LoadSeries(cfg.Series.File)
		if err != nil {
			log.Fatal().Err(err).Msg("load series")
		}
	}
	log.Info().Int("readings", series.Len()).Msg("energy series loaded")

	// Init predictor
	var p predictor.Predictor
	if cfg.Predictor.BaseURL != "" {
		p = predictor.NewHTTPPredictor(cfg.Predictor.BaseURL, cfg.Predictor.Path, cfg.Predictor.APIKey, cfg.Proxy, 2*cfg.Predictor.Timeout)
	} else {
		p = &predictor.MockPredictor{}
	}
	log.Info().Str("predictor", p.Name()).Dur("timeout", cfg.Predictor.Timeout).Msg("predictor ready")

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	agg := forecast.NewAggregator(p,
		forecast.WithTimeout(cfg.Predictor.Timeout),
		forecast.WithMetrics(m),
		forecast.WithSeries(series),
	)
	rec := openRecorder(cfg.Database.SQLitePath)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telegram is optional
	var n notifier.Notifier = notifier.NoopNotifier{}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	} else {
		log.Info().Msg("telegram disabled: no bot token configured")
	}

	sched := scheduler.NewScheduler(ctx, agg, series, n, rec)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.SummaryCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, requesting forecast now")
		go sched.RunRefreshNow()
	}

	// HTTP API
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(api.Deps{
			Aggregator:     agg,
			Series:         series,
			Recorder:       rec,
			Gatherer:       reg,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	sched.Stop()
	agg.Close()
	if err := rec.Close(); err != nil {
		log.Error().Err(err).Msg("close recorder")
	}
	log.Info().Msg("EcoUrban forecast service stopped")
}

func openRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Warn().Err(err).Msg("create sqlite directory failed, using noop")
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}
