package scheduler

import (
	"context"
	"fmt"
	"strings"

	"EcoUrban/internal/forecast"
	"EcoUrban/internal/model"
	"EcoUrban/internal/notifier"
	"EcoUrban/internal/recorder"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const helpText = "Available commands:\n• /forecast - current forecast and statistics\n• /refresh - request a new forecast\n• /help - this message"

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron       *cron.Cron
	Aggregator *forecast.Aggregator
	Series     model.EnergySeries
	Notifier   notifier.Notifier
	Recorder   recorder.Recorder
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler and subscribes it to applied
// forecast settlements for history recording and anomaly alerts.
func NewScheduler(ctx context.Context, agg *forecast.Aggregator, series model.EnergySeries, n notifier.Notifier, rec recorder.Recorder) *Scheduler {
	s := &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Aggregator: agg,
		Series:     series,
		Notifier:   n,
		Recorder:   rec,
		Ctx:        ctx,
	}
	agg.OnSettled(s.onSettled)
	return s
}

// RegisterAll registers the refresh and summary tasks.
func (s *Scheduler) RegisterAll(refreshCron, summaryCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(summaryCron, s.summaryTask); err != nil {
		return fmt.Errorf("register summary task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Str("component", "scheduler").Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Str("component", "scheduler").Msg("scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Info().Str("component", "scheduler").Msg("running forecast refresh")
	done := s.Aggregator.RequestForecast(s.Series)
	select {
	case <-done:
	case <-s.Ctx.Done():
	}
}

func (s *Scheduler) summaryTask() {
	log.Info().Str("component", "scheduler").Msg("sending forecast summary")
	s.trySend(s.report())
}

func (s *Scheduler) report() string {
	return notifier.FormatForecastReport(s.Aggregator.Snapshot(), s.Aggregator.Series())
}

// onSettled records every applied settlement and alerts on anomalies.
func (s *Scheduler) onSettled(snap model.Snapshot) {
	if err := s.Recorder.RecordForecast(recorder.EventFromSnapshot(snap)); err != nil {
		log.Error().Str("component", "scheduler").Err(err).Msg("record forecast")
	}
	if snap.IsAnomaly {
		s.trySend(notifier.FormatAnomalyAlert(snap))
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	// Group chats append the bot name: /forecast@EcoUrbanBot
	cmd, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(command)), "@")
	switch cmd {
	case "/forecast", "forecast":
		return s.report()
	case "/refresh", "refresh":
		s.refreshTask()
		return s.report()
	default:
		return helpText
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Str("component", "scheduler").Err(err).Msg("send notification")
	}
}
