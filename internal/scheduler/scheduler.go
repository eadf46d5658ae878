package scheduler

import (
	"context"
	"fmt"
	"log"

	"CreditExposure/internal/chart"
	"CreditExposure/internal/collector"
	"CreditExposure/internal/config"
	"CreditExposure/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Notifier delivers reports. Implemented by notifier.TelegramNotifier and notifier.NoopNotifier.
type Notifier interface {
	Send(text string) error
	SendPhoto(caption string, png []byte) error
	SendDocument(name string, data []byte) error
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Settings are the run defaults a Request can override.
type Settings struct {
	GridPoints             int
	IncludeSecurityDeposit bool
	Comparison             bool
	LTVCap                 float64
	Workers                int
	OutputDir              string // empty skips file output
	ChartWidth             int
	ChartHeight            int
}

// SettingsFromConfig copies the run defaults out of cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		GridPoints:             cfg.Exposure.GridPoints,
		IncludeSecurityDeposit: cfg.Exposure.IncludeSecurityDeposit,
		Comparison:             cfg.Exposure.Comparison,
		LTVCap:                 cfg.Exposure.LTVCap,
		Workers:                cfg.Exposure.Workers,
		OutputDir:              cfg.Output.Dir,
		ChartWidth:             cfg.Output.ChartWidth,
		ChartHeight:            cfg.Output.ChartHeight,
	}
}

// Scheduler manages the report job and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Notifier
	Recorder  recorder.Recorder
	Charts    *chart.Cache
	Settings  Settings
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n Notifier, rec recorder.Recorder, settings Settings) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  n,
		Recorder:  rec,
		Charts:    chart.NewCache(chart.DefaultCacheTTL),
		Settings:  settings,
		Ctx:       ctx,
	}
}

// Register adds the periodic report job.
func (s *Scheduler) Register(reportCron string) error {
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	ctx := s.Cron.Stop()
	<-ctx.Done()
	log.Println("[INFO] scheduler stopped")
}

// RunReportNow executes the report immediately (for RUN_ON_START).
func (s *Scheduler) RunReportNow() {
	s.report(Request{Trigger: TriggerStartup})
}

func (s *Scheduler) reportTask() {
	s.report(Request{Trigger: TriggerCron})
}

func (s *Scheduler) report(req Request) {
	log.Printf("[INFO] running report (%s)", req.Trigger)
	if _, err := s.RunReport(s.Ctx, req); err != nil {
		log.Printf("[ERROR] report: %v", err)
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
