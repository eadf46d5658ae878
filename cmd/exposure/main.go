package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"CreditExposure/internal/collector"
	"CreditExposure/internal/config"
	"CreditExposure/internal/notifier"
	"CreditExposure/internal/recorder"
	"CreditExposure/internal/scheduler"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CreditExposure starting...")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init collector
	var source collector.Source
	if collector.IsRemote(cfg.Data.Path) {
		source = collector.NewHTTPSource(cfg.Data.Path, cfg.Data.Sheet, cfg.Data.APIKey, cfg.Proxy)
	} else {
		source, err = collector.SourceFor(cfg.Data.Path, cfg.Data.Sheet)
		if err != nil {
			log.Fatalf("[FATAL] init data source: %v", err)
		}
	}
	log.Printf("[INFO] data source: %s", source.Name())
	col := collector.NewCollector(source, collector.LTVRange{Min: cfg.Data.LTVMin, Max: cfg.Data.LTVMax})

	// Init notifier
	var (
		tn *notifier.TelegramNotifier
		n  scheduler.Notifier = notifier.NewNoopNotifier()
	)
	if cfg.Telegram.BotToken != "" {
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		if err != nil {
			log.Fatalf("[FATAL] init telegram: %v", err)
		}
		n = tn
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, n, rec, scheduler.SettingsFromConfig(cfg))

	// Without a schedule or a bot there is nothing to wait for: run once and exit.
	if cfg.Schedule.ReportCron == "" && tn == nil {
		out, err := sched.RunReport(ctx, scheduler.Request{Trigger: scheduler.TriggerCLI})
		if err != nil {
			log.Printf("[ERROR] report: %v", err)
			rec.Close()
			os.Exit(1)
		}
		log.Printf("[INFO] run %s finished, %d files written", out.RunID, len(out.Files))
		return
	}

	if cfg.Schedule.ReportCron != "" {
		if err := sched.Register(cfg.Schedule.ReportCron); err != nil {
			log.Fatalf("[FATAL] register cron tasks: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing report now")
		go sched.RunReportNow()
	}

	log.Println("[INFO] CreditExposure is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] CreditExposure stopped")
}
