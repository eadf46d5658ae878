package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		Path   string  `yaml:"path"` // file path or http(s) URL
		Sheet  string  `yaml:"sheet"`
		APIKey string  `yaml:"api_key"`
		LTVMin float64 `yaml:"ltv_min"`
		LTVMax float64 `yaml:"ltv_max"` // 0 means no upper bound
	} `yaml:"data"`
	Exposure struct {
		GridPoints             int     `yaml:"grid_points"`
		IncludeSecurityDeposit bool    `yaml:"include_security_deposit"`
		Comparison             bool    `yaml:"comparison"`
		LTVCap                 float64 `yaml:"ltv_cap"`
		Workers                int     `yaml:"workers"`
	} `yaml:"exposure"`
	Output struct {
		Dir         string `yaml:"dir"`
		ChartWidth  int    `yaml:"chart_width"`
		ChartHeight int    `yaml:"chart_height"`
	} `yaml:"output"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		ReportCron string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// comparison defaults on unless the file says otherwise
	cfg.Exposure.Comparison = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_PATH"); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv("DATA_SHEET"); v != "" {
		cfg.Data.Sheet = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.Data.APIKey = v
	}
	if v := os.Getenv("LTV_CAP"); v != "" {
		capPct, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse LTV_CAP: %w", err)
		}
		cfg.Exposure.LTVCap = capPct
	}
	if v := os.Getenv("INCLUDE_SECURITY_DEPOSIT"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse INCLUDE_SECURITY_DEPOSIT: %w", err)
		}
		cfg.Exposure.IncludeSecurityDeposit = include
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("REPORT_CRON"); v != "" {
		cfg.Schedule.ReportCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Data.Path == "" {
		cfg.Data.Path = "data/loans.csv"
	}
	if cfg.Exposure.GridPoints == 0 {
		cfg.Exposure.GridPoints = 200
	}
	if cfg.Exposure.LTVCap == 0 {
		cfg.Exposure.LTVCap = 80
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "out"
	}
	if cfg.Output.ChartWidth == 0 {
		cfg.Output.ChartWidth = 900
	}
	if cfg.Output.ChartHeight == 0 {
		cfg.Output.ChartHeight = 600
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/credit_exposure.db"
	}

	return cfg, nil
}

// Validate checks that all fields are usable.
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return fmt.Errorf("data.path is required")
	}
	if c.Data.LTVMin < 0 {
		return fmt.Errorf("data.ltv_min must not be negative")
	}
	if c.Data.LTVMax != 0 && c.Data.LTVMax < c.Data.LTVMin {
		return fmt.Errorf("data.ltv_max must be >= data.ltv_min")
	}
	if c.Exposure.GridPoints < 2 {
		return fmt.Errorf("exposure.grid_points must be at least 2")
	}
	if c.Exposure.LTVCap < 0 {
		return fmt.Errorf("exposure.ltv_cap must not be negative")
	}
	if c.Exposure.Workers < 0 {
		return fmt.Errorf("exposure.workers must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	if c.Schedule.ReportCron != "" && c.Telegram.BotToken == "" {
		return fmt.Errorf("schedule.report_cron needs telegram.bot_token to deliver reports")
	}
	return nil
}
