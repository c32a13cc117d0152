package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Predictor.Path != "/predict-energy" {
		t.Errorf("unexpected predictor path %q", cfg.Predictor.Path)
	}
	if cfg.Predictor.Timeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.Predictor.Timeout)
	}
	if cfg.Schedule.RefreshCron != "0 0 * * * *" || cfg.Schedule.SummaryCron != "0 0 8 * * *" {
		t.Errorf("unexpected cron defaults %+v", cfg.Schedule)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Database.SQLitePath != "data/ecourban.db" {
		t.Errorf("unexpected sqlite path %q", cfg.Database.SQLitePath)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled without a token")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  allowed_origins: ["https://dashboard.example.com"]
predictor:
  base_url: http://127.0.0.1:8000
  timeout: 3s
database:
  sqlite_path: ""
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://dashboard.example.com" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Predictor.BaseURL != "http://127.0.0.1:8000" || cfg.Predictor.Timeout != 3*time.Second {
		t.Errorf("unexpected predictor %+v", cfg.Predictor)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Predictor.Path != "/predict-energy" {
		t.Errorf("unexpected path %q", cfg.Predictor.Path)
	}
	if cfg.Database.SQLitePath != "" {
		t.Errorf("expected explicit empty sqlite path, got %q", cfg.Database.SQLitePath)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "7000")
	t.Setenv("PREDICTOR_URL", "http://model:8000")
	t.Setenv("PREDICTOR_TIMEOUT", "2500ms")
	t.Setenv("CRON_REFRESH", "0 */15 * * * *")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("API_ENV", "production")

	cfg, err := Load(writeConfig(t, "server:\n  port: 9090\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("env should win over file, got port %d", cfg.Server.Port)
	}
	if cfg.Predictor.BaseURL != "http://model:8000" || cfg.Predictor.Timeout != 2500*time.Millisecond {
		t.Errorf("unexpected predictor %+v", cfg.Predictor)
	}
	if cfg.Schedule.RefreshCron != "0 */15 * * * *" {
		t.Errorf("unexpected refresh cron %q", cfg.Schedule.RefreshCron)
	}
	if !cfg.TelegramEnabled() || cfg.Telegram.ChatID != "42" {
		t.Errorf("unexpected telegram %+v", cfg.Telegram)
	}
	if cfg.Log.Format != "json" || cfg.Server.Mode != "production" {
		t.Errorf("unexpected log/mode %+v %q", cfg.Log, cfg.Server.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}
	if cfg.Addr() != ":7000" {
		t.Errorf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoad_BadEnvValues(t *testing.T) {
	t.Setenv("API_PORT", "eighty")
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for non-numeric API_PORT")
	}

	t.Setenv("API_PORT", "")
	t.Setenv("PREDICTOR_TIMEOUT", "soon")
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for bad PREDICTOR_TIMEOUT")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [unclosed")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "Port"},
		{"bad mode", func(c *Config) { c.Server.Mode = "staging" }, "Mode"},
		{"bad url", func(c *Config) { c.Predictor.BaseURL = "not a url" }, "BaseURL"},
		{"zero timeout", func(c *Config) { c.Predictor.Timeout = 0 }, "Timeout"},
		{"chat id missing", func(c *Config) { c.Telegram.BotToken = "t" }, "ChatID"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
		{"bad refresh cron", func(c *Config) { c.Schedule.RefreshCron = "every hour" }, "refresh_cron"},
		{"bad summary cron", func(c *Config) { c.Schedule.SummaryCron = "0 0 25 * * *" }, "summary_cron"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}
