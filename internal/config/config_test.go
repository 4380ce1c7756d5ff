package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/edgard/bridgebot/internal/config"
)

var legacyEnv = []string{
	"TELEGRAM_TOKEN", "BLE_TOKEN", "TELEGRAM_CHAT_ID", "BLE_CHAT_ID", "CREATOR_TELEGRAM_ID", "CREATOR_BLE_ID",
	"BOT_TELEGRAM_TOKEN", "BOT_BALE_TOKEN", "BOT_TELEGRAM_SOURCE_CHAT_ID", "BOT_BALE_DESTINATION_CHAT_ID",
	"BOT_TELEGRAM_CREATOR_ID", "BOT_BALE_CREATOR_ID",
}

// clearEnv blanks every variable Load looks at; empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range legacyEnv {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const fullConfig = `
telegram:
  token: "tg-token"
  source_chat_id: -100123
  creator_id: 42
bale:
  token: "bale-token"
  destination_chat_id: 777
  creator_id: 43
relay:
  download_timeout: 45s
logger:
  level: debug
`

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(writeConfig(t, fullConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Telegram.Token != "tg-token" || cfg.Bale.Token != "bale-token" {
		t.Errorf("tokens = %q/%q", cfg.Telegram.Token, cfg.Bale.Token)
	}
	if cfg.Telegram.SourceChatID != -100123 {
		t.Errorf("SourceChatID = %d, want -100123", cfg.Telegram.SourceChatID)
	}
	if cfg.Bale.DestinationChatID != 777 || cfg.Telegram.CreatorID != 42 || cfg.Bale.CreatorID != 43 {
		t.Errorf("ids = %+v %+v", cfg.Telegram, cfg.Bale)
	}
	if cfg.Bale.ServerURL != config.DefaultBaleServerURL {
		t.Errorf("Bale.ServerURL = %q, want default", cfg.Bale.ServerURL)
	}
	if cfg.Relay.DownloadTimeout != 45*time.Second {
		t.Errorf("DownloadTimeout = %v, want 45s", cfg.Relay.DownloadTimeout)
	}
	if cfg.Relay.UploadTimeout != config.DefaultUploadTimeout {
		t.Errorf("UploadTimeout = %v, want default", cfg.Relay.UploadTimeout)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q", cfg.Logger.Level)
	}
	if cfg.Messages.StickerApology != config.DefaultMessages.StickerApology {
		t.Errorf("StickerApology not defaulted")
	}
	if task, ok := cfg.Scheduler.Tasks["temp_sweep"]; !ok || !task.Enabled {
		t.Errorf("temp_sweep task = %+v, %v", task, ok)
	}
}

func TestLoadFromLegacyEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "tg")
	t.Setenv("BLE_TOKEN", "ble")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001")
	t.Setenv("BLE_CHAT_ID", "55")
	t.Setenv("CREATOR_TELEGRAM_ID", "7")
	t.Setenv("CREATOR_BLE_ID", "8")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Telegram.SourceChatID != -1001 || cfg.Bale.DestinationChatID != 55 {
		t.Errorf("chat ids = %d/%d", cfg.Telegram.SourceChatID, cfg.Bale.DestinationChatID)
	}
	if cfg.Telegram.CreatorID != 7 || cfg.Bale.CreatorID != 8 {
		t.Errorf("creator ids = %d/%d", cfg.Telegram.CreatorID, cfg.Bale.CreatorID)
	}
}

func TestLoadPrefixedEnvironmentWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TELEGRAM_TOKEN", "prefixed")
	t.Setenv("TELEGRAM_TOKEN", "legacy")

	cfg, err := config.Load(writeConfig(t, fullConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Telegram.Token != "prefixed" {
		t.Errorf("Telegram.Token = %q, want prefixed", cfg.Telegram.Token)
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		env     map[string]string
		wantMsg string
	}{
		{
			name:    "missing bale token",
			body:    strings.Replace(fullConfig, `token: "bale-token"`, `token: ""`, 1),
			wantMsg: "bale.token is required",
		},
		{
			name:    "non numeric chat id",
			body:    fullConfig,
			env:     map[string]string{"TELEGRAM_CHAT_ID": "not-a-number"},
			wantMsg: "source_chat_id",
		},
		{
			name:    "zero creator id",
			body:    strings.Replace(fullConfig, "creator_id: 42", "creator_id: 0", 1),
			wantMsg: "telegram.creator_id is required",
		},
		{
			name:    "bad log level",
			body:    strings.Replace(fullConfig, "level: debug", "level: loud", 1),
			wantMsg: "logger.level must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !errors.Is(err, config.ErrConfiguration) {
				t.Errorf("error %v does not wrap ErrConfiguration", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	t.Parallel()

	if err := config.LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("LoadDotEnv() error = %v, want nil for missing file", err)
	}
}
