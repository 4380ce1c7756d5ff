package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// requiredEnv maps the six required keys to the environment variables that may
// carry them. The first name is the BOT_-prefixed form, the second the legacy one.
var requiredEnv = map[string][]string{
	"telegram.token":           {"BOT_TELEGRAM_TOKEN", "TELEGRAM_TOKEN"},
	"bale.token":               {"BOT_BALE_TOKEN", "BLE_TOKEN"},
	"telegram.source_chat_id":  {"BOT_TELEGRAM_SOURCE_CHAT_ID", "TELEGRAM_CHAT_ID"},
	"bale.destination_chat_id": {"BOT_BALE_DESTINATION_CHAT_ID", "BLE_CHAT_ID"},
	"telegram.creator_id":      {"BOT_TELEGRAM_CREATOR_ID", "CREATOR_TELEGRAM_ID"},
	"bale.creator_id":          {"BOT_BALE_CREATOR_ID", "CREATOR_BLE_ID"},
}

// LoadDotEnv loads variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := gotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: failed to load %s: %v", ErrConfiguration, path, err)
	}
	return nil
}

// Load reads configuration from defaults, the optional YAML file at path and
// the environment, then validates it. Every failure wraps ErrConfiguration.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range requiredEnv {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("%w: failed to bind %s: %v", ErrConfiguration, key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrConfiguration, path, err)
			}
			slog.Debug("Config file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.server_url", "")
	v.SetDefault("bale.server_url", DefaultBaleServerURL)

	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", DefaultLogJSON)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("relay.work_dir", defaultWorkDir())
	v.SetDefault("relay.download_timeout", DefaultDownloadTimeout)
	v.SetDefault("relay.upload_timeout", DefaultUploadTimeout)
	v.SetDefault("relay.max_file_size", DefaultMaxFileSize)
	v.SetDefault("relay.journal_retention", DefaultJournalRetention)
	v.SetDefault("relay.temp_max_age", DefaultTempMaxAge)

	v.SetDefault("supervisor.restart_delay", DefaultRestartDelay)
	v.SetDefault("supervisor.max_restart_delay", DefaultMaxRestartDelay)

	for name, task := range DefaultTasks {
		v.SetDefault("scheduler.tasks."+name+".enabled", task.Enabled)
		v.SetDefault("scheduler.tasks."+name+".schedule", task.Schedule)
	}

	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.report_prompt", DefaultMessages.ReportPrompt)
	v.SetDefault("messages.report_success", DefaultMessages.ReportSuccess)
	v.SetDefault("messages.report_failed", DefaultMessages.ReportFailed)
	v.SetDefault("messages.report_cancelled", DefaultMessages.ReportCancelled)
	v.SetDefault("messages.nothing_to_cancel", DefaultMessages.NothingToCancel)
	v.SetDefault("messages.relay_failed", DefaultMessages.RelayFailed)
	v.SetDefault("messages.sticker_apology", DefaultMessages.StickerApology)
	v.SetDefault("messages.not_authorized", DefaultMessages.NotAuthorized)
	v.SetDefault("messages.stats_header", DefaultMessages.StatsHeader)
}

func defaultWorkDir() string {
	return os.TempDir() + string(os.PathSeparator) + "bridgebot"
}
