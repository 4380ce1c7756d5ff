// Package config provides configuration loading, validation, and management
// for the bridge bot. It reads an optional YAML file, environment variables
// (BOT_* and the legacy variable names) and an optional .env file.
package config

import "time"

// Config defines the application configuration for all components.
type Config struct {
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Bale       BaleConfig       `mapstructure:"bale"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Relay      RelayConfig      `mapstructure:"relay"`
	Supervisor SupervisorConfig `mapstructure:"supervisor"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Messages   MessagesConfig   `mapstructure:"messages"`
}

// TelegramConfig holds settings for the source platform.
type TelegramConfig struct {
	Token        string `mapstructure:"token"          validate:"required"`
	SourceChatID int64  `mapstructure:"source_chat_id" validate:"required"`
	CreatorID    int64  `mapstructure:"creator_id"     validate:"required,gt=0"`
	// ServerURL overrides the Bot API endpoint; empty means api.telegram.org.
	ServerURL string `mapstructure:"server_url" validate:"omitempty,url"`
}

// BaleConfig holds settings for the destination platform.
type BaleConfig struct {
	Token             string `mapstructure:"token"               validate:"required"`
	DestinationChatID int64  `mapstructure:"destination_chat_id" validate:"required"`
	CreatorID         int64  `mapstructure:"creator_id"          validate:"required,gt=0"`
	ServerURL         string `mapstructure:"server_url"          validate:"required,url"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DatabaseConfig points at the relay journal database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// RelayConfig bounds the media transfer pipeline.
type RelayConfig struct {
	WorkDir          string        `mapstructure:"work_dir"          validate:"required"`
	DownloadTimeout  time.Duration `mapstructure:"download_timeout"  validate:"min=1s,max=30m"`
	UploadTimeout    time.Duration `mapstructure:"upload_timeout"    validate:"min=1s,max=30m"`
	MaxFileSize      int64         `mapstructure:"max_file_size"     validate:"gt=0"`
	JournalRetention time.Duration `mapstructure:"journal_retention" validate:"min=1h"`
	TempMaxAge       time.Duration `mapstructure:"temp_max_age"      validate:"min=1m"`
}

// SupervisorConfig controls listener restart back-off.
type SupervisorConfig struct {
	RestartDelay    time.Duration `mapstructure:"restart_delay"     validate:"min=10ms"`
	MaxRestartDelay time.Duration `mapstructure:"max_restart_delay" validate:"gtefield=RestartDelay"`
}

// SchedulerConfig lists maintenance tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a task and sets its cron schedule (seconds field allowed).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// MessagesConfig holds every user-facing text.
type MessagesConfig struct {
	Welcome         string `mapstructure:"welcome"           validate:"required"`
	ReportPrompt    string `mapstructure:"report_prompt"     validate:"required"`
	ReportSuccess   string `mapstructure:"report_success"    validate:"required"`
	ReportFailed    string `mapstructure:"report_failed"     validate:"required"`
	ReportCancelled string `mapstructure:"report_cancelled"  validate:"required"`
	NothingToCancel string `mapstructure:"nothing_to_cancel" validate:"required"`
	RelayFailed     string `mapstructure:"relay_failed"      validate:"required"`
	StickerApology  string `mapstructure:"sticker_apology"   validate:"required"`
	NotAuthorized   string `mapstructure:"not_authorized"    validate:"required"`
	StatsHeader     string `mapstructure:"stats_header"      validate:"required"`
}
