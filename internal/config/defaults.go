package config

import "time"

// Default values for optional configuration.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultDBPath = "bridgebot.db"

	DefaultBaleServerURL = "https://tapi.bale.ai"

	DefaultWorkDir          = "relay-tmp"
	DefaultDownloadTimeout  = 2 * time.Minute
	DefaultUploadTimeout    = 5 * time.Minute
	DefaultMaxFileSize      = 50 * 1024 * 1024 // Bot API upload limit
	DefaultJournalRetention = 30 * 24 * time.Hour
	DefaultTempMaxAge       = 30 * time.Minute

	DefaultRestartDelay    = time.Second
	DefaultMaxRestartDelay = time.Minute
)

// DefaultTasks are the maintenance tasks scheduled when the config file does not override them.
var DefaultTasks = map[string]TaskConfig{
	"sql_maintenance":   {Enabled: true, Schedule: "0 0 4 * * *"},
	"journal_retention": {Enabled: true, Schedule: "0 30 4 * * *"},
	"temp_sweep":        {Enabled: true, Schedule: "0 */10 * * * *"},
}

// DefaultMessages are the user-facing texts.
var DefaultMessages = MessagesConfig{
	Welcome: "👋 Welcome!\n" +
		"This bot relays text, photo, video, voice, audio, file, sticker, animation and location messages.\n" +
		"Use /report to send a report or suggestion to the creator.",
	ReportPrompt:    "📝 Please write your report or suggestion in your next message.\nWe will deliver it to the creator!",
	ReportSuccess:   "✅ Your report was delivered to the creator. Thank you!",
	ReportFailed:    "❌ Something went wrong. Please try again.",
	ReportCancelled: "❌ Report cancelled.",
	NothingToCancel: "ℹ️ There is no report in progress.",
	RelayFailed:     "❌ The message could not be relayed. Please try again later.",
	StickerApology:  "⚠️ Sticker delivery failed: sorry, the sticker could not be sent.",
	NotAuthorized:   "🚫 You are not authorized to use this command.",
	StatsHeader:     "📊 Relays in the last 24 hours:",
}
