package config

// Config is the on-disk configuration.
//
// Secrets (API keys, tokens) may be left empty here and provided via the
// environment instead; see ApplyEnv. All durations are Go duration strings
// (e.g. "500ms", "10s", "1m").
type Config struct {
	// Timezone the daily schedule is evaluated in. Defaults to
	// "America/Sao_Paulo" when empty.
	Timezone string `json:"timezone,omitempty"`

	Logging   LoggingConfig   `json:"logging"`
	Store     StoreConfig     `json:"store"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Generator GeneratorConfig `json:"generator"`
	Delivery  DeliveryConfig  `json:"delivery"`
	Pprof     PprofConfig     `json:"pprof,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// StoreConfig controls the persistent control store.
//
// Driver values:
//   - "file": single JSON record on disk (default)
//   - "sqlite": SQLite database file (optional build tag)
//
// Example:
//
//	"store": { "driver": "file", "path": "./rosebot_control.json" }
type StoreConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

// SchedulerConfig controls the polling loop.
//
// TickInterval must stay strictly below one minute so every minute boundary
// is observed at least once; it defaults to "45s".
type SchedulerConfig struct {
	Enabled      bool   `json:"enabled"`
	TickInterval string `json:"tick_interval,omitempty"`
	HistorySize  int    `json:"history_size,omitempty"`
}

// GeneratorConfig controls the message-generation backend (Anthropic
// messages API).
type GeneratorConfig struct {
	// APIKey is normally supplied via ANTHROPIC_API_KEY.
	APIKey    string `json:"api_key,omitempty"`
	Model     string `json:"model,omitempty"`
	MaxTokens int    `json:"max_tokens,omitempty"`
	Timeout   string `json:"timeout,omitempty"`
	// BaseURL overrides the API endpoint (tests only).
	BaseURL string `json:"base_url,omitempty"`
}

// DeliveryConfig controls the push-delivery backend.
//
// Driver values: "pushover" (default) or "telegram".
type DeliveryConfig struct {
	Driver     string         `json:"driver,omitempty"`
	Timeout    string         `json:"timeout,omitempty"`
	RatePerSec int            `json:"rate_per_sec,omitempty"`
	Pushover   PushoverConfig `json:"pushover,omitempty"`
	Telegram   TelegramConfig `json:"telegram,omitempty"`
}

type PushoverConfig struct {
	// UserKey and APIToken are normally supplied via PUSHOVER_USER_KEY /
	// PUSHOVER_API_TOKEN.
	UserKey  string `json:"user_key,omitempty"`
	APIToken string `json:"api_token,omitempty"`
	Sound    string `json:"sound,omitempty"`
	// BaseURL overrides the API endpoint (tests only).
	BaseURL string `json:"base_url,omitempty"`
}

type TelegramConfig struct {
	// Token is normally supplied via TELEGRAM_BOT_TOKEN.
	Token  string `json:"token,omitempty"`
	ChatID int64  `json:"chat_id,omitempty"`
}

// PprofConfig controls the optional pprof HTTP server.
//
// Security note:
//   - Prefer binding to localhost (e.g. "127.0.0.1:6060").
//   - If you bind to a non-loopback address, set a token.
type PprofConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"`  // default: "127.0.0.1:6060"
	Token   string `json:"token,omitempty"` // optional bearer token (do not log)
}
