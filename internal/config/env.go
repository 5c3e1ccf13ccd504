package config

import (
	"os"
	"strings"
)

// Environment variables that override the corresponding config fields.
// Secrets should live in the environment (or a .env file), not in the
// config file itself.
const (
	EnvAnthropicAPIKey  = "ANTHROPIC_API_KEY"
	EnvPushoverUserKey  = "PUSHOVER_USER_KEY"
	EnvPushoverAPIToken = "PUSHOVER_API_TOKEN"
	EnvTelegramBotToken = "TELEGRAM_BOT_TOKEN"
)

// ApplyEnv overlays secret values from the environment onto cfg.
// A set environment variable always wins over the file value.
func ApplyEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	if v := strings.TrimSpace(os.Getenv(EnvAnthropicAPIKey)); v != "" {
		cfg.Generator.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPushoverUserKey)); v != "" {
		cfg.Delivery.Pushover.UserKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPushoverAPIToken)); v != "" {
		cfg.Delivery.Pushover.APIToken = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelegramBotToken)); v != "" {
		cfg.Delivery.Telegram.Token = v
	}
}
