package app

import (
	"fmt"
	"strings"
	"time"

	"rosebot/internal/config"
	"rosebot/internal/controlstore"
	"rosebot/internal/generate"
	"rosebot/internal/observability/pprof"
	"rosebot/internal/pipeline"
	"rosebot/internal/schedule"
)

const defaultStorePath = "./rosebot_control.json"

func mapStoreConfig(cfg *config.Config) (controlstore.Config, error) {
	busy, err := config.ParseDurationField("store.busy_timeout", cfg.Store.BusyTimeout)
	if err != nil {
		return controlstore.Config{}, err
	}
	path := strings.TrimSpace(cfg.Store.Path)
	if path == "" {
		path = defaultStorePath
	}
	return controlstore.Config{
		Driver:      cfg.Store.Driver,
		Path:        path,
		BusyTimeout: busy,
	}, nil
}

func mapGeneratorConfig(cfg *config.Config) (generate.AnthropicConfig, error) {
	timeout, err := config.ParseDurationField("generator.timeout", cfg.Generator.Timeout)
	if err != nil {
		return generate.AnthropicConfig{}, err
	}
	return generate.AnthropicConfig{
		APIKey:    cfg.Generator.APIKey,
		Model:     cfg.Generator.Model,
		MaxTokens: cfg.Generator.MaxTokens,
		BaseURL:   cfg.Generator.BaseURL,
		Timeout:   timeout,
	}, nil
}

func mapPipelineOptions(cfg *config.Config) (pipeline.Options, error) {
	genTimeout, err := config.ParseDurationField("generator.timeout", cfg.Generator.Timeout)
	if err != nil {
		return pipeline.Options{}, err
	}
	delTimeout, err := config.ParseDurationField("delivery.timeout", cfg.Delivery.Timeout)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		GenerateTimeout: genTimeout,
		DeliverTimeout:  delTimeout,
		RatePerSec:      cfg.Delivery.RatePerSec,
		HistorySize:     cfg.Scheduler.HistorySize,
	}, nil
}

func mapPprofConfig(cfg *config.Config) pprof.Config {
	if cfg == nil {
		return pprof.Config{}
	}
	return pprof.Config{
		Enabled: cfg.Pprof.Enabled,
		Addr:    cfg.Pprof.Addr,
		Token:   cfg.Pprof.Token,
	}
}

// validateConfig rejects configurations the services could not run with.
// Used at startup and as the hot-reload gate; an invalid reload keeps the
// previous config.
func validateConfig(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config: empty")
	}
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("timezone: invalid %q: %w", tz, err)
		}
	}
	tick, err := config.ParseDurationField("scheduler.tick_interval", cfg.Scheduler.TickInterval)
	if err != nil {
		return err
	}
	if tick >= time.Minute {
		return fmt.Errorf("scheduler.tick_interval must be below 1m, got %s", tick)
	}
	if cfg.Scheduler.HistorySize < 0 {
		return fmt.Errorf("scheduler.history_size must be >= 0")
	}
	if _, err := config.ParseDurationField("generator.timeout", cfg.Generator.Timeout); err != nil {
		return err
	}
	if _, err := config.ParseDurationField("delivery.timeout", cfg.Delivery.Timeout); err != nil {
		return err
	}
	if _, err := config.ParseDurationField("store.busy_timeout", cfg.Store.BusyTimeout); err != nil {
		return err
	}
	if cfg.Delivery.RatePerSec < 0 {
		return fmt.Errorf("delivery.rate_per_sec must be >= 0")
	}

	if strings.TrimSpace(cfg.Generator.APIKey) == "" {
		return fmt.Errorf("generator.api_key missing (set %s)", config.EnvAnthropicAPIKey)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Delivery.Driver)) {
	case "", "pushover":
		if cfg.Delivery.Pushover.UserKey == "" || cfg.Delivery.Pushover.APIToken == "" {
			return fmt.Errorf("delivery.pushover credentials missing (set %s and %s)",
				config.EnvPushoverUserKey, config.EnvPushoverAPIToken)
		}
	case "telegram":
		if cfg.Delivery.Telegram.Token == "" {
			return fmt.Errorf("delivery.telegram.token missing (set %s)", config.EnvTelegramBotToken)
		}
		if cfg.Delivery.Telegram.ChatID == 0 {
			return fmt.Errorf("delivery.telegram.chat_id missing")
		}
	default:
		return fmt.Errorf("delivery.driver: unknown %q", cfg.Delivery.Driver)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Store.Driver)) {
	case "", "file", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("store.driver: unknown %q", cfg.Store.Driver)
	}

	// The fixed schedule and random windows are compiled in; validating
	// them here catches a bad edit before the scheduler ever runs.
	return schedule.Validate()
}
