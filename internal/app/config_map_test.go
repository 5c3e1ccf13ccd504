package app

import (
	"strings"
	"testing"

	"rosebot/internal/config"
)

func validTestConfig() *config.Config {
	return &config.Config{
		Timezone: "America/Sao_Paulo",
		Store:    config.StoreConfig{Driver: "file", Path: "./control.json"},
		Scheduler: config.SchedulerConfig{
			Enabled:      true,
			TickInterval: "45s",
			HistorySize:  20,
		},
		Generator: config.GeneratorConfig{APIKey: "sk-test"},
		Delivery: config.DeliveryConfig{
			Driver:   "pushover",
			Pushover: config.PushoverConfig{UserKey: "u", APIToken: "t"},
		},
	}
}

func TestValidateConfigAccepts(t *testing.T) {
	if err := validateConfig(validTestConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateConfigRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"bad timezone", func(c *config.Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"tick too long", func(c *config.Config) { c.Scheduler.TickInterval = "90s" }, "tick_interval"},
		{"bad tick", func(c *config.Config) { c.Scheduler.TickInterval = "soon" }, "tick_interval"},
		{"no api key", func(c *config.Config) { c.Generator.APIKey = " " }, "api_key"},
		{"no pushover creds", func(c *config.Config) { c.Delivery.Pushover.APIToken = "" }, "pushover"},
		{"unknown delivery driver", func(c *config.Config) { c.Delivery.Driver = "carrier-pigeon" }, "delivery.driver"},
		{"unknown store driver", func(c *config.Config) { c.Store.Driver = "redis" }, "store.driver"},
		{"negative history", func(c *config.Config) { c.Scheduler.HistorySize = -1 }, "history_size"},
		{"negative rate", func(c *config.Config) { c.Delivery.RatePerSec = -1 }, "rate_per_sec"},
		{
			"telegram without chat",
			func(c *config.Config) {
				c.Delivery.Driver = "telegram"
				c.Delivery.Telegram = config.TelegramConfig{Token: "tok"}
			},
			"chat_id",
		},
	}
	for _, c := range cases {
		cfg := validTestConfig()
		c.mutate(cfg)
		err := validateConfig(cfg)
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%s: err = %v, want mention of %q", c.name, err, c.want)
		}
	}
}

func TestMapStoreConfigDefaultsPath(t *testing.T) {
	cfg := validTestConfig()
	cfg.Store.Path = ""
	sc, err := mapStoreConfig(cfg)
	if err != nil {
		t.Fatalf("mapStoreConfig: %v", err)
	}
	if sc.Path != defaultStorePath {
		t.Fatalf("path = %q", sc.Path)
	}
}
