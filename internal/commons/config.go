package commons

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"samplehub/internal/config"
)

// LoadConfig reads a YAML config file. ${VAR} references are expanded from the
// environment so secrets can stay out of the file.
func LoadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *config.Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Payment.DefaultCurrency = strings.ToLower(cfg.Payment.DefaultCurrency)
	if cfg.Payment.DefaultCurrency == "" {
		cfg.Payment.DefaultCurrency = "usd"
	}
	if cfg.Notification.DispatchTimeout <= 0 {
		cfg.Notification.DispatchTimeout = 10 * time.Second
	}
	if cfg.Notification.ChannelTimeout <= 0 {
		cfg.Notification.ChannelTimeout = 30 * time.Second
	}
}
