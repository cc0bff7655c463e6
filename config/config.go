package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/agvfleet/core/factory"
	"github.com/kilianp07/agvfleet/core/metrics"
	"github.com/kilianp07/agvfleet/core/sizing"
	"github.com/kilianp07/agvfleet/infra/mqtt"
)

// EnvPrefix marks environment variables overriding file settings. Nested
// keys are separated by a double underscore, e.g. K_MQTT__BROKER.
const EnvPrefix = "K_"

type Config struct {
	Sizing   sizing.Config        `json:"sizing"`
	Defaults DefaultsConfig       `json:"defaults"`
	Catalog  factory.ModuleConfig `json:"catalog"`
	Metrics  metrics.Config       `json:"metrics"`
	Logging  LoggingConfig        `json:"logging"`
	Sentry   SentryConfig         `json:"sentry"`
	MQTT     mqtt.Config          `json:"mqtt"`
	Server   ServerConfig         `json:"server"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// Load reads the YAML or JSON file at path, applies K_ environment overrides,
// fills defaults and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Sizing.SetDefaults()
	c.Defaults.SetDefaults()
	if c.Catalog.Type == "" {
		c.Catalog.Type = "builtin"
	}
	c.Logging.SetDefaults()
	c.Sentry.SetDefaults()
	if c.MQTT.Enabled() {
		c.MQTT.SetDefaults()
	}
	c.Server.SetDefaults()
}

// Validate checks every section and names the failing one.
func (c Config) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"sizing", c.Sizing.Validate},
		{"defaults", c.Defaults.Validate},
		{"logging", c.Logging.Validate},
		{"sentry", c.Sentry.Validate},
		{"mqtt", c.MQTT.Validate},
		{"server", c.Server.Validate},
	}
	for _, ch := range checks {
		if err := ch.fn(); err != nil {
			return fmt.Errorf("%s: %w", ch.name, err)
		}
	}
	if _, ok := c.Sizing.TrafficMultipliers[c.Defaults.Params().TrafficDensity]; !ok {
		return fmt.Errorf("defaults: traffic_density %q has no multiplier", c.Defaults.TrafficDensity)
	}
	return nil
}
