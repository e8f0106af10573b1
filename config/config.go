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

	"github.com/herdplan/herdplan/core/metrics"
	"github.com/herdplan/herdplan/core/optimizer"
)

type Config struct {
	Search   optimizer.SearchConfig `json:"search"`
	Metrics  metrics.Config         `json:"metrics"`
	Logging  LoggingConfig          `json:"logging"`
	Holidays HolidayConfig          `json:"holidays"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("HP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "hp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Search.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Holidays.SetDefaults()
	if err := cfg.Search.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Holidays.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every section at its defaults, used
// when no config file is supplied.
func Default() *Config {
	cfg := &Config{}
	cfg.Search.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Holidays.SetDefaults()
	return cfg
}
