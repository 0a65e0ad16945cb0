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

	"github.com/helmside/boatclub/core/assign"
	"github.com/helmside/boatclub/core/metrics"
	"github.com/helmside/boatclub/infra/mqtt"
	"github.com/helmside/boatclub/infra/store"
)

// Config aggregates all service settings.
type Config struct {
	MQTT       mqtt.Config    `json:"mqtt"`
	Store      store.Config   `json:"store"`
	Assignment assign.Config  `json:"assignment"`
	Metrics    metrics.Config `json:"metrics"`
	Audit      AuditConfig    `json:"audit"`
	API        APIConfig      `json:"api"`
}

// Load reads a JSON or YAML configuration file, applies BC_* environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("BC_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "bc_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.MQTT.SetDefaults()
	cfg.Store.SetDefaults()
	cfg.Assignment.SetDefaults()
	cfg.Audit.SetDefaults()
	cfg.API.SetDefaults()
	if err := cfg.Assignment.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Audit.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// APIConfig defines the HTTP listener settings.
type APIConfig struct {
	Addr string `json:"addr"`
	// Token guards the assignment log endpoint when non-empty.
	Token string `json:"token"`
}

// SetDefaults applies the standard listen address.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
