// Package config holds the typed configuration of the hubble tools: the
// signing domain, registry shape, storage location, logging, metrics and
// caching. Values come from defaults, an optional config file and HUBBLE_
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/snaketh4x0r/RedditHubble/bls"
	"github.com/snaketh4x0r/RedditHubble/log"
	"github.com/snaketh4x0r/RedditHubble/registry"
)

// EnvPrefix prefixes every environment override, e.g. HUBBLE_TREE_DEPTH.
const EnvPrefix = "HUBBLE"

// Config is the full configuration.
type Config struct {
	// Domain is the 0x-prefixed 32-byte hash-to-curve domain. It has no
	// default and must match the on-chain verifier.
	Domain string `mapstructure:"domain"`

	// DataDir is the root directory for the registry journal.
	DataDir string `mapstructure:"datadir"`

	Tree    TreeConfig    `mapstructure:"tree"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

type TreeConfig struct {
	Depth      int `mapstructure:"depth"`
	BatchDepth int `mapstructure:"batch_depth"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

type CacheConfig struct {
	// MessagePoints bounds the hash-to-curve cache. Zero disables it.
	MessagePoints int `mapstructure:"message_points"`
}

// DefaultConfig returns every default except the domain.
func DefaultConfig() Config {
	reg := registry.DefaultConfig()
	return Config{
		DataDir: "hubble-data",
		Tree:    TreeConfig{Depth: reg.Depth, BatchDepth: reg.BatchDepth},
		Log:     LogConfig{Level: "info", Format: "json"},
		Metrics: MetricsConfig{Enabled: false, Namespace: "hubble"},
		Cache:   CacheConfig{MessagePoints: 1024},
	}
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if c.Domain == "" {
		return errors.New("config: domain is required")
	}
	if _, err := bls.ParseDomain(c.Domain); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.DataDir == "" {
		return errors.New("config: datadir must not be empty")
	}
	if err := c.RegistryConfig().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return errors.New("config: metrics namespace must not be empty")
	}
	if c.Cache.MessagePoints < 0 {
		return fmt.Errorf("config: invalid message point cache size: %d", c.Cache.MessagePoints)
	}
	return nil
}

// DomainTag parses Domain.
func (c *Config) DomainTag() (bls.Domain, error) {
	return bls.ParseDomain(c.Domain)
}

func (c *Config) RegistryConfig() registry.Config {
	return registry.Config{Depth: c.Tree.Depth, BatchDepth: c.Tree.BatchDepth}
}

// ResolvePath resolves a path relative to the data directory.
func (c *Config) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

// Load reads the config file at path, if any, applies HUBBLE_ environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply further
// overrides (command-line flags) before validating.
func Read(path string) (Config, error) {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("domain", def.Domain)
	v.SetDefault("datadir", def.DataDir)
	v.SetDefault("tree.depth", def.Tree.Depth)
	v.SetDefault("tree.batch_depth", def.Tree.BatchDepth)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.namespace", def.Metrics.Namespace)
	v.SetDefault("cache.message_points", def.Cache.MessagePoints)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}
