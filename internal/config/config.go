// Package config loads and validates harvester configuration via
// Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all harvester configuration knobs loaded via Viper.
type Config struct {
	Archive    ArchiveConfig    `mapstructure:"archive"`
	Scrape     ScrapeConfig     `mapstructure:"scrape"`
	Input      InputConfig      `mapstructure:"input"`
	Output     OutputConfig     `mapstructure:"output"`
	Checkpoint CheckpointConfig `mapstructure:"checkpoint"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Status     StatusConfig     `mapstructure:"status"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ArchiveConfig controls access to the snapshot archive.
type ArchiveConfig struct {
	CDXEndpoint       string `mapstructure:"cdx_endpoint"`
	SnapshotBase      string `mapstructure:"snapshot_base"`
	UserAgent         string `mapstructure:"user_agent"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
	RequestsPerSecond int    `mapstructure:"requests_per_second"`
}

// ScrapeConfig bounds the per-domain work and its pacing.
type ScrapeConfig struct {
	MaxSnapshots     int    `mapstructure:"max_snapshots"`
	From             string `mapstructure:"from"`
	To               string `mapstructure:"to"`
	SnapshotDelaySec int    `mapstructure:"snapshot_delay_seconds"`
	DomainDelaySec   int    `mapstructure:"domain_delay_seconds"`
	DomainJitterSec  int    `mapstructure:"domain_jitter_seconds"`
}

// InputConfig locates the domain list.
type InputConfig struct {
	DomainsPath string `mapstructure:"domains_path"`
}

// OutputConfig locates the harvest outputs.
type OutputConfig struct {
	DatasetPath  string `mapstructure:"dataset_path"`
	ErrorLogPath string `mapstructure:"error_log_path"`
}

// CheckpointConfig picks where resume state lives.
type CheckpointConfig struct {
	// Provider is "file" or "redis".
	Provider  string `mapstructure:"provider"`
	Path      string `mapstructure:"path"`
	RedisAddr string `mapstructure:"redis_addr"`
	RedisKey  string `mapstructure:"redis_key"`
}

// DatabaseConfig controls the optional record mirror.
type DatabaseConfig struct {
	// Provider is "noop" or "postgres".
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// StatusConfig toggles the status HTTP server.
type StatusConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HARVESTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("archive.cdx_endpoint", "https://web.archive.org/cdx/search/cdx")
	v.SetDefault("archive.snapshot_base", "https://web.archive.org/web")
	v.SetDefault("archive.user_agent", "ResearchScraper/1.0 (Academic Research Project)")
	v.SetDefault("archive.timeout_seconds", 30)
	v.SetDefault("archive.requests_per_second", 0)
	v.SetDefault("scrape.max_snapshots", 30)
	v.SetDefault("scrape.from", "20220101000000")
	v.SetDefault("scrape.to", "20240101000000")
	v.SetDefault("scrape.snapshot_delay_seconds", 2)
	v.SetDefault("scrape.domain_delay_seconds", 10)
	v.SetDefault("scrape.domain_jitter_seconds", 5)
	v.SetDefault("input.domains_path", "domains.csv")
	v.SetDefault("output.dataset_path", "robots_scrape.csv")
	v.SetDefault("output.error_log_path", "scraping_errors.txt")
	v.SetDefault("checkpoint.provider", "file")
	v.SetDefault("checkpoint.path", "scraping_checkpoint.txt")
	v.SetDefault("checkpoint.redis_key", "harvester:checkpoint")
	v.SetDefault("database.provider", "noop")
	v.SetDefault("database.table", "robots_scrape")
	v.SetDefault("status.enabled", false)
	v.SetDefault("status.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Archive.UserAgent == "" {
		return fmt.Errorf("archive.user_agent must be set")
	}
	if c.Archive.TimeoutSeconds <= 0 {
		return fmt.Errorf("archive.timeout_seconds must be > 0")
	}
	if c.Scrape.MaxSnapshots < 0 {
		return fmt.Errorf("scrape.max_snapshots must be >= 0")
	}
	switch c.Checkpoint.Provider {
	case "file":
		if c.Checkpoint.Path == "" {
			return fmt.Errorf("checkpoint.path must be set for the file provider")
		}
	case "redis":
		if c.Checkpoint.RedisAddr == "" {
			return fmt.Errorf("checkpoint.redis_addr must be set for the redis provider")
		}
	default:
		return fmt.Errorf("unknown checkpoint.provider %q", c.Checkpoint.Provider)
	}
	switch c.Database.Provider {
	case "noop":
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn must be set for the postgres provider")
		}
	default:
		return fmt.Errorf("unknown database.provider %q", c.Database.Provider)
	}
	if c.Status.Enabled && c.Status.Port <= 0 {
		return fmt.Errorf("status.port must be > 0 when the status server is enabled")
	}
	return nil
}

// ArchiveTimeout converts the archive timeout into a duration.
func (c Config) ArchiveTimeout() time.Duration {
	return time.Duration(c.Archive.TimeoutSeconds) * time.Second
}

// SnapshotDelay converts the per-snapshot pause into a duration.
func (c Config) SnapshotDelay() time.Duration {
	return time.Duration(c.Scrape.SnapshotDelaySec) * time.Second
}

// DomainDelay converts the inter-domain pause into a duration.
func (c Config) DomainDelay() time.Duration {
	return time.Duration(c.Scrape.DomainDelaySec) * time.Second
}

// DomainJitter converts the inter-domain jitter into a duration.
func (c Config) DomainJitter() time.Duration {
	return time.Duration(c.Scrape.DomainJitterSec) * time.Second
}
