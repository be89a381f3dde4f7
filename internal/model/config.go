package model

import "time"

// Config holds all neuroloc settings. Values are layered: CLI flags, then
// NEUROLOC_* environment variables, then the config file, then DefaultConfig.
type Config struct {
	Knowledge    KnowledgeConfig    `yaml:"knowledge" mapstructure:"knowledge"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Session      SessionConfig      `yaml:"session" mapstructure:"session"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// KnowledgeConfig selects the catalog. An empty path uses the built-in catalog.
type KnowledgeConfig struct {
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"`
}

// CacheConfig controls the parse result cache used by batch runs
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles batch processing per source directory.
// RequestsPerSecond <= 0 disables throttling.
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// SessionConfig controls the in-memory interview session registry
type SessionConfig struct {
	IdleTTL time.Duration `yaml:"idle_ttl" mapstructure:"idle_ttl"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Format        string `yaml:"format" mapstructure:"format"` // json or md
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".neuroloc-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 0,
			BurstSize:         10,
		},
		Session: SessionConfig{
			IdleTTL: 30 * time.Minute,
		},
		Output: OutputConfig{
			Format:        "json",
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
