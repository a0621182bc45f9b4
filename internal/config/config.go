// Package config handles configuration loading and validation for otsgo.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete client configuration: which calendar servers
// to stamp against, which block explorers to consult when verifying, and
// the protocol limits the codec and network calls enforce.
type Config struct {
	Version int `toml:"version" json:"version" yaml:"version"`

	Calendars Calendars `toml:"calendars" json:"calendars" yaml:"calendars"`

	BlockExplorers BlockExplorers `toml:"block_explorers" json:"block_explorers" yaml:"block_explorers"`

	Limits Limits `toml:"limits" json:"limits" yaml:"limits"`

	Receipts ReceiptsConfig `toml:"receipts" json:"receipts" yaml:"receipts"`

	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// Calendars configures calendar server submission and upgrade.
type Calendars struct {
	// Servers is the ordered list of calendar base URLs Stamper submits
	// to and Upgrader polls. Order is preserved in merged proof output.
	Servers []string `toml:"servers" json:"servers" yaml:"servers"`

	// SubmitTimeoutSec bounds a single server's /digest round trip.
	SubmitTimeoutSec int `toml:"submit_timeout_sec" json:"submit_timeout_sec" yaml:"submit_timeout_sec"`

	// UpgradeTimeoutSec bounds a single server's /timestamp poll.
	UpgradeTimeoutSec int `toml:"upgrade_timeout_sec" json:"upgrade_timeout_sec" yaml:"upgrade_timeout_sec"`
}

// SubmitTimeout returns SubmitTimeoutSec as a time.Duration.
func (c Calendars) SubmitTimeout() time.Duration {
	return time.Duration(c.SubmitTimeoutSec) * time.Second
}

// UpgradeTimeout returns UpgradeTimeoutSec as a time.Duration.
func (c Calendars) UpgradeTimeout() time.Duration {
	return time.Duration(c.UpgradeTimeoutSec) * time.Second
}

// BlockExplorers configures the Bitcoin block-height lookup chain the
// Verifier's default BlockLookup consults.
type BlockExplorers struct {
	// BaseURLs is tried in order; the first to answer successfully wins.
	BaseURLs []string `toml:"base_urls" json:"base_urls" yaml:"base_urls"`

	TimeoutSec int `toml:"timeout_sec" json:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns TimeoutSec as a time.Duration.
func (b BlockExplorers) Timeout() time.Duration {
	return time.Duration(b.TimeoutSec) * time.Second
}

// Limits bounds the codec's resource consumption while parsing untrusted
// proof files and calendar responses.
type Limits struct {
	MaxDepth                 int   `toml:"max_depth" json:"max_depth" yaml:"max_depth"`
	MaxVarbytes              int64 `toml:"max_varbytes" json:"max_varbytes" yaml:"max_varbytes"`
	MaxCalendarResponseBytes int64 `toml:"max_calendar_response_bytes" json:"max_calendar_response_bytes" yaml:"max_calendar_response_bytes"`
}

// ReceiptsConfig configures the optional local receipts store.
type ReceiptsConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `toml:"path" json:"path" yaml:"path"`
}

// LoggingConfig configures the structured logger returned by
// internal/logging.
type LoggingConfig struct {
	Level  string `toml:"level" json:"level" yaml:"level"`
	Format string `toml:"format" json:"format" yaml:"format"`
	Output string `toml:"output" json:"output" yaml:"output"`
}

// ApplyEnvOverrides applies OTSGO_-prefixed environment variables on top
// of c, for containerized or CI invocation without a config file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("OTSGO_CALENDAR_SERVERS"); v != "" {
		c.Calendars.Servers = strings.Split(v, ",")
	}
	if v := os.Getenv("OTSGO_BLOCK_EXPLORERS"); v != "" {
		c.BlockExplorers.BaseURLs = strings.Split(v, ",")
	}
	if v := os.Getenv("OTSGO_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("OTSGO_RECEIPTS_PATH"); v != "" {
		c.Receipts.Path = v
		c.Receipts.Enabled = true
	}
	if v := os.Getenv("OTSGO_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Limits.MaxDepth = n
		}
	}
}
