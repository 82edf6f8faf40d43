// Package config loads StreamLine's server configuration. The file is
// located by, in order: the --config flag, the STREAMLINE_CONFIG
// environment variable, or the built-in defaults if neither is set —
// adapted from bureau-foundation-bureau's lib/config/config.go, but
// StreamLine tolerates a missing file (a bare `streamline-server` with no
// flags is meant to just work) where bureau's Load treats a missing path as
// fatal.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for a StreamLine server.
type Config struct {
	// Listen is the TCP address to accept connections on.
	Listen string `yaml:"listen"`

	// DataDir is the root of the persisted state tree: users.json,
	// rooms.json, and the vault/logs subdirectories (spec.md §4.1, §6).
	DataDir string `yaml:"data_dir"`

	// HousekeeperInterval is the fixed tick spec.md §4.7 runs its four
	// sweep steps on.
	HousekeeperInterval time.Duration `yaml:"housekeeper_interval"`

	// DefaultRateLimit is the per-5-second message cap applied to a room
	// that has not set its own via "/super limit rate" (spec.md §3).
	DefaultRateLimit int `yaml:"default_rate_limit"`

	// DefaultSessionTimeout is the idle-eviction threshold, in seconds,
	// for a room that has not set its own via "/super limit timeout"
	// (spec.md §3). Zero disables idle eviction by default.
	DefaultSessionTimeout int `yaml:"default_session_timeout"`

	// MaxFrameBytes is the inbound frame size limit. The connection
	// handler does not read this field; it bounds frames with the fixed
	// protocol.MaxFrameBytes (64 KiB), whatever the file sets here.
	MaxFrameBytes int `yaml:"max_frame_bytes"`

	// OutboundQueueDepth is the per-session outbound buffer depth. Sessions
	// do not read this field; their queue depth is fixed at 256 frames in
	// internal/session, whatever the file sets here.
	OutboundQueueDepth int `yaml:"outbound_queue_depth"`
}

// Default returns StreamLine's built-in configuration, used whenever no
// config file is supplied.
func Default() *Config {
	return &Config{
		Listen:                ":7040",
		DataDir:               "data",
		HousekeeperInterval:   60 * time.Second,
		DefaultRateLimit:      20,
		DefaultSessionTimeout: 0,
		MaxFrameBytes:         64 * 1024,
		OutboundQueueDepth:    256,
	}
}

// Resolve determines the config file path per the precedence described in
// the package doc, then loads it. flagPath is the value of --config (empty
// if not passed). A resolved path that does not exist is not an error: it
// falls back to Default() silently. A resolved path that exists but is
// malformed YAML is an error.
func Resolve(flagPath string) (*Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv("STREAMLINE_CONFIG")
	}
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("checking config %s: %w", path, err)
	}
	return LoadFile(path)
}

// LoadFile loads a specific config file, starting from Default() so that
// any field the file omits keeps its built-in value.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
