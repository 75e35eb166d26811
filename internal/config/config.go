// Package config materializes the gateway's immutable runtime settings from
// the environment, following the precedence and defaults table the gateway
// is specified against. It is built on viper (as the teacher's own
// internal/config does) but, unlike the teacher's TRADSYS-prefixed
// configuration, binds the literal variable names the gateway's operators
// already use, with no prefix.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/spf13/viper"

	"github.com/dominicbrandes/aztec-exchange/internal/apperr"
)

// APIKeyHeader is the constant header name the authenticator inspects.
const APIKeyHeader = "X-API-Key"

// Config is the gateway's immutable settings snapshot, resolved once at
// startup and threaded through fx as a singleton.
type Config struct {
	EnginePath            string
	DataDir               string
	EventLogPath          string
	SnapshotDir           string
	Host                  string
	Port                  int
	RateLimitRequests     int
	RateLimitWindowSecs   int
	APIKeyHeader          string
	ValidAPIKeys          map[string]struct{}
}

// defaultValidAPIKeys is the constant demo key set from the spec.
func defaultValidAPIKeys() map[string]struct{} {
	return map[string]struct{}{
		"test-key-1":     {},
		"test-key-2":     {},
		"dev-key":        {},
		"aztec-demo-key": {},
	}
}

// Load resolves the configuration from the environment. projectRoot is the
// directory the engine-binary search and path defaults are anchored to
// (normally the directory containing go.mod).
func Load(projectRoot string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, apperr.Configuration("resolve project root: %v", err)
	}

	dataDir := resolvePath(v, "DATA_DIR", filepath.Join(root, "data"))
	eventLogPath := resolvePath(v, "EVENT_LOG_PATH", filepath.Join(dataDir, "events.jsonl"))
	snapshotDir := resolvePath(v, "SNAPSHOT_DIR", filepath.Join(dataDir, "snapshots"))
	enginePath := resolveEnginePath(v, root)

	host := v.GetString("HOST")
	if host == "" {
		host = "127.0.0.1"
	}

	port := intEnv(v, "PORT", 8000)
	rateLimitRequests := intEnv(v, "RATE_LIMIT_REQUESTS", 100)
	rateLimitWindow := intEnv(v, "RATE_LIMIT_WINDOW_SECONDS", 60)

	cfg := &Config{
		EnginePath:          enginePath,
		DataDir:             dataDir,
		EventLogPath:        eventLogPath,
		SnapshotDir:         snapshotDir,
		Host:                host,
		Port:                port,
		RateLimitRequests:   rateLimitRequests,
		RateLimitWindowSecs: rateLimitWindow,
		APIKeyHeader:        APIKeyHeader,
		ValidAPIKeys:        defaultValidAPIKeys(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects nonsensical tunables. A missing engine binary is
// deliberately not validated here — the engine supervisor fails on start
// with a clear message instead, per spec.
func (c *Config) Validate() error {
	if c.RateLimitRequests <= 0 {
		return apperr.Configuration("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimitRequests)
	}
	if c.RateLimitWindowSecs <= 0 {
		return apperr.Configuration("RATE_LIMIT_WINDOW_SECONDS must be positive, got %d", c.RateLimitWindowSecs)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func resolvePath(v *viper.Viper, key, def string) string {
	if val := v.GetString(key); val != "" {
		abs, err := filepath.Abs(val)
		if err == nil {
			return abs
		}
		return val
	}
	return def
}

func intEnv(v *viper.Viper, key string, def int) int {
	val := v.GetString(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}

// resolveEnginePath implements the ENGINE_PATH search order: explicit env
// var first, then build/engine/{Debug,Release,}/exchange_engine[.exe]
// relative to projectRoot, matching original_source/api/app/config.py's
// Settings.ENGINE_PATH property.
func resolveEnginePath(v *viper.Viper, projectRoot string) string {
	if val := v.GetString("ENGINE_PATH"); val != "" {
		return val
	}

	exeSuffix := ""
	if runtime.GOOS == "windows" {
		exeSuffix = ".exe"
	}

	candidates := []string{
		filepath.Join(projectRoot, "build", "engine", "Debug", "exchange_engine"+exeSuffix),
		filepath.Join(projectRoot, "build", "engine", "Release", "exchange_engine"+exeSuffix),
		filepath.Join(projectRoot, "build", "engine", "exchange_engine"+exeSuffix),
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return candidates[0]
}
