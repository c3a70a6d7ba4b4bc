// Package config loads and validates the wfops configuration from the
// environment and the optional project file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/wfops/wfops/internal/core/domain"
	"go.trai.ch/zerr"
)

// Config is the validated runtime configuration. Values come from
// built-in defaults, overridden by the project file, overridden by the
// environment.
type Config struct {
	MaxParallelJobs       int
	MinParallelJobs       int
	MaxSystemParallelJobs int

	CacheEnabled bool
	CacheDir     string
	CacheTTL     time.Duration

	ResourceMonitorEnabled bool
	MemoryLimitPercent     float64
	CPULimitPercent        float64
	ResourceCheckInterval  time.Duration

	ParallelJobTimeout time.Duration

	RateLimitBuffer   int
	RateLimitFloor    int
	RateLimitMaxSleep time.Duration

	WorkflowsDir string
	Repository   string

	LogLevel  slog.Level
	LogFormat string
}

// Load builds the configuration for the current process. Any value
// outside its domain is a fatal configuration error before work begins.
func Load(cwd string) (*Config, error) {
	cfg := &Config{
		MaxParallelJobs:        DefaultMaxParallelJobs,
		MinParallelJobs:        DefaultMinParallelJobs,
		MaxSystemParallelJobs:  DefaultMaxSystemParallelJobs,
		CacheEnabled:           true,
		CacheDir:               domain.DefaultCachePath(),
		CacheTTL:               DefaultCacheTTL,
		ResourceMonitorEnabled: true,
		MemoryLimitPercent:     DefaultMemoryLimitPercent,
		CPULimitPercent:        DefaultCPULimitPercent,
		ResourceCheckInterval:  DefaultResourceCheckInterval,
		ParallelJobTimeout:     DefaultParallelJobTimeout,
		RateLimitBuffer:        DefaultRateLimitBuffer,
		RateLimitFloor:         DefaultRateLimitFloor,
		RateLimitMaxSleep:      DefaultRateLimitMaxSleep,
		WorkflowsDir:           domain.DefaultWorkflowsPath(),
		LogFormat:              DefaultLogFormat,
	}

	if err := cfg.applyProjectFile(cwd); err != nil {
		return nil, err
	}
	if err := cfg.applyEnvironment(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

//nolint:cyclop // one assignment per environment variable
func (c *Config) applyEnvironment() error {
	var err error

	if c.MaxParallelJobs, err = intEnv(EnvMaxParallelJobs, c.MaxParallelJobs); err != nil {
		return err
	}
	if c.MinParallelJobs, err = intEnv(EnvMinParallelJobs, c.MinParallelJobs); err != nil {
		return err
	}
	if c.MaxSystemParallelJobs, err = intEnv(EnvMaxSystemParallelJobs, c.MaxSystemParallelJobs); err != nil {
		return err
	}
	if c.CacheTTL, err = secondsEnv(EnvCacheTTL, c.CacheTTL); err != nil {
		return err
	}
	if c.MemoryLimitPercent, err = floatEnv(EnvMemoryLimitPercent, c.MemoryLimitPercent); err != nil {
		return err
	}
	if c.CPULimitPercent, err = floatEnv(EnvCPULimitPercent, c.CPULimitPercent); err != nil {
		return err
	}
	if c.ResourceMonitorEnabled, err = boolEnv(EnvResourceMonitorEnabled, c.ResourceMonitorEnabled); err != nil {
		return err
	}
	if c.CacheEnabled, err = boolEnv(EnvEnableCache, c.CacheEnabled); err != nil {
		return err
	}
	if c.ResourceCheckInterval, err = secondsEnv(EnvResourceCheckInterval, c.ResourceCheckInterval); err != nil {
		return err
	}
	if c.ParallelJobTimeout, err = secondsEnv(EnvParallelJobTimeout, c.ParallelJobTimeout); err != nil {
		return err
	}
	if c.RateLimitBuffer, err = intEnv(EnvRateLimitBuffer, c.RateLimitBuffer); err != nil {
		return err
	}
	if c.RateLimitFloor, err = intEnv(EnvRateLimitFloor, c.RateLimitFloor); err != nil {
		return err
	}
	if c.RateLimitMaxSleep, err = secondsEnv(EnvRateLimitMaxSleep, c.RateLimitMaxSleep); err != nil {
		return err
	}

	if dir := os.Getenv(EnvCacheDir); dir != "" {
		c.CacheDir = dir
	}

	level := os.Getenv(EnvLogLevel)
	if level == "" {
		level = DefaultLogLevel
	}
	if c.LogLevel, err = parseLogLevel(level); err != nil {
		return err
	}

	if format := os.Getenv(EnvLogFormat); format != "" {
		c.LogFormat = format
	}

	return nil
}

//nolint:cyclop // one clause per validated value
func (c *Config) validate() error {
	if c.MaxParallelJobs < 1 {
		return invalid(EnvMaxParallelJobs, c.MaxParallelJobs, "must be at least 1")
	}
	if c.MinParallelJobs < 1 {
		return invalid(EnvMinParallelJobs, c.MinParallelJobs, "must be at least 1")
	}
	if c.MinParallelJobs > c.MaxParallelJobs {
		return invalid(EnvMinParallelJobs, c.MinParallelJobs, "must not exceed "+EnvMaxParallelJobs)
	}
	if c.MaxSystemParallelJobs < c.MaxParallelJobs {
		return invalid(EnvMaxSystemParallelJobs, c.MaxSystemParallelJobs, "must be at least "+EnvMaxParallelJobs)
	}
	if c.CacheTTL < MinCacheTTL {
		return invalid(EnvCacheTTL, int(c.CacheTTL.Seconds()), "must be at least 60 seconds")
	}
	if c.MemoryLimitPercent < 1 || c.MemoryLimitPercent > 100 {
		return invalid(EnvMemoryLimitPercent, c.MemoryLimitPercent, "must be between 1 and 100")
	}
	if c.CPULimitPercent < 1 || c.CPULimitPercent > 100 {
		return invalid(EnvCPULimitPercent, c.CPULimitPercent, "must be between 1 and 100")
	}
	if c.ResourceCheckInterval < time.Second {
		return invalid(EnvResourceCheckInterval, int(c.ResourceCheckInterval.Seconds()), "must be at least 1 second")
	}
	if c.ParallelJobTimeout < 0 {
		return invalid(EnvParallelJobTimeout, int(c.ParallelJobTimeout.Seconds()), "must be 0 or positive")
	}
	if c.RateLimitBuffer < 0 {
		return invalid(EnvRateLimitBuffer, c.RateLimitBuffer, "must be 0 or positive")
	}
	if c.RateLimitFloor < 0 || c.RateLimitFloor > c.RateLimitBuffer {
		return invalid(EnvRateLimitFloor, c.RateLimitFloor, "must be between 0 and "+EnvRateLimitBuffer)
	}
	if c.RateLimitMaxSleep < 0 {
		return invalid(EnvRateLimitMaxSleep, int(c.RateLimitMaxSleep.Seconds()), "must be 0 or positive")
	}
	if c.LogFormat != "pretty" && c.LogFormat != "json" {
		return invalid(EnvLogFormat, c.LogFormat, "must be pretty or json")
	}
	if domain.ContainsTraversal(c.CacheDir) {
		return invalid(EnvCacheDir, c.CacheDir, "must not contain parent-directory segments")
	}
	return nil
}

func invalid(key string, value any, reason string) error {
	detail := zerr.With(zerr.New(reason), "key", key)
	detail = zerr.With(detail, "value", fmt.Sprintf("%v", value))
	return errors.Join(domain.ErrConfigInvalid, detail)
}

// parseFailure keeps domain.ErrConfigInvalid in the chain so the exit
// code mapping can branch on it.
func parseFailure(key string, err error) error {
	return errors.Join(domain.ErrConfigInvalid, zerr.With(zerr.Wrap(err, "unparseable value"), "key", key))
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, parseFailure(key, err)
	}
	return v, nil
}

func floatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, parseFailure(key, err)
	}
	return v, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, parseFailure(key, err)
	}
	return v, nil
}

// secondsEnv parses a whole-second count. Duration variables take
// plain integer seconds, not time.ParseDuration strings.
func secondsEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, parseFailure(key, err)
	}
	return time.Duration(v) * time.Second, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, invalid(EnvLogLevel, raw, "must be debug, info, warn or error")
	}
}
