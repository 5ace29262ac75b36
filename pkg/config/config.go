/*
Package config manages the TOML config for tamilserve.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/tamilserve/internal/utils"
	"github.com/charmbracelet/log"
)

const (
	appDirName     = "tamilserve"
	configFileName = "tamilserve.toml"
)

// Config holds the entire config structure
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Session SessionConfig `toml:"session"`
	Remote  RemoteConfig  `toml:"remote"`
	CLI     CliConfig     `toml:"cli"`
}

// EngineConfig tunes generation, ranking and caching.
type EngineConfig struct {
	MaxSuggestions   int    `toml:"max_suggestions"`
	CandidateCeiling int    `toml:"candidate_ceiling"`
	BranchOptions    int    `toml:"branch_options"`
	DepthSlack       int    `toml:"depth_slack"`
	VariantExpansion bool   `toml:"variant_expansion"`
	CacheCapacity    int    `toml:"cache_capacity"`
	OverridesDir     string `toml:"overrides_dir"`
}

// SessionConfig holds incremental typing options.
type SessionConfig struct {
	MinToken        int `toml:"min_token"`
	MaxToken        int `toml:"max_token"`
	DebounceMs      int `toml:"debounce_ms"`
	LookupTimeoutMs int `toml:"lookup_timeout_ms"`
}

// RemoteConfig holds the hosted lookup guard options. The transport itself is
// provided by the embedding application.
type RemoteConfig struct {
	Enabled     bool    `toml:"enabled"`
	Prefer      bool    `toml:"prefer"`
	TimeoutMs   int     `toml:"timeout_ms"`
	Rate        float64 `toml:"rate"`
	Burst       int     `toml:"burst"`
	MaxFailures int     `toml:"max_failures"`
	CooldownMs  int     `toml:"cooldown_ms"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	ShowScores   bool `toml:"show_scores"`
	ShowBaseline bool `toml:"show_baseline"`
}

// Debounce returns the debounce delay.
func (s SessionConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}

// LookupTimeout returns the per-lookup deadline.
func (s SessionConfig) LookupTimeout() time.Duration {
	return time.Duration(s.LookupTimeoutMs) * time.Millisecond
}

// Timeout returns the remote call deadline.
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutMs) * time.Millisecond
}

// Cooldown returns how long an open breaker waits before probing.
func (r RemoteConfig) Cooldown() time.Duration {
	return time.Duration(r.CooldownMs) * time.Millisecond
}

// GetConfigDir returns the config directory with fallback priority:
// 1. $XDG_CONFIG_HOME/tamilserve or ~/.config/tamilserve
// 2. ~/Library/Application Support/tamilserve (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", appDirName)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		primaryPath = filepath.Join(xdg, appDirName)
	}
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", appDirName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for tamilserve.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from the -config flag
// 2. Default path: [UserConfigDir]/tamilserve/tamilserve.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxSuggestions:   6,
			CandidateCeiling: 10,
			BranchOptions:    2,
			DepthSlack:       5,
			VariantExpansion: true,
			CacheCapacity:    512,
		},
		Session: SessionConfig{
			MinToken:        2,
			MaxToken:        60,
			DebounceMs:      180,
			LookupTimeoutMs: 2000,
		},
		Remote: RemoteConfig{
			Enabled:     false,
			Prefer:      true,
			TimeoutMs:   2000,
			Rate:        5,
			Burst:       5,
			MaxFailures: 5,
			CooldownMs:  30000,
		},
		CLI: CliConfig{
			DefaultLimit: 6,
			ShowScores:   true,
			ShowBaseline: false,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Values are validated before returning.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config, err = tryPartialParse(configPath)
		if err != nil {
			return nil, err
		}
	}
	config.Validate()
	return config, nil
}

// tryPartialParse salvages every well-formed section it can read.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(raw, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(raw, "session"); ok {
		extractSessionConfig(section, &config.Session)
	}
	if section, ok := utils.ExtractSection(raw, "remote"); ok {
		extractRemoteConfig(section, &config.Remote)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	setInt(data, "max_suggestions", &engine.MaxSuggestions)
	setInt(data, "candidate_ceiling", &engine.CandidateCeiling)
	setInt(data, "branch_options", &engine.BranchOptions)
	setInt(data, "depth_slack", &engine.DepthSlack)
	setInt(data, "cache_capacity", &engine.CacheCapacity)
	if val, ok := utils.ExtractBool(data, "variant_expansion"); ok {
		engine.VariantExpansion = val
	}
	if val, ok := utils.ExtractString(data, "overrides_dir"); ok {
		engine.OverridesDir = val
	}
}

func extractSessionConfig(data map[string]any, session *SessionConfig) {
	setInt(data, "min_token", &session.MinToken)
	setInt(data, "max_token", &session.MaxToken)
	setInt(data, "debounce_ms", &session.DebounceMs)
	setInt(data, "lookup_timeout_ms", &session.LookupTimeoutMs)
}

func extractRemoteConfig(data map[string]any, remote *RemoteConfig) {
	if val, ok := utils.ExtractBool(data, "enabled"); ok {
		remote.Enabled = val
	}
	if val, ok := utils.ExtractBool(data, "prefer"); ok {
		remote.Prefer = val
	}
	if val, ok := utils.ExtractFloat(data, "rate"); ok {
		remote.Rate = val
	}
	setInt(data, "timeout_ms", &remote.TimeoutMs)
	setInt(data, "burst", &remote.Burst)
	setInt(data, "max_failures", &remote.MaxFailures)
	setInt(data, "cooldown_ms", &remote.CooldownMs)
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	setInt(data, "default_limit", &cli.DefaultLimit)
	if val, ok := utils.ExtractBool(data, "show_scores"); ok {
		cli.ShowScores = val
	}
	if val, ok := utils.ExtractBool(data, "show_baseline"); ok {
		cli.ShowBaseline = val
	}
}

func setInt(data map[string]any, key string, dst *int) {
	if val, ok := utils.ExtractInt(data, key); ok {
		*dst = val
	}
}

// Validate resets out-of-range values to their defaults, or clamps them
// where a bound exists, and logs every change.
func (c *Config) Validate() {
	def := DefaultConfig()

	positive := func(name string, v *int, fallback int) {
		if *v <= 0 {
			log.Warnf("Config %s=%d is not positive, using %d", name, *v, fallback)
			*v = fallback
		}
	}
	positive("engine.max_suggestions", &c.Engine.MaxSuggestions, def.Engine.MaxSuggestions)
	positive("engine.candidate_ceiling", &c.Engine.CandidateCeiling, def.Engine.CandidateCeiling)
	positive("engine.branch_options", &c.Engine.BranchOptions, def.Engine.BranchOptions)
	positive("engine.cache_capacity", &c.Engine.CacheCapacity, def.Engine.CacheCapacity)
	positive("session.min_token", &c.Session.MinToken, def.Session.MinToken)
	positive("session.max_token", &c.Session.MaxToken, def.Session.MaxToken)
	positive("session.lookup_timeout_ms", &c.Session.LookupTimeoutMs, def.Session.LookupTimeoutMs)
	positive("remote.timeout_ms", &c.Remote.TimeoutMs, def.Remote.TimeoutMs)
	positive("cli.default_limit", &c.CLI.DefaultLimit, def.CLI.DefaultLimit)

	if c.Engine.DepthSlack < 0 {
		log.Warnf("Config engine.depth_slack=%d is negative, using 0", c.Engine.DepthSlack)
		c.Engine.DepthSlack = 0
	}
	if c.Session.MaxToken < c.Session.MinToken {
		log.Warnf("Config session.max_token=%d is below min_token=%d, using %d",
			c.Session.MaxToken, c.Session.MinToken, c.Session.MinToken)
		c.Session.MaxToken = c.Session.MinToken
	}
	if d := clamp(c.Session.DebounceMs, 120, 250); d != c.Session.DebounceMs {
		log.Warnf("Config session.debounce_ms=%d is outside 120-250, using %d", c.Session.DebounceMs, d)
		c.Session.DebounceMs = d
	}
	if c.Remote.Rate < 0 {
		c.Remote.Rate = 0
	}
	if c.Remote.Burst < 0 {
		c.Remote.Burst = 0
	}
	if c.Remote.MaxFailures < 0 {
		c.Remote.MaxFailures = 0
	}
	if c.Remote.CooldownMs < 0 {
		c.Remote.CooldownMs = 0
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// RebuildConfigFile force creates a new tamilserve.toml at the default path
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
