// Package config provides configuration management for git-prompt.
//
// Settings come from three layers: built-in defaults, an optional TOML
// file, and GP_* environment variables, with the environment winning.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/xvierd/git-prompt/internal/prompt"
)

// EnvPrefix is prepended to every key to form its environment variable.
const EnvPrefix = "GP"

// Default templates.
const (
	DefaultGitPrompt     = `[\pR \pL] \pC\pK\pI\pd \pP `
	DefaultDefaultPrompt = `\pC \pp `
)

// Config holds all configuration for git-prompt.
type Config struct {
	GitPrompt     string `mapstructure:"git_prompt"`
	DefaultPrompt string `mapstructure:"default_prompt"`

	UpToDate string `mapstructure:"up_to_date"`
	Modified string `mapstructure:"modified"`
	Conflict string `mapstructure:"conflict"`
	NoData   string `mapstructure:"no_data"`
	Cwd      string `mapstructure:"cwd"`
	Reset    string `mapstructure:"reset"`

	WorkingDirStyle      string `mapstructure:"wd_style"`
	WorkingDirRootMarker string `mapstructure:"wd_root_marker"`

	ConflictStyle    string `mapstructure:"conflict_style"`
	RebaseStyle      string `mapstructure:"rebase_style"`
	AheadStyle       string `mapstructure:"ahead_style"`
	BehindStyle      string `mapstructure:"behind_style"`
	AheadBehindStyle string `mapstructure:"ahead_behind_style"`

	Debug     bool   `mapstructure:"debug"`
	DebugFile string `mapstructure:"debug_file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	style := prompt.DefaultStyle()
	return &Config{
		GitPrompt:            DefaultGitPrompt,
		DefaultPrompt:        DefaultDefaultPrompt,
		UpToDate:             style.ColorUpToDate,
		Modified:             style.ColorModified,
		Conflict:             style.ColorConflict,
		NoData:               style.ColorNoData,
		Cwd:                  style.ColorCwd,
		Reset:                style.ColorReset,
		WorkingDirStyle:      style.WorkingDirStyle,
		WorkingDirRootMarker: style.WorkingDirRootMarker,
		ConflictStyle:        style.ConflictStyle,
		RebaseStyle:          style.RebaseStyle,
		AheadStyle:           style.AheadStyle,
		BehindStyle:          style.BehindStyle,
		AheadBehindStyle:     style.AheadBehindStyle,
	}
}

// Load builds the configuration. configPath selects a TOML file; when it
// is empty the default path is used if the file exists. A missing default
// file is not an error, and no file is ever created here.
func Load(configPath string) (*Config, error) {
	v := newViper()

	explicit := configPath != ""
	if !explicit {
		var err error
		configPath, err = GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if explicit {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds the configuration from defaults and environment
// variables only. It is the fallback when the config file is unusable.
func FromEnv() *Config {
	var cfg Config
	if err := newViper().Unmarshal(&cfg); err != nil {
		return DefaultConfig()
	}
	return &cfg
}

// Save writes cfg as TOML to configPath, or the default path when empty.
// An existing file is left untouched.
func Save(cfg *Config, configPath string) (string, error) {
	if configPath == "" {
		var err error
		configPath, err = GetConfigPath()
		if err != nil {
			return "", fmt.Errorf("failed to get config path: %w", err)
		}
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	for key, value := range cfg.Settings() {
		v.Set(key, value)
	}

	if err := v.SafeWriteConfigAs(configPath); err != nil {
		var exists viper.ConfigFileAlreadyExistsError
		if errors.As(err, &exists) {
			return configPath, fmt.Errorf("config file already exists: %s", configPath)
		}
		return configPath, fmt.Errorf("failed to write config: %w", err)
	}
	return configPath, nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "git-prompt", "config.toml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "git-prompt", "config.toml"), nil
}

// Style converts the configuration into a renderer style.
func (c *Config) Style() prompt.Style {
	return prompt.Style{
		ColorUpToDate:        c.UpToDate,
		ColorModified:        c.Modified,
		ColorConflict:        c.Conflict,
		ColorNoData:          c.NoData,
		ColorCwd:             c.Cwd,
		ColorReset:           c.Reset,
		WorkingDirStyle:      c.WorkingDirStyle,
		WorkingDirRootMarker: c.WorkingDirRootMarker,
		ConflictStyle:        c.ConflictStyle,
		RebaseStyle:          c.RebaseStyle,
		AheadStyle:           c.AheadStyle,
		BehindStyle:          c.BehindStyle,
		AheadBehindStyle:     c.AheadBehindStyle,
	}
}

// Keys returns every configuration key in display order.
func Keys() []string {
	return []string{
		"git_prompt", "default_prompt",
		"up_to_date", "modified", "conflict", "no_data", "cwd", "reset",
		"wd_style", "wd_root_marker",
		"conflict_style", "rebase_style", "ahead_style", "behind_style", "ahead_behind_style",
		"debug", "debug_file",
	}
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}

// Settings maps every key to its value in c.
func (c *Config) Settings() map[string]any {
	return map[string]any{
		"git_prompt":         c.GitPrompt,
		"default_prompt":     c.DefaultPrompt,
		"up_to_date":         c.UpToDate,
		"modified":           c.Modified,
		"conflict":           c.Conflict,
		"no_data":            c.NoData,
		"cwd":                c.Cwd,
		"reset":              c.Reset,
		"wd_style":           c.WorkingDirStyle,
		"wd_root_marker":     c.WorkingDirRootMarker,
		"conflict_style":     c.ConflictStyle,
		"rebase_style":       c.RebaseStyle,
		"ahead_style":        c.AheadStyle,
		"behind_style":       c.BehindStyle,
		"ahead_behind_style": c.AheadBehindStyle,
		"debug":              c.Debug,
		"debug_file":         c.DebugFile,
	}
}

// newViper returns a viper instance with defaults and environment binding.
// Empty environment values are honored so a color can be switched off.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	for key, value := range DefaultConfig().Settings() {
		v.SetDefault(key, value)
	}
	return v
}
