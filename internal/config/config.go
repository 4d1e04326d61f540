package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. JESTPATH_LOGGING_LEVEL.
const EnvPrefix = "JESTPATH"

// DefaultSettingsFile is the editor settings file, relative to the workspace root.
const DefaultSettingsFile = ".vscode/settings.json"

// Config represents the application configuration structure
type Config struct {
	Version   int             `mapstructure:"version" yaml:"version"`
	Workspace WorkspaceConfig `mapstructure:"workspace" yaml:"workspace"`
	Settings  SettingsConfig  `mapstructure:"settings" yaml:"settings"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// WorkspaceConfig holds workspace-related settings
type WorkspaceConfig struct {
	// Default is used as the workspace root for files outside any git worktree
	Default string `mapstructure:"default" yaml:"default"`
}

// SettingsConfig says where editor settings are read from
type SettingsConfig struct {
	File string `mapstructure:"file" yaml:"file"`
	// Platform forces "posix" or "windows" path rules; empty uses the host's
	Platform string `mapstructure:"platform" yaml:"platform"`
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	JSON   bool   `mapstructure:"json" yaml:"json"`
	ToFile bool   `mapstructure:"to_file" yaml:"to_file"`
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		Version:  1,
		Settings: SettingsConfig{File: DefaultSettingsFile},
		Logging:  LoggingConfig{Level: "warn"},
	}
}

// DefaultPath returns ~/.config/jestpath/config.yml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "jestpath", "config.yml"), nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("version", def.Version)
	v.SetDefault("workspace.default", def.Workspace.Default)
	v.SetDefault("settings.file", def.Settings.File)
	v.SetDefault("settings.platform", def.Settings.Platform)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.json", def.Logging.JSON)
	v.SetDefault("logging.to_file", def.Logging.ToFile)
}

// Load reads the configuration. An empty configFile looks for the default path and
// falls back to defaults when it does not exist; an explicit configFile must exist.
// Environment variables override both.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		path, err := DefaultPath()
		if err == nil {
			v.AddConfigPath(filepath.Dir(path))
		}
		v.SetConfigName("config")
		v.SetConfigType("yml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg as YAML, creating parent directories
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SettingsPath returns the editor settings file for a workspace root
func (c *Config) SettingsPath(workspaceRoot string) string {
	file := c.Settings.File
	if file == "" {
		file = DefaultSettingsFile
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(workspaceRoot, file)
}
