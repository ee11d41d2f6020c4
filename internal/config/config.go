// Package config loads layered configuration: environment variables
// (KIGO_*) over a project-local kigo.yml over the global config file over
// defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/kigo-app/kigo/internal/generator"
)

// Config holds all resolved settings.
type Config struct {
	APIKey   string `mapstructure:"api_key" yaml:"api_key"`
	APIURL   string `mapstructure:"api_url" yaml:"api_url"`
	Model    string `mapstructure:"model" yaml:"model"`
	DataDir  string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		APIURL:   generator.DefaultAPIURL,
		Model:    generator.DefaultModel,
		DataDir:  defaultDataDir(),
		LogLevel: "info",
		LogFile:  "", // resolved to <data_dir>/kigo.log at runtime
	}
}

// GlobalPath returns the global config file location, honoring
// XDG_CONFIG_HOME.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "kigo.yml")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "kigo", "kigo.yml")
}

// ProjectPath returns the project-local config file location.
func ProjectPath() string {
	return "kigo.yml"
}

// Exists reports whether either config file is present.
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// Load resolves the configuration from all sources.
// Precedence (highest to lowest): env vars, project config, global
// config, defaults. GROQ_API_KEY is honored as a fallback credential
// source when no other source sets api_key.
func Load() (*Config, error) {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault("api_key", "")
	v.SetDefault("api_url", defaults.APIURL)
	v.SetDefault("model", defaults.Model)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_file", defaults.LogFile)

	v.SetConfigType("yaml")

	if fileExists(GlobalPath()) {
		v.SetConfigFile(GlobalPath())
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	if fileExists(ProjectPath()) {
		v.SetConfigFile(ProjectPath())
		if err := v.MergeInConfig(); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix("KIGO")
	for _, key := range []string{"api_key", "api_url", "model", "data_dir", "log_level", "log_file"} {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "kigo.log")
	}
	return &cfg, nil
}

// WriteGlobal writes cfg to the global config file, creating directories
// as needed.
func WriteGlobal(cfg *Config) error {
	return writeFile(GlobalPath(), cfg)
}

// WriteProject writes cfg to the project-local config file.
func WriteProject(cfg *Config) error {
	return writeFile(ProjectPath(), cfg)
}

func writeFile(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultDataDir() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ".kigo"
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "kigo")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
