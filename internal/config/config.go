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

// FileName is the config file created by tally init.
const FileName = "tally.yaml"

// EnvPrefix prefixes environment overrides, e.g. TALLY_STORAGE_BACKEND.
const EnvPrefix = "TALLY"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Import     ImportConfig     `yaml:"import" mapstructure:"import"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StorageConfig selects where finance data is persisted.
type StorageConfig struct {
	Backend   string `yaml:"backend" mapstructure:"backend"` // file, sqlite or redis
	Path      string `yaml:"path" mapstructure:"path"`       // relative to the project root
	RedisAddr string `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisKey  string `yaml:"redis_key,omitempty" mapstructure:"redis_key"`
}

// ExtractionConfig controls PDF and image extraction.
type ExtractionConfig struct {
	Model     string `yaml:"model" mapstructure:"model"`
	APIKeyEnv string `yaml:"api_key_env" mapstructure:"api_key_env"`
}

// APIKey reads the key from the configured environment variable.
func (e ExtractionConfig) APIKey() string {
	if e.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(e.APIKeyEnv)
}

// ImportConfig holds import defaults.
type ImportConfig struct {
	DefaultAccountType string `yaml:"default_account_type" mapstructure:"default_account_type"` // empty = detect from header
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:  "file",
			Path:     filepath.Join("data", "finance.json"),
			RedisKey: "tally:finance",
		},
		Extraction: ExtractionConfig{
			Model:     "gemini-2.5-flash",
			APIKeyEnv: "GEMINI_API_KEY",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func newViper() *viper.Viper {
	d := Default()
	v := viper.New()
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.redis_addr", d.Storage.RedisAddr)
	v.SetDefault("storage.redis_key", d.Storage.RedisKey)
	v.SetDefault("extraction.model", d.Extraction.Model)
	v.SetDefault("extraction.api_key_env", d.Extraction.APIKeyEnv)
	v.SetDefault("import.default_account_type", d.Import.DefaultAccountType)
	v.SetDefault("log.level", d.Log.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads a tally.yaml file from disk, layered over the defaults and
// under TALLY_* environment overrides.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return decode(v)
}

// LoadOrDefault behaves like Load but falls back to the defaults (with
// environment overrides) when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return decode(newViper())
	}
	return cfg, err
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// StoragePath resolves the storage path against the project root.
func (c *Config) StoragePath(root string) string {
	if c.Storage.Path == "" || filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(root, c.Storage.Path)
}
