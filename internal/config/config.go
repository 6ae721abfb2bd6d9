package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Sink persistence modes
const (
	ModeAppend   = "append"
	ModeSnapshot = "snapshot"
)

// Defaults for the sink target
const (
	DefaultSinkKey     = "error_warning_logs/error_log.csv"
	DefaultSinkPrefix  = "error_warning_logs"
	DefaultMaxAttempts = 4
)

// SinkConfig controls where formatted log batches are persisted
type SinkConfig struct {
	Bucket string `yaml:"bucket"`
	// Key is the fixed accumulator key used in append mode
	Key string `yaml:"key,omitempty"`
	// Mode is either append (read-modify-write of Key) or snapshot
	// (one timestamped object per batch under Prefix)
	Mode string `yaml:"mode,omitempty"`
	// Prefix is the key prefix for snapshot objects
	Prefix string `yaml:"prefix,omitempty"`
	// MaxAttempts bounds the conditional-write retry loop in append mode
	MaxAttempts int `yaml:"max_attempts,omitempty"`
}

// DBConfig locates the source MySQL database. Credentials are not stored
// here; UserParam and PasswordParam name SSM parameters or secrets.
type DBConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port,omitempty"`
	Name          string `yaml:"name"`
	UserParam     string `yaml:"user_param"`
	PasswordParam string `yaml:"password_param"`
}

// ExtractConfig controls the incremental MySQL to S3 export
type ExtractConfig struct {
	Bucket string   `yaml:"bucket"`
	Tables []string `yaml:"tables"`
	DB     DBConfig `yaml:"db"`
}

// Config represents the application configuration
type Config struct {
	AWSProfile string        `yaml:"aws_profile,omitempty"`
	AWSRegion  string        `yaml:"aws_region,omitempty"`
	Sink       SinkConfig    `yaml:"sink"`
	Extract    ExtractConfig `yaml:"extract"`
}

// GetConfigPath returns the config file path (~/.logsink.yaml)
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".logsink.yaml"
	}
	return filepath.Join(home, ".logsink.yaml")
}

// Load reads the configuration from path, or from ~/.logsink.yaml when path
// is empty. A missing file yields a config with defaults applied.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in unset fields
func (c *Config) ApplyDefaults() {
	if c.Sink.Mode == "" {
		c.Sink.Mode = ModeAppend
	}
	if c.Sink.Key == "" {
		c.Sink.Key = DefaultSinkKey
	}
	if c.Sink.Prefix == "" {
		c.Sink.Prefix = DefaultSinkPrefix
	}
	if c.Sink.MaxAttempts <= 0 {
		c.Sink.MaxAttempts = DefaultMaxAttempts
	}
	if c.Extract.DB.Port == 0 {
		c.Extract.DB.Port = 3306
	}
}

// ValidateSink checks the fields the sink needs
func (c *Config) ValidateSink() error {
	if c.Sink.Bucket == "" {
		return fmt.Errorf("sink bucket is not configured")
	}
	if c.Sink.Mode != ModeAppend && c.Sink.Mode != ModeSnapshot {
		return fmt.Errorf("unknown sink mode %q", c.Sink.Mode)
	}
	return nil
}

// ValidateExtract checks the fields the extractor needs
func (c *Config) ValidateExtract() error {
	if c.Extract.Bucket == "" {
		return fmt.Errorf("extract bucket is not configured")
	}
	if len(c.Extract.Tables) == 0 {
		return fmt.Errorf("no extract tables configured")
	}
	if c.Extract.DB.Host == "" || c.Extract.DB.Name == "" {
		return fmt.Errorf("extract database host/name are not configured")
	}
	if c.Extract.DB.UserParam == "" || c.Extract.DB.PasswordParam == "" {
		return fmt.Errorf("extract database credential parameters are not configured")
	}
	return nil
}
