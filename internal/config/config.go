// Package config loads notionplus settings from flags, environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keys.
const (
	KeyToken           = "token"
	KeyLogLevel        = "log_level"
	KeyTimeout         = "timeout"
	KeyCredentialsFile = "credentials_file"
	KeyProjectID       = "project_id"

	envPrefix      = "NOTION"
	defaultTimeout = 30 * time.Second
)

// ErrMissingToken is returned when no Notion integration token is configured.
var ErrMissingToken = errors.New("notion token is not set")

// Config holds resolved settings.
type Config struct {
	// Token is the Notion integration token (NOTION_TOKEN).
	Token string

	// LogLevel is a zerolog level name.
	LogLevel string

	// Timeout bounds every Notion API call.
	Timeout time.Duration

	// CredentialsFile is an optional Google service account key used by the
	// GCS and BigQuery mirror sinks. Empty means Application Default Credentials.
	CredentialsFile string

	// ProjectID is the Google Cloud project for BigQuery mirroring.
	ProjectID string
}

// NewViper returns a viper instance with defaults and environment binding.
// Environment variables use the NOTION_ prefix, e.g. NOTION_TOKEN.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyTimeout, defaultTimeout)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file into v and resolves a Config.
// A missing token is reported as ErrMissingToken.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Token:           strings.TrimSpace(v.GetString(KeyToken)),
		LogLevel:        v.GetString(KeyLogLevel),
		Timeout:         v.GetDuration(KeyTimeout),
		CredentialsFile: v.GetString(KeyCredentialsFile),
		ProjectID:       v.GetString(KeyProjectID),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
