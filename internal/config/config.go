package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything outside the scheduling request itself: where the
// durable files live, which timezone slots are interpreted in, and how to
// reach the publishing service.
type Config struct {
	Timezone string `mapstructure:"timezone"`
	API      struct {
		BaseURL   string `mapstructure:"base_url"`
		UserAgent string `mapstructure:"user_agent"`
	} `mapstructure:"api"`
	Storage struct {
		SessionFile     string `mapstructure:"session_file"`
		CredentialsFile string `mapstructure:"credentials_file"`
		LogFile         string `mapstructure:"log_file"`
	} `mapstructure:"storage"`
}

// LoadConfig reads the YAML config at path, falling back to built-in
// defaults when the file does not exist.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("timezone", "America/Sao_Paulo")
	v.SetDefault("api.base_url", "https://publish.example.com/api/v1")
	v.SetDefault("api.user_agent", "instasched/1.0")
	v.SetDefault("storage.session_file", "session.json")
	v.SetDefault("storage.credentials_file", "credentials.json")
	v.SetDefault("storage.log_file", "post_log.txt")

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, a malformed one is not.
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Location resolves the configured timezone name.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
