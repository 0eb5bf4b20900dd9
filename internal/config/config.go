// Package config loads console and devapi settings from a YAML file with
// MIU_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const envPrefix = "MIU_"

type Config struct {
	Console  ConsoleConfig  `yaml:"console"`
	Upstream UpstreamConfig `yaml:"upstream"`
	DevAPI   DevAPIConfig   `yaml:"devapi"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ConsoleConfig struct {
	Listen          string `yaml:"listen"`
	DefaultLanguage string `yaml:"default_language"`
	Timezone        string `yaml:"timezone"`
	CookieSecure    bool   `yaml:"cookie_secure"`
	// UsersPerPage is the page size of the admin user list.
	UsersPerPage int `yaml:"users_per_page"`
}

type UpstreamConfig struct {
	BaseURL        string `yaml:"base_url"`
	RefreshPath    string `yaml:"refresh_path"`
	RequestTimeout string `yaml:"request_timeout"`
	// CoalesceRefresh shares one refresh between concurrent requests of the
	// same browser session.
	CoalesceRefresh bool `yaml:"coalesce_refresh"`
}

type DevAPIConfig struct {
	Listen    string `yaml:"listen"`
	DBPath    string `yaml:"db_path"`
	SecretKey string `yaml:"secret_key"`
	// SeedAdminEmail creates an admin account on first start when set.
	SeedAdminEmail    string `yaml:"seed_admin_email"`
	SeedAdminPassword string `yaml:"seed_admin_password"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default() *Config {
	return &Config{
		Console: ConsoleConfig{
			Listen:          ":8080",
			DefaultLanguage: "ko",
			Timezone:        "Asia/Seoul",
			UsersPerPage:    10,
		},
		Upstream: UpstreamConfig{
			BaseURL:        "http://127.0.0.1:8081/",
			RefreshPath:    "api/auth/refresh_token",
			RequestTimeout: "15s",
		},
		DevAPI: DevAPIConfig{
			Listen:    ":8081",
			DBPath:    "data/devapi.db",
			SecretKey: "change_me_in_production",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path on top of the defaults. An empty path skips the file and
// only applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides(lookup func(string) (string, bool)) error {
	stringVars := map[string]*string{
		"LISTEN":                     &c.Console.Listen,
		"DEFAULT_LANGUAGE":           &c.Console.DefaultLanguage,
		"TZ":                         &c.Console.Timezone,
		"UPSTREAM_URL":               &c.Upstream.BaseURL,
		"REFRESH_PATH":               &c.Upstream.RefreshPath,
		"REQUEST_TIMEOUT":            &c.Upstream.RequestTimeout,
		"DEVAPI_LISTEN":              &c.DevAPI.Listen,
		"DEVAPI_DB_PATH":             &c.DevAPI.DBPath,
		"DEVAPI_SECRET_KEY":          &c.DevAPI.SecretKey,
		"DEVAPI_SEED_ADMIN_EMAIL":    &c.DevAPI.SeedAdminEmail,
		"DEVAPI_SEED_ADMIN_PASSWORD": &c.DevAPI.SeedAdminPassword,
		"LOG_LEVEL":                  &c.Logging.Level,
	}
	for name, target := range stringVars {
		if value, ok := lookup(envPrefix + name); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}

	boolVars := map[string]*bool{
		"COOKIE_SECURE":    &c.Console.CookieSecure,
		"COALESCE_REFRESH": &c.Upstream.CoalesceRefresh,
		"LOG_DEVELOPMENT":  &c.Logging.Development,
	}
	for name, target := range boolVars {
		value, ok := lookup(envPrefix + name)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("parse %s%s: %w", envPrefix, name, err)
		}
		*target = parsed
	}

	if value, ok := lookup(envPrefix + "USERS_PER_PAGE"); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("parse %sUSERS_PER_PAGE: %w", envPrefix, err)
		}
		c.Console.UsersPerPage = parsed
	}
	return nil
}

func (c *Config) Validate() error {
	upstream, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || (upstream.Scheme != "http" && upstream.Scheme != "https") || upstream.Host == "" {
		return fmt.Errorf("upstream base_url %q must be an absolute http(s) url", c.Upstream.BaseURL)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	if c.Console.UsersPerPage <= 0 {
		return errors.New("console users_per_page must be positive")
	}
	if strings.TrimSpace(c.Console.Listen) == "" {
		return errors.New("console listen address is required")
	}
	return nil
}

// RequestTimeout parses the upstream request timeout. An empty value or "0"
// disables it.
func (c *Config) RequestTimeout() (time.Duration, error) {
	raw := strings.TrimSpace(c.Upstream.RequestTimeout)
	if raw == "" || raw == "0" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse upstream request_timeout: %w", err)
	}
	if timeout < 0 {
		return 0, fmt.Errorf("upstream request_timeout %s must not be negative", raw)
	}
	return timeout, nil
}

// Location resolves the console timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(strings.TrimSpace(c.Console.Timezone))
	if err != nil {
		return time.UTC
	}
	return location
}
