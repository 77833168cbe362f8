// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied when neither the config file nor the environment sets
// a value.
const (
	DefaultStorePath   = "intelextract.db"
	DefaultTenantID    = "channel-changers"
	DefaultPort        = 8080
	DefaultStepDelayMS = 1200
)

// Config represents the application configuration, loadable from a JSON
// file with environment overrides. All fields are optional; missing
// values use defaults or must be provided via CLI flags.
type Config struct {
	// Credentials
	APIKey       string `json:"api_key,omitempty"`        // Gemini API key
	SearchAPIKey string `json:"search_api_key,omitempty"` // Custom search API key
	SearchCX     string `json:"search_cx,omitempty"`      // Custom search engine ID

	// Integrations
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL mirror connection URL
	WebhookURL  string `json:"webhook_url,omitempty"`  // Slack incoming webhook for alerts

	// Identity
	TenantID string `json:"tenant_id,omitempty"` // Tenant tag on mirrored records

	// Storage
	StorePath string `json:"store_path,omitempty"` // Local SQLite database path

	// Behavior
	StepDelayMS int  `json:"step_delay_ms,omitempty"` // Automation pipeline pacing
	Port        int  `json:"port,omitempty"`          // HTTP server port
	UseBrowser  bool `json:"use_browser,omitempty"`   // Use headless browser for SPA sites
	Verbose     bool `json:"verbose,omitempty"`       // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills credentials and integration endpoints from environment
// variables, overriding file values. Flags are applied after this.
func (c *Config) FromEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("SEARCH_API_KEY"); v != "" {
		c.SearchAPIKey = v
	}
	if v := os.Getenv("SEARCH_CX"); v != "" {
		c.SearchCX = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		c.WebhookURL = v
	}
	if v := os.Getenv("TENANT_ID"); v != "" {
		c.TenantID = v
	}
}

// Validate checks that the configuration has valid values.
// Required credentials are checked at the call sites that need them,
// after flag merging.
func (c *Config) Validate() error {
	if c.StepDelayMS < 0 {
		return fmt.Errorf("config error: 'step_delay_ms' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid port number")
	}
	if c.SearchAPIKey != "" && c.SearchCX == "" {
		return fmt.Errorf("config error: 'search_cx' is required when 'search_api_key' is set")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// the built-in defaults.
func (c *Config) MergeWithDefaults() Config {
	result := *c

	if result.StorePath == "" {
		result.StorePath = DefaultStorePath
	}
	if result.TenantID == "" {
		result.TenantID = DefaultTenantID
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}
	if result.StepDelayMS == 0 {
		result.StepDelayMS = DefaultStepDelayMS
	}

	return result
}
