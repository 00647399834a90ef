// Package config handles configuration and session storage for intellibrowse.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// DefaultBaseURL is the backend address used when nothing else is configured
const DefaultBaseURL = "http://localhost:8000"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the root of the authentication/chat backend.
	BaseURL string `json:"base_url"`
	// HTMLPolicy decides how server-provided markup is treated before display:
	// "sanitize", "strip" or "raw".
	HTMLPolicy string `json:"html_policy"`
	// SendFailurePolicy decides what happens to the typed message when a
	// chat send fails: "retain" keeps it in the input, "discard" drops it.
	SendFailurePolicy string `json:"send_failure_policy"`
	// TimeoutSeconds bounds each HTTP request. Zero leaves the transport default.
	TimeoutSeconds  int            `json:"timeout_seconds,omitempty"`
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// envOverrides maps INTELLIBROWSE_* variables onto config fields.
// Pointer fields stay nil when the variable is unset.
type envOverrides struct {
	BaseURL           *string `env:"INTELLIBROWSE_BASE_URL"`
	HTMLPolicy        *string `env:"INTELLIBROWSE_HTML_POLICY"`
	SendFailurePolicy *string `env:"INTELLIBROWSE_SEND_FAILURE_POLICY"`
	TimeoutSeconds    *int    `env:"INTELLIBROWSE_TIMEOUT_SECONDS"`
	Verbose           *bool   `env:"INTELLIBROWSE_VERBOSE"`
	TUITheme          *string `env:"INTELLIBROWSE_TUI_THEME"`
}

// Allowed values for enumerated settings
var allowedValues = map[string][]string{
	"html_policy":         {"sanitize", "strip", "raw"},
	"send_failure_policy": {"retain", "discard"},
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		HTMLPolicy:        "sanitize",
		SendFailurePolicy: "retain",
		Verbose:           false,
		CopyToClipboard:   false,
		TUITheme:          "tokyonight",
		Markdown:          DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".intellibrowse"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the session token
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetStoragePath returns the path to the durable key-value storage file
func GetStoragePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "storage.json"), nil
}

// LoadConfig loads the configuration from disk and applies environment overrides
func LoadConfig() (Config, error) {
	cfg, err := readConfigFile()
	if err != nil {
		return cfg, err
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// LoadFileConfig loads only what is saved in config.json, without any
// .env or INTELLIBROWSE_* overrides. Use it before SaveConfig.
func LoadFileConfig() (Config, error) {
	cfg, err := readConfigFile()
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func readConfigFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv loads a .env file from the working directory when present and
// overlays any INTELLIBROWSE_* variables onto cfg.
func ApplyEnv(cfg *Config) error {
	// A missing .env is the normal case
	_ = godotenv.Load()

	var o envOverrides
	if _, err := env.UnmarshalFromEnviron(&o); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if o.BaseURL != nil {
		cfg.BaseURL = *o.BaseURL
	}
	if o.HTMLPolicy != nil {
		cfg.HTMLPolicy = *o.HTMLPolicy
	}
	if o.SendFailurePolicy != nil {
		cfg.SendFailurePolicy = *o.SendFailurePolicy
	}
	if o.TimeoutSeconds != nil {
		cfg.TimeoutSeconds = *o.TimeoutSeconds
	}
	if o.Verbose != nil {
		cfg.Verbose = *o.Verbose
	}
	if o.TUITheme != nil {
		cfg.TUITheme = *o.TUITheme
	}
	return nil
}

// Validate checks enumerated settings and the base URL
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must start with http:// or https://, got %q", c.BaseURL)
	}
	if err := checkAllowed("html_policy", c.HTMLPolicy); err != nil {
		return err
	}
	if err := checkAllowed("send_failure_policy", c.SendFailurePolicy); err != nil {
		return err
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	return nil
}

func checkAllowed(key, value string) error {
	allowed := allowedValues[key]
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q (allowed: %s)", key, value, strings.Join(allowed, ", "))
	}
	return nil
}

// Set updates a single setting by its JSON key
func (c *Config) Set(key, value string) error {
	switch key {
	case "base_url":
		c.BaseURL = strings.TrimRight(value, "/")
	case "html_policy", "send_failure_policy":
		if err := checkAllowed(key, value); err != nil {
			return err
		}
		if key == "html_policy" {
			c.HTMLPolicy = value
		} else {
			c.SendFailurePolicy = value
		}
	case "timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("timeout_seconds must be a non-negative integer")
		}
		c.TimeoutSeconds = n
	case "verbose", "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		if key == "verbose" {
			c.Verbose = b
		} else {
			c.CopyToClipboard = b
		}
	case "tui_theme":
		c.TUITheme = value
	case "markdown.style":
		c.Markdown.Style = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return c.Validate()
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
