// Package config provides configuration types and defaults for cortex.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/log"
)

// Config holds all configuration options for cortex.
type Config struct {
	// ServerURL is the websocket endpoint of the agent backend.
	ServerURL string `mapstructure:"server_url"`

	// AutoReconnect redials the server after a dropped connection.
	AutoReconnect bool `mapstructure:"auto_reconnect"`

	Storage     StorageConfig    `mapstructure:"storage"`
	UI          UIConfig         `mapstructure:"ui"`
	Screenshots ScreenshotConfig `mapstructure:"screenshots"`
	Tracing     TracingConfig    `mapstructure:"tracing"`
}

// StorageConfig holds chat persistence configuration.
type StorageConfig struct {
	// Path is the SQLite database file.
	// Default: ~/.cortex/cortex.db
	Path string `mapstructure:"path"`

	// Disabled turns off persistence entirely (memory-only session).
	Disabled bool `mapstructure:"disabled"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	VimMode       bool   `mapstructure:"vim_mode"`       // Enable vim keybindings in the input area
}

// ScreenshotConfig holds screenshot payload handling options.
type ScreenshotConfig struct {
	// DisableCache fetches referenced images on every render.
	DisableCache bool `mapstructure:"disable_cache"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/cortex/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultStoragePath returns the default SQLite database location.
// Returns ~/.cortex/cortex.db or empty string if home dir unavailable.
func DefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cortex", "cortex.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/cortex/traces/traces.jsonl or empty string if home
// dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cortex", "traces", "traces.jsonl")
}

// Validate checks the whole configuration for errors.
func Validate(c Config) error {
	if err := ValidateServerURL(c.ServerURL); err != nil {
		return err
	}
	if err := ValidateStorage(c.Storage); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateServerURL checks that the server URL is a websocket endpoint.
// An empty URL is valid and uses the default.
func ValidateServerURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("server_url is not a valid URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("server_url must use the ws or wss scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server_url is missing a host")
	}
	return nil
}

// ValidateStorage checks storage configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateStorage(storage StorageConfig) error {
	if storage.Path != "" && !filepath.IsAbs(storage.Path) {
		return fmt.Errorf("storage.path must be an absolute path, got %q", storage.Path)
	}
	return nil
}

// ValidateUI checks user interface configuration for errors.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled.
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		ServerURL:     "ws://localhost:8765/ws",
		AutoReconnect: true,
		Storage: StorageConfig{
			Path: DefaultStoragePath(),
		},
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
			VimMode:       false, // Disabled by default for non-vim users
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Cortex Configuration

# Websocket endpoint of the agent backend
server_url: ws://localhost:8765/ws

# Redial automatically after a dropped connection
auto_reconnect: true

# Chat persistence
storage:
  # path: ~/.cortex/cortex.db  # SQLite database location
  # disabled: false            # Memory-only session, nothing written to disk

# UI settings
ui:
  show_status_bar: true   # Show connection and status info at the bottom
  # markdown_style: dark  # Markdown rendering style: "dark" (default) or "light"
  vim_mode: false         # Enable vim keybindings in the input area

# Screenshot payload handling
# screenshots:
#   disable_cache: false  # Refetch referenced images on every render

# Distributed tracing configuration
# Records one span per agent turn for end-to-end latency visibility
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/cortex/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
#
# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1  # Sample 10% of traces
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
