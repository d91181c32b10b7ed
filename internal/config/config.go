package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// DeviceConfig selects which glasses to talk to.
type DeviceConfig struct {
	Address     string        `yaml:"address"`     // empty = strongest device found by scan
	NamePrefix  string        `yaml:"name_prefix"`
	ScanTimeout time.Duration `yaml:"scan_timeout"`
}

// SessionConfig holds BLE session tuning.
type SessionConfig struct {
	MTU            int           `yaml:"mtu"`
	WriteRate      float64       `yaml:"write_rate"` // writes per second, 0 = unlimited
	WriteBurst     int           `yaml:"write_burst"`
	EventBuffer    int           `yaml:"event_buffer"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// WriteWithoutResponse skips the acknowledgement of each write. Faster,
	// but chunks can be lost when the glasses fall behind.
	WriteWithoutResponse bool `yaml:"write_without_response"`
}

// LogConfig holds logging settings. File is optional; when set, logs are
// also written there with size-based rotation.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // e.g. "127.0.0.1:9464", empty disables
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "engoctl")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			NamePrefix:  "ENGO",
			ScanTimeout: 10 * time.Second,
		},
		Session: SessionConfig{
			MTU:            20,
			WriteRate:      50,
			WriteBurst:     1,
			EventBuffer:    32,
			RequestTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. Tilde (~) in log.file is expanded to the user's home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Log.File = expandTilde(cfg.Log.File)

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Device.Address != "" {
		if _, err := net.ParseMAC(c.Device.Address); err != nil {
			if _, uerr := uuid.Parse(c.Device.Address); uerr != nil {
				return fmt.Errorf("device.address must be a MAC address or a UUID, got %q", c.Device.Address)
			}
		}
	}

	if c.Device.ScanTimeout <= 0 {
		return fmt.Errorf("device.scan_timeout must be > 0")
	}

	if c.Session.MTU < 1 {
		return fmt.Errorf("session.mtu must be > 0")
	}

	if c.Session.WriteRate < 0 {
		return fmt.Errorf("session.write_rate must be >= 0")
	}

	if c.Session.WriteBurst < 1 {
		return fmt.Errorf("session.write_burst must be > 0")
	}

	if c.Session.EventBuffer < 1 {
		return fmt.Errorf("session.event_buffer must be > 0")
	}

	if c.Session.RequestTimeout <= 0 {
		return fmt.Errorf("session.request_timeout must be > 0")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error, got %q", c.Log.Level)
	}

	if c.Log.File != "" && c.Log.MaxSizeMB < 1 {
		return fmt.Errorf("log.max_size_mb must be > 0 when log.file is set")
	}

	if c.Metrics.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Listen); err != nil {
			return fmt.Errorf("metrics.listen: %w", err)
		}
	}

	return nil
}

// ParseLogLevel maps a config level name to a slog level. Unknown names
// fall back to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const defaultHeader = `# engoctl configuration
# Generated on first run. Edit to taste; missing keys fall back to defaults.
#
# device.address accepts a MAC address (Linux/Windows) or a UUID (macOS).
# Leave it empty to connect to the strongest device found by a scan.

`

// WriteDefault writes the default config to DefaultConfigPath if no file
// exists there yet. It returns the path written, or "" when a config was
// already present.
func WriteDefault() (string, error) {
	path := DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return "", nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking config file: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(defaultHeader), data...), 0o644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
