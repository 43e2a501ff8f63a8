package domain

import (
	"path/filepath"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Download     DownloadConfig     `mapstructure:"download"`
	Resolve      ResolveConfig      `mapstructure:"resolve"`
	Catalog      CatalogConfig      `mapstructure:"catalog"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	Dir           string        `mapstructure:"dir"`
	LogsDirectory string        `mapstructure:"logs_dir"`
	ChunkSize     int           `mapstructure:"chunk_size"`
	Timeout       time.Duration `mapstructure:"timeout"` // 0 disables the overall transfer timeout
	MaxRetries    int           `mapstructure:"max_retries"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	SkipUpToDate  bool          `mapstructure:"skip_up_to_date"`
}

// LogsDir returns the logs directory, defaulting to <dir>/logs
func (c DownloadConfig) LogsDir() string {
	if c.LogsDirectory != "" {
		return c.LogsDirectory
	}
	return filepath.Join(c.Dir, "logs")
}

// ResolveConfig contains link resolution configuration
type ResolveConfig struct {
	Workers   int           `mapstructure:"workers"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	Accept    string        `mapstructure:"accept"`
}

// CatalogConfig points at an optional catalog file replacing the built-in one
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

const (
	// DefaultChunkSize keeps progress updates frequent rather than maximizing throughput
	DefaultChunkSize = 1024

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/113.0"
	DefaultAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Download: DownloadConfig{
			Dir:          "./Apps",
			ChunkSize:    DefaultChunkSize,
			Timeout:      0,
			MaxRetries:   0,
			RetryDelay:   5 * time.Second,
			SkipUpToDate: false,
		},
		Resolve: ResolveConfig{
			Workers:   1,
			Timeout:   30 * time.Second,
			UserAgent: DefaultUserAgent,
			Accept:    DefaultAccept,
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}
