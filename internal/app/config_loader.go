package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/app-fetch-go/internal/domain"
)

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	// Start with default config
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.app-fetch")
		v.AddConfigPath("/etc/app-fetch")
	}

	// APPFETCH_DOWNLOAD_DIR overrides download.dir, and so on
	v.SetEnvPrefix("APPFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// bindEnvKeys registers every known key so AutomaticEnv also applies to
// keys that are absent from the config file
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"server.host", "server.port",
		"download.dir", "download.logs_dir", "download.chunk_size", "download.timeout",
		"download.max_retries", "download.retry_delay", "download.skip_up_to_date",
		"resolve.workers", "resolve.timeout", "resolve.user_agent", "resolve.accept",
		"catalog.path",
		"notification.enabled", "notification.method",
		"logging.level", "logging.format", "logging.output_path",
	}
	for _, key := range keys {
		v.BindEnv(key)
	}
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.Dir = expandPath(config.Download.Dir)
	config.Download.LogsDirectory = expandPath(config.Download.LogsDirectory)
	config.Catalog.Path = expandPath(config.Catalog.Path)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Download.Dir == "" {
		return fmt.Errorf("download directory not configured")
	}

	if config.Download.ChunkSize < 1 {
		return fmt.Errorf("chunk size must be at least 1")
	}

	if config.Download.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	if config.Resolve.Workers < 1 {
		return fmt.Errorf("resolve workers must be at least 1")
	}

	if config.Resolve.UserAgent == "" || config.Resolve.Accept == "" {
		return fmt.Errorf("user agent and accept headers must be set")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}
