package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/app-fetch-go/internal/app"
	"github.com/yourusername/app-fetch-go/internal/domain"
	"github.com/yourusername/app-fetch-go/pkg/logger"
)

var (
	configPath string
	logLevel   string
	rootCmd    = &cobra.Command{
		Use:   "app-fetch",
		Short: "App-Fetch - latest installer downloader",
		Long: `A command-line tool that discovers the latest release of a catalog of
desktop applications and downloads their installers one after another.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./configs/config.yaml, $HOME/.app-fetch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(downloadCmd)
}

// environment is what every subcommand works with
type environment struct {
	config   *domain.Config
	log      *zap.Logger
	multiLog *logger.MultiLogger
	services *app.Services
}

// setup loads configuration and wires the services. withLogFiles also opens
// the categorized batch and error logs under the logs directory.
func setup(withLogFiles bool) (*environment, error) {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		config.Logging.Level = logLevel
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	env := &environment{config: config, log: log}

	if withLogFiles {
		env.multiLog, err = logger.NewMultiLogger(logger.MultiLoggerConfig{
			Level:   config.Logging.Level,
			LogsDir: config.Download.LogsDir(),
		})
		if err != nil {
			log.Warn("Categorized logs disabled", zap.Error(err))
		}
	}

	env.services, err = app.NewServices(config, log, env.multiLog)
	if err != nil {
		env.close()
		return nil, err
	}
	return env, nil
}

func (e *environment) close() {
	if e.multiLog != nil {
		e.multiLog.Close()
	}
	e.log.Sync()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
