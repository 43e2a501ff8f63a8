package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/app-fetch-go/api"
	"github.com/yourusername/app-fetch-go/internal/app"
	"github.com/yourusername/app-fetch-go/pkg/logger"
)

var configPath = flag.String("config", "", "Config file (default: ./configs/config.yaml, $HOME/.app-fetch/config.yaml)")

func main() {
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Categorized logs: batch, error
	multiLog, err := logger.NewMultiLogger(logger.MultiLoggerConfig{
		Level:   config.Logging.Level,
		LogsDir: config.Download.LogsDir(),
	})
	if err != nil {
		log.Fatal("Failed to initialize multi-logger", zap.Error(err))
	}
	defer multiLog.Close()

	log.Info("Starting App-Fetch server",
		zap.String("version", "1.0.0"),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("download_dir", config.Download.Dir))

	if err := os.MkdirAll(config.Download.Dir, 0755); err != nil {
		log.Fatal("Failed to create download directory", zap.Error(err))
	}

	services, err := app.NewServices(config, log, multiLog)
	if err != nil {
		log.Fatal("Failed to initialize services", zap.Error(err))
	}
	log.Info("Catalog loaded", zap.Int("apps", services.Catalog.Len()))

	router := api.SetupRouter(services, api.RouterConfig{
		DefaultDir: config.Download.Dir,
		LogsDir:    config.Download.LogsDir(),
	}, log, multiLog)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// A running batch stops after its current chunk
	if services.BatchMgr.IsRunning() {
		log.Info("Cancelling running batch")
		services.BatchMgr.Cancel()
		services.BatchMgr.Wait()
	}

	log.Info("Server exited")
}
