package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsview/internal/infrastructure/config"
	"github.com/GriffinCanCode/fsview/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsview/internal/infrastructure/server"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "YAML or TOML config file (default $FSVIEW_CONFIG)")
	root := flag.String("root", "", "Managed root directory (overrides config)")
	port := flag.String("port", "", "Server port (overrides config)")
	host := flag.String("host", "", "Bind address (overrides config)")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	// Startup logger until the configured one exists
	bootstrap := logging.NewDefault()
	if *dev {
		bootstrap = logging.NewDevelopment()
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		bootstrap.Fatal("Failed to load config", zap.Error(err))
	}
	if *root != "" {
		cfg.Storage.Root = *root
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	// Create server
	srv, err := server.NewServer(cfg)
	if err != nil {
		bootstrap.Fatal("Failed to create server", zap.Error(err))
	}
	_ = bootstrap.Sync()
	logger := srv.Logger()
	defer srv.Close()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
		timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
		<-errChan
	case err := <-errChan:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
			srv.Close()
			os.Exit(1)
		}
	}
}

// loadConfig reads path when given, otherwise the file named by FSVIEW_CONFIG.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadWithFile(path)
}
