package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mohammedhabas11/vhost-inspector/pkg/config"
	"github.com/mohammedhabas11/vhost-inspector/pkg/httpserver"
	"github.com/mohammedhabas11/vhost-inspector/pkg/logging"
	"github.com/mohammedhabas11/vhost-inspector/pkg/resolver"
)

var (
	cfgPath string

	RootCmd = &cobra.Command{
		Use:          "vhost-inspector",
		Short:        "Read-only HTTP introspection of nginx virtual host files",
		SilenceUsage: true,
		RunE:         runServe,
	}
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "Path to the YAML configuration file")
	RootCmd.AddCommand(validateCmd, inspectCmd)
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(*cobra.Command, []string) error {
	log.Info("Starting vhost-inspector...")

	reloadChan := make(chan bool, 1)
	cfg, err := config.LoadConfig(cfgPath, reloadChan)
	if err != nil {
		return fmt.Errorf("failed to load initial configuration: %w", err)
	}

	logger := log.StandardLogger()
	logCloser, err := logging.Configure(logger, cfg.Logging)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if !cfg.HTTP.Enabled {
		log.Warn("HTTP server is disabled by configuration, nothing to serve.")
		return nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	svc := newResolver(cfg, logger, resolver.NewMetrics(registry), func() string {
		return config.GetConfig().Nginx.ConfigDir
	})

	// --- Services Setup ---
	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpServer := httpserver.NewServer(cfg, svc, registry, logger)
	serverErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httpServer.Start(ctx); err != nil {
			serverErr <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		watchReloads(ctx, reloadChan)
	}()

	// --- Graceful Shutdown Handling ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	log.Info("Application started. Press Ctrl+C to shut down.")

	var runErr error
	select {
	case sig := <-quit:
		log.Infof("Shutdown signal received: %v. Starting graceful shutdown...", sig)
	case runErr = <-serverErr:
		log.WithError(runErr).Error("HTTP server failed")
	}

	cancel()
	wg.Wait()

	log.Info("Application exiting.")
	return runErr
}

// watchReloads applies settings that can change without a restart.
func watchReloads(ctx context.Context, reloadChan <-chan bool) {
	for {
		select {
		case <-reloadChan:
			cfg := config.GetConfig()
			if err := logging.SetLevel(log.StandardLogger(), cfg.Logging.Level); err != nil {
				log.WithError(err).Warn("Keeping previous log level")
			}
			log.WithField("config_dir", cfg.Nginx.ConfigDir).Info("Reloaded configuration applied.")
		case <-ctx.Done():
			return
		}
	}
}

func newResolver(cfg *config.Config, logger log.FieldLogger, metrics *resolver.Metrics, configDir resolver.ConfigDirFunc) *resolver.Service {
	return resolver.NewService(afero.NewReadOnlyFs(afero.NewOsFs()), resolver.Options{
		ConfigDir: configDir,
		Extension: cfg.Nginx.Extension,
		Logger:    logger,
		Metrics:   metrics,
	})
}
