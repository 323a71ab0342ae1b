// Package logging configures the logrus logger shared by the service.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mohammedhabas11/vhost-inspector/pkg/config"
)

// Configure applies level, format and output from cfg to logger.
// The returned closer releases the log file, if one was opened.
func Configure(logger *logrus.Logger, cfg config.LoggingConfig) (io.Closer, error) {
	if err := SetLevel(logger, cfg.Level); err != nil {
		return nil, err
	}

	switch cfg.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format: %q", cfg.Format)
	}

	if cfg.File == "" {
		logger.SetOutput(os.Stdout)
		return nopCloser{}, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("can't open log file %s: %w", cfg.File, err)
	}
	logger.SetOutput(f)
	return f, nil
}

// SetLevel changes the level of logger; "" means info.
func SetLevel(logger *logrus.Logger, level string) error {
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(lvl)
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
