package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mohammedhabas11/vhost-inspector/pkg/config"
	"github.com/mohammedhabas11/vhost-inspector/pkg/httpserver"
)

var errResolutionFailed = errors.New("resolution failed")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.ValidateConfigFile(cfgPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid.\n", cfgPath)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <domain>",
	Short: "Resolve one domain against the configured directory and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the JSON document only
		log.SetOutput(cmd.ErrOrStderr())
		log.SetLevel(log.WarnLevel)

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		svc := newResolver(cfg, log.StandardLogger(), nil, func() string { return cfg.Nginx.ConfigDir })
		return inspect(cmd.Context(), cmd.OutOrStdout(), svc, args[0])
	},
}

// inspect writes the same document the HTTP endpoint would return.
func inspect(ctx context.Context, out io.Writer, r httpserver.Resolver, domain string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := r.Resolve(ctx, domain)
	if err != nil {
		return fmt.Errorf("%w for %s: %v", errResolutionFailed, domain, err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(httpserver.MessagePayload{Message: result})
}
