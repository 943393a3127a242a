package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	openidconnect "github.com/biocad/openid-connect"
	"github.com/biocad/openid-connect/internal/config"
	"github.com/biocad/openid-connect/transport"
)

// app carries what every sub-command needs once flags are parsed.
type app struct {
	logger *logrus.Logger
	// base replaces the HTTP transport when set.
	base transport.Transport

	configPath string
	issuer     string
	timeout    time.Duration
	verbose    bool

	cfg config.Config
}

func rootCmd(logger *logrus.Logger, base transport.Transport) *cobra.Command {
	a := &app{logger: logger, base: base}

	cmd := &cobra.Command{
		Use:          "oidc-client",
		Short:        "OpenID Connect discovery and dynamic client registration",
		SilenceUsage: true,
		Long: `oidc-client talks to an OpenID Connect provider: it fetches the discovery
document and signing keys, and registers clients through the provider's
registration endpoint.

Settings come from a YAML file (--config), OIDC_CLIENT_* environment
variables and flags, in increasing order of precedence.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML configuration file")
	cmd.PersistentFlags().StringVar(&a.issuer, "issuer", "", "provider issuer address")
	cmd.PersistentFlags().DurationVar(&a.timeout, "timeout", config.DefaultTimeout, "per-request timeout")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every request")

	cmd.AddCommand(
		discoverCmd(a),
		keysCmd(a),
		registerCmd(a),
		watchCmd(a),
	)

	return cmd
}

func (a *app) load(cmd *cobra.Command) error {
	if a.verbose {
		a.logger.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.issuer != "" {
		cfg.Issuer = a.issuer
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a.cfg = cfg
	return nil
}

func (a *app) client() (*openidconnect.Client, error) {
	opts := []openidconnect.Option{
		openidconnect.WithLogger(openidconnect.NewLogrusLogger(a.logger)),
	}
	if a.base != nil {
		opts = append(opts, openidconnect.WithTransport(a.base))
	} else {
		opts = append(opts, openidconnect.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}))
	}
	return openidconnect.New(opts...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
