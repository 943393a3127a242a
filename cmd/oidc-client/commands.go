package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	openidconnect "github.com/biocad/openid-connect"
	"github.com/biocad/openid-connect/discovery"
	"github.com/biocad/openid-connect/providercache"
)

func discoverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Print the provider's discovery document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			doc, exp, err := client.Discover(cmd.Context(), a.cfg.Issuer)
			if err != nil {
				return err
			}

			a.logger.WithField("expires", exp.String()).Info("discovery document fetched")
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
}

func keysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print the provider's key set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			provider, exp, err := client.DiscoverAndFetchKeys(cmd.Context(), a.cfg.Issuer)
			if err != nil {
				return err
			}

			a.logger.WithFields(logrus.Fields{
				"keys":    provider.Keys.Len(),
				"expires": exp.String(),
			}).Info("key set fetched")
			return writeJSON(cmd.OutOrStdout(), provider.Keys)
		},
	}
}

func registerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register the client described in the configuration file",
		Long: `register discovers the provider and posts the "client" section of the
configuration to its registration endpoint. The issued credentials and the
provider's view of the metadata are printed as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metadata, err := a.cfg.Client.Metadata()
			if err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}

			doc, _, err := client.Discover(cmd.Context(), a.cfg.Issuer)
			if err != nil {
				return err
			}

			resp, err := openidconnect.RegisterClient(cmd.Context(), client, doc, metadata)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func watchCmd(a *app) *cobra.Command {
	var (
		interval time.Duration
		count    int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the provider and report key set changes",
		Long: `watch looks the provider up every interval. Lookups are served from memory
while the provider's responses allow caching, so the provider is only
contacted again once they expire.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval <= 0 {
				return fmt.Errorf("interval must be positive")
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			cache := providercache.New(client.Transport())

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			var last string
			for i := 0; count <= 0 || i < count; i++ {
				if i > 0 {
					select {
					case <-cmd.Context().Done():
						return nil
					case <-ticker.C:
					}
				}

				provider, err := cache.Get(cmd.Context(), a.cfg.Issuer)
				if err != nil {
					a.logger.WithError(err).Warn("provider lookup failed")
					continue
				}

				fingerprint := keyIDs(provider)
				if fingerprint != last {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s keys: %s\n", time.Now().UTC().Format(time.RFC3339), fingerprint)
					last = fingerprint
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "how often to look the provider up")
	cmd.Flags().IntVar(&count, "count", 0, "stop after this many lookups; 0 runs until interrupted")

	return cmd
}

// keyIDs lists the key IDs of provider's key set in sorted order. Keys
// without an ID show as "-".
func keyIDs(provider *discovery.Provider) string {
	ids := make([]string, 0, provider.Keys.Len())
	for i := 0; i < provider.Keys.Len(); i++ {
		key, ok := provider.Keys.Key(i)
		if !ok {
			continue
		}
		id := key.KeyID()
		if id == "" {
			id = "-"
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}
