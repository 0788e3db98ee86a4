package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/catalogclient"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	api     string
	rps     float64
	timeout time.Duration
	verbose bool
}

func (o *rootOptions) client() (*catalogclient.Client, error) {
	return catalogclient.New(o.api, catalogclient.WithRateLimit(o.rps, 1))
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Browse, search and sample the storefront catalog",
		Long: `catalogctl talks to the storefront API.

Available commands:
  browse   - page through the product listing
  search   - live search, one query per input line
  featured - featured selection served by the API
  latest   - latest selection served by the API
  sample   - draw a selection offline from a seed catalog`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.api, "api", envOr("STOREFRONT_API", "http://localhost:8080"), "storefront API base URL")
	cmd.PersistentFlags().Float64Var(&opts.rps, "rps", 5, "client side request rate limit, 0 disables it")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall command timeout")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newBrowseCmd(opts),
		newSearchCmd(opts),
		newFeaturedCmd(opts),
		newLatestCmd(opts),
		newSampleCmd(),
	)
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
