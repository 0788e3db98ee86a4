package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/catalogclient"
	"github.com/DjordjeVuckovic/storefront/internal/search"
	"github.com/spf13/cobra"
)

type searchOptions struct {
	debounce time.Duration
	limit    int
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Live search, one query per input line",
		Long: `Search the catalog.

With a query argument the search runs once. Otherwise every stdin line is
treated as the current content of a search box: lines arriving faster than
the debounce delay only search for the last of them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := catalogclient.New(root.api,
				catalogclient.WithRateLimit(root.rps, 1),
				catalogclient.WithSearchLimit(opts.limit),
			)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), root.timeout)
			defer cancel()

			var query string
			if len(args) == 1 {
				query = args[0]
			}
			return liveSearch(ctx, client, cmd.InOrStdin(), cmd.OutOrStdout(), query, opts.debounce)
		},
	}

	cmd.Flags().DurationVar(&opts.debounce, "debounce", search.DefaultDebounce, "delay after the last keystroke")
	cmd.Flags().IntVar(&opts.limit, "limit", catalogclient.DefaultSearchLimit, "maximum hits per query")
	return cmd
}

func liveSearch(ctx context.Context, provider search.Provider, in io.Reader, out io.Writer, query string, debounce time.Duration) error {
	var (
		mu    sync.Mutex
		shown string
	)
	onResult := func(r search.Result) {
		mu.Lock()
		defer mu.Unlock()
		shown = r.Query

		if r.Err != nil {
			fmt.Fprintf(out, "%q: error: %v\n", r.Query, r.Err)
			return
		}
		if r.Query == "" {
			return
		}
		origin := ""
		if r.Cached {
			origin = " (cached)"
		}
		fmt.Fprintf(out, "%q: %d hits%s\n", r.Query, len(r.Items), origin)
		printProducts(out, r.Items)
	}

	ls := search.NewLiveSearch(ctx, provider, onResult, search.Config{Debounce: debounce})
	defer ls.Close()

	if query != "" {
		ls.Flush(query)
		return nil
	}

	var last string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		last = scanner.Text()
		ls.Type(last)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	mu.Lock()
	done := shown == strings.TrimSpace(last)
	mu.Unlock()
	if !done {
		// input ended, run whatever is still waiting for the debounce
		ls.Flush(last)
	}
	return nil
}
