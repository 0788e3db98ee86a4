package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/catalogclient"
	"github.com/spf13/cobra"
)

type countOptions struct {
	min int
	max int
}

func (o *countOptions) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.min, "min", 4, "minimum number of products")
	cmd.Flags().IntVar(&o.max, "max", 8, "maximum number of products")
}

func newFeaturedCmd(root *rootOptions) *cobra.Command {
	counts := &countOptions{}
	var refresh bool

	cmd := &cobra.Command{
		Use:   "featured",
		Short: "Show the featured selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := root.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), root.timeout)
			defer cancel()

			sel, err := client.Featured(ctx, counts.min, counts.max, refresh)
			if err != nil {
				return err
			}
			printSelection(cmd.OutOrStdout(), sel)
			return nil
		},
	}
	counts.bind(cmd)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ask for a fresh draw instead of the scheduled rotation")
	return cmd
}

func newLatestCmd(root *rootOptions) *cobra.Command {
	counts := &countOptions{}

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the latest selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := root.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), root.timeout)
			defer cancel()

			sel, err := client.Latest(ctx, counts.min, counts.max)
			if err != nil {
				return err
			}
			printSelection(cmd.OutOrStdout(), sel)
			return nil
		},
	}
	counts.bind(cmd)
	return cmd
}

func printSelection(w io.Writer, sel *catalogclient.Selection) {
	fmt.Fprintf(w, "%s selection, %d products", sel.OrderBy, len(sel.Data))
	if sel.ComputedAt != nil {
		fmt.Fprintf(w, ", computed %s", sel.ComputedAt.Format(time.RFC3339))
	}
	fmt.Fprintln(w)
	printProducts(w, sel.Data)
}
