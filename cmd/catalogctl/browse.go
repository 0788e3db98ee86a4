package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/listing"
	"github.com/spf13/cobra"
)

type browseOptions struct {
	pageSize int
	page     int
	category string
	search   string
	sort     string
	inStock  bool
	minPrice float64
	maxPrice float64
}

func (o *browseOptions) filter(cmd *cobra.Command) (domain.ProductFilter, error) {
	sort, err := domain.ParseOrdering(o.sort)
	if err != nil {
		return domain.ProductFilter{}, err
	}
	f := domain.ProductFilter{
		Category: o.category,
		Search:   o.search,
		Sort:     sort,
		InStock:  o.inStock,
	}
	if cmd.Flags().Changed("min-price") {
		f.MinPrice = &o.minPrice
	}
	if cmd.Flags().Changed("max-price") {
		f.MaxPrice = &o.maxPrice
	}
	return f, nil
}

func newBrowseCmd(root *rootOptions) *cobra.Command {
	opts := &browseOptions{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through the product listing",
		Long: `Page through the product listing.

After the first page is shown, commands are read from stdin, one per line:
  n, next     next page
  p, prev     previous page
  <number>    jump to a 1-based page
  q, quit     exit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := root.client()
			if err != nil {
				return err
			}
			filter, err := opts.filter(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), root.timeout)
			defer cancel()

			sync := listing.NewSynchronizer(client, opts.pageSize)
			if err := sync.SetFilters(ctx, filter); err != nil {
				return err
			}
			if opts.page > 1 {
				if err := sync.SetPage(ctx, opts.page-1); err != nil {
					return err
				}
			}
			return browse(ctx, sync, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.pageSize, "limit", 12, "page size")
	cmd.Flags().IntVar(&opts.page, "page", 1, "1-based page to start from")
	cmd.Flags().StringVar(&opts.category, "category", "", "category filter")
	cmd.Flags().StringVar(&opts.search, "search", "", "substring of name or description")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "newest, popular, price_asc, price_desc or name")
	cmd.Flags().BoolVar(&opts.inStock, "in-stock", false, "only products in stock")
	cmd.Flags().Float64Var(&opts.minPrice, "min-price", 0, "minimum price")
	cmd.Flags().Float64Var(&opts.maxPrice, "max-price", 0, "maximum price")
	return cmd
}

func browse(ctx context.Context, sync *listing.Synchronizer, in io.Reader, out io.Writer) error {
	show := func() {
		view := sync.View()
		printProducts(out, view.Items)
		printEnvelope(out, view.Envelope)
	}
	show()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		var err error
		switch line {
		case "":
			continue
		case "q", "quit":
			return nil
		case "n", "next":
			err = sync.NextPage(ctx)
		case "p", "prev":
			err = sync.PrevPage(ctx)
		default:
			page, convErr := strconv.Atoi(line)
			if convErr != nil {
				fmt.Fprintf(out, "unknown command %q\n", line)
				continue
			}
			err = sync.SetPage(ctx, page-1)
		}

		if err != nil && !errors.Is(err, listing.ErrStaleResponse) {
			// the listing keeps its last good page, so keep going
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		show()
	}
	return scanner.Err()
}
