package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/pkg/pagination"
)

func printProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "no products")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tSALES\tCREATED")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\t%d\t%s\n",
			p.ID, p.Name, p.Category, p.Price, p.Stock, p.Popularity(), p.CreatedAt.Format(time.DateOnly))
	}
	tw.Flush()
}

func printEnvelope(w io.Writer, env pagination.Envelope) {
	fmt.Fprintf(w, "page %d/%d, %d products", env.Page, env.Pages, env.Total)
	switch {
	case env.HasPrevPage && env.HasNextPage:
		fmt.Fprint(w, " [prev|next]")
	case env.HasNextPage:
		fmt.Fprint(w, " [next]")
	case env.HasPrevPage:
		fmt.Fprint(w, " [prev]")
	}
	fmt.Fprintln(w)
}
