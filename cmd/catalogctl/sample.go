package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/DjordjeVuckovic/storefront/internal/sampler"
	"github.com/DjordjeVuckovic/storefront/internal/seed"
	"github.com/spf13/cobra"
)

type sampleOptions struct {
	countOptions
	file     string
	orderBy  string
	pool     int
	fraction float64
	seed     uint64
	rounds   int
}

func newSampleCmd() *cobra.Command {
	opts := &sampleOptions{}

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw a selection offline from a seed catalog",
		Long: `Draw featured or latest selections from a seed catalog file without the API.
Repeat with --rounds to watch the tail of the selection rotate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			orderBy := sampler.OrderBy(opts.orderBy)
			req := sampler.Request{OrderBy: orderBy, MinCount: opts.min, MaxCount: opts.max}
			if err := req.Validate(); err != nil {
				return err
			}

			catalog, err := seed.LoadFile(opts.file)
			if err != nil {
				return err
			}

			samplerOpts := []sampler.Option{
				sampler.WithPoolSize(opts.pool),
				sampler.WithGuaranteedFraction(opts.fraction),
			}
			if cmd.Flags().Changed("seed") {
				samplerOpts = append(samplerOpts, sampler.WithRand(rand.New(rand.NewPCG(opts.seed, opts.seed))))
			}
			s := sampler.New(samplerOpts...)

			out := cmd.OutOrStdout()
			for i := range max(1, opts.rounds) {
				selection := s.Select(catalog.Products, orderBy, opts.min, opts.max)
				fmt.Fprintf(out, "round %d: %s selection, %d products\n", i+1, orderBy, len(selection))
				printProducts(out, selection)
			}
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.file, "file", "f", "db/seed/catalog.yaml", "seed catalog, YAML or JSON")
	cmd.Flags().StringVar(&opts.orderBy, "order-by", string(sampler.Popularity), "recency or popularity")
	cmd.Flags().IntVar(&opts.pool, "pool", sampler.DefaultPoolSize, "candidate pool size")
	cmd.Flags().Float64Var(&opts.fraction, "guaranteed", sampler.DefaultGuaranteedFraction, "fraction of the selection taken from the top of the pool")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed for reproducible draws")
	cmd.Flags().IntVar(&opts.rounds, "rounds", 1, "number of selections to draw")
	return cmd
}
