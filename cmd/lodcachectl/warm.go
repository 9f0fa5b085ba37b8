package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func newWarmCmd(v *viper.Viper) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "warm <iri...>",
		Short: "Concurrently retrieve a list of IRIs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			log := newLogger(cfg.Verbose)

			engine, err := buildEngine(cfg, log)
			if err != nil {
				return err
			}
			defer engine.Close()

			g, ctx := errgroup.WithContext(context.Background())
			g.SetLimit(concurrency)
			for _, iri := range args {
				iri := iri
				g.Go(func() error {
					entry, err := engine.Retrieve(ctx, iri)
					if err != nil {
						log.Warn().Err(err).Str("iri", iri).Msg("warm: retrieve failed")
						return nil
					}
					fmt.Printf("%s\t%s\n", entry.GraphIRI, entry.Status)
					return nil
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "maximum concurrent retrievals")

	return cmd
}
