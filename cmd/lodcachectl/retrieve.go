package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRetrieveCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "retrieve <iri>",
		Short: "Retrieve a single IRI and print the resulting cache entry",
		Args:  cobra.ExactArgs(1),
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

			entry, err := engine.Retrieve(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\t%s\t%s\n", entry.GraphIRI, entry.Status, entry.MediaType, entry.Rdfizer)
			return nil
		},
	}
}
