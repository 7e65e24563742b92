package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"knights/internal/knight/models"
	"knights/internal/knight/store"
	knightPostgres "knights/internal/knight/store/postgres"
)

type seedOptions struct {
	count int
	file  string
}

func (o seedOptions) validate() error {
	switch {
	case o.count < 0:
		return errors.New("--count must be >= 0")
	case o.count == 0 && o.file == "":
		return errors.New("one of --count or --file is required")
	case o.count > 0 && o.file != "":
		return errors.New("--count and --file are mutually exclusive")
	}
	return nil
}

func (o seedOptions) knights(now time.Time) ([]*models.Knight, error) {
	if o.file == "" {
		return store.GenerateKnights(o.count, now)
	}
	f, err := os.Open(o.file)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return store.LoadFixtures(f, now)
}

func newSeedCmd() *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert generated or fixture knights",
		Long:  "Inserts --count generated knights, or the knights listed in a YAML --file. Stops at the first conflict.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			knights, err := opts.knights(time.Now().UTC())
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(s *knightPostgres.PostgresStore) error {
				n, err := store.Seed(cmd.Context(), s, knights)
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d of %d knights\n", n, len(knights))
				return err
			})
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "Number of knights to generate")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "YAML fixture file to load")

	return cmd
}
