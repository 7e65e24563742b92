package main

import (
	"fmt"

	"github.com/spf13/cobra"

	knightPostgres "knights/internal/knight/store/postgres"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the knights table and indexes",
		Long:  "Applies the embedded schema. Existing tables and indexes are left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(s *knightPostgres.PostgresStore) error {
				if err := s.Migrate(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
				return nil
			})
		},
	}
}
