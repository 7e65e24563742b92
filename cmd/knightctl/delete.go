package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"knights/internal/knight/service"
	knightPostgres "knights/internal/knight/store/postgres"
	"knights/internal/platform/logger"
	"knights/pkg/domain"
)

type deleter interface {
	Delete(ctx context.Context, id domain.KnightID) error
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a knight permanently",
		Long:  "Deletes the knight with the given 24-character hex id. The HTTP API has no delete; DELETE there heroifies.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseKnightID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(s *knightPostgres.PostgresStore) error {
				svc, err := service.New(s, service.WithLogger(logger.New(cmd.ErrOrStderr(), "info", "text")))
				if err != nil {
					return err
				}
				return runDelete(cmd.Context(), svc, cmd.OutOrStdout(), id)
			})
		},
	}
}

func runDelete(ctx context.Context, svc deleter, out io.Writer, id domain.KnightID) error {
	if err := svc.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted knight %s\n", id)
	return nil
}
