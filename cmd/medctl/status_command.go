package main

import (
	"fmt"

	"meditation-server/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <meditation-id>",
		Short: "Show a meditation request and its payments straight from the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid meditation id %q: %w", args[0], err)
			}
			return ctx.withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
				log := ctx.logger()
				m, err := database.NewPgMeditationRepository(pool, log).GetByID(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("load meditation %s: %w", id, err)
				}
				payments, err := database.NewPgPaymentRepository(pool, database.NewTransactionHelper(pool, log), log).
					ListByMeditation(cmd.Context(), id)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderMeditation(m))
				if len(payments) > 0 {
					fmt.Fprintln(out)
					fmt.Fprintln(out, renderPayments(payments))
				}
				return nil
			})
		},
	}
}
