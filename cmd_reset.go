package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/facesvg/pkg/store"
)

var (
	resetSession string
	resetDB      string
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear a layout session so the next export starts a new sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if resetSession == "" {
			return fmt.Errorf("--session is required")
		}
		ctx := context.Background()
		db, err := store.Open(ctx, resetDB)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Delete(ctx, resetSession); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "session %q reset\n", resetSession)
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored layout sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := store.Open(ctx, resetDB)
		if err != nil {
			return err
		}
		defer db.Close()

		names, err := db.List(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(sessionsCmd)
	addSessionFlags(resetCmd, &resetSession, &resetDB)
	sessionsCmd.Flags().StringVar(&resetDB, "db", defaultDBPath(), "session database")
}
