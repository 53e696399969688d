package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/chazu/facesvg/pkg/store"
)

var (
	serveAddr string
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve layout sessions over HTTP",
	Long: `Serve one layout session per document:

  POST /documents/:doc/layout   script body, JSON summary
  GET  /documents/:doc/svg      current SVG
  GET  /documents/:doc/png      current preview
  POST /documents/:doc/reset    clear the sheet
  GET  /health/live`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var db *store.Store
		if serveDB != "" {
			db, err = store.Open(context.Background(), serveDB)
			if err != nil {
				return err
			}
			defer db.Close()
		}

		srv := NewServer(cfg, db)
		log.Printf("Starting facesvg on %s (%s)", serveAddr, srv.describe())
		return srv.Routes().Listen(serveAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":3000", "listen address")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "session database; documents are kept in memory when empty")
}
