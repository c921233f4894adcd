package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"filmoteca/imdb"
	"filmoteca/importer"
	"filmoteca/server"
	"filmoteca/store"
)

var listenAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the catalog API server.

The server loads both JSON documents into memory at startup and rewrites the
affected document after every mutation. Corrupt data files abort startup.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if listenAddr != "" {
		cfg.Server.Addr = listenAddr
	}

	st, err := store.Open(cfg.Data.Dir, logger)
	if err != nil {
		return fmt.Errorf("failed to open data store: %w", err)
	}

	catalog := imdb.NewClient(logger,
		imdb.WithBaseURL(cfg.IMDb.BaseURL),
		imdb.WithTimeout(cfg.IMDb.Timeout),
	)

	imp := importer.New(st, catalog, logger, cfg.Import.Concurrency)

	srv := server.New(cfg.Server, st, catalog, imp, logger)
	return srv.Run(cmd.Context())
}
