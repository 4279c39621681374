package main

import (
	"github.com/spf13/cobra"

	"legacy-modernizer/internal/server"
	"legacy-modernizer/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the pipeline over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := setup(ctx)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		addr := a.cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		var runs server.RunStore
		h, err := store.OpenHistory(a.cfg.Storage.HistoryPath)
		if err != nil {
			a.log.Warnw("run history unavailable", "error", err)
		} else {
			defer h.Close()
			runs = h
		}

		srv := server.NewServer(a.pipeline(), runs, server.Options{
			Addr:           addr,
			Engine:         a.gen.Name(),
			MaxUploadBytes: a.cfg.Server.MaxUploadBytes,
		}, a.log)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (overrides server.addr)")
}
