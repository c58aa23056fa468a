package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/supernova/internal/config"
	"github.com/papapumpkin/supernova/internal/mcpserver"
	"github.com/papapumpkin/supernova/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the split planner as an MCP server over SSE/HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := newPrinter(cfg)
	collector, closeTelemetry := newCollector(cfg, printer)
	defer closeTelemetry()

	port := cfg.Serve.Port
	if p, _ := cmd.Flags().GetInt("port"); p > 0 {
		port = p
	}

	ctx := cmd.Context()

	var history *store.Store
	if cfg.HistoryDB != "" {
		s, err := store.Open(ctx, cfg.HistoryDB)
		if err != nil {
			printer.Info(fmt.Sprintf("history disabled: %v", err))
		} else {
			history = s
			defer history.Close()
		}
	}

	srv := mcpserver.NewServer(port, collector, history)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	printer.Info(fmt.Sprintf("supernova MCP server listening on %s (ctrl-c to stop)", srv.Addr()))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case <-sig:
	case <-ctx.Done():
	}

	return srv.Stop(ctx)
}
