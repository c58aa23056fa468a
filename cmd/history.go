package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/supernova/internal/config"
	"github.com/papapumpkin/supernova/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List recorded plans, or show one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries to list")
	historyCmd.Flags().Bool("json", false, "emit JSON on stdout")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := newPrinter(cfg)

	ctx := cmd.Context()
	s, err := store.Open(ctx, cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer s.Close()

	asJSON, _ := cmd.Flags().GetBool("json")

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		p, err := s.LoadPlan(ctx, id)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(p)
		}
		printer.Plan(p)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := s.List(ctx, limit)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(entries)
	}
	printer.History(entries)
	return nil
}
