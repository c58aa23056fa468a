package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/supernova/internal/config"
	"github.com/papapumpkin/supernova/internal/plan"
	"github.com/papapumpkin/supernova/internal/store"
	"github.com/papapumpkin/supernova/internal/telemetry"
	"github.com/papapumpkin/supernova/internal/ui"
)

var planCmd = &cobra.Command{
	Use:   "plan [source]",
	Short: "Generate a deterministic plan for splitting a change set into PRs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().String("manifest", "", "splitfile manifest (TOML) instead of a directory scan")
	planCmd.Flags().IntP("count", "n", 0, "desired number of PRs (default 8)")
	planCmd.Flags().StringP("strategy", "s", "", "split strategy: by_module | by_type | by_file | balanced")
	planCmd.Flags().String("branch-prefix", "", "branch name prefix")
	planCmd.Flags().String("title-prefix", "", "PR title prefix")
	planCmd.Flags().String("base-branch", "", "base branch the PRs will target")
	planCmd.Flags().StringSlice("include", nil, "glob patterns to include")
	planCmd.Flags().StringSlice("exclude", nil, "glob patterns to exclude")
	planCmd.Flags().Bool("json", false, "emit the plan as JSON on stdout")
	planCmd.Flags().String("save", "", "write the plan JSON to a file")
	planCmd.Flags().Bool("no-history", false, "skip recording the plan in the history database")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := newPrinter(cfg)
	collector, closeTelemetry := newCollector(cfg, printer)
	defer closeTelemetry()

	records, source, err := buildRecords(cmd, args, cfg, printer)
	if err != nil {
		return err
	}

	p := plan.Generate(records, planOptions(cmd, cfg, source, printer))

	collector.Inc(telemetry.CounterPlans, telemetry.KindPlanGenerated, map[string]any{
		"strategy": p.Strategy,
		"prs":      p.Summary.ActualPRCount,
		"files":    p.Summary.TotalFiles,
	})

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory && cfg.HistoryDB != "" {
		recordHistory(cmd, cfg, printer, p)
	}

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := p.Save(savePath); err != nil {
			return err
		}
		printer.Saved(savePath)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(p)
	}
	printer.Plan(p)
	return nil
}

// recordHistory appends the plan to the history database. Failures are
// reported but never fail the command.
func recordHistory(cmd *cobra.Command, cfg config.Config, printer *ui.Printer, p *plan.Plan) {
	ctx := cmd.Context()
	s, err := store.Open(ctx, cfg.HistoryDB)
	if err != nil {
		printer.Info(fmt.Sprintf("history disabled: %v", err))
		return
	}
	defer s.Close()
	if _, err := s.RecordPlan(ctx, p); err != nil {
		printer.Info(fmt.Sprintf("history not recorded: %v", err))
	}
}
