package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/supernova/internal/classify"
	"github.com/papapumpkin/supernova/internal/config"
	"github.com/papapumpkin/supernova/internal/telemetry"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [source]",
	Short: "Analyze a source directory: files, sizes, categories, and modules",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("manifest", "", "splitfile manifest (TOML) instead of a directory scan")
	analyzeCmd.Flags().StringSlice("include", nil, "glob patterns to include")
	analyzeCmd.Flags().StringSlice("exclude", nil, "glob patterns to exclude")
	analyzeCmd.Flags().Bool("json", false, "emit the categorized manifest as JSON on stdout")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := newPrinter(cfg)
	collector, closeTelemetry := newCollector(cfg, printer)
	defer closeTelemetry()

	records, source, err := buildRecords(cmd, args, cfg, printer)
	if err != nil {
		return err
	}
	records = classify.Apply(records)

	collector.Inc(telemetry.CounterAnalyses, telemetry.KindAnalyze, map[string]any{
		"source": source,
		"files":  len(records),
	})

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(records)
	}
	printer.Analysis(source, records)
	return nil
}
