package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/supernova/internal/config"
	"github.com/papapumpkin/supernova/internal/manifest"
	"github.com/papapumpkin/supernova/internal/plan"
	"github.com/papapumpkin/supernova/internal/split"
	"github.com/papapumpkin/supernova/internal/telemetry"
	"github.com/papapumpkin/supernova/internal/ui"
)

// newPrinter builds the terminal printer honoring the no-color setting.
func newPrinter(cfg config.Config) *ui.Printer {
	return ui.New(cfg.NoColor)
}

// newCollector builds the telemetry collector, attaching a JSONL emitter when
// one is configured. The emitter close function is returned for deferring.
func newCollector(cfg config.Config, printer *ui.Printer) (*telemetry.Collector, func()) {
	if cfg.TelemetryPath == "" {
		return telemetry.NewCollector(nil), func() {}
	}
	em, err := telemetry.NewEmitter(cfg.TelemetryPath)
	if err != nil {
		printer.Error(fmt.Sprintf("telemetry disabled: %v", err))
		return telemetry.NewCollector(nil), func() {}
	}
	return telemetry.NewCollector(em), func() { _ = em.Close() }
}

// warnFunc returns a manifest warning sink that prints in verbose mode and
// discards otherwise.
func warnFunc(cfg config.Config, printer *ui.Printer) func(string) {
	if !cfg.Verbose {
		return nil
	}
	return func(msg string) { printer.Info(msg) }
}

// buildRecords resolves the manifest for a command: an explicit splitfile
// takes precedence, then the positional source directory.
func buildRecords(cmd *cobra.Command, args []string, cfg config.Config, printer *ui.Printer) ([]manifest.FileRecord, string, error) {
	warn := warnFunc(cfg, printer)

	if manifestPath, _ := cmd.Flags().GetString("manifest"); manifestPath != "" {
		sf, err := manifest.LoadSplitfile(manifestPath)
		if err != nil {
			return nil, "", err
		}
		records, err := sf.Records(warn)
		if err != nil {
			return nil, "", err
		}
		return records, sf.Split.Source, nil
	}

	source := "."
	if len(args) > 0 {
		source = args[0]
	}
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	records, err := manifest.FromDir(source, manifest.DirOptions{
		Include: include,
		Exclude: exclude,
		Warn:    warn,
	})
	if err != nil {
		return nil, "", err
	}
	return records, source, nil
}

// planOptions merges config defaults with command flags into plan options.
// Unknown strategy names fall back to the default strategy.
func planOptions(cmd *cobra.Command, cfg config.Config, source string, printer *ui.Printer) plan.Options {
	strategyName := cfg.Strategy
	if s, _ := cmd.Flags().GetString("strategy"); s != "" {
		strategyName = s
	}
	strategy, ok := split.ParseStrategy(strategyName)
	if !ok && strategyName != "" {
		printer.Info(fmt.Sprintf("unknown strategy %q, using %s", strategyName, strategy))
	}

	opts := plan.Options{
		Strategy:      strategy,
		TargetPRCount: cfg.TargetPRCount,
		BranchPrefix:  cfg.BranchPrefix,
		TitlePrefix:   cfg.TitlePrefix,
		BaseBranch:    cfg.BaseBranch,
		SourcePath:    source,
	}
	if n, _ := cmd.Flags().GetInt("count"); n > 0 {
		opts.TargetPRCount = n
	}
	if v, _ := cmd.Flags().GetString("branch-prefix"); v != "" {
		opts.BranchPrefix = v
	}
	if v, _ := cmd.Flags().GetString("title-prefix"); v != "" {
		opts.TitlePrefix = v
	}
	if v, _ := cmd.Flags().GetString("base-branch"); v != "" {
		opts.BaseBranch = v
	}
	return opts
}

// writeJSON prints v as indented JSON on stdout.
func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
