package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/supernova/internal/config"
	"github.com/papapumpkin/supernova/internal/manifest"
	"github.com/papapumpkin/supernova/internal/plan"
	"github.com/papapumpkin/supernova/internal/telemetry"
	"github.com/papapumpkin/supernova/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [source]",
	Short: "Watch a source tree and regenerate the split plan on changes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().IntP("count", "n", 0, "desired number of PRs (default 8)")
	watchCmd.Flags().StringP("strategy", "s", "", "split strategy: by_module | by_type | by_file | balanced")
	watchCmd.Flags().String("branch-prefix", "", "branch name prefix")
	watchCmd.Flags().String("title-prefix", "", "PR title prefix")
	watchCmd.Flags().String("base-branch", "", "base branch the PRs will target")
	watchCmd.Flags().StringSlice("include", nil, "glob patterns to include")
	watchCmd.Flags().StringSlice("exclude", nil, "glob patterns to exclude")
	watchCmd.Flags().String("save", "", "rewrite the plan JSON file after each change")
	watchCmd.Flags().Duration("debounce", 500*time.Millisecond, "quiet period before replanning")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := newPrinter(cfg)
	collector, closeTelemetry := newCollector(cfg, printer)
	defer closeTelemetry()

	source := "."
	if len(args) > 0 {
		source = args[0]
	}
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	savePath, _ := cmd.Flags().GetString("save")

	replan := func() {
		records, err := manifest.FromDir(source, manifest.DirOptions{
			Include: include,
			Exclude: exclude,
			Warn:    warnFunc(cfg, printer),
		})
		if err != nil {
			printer.Error(err.Error())
			return
		}
		p := plan.Generate(records, planOptions(cmd, cfg, source, printer))
		collector.Inc(telemetry.CounterPlans, telemetry.KindPlanGenerated, map[string]any{
			"strategy": p.Strategy,
			"prs":      p.Summary.ActualPRCount,
			"files":    p.Summary.TotalFiles,
		})
		printer.Plan(p)
		if savePath != "" {
			if err := p.Save(savePath); err != nil {
				printer.Error(err.Error())
				return
			}
			printer.Saved(savePath)
		}
	}

	// Plan once up front, then on every change batch.
	replan()

	debounce, _ := cmd.Flags().GetDuration("debounce")
	watcher, err := watch.NewWatcher(source, debounce)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	printer.Info(fmt.Sprintf("watching %s (ctrl-c to stop)", source))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	for {
		select {
		case batch, ok := <-watcher.Changes:
			if !ok {
				return nil
			}
			printer.Info(fmt.Sprintf("%d file(s) changed, replanning", len(batch)))
			replan()
		case <-sig:
			return nil
		case <-cmd.Context().Done():
			return nil
		}
	}
}
