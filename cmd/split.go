package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/supernova/internal/config"
	"github.com/papapumpkin/supernova/internal/plan"
	"github.com/papapumpkin/supernova/internal/telemetry"
	"github.com/papapumpkin/supernova/internal/vcs"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Execute a saved plan: one git branch per planned PR",
	RunE:  runSplit,
}

func init() {
	splitCmd.Flags().String("plan", "", "plan JSON file produced by 'supernova plan --save' (required)")
	splitCmd.Flags().String("repo", ".", "git repository to create branches in")
	splitCmd.Flags().String("source", "", "directory plan paths resolve against (default: the repo)")
	splitCmd.Flags().Bool("dry-run", false, "report planned branches without touching the repository")
	splitCmd.Flags().Bool("push", false, "push each branch to origin after committing")
	splitCmd.Flags().Bool("json", false, "emit the execution result as JSON on stdout")
	_ = splitCmd.MarkFlagRequired("plan")

	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := newPrinter(cfg)
	collector, closeTelemetry := newCollector(cfg, printer)
	defer closeTelemetry()

	planPath, _ := cmd.Flags().GetString("plan")
	p, err := plan.Load(planPath)
	if err != nil {
		return err
	}

	repoDir, _ := cmd.Flags().GetString("repo")
	sourceDir, _ := cmd.Flags().GetString("source")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	push, _ := cmd.Flags().GetBool("push")

	ctx := cmd.Context()
	client, err := vcs.NewGitClient(ctx, repoDir)
	if err != nil {
		return err
	}

	res, err := vcs.ExecuteSplit(ctx, client, p, vcs.ExecuteOptions{
		RepoDir:   repoDir,
		SourceDir: sourceDir,
		DryRun:    dryRun,
		Push:      push,
	})
	if err != nil {
		return err
	}

	if !dryRun {
		collector.Inc(telemetry.CounterSplits, telemetry.KindSplitExecuted, map[string]any{
			"repo":     repoDir,
			"branches": res.BranchesMade,
			"errors":   res.BranchesError,
		})
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(res)
	}
	printer.SplitResult(res)
	return nil
}
