package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/supernova/internal/config"
	"github.com/papapumpkin/supernova/internal/forge"
	"github.com/papapumpkin/supernova/internal/plan"
	"github.com/papapumpkin/supernova/internal/telemetry"
)

var prCmd = &cobra.Command{
	Use:   "pr",
	Short: "Open one GitHub pull request per planned PR, in dependency order",
	Long: "Opens the pull requests for a plan whose branches were already pushed\n" +
		"(see 'supernova split --push'). Authentication uses GITHUB_PAT_TOKEN,\n" +
		"GITHUB_TOKEN, or the gh CLI, in that order.",
	RunE: runPR,
}

func init() {
	prCmd.Flags().String("plan", "", "plan JSON file produced by 'supernova plan --save' (required)")
	prCmd.Flags().String("repo", "", "GitHub repository as owner/name (required)")
	prCmd.Flags().Bool("draft", false, "open PRs as drafts")
	prCmd.Flags().Bool("json", false, "emit the result as JSON on stdout")
	_ = prCmd.MarkFlagRequired("plan")
	_ = prCmd.MarkFlagRequired("repo")

	rootCmd.AddCommand(prCmd)
}

func runPR(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := newPrinter(cfg)
	collector, closeTelemetry := newCollector(cfg, printer)
	defer closeTelemetry()

	planPath, _ := cmd.Flags().GetString("plan")
	p, err := plan.Load(planPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	token, err := forge.ResolveGitHubToken(ctx)
	if err != nil {
		return err
	}

	repo, _ := cmd.Flags().GetString("repo")
	draft, _ := cmd.Flags().GetBool("draft")
	res, err := forge.CreateFromPlan(ctx, forge.NewGitHubClient(token), p, forge.BatchOptions{
		Repo:  repo,
		Draft: draft,
	})
	if err != nil {
		return err
	}

	collector.Add(telemetry.CounterPRs, telemetry.KindPRCreated, int64(res.Created), map[string]any{
		"repo":    repo,
		"created": res.Created,
		"failed":  res.Failed,
	})

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(res)
	}
	printer.PRResults(res)
	return nil
}
