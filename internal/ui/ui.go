// Package ui renders analysis results, split plans, and execution summaries
// for the terminal. All human-readable output goes to stderr so stdout stays
// clean for JSON.
package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/supernova/internal/forge"
	"github.com/papapumpkin/supernova/internal/manifest"
	"github.com/papapumpkin/supernova/internal/plan"
	"github.com/papapumpkin/supernova/internal/split"
	"github.com/papapumpkin/supernova/internal/store"
	"github.com/papapumpkin/supernova/internal/vcs"
)

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // Cyan — headings
	colorAccent  = lipgloss.Color("#FFD700") // Gold — sizes and counts
	colorSuccess = lipgloss.Color("#00E676") // Green — success
	colorDanger  = lipgloss.Color("#FF5252") // Red — errors
	colorMuted   = lipgloss.Color("#8C8C8C") // Gray — de-emphasized
)

// Printer renders human-readable output. Zero value is unstyled; use New for
// a styled printer.
type Printer struct {
	out     io.Writer
	heading lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	dim     lipgloss.Style
}

// New creates a Printer writing to stderr. noColor strips all styling.
func New(noColor bool) *Printer {
	return NewWithWriter(os.Stderr, noColor)
}

// NewWithWriter creates a Printer writing to w.
func NewWithWriter(w io.Writer, noColor bool) *Printer {
	p := &Printer{out: w}
	if noColor {
		plain := lipgloss.NewStyle()
		p.heading, p.label, p.value, p.good, p.bad, p.dim = plain, plain, plain, plain, plain, plain
		return p
	}
	p.heading = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	p.label = lipgloss.NewStyle().Foreground(colorMuted)
	p.value = lipgloss.NewStyle().Foreground(colorAccent)
	p.good = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	p.bad = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	p.dim = lipgloss.NewStyle().Foreground(colorMuted)
	return p
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", p.bad.Render("error:"), msg)
}

// Info prints a de-emphasized informational line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.out, p.dim.Render(msg))
}

// Analysis prints a category and module breakdown of a manifest.
func (p *Printer) Analysis(source string, records []manifest.FileRecord) {
	fmt.Fprintf(p.out, "%s %s\n", p.heading.Render("Analysis:"), source)

	byCategory := map[manifest.Category]int{}
	totalSize := 0
	for _, r := range records {
		byCategory[r.Category]++
		totalSize += r.SizeMetric
	}
	fmt.Fprintf(p.out, "  %s %s files, %s lines\n",
		p.label.Render("total:"),
		p.value.Render(fmt.Sprint(len(records))),
		p.value.Render(fmt.Sprint(totalSize)))

	for _, cat := range []manifest.Category{manifest.CategoryModule, manifest.CategoryConfig, manifest.CategoryDoc, manifest.CategoryOther} {
		if n := byCategory[cat]; n > 0 {
			fmt.Fprintf(p.out, "  %s %d\n", p.label.Render(string(cat)+":"), n)
		}
	}

	names, byName := moduleCounts(records)
	if len(names) > 0 {
		fmt.Fprintf(p.out, "  %s\n", p.heading.Render("modules:"))
		for _, name := range names {
			fmt.Fprintf(p.out, "    %-20s %s\n", name, p.dim.Render(fmt.Sprintf("%d files", byName[name])))
		}
	}
}

// moduleCounts returns module names sorted by file count descending, name
// ascending on ties.
func moduleCounts(records []manifest.FileRecord) ([]string, map[string]int) {
	counts := map[string]int{}
	for _, r := range records {
		if r.Module != "" {
			counts[r.Module]++
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names, counts
}

// Plan prints a split plan: one block per PR with branch, files, size, and
// dependencies.
func (p *Printer) Plan(pl *plan.Plan) {
	fmt.Fprintf(p.out, "%s %s strategy, %d file(s) -> %d PR(s)\n",
		p.heading.Render("Split plan:"),
		pl.Strategy, pl.Summary.TotalFiles, pl.Summary.ActualPRCount)
	if pl.Summary.ActualPRCount != pl.TargetPRCount {
		fmt.Fprintf(p.out, "  %s\n", p.dim.Render(fmt.Sprintf("(target was %d)", pl.TargetPRCount)))
	}

	for _, pr := range pl.PRs {
		fmt.Fprintf(p.out, "\n  %s %s\n", p.good.Render(fmt.Sprintf("#%d", pr.Index)), pr.Title)
		fmt.Fprintf(p.out, "     %s %s\n", p.label.Render("branch:"), pr.BranchName)
		fmt.Fprintf(p.out, "     %s %d file(s), ~%s lines\n",
			p.label.Render("scope:"), pr.FileCount, p.value.Render(fmt.Sprint(pr.EstimatedSize)))
		if len(pr.DependsOn) > 0 {
			deps := make([]string, len(pr.DependsOn))
			for i, d := range pr.DependsOn {
				deps[i] = fmt.Sprintf("#%d", d)
			}
			fmt.Fprintf(p.out, "     %s %s\n", p.label.Render("depends on:"), strings.Join(deps, ", "))
		}
		for _, f := range pr.Files {
			fmt.Fprintf(p.out, "     %s\n", p.dim.Render(f))
		}
	}

	fmt.Fprintf(p.out, "\n  %s %.1f files/PR, %.0f lines/PR\n",
		p.label.Render("average:"), pl.Summary.AvgFilesPerPR, pl.Summary.AvgSizePerPR)
}

// Strategies prints the strategy catalog.
func (p *Printer) Strategies(entries []split.CatalogEntry) {
	fmt.Fprintln(p.out, p.heading.Render("Split strategies:"))
	for _, e := range entries {
		fmt.Fprintf(p.out, "\n  %s %s\n", p.good.Render(e.Name), p.dim.Render("("+e.DisplayName+")"))
		fmt.Fprintf(p.out, "     %s\n", e.Description)
		fmt.Fprintf(p.out, "     %s %s\n", p.label.Render("use case:"), e.UseCase)
		fmt.Fprintf(p.out, "     %s %s\n", p.label.Render("example:"), e.Example)
	}
}

// SplitResult prints per-branch outcomes of a split execution.
func (p *Printer) SplitResult(res *vcs.Result) {
	verb := "Executed"
	if res.DryRun {
		verb = "Planned"
	}
	fmt.Fprintf(p.out, "%s %d branch(es)\n", p.heading.Render(verb+" split:"), len(res.Branches))
	for _, br := range res.Branches {
		style := p.good
		switch br.Status {
		case vcs.StatusError:
			style = p.bad
		case vcs.StatusPartial, vcs.StatusWarning:
			style = p.value
		case vcs.StatusDryRun:
			style = p.dim
		}
		fmt.Fprintf(p.out, "  %s %-30s %d file(s)", style.Render(br.Status), br.Branch, br.FilesCopied)
		if br.Error != "" {
			fmt.Fprintf(p.out, " %s", p.dim.Render(br.Error))
		}
		fmt.Fprintln(p.out)
		for _, m := range br.Missing {
			fmt.Fprintf(p.out, "      %s %s\n", p.bad.Render("missing"), m)
		}
	}
}

// PRResults prints the outcome of opening pull requests from a plan.
func (p *Printer) PRResults(res *forge.BatchResult) {
	fmt.Fprintf(p.out, "%s %d created, %d failed on %s\n",
		p.heading.Render("Pull requests:"), res.Created, res.Failed, res.Repo)
	for _, pr := range res.PRs {
		if pr.Error != "" {
			fmt.Fprintf(p.out, "  %s %-30s %s\n", p.bad.Render("✗"), pr.Branch, p.dim.Render(pr.Error))
			continue
		}
		fmt.Fprintf(p.out, "  %s %-30s %s\n", p.good.Render("✓"), pr.Branch, pr.URL)
	}
}

// History prints stored plan entries, newest first.
func (p *Printer) History(entries []store.Entry) {
	if len(entries) == 0 {
		p.Info("no plans recorded yet")
		return
	}
	fmt.Fprintln(p.out, p.heading.Render("Plan history:"))
	for _, e := range entries {
		src := e.SourcePath
		if src == "" {
			src = "(changes)"
		}
		fmt.Fprintf(p.out, "  %s %s %-10s %d PR(s), %d file(s) %s\n",
			p.value.Render(fmt.Sprintf("#%d", e.ID)),
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.Strategy, e.ActualPRs, e.TotalFiles,
			p.dim.Render(src))
	}
}

// Saved prints a confirmation that a plan file was written.
func (p *Printer) Saved(path string) {
	fmt.Fprintf(p.out, "%s %s\n", p.good.Render("saved:"), path)
}
