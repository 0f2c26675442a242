package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/raphi011/wsi/internal/cache"
)

// Options configures a doctor run.
type Options struct {
	Store       *cache.Store
	HistoryFile string // empty skips the history checks
	ConfigErr   error  // error from loading the config file, if any
	Fix         bool
}

// Report is the outcome of a doctor run.
type Report struct {
	Issues []Issue    `json:"issues" yaml:"issues"`
	Stats  IssueStats `json:"stats" yaml:"stats"`
	Fixed  int        `json:"fixed" yaml:"fixed"`
}

// Fixable counts the issues --fix would resolve.
func (r Report) Fixable() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Fixable() {
			n++
		}
	}
	return n
}

// Run performs diagnostic checks and optionally fixes what it can.
func Run(ctx context.Context, opts Options) (Report, error) {
	var report Report
	stats := &report.Stats

	envIssues := checkEnvironment(opts.ConfigErr)
	for i := range envIssues {
		envIssues[i].Category = CategoryEnv
	}
	stats.EnvironmentBad = len(envIssues)
	report.Issues = append(report.Issues, envIssues...)

	cacheIssues := checkCacheFile(opts.Store.Path)
	if len(cacheIssues) == 0 {
		cacheIssues = checkCacheEntries(ctx, opts.Store, stats)
	}
	for i := range cacheIssues {
		cacheIssues[i].Category = CategoryCache
	}
	stats.CacheIssues = len(cacheIssues)
	report.Issues = append(report.Issues, cacheIssues...)

	historyIssues := checkHistory(opts.HistoryFile, stats)
	for i := range historyIssues {
		historyIssues[i].Category = CategoryHistory
	}
	stats.HistoryIssues = len(historyIssues)
	report.Issues = append(report.Issues, historyIssues...)

	if report.Issues == nil {
		report.Issues = []Issue{}
	}

	if opts.Fix && report.Fixable() > 0 {
		fixed, err := fixAllIssues(ctx, opts, report.Issues)
		report.Fixed = fixed
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// Print writes a categorized summary followed by the issues.
func (r Report) Print(w io.Writer) {
	printSummary(w, r.Stats)

	if len(r.Issues) == 0 {
		fmt.Fprintln(w, "\n✓ No issues found")
		return
	}

	fmt.Fprintf(w, "\nFound %d issues:\n", len(r.Issues))
	printIssuesByCategory(w, r.Issues)

	switch {
	case r.Fixed > 0:
		fmt.Fprintf(w, "\nFixed %d issues.\n", r.Fixed)
	case r.Fixable() > 0:
		fmt.Fprintln(w, "\nRun 'wsi doctor --fix' to repair.")
	}
}

// printSummary prints a categorized summary.
func printSummary(w io.Writer, stats IssueStats) {
	if stats.EnvironmentBad > 0 {
		fmt.Fprintf(w, "  ✗ %d environment issues\n", stats.EnvironmentBad)
	}

	fmt.Fprintf(w, "  ✓ %d cached roots valid (%d repositories)\n", stats.RootsValid, stats.ReposValid)
	if stats.CacheIssues > 0 {
		fmt.Fprintf(w, "  ⚠ %d cache issues\n", stats.CacheIssues)
	}

	if stats.HistoryValid > 0 {
		fmt.Fprintf(w, "  ✓ %d history entries valid\n", stats.HistoryValid)
	}
	if stats.HistoryIssues > 0 {
		fmt.Fprintf(w, "  ⚠ %d history issues\n", stats.HistoryIssues)
	}
}

// printIssuesByCategory groups and prints issues.
func printIssuesByCategory(w io.Writer, issues []Issue) {
	byCategory := make(map[IssueCategory][]Issue)
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}

	categoryNames := map[IssueCategory]string{
		CategoryEnv:     "Environment issues",
		CategoryCache:   "Cache issues",
		CategoryHistory: "History issues",
	}

	for _, cat := range []IssueCategory{CategoryEnv, CategoryCache, CategoryHistory} {
		catIssues := byCategory[cat]
		if len(catIssues) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s:\n", categoryNames[cat])
		for _, issue := range catIssues {
			fmt.Fprintf(w, "  • %s: %s\n", issue.Key, issue.Description)
		}
	}
}
