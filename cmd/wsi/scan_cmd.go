package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/wsi/internal/output"
)

// scanOptions holds the flags of the scan command.
type scanOptions struct {
	maxDepth    int
	concurrency int
	noFetch     bool
	save        bool
	format      output.Format
	filter      string
	dirty       bool
	watch       bool
	sortBy      string
}

func newScanCmd(a *app) *cobra.Command {
	opts := scanOptions{format: output.FormatTable}

	cmd := &cobra.Command{
		Use:     "scan [root]",
		Short:   "Find repositories below a directory and report their state",
		Aliases: []string{"s"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Find git repositories below root and report branch, origin and status.

The root defaults to default_root from the config, then the current directory.
The walk stops at each repository (nested repositories are not reported) and
never enters node_modules, .git, .svn, .hg or any scan.skip_dirs entry.

STATUS shows ↑ when local commits are missing upstream, ↓ when upstream has
commits missing locally, and * for modified or untracked files.`,
		Example: `  wsi scan                      # Scan default root
  wsi scan ~/Code -d 2          # Only two levels deep
  wsi scan --no-fetch --dirty   # Offline, only repos needing attention
  wsi scan -f json --save       # JSON output, saved to the cache
  wsi scan --watch              # Rescan whenever the workspace changes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.sortBy != "" && opts.sortBy != "name" && opts.sortBy != "path" {
				return fmt.Errorf("invalid --sort %q: must be name or path", opts.sortBy)
			}
			return runScan(cmd, a, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.maxDepth, "max-depth", "d", 0, "Directory levels below root to inspect (default from config, 4)")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "Repositories inspected concurrently (default from config, 8)")
	cmd.Flags().BoolVar(&opts.noFetch, "no-fetch", false, "Do not fetch before computing ahead/behind")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Save results to the cache")
	cmd.Flags().VarP(&opts.format, "format", "f", "Output format: table, json, yaml")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Only repos whose name fuzzy-matches `pattern`")
	cmd.Flags().BoolVar(&opts.dirty, "dirty", false, "Only repos that are dirty, ahead, or behind")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Rescan on filesystem changes (implies --save)")
	cmd.Flags().StringVar(&opts.sortBy, "sort", "", "Sort by: name, path (default: directory order)")

	// Completions
	cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.RegisterFlagCompletionFunc("sort", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"name", "path"}, cobra.ShellCompDirectiveNoFileComp
	})
	cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	}

	return cmd
}
