package main

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/wsi/internal/format"
	"github.com/raphi011/wsi/internal/history"
	"github.com/raphi011/wsi/internal/log"
	"github.com/raphi011/wsi/internal/match"
	"github.com/raphi011/wsi/internal/output"
	"github.com/raphi011/wsi/internal/ui/prompt"
)

// errCancelled is returned when the user aborts the picker.
var errCancelled = errors.New("cancelled")

func newFindCmd(a *app) *cobra.Command {
	var (
		copyToClipboard bool
		all             bool
		interactive     bool
		outFormat       = output.FormatTable
	)

	cmd := &cobra.Command{
		Use:     "find [name]",
		Short:   "Print the path of a cached repository by fuzzy name",
		Aliases: []string{"f"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Search repository names across all cached roots and print the best match.

Only saved scans are searched; run 'wsi scan --save' first. Without a name,
the repository found last is printed again.`,
		Example: `  cd $(wsi find api)           # Jump to the best match
  cd $(wsi find)               # Back to the last match
  cd $(wsi find -i api)        # Pick among all matches
  wsi find api --all           # Every match, best first
  wsi find api --copy          # Also copy the path to the clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			l := log.FromContext(ctx)

			historyFile, err := history.DefaultPath()
			if err != nil {
				return fmt.Errorf("locate history: %w", err)
			}

			if len(args) == 0 {
				path, err := history.GetMostRecent(historyFile)
				if err != nil {
					return err
				}
				if path == "" {
					return errors.New("no previous match; run 'wsi find <name>' first")
				}
				out.Println(path)
				return nil
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}

			hits := match.Hits(args[0], cachedHits(ctx, store))
			if len(hits) == 0 {
				return fmt.Errorf("no cached repository matches %q", args[0])
			}

			if !all {
				best := hits[0]
				if interactive && len(hits) > 1 && a.canPrompt() {
					if best, err = pickHit(cmd, hits); err != nil {
						return err
					}
				}
				hits = []match.Hit{best}

				if err := history.RecordAccess(best.Repo.Path, best.Repo.Name, best.Root, historyFile); err != nil {
					l.Debug("record history", "error", err)
				}
			}

			// Copy to clipboard if requested
			if copyToClipboard {
				if err := clipboard.WriteAll(hits[0].Repo.Path); err != nil {
					l.Warnf("failed to copy to clipboard: %v", err)
				}
			}

			if outFormat.IsStructured() {
				return out.Encode(outFormat, hits)
			}
			for _, h := range hits {
				out.Println(h.Repo.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Copy the best match to the clipboard")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Print all matches, best first")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Pick among the matches on a terminal")
	cmd.Flags().VarP(&outFormat, "format", "f", "Output format: table (paths), json, yaml")
	cmd.MarkFlagsMutuallyExclusive("all", "interactive")
	cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.ValidArgsFunction = completeRepoNames

	return cmd
}

// pickHit lets the user choose among hits, best match first.
func pickHit(cmd *cobra.Command, hits []match.Hit) (match.Hit, error) {
	options := make([]prompt.Option, len(hits))
	for i, h := range hits {
		options[i] = prompt.Option{Title: h.Repo.Name, Detail: format.ShortenHome(h.Repo.Path)}
	}

	res, err := prompt.Select(cmd.Context(), "Pick a repository", options)
	if err != nil {
		return match.Hit{}, err
	}
	if res.Cancelled {
		return match.Hit{}, errCancelled
	}
	return hits[res.Index], nil
}
