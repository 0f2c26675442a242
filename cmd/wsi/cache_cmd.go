package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/wsi/internal/log"
	"github.com/raphi011/wsi/internal/output"
	"github.com/raphi011/wsi/internal/scan"
	"github.com/raphi011/wsi/internal/ui/prompt"
	"github.com/raphi011/wsi/internal/ui/static"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Short:   "Manage saved scan results",
		GroupID: GroupCache,
		Long: `Manage saved scan results.

The cache maps each scanned root to its repositories and the time of the
scan. It lives at ~/.wsi/workspace-cache.json unless cache.path or
WSI_CACHE_PATH says otherwise.`,
		Example: `  wsi cache list               # Cached roots, newest first
  wsi cache get ~/Code         # Repositories saved for a root
  wsi cache rm ~/Code          # Forget a root
  wsi cache clear              # Forget everything`,
	}

	cmd.AddCommand(newCacheListCmd())
	cmd.AddCommand(newCacheGetCmd())
	cmd.AddCommand(newCacheSetCmd(a))
	cmd.AddCommand(newCacheRemoveCmd())
	cmd.AddCommand(newCacheClearCmd(a))

	return cmd
}

func newCacheListCmd() *cobra.Command {
	format := output.FormatTable

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List cached roots",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			summaries := store.List(ctx)

			if format.IsStructured() {
				return out.Encode(format, summaries)
			}

			if len(summaries) == 0 {
				log.FromContext(ctx).Println("No cached scans. Use 'wsi scan --save' to add one.")
				return nil
			}

			now := time.Now()
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, static.SummaryTableRow(s, now))
			}
			out.Styled(static.RenderTable(static.SummaryHeaders, rows))
			return nil
		},
	}

	cmd.Flags().VarP(&format, "format", "f", "Output format: table, json, yaml")
	cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func newCacheGetCmd() *cobra.Command {
	format := output.FormatTable

	cmd := &cobra.Command{
		Use:   "get <root>",
		Short: "Show the repositories cached for a root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}

			root, repos, ok := lookupRoot(ctx, store, args[0])
			if !ok {
				return notCachedError(ctx, store, args[0])
			}
			return renderRepos(ctx, repos, root, format)
		},
	}

	cmd.Flags().VarP(&format, "format", "f", "Output format: table, json, yaml")
	cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.ValidArgsFunction = completeCachedRoots

	return cmd
}

func newCacheSetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <root>",
		Short: "Store repositories for a root from JSON on stdin",
		Args:  cobra.ExactArgs(1),
		Long: `Store repositories for a root, replacing any previous entry.

Reads a JSON array of repository records (as printed by 'wsi scan -f json')
from stdin. The root is stored as an absolute path.`,
		Example: `  wsi scan ~/Code -f json | jq 'map(select(.unstaged))' | wsi cache set ~/Code`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := io.ReadAll(a.stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			var repos []scan.Repo
			if err := json.Unmarshal(data, &repos); err != nil {
				return fmt.Errorf("failed to parse repositories from stdin: %w", err)
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			root := absRoot(args[0])
			if err := store.Set(ctx, root, repos); err != nil {
				return err
			}

			log.FromContext(ctx).Printf("Cached %d repositories for %s\n", len(repos), root)
			return nil
		},
	}

	cmd.ValidArgsFunction = completeCachedRoots

	return cmd
}

func newCacheRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <root>",
		Short:   "Remove the cached entry for a root",
		Aliases: []string{"remove"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}

			root, _, ok := lookupRoot(ctx, store, args[0])
			if !ok {
				// Removing an unknown root is not an error
				return nil
			}
			if err := store.Remove(ctx, root); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Removed %s\n", root)
			return nil
		},
	}

	cmd.ValidArgsFunction = completeCachedRoots

	return cmd
}

func newCacheClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		Args:  cobra.NoArgs,
		Long: `Remove every cached entry.

Asks for confirmation on a terminal unless --yes is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}

			if !yes && a.canPrompt() {
				summaries := store.List(ctx)
				if len(summaries) == 0 {
					return nil
				}
				res, err := prompt.Confirm(ctx, fmt.Sprintf("Remove %d cached scans?", len(summaries)))
				if err != nil {
					return err
				}
				if !res.Confirmed {
					log.FromContext(ctx).Println("Aborted")
					return nil
				}
			}
			return store.Clear(ctx)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
