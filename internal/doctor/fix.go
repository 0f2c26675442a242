package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/raphi011/wsi/internal/cache"
	"github.com/raphi011/wsi/internal/history"
	"github.com/raphi011/wsi/internal/scan"
)

// fixAllIssues repairs every fixable issue and returns how many were fixed.
func fixAllIssues(ctx context.Context, opts Options, issues []Issue) (int, error) {
	fixed := 0

	resetCache := false
	dropRoots := make(map[string]bool)
	dropRepos := make(map[string]map[string]bool)
	resetHistory := false
	var historyPaths []string

	for _, issue := range issues {
		switch issue.FixAction {
		case FixResetCache:
			resetCache = true
		case FixRemoveRoot:
			dropRoots[issue.Key] = true
		case FixRemoveRepo:
			if dropRepos[issue.Root] == nil {
				dropRepos[issue.Root] = make(map[string]bool)
			}
			dropRepos[issue.Root][issue.Key] = true
		case FixResetHistory:
			resetHistory = true
		case FixRemoveHistory:
			historyPaths = append(historyPaths, issue.Key)
		}
	}

	if resetCache {
		if err := opts.Store.Clear(ctx); err != nil {
			return fixed, fmt.Errorf("reset cache: %w", err)
		}
		fixed++
	} else if len(dropRoots) > 0 || len(dropRepos) > 0 {
		roots, repos, err := opts.Store.Prune(ctx,
			func(root string) bool { return dropRoots[root] },
			func(root string, r scan.Repo) bool { return dropRepos[root][r.Path] },
		)
		if err != nil {
			return fixed, fmt.Errorf("prune cache: %w", err)
		}
		fixed += roots + repos
	}

	if resetHistory {
		if err := os.Remove(opts.HistoryFile); err != nil && !os.IsNotExist(err) {
			return fixed, fmt.Errorf("reset history: %w", err)
		}
		fixed++
	} else if len(historyPaths) > 0 {
		n, err := pruneHistory(opts.HistoryFile, historyPaths)
		fixed += n
		if err != nil {
			return fixed, err
		}
	}

	return fixed, nil
}

func pruneHistory(historyFile string, paths []string) (int, error) {
	h, err := history.Load(historyFile)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, p := range paths {
		if h.RemoveByPath(p) {
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	if err := h.Save(historyFile); err != nil {
		return 0, fmt.Errorf("save history: %w", err)
	}
	return removed, nil
}

// Reset discards the cache and the history.
func Reset(ctx context.Context, store *cache.Store, historyFile string) error {
	if err := store.Clear(ctx); err != nil {
		return err
	}
	if historyFile == "" {
		return nil
	}
	if err := os.Remove(historyFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
