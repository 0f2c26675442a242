package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/raphi011/wsi/internal/cache"
	"github.com/raphi011/wsi/internal/git"
	"github.com/raphi011/wsi/internal/history"
	"github.com/raphi011/wsi/internal/storage"
)

// checkEnvironment reports a missing git binary and a config load error.
func checkEnvironment(configErr error) []Issue {
	var issues []Issue
	if err := git.CheckGit(); err != nil {
		issues = append(issues, Issue{Key: "git", Description: err.Error()})
	}
	if configErr != nil {
		issues = append(issues, Issue{Key: "config", Description: configErr.Error()})
	}
	return issues
}

// checkCacheFile reports a cache file that exists but does not decode.
// The store reads such a file as empty, which hides the problem.
func checkCacheFile(path string) []Issue {
	var doc cache.Document
	err := storage.LoadJSON(path, &doc)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return []Issue{{
			Key:         path,
			Description: fmt.Sprintf("cache file is not valid: %v", err),
			FixAction:   FixResetCache,
		}}
	}
	return []Issue{{Key: path, Description: fmt.Sprintf("cache file is unreadable: %v", err)}}
}

// checkCacheEntries reports cached roots that are gone and cached
// repositories that are no longer git repositories.
func checkCacheEntries(ctx context.Context, store *cache.Store, stats *IssueStats) []Issue {
	var issues []Issue
	for _, s := range store.List(ctx) {
		if !isDir(s.Root) {
			issues = append(issues, Issue{
				Key:         s.Root,
				Description: "root directory no longer exists",
				FixAction:   FixRemoveRoot,
			})
			continue
		}

		repos, _ := store.Get(ctx, s.Root)
		rootOK := true
		for _, r := range repos {
			if git.IsRepository(r.Path) {
				stats.ReposValid++
				continue
			}
			rootOK = false
			issues = append(issues, Issue{
				Key:         r.Path,
				Root:        s.Root,
				Description: fmt.Sprintf("cached repository %q is no longer a git repository", r.Name),
				FixAction:   FixRemoveRepo,
			})
		}
		if rootOK {
			stats.RootsValid++
		}
	}
	return issues
}

// checkHistory reports a corrupt history file and entries whose directory
// is gone.
func checkHistory(historyFile string, stats *IssueStats) []Issue {
	if historyFile == "" {
		return nil
	}

	h, err := history.Load(historyFile)
	if err != nil {
		return []Issue{{
			Key:         historyFile,
			Description: fmt.Sprintf("history file is not valid: %v", err),
			FixAction:   FixResetHistory,
		}}
	}

	var issues []Issue
	for _, e := range h.Entries {
		if isDir(e.Path) {
			stats.HistoryValid++
			continue
		}
		issues = append(issues, Issue{
			Key:         e.Path,
			Description: fmt.Sprintf("history entry %q no longer exists", e.Name),
			FixAction:   FixRemoveHistory,
		})
	}
	return issues
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
