package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/raphi011/wsi/internal/cache"
	"github.com/raphi011/wsi/internal/config"
	"github.com/raphi011/wsi/internal/match"
	"github.com/raphi011/wsi/internal/scan"
)

// absRoot expands ~ and makes arg absolute, the form scan saves under.
func absRoot(arg string) string {
	p, err := config.ExpandPath(arg)
	if err != nil {
		return arg
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// lookupRoot finds the cache entry for arg, first as given and then in
// its absolute form.
func lookupRoot(ctx context.Context, store *cache.Store, arg string) (string, []scan.Repo, bool) {
	if repos, ok := store.Get(ctx, arg); ok {
		return arg, repos, true
	}
	if strings.TrimSpace(arg) == "" {
		return "", nil, false
	}
	root := absRoot(arg)
	if repos, ok := store.Get(ctx, root); ok {
		return root, repos, true
	}
	return "", nil, false
}

// notCachedError reports a missing root and suggests similar cached roots.
func notCachedError(ctx context.Context, store *cache.Store, arg string) error {
	summaries := store.List(ctx)
	roots := make([]string, len(summaries))
	for i, s := range summaries {
		roots[i] = s.Root
	}

	similar := match.Strings(filepath.Base(arg), roots, 3)
	if len(similar) == 0 {
		return fmt.Errorf("no cached scan for %q (run 'wsi scan --save %s')", arg, arg)
	}
	return fmt.Errorf("no cached scan for %q; did you mean:\n  %s", arg, strings.Join(similar, "\n  "))
}

// cachedHits lists every repository of every cached root, newest scan first.
func cachedHits(ctx context.Context, store *cache.Store) []match.Hit {
	var hits []match.Hit
	for _, s := range store.List(ctx) {
		repos, ok := store.Get(ctx, s.Root)
		if !ok {
			continue
		}
		for _, r := range repos {
			hits = append(hits, match.Hit{Root: s.Root, Repo: r})
		}
	}
	return hits
}
