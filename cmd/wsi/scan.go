package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/wsi/internal/config"
	"github.com/raphi011/wsi/internal/format"
	"github.com/raphi011/wsi/internal/git"
	"github.com/raphi011/wsi/internal/log"
	"github.com/raphi011/wsi/internal/match"
	"github.com/raphi011/wsi/internal/output"
	"github.com/raphi011/wsi/internal/scan"
	"github.com/raphi011/wsi/internal/ui/progress"
	"github.com/raphi011/wsi/internal/ui/static"
	"github.com/raphi011/wsi/internal/watch"
)

func runScan(cmd *cobra.Command, a *app, args []string, opts scanOptions) error {
	ctx := cmd.Context()
	l := log.FromContext(ctx)

	if err := git.CheckGit(); err != nil {
		l.Warnf("%v", err)
	}

	root := scanRoot(ctx, args)
	scanner := newScanner(ctx, cmd, root, opts)

	if opts.watch {
		return watchScan(ctx, a, scanner, root, opts)
	}

	d, repos, err := scanOnce(ctx, a, scanner, root)
	if err != nil {
		return err
	}

	if opts.save {
		if err := saveScan(ctx, d.Root, repos); err != nil {
			return err
		}
	}

	return renderRepos(ctx, selectRepos(repos, opts), d.Root, opts.format)
}

// scanRoot picks the root argument, then default_root, then the working directory.
func scanRoot(ctx context.Context, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if cfg := config.FromContext(ctx); cfg != nil && cfg.DefaultRoot != "" {
		return cfg.DefaultRoot
	}
	return config.WorkDirFromContext(ctx)
}

// newScanner configures a scanner from config (with .wsi.toml overrides
// for root) and explicitly set flags.
func newScanner(ctx context.Context, cmd *cobra.Command, root string, opts scanOptions) *scan.Scanner {
	l := log.FromContext(ctx)

	cfg := config.FromContext(ctx)
	if resolver := config.ResolverFromContext(ctx); resolver != nil {
		rootCfg, err := resolver.ConfigForRoot(root)
		if err != nil {
			l.Warnf("%v", err)
		} else {
			cfg = rootCfg
		}
	}
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}

	s := scan.New(git.NewRunner(cfg.Scan.GitTimeout()))
	s.MaxDepth = cfg.Scan.MaxDepth
	s.Concurrency = cfg.Scan.Concurrency
	s.SkipFetch = !cfg.Scan.Fetch
	s.SkipDirs = cfg.Scan.SkipDirs

	if cmd.Flags().Changed("max-depth") {
		s.MaxDepth = opts.maxDepth
	}
	if cmd.Flags().Changed("concurrency") {
		s.Concurrency = opts.concurrency
	}
	if opts.noFetch {
		s.SkipFetch = true
	}
	return s
}

// scanOnce discovers and inspects repositories, showing a spinner and
// progress bar on interactive terminals.
func scanOnce(ctx context.Context, a *app, s *scan.Scanner, root string) (scan.Discovery, []scan.Repo, error) {
	l := log.FromContext(ctx)
	interactive := a.interactive()

	var sp *progress.Spinner
	if interactive {
		sp = progress.NewSpinner(format.ShortenHome(root))
		s.Found = func(path string, count int) {
			sp.Found(filepath.Base(path), count)
		}
		sp.Start()
	}
	d, err := s.Discover(ctx, root)
	if sp != nil {
		sp.Stop()
		s.Found = nil
	}
	if err != nil {
		return scan.Discovery{}, nil, fmt.Errorf("scan %s: %w", root, err)
	}
	l.Debug("discovered repositories", "root", d.Root, "count", len(d.Repos), "dirs", len(d.Dirs))

	var pb *progress.ProgressBar
	if interactive && len(d.Repos) > 0 {
		pb = progress.NewProgressBar(len(d.Repos))
		s.Progress = func(done, _ int, repo scan.Repo) {
			pb.Inspected(done, repo.Name, repo.NeedsAttention())
		}
		pb.Start()
	}
	start := time.Now()
	repos, err := s.InspectAll(ctx, d.Repos)
	if pb != nil {
		pb.Stop()
		s.Progress = nil
	}
	if err != nil {
		return scan.Discovery{}, nil, err
	}
	l.Debug("inspected repositories", "count", len(repos), "duration", time.Since(start).Round(time.Millisecond))

	return d, repos, nil
}

// saveScan stores repos in the cache under root.
func saveScan(ctx context.Context, root string, repos []scan.Repo) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, root, repos); err != nil {
		return fmt.Errorf("save scan: %w", err)
	}
	log.FromContext(ctx).Debug("saved scan", "root", root, "repos", len(repos), "cache", store.Path)
	return nil
}

// selectRepos applies --dirty, --filter and --sort.
// A fuzzy filter orders by match quality unless --sort is given.
func selectRepos(repos []scan.Repo, opts scanOptions) []scan.Repo {
	out := repos
	if opts.dirty {
		out = make([]scan.Repo, 0, len(repos))
		for _, r := range repos {
			if r.NeedsAttention() {
				out = append(out, r)
			}
		}
	}

	out = match.Repos(opts.filter, out)

	switch opts.sortBy {
	case "name":
		out = append([]scan.Repo(nil), out...)
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Name != out[j].Name {
				return out[i].Name < out[j].Name
			}
			return out[i].Path < out[j].Path
		})
	case "path":
		out = append([]scan.Repo(nil), out...)
		sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	}
	return out
}

// renderRepos prints repos as a table or encoded document.
func renderRepos(ctx context.Context, repos []scan.Repo, root string, format output.Format) error {
	out := output.FromContext(ctx)
	l := log.FromContext(ctx)

	if format.IsStructured() {
		if repos == nil {
			repos = []scan.Repo{}
		}
		return out.Encode(format, repos)
	}

	if len(repos) == 0 {
		l.Printf("No repositories found under %s\n", root)
		return nil
	}

	rows := make([][]string, 0, len(repos))
	attention := 0
	for _, r := range repos {
		rows = append(rows, static.RepoTableRow(r, root))
		if r.NeedsAttention() {
			attention++
		}
	}
	out.Styled(static.RenderTable(static.RepoHeaders, rows))
	l.Printf("%d repositories, %d need attention\n", len(repos), attention)
	return nil
}

// watchScan scans, saves and renders, then repeats on every change below root
// until interrupted.
func watchScan(ctx context.Context, a *app, s *scan.Scanner, root string, opts scanOptions) error {
	l := log.FromContext(ctx)

	var (
		mu   sync.Mutex
		last scan.Discovery
	)

	rescan := func(ctx context.Context) error {
		d, repos, err := scanOnce(ctx, a, s, root)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := saveScan(ctx, d.Root, repos); err != nil {
			l.Warnf("%v", err)
		}

		mu.Lock()
		last = d
		mu.Unlock()

		l.Printf("Scanned %s at %s\n", d.Root, time.Now().Format("15:04:05"))
		return renderRepos(ctx, selectRepos(repos, opts), d.Root, opts.format)
	}

	if err := rescan(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	l.Printf("Watching %s for changes (Ctrl+C to stop)\n", last.Root)

	return watch.Run(ctx, watch.Options{
		Targets: func() []string {
			mu.Lock()
			defer mu.Unlock()
			return watch.Targets(last)
		},
		OnChange: rescan,
	})
}
