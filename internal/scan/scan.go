package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/wsi/internal/git"
	"github.com/raphi011/wsi/internal/log"
)

// ErrInvalidInput is returned for an empty or unusable scan root.
var ErrInvalidInput = errors.New("invalid input")

const (
	// DefaultMaxDepth is how many directory levels below the root are inspected.
	DefaultMaxDepth = 4
	// DefaultConcurrency bounds concurrent repository inspections (git subprocesses).
	DefaultConcurrency = 8
)

// DefaultSkipDirs are never descended into.
var DefaultSkipDirs = []string{"node_modules", ".git", ".svn", ".hg"}

// Repo describes one discovered repository.
// Origin and Branch are nil when unknown and encode as JSON null.
type Repo struct {
	Name     string  `json:"name" yaml:"name"`
	Path     string  `json:"path" yaml:"path"`
	Origin   *string `json:"origin" yaml:"origin"`
	Branch   *string `json:"branch" yaml:"branch"`
	Ahead    bool    `json:"ahead" yaml:"ahead"`
	Behind   bool    `json:"behind" yaml:"behind"`
	Unstaged bool    `json:"unstaged" yaml:"unstaged"`
}

// BranchName returns the branch or "" if unknown.
func (r Repo) BranchName() string {
	if r.Branch == nil {
		return ""
	}
	return *r.Branch
}

// OriginURL returns the origin URL or "" if there is none.
func (r Repo) OriginURL() string {
	if r.Origin == nil {
		return ""
	}
	return *r.Origin
}

// NeedsAttention is true when the repo is dirty or out of sync with its upstream.
func (r Repo) NeedsAttention() bool {
	return r.Ahead || r.Behind || r.Unstaged
}

// Scanner discovers repositories below a root directory.
// The zero value only inspects the root itself (MaxDepth 0); use New for defaults.
type Scanner struct {
	Runner      git.Runner
	MaxDepth    int
	Concurrency int
	SkipFetch   bool
	SkipDirs    []string // in addition to DefaultSkipDirs

	// Found, if set, is called by Discover for each repository root with
	// the number found so far.
	Found func(path string, count int)

	// Progress, if set, is called after each repository has been inspected.
	// Calls are serialized.
	Progress func(done, total int, repo Repo)
}

// New returns a Scanner with default depth and concurrency.
func New(r git.Runner) *Scanner {
	return &Scanner{
		Runner:      r,
		MaxDepth:    DefaultMaxDepth,
		Concurrency: DefaultConcurrency,
	}
}

// ScanWorkspace scans root with default settings and the given depth.
func ScanWorkspace(ctx context.Context, r git.Runner, root string, maxDepth int) ([]Repo, error) {
	s := New(r)
	s.MaxDepth = maxDepth
	return s.Scan(ctx, root)
}

// Discovery is the result of walking a root without inspecting repositories.
type Discovery struct {
	Root  string   // absolute root
	Dirs  []string // directories that were listed (not repositories)
	Repos []string // repository roots in listing order
}

// Scan walks root and returns one Repo per discovered repository, in
// directory-listing order. A repository's children are never searched.
// Per-repository git failures degrade the affected fields; only an invalid
// root or context cancellation return an error.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Repo, error) {
	d, err := s.Discover(ctx, root)
	if err != nil {
		return nil, err
	}

	log.FromContext(ctx).Debug("discovered repositories", "root", d.Root, "count", len(d.Repos))

	return s.InspectAll(ctx, d.Repos)
}

// Discover walks root depth-first and collects repository roots.
func (s *Scanner) Discover(ctx context.Context, root string) (Discovery, error) {
	abs, err := validateRoot(root)
	if err != nil {
		return Discovery{}, err
	}
	if s.MaxDepth < 0 {
		return Discovery{}, fmt.Errorf("max depth %d: %w", s.MaxDepth, ErrInvalidInput)
	}

	l := log.FromContext(ctx)
	skip := s.skipSet()
	d := Discovery{Root: abs}

	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if depth > s.MaxDepth {
			return nil
		}
		if git.IsRepository(dir) {
			d.Repos = append(d.Repos, dir)
			if s.Found != nil {
				s.Found(dir, len(d.Repos))
			}
			return nil
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			l.Debug("skipping unreadable directory", "dir", dir, "err", err)
			return nil
		}
		d.Dirs = append(d.Dirs, dir)

		for _, entry := range entries {
			if !entry.IsDir() || skip[entry.Name()] {
				continue
			}
			if err := walk(filepath.Join(dir, entry.Name()), depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(abs, 0); err != nil {
		return Discovery{}, err
	}
	return d, nil
}

// InspectAll inspects the repositories at paths in parallel and returns
// their records in input order.
func (s *Scanner) InspectAll(ctx context.Context, paths []string) ([]Repo, error) {
	runner := s.Runner
	if runner == nil {
		runner = git.NewRunner(git.DefaultTimeout)
	}
	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	opts := git.EvalOptions{SkipFetch: s.SkipFetch}

	repos := make([]Repo, len(paths))

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			repos[i] = Inspect(gctx, runner, path, opts)

			if s.Progress != nil {
				mu.Lock()
				done++
				s.Progress(done, len(paths), repos[i])
				mu.Unlock()
			}
			return nil // per-repo problems degrade fields instead
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return repos, nil
}

// Inspect builds the Repo record for the work-tree at dir.
func Inspect(ctx context.Context, r git.Runner, dir string, opts git.EvalOptions) Repo {
	repo := Repo{
		Name: filepath.Base(dir),
		Path: dir,
	}

	branch, ok := git.ReadBranch(dir)
	if ok {
		repo.Branch = &branch
	}
	if origin, ok := git.ReadOrigin(ctx, r, dir); ok {
		repo.Origin = &origin
	}

	st := git.Evaluate(ctx, r, dir, branch, opts)
	repo.Ahead = st.Ahead
	repo.Behind = st.Behind
	repo.Unstaged = st.Unstaged

	return repo
}

func (s *Scanner) skipSet() map[string]bool {
	skip := make(map[string]bool, len(DefaultSkipDirs)+len(s.SkipDirs))
	for _, name := range DefaultSkipDirs {
		skip[name] = true
	}
	for _, name := range s.SkipDirs {
		skip[name] = true
	}
	return skip
}

// validateRoot resolves root to an absolute directory path.
func validateRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", fmt.Errorf("scan root is empty: %w", ErrInvalidInput)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("scan root %q: %v: %w", root, err, ErrInvalidInput)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("scan root %q: %v: %w", root, err, ErrInvalidInput)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("scan root %q is not a directory: %w", root, ErrInvalidInput)
	}
	return abs, nil
}
