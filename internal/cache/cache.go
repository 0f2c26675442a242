package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/raphi011/wsi/internal/log"
	"github.com/raphi011/wsi/internal/scan"
	"github.com/raphi011/wsi/internal/storage"
)

// ErrInvalidInput is returned by write operations given a blank root.
var ErrInvalidInput = errors.New("invalid input")

// FileName is the default cache file name inside ~/.wsi/.
const FileName = "workspace-cache.json"

// TimeFormat is the lastScan layout: ISO-8601 UTC with milliseconds.
// Values in this layout sort lexicographically in time order.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// Entry is the cached scan result for one root.
type Entry struct {
	Repos    []scan.Repo `json:"repos"`
	LastScan string      `json:"lastScan"`
}

// Document is the whole cache file.
type Document struct {
	Entries map[string]*Entry `json:"entries"`
}

// Summary describes one cached root without its repositories.
type Summary struct {
	Root     string `json:"root" yaml:"root"`
	LastScan string `json:"lastScan" yaml:"lastScan"`
	Count    int    `json:"count" yaml:"count"`
}

// ScannedAt parses LastScan. It returns the zero time for foreign values.
func (s Summary) ScannedAt() time.Time {
	t, err := time.Parse(time.RFC3339Nano, s.LastScan)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Store reads and writes the cache document at Path.
type Store struct {
	Path string

	now func() time.Time
}

// New returns a Store for the cache file at path.
func New(path string) *Store {
	return &Store{Path: path, now: time.Now}
}

// DefaultPath returns ~/.wsi/workspace-cache.json.
func DefaultPath() (string, error) {
	dir, err := storage.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// LockPath returns the path of the lock file guarding the cache at path.
func LockPath(path string) string {
	return path + ".lock"
}

// List returns one summary per cached root, most recently scanned first.
// lastScan has millisecond precision, so roots saved within the same
// millisecond sort by root ascending rather than by the order of the Set
// calls.
func (s *Store) List(ctx context.Context) []Summary {
	doc := s.load(ctx)

	out := make([]Summary, 0, len(doc.Entries))
	for root, entry := range doc.Entries {
		out = append(out, Summary{Root: root, LastScan: entry.LastScan, Count: len(entry.Repos)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastScan != out[j].LastScan {
			return out[i].LastScan > out[j].LastScan
		}
		return out[i].Root < out[j].Root
	})
	return out
}

// Get returns the cached repositories for root.
// A blank or unknown root is absent.
func (s *Store) Get(ctx context.Context, root string) ([]scan.Repo, bool) {
	if strings.TrimSpace(root) == "" {
		return nil, false
	}

	entry, ok := s.load(ctx).Entries[root]
	if !ok {
		return nil, false
	}
	return entry.Repos, true
}

// Set stores repos under root, stamped with the current time.
func (s *Store) Set(ctx context.Context, root string, repos []scan.Repo) error {
	if strings.TrimSpace(root) == "" {
		return fmt.Errorf("cache set: root is empty: %w", ErrInvalidInput)
	}
	if repos == nil {
		repos = []scan.Repo{}
	}

	return s.update(ctx, func(doc *Document) {
		doc.Entries[root] = &Entry{
			Repos:    repos,
			LastScan: s.now().UTC().Format(TimeFormat),
		}
	})
}

// Remove deletes the entry for root. Removing an unknown root is not an error.
func (s *Store) Remove(ctx context.Context, root string) error {
	if strings.TrimSpace(root) == "" {
		return fmt.Errorf("cache remove: root is empty: %w", ErrInvalidInput)
	}

	return s.update(ctx, func(doc *Document) {
		delete(doc.Entries, root)
	})
}

// Prune drops the roots for which dropRoot reports true and, from the
// remaining entries, the repositories for which dropRepo reports true.
// lastScan stamps are kept. Either func may be nil.
func (s *Store) Prune(ctx context.Context, dropRoot func(root string) bool, dropRepo func(root string, r scan.Repo) bool) (roots, repos int, err error) {
	err = s.update(ctx, func(doc *Document) {
		for root, entry := range doc.Entries {
			if dropRoot != nil && dropRoot(root) {
				delete(doc.Entries, root)
				roots++
				continue
			}
			if dropRepo == nil {
				continue
			}
			n := len(entry.Repos)
			entry.Repos = slices.DeleteFunc(entry.Repos, func(r scan.Repo) bool { return dropRepo(root, r) })
			repos += n - len(entry.Repos)
		}
	})
	return roots, repos, err
}

// Clear drops every entry.
func (s *Store) Clear(ctx context.Context) error {
	return s.update(ctx, func(doc *Document) {
		doc.Entries = make(map[string]*Entry)
	})
}

// update runs a read-modify-write of the whole document under the file lock.
func (s *Store) update(ctx context.Context, fn func(doc *Document)) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	lock := NewFileLock(LockPath(s.Path))
	if err := lock.Lock(ctx); err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	defer lock.Unlock()

	doc := s.load(ctx)
	fn(doc)

	if err := storage.SaveJSON(s.Path, doc); err != nil {
		return fmt.Errorf("save cache: %w", err)
	}
	return nil
}

// load reads the document. Any read or decode problem yields an empty
// document; single malformed entries are dropped.
func (s *Store) load(ctx context.Context) *Document {
	l := log.FromContext(ctx)
	doc := &Document{Entries: make(map[string]*Entry)}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.Debug("cache unreadable, using empty document", "path", s.Path, "err", err)
		}
		return doc
	}

	var raw struct {
		Entries map[string]json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		l.Debug("cache corrupt, using empty document", "path", s.Path, "err", err)
		return doc
	}

	for root, msg := range raw.Entries {
		var entry Entry
		if err := json.Unmarshal(msg, &entry); err != nil || string(msg) == "null" {
			l.Debug("dropping malformed cache entry", "root", root)
			continue
		}
		if entry.Repos == nil {
			entry.Repos = []scan.Repo{}
		}
		doc.Entries[root] = &entry
	}
	return doc
}
