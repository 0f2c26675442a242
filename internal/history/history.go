// Package history remembers the repositories picked with `wsi find`.
// This enables `wsi find` with no arguments to return the last one.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/raphi011/wsi/internal/storage"
)

// MaxEntries caps the history; the least recently used entry is dropped first.
const MaxEntries = 100

// Entry is one remembered repository.
type Entry struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Root        string    `json:"root"`
	AccessCount int       `json:"access_count"`
	LastAccess  time.Time `json:"last_access"`
}

// History is the on-disk history document.
type History struct {
	Entries []Entry `json:"entries"`
}

// DefaultPath returns ~/.wsi/history.json.
func DefaultPath() (string, error) {
	dir, err := storage.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

// Load reads the history at path. A missing file is an empty history.
func Load(path string) (*History, error) {
	var h History
	if err := storage.LoadJSON(path, &h); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &History{}, nil
		}
		return nil, fmt.Errorf("load history: %w", err)
	}
	return &h, nil
}

// Save writes the history to path atomically.
func (h *History) Save(path string) error {
	return storage.SaveJSON(path, h)
}

// FindByPath returns the entry for path, or nil.
func (h *History) FindByPath(path string) *Entry {
	for i := range h.Entries {
		if h.Entries[i].Path == path {
			return &h.Entries[i]
		}
	}
	return nil
}

// RemoveByPath drops the entry for path and reports whether one existed.
func (h *History) RemoveByPath(path string) bool {
	n := len(h.Entries)
	h.Entries = slices.DeleteFunc(h.Entries, func(e Entry) bool { return e.Path == path })
	return len(h.Entries) != n
}

// RemoveStale drops entries whose directory no longer exists and returns
// how many were removed.
func (h *History) RemoveStale() int {
	n := len(h.Entries)
	h.Entries = slices.DeleteFunc(h.Entries, func(e Entry) bool {
		info, err := os.Stat(e.Path)
		return err != nil || !info.IsDir()
	})
	return n - len(h.Entries)
}

// MostRecent returns the entry accessed last, or nil for an empty history.
func (h *History) MostRecent() *Entry {
	var latest *Entry
	for i := range h.Entries {
		if latest == nil || h.Entries[i].LastAccess.After(latest.LastAccess) {
			latest = &h.Entries[i]
		}
	}
	return latest
}

func (h *History) record(path, name, root string, now time.Time) {
	if e := h.FindByPath(path); e != nil {
		e.Name = name
		e.Root = root
		e.AccessCount++
		e.LastAccess = now
		return
	}

	h.Entries = append(h.Entries, Entry{
		Path:        path,
		Name:        name,
		Root:        root,
		AccessCount: 1,
		LastAccess:  now,
	})
	if len(h.Entries) > MaxEntries {
		slices.SortFunc(h.Entries, func(a, b Entry) int {
			return b.LastAccess.Compare(a.LastAccess)
		})
		h.Entries = h.Entries[:MaxEntries]
	}
}

// RecordAccess marks the repository at path as picked now and saves the
// history file.
func RecordAccess(path, name, root, historyFile string) error {
	h, err := Load(historyFile)
	if err != nil {
		// Corrupted - start fresh
		h = &History{}
	}
	h.record(path, name, root, time.Now())
	return h.Save(historyFile)
}

// GetMostRecent returns the most recently picked path that still exists,
// or "" if there is none.
func GetMostRecent(historyFile string) (string, error) {
	h, err := Load(historyFile)
	if err != nil {
		return "", err
	}
	h.RemoveStale()
	if e := h.MostRecent(); e != nil {
		return e.Path, nil
	}
	return "", nil
}
