// Package match ranks repositories and cache roots against a fuzzy pattern.
//
// Matching uses sahilm/fuzzy: characters of the pattern must appear in order,
// with consecutive and word-boundary matches ranked higher. An empty pattern
// matches everything in input order.
package match

import (
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/wsi/internal/scan"
)

// Hit is a repository found under a cached root.
type Hit struct {
	Root string    `json:"root" yaml:"root"`
	Repo scan.Repo `json:"repo" yaml:"repo"`
}

// repoSource implements fuzzy.Source over repository names.
type repoSource []scan.Repo

func (s repoSource) String(i int) string { return s[i].Name }
func (s repoSource) Len() int            { return len(s) }

// hitSource implements fuzzy.Source over hit repository names.
type hitSource []Hit

func (s hitSource) String(i int) string { return s[i].Repo.Name }
func (s hitSource) Len() int            { return len(s) }

// Repos returns the repositories whose name matches pattern, best first.
func Repos(pattern string, repos []scan.Repo) []scan.Repo {
	if pattern == "" {
		return repos
	}
	matches := fuzzy.FindFrom(pattern, repoSource(repos))
	out := make([]scan.Repo, len(matches))
	for i, m := range matches {
		out[i] = repos[m.Index]
	}
	return out
}

// Hits returns the hits whose repository name matches pattern, best first.
func Hits(pattern string, hits []Hit) []Hit {
	if pattern == "" {
		return hits
	}
	matches := fuzzy.FindFrom(pattern, hitSource(hits))
	out := make([]Hit, len(matches))
	for i, m := range matches {
		out[i] = hits[m.Index]
	}
	return out
}

// Strings returns up to limit entries of items matching pattern, best first.
// A limit <= 0 returns all matches.
func Strings(pattern string, items []string, limit int) []string {
	if pattern == "" {
		return nil
	}
	matches := fuzzy.Find(pattern, items)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}
