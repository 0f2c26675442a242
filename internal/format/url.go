package format

import "strings"

// WebURL converts a git remote URL into a browsable https URL.
// Supported forms are https://host/path, ssh://[user@]host[:port]/path
// and scp-like user@host:path; a trailing ".git" is dropped.
// Returns "" for anything else (local paths, file://).
func WebURL(remote string) string {
	remote = strings.TrimSpace(remote)
	remote = strings.TrimSuffix(remote, "/")
	remote = strings.TrimSuffix(remote, ".git")

	switch {
	case strings.HasPrefix(remote, "https://"), strings.HasPrefix(remote, "http://"):
		return remote
	case strings.HasPrefix(remote, "ssh://"):
		rest := strings.TrimPrefix(remote, "ssh://")
		host, path, ok := strings.Cut(rest, "/")
		if !ok || path == "" {
			return ""
		}
		if _, h, found := strings.Cut(host, "@"); found {
			host = h
		}
		if h, _, found := strings.Cut(host, ":"); found {
			host = h
		}
		return "https://" + host + "/" + path
	case strings.Contains(remote, "://"):
		return ""
	}

	// scp-like: git@github.com:org/repo
	userHost, path, ok := strings.Cut(remote, ":")
	if !ok || path == "" || strings.Contains(userHost, "/") {
		return ""
	}
	host := userHost
	if _, h, found := strings.Cut(userHost, "@"); found {
		host = h
	}
	if host == "" {
		return ""
	}
	return "https://" + host + "/" + strings.TrimPrefix(path, "/")
}
