// Package cache persists scan results keyed by scan root.
//
// The cache is a single JSON document, by default ~/.wsi/workspace-cache.json:
//
//	{
//	  "entries": {
//	    "/home/me/Code": {
//	      "repos": [{"name": "api", "path": "/home/me/Code/api", ...}],
//	      "lastScan": "2025-01-02T03:04:05.678Z"
//	    }
//	  }
//	}
//
// Keys are the root strings exactly as given; they are not canonicalized, so
// "/code" and "/code/" are different entries.
//
// The cache is advisory. A missing, unreadable or malformed file reads as an
// empty document and never produces an error.
//
// # Concurrency
//
// Writes ([Store.Set], [Store.Remove], [Store.Clear]) read, modify and rewrite
// the whole document while holding an exclusive lock on <cache>.lock, so
// concurrent writers (goroutines or processes) don't lose each other's
// entries. Reads take no lock; the atomic rename in storage.SaveJSON means
// a reader always sees a complete document.
package cache
