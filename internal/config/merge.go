package config

// MergeLocal merges a local per-root config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	// Shallow copy: settings without a local counterpart (cache, log,
	// concurrency, timeout) are inherited as-is.
	merged := *global

	if local.Scan.MaxDepth != nil {
		merged.Scan.MaxDepth = *local.Scan.MaxDepth
	}
	if local.Scan.Fetch != nil {
		merged.Scan.Fetch = *local.Scan.Fetch
	}

	// Skip dirs append with dedup
	if len(local.Scan.SkipDirs) > 0 {
		merged.Scan.SkipDirs = appendUnique(global.Scan.SkipDirs, local.Scan.SkipDirs)
	}

	return &merged
}

// appendUnique appends items from extra to base, skipping duplicates.
// Returns a new slice (never mutates base).
func appendUnique(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, v := range base {
		seen[v] = true
	}

	result := make([]string, len(base))
	copy(result, base)

	for _, v := range extra {
		if !seen[v] {
			result = append(result, v)
			seen[v] = true
		}
	}

	return result
}
