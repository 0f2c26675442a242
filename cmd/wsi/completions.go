package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/wsi/internal/output"
)

// completeFormats completes --format values.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		names[i] = string(f)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeCachedRoots completes the roots stored in the cache.
func completeCachedRoots(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	store, err := openStore(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var roots []string
	for _, s := range store.List(cmd.Context()) {
		roots = append(roots, s.Root)
	}
	return roots, cobra.ShellCompDirectiveNoFileComp
}

// completeRepoNames completes repository names from the cache.
func completeRepoNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	store, err := openStore(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	seen := make(map[string]bool)
	var names []string
	for _, h := range cachedHits(cmd.Context(), store) {
		if !seen[h.Repo.Name] {
			seen[h.Repo.Name] = true
			names = append(names, h.Repo.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
