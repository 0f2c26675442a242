package config

import (
	"slices"
	"testing"
)

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

func TestMergeLocal_Nil(t *testing.T) {
	t.Parallel()

	global := &Config{Scan: ScanConfig{MaxDepth: 4}}

	result := MergeLocal(global, nil)
	if result != global {
		t.Error("expected same pointer when local is nil")
	}
}

func TestMergeLocal_NoMutation(t *testing.T) {
	t.Parallel()

	global := &Config{Scan: ScanConfig{MaxDepth: 4, Fetch: true, SkipDirs: []string{"vendor"}}}
	local := &LocalConfig{Scan: LocalScan{
		MaxDepth: intPtr(1),
		Fetch:    boolPtr(false),
		SkipDirs: []string{"archive"},
	}}

	MergeLocal(global, local)

	if global.Scan.MaxDepth != 4 || !global.Scan.Fetch {
		t.Error("global config was mutated")
	}
	if !slices.Equal(global.Scan.SkipDirs, []string{"vendor"}) {
		t.Errorf("global skip_dirs mutated: %v", global.Scan.SkipDirs)
	}
}

func TestMergeLocal_FieldReplace(t *testing.T) {
	t.Parallel()

	global := &Config{
		DefaultRoot: "/code",
		Scan:        ScanConfig{MaxDepth: 4, Concurrency: 8, Fetch: true, Timeout: "3s"},
		Cache:       CacheConfig{Path: "/c.json"},
	}
	local := &LocalConfig{Scan: LocalScan{MaxDepth: intPtr(0), Fetch: boolPtr(false)}}

	merged := MergeLocal(global, local)

	if merged.Scan.MaxDepth != 0 {
		t.Errorf("max_depth = %d, want 0", merged.Scan.MaxDepth)
	}
	if merged.Scan.Fetch {
		t.Error("fetch = true, want false")
	}
	// Not overridable locally
	if merged.Scan.Concurrency != 8 || merged.Scan.Timeout != "3s" || merged.Cache.Path != "/c.json" || merged.DefaultRoot != "/code" {
		t.Errorf("inherited fields changed: %+v", merged)
	}
}

func TestMergeLocal_ZeroValuesPreserveGlobal(t *testing.T) {
	t.Parallel()

	global := &Config{Scan: ScanConfig{MaxDepth: 3, Fetch: true, SkipDirs: []string{"vendor"}}}

	// Empty local config: nothing should change
	merged := MergeLocal(global, &LocalConfig{})

	if merged.Scan.MaxDepth != 3 || !merged.Scan.Fetch {
		t.Errorf("scan = %+v, want global values", merged.Scan)
	}
	if !slices.Equal(merged.Scan.SkipDirs, []string{"vendor"}) {
		t.Errorf("skip_dirs = %v, want [vendor]", merged.Scan.SkipDirs)
	}
}

func TestMergeLocal_SkipDirsAppendDedup(t *testing.T) {
	t.Parallel()

	global := &Config{Scan: ScanConfig{SkipDirs: []string{"vendor", "target"}}}
	local := &LocalConfig{Scan: LocalScan{SkipDirs: []string{"target", "archive"}}}

	merged := MergeLocal(global, local)

	want := []string{"vendor", "target", "archive"}
	if !slices.Equal(merged.Scan.SkipDirs, want) {
		t.Errorf("skip_dirs = %v, want %v", merged.Scan.SkipDirs, want)
	}
}

func TestAppendUnique(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		base  []string
		extra []string
		want  []string
	}{
		{"both empty", nil, nil, []string{}},
		{"extra only", nil, []string{"a"}, []string{"a"}},
		{"no overlap", []string{"a"}, []string{"b"}, []string{"a", "b"}},
		{"full overlap", []string{"a", "b"}, []string{"b", "a"}, []string{"a", "b"}},
		{"duplicates in extra", []string{"a"}, []string{"b", "b"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := appendUnique(tt.base, tt.extra)
			if !slices.Equal(got, tt.want) {
				t.Errorf("appendUnique(%v, %v) = %v, want %v", tt.base, tt.extra, got, tt.want)
			}
		})
	}
}
