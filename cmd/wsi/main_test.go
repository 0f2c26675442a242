package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"4d63.com/testcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphi011/wsi/internal/cache"
	"github.com/raphi011/wsi/internal/scan"
)

// setup isolates HOME, config and cache, and configures git for commits.
func setup(t *testing.T) string {
	home := testcli.MkdirTemp(t)
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("WSI_CACHE_PATH", filepath.Join(home, "cache.json"))
	t.Setenv("WSI_DEFAULT_ROOT", "")
	t.Setenv("WSI_THEME", "")
	t.Setenv("WSI_THEME_MODE", "dark")
	t.Setenv("CLICOLOR_FORCE", "")
	testcli.Exec(t, "git config --global user.email 'tests@example.com'")
	testcli.Exec(t, "git config --global user.name 'Tests'")
	testcli.Exec(t, "git config --global init.defaultBranch main")
	testcli.Exec(t, "git config --global commit.gpgsign false")
	return home
}

// initRepo creates a repository with one commit at dir on branch.
func initRepo(t *testing.T, dir, branch string) {
	require.NoError(t, os.MkdirAll(dir, 0o755))
	testcli.Chdir(t, dir)
	testcli.Exec(t, "git init")
	testcli.WriteFile(t, "README.md", []byte("# test\n"))
	testcli.Exec(t, "git add .")
	testcli.Exec(t, "git commit -m 'Initial commit'")
	if branch != "main" {
		testcli.Exec(t, "git checkout -b "+branch)
	}
}

// workspace builds ws/a (main, clean) and ws/b/c (feature, untracked file).
func workspace(t *testing.T) string {
	ws := testcli.MkdirTemp(t)
	initRepo(t, filepath.Join(ws, "a"), "main")
	initRepo(t, filepath.Join(ws, "b", "c"), "feature")
	testcli.WriteFile(t, "notes.txt", []byte("untracked\n"))
	return ws
}

func decodeRepos(t *testing.T, s string) []scan.Repo {
	t.Helper()
	var repos []scan.Repo
	require.NoError(t, json.Unmarshal([]byte(s), &repos), s)
	return repos
}

func wsi(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	return testcli.Main(t, append([]string{"wsi"}, args...), strings.NewReader(stdin), run)
}

func TestVersion(t *testing.T) {
	setup(t)

	exitCode, stdout, stderr := wsi(t, "", "version")
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "", stderr)
	assert.True(t, strings.HasPrefix(stdout, "wsi dev"), stdout)
}

func TestScanEmptyRoot(t *testing.T) {
	setup(t)
	ws := testcli.MkdirTemp(t)

	exitCode, stdout, stderr := wsi(t, "", "scan", ws, "--no-fetch", "-f", "json")
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "", stderr)
	assert.Equal(t, "[]\n", stdout)
}

func TestScanWorkspace(t *testing.T) {
	setup(t)
	ws := workspace(t)

	exitCode, stdout, stderr := wsi(t, "", "scan", ws, "--no-fetch", "-f", "json", "--sort", "path")
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "", stderr)

	repos := decodeRepos(t, stdout)
	require.Len(t, repos, 2)

	assert.Equal(t, "a", repos[0].Name)
	assert.Equal(t, filepath.Join(ws, "a"), repos[0].Path)
	assert.Equal(t, "main", repos[0].BranchName())
	assert.Nil(t, repos[0].Origin)
	assert.False(t, repos[0].Ahead)
	assert.False(t, repos[0].Behind)
	assert.False(t, repos[0].Unstaged)

	assert.Equal(t, "c", repos[1].Name)
	assert.Equal(t, "feature", repos[1].BranchName())
	assert.True(t, repos[1].Unstaged)
}

func TestScanTable(t *testing.T) {
	setup(t)
	ws := workspace(t)

	exitCode, stdout, stderr := wsi(t, "", "scan", ws, "--no-fetch")
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "feature")
	assert.Contains(t, stdout, filepath.Join("b", "c"))
	assert.NotContains(t, stdout, "\x1b[", "table written to a pipe must not carry ANSI codes")
	assert.Contains(t, stderr, "2 repositories, 1 need attention")
}

func TestScanQuiet(t *testing.T) {
	setup(t)
	ws := workspace(t)

	exitCode, stdout, stderr := wsi(t, "", "-q", "scan", ws, "--no-fetch")
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "NAME")
	assert.Equal(t, "", stderr)
}

func TestScanFilters(t *testing.T) {
	setup(t)
	ws := workspace(t)

	tests := []struct {
		name  string
		args  []string
		names []string
	}{
		{"dirty", []string{"--dirty"}, []string{"c"}},
		{"fuzzy filter", []string{"--filter", "c"}, []string{"c"}},
		{"sort by name", []string{"--sort", "name"}, []string{"a", "c"}},
		{"depth 1 only", []string{"-d", "1"}, []string{"a"}},
		{"depth 0 only inspects root", []string{"-d", "0"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"scan", ws, "--no-fetch", "-f", "json"}, tt.args...)
			exitCode, stdout, stderr := wsi(t, "", args...)
			require.Equal(t, 0, exitCode, stderr)

			got := []string{}
			for _, r := range decodeRepos(t, stdout) {
				got = append(got, r.Name)
			}
			assert.Equal(t, tt.names, got)
		})
	}
}

func TestScanLocalConfig(t *testing.T) {
	setup(t)
	ws := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(ws, ".wsi.toml"), []byte("[scan]\nmax_depth = 1\n"), 0o644))

	exitCode, stdout, _ := wsi(t, "", "scan", ws, "--no-fetch", "-f", "json")
	require.Equal(t, 0, exitCode)
	assert.Len(t, decodeRepos(t, stdout), 1)

	// An explicit flag wins over .wsi.toml
	exitCode, stdout, _ = wsi(t, "", "scan", ws, "--no-fetch", "-f", "json", "-d", "2")
	require.Equal(t, 0, exitCode)
	assert.Len(t, decodeRepos(t, stdout), 2)
}

func TestScanYAML(t *testing.T) {
	setup(t)
	ws := workspace(t)

	exitCode, stdout, _ := wsi(t, "", "scan", ws, "--no-fetch", "-f", "yaml", "--filter", "a")
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "- name: a\n")
	assert.Contains(t, stdout, "origin: null\n")
	assert.Contains(t, stdout, "branch: main\n")
}

func TestScanErrors(t *testing.T) {
	home := setup(t)

	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{"missing root", []string{"scan", filepath.Join(home, "missing")}, "invalid input"},
		{"bad format", []string{"scan", home, "-f", "xml"}, "must be one of table|json|yaml"},
		{"bad sort", []string{"scan", home, "--sort", "size"}, "invalid --sort"},
		{"negative depth", []string{"scan", home, "-d", "-1"}, "invalid input"},
		{"verbose and quiet", []string{"-v", "-q", "scan", home}, "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exitCode, stdout, stderr := wsi(t, "", tt.args...)
			assert.Equal(t, 1, exitCode)
			assert.Equal(t, "", stdout)
			assert.Contains(t, stderr, tt.stderr)
		})
	}
}

func TestScanSaveAndCache(t *testing.T) {
	home := setup(t)
	ws := workspace(t)

	exitCode, scanned, _ := wsi(t, "", "scan", ws, "--no-fetch", "--save", "-f", "json")
	require.Equal(t, 0, exitCode)

	// The cache file is the documented format
	data, err := os.ReadFile(filepath.Join(home, "cache.json"))
	require.NoError(t, err)
	var doc cache.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc.Entries, ws)
	assert.Len(t, doc.Entries[ws].Repos, 2)

	exitCode, stdout, _ := wsi(t, "", "cache", "list", "-f", "json")
	require.Equal(t, 0, exitCode)
	var summaries []cache.Summary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, ws, summaries[0].Root)
	assert.Equal(t, 2, summaries[0].Count)
	assert.False(t, summaries[0].ScannedAt().IsZero())

	exitCode, stdout, _ = wsi(t, "", "cache", "get", ws, "-f", "json")
	require.Equal(t, 0, exitCode)
	assert.Equal(t, scanned, stdout)

	exitCode, stdout, _ = wsi(t, "", "cache", "list")
	require.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "REPOS")
	assert.Contains(t, stdout, ws)

	exitCode, _, _ = wsi(t, "", "cache", "rm", ws)
	require.Equal(t, 0, exitCode)

	exitCode, _, stderr := wsi(t, "", "cache", "get", ws)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "no cached scan for")
}

func TestCacheSetGetFind(t *testing.T) {
	setup(t)

	input := `[
  {"name": "api", "path": "/work/code-main/api", "origin": "git@github.com:org/api.git", "branch": "main", "ahead": false, "behind": true, "unstaged": false},
  {"name": "web", "path": "/work/code-main/web", "origin": null, "branch": null, "ahead": false, "behind": false, "unstaged": true}
]`

	exitCode, _, stderr := wsi(t, input, "cache", "set", "/work/code-main")
	require.Equal(t, 0, exitCode, stderr)
	assert.Contains(t, stderr, "Cached 2 repositories for /work/code-main")

	exitCode, stdout, _ := wsi(t, "", "cache", "get", "/work/code-main", "-f", "yaml")
	require.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "name: api")
	assert.Contains(t, stdout, "behind: true")
	assert.Contains(t, stdout, "branch: null")

	exitCode, stdout, _ = wsi(t, "", "find", "ap")
	require.Equal(t, 0, exitCode)
	assert.Equal(t, "/work/code-main/api\n", stdout)

	exitCode, stdout, _ = wsi(t, "", "find", "w", "--all", "-f", "json")
	require.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, `"root": "/work/code-main"`)
	assert.Contains(t, stdout, `"name": "web"`)

	exitCode, _, stderr = wsi(t, "", "find", "zzz")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, `no cached repository matches "zzz"`)

	exitCode, _, stderr = wsi(t, "", "cache", "get", "/work/code")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "did you mean")
	assert.Contains(t, stderr, "/work/code-main")
}

func TestCacheSetInvalidJSON(t *testing.T) {
	setup(t)

	exitCode, _, stderr := wsi(t, "{not json", "cache", "set", "/work")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "failed to parse repositories from stdin")
}

func TestCacheRemoveUnknownAndClear(t *testing.T) {
	setup(t)

	exitCode, _, _ := wsi(t, "", "cache", "rm", "/never/scanned")
	assert.Equal(t, 0, exitCode)

	exitCode, _, _ = wsi(t, "[]", "cache", "set", "/work")
	require.Equal(t, 0, exitCode)

	exitCode, _, _ = wsi(t, "", "cache", "clear")
	require.Equal(t, 0, exitCode)

	exitCode, stdout, stderr := wsi(t, "", "cache", "list")
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "", stdout)
	assert.Contains(t, stderr, "No cached scans")
}

func TestConfigInitAndShow(t *testing.T) {
	home := setup(t)
	path := filepath.Join(home, "wsi.toml")

	exitCode, _, stderr := wsi(t, "", "--config", path, "config", "init")
	require.Equal(t, 0, exitCode, stderr)
	assert.Contains(t, stderr, "Created config file: "+path)
	assert.FileExists(t, path)

	exitCode, _, stderr = wsi(t, "", "--config", path, "config", "init")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "already exists")

	exitCode, stdout, _ := wsi(t, "", "--config", path, "config", "show")
	require.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "max_depth = 4")
	assert.Contains(t, stdout, "[cache]")
}

func TestInvalidConfigWarns(t *testing.T) {
	home := setup(t)
	path := filepath.Join(home, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scan]\nmax_depth = -3\n"), 0o644))

	exitCode, stdout, stderr := wsi(t, "", "--config", path, "scan", testcli.MkdirTemp(t), "--no-fetch", "-f", "json")
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "[]\n", stdout)
	assert.Contains(t, stderr, "Warning:")
	assert.Contains(t, stderr, "max_depth")
}

func TestFindRemembersLastMatch(t *testing.T) {
	setup(t)
	ws := workspace(t)

	exitCode, stdout, stderr := wsi(t, "", "find")
	assert.Equal(t, 1, exitCode)
	assert.Equal(t, "", stdout)
	assert.Contains(t, stderr, "no previous match")

	exitCode, _, _ = wsi(t, "", "scan", ws, "--no-fetch", "--save", "-f", "json")
	require.Equal(t, 0, exitCode)

	exitCode, stdout, _ = wsi(t, "", "find", "c")
	require.Equal(t, 0, exitCode)
	assert.Equal(t, filepath.Join(ws, "b", "c")+"\n", stdout)

	exitCode, stdout, _ = wsi(t, "", "find")
	require.Equal(t, 0, exitCode)
	assert.Equal(t, filepath.Join(ws, "b", "c")+"\n", stdout)
}

func TestCacheClearWithoutTerminal(t *testing.T) {
	setup(t)

	exitCode, _, _ := wsi(t, "[]", "cache", "set", "/work")
	require.Equal(t, 0, exitCode)

	// No terminal to ask on, so clear proceeds
	exitCode, _, _ = wsi(t, "", "cache", "clear")
	require.Equal(t, 0, exitCode)

	exitCode, _, _ = wsi(t, "", "cache", "get", "/work")
	assert.Equal(t, 1, exitCode)
}

func TestDoctor(t *testing.T) {
	setup(t)
	ws := workspace(t)

	exitCode, _, _ := wsi(t, "", "scan", ws, "--no-fetch", "--save", "-f", "json")
	require.Equal(t, 0, exitCode)
	exitCode, _, _ = wsi(t, `[{"name":"x","path":"/nowhere/x"}]`, "cache", "set", "/nowhere")
	require.Equal(t, 0, exitCode)

	exitCode, stdout, _ := wsi(t, "", "doctor")
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "1 cached roots valid (2 repositories)")
	assert.Contains(t, stdout, "/nowhere: root directory no longer exists")
	assert.Contains(t, stdout, "wsi doctor --fix")

	exitCode, stdout, _ = wsi(t, "", "doctor", "--fix")
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "Fixed 1 issues")

	exitCode, stdout, _ = wsi(t, "", "doctor", "-f", "json")
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, `"issues": []`)

	exitCode, _, stderr := wsi(t, "", "doctor", "--reset")
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stderr, "Cache and history reset")

	exitCode, _, _ = wsi(t, "", "cache", "get", ws)
	assert.Equal(t, 1, exitCode)
}
