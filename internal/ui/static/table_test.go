package static

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/raphi011/wsi/internal/cache"
	"github.com/raphi011/wsi/internal/scan"
)

func strPtr(s string) *string { return &s }

func TestRepoTableRow(t *testing.T) {
	t.Parallel()

	root := filepath.Join(string(filepath.Separator), "work")
	r := scan.Repo{
		Name:     "api",
		Path:     filepath.Join(root, "services", "api"),
		Origin:   strPtr("git@github.com:org/api.git"),
		Branch:   strPtr("main"),
		Ahead:    true,
		Unstaged: true,
	}

	row := RepoTableRow(r, root)

	// Must have exactly as many columns as RepoHeaders
	if len(row) != len(RepoHeaders) {
		t.Fatalf("expected %d columns, got %d", len(RepoHeaders), len(row))
	}

	want := []string{"api", "main", "↑ *", filepath.Join("services", "api"), "git@github.com:org/api.git"}
	for i, w := range want {
		if got := ansi.Strip(row[i]); got != w {
			t.Errorf("column %d (%s) = %q, want %q", i, RepoHeaders[i], got, w)
		}
	}

	// ORIGIN links to the web page
	if !strings.Contains(row[4], "https://github.com/org/api") {
		t.Errorf("origin cell should carry a hyperlink, got %q", row[4])
	}
}

func TestRepoTableRowMissingFields(t *testing.T) {
	t.Parallel()

	r := scan.Repo{Name: "scratch", Path: "/elsewhere/scratch"}
	row := RepoTableRow(r, "/work")

	if got := ansi.Strip(row[1]); got != "-" {
		t.Errorf("BRANCH = %q, want %q", got, "-")
	}
	if got := ansi.Strip(row[2]); got != "✓" {
		t.Errorf("STATUS = %q, want %q", got, "✓")
	}
	if got := ansi.Strip(row[4]); got != "-" {
		t.Errorf("ORIGIN = %q, want %q", got, "-")
	}
}

func TestRepoTableRowLocalOrigin(t *testing.T) {
	t.Parallel()

	r := scan.Repo{Name: "mirror", Path: "/work/mirror", Origin: strPtr("/srv/git/mirror.git")}
	row := RepoTableRow(r, "/work")

	if row[4] != "/srv/git/mirror.git" {
		t.Errorf("local origin should be plain text, got %q", row[4])
	}
}

func TestSummaryTableRow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := cache.Summary{Root: "/work", LastScan: "2025-03-01T11:55:00.000Z", Count: 7}

	row := SummaryTableRow(s, now)
	if len(row) != len(SummaryHeaders) {
		t.Fatalf("expected %d columns, got %d", len(SummaryHeaders), len(row))
	}
	if row[1] != "7" {
		t.Errorf("REPOS = %q, want %q", row[1], "7")
	}
	if row[2] != "5m ago" {
		t.Errorf("SCANNED = %q, want %q", row[2], "5m ago")
	}
}

func TestSummaryTableRowBadTimestamp(t *testing.T) {
	t.Parallel()

	s := cache.Summary{Root: "/work", LastScan: "whenever", Count: 0}
	row := SummaryTableRow(s, time.Now())
	if row[2] != "whenever" {
		t.Errorf("unparseable SCANNED should be shown as stored, got %q", row[2])
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	if got := RenderTable(RepoHeaders, nil); got != "" {
		t.Errorf("empty table should render nothing, got %q", got)
	}

	out := ansi.Strip(RenderTable([]string{"A", "B"}, [][]string{{"one", "two"}}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "A") || !strings.Contains(lines[1], "one") || !strings.Contains(lines[1], "two") {
		t.Errorf("unexpected table:\n%s", out)
	}
}
