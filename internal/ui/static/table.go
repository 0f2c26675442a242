// Package static provides non-interactive terminal output components.
//
// This package contains components for rendering formatted output
// that does not require user interaction, such as tables and
// formatted text displays.
package static

import (
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/raphi011/wsi/internal/cache"
	"github.com/raphi011/wsi/internal/format"
	"github.com/raphi011/wsi/internal/scan"
	"github.com/raphi011/wsi/internal/ui/styles"
)

// RepoHeaders are the column headers matching [RepoTableRow].
var RepoHeaders = []string{"NAME", "BRANCH", "STATUS", "PATH", "ORIGIN"}

// SummaryHeaders are the column headers matching [SummaryTableRow].
var SummaryHeaders = []string{"ROOT", "REPOS", "SCANNED"}

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// RepoTableRow formats a repository record for RenderTable.
// Paths are shown relative to root; origins link to their web page
// when one can be derived.
func RepoTableRow(r scan.Repo, root string) []string {
	origin := styles.FormatOptional(r.Origin)
	if r.Origin != nil {
		origin = styles.FormatLink(*r.Origin, format.WebURL(*r.Origin))
	}
	return []string{
		r.Name,
		styles.FormatOptional(r.Branch),
		styles.FormatStatus(r.Ahead, r.Behind, r.Unstaged),
		format.DisplayPath(r.Path, root),
		origin,
	}
}

// SummaryTableRow formats a cache summary for RenderTable.
// The scan time is shown relative to now.
func SummaryTableRow(s cache.Summary, now time.Time) []string {
	scanned := s.LastScan
	if t := s.ScannedAt(); !t.IsZero() {
		scanned = format.RelativeTimeFrom(t, now)
	}
	return []string{
		format.ShortenHome(s.Root),
		strconv.Itoa(s.Count),
		scanned,
	}
}
