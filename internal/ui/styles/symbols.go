package styles

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Symbols holds the status markers based on nerdfont configuration
type Symbols struct {
	Ahead  string
	Behind string
	Dirty  string
	Clean  string
}

// Default symbols
var defaultSymbols = Symbols{
	Ahead:  "↑",
	Behind: "↓",
	Dirty:  "*",
	Clean:  "✓",
}

// Nerd font symbols
var nerdfontSymbols = Symbols{
	Ahead:  "\uf062", // nf-fa-arrow_up
	Behind: "\uf063", // nf-fa-arrow_down
	Dirty:  "\uf111", // nf-fa-circle
	Clean:  "\uf00c", // nf-fa-check
}

var useNerdfont bool

var currentSymbols = defaultSymbols

// SetNerdfont enables or disables nerd font symbols
func SetNerdfont(enabled bool) {
	useNerdfont = enabled
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = defaultSymbols
	}
}

// NerdfontEnabled returns whether nerd font symbols are enabled
func NerdfontEnabled() bool {
	return useNerdfont
}

// CurrentSymbols returns the current symbol set
func CurrentSymbols() Symbols {
	return currentSymbols
}

// StatusText returns the unstyled status marker, e.g. "↑ ↓ *".
// A repository with nothing to report gets the clean marker.
func StatusText(ahead, behind, unstaged bool) string {
	var parts []string
	if ahead {
		parts = append(parts, currentSymbols.Ahead)
	}
	if behind {
		parts = append(parts, currentSymbols.Behind)
	}
	if unstaged {
		parts = append(parts, currentSymbols.Dirty)
	}
	if len(parts) == 0 {
		return currentSymbols.Clean
	}
	return strings.Join(parts, " ")
}

// FormatStatus returns the status marker colored by severity:
// warning when anything is pending, success otherwise.
func FormatStatus(ahead, behind, unstaged bool) string {
	text := StatusText(ahead, behind, unstaged)
	if ahead || behind || unstaged {
		return WarningStyle.Render(text)
	}
	return SuccessStyle.Render(text)
}

// FormatOptional renders v, or a muted "-" when it is nil.
func FormatOptional(v *string) string {
	if v == nil {
		return MutedStyle.Render("-")
	}
	return *v
}

// FormatLink renders text with an OSC 8 hyperlink to url.
// An empty url renders plain text.
func FormatLink(text, url string) string {
	if url == "" {
		return text
	}
	styled := lipgloss.NewStyle().Underline(true).Render(text)
	return ansi.SetHyperlink(url) + styled + ansi.ResetHyperlink()
}
