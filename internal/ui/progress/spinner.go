package progress

import (
	"fmt"
	"sync"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/wsi/internal/ui/styles"
)

// foundMsg reports the latest repository found by the walk.
type foundMsg struct {
	count int
	name  string
}

// Spinner shows a directory walk in progress with a running repository count.
type Spinner struct {
	line statusLine
	root string

	mu    sync.Mutex
	found foundMsg
}

// NewSpinner creates a spinner for walking root (a display path).
func NewSpinner(root string) *Spinner {
	return &Spinner{root: root}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	found := s.found
	s.mu.Unlock()

	s.line.start(func(msgs <-chan tea.Msg) tea.Model {
		return discoveryModel{
			spinner: spinner.New(
				spinner.WithSpinner(spinner.Dot),
				spinner.WithStyle(styles.PrimaryStyle),
			),
			root:  s.root,
			found: found,
			msgs:  msgs,
		}
	})
}

// Found records the count-th repository, named name.
func (s *Spinner) Found(name string, count int) {
	msg := foundMsg{count: count, name: name}

	s.mu.Lock()
	s.found = msg
	s.mu.Unlock()

	s.line.send(msg)
}

// Count returns the number of repositories reported so far.
func (s *Spinner) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.found.count
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	s.line.stop()
}

type discoveryModel struct {
	spinner spinner.Model
	root    string
	found   foundMsg
	msgs    <-chan tea.Msg
}

func (m discoveryModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, next(m.msgs))
}

func (m discoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(foundMsg); ok {
		m.found = msg
		return m, next(m.msgs)
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// text is the status line without the spinner glyph.
func (m discoveryModel) text() string {
	s := "Discovering repositories in " + m.root
	if m.found.count == 0 {
		return s
	}
	return fmt.Sprintf("%s: %d found, last %s", s, m.found.count, m.found.name)
}

func (m discoveryModel) View() tea.View {
	return tea.NewView(m.spinner.View() + " " + m.text())
}
