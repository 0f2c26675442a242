package progress

import (
	"fmt"
	"sync"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/wsi/internal/ui/styles"
)

// inspectedMsg carries the bar state after one more repository.
type inspectedMsg struct {
	done      int
	attention int
	name      string
}

// ProgressBar tracks repository inspection: how many are done, how many
// need attention, and which one finished last.
type ProgressBar struct {
	line  statusLine
	total int

	mu    sync.Mutex
	state inspectedMsg
}

// NewProgressBar creates a bar for total repositories.
func NewProgressBar(total int) *ProgressBar {
	return &ProgressBar{total: total}
}

// Start begins rendering.
func (p *ProgressBar) Start() {
	p.mu.Lock()
	state := p.state
	p.mu.Unlock()

	p.line.start(func(msgs <-chan tea.Msg) tea.Model {
		return inspectionModel{
			bar: progress.New(
				progress.WithWidth(30),
				progress.WithoutPercentage(),
				progress.WithColors(styles.Primary, styles.Accent),
			),
			total: p.total,
			state: state,
			msgs:  msgs,
		}
	})
}

// Inspected records that done repositories are finished, the last being
// name. attention marks it as needing attention.
func (p *ProgressBar) Inspected(done int, name string, attention bool) {
	p.mu.Lock()
	p.state.done = done
	p.state.name = name
	if attention {
		p.state.attention++
	}
	msg := p.state
	p.mu.Unlock()

	p.line.send(msg)
}

// Stop ends rendering and clears the line.
func (p *ProgressBar) Stop() {
	p.line.stop()
}

// Total returns the number of repositories being inspected.
func (p *ProgressBar) Total() int {
	return p.total
}

// Current returns the number inspected so far.
func (p *ProgressBar) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.done
}

// Attention returns how many inspected repositories need attention.
func (p *ProgressBar) Attention() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.attention
}

type inspectionModel struct {
	bar   progress.Model
	total int
	state inspectedMsg
	msgs  <-chan tea.Msg
}

func (m inspectionModel) Init() tea.Cmd {
	return next(m.msgs)
}

func (m inspectionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(inspectedMsg); ok {
		m.state = msg
		return m, next(m.msgs)
	}
	var cmd tea.Cmd
	m.bar, cmd = m.bar.Update(msg)
	return m, cmd
}

func (m inspectionModel) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return float64(m.state.done) / float64(m.total)
}

// text is the status line after the bar: "12/30 api (3 need attention)".
func (m inspectionModel) text() string {
	s := fmt.Sprintf("%d/%d", m.state.done, m.total)
	if m.state.name != "" {
		s += " " + m.state.name
	}
	if m.state.attention > 0 {
		s += fmt.Sprintf(" (%d need attention)", m.state.attention)
	}
	return s
}

func (m inspectionModel) View() tea.View {
	return tea.NewView(m.bar.ViewAs(m.percent()) + " " + m.text())
}
