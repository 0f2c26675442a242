// Package progress provides progress indication components.
//
// Spinners and progress bars render to stderr so stdout stays clean for
// tables and JSON/YAML. Callers should check [Interactive] first; both
// components assume a terminal.
package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
)

// stopTimeout bounds how long Stop waits for the last frame.
const stopTimeout = 500 * time.Millisecond

// Interactive reports whether f is a terminal that can show animated
// progress. Redirected output and TERM=dumb disable it.
func Interactive(f *os.File) bool {
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return colorprofile.Detect(f, os.Environ()) != colorprofile.NoTTY
}

// newProgram starts a non-interactive program rendering to stderr.
func newProgram(model tea.Model) *tea.Program {
	// Detect color profile for stderr (handles NO_COLOR etc.)
	profile := colorprofile.Detect(os.Stderr, os.Environ())
	return tea.NewProgram(model,
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(profile),
	)
}

// statusLine owns a program that renders one line on stderr and is fed
// from the scanning goroutines. It runs at most once.
type statusLine struct {
	mu      sync.Mutex
	program *tea.Program
	msgs    chan tea.Msg
	done    chan struct{}
	running bool
}

func (l *statusLine) start(model func(msgs <-chan tea.Msg) tea.Model) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running || l.done != nil {
		return
	}

	l.msgs = make(chan tea.Msg, 16)
	l.done = make(chan struct{})
	l.program = newProgram(model(l.msgs))
	l.running = true

	go func() {
		_, _ = l.program.Run()
		close(l.done)
	}()
}

// send hands msg to the program without blocking. Updates are dropped
// while the renderer is behind; the next one carries the full state.
func (l *statusLine) send(msg tea.Msg) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}
	select {
	case l.msgs <- msg:
	default:
	}
}

// stop quits the program and clears its line.
func (l *statusLine) stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	// closed under the lock so send never writes to a closed channel
	close(l.msgs)
	l.mu.Unlock()

	l.program.Quit()
	select {
	case <-l.done:
	case <-time.After(stopTimeout):
	}

	fmt.Fprint(os.Stderr, "\r\033[K")
}

// next waits for the caller's next update. A closed channel quits.
func next(msgs <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-msgs
		if !ok {
			return tea.Quit()
		}
		return msg
	}
}
