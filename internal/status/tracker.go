// Package status aggregates live trial progress and persists results. It is
// the single shared mutable state of a run: one lock guards the counters,
// both result writers, and the status line, so concurrently completing
// trials cannot interleave output or lose updates.
package status

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/credprobe/credprobe/internal/credentials"
	"github.com/credprobe/credprobe/internal/targets"
)

const defaultWidth = 80

// Tracker is the thread-safe progress aggregate for a run.
type Tracker struct {
	mu          sync.Mutex
	total       int
	completed   int
	valid       int
	unreachable map[targets.Target]string

	sink   *Sink
	out    io.Writer
	width  func() int
	logger *slog.Logger
}

// NewTracker creates a tracker for a run of total trials. width reports the
// terminal column budget and is re-read on every render; nil means a fixed
// 80 columns.
func NewTracker(total int, sink *Sink, out io.Writer, width func() int, logger *slog.Logger) *Tracker {
	if width == nil {
		width = func() int { return defaultWidth }
	}
	return &Tracker{
		total:       total,
		unreachable: make(map[targets.Target]string),
		sink:        sink,
		out:         out,
		width:       width,
		logger:      logger,
	}
}

// TerminalWidth returns a width func bound to f, falling back to the
// default when f is not a terminal.
func TerminalWidth(f *os.File) func() int {
	return func() int {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
		return defaultWidth
	}
}

// SetCurrent re-renders the status line for a trial about to hit the wire.
func (t *Tracker) SetCurrent(target targets.Target, cred credentials.Credential) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.render(target, cred)
}

// Complete records a finished driver attempt. On success the credential is
// persisted and announced before the status line is redrawn.
func (t *Tracker) Complete(target targets.Target, cred credentials.Credential, success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completed++

	outcome := "FAILED"
	if success {
		outcome = "SUCCESS"
	}
	if err := t.sink.Attempt(outcome, target, cred, ""); err != nil {
		t.logger.Error("failed to write log line", "error", err)
	}

	if success {
		t.valid++
		if err := t.sink.Valid(target, cred); err != nil {
			t.logger.Error("failed to persist valid credential", "error", err)
		}
		fmt.Fprintf(t.out, "\r\x1b[K[+] VALID: %s - %s:%s\n", target, cred.Username, cred.Password)
	}

	t.render(target, cred)
}

// Skip records a trial that never reached the driver because its target was
// already marked unreachable. Skipped trials still count toward completed.
func (t *Tracker) Skip(target targets.Target, cred credentials.Credential, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completed++
	if err := t.sink.Attempt("SKIPPED", target, cred, reason); err != nil {
		t.logger.Error("failed to write log line", "error", err)
	}
	t.render(target, cred)
}

// MarkUnreachable registers a dead target. It reports true for exactly the
// first caller per target; only that caller's console notice is printed, so
// concurrent discovery cannot announce twice.
func (t *Tracker) MarkUnreachable(target targets.Target, reason string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, seen := t.unreachable[target]; seen {
		return false
	}
	t.unreachable[target] = reason
	fmt.Fprintf(t.out, "\n[!] Marking %s as unreachable: %s\n", target, reason)
	return true
}

// Finish clears the status line.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, "\r\x1b[K")
}

// Snapshot returns the current counters. completed is monotonically
// non-decreasing and bounded by total; valid never exceeds completed.
func (t *Tracker) Snapshot() (completed, valid, unreachableHosts int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed, t.valid, len(t.unreachable)
}

// render redraws the single status line in place, truncated to the current
// terminal width so it never wraps. Callers must hold t.mu.
func (t *Tracker) render(target targets.Target, cred credentials.Credential) {
	pct := 0.0
	if t.total > 0 {
		pct = float64(t.completed) / float64(t.total) * 100
	}

	line := fmt.Sprintf("[%d/%d (%.1f%%)] Valid: %d | Testing: %s - %s:%s",
		t.completed, t.total, pct, t.valid, target, cred.Username, cred.Password)

	if cols := t.width(); len(line) > cols {
		if cols > 3 {
			line = line[:cols-3] + "..."
		} else {
			line = line[:cols]
		}
	}

	fmt.Fprintf(t.out, "\r\x1b[K%s", line)
}
