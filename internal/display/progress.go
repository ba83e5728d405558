package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/backmassage/sbsconv/internal/term"
)

// Progress tracks two nested completion contexts: the outer one counts
// shots across the run, the inner one counts frames within the active shot.
// It is a pure aggregator; it never influences conversion outcomes.
//
// All updates go through the mutex, so dispatcher workers may report
// completions concurrently. Counters only ever increase, keeping both
// percentages monotonically non-decreasing within a run.
type Progress struct {
	mu  sync.Mutex
	out io.Writer
	tty bool

	startedAt time.Time

	shotsTotal int
	shotsDone  int

	shotName    string
	framesTotal int
	framesDone  int

	lineWidth int // width of the last rendered line, for clean repaint
}

// NewProgress returns a Progress for a run over shotsTotal shots, rendering
// to stdout. The live progress line is only drawn on a TTY; on plain output
// the per-shot log lines carry the same information.
func NewProgress(shotsTotal int) *Progress {
	return &Progress{
		out:        os.Stdout,
		tty:        term.IsTerminal(os.Stdout),
		startedAt:  time.Now(),
		shotsTotal: shotsTotal,
	}
}

// NewProgressWriter is like NewProgress but renders to w, with the live
// line forced on. Used by tests.
func NewProgressWriter(shotsTotal int, w io.Writer) *Progress {
	return &Progress{
		out:        w,
		tty:        true,
		startedAt:  time.Now(),
		shotsTotal: shotsTotal,
	}
}

// StartShot switches the inner context to the given shot. The outer counter
// is unchanged; the shot counts as done only when ShotDone is called.
func (p *Progress) StartShot(name string, framesTotal int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shotName = name
	p.framesTotal = framesTotal
	p.framesDone = 0
	p.render()
}

// FrameDone records one completed frame (converted or failed) in the active
// shot. Called by dispatcher workers after finalization.
func (p *Progress) FrameDone() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.framesDone < p.framesTotal {
		p.framesDone++
	}
	p.render()
}

// ShotDone advances the outer counter and clears the live line so the
// per-shot summary can be logged beneath it.
func (p *Progress) ShotDone() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shotsDone < p.shotsTotal {
		p.shotsDone++
	}
	p.clear()
}

// ClearLine erases the live line so a log line can be printed without the
// two interleaving. The next update repaints.
func (p *Progress) ClearLine() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clear()
}

// Finish clears any remaining live line at the end of the run.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clear()
}

// Snapshot returns the current counters: shots done/total, frames done/total.
func (p *Progress) Snapshot() (int, int, int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shotsDone, p.shotsTotal, p.framesDone, p.framesTotal
}

// render repaints the live progress line. Caller holds the mutex.
func (p *Progress) render() {
	if !p.tty {
		return
	}
	elapsed := time.Since(p.startedAt)
	line := fmt.Sprintf("Shots %d/%d (%s) | %s %d/%d (%s) | %s",
		p.shotsDone, p.shotsTotal, FormatPercent(p.shotsDone, p.shotsTotal),
		p.shotName, p.framesDone, p.framesTotal, FormatPercent(p.framesDone, p.framesTotal),
		FormatDuration(elapsed))

	pad := ""
	if w := len(line); w < p.lineWidth {
		pad = strings.Repeat(" ", p.lineWidth-w)
	}
	fmt.Fprint(p.out, "\r"+line+pad)
	p.lineWidth = len(line)
}

// clear erases the live line. Caller holds the mutex.
func (p *Progress) clear() {
	if !p.tty || p.lineWidth == 0 {
		return
	}
	fmt.Fprint(p.out, "\r"+strings.Repeat(" ", p.lineWidth)+"\r")
	p.lineWidth = 0
}
