package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/panbanda/husk/pkg/analyzer"
)

// Tracker wraps a progress bar for file processing.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	w     io.Writer
}

// NewTracker creates a progress bar on w with the given label and total count.
func NewTracker(w io.Writer, label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label, w: w}
}

// Set moves the bar to current of total. Safe for concurrent use.
func (t *Tracker) Set(current, total int) {
	if int64(total) != t.bar.GetMax64() {
		t.bar.ChangeMax(total)
	}
	_ = t.bar.Set(current)
}

// FinishSuccess clears the bar completely (no output).
func (t *Tracker) FinishSuccess() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}

// FinishError clears the bar and prints an error message.
func (t *Tracker) FinishError(err error) {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
	fmt.Fprintf(t.w, "  %s error: %v\n", t.label, err)
}

// Phases shows one bar per analysis phase. Its Report method is an
// analyzer.ProgressFunc.
type Phases struct {
	mu      sync.Mutex
	w       io.Writer
	phase   analyzer.Phase
	current *Tracker
}

// NewPhases creates a phase display writing to w.
func NewPhases(w io.Writer) *Phases {
	return &Phases{w: w}
}

// Report advances the bar of phase, replacing the previous phase's bar.
func (p *Phases) Report(phase analyzer.Phase, current, total int, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil || phase != p.phase {
		if p.current != nil {
			p.current.FinishSuccess()
		}
		p.phase = phase
		p.current = NewTracker(p.w, phase.String(), total)
	}
	p.current.Set(current, total)
}

// Finish clears the last bar.
func (p *Phases) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.FinishSuccess()
		p.current = nil
	}
}

// Phase returns the phase of the bar being shown.
func (p *Phases) Phase() analyzer.Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}
