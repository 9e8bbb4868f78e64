package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// spinnerLine is what the spinner suffix is rendered from on every tick
type spinnerLine struct {
	stage   usecase.ExecutionStage
	message string
	start   time.Time
}

// SpinnerProgress renders deployment progress as a spinner on out (stderr).
// Stdout is never written to.
type SpinnerProgress struct {
	out     io.Writer
	spinner *spinner.Spinner
	line    atomic.Pointer[spinnerLine]

	mu     sync.Mutex
	stage  usecase.ExecutionStage
	stages []StageTiming
}

// StageTiming is how long a finished stage took
type StageTiming struct {
	Stage    usecase.ExecutionStage
	Duration time.Duration
}

// NewSpinnerProgress creates a spinner-based progress sink writing to out
func NewSpinnerProgress(out io.Writer) *SpinnerProgress {
	p := &SpinnerProgress{out: out}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false
	// PreUpdate runs under the spinner's own lock; it only reads the atomic line
	s.PreUpdate = func(s *spinner.Spinner) {
		if line := p.line.Load(); line != nil {
			s.Suffix = renderLine(line, time.Since(line.start))
		}
	}
	p.spinner = s
	return p
}

// OnProgress handles progress events
func (p *SpinnerProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if event.Stage != p.stage {
		if prev := p.line.Load(); prev != nil && p.stage != "" {
			p.stages = append(p.stages, StageTiming{Stage: p.stage, Duration: now.Sub(prev.start)})
		}
		p.stage = event.Stage
		p.line.Store(&spinnerLine{stage: event.Stage, message: event.Message, start: now})
	} else if event.Message != "" {
		start := now
		if prev := p.line.Load(); prev != nil {
			start = prev.start
		}
		p.line.Store(&spinnerLine{stage: event.Stage, message: event.Message, start: start})
	}

	if event.Spinner && event.Stage != usecase.StageCompleted {
		if !p.spinner.Active() {
			p.spinner.Suffix = renderLine(p.line.Load(), 0)
			p.spinner.Start()
		}
		return
	}
	if p.spinner.Active() {
		p.spinner.Stop()
	}
}

// Info prints an info message
func (p *SpinnerProgress) Info(message string) {
	p.printPaused(color.New(color.FgCyan), message)
}

// Stages returns the stages that have finished and how long each took
func (p *SpinnerProgress) Stages() []StageTiming {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]StageTiming(nil), p.stages...)
}

// printPaused stops the spinner while message is printed so the two do not interleave
func (p *SpinnerProgress) printPaused(c *color.Color, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	wasActive := p.spinner.Active()
	if wasActive {
		p.spinner.Stop()
	}

	_, _ = c.Fprintln(p.out, message)

	if wasActive {
		p.spinner.Start()
	}
}

func renderLine(line *spinnerLine, elapsed time.Duration) string {
	if line == nil {
		return ""
	}
	suffix := fmt.Sprintf(" %s %s", color.New(color.FgYellow).Sprint(line.stage), line.message)
	if elapsed >= time.Second {
		suffix += color.New(color.Faint).Sprintf(" (%s)", elapsed.Round(time.Second))
	}
	return suffix
}

// Ensure SpinnerProgress implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgress)(nil)
