package output

import (
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

// ProgressFormatter renders fingerprinting stages as a live progress bar and
// delegates everything else to the human formatter. Progress callbacks arrive
// from the pool's reporting side only, never directly from workers.
type ProgressFormatter struct {
	HumanFormatter

	bar       *pb.ProgressBar
	termWidth int
}

// NewProgressFormatter creates a progress-bar formatter writing to stdout
func NewProgressFormatter(quiet, verbose bool) *ProgressFormatter {
	f := &ProgressFormatter{
		HumanFormatter: *NewHumanFormatter(quiet, verbose),
	}

	// Clamp the bar to the terminal so redraw lines never wrap
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		f.termWidth = width
	} else {
		f.termWidth = 120
	}

	return f
}

// FingerprintStart begins a fingerprinting stage with a fresh bar
func (f *ProgressFormatter) FingerprintStart(label string, total int) {
	f.HumanFormatter.FingerprintStart(label, total)
	if f.quiet || total == 0 {
		return
	}

	f.bar = pb.New(total).
		SetMaxWidth(f.termWidth).
		Set(pb.Bytes, false).
		SetTemplateString(`{{counters . }} {{bar . }} {{percent . }} {{string . "rate"}}`)
	f.bar.Start()
}

// FingerprintProgress advances the bar
func (f *ProgressFormatter) FingerprintProgress(done, total int, rate float64, elapsed time.Duration) {
	if f.bar == nil {
		return
	}
	f.bar.SetCurrent(int64(done))
	f.bar.Set("rate", fmt.Sprintf("%.1f files/s", rate))
}

// FingerprintMessage renders a verbose message above the bar
func (f *ProgressFormatter) FingerprintMessage(msg string) {
	if !f.verbose || f.quiet {
		return
	}
	if f.bar != nil {
		// The bar redraws itself on the next tick
		fmt.Fprintf(f.writer, "\r\033[K  %s\n", msg)
		return
	}
	f.HumanFormatter.FingerprintMessage(msg)
}

// FingerprintDone finishes and clears the current bar
func (f *ProgressFormatter) FingerprintDone() {
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}
