package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// Progress reports how many competences have been fetched so far. The total
// is unknown up front, so it renders as a spinner with a running count.
type Progress struct {
	bar  *progressbar.ProgressBar
	last int
}

// NewProgress creates a spinner writing to w.
func NewProgress(w io.Writer, description string) *Progress {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return &Progress{bar: bar}
}

// Update moves the counter to fetched. It matches api.PageFunc.
func (p *Progress) Update(fetched int) {
	if delta := fetched - p.last; delta > 0 {
		if err := p.bar.Add(delta); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
		p.last = fetched
	}
}

// Done finishes the spinner.
func (p *Progress) Done() {
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}
