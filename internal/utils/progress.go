package utils

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Standard progress bar descriptions
const (
	DescLinting    = "Linting"
	DescResolving  = "Resolving"
	DescConverting = "Converting"
)

// NewProgressBar creates a consistently styled progress bar writing to w.
//
// A negative total renders a spinner; otherwise the bar shows the count and
// iterations per second. A nil writer discards the output.
//
// Example:
//
//	bar := utils.NewProgressBar(len(paths), utils.DescLinting, os.Stderr)
//	defer bar.Finish()
//
//	for range paths {
//	    bar.Add(1)
//	}
func NewProgressBar(total int, description string, w io.Writer) *progressbar.ProgressBar {
	if w == nil {
		w = io.Discard
	}

	opts := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionShowIts(),
		)
	}

	return progressbar.NewOptions(total, opts...)
}
