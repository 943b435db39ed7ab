package downloader

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/tapedeck-cli/tapedeck/color"
	"github.com/tapedeck-cli/tapedeck/icon"
	"github.com/tapedeck-cli/tapedeck/style"
	"github.com/tapedeck-cli/tapedeck/util"
)

// Progress is notified once per completed item, from the coordinating goroutine only.
type Progress interface {
	Done(r Result)
	Finish()
}

// NewProgress returns a bar when out is a terminal and plain lines otherwise.
func NewProgress(out *os.File, total int) Progress {
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		return newBar(out, total)
	}
	return &Lines{Out: out, Total: total}
}

type bar struct {
	bar *progressbar.ProgressBar
}

func newBar(out io.Writer, total int) *bar {
	return &bar{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)}
}

func (b *bar) Done(r Result) {
	_ = b.bar.Add(1)
}

func (b *bar) Finish() {
	_ = b.bar.Finish()
}

// Lines prints one line per completed item, for logs and pipes.
type Lines struct {
	Out   io.Writer
	Total int
	done  int
}

func (l *Lines) Done(r Result) {
	l.done++

	name := r.Item.URL
	if r.Path != "" {
		name = util.FileStem(r.Path)
	}

	_, _ = fmt.Fprintf(l.Out, "[%d/%d] %s %s\n", l.done, l.Total, OutcomeIcon(r.Outcome), name)
}

func (l *Lines) Finish() {}

// OutcomeIcon renders the colored icon of an outcome.
func OutcomeIcon(o Outcome) string {
	switch o {
	case Success:
		return style.Fg(color.Success)(icon.Get(icon.Success))
	case SkippedExisting:
		return style.Fg(color.Skipped)(icon.Get(icon.Skipped))
	case SkippedLowBitrate:
		return style.Fg(color.Skipped)(icon.Get(icon.LowBitrate))
	default:
		return style.Fg(color.Failure)(icon.Get(icon.Fail))
	}
}
