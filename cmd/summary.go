package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wrap"
	"github.com/tapedeck-cli/tapedeck/color"
	"github.com/tapedeck-cli/tapedeck/downloader"
	"github.com/tapedeck-cli/tapedeck/icon"
	"github.com/tapedeck-cli/tapedeck/style"
	"github.com/tapedeck-cli/tapedeck/util"
)

// printSummary renders the outcome counts as a table followed by the failures.
func printSummary(out io.Writer, s *downloader.Summary) {
	if s.Total == 0 {
		_, _ = fmt.Fprintf(out, "%s nothing to download from %s\n", style.Fg(color.Skipped)(icon.Get(icon.Info)), s.Source)
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"", "Outcome", "Items"})
	tw.AppendRows([]table.Row{
		{downloader.OutcomeIcon(downloader.Success), "Downloaded", s.Success},
		{downloader.OutcomeIcon(downloader.SkippedExisting), "Already present", s.SkippedExisting},
		{downloader.OutcomeIcon(downloader.SkippedLowBitrate), "Below bitrate", s.SkippedLowBitrate},
		{downloader.OutcomeIcon(downloader.Failed), "Failed", s.Failed},
	})
	tw.AppendFooter(table.Row{"", "Total", s.Total})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	_, _ = fmt.Fprintln(out, tw.Render())

	width := 80
	if w, _, err := util.TerminalSize(); err == nil && w > 20 {
		width = w
	}

	for _, f := range s.Failures {
		_, _ = fmt.Fprintf(out, "%s %s\n", style.Fg(color.Failure)(icon.Get(icon.Fail)), style.Bold(f.URL))
		_, _ = fmt.Fprintln(out, indent.String(wrap.String(style.Faint(f.Message), width-4), 4))
	}

	_, _ = fmt.Fprintf(out, "%s saved to %s\n",
		util.Quantify(s.Success, "file", "files"),
		style.Fg(color.Accent)(s.Dir),
	)
	_, _ = fmt.Fprintln(out, style.Faint(fmt.Sprintf("run %s, %d of %d processed", s.RunID, s.Completed(), s.Total)))
}
