package downloader

import (
	"errors"
	"fmt"

	"github.com/tapedeck-cli/tapedeck/source"
)

// Outcome is the terminal state of one processed item.
type Outcome int

const (
	Success Outcome = iota
	SkippedExisting
	SkippedLowBitrate
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case SkippedExisting:
		return "skipped (existing)"
	case SkippedLowBitrate:
		return "skipped (low bitrate)"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

var (
	// ErrNoOutput means the engine reported success but the expected file is missing.
	ErrNoOutput = errors.New("download produced no file")
	// ErrLowBitrate means the produced file was under the bitrate floor and was deleted.
	ErrLowBitrate = errors.New("bitrate below minimum")
)

// DownloadError is a download that failed after at most one credentialed retry.
type DownloadError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Result is what a worker reports for one item.
type Result struct {
	Item    source.Item
	Outcome Outcome
	// Path is the final file, empty unless the file is on disk.
	Path     string
	Bitrate  int
	Attempts int
	Err      error
}

// Failure is a per-item failure as printed after the run.
type Failure struct {
	URL     string `json:"url" jsonschema:"description=Page URL of the item"`
	Outcome string `json:"outcome" jsonschema:"enum=failed,enum=skipped (low bitrate)"`
	Message string `json:"message"`
}

// Summary aggregates the outcomes of a run. It holds counts only, items may
// complete in any order.
type Summary struct {
	RunID             string    `json:"run_id"`
	Source            string    `json:"source"`
	Dir               string    `json:"dir"`
	Total             int       `json:"total"`
	Success           int       `json:"success"`
	SkippedExisting   int       `json:"skipped_existing"`
	SkippedLowBitrate int       `json:"skipped_low_bitrate"`
	Failed            int       `json:"failed"`
	Failures          []Failure `json:"failures"`
}

// Add records one result.
func (s *Summary) Add(r Result) {
	switch r.Outcome {
	case Success:
		s.Success++
	case SkippedExisting:
		s.SkippedExisting++
	case SkippedLowBitrate:
		s.SkippedLowBitrate++
	case Failed:
		s.Failed++
	}

	if r.Err != nil && r.Outcome != SkippedExisting {
		s.Failures = append(s.Failures, Failure{
			URL:     r.Item.URL,
			Outcome: r.Outcome.String(),
			Message: r.Err.Error(),
		})
	}
}

// Completed returns the number of items with a recorded outcome.
func (s *Summary) Completed() int {
	return s.Success + s.SkippedExisting + s.SkippedLowBitrate + s.Failed
}
