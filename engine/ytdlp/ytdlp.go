// Package ytdlp drives the yt-dlp executable as the extraction engine.
package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tapedeck-cli/tapedeck/constant"
	"github.com/tapedeck-cli/tapedeck/log"
	"github.com/tapedeck-cli/tapedeck/source"
	"github.com/tapedeck-cli/tapedeck/util"
)

// Name is the registry identifier of this engine.
const Name = "yt-dlp"

// runner executes binary and returns its standard output and error streams.
type runner func(ctx context.Context, binary string, args ...string) (stdout, stderr []byte, err error)

func execRunner(ctx context.Context, binary string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Error is a failed engine invocation. Its message carries the engine's own
// error text so that callers can classify it.
type Error struct {
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", Name, e.Err)
	}
	return fmt.Sprintf("%s: %s (%v)", Name, e.Stderr, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// YtDlp implements source.Engine on top of the yt-dlp command line.
type YtDlp struct {
	binary string
	run    runner
}

// New returns an engine invoking binary (a path or a name looked up in PATH).
func New(binary string) *YtDlp {
	if strings.TrimSpace(binary) == "" {
		binary = Name
	}
	return &YtDlp{binary: binary, run: execRunner}
}

// Name returns the engine identifier.
func (y *YtDlp) Name() string {
	return Name
}

// Version returns the output of yt-dlp --version.
func (y *YtDlp) Version(ctx context.Context) (string, error) {
	out, stderr, err := y.run(ctx, y.binary, "--version")
	if err != nil {
		return "", &Error{Stderr: errorText(stderr), Err: err}
	}
	return strings.TrimSpace(string(out)), nil
}

// List resolves url in flat mode: playlist entries are listed, not extracted.
func (y *YtDlp) List(ctx context.Context, url string, cookieFile string) (*source.Listing, error) {
	args := []string{"--flat-playlist", "--dump-single-json", "--quiet", "--no-warnings"}
	args = appendCookies(args, cookieFile)
	args = append(args, "--", url)

	out, err := y.invoke(ctx, args)
	if err != nil {
		return nil, err
	}

	return parseListing(out)
}

// Download retrieves url, converts it to the output container and reports the
// produced path. Items already in the ledger are skipped by yt-dlp, which then
// prints nothing; the metadata is fetched separately so the caller can still
// locate a previously renamed file.
func (y *YtDlp) Download(ctx context.Context, url string, options source.Options) (*source.Track, string, error) {
	args := []string{
		"-f", options.Format,
		"-x",
		"--audio-format", constant.AudioFormat,
		"--audio-quality", constant.AudioQuality,
		"-o", options.OutputTemplate,
		"--no-simulate",
		"--dump-json",
		"--quiet",
		"--no-warnings",
		"--no-progress",
	}
	if options.Ledger != "" {
		args = append(args, "--download-archive", options.Ledger)
	}
	args = appendCookies(args, options.CookieFile)
	args = append(args, "--", url)

	out, err := y.invoke(ctx, args)
	if err != nil {
		return nil, "", err
	}

	line := lastJSONLine(out)
	if line == nil {
		log.WithFields(log.Fields{"url": url}).Debug("engine printed nothing, item is in the ledger")

		probe := []string{"--skip-download", "--dump-json", "--quiet", "--no-warnings", "-o", options.OutputTemplate}
		probe = appendCookies(probe, options.CookieFile)
		probe = append(probe, "--", url)

		if out, err = y.invoke(ctx, probe); err != nil {
			return nil, "", err
		}
		if line = lastJSONLine(out); line == nil {
			return nil, "", &Error{Err: errors.New("no metadata reported")}
		}
	}

	track, filename, err := parseTrack(line)
	if err != nil {
		return nil, "", err
	}

	return track, util.ReplaceExt(filename, constant.Extension), nil
}

func (y *YtDlp) invoke(ctx context.Context, args []string) ([]byte, error) {
	log.Debugf("%s %s", y.binary, strings.Join(args, " "))

	out, stderr, err := y.run(ctx, y.binary, args...)
	if err != nil {
		return nil, &Error{Stderr: errorText(stderr), Err: err}
	}
	return out, nil
}

func appendCookies(args []string, cookieFile string) []string {
	if cookieFile == "" {
		return args
	}
	return append(args, "--cookies", cookieFile)
}

// errorText keeps the ERROR lines of the engine's stderr, or all of it when there are none.
func errorText(stderr []byte) string {
	var lines []string
	for _, line := range strings.Split(string(stderr), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "ERROR:") {
			lines = append(lines, strings.TrimSpace(line))
		}
	}

	if len(lines) == 0 {
		return strings.TrimSpace(string(stderr))
	}
	return strings.Join(lines, "; ")
}
