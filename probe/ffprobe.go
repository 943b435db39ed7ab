// Package probe measures the audio bitrate of produced files with ffprobe.
package probe

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/tapedeck-cli/tapedeck/log"
	"github.com/tidwall/gjson"
)

type runner func(ctx context.Context, binary string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	var stdout bytes.Buffer

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout

	err := cmd.Run()
	return stdout.Bytes(), err
}

// FFProbe reads stream information through the ffprobe executable.
type FFProbe struct {
	binary string
	run    runner
}

// New returns a probe invoking binary (a path or a name looked up in PATH).
func New(binary string) *FFProbe {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	return &FFProbe{binary: binary, run: execRunner}
}

// Bitrate returns the bitrate of the first audio stream of path in kbps.
// Any failure to measure is reported as 0.
func (f *FFProbe) Bitrate(ctx context.Context, path string) int {
	out, err := f.run(ctx, f.binary,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=bit_rate",
		"-of", "json",
		path,
	)
	if err != nil {
		log.WithFields(log.Fields{"path": path, "error": err}).Debug("bitrate probe failed")
		return 0
	}

	return parseBitrate(out)
}

func parseBitrate(out []byte) int {
	if !gjson.ValidBytes(out) {
		return 0
	}

	// ffprobe reports bit_rate as a string of bits per second
	bps := gjson.GetBytes(out, "streams.0.bit_rate").Int()
	if bps <= 0 {
		return 0
	}
	return int(bps / 1000)
}
