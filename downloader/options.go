// Package downloader processes resolved items in parallel: download, validate,
// tag and rename each one, then aggregate the outcomes.
package downloader

import (
	"context"

	"github.com/samber/mo"
	"github.com/tapedeck-cli/tapedeck/source"
	"github.com/tapedeck-cli/tapedeck/tagger"
)

// Options is shared read-only by every worker of a run.
type Options struct {
	// Dir is the absolute output directory.
	Dir        string
	MinBitrate int
	Artwork    bool
	Album      string

	Anonymous source.Options
	// Credentialed is present only when authentication is enabled and a cookie file exists.
	Credentialed mo.Option[source.Options]
}

// Prober measures the audio bitrate of a file in kbps, 0 when it cannot.
type Prober interface {
	Bitrate(ctx context.Context, path string) int
}

// Tagger writes metadata into a produced file.
type Tagger interface {
	WriteTags(path string, tags tagger.Tags) error
	EmbedCover(path string, jpeg []byte) error
}

// ArtworkFetcher downloads a thumbnail as JPEG bytes.
type ArtworkFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
