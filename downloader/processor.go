package downloader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tapedeck-cli/tapedeck/auth"
	"github.com/tapedeck-cli/tapedeck/filesystem"
	"github.com/tapedeck-cli/tapedeck/log"
	"github.com/tapedeck-cli/tapedeck/source"
	"github.com/tapedeck-cli/tapedeck/tagger"
)

// Processor runs the per-item state machine. It holds no per-item state and
// is shared by every worker.
type Processor struct {
	Engine  source.Engine
	Prober  Prober
	Tagger  Tagger
	Artwork ArtworkFetcher
	Options *Options
	// RunID is attached to every log line.
	RunID string
}

// Process downloads, validates, tags and renames one item.
// It never panics on item failures and never returns an error; the failure is
// part of the result.
func (p *Processor) Process(ctx context.Context, item source.Item) Result {
	logger := log.WithFields(log.Fields{"run": p.RunID, "url": item.URL})
	result := Result{Item: item}

	track, path, attempts, err := p.download(ctx, logger, item)
	result.Attempts = attempts
	if err != nil {
		logger.WithError(err).Error("download failed")
		return p.fail(result, err)
	}

	fs := filesystem.API()
	dir := p.Options.Dir

	exists, err := fs.Exists(path)
	if err != nil {
		return p.fail(result, err)
	}

	if !exists {
		final := filepath.Join(dir, track.CanonicalName())
		done, err := fs.Exists(final)
		if err != nil {
			return p.fail(result, err)
		}
		if done {
			logger.WithField("path", final).Info("already downloaded")
			result.Outcome = SkippedExisting
			result.Path = final
			return result
		}

		logger.WithField("path", path).Error("expected output is missing")
		return p.fail(result, fmt.Errorf("%w: %s", ErrNoOutput, filepath.Base(path)))
	}

	result.Bitrate = p.Prober.Bitrate(ctx, path)
	if result.Bitrate < p.Options.MinBitrate {
		logger.WithField("kbps", result.Bitrate).Warn("bitrate below minimum, deleting")
		if err = fs.Remove(path); err != nil {
			logger.WithError(err).Error("could not delete low bitrate file")
		}

		result.Outcome = SkippedLowBitrate
		result.Err = fmt.Errorf("%w: %d kbps < %d kbps", ErrLowBitrate, result.Bitrate, p.Options.MinBitrate)
		return result
	}

	tags := tagger.Tags{
		Title:  track.TitleOrDefault(),
		Artist: track.ArtistOrDefault(),
		Album:  p.Options.Album,
	}
	if err = p.Tagger.WriteTags(path, tags); err != nil {
		logger.WithError(err).Error("tagging failed")
		return p.fail(result, err)
	}

	if p.Options.Artwork {
		p.embedArtwork(ctx, logger, path, track, item)
	}

	final, err := Move(path, dir, track.CanonicalName())
	if err != nil {
		logger.WithError(err).Error("rename failed")
		return p.fail(result, err)
	}

	logger.WithFields(log.Fields{"path": final, "kbps": result.Bitrate}).Info("done")
	result.Outcome = Success
	result.Path = final
	return result
}

// download makes the anonymous attempt and, when the failure looks
// authentication related and a credentialed bundle exists, exactly one more.
func (p *Processor) download(ctx context.Context, logger *log.Entry, item source.Item) (*source.Track, string, int, error) {
	track, path, err := p.Engine.Download(ctx, item.URL, p.Options.Anonymous)
	if err == nil {
		return track, path, 1, nil
	}

	credentialed, ok := p.Options.Credentialed.Get()
	if !ok || !auth.ShouldRetry(err) {
		return nil, "", 1, &DownloadError{URL: item.URL, Attempts: 1, Err: err}
	}

	logger.WithError(err).Info("retrying with cookies")

	track, path, err = p.Engine.Download(ctx, item.URL, credentialed)
	if err != nil {
		return nil, "", 2, &DownloadError{URL: item.URL, Attempts: 2, Err: err}
	}
	return track, path, 2, nil
}

// embedArtwork is best effort: failures are logged and never fail the item.
func (p *Processor) embedArtwork(ctx context.Context, logger *log.Entry, path string, track *source.Track, item source.Item) {
	url, ok := track.Thumbnail.Get()
	if !ok {
		url, ok = item.Thumbnail.Get()
	}
	if !ok || url == "" {
		return
	}

	cover, err := p.Artwork.Fetch(ctx, url)
	if err == nil {
		err = p.Tagger.EmbedCover(path, cover)
	}

	if err != nil {
		logger.WithError(err).WithField("thumbnail", url).Warn("artwork not embedded")
	}
}

func (p *Processor) fail(result Result, err error) Result {
	result.Outcome = Failed
	result.Err = err

	var downloadErr *DownloadError
	if errors.As(err, &downloadErr) {
		result.Attempts = downloadErr.Attempts
	}
	return result
}
