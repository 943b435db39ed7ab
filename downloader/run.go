package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/tapedeck-cli/tapedeck/constant"
	"github.com/tapedeck-cli/tapedeck/filesystem"
	"github.com/tapedeck-cli/tapedeck/log"
	"github.com/tapedeck-cli/tapedeck/resolver"
	"github.com/tapedeck-cli/tapedeck/source"
	"github.com/tapedeck-cli/tapedeck/where"
)

// ErrEmptyURL is returned when a run is started without a source URL.
var ErrEmptyURL = errors.New("source URL is empty")

// Config is the operator input of one run, built once and passed down.
type Config struct {
	URL string
	// Folder is the output folder; relative folders are anchored at the program location.
	Folder     string
	Workers    int
	MinBitrate int
	Artwork    bool
	Album      string
	Format     string
	// Auth enables the credentialed retry. It has no effect without CookieFile.
	Auth       bool
	CookieFile string
}

// Dependencies are the external tools a run drives.
type Dependencies struct {
	Engine   source.Engine
	Prober   Prober
	Tagger   Tagger
	Artwork  ArtworkFetcher
	Progress func(total int) Progress
}

// Run resolves cfg.URL, processes every item and returns the summary.
// Only setup and resolution failures are returned as errors.
func Run(ctx context.Context, cfg Config, deps Dependencies) (*Summary, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, ErrEmptyURL
	}

	runID := uuid.NewString()
	logger := log.WithFields(log.Fields{"run": runID, "source": url})

	dir := where.Downloads(cfg.Folder)
	if err := filesystem.API().MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create output folder: %w", err)
	}

	summary := &Summary{RunID: runID, Source: url, Dir: dir, Failures: []Failure{}}

	useAuth := cfg.Auth && cfg.CookieFile != ""
	items, err := resolver.Resolve(ctx, deps.Engine, url, useAuth, cfg.CookieFile)
	if err != nil {
		logger.WithError(err).Error("resolution failed")
		return nil, err
	}

	if len(items) == 0 {
		logger.Info("nothing to download")
		return summary, nil
	}

	options := NewOptions(dir, cfg)
	logger.WithFields(log.Fields{
		"items":   len(items),
		"workers": cfg.Workers,
		"auth":    options.Credentialed.IsPresent(),
	}).Info("starting")

	processor := &Processor{
		Engine:  deps.Engine,
		Prober:  deps.Prober,
		Tagger:  deps.Tagger,
		Artwork: deps.Artwork,
		Options: options,
		RunID:   runID,
	}

	progress := Progress(&Lines{Out: os.Stdout, Total: len(items)})
	if deps.Progress != nil {
		progress = deps.Progress(len(items))
	}

	result := RunAll(ctx, processor, items, cfg.Workers, progress)
	result.RunID, result.Source, result.Dir = runID, url, dir

	logger.WithFields(log.Fields{
		"success":             result.Success,
		"skipped_existing":    result.SkippedExisting,
		"skipped_low_bitrate": result.SkippedLowBitrate,
		"failed":              result.Failed,
	}).Info("finished")

	return result, nil
}

// NewOptions builds the two engine bundles of a run. The credentialed bundle
// exists only when authentication is on and a cookie file is given.
func NewOptions(dir string, cfg Config) *Options {
	format := cfg.Format
	if format == "" {
		format = constant.FormatSelector
	}

	album := cfg.Album
	if album == "" {
		album = constant.AlbumLabel
	}

	anonymous := source.Options{
		Format:         format,
		OutputTemplate: filepath.Join(dir, constant.OutputTemplate),
		Ledger:         where.Ledger(dir),
	}

	credentialed := mo.None[source.Options]()
	if cfg.Auth && cfg.CookieFile != "" {
		credentialed = mo.Some(anonymous.WithCookies(cfg.CookieFile))
	}

	return &Options{
		Dir:          dir,
		MinBitrate:   cfg.MinBitrate,
		Artwork:      cfg.Artwork,
		Album:        album,
		Anonymous:    anonymous,
		Credentialed: credentialed,
	}
}
