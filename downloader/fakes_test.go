package downloader

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tapedeck-cli/tapedeck/filesystem"
	"github.com/tapedeck-cli/tapedeck/source"
	"github.com/tapedeck-cli/tapedeck/tagger"
)

const musicDir = "/music"

type fakeTrack struct {
	id       string
	title    string
	uploader string
	thumb    string
	// fail is returned by anonymous attempts, failAuthed by credentialed ones
	fail       error
	failAuthed error
}

type downloadCall struct {
	url        string
	cookieFile string
}

// fakeEngine expands the output template into an .mp3 path, and like yt-dlp
// skips the write for URLs already in its ledger.
type fakeEngine struct {
	mu      sync.Mutex
	tracks  map[string]fakeTrack
	ledger  map[string]bool
	calls   []downloadCall
	listing *source.Listing
	delay   time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeEngine(tracks map[string]fakeTrack) *fakeEngine {
	return &fakeEngine{tracks: tracks, ledger: make(map[string]bool)}
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) List(context.Context, string, string) (*source.Listing, error) {
	if f.listing == nil {
		return nil, errors.New("ERROR: Unsupported URL")
	}
	return f.listing, nil
}

func (f *fakeEngine) Download(_ context.Context, url string, options source.Options) (*source.Track, string, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, downloadCall{url: url, cookieFile: options.CookieFile})

	t, ok := f.tracks[url]
	if !ok {
		return nil, "", errors.New("ERROR: Unsupported URL")
	}
	if options.CookieFile == "" && t.fail != nil {
		return nil, "", t.fail
	}
	if options.CookieFile != "" && t.failAuthed != nil {
		return nil, "", t.failAuthed
	}

	path := strings.NewReplacer(
		"%(title)s", lo.Ternary(t.title != "", t.title, "NA"),
		"%(id)s", lo.Ternary(t.id != "", t.id, "NA"),
		"%(ext)s", "mp3",
	).Replace(options.OutputTemplate)
	track := &source.Track{
		ID:        t.id,
		Title:     mo.EmptyableToOption(t.title),
		Uploader:  mo.EmptyableToOption(t.uploader),
		Thumbnail: mo.EmptyableToOption(t.thumb),
	}

	if !f.ledger[url] {
		if err := filesystem.API().WriteFile(path, []byte("audio"), 0644); err != nil {
			return nil, "", err
		}
		f.ledger[url] = true
	}

	return track, path, nil
}

func (f *fakeEngine) callsFor(url string) []downloadCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var calls []downloadCall
	for _, c := range f.calls {
		if c.url == url {
			calls = append(calls, c)
		}
	}
	return calls
}

type fakeProber struct {
	kbps int
}

func (f fakeProber) Bitrate(context.Context, string) int {
	return f.kbps
}

type fakeTagger struct {
	mu     sync.Mutex
	tags   map[string]tagger.Tags
	covers map[string][]byte
	fail   error
}

func newFakeTagger() *fakeTagger {
	return &fakeTagger{tags: make(map[string]tagger.Tags), covers: make(map[string][]byte)}
}

func (f *fakeTagger) WriteTags(path string, tags tagger.Tags) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.tags[filepath.Base(path)] = tags
	return nil
}

func (f *fakeTagger) EmbedCover(path string, jpeg []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.covers[filepath.Base(path)] = jpeg
	return nil
}

type fakeArtwork struct {
	mu   sync.Mutex
	urls []string
	fail error
}

func (f *fakeArtwork) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	if f.fail != nil {
		return nil, f.fail
	}
	return []byte{0xFF, 0xD8}, nil
}

func testOptions(credentialed bool) *Options {
	return NewOptions(musicDir, Config{
		MinBitrate: 320,
		Artwork:    true,
		Auth:       credentialed,
		CookieFile: "/app/soundcloud_cookies.txt",
	})
}

type countingProgress struct {
	done     int
	finished bool
}

func (c *countingProgress) Done(Result) { c.done++ }
func (c *countingProgress) Finish()     { c.finished = true }
