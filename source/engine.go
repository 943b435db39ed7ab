package source

import "context"

// Options is the bundle handed to the engine for a download.
// The anonymous and credentialed bundles differ only by CookieFile.
type Options struct {
	// Format is the engine's format selector.
	Format string
	// OutputTemplate is the engine's naming template, joined to the output directory.
	OutputTemplate string
	// Ledger is the resumption ledger path; the engine skips identifiers it lists.
	Ledger string
	// CookieFile is the Netscape cookie file, empty for anonymous attempts.
	CookieFile string
}

// WithCookies returns a copy of the bundle carrying a cookie file.
func (o Options) WithCookies(path string) Options {
	o.CookieFile = path
	return o
}

// Entry is one element of a flat listing.
type Entry struct {
	WebpageURL string
	URL        string
	Thumbnail  string
}

// Listing is the metadata-only answer of the engine for a URL.
// A collection carries Entries; a single item carries only the top-level fields.
type Listing struct {
	Collection bool
	Entries    []Entry
	WebpageURL string
	Thumbnail  string
}

// Engine captures the capabilities required from the extraction engine.
type Engine interface {
	// Name returns the engine identifier.
	Name() string

	// List resolves url without downloading. cookieFile may be empty.
	List(ctx context.Context, url string, cookieFile string) (*Listing, error)

	// Download retrieves and transcodes url, returning the track metadata and the
	// path the produced file is expected at (extension already normalized).
	Download(ctx context.Context, url string, options Options) (*Track, string, error)
}
