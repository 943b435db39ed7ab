// Package resolver expands a source URL into the ordered list of items to process.
package resolver

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tapedeck-cli/tapedeck/auth"
	"github.com/tapedeck-cli/tapedeck/log"
	"github.com/tapedeck-cli/tapedeck/source"
)

// ResolutionError is a failed metadata lookup. It aborts the whole run.
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Resolve lists url without downloading it. A collection yields one item per
// entry exposing a URL, in entry order; a single item yields exactly one.
// When useAuth is set and cookieFile is not empty, an authentication-looking
// failure is retried once with the cookie file.
func Resolve(ctx context.Context, engine source.Engine, url string, useAuth bool, cookieFile string) ([]source.Item, error) {
	listing, err := engine.List(ctx, url, "")
	if err != nil && useAuth && cookieFile != "" && auth.ShouldRetry(err) {
		log.WithFields(log.Fields{"url": url, "error": err}).Info("listing failed, retrying with cookies")
		listing, err = engine.List(ctx, url, cookieFile)
	}

	if err != nil {
		return nil, &ResolutionError{URL: url, Err: err}
	}

	return items(url, listing), nil
}

func items(url string, listing *source.Listing) []source.Item {
	if listing == nil {
		return nil
	}

	if !listing.Collection {
		return []source.Item{{
			URL:       lo.Ternary(listing.WebpageURL != "", listing.WebpageURL, url),
			Thumbnail: mo.EmptyableToOption(listing.Thumbnail),
		}}
	}

	result := make([]source.Item, 0, len(listing.Entries))
	for _, e := range listing.Entries {
		u := lo.Ternary(e.WebpageURL != "", e.WebpageURL, e.URL)
		if u == "" {
			continue
		}

		result = append(result, source.Item{URL: u, Thumbnail: mo.EmptyableToOption(e.Thumbnail)})
	}

	if dropped := len(listing.Entries) - len(result); dropped > 0 {
		log.WithFields(log.Fields{"url": url, "dropped": dropped}).Warn("collection entries without a URL were dropped")
	}

	return result
}
