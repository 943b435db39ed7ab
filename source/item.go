// Package source defines the domain models and the extraction engine contract.
package source

import (
	"fmt"

	"github.com/samber/mo"
	"github.com/tapedeck-cli/tapedeck/constant"
	"github.com/tapedeck-cli/tapedeck/util"
)

// Item is one downloadable unit resolved from a source URL.
// Items are produced once by the resolver and handed to exactly one worker.
type Item struct {
	// URL is the page URL of the item.
	URL string `json:"url"`
	// Thumbnail is the artwork URL known at resolution time, if any.
	Thumbnail mo.Option[string] `json:"thumbnail"`
}

// String returns the item URL for display.
func (i Item) String() string {
	return i.URL
}

// Track is the metadata reported by the engine after a download.
// Only the fields needed for tags and the final filename are kept.
type Track struct {
	ID        string
	Title     mo.Option[string]
	Uploader  mo.Option[string]
	Thumbnail mo.Option[string]
}

// TitleOrDefault returns the title, or "track_<id>" when the engine reported none.
func (t *Track) TitleOrDefault() string {
	if title, ok := t.Title.Get(); ok && title != "" {
		return title
	}

	id := t.ID
	if id == "" {
		id = constant.UnknownID
	}
	return fmt.Sprintf("track_%s", id)
}

// ArtistOrDefault returns the uploader used as artist, or "Unknown Artist".
func (t *Track) ArtistOrDefault() string {
	if uploader, ok := t.Uploader.Get(); ok && uploader != "" {
		return uploader
	}
	return constant.UnknownArtist
}

// CanonicalName returns the "<artist> - <title>.mp3" filename the item is renamed to.
func (t *Track) CanonicalName() string {
	return CanonicalName(t.ArtistOrDefault(), t.TitleOrDefault())
}

// CanonicalName builds the sanitized "Artist - Title" filename with the output extension.
func CanonicalName(artist, title string) string {
	return fmt.Sprintf("%s - %s%s", util.SanitizeFilename(artist), util.SanitizeFilename(title), constant.Extension)
}
