package ytdlp

import (
	"bytes"
	"errors"

	"github.com/samber/mo"
	"github.com/tapedeck-cli/tapedeck/source"
	"github.com/tidwall/gjson"
)

var errMalformed = errors.New("malformed engine output")

// parseListing reads the --dump-single-json answer of a flat extraction.
// Anything but the fields used downstream is ignored.
func parseListing(data []byte) (*source.Listing, error) {
	data = bytes.TrimSpace(data)
	if !gjson.ValidBytes(data) {
		return nil, &Error{Err: errMalformed}
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &Error{Err: errMalformed}
	}

	entries := root.Get("entries")
	listing := &source.Listing{
		Collection: entries.IsArray() || root.Get("_type").String() == "playlist",
		WebpageURL: root.Get("webpage_url").String(),
		Thumbnail:  thumbnail(root),
	}

	for _, e := range entries.Array() {
		// unavailable tracks come through as null and stay as empty entries
		if !e.IsObject() {
			listing.Entries = append(listing.Entries, source.Entry{})
			continue
		}
		listing.Entries = append(listing.Entries, source.Entry{
			WebpageURL: e.Get("webpage_url").String(),
			URL:        e.Get("url").String(),
			Thumbnail:  thumbnail(e),
		})
	}

	return listing, nil
}

// parseTrack reads one --dump-json line of a downloaded item and returns its
// metadata and the filename the engine prepared for it.
func parseTrack(line []byte) (*source.Track, string, error) {
	if !gjson.ValidBytes(line) {
		return nil, "", &Error{Err: errMalformed}
	}

	r := gjson.ParseBytes(line)

	filename := r.Get("filename").String()
	if filename == "" {
		filename = r.Get("_filename").String()
	}
	if filename == "" {
		return nil, "", &Error{Err: errors.New("engine reported no filename")}
	}

	return &source.Track{
		ID:        r.Get("id").String(),
		Title:     optional(r.Get("title")),
		Uploader:  optional(r.Get("uploader")),
		Thumbnail: some(thumbnail(r)),
	}, filename, nil
}

// thumbnail prefers the single "thumbnail" field and falls back to the last
// (largest) entry of "thumbnails".
func thumbnail(r gjson.Result) string {
	if t := r.Get("thumbnail").String(); t != "" {
		return t
	}

	all := r.Get("thumbnails.#.url").Array()
	if len(all) == 0 {
		return ""
	}
	return all[len(all)-1].String()
}

func optional(r gjson.Result) mo.Option[string] {
	if r.Type != gjson.String {
		return mo.None[string]()
	}
	return some(r.String())
}

func some(s string) mo.Option[string] {
	if s == "" {
		return mo.None[string]()
	}
	return mo.Some(s)
}

// lastJSONLine returns the last line of out that looks like a JSON object.
func lastJSONLine(out []byte) []byte {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) > 0 && line[0] == '{' {
			return line
		}
	}
	return nil
}
