// Package tagger writes ID3v2 metadata and cover art into produced files.
package tagger

import (
	"errors"
	"fmt"

	"github.com/bogem/id3v2/v2"
	"github.com/tapedeck-cli/tapedeck/constant"
	"github.com/tapedeck-cli/tapedeck/log"
)

// Tags are the text frames written to every produced file.
type Tags struct {
	Title  string
	Artist string
	Album  string
}

// ErrEmptyCover is returned when there is no image to embed.
var ErrEmptyCover = errors.New("empty cover image")

// ID3 edits ID3v2.4 tags in place.
type ID3 struct{}

// New returns an ID3 tagger.
func New() *ID3 {
	return &ID3{}
}

// WriteTags sets title, artist and album of path. A file whose existing tag
// cannot be parsed gets a fresh, empty tag first.
func (*ID3) WriteTags(path string, tags Tags) error {
	tag, err := open(path)
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetTitle(tags.Title)
	tag.SetArtist(tags.Artist)
	tag.SetAlbum(tags.Album)

	if err = tag.Save(); err != nil {
		return fmt.Errorf("save tags of %s: %w", path, err)
	}
	return nil
}

// EmbedCover replaces any attached picture of path with a JPEG front cover.
func (*ID3) EmbedCover(path string, jpeg []byte) error {
	if len(jpeg) == 0 {
		return ErrEmptyCover
	}

	tag, err := open(path)
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.DeleteFrames(tag.CommonID("Attached picture"))
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: constant.CoverDesc,
		Picture:     jpeg,
	})

	if err = tag.Save(); err != nil {
		return fmt.Errorf("save cover of %s: %w", path, err)
	}
	return nil
}

func open(path string) (*id3v2.Tag, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err == nil {
		prepare(tag)
		return tag, nil
	}

	log.WithFields(log.Fields{"path": path, "error": err}).Debug("unreadable tag, writing a fresh one")

	empty, err := id3v2.Open(path, id3v2.Options{Parse: false})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	prepare(empty)
	if err = empty.Save(); err != nil {
		empty.Close()
		return nil, fmt.Errorf("reset tag of %s: %w", path, err)
	}
	empty.Close()

	tag, err = id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	prepare(tag)
	return tag, nil
}

func prepare(tag *id3v2.Tag) {
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
}
