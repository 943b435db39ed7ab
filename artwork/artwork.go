// Package artwork downloads thumbnails and normalizes them to JPEG covers.
package artwork

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	"github.com/tapedeck-cli/tapedeck/constant"
	"github.com/tapedeck-cli/tapedeck/network"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// maxBytes bounds the body read for a single thumbnail.
	maxBytes = 16 << 20
	// maxSide is the largest cover edge kept; bigger images are scaled down.
	maxSide = 1400
	quality = 90
)

// Fetcher retrieves artwork over HTTP.
type Fetcher struct {
	Client  *http.Client
	Timeout time.Duration
}

// New returns a fetcher using the shared client.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{Client: network.Client, Timeout: timeout}
}

// Fetch downloads url within the fetcher's timeout and re-encodes it as an RGB JPEG.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = constant.ArtworkTimeout
	}

	client := f.Client
	if client == nil {
		client = network.Client
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := network.Get(ctx, client, url, maxBytes)
	if err != nil {
		return nil, err
	}

	return ToJPEG(data)
}

// ToJPEG decodes a JPEG, PNG or WebP image and encodes it as a baseline RGB JPEG.
func ToJPEG(data []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode artwork: %w", err)
	}

	bounds := src.Bounds()
	w, h := fit(bounds.Dx(), bounds.Dy())

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	}

	var buf bytes.Buffer
	if err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode %s artwork: %w", format, err)
	}
	return buf.Bytes(), nil
}

func fit(w, h int) (int, int) {
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	if w >= h {
		return maxSide, max(1, h*maxSide/w)
	}
	return max(1, w*maxSide/h), maxSide
}
