package probe

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"imgresize/internal/adapters/blob"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"
	"strings"

	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type BlobOpener interface {
	Open(ref string) ([]byte, error)
}

// Decoder reads image headers to find pixel dimensions. blob: references are read from memory, file:// paths from
// disk, anything else is fetched.
type Decoder struct {
	blobs   BlobOpener
	reader  port.FileReader
	fetcher port.Fetcher
}

func NewDecoder(blobs BlobOpener, reader port.FileReader, fetcher port.Fetcher) *Decoder {
	return &Decoder{blobs: blobs, reader: reader, fetcher: fetcher}
}

func (d *Decoder) Dimensions(ctx context.Context, displayURL string) (domain.Size, error) {
	var (
		data []byte
		err  error
	)

	switch {
	case blob.IsRef(displayURL):
		data, err = d.blobs.Open(displayURL)
	case strings.HasPrefix(displayURL, domain.FileScheme):
		data, err = d.reader.ReadFile(ctx, strings.TrimPrefix(displayURL, domain.FileScheme))
	default:
		data, err = d.fetcher.Fetch(ctx, displayURL)
	}
	if err != nil {
		return domain.Size{}, err
	}

	if err := ctx.Err(); err != nil {
		return domain.Size{}, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Debug().Err(err).Str("url", displayURL).Msg("could not decode image header")
		return domain.Size{}, fmt.Errorf("failed to decode image config: %w", err)
	}

	log.Debug().Str("url", displayURL).Str("format", format).Int("width", cfg.Width).Int("height", cfg.Height).
		Msg("decoded dimensions")

	return domain.Size{Width: cfg.Width, Height: cfg.Height}, nil
}
