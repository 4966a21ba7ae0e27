package converter

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"imgresize/internal/core/domain"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const DefaultQuality = 80

// ImagingEngine resizes images in-process and re-encodes them as JPEG.
type ImagingEngine struct {
	filter imaging.ResampleFilter
}

func NewImagingEngine() *ImagingEngine {
	return &ImagingEngine{filter: imaging.Lanczos}
}

func (e *ImagingEngine) Resize(ctx context.Context, width, height, quality int,
	images []domain.EncodedImage) ([]domain.EncodedImage, error) {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}

	start := time.Now()
	resized := make([]domain.EncodedImage, 0, len(images))

	for i, encoded := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := e.resizeOne(encoded, width, height, quality)
		if err != nil {
			log.Error().Err(err).Int("index", i).Msg("resize failed")
			return nil, fmt.Errorf("image %d: %w", i, err)
		}

		resized = append(resized, out)
	}

	log.Debug().Int("count", len(images)).Int("width", width).Int("height", height).Int("quality", quality).
		Dur("took", time.Since(start)).Msg("resized images")

	return resized, nil
}

func (e *ImagingEngine) resizeOne(encoded domain.EncodedImage, width, height, quality int) (domain.EncodedImage, error) {
	data, err := encoded.Decode()
	if err != nil {
		return "", fmt.Errorf("error decoding base64: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("error decoding image: %w", err)
	}

	var buf bytes.Buffer
	err = imaging.Encode(&buf, imaging.Resize(img, width, height, e.filter), imaging.JPEG, imaging.JPEGQuality(quality))
	if err != nil {
		return "", fmt.Errorf("error encoding image: %w", err)
	}

	return domain.Encode(buf.Bytes()), nil
}
