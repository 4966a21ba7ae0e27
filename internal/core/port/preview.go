package port

import (
	"context"
	"imgresize/internal/core/domain"
)

type DisplayRefs interface {
	// Mint registers data and returns a new ephemeral reference to it.
	Mint(data []byte) (string, error)
	// Release frees a reference. Releasing the same reference twice is an error.
	Release(ref string) error
}

type DimensionDecoder interface {
	// Dimensions decodes the pixel size of the image behind a display URL.
	Dimensions(ctx context.Context, displayURL string) (domain.Size, error)
}
