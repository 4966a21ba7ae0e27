package port

import (
	"context"
	"imgresize/internal/core/domain"
)

type ResizeEngine interface {
	// Resize scales every image to width x height and returns the results in the same order. A zero width or height
	// keeps the aspect ratio for that side. Any failure fails the whole call.
	Resize(ctx context.Context, width, height, quality int, images []domain.EncodedImage) ([]domain.EncodedImage, error)
}

type Store interface {
	// Persist stores the resized images and returns a human-readable status message.
	Persist(ctx context.Context, images []domain.EncodedImage) (string, error)
}
