package store

import (
	"context"
	"fmt"
	"imgresize/internal/core/domain"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// Directory writes every batch into its own folder below root.
type Directory struct {
	root string
}

func NewDirectory(root string) (*Directory, error) {
	if root == "" {
		return nil, fmt.Errorf("missing output directory")
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	return &Directory{root: root}, nil
}

func (d *Directory) Persist(ctx context.Context, images []domain.EncodedImage) (string, error) {
	files, err := decodeAll(images)
	if err != nil {
		return "", err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate batch id: %w", err)
	}

	dir := filepath.Join(d.root, id.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating batch directory: %w", err)
	}

	for i, data := range files {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		path := filepath.Join(dir, fileName(i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Error().Err(err).Str("path", path).Msg("failed to write image")
			return "", fmt.Errorf("error saving image %d: %w", i, err)
		}
	}

	log.Info().Str("dir", dir).Int("count", len(files)).Msg("saved images")

	return fmt.Sprintf("Successfully saved %d images to %s", len(files), dir), nil
}

func fileName(i int) string {
	return fmt.Sprintf("resized_image_%d.jpg", i+1)
}

// decodeAll turns the whole batch back into bytes so a bad payload fails before anything is written.
func decodeAll(images []domain.EncodedImage) ([][]byte, error) {
	files := make([][]byte, len(images))
	for i, img := range images {
		data, err := img.Decode()
		if err != nil {
			return nil, fmt.Errorf("error decoding image %d: %w", i, err)
		}
		files[i] = data
	}

	return files, nil
}
