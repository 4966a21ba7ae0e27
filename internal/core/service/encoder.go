package service

import (
	"context"
	"errors"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const defaultEncodeConcurrency = 8

type Encoder struct {
	reader  port.FileReader
	fetcher port.Fetcher
	limit   int
}

func NewEncoder(reader port.FileReader, fetcher port.Fetcher) *Encoder {
	limit := viper.GetInt("fetch.max_concurrency")
	if limit <= 0 {
		limit = defaultEncodeConcurrency
	}

	return &Encoder{reader: reader, fetcher: fetcher, limit: limit}
}

// EncodeAll converts every source into its transport form. Items run concurrently but the
// result keeps the input order. The first failure cancels the remaining items and is
// returned on its own, partial results are never handed out.
func (e *Encoder) EncodeAll(ctx context.Context, sources []domain.ImageSource) ([]domain.EncodedImage, error) {
	if len(sources) == 0 {
		return nil, &domain.ValidationError{Err: domain.ErrEmptySourceSet}
	}

	kind := sources[0].Kind
	for _, src := range sources[1:] {
		if src.Kind != kind {
			return nil, &domain.ValidationError{Err: domain.ErrMixedSources}
		}
	}

	encoded := make([]domain.EncodedImage, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			data, err := e.load(gctx, src)
			if err != nil {
				return err
			}

			encoded[i] = domain.Encode(data)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Int("sources", len(sources)).Str("kind", kind.String()).Msg("encoding failed")
		return nil, err
	}

	log.Debug().Int("sources", len(sources)).Str("kind", kind.String()).Msg("encoded batch")

	return encoded, nil
}

func (e *Encoder) load(ctx context.Context, src domain.ImageSource) ([]byte, error) {
	switch src.Kind {
	case domain.KindFile:
		if src.File.Data != nil {
			return src.File.Data, nil
		}

		data, err := e.reader.ReadFile(ctx, src.File.Handle)
		if err != nil {
			var readErr *domain.ReadError
			if errors.As(err, &readErr) {
				return nil, err
			}
			return nil, &domain.ReadError{Name: src.Name(), Err: err}
		}
		return data, nil
	case domain.KindURL:
		data, err := e.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			var fetchErr *domain.FetchError
			if errors.As(err, &fetchErr) {
				return nil, err
			}
			return nil, &domain.FetchError{URL: src.URL, Err: err}
		}
		return data, nil
	default:
		return nil, &domain.ValidationError{Err: domain.ErrEmptySourceSet}
	}
}
