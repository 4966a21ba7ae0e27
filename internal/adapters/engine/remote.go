package engine

import (
	"context"
	"errors"
	"fmt"
	"imgresize/internal/core/domain"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Remote delegates resizing to an HTTP service.
type Remote struct {
	client   *resty.Client
	endpoint string
}

type resizeRequest struct {
	Width   int                   `json:"width"`
	Height  int                   `json:"height"`
	Quality int                   `json:"quality"`
	Images  []domain.EncodedImage `json:"images"`
}

type resizeResponse struct {
	Images []domain.EncodedImage `json:"images"`
	Error  string                `json:"error,omitempty"`
}

func NewRemote(endpoint string) (*Remote, error) {
	if endpoint == "" {
		return nil, errors.New("missing remote resize endpoint")
	}

	client := resty.New().
		SetTimeout(viper.GetDuration("resize.remote_timeout")).
		SetHeader("Accept", "application/json")

	if token := viper.GetString("resize.remote_token"); token != "" {
		client.SetAuthToken(token)
	}

	return &Remote{client: client, endpoint: endpoint}, nil
}

func (r *Remote) Resize(ctx context.Context, width, height, quality int,
	images []domain.EncodedImage) ([]domain.EncodedImage, error) {
	var result resizeResponse

	res, err := r.client.R().
		SetContext(ctx).
		SetBody(resizeRequest{Width: width, Height: height, Quality: quality, Images: images}).
		SetResult(&result).
		SetError(&result).
		Post(r.endpoint)
	if err != nil {
		log.Error().Err(err).Str("endpoint", r.endpoint).Msg("resize request failed")
		return nil, fmt.Errorf("error executing resize request: %w", err)
	}

	if res.IsError() {
		log.Error().Int("status", res.StatusCode()).Str("body", res.String()).Msg("resize service returned error")
		if result.Error != "" {
			return nil, fmt.Errorf("resize service returned %s: %s", res.Status(), result.Error)
		}
		return nil, fmt.Errorf("resize service returned %s: %s", res.Status(), res.String())
	}

	log.Debug().Int("count", len(result.Images)).Dur("took", res.Time()).Msg("remote resize finished")

	return result.Images, nil
}
