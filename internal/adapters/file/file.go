package file

import (
	"context"
	"fmt"
	"imgresize/internal/core/domain"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

// Downloader fetches remote images. Some hosts refuse requests without a browser user agent.
type Downloader struct {
	client    *http.Client
	userAgent string
}

func NewDownloader() *Downloader {
	userAgent := viper.GetString("fetch.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Downloader{
		client:    &http.Client{Timeout: viper.GetDuration("fetch.timeout")},
		userAgent: userAgent,
	}
}

func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	return DownloadFile(ctx, d.client, d.userAgent, url)
}

// DownloadFile returns the byte content of a file on a provided URL. Anything but a 200 is a *domain.FetchError.
func DownloadFile(ctx context.Context, client *http.Client, userAgent, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		err = fmt.Errorf("error creating request %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return nil, &domain.FetchError{URL: path, Err: err}
	}

	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	start := time.Now()
	res, err := client.Do(req)
	if err != nil {
		err = fmt.Errorf("error executing request %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return nil, &domain.FetchError{URL: path, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err := &domain.FetchError{URL: path, Status: res.StatusCode}
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		err = fmt.Errorf("error reading response %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return nil, &domain.FetchError{URL: path, Err: err}
	}

	log.Debug().Str("path", path).Int("bytes", len(buf)).Dur("took", time.Since(start)).Msg("downloaded file")

	return buf, nil
}

// DiskReader resolves local file handles as paths on disk.
type DiskReader struct{}

func (DiskReader) ReadFile(_ context.Context, handle string) ([]byte, error) {
	buf, err := os.ReadFile(handle)
	if err != nil {
		err = fmt.Errorf("error reading file %w", err)
		log.Error().Err(err).Str("path", handle).Send()
		return nil, &domain.ReadError{Name: handle, Err: err}
	}

	return buf, nil
}
