package artwork

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Fetcher downloads generated artwork assets over HTTP. Generation
// services return transient 5xx while an asset is still materializing, so
// requests retry with backoff.
type Fetcher struct {
	client *retryablehttp.Client
}

// NewFetcher builds a fetcher with sane defaults for artwork endpoints.
func NewFetcher() *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 4
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 8 * time.Second
	client.Logger = nil
	return &Fetcher{client: client}
}

// Fetch downloads and decodes the image at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build artwork request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch artwork %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch artwork %s: unexpected status %d", url, resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode artwork %s: %w", url, err)
	}
	return img, nil
}
