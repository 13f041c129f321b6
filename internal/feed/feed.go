// Package feed fetches the reduced recently-played feed: pages of shape-B
// records (played_at, track/artist names, ms_played) served as JSON over
// HTTP. Fetching is rate-limited and retried on server errors; the records
// go through the same normalizer as export files.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/time/rate"

	"github.com/mahanhrgowda/time-capsule/internal/history"
)

const pageSize = 200

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(1*time.Second), 1),
	}
}

// page is the feed's envelope, mirroring the paged responses the upstream
// service returns.
type page struct {
	Items      []history.RawRecord `json:"items"`
	TotalPages int                 `json:"total_pages"`
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("feed returned HTTP %d", e.code)
}

// RecentlyPlayed fetches one page of the feed. Pages start at 1. The
// second return value is the total page count reported by the feed.
// Server-side (5xx) failures are retried; anything else fails immediately.
func (c *Client) RecentlyPlayed(ctx context.Context, pageNum int) ([]history.RawRecord, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	var result page
	err := retry.Do(
		func() error {
			return c.fetchPage(ctx, pageNum, &result)
		},
		retry.RetryIf(func(err error) bool {
			if serr, ok := err.(*statusError); ok {
				return serr.code/100 == 5
			}
			return false
		}),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching page %d: %w", pageNum, err)
	}
	return result.Items, result.TotalPages, nil
}

func (c *Client) fetchPage(ctx context.Context, pageNum int, result *page) error {
	url := fmt.Sprintf("%s?page=%d&limit=%d", c.baseURL, pageNum, pageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "time-capsule/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}

	*result = page{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding page %d: %w", pageNum, err)
	}
	return nil
}
