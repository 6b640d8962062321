package bbref

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultUserAgent = "Mozilla/5.0"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Client performs plain GETs with a fixed User-Agent. No retries.
type Client struct {
	hc        *http.Client
	maxBody   int64
	userAgent string
}

// NewClient builds a client. A zero timeout leaves the request unbounded and
// a non-positive maxBody disables the body cap.
func NewClient(timeout time.Duration, maxBody int64, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		hc:        &http.Client{Timeout: timeout},
		maxBody:   maxBody,
		userAgent: userAgent,
	}
}

// Get returns the body and status code. The body is read even for non-2xx
// responses so the caller can decide what to do with the status.
func (c *Client) Get(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if c.maxBody > 0 {
		body = io.LimitReader(resp.Body, c.maxBody)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body %s: %w", url, err)
	}
	return string(b), resp.StatusCode, nil
}
