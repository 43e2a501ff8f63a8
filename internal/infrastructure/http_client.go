package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yourusername/app-fetch-go/internal/domain"
)

// HTTPClient issues browser-like GET requests to vendor endpoints
type HTTPClient struct {
	client     *http.Client
	noRedirect *http.Client
	userAgent  string
	accept     string
}

// NewHTTPClient creates a client sending the given User-Agent/Accept pair.
// A zero timeout disables the overall request deadline.
func NewHTTPClient(userAgent, accept string, timeout time.Duration) *HTTPClient {
	if userAgent == "" {
		userAgent = domain.DefaultUserAgent
	}
	if accept == "" {
		accept = domain.DefaultAccept
	}

	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
		noRedirect: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: userAgent,
		accept:    accept,
	}
}

func (c *HTTPClient) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", c.accept)
	return req, nil
}

// Get performs a GET following redirects. Non-2xx responses are transport failures.
// The caller must close the response body.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := c.newRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: GET %s returned %s", domain.ErrTransport, url, resp.Status)
	}

	return resp, nil
}

// GetBody performs a GET and reads the whole body
func (c *HTTPClient) GetBody(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrTransport, url, err)
	}
	return body, nil
}

// Location requests url without following redirects and returns the target of
// the first hop, resolved against url when relative. An empty string means the
// server answered without redirecting.
func (c *HTTPClient) Location(ctx context.Context, url string) (string, error) {
	req, err := c.newRequest(ctx, url)
	if err != nil {
		return "", err
	}

	resp, err := c.noRedirect.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: GET %s returned %s", domain.ErrTransport, url, resp.Status)
	}

	// Missing or unparseable Location header
	location, err := resp.Location()
	if err != nil {
		return "", nil
	}
	return location.String(), nil
}
