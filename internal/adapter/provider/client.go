// Package provider holds the plumbing shared by the upstream fare adapters.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/skyscout/fare-aggregator/internal/domain"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/retry"
)

// maxBodyBytes caps how much of an upstream payload is read.
const maxBodyBytes = 8 << 20

// Client performs bounded JSON GET requests on behalf of one provider.
type Client struct {
	name    string
	http    *http.Client
	timeout time.Duration
	retry   retry.Config
}

// NewClient creates a client that does not retry. A nil httpClient uses a fresh http.Client.
func NewClient(name string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{name: name, http: httpClient, timeout: timeout, retry: retryPolicy(1)}
}

// WithMaxAttempts lets transport failures, 429 and 5xx answers be tried up to n
// times with backoff. All attempts share the client timeout.
func (c *Client) WithMaxAttempts(n int) *Client {
	c.retry = retryPolicy(n)
	return c
}

func retryPolicy(maxAttempts int) retry.Config {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return retry.DefaultConfig.WithRetryIf(retryableUpstream).WithMaxAttempts(maxAttempts)
}

// retryableUpstream skips timeouts: once the shared deadline fires no budget is left.
func retryableUpstream(err error) bool {
	return domain.IsRetryable(err) && !domain.IsProviderTimeout(err)
}

// GetJSON issues GET endpoint?params with headers and decodes the body into out.
// Every failure is returned as a *domain.ProviderError.
func (c *Client) GetJSON(ctx context.Context, endpoint string, params url.Values, headers http.Header, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return domain.NewProviderError(c.name, fmt.Errorf("parse endpoint: %w", err))
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	err = retry.Do(ctx, func() error {
		return c.get(ctx, u.String(), headers, out)
	}, c.retry)
	if err == nil {
		return nil
	}

	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return err
	}
	// The context ended between attempts.
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewProviderTimeoutError(c.name)
	}
	return domain.NewProviderUnavailableError(c.name, err)
}

func (c *Client) get(ctx context.Context, endpoint string, headers http.Header, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.NewProviderError(c.name, fmt.Errorf("build request: %w", err))
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.NewProviderTimeoutError(c.name)
		}
		return domain.NewProviderUnavailableError(c.name, err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxBodyBytes)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, body)
		return domain.NewProviderStatusError(c.name, resp.StatusCode)
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.NewProviderTimeoutError(c.name)
		}
		return domain.NewProviderError(c.name, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err))
	}
	return nil
}

// Name returns the provider the client acts for.
func (c *Client) Name() string {
	return c.name
}
