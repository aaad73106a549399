// Package auth manages OAuth2 client-credentials tokens for upstream providers.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/skyscout/fare-aggregator/internal/domain"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/retry"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/timeutil"
)

const (
	DefaultSafetyMargin = 60 * time.Second
	DefaultTimeout      = 10 * time.Second
)

// Token is a bearer credential and the instant after which it must not be used.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// ValidAt reports whether the token can be used at now.
func (t Token) ValidAt(now time.Time) bool {
	return t.AccessToken != "" && now.Before(t.ExpiresAt)
}

// TokenSource yields a currently valid bearer token.
type TokenSource interface {
	Token(ctx context.Context) (Token, error)
}

// Config describes a client-credentials exchange.
type Config struct {
	Provider     string
	TokenURL     string
	ClientID     string
	ClientSecret string

	// SafetyMargin is subtracted from expires_in so tokens are refreshed early.
	SafetyMargin time.Duration

	// Timeout bounds one full exchange including retries.
	Timeout time.Duration
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TokenManager caches one token and refreshes it lazily. Concurrent refreshes
// share a single exchange.
type TokenManager struct {
	cfg    Config
	client *http.Client
	clock  timeutil.Clock
	retry  retry.Config
	logger zerolog.Logger

	mu    sync.RWMutex
	token Token
	group singleflight.Group
}

// Option configures a TokenManager.
type Option func(*TokenManager)

func WithHTTPClient(c *http.Client) Option {
	return func(m *TokenManager) { m.client = c }
}

func WithClock(c timeutil.Clock) Option {
	return func(m *TokenManager) { m.clock = c }
}

func WithRetryConfig(c retry.Config) Option {
	return func(m *TokenManager) { m.retry = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *TokenManager) { m.logger = l }
}

func NewTokenManager(cfg Config, opts ...Option) *TokenManager {
	if cfg.SafetyMargin <= 0 {
		cfg.SafetyMargin = DefaultSafetyMargin
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	m := &TokenManager{
		cfg:    cfg,
		client: &http.Client{},
		clock:  timeutil.NewRealClock(),
		retry:  retry.TokenExchangeConfig,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Token returns the cached token while it is valid, otherwise exchanges credentials
// for a new one. Failed exchanges leave the cache untouched.
func (m *TokenManager) Token(ctx context.Context) (Token, error) {
	if tok, ok := m.cached(); ok {
		return tok, nil
	}

	ch := m.group.DoChan("token", func() (interface{}, error) {
		if tok, ok := m.cached(); ok {
			return tok, nil
		}
		// Shared by every waiter, so detached from the first caller's cancellation.
		exchangeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.Timeout)
		defer cancel()
		return m.refresh(exchangeCtx)
	})

	select {
	case <-ctx.Done():
		return Token{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Token{}, res.Err
		}
		return res.Val.(Token), nil
	}
}

func (m *TokenManager) cached() (Token, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token.ValidAt(m.clock.Now())
}

func (m *TokenManager) refresh(ctx context.Context) (Token, error) {
	cfg := m.retry.WithOnRetry(func(attempt int, err error, wait time.Duration) {
		m.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("token exchange failed, retrying")
	})

	tok, err := retry.DoWithResult(ctx, func() (Token, error) {
		return m.exchange(ctx)
	}, cfg)
	if err != nil {
		m.logger.Error().Err(err).Msg("token exchange failed")
		return Token{}, fmt.Errorf("obtain %s token: %w", m.cfg.Provider, err)
	}

	m.mu.Lock()
	m.token = tok
	m.mu.Unlock()

	m.logger.Debug().Time("expires_at", tok.ExpiresAt).Msg("token refreshed")
	return tok, nil
}

func (m *TokenManager) exchange(ctx context.Context) (Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.cfg.ClientID)
	form.Set("client_secret", m.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, retry.NewPermanent(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Token{}, retry.NewPermanent(err)
		}
		return Token{}, domain.NewRetryableProviderError(m.cfg.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		statusErr := domain.NewProviderStatusError(m.cfg.Provider, resp.StatusCode)
		if statusErr.Retryable {
			return Token{}, statusErr
		}
		return Token{}, retry.NewPermanent(fmt.Errorf("%w: %w", domain.ErrAuthentication, statusErr))
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Token{}, retry.NewPermanent(fmt.Errorf("%w: decode token response: %w", domain.ErrMalformedResponse, err))
	}
	if body.AccessToken == "" {
		return Token{}, retry.NewPermanent(fmt.Errorf("%w: empty access_token", domain.ErrAuthentication))
	}

	lifetime := time.Duration(body.ExpiresIn)*time.Second - m.cfg.SafetyMargin
	return Token{
		AccessToken: body.AccessToken,
		ExpiresAt:   m.clock.Now().Add(lifetime),
	}, nil
}
