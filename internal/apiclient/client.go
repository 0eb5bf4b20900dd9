// Package apiclient executes requests against the upstream API and recovers
// from an expired session by refreshing it once and retrying the request once.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/terraincognita07/miuconsole/internal/session"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRefreshPath  = "api/auth/refresh_token"
	DefaultFallbackPath = "/"
)

type Config struct {
	BaseURL      string
	RefreshPath  string
	FallbackPath string
	// RequestTimeout bounds each individual HTTP exchange. Zero disables it.
	RequestTimeout time.Duration
	// CoalesceRefresh lets concurrent calls that hold the same refresh token
	// share one refresh request. Off by default, so simultaneous 401s each
	// refresh on their own.
	CoalesceRefresh bool
	HTTPClient      *http.Client
	Logger          *zap.Logger
}

type Client struct {
	baseURL      *url.URL
	refreshURL   *url.URL
	fallbackPath string
	timeout      time.Duration
	httpClient   *http.Client
	logger       *zap.Logger
	refreshGroup *singleflight.Group
}

func New(cfg Config) (*Client, error) {
	baseURL, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be absolute http(s)", cfg.BaseURL)
	}
	if baseURL.Path == "" {
		baseURL.Path = "/"
	}
	if cfg.RequestTimeout < 0 {
		return nil, errors.New("request timeout must not be negative")
	}

	refreshPath := strings.TrimSpace(cfg.RefreshPath)
	if refreshPath == "" {
		refreshPath = DefaultRefreshPath
	}
	fallbackPath := strings.TrimSpace(cfg.FallbackPath)
	if fallbackPath == "" {
		fallbackPath = DefaultFallbackPath
	}

	jar, err := NewJar()
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		httpClient = &copied
	}
	httpClient.Jar = jar

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &Client{
		baseURL:      baseURL,
		refreshURL:   resolve(baseURL, refreshPath),
		fallbackPath: fallbackPath,
		timeout:      cfg.RequestTimeout,
		httpClient:   httpClient,
		logger:       logger,
	}
	if cfg.CoalesceRefresh {
		client.refreshGroup = &singleflight.Group{}
	}
	return client, nil
}

// NewJar returns an empty cookie jar suitable for WithJar.
func NewJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

// WithJar returns a client that shares configuration and transport with
// client but keeps credentials in jar.
func (client *Client) WithJar(jar http.CookieJar) *Client {
	copied := *client
	httpClient := *client.httpClient
	httpClient.Jar = jar
	copied.httpClient = &httpClient
	return &copied
}

// WithFallback returns a client that reports fallbackPath when the session
// cannot be refreshed.
func (client *Client) WithFallback(fallbackPath string) *Client {
	copied := *client
	if trimmed := strings.TrimSpace(fallbackPath); trimmed != "" {
		copied.fallbackPath = trimmed
	}
	return &copied
}

func (client *Client) Jar() http.CookieJar {
	return client.httpClient.Jar
}

func (client *Client) BaseURL() *url.URL {
	clone := *client.baseURL
	return &clone
}

func (client *Client) FallbackPath() string {
	return client.fallbackPath
}

// Execute sends request. A 401 triggers exactly one session refresh followed
// by exactly one retry; the refresh always completes before the retry starts.
func (client *Client) Execute(ctx context.Context, request Request) Outcome {
	prepared, err := prepare(client.baseURL, request)
	if err != nil {
		return Outcome{Kind: KindTransportFailure, Message: genericErrorMessage, Err: err}
	}

	outcome := client.attempt(ctx, prepared)
	outcome.Attempts = 1
	if outcome.Kind != KindUnauthorized {
		return outcome
	}

	client.logger.Debug("upstream session expired, refreshing",
		zap.String("method", prepared.method),
		zap.String("path", prepared.target.Path))

	if !client.RefreshSession(ctx) {
		client.logger.Warn("session refresh failed",
			zap.String("path", prepared.target.Path),
			zap.String("redirect", client.fallbackPath))
		return Outcome{
			Kind:     KindRefreshFailed,
			Status:   http.StatusUnauthorized,
			Message:  outcome.Message,
			Redirect: client.fallbackPath,
			Attempts: 1,
		}
	}

	retried := client.attempt(ctx, prepared)
	retried.Attempts = 2
	retried.Refreshed = true
	if retried.Kind == KindUnauthorized {
		retried.Kind = KindHTTPError
	}
	return retried
}

// RefreshSession asks the upstream API to rotate the session cookies. Only a
// 2xx answer counts as success.
func (client *Client) RefreshSession(ctx context.Context) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	if client.refreshGroup == nil {
		_, ok := client.refresh(ctx)
		return ok
	}
	return client.coalescedRefresh(ctx)
}

type refreshResult struct {
	cookies []*http.Cookie
	ok      bool
}

func (client *Client) coalescedRefresh(ctx context.Context) bool {
	key := client.refreshKey()
	if key == "" {
		_, ok := client.refresh(ctx)
		return ok
	}

	// The shared refresh outlives whichever caller started it; each caller
	// still stops waiting when its own context ends.
	results := client.refreshGroup.DoChan(key, func() (any, error) {
		cookies, ok := client.refresh(context.WithoutCancel(ctx))
		return refreshResult{cookies: cookies, ok: ok}, nil
	})
	select {
	case <-ctx.Done():
		client.logger.Debug("gave up waiting for shared refresh", zap.Error(ctx.Err()))
		return false
	case shared := <-results:
		result := shared.Val.(refreshResult)
		if shared.Shared && result.ok && client.httpClient.Jar != nil {
			client.httpClient.Jar.SetCookies(client.refreshURL, result.cookies)
		}
		return result.ok
	}
}

func (client *Client) refreshKey() string {
	if client.httpClient.Jar == nil {
		return ""
	}
	for _, cookie := range client.httpClient.Jar.Cookies(client.refreshURL) {
		if cookie.Name == session.RefreshTokenCookieName {
			return cookie.Value
		}
	}
	return ""
}

func (client *Client) refresh(ctx context.Context) ([]*http.Cookie, bool) {
	attemptCtx, cancel := client.attemptContext(ctx)
	defer cancel()

	httpRequest, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, client.refreshURL.String(), nil)
	if err != nil {
		client.logger.Error("build refresh request", zap.Error(err))
		return nil, false
	}

	// A redirect answer is a failed refresh, never a page to follow.
	refreshClient := *client.httpClient
	refreshClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	response, err := refreshClient.Do(httpRequest)
	if err != nil {
		client.logger.Warn("refresh request failed", zap.Error(err))
		return nil, false
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	ok := response.StatusCode >= 200 && response.StatusCode < 300
	client.logger.Debug("refresh answered", zap.Int("status", response.StatusCode), zap.Bool("ok", ok))
	return response.Cookies(), ok
}

func (client *Client) attempt(ctx context.Context, prepared preparedRequest) Outcome {
	attemptCtx, cancel := client.attemptContext(ctx)
	defer cancel()

	httpRequest, err := prepared.build(attemptCtx)
	if err != nil {
		return Outcome{Kind: KindTransportFailure, Message: genericErrorMessage, Err: err}
	}

	response, err := client.httpClient.Do(httpRequest)
	if err != nil {
		client.logger.Warn("upstream request failed",
			zap.String("method", prepared.method),
			zap.String("path", prepared.target.Path),
			zap.Error(err))
		return Outcome{Kind: KindTransportFailure, Message: genericErrorMessage, Err: err}
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return Outcome{Kind: KindTransportFailure, Status: response.StatusCode, Message: genericErrorMessage, Err: fmt.Errorf("read response body: %w", err)}
	}

	outcome := classify(response.StatusCode, body, prepared.response)
	client.logger.Debug("upstream answered",
		zap.String("method", prepared.method),
		zap.String("path", prepared.target.Path),
		zap.Int("status", response.StatusCode),
		zap.Stringer("kind", outcome.Kind))
	return outcome
}

func (client *Client) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if client.timeout > 0 {
		return context.WithTimeout(ctx, client.timeout)
	}
	return context.WithCancel(ctx)
}
