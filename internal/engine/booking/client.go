package booking

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	utls "github.com/refraction-networking/utls"
)

const (
	DefaultBaseURL = "https://booking-com.p.rapidapi.com/v1"
	DefaultAPIHost = "booking-com.p.rapidapi.com"

	DefaultMaxRetries = 3
	defaultBackoff    = 2 * time.Second
	maxBackoff        = 30 * time.Second
	jitterFactor      = 0.5
)

var (
	// ErrDestinationNotFound is returned when the location lookup has no match.
	ErrDestinationNotFound = errors.New("destination not found")
	// ErrMalformedResponse is returned when a 2xx body does not have the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// RateLimitError indicates the API quota was hit.
type RateLimitError struct {
	StatusCode int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (status %d)", e.StatusCode)
}

// StatusError is any other non-2xx response.
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Path, e.StatusCode)
}

// Stats counts client activity for the session summary.
type Stats struct {
	Requests   atomic.Int64
	RateLimits atomic.Int64
	Errors     atomic.Int64
}

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL    string
	APIKey     string
	APIHost    string
	ProxyURL   string
	MaxRetries int
	// BaseBackoff is the first wait after a 429; negative disables waiting.
	BaseBackoff time.Duration
	// HTTPClient replaces the fingerprinted transport, mainly for tests.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the RapidAPI Booking.com endpoints.
type Client struct {
	http        *http.Client
	baseURL     string
	apiKey      string
	apiHost     string
	maxRetries  int
	baseBackoff time.Duration
	logger      *slog.Logger
	stats       Stats
}

func NewClient(opts Options) *Client {
	c := &Client{
		http:        opts.HTTPClient,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		apiHost:     opts.APIHost,
		maxRetries:  opts.MaxRetries,
		baseBackoff: opts.BaseBackoff,
		logger:      opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.apiHost == "" {
		c.apiHost = DefaultAPIHost
	}
	if c.maxRetries <= 0 {
		c.maxRetries = DefaultMaxRetries
	}
	switch {
	case c.baseBackoff < 0:
		c.baseBackoff = 0
	case c.baseBackoff == 0:
		c.baseBackoff = defaultBackoff
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	c.logger = c.logger.With("component", "booking")
	if c.http == nil {
		c.http = &http.Client{
			Transport: newTransport(opts.ProxyURL),
			Timeout:   15 * time.Second,
		}
	}
	return c
}

// newTransport dials TLS with a Chrome ClientHello. With a proxy the
// proxy owns the connection, so plain crypto/tls is used instead.
func newTransport(proxyURL string) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}

			host, _, err := net.SplitHostPort(addr)
			if err != nil {
				host = addr
			}

			// Chrome spec with ALPN pinned to HTTP/1.1, net/http can't speak h2 over a utls conn
			spec, err := utls.UTLSIdToSpec(utls.HelloChrome_Auto)
			if err != nil {
				conn.Close()
				return nil, err
			}
			for i, ext := range spec.Extensions {
				if alpn, ok := ext.(*utls.ALPNExtension); ok {
					alpn.AlpnProtocols = []string{"http/1.1"}
					spec.Extensions[i] = alpn
					break
				}
			}

			tlsConn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloCustom)
			if err := tlsConn.ApplyPreset(&spec); err != nil {
				conn.Close()
				return nil, err
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if proxyURL != "" {
		if parsed, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(parsed)
			transport.DialTLSContext = nil
			transport.TLSClientConfig = &tls.Config{}
		}
	}
	return transport
}

// Stats exposes the live request counters.
func (c *Client) Stats() *Stats {
	return &c.stats
}

// getJSON performs a GET with retry on rate limiting and decodes the body
// with UseNumber so large hotel ids survive.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values) (any, error) {
	reqURL := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := range c.maxRetries {
		body, err := c.doRequest(ctx, path, reqURL)
		if err == nil {
			var out any
			dec := json.NewDecoder(bytes.NewReader(body))
			dec.UseNumber()
			if err := dec.Decode(&out); err != nil {
				c.stats.Errors.Add(1)
				return nil, fmt.Errorf("%s: decoding body: %w: %v", path, ErrMalformedResponse, err)
			}
			return out, nil
		}

		lastErr = err
		var rl *RateLimitError
		if !errors.As(err, &rl) {
			c.stats.Errors.Add(1)
			return nil, err
		}
		c.stats.RateLimits.Add(1)

		if attempt == c.maxRetries-1 {
			break
		}
		backoff := c.baseBackoff * time.Duration(1<<uint(attempt))
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		jitter := time.Duration(float64(backoff) * jitterFactor * rand.Float64())
		c.logger.Warn("rate limited, backing off", "path", path, "attempt", attempt+1, "wait", backoff+jitter)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff + jitter):
		}
	}

	c.stats.Errors.Add(1)
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, path, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)
	req.Header.Set("Accept", "application/json")

	c.stats.Requests.Add(1)
	c.logger.Debug("request", "path", path, "url", reqURL)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return nil, &RateLimitError{StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Path: path}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}
