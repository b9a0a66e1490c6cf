// Package httpclient issues the HTTP requests the DCInside crawl engine
// depends on: sampled desktop User-Agents, site-tuned headers, a bounded
// redirect policy, response classification, and exponential backoff with
// bounded retries. It is the only component in the crawler that retries;
// every layer above it treats a returned error as final for that call.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hanaul/dc-harvester/internal/dcinside"
)

// userAgents is a pool of realistic desktop User-Agents sampled
// uniformly per request, matching real browser traffic closely enough
// to avoid trivial fingerprinting by the upstream.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
}

const (
	requestTimeout = 10 * time.Second
	maxRedirects   = 5
	maxAttempts    = 3
)

// Method is the HTTP verb of a Send call.
type Method string

const (
	MethodGET  Method = http.MethodGet
	MethodPOST Method = http.MethodPost
)

// Client issues requests against gall.dcinside.com and sibling hosts.
// One Client value owns one *http.Client; it is not safe for concurrent
// use, and the crawl engine never calls it concurrently within one run.
type Client struct {
	http          *http.Client
	runURL        string // configured run URL, used as Referer on POST
	limiter       *rate.Limiter
	rng           *rand.Rand
	nowFunc       func() time.Time
	sleepFunc     func(time.Duration)
	retryCount    int
	rateLimitHits int
}

// Option configures a Client at construction.
type Option func(*Client)

// WithRateLimiter caps outbound dispatch regardless of the walker/
// collector's own politeness sleeps — a belt-and-suspenders throttle
// for the rare case a caller wires several engines against one host.
func WithRateLimiter(requestsPerSecond float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// New creates a Client. runURL is the site/run origin used as the
// Referer on POST requests (the comments API).
func New(runURL string, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: requestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("httpclient: stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		runURL:    runURL,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		nowFunc:   time.Now,
		sleepFunc: time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches target with no query parameters beyond what's already
// embedded in it.
func (c *Client) Get(ctx context.Context, target string) ([]byte, error) {
	return c.Send(ctx, MethodGET, target, nil)
}

// PostForm posts params as a form-url-encoded body to target.
func (c *Client) PostForm(ctx context.Context, target string, params url.Values) ([]byte, error) {
	return c.Send(ctx, MethodPOST, target, params)
}

// Send issues one request, retrying on any non-NotFound failure with
// delay 2^k*1000ms for attempt k (1-indexed), up to maxAttempts total.
// params are URL query parameters for GET, or form-url-encoded body
// fields for POST.
func (c *Client) Send(ctx context.Context, method Method, target string, params url.Values) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		body, err := c.attempt(ctx, method, target, params)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, dcinside.ErrNotFound) {
			return nil, err
		}
		if errors.Is(err, dcinside.ErrRateLimited) {
			c.rateLimitHits++
		}
		lastErr = err

		if attempt < maxAttempts {
			c.retryCount++
			delay := time.Duration(1<<uint(attempt)) * time.Second
			c.sleepFunc(delay)
		}
	}

	return nil, lastErr
}

// Stats returns the cumulative retry and rate-limit-hit counts across
// every Send call this Client has made, for the engine's end-of-run
// summary.
func (c *Client) Stats() (retryCount, rateLimitHits int) {
	return c.retryCount, c.rateLimitHits
}

func (c *Client) attempt(ctx context.Context, method Method, target string, params url.Values) ([]byte, error) {
	req, err := c.buildRequest(ctx, method, target, params)
	if err != nil {
		return nil, fmt.Errorf("httpclient: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, dcinside.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", dcinside.ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d", dcinside.ErrHTTP, resp.StatusCode)
	default:
		return data, nil
	}
}

func (c *Client) buildRequest(ctx context.Context, method Method, target string, params url.Values) (*http.Request, error) {
	var req *http.Request
	var err error

	switch method {
	case MethodGET:
		u := target
		if len(params) > 0 {
			u = target + "?" + params.Encode()
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Referer", origin(target))
	case MethodPOST:
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(params.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		refererURL := c.runURL
		if refererURL == "" {
			refererURL = origin(target)
		}
		req.Header.Set("Referer", refererURL)
	default:
		return nil, fmt.Errorf("httpclient: unsupported method %q", method)
	}

	req.Header.Set("User-Agent", c.pickUserAgent())
	return req, nil
}

func (c *Client) pickUserAgent() string {
	return userAgents[c.rng.Intn(len(userAgents))]
}

func origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Path = ""
	u.RawQuery = ""
	return u.String()
}
