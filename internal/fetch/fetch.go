// Package fetch provides the shared HTTP client used by every pipeline
// stage: bounded timeout, linear-backoff retry on transient failure, a
// rate limiter enforcing a polite delay between requests on the pool, and
// a recognizable User-Agent. Grounded in the teacher's rate-limited BDL
// client (internal/provider/bdl/client.go), generalized from a
// single-provider API client to a generic page fetcher, and in the
// original Python's utils/request_utils.py for retry/backoff shape.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Kind tags a Result as the sum type from spec §9: Ok | Transient |
// Permanent | ParseError. Fetch itself only ever produces Ok, Transient,
// or Permanent — ParseError is reserved for extractor callers that wrap a
// successful fetch's bytes.
type Kind int

const (
	KindOk Kind = iota
	KindTransient
	KindPermanent
	KindParseError
)

func (k Kind) String() string {
	switch k {
	case KindOk:
		return "ok"
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	case KindParseError:
		return "parse_error"
	default:
		return "unknown"
	}
}

// ErrorClass distinguishes the reason a non-Ok Result occurred.
type ErrorClass int

const (
	ErrNone ErrorClass = iota
	ErrTimeout
	ErrHTTP4xx
	ErrHTTP5xx
	ErrNetwork
)

func (e ErrorClass) String() string {
	switch e {
	case ErrTimeout:
		return "timeout"
	case ErrHTTP4xx:
		return "http_4xx"
	case ErrHTTP5xx:
		return "http_5xx"
	case ErrNetwork:
		return "network"
	default:
		return "none"
	}
}

// Result is the sum type returned by Fetch. Exactly one of Body (Kind ==
// KindOk) or Err/Class (otherwise) is meaningful.
type Result struct {
	Kind       Kind
	Body       []byte
	URL        string
	StatusCode int
	Class      ErrorClass
	Err        error
}

// Error implements the error interface so a Result can be returned/wrapped
// like any other error when a caller only cares about failure.
func (r Result) Error() string {
	if r.Kind == KindOk {
		return ""
	}
	return fmt.Sprintf("fetch %s: %s (%v)", r.URL, r.Class, r.Err)
}

// Client is the shared fetcher for a pipeline run: one *http.Client, one
// rate limiter, reused across every stage and worker in the run per
// spec §4.1 ("Reuses a single connection pool per pipeline run").
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	ua      string
	retries int
	backoff time.Duration
	log     *slog.Logger
}

// Config configures a Client. PoliteDelay is the minimum spacing between
// requests issued through this client; Retries/Backoff implement the
// linear-increasing retry schedule base*(attempt+1).
type Config struct {
	Timeout     time.Duration
	Retries     int
	Backoff     time.Duration
	PoliteDelay time.Duration
	UserAgent   string
}

// New builds a Client. logger may be nil, in which case slog.Default() is used.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	delay := cfg.PoliteDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		ua:      cfg.UserAgent,
		retries: cfg.Retries,
		backoff: cfg.Backoff,
		log:     logger,
	}
}

// Fetch issues a GET against url, retrying transient failures per
// spec §4.1: timeout/network/5xx retry up to Retries times with delay
// base*(attempt+1); 4xx other than handled specially returns Permanent
// immediately; 404 is Permanent with no retry.
func (c *Client) Fetch(ctx context.Context, url string) Result {
	var last Result
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := c.backoff * time.Duration(attempt)
			c.log.Debug("fetch retry", "url", url, "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
				return Result{Kind: KindTransient, URL: url, Class: ErrNetwork, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return Result{Kind: KindTransient, URL: url, Class: ErrNetwork, Err: err}
		}

		result := c.attempt(ctx, url)
		if result.Kind == KindOk || result.Kind == KindPermanent {
			return result
		}
		last = result
	}
	return last
}

func (c *Client) attempt(ctx context.Context, url string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Kind: KindPermanent, URL: url, Class: ErrNetwork, Err: err}
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		class := ErrNetwork
		if ctxErr := ctx.Err(); ctxErr != nil {
			class = ErrTimeout
		}
		return Result{Kind: KindTransient, URL: url, Class: class, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Kind: KindTransient, URL: url, Class: ErrNetwork, Err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Result{Kind: KindOk, URL: url, Body: body, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		return Result{Kind: KindPermanent, URL: url, StatusCode: resp.StatusCode, Class: ErrHTTP4xx,
			Err: fmt.Errorf("404 not found")}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return Result{Kind: KindPermanent, URL: url, StatusCode: resp.StatusCode, Class: ErrHTTP4xx,
			Err: fmt.Errorf("http %d", resp.StatusCode)}
	case resp.StatusCode >= 500:
		return Result{Kind: KindTransient, URL: url, StatusCode: resp.StatusCode, Class: ErrHTTP5xx,
			Err: fmt.Errorf("http %d", resp.StatusCode)}
	default:
		return Result{Kind: KindTransient, URL: url, StatusCode: resp.StatusCode, Class: ErrNetwork,
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
}
