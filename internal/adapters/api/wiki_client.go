package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/geflip-go/internal/adapters/metrics"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
)

const (
	defaultBaseURL     = "https://prices.runescape.wiki/api/v1/osrs"
	defaultUserAgent   = "geflip/0.1 (+https://github.com/andrescamacho/geflip-go)"
	defaultTimeout     = 20 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = time.Second
)

// ErrUnsupportedTimestep indicates a timeseries bucket size the feed does not serve
var ErrUnsupportedTimestep = errors.New("unsupported timeseries timestep")

var timesteps = map[string]bool{"5m": true, "1h": true, "6h": true, "24h": true}

// WikiClient reads the item catalog and price feeds from the real-time prices API.
// It implements market.PriceFeed and market.TimeseriesProvider.
type WikiClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *CircuitBreaker
	baseURL     string
	userAgent   string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
}

// NewWikiClient creates a client from the wiki configuration section
func NewWikiClient(cfg config.WikiConfig, clock shared.Clock) *WikiClient {
	c := NewWikiClientWithConfig(cfg.BaseURL, cfg.UserAgent, cfg.Retry.MaxAttempts, cfg.Retry.BackoffBase, clock)
	if cfg.Timeout > 0 {
		c.httpClient.Timeout = cfg.Timeout
	}
	if cfg.RateLimit.Requests > 0 {
		burst := cfg.RateLimit.Burst
		if burst < 1 {
			burst = 1
		}
		c.rateLimiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.Requests), burst)
	}
	if cfg.CircuitBreaker.MaxFailures > 0 {
		c.breaker = NewCircuitBreaker(cfg.CircuitBreaker.MaxFailures, cfg.CircuitBreaker.Timeout, clock)
	}
	return c
}

// NewWikiClientWithConfig creates a client with explicit settings.
// Empty values fall back to the public API defaults; a nil clock uses RealClock.
func NewWikiClientWithConfig(
	baseURL string,
	userAgent string,
	maxRetries int,
	backoffBase time.Duration,
	clock shared.Clock,
) *WikiClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	if backoffBase <= 0 {
		backoffBase = defaultBackoffBase
	}
	clock = shared.OrRealClock(clock)
	return &WikiClient{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: rate.NewLimiter(rate.Limit(2), 5),
		breaker:     NewCircuitBreaker(5, time.Minute, clock),
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   userAgent,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		clock:       clock,
	}
}

// BreakerState reports the circuit breaker state, for health output
func (c *WikiClient) BreakerState() CircuitState {
	return c.breaker.State()
}

type mappingEntry struct {
	ID      *int   `json:"id"`
	Item    *int   `json:"item"`
	Name    string `json:"name"`
	Limit   *int64 `json:"limit"`
	Members *bool  `json:"members"`
}

// FetchCatalog returns every item in /mapping. Entries without a usable id are skipped.
func (c *WikiClient) FetchCatalog(ctx context.Context) (market.Catalog, error) {
	var raw []json.RawMessage
	if err := c.get(ctx, "/mapping", nil, &raw); err != nil {
		return nil, err
	}

	catalog := make(market.Catalog, len(raw))
	for _, msg := range raw {
		var entry mappingEntry
		if err := json.Unmarshal(msg, &entry); err != nil {
			continue
		}
		id := entry.ID
		if id == nil {
			id = entry.Item
		}
		if id == nil {
			continue
		}
		item, err := market.NewItem(*id, entry.Name, entry.Limit, entry.Members)
		if err != nil {
			continue
		}
		catalog[item.ID] = item
	}
	return catalog, nil
}

// FetchLatest returns the /latest record per item
func (c *WikiClient) FetchLatest(ctx context.Context) (map[int]market.LatestPrice, error) {
	var payload struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := c.get(ctx, "/latest", nil, &payload); err != nil {
		return nil, err
	}
	return decodeKeyed[market.LatestPrice](payload.Data), nil
}

// FetchWindowed returns the /1h or /5m aggregate per item
func (c *WikiClient) FetchWindowed(ctx context.Context, window string) (map[int]market.WindowedPrice, error) {
	if window != market.Window1h && window != market.Window5m {
		return nil, fmt.Errorf("%w: %q", market.ErrUnsupportedWindow, window)
	}
	var payload struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := c.get(ctx, "/"+window, nil, &payload); err != nil {
		return nil, err
	}
	return decodeKeyed[market.WindowedPrice](payload.Data), nil
}

// FetchTimeseries returns the price history buckets for one item
func (c *WikiClient) FetchTimeseries(ctx context.Context, itemID int, timestep string) ([]market.TimeseriesPoint, error) {
	if timestep == "" {
		timestep = market.Window1h
	}
	if !timesteps[timestep] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTimestep, timestep)
	}
	query := url.Values{}
	query.Set("id", strconv.Itoa(itemID))
	query.Set("timestep", timestep)

	var payload struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := c.get(ctx, "/timeseries", query, &payload); err != nil {
		return nil, err
	}

	points := make([]market.TimeseriesPoint, 0, len(payload.Data))
	for _, msg := range payload.Data {
		var p market.TimeseriesPoint
		if err := json.Unmarshal(msg, &p); err != nil {
			continue
		}
		points = append(points, p)
	}
	return points, nil
}

// decodeKeyed converts {"<id>": {...}} into a map keyed by int id, skipping
// non-numeric keys and records that do not decode
func decodeKeyed[T any](data map[string]json.RawMessage) map[int]T {
	out := make(map[int]T, len(data))
	for key, msg := range data {
		id, err := strconv.Atoi(key)
		if err != nil || id <= 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(msg, &v); err != nil {
			continue
		}
		out[id] = v
	}
	return out
}

// get performs a GET through the circuit breaker and decodes the JSON body into result
func (c *WikiClient) get(ctx context.Context, endpoint string, query url.Values, result interface{}) error {
	err := c.breaker.Call(func() error {
		return c.request(ctx, endpoint, query, result)
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", market.ErrFeedUnavailable, endpoint, err)
	}
	return nil
}

func (c *WikiClient) request(ctx context.Context, endpoint string, query url.Values, result interface{}) error {
	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var lastErr error

	// Attempt the request with exponential backoff + jitter retries
attempts:
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		waitStart := time.Now()
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return &permanentError{err: fmt.Errorf("rate limiter error: %w", err)}
		}
		metrics.RecordRateLimitWait(endpoint, time.Since(waitStart).Seconds())

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return &permanentError{err: fmt.Errorf("failed to create request: %w", err)}
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return &permanentError{err: fmt.Errorf("context cancelled: %w", ctx.Err())}
			}
			lastErr = &retryableError{message: fmt.Sprintf("network error: %v", err)}
			if !c.backoff(ctx, endpoint, "network", attempt, 0) {
				break attempts
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		metrics.RecordFeedRequest(endpoint, resp.StatusCode, time.Since(start).Seconds())
		if readErr != nil {
			lastErr = &retryableError{message: fmt.Sprintf("failed to read response: %v", readErr)}
			if !c.backoff(ctx, endpoint, "read", attempt, 0) {
				break attempts
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
			lastErr = &retryableError{message: "rate limited (429)", retryAfter: retryAfter}
			if !c.backoff(ctx, endpoint, "429", attempt, retryAfter) {
				break attempts
			}
			continue

		case resp.StatusCode >= 500:
			lastErr = &retryableError{message: fmt.Sprintf("server error (%d)", resp.StatusCode)}
			if !c.backoff(ctx, endpoint, strconv.Itoa(resp.StatusCode), attempt, 0) {
				break attempts
			}
			continue

		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return &permanentError{err: &StatusError{
				Endpoint:   endpoint,
				StatusCode: resp.StatusCode,
				Body:       truncate(string(body), 200),
			}}
		}

		if result != nil {
			if err := json.Unmarshal(body, result); err != nil {
				return &permanentError{err: fmt.Errorf("failed to decode %s: %w", endpoint, err)}
			}
		}
		return nil
	}

	slog.Warn("price feed retries exhausted", "endpoint", endpoint, "attempts", c.maxRetries+1, "error", lastErr)
	if lastErr != nil {
		return fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return fmt.Errorf("max retries exceeded")
}

// backoff sleeps before the next attempt and reports whether one remains.
// A server-provided Retry-After replaces the jittered exponential delay.
func (c *WikiClient) backoff(ctx context.Context, endpoint, reason string, attempt int, retryAfter time.Duration) bool {
	if attempt >= c.maxRetries || ctx.Err() != nil {
		return false
	}
	delay := addJitter(c.backoffBase * time.Duration(1<<attempt))
	if retryAfter > 0 {
		delay = retryAfter
	}
	metrics.RecordFeedRetry(endpoint, reason)
	slog.Debug("retrying price feed request", "endpoint", endpoint, "reason", reason, "attempt", attempt+1, "delay", delay)
	c.clock.Sleep(delay)
	return true
}

func parseRetryAfter(value string) time.Duration {
	if seconds, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}

// addJitter adds up to 25% random jitter to a delay
func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(d)/4+1))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
