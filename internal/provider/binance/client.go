package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"download-ticks/internal/model"
)

const (
	// DefaultBaseURL is the public spot REST endpoint.
	DefaultBaseURL = "https://api.binance.com"

	// MaxLimit is the most candles one klines request returns.
	MaxLimit = 1000

	klinesPath = "/api/v3/klines"
)

// Config holds the client settings. Zero fields fall back to defaults.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	RetryCount      int           // attempts per request, including the first
	RetryWait       time.Duration // pause before the first retry
	RetryMaxWait    time.Duration // backoff cap, also caps Retry-After
	RequestInterval time.Duration // minimum spacing between requests
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RetryCount < 1 {
		c.RetryCount = 1
	}
	if c.RetryWait <= 0 {
		c.RetryWait = 3 * time.Second
	}
	if c.RetryMaxWait < c.RetryWait {
		c.RetryMaxWait = c.RetryWait
	}
	return c
}

// KlinesRequest is one GET /api/v3/klines call. Zero times are omitted from the query.
type KlinesRequest struct {
	Symbol    string
	Interval  model.Interval
	StartTime time.Time
	EndTime   time.Time
	Limit     int
}

// Client talks to the exchange REST API.
type Client struct {
	http    *resty.Client
	limiter *RateLimiter
	log     *slog.Logger
}

// NewClient builds a client with retries, pacing and debug request logging.
// A nil log follows slog.Default at call time.
func NewClient(cfg Config, log *slog.Logger) *Client {
	cfg = cfg.withDefaults()

	rc := resty.NewWithClient(newHTTPClient(cfg.Timeout)).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount - 1).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetRetryAfter(retryAfter).
		AddRetryCondition(retryable)

	c := &Client{http: rc, limiter: NewRateLimiter(cfg.RequestInterval), log: log}
	rc.SetLogger(restyLogger{c})
	rc.OnAfterResponse(c.logResponse)
	rc.OnError(func(req *resty.Request, err error) {
		c.logger().Debug("binance request failed", "method", req.Method, "url", req.URL, "attempt", req.Attempt, "error", err)
	})
	return c
}

// Klines fetches one page of candles ordered by open time.
func (c *Client) Klines(ctx context.Context, q KlinesRequest) ([]model.Kline, error) {
	if q.Symbol == "" {
		return nil, errors.New("binance: symbol required")
	}
	if !q.Interval.Valid() {
		return nil, fmt.Errorf("binance: %w: %q", model.ErrUnknownInterval, q.Interval)
	}
	limit := q.Limit
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}

	params := map[string]string{
		"symbol":   strings.ToUpper(q.Symbol),
		"interval": q.Interval.String(),
		"limit":    strconv.Itoa(limit),
	}
	if !q.StartTime.IsZero() {
		params["startTime"] = strconv.FormatInt(q.StartTime.UnixMilli(), 10)
	}
	if !q.EndTime.IsZero() {
		params["endTime"] = strconv.FormatInt(q.EndTime.UnixMilli(), 10)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(klinesPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("binance: GET %s: %w", klinesPath, err)
	}
	if resp.IsError() {
		return nil, parseAPIError(resp.StatusCode(), resp.Body())
	}

	var klines []model.Kline
	if err := json.Unmarshal(resp.Body(), &klines); err != nil {
		return nil, fmt.Errorf("binance: decode klines: %w", err)
	}
	return klines, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}

func (c *Client) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return slog.Default()
}

func (c *Client) logResponse(_ *resty.Client, r *resty.Response) error {
	log := c.logger()
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		return nil
	}
	url := r.Request.URL
	if r.Request.RawRequest != nil {
		url = r.Request.RawRequest.URL.String()
	}
	log.Debug("binance request",
		"method", r.Request.Method,
		"url", url,
		"status", r.StatusCode(),
		"duration", r.Time(),
		"attempt", r.Request.Attempt,
	)
	return nil
}

// retryable retries transport errors, 429 and 5xx. 418 and other 4xx are final.
func retryable(r *resty.Response, err error) bool {
	if r != nil && r.Request != nil && r.Request.Context().Err() != nil {
		return false
	}
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	s := r.StatusCode()
	return s == http.StatusTooManyRequests || s >= http.StatusInternalServerError
}

// retryAfter honors the Retry-After header on 429/503. Zero lets resty use its backoff.
func retryAfter(_ *resty.Client, r *resty.Response) (time.Duration, error) {
	if r == nil {
		return 0, nil
	}
	return parseRetryAfter(r.Header().Get("Retry-After"), time.Now()), nil
}

// parseRetryAfter accepts delay-seconds or an HTTP date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// restyLogger routes resty's own messages to slog at debug level.
type restyLogger struct{ c *Client }

func (l restyLogger) Errorf(format string, v ...interface{}) { l.debugf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.debugf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.debugf(format, v...) }

func (l restyLogger) debugf(format string, v ...interface{}) {
	l.c.logger().Debug("resty: " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}
