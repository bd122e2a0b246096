package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"catalog-sync/core/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxBodyBytes is the default bound on a single response body (portraits are a few hundred KB).
const maxBodyBytes = 32 << 20

// Transport performs GET requests against the catalog and its image host.
type Transport interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// HTTPTransport is the net/http Transport with a rate limiter and a circuit breaker.
type HTTPTransport struct {
	client    *http.Client
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker
	maxBody   int64
	userAgent string
	logger    *zap.Logger
}

// statusError marks a completed request with a non-2xx status.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// bodyTooLargeError marks a response whose body exceeded the configured bound.
type bodyTooLargeError struct {
	code  int
	limit int64
}

func (e *bodyTooLargeError) Error() string {
	return fmt.Sprintf("response exceeds %d bytes", e.limit)
}

// NewHTTPTransport builds an HTTPTransport whose circuit breaker is called name.
// A nil client gets one with cfg.TimeoutSeconds.
func NewHTTPTransport(name string, cfg Config, client *http.Client, logger *zap.Logger) *HTTPTransport {
	if client == nil {
		timeout := cfg.TimeoutSeconds
		if timeout <= 0 {
			timeout = 30
		}
		client = &http.Client{Timeout: time.Duration(timeout) * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	burst := 1
	if cfg.RateLimitPerSecond > 0 {
		limit = rate.Limit(cfg.RateLimitPerSecond)
		burst = max(1, cfg.Concurrency)
	}

	maxFailures := uint32(5)
	if cfg.BreakerMaxFailures > 0 {
		maxFailures = uint32(cfg.BreakerMaxFailures)
	}
	breakerTimeout := 30 * time.Second
	if cfg.BreakerTimeoutSeconds > 0 {
		breakerTimeout = time.Duration(cfg.BreakerTimeoutSeconds) * time.Second
	}

	maxBody := int64(maxBodyBytes)
	if cfg.MaxBodyBytes > 0 {
		maxBody = cfg.MaxBodyBytes
	}

	t := &HTTPTransport{
		client:    client,
		limiter:   rate.NewLimiter(limit, burst),
		maxBody:   maxBody,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}

	t.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// Client errors say nothing about the health of the remote
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *statusError
			if errors.As(err, &se) {
				return healthyStatus(se.code)
			}
			var tl *bodyTooLargeError
			if errors.As(err, &tl) {
				return healthyStatus(tl.code)
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return t
}

func healthyStatus(code int) bool {
	return code < 500 && code != http.StatusTooManyRequests
}

// Get fetches url. Any failure is returned as *errors.TransportError.
func (t *HTTPTransport) Get(ctx context.Context, url string) (*Response, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, errors.NewTransportError(url, 0, err)
	}

	result, err := t.breaker.Execute(func() (any, error) {
		return t.do(ctx, url)
	})
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			resp, _ := result.(*Response)
			t.logger.Debug("Catalog request rejected", zap.String("url", url), zap.Int("status", se.code))
			return resp, errors.NewTransportError(url, se.code, err)
		}
		var tl *bodyTooLargeError
		if errors.As(err, &tl) {
			t.logger.Warn("Catalog response too large", zap.String("url", url), zap.Int64("limit", tl.limit))
			return nil, errors.NewTransportError(url, tl.code, err)
		}
		return nil, errors.NewTransportError(url, 0, err)
	}

	return result.(*Response), nil
}

func (t *HTTPTransport) do(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	req.Header.Set("Accept", "application/json, image/*;q=0.9, */*;q=0.8")

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > t.maxBody {
		return nil, &bodyTooLargeError{code: resp.StatusCode, limit: t.maxBody}
	}

	out := &Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}

	t.logger.Debug("Catalog request",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &statusError{code: resp.StatusCode}
	}
	return out, nil
}
