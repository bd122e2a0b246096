package catalog

import (
	"context"
	"fmt"
	"time"

	"catalog-sync/core/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FetchOptions overrides the configured fetch behaviour for one call.
type FetchOptions struct {
	// Strict fails the whole fetch on the first failed page.
	Strict bool
	// Concurrency overrides Config.Concurrency when > 0.
	Concurrency int
}

// FetchAll retrieves pages 1..totalPages of endpoint with a bounded worker pool.
//
// Without Strict, a page that still fails after its retries is recorded in the
// Collection and the other pages are kept. With Strict, the first failure cancels
// the remaining pages and is returned. Cancellation of ctx is always returned,
// together with whatever was fetched so far.
func (c *Client) FetchAll(ctx context.Context, endpoint string, totalPages int, opts FetchOptions) (*Collection, error) {
	if totalPages < 0 {
		return nil, errors.NewConfigurationError("pages", fmt.Sprintf("must be >= 0, got %d", totalPages))
	}
	if _, err := PageURL(endpoint, 1); err != nil {
		return nil, err
	}

	collection := &Collection{Endpoint: endpoint, Pages: make([]Page, totalPages)}
	if totalPages == 0 {
		return collection, nil
	}

	concurrency := c.cfg.Concurrency
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for n := 1; n <= totalPages; n++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			items, attempts, err := c.fetchWithRetry(gctx, endpoint, n)
			collection.Pages[n-1] = Page{Number: n, Items: items, Attempts: attempts, Err: err}
			if err != nil {
				c.logger.Warn("Page fetch failed",
					zap.String("endpoint", endpoint),
					zap.Int("page", n),
					zap.Int("attempts", attempts),
					zap.Error(err))
				if opts.Strict {
					return fmt.Errorf("page %d: %w", n, err)
				}
			}
			return nil
		})
	}

	err := g.Wait()

	// Pages never launched because of cancellation keep their number and the cause
	for i := range collection.Pages {
		if collection.Pages[i].Number == 0 {
			collection.Pages[i] = Page{Number: i + 1, Err: context.Cause(gctx)}
		}
	}
	collection.sort()

	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return collection, ctx.Err()
	}
	return collection, nil
}

// fetchWithRetry fetches one page, retrying retryable failures with linear backoff.
func (c *Client) fetchWithRetry(ctx context.Context, endpoint string, page int) ([]RawItem, int, error) {
	maxAttempts := 1 + max(0, c.cfg.PageRetries)
	baseDelay := time.Duration(c.cfg.RetryDelayMs) * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		items, err := c.FetchPage(ctx, endpoint, page)
		if err == nil {
			return items, attempt, nil
		}
		lastErr = err

		var transportErr *errors.TransportError
		if !errors.As(err, &transportErr) || !transportErr.Retryable() || ctx.Err() != nil {
			return nil, attempt, lastErr
		}
		if attempt == maxAttempts {
			break
		}

		delay := time.Duration(attempt) * baseDelay
		c.logger.Debug("Retrying page",
			zap.String("endpoint", endpoint),
			zap.Int("page", page),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, attempt, ctx.Err()
		}
	}
	return nil, maxAttempts, lastErr
}
