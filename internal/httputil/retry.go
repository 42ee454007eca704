// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil holds the outbound HTTP helper shared by the scraping
// extractors.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// RetryBaseDelay is the first backoff after a 429. Tests shrink it.
var RetryBaseDelay = 10 * time.Second

// MaxRetryAfter caps a server-supplied Retry-After delay.
var MaxRetryAfter = 2 * time.Minute

const defaultMaxRetries = 5

// DoWithRetry sends req and retries while the server answers 429 Too Many
// Requests, up to maxRetries times (5 when maxRetries <= 0).
//
// The wait before retry n is RetryBaseDelay * 2^n unless the response
// carries a Retry-After header in seconds, which is used instead (capped at
// MaxRetryAfter). Retries are logged at debug level on the global zap
// logger. Cancelling ctx during a wait returns ctx.Err(). When retries run
// out the final 429 response is returned unread.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		zap.L().Debug("rate limited, retrying",
			zap.String("url", req.URL.Redacted()),
			zap.Duration("backoff", wait),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// backoff returns the wait before the retry following attempt.
func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, MaxRetryAfter)
	}
	return RetryBaseDelay << attempt
}
