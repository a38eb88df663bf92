// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP plumbing shared by stages that call
// remote services.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// busy responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 5

// Retryable reports whether a status code means the server is busy and
// the same request may succeed later: 429 (rate limited) or 503 (a
// parser server with a full queue).
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// retryAfter returns the delay a response asks for in its Retry-After
// header, in whole seconds, or zero.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// DoWithRetry executes req and retries busy responses with exponential
// backoff starting at RetryBaseDelay. A Retry-After header longer than the
// computed backoff wins.
//
// When maxRetries is 0 the default (5) is used. The body of a busy response
// is drained and closed before sleeping, so req must carry a body that can
// be replayed (GetBody set, as http.NewRequest does for in-memory readers).
// If ctx is cancelled while waiting the function returns ctx.Err(). After
// exhausting retries the last busy response is returned so the caller can
// inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, log *logrus.Logger) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}
		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(1<<attempt) * RetryBaseDelay
		if ra := retryAfter(resp); ra > backoff {
			backoff = ra
		}
		log.WithFields(logrus.Fields{
			"url":     req.URL.Redacted(),
			"status":  resp.StatusCode,
			"attempt": attempt + 1,
			"backoff": backoff,
		}).Warn("server busy, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
