package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
	"github.com/bortnikova888-creator/SupplierCheck-UK/shared"
	"github.com/sirupsen/logrus"
)

const maxFetchRetries = 2

// NewHTTPFetchFunc builds the FetchFunc the fetch cache invokes on a miss.
// Transport errors and 5xx responses are retried with exponential backoff
// and then propagated; any other status is returned as a result so the cache
// can store it. Retry lives here, in the connector layer, not in the cache.
func NewHTTPFetchFunc(factory *shared.HTTPClientFactory, limiter *shared.HTTPRequestRateLimiter, timeout time.Duration) FetchFunc {
	return func(ctx context.Context, url string, headers map[string]string) (*models.FetchResult, error) {
		client := factory.Client(timeout)

		var lastErr error
		for attempt := 0; attempt <= maxFetchRetries; attempt++ {
			if attempt > 0 {
				backoff := time.Duration(1<<uint(attempt-1)) * time.Second
				logrus.WithFields(logrus.Fields{
					"url":     url,
					"attempt": attempt + 1,
					"backoff": backoff,
				}).Debug("Retrying upstream fetch after backoff")

				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(backoff):
				}
			}

			limiter.EnforceRateLimit()

			request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, shared.NewUpstreamError("HTTP_Fetch", "Fetch", "failed to build request", err)
			}
			shared.SetRegistryHeaders(request, "application/json")
			for key, value := range headers {
				request.Header.Set(key, value)
			}

			response, err := client.Do(request)
			if err != nil {
				lastErr = fmt.Errorf("attempt %d failed with network error: %w", attempt+1, err)
				continue
			}

			body, err := io.ReadAll(response.Body)
			response.Body.Close()
			if err != nil {
				lastErr = fmt.Errorf("attempt %d failed reading body: %w", attempt+1, err)
				continue
			}

			if response.StatusCode >= http.StatusInternalServerError {
				lastErr = fmt.Errorf("attempt %d failed with HTTP %d", attempt+1, response.StatusCode)
				continue
			}

			return &models.FetchResult{
				Status:      response.StatusCode,
				Body:        body,
				ContentType: response.Header.Get("Content-Type"),
			}, nil
		}

		return nil, shared.NewUpstreamError("HTTP_Fetch", "Fetch",
			fmt.Sprintf("upstream fetch failed after %d attempts", maxFetchRetries+1), lastErr)
	}
}
