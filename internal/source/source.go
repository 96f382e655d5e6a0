// Package source fetches candidate events from external providers.
package source

import (
	"context"
	"errors"
	"fmt"
	"github.com/clambin/go-common/http/metrics"
	"github.com/clambin/go-common/http/roundtripper"
	"github.com/prometheus/client_golang/prometheus"
	"io"
	"net/http"
	"strconv"
	"time"
)

var (
	// ErrSourceUnavailable indicates that the provider could not be reached, or returned a malformed response.
	ErrSourceUnavailable = errors.New("event source unavailable")
	// ErrParse indicates that the provider's response does not have the expected structure.
	ErrParse = errors.New("unable to parse events")
)

// NewRequestMetrics returns the metrics recorded for each call to an event source.
func NewRequestMetrics(namespace, subsystem string, labels prometheus.Labels) metrics.RequestMetrics {
	return metrics.NewRequestMetrics(metrics.Options{
		Namespace:   namespace,
		Subsystem:   subsystem,
		ConstLabels: labels,
		LabelValues: func(request *http.Request, code int) (string, string, string) {
			return request.Method, request.URL.Host, strconv.Itoa(code)
		},
	})
}

// NewHTTPClient returns an http.Client that records each request in the provided metrics. If metrics is nil,
// requests are not recorded.
func NewHTTPClient(m metrics.RequestMetrics, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: instrumentedRoundTripper(http.DefaultTransport, m),
		Timeout:   timeout,
	}
}

func instrumentedRoundTripper(rt http.RoundTripper, m metrics.RequestMetrics) http.RoundTripper {
	if m == nil {
		return rt
	}
	return roundtripper.New(
		roundtripper.WithRequestMetrics(m),
		roundtripper.WithRoundTripper(rt),
	)
}

func get(ctx context.Context, client *http.Client, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, resp.Status)
	}
	return resp.Body, nil
}
