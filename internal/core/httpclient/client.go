package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"shipment-tracker/internal/core/logger"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	logger  *zap.Logger
}

// RoundTrip executes the request and logs details.
// Query strings are dropped from the logged URL since they may carry tracking codes.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	target := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	lrt.logger.Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", target),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		lrt.logger.Warn("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	lrt.logger.Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// Option customizes the transport built by NewClient.
type Option func(*http.Transport) error

// WithProxy routes every request through the given proxy URL.
// An empty URL leaves the transport untouched.
func WithProxy(proxyURL string) Option {
	return func(t *http.Transport) error {
		if proxyURL == "" {
			return nil
		}
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return fmt.Errorf("invalid proxy URL: %w", err)
		}
		t.Proxy = http.ProxyURL(parsed)
		return nil
	}
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration, opts ...Option) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	for _, opt := range opts {
		if err := opt(transport); err != nil {
			return nil, err
		}
	}

	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: transport,
			logger:  logger.Named("http"),
		},
		Timeout: timeout,
	}, nil
}
