package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/common/logger"
)

// RequestIDHeader carries the per-request correlation id to the backend.
const RequestIDHeader = "X-Request-ID"

// LoggingTransport is an http.RoundTripper that stamps every outbound request
// with a request id and emits one structured log line per round trip.
//
// Usage:
//
//	client := &http.Client{Transport: middleware.NewLoggingTransport(nil, logger.Log)}
type LoggingTransport struct {
	next   http.RoundTripper
	logger *zap.Logger
}

// NewLoggingTransport wraps next (http.DefaultTransport when nil).
func NewLoggingTransport(next http.RoundTripper, l *zap.Logger) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &LoggingTransport{next: next, logger: l}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		if rid := logger.RequestID(req.Context()); rid != "unknown" {
			requestID = rid
		} else {
			requestID = uuid.NewString()
		}
		// RoundTrippers must not mutate the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, requestID)
	}

	resp, err := t.next.RoundTrip(req)
	latency := time.Since(start)

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Duration("latency", latency),
	}

	if err != nil {
		t.logger.Error("http_request", append(fields, zap.Error(err))...)
		return nil, err
	}

	fields = append(fields, zap.Int("status", resp.StatusCode))
	switch {
	case resp.StatusCode >= 500:
		t.logger.Error("http_request", fields...)
	case resp.StatusCode >= 400:
		t.logger.Warn("http_request", fields...)
	default:
		t.logger.Info("http_request", fields...)
	}
	return resp, nil
}
