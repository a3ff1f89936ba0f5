package middleware

import (
	"net/http"
	"sync/atomic"
)

// MetricsCollector counts requests, error responses and rate-limited requests.
type MetricsCollector struct {
	requestCount *atomic.Int64
	errorCount   *atomic.Int64
	limitedCount *atomic.Int64
}

func NewMetricsCollector(requestCount, errorCount, limitedCount *atomic.Int64) *MetricsCollector {
	return &MetricsCollector{
		requestCount: requestCount,
		errorCount:   errorCount,
		limitedCount: limitedCount,
	}
}

func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.requestCount.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		switch {
		case rw.statusCode == http.StatusTooManyRequests:
			mc.limitedCount.Add(1)
			mc.errorCount.Add(1)
		case rw.statusCode >= 400:
			mc.errorCount.Add(1)
		}
	})
}
