// Package metrics provides Prometheus instrumentation for the game engine.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TradesTotal counts executed trades, partitioned by action.
	TradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bullrun_trades_total",
		Help: "Total number of trades executed",
	}, []string{"action"})

	// TradeRejectionsTotal counts rejected trade attempts by reason.
	TradeRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bullrun_trade_rejections_total",
		Help: "Trade attempts rejected by the ledger",
	}, []string{"reason"})

	// MarketTicksTotal counts price-engine advances, deferred news
	// impacts included.
	MarketTicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bullrun_market_ticks_total",
		Help: "Total price engine ticks",
	})

	// NewsEventsTotal counts published news events by kind.
	NewsEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bullrun_news_events_total",
		Help: "News events published",
	}, []string{"kind"})

	// AchievementsUnlockedTotal counts achievement unlocks.
	AchievementsUnlockedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bullrun_achievements_unlocked_total",
		Help: "Achievements unlocked across sessions",
	})

	// SessionsActive tracks live game sessions.
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bullrun_sessions_active",
		Help: "Number of currently active game sessions",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bullrun_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bullrun_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bullrun_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack delegates to the wrapped writer so WebSocket upgrades still work
// behind the middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// Flush delegates to the wrapped writer when it supports streaming.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
