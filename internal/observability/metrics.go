package observability

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Metrics is the storefront's Prometheus registry. A nil *Metrics is valid and
// records nothing, so callers never need to check whether metrics are enabled.
type Metrics struct {
	apiRequests     *CounterVec
	apiLatency      *HistogramVec
	apiInflight     *Gauge
	apiReqError     *Counter
	cartOps         *CounterVec
	checkouts       *CounterVec
	orderValue      *HistogramVec
	orderItems      *HistogramVec
	sessions        *Gauge
	sessionsSwept   *Counter
	sessionsEvicted *Counter

	collectors []collector
}

type collector interface {
	WritePrometheus(w io.Writer) error
}

func NewMetrics() *Metrics {
	m := &Metrics{
		apiRequests: NewCounterVec("storefront_http_requests_total", "HTTP requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"storefront_http_request_duration_seconds",
			"HTTP request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		),
		apiInflight: NewGauge("storefront_http_inflight_requests", "In-flight HTTP requests."),
		apiReqError: NewCounter("storefront_http_requests_error_total", "HTTP requests answered with a 5xx status."),
		cartOps:     NewCounterVec("storefront_cart_mutations_total", "Cart mutations by operation/result.", []string{"op", "result"}),
		checkouts:   NewCounterVec("storefront_checkouts_total", "Checkout attempts by result.", []string{"result"}),
		orderValue: NewHistogramVec(
			"storefront_order_value",
			"Order totals handed off at checkout, in currency units.",
			nil,
			[]float64{25, 50, 75, 100, 150, 200, 300, 500},
		),
		orderItems: NewHistogramVec(
			"storefront_order_items",
			"Units per order handed off at checkout.",
			nil,
			[]float64{1, 2, 3, 5, 8, 13, 21},
		),
		sessions:        NewGauge("storefront_active_sessions", "Sessions currently holding a cart."),
		sessionsSwept:   NewCounter("storefront_sessions_expired_total", "Sessions evicted after their idle TTL."),
		sessionsEvicted: NewCounter("storefront_sessions_evicted_total", "Least recently seen sessions evicted to admit a new one."),
	}
	m.collectors = []collector{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiReqError,
		m.cartOps, m.checkouts, m.orderValue, m.orderItems,
		m.sessions, m.sessionsSwept, m.sessionsEvicted,
	}
	return m
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range m.collectors {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// IncCartMutation counts one cart operation. err == nil counts as "ok".
func (m *Metrics) IncCartMutation(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.cartOps.Inc(op, result)
}

func (m *Metrics) ObserveCheckout(result string, total decimal.Decimal, items int) {
	if m == nil {
		return
	}
	m.checkouts.Inc(result)
	if result != "ok" {
		return
	}
	f, _ := total.Float64()
	m.orderValue.Observe(f)
	m.orderItems.Observe(float64(items))
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}

func (m *Metrics) AddExpiredSessions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sessionsSwept.Add(float64(n))
}

func (m *Metrics) AddEvictedSessions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sessionsEvicted.Add(float64(n))
}

func isServerErrorStatus(status string) bool {
	status = strings.TrimSpace(status)
	return len(status) == 3 && status[0] == '5'
}
