package observability

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/cart", "200", 20*time.Millisecond)
	m.ObserveAPI("POST", "/api/checkout", "500", time.Second)
	m.IncCartMutation("add", nil)
	m.IncCartMutation("add", errors.New("invalid"))
	m.ObserveCheckout("ok", decimal.RequireFromString("81.00"), 3)
	m.SetActiveSessions(2)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`storefront_http_requests_total{method="GET",route="/api/cart",status="200"} 1`,
		`storefront_http_requests_error_total 1`,
		`storefront_cart_mutations_total{op="add",result="error"} 1`,
		`storefront_cart_mutations_total{op="add",result="ok"} 1`,
		`storefront_checkouts_total{result="ok"} 1`,
		`storefront_order_value_bucket{le="100"} 1`,
		`storefront_order_value_bucket{le="75"} 0`,
		`storefront_order_items_sum 3`,
		`storefront_active_sessions 2`,
		`storefront_http_request_duration_seconds_bucket{method="GET",route="/api/cart",le="0.025"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.IncCartMutation("add", nil)
	m.ObserveCheckout("ok", decimal.NewFromInt(1), 1)
	m.SetActiveSessions(1)
	m.AddExpiredSessions(1)

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: want=%d got=%d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"route"}, []string{"a\"b\\c"})
	if want := `{route="a\"b\\c"}`; got != want {
		t.Fatalf("labels: want=%s got=%s", want, got)
	}
	if got := withLe("", "+Inf"); got != `{le="+Inf"}` {
		t.Fatalf("withLe empty: got=%s", got)
	}
}

func TestParseHeaders(t *testing.T) {
	h := ParseHeaders("x-api-key=abc, bad ,x-tenant=vn")
	if len(h) != 2 || h["x-api-key"] != "abc" || h["x-tenant"] != "vn" {
		t.Fatalf("headers: got=%v", h)
	}
	if ParseHeaders("  ") != nil {
		t.Fatalf("blank headers should be nil")
	}
}
