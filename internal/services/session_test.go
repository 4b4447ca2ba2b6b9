package services

import (
	"testing"
	"time"

	"github.com/yungbote/vonida-storefront/internal/cart"
	"github.com/yungbote/vonida-storefront/internal/catalog"
	"github.com/yungbote/vonida-storefront/internal/observability"
	"github.com/yungbote/vonida-storefront/internal/platform/logger"
)

var testSecret = []byte("test-secret-0123456789abcdef")

func newTestSessions(t *testing.T, cfg SessionConfig) (*sessionService, *time.Time) {
	t.Helper()
	if cfg.Secret == nil {
		cfg.Secret = testSecret
	}
	svc, err := NewSessionService(logger.Nop(), catalog.MustDefault(), observability.NewMetrics(), cfg)
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}
	ss := svc.(*sessionService)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return now }
	return ss, &now
}

func TestAcquireIssuesAndResolvesToken(t *testing.T) {
	ss, _ := newTestSessions(t, SessionConfig{})

	sess, token, err := ss.Acquire("")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if token == "" {
		t.Fatalf("new session must come with a token")
	}
	_ = sess.Do(func(c *cart.Store) error { return c.Add("coco", catalog.SizeMedium) })

	again, newToken, err := ss.Acquire(token)
	if err != nil {
		t.Fatalf("acquire with token: %v", err)
	}
	if newToken != "" {
		t.Fatalf("existing session should not reissue a token")
	}
	if again != sess {
		t.Fatalf("token resolved to a different session")
	}
	var q int
	_ = again.Do(func(c *cart.Store) error { q = c.QuantityOf("coco", catalog.SizeMedium); return nil })
	if q != 1 {
		t.Fatalf("cart not shared across requests: quantity=%d", q)
	}
}

func TestAcquireRejectsForeignToken(t *testing.T) {
	ss, _ := newTestSessions(t, SessionConfig{})
	other, _ := newTestSessions(t, SessionConfig{Secret: []byte("another-secret-0123456789")})

	_, foreign, _ := other.Acquire("")
	sess, token, err := ss.Acquire(foreign)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if token == "" || sess == nil {
		t.Fatalf("foreign token should start a new session")
	}
	if _, _, err := ss.Acquire("not-a-jwt"); err != nil {
		t.Fatalf("garbage token: %v", err)
	}
	if ss.Len() != 2 {
		t.Fatalf("sessions: want=2 got=%d", ss.Len())
	}
}

func TestAcquireExpiredToken(t *testing.T) {
	ss, now := newTestSessions(t, SessionConfig{MaxAge: time.Hour, IdleTTL: 24 * time.Hour})
	first, token, _ := ss.Acquire("")

	*now = now.Add(2 * time.Hour)
	sess, newToken, err := ss.Acquire(token)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if sess == first || newToken == "" {
		t.Fatalf("expired token must not resolve the old session")
	}
}

func TestSweepDropsIdleSessions(t *testing.T) {
	ss, now := newTestSessions(t, SessionConfig{IdleTTL: 10 * time.Minute})
	_, stale, _ := ss.Acquire("")

	*now = now.Add(6 * time.Minute)
	_, fresh, _ := ss.Acquire("")

	*now = now.Add(6 * time.Minute)
	if removed := ss.Sweep(*now); removed != 1 {
		t.Fatalf("removed: want=1 got=%d", removed)
	}
	if ss.Len() != 1 {
		t.Fatalf("remaining: want=1 got=%d", ss.Len())
	}
	if _, tok, _ := ss.Acquire(fresh); tok != "" {
		t.Fatalf("fresh session should survive the sweep")
	}
	if _, tok, _ := ss.Acquire(stale); tok == "" {
		t.Fatalf("stale session should have been swept")
	}
}

func TestAcquireAtLimitEvictsLeastRecentlySeen(t *testing.T) {
	ss, now := newTestSessions(t, SessionConfig{MaxSessions: 2, IdleTTL: 24 * time.Hour})

	first, firstTok, _ := ss.Acquire("")
	*now = now.Add(time.Minute)
	_, secondTok, _ := ss.Acquire("")

	// touching the first session makes the second one the oldest
	*now = now.Add(time.Minute)
	if sess, ok := ss.Resolve(firstTok); !ok || sess != first {
		t.Fatalf("first session should resolve")
	}

	*now = now.Add(time.Minute)
	third, thirdTok, err := ss.Acquire("")
	if err != nil || third == nil || thirdTok == "" {
		t.Fatalf("acquire at limit: sess=%v err=%v", third, err)
	}
	if ss.Len() != 2 {
		t.Fatalf("sessions: want=2 got=%d", ss.Len())
	}
	if _, ok := ss.Resolve(secondTok); ok {
		t.Fatalf("least recently seen session should have been evicted")
	}
	if _, ok := ss.Resolve(firstTok); !ok {
		t.Fatalf("recently seen session must survive eviction")
	}
}

func TestResolveNeverCreates(t *testing.T) {
	ss, _ := newTestSessions(t, SessionConfig{})
	for _, tok := range []string{"", "not-a-jwt"} {
		if sess, ok := ss.Resolve(tok); ok || sess != nil {
			t.Fatalf("Resolve(%q): want no session", tok)
		}
	}
	if ss.Len() != 0 {
		t.Fatalf("sessions: want=0 got=%d", ss.Len())
	}
}

func TestNewSessionServiceShortSecret(t *testing.T) {
	if _, err := NewSessionService(logger.Nop(), catalog.MustDefault(), nil, SessionConfig{Secret: []byte("short")}); err == nil {
		t.Fatalf("expected error for short secret")
	}
}
