package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/vonida-storefront/internal/cart"
	"github.com/yungbote/vonida-storefront/internal/catalog"
	"github.com/yungbote/vonida-storefront/internal/observability"
	"github.com/yungbote/vonida-storefront/internal/platform/logger"
)

const sessionIssuer = "vonida-storefront"

var ErrNoSession = errors.New("request has no session")

// Session owns one purchaser's cart. All cart access goes through Do, which
// serializes callers.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	cart     *cart.Store
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's cart.
func (s *Session) Do(fn func(c *cart.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.cart)
}

type SessionConfig struct {
	Secret      []byte
	IdleTTL     time.Duration
	MaxAge      time.Duration
	MaxSessions int
	SweepEvery  time.Duration
}

type SessionService interface {
	// Resolve returns the live session behind token without ever creating one.
	Resolve(token string) (*Session, bool)
	// Acquire resolves token to a live session. An empty, invalid or expired
	// token, or one whose session was swept, yields a new session; token is
	// then the value the client must store. When MaxSessions is reached the
	// least recently seen session is evicted to make room.
	Acquire(token string) (sess *Session, newToken string, err error)
	Get(id uuid.UUID) (*Session, bool)
	Sweep(now time.Time) int
	Run(ctx context.Context) error
	Len() int
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

type sessionService struct {
	log     *logger.Logger
	catalog catalog.Lookuper
	metrics *observability.Metrics
	cfg     SessionConfig
	now     func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewSessionService(log *logger.Logger, c catalog.Lookuper, metrics *observability.Metrics, cfg SessionConfig) (SessionService, error) {
	if len(cfg.Secret) < 16 {
		return nil, fmt.Errorf("session secret must be at least 16 bytes")
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 2 * time.Hour
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 7 * 24 * time.Hour
	}
	if cfg.SweepEvery <= 0 {
		cfg.SweepEvery = time.Minute
	}
	return &sessionService{
		log:      log.With("service", "SessionService"),
		catalog:  c,
		metrics:  metrics,
		cfg:      cfg,
		now:      time.Now,
		sessions: map[uuid.UUID]*Session{},
	}, nil
}

func (ss *sessionService) Resolve(token string) (*Session, bool) {
	id, ok := ss.parse(token)
	if !ok {
		return nil, false
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	sess, found := ss.sessions[id]
	if found {
		sess.lastSeen = ss.now()
	}
	return sess, found
}

func (ss *sessionService) Acquire(token string) (*Session, string, error) {
	if sess, ok := ss.Resolve(token); ok {
		return sess, "", nil
	}

	now := ss.now()
	ss.mu.Lock()
	var swept, evicted int
	if ss.cfg.MaxSessions > 0 && len(ss.sessions) >= ss.cfg.MaxSessions {
		swept = ss.sweepLocked(now)
		for len(ss.sessions) >= ss.cfg.MaxSessions {
			ss.evictOldestLocked()
			evicted++
		}
	}
	sess := &Session{ID: uuid.New(), cart: cart.New(ss.catalog), lastSeen: now}
	ss.sessions[sess.ID] = sess
	n := len(ss.sessions)
	ss.mu.Unlock()

	ss.metrics.SetActiveSessions(n)
	ss.metrics.AddExpiredSessions(swept)
	ss.metrics.AddEvictedSessions(evicted)
	if evicted > 0 {
		ss.log.Warn("session limit reached; evicted least recently seen", "max_sessions", ss.cfg.MaxSessions, "evicted", evicted)
	}
	signed, err := ss.issue(sess.ID, now)
	if err != nil {
		return nil, "", err
	}
	ss.log.Debug("session created", "session_id", sess.ID.String())
	return sess, signed, nil
}

func (ss *sessionService) Get(id uuid.UUID) (*Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	sess, ok := ss.sessions[id]
	return sess, ok
}

// Sweep drops sessions idle for longer than the idle TTL and reports how many
// went.
func (ss *sessionService) Sweep(now time.Time) int {
	ss.mu.Lock()
	removed := ss.sweepLocked(now)
	n := len(ss.sessions)
	ss.mu.Unlock()

	ss.metrics.SetActiveSessions(n)
	ss.metrics.AddExpiredSessions(removed)
	if removed > 0 {
		ss.log.Debug("swept idle sessions", "removed", removed, "remaining", n)
	}
	return removed
}

func (ss *sessionService) sweepLocked(now time.Time) int {
	removed := 0
	for id, sess := range ss.sessions {
		if now.Sub(sess.lastSeen) > ss.cfg.IdleTTL {
			delete(ss.sessions, id)
			removed++
		}
	}
	return removed
}

func (ss *sessionService) evictOldestLocked() {
	var (
		oldestID uuid.UUID
		oldest   time.Time
		found    bool
	)
	for id, sess := range ss.sessions {
		if !found || sess.lastSeen.Before(oldest) {
			oldestID, oldest, found = id, sess.lastSeen, true
		}
	}
	if found {
		delete(ss.sessions, oldestID)
	}
}

// Run sweeps on a ticker until ctx is done.
func (ss *sessionService) Run(ctx context.Context) error {
	ticker := time.NewTicker(ss.cfg.SweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			ss.Sweep(t)
		}
	}
}

func (ss *sessionService) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

func (ss *sessionService) issue(id uuid.UUID, now time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.String(),
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ss.cfg.MaxAge)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ss.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (ss *sessionService) parse(token string) (uuid.UUID, bool) {
	if token == "" {
		return uuid.Nil, false
	}
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return ss.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(ss.now),
	)
	if err != nil || !parsed.Valid {
		return uuid.Nil, false
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

type sessionCtxKey struct{}

func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sess)
}

func SessionFromContext(ctx context.Context) *Session {
	if sess, ok := ctx.Value(sessionCtxKey{}).(*Session); ok {
		return sess
	}
	return nil
}
