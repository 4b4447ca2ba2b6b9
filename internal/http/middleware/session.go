package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vonida-storefront/internal/http/response"
	"github.com/yungbote/vonida-storefront/internal/platform/ctxutil"
	"github.com/yungbote/vonida-storefront/internal/services"
)

type SessionCookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
	Domain string
}

type SessionMiddleware struct {
	sessions services.SessionService
	cookie   SessionCookieConfig
}

func NewSessionMiddleware(sessions services.SessionService, cookie SessionCookieConfig) *SessionMiddleware {
	if cookie.Name == "" {
		cookie.Name = "vn_session"
	}
	return &SessionMiddleware{sessions: sessions, cookie: cookie}
}

// RequireSession resolves the caller's session from its cookie, creating one
// (and setting the cookie) when needed. Mount it only on routes that change
// the cart.
func (sm *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(sm.cookie.Name)
		sess, newToken, err := sm.sessions.Acquire(token)
		if err != nil {
			response.RespondAPIError(c, err)
			c.Abort()
			return
		}
		if newToken != "" {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sm.cookie.Name, newToken, int(sm.cookie.MaxAge.Seconds()), "/", sm.cookie.Domain, sm.cookie.Secure, true)
		}
		sm.attach(c, sess, newToken != "")
		c.Next()
	}
}

// OptionalSession attaches the caller's session when its cookie resolves to a
// live one and never creates a session. Handlers behind it see a nil session
// for first-time visitors.
func (sm *SessionMiddleware) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(sm.cookie.Name)
		if sess, ok := sm.sessions.Resolve(token); ok {
			sm.attach(c, sess, false)
		}
		c.Next()
	}
}

func (sm *SessionMiddleware) attach(c *gin.Context, sess *services.Session, fresh bool) {
	ctx := ctxutil.WithSessionData(c.Request.Context(), &ctxutil.SessionData{SessionID: sess.ID, Fresh: fresh})
	ctx = services.WithSession(ctx, sess)
	c.Request = c.Request.WithContext(ctx)
}
