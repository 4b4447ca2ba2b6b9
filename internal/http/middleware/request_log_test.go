package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/vonida-storefront/internal/platform/ctxutil"
	"github.com/yungbote/vonida-storefront/internal/platform/logger"
)

func TestRequestLoggerCarriesSession(t *testing.T) {
	t.Setenv("LOG_REDACTION_ENABLED", "off")
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.DebugLevel)
	sid := uuid.New()

	r := gin.New()
	r.Use(AttachTraceContext(), RequestLogger(logger.NewFromCore(core)))
	r.POST("/api/cart/items", func(c *gin.Context) {
		ctx := ctxutil.WithSessionData(c.Request.Context(), &ctxutil.SessionData{SessionID: sid, Fresh: true})
		c.Request = c.Request.WithContext(ctx)
		c.Status(http.StatusOK)
	})
	r.GET("/api/cart", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/cart/items", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries: want=2 got=%d", len(entries))
	}
	withSession := entries[0].ContextMap()
	if got := withSession["session_id"]; got != sid.String() {
		t.Fatalf("session_id: want=%q got=%v", sid.String(), got)
	}
	if got := withSession["session_new"]; got != true {
		t.Fatalf("session_new: want=true got=%v", got)
	}
	if got := withSession["path"]; got != "/api/cart/items" {
		t.Fatalf("path: want=%q got=%v", "/api/cart/items", got)
	}
	if _, ok := withSession["request_id"]; !ok {
		t.Fatalf("request_id missing from %v", withSession)
	}

	anonymous := entries[1].ContextMap()
	if _, ok := anonymous["session_id"]; ok {
		t.Fatalf("request without a session logged session_id: %v", anonymous)
	}
}
