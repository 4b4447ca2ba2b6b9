package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsSecretsAndHashesSessions(t *testing.T) {
	t.Setenv("LOG_REDACTION_ENABLED", "true")
	t.Setenv("LOG_HASH_SALT", "pepper")

	core, logs := observer.New(zap.DebugLevel)
	log := NewFromCore(core)

	log.Info("checkout", "session_id", "0b6f1d2e", "session_token", "abc", "destination", "5514996746904", "total", "81.00")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries: want=1 got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if got := fields["session_token"]; got != "[REDACTED]" {
		t.Fatalf("session_token: want=[REDACTED] got=%v", got)
	}
	if got := fields["destination"]; got != "[REDACTED]" {
		t.Fatalf("destination: want=[REDACTED] got=%v", got)
	}
	sid, _ := fields["session_id"].(string)
	if !strings.HasPrefix(sid, "hash:") || len(sid) != len("hash:")+12 {
		t.Fatalf("session_id: want hash:<12 hex> got=%q", sid)
	}
	if got := fields["total"]; got != "81.00" {
		t.Fatalf("total: want=81.00 got=%v", got)
	}
}

func TestRedactionDisabled(t *testing.T) {
	t.Setenv("LOG_REDACTION_ENABLED", "off")

	core, logs := observer.New(zap.DebugLevel)
	log := NewFromCore(core).With("session_id", "plain")
	log.Debug("hello")

	fields := logs.All()[0].ContextMap()
	if got := fields["session_id"]; got != "plain" {
		t.Fatalf("session_id: want=plain got=%v", got)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New("development", "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	l, err := New("production", "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.SugaredLogger.Desugar().Core().Enabled(zap.InfoLevel) {
		t.Fatalf("info should be disabled at warn level")
	}
}
