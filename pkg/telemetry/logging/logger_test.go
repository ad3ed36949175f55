package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("proof generated", "proof_id", "abc-123")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "proof generated" {
		t.Errorf("msg = %v, want proof generated", entry["msg"])
	}
	if entry["proof_id"] != "abc-123" {
		t.Errorf("proof_id = %v, want abc-123", entry["proof_id"])
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("verification complete")
	if !strings.Contains(buf.String(), "verification complete") {
		t.Errorf("output missing message: %s", buf.String())
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Errorf("sub-level entries were emitted: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("warn entry missing: %s", buf.String())
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("New() accepted an unknown level")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("New() accepted an unknown format")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	if GetRequestID(ctx) != "" {
		t.Error("empty context returned a request ID")
	}

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUser(ctx, "user-9")
	ctx = WithSession(ctx, "sess-4")

	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q, want req-1", got)
	}
	if got := GetUser(ctx); got != "user-9" {
		t.Errorf("GetUser() = %q, want user-9", got)
	}
	if got := GetSession(ctx); got != "sess-4" {
		t.Errorf("GetSession() = %q, want sess-4", got)
	}
}
