package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestInitLoadsConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  mode: release
session:
  backend: redis
  ttl: 10m
  max_sessions: 42
chat:
  high_confidence: 0.85
  low_confidence: 0.4
`)

	Init(path)

	if Conf.Server.Port != "9090" {
		t.Fatalf("Port = %q, want 9090", Conf.Server.Port)
	}
	if Conf.Session.Backend != "redis" {
		t.Fatalf("Backend = %q, want redis", Conf.Session.Backend)
	}
	if Conf.Session.TTL != 10*time.Minute {
		t.Fatalf("TTL = %v, want 10m", Conf.Session.TTL)
	}
	if Conf.Session.MaxSessions != 42 {
		t.Fatalf("MaxSessions = %d, want 42", Conf.Session.MaxSessions)
	}
	if Conf.Chat.HighConfidence != 0.85 {
		t.Fatalf("HighConfidence = %v, want 0.85", Conf.Chat.HighConfidence)
	}
}

func TestInitAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8080"
`)

	Init(path)

	if Conf.Session.Backend != "memory" {
		t.Fatalf("Backend = %q, want memory default", Conf.Session.Backend)
	}
	if Conf.Session.TTL != 30*time.Minute {
		t.Fatalf("TTL = %v, want 30m default", Conf.Session.TTL)
	}
	if Conf.Session.MaxSessions != 1000 {
		t.Fatalf("MaxSessions = %d, want 1000 default", Conf.Session.MaxSessions)
	}
	if Conf.Chat.MaxAnswerLength != 500 {
		t.Fatalf("MaxAnswerLength = %d, want 500 default", Conf.Chat.MaxAnswerLength)
	}
	if Conf.Chat.HighConfidence != 0.8 || Conf.Chat.LowConfidence != 0.5 {
		t.Fatalf("confidence thresholds = %v/%v, want 0.8/0.5 defaults", Conf.Chat.HighConfidence, Conf.Chat.LowConfidence)
	}
	if Conf.Ticket.Prefix != "TCK" {
		t.Fatalf("Ticket.Prefix = %q, want TCK default", Conf.Ticket.Prefix)
	}
}
