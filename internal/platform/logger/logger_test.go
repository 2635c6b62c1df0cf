package logger

import "testing"

func TestSanitizeKVsRedactsAndHashes(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"postgres_password", "hunter2",
		"user_id", int64(42),
		"dsn", "postgres://admin:pw@db:5432/bridge",
		"bridge_instance_name", "G15-K12",
	})
	if len(out) != 8 {
		t.Fatalf("len: want=8 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("password: want=[REDACTED] got=%v", out[1])
	}
	if s, _ := out[3].(string); len(s) != len("hash:")+12 {
		t.Fatalf("user_id: want hashed value got=%v", out[3])
	}
	if out[5] != "postgres://***@db:5432/bridge" {
		t.Fatalf("dsn: got=%v", out[5])
	}
	if out[7] != "G15-K12" {
		t.Fatalf("plain value changed: got=%v", out[7])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"part_id", 3, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("dangling key dropped: %v", out)
	}
}

func TestRedactDSNWithoutUserinfo(t *testing.T) {
	if got := redactDSN("redis://cache:6379/0"); got != "redis://cache:6379/0" {
		t.Fatalf("redactDSN: got=%q", got)
	}
}
