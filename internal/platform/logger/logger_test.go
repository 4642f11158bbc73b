package logger

import (
	"testing"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"huggingface_api_key", "hf_abc",
		"Authorization", "Bearer hf_abc",
		"classifier", "model_server",
		"header", "bearer xyz",
	})
	if len(out) != 8 {
		t.Fatalf("len=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("api key not redacted: %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("authorization not redacted: %v", out[3])
	}
	if out[5] != "model_server" {
		t.Fatalf("plain value changed: %v", out[5])
	}
	if out[7] != "[REDACTED]" {
		t.Fatalf("bearer value not redacted: %v", out[7])
	}
}

func TestSanitizeKVsHashesClientIP(t *testing.T) {
	out := sanitizeKVs([]interface{}{"client_ip", "10.0.0.7"})
	got, _ := out[1].(string)
	if got == "10.0.0.7" || len(got) != len("hash:")+12 {
		t.Fatalf("client_ip not hashed: %q", got)
	}
	again := sanitizeKVs([]interface{}{"client_ip", "10.0.0.7"})
	if again[1] != got {
		t.Fatalf("hash not stable: %v vs %v", again[1], got)
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected: %v", out)
	}
}
