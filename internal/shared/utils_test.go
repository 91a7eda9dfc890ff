package shared

import (
	"encoding/base64"
	"testing"
)

func TestMakeOpaqueToken_LengthAndEncoding(t *testing.T) {
	const n = 32
	s, err := MakeOpaqueToken(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("token is not valid unpadded base64url: %v", err)
	}
	if len(raw) != n {
		t.Fatalf("expected %d raw bytes, got %d", n, len(raw))
	}
}

func TestMakeOpaqueToken_NoPadding(t *testing.T) {
	s, err := MakeOpaqueToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range s {
		if c == '=' || c == '+' || c == '/' {
			t.Fatalf("token contains non-url-safe character %q: %s", c, s)
		}
	}
}

func TestMakeOpaqueToken_EntropyHint(t *testing.T) {
	a, err := MakeOpaqueToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MakeOpaqueToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatalf("two generated tokens are identical: %s", a)
	}
}

func TestMakeRandByteArray_Size(t *testing.T) {
	b := MakeRandByteArray(16)
	if len(b) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(b))
	}
}
