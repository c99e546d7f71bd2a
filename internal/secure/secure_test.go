package secure

import (
	"bytes"
	"testing"
)

func TestAESGCMRoundTrip(t *testing.T) {
	enc, err := NewAESGCM(bytes.Repeat([]byte{0x42}, 32))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	plaintext := []byte("paid cash, split with roommate")
	sealed, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(sealed, plaintext) {
		t.Fatalf("ciphertext must not contain plaintext")
	}
	opened, err := enc.Decrypt(sealed)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Fatalf("round trip mismatch: %q", opened)
	}
}

func TestAESGCMRejectsBadInput(t *testing.T) {
	if _, err := NewAESGCM([]byte("short")); err == nil {
		t.Fatalf("expected error for bad key size")
	}
	enc, err := NewAESGCM(bytes.Repeat([]byte{1}, 16))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := enc.Decrypt([]byte("too-short")); err == nil {
		t.Fatalf("expected error for truncated ciphertext")
	}
	sealed, _ := enc.Encrypt([]byte("data"))
	sealed[len(sealed)-1] ^= 0xff
	if _, err := enc.Decrypt(sealed); err == nil {
		t.Fatalf("expected error for tampered ciphertext")
	}
}

func TestNoop(t *testing.T) {
	var n Noop
	out, err := n.Encrypt([]byte("x"))
	if err != nil || string(out) != "x" {
		t.Fatalf("noop encrypt: %q %v", out, err)
	}
}
