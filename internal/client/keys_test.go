package client

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateKeyPair(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")

	first, err := LoadOrCreateKeyPair(path)
	if err != nil {
		t.Fatalf("Failed to create key pair: %v", err)
	}
	if raw, err := base64.StdEncoding.DecodeString(first.PublicKey); err != nil || len(raw) != 32 {
		t.Errorf("Expected 32-byte base64 public key, got %q", first.PublicKey)
	}

	second, err := LoadOrCreateKeyPair(path)
	if err != nil {
		t.Fatalf("Failed to reload key pair: %v", err)
	}
	if second.PublicKey != first.PublicKey || second.SecretKey != first.SecretKey {
		t.Error("Expected reload to return the persisted pair, not a fresh one")
	}
}

func TestLoadOrCreateKeyPairCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}

	kp, err := LoadOrCreateKeyPair(path)
	if err != nil {
		t.Fatalf("Expected regeneration on corrupt file, got %v", err)
	}
	if kp.PublicKey == "" || kp.SecretKey == "" {
		t.Errorf("Expected fresh pair, got %+v", kp)
	}

	// The regenerated pair is persisted over the corrupt file.
	reloaded, err := LoadOrCreateKeyPair(path)
	if err != nil || reloaded.PublicKey != kp.PublicKey {
		t.Errorf("Expected persisted regenerated pair, got %+v (%v)", reloaded, err)
	}
}
