package blob

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLocalStoreRoundtrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/files/")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	content := []byte("fake png bytes")
	url, err := store.Put(context.Background(), content, "image/png")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasPrefix(url, "/files/") {
		t.Errorf("Expected url under base, got %q", url)
	}

	got, contentType, err := store.Get(context.Background(), url)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("Content mismatch after roundtrip")
	}
	if contentType != "image/png" {
		t.Errorf("Expected image/png, got %q", contentType)
	}
}

func TestLocalStoreUnknownObject(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/files")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.Get(context.Background(), "/files/nope"); err == nil {
		t.Error("Expected error for unknown object")
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/files")
	if err != nil {
		t.Fatal(err)
	}
	for _, url := range []string{`/files/..\secret`, "/files/", "."} {
		if _, _, err := store.Get(context.Background(), url); err == nil {
			t.Errorf("Expected rejection for %q", url)
		}
	}
}
