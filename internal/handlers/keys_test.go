package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/store"
)

const testPublicKey = "qZxTf9a1XKo0mB4Jc7P2dWvH8yR3nE5uG6iL1sQ0tYc="

func TestKeyPutAndGet(t *testing.T) {
	st := newTestStore(t)
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")
	handler := &KeyHandler{Store: st}

	req := authedRequest(http.MethodPut, "/api/keys", `{"publicKey":"`+testPublicKey+`"}`, alice.ID)
	rec := httptest.NewRecorder()
	handler.Put(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Put: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Any authenticated user can fetch another user's public key.
	req = authedRequest(http.MethodGet, "/api/keys/"+alice.ID, "", bob.ID)
	req = mux.SetURLVars(req, map[string]string{"id": alice.ID})
	rec = httptest.NewRecorder()
	handler.Get(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Get: expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["publicKey"] != testPublicKey {
		t.Errorf("Expected stored key back, got %q", resp["publicKey"])
	}
}

func TestKeyGetMissing(t *testing.T) {
	st := newTestStore(t)
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")
	handler := &KeyHandler{Store: st}

	// bob never uploaded a key.
	req := authedRequest(http.MethodGet, "/api/keys/"+bob.ID, "", alice.ID)
	req = mux.SetURLVars(req, map[string]string{"id": bob.ID})
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing key, got %d", rec.Code)
	}
}

// brokenKeyStore wraps a real store and fails key lookups.
type brokenKeyStore struct {
	store.Store
}

func (b *brokenKeyStore) GetPublicKey(string) (string, error) {
	return "", errors.New("connection reset")
}

func TestKeyGetStorageFailure(t *testing.T) {
	st := newTestStore(t)
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")
	handler := &KeyHandler{Store: &brokenKeyStore{Store: st}}

	// A storage failure is a server error, not an absent key.
	req := authedRequest(http.MethodGet, "/api/keys/"+bob.ID, "", alice.ID)
	req = mux.SetURLVars(req, map[string]string{"id": bob.ID})
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 for storage failure, got %d", rec.Code)
	}
}

func TestKeyPutRejectsInvalid(t *testing.T) {
	st := newTestStore(t)
	alice := seedUser(t, st, "alice")
	handler := &KeyHandler{Store: st}

	for _, body := range []string{`{"publicKey":""}`, `{"publicKey":"short"}`, `not json`} {
		req := authedRequest(http.MethodPut, "/api/keys", body, alice.ID)
		rec := httptest.NewRecorder()
		handler.Put(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %q, got %d", body, rec.Code)
		}
	}
}
