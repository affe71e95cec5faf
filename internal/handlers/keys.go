package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/chat"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/middleware"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/store"
)

// KeyHandler is the per-user public-key registry. Only public halves pass
// through here; secret keys never leave the client.
type KeyHandler struct {
	Store store.Store
}

// Put saves or replaces the caller's public key. A new key supersedes the
// old one for future messages only.
func (h *KeyHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PublicKey string `json:"publicKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.PublicKey) < 32 {
		writeError(w, &chat.ValidationError{Field: "publicKey", Reason: "invalid publicKey"})
		return
	}

	if err := h.Store.SetPublicKey(middleware.UserID(r), req.PublicKey); err != nil {
		writeError(w, &chat.PersistenceError{Op: "set public key", Err: err})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"publicKey": req.PublicKey})
}

func (h *KeyHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	key, err := h.Store.GetPublicKey(userID)
	switch {
	case errors.Is(err, sql.ErrNoRows), err == nil && key == "":
		writeError(w, &chat.NotFoundError{Kind: "public key for user", ID: userID})
	case err != nil:
		writeError(w, &chat.PersistenceError{Op: "get public key", Err: err})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"publicKey": key})
	}
}
