package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/blob"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/chat"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/middleware"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/models"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/store"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/ws"
)

const maxUploadBytes = 25 << 20

type MessageHandler struct {
	Store  store.Store
	Router *chat.Router
	Hub    *ws.Hub
	Blobs  blob.Store
}

type SendMessageRequest struct {
	chat.Body
	IsGroupMessage bool `json:"isGroupMessage"`
}

// ListUsers returns every user except the caller for the sidebar.
func (h *MessageHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.GetUsersExcept(middleware.UserID(r))
	if err != nil {
		writeError(w, &chat.PersistenceError{Op: "find users", Err: err})
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// GetMessages returns the history with a target that may be a group or a
// direct peer.
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["id"]
	messages, err := h.Router.Messages(middleware.UserID(r), targetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// Send routes an outbound message, direct or group, through the message
// router: roster check, persist, then fanout to live connections.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["id"]
	senderID := middleware.UserID(r)

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &chat.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	h.Hub.StopTyping(senderID, targetID)

	var (
		msg interface{}
		err error
	)
	if req.IsGroupMessage {
		msg, err = h.Router.SendGroup(senderID, targetID, req.Body)
	} else {
		msg, err = h.Router.SendDirect(senderID, targetID, req.Body)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

var unsafeFileName = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Upload stores a multipart attachment in the blob store and returns its
// opaque URL.
func (h *MessageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, &chat.ValidationError{Field: "file", Reason: "malformed upload"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, &chat.ValidationError{Field: "file", Reason: "no file provided"})
		return
	}
	defer file.Close()

	// Read one byte past the cap so an oversize file is rejected rather
	// than silently truncated.
	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		writeError(w, err)
		return
	}
	if len(content) > maxUploadBytes {
		writeError(w, &chat.ValidationError{Field: "file", Reason: "file exceeds the 25 MB upload limit"})
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectURL, err := h.Blobs.Put(r.Context(), content, contentType)
	if err != nil {
		writeError(w, &chat.PersistenceError{Op: "put object", Err: err})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": objectURL})
}

// Download proxies an attachment out of the blob store with a sanitized
// attachment filename.
func (h *MessageHandler) Download(w http.ResponseWriter, r *http.Request) {
	objectURL := r.URL.Query().Get("url")
	filename := r.URL.Query().Get("filename")
	if objectURL == "" || filename == "" {
		writeError(w, &chat.ValidationError{Field: "url", Reason: "url and filename are required"})
		return
	}

	content, contentType, err := h.Blobs.Get(r.Context(), objectURL)
	if err != nil {
		writeError(w, &chat.NotFoundError{Kind: "object", ID: objectURL})
		return
	}

	safeName := unsafeFileName.ReplaceAllString(filename, "_")
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+url.PathEscape(safeName)+`"`)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// ServeObject serves locally stored attachments at their public URL.
func (h *MessageHandler) ServeObject(w http.ResponseWriter, r *http.Request) {
	content, contentType, err := h.Blobs.Get(r.Context(), r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(content)
}
