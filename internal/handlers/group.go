package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/chat"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/middleware"
)

type GroupHandler struct {
	Groups *chat.Groups
}

type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &chat.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	group, err := h.Groups.Create(middleware.UserID(r), req.Name, req.Description, req.Members)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	group, err := h.Groups.Join(middleware.UserID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	group, err := h.Groups.Leave(middleware.UserID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) My(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Groups.MyGroups(middleware.UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}
