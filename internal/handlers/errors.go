package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/chat"
)

// writeError maps the domain error taxonomy onto HTTP status codes with a
// user-renderable message.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr    *chat.ValidationError
		authorizationErr *chat.AuthorizationError
		notFoundErr      *chat.NotFoundError
		persistenceErr   *chat.PersistenceError
	)

	status := http.StatusInternalServerError
	message := "Internal Server Error"

	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		message = validationErr.Error()
	case errors.As(err, &authorizationErr):
		status = http.StatusForbidden
		message = authorizationErr.Error()
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
		message = notFoundErr.Error()
	case errors.As(err, &persistenceErr):
		log.Printf("persistence error: %v", err)
	default:
		log.Printf("unhandled error: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
