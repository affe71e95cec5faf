package sqlstore

import (
	"testing"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/models"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	st, err := New("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { st.db.Close() })
	return st
}

func makeUser(t *testing.T, st *SQLStore, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hash"}
	if err := st.CreateUser(user); err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}
