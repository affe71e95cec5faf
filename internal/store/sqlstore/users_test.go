package sqlstore

import (
	"testing"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/models"
)

func TestCreateAndGetUser(t *testing.T) {
	st := newTestStore(t)

	user := &models.User{Username: "alice", FullName: "Alice A", Email: "alice@example.com", Password: "hash"}
	if err := st.CreateUser(user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Expected generated user ID")
	}

	got, err := st.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Expected username 'alice', got '%s'", got.Username)
	}

	byName, err := st.GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("Expected ID %s, got %s", user.ID, byName.ID)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	st := newTestStore(t)

	makeUser(t, st, "alice")
	if err := st.CreateUser(&models.User{Username: "alice", Password: "hash"}); err == nil {
		t.Error("Expected error for duplicate username")
	}
}

func TestGetUsersExcept(t *testing.T) {
	st := newTestStore(t)

	alice := makeUser(t, st, "alice")
	makeUser(t, st, "bob")

	users, err := st.GetUsersExcept(alice.ID)
	if err != nil {
		t.Fatalf("GetUsersExcept failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("Expected 1 user, got %d", len(users))
	}
	if users[0].Username != "bob" {
		t.Errorf("Expected 'bob', got '%s'", users[0].Username)
	}
}

func TestPublicKeyRoundTrip(t *testing.T) {
	st := newTestStore(t)
	alice := makeUser(t, st, "alice")

	if err := st.SetPublicKey(alice.ID, "dGhpcy1pcy1hLXB1YmxpYy1rZXktc3RyaW5nLTAxMjM="); err != nil {
		t.Fatalf("SetPublicKey failed: %v", err)
	}

	key, err := st.GetPublicKey(alice.ID)
	if err != nil {
		t.Fatalf("GetPublicKey failed: %v", err)
	}
	if key != "dGhpcy1pcy1hLXB1YmxpYy1rZXktc3RyaW5nLTAxMjM=" {
		t.Errorf("Unexpected key %q", key)
	}
}

func TestSetPublicKeyUnknownUser(t *testing.T) {
	st := newTestStore(t)

	if err := st.SetPublicKey("missing", "key"); err == nil {
		t.Error("Expected error setting key for unknown user")
	}
}
