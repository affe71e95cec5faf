package models

import (
	"encoding/json"
	"testing"
)

func TestSenderRefUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantID   string
		wantUser bool
	}{
		{"bare id string", `"u1"`, "u1", false},
		{"populated user object", `{"_id":"u1","username":"alice"}`, "u1", true},
		{"empty string", `""`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref SenderRef
			if err := json.Unmarshal([]byte(tt.input), &ref); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if ref.ID != tt.wantID {
				t.Errorf("Expected id %q, got %q", tt.wantID, ref.ID)
			}
			if (ref.User != nil) != tt.wantUser {
				t.Errorf("Expected user present=%v, got %+v", tt.wantUser, ref.User)
			}
		})
	}
}

func TestSenderRefUnmarshalInvalid(t *testing.T) {
	var ref SenderRef
	if err := json.Unmarshal([]byte(`42`), &ref); err == nil {
		t.Error("Expected error for non-string non-object sender")
	}
}

func TestSenderRefMarshal(t *testing.T) {
	bare, err := json.Marshal(SenderRef{ID: "u1"})
	if err != nil || string(bare) != `"u1"` {
		t.Errorf("Expected bare id encoding, got %s (%v)", bare, err)
	}

	populated, err := json.Marshal(SenderRef{ID: "u1", User: &User{ID: "u1", Username: "alice"}})
	if err != nil {
		t.Fatal(err)
	}
	var u User
	if err := json.Unmarshal(populated, &u); err != nil || u.Username != "alice" {
		t.Errorf("Expected user object encoding, got %s", populated)
	}
}

func TestUserPasswordNeverSerialized(t *testing.T) {
	data, err := json.Marshal(User{ID: "u1", Username: "alice", Password: "hash"})
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	json.Unmarshal(data, &decoded)
	if _, ok := decoded["password"]; ok {
		t.Error("Password must not appear in serialized user")
	}
}
