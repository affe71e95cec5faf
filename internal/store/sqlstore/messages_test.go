package sqlstore

import (
	"testing"
	"time"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/models"
)

func TestCreateAndGetDirectMessages(t *testing.T) {
	st := newTestStore(t)

	alice := makeUser(t, st, "alice")
	bob := makeUser(t, st, "bob")

	first := &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Text: "hi bob"}
	if err := st.CreateMessage(first); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	second := &models.Message{SenderID: bob.ID, ReceiverID: alice.ID, Text: "hi alice"}
	if err := st.CreateMessage(second); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	// Both sides see the same conversation in the same order.
	for _, pair := range [][2]string{{alice.ID, bob.ID}, {bob.ID, alice.ID}} {
		messages, err := st.GetDirectMessages(pair[0], pair[1])
		if err != nil {
			t.Fatalf("GetDirectMessages failed: %v", err)
		}
		if len(messages) != 2 {
			t.Fatalf("Expected 2 messages, got %d", len(messages))
		}
		if messages[0].Text != "hi bob" || messages[1].Text != "hi alice" {
			t.Errorf("Unexpected order: %q then %q", messages[0].Text, messages[1].Text)
		}
		if messages[0].Sender == nil || messages[0].Sender.Username != "alice" {
			t.Error("Expected populated sender on history query")
		}
	}
}

func TestCreateGroupMessage(t *testing.T) {
	st := newTestStore(t)

	alice := makeUser(t, st, "alice")
	group := &models.Group{Name: "General", CreatedBy: alice.ID, Members: []string{alice.ID}}
	st.CreateGroup(group)

	msg := &models.Message{SenderID: alice.ID, GroupID: group.ID, Text: "hello"}
	if err := st.CreateMessage(msg); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	messages, err := st.GetGroupMessages(group.ID)
	if err != nil {
		t.Fatalf("GetGroupMessages failed: %v", err)
	}
	if len(messages) != 1 || messages[0].GroupID != group.ID {
		t.Fatalf("Expected 1 group message, got %+v", messages)
	}
}

func TestMessageTargetExclusivity(t *testing.T) {
	st := newTestStore(t)

	alice := makeUser(t, st, "alice")
	bob := makeUser(t, st, "bob")
	group := &models.Group{Name: "General", CreatedBy: alice.ID, Members: []string{alice.ID}}
	st.CreateGroup(group)

	both := &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, GroupID: group.ID, Text: "bad"}
	if err := st.CreateMessage(both); err == nil {
		t.Error("Expected error for message with both receiver and group")
	}

	neither := &models.Message{SenderID: alice.ID, Text: "bad"}
	if err := st.CreateMessage(neither); err == nil {
		t.Error("Expected error for message with neither receiver nor group")
	}
}

func TestReplySnippetPersistsVerbatim(t *testing.T) {
	st := newTestStore(t)

	alice := makeUser(t, st, "alice")
	bob := makeUser(t, st, "bob")

	original := &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Text: "hi"}
	st.CreateMessage(original)

	reply := &models.Message{
		SenderID:   bob.ID,
		ReceiverID: alice.ID,
		Text:       "replying",
		ReplyTo:    &models.ReplyRef{MessageID: original.ID, Text: "hi"},
	}
	if err := st.CreateMessage(reply); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	messages, _ := st.GetDirectMessages(alice.ID, bob.ID)
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	got := messages[1]
	if got.ReplyTo == nil || got.ReplyTo.MessageID != original.ID || got.ReplyTo.Text != "hi" {
		t.Errorf("Expected reply snippet preserved verbatim, got %+v", got.ReplyTo)
	}
}

func TestMessageOrderingTieBreak(t *testing.T) {
	st := newTestStore(t)

	alice := makeUser(t, st, "alice")
	bob := makeUser(t, st, "bob")

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := &models.Message{ID: "bbb", SenderID: alice.ID, ReceiverID: bob.ID, Text: "second", CreatedAt: ts}
	b := &models.Message{ID: "aaa", SenderID: alice.ID, ReceiverID: bob.ID, Text: "first", CreatedAt: ts}
	st.CreateMessage(a)
	st.CreateMessage(b)

	messages, _ := st.GetDirectMessages(alice.ID, bob.ID)
	if messages[0].ID != "aaa" || messages[1].ID != "bbb" {
		t.Errorf("Expected id tie-break ordering, got %s then %s", messages[0].ID, messages[1].ID)
	}
}
