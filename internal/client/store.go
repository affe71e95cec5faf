package client

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/models"
)

// DecryptFunc turns an encrypted message body back into plaintext. It is
// allowed to fail; the entry is then shown as undecryptable, never dropped.
type DecryptFunc func(m *models.Message) (string, error)

// Entry is one message in a conversation view, with the client-side state
// layered on top of the persisted record.
type Entry struct {
	models.Message
	Plaintext     string
	Undecryptable bool
	Pending       bool
}

// Inbound is a message as it arrives over the wire. The sender may be a
// bare id string or a populated user record; both normalize to one shape.
type Inbound struct {
	ID          string           `json:"_id"`
	SenderID    models.SenderRef `json:"senderId"`
	ReceiverID  string           `json:"receiverId"`
	GroupID     string           `json:"groupId"`
	Text        string           `json:"text"`
	Image       string           `json:"image"`
	FileName    string           `json:"fileName"`
	IsEncrypted bool             `json:"isEncrypted"`
	Nonce       string           `json:"nonce"`
	Algorithm   string           `json:"algorithm"`
	ReplyTo     *models.ReplyRef `json:"replyTo"`
	ClientTag   string           `json:"clientTag"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func (in Inbound) normalize() models.Message {
	return models.Message{
		ID:          in.ID,
		SenderID:    in.SenderID.ID,
		Sender:      in.SenderID.User,
		ReceiverID:  in.ReceiverID,
		GroupID:     in.GroupID,
		Text:        in.Text,
		Image:       in.Image,
		FileName:    in.FileName,
		IsEncrypted: in.IsEncrypted,
		Nonce:       in.Nonce,
		Algorithm:   in.Algorithm,
		ReplyTo:     in.ReplyTo,
		ClientTag:   in.ClientTag,
		CreatedAt:   in.CreatedAt,
	}
}

// Store is the client-side mirror of conversations. Local optimistic sends,
// server echoes and inbound pushes all land here and resolve into a single
// ordered view per conversation.
type Store struct {
	mu            sync.Mutex
	conversations map[string][]Entry
	decrypt       DecryptFunc
}

func NewStore(decrypt DecryptFunc) *Store {
	return &Store{
		conversations: make(map[string][]Entry),
		decrypt:       decrypt,
	}
}

// ApplyLocalSend appends an optimistic copy before server acknowledgment.
// The returned tag correlates the eventual echo; the echo replaces this
// entry instead of appending a duplicate.
func (s *Store) ApplyLocalSend(conversationID string, msg models.Message) string {
	if msg.ClientTag == "" {
		msg.ClientTag = uuid.New().String()
	}
	if msg.ID == "" {
		msg.ID = "local-" + msg.ClientTag
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conversationID] = append(s.conversations[conversationID], Entry{
		Message: msg,
		Pending: true,
	})
	s.sortConversation(conversationID)
	return msg.ClientTag
}

// ApplyInbound folds a pushed or fetched message into the view. A matching
// pending correlation tag or an already-known id replaces in place;
// everything else inserts in timestamp order.
func (s *Store) ApplyInbound(conversationID string, in Inbound) {
	entry := Entry{Message: in.normalize()}
	if entry.IsEncrypted && s.decrypt != nil {
		plaintext, err := s.decrypt(&entry.Message)
		if err != nil {
			entry.Undecryptable = true
		} else {
			entry.Plaintext = plaintext
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.conversations[conversationID]

	if entry.ClientTag != "" {
		for i := range entries {
			if entries[i].Pending && entries[i].ClientTag == entry.ClientTag {
				entries[i] = entry
				s.sortConversation(conversationID)
				return
			}
		}
	}
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = entry
			s.sortConversation(conversationID)
			return
		}
	}

	s.conversations[conversationID] = append(entries, entry)
	s.sortConversation(conversationID)
}

// CurrentView returns the conversation ordered by persisted timestamp,
// ties broken by id so the order is stable across reconnects.
func (s *Store) CurrentView(conversationID string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.conversations[conversationID]
	view := make([]Entry, len(entries))
	copy(view, entries)
	return view
}

func (s *Store) sortConversation(conversationID string) {
	entries := s.conversations[conversationID]
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}
