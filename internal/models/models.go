package models

import (
	"bytes"
	"encoding/json"
	"time"
)

type User struct {
	ID         string `json:"_id"`
	Username   string `json:"username"`
	FullName   string `json:"fullName,omitempty"`
	Email      string `json:"email,omitempty"`
	Password   string `json:"-"`
	ProfilePic string `json:"profilePic,omitempty"`
	PublicKey  string `json:"publicKey,omitempty"`
}

type Group struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReplyRef is a denormalized pointer to the message being replied to. The
// text snippet is captured at send time and never updated afterwards.
type ReplyRef struct {
	MessageID string `json:"messageId"`
	Text      string `json:"text"`
}

// Message is the persisted chat record. Exactly one of ReceiverID and
// GroupID is set; the record is immutable once stored.
type Message struct {
	ID          string    `json:"_id"`
	SenderID    string    `json:"senderId"`
	ReceiverID  string    `json:"receiverId,omitempty"`
	GroupID     string    `json:"groupId,omitempty"`
	Text        string    `json:"text,omitempty"`
	Image       string    `json:"image,omitempty"`
	FileName    string    `json:"fileName,omitempty"`
	IsEncrypted bool      `json:"isEncrypted,omitempty"`
	Nonce       string    `json:"nonce,omitempty"`
	Algorithm   string    `json:"algorithm,omitempty"`
	ReplyTo     *ReplyRef `json:"replyTo,omitempty"`
	ClientTag   string    `json:"clientTag,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	// Sender is filled in by history queries; live pushes carry the bare id.
	Sender *User `json:"sender,omitempty"`
}

// SenderRef is the sender field of an inbound message, which may arrive
// either as a bare id string or as a populated user object. Both shapes
// normalize to the id; the populated record is kept when present.
type SenderRef struct {
	ID   string
	User *User
}

func (r *SenderRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var u User
		if err := json.Unmarshal(trimmed, &u); err != nil {
			return err
		}
		r.ID = u.ID
		r.User = &u
		return nil
	}
	r.User = nil
	return json.Unmarshal(trimmed, &r.ID)
}

func (r SenderRef) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		return json.Marshal(r.User)
	}
	return json.Marshal(r.ID)
}
