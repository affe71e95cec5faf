package chat

import (
	"database/sql"
	"errors"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/models"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/store"
)

// Fanout pushes a persisted message to live connections. Implementations
// must be fire-and-forget: a slow or dead connection never blocks or fails
// the send that triggered the push.
type Fanout interface {
	PushDirect(receiverID string, msg *models.Message)
	PushGroup(groupID, excludeUserID string, msg *models.Message)
}

// Body carries the caller-supplied parts of an outbound message.
type Body struct {
	Text        string           `json:"text"`
	Image       string           `json:"image"`
	FileName    string           `json:"fileName"`
	IsEncrypted bool             `json:"isEncrypted"`
	Nonce       string           `json:"nonce"`
	Algorithm   string           `json:"algorithm"`
	ReplyTo     *models.ReplyRef `json:"replyTo"`
	ClientTag   string           `json:"clientTag"`
}

// Router persists outbound messages and fans them out to the recipient
// connection set. Persistence always happens before fanout; a storage
// failure aborts the send with nothing broadcast.
type Router struct {
	store  store.Store
	fanout Fanout
}

func NewRouter(st store.Store, fanout Fanout) *Router {
	return &Router{store: st, fanout: fanout}
}

func (b Body) validate() error {
	if b.Text == "" && b.Image == "" {
		return &ValidationError{Field: "body", Reason: "text or attachment required"}
	}
	return nil
}

func (b Body) toMessage(senderID string) *models.Message {
	return &models.Message{
		SenderID:    senderID,
		Text:        b.Text,
		Image:       b.Image,
		FileName:    b.FileName,
		IsEncrypted: b.IsEncrypted,
		Nonce:       b.Nonce,
		Algorithm:   b.Algorithm,
		ReplyTo:     b.ReplyTo,
		ClientTag:   b.ClientTag,
	}
}

// SendDirect persists a direct message and pushes it to each of the
// receiver's live connections. An offline receiver still gets the persisted
// record on their next history fetch.
func (r *Router) SendDirect(senderID, receiverID string, body Body) (*models.Message, error) {
	if receiverID == "" {
		return nil, &ValidationError{Field: "receiverId", Reason: "required"}
	}
	if err := body.validate(); err != nil {
		return nil, err
	}
	if _, err := r.store.GetUserByID(receiverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Kind: "user", ID: receiverID}
		}
		return nil, &PersistenceError{Op: "find receiver", Err: err}
	}

	msg := body.toMessage(senderID)
	msg.ReceiverID = receiverID
	if err := r.store.CreateMessage(msg); err != nil {
		return nil, &PersistenceError{Op: "create message", Err: err}
	}

	r.fanout.PushDirect(receiverID, msg)
	return msg, nil
}

// SendGroup checks the durable roster, persists the message, then pushes it
// to every member connection joined to the room except the sender's own.
func (r *Router) SendGroup(senderID, groupID string, body Body) (*models.Message, error) {
	if groupID == "" {
		return nil, &ValidationError{Field: "groupId", Reason: "required"}
	}
	if err := body.validate(); err != nil {
		return nil, err
	}

	group, err := r.store.GetGroup(groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Kind: "group", ID: groupID}
		}
		return nil, &PersistenceError{Op: "find group", Err: err}
	}
	if !contains(group.Members, senderID) {
		return nil, &AuthorizationError{Reason: "not a member of this group"}
	}

	msg := body.toMessage(senderID)
	msg.GroupID = groupID
	if err := r.store.CreateMessage(msg); err != nil {
		return nil, &PersistenceError{Op: "create message", Err: err}
	}

	r.fanout.PushGroup(groupID, senderID, msg)
	return msg, nil
}

// Messages returns the conversation history with a target that is either a
// group or another user, sorted oldest first. Group history requires roster
// membership.
func (r *Router) Messages(userID, targetID string) ([]models.Message, error) {
	group, err := r.store.GetGroup(targetID)
	switch {
	case err == nil:
		if !contains(group.Members, userID) {
			return nil, &AuthorizationError{Reason: "not a member of this group"}
		}
		messages, err := r.store.GetGroupMessages(targetID)
		if err != nil {
			return nil, &PersistenceError{Op: "find group messages", Err: err}
		}
		return messages, nil
	case errors.Is(err, sql.ErrNoRows):
		messages, err := r.store.GetDirectMessages(userID, targetID)
		if err != nil {
			return nil, &PersistenceError{Op: "find messages", Err: err}
		}
		return messages, nil
	default:
		return nil, &PersistenceError{Op: "find group", Err: err}
	}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
