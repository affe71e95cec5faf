package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/chat"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/models"
)

// Hub owns the live connection table and implements chat.Fanout on top of
// the presence and room registries. All registries are process-local and
// rebuilt empty on restart.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client // connection id -> client

	presence *Presence
	rooms    *Rooms
	typing   *TypingTracker

	// Router handles socket-initiated group sends. Set after construction
	// because the router fans out through this hub.
	Router *chat.Router
}

func NewHub() *Hub {
	h := &Hub{
		clients:  make(map[string]*Client),
		presence: NewPresence(),
		rooms:    NewRooms(),
	}
	h.typing = NewTypingTracker(DefaultTypingTimeout, h.notifyTyping)
	return h
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.presence.Register(c.userID, c.id)

	h.Broadcast(EventOnlineUsers, h.presence.OnlineSnapshot())
	h.Broadcast(EventUserActive, ActivityPayload{
		UserID:    c.userID,
		Timestamp: h.presence.Touch(c.userID).UTC().Format(time.RFC3339),
	})
}

// unregister tears the connection down synchronously: presence, every room
// it joined and its typing timers are cleared before the broadcast goes out.
// Idempotent for late or duplicate close events.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	h.mu.Unlock()

	h.rooms.DropConn(c.id)
	h.presence.Unregister(c.id)
	if !h.presence.IsOnline(c.userID) {
		h.typing.StopAll(c.userID)
	}

	h.Broadcast(EventOnlineUsers, h.presence.OnlineSnapshot())
}

func marshalEnvelope(event string, payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("marshal %s payload: %v", event, err)
		return nil
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("marshal %s envelope: %v", event, err)
		return nil
	}
	return frame
}

// trySend queues a frame without blocking. A connection with a full buffer
// is dropped; its own teardown signal finishes the cleanup.
func (h *Hub) trySend(c *Client, frame []byte) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	select {
	case c.send <- frame:
		h.mu.Unlock()
	default:
		delete(h.clients, c.id)
		close(c.send)
		h.mu.Unlock()
		log.Printf("dropping stalled connection %s (user %s)", c.id, c.userID)
		h.rooms.DropConn(c.id)
		h.presence.Unregister(c.id)
	}
}

// Broadcast pushes an event to every live connection.
func (h *Hub) Broadcast(event string, payload interface{}) {
	frame := marshalEnvelope(event, payload)
	if frame == nil {
		return
	}
	for _, c := range h.snapshotClients() {
		h.trySend(c, frame)
	}
}

func (h *Hub) snapshotClients() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

func (h *Hub) clientByConn(connID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[connID]
}

// PushDirect delivers a message to each of the receiver's live connections,
// once per connection.
func (h *Hub) PushDirect(receiverID string, msg *models.Message) {
	frame := marshalEnvelope(EventNewMessage, msg)
	if frame == nil {
		return
	}
	for _, connID := range h.presence.Connections(receiverID) {
		if c := h.clientByConn(connID); c != nil {
			h.trySend(c, frame)
		}
	}
}

// PushGroup delivers a message to every connection joined to the group's
// room except the sender's own connections.
func (h *Hub) PushGroup(groupID, excludeUserID string, msg *models.Message) {
	frame := marshalEnvelope(EventNewGroupMessage, msg)
	if frame == nil {
		return
	}
	for _, connID := range h.rooms.Members(groupID) {
		c := h.clientByConn(connID)
		if c == nil || c.userID == excludeUserID {
			continue
		}
		h.trySend(c, frame)
	}
}

// pushToUser sends an event to all of one user's connections.
func (h *Hub) pushToUser(userID string, event string, payload interface{}) {
	frame := marshalEnvelope(event, payload)
	if frame == nil {
		return
	}
	for _, connID := range h.presence.Connections(userID) {
		if c := h.clientByConn(connID); c != nil {
			h.trySend(c, frame)
		}
	}
}

// pushToRoom sends an event to all room members except one user.
func (h *Hub) pushToRoom(roomID, excludeUserID string, event string, payload interface{}) {
	frame := marshalEnvelope(event, payload)
	if frame == nil {
		return
	}
	for _, connID := range h.rooms.Members(roomID) {
		c := h.clientByConn(connID)
		if c == nil || c.userID == excludeUserID {
			continue
		}
		h.trySend(c, frame)
	}
}

// notifyTyping routes typing transitions to the conversation's participants:
// the room for group chats, the direct peer's connections otherwise.
func (h *Hub) notifyTyping(conversationID, userID string, isGroup, typing bool) {
	event := EventUserTyping
	if !typing {
		event = EventUserStoppedTyping
	}
	payload := UserEventPayload{UserID: userID}
	if isGroup {
		h.pushToRoom(conversationID, userID, event, payload)
	} else {
		h.pushToUser(conversationID, event, payload)
	}
}

// Typing records a keystroke from userID in the given conversation.
func (h *Hub) Typing(userID, conversationID string, isGroup bool) {
	h.presence.Touch(userID)
	h.typing.Touch(conversationID, userID, isGroup)
}

// StopTyping clears the typing state immediately, used on message send.
func (h *Hub) StopTyping(userID, conversationID string) {
	h.typing.Stop(conversationID, userID)
}

// Activity broadcasts a last-active update for the user.
func (h *Hub) Activity(userID string) {
	ts := h.presence.Touch(userID)
	h.Broadcast(EventUserActive, ActivityPayload{
		UserID:    userID,
		Timestamp: ts.UTC().Format(time.RFC3339),
	})
}
