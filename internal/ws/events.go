package ws

import "encoding/json"

// Wire event names. These are part of the client protocol and must stay
// stable.
const (
	// Outbound pushes
	EventNewMessage        = "newMessage"
	EventNewGroupMessage   = "newGroupMessage"
	EventOnlineUsers       = "getOnlineUsers"
	EventUserTyping        = "userTyping"
	EventUserStoppedTyping = "userStoppedTyping"
	EventUserActive        = "userActive"
	EventGroupJoined       = "groupJoined"
	EventError             = "error"

	// Inbound client actions
	EventTyping       = "typing"
	EventActivity     = "activity"
	EventJoinGroup    = "joinGroup"
	EventLeaveGroup   = "leaveGroup"
	EventSwitchRoom   = "switchRoom"
	EventGroupMessage = "groupMessage"
)

// Envelope is the framing for every websocket message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type TypingPayload struct {
	ReceiverID string `json:"receiverId"`
	IsGroup    bool   `json:"isGroup"`
}

type RoomPayload struct {
	GroupID string `json:"groupId"`
}

type SwitchRoomPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type UserEventPayload struct {
	UserID string `json:"userId"`
}

type ActivityPayload struct {
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
}

type GroupJoinedPayload struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
