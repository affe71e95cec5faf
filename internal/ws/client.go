package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/chat"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is the ephemeral pairing of one websocket session to one user. A
// user may hold several clients at once (multiple tabs or devices).
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	id     string
	userID string
}

// ServeWs upgrades the request and starts the per-connection pumps.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		id:     uuid.New().String(),
		userID: userID,
	}
	hub.register(client)

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			c.sendError("malformed envelope")
			continue
		}
		c.dispatch(envelope)
	}
}

func (c *Client) dispatch(envelope Envelope) {
	switch envelope.Event {
	case EventTyping:
		var payload TypingPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil || payload.ReceiverID == "" {
			c.sendError("malformed typing payload")
			return
		}
		c.hub.Typing(c.userID, payload.ReceiverID, payload.IsGroup)

	case EventActivity:
		c.hub.Activity(c.userID)

	case EventJoinGroup:
		payload, ok := c.roomPayload(envelope.Data)
		if !ok {
			return
		}
		c.hub.rooms.Join(c.id, payload.GroupID)
		c.hub.pushToRoom(payload.GroupID, "", EventGroupJoined, GroupJoinedPayload{
			GroupID: payload.GroupID,
			UserID:  c.userID,
		})

	case EventLeaveGroup:
		payload, ok := c.roomPayload(envelope.Data)
		if !ok {
			return
		}
		c.hub.rooms.Leave(c.id, payload.GroupID)

	case EventSwitchRoom:
		var payload SwitchRoomPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.sendError("malformed switchRoom payload")
			return
		}
		c.hub.rooms.Switch(c.id, payload.From, payload.To)

	case EventGroupMessage:
		var payload struct {
			GroupID string `json:"groupId"`
			chat.Body
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.sendError("malformed groupMessage payload")
			return
		}
		c.hub.StopTyping(c.userID, payload.GroupID)
		if _, err := c.hub.Router.SendGroup(c.userID, payload.GroupID, payload.Body); err != nil {
			log.Printf("groupMessage from %s: %v", c.userID, err)
			c.sendError(err.Error())
		}

	default:
		c.sendError("unknown event " + envelope.Event)
	}
}

func (c *Client) roomPayload(data json.RawMessage) (RoomPayload, bool) {
	var payload RoomPayload
	// Accept both {"groupId": "..."} and a bare id string.
	if err := json.Unmarshal(data, &payload); err != nil || payload.GroupID == "" {
		var id string
		if err := json.Unmarshal(data, &id); err != nil || id == "" {
			c.sendError("malformed room payload")
			return RoomPayload{}, false
		}
		payload.GroupID = id
	}
	return payload, true
}

func (c *Client) sendError(message string) {
	if frame := marshalEnvelope(EventError, ErrorPayload{Message: message}); frame != nil {
		c.hub.trySend(c, frame)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
