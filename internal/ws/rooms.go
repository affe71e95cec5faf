package ws

import "sync"

// Rooms is the fanout index from group conversations to subscribed
// connections. It is a dumb association; roster authorization happens in
// the message router before anything is sent.
type Rooms struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]struct{} // room id -> connection ids
	byConn map[string]map[string]struct{} // connection id -> room ids
}

func NewRooms() *Rooms {
	return &Rooms{
		rooms:  make(map[string]map[string]struct{}),
		byConn: make(map[string]map[string]struct{}),
	}
}

func (r *Rooms) Join(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.join(connID, roomID)
}

func (r *Rooms) join(connID, roomID string) {
	if r.rooms[roomID] == nil {
		r.rooms[roomID] = make(map[string]struct{})
	}
	r.rooms[roomID][connID] = struct{}{}
	if r.byConn[connID] == nil {
		r.byConn[connID] = make(map[string]struct{})
	}
	r.byConn[connID][roomID] = struct{}{}
}

func (r *Rooms) Leave(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leave(connID, roomID)
}

func (r *Rooms) leave(connID, roomID string) {
	if conns, ok := r.rooms[roomID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.rooms, roomID)
		}
	}
	if rooms, ok := r.byConn[connID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(r.byConn, connID)
		}
	}
}

// Switch leaves one room and joins another under a single lock acquisition,
// so no reader observes the connection in zero or two rooms mid-move.
func (r *Rooms) Switch(connID, fromRoomID, toRoomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fromRoomID != "" {
		r.leave(connID, fromRoomID)
	}
	if toRoomID != "" {
		r.join(connID, toRoomID)
	}
}

// DropConn removes the connection from every room it had joined.
func (r *Rooms) DropConn(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for roomID := range r.byConn[connID] {
		if conns, ok := r.rooms[roomID]; ok {
			delete(conns, connID)
			if len(conns) == 0 {
				delete(r.rooms, roomID)
			}
		}
	}
	delete(r.byConn, connID)
}

// Members returns the connection ids currently joined to a room.
func (r *Rooms) Members(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]string, 0, len(r.rooms[roomID]))
	for connID := range r.rooms[roomID] {
		conns = append(conns, connID)
	}
	return conns
}
