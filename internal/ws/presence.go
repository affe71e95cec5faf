package ws

import (
	"sort"
	"sync"
	"time"
)

// Presence maps live connections to user identities. A user is online while
// at least one connection is registered for them. All state here is
// process-local and rebuilt from zero on restart.
type Presence struct {
	mu         sync.RWMutex
	conns      map[string]string              // connection id -> user id
	users      map[string]map[string]struct{} // user id -> connection ids
	lastActive map[string]time.Time
}

func NewPresence() *Presence {
	return &Presence{
		conns:      make(map[string]string),
		users:      make(map[string]map[string]struct{}),
		lastActive: make(map[string]time.Time),
	}
}

func (p *Presence) Register(userID, connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns[connID] = userID
	if p.users[userID] == nil {
		p.users[userID] = make(map[string]struct{})
	}
	p.users[userID][connID] = struct{}{}
	p.lastActive[userID] = time.Now()
}

// Unregister removes a connection. Safe to call for connections that were
// never registered or were already removed.
func (p *Presence) Unregister(connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	userID, ok := p.conns[connID]
	if !ok {
		return
	}
	delete(p.conns, connID)
	delete(p.users[userID], connID)
	if len(p.users[userID]) == 0 {
		delete(p.users, userID)
	}
}

func (p *Presence) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.users[userID]) > 0
}

// OnlineSnapshot returns the set of online user ids, sorted for stable
// broadcasts.
func (p *Presence) OnlineSnapshot() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	online := make([]string, 0, len(p.users))
	for userID := range p.users {
		online = append(online, userID)
	}
	sort.Strings(online)
	return online
}

// Connections returns the live connection ids for a user.
func (p *Presence) Connections(userID string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	conns := make([]string, 0, len(p.users[userID]))
	for connID := range p.users[userID] {
		conns = append(conns, connID)
	}
	return conns
}

// Touch records activity for a user, independent of typing.
func (p *Presence) Touch(userID string) time.Time {
	now := time.Now()
	p.mu.Lock()
	p.lastActive[userID] = now
	p.mu.Unlock()
	return now
}

func (p *Presence) LastActive(userID string) (time.Time, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.lastActive[userID]
	return t, ok
}
