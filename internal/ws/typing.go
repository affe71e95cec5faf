package ws

import (
	"sync"
	"time"
)

// DefaultTypingTimeout matches the 2 second debounce the clients expect.
const DefaultTypingTimeout = 2 * time.Second

type typingKey struct {
	conversationID string
	userID         string
}

type typingState struct {
	timer   *time.Timer
	gen     uint64
	isGroup bool
}

// TypingNotifyFunc delivers a typing transition to the conversation's
// participants. It is invoked with the tracker's lock held so transitions
// for one key are delivered in order; implementations must not call back
// into the tracker.
type TypingNotifyFunc func(conversationID, userID string, isGroup, typing bool)

// TypingTracker holds one cancellable expiry timer per (conversation, user)
// pair. Arming a new timer atomically supersedes the previous one for the
// same key; concurrent conversations never clobber each other.
type TypingTracker struct {
	mu      sync.Mutex
	states  map[typingKey]*typingState
	timeout time.Duration
	notify  TypingNotifyFunc
}

func NewTypingTracker(timeout time.Duration, notify TypingNotifyFunc) *TypingTracker {
	if timeout <= 0 {
		timeout = DefaultTypingTimeout
	}
	return &TypingTracker{
		states:  make(map[typingKey]*typingState),
		timeout: timeout,
		notify:  notify,
	}
}

// Touch records a keystroke. The first touch after idle emits a typing
// transition; every touch resets the expiry deadline.
func (t *TypingTracker) Touch(conversationID, userID string, isGroup bool) {
	key := typingKey{conversationID, userID}

	t.mu.Lock()
	state, exists := t.states[key]
	if exists {
		state.timer.Stop()
	} else {
		state = &typingState{isGroup: isGroup}
		t.states[key] = state
	}
	state.gen++
	gen := state.gen
	state.timer = time.AfterFunc(t.timeout, func() { t.expire(key, gen) })
	if !exists {
		t.notify(conversationID, userID, isGroup, true)
	}
	t.mu.Unlock()
}

func (t *TypingTracker) expire(key typingKey, gen uint64) {
	t.mu.Lock()
	state, ok := t.states[key]
	if !ok || state.gen != gen {
		// A newer timer or an explicit Stop superseded this one.
		t.mu.Unlock()
		return
	}
	delete(t.states, key)
	t.notify(key.conversationID, key.userID, state.isGroup, false)
	t.mu.Unlock()
}

// Stop emits an immediate idle transition, used on message send or input
// clear. No-op if the user was not typing.
func (t *TypingTracker) Stop(conversationID, userID string) {
	key := typingKey{conversationID, userID}

	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.states[key]
	if ok {
		state.timer.Stop()
		delete(t.states, key)
		t.notify(conversationID, userID, state.isGroup, false)
	}
}

// StopAll cancels every pending timer for a user without emitting
// transitions, used on connection teardown.
func (t *TypingTracker) StopAll(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, state := range t.states {
		if key.userID == userID {
			state.timer.Stop()
			delete(t.states, key)
		}
	}
}
