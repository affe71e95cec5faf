package ws

import (
	"reflect"
	"testing"
)

func TestPresenceMultipleConnections(t *testing.T) {
	p := NewPresence()

	p.Register("u1", "c1")
	p.Register("u1", "c2")
	p.Register("u2", "c3")

	if !p.IsOnline("u1") {
		t.Error("Expected u1 online with two connections")
	}
	if got := p.OnlineSnapshot(); !reflect.DeepEqual(got, []string{"u1", "u2"}) {
		t.Errorf("Unexpected snapshot %v", got)
	}

	p.Unregister("c1")
	if !p.IsOnline("u1") {
		t.Error("Expected u1 still online with one connection left")
	}

	p.Unregister("c2")
	if p.IsOnline("u1") {
		t.Error("Expected u1 offline after last connection closed")
	}
	if got := p.OnlineSnapshot(); !reflect.DeepEqual(got, []string{"u2"}) {
		t.Errorf("Unexpected snapshot %v", got)
	}
}

func TestPresenceUnregisterIdempotent(t *testing.T) {
	p := NewPresence()
	p.Register("u1", "c1")

	p.Unregister("c1")
	snapshot := p.OnlineSnapshot()

	// A late duplicate close event must leave state unchanged.
	p.Unregister("c1")
	if !reflect.DeepEqual(p.OnlineSnapshot(), snapshot) {
		t.Error("Expected identical state after duplicate unregister")
	}

	// Unregistering a connection that never existed is also safe.
	p.Unregister("ghost")
}

func TestPresenceConnections(t *testing.T) {
	p := NewPresence()
	p.Register("u1", "c1")
	p.Register("u1", "c2")

	conns := p.Connections("u1")
	if len(conns) != 2 {
		t.Errorf("Expected 2 connections, got %d", len(conns))
	}
	if len(p.Connections("nobody")) != 0 {
		t.Error("Expected no connections for unknown user")
	}
}

func TestPresenceLastActive(t *testing.T) {
	p := NewPresence()

	if _, ok := p.LastActive("u1"); ok {
		t.Error("Expected no last-active before any activity")
	}

	first := p.Touch("u1")
	got, ok := p.LastActive("u1")
	if !ok || got.Before(first) {
		t.Error("Expected last-active recorded by Touch")
	}
}
