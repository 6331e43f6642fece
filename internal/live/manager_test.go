package live

import (
	"strconv"
	"testing"

	"github.com/coder/websocket"
)

func TestSessionManager_Register(t *testing.T) {
	sm := NewSessionManager()
	conn := &websocket.Conn{}

	sm.Register("user123", "tab-1", conn)

	if active := sm.GetActive("user123", "tab-1"); active != conn {
		t.Errorf("Expected connection %v, got %v", conn, active)
	}
	if sm.Count() != 1 {
		t.Errorf("Count = %d, want 1", sm.Count())
	}
}

func TestSessionManager_UnregisterStale(t *testing.T) {
	sm := NewSessionManager()
	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}

	sm.Register("user123", "tab-1", conn1)
	sm.Register("user123", "tab-2", conn2)

	sm.Unregister("user123", "tab-1", conn1)
	// A connection that is not the registered one is ignored.
	sm.Unregister("user123", "tab-2", conn1)

	if active := sm.GetActive("user123", "tab-2"); active != conn2 {
		t.Errorf("Expected connection %v, got %v", conn2, active)
	}
	if sm.GetActive("user123", "tab-1") != nil {
		t.Error("tab-1 should be gone")
	}
}

func TestSessionManager_ManyUsers(t *testing.T) {
	sm := NewSessionManager()
	conns := make([]*websocket.Conn, 10)
	for i := range conns {
		conns[i] = &websocket.Conn{}
		sm.Register("user"+strconv.Itoa(i), "default", conns[i])
	}
	if sm.Count() != 10 {
		t.Fatalf("Count = %d, want 10", sm.Count())
	}
	for i, c := range conns {
		sm.Unregister("user"+strconv.Itoa(i), "default", c)
	}
	if sm.Count() != 0 {
		t.Errorf("Count = %d, want 0", sm.Count())
	}
}
