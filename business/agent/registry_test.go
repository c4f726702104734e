package agent

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/charcochicken/goVoiceOrder/business/dialogue"
)

func TestRegistryAcquire(t *testing.T) {
	registry := NewRegistry(zap.NewNop().Sugar())

	s1 := registry.Acquire("call-1")
	if s1.ID != "call-1" {
		t.Fatalf("id = %q, want call-1", s1.ID)
	}

	// Same id returns the same live session.
	if s2 := registry.Acquire("call-1"); s2 != s1 {
		t.Fatal("second acquire returned a different session")
	}

	// Empty id mints a fresh session.
	anon := registry.Acquire("")
	if anon.ID == "" {
		t.Fatal("empty id not replaced")
	}
	if registry.Count() != 2 {
		t.Fatalf("count = %d, want 2", registry.Count())
	}
}

func TestRegistryAcquireReplacesTerminalSession(t *testing.T) {
	registry := NewRegistry(zap.NewNop().Sugar())

	s1 := registry.Acquire("call-1")
	s1.Lock()
	s1.State = dialogue.StateClosed
	s1.Unlock()

	s2 := registry.Acquire("call-1")
	if s2 == s1 {
		t.Fatal("terminal session not replaced")
	}
	if s2.State != dialogue.StateGreeting {
		t.Errorf("replacement state = %v, want Greeting", s2.State)
	}
}

func TestRegistrySweep(t *testing.T) {
	registry := NewRegistry(zap.NewNop().Sugar())

	idle := registry.Acquire("idle")
	idle.Lock()
	idle.LastActivity = time.Now().Add(-10 * time.Minute)
	idle.Draft = dialogue.NewDraft()
	idle.Unlock()

	registry.Acquire("active")

	done := registry.Acquire("done")
	done.Lock()
	done.State = dialogue.StateClosed
	done.Unlock()

	swept := registry.Sweep(5 * time.Minute)
	if swept != 2 {
		t.Fatalf("swept = %d, want 2", swept)
	}

	if registry.Count() != 1 {
		t.Fatalf("count = %d, want 1", registry.Count())
	}
	if _, exists := registry.Get("active"); !exists {
		t.Error("active session swept")
	}

	// The idle session was closed and its draft discarded before removal.
	idle.Lock()
	if idle.State != dialogue.StateClosed {
		t.Errorf("idle state = %v, want Closed", idle.State)
	}
	if idle.Draft != nil {
		t.Error("idle draft survived the sweep")
	}
	idle.Unlock()
}
