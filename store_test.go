package stripekit

import (
	"errors"
	"testing"
)

func Test_MemStoreLogEvent(t *testing.T) {
	store := NewMemStore()

	if err := store.LogEvent("evt_123456"); err != nil {
		t.Fatal(err)
	}

	if err := store.LogEvent("evt_123456"); !errors.Is(err, ErrEventExists) {
		t.Fatalf("expected ErrEventExists, got %v\n", err)
	}

	if err := store.LogEvent("evt_654321"); err != nil {
		t.Fatal(err)
	}
}
