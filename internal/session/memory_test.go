package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"wrong-calculator/internal/core"
)

func typeDigit(d byte) UpdateFunc {
	m := core.NewMachine(core.FixedSource{})
	return func(s core.State) core.State { return m.Transition(s, core.Digit(d)) }
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	id, st, err := s.Create(ctx)
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	if st.Display != "0" {
		t.Fatalf("expected display %q, got %q", "0", st.Display)
	}

	got, err := s.Update(ctx, id, typeDigit('4'))
	if err != nil {
		t.Fatalf("updating session: %v", err)
	}
	if got.Display != "4" {
		t.Fatalf("expected display %q, got %q", "4", got.Display)
	}

	got, err = s.Get(ctx, id)
	if err != nil {
		t.Fatalf("getting session: %v", err)
	}
	if got.Display != "4" {
		t.Fatalf("expected stored display %q, got %q", "4", got.Display)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("deleting session: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreUnknownID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Update(ctx, "nope", typeDigit('1')); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	idle, _, _ := s.Create(ctx)
	busy, _, _ := s.Create(ctx)

	now = now.Add(45 * time.Second)
	if _, err := s.Update(ctx, busy, typeDigit('1')); err != nil {
		t.Fatalf("updating busy session: %v", err)
	}

	now = now.Add(30 * time.Second)
	if _, err := s.Get(ctx, idle); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected idle session to expire, got %v", err)
	}
	if _, err := s.Get(ctx, busy); err != nil {
		t.Fatalf("expected busy session to survive, got %v", err)
	}

	n, err := s.Len(ctx)
	if err != nil {
		t.Fatalf("counting sessions: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 live session, got %d", n)
	}
}

func TestMemoryStoreSerializesUpdates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	id, _, _ := s.Create(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, id, typeDigit('1'))
		}()
	}
	wg.Wait()

	got, _ := s.Get(ctx, id)
	if len(got.Display) != 50 {
		t.Fatalf("expected 50 digits, got %d (%q)", len(got.Display), got.Display)
	}
}

func TestOpenRejectsUnknownStore(t *testing.T) {
	if _, _, err := Open(context.Background(), Config{Store: "tape"}, nil); err == nil {
		t.Fatal("expected error for unknown store")
	}
}

func TestOpenDefaultsToMemory(t *testing.T) {
	s, closeFn, err := Open(context.Background(), Config{}, nil)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer closeFn()

	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", s)
	}
}
