// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainbus

import (
	"sync"
	"testing"
)

// syncPoster runs posted closures inline, immediately, for deterministic
// single-goroutine tests that do not need a real strand.
type syncPoster struct {
	mu sync.Mutex
}

func (p *syncPoster) Post(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
}

func TestPublishDeliversInOrder(t *testing.T) {
	bus := New()
	var got []Tag
	poster := &syncPoster{}
	bus.Subscribe(poster, func(ev Event) bool {
		got = append(got, ev.Tag)
		return true
	})

	want := []Tag{Start, Checked, Valid, Confirmable, Stop}
	for _, tag := range want {
		bus.Publish(Event{Tag: tag})
	}

	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i, tag := range want {
		if got[i] != tag {
			t.Errorf("event %d: got %s, want %s", i, got[i], tag)
		}
	}
}

func TestHandlerFalseUnsubscribes(t *testing.T) {
	bus := New()
	poster := &syncPoster{}
	calls := 0
	bus.Subscribe(poster, func(ev Event) bool {
		calls++
		return ev.Tag != Stop
	})

	bus.Publish(Event{Tag: Bump})
	bus.Publish(Event{Tag: Stop})
	bus.Publish(Event{Tag: Bump})

	if calls != 2 {
		t.Fatalf("handler invoked %d times, want 2 (unsubscribe on Stop)", calls)
	}
}

func TestIndependentSubscribers(t *testing.T) {
	bus := New()
	var a, b int
	bus.Subscribe(&syncPoster{}, func(Event) bool { a++; return true })
	bus.Subscribe(&syncPoster{}, func(Event) bool { b++; return true })

	bus.Publish(Event{Tag: Bump})

	if a != 1 || b != 1 {
		t.Fatalf("got a=%d b=%d, want a=1 b=1", a, b)
	}
}

func TestTagString(t *testing.T) {
	if Start.String() != "start" {
		t.Errorf("Start.String() = %q, want %q", Start.String(), "start")
	}
	if Tag(999).String() != "unknown" {
		t.Errorf("Tag(999).String() = %q, want %q", Tag(999).String(), "unknown")
	}
}
