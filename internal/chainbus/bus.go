// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainbus implements the in-process publish/subscribe event bus
// that couples the chasers described in the chain assembly core: header,
// check, validate, confirm, and the peer adaptor.  It is the only permitted
// channel of communication between chasers; nothing here calls chaser
// methods directly.
package chainbus

import (
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// Tag identifies the kind of a chase event.  The meaning of the
// accompanying Value depends on the tag; see each constant's comment.
type Tag int

// The full set of chase event tags recognized by the bus.
const (
	// Start is published once, when the node's chasers begin running.
	Start Tag = iota

	// Resume is published when a suspended chaser should resume querying
	// the archive.
	Resume

	// Suspend is published when a chaser should stop generating new
	// archive queries until resumed.
	Suspend

	// Bump carries no meaningful value; it asks every subscriber to
	// re-check whether it has ready work, without implying anything
	// changed. Chasers self-publish this to avoid stalling (see
	// SPEC_FULL.md §4).
	Bump

	// Checked carries the height of a block whose body was just
	// associated with its header link by the check chaser.
	Checked

	// Valid carries the height of a block the validate chaser has just
	// marked block_valid (or shortcut-completed as such).
	Valid

	// Unvalid carries the header link of a block that failed validation.
	Unvalid

	// Confirmable carries the height of a block the confirm chaser has
	// just marked block_confirmable.
	Confirmable

	// Unconfirmable carries the header link of a block that failed
	// confirmation.
	Unconfirmable

	// Organized carries the header link of a block just pushed onto the
	// confirmed chain by the confirm chaser. Only this tag triggers
	// peeradaptor announcements (SPEC_FULL.md §4.8); it is never published
	// by any other chaser.
	Organized

	// CandidateOrganized carries the height of a block just pushed onto
	// the candidate (header) chain by the header chaser. It shares no
	// payload semantics with Organized, which carries a link.
	CandidateOrganized

	// Reorganized carries the header link of a block just popped off the
	// confirmed chain during a reorganization.
	Reorganized

	// Regressed carries the branch point height below which a subscriber
	// must roll its own position back.
	Regressed

	// Disorganized carries the branch point height of a header-tree
	// reorganization (candidate chain switched branches).
	Disorganized

	// Stop is published exactly once, when the node is shutting down.
	// Subscribers must return false from their handler on receipt.
	Stop
)

// String returns a human-readable name for the tag, used in logging.
func (t Tag) String() string {
	switch t {
	case Start:
		return "start"
	case Resume:
		return "resume"
	case Suspend:
		return "suspend"
	case Bump:
		return "bump"
	case Checked:
		return "checked"
	case Valid:
		return "valid"
	case Unvalid:
		return "unvalid"
	case Confirmable:
		return "confirmable"
	case Unconfirmable:
		return "unconfirmable"
	case Organized:
		return "organized"
	case CandidateOrganized:
		return "candidate_organized"
	case Reorganized:
		return "reorganized"
	case Regressed:
		return "regressed"
	case Disorganized:
		return "disorganized"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// Value is the payload of an event.  Per spec.md §4.2 this is "a height or
// link (per tag)"; both are represented as plain integers by the archive
// (a header link is a small integer handle), so a single int64 field
// covers both without a variant type.
type Value int64

// Link reinterprets the value as a header link. Hash is available for
// diagnostics only; chasers never key their own state off of it.
func (v Value) Link() int64 { return int64(v) }

// Height reinterprets the value as a chain height.
func (v Value) Height() int64 { return int64(v) }

// Event is a single message carried on the bus.
type Event struct {
	EC    error
	Tag   Tag
	Value Value

	// Hash is populated by publishers for whom a header hash is cheaply
	// available and useful for logging; it is never required for
	// correctness and subscribers must not depend on its presence.
	Hash chainhash.Hash
}

// Handler processes one event on the subscriber's own strand. It returns
// false to unsubscribe (typically on receipt of Stop).
type Handler func(Event) bool

// Bus is a multi-producer/multi-consumer typed channel. Publish delivers the
// event to every current subscriber, each via its own Poster, so that one
// slow or suspended subscriber never blocks another.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]subscriber
	next int
}

// Poster abstracts "run this closure serialized with my other state
// mutations" so the bus does not need to know about strand.Strand
// directly; it only needs something that preserves publish order per
// subscriber, which strand.Strand provides.
type Poster interface {
	Post(func())
}

type subscriber struct {
	poster  Poster
	handler Handler
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[int]subscriber)}
}

// Subscribe registers handler to receive every subsequently published
// event, delivered one at a time and in publish order via poster. It
// returns an id that can be passed to Unsubscribe.
func (b *Bus) Subscribe(poster Poster, handler Handler) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = subscriber{poster: poster, handler: handler}
	return id
}

// Unsubscribe removes a subscription. It is safe to call from within a
// handler.
func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// Publish fans ev out to every current subscriber. Publish returns as soon
// as the event has been posted to every subscriber's strand; it does not
// wait for the handlers to run. A subscriber whose handler returns false is
// removed.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.subs))
	posters := make([]Poster, 0, len(b.subs))
	handlers := make([]Handler, 0, len(b.subs))
	for id, sub := range b.subs {
		ids = append(ids, id)
		posters = append(posters, sub.poster)
		handlers = append(handlers, sub.handler)
	}
	b.mu.RUnlock()

	for i := range ids {
		id, poster, handler := ids[i], posters[i], handlers[i]
		poster.Post(func() {
			if !handler(ev) {
				b.Unsubscribe(id)
			}
		})
	}
}
