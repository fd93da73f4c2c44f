// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chase implements the four chain-assembly state machines: header,
// check, validate, and confirm. Each embeds Runtime, which supplies the
// strand, lifecycle bits, and one-shot fault escalation common to all four
// (spec.md §4.3).
package chase

import (
	"sync"
	"sync/atomic"

	"github.com/decred/slog"

	"github.com/bcnchain/bcnoded/internal/archive"
	"github.com/bcnchain/bcnoded/internal/chainbus"
	"github.com/bcnchain/bcnoded/internal/strand"
)

// log is the package-level logger, following the teacher's slog
// convention: disabled until the caller installs a real backend with
// UseLogger.
var log = slog.Disabled

// UseLogger sets the package-wide logger used by every chaser.
func UseLogger(logger slog.Logger) {
	log = logger
}

// state is the lifecycle state machine shared by every chaser (spec.md
// §4.3): Idle -> Running on start, any -> Suspended on suspend, back to
// Running on resume, any -> Closed on stop (terminal).
type state int32

const (
	stateIdle state = iota
	stateRunning
	stateSuspended
	stateClosed
)

// Faulter is the narrow surface a chaser needs from the node to escalate a
// fatal error: publish stop(ec) exactly once and mark the node faulted.
type Faulter interface {
	Fault(err error)
}

// Runtime is embedded by every chaser. It is not meant to be used directly
// by chaser callers; each chaser wraps it with its own event handler.
type Runtime struct {
	name    string
	strand  *strand.Strand
	bus     *chainbus.Bus
	archive archive.Archive
	faulter Faulter

	subID int

	state    atomic.Int32
	position atomic.Int64

	faultOnce sync.Once
}

// NewRuntime constructs a Runtime. handler is invoked on the runtime's own
// strand for every bus event this chaser subscribes to; callers pass a
// closure bound to their concrete chaser's do_handle_event.
func NewRuntime(name string, bus *chainbus.Bus, arc archive.Archive, faulter Faulter, handler chainbus.Handler) *Runtime {
	r := &Runtime{
		name:    name,
		strand:  strand.New(),
		bus:     bus,
		archive: arc,
		faulter: faulter,
	}
	r.subID = bus.Subscribe(r.strand, handler)
	return r
}

// Archive returns the archive this chaser was constructed with.
func (r *Runtime) Archive() archive.Archive { return r.archive }

// Bus returns the shared event bus.
func (r *Runtime) Bus() *chainbus.Bus { return r.bus }

// Post schedules fn on this chaser's strand.
func (r *Runtime) Post(fn func()) { r.strand.Post(fn) }

// Position returns the height up to which this chaser has fully processed.
func (r *Runtime) Position() int64 { return r.position.Load() }

// SetPosition records the height up to which this chaser has fully
// processed. Called only from the chaser's own strand.
func (r *Runtime) SetPosition(h int64) { r.position.Store(h) }

// Running reports whether the chaser is accepting new work. A Suspended or
// Closed chaser still receives events (so position stays current) but must
// not issue new archive queries or commands.
func (r *Runtime) Running() bool {
	return state(r.state.Load()) == stateRunning
}

// Closed reports whether stop has been observed.
func (r *Runtime) Closed() bool {
	return state(r.state.Load()) == stateClosed
}

// HandleLifecycle applies the tags every chaser treats identically
// (start/resume/suspend/stop) and reports whether the event was one of
// these (so the caller's switch can skip them). Callers invoke this first
// from their own do_handle_event on the strand.
func (r *Runtime) HandleLifecycle(ev chainbus.Event) (handled bool) {
	switch ev.Tag {
	case chainbus.Start, chainbus.Resume:
		r.state.Store(int32(stateRunning))
		return true
	case chainbus.Suspend:
		r.state.Store(int32(stateSuspended))
		return true
	case chainbus.Stop:
		r.state.Store(int32(stateClosed))
		return true
	}
	return false
}

// Fault escalates err exactly once: it marks this chaser closed and asks
// the node to publish stop(ec) and mark itself faulted. Safe to call from
// any goroutine (the validate chaser's off-strand tasks call it directly).
func (r *Runtime) Fault(err error) {
	r.faultOnce.Do(func() {
		r.state.Store(int32(stateClosed))
		log.Errorf("%s: fault: %v", r.name, err)
		if r.faulter != nil {
			r.faulter.Fault(err)
		}
	})
}

// Unsubscribe removes this chaser's bus subscription; used by Stop.
func (r *Runtime) Unsubscribe() {
	r.bus.Unsubscribe(r.subID)
}
