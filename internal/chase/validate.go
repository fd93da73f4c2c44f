// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chase

import (
	"sync/atomic"

	"github.com/bcnchain/bcnoded/internal/archive"
	"github.com/bcnchain/bcnoded/internal/chainbus"
)

// Validate is the validate chaser (spec.md §4.6), the most concurrent
// component of the pipeline: it runs context-sensitive validation
// (scripts, maturity, time locks) on an independent worker pool, distinct
// from every chaser's own strand, bounded by MaximumBacklog in-flight
// tasks at a time.
type Validate struct {
	*Runtime

	pool chan struct{} // counting semaphore bounding concurrent tasks

	backlog        atomic.Int64
	maximumBacklog int64

	subsidyInterval int64
	initialSubsidy  int64
	filtersEnabled  bool
}

// NewValidate constructs the validate chaser. maximumBacklog bounds both
// the independent worker pool's concurrency and the chaser's own
// do_bumped iteration (spec.md §4.6).
func NewValidate(bus *chainbus.Bus, arc archive.Archive, faulter Faulter, maximumBacklog int64, subsidyInterval, initialSubsidy int64, filtersEnabled bool) *Validate {
	v := &Validate{
		pool:            make(chan struct{}, maximumBacklog),
		maximumBacklog:  maximumBacklog,
		subsidyInterval: subsidyInterval,
		initialSubsidy:  initialSubsidy,
		filtersEnabled:  filtersEnabled,
	}
	v.Runtime = NewRuntime("validate", bus, arc, faulter, v.handleEvent)
	return v
}

func (v *Validate) handleEvent(ev chainbus.Event) bool {
	if ev.Tag == chainbus.Stop {
		v.HandleLifecycle(ev)
		return false
	}
	if v.HandleLifecycle(ev) {
		if ev.Tag == chainbus.Start || ev.Tag == chainbus.Resume {
			v.doBump()
		}
		return true
	}
	switch ev.Tag {
	case chainbus.Checked:
		v.doBumped(ev.Value.Height())
	case chainbus.Bump:
		v.doBump()
	case chainbus.Regressed, chainbus.Disorganized:
		v.doRegressed(ev.Value.Height())
	}
	return true
}

// doRegressed rolls position back to bp if the reorganization reached
// below where validate had already progressed.
func (v *Validate) doRegressed(bp int64) {
	if bp < v.Position() {
		v.SetPosition(bp)
	}
}

// doBump re-derives whether there is ready work at position+1 without
// waiting for a fresh checked(h) event, matching the original's no-arg
// do_bump used from start/resume/bump.
func (v *Validate) doBump() {
	height := v.Position() + 1
	link, err := v.Archive().ToCandidate(height)
	if err != nil {
		v.Fault(err)
		return
	}
	if link.IsTerminal() {
		return
	}
	state, err := v.Archive().GetBlockState(link)
	if err != nil {
		if !archive.IsFault(err) {
			return
		}
		v.Fault(err)
		return
	}
	bypass, err := v.isBypass(height, link)
	if err != nil {
		v.Fault(err)
		return
	}
	ready := state == archive.Unvalidated || state == archive.BlockValid ||
		state == archive.BlockConfirmable || bypass
	if ready {
		v.doBumped(height)
	}
}

// doBumped is called with h == position+1 whenever checked(h) fires.
func (v *Validate) doBumped(h int64) {
	if h != v.Position()+1 {
		return
	}
	v.iterate(h)
}

func (v *Validate) isBypass(height int64, link archive.Link) (bool, error) {
	if v.Archive().IsUnderCheckpoint(height) {
		return true, nil
	}
	return v.Archive().IsMilestone(link)
}

// iterate walks forward from height, one height at a time, dispatching
// validation tasks until backlog saturates, the chaser is closed or
// suspended, or the next block is not yet ready (spec.md §4.6).
func (v *Validate) iterate(height int64) {
	for v.backlog.Load() < v.maximumBacklog && !v.Closed() && v.Running() {
		link, err := v.Archive().ToCandidate(height)
		if err != nil {
			v.Fault(err)
			return
		}
		if link.IsTerminal() {
			return // unassociated: wait for Check
		}

		bypass, err := v.isBypass(height, link)
		if err != nil {
			v.Fault(err)
			return
		}

		if bypass {
			if v.filtersEnabled {
				v.dispatch(link, height, true)
			} else {
				v.completeImmediate(height)
				height++
				continue
			}
			v.SetPosition(height)
			height++
			continue
		}

		state, err := v.Archive().GetBlockState(link)
		if err != nil {
			v.Fault(err)
			return
		}
		switch state {
		case archive.Unassociated:
			return
		case archive.Unvalidated:
			v.dispatch(link, height, false)
		case archive.BlockValid:
			cached, err := v.Archive().IsPrevoutsCached(link)
			if err != nil {
				v.Fault(err)
				return
			}
			if cached {
				v.dispatch(link, height, true)
			} else {
				v.completeImmediate(height)
			}
		case archive.BlockConfirmable:
			v.completeImmediate(height)
		case archive.BlockUnconfirmable:
			return
		default:
			v.Fault(archiveFaultError("validate: unknown block state"))
			return
		}

		v.SetPosition(height)
		height++
	}
}

func (v *Validate) completeImmediate(height int64) {
	v.Bus().Publish(chainbus.Event{Tag: chainbus.Valid, Value: chainbus.Value(height)})
}

// dispatch increments the backlog and hands validateBlock to the
// independent worker pool, off-strand.
func (v *Validate) dispatch(link archive.Link, height int64, bypass bool) {
	v.backlog.Add(1)
	v.pool <- struct{}{}
	go func() {
		defer func() { <-v.pool }()
		v.validateBlock(link, height, bypass)
	}()
}

// validateBlock runs entirely off the strand, touching only the archive
// (thread-safe) and its own local state.
func (v *Validate) validateBlock(link archive.Link, height int64, bypass bool) {
	defer v.afterTask()

	if v.Closed() {
		return
	}

	block, err := v.Archive().GetBlock(link)
	if err != nil {
		v.completeBlock(err, link, height, bypass)
		return
	}
	ctx, err := v.Archive().GetContext(link)
	if err != nil {
		v.completeBlock(err, link, height, bypass)
		return
	}

	if err := v.populate(bypass, block, ctx); err != nil {
		if setErr := v.Archive().SetBlockUnconfirmable(link); setErr != nil {
			v.Fault(setErr)
			return
		}
		v.completeBlock(err, link, height, bypass)
		return
	}

	if err := v.validate(bypass, block, link, ctx); err != nil {
		if setErr := v.Archive().SetBlockUnconfirmable(link); setErr != nil {
			v.Fault(setErr)
			return
		}
		v.completeBlock(err, link, height, bypass)
		return
	}

	v.completeBlock(nil, link, height, bypass)
}

func (v *Validate) populate(bypass bool, block *archive.Block, ctx archive.Context) error {
	if bypass {
		return v.Archive().PopulateWithoutMetadata(block)
	}
	return v.Archive().PopulateWithMetadata(block, ctx)
}

// validate runs the contextual accept/connect rules (spec.md §4.6 step 3)
// for a non-bypassed block, then records the results the archive needs
// regardless of bypass status.
func (v *Validate) validate(bypass bool, block *archive.Block, link archive.Link, ctx archive.Context) error {
	if !bypass {
		fees, err := acceptBlock(block, ctx, v.subsidyInterval, v.initialSubsidy)
		if err != nil {
			return err
		}
		if err := connectBlock(block, ctx); err != nil {
			return err
		}
		if err := v.Archive().SetPrevouts(link, block); err != nil {
			return err
		}
		block.Fees = fees
	}
	if err := v.Archive().SetFilterBody(link, block); err != nil {
		return err
	}
	if !bypass {
		if err := v.Archive().SetBlockValid(link, block.Fees); err != nil {
			return err
		}
	}
	return nil
}

// completeBlock publishes the result of a task and escalates fatal
// (archive fault) errors; validation failures are published as unvalid,
// never escalated.
func (v *Validate) completeBlock(err error, link archive.Link, height int64, bypass bool) {
	if err != nil {
		if archive.IsFault(err) {
			v.Fault(err)
			return
		}
		v.Bus().Publish(chainbus.Event{Tag: chainbus.Unvalid, Value: chainbus.Value(link)})
		return
	}
	v.Bus().Publish(chainbus.Event{Tag: chainbus.Valid, Value: chainbus.Value(height)})
}

// afterTask decrements the backlog and, if this was the last in-flight
// task, self-posts bump so iteration resumes without depending on an
// external event arriving (spec.md §4.6 "prevents stalls").
func (v *Validate) afterTask() {
	if v.backlog.Add(-1) == 0 {
		v.Post(func() { v.doBump() })
	}
}

// Wait blocks until every task already dispatched to the independent pool
// has finished. It does this by acquiring every slot of the pool semaphore
// in turn, which cannot succeed until each in-flight task has released its
// own slot; the slots are then returned so the pool remains usable if the
// chaser is resumed. Close() calls this to satisfy spec.md §8 scenario 6
// ("close() returns only after the validate pool joins").
func (v *Validate) Wait() {
	n := cap(v.pool)
	for i := 0; i < n; i++ {
		v.pool <- struct{}{}
	}
	for i := 0; i < n; i++ {
		<-v.pool
	}
}
