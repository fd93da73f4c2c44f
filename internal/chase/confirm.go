// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chase

import (
	"github.com/bcnchain/bcnoded/internal/archive"
	"github.com/bcnchain/bcnoded/internal/chainbus"
)

// Confirm is the confirm chaser (spec.md §4.7): it drives the confirmed
// chain forward behind the candidate chain and rolls it back on
// reorganizations.
type Confirm struct {
	*Runtime
}

// NewConfirm constructs the confirm chaser.
func NewConfirm(bus *chainbus.Bus, arc archive.Archive, faulter Faulter) *Confirm {
	c := &Confirm{}
	c.Runtime = NewRuntime("confirm", bus, arc, faulter, c.handleEvent)
	return c
}

func (c *Confirm) handleEvent(ev chainbus.Event) bool {
	if ev.Tag == chainbus.Stop {
		c.HandleLifecycle(ev)
		return false
	}
	if c.HandleLifecycle(ev) {
		if ev.Tag == chainbus.Start || ev.Tag == chainbus.Resume {
			c.doBump()
		}
		return true
	}
	switch ev.Tag {
	case chainbus.Valid:
		c.doValidated(ev.Value.Height())
	case chainbus.Bump:
		c.doBump()
	case chainbus.Regressed, chainbus.Disorganized:
		c.doRegressed(ev.Value.Height())
	}
	return true
}

func (c *Confirm) doRegressed(bp int64) {
	if bp < c.Position() {
		c.SetPosition(bp)
	}
}

func (c *Confirm) doValidated(h int64) {
	if h == c.Position()+1 {
		c.doBumped(h)
	}
}

// doBump re-derives whether position+1 is ready without an explicit
// valid(h) event, matching the original's no-arg do_bump used from
// start/resume/bump.
func (c *Confirm) doBump() {
	height := c.Position() + 1
	link, err := c.Archive().ToCandidate(height)
	if err != nil {
		c.Fault(err)
		return
	}
	if link.IsTerminal() {
		return
	}
	state, err := c.Archive().GetBlockState(link)
	if err != nil {
		if !archive.IsFault(err) {
			return
		}
		c.Fault(err)
		return
	}
	if state == archive.BlockValid || state == archive.BlockConfirmable {
		c.doBumped(height)
		return
	}
	if c.Archive().IsUnderCheckpoint(height) {
		if filtered, err := c.Archive().IsFiltered(link); err == nil && filtered {
			c.doBumped(height)
		}
	}
}

// doBumped runs spec.md §4.7's do_bumped: find the candidate branch from
// the fork point through h, measure whether it is strong enough to
// displace the confirmed chain, and either accumulate or reorganize.
func (c *Confirm) doBumped(h int64) {
	fork, err := c.Archive().GetCandidateFork(h)
	if err != nil {
		c.Fault(err)
		return
	}
	if len(fork) == 0 {
		return // reorganized away underneath us
	}
	work, err := c.Archive().GetWork(fork)
	if err != nil {
		c.Fault(err)
		return
	}
	forkPoint := h - int64(len(fork))
	strong, err := c.Archive().GetStrong(work, forkPoint)
	if err != nil {
		c.Fault(err)
		return
	}
	if !strong {
		c.SetPosition(h)
		return
	}
	c.reorganize(fork, forkPoint)
	// organize may have stopped short of h (an unassociated link, or a
	// rolled-back confirmation attempt), so position must track the
	// confirmed chain's actual tip rather than jump straight to h; doing
	// otherwise strands the mid..h range with no event left to re-arm it.
	top, err := c.Archive().GetTopConfirmed()
	if err != nil {
		c.Fault(err)
		return
	}
	c.SetPosition(top)
}

// reorganize pops the confirmed chain down to fp, then organizes the new
// fork upward from there.
func (c *Confirm) reorganize(fork []archive.Link, fp int64) {
	top, err := c.Archive().GetTopConfirmed()
	if err != nil {
		c.Fault(err)
		return
	}
	var popped []archive.Link
	for height := top; height > fp; height-- {
		link, err := c.Archive().ToConfirmed(height)
		if err != nil {
			c.Fault(err)
			return
		}
		if err := c.Archive().PopConfirmed(); err != nil {
			c.Fault(err)
			return
		}
		popped = append(popped, link)
		c.Bus().Publish(chainbus.Event{Tag: chainbus.Reorganized, Value: chainbus.Value(link)})
	}
	c.organize(fork, popped, fp)
}

// organize walks fork from fp+1 upward, confirming (or bypassing) each
// link until it hits one that is not yet ready, then self-posts bump
// rather than recursing synchronously.
func (c *Confirm) organize(fork []archive.Link, popped []archive.Link, fp int64) {
	for i, link := range fork {
		height := fp + int64(i) + 1

		state, err := c.Archive().GetBlockState(link)
		if err != nil {
			c.Fault(err)
			return
		}

		switch {
		case state == archive.Unassociated:
			return

		case c.isBypassRegion(height, link):
			if err := c.Archive().SetFilterHead(link); err != nil {
				c.Fault(err)
				return
			}
			c.Bus().Publish(chainbus.Event{Tag: chainbus.Organized, Value: chainbus.Value(link)})

		case state == archive.BlockValid:
			if !c.confirmBlock(link, height, popped, fp) {
				return
			}

		case state == archive.BlockConfirmable:
			c.Bus().Publish(chainbus.Event{Tag: chainbus.Organized, Value: chainbus.Value(link)})

		default:
			c.Fault(archiveFaultError("confirm: unexpected block state during organize"))
			return
		}
	}
	c.Post(func() { c.doBump() })
}

func (c *Confirm) isBypassRegion(height int64, link archive.Link) bool {
	if c.Archive().IsUnderCheckpoint(height) {
		return true
	}
	ok, err := c.Archive().IsMilestone(link)
	return err == nil && ok
}

// confirmBlock runs the archive's final confirmation check and either
// commits the block onto the confirmed chain or rolls the whole
// reorganization back. It returns false if the caller's organize loop
// must stop (either rolled back, or fatally faulted).
func (c *Confirm) confirmBlock(link archive.Link, height int64, popped []archive.Link, fp int64) bool {
	if err := c.Archive().BlockConfirmable(link); err != nil {
		if archive.IsFault(err) {
			c.Fault(err)
			return false
		}
		if err := c.Archive().SetUnstrong(link); err != nil {
			c.Fault(err)
			return false
		}
		if err := c.Archive().SetBlockUnconfirmable(link); err != nil {
			c.Fault(err)
			return false
		}
		c.rollBack(popped, fp, height-1)
		c.Bus().Publish(chainbus.Event{Tag: chainbus.Unconfirmable, Value: chainbus.Value(link)})
		return false
	}

	if err := c.Archive().SetFilterHead(link); err != nil {
		c.Fault(err)
		return false
	}
	if err := c.Archive().SetBlockConfirmable(link); err != nil {
		c.Fault(err)
		return false
	}
	c.Bus().Publish(chainbus.Event{Tag: chainbus.Confirmable, Value: chainbus.Value(height)})

	checkpointed := c.Archive().IsUnderCheckpoint(height)
	if err := c.Archive().PushConfirmed(link, !checkpointed); err != nil {
		c.Fault(err)
		return false
	}
	c.Bus().Publish(chainbus.Event{Tag: chainbus.Organized, Value: chainbus.Value(link)})
	return true
}

// rollBack undoes a failed confirmation attempt: pop back to fp (undoing
// whatever organize managed to push past it), then restore popped in
// reverse order.
func (c *Confirm) rollBack(popped []archive.Link, fp, top int64) {
	for height := top; height > fp; height-- {
		if err := c.Archive().PopConfirmed(); err != nil {
			c.Fault(err)
			return
		}
		c.Bus().Publish(chainbus.Event{Tag: chainbus.Reorganized})
	}
	for i := len(popped) - 1; i >= 0; i-- {
		checkpointed := false // restored links were previously confirmed as-is
		if err := c.Archive().PushConfirmed(popped[i], !checkpointed); err != nil {
			c.Fault(err)
			return
		}
		c.Bus().Publish(chainbus.Event{Tag: chainbus.Organized, Value: chainbus.Value(popped[i])})
	}
}
