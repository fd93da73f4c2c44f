// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chase

import (
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"

	"github.com/bcnchain/bcnoded/internal/archive"
	"github.com/bcnchain/bcnoded/internal/archive/archivetest"
	"github.com/bcnchain/bcnoded/internal/chainbus"
)

// setupValidateCandidate archives header at height with a block body already
// associated (state Unvalidated), the state the check chaser leaves a block
// in once it has recorded the association.
func setupValidateCandidate(t *testing.T, arc *archivetest.Fake, height int64, nonce uint32) archive.Link {
	t.Helper()
	header := testHeader(chainhash.Hash{}, height, nonce)
	link, err := arc.PutHeader(header)
	if err != nil {
		t.Fatalf("PutHeader: %v", err)
	}
	ctx := archive.Context{Height: height, MedianTimePast: header.Timestamp.Unix() - 1}
	if err := arc.SetContext(link, ctx); err != nil {
		t.Fatalf("SetContext: %v", err)
	}
	if err := arc.PushCandidate(link, height); err != nil {
		t.Fatalf("PushCandidate: %v", err)
	}
	if _, err := arc.SetBlock(coinbaseBlock(header)); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	return link
}

// TestValidateResumePicksUpUnvalidatedAfterSuspend is the regression test for
// doBump's readiness predicate (SPEC_FULL.md §4): a block body associated
// while the chaser is suspended must still be picked up on resume.
func TestValidateResumePicksUpUnvalidatedAfterSuspend(t *testing.T) {
	bus := chainbus.New()
	arc := archivetest.New(nil, 1, 0)
	faulter := &stubFaulter{}
	v := NewValidate(bus, arc, faulter, 4, 0, 0, false)

	drainBus(bus, chainbus.Event{Tag: chainbus.Start}, v)
	drainBus(bus, chainbus.Event{Tag: chainbus.Suspend}, v)

	link := setupValidateCandidate(t, arc, 1, 1)

	// The check chaser's Checked event still arrives while suspended;
	// doBumped runs but iterate's loop guard on Running() stops it cold.
	drainBus(bus, chainbus.Event{Tag: chainbus.Checked, Value: chainbus.Value(1)}, v)

	if state, err := arc.GetBlockState(link); err != nil || state != archive.Unvalidated {
		t.Fatalf("state while suspended = %v, %v, want Unvalidated, nil", state, err)
	}
	if v.Position() != 0 {
		t.Fatalf("Position while suspended = %d, want 0", v.Position())
	}

	drainBus(bus, chainbus.Event{Tag: chainbus.Resume}, v)
	v.Wait()
	flush(v)

	if len(faulter.faults) != 0 {
		t.Fatalf("unexpected faults: %v", faulter.faults)
	}
	state, err := arc.GetBlockState(link)
	if err != nil || state != archive.BlockValid {
		t.Fatalf("state after resume = %v, %v, want BlockValid, nil", state, err)
	}
	if v.Position() != 1 {
		t.Fatalf("Position after resume = %d, want 1", v.Position())
	}
}

// TestValidateCheckpointBypassSkipsFiltering covers the bypass path with
// filters disabled: a block under a hard checkpoint completes immediately
// without ever needing a body archived.
func TestValidateCheckpointBypassSkipsFiltering(t *testing.T) {
	checkpoints := map[int64]chainhash.Hash{1: {0xaa}}
	bus := chainbus.New()
	arc := archivetest.New(checkpoints, 1, 0)
	faulter := &stubFaulter{}
	v := NewValidate(bus, arc, faulter, 4, 0, 0, false)

	var events []chainbus.Event
	bus.Subscribe(syncPoster{}, func(ev chainbus.Event) bool {
		events = append(events, ev)
		return true
	})

	header := testHeader(chainhash.Hash{}, 1, 1)
	link, err := arc.PutHeader(header)
	if err != nil {
		t.Fatalf("PutHeader: %v", err)
	}
	if err := arc.PushCandidate(link, 1); err != nil {
		t.Fatalf("PushCandidate: %v", err)
	}

	drainBus(bus, chainbus.Event{Tag: chainbus.Start}, v)

	if len(faulter.faults) != 0 {
		t.Fatalf("unexpected faults: %v", faulter.faults)
	}
	if v.Position() != 1 {
		t.Fatalf("Position = %d, want 1", v.Position())
	}
	found := false
	for _, ev := range events {
		if ev.Tag == chainbus.Valid && ev.Value.Height() == 1 {
			found = true
		}
	}
	if !found {
		t.Fatal("checkpoint bypass did not publish valid(1)")
	}
}

// TestValidateAcceptsCoinbaseOnlyBlock covers the full non-bypass path:
// acceptBlock and connectBlock both trivially succeed for a single-tx block,
// so the archive ends up with the block marked block_valid.
func TestValidateAcceptsCoinbaseOnlyBlock(t *testing.T) {
	bus := chainbus.New()
	arc := archivetest.New(nil, 1, 0)
	faulter := &stubFaulter{}
	v := NewValidate(bus, arc, faulter, 4, 0, 0, false)

	link := setupValidateCandidate(t, arc, 1, 1)

	drainBus(bus, chainbus.Event{Tag: chainbus.Start}, v)
	v.Wait()
	flush(v)

	if len(faulter.faults) != 0 {
		t.Fatalf("unexpected faults: %v", faulter.faults)
	}
	state, err := arc.GetBlockState(link)
	if err != nil || state != archive.BlockValid {
		t.Fatalf("state = %v, %v, want BlockValid, nil", state, err)
	}
	if v.Position() != 1 {
		t.Fatalf("Position = %d, want 1", v.Position())
	}
}

// TestValidateWaitDrainsInFlightTask covers spec.md §8 scenario 6: Wait must
// not return until a dispatched task has actually finished.
func TestValidateWaitDrainsInFlightTask(t *testing.T) {
	bus := chainbus.New()
	arc := archivetest.New(nil, 1, 0)
	faulter := &stubFaulter{}
	v := NewValidate(bus, arc, faulter, 4, 0, 0, false)

	link := setupValidateCandidate(t, arc, 1, 1)

	drainBus(bus, chainbus.Event{Tag: chainbus.Start}, v)
	v.Wait()

	state, err := arc.GetBlockState(link)
	if err != nil || state != archive.BlockValid {
		t.Fatalf("state after Wait = %v, %v, want BlockValid, nil", state, err)
	}
}
