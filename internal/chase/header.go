// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chase

import (
	"math/big"

	"github.com/decred/dcrd/blockchain/standalone/v2"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/container/apbf"
	"github.com/decred/dcrd/wire"

	"github.com/bcnchain/bcnoded/internal/archive"
	"github.com/bcnchain/bcnoded/internal/chainbus"
)

// rejectedCapacity and rejectedFPRate size the age-partitioned Bloom filter
// that remembers recently rejected header hashes, the same role apbf plays
// for netsync's rejected-transaction set: several peers commonly relay the
// same bad header, and re-running CheckProofOfWork for each is wasted work.
const (
	rejectedCapacity = 4096
	rejectedFPRate   = 0.0001
)

// Header is the header chaser (spec.md §4.4): it accepts peer-delivered
// headers, organizes them into a private header tree, and promotes the
// strongest branch onto the archive's candidate chain.
type Header struct {
	*Runtime

	powLimit *big.Int
	tree     *headerTree

	tipLink   archive.Link
	tipHeight int64
	tipWork   *big.Int

	checkpoints map[int64]chainhash.Hash

	rejected *apbf.Filter
}

// NewHeader constructs the header chaser. powLimit is the network's proof-
// of-work floor (chaincfg.Params.PowLimit); checkpoints is the hard,
// hash-pinned checkpoint set from configuration.
func NewHeader(bus *chainbus.Bus, arc archive.Archive, faulter Faulter, powLimit *big.Int, checkpoints map[int64]chainhash.Hash) *Header {
	h := &Header{
		tree:        newHeaderTree(),
		powLimit:    powLimit,
		tipLink:     archive.NoLink,
		tipWork:     big.NewInt(0),
		checkpoints: checkpoints,
		rejected:    apbf.NewFilter(rejectedCapacity, rejectedFPRate),
	}
	h.Runtime = NewRuntime("header", bus, arc, faulter, h.handleEvent)
	return h
}

func (h *Header) handleEvent(ev chainbus.Event) bool {
	if ev.Tag == chainbus.Stop {
		h.HandleLifecycle(ev)
		return false
	}
	if h.HandleLifecycle(ev) {
		if ev.Tag == chainbus.Start {
			h.bootstrap()
		}
		return true
	}
	return true
}

// bootstrap rebuilds the in-memory work index from the archive's existing
// candidate chain on startup, the equivalent of the teacher's
// initChainState index replay.
func (h *Header) bootstrap() {
	top, err := h.Archive().GetTopCandidate()
	if err != nil {
		h.Fault(err)
		return
	}
	if top < 0 {
		return
	}
	var parent archive.Link = archive.NoLink
	for height := int64(0); height <= top; height++ {
		link, err := h.Archive().ToCandidate(height)
		if err != nil || link.IsTerminal() {
			h.Fault(err)
			return
		}
		header, err := h.Archive().GetHeader(link)
		if err != nil {
			h.Fault(err)
			return
		}
		work := standalone.CalcWork(header.Bits)
		n := h.tree.record(link, parent, work, height, header.Timestamp.Unix())
		h.tipLink, h.tipHeight, h.tipWork, parent = link, height, n.cumWork, link
	}
	h.SetPosition(top)
}

// AcceptHeaders processes a run of headers attributed to a single peer
// announcement, in order, applying one at a time (spec.md §4.4). It is
// safe to call from any goroutine; the work itself is posted onto the
// chaser's strand.
func (h *Header) AcceptHeaders(headers []*wire.BlockHeader) {
	h.Post(func() {
		for _, hdr := range headers {
			h.acceptOne(hdr)
		}
	})
}

// acceptOne runs on the strand.
func (h *Header) acceptOne(header *wire.BlockHeader) {
	if h.Closed() {
		return
	}
	hash := header.BlockHash()
	if h.rejected.Contains(hash[:]) {
		return
	}
	if have, err := h.Archive().HaveHeader(hash); err != nil {
		h.Fault(err)
		return
	} else if have {
		return
	}

	parentLink, err := h.Archive().GetLink(header.PrevBlock)
	if err != nil && !archive.IsFault(err) {
		// Parent not archived yet: a true orphan waiting on a header we
		// have not seen (or, if PrevBlock is the zero hash, a second
		// attempt to insert genesis, which initchain already archived
		// directly and so would have matched above).
		h.tree.addOrphan(header)
		return
	}
	if err != nil {
		h.Fault(err)
		return
	}

	h.connect(header, parentLink)

	// This header's arrival may unblock orphans that were waiting on it;
	// process them in the order they arrived, depth-first, so a whole
	// chain of orphans connects in one pass.
	for _, waiting := range h.tree.resolve(hash) {
		h.acceptOne(waiting)
	}
}

// connect archives header as a child of parentLink, updates the work
// index, and promotes the candidate chain if this branch now dominates.
func (h *Header) connect(header *wire.BlockHeader, parentLink archive.Link) {
	hash := header.BlockHash()
	powHash := hash
	if err := standalone.CheckProofOfWork(&powHash, header.Bits, h.powLimit); err != nil {
		h.publishUnvalid(header)
		return
	}

	parentNode, ok := h.tree.node(parentLink)
	var parentHeight int64 = -1
	if ok {
		parentHeight = parentNode.height
	}
	height := parentHeight + 1

	if wantHash, checkpointed := h.checkpoints[height]; checkpointed && hash != wantHash {
		h.publishUnvalid(header)
		return
	}

	link, err := h.Archive().PutHeader(header)
	if err != nil {
		h.Fault(err)
		return
	}

	work := standalone.CalcWork(header.Bits)
	n := h.tree.record(link, parentLink, work, height, header.Timestamp.Unix())

	mtp := int64(0)
	if parentNode != nil {
		mtp = parentNode.medianTimePast()
	}
	ctx := archive.Context{Height: height, MedianTimePast: mtp}
	if err := h.Archive().SetContext(link, ctx); err != nil {
		h.Fault(err)
		return
	}

	switch {
	case h.tipLink.IsTerminal():
		h.promote(link, height, n.cumWork, -1)
	case parentLink == h.tipLink:
		h.promote(link, height, n.cumWork, h.tipHeight)
	case n.cumWork.Cmp(h.tipWork) > 0:
		forkPoint := h.findForkPoint(parentLink)
		h.reorganize(link, height, n.cumWork, forkPoint)
	// Equal or lesser work: tie or losing branch. The header stays
	// archived (PutHeader already ran) but never becomes candidate.
	default:
	}
}

func (h *Header) publishUnvalid(header *wire.BlockHeader) {
	hash := header.BlockHash()
	h.rejected.Add(hash[:])
	h.Bus().Publish(chainbus.Event{Tag: chainbus.Unvalid, Hash: hash})
}

// findForkPoint walks the permanent index backward from newParent until it
// finds a height whose candidate-chain entry matches, returning that
// height. It relies on every ancestor of newParent already being archived
// (true for any header this chaser previously processed, win or lose).
func (h *Header) findForkPoint(newParent archive.Link) int64 {
	link := newParent
	for {
		n, ok := h.tree.node(link)
		if !ok {
			return -1
		}
		if candLink, err := h.Archive().ToCandidate(n.height); err == nil && candLink == link {
			return n.height
		}
		if n.parent.IsTerminal() && link != n.parent {
			return -1
		}
		if link == n.parent {
			return -1
		}
		link = n.parent
	}
}

func (h *Header) promote(link archive.Link, height int64, work *big.Int, oldTipHeight int64) {
	if err := h.Archive().PushCandidate(link, height); err != nil {
		h.Fault(err)
		return
	}
	h.tipLink, h.tipHeight, h.tipWork = link, height, work
	h.SetPosition(height)
	h.Bus().Publish(chainbus.Event{Tag: chainbus.CandidateOrganized, Value: chainbus.Value(height)})
}

func (h *Header) reorganize(newLink archive.Link, newHeight int64, newWork *big.Int, forkPoint int64) {
	if forkPoint < 0 {
		// No common ancestor found in the retained index: cannot safely
		// reorganize, treat as a fault rather than silently corrupting
		// the candidate chain.
		h.Fault(errForkPointNotFound)
		return
	}
	for height := h.tipHeight; height > forkPoint; height-- {
		if _, err := h.Archive().PopCandidate(); err != nil {
			h.Fault(err)
			return
		}
	}
	h.Bus().Publish(chainbus.Event{Tag: chainbus.Disorganized, Value: chainbus.Value(forkPoint)})
	h.SetPosition(forkPoint)

	// Walk the new branch from forkPoint+1 up to newHeight, pushing each
	// link in order. The chain of links is recovered by walking parent
	// pointers backward from newLink then replaying forward.
	var chain []archive.Link
	for link := newLink; ; {
		n, ok := h.tree.node(link)
		if !ok || n.height <= forkPoint {
			break
		}
		chain = append(chain, link)
		link = n.parent
	}
	for i := len(chain) - 1; i >= 0; i-- {
		link := chain[i]
		n, _ := h.tree.node(link)
		if err := h.Archive().PushCandidate(link, n.height); err != nil {
			h.Fault(err)
			return
		}
		h.Bus().Publish(chainbus.Event{Tag: chainbus.CandidateOrganized, Value: chainbus.Value(n.height)})
		h.SetPosition(n.height)
	}
	h.tipLink, h.tipHeight, h.tipWork = newLink, newHeight, newWork
}

var errForkPointNotFound = archiveFaultError("header: fork point not found in retained index")

type archiveFaultError string

func (e archiveFaultError) Error() string { return string(e) }
