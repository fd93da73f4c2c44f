// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chase

import (
	"math/big"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
	"github.com/jrick/bitset"

	"github.com/bcnchain/bcnoded/internal/archive"
)

// linkNode is the header chaser's private, permanent index entry for every
// header it has archived, whether or not that header ever became (or
// remains) part of the candidate chain. It plays the same role as the
// teacher's blockchain/blockindex.go blockNode: a parent pointer and
// cumulative work sum kept for every known header so a later, unrelated
// fork can be evaluated without re-walking the archive from genesis.
type linkNode struct {
	parent  archive.Link
	cumWork *big.Int
	height  int64
	// recentTimestamps holds up to 11 ancestor timestamps (this header's
	// own included), newest last, used to derive median_time_past for
	// descendants without re-reading the archive.
	recentTimestamps []int64
}

// headerTree holds the header chaser's private state (spec.md §3 "Header
// tree"): headers awaiting a missing parent, keyed by hash, plus the
// permanent per-link work/parent index described above. It is touched
// only on the header chaser's own strand.
type headerTree struct {
	// orphans holds not-yet-archived headers whose parent has not arrived,
	// keyed by their own hash so the parent's eventual arrival can be
	// matched back to them via the hash->pending-children index below.
	orphans map[chainhash.Hash]*orphanHeader
	// waitingOn indexes orphan hashes by the parent hash they are blocked
	// on, so one parent arrival can promote every waiting child.
	waitingOn map[chainhash.Hash][]chainhash.Hash

	byLink map[archive.Link]*linkNode

	// inTree is a compact, link-indexed flag set recording which links
	// have been permanently recorded (as opposed to merely archived as a
	// header), grown on demand; it mirrors byLink's membership but as a
	// single bit per link rather than a map entry, the same compact-flag
	// role jrick/bitset plays for rpcserver's existence-set responses.
	inTree bitset.Bytes
}

type orphanHeader struct {
	header    *wire.BlockHeader
	prevBlock chainhash.Hash
}

func newHeaderTree() *headerTree {
	return &headerTree{
		orphans:   make(map[chainhash.Hash]*orphanHeader),
		waitingOn: make(map[chainhash.Hash][]chainhash.Hash),
		byLink:    make(map[archive.Link]*linkNode),
		inTree:    bitset.NewBytes(1024),
	}
}

// markInTree grows the flag set if needed and sets link's bit.
func (t *headerTree) markInTree(link archive.Link) {
	n := int(link) + 1
	if n > len(t.inTree)*8 {
		grown := bitset.NewBytes(n)
		copy(grown, t.inTree)
		t.inTree = grown
	}
	t.inTree.Set(int(link))
}

// isInTree reports whether link has ever been permanently recorded.
func (t *headerTree) isInTree(link archive.Link) bool {
	if int(link) >= len(t.inTree)*8 {
		return false
	}
	return t.inTree.Get(int(link))
}

func (t *headerTree) addOrphan(header *wire.BlockHeader) {
	hash := header.BlockHash()
	if _, ok := t.orphans[hash]; ok {
		return
	}
	t.orphans[hash] = &orphanHeader{header: header, prevBlock: header.PrevBlock}
	t.waitingOn[header.PrevBlock] = append(t.waitingOn[header.PrevBlock], hash)
}

// resolve pops and returns the headers waiting on parentHash's arrival, if
// any, clearing them from the orphan set.
func (t *headerTree) resolve(parentHash chainhash.Hash) []*wire.BlockHeader {
	waiting := t.waitingOn[parentHash]
	delete(t.waitingOn, parentHash)
	headers := make([]*wire.BlockHeader, 0, len(waiting))
	for _, h := range waiting {
		if o, ok := t.orphans[h]; ok {
			headers = append(headers, o.header)
			delete(t.orphans, h)
		}
	}
	return headers
}

// record indexes a newly archived header permanently, keyed by its link.
func (t *headerTree) record(link, parent archive.Link, work *big.Int, height, timestamp int64) *linkNode {
	var parentTimestamps []int64
	if p, ok := t.byLink[parent]; ok {
		parentTimestamps = p.recentTimestamps
	}
	stamps := append(append([]int64{}, parentTimestamps...), timestamp)
	if len(stamps) > 11 {
		stamps = stamps[len(stamps)-11:]
	}
	cumWork := new(big.Int).Set(work)
	if p, ok := t.byLink[parent]; ok {
		cumWork.Add(cumWork, p.cumWork)
	}
	n := &linkNode{parent: parent, cumWork: cumWork, height: height, recentTimestamps: stamps}
	t.byLink[link] = n
	return n
}

func (t *headerTree) node(link archive.Link) (*linkNode, bool) {
	n, ok := t.byLink[link]
	return n, ok
}

// medianTimePast returns the median of up to the last 11 timestamps
// recorded through link, inclusive.
func (n *linkNode) medianTimePast() int64 {
	stamps := append([]int64{}, n.recentTimestamps...)
	for i := 1; i < len(stamps); i++ {
		for j := i; j > 0 && stamps[j-1] > stamps[j]; j-- {
			stamps[j-1], stamps[j] = stamps[j], stamps[j-1]
		}
	}
	return stamps[len(stamps)/2]
}
