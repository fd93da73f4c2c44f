// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package archivetest provides an in-memory archive.Archive for exercising
// the chain-assembly chasers and the peer adaptor without a real
// database/v3 backend, the same role blockchain/chaingen plays for the
// teacher's own blockchain package tests: a fixture generator lives outside
// _test.go files so every consuming package's tests can import it.
package archivetest

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/decred/dcrd/blockchain/standalone/v2"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"

	"github.com/bcnchain/bcnoded/internal/archive"
)

// Fake is an in-memory archive.Archive, grounded on internal/archive/store.go's
// own semantics (same bucket-per-concern layout, translated to plain maps).
// It is safe for concurrent use, since the validate chaser's worker pool
// calls archive methods off its own strand.
type Fake struct {
	mu sync.Mutex

	nextLink  archive.Link
	headers   map[archive.Link]*wire.BlockHeader
	hashIndex map[chainhash.Hash]archive.Link
	work      map[archive.Link]*big.Int
	state     map[archive.Link]archive.BlockState
	context   map[archive.Link]archive.Context
	blocks    map[archive.Link]*archive.Block

	filterHead     map[archive.Link]bool
	filterBody     map[archive.Link]bool
	prevoutsCached map[archive.Link]bool

	candidate    map[int64]archive.Link
	topCandidate int64

	confirmed    map[int64]archive.Link
	topConfirmed int64

	milestoneStart int64
	milestoneEnd   int64
	checkpoints    map[int64]chainhash.Hash

	// ConfirmFail, when non-nil, is consulted by BlockConfirmable for
	// every link; a non-nil return fails confirmation exactly as the
	// archive would for a genuine double-spend or maturity violation.
	ConfirmFail func(archive.Link) error
}

// New returns an empty Fake. checkpoints and the milestone bounds behave as
// they do for archive.NewStore; pass milestoneStart > milestoneEnd to
// disable the milestone bypass entirely.
func New(checkpoints map[int64]chainhash.Hash, milestoneStart, milestoneEnd int64) *Fake {
	if checkpoints == nil {
		checkpoints = make(map[int64]chainhash.Hash)
	}
	return &Fake{
		nextLink:       1,
		headers:        make(map[archive.Link]*wire.BlockHeader),
		hashIndex:      make(map[chainhash.Hash]archive.Link),
		work:           make(map[archive.Link]*big.Int),
		state:          make(map[archive.Link]archive.BlockState),
		context:        make(map[archive.Link]archive.Context),
		blocks:         make(map[archive.Link]*archive.Block),
		filterHead:     make(map[archive.Link]bool),
		filterBody:     make(map[archive.Link]bool),
		prevoutsCached: make(map[archive.Link]bool),
		candidate:      make(map[int64]archive.Link),
		topCandidate:   -1,
		confirmed:      make(map[int64]archive.Link),
		topConfirmed:   -1,
		milestoneStart: milestoneStart,
		milestoneEnd:   milestoneEnd,
		checkpoints:    checkpoints,
	}
}

// -- Queries -------------------------------------------------------------

func (f *Fake) ToCandidate(height int64) (archive.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.candidate[height], nil
}

func (f *Fake) ToConfirmed(height int64) (archive.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confirmed[height], nil
}

func (f *Fake) GetFork() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for h := f.topConfirmed; h >= 0; h-- {
		if cl, ok := f.candidate[h]; ok {
			if fl, ok := f.confirmed[h]; ok && cl == fl {
				return h, nil
			}
		}
	}
	return -1, nil
}

func (f *Fake) GetTopCandidate() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topCandidate, nil
}

func (f *Fake) GetTopConfirmed() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topConfirmed, nil
}

func (f *Fake) GetTopAssociated() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	top := int64(-1)
	for h, link := range f.candidate {
		if f.blocks[link] != nil && h > top {
			top = h
		}
	}
	return top, nil
}

func (f *Fake) GetBlockState(link archive.Link) (archive.BlockState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.state[link]
	if !ok {
		return 0, archive.Error{Kind: archive.ErrNotFound, Desc: fmt.Sprintf("no block state for link %d", link)}
	}
	return s, nil
}

func (f *Fake) GetCandidateFork(height int64) ([]archive.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fork := f.getForkLocked()
	if height > f.topCandidate {
		return nil, nil
	}
	links := make([]archive.Link, 0, height-fork)
	for h := fork + 1; h <= height; h++ {
		link, ok := f.candidate[h]
		if !ok {
			return nil, nil
		}
		links = append(links, link)
	}
	return links, nil
}

func (f *Fake) getForkLocked() int64 {
	for h := f.topConfirmed; h >= 0; h-- {
		if cl, ok := f.candidate[h]; ok {
			if fl, ok := f.confirmed[h]; ok && cl == fl {
				return h
			}
		}
	}
	return -1
}

func (f *Fake) GetWork(links []archive.Link) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := big.NewInt(0)
	for _, link := range links {
		w, ok := f.work[link]
		if !ok {
			return nil, archive.Error{Kind: archive.ErrNotFound, Desc: fmt.Sprintf("no work recorded for link %d", link)}
		}
		total.Add(total, w)
	}
	return total, nil
}

func (f *Fake) GetStrong(work *big.Int, forkPoint int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := big.NewInt(0)
	for h := forkPoint + 1; h <= f.topConfirmed; h++ {
		link, ok := f.confirmed[h]
		if !ok {
			continue
		}
		if w, ok := f.work[link]; ok {
			sum.Add(sum, w)
		}
	}
	return work.Cmp(sum) > 0, nil
}

func (f *Fake) IsMilestone(link archive.Link) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ctx, ok := f.context[link]
	if !ok {
		return false, nil
	}
	return ctx.Height >= f.milestoneStart && ctx.Height <= f.milestoneEnd, nil
}

func (f *Fake) IsUnderCheckpoint(height int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	highest := int64(-1)
	for h := range f.checkpoints {
		if h > highest {
			highest = h
		}
	}
	return height <= highest
}

func (f *Fake) IsFiltered(link archive.Link) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filterHead[link], nil
}

func (f *Fake) IsPrevoutsCached(link archive.Link) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prevoutsCached[link], nil
}

func (f *Fake) GetHeader(link archive.Link) (*wire.BlockHeader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.headers[link]
	if !ok {
		return nil, archive.Error{Kind: archive.ErrNotFound, Desc: fmt.Sprintf("no header for link %d", link)}
	}
	return h, nil
}

func (f *Fake) GetBlock(link archive.Link) (*archive.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blocks[link]
	if !ok {
		return nil, archive.Error{Kind: archive.ErrNotFound, Desc: fmt.Sprintf("no block for link %d", link)}
	}
	return b, nil
}

func (f *Fake) GetContext(link archive.Link) (archive.Context, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ctx, ok := f.context[link]
	if !ok {
		return archive.Context{}, archive.Error{Kind: archive.ErrNotFound, Desc: fmt.Sprintf("no context for link %d", link)}
	}
	return ctx, nil
}

func (f *Fake) GetLink(hash chainhash.Hash) (archive.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	link, ok := f.hashIndex[hash]
	if !ok {
		return archive.NoLink, archive.Error{Kind: archive.ErrNotFound, Desc: fmt.Sprintf("no link for hash %s", hash)}
	}
	return link, nil
}

func (f *Fake) HaveHeader(hash chainhash.Hash) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.hashIndex[hash]
	return ok, nil
}

// -- Commands --------------------------------------------------------------

func (f *Fake) PutHeader(header *wire.BlockHeader) (archive.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hash := header.BlockHash()
	if link, ok := f.hashIndex[hash]; ok {
		return link, nil
	}
	link := f.nextLink
	f.nextLink++
	f.headers[link] = header
	f.hashIndex[hash] = link
	f.work[link] = standalone.CalcWork(header.Bits)
	f.state[link] = archive.Unassociated
	return link, nil
}

func (f *Fake) SetContext(link archive.Link, ctx archive.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.context[link] = ctx
	return nil
}

func (f *Fake) PushCandidate(link archive.Link, height int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidate[height] = link
	if height > f.topCandidate {
		f.topCandidate = height
	}
	return nil
}

func (f *Fake) PopCandidate() (archive.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.topCandidate < 0 {
		return archive.NoLink, archive.Error{Kind: archive.ErrNotFound, Desc: "candidate chain is empty"}
	}
	link := f.candidate[f.topCandidate]
	delete(f.candidate, f.topCandidate)
	f.topCandidate--
	return link, nil
}

func (f *Fake) PushConfirmed(link archive.Link, setStrong bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = setStrong // the real store records but never consults this bit either
	height := f.topConfirmed + 1
	f.confirmed[height] = link
	f.topConfirmed = height
	return nil
}

func (f *Fake) PopConfirmed() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.topConfirmed < 0 {
		return archive.Error{Kind: archive.ErrNotFound, Desc: "confirmed chain is empty"}
	}
	delete(f.confirmed, f.topConfirmed)
	f.topConfirmed--
	return nil
}

func (f *Fake) SetBlock(msg *wire.MsgBlock) (archive.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hash := msg.Header.BlockHash()
	link, ok := f.hashIndex[hash]
	if !ok {
		return archive.NoLink, archive.Error{Kind: archive.ErrNotFound, Desc: fmt.Sprintf("header for block %s not archived", hash)}
	}
	f.blocks[link] = &archive.Block{Msg: msg}
	f.state[link] = archive.Unvalidated
	return link, nil
}

func (f *Fake) SetBlockValid(link archive.Link, fees int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.blocks[link]; ok {
		b.Fees = fees
	}
	f.state[link] = archive.BlockValid
	return nil
}

func (f *Fake) SetBlockUnconfirmable(link archive.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state[link] = archive.BlockUnconfirmable
	return nil
}

func (f *Fake) SetBlockConfirmable(link archive.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state[link] = archive.BlockConfirmable
	return nil
}

func (f *Fake) SetPrevouts(link archive.Link, block *archive.Block) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prevoutsCached[link] = true
	return nil
}

func (f *Fake) SetFilterHead(link archive.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filterHead[link] = true
	return nil
}

func (f *Fake) SetFilterBody(link archive.Link, block *archive.Block) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filterBody[link] = true
	return nil
}

func (f *Fake) SetUnstrong(link archive.Link) error {
	// The real store's SetUnstrong flips a bit GetStrong never reads
	// (see archive/store.go); nothing for the fake to track.
	return nil
}

func (f *Fake) PopulateWithMetadata(block *archive.Block, ctx archive.Context) error {
	if block.Prevouts == nil {
		block.Prevouts = make([][]archive.PrevOut, len(block.Msg.Transactions))
	}
	return nil
}

func (f *Fake) PopulateWithoutMetadata(block *archive.Block) error {
	if block.Prevouts == nil {
		block.Prevouts = make([][]archive.PrevOut, len(block.Msg.Transactions))
	}
	return nil
}

func (f *Fake) BlockConfirmable(link archive.Link) error {
	f.mu.Lock()
	fn := f.ConfirmFail
	_, hasBlock := f.blocks[link]
	f.mu.Unlock()
	if !hasBlock {
		return archive.Error{Kind: archive.ErrNotFound, Desc: fmt.Sprintf("block body missing for link %d at confirmation time", link)}
	}
	if fn != nil {
		return fn(link)
	}
	return nil
}
