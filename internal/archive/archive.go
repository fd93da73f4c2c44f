// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package archive defines the content-addressed store of headers,
// transactions, block-to-tx associations, per-block states, and filter
// data that every chaser consumes (spec.md §4.1). The package presents a
// set of pure queries and commands; the chasers never assume a storage
// representation. The concrete implementation in this package is backed by
// github.com/decred/dcrd/database/v3, a bucket-oriented key/value store,
// but that dependency is confined to store.go.
package archive

import (
	"math/big"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// Archive is the query/command surface every chaser is given at
// construction. All commands are atomic for the core's purposes: either
// the archive is left unchanged or the stated post-condition holds.
// Commands may fail; failure of any command a chaser has no recovery path
// for is fatal (spec.md §4.1).
type Archive interface {
	// -- Queries -------------------------------------------------------

	// ToCandidate returns the header link at height on the candidate
	// chain, or NoLink if height exceeds the candidate tip.
	ToCandidate(height int64) (Link, error)

	// ToConfirmed returns the header link at height on the confirmed
	// chain, or NoLink if height exceeds the confirmed tip.
	ToConfirmed(height int64) (Link, error)

	// GetFork returns the height of the current fork point: the
	// greatest height at which the candidate and confirmed chains agree.
	GetFork() (int64, error)

	// GetTopCandidate returns the height of the candidate chain's tip.
	GetTopCandidate() (int64, error)

	// GetTopConfirmed returns the height of the confirmed chain's tip.
	GetTopConfirmed() (int64, error)

	// GetTopAssociated returns the greatest height on the candidate
	// chain whose header has an associated block body.
	GetTopAssociated() (int64, error)

	// GetBlockState returns the state tag stored for link.
	GetBlockState(link Link) (BlockState, error)

	// GetCandidateFork returns the ordered list of links from
	// fork_point+1 through height on the candidate branch, where
	// fork_point is the current value returned by GetFork. It returns an
	// empty slice if height is not (or no longer) on the candidate
	// chain.
	GetCandidateFork(height int64) ([]Link, error)

	// GetWork returns the cumulative proof-of-work of links, summed in
	// the order given.
	GetWork(links []Link) (*big.Int, error)

	// GetStrong reports whether work strictly exceeds the work
	// accumulated on the confirmed branch above forkPoint.
	GetStrong(work *big.Int, forkPoint int64) (bool, error)

	// IsMilestone reports whether link falls within a soft, configured
	// milestone region that bypasses full validation.
	IsMilestone(link Link) (bool, error)

	// IsUnderCheckpoint reports whether height is at or below the
	// highest configured hard checkpoint.
	IsUnderCheckpoint(height int64) bool

	// IsFiltered reports whether a compact filter has already been
	// committed for link.
	IsFiltered(link Link) (bool, error)

	// IsPrevoutsCached reports whether link's previous-output metadata
	// has already been populated and cached, enabling the validate
	// chaser's bypass shortcut.
	IsPrevoutsCached(link Link) (bool, error)

	// GetHeader returns the stored header for link.
	GetHeader(link Link) (*wire.BlockHeader, error)

	// GetBlock returns the stored block for link, or ErrNotFound if only
	// the header has been archived so far. The returned Block's Prevouts
	// are populated only if a prior PopulateWithMetadata/
	// PopulateWithoutMetadata call cached them for this link.
	GetBlock(link Link) (*Block, error)

	// GetContext returns the derived block context for link.
	GetContext(link Link) (Context, error)

	// GetLink returns the link assigned to a known header hash, or
	// ErrNotFound.
	GetLink(hash chainhash.Hash) (Link, error)

	// HaveHeader reports whether hash has already been archived,
	// regardless of which chain (if any) it is on.
	HaveHeader(hash chainhash.Hash) (bool, error)

	// -- Commands --------------------------------------------------

	// PutHeader archives a new header, assigning and returning its link.
	// If the header is already archived, its existing link is returned.
	PutHeader(header *wire.BlockHeader) (Link, error)

	// SetContext records the derived block context for link, computed by
	// the header chaser at organization time (spec.md §3 "Block
	// context"). It must be set before PushCandidate for that height so
	// GetContext, PushConfirmed, and the validate chaser's
	// PopulateWithMetadata can all rely on it being present.
	SetContext(link Link, ctx Context) error

	// PushCandidate extends the candidate chain by one header at the
	// given height, overwriting any non-candidate entry already at that
	// height (used during header-tree reorganization).
	PushCandidate(link Link, height int64) error

	// PopCandidate removes the candidate chain's current tip and returns
	// its link.
	PopCandidate() (Link, error)

	// PushConfirmed extends the confirmed chain by pushing link as the
	// new top. setStrong marks the pushed block as contributing to
	// get_strong's work accounting; checkpointed blocks are always
	// pushed with setStrong forced true by the archiver regardless of
	// the caller's value, matching the teacher's original_source
	// behavior (see SPEC_FULL.md §4).
	PushConfirmed(link Link, setStrong bool) error

	// PopConfirmed removes the confirmed chain's current tip.
	PopConfirmed() error

	// SetBlock associates block with the header link already archived
	// for its header hash (assigned by PutHeader when the header
	// arrived). Returns ErrNotFound if the header is not archived.
	SetBlock(block *wire.MsgBlock) (Link, error)

	// SetBlockValid marks link block_valid and records its total fees.
	SetBlockValid(link Link, fees int64) error

	// SetBlockUnconfirmable marks link (and implicitly every descendant,
	// by virtue of their parent never reaching block_confirmable)
	// block_unconfirmable.
	SetBlockUnconfirmable(link Link) error

	// SetBlockConfirmable marks link block_confirmable.
	SetBlockConfirmable(link Link) error

	// SetPrevouts caches block's resolved previous-output metadata
	// against link, enabling later IsPrevoutsCached/bypass queries.
	SetPrevouts(link Link, block *Block) error

	// SetFilterHead commits (or re-commits, for a bypassed block) the
	// compact filter header for link, chained from its parent's filter
	// header.
	SetFilterHead(link Link) error

	// SetFilterBody builds and commits the compact filter body for
	// block, recorded against link.
	SetFilterBody(link Link, block *Block) error

	// SetUnstrong reverses the strong marking PushConfirmed applied, used
	// while rolling back a failed confirmation.
	SetUnstrong(link Link) error

	// PopulateWithMetadata decorates block's inputs with their previous
	// outputs, verifying internal (already-confirmed) spends' maturity
	// and time locks against ctx as a side effect. Returns
	// ErrMissingPreviousOutput if any input cannot be resolved.
	PopulateWithMetadata(block *Block, ctx Context) error

	// PopulateWithoutMetadata decorates block's inputs from cached
	// prevout metadata only (the validate bypass path), without
	// re-verifying maturity or time locks.
	PopulateWithoutMetadata(block *Block) error

	// BlockConfirmable performs the archive's final confirmation check
	// for link (double-spend within the confirmed set, coinbase
	// maturity duplication, etc.) immediately before it is pushed onto
	// the confirmed chain. A non-nil, non-fault error means the block
	// fails confirmation (not a fault); the confirm chaser is
	// responsible for distinguishing the two via IsFault.
	BlockConfirmable(link Link) error
}
