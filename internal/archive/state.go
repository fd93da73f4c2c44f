// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package archive

// Link is a stable, small-integer handle assigned to a header the first
// time it is inserted into the archive (spec.md §3 "Header link"). It is
// used everywhere in place of copying the 32-byte hash around.
type Link uint32

// NoLink is the terminal/invalid link value, returned by queries that find
// nothing (spec.md §4.1 uses "⊥" for this).
const NoLink Link = 0

// IsTerminal reports whether the link is the sentinel "no such header"
// value.
func (l Link) IsTerminal() bool {
	return l == NoLink
}

// BlockState is the tagged variant persisted per header link (spec.md §3
// "Block state"). States move monotonically left to right in the list
// below, except that a reorganization may re-enter BlockValid after a pop.
type BlockState uint8

const (
	// Unassociated is the initial state: the header is organized onto
	// the candidate chain but no block body has been associated yet.
	Unassociated BlockState = iota

	// Unvalidated means the check chaser has associated a body with the
	// header but the validate chaser has not yet run.
	Unvalidated

	// BlockValid means the validate chaser accepted the block.
	BlockValid

	// BlockConfirmable means the confirm chaser accepted the block onto
	// the confirmed chain.
	BlockConfirmable

	// BlockUnconfirmable is terminal for the given link: either
	// validation or confirmation failed and no descendant can confirm.
	BlockUnconfirmable
)

// String returns a human-readable name, used in logging.
func (s BlockState) String() string {
	switch s {
	case Unassociated:
		return "unassociated"
	case Unvalidated:
		return "unvalidated"
	case BlockValid:
		return "block_valid"
	case BlockConfirmable:
		return "block_confirmable"
	case BlockUnconfirmable:
		return "block_unconfirmable"
	default:
		return "unknown"
	}
}

// Context is the block context derived deterministically from the header
// tree (spec.md §3 "Block context").
type Context struct {
	Height            int64
	MedianTimePast    int64
	ActivatedForks    uint32
	MinimumVersion    int32
}
