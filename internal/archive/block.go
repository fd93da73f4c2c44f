// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package archive

import "github.com/decred/dcrd/wire"

// PrevOut is the resolved previous output referenced by one transaction
// input, together with the metadata the validate chaser's accept(ctx) step
// needs to check coinbase maturity and time locks without a second archive
// round trip.
type PrevOut struct {
	Output     wire.TxOut
	Height     int64
	IsCoinbase bool
}

// Block decorates a wire block with the previous-output metadata the
// validate chaser's populate step attaches (spec.md §4.1
// populate_with_metadata / populate_without_metadata). Fees is filled in by
// the caller once sigop-bounded script verification completes and is
// persisted by SetBlockValid.
type Block struct {
	Msg *wire.MsgBlock

	// Prevouts holds one entry per transaction, each itself holding one
	// entry per input, in the same order as Msg.Transactions and that
	// transaction's TxIn. The coinbase transaction's slot is always nil.
	Prevouts [][]PrevOut

	Fees int64
}

// Tx returns the i'th transaction's previous outputs, or nil if Prevouts
// has not been populated yet.
func (b *Block) TxPrevouts(i int) []PrevOut {
	if i < 0 || i >= len(b.Prevouts) {
		return nil
	}
	return b.Prevouts[i]
}
