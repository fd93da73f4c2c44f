// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chase

import (
	"math/big"
	"testing"
	"time"

	"github.com/decred/dcrd/blockchain/standalone/v2"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"

	"github.com/bcnchain/bcnoded/internal/archive/archivetest"
	"github.com/bcnchain/bcnoded/internal/chainbus"
)

// testBits is a compact difficulty target loose enough that every header's
// hash satisfies proof of work, so tests don't need to grind nonces.
const testBits = 0x217fffff

func testPowLimit() *big.Int {
	// The same compact value read back as the pow limit; CheckProofOfWork
	// only requires target <= powLimit, so using the header's own target as
	// the limit always succeeds.
	return compactToBigForTest(testBits)
}

func compactToBigForTest(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	exponent := uint(compact >> 24)
	bn := big.NewInt(int64(mantissa))
	if exponent > 3 {
		bn.Lsh(bn, 8*(exponent-3))
	} else {
		bn.Rsh(bn, 8*(3-exponent))
	}
	return bn
}

// testHeader builds a header chained from parent, distinguished by nonce so
// distinct calls never collide on hash.
func testHeader(parent chainhash.Hash, height int64, nonce uint32) *wire.BlockHeader {
	return &wire.BlockHeader{
		Version:   1,
		PrevBlock: parent,
		Bits:      testBits,
		Timestamp: time.Unix(1_600_000_000+height*600, 0),
		Nonce:     nonce,
	}
}

// testChain builds n headers extending parent (whose own hash is
// parentHash), returning them in height order along with their hashes.
func testChain(parentHash chainhash.Hash, startHeight int64, n int, nonceBase uint32) []*wire.BlockHeader {
	headers := make([]*wire.BlockHeader, 0, n)
	prev := parentHash
	for i := 0; i < n; i++ {
		h := testHeader(prev, startHeight+int64(i), nonceBase+uint32(i))
		headers = append(headers, h)
		prev = h.BlockHash()
	}
	return headers
}

// coinbaseBlock returns a single-transaction block, so acceptBlock and
// connectBlock's non-coinbase loops never execute and there is nothing to
// resolve prevouts for.
func coinbaseBlock(header *wire.BlockHeader) *wire.MsgBlock {
	return &wire.MsgBlock{
		Header: *header,
		Transactions: []*wire.MsgTx{
			{
				TxIn:  []*wire.TxIn{{}},
				TxOut: []*wire.TxOut{{Value: 0}},
			},
		},
	}
}

// realBits is a difficulty loose enough that a solving nonce is typically
// found within a few hundred tries, while still yielding nonzero work per
// block (unlike testBits, whose target exceeds 2^256 and so always decodes
// to zero work) so header-chaser tests that compare cumulative work across
// competing branches see a genuine difference.
const realBits = 0x1f7fffff

// solveHeader grinds header.Nonce starting from 1, matching chaingen's
// solveBlock convention of never solving at nonce 0, until the header's hash
// satisfies its own Bits under limit.
func solveHeader(t *testing.T, header *wire.BlockHeader, limit *big.Int) {
	t.Helper()
	for nonce := uint32(1); nonce != 0; nonce++ {
		header.Nonce = nonce
		hash := header.BlockHash()
		if standalone.CheckProofOfWork(&hash, header.Bits, limit) == nil {
			return
		}
	}
	t.Fatal("solveHeader: exhausted nonce space")
}

// solvedChain builds n real-difficulty, individually solved headers
// extending parentHash, for tests that exercise the header chaser's
// cumulative-work fork comparison.
func solvedChain(t *testing.T, parentHash chainhash.Hash, startHeight int64, n int) []*wire.BlockHeader {
	t.Helper()
	limit := testPowLimit()
	headers := make([]*wire.BlockHeader, 0, n)
	prev := parentHash
	for i := 0; i < n; i++ {
		h := &wire.BlockHeader{
			Version:   1,
			PrevBlock: prev,
			Bits:      realBits,
			Timestamp: time.Unix(1_600_000_000+(startHeight+int64(i))*600, 0),
		}
		solveHeader(t, h, limit)
		headers = append(headers, h)
		prev = h.BlockHash()
	}
	return headers
}

// stubFaulter records every fault reported to it instead of tearing down a
// node, so tests can assert whether a chaser escalated.
type stubFaulter struct {
	faults []error
}

func (f *stubFaulter) Fault(err error) {
	f.faults = append(f.faults, err)
}

// flush blocks until every closure already posted to poster's strand ahead
// of this call has run, giving deterministic synchronization with a
// chaser's own goroutine without sleeping.
func flush(poster interface{ Post(func()) }) {
	done := make(chan struct{})
	poster.Post(func() { close(done) })
	<-done
}

// drainBus publishes ev and waits for every current subscriber to finish
// processing it.
func drainBus(bus *chainbus.Bus, ev chainbus.Event, posters ...interface{ Post(func()) }) {
	bus.Publish(ev)
	for _, p := range posters {
		flush(p)
	}
}
