// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peeradaptor is the peer adaptor (spec.md §4.8): it translates
// between the wire protocol, carried over github.com/decred/dcrd/peer/v3
// connections managed by connmgr/v3 and addrmgr/v3, and the chain
// assembly core's chasers, coupled only through the event bus.
package peeradaptor

import (
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/peer/v3"
	"github.com/decred/dcrd/wire"
	"github.com/decred/slog"

	"github.com/bcnchain/bcnoded/internal/archive"
	"github.com/bcnchain/bcnoded/internal/chainbus"
	"github.com/bcnchain/bcnoded/internal/chase"
)

// log is the package-level logger, installed via UseLogger.
var log = slog.Disabled

// UseLogger sets the package-wide logger.
func UseLogger(logger slog.Logger) {
	log = logger
}

const (
	maxHeadersPerMsg = 2000
	maxInvPerMsg     = 500
)

// Adaptor owns the set of connected peers and wires their inbound
// messages to the header and check chasers, and outbound announcements
// from the confirm chaser's organized events back out to peers.
type Adaptor struct {
	arc     archive.Archive
	bus     *chainbus.Bus
	header  *chase.Header
	check   *chase.Check
	nonce   uint64

	mu          sync.RWMutex
	peers       map[int32]*peerState
	originators map[chainhash.Hash]int32

	subID int
}

// peerState is the adaptor's bookkeeping for one connected peer.
type peerState struct {
	peer         *peer.Peer
	sendHeaders  bool
	lastLocator  chainhash.Hash
}

// New constructs the adaptor and subscribes it to the bus for the
// announcement-relevant tags (organized).
func New(bus *chainbus.Bus, arc archive.Archive, header *chase.Header, check *chase.Check, nonce uint64) *Adaptor {
	a := &Adaptor{
		arc:         arc,
		bus:         bus,
		header:      header,
		check:       check,
		nonce:       nonce,
		peers:       make(map[int32]*peerState),
		originators: make(map[chainhash.Hash]int32),
	}
	// The adaptor has no strand of its own (it is not a chaser per
	// spec.md §4.3); it posts announcement work directly since none of
	// it mutates chaser state, only reads the archive and queues peer
	// messages, both already safe for concurrent use.
	a.subID = bus.Subscribe(inlinePoster{}, a.handleEvent)
	return a
}

// inlinePoster runs posted closures synchronously on the publishing
// goroutine; safe here because Adaptor's handlers only read the archive
// and call thread-safe peer.Peer methods.
type inlinePoster struct{}

func (inlinePoster) Post(fn func()) { fn() }

func (a *Adaptor) handleEvent(ev chainbus.Event) bool {
	switch ev.Tag {
	case chainbus.Organized:
		a.announce(archive.Link(ev.Value.Link()))
	case chainbus.Stop:
		return false
	}
	return true
}

// announce pushes the newly organized block to every peer that hasn't
// originated it, as a headers message (if the peer asked for
// sendheaders) or an inv otherwise (spec.md §4.8).
func (a *Adaptor) announce(link archive.Link) {
	header, err := a.arc.GetHeader(link)
	if err != nil {
		log.Warnf("peeradaptor: announce: %v", err)
		return
	}
	hash := header.BlockHash()

	a.mu.Lock()
	originator, hasOriginator := a.originators[hash]
	delete(a.originators, hash)
	a.mu.Unlock()

	a.mu.RLock()
	defer a.mu.RUnlock()
	for id, ps := range a.peers {
		if hasOriginator && id == originator {
			continue
		}
		if ps.sendHeaders {
			msg := wire.NewMsgHeaders()
			msg.AddBlockHeader(header)
			ps.peer.QueueMessage(msg, nil)
		} else {
			msg := wire.NewMsgInvSizeHint(1)
			msg.AddInvVect(wire.NewInvVect(wire.InvTypeBlock, &hash))
			ps.peer.QueueMessage(msg, nil)
		}
	}
}

// AddPeer registers a newly connected peer and installs the message
// listeners that route its inbound traffic into the chasers.
func (a *Adaptor) AddPeer(p *peer.Peer) {
	ps := &peerState{peer: p}
	a.mu.Lock()
	a.peers[p.ID()] = ps
	a.mu.Unlock()
}

// RemovePeer drops bookkeeping for a disconnected peer.
func (a *Adaptor) RemovePeer(p *peer.Peer) {
	a.mu.Lock()
	delete(a.peers, p.ID())
	a.mu.Unlock()
}

// Listeners returns the peer.MessageListeners to install on every peer
// this adaptor manages, closing over p for OnSendHeaders.
func (a *Adaptor) Listeners() peer.MessageListeners {
	return peer.MessageListeners{
		OnHeaders:    a.onHeaders,
		OnInv:        a.onInv,
		OnBlock:      a.onBlock,
		OnGetHeaders: a.onGetHeaders,
		OnGetBlocks:  a.onGetBlocks,
		OnGetData:    a.onGetData,
		OnSendHeaders: a.onSendHeaders,
	}
}

func (a *Adaptor) onSendHeaders(p *peer.Peer, msg *wire.MsgSendHeaders) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ps, ok := a.peers[p.ID()]; ok {
		ps.sendHeaders = true
	}
}

// onHeaders implements spec.md §4.8's inbound headers contract: dispatch
// every header to the header chaser, then ask for more if the peer might
// have further headers to deliver.
func (a *Adaptor) onHeaders(p *peer.Peer, msg *wire.MsgHeaders) {
	if len(msg.Headers) == 0 {
		return
	}
	a.header.AcceptHeaders(msg.Headers)
	if len(msg.Headers) == maxHeadersPerMsg {
		last := msg.Headers[len(msg.Headers)-1].BlockHash()
		locator := wire.BlockLocator{&last}
		getHeaders := wire.NewMsgGetHeaders()
		getHeaders.BlockLocatorHashes = locator
		p.QueueMessage(getHeaders, nil)
	}
}

// onInv requests the bodies of any advertised blocks we don't have yet.
func (a *Adaptor) onInv(p *peer.Peer, msg *wire.MsgInv) {
	getData := wire.NewMsgGetData()
	for _, inv := range msg.InvList {
		if inv.Type != wire.InvTypeBlock {
			continue
		}
		have, err := a.arc.HaveHeader(inv.Hash)
		if err != nil || have {
			continue
		}
		_ = getData.AddInvVect(inv)
	}
	if len(getData.InvList) > 0 {
		p.QueueMessage(getData, nil)
	}
}

// onBlock routes a delivered block body to the check chaser. The claimed
// link comes from the archive's own hash index (GetLink), not the peer,
// so the check chaser's own comparison in spec.md §4.5 ("claimed link
// doesn't match") catches any peer that answers out of turn.
func (a *Adaptor) onBlock(p *peer.Peer, msg *wire.MsgBlock, buf []byte) {
	hash := msg.Header.BlockHash()
	link, err := a.arc.GetLink(hash)
	if err != nil {
		return
	}
	a.mu.Lock()
	a.originators[hash] = p.ID()
	a.mu.Unlock()
	a.check.AcceptBlock(msg, link)
}

// onGetHeaders computes a locator-anchored response capped at 2000
// headers (spec.md §4.8).
func (a *Adaptor) onGetHeaders(p *peer.Peer, msg *wire.MsgGetHeaders) {
	startHeight, err := a.locateFork(msg.BlockLocatorHashes, msg.HashStop)
	if err != nil {
		return
	}
	resp := wire.NewMsgHeaders()
	top, err := a.arc.GetTopCandidate()
	if err != nil {
		return
	}
	for h := startHeight; h <= top && len(resp.Headers) < maxHeadersPerMsg; h++ {
		link, err := a.arc.ToCandidate(h)
		if err != nil || link.IsTerminal() {
			break
		}
		header, err := a.arc.GetHeader(link)
		if err != nil {
			break
		}
		if err := resp.AddBlockHeader(header); err != nil {
			break
		}
		if header.BlockHash() == msg.HashStop {
			break
		}
	}
	p.QueueMessage(resp, nil)
}

// onGetBlocks is the inv-based analogue of onGetHeaders, capped at 500
// entries (spec.md §4.8).
func (a *Adaptor) onGetBlocks(p *peer.Peer, msg *wire.MsgGetBlocks) {
	startHeight, err := a.locateFork(msg.BlockLocatorHashes, msg.HashStop)
	if err != nil {
		return
	}
	resp := wire.NewMsgInv()
	top, err := a.arc.GetTopCandidate()
	if err != nil {
		return
	}
	for h := startHeight; h <= top && len(resp.InvList) < maxInvPerMsg; h++ {
		link, err := a.arc.ToCandidate(h)
		if err != nil || link.IsTerminal() {
			break
		}
		header, err := a.arc.GetHeader(link)
		if err != nil {
			break
		}
		hash := header.BlockHash()
		_ = resp.AddInvVect(wire.NewInvVect(wire.InvTypeBlock, &hash))
		if hash == msg.HashStop {
			break
		}
	}
	p.QueueMessage(resp, nil)
}

// onGetData serves requested blocks, or notfound for anything no longer
// retained on any chain (spec.md §4.8).
func (a *Adaptor) onGetData(p *peer.Peer, msg *wire.MsgGetData) {
	notFound := wire.NewMsgNotFound()
	for _, inv := range msg.InvList {
		if inv.Type != wire.InvTypeBlock {
			continue
		}
		link, err := a.arc.GetLink(inv.Hash)
		if err != nil {
			_ = notFound.AddInvVect(inv)
			continue
		}
		block, err := a.arc.GetBlock(link)
		if err != nil {
			_ = notFound.AddInvVect(inv)
			continue
		}
		p.QueueMessage(block.Msg, nil)
	}
	if len(notFound.InvList) > 0 {
		p.QueueMessage(notFound, nil)
	}
}

// locateFork walks a locator from its first hash we recognize on the
// candidate chain, enforcing the wire protocol's locator length bound
// (spec.md §6 "Wire protocol").
func (a *Adaptor) locateFork(locator wire.BlockLocator, hashStop chainhash.Hash) (int64, error) {
	top, err := a.arc.GetTopCandidate()
	if err != nil {
		return 0, err
	}
	if int64(len(locator)) > blockLocatorSize(top)+1 {
		return 0, errLocatorTooLong
	}
	for _, hash := range locator {
		link, err := a.arc.GetLink(*hash)
		if err != nil {
			continue
		}
		ctx, err := a.arc.GetContext(link)
		if err != nil {
			continue
		}
		if candLink, err := a.arc.ToCandidate(ctx.Height); err == nil && candLink == link {
			return ctx.Height + 1, nil
		}
	}
	return 0, nil // no match: start from genesis
}

// blockLocatorSize estimates the maximum locator length a well-behaved
// peer would send for a chain of the given height: roughly log2(height)
// plus the initial dense run, matching the teacher's own
// blockchain.BlockLocator sizing.
func blockLocatorSize(height int64) int64 {
	n := int64(10)
	for h := height; h > 10; h >>= 1 {
		n++
	}
	return n
}

type locatorError string

func (e locatorError) Error() string { return string(e) }

const errLocatorTooLong = locatorError("block locator exceeds maximum size")
