// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/decred/dcrd/addrmgr/v3"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/connmgr/v3"
	"github.com/decred/dcrd/database/v3"
	"github.com/decred/dcrd/peer/v3"
	"github.com/decred/dcrd/wire"
	"github.com/decred/go-socks/socks"

	"github.com/bcnchain/bcnoded/internal/archive"
	"github.com/bcnchain/bcnoded/internal/chainbus"
	"github.com/bcnchain/bcnoded/internal/chase"
	"github.com/bcnchain/bcnoded/internal/peeradaptor"
	"github.com/bcnchain/bcnoded/internal/version"
)

const (
	connectionRetryInterval = 10 * time.Second
	defaultTargetOutbound   = 8
)

// node wires the archive, the event bus, the four chasers, the peer
// adaptor, and the peer-to-peer session layer together into a single
// running process. It is the direct analogue of the teacher's own server
// type, narrowed to the chain-assembly core: the mempool, mining, and RPC
// surfaces the teacher's server also carries are out of scope.
type node struct {
	cfg *config
	db  database.DB
	arc *archive.Store
	bus *chainbus.Bus

	header   *chase.Header
	check    *chase.Check
	validate *chase.Validate
	confirm  *chase.Confirm
	adaptor  *peeradaptor.Adaptor

	connManager *connmgr.ConnManager
	addrManager *addrmgr.AddrManager

	nonce uint64

	faulted  atomic.Bool
	stopOnce sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

// newNode opens (or creates) the archive at cfg.Database.Dir, bootstraps
// the configured network's genesis block if the archive is empty,
// constructs the event bus and every chaser, and wires the peer adaptor
// and session layer on top of them. It does not start anything; call run
// to do that.
func newNode(cfg *config) (*node, error) {
	db, err := openOrCreateArchiveDB(cfg)
	if err != nil {
		return nil, err
	}

	arc, err := archive.NewStore(db, 0, 0, cfg.checkpoints)
	if err != nil {
		db.Close()
		return nil, err
	}

	if err := archive.Bootstrap(arc, cfg.params.GenesisBlock); err != nil {
		db.Close()
		return nil, err
	}

	bus := chainbus.New()
	n := &node{
		cfg:  cfg,
		db:   db,
		arc:  arc,
		bus:  bus,
		done: make(chan struct{}),
	}

	n.header = chase.NewHeader(bus, arc, n, cfg.params.PowLimit, cfg.checkpoints)
	n.check = chase.NewCheck(bus, arc, n)
	n.validate = chase.NewValidate(bus, arc, n, cfg.Node.MaximumConcurrency,
		cfg.Bitcoin.SubsidyIntervalBlocks, cfg.Bitcoin.InitialSubsidy,
		cfg.Database.FilterEnable)
	n.confirm = chase.NewConfirm(bus, arc, n)

	nonce, err := randomNonce()
	if err != nil {
		db.Close()
		return nil, err
	}
	n.nonce = nonce
	n.adaptor = peeradaptor.New(bus, arc, n.header, n.check, n.nonce)

	n.addrManager = addrmgr.New(cfg.DataDir, net.LookupIP)

	listeners, err := initListeners(cfg.listeners)
	if err != nil {
		db.Close()
		return nil, err
	}
	for _, l := range listeners {
		host, portStr, err := net.SplitHostPort(l.Addr().String())
		if err != nil {
			continue
		}
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			continue
		}
		na, err := n.addrManager.HostToNetAddress(host, uint16(port), wire.SFNodeNetwork)
		if err != nil {
			srvrLog.Warnf("can't advertise local listener %s: %v", l.Addr(), err)
			continue
		}
		if err := n.addrManager.AddLocalAddress(na, addrmgr.BoundPrio); err != nil {
			srvrLog.Warnf("skipping local address %s: %v", l.Addr(), err)
		}
	}

	cmgr, err := connmgr.New(&connmgr.Config{
		Listeners:       listeners,
		OnAccept:        n.inboundPeerConnected,
		RetryDuration:   connectionRetryInterval,
		TargetOutbound:  uint32(defaultTargetOutbound),
		Dial:            dialFunc(cfg),
		Timeout:         30 * time.Second,
		OnConnection:    n.outboundPeerConnected,
		OnDisconnection: n.outboundPeerDisconnected,
		GetNewAddress:   n.getNewAddress,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	n.connManager = cmgr

	return n, nil
}

// Fault implements chase.Faulter. It is called at most once per node, from
// whichever chaser strand first hits an archive error serious enough to
// halt the pipeline (spec.md §4.8: faults are terminal).
func (n *node) Fault(err error) {
	if n.faulted.Swap(true) {
		return
	}
	dcrdLog.Errorf("chain assembly core faulted, shutting down: %v", err)
	n.bus.Publish(chainbus.Event{Tag: chainbus.Stop})
	n.stopOnce.Do(func() {
		if n.cancel != nil {
			n.cancel()
		}
		close(n.done)
	})
}

// run starts every chaser and the peer session layer, and blocks until ctx
// is cancelled or the node faults, then closes the node before returning.
func (n *node) run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	defer cancel()

	n.addrManager.Start()

	connDone := make(chan struct{})
	go func() {
		n.connManager.Run(runCtx)
		close(connDone)
	}()

	n.bus.Publish(chainbus.Event{Tag: chainbus.Start})

	select {
	case <-ctx.Done():
	case <-n.done:
	}
	cancel()
	<-connDone

	return n.close()
}

// close publishes a final stop to every chaser, waits for the validate
// chaser's independent worker pool to fully join (spec.md §8 scenario 6),
// stops the address manager, and closes the archive database.
func (n *node) close() error {
	n.bus.Publish(chainbus.Event{Tag: chainbus.Stop})
	n.validate.Wait()
	n.addrManager.Stop()
	return n.db.Close()
}

func (n *node) inboundPeerConnected(conn net.Conn) {
	p := peer.NewInboundPeer(n.peerConfig())
	n.adaptor.AddPeer(p)
	p.AssociateConnection(conn)
}

func (n *node) outboundPeerConnected(req *connmgr.ConnReq, conn net.Conn) {
	p, err := peer.NewOutboundPeer(n.peerConfig(), req.Addr.String())
	if err != nil {
		srvrLog.Errorf("cannot create outbound peer for %s: %v", req.Addr, err)
		n.connManager.Disconnect(req.ID())
		return
	}
	n.adaptor.AddPeer(p)
	p.AssociateConnection(conn)
}

func (n *node) outboundPeerDisconnected(req *connmgr.ConnReq) {
	// The adaptor's peer map is keyed by peer ID and pruned lazily the next
	// time announce() walks it and finds the peer no longer connected;
	// nothing further to release here.
}

func (n *node) peerConfig() *peer.Config {
	return &peer.Config{
		Listeners:        n.adaptor.Listeners(),
		NewestBlock:      n.newestBlock,
		HostToNetAddress: n.addrManager.HostToNetAddress,
		Proxy:            n.cfg.Network.Proxy,
		UserAgentName:    "bcnoded",
		UserAgentVersion: version.String(),
		Net:              n.cfg.params.Net,
		Services:         wire.SFNodeNetwork,
		DisableRelayTx:   false,
		ProtocolVersion:  n.cfg.Network.ProtocolMaximum,
	}
}

func (n *node) newestBlock() (*chainhash.Hash, int64, error) {
	top, err := n.arc.GetTopConfirmed()
	if err != nil {
		return nil, 0, err
	}
	if top < 0 {
		return &n.cfg.params.GenesisHash, 0, nil
	}
	link, err := n.arc.ToConfirmed(top)
	if err != nil {
		return nil, 0, err
	}
	header, err := n.arc.GetHeader(link)
	if err != nil {
		return nil, 0, err
	}
	hash := header.BlockHash()
	return &hash, top, nil
}

// getNewAddress supplies the connection manager with an outbound address
// to try, drawn from the address manager (spec.md §6 "peer discovery").
func (n *node) getNewAddress() (net.Addr, error) {
	for tries := 0; tries < 100; tries++ {
		ka := n.addrManager.GetAddress()
		if ka == nil {
			break
		}
		netAddr := ka.NetAddress()
		ip := net.IP(netAddr.IP)
		if ip == nil {
			continue
		}
		return &net.TCPAddr{IP: ip, Port: int(netAddr.Port)}, nil
	}
	return nil, fmt.Errorf("no valid connect address")
}

// dialFunc returns the dialer the connection manager should use: a direct
// net.Dialer, or a SOCKS5 proxy dialer when network.proxy is configured
// (spec.md §6 "node.proxy").
func dialFunc(cfg *config) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cfg.Network.Proxy == "" {
		var d net.Dialer
		return d.DialContext
	}
	proxy := &socks.Proxy{Addr: cfg.Network.Proxy}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return proxy.Dial(network, addr)
	}
}

// initListeners opens a TCP listener for every configured address. A
// listener that fails to bind is logged and skipped rather than aborting
// startup entirely, since the remaining addresses may still be usable.
func initListeners(addrs []string) ([]net.Listener, error) {
	listeners := make([]net.Listener, 0, len(addrs))
	for _, addr := range addrs {
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			srvrLog.Warnf("can't listen on %s: %v", addr, err)
			continue
		}
		listeners = append(listeners, listener)
	}
	if len(listeners) == 0 && len(addrs) > 0 {
		return nil, fmt.Errorf("no valid listen address could be bound")
	}
	return listeners, nil
}

func randomNonce() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
