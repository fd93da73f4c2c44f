// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package archive

import (
	"github.com/decred/dcrd/wire"
)

// Bootstrap writes the network's genesis block directly onto the candidate
// and confirmed chains at height 0, bypassing the header/check/validate/
// confirm chasers entirely. It is idempotent: called against an archive
// that already has a top candidate, it is a no-op. Used by the CLI's
// initchain subcommand and by the node on first startup against an empty
// archive (spec.md §6 "initchain").
func Bootstrap(arc Archive, genesis *wire.MsgBlock) error {
	top, err := arc.GetTopCandidate()
	if err != nil {
		return err
	}
	if top >= 0 {
		return nil
	}

	link, err := arc.PutHeader(&genesis.Header)
	if err != nil {
		return err
	}
	ctx := Context{
		Height:         0,
		MedianTimePast: genesis.Header.Timestamp.Unix(),
		ActivatedForks: 0,
		MinimumVersion: genesis.Header.Version,
	}
	if err := arc.SetContext(link, ctx); err != nil {
		return err
	}
	if err := arc.PushCandidate(link, 0); err != nil {
		return err
	}
	if _, err := arc.SetBlock(genesis); err != nil {
		return err
	}
	if err := arc.SetBlockValid(link, 0); err != nil {
		return err
	}
	if err := arc.SetFilterHead(link); err != nil {
		return err
	}
	if err := arc.SetBlockConfirmable(link); err != nil {
		return err
	}
	if err := arc.PushConfirmed(link, true); err != nil {
		return err
	}
	return nil
}
