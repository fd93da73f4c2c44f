// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/decred/dcrd/database/v3"

	"github.com/bcnchain/bcnoded/internal/archive"
)

// archiveDbPath returns the path to the archive database for the given
// configuration.
func archiveDbPath(cfg *config) string {
	return filepath.Join(cfg.Database.Dir, cfg.DbType)
}

// removeRegNetArchive removes the existing regression test archive if
// running in regression test mode and it already exists, giving every
// regnet run a clean slate the same way the teacher's removeRegressionDB
// does for its own blockchain database.
func removeRegNetArchive(cfg *config, dbPath string) error {
	if !cfg.Bitcoin.RegNet {
		return nil
	}
	fi, err := os.Stat(dbPath)
	if err != nil {
		return nil
	}
	dcrdLog.Infof("Removing regression test archive from '%s'", dbPath)
	if fi.IsDir() {
		return os.RemoveAll(dbPath)
	}
	return os.Remove(dbPath)
}

// openOrCreateArchiveDB opens the archive database configured by cfg,
// creating it (and any missing intermediate directories) if it does not
// already exist.
func openOrCreateArchiveDB(cfg *config) (database.DB, error) {
	dbPath := archiveDbPath(cfg)

	if err := removeRegNetArchive(cfg, dbPath); err != nil {
		return nil, err
	}

	dcrdLog.Infof("Loading archive from '%s'", dbPath)
	db, err := database.Open(cfg.DbType, dbPath, cfg.params.Net)
	if err != nil {
		if !errors.Is(err, database.ErrDbDoesNotExist) {
			return nil, err
		}
		if err := os.MkdirAll(cfg.Database.Dir, 0700); err != nil {
			return nil, err
		}
		db, err = database.Create(cfg.DbType, dbPath, cfg.params.Net)
		if err != nil {
			return nil, err
		}
	}

	dcrdLog.Info("Archive loaded")
	return db, nil
}

// newStore implements the --newstore subcommand: create an empty archive
// at database.dir, writing the configured network's genesis block, and
// exit (spec.md §6 "newstore").
func newStore(cfg *config) error {
	dbPath := archiveDbPath(cfg)
	if _, err := os.Stat(dbPath); err == nil {
		return errors.New("an archive already exists at " + dbPath)
	}
	if err := os.MkdirAll(cfg.Database.Dir, 0700); err != nil {
		return err
	}
	db, err := database.Create(cfg.DbType, dbPath, cfg.params.Net)
	if err != nil {
		return err
	}
	defer db.Close()

	arc, err := archive.NewStore(db, 0, 0, cfg.checkpoints)
	if err != nil {
		return err
	}
	if err := archive.Bootstrap(arc, cfg.params.GenesisBlock); err != nil {
		return err
	}
	dcrdLog.Infof("Created empty archive at '%s'", dbPath)
	return nil
}

// backupArchive implements the --backup subcommand: copy the archive's
// backing file tree to dstPath and exit (spec.md §6 "backup").
func backupArchive(cfg *config, dstPath string) error {
	srcPath := archiveDbPath(cfg)
	dcrdLog.Infof("Backing up archive from '%s' to '%s'", srcPath, dstPath)
	return copyPath(srcPath, dstPath)
}

// restoreArchive implements the --restore subcommand: copy srcPath over
// the archive's backing file tree and exit (spec.md §6 "restore"). The
// configured archive location must not already exist: restoring over a
// live archive is refused rather than silently merged.
func restoreArchive(cfg *config, srcPath string) error {
	dstPath := archiveDbPath(cfg)
	if _, err := os.Stat(dstPath); err == nil {
		return errors.New("refusing to restore over an existing archive at " + dstPath)
	}
	if err := os.MkdirAll(cfg.Database.Dir, 0700); err != nil {
		return err
	}
	dcrdLog.Infof("Restoring archive from '%s' to '%s'", srcPath, dstPath)
	return copyPath(srcPath, dstPath)
}

// copyPath recursively copies src to dst, used by both backupArchive and
// restoreArchive since the archive may be a single file (memdb-style) or a
// directory (ffldb-style) depending on DbType.
func copyPath(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return copyFile(src, dst, fi.Mode())
	}

	if err := os.MkdirAll(dst, fi.Mode()); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		s := filepath.Join(src, entry.Name())
		d := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyPath(s, d); err != nil {
				return err
			}
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if err := copyFile(s, d, info.Mode()); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
