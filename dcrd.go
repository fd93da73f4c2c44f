// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"

	"github.com/bcnchain/bcnoded/internal/archive"
	"github.com/bcnchain/bcnoded/internal/limits"
	"github.com/bcnchain/bcnoded/internal/version"
)

var cfg *config

// dcrdMain is the real main function for bcnoded. It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is
// called.
func dcrdMain() error {
	// Load configuration and parse command line. This function also
	// initializes logging and configures it accordingly.
	tcfg, _, err := loadConfig()
	if err != nil {
		var e errSuppressUsage
		if !errors.As(err, &e) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintf(os.Stderr, "Use %s --help to show usage\n", appName)
		}
		return err
	}
	cfg = tcfg
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()
	initSubsystems()
	if cfg.DebugLevel != "" {
		if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
	}
	if !cfg.NoFileLogging && cfg.Network.DebugFile != "" {
		if err := initLogRotator(cfg.Network.DebugFile, defaultMaxLogRolls); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
	}

	// A handful of subcommands print something and exit immediately,
	// without ever touching the archive or the network (spec.md §6 "CLI
	// surface").
	switch {
	case cfg.Settings:
		fmt.Print(settingsString(cfg))
		return nil
	case cfg.Hardware:
		fmt.Print(hardwareReport())
		return nil
	case cfg.InitChain:
		return runInitChain(cfg)
	case cfg.NewStore:
		return newStore(cfg)
	case cfg.Backup != "":
		return backupArchive(cfg, cfg.Backup)
	case cfg.Restore != "":
		return restoreArchive(cfg, cfg.Restore)
	}

	// Get a context that will be canceled when a shutdown signal has been
	// triggered either from an OS signal such as SIGINT (Ctrl+C) or from
	// another subsystem.
	ctx := shutdownListener()
	defer dcrdLog.Info("Shutdown complete")

	dcrdLog.Infof("Version %s (Go version %s %s/%s)", version.String(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
	dcrdLog.Infof("Home dir: %s", cfg.HomeDir)
	if cfg.NoFileLogging {
		dcrdLog.Info("File logging disabled")
	}

	// Block and transaction processing can cause bursty allocations. This
	// limits the garbage collector from excessively overallocating during
	// bursts by tweaking the target GC percent and soft memory limit
	// depending on the version of the Go runtime.
	if limits.SupportsMemoryLimit {
		const memLimitBase = (15 * (1 << 30)) / 10 // 1.5 GiB
		limits.SetMemoryLimit(memLimitBase)
	} else {
		debug.SetGCPercent(20)
	}

	// Enable http profile server if requested. Note that since the server
	// may be started now or dynamically started and stopped later, the
	// stop call is always deferred to ensure it is always stopped during
	// process shutdown.
	var profiler profileServer
	defer profiler.Stop()
	if cfg.Profile != "" {
		const allowNonLoopback = true
		if err := profiler.Start(cfg.Profile, allowNonLoopback); err != nil {
			dcrdLog.Warnf("unable to start profile server: %v", err)
			return err
		}
	}

	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			dcrdLog.Errorf("Unable to create cpu profile: %v", err)
			return err
		}
		pprof.StartCPUProfile(f)
		defer f.Close()
		defer pprof.StopCPUProfile()
	}

	if cfg.MemProfile != "" {
		f, err := os.Create(cfg.MemProfile)
		if err != nil {
			dcrdLog.Errorf("Unable to create mem profile: %v", err)
			return err
		}
		defer f.Close()
		defer pprof.WriteHeapProfile(f)
	}

	if shutdownRequested(ctx) {
		return nil
	}

	n, err := newNode(cfg)
	if err != nil {
		dcrdLog.Errorf("Unable to start node: %v", err)
		return err
	}

	if shutdownRequested(ctx) {
		return n.close()
	}

	if err := n.run(ctx); err != nil {
		srvrLog.Errorf("%v", err)
		return err
	}
	srvrLog.Infof("Node shutdown complete")
	return nil
}

// runInitChain implements the --initchain subcommand: it creates
// database.dir if necessary and writes the configured network's genesis
// block through the archive's bootstrap path, then exits (spec.md §6
// "initchain").
func runInitChain(cfg *config) error {
	db, err := openOrCreateArchiveDB(cfg)
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
	dcrdLog.Infof("Initialized chain for network %q at %s", cfg.params.Name, cfg.Database.Dir)
	return nil
}

func main() {
	if err := dcrdMain(); err != nil {
		os.Exit(1)
	}
}
