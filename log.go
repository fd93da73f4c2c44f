// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"

	"github.com/bcnchain/bcnoded/internal/archive"
	"github.com/bcnchain/bcnoded/internal/chainbus"
	"github.com/bcnchain/bcnoded/internal/chase"
	"github.com/bcnchain/bcnoded/internal/peeradaptor"

	"github.com/decred/dcrd/addrmgr/v3"
	"github.com/decred/dcrd/connmgr/v3"
	"github.com/decred/dcrd/database/v3"
	"github.com/decred/dcrd/peer/v3"
)

// logWriter implements an io.Writer that outputs to both standard output
// and the write-end pipe of an initialized log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

// backendLog is the logging backend used to create all subsystem loggers.
// The default output is stdout, but can be changed by calling
// initLogRotator to also write to a rotating log file.
var backendLog = slog.NewBackend(logWriter{})

// logRotator is one of the logging outputs. It should be closed on
// application shutdown.
var logRotator *rotator.Rotator

// dcrdLog is the top-level logger used directly by the root package
// (dcrd.go, blockdb.go, signal.go, profiler.go).
var dcrdLog = backendLog.Logger("DCRD")

// srvrLog is the node/server wiring logger: connection manager, address
// manager, and peer lifecycle.
var srvrLog = backendLog.Logger("SRVR")

// subsystemLoggers maps each subsystem identifier to its SubsystemLogger.
// New subsystems must be added to this map as well as the initSubsystems
// function below.
var subsystemLoggers = map[string]slog.Logger{
	"DCRD": dcrdLog,
	"SRVR": srvrLog,
	"ARCH": backendLog.Logger("ARCH"),
	"CHAS": backendLog.Logger("CHAS"),
	"BUS ": backendLog.Logger("BUS "),
	"PADP": backendLog.Logger("PADP"),
	"PEER": backendLog.Logger("PEER"),
	"CMGR": backendLog.Logger("CMGR"),
	"AMGR": backendLog.Logger("AMGR"),
	"DTBS": backendLog.Logger("DTBS"),
}

// initSubsystems wires each subsystem's package-scoped logger to this
// binary's backend, the same UseLogger fan-out the teacher's root log.go
// performs for every imported package. The four chasers share a single
// "CHAS" logger, the same way the teacher's own blockchain package shares
// one package-scoped logger across every rule file.
func initSubsystems() {
	archive.UseLogger(subsystemLoggers["ARCH"])
	chase.UseLogger(subsystemLoggers["CHAS"])
	chainbus.UseLogger(subsystemLoggers["BUS "])
	peeradaptor.UseLogger(subsystemLoggers["PADP"])
	peer.UseLogger(subsystemLoggers["PEER"])
	connmgr.UseLogger(subsystemLoggers["CMGR"])
	addrmgr.UseLogger(subsystemLoggers["AMGR"])
	database.UseLogger(subsystemLoggers["DTBS"])
}

// initLogRotator initializes the logging rotator to write logs to logFile
// and create roll files in the same directory.  It must be called before
// the package-global log rotator variables are used.
func initLogRotator(logFile string, maxRolls int) error {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, maxRolls)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	logRotator = r
	return nil
}

// setLogLevel sets the logging level for provided subsystem.  Invalid
// subsystems are ignored.  Uninitialized subsystems are dynamically created
// as needed.
func setLogLevel(subsystemID string, logLevel string) {
	// Ignore invalid subsystems.
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := slog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// setLogLevels sets the log level for all subsystems to the passed level.
func setLogLevels(logLevel string) {
	// Configure all sub-systems with the new logging level.  Dynamically
	// create loggers as needed.
	for subsystemID := range subsystemLoggers {
		setLogLevel(subsystemID, logLevel)
	}
}

// directionString is a helper function that returns a string that
// represents the direction of a connection (inbound or outbound).
func directionString(inbound bool) string {
	if inbound {
		return "inbound"
	}
	return "outbound"
}
