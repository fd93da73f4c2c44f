// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
bcnoded runs the chain assembly core of a Bitcoin-style node: the header,
check, validate, and confirm chasers that turn announced headers and block
bodies into a confirmed chain, backed by a content-addressed archive and
driven entirely through an in-process event bus.

The default options are sane for most users. This means bcnoded will work
'out of the box' for most users. However, there are also a wide variety of
flags that can be used to control it.

The following section provides a usage overview which enumerates the flags.
An interesting point to note is that the long form of all of these options
(except -C) can be specified in a configuration file that is automatically
parsed when bcnoded starts up. By default, the configuration file is located
at ~/.bcnoded/bcnoded.conf on POSIX-style operating systems and
%LOCALAPPDATA%\bcnoded\bcnoded.conf on Windows. The -C (--configfile) flag, as
shown below, can be used to override this location. The BN_CONFIG
environment variable selects an alternative configuration file path,
taking precedence over the default but not over an explicit -C flag.

Usage:

	bcnoded [OPTIONS]

Application Options:

	-V, --version                Display version information and exit
	-A, --appdata=               Path to application home directory
	-C, --configfile=            Path to configuration file
	-b, --datadir=               Directory to store the archive
	    --logdir=                Directory to log output
	    --nofilelogging          Disable file logging
	    --dbtype=                Archive backend to use (default: ffldb)
	-d, --debuglevel=            Logging level for all subsystems {trace,
	                             debug, info, warn, error, critical} -- may
	                             also specify
	                             <subsystem>=<level>,<subsystem2>=<level>,...
	                             to set the level for individual subsystems
	    --profile=               Enable HTTP profiling on given [addr:]port
	    --cpuprofile=            Write CPU profile to the specified file
	    --memprofile=            Write mem profile to the specified file

Subcommands (mutually exclusive, print a result and exit without starting
the node):

	    --settings               Print the effective configuration and exit
	    --initchain              Create the archive directory and write the
	                             configured genesis block, then exit
	    --hardware               Print CPU feature availability and exit
	    --newstore               Create an empty archive at database.dir and
	                             exit
	    --backup=                Back up the archive to the given path and
	                             exit
	    --restore=               Restore the archive from the given path and
	                             exit

Node Options:

	    --node.headersfirst      Download headers before requesting block
	                             bodies
	    --node.threads=          Number of network I/O threads (default: 1)
	    --node.maximumconcurrency=
	                             Validate chaser's maximum in-flight block
	                             count (default: 8)
	    --node.delayinbound      Delay accepting inbound connections until
	                             outbound peers are established
	    --node.blocklatency=     Timeout waiting for a non-empty headers
	                             response from a stale peer (default: 30s)

Network Options:

	    --network.protocolmaximum=
	                             Maximum wire protocol version to negotiate
	                             (default: 70016)
	    --network.witnessnode    Request and relay segregated witness data
	    --network.addcheckpoint= Additional checkpoints as height:hash pairs,
	                             comma separated
	    --network.debugfile=     File to which debug-level logs are written
	    --network.errorfile=     File to which error-level logs are written
	    --network.listen=        Add an interface/port to listen for
	                             connections
	    --network.connect=       Connect only to the specified peers at
	                             startup
	    --network.addpeer=       Add a peer to connect with at startup
	    --network.proxy=         Connect via SOCKS5 proxy (eg.
	                             127.0.0.1:9050)

Database Options:

	    --database.dbdir=        Directory for the content-addressed archive
	    --database.filterenable  Build and serve compact filters (default:
	                             true)

Bitcoin Options:

	    --bitcoin.subsidyintervalblocks=
	                             Blocks between subsidy halvings (default:
	                             6144)
	    --bitcoin.initialsubsidy=
	                             Block subsidy in atoms before any halving
	                             (default: 5000000000)
	    --bitcoin.testnet        Use the test network
	    --bitcoin.regnet         Use the regression test network

Help Options:

	-h, --help                   Show this help message
*/
package main
