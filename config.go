// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/chaincfg/v3"
	"github.com/decred/dcrd/dcrutil/v4"

	"github.com/bcnchain/bcnoded/internal/version"
	"github.com/bcnchain/bcnoded/sampleconfig"
)

const (
	defaultConfigFilename   = "bcnoded.conf"
	defaultDataDirname      = "data"
	defaultLogLevel         = "info"
	defaultLogDirname       = "logs"
	defaultLogFilename      = "bcnoded.log"
	defaultMaxLogRolls      = 10
	defaultDbType           = "ffldb"
	defaultThreads          = 1
	defaultMaximumBacklog   = 8
	defaultBlockLatency     = 30 * time.Second
	defaultSubsidyInterval  = 6144
	defaultInitialSubsidy   = 5000000000
	defaultProtocolVersion  = 70016
	defaultFilterEnable     = true

	// envPrefix is prepended to every recognized environment variable, per
	// spec.md §6 "Environment variables": BN_.
	envPrefix = "BN_"

	// appName is the name used in usage output and as the default
	// application directory's leaf name.
	appName = "bcnoded"
)

var (
	defaultHomeDir    = dcrutil.AppDataDir(appName, false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// nodeConfig groups the node.* settings recognized per spec.md §6.
type nodeConfig struct {
	HeadersFirst        bool          `long:"headersfirst" description:"Download headers before requesting block bodies"`
	Threads             int           `long:"threads" description:"Number of network I/O threads" default:"1"`
	MaximumConcurrency  int64         `long:"maximumconcurrency" description:"Validate chaser's maximum in-flight block count" default:"8"`
	DelayInbound        bool          `long:"delayinbound" description:"Delay accepting inbound connections until outbound peers are established"`
	BlockLatency        time.Duration `long:"blocklatency" description:"Timeout waiting for a non-empty headers response from a stale peer" default:"30s"`
}

// networkConfig groups the network.* settings recognized per spec.md §6.
type networkConfig struct {
	ProtocolMaximum uint32   `long:"protocolmaximum" description:"Maximum wire protocol version to negotiate" default:"70016"`
	WitnessNode     bool     `long:"witnessnode" description:"Request and relay segregated witness data"`
	Checkpoints     string   `long:"addcheckpoint" description:"Additional checkpoints as height:hash pairs, comma separated"`
	DebugFile       string   `long:"debugfile" description:"File to which debug-level logs are written (rotated)"`
	ErrorFile       string   `long:"errorfile" description:"File to which error-level logs are written (rotated)"`
	Listeners       []string `long:"listen" description:"Add an interface/port to listen for connections"`
	ConnectPeers    []string `long:"connect" description:"Connect only to the specified peers at startup"`
	AddPeers        []string `long:"addpeer" description:"Add a peer to connect with at startup"`
	Proxy           string   `long:"proxy" description:"Connect via SOCKS5 proxy (eg. 127.0.0.1:9050)"`
}

// databaseConfig groups the database.* settings recognized per spec.md §6.
type databaseConfig struct {
	Dir          string `long:"dbdir" description:"Directory for the content-addressed archive" default:"data"`
	FilterEnable bool   `long:"filterenable" description:"Build and serve compact filters" default:"true"`
}

// bitcoinConfig groups the bitcoin.* settings recognized per spec.md §6.
type bitcoinConfig struct {
	SubsidyIntervalBlocks int64 `long:"subsidyintervalblocks" description:"Blocks between subsidy halvings" default:"6144"`
	InitialSubsidy        int64 `long:"initialsubsidy" description:"Block subsidy in atoms before any halving" default:"5000000000"`
	TestNet               bool  `long:"testnet" description:"Use the test network"`
	RegNet                bool  `long:"regnet" description:"Use the regression test network"`
}

// config defines the configuration options for bcnoded. See loadConfig for
// details on the configuration load process.
type config struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	HomeDir     string `short:"A" long:"appdata" description:"Path to application home directory"`
	DataDir     string `short:"b" long:"datadir" description:"Directory to store the archive"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	NoFileLogging bool `long:"nofilelogging" description:"Disable file logging"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}" default:"info"`
	DbType      string `long:"dbtype" description:"Archive backend to use" default:"ffldb"`
	Profile     string `long:"profile" description:"Enable HTTP profiling on given [addr:]port"`
	CPUProfile  string `long:"cpuprofile" description:"Write CPU profile to the specified file"`
	MemProfile  string `long:"memprofile" description:"Write mem profile to the specified file"`

	// Subcommand selectors, mutually exclusive per spec.md §6. --help is
	// not listed here: flags.Default already registers -h/--help and
	// reports it through the flags.ErrHelp path above.
	Settings  bool `long:"settings" description:"Print the effective configuration and exit"`
	InitChain bool `long:"initchain" description:"Create the archive directory and write the configured genesis block, then exit"`
	Hardware  bool `long:"hardware" description:"Print CPU feature availability and exit"`
	NewStore  bool `long:"newstore" description:"Create an empty archive at database.dir and exit"`
	Backup    string `long:"backup" description:"Back up the archive to the given path and exit"`
	Restore   string `long:"restore" description:"Restore the archive from the given path and exit"`

	Node     nodeConfig     `group:"Node Options" namespace:"node"`
	Network  networkConfig  `group:"Network Options" namespace:"network"`
	Database databaseConfig `group:"Database Options" namespace:"database"`
	Bitcoin  bitcoinConfig  `group:"Bitcoin Options" namespace:"bitcoin"`

	// params holds the resolved chaincfg.Params selected by Bitcoin.TestNet/
	// Bitcoin.RegNet, computed by loadConfig.
	params *params

	// checkpoints is parsed from Network.Checkpoints by loadConfig.
	checkpoints map[int64]chainhash.Hash

	// listeners is resolved from Network.Listeners by loadConfig, falling
	// back to the network's default port on all interfaces.
	listeners []string
}

// params bundles a *chaincfg.Params with the subdirectory name used to keep
// each network's archive separate on disk, mirroring the teacher's own
// netName/activeNetParams split.
type params struct {
	*chaincfg.Params
	subDirName string
}

// errSuppressUsage is returned from loadConfig to signal that the usage
// message should not be printed (e.g. because a subcommand already printed
// its own help or error).
type errSuppressUsage struct{ error }

// supportedSubsystems returns a sorted slice of the supported subsystem
// identifiers, for validating a user-specified --debuglevel spec.
func supportedSubsystems() []string {
	ids := make([]string, 0, len(subsystemLoggers))
	for id := range subsystemLoggers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// parseAndSetDebugLevels attempts to parse the specified debug level and
// set the levels accordingly. An appropriate error is returned if anything
// is invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	levels := strings.Split(debugLevel, ",")
	if len(levels) == 1 && !strings.Contains(levels[0], "=") {
		setLogLevels(levels[0])
		return nil
	}

	for _, v := range levels {
		fields := strings.Split(v, "=")
		if len(fields) != 2 {
			return fmt.Errorf("the specified debug level contains an "+
				"invalid subsystem/level pair [%v]", v)
		}
		subsysID, level := fields[0], fields[1]
		if _, ok := subsystemLoggers[subsysID]; !ok {
			return fmt.Errorf("the specified subsystem [%v] is invalid -- "+
				"supported subsystems are %v", subsysID, supportedSubsystems())
		}
		setLogLevel(subsysID, level)
	}
	return nil
}

// netParams resolves the network selection flags to a *params, defaulting
// to mainnet when neither TestNet nor RegNet is set.
func netParams(cfg *config) (*params, error) {
	switch {
	case cfg.Bitcoin.TestNet && cfg.Bitcoin.RegNet:
		return nil, fmt.Errorf("the testnet and regnet params can't be " +
			"used together -- choose one")
	case cfg.Bitcoin.TestNet:
		return &params{Params: &chaincfg.TestNet3Params, subDirName: "testnet"}, nil
	case cfg.Bitcoin.RegNet:
		return &params{Params: chaincfg.RegNetParams(), subDirName: "regnet"}, nil
	default:
		return &params{Params: chaincfg.MainNetParams(), subDirName: "mainnet"}, nil
	}
}

// parseCheckpoints parses a comma separated list of "height:hash" pairs
// into the map the archive's IsUnderCheckpoint/PushConfirmed logic expects,
// on top of whatever chaincfg.Params.Checkpoints already supplies.
func parseCheckpoints(s string, base []chaincfg.Checkpoint) (map[int64]chainhash.Hash, error) {
	out := make(map[int64]chainhash.Hash, len(base))
	for _, c := range base {
		out[c.Height] = *c.Hash
	}
	if s == "" {
		return out, nil
	}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed checkpoint %q", pair)
		}
		height, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed checkpoint height %q: %w", parts[0], err)
		}
		hash, err := chainhash.NewHashFromStr(parts[1])
		if err != nil {
			return nil, fmt.Errorf("malformed checkpoint hash %q: %w", parts[1], err)
		}
		out[height] = *hash
	}
	return out, nil
}

// resolveListeners returns cfg.Network.Listeners if non-empty, otherwise a
// single wildcard listener on the selected network's default port.
func resolveListeners(cfg *config) []string {
	if len(cfg.Network.Listeners) != 0 {
		return cfg.Network.Listeners
	}
	return []string{net.JoinHostPort("", cfg.params.DefaultPort)}
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(defaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	return filepath.Clean(os.Expand(path, os.Getenv))
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	switch logLevel {
	case "trace", "debug", "info", "warn", "error", "critical":
		return true
	}
	return false
}

// loadConfig initializes and parses the config using a config file and
// command line options, following spec.md §6: CLI flags take precedence
// over the config file, which takes precedence over the BN_-prefixed
// environment variables and built-in defaults.
func loadConfig() (*config, []string, error) {
	cfg := config{
		HomeDir:    defaultHomeDir,
		ConfigFile: defaultConfigFile,
		DataDir:    defaultDataDir,
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
		DbType:     defaultDbType,
		Node: nodeConfig{
			Threads:            defaultThreads,
			MaximumConcurrency: defaultMaximumBacklog,
			BlockLatency:       defaultBlockLatency,
		},
		Network: networkConfig{
			ProtocolMaximum: defaultProtocolVersion,
		},
		Database: databaseConfig{
			Dir:          defaultDataDirname,
			FilterEnable: defaultFilterEnable,
		},
		Bitcoin: bitcoinConfig{
			SubsidyIntervalBlocks: defaultSubsidyInterval,
			InitialSubsidy:        defaultInitialSubsidy,
		},
	}

	// Pre-parse the command line options to see if an alternative config
	// file, the help flag, or the version flag was specified. Any errors
	// aside from the help message are silently ignored here since they will
	// be caught by the final parse below.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag|flags.PassDoubleDash)
	_, err := preParser.Parse()
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			return nil, nil, errSuppressUsage{err}
		}
	}

	if preCfg.ShowVersion {
		fmt.Printf("%s version %s (Go version %s)\n", appName, version.String(), runtime.Version())
		return nil, nil, errSuppressUsage{versionRequested{}}
	}

	// BN_CONFIG overrides the default config file path (spec.md §6
	// "BN_CONFIG selects an alternative config file path").
	if envPath := os.Getenv(envPrefix + "CONFIG"); envPath != "" {
		cfg.ConfigFile = envPath
	}
	if preCfg.ConfigFile != defaultConfigFile {
		cfg.ConfigFile = preCfg.ConfigFile
	}

	// If the config file does not exist, create it from the documented
	// sample so the user has a starting point to edit, then proceed with
	// defaults for this run.
	if _, statErr := os.Stat(cfg.ConfigFile); os.IsNotExist(statErr) {
		if err := createDefaultConfigFile(cfg.ConfigFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating a default config file: %v\n", err)
		}
	}

	// Load additional config from file, ignoring ErrNotFound: a missing
	// config file is not an error, only the sentinel for "use defaults".
	parser := flags.NewParser(&cfg, flags.Default)
	if err := flags.NewIniParser(parser).ParseFile(cfg.ConfigFile); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, nil, err
		}
	}

	// Parse command line options again to ensure they take precedence over
	// the config file.
	remainingArgs, err := parser.Parse()
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			return nil, nil, errSuppressUsage{err}
		}
		return nil, nil, err
	}

	cfg.HomeDir = cleanAndExpandPath(cfg.HomeDir)
	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	if !validLogLevel(cfg.DebugLevel) && !strings.Contains(cfg.DebugLevel, "=") {
		return nil, nil, fmt.Errorf("the specified debug level [%v] is invalid",
			cfg.DebugLevel)
	}

	netp, err := netParams(&cfg)
	if err != nil {
		return nil, nil, err
	}
	cfg.params = netp
	cfg.DataDir = filepath.Join(cfg.DataDir, netp.subDirName)
	cfg.Database.Dir = filepath.Join(cfg.DataDir, cfg.Database.Dir)

	checkpoints, err := parseCheckpoints(cfg.Network.Checkpoints, netp.Params.Checkpoints)
	if err != nil {
		return nil, nil, err
	}
	cfg.checkpoints = checkpoints
	cfg.listeners = resolveListeners(&cfg)

	mutuallyExclusive := 0
	for _, set := range []bool{cfg.Settings, cfg.InitChain, cfg.Hardware,
		cfg.NewStore, cfg.Backup != "", cfg.Restore != ""} {
		if set {
			mutuallyExclusive++
		}
	}
	if mutuallyExclusive > 1 {
		return nil, nil, fmt.Errorf("--settings, --initchain, " +
			"--hardware, --newstore, --backup, and --restore are mutually exclusive")
	}

	return &cfg, remainingArgs, nil
}

// versionRequested is a sentinel error used to signal dcrdMain that
// --version was given and the version banner has already been arranged to
// print, so no usage message should follow.
type versionRequested struct{}

func (versionRequested) Error() string { return "version requested" }

// settingsString renders the effective configuration for the --settings
// subcommand, matching the teacher's own "show config" debug aid.
func settingsString(cfg *config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "homedir: %s\n", cfg.HomeDir)
	fmt.Fprintf(&b, "datadir: %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "network: %s\n", cfg.params.Name)
	fmt.Fprintf(&b, "dbtype: %s\n", cfg.DbType)
	fmt.Fprintf(&b, "database.dir: %s\n", cfg.Database.Dir)
	fmt.Fprintf(&b, "database.filterenable: %t\n", cfg.Database.FilterEnable)
	fmt.Fprintf(&b, "node.headersfirst: %t\n", cfg.Node.HeadersFirst)
	fmt.Fprintf(&b, "node.threads: %d\n", cfg.Node.Threads)
	fmt.Fprintf(&b, "node.maximumconcurrency: %d\n", cfg.Node.MaximumConcurrency)
	fmt.Fprintf(&b, "node.blocklatency: %s\n", cfg.Node.BlockLatency)
	fmt.Fprintf(&b, "network.protocolmaximum: %d\n", cfg.Network.ProtocolMaximum)
	fmt.Fprintf(&b, "network.witnessnode: %t\n", cfg.Network.WitnessNode)
	fmt.Fprintf(&b, "network.listeners: %s\n", strings.Join(cfg.listeners, ","))
	fmt.Fprintf(&b, "bitcoin.subsidyintervalblocks: %d\n", cfg.Bitcoin.SubsidyIntervalBlocks)
	fmt.Fprintf(&b, "bitcoin.initialsubsidy: %d\n", cfg.Bitcoin.InitialSubsidy)
	fmt.Fprintf(&b, "checkpoints: %d configured\n", len(cfg.checkpoints))
	return b.String()
}

// createDefaultConfigFile writes the embedded, commented sample
// configuration to destPath, creating any missing parent directory. It
// mirrors the teacher's own first-run config scaffolding.
func createDefaultConfigFile(destPath string) error {
	destDir, _ := filepath.Split(destPath)
	if destDir != "" {
		if err := os.MkdirAll(destDir, 0700); err != nil {
			return err
		}
	}
	return os.WriteFile(destPath, []byte(sampleconfig.Dcrd()), 0600)
}
