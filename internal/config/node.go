package config

// NodeConfig describes the node process under test and the markers it
// prints into its log.
type NodeConfig struct {
	// Directory the node gets built in.
	SourceDir string `yaml:"SourceDir"`
	// Command (and arguments) building the node binary.
	BuildCommand []string `yaml:"BuildCommand"`
	// Path of the node binary.
	Binary string `yaml:"Binary"`
	// Arguments passed to the node binary.
	Args []string `yaml:"Args"`
	// The node's data directory, wiped on reset.
	DataDir string `yaml:"DataDir"`
	// The log file the node output is written to and tailed from.
	LogFile string `yaml:"LogFile"`
	// Directory compressed logs are archived to on reset.
	ArchiveDir string `yaml:"ArchiveDir"`
	// The node's JSON-RPC endpoint.
	RPCEndpoint string `yaml:"RPCEndpoint"`
	// Banner printed once when the node begins producing blocks.
	MiningBanner string `yaml:"MiningBanner"`
	// Line fragment reporting a sealed transaction, %s is the lowercase
	// hex transaction hash.
	SealedTemplate string `yaml:"SealedTemplate"`
	// Regular expression matching the periodic liveness line.
	HeartbeatPattern string `yaml:"HeartbeatPattern"`
	// How to interpret HeartbeatPattern: default, ignorecase or invert.
	HeartbeatFlag string `yaml:"HeartbeatFlag"`
	// Seconds to wait for the node to come up before giving up.
	StartupTimeoutS int `yaml:"StartupTimeoutS"`
}

// Create a new default node configuration.
func newDefaultNodeConfig() *NodeConfig {
	return &NodeConfig{
		SourceDir:        ".",
		DataDir:          "data",
		LogFile:          "node.log",
		ArchiveDir:       "archive",
		RPCEndpoint:      "http://127.0.0.1:8545",
		MiningBanner:     "Mining started",
		SealedTemplate:   "sealed transaction %s",
		HeartbeatPattern: "heartbeat",
		HeartbeatFlag:    "default",
		StartupTimeoutS:  60,
	}
}
