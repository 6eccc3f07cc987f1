package config

import (
	"fmt"
	"os"
	"strings"
)

// Setup the dnode configuration. Sources are applied in order: defaults,
// config file, environment and finally the command line arguments.
func Setup(args *Args) error {
	in := newInitializer()

	if err := in.parseConfig(args); err != nil {
		return err
	}
	in.readEnvironmentVars()
	in.transform(args)

	// Assign pointers to global variables, so that we can access the
	// configuration from any place of the program.
	Common = in.Common
	Node = in.Node
	Tail = in.Tail
	Server = in.Server

	return nil
}

func (in *initializer) parseConfig(args *Args) error {
	if strings.ToLower(args.ConfigFile) == NoConfigFile {
		return nil
	}

	if args.ConfigFile != "" {
		return in.parseSpecificConfig(args.ConfigFile)
	}

	var paths []string
	paths = append(paths, "./cfg/dnode.json", "./cfg/dnode.yaml")
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, fmt.Sprintf("%s/.config/dnode/dnode.json", homeDir))
		paths = append(paths, fmt.Sprintf("%s/.config/dnode/dnode.yaml", homeDir))
	}
	for _, configPath := range paths {
		if _, err := os.Stat(configPath); !os.IsNotExist(err) {
			return in.parseSpecificConfig(configPath)
		}
	}

	return nil
}

// There are some options which can be set by environment variable.
func (in *initializer) readEnvironmentVars() {
	if v := os.Getenv("DNODE_LOG_LEVEL"); v != "" {
		in.Common.LogLevel = v
	}
	if v := os.Getenv("DNODE_LOG_DIR"); v != "" {
		in.Common.LogDir = v
	}
	if v := os.Getenv("DNODE_NODE_LOG_FILE"); v != "" {
		in.Node.LogFile = v
	}
	if Env("DNODE_NO_FSNOTIFY") {
		in.Tail.FsnotifyEnable = false
	}
}

func (in *initializer) transform(args *Args) {
	if args.LogLevel != "" && args.LogLevel != DefaultLogLevel {
		in.Common.LogLevel = args.LogLevel
	}
	if args.LogDir != "" {
		in.Common.LogDir = args.LogDir
	}
	if args.Logger != "" {
		in.Common.Logger = args.Logger
	}
	if args.LogFile != "" {
		in.Node.LogFile = args.LogFile
	}
	if args.RPCEndpoint != "" {
		in.Node.RPCEndpoint = args.RPCEndpoint
	}
	if args.Listen != "" {
		in.Server.ListenAddress = args.Listen
	}
	if args.TimeoutS == 0 {
		args.TimeoutS = DefaultTimeoutS
	}

	// Setup log directory.
	if strings.Contains(in.Common.LogDir, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			in.Common.LogDir = strings.ReplaceAll(in.Common.LogDir, "~/",
				fmt.Sprintf("%s/", homeDir))
		}
	}

	in.Tail = in.Tail.Bounded()
	in.Server = in.Server.Bounded()
}
