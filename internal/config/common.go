package config

// CommonConfig stores configuration keys shared by all dnode components.
type CommonConfig struct {
	// The logger to use, one of
	//   stdout: only log to stdout
	//   file: only log to a file in LogDir
	//   fout: log to both, stdout and a file
	//   none: don't log at all
	Logger string `yaml:"Logger"`
	// The log level (e.g. info, debug, trace).
	LogLevel string `yaml:"LogLevel"`
	// The log rotation strategy, "daily" or "signal".
	LogRotation string `yaml:"LogRotation"`
	// The log directory
	LogDir string `yaml:"LogDir"`
}

// Create a new default configuration.
func newDefaultCommonConfig() *CommonConfig {
	return &CommonConfig{
		Logger:      "stdout",
		LogLevel:    "info",
		LogRotation: "signal",
		LogDir:      "log",
	}
}
