package config

// TailConfig configures the log tailer and the event dispatcher.
type TailConfig struct {
	// How long to sleep on EOF before reading again.
	PollIntervalMs int `yaml:"PollIntervalMs"`
	// How often to check whether the tailed file got truncated.
	TruncateCheckIntervalMs int `yaml:"TruncateCheckIntervalMs"`
	// Consecutive read errors tolerated before tailing gives up.
	MaxReadRetries int `yaml:"MaxReadRetries"`
	// Lines longer than this get split.
	MaxLineLength int `yaml:"MaxLineLength"`
	// Interval of the dispatcher's deadline sweep. This is the bound on how
	// late an expired wait gets released.
	ExpirySweepMs int `yaml:"ExpirySweepMs"`
	// Wake up the tailer on file system write events instead of polling only.
	FsnotifyEnable bool `yaml:"FsnotifyEnable"`
}

// Create a new default tail configuration.
func newDefaultTailConfig() *TailConfig {
	return &TailConfig{
		PollIntervalMs:          100,
		TruncateCheckIntervalMs: 3000,
		MaxReadRetries:          5,
		MaxLineLength:           1024 * 1024,
		ExpirySweepMs:           50,
		FsnotifyEnable:          true,
	}
}

// Bounded returns a copy of c with non-positive intervals and lengths
// replaced by their defaults. A zero interval would make the loops spin.
func (c *TailConfig) Bounded() *TailConfig {
	bounded := *c
	defaults := newDefaultTailConfig()

	if bounded.PollIntervalMs <= 0 {
		bounded.PollIntervalMs = defaults.PollIntervalMs
	}
	if bounded.ExpirySweepMs <= 0 {
		bounded.ExpirySweepMs = defaults.ExpirySweepMs
	}
	if bounded.TruncateCheckIntervalMs <= 0 {
		bounded.TruncateCheckIntervalMs = defaults.TruncateCheckIntervalMs
	}
	if bounded.MaxLineLength <= 0 {
		bounded.MaxLineLength = defaults.MaxLineLength
	}
	if bounded.MaxReadRetries < 0 {
		bounded.MaxReadRetries = 0
	}
	return &bounded
}
