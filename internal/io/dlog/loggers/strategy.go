package loggers

import (
	"os"
	"path/filepath"
	"strings"
)

// Rotation is the actual strategy used for log rotation..
type Rotation int

const (
	// DailyRotation tells dnode to rotate its logs on a daily basis or on SIGHUP.
	DailyRotation Rotation = iota
	// SignalRotation tells dnode to rotate its logs only on SIGHUP.
	SignalRotation Rotation = iota
)

// Strategy describes where and how log files are written.
type Strategy struct {
	// Rotation is the actual rotation strategy used.
	Rotation Rotation
	// FileBase can be a name (e.g. "dnode") when signal rotation is used.
	FileBase string
	// LogDir is the directory log files are written to.
	LogDir string
}

// NewStrategy returns the stratey based on its name.
func NewStrategy(name, logDir string) Strategy {
	switch strings.ToLower(name) {
	case "daily":
		return Strategy{DailyRotation, "", logDir}
	default:
		return Strategy{SignalRotation, filepath.Base(os.Args[0]), logDir}
	}
}
