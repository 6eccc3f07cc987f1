package fs

import "github.com/pkg/errors"

// ErrNotFound is returned when the file to tail does not exist.
var ErrNotFound = errors.New("log file not found")

// ErrAlreadyTailing is returned when starting a tailer which is running.
var ErrAlreadyTailing = errors.New("already tailing")

// CauseStopped is reported to the sink when tailing got stopped on purpose.
const CauseStopped string = "tailing stopped"
