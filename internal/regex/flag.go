package regex

import "fmt"

// Flag tells how a regex is interpreted.
type Flag int

const (
	// Undefined flag set
	Undefined Flag = iota
	// Default matches positively and case sensitive.
	Default Flag = iota
	// IgnoreCase matches positively regardless of case.
	IgnoreCase Flag = iota
	// Invert matches lines the regex does not match.
	Invert Flag = iota
	// Noop matches everything.
	Noop Flag = iota
)

// NewFlag parses a flag as written in the config file. An empty string is
// the default flag.
func NewFlag(str string) (Flag, error) {
	switch str {
	case "", "default":
		return Default, nil
	case "ignorecase":
		return IgnoreCase, nil
	case "invert":
		return Invert, nil
	case "noop":
		return Noop, nil
	default:
		return Undefined, fmt.Errorf("unknown regex flag '%s'", str)
	}
}

func (f Flag) String() string {
	switch f {
	case Default:
		return "default"
	case IgnoreCase:
		return "ignorecase"
	case Invert:
		return "invert"
	case Noop:
		return "noop"
	default:
		return "undefined"
	}
}
