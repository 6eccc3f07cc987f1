package regex

import (
	"fmt"
	"regexp"
)

// Regex is a compiled regular expression plus a matching mode.
type Regex struct {
	// The original regex string
	regexStr string
	// The Golang regexp object
	re *regexp.Regexp
	// How to interpret a match.
	flag Flag
}

func (r Regex) String() string {
	return fmt.Sprintf("Regex(regexStr:%s,flag:%s,re==nil:%t)", r.regexStr, r.flag, r.re == nil)
}

// NewNoop returns a regex matching everything.
func NewNoop() Regex {
	return Regex{flag: Noop}
}

// New compiles regexStr. An empty string gives a Noop regex.
func New(regexStr string, flag Flag) (Regex, error) {
	if regexStr == "" || flag == Noop {
		return NewNoop(), nil
	}
	if flag == Undefined {
		return Regex{}, fmt.Errorf("unable to create regex '%s' with undefined flag", regexStr)
	}

	r := Regex{
		regexStr: regexStr,
		flag:     flag,
	}

	expr := regexStr
	if flag == IgnoreCase {
		expr = "(?i)" + regexStr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return r, err
	}

	r.re = re
	return r, nil
}

// MatchString reports whether str matches.
func (r Regex) MatchString(str string) bool {
	switch r.flag {
	case Default, IgnoreCase:
		return r.re.MatchString(str)
	case Invert:
		return !r.re.MatchString(str)
	case Noop:
		return true
	default:
		return false
	}
}

// Match reports whether b matches.
func (r Regex) Match(b []byte) bool {
	switch r.flag {
	case Default, IgnoreCase:
		return r.re.Match(b)
	case Invert:
		return !r.re.Match(b)
	case Noop:
		return true
	default:
		return false
	}
}

// Pattern returns the original regex string.
func (r Regex) Pattern() string {
	return r.regexStr
}
