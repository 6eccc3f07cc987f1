package config

import (
	"fmt"
	"strings"
)

// Default values of command line arguments.
const (
	DefaultLogLevel string = "info"
	DefaultTimeoutS int    = 60
)

// Args is a helper struct to summarize the command line arguments.
type Args struct {
	BuildNode   bool
	ConfigFile  string
	Listen      string
	LogDir      string
	LogFile     string
	Logger      string
	LogLevel    string
	ResetNode   bool
	RPCEndpoint string
	StartNode   bool
	TimeoutS    int
	Waits       []string
}

func (a *Args) String() string {
	var sb strings.Builder

	sb.WriteString("Args(")
	sb.WriteString(fmt.Sprintf("%s:%v,", "BuildNode", a.BuildNode))
	sb.WriteString(fmt.Sprintf("%s:%v,", "ConfigFile", a.ConfigFile))
	sb.WriteString(fmt.Sprintf("%s:%v,", "Listen", a.Listen))
	sb.WriteString(fmt.Sprintf("%s:%v,", "LogDir", a.LogDir))
	sb.WriteString(fmt.Sprintf("%s:%v,", "LogFile", a.LogFile))
	sb.WriteString(fmt.Sprintf("%s:%v,", "LogLevel", a.LogLevel))
	sb.WriteString(fmt.Sprintf("%s:%v,", "Logger", a.Logger))
	sb.WriteString(fmt.Sprintf("%s:%v,", "ResetNode", a.ResetNode))
	sb.WriteString(fmt.Sprintf("%s:%v,", "RPCEndpoint", a.RPCEndpoint))
	sb.WriteString(fmt.Sprintf("%s:%v,", "StartNode", a.StartNode))
	sb.WriteString(fmt.Sprintf("%s:%v,", "TimeoutS", a.TimeoutS))
	sb.WriteString(fmt.Sprintf("%s:%v", "Waits", a.Waits))
	sb.WriteString(")")

	return sb.String()
}

// WaitList is a flag.Value collecting repeated -wait flags.
type WaitList []string

func (w *WaitList) String() string { return strings.Join(*w, ",") }

// Set appends another wait expression.
func (w *WaitList) Set(value string) error {
	*w = append(*w, value)
	return nil
}
