package dlog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	for _, l := range allLevels {
		require.Equal(t, l, newLevel(l.String()))
	}
	require.Equal(t, DEFAULT, newLevel(""))
	require.Equal(t, DEBUG, newLevel("debug"), "level names are case insensitive")
}

func TestLevelFilter(t *testing.T) {
	d := discard(HARNESS)
	d.maxLevel = WARN

	require.Empty(t, d.Info("not logged"))

	message := d.Warn("node", "stalled", 42)
	require.NotEmpty(t, message)
	for _, want := range []string{"WARN|", "|HARNESS|", "|node|stalled|42"} {
		require.Contains(t, message, want)
	}
}

func TestLevelFatalPanic(t *testing.T) {
	d := discard(NODE)
	require.Panics(t, func() { d.FatalPanic("Logger already started") })
}
