package event

import (
	"strings"
	"testing"

	"github.com/mimecast/dnode/internal/config"

	"github.com/stretchr/testify/require"
)

func testMarkers(t *testing.T) Markers {
	m, err := NewMarkers(&config.NodeConfig{
		MiningBanner:     "Mining started",
		SealedTemplate:   "sealed transaction %s",
		HeartbeatPattern: `heartbeat #\d+`,
	})
	require.NoError(t, err)
	return m
}

func TestPredicateMatch(t *testing.T) {
	m := testMarkers(t)
	h := HashTransaction([]byte("transfer 10 to bob"))
	other := HashTransaction([]byte("transfer 10 to alice"))

	tests := []struct {
		predicate Predicate
		line      string
		match     bool
	}{
		{MiningStarted(), "2024-01-01 INFO Mining started with 4 threads", true},
		{MiningStarted(), "2024-01-01 INFO Mining stopped", false},
		{TransactionSealed(h), "block #7 sealed transaction " + h.Hex() + " gas=21000", true},
		{TransactionSealed(h), "block #7 sealed transaction " + other.Hex(), false},
		{TransactionSealed(h), "block #7 sealed transaction " + strings.ToUpper(h.Hex()), false},
		{Heartbeat(), "DEBUG heartbeat #42 peers=3", true},
		{Heartbeat(), "DEBUG heartbeat missed", false},
		{CustomLine("ready"), "server ready", true},
		{CustomLine("ready"), "server starting", false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.match, tt.predicate.Match(tt.line, m), "%s on '%s'", tt.predicate, tt.line)
	}
}

func TestParsePredicate(t *testing.T) {
	h := HashTransaction([]byte("tx"))

	p, err := ParsePredicate("mining")
	require.NoError(t, err)
	require.Equal(t, KindMiningStarted, p.Kind())

	p, err = ParsePredicate("Heartbeat")
	require.NoError(t, err)
	require.Equal(t, KindHeartbeat, p.Kind())

	p, err = ParsePredicate("sealed:" + h.String())
	require.NoError(t, err)
	require.Equal(t, TransactionSealed(h), p)

	p, err = ParsePredicate("line:block: imported")
	require.NoError(t, err)
	require.Equal(t, CustomLine("block: imported"), p)

	for _, broken := range []string{"", "sealed", "sealed:xyz", "line:", "reorg"} {
		_, err := ParsePredicate(broken)
		require.Error(t, err, broken)
	}
}

func TestNewMarkers(t *testing.T) {
	valid := config.NodeConfig{MiningBanner: "m", SealedTemplate: "s %s", HeartbeatPattern: "h"}

	broken := valid
	broken.SealedTemplate = "sealed"
	_, err := NewMarkers(&broken)
	require.Error(t, err)

	broken = valid
	broken.HeartbeatPattern = "("
	_, err = NewMarkers(&broken)
	require.Error(t, err)

	broken = valid
	broken.MiningBanner = ""
	_, err = NewMarkers(&broken)
	require.Error(t, err)

	broken = valid
	broken.HeartbeatFlag = "fuzzy"
	_, err = NewMarkers(&broken)
	require.Error(t, err)

	_, err = NewMarkers(&valid)
	require.NoError(t, err)

	ignoreCase := valid
	ignoreCase.HeartbeatPattern = "heartbeat"
	ignoreCase.HeartbeatFlag = "ignorecase"
	m, err := NewMarkers(&ignoreCase)
	require.NoError(t, err)
	require.True(t, Heartbeat().Match("INFO Heartbeat", m))
}

func TestTxHash(t *testing.T) {
	// Keccak-256 of the empty input.
	empty := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	require.Equal(t, empty, HashTransaction(nil).Hex())

	h, err := ParseTxHash("0x" + empty)
	require.NoError(t, err)
	require.Equal(t, HashTransaction(nil), h)
	require.Equal(t, "0x"+empty, h.String())

	_, err = ParseTxHash("abcd")
	require.Error(t, err)
}
