package datas

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRBufferOneElement(t *testing.T) {
	r, err := NewRBuffer(1)
	require.NoError(t, err)

	testRBufferValues(t, r, []string{"Hello world"})
	testRBufferValues(t, r, []string{"Hello world", "Hello universe"})
}

func TestRBuffer(t *testing.T) {
	_, err := NewRBuffer(0)
	require.Error(t, err)

	r, err := NewRBuffer(10)
	require.NoError(t, err)
	require.Equal(t, 10, r.Capacity())

	fiveValues := []string{
		"INFO Starting node",
		"INFO Opened database",
		"INFO Mining started",
		"INFO heartbeat #1",
		"INFO sealed transaction 00ff",
	}
	testRBufferValues(t, r, fiveValues)

	moreSevenValues := []string{
		"INFO heartbeat #2",
		"WARN Peer dropped",
		"INFO heartbeat #3",
		"INFO Imported block 12",
		"INFO heartbeat #4",
		"INFO Imported block 13",
		"INFO heartbeat #5",
	}
	testRBufferValues(t, r, append(fiveValues, moreSevenValues...))
}

func TestRandomRBuffer(t *testing.T) {
	for i := 0; i < 100; i++ {
		capacity := rand.Intn(999) + 1
		r, err := NewRBuffer(capacity)
		require.NoError(t, err, "capacity %d", capacity)

		numValues := rand.Intn(capacity * 3)
		values := make([]string, 0, numValues)
		for j := 0; j < numValues; j++ {
			values = append(values, fmt.Sprintf("%d.%d", j, rand.Int()))
		}
		testRBufferValues(t, r, values)
	}
}

func testRBufferValues(t *testing.T, r *RBuffer, values []string) {
	r.Reset()
	require.Zero(t, r.Len())
	require.Empty(t, r.Values())

	for _, value := range values {
		r.Add(value)
	}

	expectedValues := values
	overCapacity := len(values) - r.Capacity()
	if overCapacity > 0 {
		expectedValues = values[overCapacity:]
	}

	require.Equal(t, len(expectedValues), r.Len())
	if len(expectedValues) == 0 {
		require.Empty(t, r.Values())
		return
	}
	require.Equal(t, expectedValues, r.Values())
}
