package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mimecast/dnode/internal/config"

	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mutex sync.Mutex
	lines []string
	stops []string
}

func (s *recordingSink) OnLine(line string, ts time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lines = append(s.lines, line)
}

func (s *recordingSink) OnStop(cause string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stops = append(s.stops, cause)
}

func (s *recordingSink) snapshot() ([]string, []string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]string(nil), s.lines...), append([]string(nil), s.stops...)
}

func testTailConfig(fsnotifyEnable bool) *config.TailConfig {
	return &config.TailConfig{
		PollIntervalMs:          10,
		TruncateCheckIntervalMs: 50,
		MaxReadRetries:          3,
		MaxLineLength:           64,
		ExpirySweepMs:           10,
		FsnotifyEnable:          fsnotifyEnable,
	}
}

func appendTo(t *testing.T, path, content string) {
	fd, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	defer fd.Close()
	_, err = fd.WriteString(content)
	require.NoError(t, err)
}

func TestTailFileNotFound(t *testing.T) {
	f := NewTailFile(&recordingSink{}, testTailConfig(false))

	err := f.Start(context.Background(), filepath.Join(t.TempDir(), "missing.log"))
	require.True(t, errors.Is(err, ErrNotFound), "unexpected error %v", err)
	require.False(t, f.Running())
}

func TestTailFileFollow(t *testing.T) {
	for _, fsnotifyEnable := range []bool{false, true} {
		path := filepath.Join(t.TempDir(), "node.log")
		require.NoError(t, os.WriteFile(path, []byte("written before start\n"), 0644))

		sink := &recordingSink{}
		f := NewTailFile(sink, testTailConfig(fsnotifyEnable))
		require.NoError(t, f.Start(context.Background(), path))
		require.True(t, f.Running())
		require.Error(t, f.Start(context.Background(), path))

		appendTo(t, path, "first\nsecond\r\nthi")
		time.Sleep(50 * time.Millisecond)
		appendTo(t, path, "rd\n")

		require.Eventually(t, func() bool {
			lines, _ := sink.snapshot()
			return len(lines) == 3
		}, 2*time.Second, 5*time.Millisecond)

		f.Stop()
		f.Stop()
		require.False(t, f.Running())

		lines, stops := sink.snapshot()
		require.Equal(t, []string{"first", "second", "third"}, lines)
		require.Equal(t, []string{CauseStopped}, stops)
		require.Equal(t, uint64(3), f.Lines())

		// Nothing gets delivered after Stop returned.
		appendTo(t, path, "fourth\n")
		time.Sleep(50 * time.Millisecond)
		lines, _ = sink.snapshot()
		require.Len(t, lines, 3)
	}
}

func TestTailFileStopWithCause(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	sink := &recordingSink{}
	f := NewTailFile(sink, testTailConfig(false))
	require.NoError(t, f.Start(context.Background(), path))
	f.StopWithCause("node process terminated")

	_, stops := sink.snapshot()
	require.Equal(t, []string{"node process terminated"}, stops)

	// The tailer can be restarted for a new session.
	require.NoError(t, f.Start(context.Background(), path))
	appendTo(t, path, "again\n")
	require.Eventually(t, func() bool {
		lines, _ := sink.snapshot()
		return len(lines) == 1
	}, 2*time.Second, 5*time.Millisecond)
	f.Stop()
}

func TestTailFileLongLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	sink := &recordingSink{}
	f := NewTailFile(sink, testTailConfig(false))
	require.NoError(t, f.Start(context.Background(), path))
	defer f.Stop()

	appendTo(t, path, strings.Repeat("x", 100)+"\n")
	require.Eventually(t, func() bool {
		lines, _ := sink.snapshot()
		return len(lines) == 2
	}, 2*time.Second, 5*time.Millisecond)

	lines, _ := sink.snapshot()
	require.Len(t, lines[0], 64)
	require.Len(t, lines[1], 36)
}

func TestTailFileTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("history\n", 100)), 0644))

	sink := &recordingSink{}
	f := NewTailFile(sink, testTailConfig(false))
	require.NoError(t, f.Start(context.Background(), path))
	require.NoError(t, os.Truncate(path, 0))

	require.Eventually(t, func() bool {
		_, stops := sink.snapshot()
		return len(stops) == 1
	}, 2*time.Second, 5*time.Millisecond)

	_, stops := sink.snapshot()
	require.True(t, strings.HasPrefix(stops[0], "tailing failed"), stops[0])
	require.Eventually(t, func() bool { return !f.Running() }, time.Second, 5*time.Millisecond)
}

func TestTailFileContextCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	ctx, cancel := context.WithCancel(context.Background())
	sink := &recordingSink{}
	f := NewTailFile(sink, testTailConfig(true))
	require.NoError(t, f.Start(ctx, path))
	cancel()

	require.Eventually(t, func() bool { return !f.Running() }, time.Second, 5*time.Millisecond)
	_, stops := sink.snapshot()
	require.Equal(t, []string{CauseStopped}, stops)
}

func TestTailFileReadErrorsEndTailing(t *testing.T) {
	// Reading a directory fails with EISDIR on every attempt.
	dir := t.TempDir()

	sink := &recordingSink{}
	f := NewTailFile(sink, testTailConfig(false))
	require.NoError(t, f.Start(context.Background(), dir))

	require.Eventually(t, func() bool { return !f.Running() }, 2*time.Second, 5*time.Millisecond)

	_, stops := sink.snapshot()
	require.Len(t, stops, 1)
	require.True(t, strings.HasPrefix(stops[0], "tailing failed: "), stops[0])
	require.Contains(t, stops[0], "is a directory")

	// A stopped tailer ignores further stops.
	f.Stop()
	_, stops = sink.snapshot()
	require.Len(t, stops, 1)
}
