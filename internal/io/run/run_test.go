package run

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mutex sync.Mutex
	buf   bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buf.String()
}

func TestExecute(t *testing.T) {
	var output syncBuffer
	r := New("sh", []string{"-c", "echo hello; echo oops >&2; exit 3"})

	ec, err := r.Execute(context.Background(), &output)
	require.Error(t, err)
	require.Equal(t, 3, ec)
	require.Contains(t, output.String(), "hello")
	require.Contains(t, output.String(), "oops")
}

func TestExecuteInDir(t *testing.T) {
	var output syncBuffer
	dir := t.TempDir()

	ec, err := New("pwd", nil).InDir(dir).Execute(context.Background(), &output)
	require.NoError(t, err)
	require.Equal(t, 0, ec)
	require.Contains(t, output.String(), dir)
}

func TestStartUnknownCommand(t *testing.T) {
	r := New("/does/not/exist", nil)
	_, err := r.Start(context.Background(), &syncBuffer{})
	require.Error(t, err)

	select {
	case <-r.Exited():
	default:
		require.FailNow(t, "Expected exited channel to be closed")
	}
}

func TestTerminate(t *testing.T) {
	r := New("sleep", []string{"30"})
	pid, err := r.Start(context.Background(), &syncBuffer{})
	require.NoError(t, err)
	require.Greater(t, pid, 0)
	require.Equal(t, pid, r.Pid())

	start := time.Now()
	r.Terminate(5 * time.Second)
	require.Less(t, time.Since(start), 4*time.Second, "sleep did not terminate on SIGTERM")
	require.NotEqual(t, 0, r.ExitCode())
}

func TestKillOnContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New("sleep", []string{"30"})
	_, err := r.Start(ctx, &syncBuffer{})
	require.NoError(t, err)
	cancel()

	select {
	case <-r.Exited():
	case <-time.After(5 * time.Second):
		require.FailNow(t, "Expected command to be killed when context is done")
	}
}
