package loggers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileLogger(t *testing.T) {
	logDir := t.TempDir()
	f := newFile(Strategy{SignalRotation, "dnode", logDir})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	f.Start(ctx, &wg)

	f.Log(time.Now(), "INFO|first")
	f.Log(time.Now(), "INFO|second")
	cancel()
	wg.Wait()

	bytes, err := os.ReadFile(filepath.Join(logDir, "dnode.log"))
	require.NoError(t, err)
	require.Equal(t, "INFO|first\nINFO|second", strings.TrimSpace(string(bytes)))
}

func TestNewImpl(t *testing.T) {
	for name, impl := range map[string]Impl{"": STDOUT, "stdout": STDOUT, "FILE": FILE, "fout": FOUT, "none": NONE} {
		require.Equal(t, impl, NewImpl(name), name)
	}
}
