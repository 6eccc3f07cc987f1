package node

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mimecast/dnode/internal/config"

	"github.com/stretchr/testify/require"
)

func testNodeConfig(t *testing.T, script string) *config.NodeConfig {
	dir := t.TempDir()
	return &config.NodeConfig{
		SourceDir:  dir,
		Binary:     "sh",
		Args:       []string{"-c", script},
		DataDir:    filepath.Join(dir, "data"),
		LogFile:    filepath.Join(dir, "log", "node.log"),
		ArchiveDir: filepath.Join(dir, "archive"),
	}
}

func readFile(t *testing.T, path string) string {
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestNodeStartStop(t *testing.T) {
	n := New(testNodeConfig(t, "echo node up; echo oops >&2; exec sleep 30"))
	require.False(t, n.Alive())
	require.ErrorIs(t, n.Stop(time.Second), ErrNotRunning)

	require.NoError(t, n.Start(context.Background()))
	require.True(t, n.Alive())
	require.ErrorIs(t, n.Start(context.Background()), ErrAlreadyRunning)

	require.Eventually(t, func() bool {
		return strings.Contains(readFile(t, n.LogFile()), "oops")
	}, 5*time.Second, 10*time.Millisecond)
	require.Contains(t, readFile(t, n.LogFile()), "node up")

	require.NoError(t, n.Stop(5*time.Second))
	require.False(t, n.Alive())
	select {
	case <-n.Exited():
	default:
		require.FailNow(t, "Expected exited channel to be closed")
	}
}

func TestNodeExitsOnItsOwn(t *testing.T) {
	n := New(testNodeConfig(t, "echo bye; exit 7"))
	require.NoError(t, n.Start(context.Background()))

	select {
	case <-n.Exited():
	case <-time.After(5 * time.Second):
		require.FailNow(t, "Node did not exit")
	}
	require.Equal(t, 7, n.ExitCode())
}

func TestNodeLogAppends(t *testing.T) {
	cfg := testNodeConfig(t, "echo second run")
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.LogFile), 0755))
	require.NoError(t, os.WriteFile(cfg.LogFile, []byte("first run\n"), 0644))

	n := New(cfg)
	require.NoError(t, n.Start(context.Background()))
	<-n.Exited()

	require.Equal(t, "first run\nsecond run\n", readFile(t, cfg.LogFile))
}

func TestNodeBuild(t *testing.T) {
	cfg := testNodeConfig(t, "")
	cfg.BuildCommand = []string{"sh", "-c", "echo built > artifact"}

	n := New(cfg)
	require.NoError(t, n.Build(context.Background()))
	require.Equal(t, "built\n", readFile(t, filepath.Join(cfg.SourceDir, "artifact")))

	cfg.BuildCommand = []string{"sh", "-c", "exit 2"}
	require.Error(t, n.Build(context.Background()))

	cfg.BuildCommand = nil
	require.Error(t, n.Build(context.Background()))
}

func TestNodeReset(t *testing.T) {
	cfg := testNodeConfig(t, "echo mining; exit 0")
	n := New(cfg)
	require.NoError(t, n.Start(context.Background()))
	<-n.Exited()

	require.NoError(t, os.MkdirAll(filepath.Join(cfg.DataDir, "chaindata"), 0755))

	archivePath, err := n.Reset()
	require.NoError(t, err)
	require.NotEmpty(t, archivePath)
	require.True(t, strings.HasSuffix(archivePath, ".log.zst"), archivePath)

	_, err = os.Stat(cfg.DataDir)
	require.True(t, os.IsNotExist(err))
	require.Empty(t, readFile(t, cfg.LogFile))

	reader, err := OpenArchive(archivePath)
	require.NoError(t, err)
	defer reader.Close()
	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, "mining\n", string(content))

	// Nothing left to archive.
	archivePath, err = n.Reset()
	require.NoError(t, err)
	require.Empty(t, archivePath)
}

func TestNodeResetWhileRunning(t *testing.T) {
	n := New(testNodeConfig(t, "exec sleep 30"))
	require.NoError(t, n.Start(context.Background()))
	defer n.Stop(time.Second)

	_, err := n.Reset()
	require.ErrorIs(t, err, ErrAlreadyRunning)
}
