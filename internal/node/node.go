package node

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mimecast/dnode/internal/config"
	"github.com/mimecast/dnode/internal/io/dlog"
	"github.com/mimecast/dnode/internal/io/run"

	"github.com/pkg/errors"
)

// ErrNotRunning is returned when an operation needs a running node process.
var ErrNotRunning = errors.New("node not running")

// ErrAlreadyRunning is returned when starting a node which is running.
var ErrAlreadyRunning = errors.New("node already running")

// Node controls the lifecycle of the blockchain node process under test.
type Node struct {
	cfg *config.NodeConfig

	mutex sync.Mutex
	proc  *run.Run
	logFd *os.File
	// Closed once the current process exited, closed initially.
	exited chan struct{}
}

// New returns a node controller for the given configuration.
func New(cfg *config.NodeConfig) *Node {
	exited := make(chan struct{})
	close(exited)

	return &Node{cfg: cfg, exited: exited}
}

func (n *Node) String() string {
	return fmt.Sprintf("Node(binary:%s,logFile:%s,alive:%v)", n.cfg.Binary, n.LogFile(), n.Alive())
}

// LogFile returns the path of the log file the node writes to.
func (n *Node) LogFile() string {
	return n.cfg.LogFile
}

// Build the node binary with the configured build command.
func (n *Node) Build(ctx context.Context) error {
	if len(n.cfg.BuildCommand) == 0 {
		return errors.New("no build command configured")
	}

	dlog.Node.Info("Building node", n.cfg.SourceDir, n.cfg.BuildCommand)
	output := &logWriter{prefix: "build"}
	defer output.Flush()

	build := run.New(n.cfg.BuildCommand[0], n.cfg.BuildCommand[1:]).InDir(n.cfg.SourceDir)
	ec, err := build.Execute(ctx, output)
	if err != nil {
		return errors.Wrapf(err, "build failed with exit code %d", ec)
	}
	return nil
}

// PrepareLog creates the log file and its directory if missing.
func (n *Node) PrepareLog() error {
	if dir := filepath.Dir(n.cfg.LogFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "unable to create log directory %s", dir)
		}
	}

	fd, err := os.OpenFile(n.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "unable to create log file %s", n.cfg.LogFile)
	}
	return fd.Close()
}

// Start the node process. Its stdout and stderr get appended to the log
// file. The process gets killed when ctx ends.
func (n *Node) Start(ctx context.Context) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if n.alive() {
		return ErrAlreadyRunning
	}
	if n.cfg.Binary == "" {
		return errors.New("no node binary configured")
	}
	if err := n.PrepareLog(); err != nil {
		return err
	}

	logFd, err := os.OpenFile(n.cfg.LogFile, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "unable to open log file %s", n.cfg.LogFile)
	}

	proc := run.New(n.cfg.Binary, n.cfg.Args).InDir(n.cfg.SourceDir)
	pid, err := proc.Start(ctx, logFd)
	if err != nil {
		logFd.Close()
		return err
	}
	dlog.Node.Info("Started node", proc, fmt.Sprintf("pid=%d", pid))

	n.proc = proc
	n.logFd = logFd
	n.exited = make(chan struct{})
	go n.waitExit(proc, logFd, n.exited)

	return nil
}

func (n *Node) waitExit(proc *run.Run, logFd *os.File, exited chan struct{}) {
	ec, err := proc.Wait()
	logFd.Close()

	if err != nil {
		dlog.Node.Warn("Node exited", proc, fmt.Sprintf("exitCode=%d", ec), err)
	} else {
		dlog.Node.Info("Node exited", proc, fmt.Sprintf("exitCode=%d", ec))
	}
	close(exited)
}

// Stop the node. SIGTERM is sent first and SIGKILL after grace.
func (n *Node) Stop(grace time.Duration) error {
	n.mutex.Lock()
	proc := n.proc
	exited := n.exited
	alive := n.alive()
	n.mutex.Unlock()

	if !alive {
		return ErrNotRunning
	}

	dlog.Node.Info("Stopping node", proc, grace)
	proc.Terminate(grace)
	<-exited
	return nil
}

// Alive reports whether the node process is running.
func (n *Node) Alive() bool {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return n.alive()
}

func (n *Node) alive() bool {
	select {
	case <-n.exited:
		return false
	default:
		return true
	}
}

// Exited returns a channel closed once the current node process exited.
func (n *Node) Exited() <-chan struct{} {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return n.exited
}

// ExitCode of the last node process, 255 while running or never started.
func (n *Node) ExitCode() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if n.proc == nil {
		return 255
	}
	return n.proc.ExitCode()
}

// Reset archives the log file, wipes the data directory and truncates the
// log. The node must not be running. Returns the archive path, empty if
// there was nothing to archive.
func (n *Node) Reset() (string, error) {
	if n.Alive() {
		return "", errors.Wrap(ErrAlreadyRunning, "unable to reset")
	}

	archive, err := n.Archive(time.Now())
	if err != nil {
		return "", err
	}

	if n.cfg.DataDir != "" {
		dlog.Node.Info("Removing data directory", n.cfg.DataDir)
		if err := os.RemoveAll(n.cfg.DataDir); err != nil {
			return archive, errors.Wrapf(err, "unable to remove %s", n.cfg.DataDir)
		}
	}

	if err := os.Truncate(n.cfg.LogFile, 0); err != nil && !os.IsNotExist(err) {
		return archive, errors.Wrapf(err, "unable to truncate %s", n.cfg.LogFile)
	}
	return archive, nil
}
