package run

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/mimecast/dnode/internal/io/dlog"

	"github.com/pkg/errors"
)

// Run is for executing a command in its own process group.
type Run struct {
	command string
	args    []string
	dir     string
	cmd     *exec.Cmd

	mutex    sync.Mutex
	pid      int
	exitCode int
	waitErr  error
	exited   chan struct{}
}

// New returns a new command runner.
func New(command string, args []string) *Run {
	return &Run{
		command:  command,
		args:     args,
		pid:      -1,
		exitCode: 255,
		exited:   make(chan struct{}),
	}
}

// InDir sets the working directory of the command.
func (r *Run) InDir(dir string) *Run {
	r.dir = dir
	return r
}

func (r *Run) String() string {
	return strings.TrimSpace(r.command + " " + strings.Join(r.args, " "))
}

// Start the command, its stdout and stderr go to output. Start returns once
// the process is running. The process group gets killed when ctx ends.
func (r *Run) Start(ctx context.Context, output io.Writer) (pid int, err error) {
	dlog.Node.Debug("Starting command", r)

	r.cmd = exec.Command(r.command, r.args...)
	r.cmd.Dir = r.dir
	r.cmd.Stdout = output
	r.cmd.Stderr = output
	// Create a new process group, so that kill() will only kill this command + pgroup.
	r.cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := r.cmd.Start(); err != nil {
		close(r.exited)
		return -1, errors.Wrapf(err, "unable to start %s", r)
	}

	r.mutex.Lock()
	r.pid = r.cmd.Process.Pid
	r.mutex.Unlock()

	go r.wait()
	go r.killPgroupOnDone(ctx)

	return r.cmd.Process.Pid, nil
}

// Execute runs the command to completion and returns its exit code.
func (r *Run) Execute(ctx context.Context, output io.Writer) (int, error) {
	if _, err := r.Start(ctx, output); err != nil {
		return r.exitCode, err
	}
	return r.Wait()
}

func (r *Run) wait() {
	err := r.cmd.Wait()

	r.mutex.Lock()
	r.exitCode = 0
	if err != nil {
		r.waitErr = err
		if exitError, ok := err.(*exec.ExitError); ok {
			r.exitCode = exitError.ExitCode()
		} else {
			r.exitCode = 255
		}
	}
	r.mutex.Unlock()

	dlog.Node.Debug("Command exited", r, r.ExitCode())
	close(r.exited)
}

// Wait until the command exited and return its exit code.
func (r *Run) Wait() (int, error) {
	<-r.exited

	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.exitCode, r.waitErr
}

// Exited is closed once the command exited.
func (r *Run) Exited() <-chan struct{} {
	return r.exited
}

// Pid returns the process id, or -1 if not started.
func (r *Run) Pid() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.pid
}

// ExitCode returns the exit code, 255 while running.
func (r *Run) ExitCode() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.exitCode
}

// Terminate sends SIGTERM to the process group and SIGKILL if it did not
// exit within grace.
func (r *Run) Terminate(grace time.Duration) {
	r.signalPgroup(syscall.SIGTERM)

	select {
	case <-r.exited:
	case <-time.After(grace):
		dlog.Node.Warn("Command did not terminate in time, killing it", r, grace)
		r.Kill()
		<-r.exited
	}
}

// Kill the whole process group.
func (r *Run) Kill() {
	r.signalPgroup(syscall.SIGKILL)
}

func (r *Run) signalPgroup(sig syscall.Signal) {
	pid := r.Pid()
	if pid == -1 {
		return
	}

	select {
	case <-r.exited:
		return
	default:
	}

	if pgid, err := syscall.Getpgid(pid); err == nil {
		syscall.Kill(-pgid, sig)
	}
}

func (r *Run) killPgroupOnDone(ctx context.Context) {
	select {
	case <-ctx.Done():
		r.Kill()
	case <-r.exited:
	}
}
