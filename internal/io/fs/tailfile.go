package fs

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mimecast/dnode/internal/config"
	"github.com/mimecast/dnode/internal/io/dlog"
	"github.com/mimecast/dnode/internal/io/pool"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

type readStatus int

const (
	abortReading    readStatus = iota
	continueReading readStatus = iota
)

// Sink receives the lines of a tailed file, in the order they were written.
type Sink interface {
	// OnLine is called for every complete line, without its line break.
	OnLine(line string, ts time.Time)
	// OnStop is called once when tailing ends, deliberately or not.
	OnStop(cause string)
}

// TailFile follows a single growing log file and forwards each newly
// appended line to a sink.
type TailFile struct {
	sink Sink
	// Sleep on EOF before reading again.
	pollInterval time.Duration
	// Interval of the truncation check.
	truncateInterval time.Duration
	// Consecutive read errors tolerated.
	maxRetries int
	// Lines longer than this get split.
	maxLineLength int
	// Wake up on file system write events.
	fsnotifyEnable bool

	mutex sync.Mutex
	// Path of log file to tail.
	filePath  string
	cancel    context.CancelFunc
	stopCause string
	done      chan struct{}

	// Lines delivered in the current session.
	lines uint64
	// Warned already about a long line.
	warnedAboutLongLine bool
}

// NewTailFile returns a new file tailer delivering lines to sink.
func NewTailFile(sink Sink, cfg *config.TailConfig) *TailFile {
	cfg = cfg.Bounded()
	done := make(chan struct{})
	close(done)

	return &TailFile{
		sink:             sink,
		pollInterval:     time.Duration(cfg.PollIntervalMs) * time.Millisecond,
		truncateInterval: time.Duration(cfg.TruncateCheckIntervalMs) * time.Millisecond,
		maxRetries:       cfg.MaxReadRetries,
		maxLineLength:    cfg.MaxLineLength,
		fsnotifyEnable:   cfg.FsnotifyEnable,
		done:             done,
	}
}

// String returns the string representation of the tailer.
func (f *TailFile) String() string {
	return fmt.Sprintf("TailFile(filePath:%s,pollInterval:%v,maxRetries:%d,fsnotify:%v)",
		f.FilePath(), f.pollInterval, f.maxRetries, f.fsnotifyEnable)
}

// FilePath returns the path of the tailed file.
func (f *TailFile) FilePath() string {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.filePath
}

// Lines returns the number of lines delivered since the last Start.
func (f *TailFile) Lines() uint64 {
	return atomic.LoadUint64(&f.lines)
}

// Running reports whether the tailing loop is active.
func (f *TailFile) Running() bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.running()
}

func (f *TailFile) running() bool {
	select {
	case <-f.done:
		return false
	default:
		return true
	}
}

// Start tailing filePath. Only content appended after Start returns gets
// delivered. It fails with ErrNotFound if the file does not exist.
func (f *TailFile) Start(ctx context.Context, filePath string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.running() {
		return errors.Wrap(ErrAlreadyTailing, f.filePath)
	}

	fd, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(ErrNotFound, filePath)
		}
		return errors.Wrapf(err, "unable to open %s", filePath)
	}
	// Don't replay what was written before.
	if _, err := fd.Seek(0, io.SeekEnd); err != nil {
		fd.Close()
		return errors.Wrapf(err, "unable to seek to end of %s", filePath)
	}

	ctx, cancel := context.WithCancel(ctx)
	f.filePath = filePath
	f.cancel = cancel
	f.stopCause = CauseStopped
	f.done = make(chan struct{})
	f.warnedAboutLongLine = false
	atomic.StoreUint64(&f.lines, 0)

	dlog.Common.Info(filePath, "Start tailing")
	go f.tail(ctx, fd, f.done)

	return nil
}

// Stop tailing. No line is delivered after Stop returns. Calling Stop on a
// stopped tailer is a no-op.
func (f *TailFile) Stop() {
	f.StopWithCause(CauseStopped)
}

// StopWithCause stops tailing and reports cause to the sink.
func (f *TailFile) StopWithCause(cause string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if !f.running() {
		return
	}

	f.stopCause = cause
	f.cancel()
	<-f.done
}

func (f *TailFile) tail(ctx context.Context, fd *os.File, done chan struct{}) {
	defer close(done)

	wake := f.watch(ctx)
	cause := f.read(ctx, fd, bufio.NewReader(fd), wake)
	fd.Close()

	if ctx.Err() != nil {
		// Stopped on purpose, the cause was set before cancelling.
		cause = f.stopCause
	} else {
		// The loop ended on its own, release the context.
		f.cancel()
	}

	dlog.Common.Info(f.filePath, "Stop tailing", cause, fmt.Sprintf("lines=%d", f.Lines()))
	f.sink.OnStop(cause)
}

// Sends to the returned channel whenever the file got written to. Returns
// nil, and the reader falls back to polling, if watching is not possible.
func (f *TailFile) watch(ctx context.Context) <-chan struct{} {
	if !f.fsnotifyEnable {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		dlog.Common.Warn(f.filePath, "Unable to watch file, polling only", err)
		return nil
	}
	if err := watcher.Add(f.filePath); err != nil {
		dlog.Common.Warn(f.filePath, "Unable to watch file, polling only", err)
		watcher.Close()
		return nil
	}

	wake := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) {
					continue
				}
				select {
				case wake <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				dlog.Common.Debug(f.filePath, "File watcher error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	return wake
}

func (f *TailFile) read(ctx context.Context, fd *os.File, reader *bufio.Reader,
	wake <-chan struct{}) string {

	message := pool.BytesBuffer.Get().(*bytes.Buffer)
	defer pool.RecycleBytesBuffer(message)

	truncate := f.truncateTimer(ctx)
	var retries int

	for {
		b, err := reader.ReadByte()
		if err != nil {
			status, cause := f.handleReadError(ctx, err, fd, truncate, wake, &retries)
			if status == abortReading {
				return cause
			}
			continue
		}
		retries = 0

		f.handleReadByte(b, message)
		// The file may never hit EOF while the node keeps writing.
		if b == '\n' && ctx.Err() != nil {
			return CauseStopped
		}
	}
}

// Deal with the scenario that nothing could be read from the fd.
func (f *TailFile) handleReadError(ctx context.Context, err error, fd *os.File,
	truncate <-chan struct{}, wake <-chan struct{}, retries *int) (readStatus, string) {

	if err != io.EOF {
		*retries++
		dlog.Common.Warn(f.filePath, "Read error", fmt.Sprintf("retry=%d/%d", *retries, f.maxRetries), err)
		if *retries > f.maxRetries {
			return abortReading, fmt.Sprintf("tailing failed: %v", err)
		}
	}

	select {
	case <-truncate:
		if isTruncated, err := f.truncated(fd); isTruncated {
			return abortReading, fmt.Sprintf("tailing failed: %v", err)
		}
	case <-wake:
	case <-time.After(f.pollInterval):
	case <-ctx.Done():
		return abortReading, CauseStopped
	}

	return continueReading, ""
}

// Now process the byte we just read from the fd.
func (f *TailFile) handleReadByte(b byte, message *bytes.Buffer) {
	switch b {
	case '\n':
		f.deliver(message)
		f.warnedAboutLongLine = false
	default:
		message.WriteByte(b)
		if message.Len() >= f.maxLineLength {
			if !f.warnedAboutLongLine {
				dlog.Common.Warn(f.filePath, "Long log line, splitting into multiple lines")
				f.warnedAboutLongLine = true
			}
			f.deliver(message)
		}
	}
}

func (f *TailFile) deliver(message *bytes.Buffer) {
	content := bytes.TrimSuffix(message.Bytes(), []byte{'\r'})
	f.sink.OnLine(string(content), time.Now())
	atomic.AddUint64(&f.lines, 1)
	message.Reset()
}
