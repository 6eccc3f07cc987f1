package loggers

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"
)

type fileMessageBuf struct {
	now     time.Time
	message string
}

type file struct {
	bufferCh     chan *fileMessageBuf
	rotateCh     chan struct{}
	flushCh      chan struct{}
	fd           *os.File
	writer       *bufio.Writer
	mutex        sync.Mutex
	started      bool
	lastFileName string
	strategy     Strategy
}

func newFile(strategy Strategy) *file {
	f := file{
		bufferCh: make(chan *fileMessageBuf, runtime.NumCPU()*100),
		rotateCh: make(chan struct{}, 1),
		flushCh:  make(chan struct{}),
		strategy: strategy,
	}

	return &f
}

func (f *file) Start(ctx context.Context, wg *sync.WaitGroup) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	// Logger already started from another Goroutine.
	if f.started {
		wg.Done()
		return
	}

	go func() {
		defer wg.Done()

		for {
			select {
			case m := <-f.bufferCh:
				f.write(m)
			case <-f.flushCh:
				f.flush()
			case <-ctx.Done():
				f.flush()
				if f.fd != nil {
					f.fd.Close()
				}
				return
			}
		}
	}()

	f.started = true
}

func (f *file) Log(now time.Time, message string) {
	f.bufferCh <- &fileMessageBuf{now, message}
}

func (f *file) Flush() { f.flushCh <- struct{}{} }

func (f *file) Rotate() {
	select {
	case f.rotateCh <- struct{}{}:
	default:
		// A rotation is already pending.
	}
}

func (f *file) write(m *fileMessageBuf) {
	select {
	case <-f.rotateCh:
		// Force re-opening the outfile next time in getWriter.
		f.lastFileName = ""
	default:
	}

	var writer *bufio.Writer
	if f.strategy.Rotation == DailyRotation {
		writer = f.getWriter(m.now.Format("20060102"))
	} else {
		writer = f.getWriter(f.strategy.FileBase)
	}

	writer.WriteString(m.message)
	writer.WriteByte('\n')
}

func (f *file) getWriter(name string) *bufio.Writer {
	if f.lastFileName == name {
		return f.writer
	}
	if _, err := os.Stat(f.strategy.LogDir); os.IsNotExist(err) {
		if err = os.MkdirAll(f.strategy.LogDir, 0755); err != nil {
			panic(err)
		}
	}

	logFile := fmt.Sprintf("%s/%s.log", f.strategy.LogDir, name)
	newFd, err := os.OpenFile(logFile, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		panic(err)
	}

	// Close old writer.
	if f.fd != nil {
		f.writer.Flush()
		f.fd.Close()
	}
	// Set new writer.
	f.fd = newFd
	f.writer = bufio.NewWriterSize(f.fd, 1)
	f.lastFileName = name

	return f.writer
}

func (f *file) flush() {
	defer func() {
		if f.writer != nil {
			f.writer.Flush()
		}
	}()
	for {
		select {
		case m := <-f.bufferCh:
			f.write(m)
		default:
			return
		}
	}
}
