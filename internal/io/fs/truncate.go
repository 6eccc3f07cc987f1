package fs

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mimecast/dnode/internal/io/dlog"

	"github.com/pkg/errors"
)

func (f *TailFile) truncateTimer(ctx context.Context) (checkTruncate chan struct{}) {
	checkTruncate = make(chan struct{})

	go func() {
		for {
			select {
			case <-time.After(f.truncateInterval):
				select {
				case checkTruncate <- struct{}{}:
				case <-ctx.Done():
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return
}

// Check wether log file is truncated. Returns nil if not.
func (f *TailFile) truncated(fd *os.File) (bool, error) {
	dlog.Common.Trace(f.filePath, "File truncation check")

	// Can not seek currently open FD.
	curPos, err := fd.Seek(0, io.SeekCurrent)
	if err != nil {
		return true, err
	}

	// Can not open file at original path.
	pathFd, err := os.Open(f.filePath)
	if err != nil {
		return true, err
	}
	defer pathFd.Close()

	// Can not seek file at original path.
	pathPos, err := pathFd.Seek(0, io.SeekEnd)
	if err != nil {
		return true, err
	}

	if curPos > pathPos {
		return true, errors.New("file got truncated")
	}

	return false, nil
}
