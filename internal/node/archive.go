package node

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mimecast/dnode/internal/io/dlog"

	"github.com/DataDog/zstd"
	"github.com/pkg/errors"
)

const archiveTimeFormat string = "20060102-150405"

// Archive compresses the log file into the archive directory. Returns the
// path of the archive, or an empty string if the log is missing or empty.
func (n *Node) Archive(now time.Time) (string, error) {
	info, err := os.Stat(n.cfg.LogFile)
	if os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "unable to stat %s", n.cfg.LogFile)
	}

	if err := os.MkdirAll(n.cfg.ArchiveDir, 0755); err != nil {
		return "", errors.Wrapf(err, "unable to create archive directory %s", n.cfg.ArchiveDir)
	}

	base := strings.TrimSuffix(filepath.Base(n.cfg.LogFile), ".log")
	archivePath := filepath.Join(n.cfg.ArchiveDir,
		fmt.Sprintf("%s.%s.log.zst", base, now.Format(archiveTimeFormat)))

	if err := compress(n.cfg.LogFile, archivePath); err != nil {
		os.Remove(archivePath)
		return "", err
	}

	dlog.Node.Info("Archived node log", archivePath, fmt.Sprintf("bytes=%d", info.Size()))
	return archivePath, nil
}

func compress(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", src)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", dst)
	}
	defer out.Close()

	writer := zstd.NewWriter(out)
	if _, err := io.Copy(writer, in); err != nil {
		writer.Close()
		return errors.Wrapf(err, "unable to compress %s", src)
	}
	if err := writer.Close(); err != nil {
		return errors.Wrapf(err, "unable to compress %s", src)
	}
	return out.Sync()
}

// OpenArchive returns a reader of the decompressed content of an archived log.
func OpenArchive(archivePath string) (io.ReadCloser, error) {
	fd, err := os.Open(archivePath)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", archivePath)
	}
	return &archiveReader{ReadCloser: zstd.NewReader(fd), fd: fd}, nil
}

type archiveReader struct {
	io.ReadCloser
	fd *os.File
}

func (r *archiveReader) Close() error {
	r.ReadCloser.Close()
	return r.fd.Close()
}
