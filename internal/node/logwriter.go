package node

import (
	"bytes"

	"github.com/mimecast/dnode/internal/io/dlog"
)

// logWriter forwards command output line by line to the node logger.
type logWriter struct {
	prefix string
	buf    bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(w.buf.Next(i + 1))
		dlog.Node.Verbose(w.prefix, line[:len(line)-1])
	}
	return len(p), nil
}

// Flush logs what is left of an unterminated last line.
func (w *logWriter) Flush() {
	if w.buf.Len() > 0 {
		dlog.Node.Verbose(w.prefix, w.buf.String())
		w.buf.Reset()
	}
}
