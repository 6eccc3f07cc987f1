package pprof

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/mimecast/dnode/internal/io/dlog"
)

// Start the profiler HTTP server.
func Start(bindAddr string) {
	dlog.Common.Info("Starting PProf server", bindAddr)
	go func() {
		if err := http.ListenAndServe(bindAddr, nil); err != nil {
			dlog.Common.Error("PProf server stopped", err)
		}
	}()
}
