package dlog

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mimecast/dnode/internal/io/dlog/loggers"
)

func rotation(ctx context.Context) {
	rotateCh := make(chan os.Signal, 1)
	signal.Notify(rotateCh, syscall.SIGHUP)
	go func() {
		defer signal.Stop(rotateCh)
		for {
			select {
			case <-rotateCh:
				Common.Debug("Invoking log rotation")
				loggers.FactoryRotate()
			case <-ctx.Done():
				return
			}
		}
	}()
}
