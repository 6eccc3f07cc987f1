package signal

import (
	"context"
	"os"
	gosignal "os/signal"
	"syscall"
	"time"
)

// InterruptCh returns a channel for "please print stats" signalling. A
// second Ctrl+C within three seconds, SIGTERM or SIGQUIT call shutdown.
// SIGHUP is left to the log rotation.
func InterruptCh(ctx context.Context, shutdown func()) <-chan string {
	sigIntCh := make(chan os.Signal, 1)
	gosignal.Notify(sigIntCh, os.Interrupt)

	sigOtherCh := make(chan os.Signal, 1)
	gosignal.Notify(sigOtherCh, syscall.SIGTERM, syscall.SIGQUIT)

	statsCh := make(chan string)

	go func() {
		defer gosignal.Stop(sigIntCh)
		defer gosignal.Stop(sigOtherCh)

		for {
			select {
			case <-sigIntCh:
				select {
				case statsCh <- "Hint: Hit Ctrl+C again to exit":
					select {
					case <-sigIntCh:
						shutdown()
						return
					case <-time.After(time.Second * 3):
					}
				default:
					// Stats already printed.
				}
			case <-sigOtherCh:
				shutdown()
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return statsCh
}
