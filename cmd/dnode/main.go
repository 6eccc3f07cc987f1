package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mimecast/dnode/internal/config"
	"github.com/mimecast/dnode/internal/event"
	"github.com/mimecast/dnode/internal/harness"
	"github.com/mimecast/dnode/internal/io/dlog"
	"github.com/mimecast/dnode/internal/io/signal"
	"github.com/mimecast/dnode/internal/pprof"
	"github.com/mimecast/dnode/internal/server"
	"github.com/mimecast/dnode/internal/version"
)

// The evil begins here.
func main() {
	var args config.Args
	var displayVersion bool
	var pprofAddr string
	var waits config.WaitList

	flag.BoolVar(&args.BuildNode, "build", false, "Build the node before starting it")
	flag.BoolVar(&args.ResetNode, "reset", false, "Archive the node log and wipe its data directory")
	flag.BoolVar(&args.StartNode, "start", false, "Start the node and tail its log")
	flag.BoolVar(&displayVersion, "version", false, "Display version")
	flag.IntVar(&args.TimeoutS, "timeout", config.DefaultTimeoutS, "Max seconds to wait for each event")
	flag.StringVar(&args.ConfigFile, "cfg", "", "Config file path")
	flag.StringVar(&args.Listen, "listen", "", "Serve the HTTP wait API at this address")
	flag.StringVar(&args.LogDir, "logDir", "", "Log dir")
	flag.StringVar(&args.LogFile, "file", "", "Node log file to tail")
	flag.StringVar(&args.LogLevel, "logLevel", config.DefaultLogLevel, "Log level")
	flag.StringVar(&args.Logger, "logger", "", "Logger name")
	flag.StringVar(&args.RPCEndpoint, "rpc", "", "Node RPC endpoint")
	flag.StringVar(&pprofAddr, "pprof", "", "Start PProf server at this address")
	flag.Var(&waits, "wait", "Event to wait for: mining, heartbeat, sealed:<hash> or line:<text> (repeatable)")

	flag.Parse()
	args.Waits = waits

	if displayVersion {
		version.PrintAndExit()
	}

	if err := config.Setup(&args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	dlog.Start(ctx, &wg, config.Common)
	dlog.Common.Debug("Started", version.String(), args.String())

	if pprofAddr != "" {
		// For debugging purposes only
		pprof.Start(pprofAddr)
	}

	status := run(ctx, cancel, &args)

	cancel()
	wg.Wait()
	os.Exit(status)
}

func run(ctx context.Context, cancel context.CancelFunc, args *config.Args) int {
	preds := make([]event.Predicate, 0, len(args.Waits))
	for _, w := range args.Waits {
		p, err := event.ParsePredicate(w)
		if err != nil {
			dlog.Common.Error(err)
			return 2
		}
		preds = append(preds, p)
	}

	h, err := harness.New(ctx, config.Node, config.Tail)
	if err != nil {
		dlog.Common.Error(err)
		return 2
	}
	defer h.Close()

	statsCh := signal.InterruptCh(ctx, cancel)
	go func() {
		for {
			select {
			case hint := <-statsCh:
				dlog.Common.Info(h, hint)
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := setupNode(ctx, h, args); err != nil {
		dlog.Common.Error(err)
		return 1
	}

	status := 0
	if len(preds) > 0 {
		status = waitAll(ctx, h, preds, time.Duration(args.TimeoutS)*time.Second)
	}

	switch {
	case config.Server.ListenAddress != "":
		if s := server.New(h, config.Server).Start(ctx); s != 0 {
			status = s
		}
	case args.StartNode && len(preds) == 0:
		// Keep the node running until asked to terminate.
		<-ctx.Done()
	}

	return status
}

func setupNode(ctx context.Context, h *harness.Harness, args *config.Args) error {
	if args.ResetNode {
		archive, err := h.ResetNode(harness.DefaultStopGrace)
		if err != nil {
			return err
		}
		dlog.Common.Info("Node reset", archive)
	}
	if args.BuildNode {
		if err := h.BuildNode(ctx); err != nil {
			return err
		}
	}

	if !args.StartNode {
		return h.StartTailing(config.Node.LogFile)
	}
	if err := h.StartNode(); err != nil {
		return err
	}

	client, err := h.RPC()
	if err != nil {
		return err
	}
	startup := time.Duration(config.Node.StartupTimeoutS) * time.Second
	if err := client.WaitReady(ctx, startup, 500*time.Millisecond); err != nil {
		dlog.Common.Warn("Node RPC not reachable, continuing with log events only", err)
	}
	return nil
}

func waitAll(ctx context.Context, h *harness.Harness, preds []event.Predicate,
	timeout time.Duration) int {

	outcomes, err := h.WaitAll(ctx, preds, timeout)
	for _, o := range outcomes {
		fmt.Println(o)
	}
	if err != nil {
		dlog.Common.Error(err)
		return 1
	}
	return 0
}
