package harness

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mimecast/dnode/internal/config"
	"github.com/mimecast/dnode/internal/event"
	"github.com/mimecast/dnode/internal/io/dlog"
	"github.com/mimecast/dnode/internal/io/fs"
	"github.com/mimecast/dnode/internal/node"
	"github.com/mimecast/dnode/internal/rpc"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Rejection causes reported by the harness.
const (
	CauseNodeTerminated string = "node process terminated"
	CauseNodeStopped    string = "node stopped"
)

// DefaultStopGrace is how long the node gets to shut down after SIGTERM.
const DefaultStopGrace time.Duration = 10 * time.Second

// Harness wires the node process, the tailer following its log and the
// dispatcher resolving waits on that log.
type Harness struct {
	nodeCfg *config.NodeConfig
	tailCfg *config.TailConfig

	ctx    context.Context
	cancel context.CancelFunc

	dispatcher *event.Dispatcher
	tailer     *fs.TailFile
	node       *node.Node

	mutex sync.Mutex
	// Incremented on every node start and deliberate stop.
	session uint64
	client  *rpc.Client
}

// New returns a harness for the given configuration. All background work
// ends when ctx ends or Close is called.
func New(ctx context.Context, nodeCfg *config.NodeConfig, tailCfg *config.TailConfig) (*Harness, error) {
	markers, err := event.NewMarkers(nodeCfg)
	if err != nil {
		return nil, errors.Wrap(err, "invalid node markers")
	}

	tailCfg = tailCfg.Bounded()

	ctx, cancel := context.WithCancel(ctx)
	sweep := time.Duration(tailCfg.ExpirySweepMs) * time.Millisecond

	h := Harness{
		nodeCfg:    nodeCfg,
		tailCfg:    tailCfg,
		ctx:        ctx,
		cancel:     cancel,
		dispatcher: event.NewDispatcher(ctx, markers, sweep),
		node:       node.New(nodeCfg),
	}
	h.tailer = fs.NewTailFile(h.dispatcher, tailCfg)

	return &h, nil
}

func (h *Harness) String() string {
	return fmt.Sprintf("Harness(tailing:%v,node:%v,%s)",
		h.tailer.Running(), h.node.Alive(), h.dispatcher.Stats())
}

// StartTailing follows path and dispatches every line appended from now on.
func (h *Harness) StartTailing(path string) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.startTailing(path)
}

func (h *Harness) startTailing(path string) error {
	if h.tailer.Running() {
		return errors.Wrap(fs.ErrAlreadyTailing, h.tailer.FilePath())
	}

	// Accept waits again, unless the new session fails to start.
	wasStopped, cause := h.dispatcher.Stopped()
	h.dispatcher.Reset()

	if err := h.tailer.Start(h.ctx, path); err != nil {
		if wasStopped {
			h.dispatcher.OnStop(cause)
		}
		return err
	}
	return nil
}

// StopTailing stops following the log. Pending waits get rejected.
func (h *Harness) StopTailing() {
	h.tailer.Stop()
}

// Tailing reports whether a log is being followed.
func (h *Harness) Tailing() bool {
	return h.tailer.Running()
}

// Submit blocks until p was observed, timeout passed or tailing stopped.
func (h *Harness) Submit(p event.Predicate, timeout time.Duration) event.Outcome {
	return h.dispatcher.Submit(p, timeout)
}

// SubmitContext is like Submit but also gives up when ctx ends.
func (h *Harness) SubmitContext(ctx context.Context, p event.Predicate, timeout time.Duration) event.Outcome {
	return h.dispatcher.SubmitContext(ctx, p, timeout)
}

// Watch registers a wait without blocking.
func (h *Harness) Watch(p event.Predicate, timeout time.Duration) *event.Wait {
	return h.dispatcher.Watch(p, timeout)
}

// PendingCount returns the number of unresolved waits.
func (h *Harness) PendingCount() int {
	return h.dispatcher.PendingCount()
}

// Stats returns the dispatcher statistics.
func (h *Harness) Stats() event.Stats {
	return h.dispatcher.Stats()
}

// Recent returns the most recent log lines, oldest first.
func (h *Harness) Recent() []string {
	return h.dispatcher.Recent()
}

// WaitAll waits for all predicates concurrently, each for at most timeout.
// The outcomes are returned in the order of preds. The first outcome which
// is not observed cancels the remaining waits and is returned as error.
func (h *Harness) WaitAll(ctx context.Context, preds []event.Predicate,
	timeout time.Duration) ([]event.Outcome, error) {

	outcomes := make([]event.Outcome, len(preds))
	g, gctx := errgroup.WithContext(ctx)

	for i, p := range preds {
		i, p := i, p
		g.Go(func() error {
			outcomes[i] = h.dispatcher.SubmitContext(gctx, p, timeout)
			if !outcomes[i].Observed() {
				return errors.Errorf("waiting for %s: %s", p, outcomes[i])
			}
			return nil
		})
	}

	return outcomes, g.Wait()
}

// BuildNode builds the node binary.
func (h *Harness) BuildNode(ctx context.Context) error {
	return h.node.Build(ctx)
}

// StartNode starts the node process and tails its log unless a log is
// followed already. An unexpected exit of the node rejects all pending
// waits with CauseNodeTerminated.
func (h *Harness) StartNode() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if err := h.node.PrepareLog(); err != nil {
		return err
	}
	startedTailing := false
	if !h.tailer.Running() {
		if err := h.startTailing(h.node.LogFile()); err != nil {
			return err
		}
		startedTailing = true
	}

	if err := h.node.Start(h.ctx); err != nil {
		if startedTailing {
			h.tailer.Stop()
		}
		return err
	}

	h.session++
	go h.watchNode(h.session, h.node.Exited())
	return nil
}

func (h *Harness) watchNode(session uint64, exited <-chan struct{}) {
	select {
	case <-exited:
	case <-h.ctx.Done():
		return
	}

	h.mutex.Lock()
	current := h.session
	h.mutex.Unlock()
	if current != session {
		// Stopped on purpose or restarted.
		return
	}

	dlog.Node.Warn("Node process terminated unexpectedly", h.node)
	// Let the tailer pick up the last lines the node wrote.
	time.Sleep(2 * time.Duration(h.tailCfg.PollIntervalMs) * time.Millisecond)

	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.session != session {
		// Stopped or restarted in the meantime.
		return
	}
	h.tailer.StopWithCause(CauseNodeTerminated)
}

// StopNode stops tailing with CauseNodeStopped and terminates the node.
func (h *Harness) StopNode(grace time.Duration) error {
	h.mutex.Lock()
	h.session++
	h.mutex.Unlock()

	h.tailer.StopWithCause(CauseNodeStopped)
	return h.node.Stop(grace)
}

// ResetNode stops the node if running, archives its log and wipes its
// data directory. Returns the path of the log archive.
func (h *Harness) ResetNode(grace time.Duration) (string, error) {
	if h.node.Alive() {
		if err := h.StopNode(grace); err != nil {
			return "", err
		}
	} else if h.tailer.FilePath() == h.node.LogFile() {
		h.tailer.StopWithCause(CauseNodeStopped)
	}
	return h.node.Reset()
}

// NodeAlive reports whether the node process is running.
func (h *Harness) NodeAlive() bool {
	return h.node.Alive()
}

// RPC returns the client of the node's RPC endpoint, dialing on first use.
func (h *Harness) RPC() (*rpc.Client, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.client != nil {
		return h.client, nil
	}
	client, err := rpc.Dial(h.ctx, h.nodeCfg.RPCEndpoint)
	if err != nil {
		return nil, err
	}
	h.client = client
	return client, nil
}

// SendTransaction sends a signed raw transaction to the node and waits for
// at most timeout until the node logs it as sealed. The wait is registered
// before sending, so a fast node can not be missed.
func (h *Harness) SendTransaction(ctx context.Context, raw []byte,
	timeout time.Duration) (event.Outcome, error) {

	client, err := h.RPC()
	if err != nil {
		return event.Outcome{}, err
	}

	w := h.dispatcher.Watch(event.TransactionSealed(event.HashTransaction(raw)), timeout)
	if _, err := client.SendRawTransaction(ctx, raw); err != nil {
		w.Cancel(err.Error())
		return w.Outcome(), err
	}
	return w.OutcomeContext(ctx), nil
}

// Close stops the node, the tailer and the dispatcher.
func (h *Harness) Close() {
	if h.node.Alive() {
		if err := h.StopNode(DefaultStopGrace); err != nil {
			dlog.Node.Warn("Unable to stop node", err)
		}
	}
	h.tailer.Stop()
	h.dispatcher.Close()

	h.mutex.Lock()
	if h.client != nil {
		h.client.Close()
		h.client = nil
	}
	h.mutex.Unlock()

	h.cancel()
}
