package dlog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mimecast/dnode/internal/config"
	"github.com/mimecast/dnode/internal/io/dlog/loggers"
	"github.com/mimecast/dnode/internal/io/pool"
)

// FieldDelimiter separates the fields of a log message.
const FieldDelimiter string = "|"

// Common is the log handler for the harness packages.
var Common *DLog = discard(HARNESS)

// Node is the log handler for node process lifecycle events.
var Node *DLog = discard(NODE)

var mutex sync.Mutex
var started bool

// Start logger(s). The wait group is done once all loggers are flushed
// after ctx got cancelled.
func Start(ctx context.Context, wg *sync.WaitGroup, cfg *config.CommonConfig) {
	mutex.Lock()
	defer mutex.Unlock()

	if started {
		Common.FatalPanic("Logger already started")
	}

	level := newLevel(cfg.LogLevel)
	impl := loggers.NewImpl(cfg.Logger)
	strategy := loggers.NewStrategy(cfg.LogRotation, cfg.LogDir)

	Common = New(HARNESS, impl, strategy, level)
	Node = New(NODE, impl, strategy, level)

	var wg2 sync.WaitGroup
	wg2.Add(2)
	Common.start(ctx, &wg2)
	Node.start(ctx, &wg2)
	started = true

	go rotation(ctx)
	go func() {
		wg2.Wait()
		wg.Done()
	}()
}

// DLog is the dnode logger.
type DLog struct {
	logger loggers.Logger
	// Which part of dnode is logging?
	sourcePackage source
	// Max log level to log.
	maxLevel level
	// Current hostname.
	hostname string
}

// New creates a new dnode logger.
func New(sourcePackage source, impl loggers.Impl, strategy loggers.Strategy, maxLevel level) *DLog {
	hostname, err := config.Hostname()
	if err != nil {
		panic(err)
	}
	return &DLog{
		logger:        loggers.Factory(sourcePackage.String(), impl, strategy),
		sourcePackage: sourcePackage,
		maxLevel:      maxLevel,
		hostname:      hostname,
	}
}

// Logs nothing until Start is called.
func discard(sourcePackage source) *DLog {
	return &DLog{
		logger:        loggers.Factory(sourcePackage.String(), loggers.NONE, loggers.Strategy{}),
		sourcePackage: sourcePackage,
		maxLevel:      FATAL,
	}
}

func (d *DLog) start(ctx context.Context, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()
		var wg2 sync.WaitGroup
		wg2.Add(1)
		d.logger.Start(ctx, &wg2)
		<-ctx.Done()
		wg2.Wait()
	}()
}

func (d *DLog) log(level level, args []interface{}) string {
	if d.maxLevel < level {
		return ""
	}
	sb := pool.BuilderBuffer.Get().(*strings.Builder)
	defer pool.RecycleBuilderBuffer(sb)
	now := time.Now()

	sb.WriteString(level.String())
	sb.WriteString(FieldDelimiter)
	sb.WriteString(now.Format("20060102-150405"))
	sb.WriteString(FieldDelimiter)
	sb.WriteString(d.sourcePackage.String())
	sb.WriteString(FieldDelimiter)
	sb.WriteString(d.hostname)
	sb.WriteString(FieldDelimiter)
	d.writeArgStrings(sb, args)

	message := sb.String()
	d.logger.Log(now, message)
	return message
}

func (d *DLog) writeArgStrings(sb *strings.Builder, args []interface{}) {
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(FieldDelimiter)
		}
		switch v := arg.(type) {
		case string:
			sb.WriteString(v)
		case error:
			sb.WriteString(v.Error())
		default:
			sb.WriteString(fmt.Sprintf("%v", v))
		}
	}
}

func (d *DLog) FatalPanic(args ...interface{}) {
	d.log(FATAL, args)
	d.logger.Flush()
	panic("Not recovering from this fatal error...")
}

func (d *DLog) Error(args ...interface{}) string {
	return d.log(ERROR, args)
}

func (d *DLog) Warn(args ...interface{}) string {
	return d.log(WARN, args)
}

func (d *DLog) Info(args ...interface{}) string {
	return d.log(INFO, args)
}

func (d *DLog) Verbose(args ...interface{}) string {
	return d.log(VERBOSE, args)
}

func (d *DLog) Debug(args ...interface{}) string {
	return d.log(DEBUG, args)
}

func (d *DLog) Trace(args ...interface{}) string {
	return d.log(TRACE, args)
}

// Flush buffered log messages.
func (d *DLog) Flush() { d.logger.Flush() }
