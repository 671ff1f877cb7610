// Package ipc implements the core IPC engine: the reader loop, request/
// response correlation, notification dispatch, outbound calls/notifications,
// the stream registry, and lifecycle. It is the component the rest of this
// module's packages (packet, bufferpool, datastream, workqueue, pipe) exist
// to serve.
package ipc

import (
	"sync"
	"sync/atomic"

	"github.com/dotcef/ipc/bufferpool"
	"github.com/dotcef/ipc/datastream"
	log "github.com/dotcef/ipc/log"
	"github.com/dotcef/ipc/pipe"
	"github.com/dotcef/ipc/statistics"
	"github.com/dotcef/ipc/workqueue"
)

// Role selects which opcode space an Engine interprets inbound Requests
// with: the same engine implementation runs on both ends of the pipe, just
// constructed with a different role and a different handler table.
type Role uint8

const (
	// RoleHost is the embedded-browser host process: it receives
	// controller-to-host requests (Ping/Print/Echo/Window*/Stream*/Pick*).
	RoleHost Role = iota
	// RoleController is the controller process: it receives host-to-controller
	// requests (Ping/Print/Echo/WindowProxyRequest/WindowModifyRequest/StreamClose).
	RoleController
)

// Engine is the explicit, owned IPC engine object (spec §9: not a global
// singleton). Handlers close over an *Engine to call back out via Call/
// Notify/CloseStream, per the one-way message interface design note.
type Engine struct {
	role Role
	cfg  Config

	pipe *pipe.Pipe

	uiQueue     *workqueue.Queue
	streamQueue *workqueue.Queue
	workers     *workqueue.WorkerPool

	bufPool *bufferpool.Pool
	streams *datastream.Registry

	pending       *pendingMap
	nextRequestID uint32

	writeMu sync.Mutex

	// callbackMu guards handlers, notifications, and the three callback
	// fields below. The handler table is built mostly during New, but
	// RegisterWindowHandler/RegisterProxyFilter/OnStreamOpen/OnStreamClose
	// are all runtime operations the engine's own tests call after Start,
	// concurrently with the reader goroutine and the WorkerPool/stream
	// WorkQueue dispatching off the same tables.
	callbackMu sync.RWMutex

	handlers       map[uint8]handlerEntry
	notifications  map[uint8]NotificationFunc
	onNotification func(op uint8, body []byte)
	onStreamOpen   func(id uint32, s *datastream.Stream)
	onStreamClose  func(id uint32)

	lifecycleMu sync.Mutex
	started     bool
	stopped     bool

	uiGoroutineID uint64

	stats *statistics.Stats
	metricsHandle
}

// New constructs an Engine around p, not yet started.
func New(role Role, p *pipe.Pipe, cfg Config) *Engine {
	e := &Engine{
		role:          role,
		cfg:           cfg,
		pipe:          p,
		uiQueue:       workqueue.NewQueue(),
		streamQueue:   workqueue.NewQueue(),
		workers:       workqueue.NewWorkerPool(),
		bufPool:       bufferpool.New(cfg.bufferPoolSize(), cfg.bufferPoolInitial()),
		streams:       datastream.NewRegistry(cfg.dataStreamCapacity()),
		pending:       newPendingMap(),
		handlers:      make(map[uint8]handlerEntry),
		notifications: make(map[uint8]NotificationFunc),
		stats:         statistics.New(cfg.statsTitle(), cfg.StatsEnabled),
	}
	e.initMetrics()

	e.registerBuiltins()
	switch role {
	case RoleHost:
		e.registerHostStreamOpcodes()
		e.registerHostExit()
	case RoleController:
		e.registerControllerStreamClose()
	}

	return e
}

// HasValidHandles reports whether the underlying Pipe has both directions configured.
func (e *Engine) HasValidHandles() bool {
	return e.pipe != nil && e.pipe.HasValidHandles()
}

// IsAvailable reports handles valid AND started AND not stopped.
func (e *Engine) IsAvailable() bool {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()
	return e.HasValidHandles() && e.started && !e.stopped
}

// Start spins up the UI-callback queue, the stream-ordering queue, the
// WorkerPool, and the reader thread. A no-op if already started or if the
// pipe has no valid handles.
func (e *Engine) Start() {
	e.lifecycleMu.Lock()
	if e.started || !e.HasValidHandles() {
		e.lifecycleMu.Unlock()
		return
	}
	e.started = true
	e.lifecycleMu.Unlock()

	log.Info("engine starting")
	e.uiQueue.Start()
	e.streamQueue.Start()
	e.workers.AddWorkers(e.cfg.workerPoolSize())
	log.Infof("worker pool started with %d workers", e.cfg.workerPoolSize())
	e.stats.Run()

	go e.readLoop()
}

// Stop is idempotent. It marks the engine stopped, aborts any in-flight
// blocking pipe read by closing the pipe, wakes every pending Call with an
// empty response, closes every registered DataStream, and then stops both
// WorkQueues and the WorkerPool. Waking callers and closing streams first
// lets a task blocked in Call or in a stream Write return, so the queue and
// pool shutdowns, which wait for in-flight tasks, do not hang on it.
func (e *Engine) Stop() {
	e.lifecycleMu.Lock()
	if !e.started || e.stopped {
		e.lifecycleMu.Unlock()
		return
	}
	e.stopped = true
	e.lifecycleMu.Unlock()

	log.Info("engine stopping")

	if e.pipe != nil {
		_ = e.pipe.Close()
	}

	for _, pr := range e.pending.snapshot() {
		pr.complete(nil)
	}

	e.streams.CloseAll()

	e.uiQueue.Stop()
	e.streamQueue.Stop()
	e.workers.Stop()

	e.stats.Close()

	log.Info("engine stopped")
}

// EnqueueUICallback schedules fn on the single-thread UI-callback WorkQueue
// the host process schedules work back onto the engine with. Call refuses
// to block when invoked from this goroutine: the host's native UI pump
// lives here, and a blocked Call on it can starve the response it's
// waiting for.
func (e *Engine) EnqueueUICallback(fn func()) {
	e.uiQueue.Enqueue(workqueue.Work(func() {
		atomic.StoreUint64(&e.uiGoroutineID, goroutineID())
		fn()
	}))
}

func (e *Engine) nextID() uint32 {
	return atomic.AddUint32(&e.nextRequestID, 1)
}
