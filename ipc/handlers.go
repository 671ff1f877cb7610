package ipc

import (
	log "github.com/dotcef/ipc/log"
	"github.com/dotcef/ipc/opcode"
	"github.com/dotcef/ipc/packet"
)

// HandlerFunc is the abstract OpcodeHandler from spec §3: it reads the
// request body and writes the response body. It closes over whatever state
// (including the *Engine itself, for handlers that need to call back out)
// it needs rather than receiving the engine as a parameter, per the
// one-way interface design note in spec §9.
type HandlerFunc func(r *packet.Reader, w *packet.Writer)

// NotificationFunc handles an inbound Notification; there is no response to write.
type NotificationFunc func(r *packet.Reader)

type handlerEntry struct {
	fn    HandlerFunc
	class opcode.OrderingClass
}

// RegisterHandler installs the handler for an inbound request opcode and
// its ordering class. Most of the table is built once during New, but
// RegisterWindowHandler/RegisterProxyFilter are meant to be called at
// runtime too (spec §4.6.6's callback "installed at runtime"), concurrently
// with the reader goroutine dispatching off the same map, so writes and
// reads both take callbackMu.
func (e *Engine) RegisterHandler(op uint8, class opcode.OrderingClass, fn HandlerFunc) {
	e.callbackMu.Lock()
	defer e.callbackMu.Unlock()
	e.handlers[op] = handlerEntry{fn: fn, class: class}
}

// RegisterWindowHandler is a convenience alias for RegisterHandler with the
// Parallel ordering class, for the window/dev-tools/url-filter/file-picker
// opcodes spec §4.6.6 requires to be "forwarded to the external host via a
// registered callback" — the callback is installed at runtime even though
// the opcode->ordering-class table itself stays fixed at compile time.
func (e *Engine) RegisterWindowHandler(op uint8, fn HandlerFunc) {
	e.RegisterHandler(op, opcode.Parallel, fn)
}

// RegisterNotification installs the handler for an inbound notification opcode.
func (e *Engine) RegisterNotification(op uint8, fn NotificationFunc) {
	e.callbackMu.Lock()
	defer e.callbackMu.Unlock()
	e.notifications[op] = fn
}

// OnNotification installs a passthrough invoked, on the WorkerPool, for
// every inbound notification after its specific handler (if any) runs —
// the single registration point DotCefProcess.cs's OnNotification callback
// modeled for Ready/WindowOpened/WindowClosed/... and friends.
func (e *Engine) OnNotification(fn func(op uint8, body []byte)) {
	e.callbackMu.Lock()
	defer e.callbackMu.Unlock()
	e.onNotification = fn
}

func (e *Engine) lookupHandler(op uint8) (handlerEntry, bool) {
	e.callbackMu.RLock()
	defer e.callbackMu.RUnlock()
	entry, ok := e.handlers[op]
	return entry, ok
}

func (e *Engine) lookupNotification(op uint8) (fn NotificationFunc, hasSpecific bool, onAny func(op uint8, body []byte)) {
	e.callbackMu.RLock()
	defer e.callbackMu.RUnlock()
	fn, hasSpecific = e.notifications[op]
	onAny = e.onNotification
	return fn, hasSpecific, onAny
}

// registerBuiltins installs Ping/Print/Echo, which every engine role needs
// regardless of which opcode space it was constructed with (see Role in
// engine.go) — their numeric values agree across the two controller/host
// request tables per spec §6. The stream opcodes are role-specific and are
// installed by registerHostStreamOpcodes/registerControllerStreamClose.
func (e *Engine) registerBuiltins() {
	e.RegisterHandler(opcode.CtlPing, opcode.Parallel, func(r *packet.Reader, w *packet.Writer) {})

	e.RegisterHandler(opcode.CtlPrint, opcode.Parallel, func(r *packet.Reader, w *packet.Writer) {
		log.Info(string(r.RemainingBytes()))
	})

	e.RegisterHandler(opcode.CtlEcho, opcode.Parallel, func(r *packet.Reader, w *packet.Writer) {
		_ = w.WriteBytes(r.RemainingBytes())
	})
}

// registerHostStreamOpcodes installs the StreamOpen/StreamData/StreamClose
// builtins at their controller-to-host opcode values. Only the host-role
// engine receives these as inbound requests. Their ordering class is looked
// up in opcode.StreamOpcodes rather than hardcoded, so that table stays the
// single source of truth for which controller-to-host opcodes must not
// interleave across one stream id.
func (e *Engine) registerHostStreamOpcodes() {
	e.RegisterHandler(opcode.CtlStreamOpen, classFor(opcode.CtlStreamOpen), e.handleStreamOpen)
	e.RegisterHandler(opcode.CtlStreamData, classFor(opcode.CtlStreamData), e.handleStreamData)
	e.RegisterHandler(opcode.CtlStreamClose, classFor(opcode.CtlStreamClose), e.handleStreamCloseRequest)
}

// classFor consults opcode.StreamOpcodes to pick the ordering class for a
// controller-to-host request opcode.
func classFor(op uint8) opcode.OrderingClass {
	if opcode.StreamOpcodes[op] {
		return opcode.StreamOrdered
	}
	return opcode.Parallel
}

// registerHostExit wires the controller's Exit notification to engine
// shutdown. It spawns Stop in its own goroutine rather than calling it
// directly: this handler runs on the WorkerPool, and WorkerPool.Stop blocks
// on the pool's own WaitGroup, which would never return if called from one
// of the pool's own workers.
func (e *Engine) registerHostExit() {
	e.RegisterNotification(opcode.CtlNotifyExit, func(r *packet.Reader) {
		go e.Stop()
	})
}

// registerControllerStreamClose installs the host-to-controller StreamClose
// builtin at its own opcode value (5, distinct from the controller-to-host
// table's 36) for the controller-role engine.
func (e *Engine) registerControllerStreamClose() {
	e.RegisterHandler(opcode.HostStreamClose, opcode.StreamOrdered, e.handleStreamCloseRequest)
}
