package ipc

import (
	"sync/atomic"
	"time"

	ierrors "github.com/dotcef/ipc/errors"
)

// Call sends a Request and blocks until the matching Response arrives or
// the engine stops, returning the response body. It refuses to run on the
// uiQueue's worker goroutine (see EnqueueUICallback) and on an engine that
// isn't available. The round trip, start to finish, is recorded on
// tripHist regardless of outcome.
func (e *Engine) Call(op uint8, body []byte) ([]byte, error) {
	start := time.Now()
	defer func() { e.tripHist.Update(time.Since(start).Milliseconds()) }()

	if !e.IsAvailable() {
		return nil, ierrors.ErrNotAvailable
	}
	if ui := atomic.LoadUint64(&e.uiGoroutineID); ui != 0 && ui == goroutineID() {
		return nil, ierrors.ErrCallFromCooperativeThread
	}

	requestID := e.nextID()
	pr := newPendingRequest(requestID, op)
	e.pending.insert(pr)

	if err := e.writeRequest(requestID, op, body); err != nil {
		e.pending.remove(requestID)
		return nil, err
	}

	resp, timedOut := pr.waitTimeout(e.cfg.pendingRequestTimeout())
	e.pending.remove(requestID)
	if timedOut {
		return nil, ierrors.ErrCallTimeout
	}
	return resp, nil
}

// Notify sends a one-way Notification; there is no response to wait for.
func (e *Engine) Notify(op uint8, body []byte) error {
	if !e.IsAvailable() {
		return ierrors.ErrNotAvailable
	}
	return e.writeNotification(op, body)
}
