package ipc

import (
	"sync"
	"time"
)

// pendingRequest is created by an outbound Call. The ready flag transitions
// false->true exactly once: either the reader thread completes it with a
// matching Response, or shutdown completes it with an empty body. The
// reader takes this struct's own mutex before touching body, closing the
// race the original implementation had on response arrival for a request
// whose waiter had not yet started waiting.
type pendingRequest struct {
	requestID uint32
	opcode    uint8

	mu      sync.Mutex
	cond    *sync.Cond
	ready   bool
	body    []byte
	timedOut bool
}

func newPendingRequest(requestID uint32, op uint8) *pendingRequest {
	pr := &pendingRequest{requestID: requestID, opcode: op}
	pr.cond = sync.NewCond(&pr.mu)
	return pr
}

// complete delivers body and wakes the waiter. Safe to call more than once;
// only the first call has an effect.
func (pr *pendingRequest) complete(body []byte) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.ready {
		return
	}
	pr.body = body
	pr.ready = true
	pr.cond.Signal()
}

// completeTimeout marks the wait as having timed out, distinct from a real
// (possibly empty) response or a shutdown-driven completion.
func (pr *pendingRequest) completeTimeout() {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.ready {
		return
	}
	pr.ready = true
	pr.timedOut = true
	pr.cond.Signal()
}

// wait blocks until complete has been called, then returns the delivered body.
func (pr *pendingRequest) wait() []byte {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	for !pr.ready {
		pr.cond.Wait()
	}
	return pr.body
}

// waitTimeout behaves like wait, but gives up after d if d > 0, reporting
// timedOut so the caller can distinguish "peer answered with nothing" from
// "peer never answered".
func (pr *pendingRequest) waitTimeout(d time.Duration) (body []byte, timedOut bool) {
	if d <= 0 {
		return pr.wait(), false
	}

	timer := time.AfterFunc(d, pr.completeTimeout)
	body = pr.wait()
	timer.Stop()

	pr.mu.Lock()
	timedOut = pr.timedOut
	pr.mu.Unlock()
	return body, timedOut
}

// pendingMap is the engine's correlation-id -> pendingRequest table.
type pendingMap struct {
	mu sync.Mutex
	m  map[uint32]*pendingRequest
}

func newPendingMap() *pendingMap {
	return &pendingMap{m: make(map[uint32]*pendingRequest)}
}

func (pm *pendingMap) insert(pr *pendingRequest) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.m[pr.requestID] = pr
}

func (pm *pendingMap) lookup(id uint32) (*pendingRequest, bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pr, ok := pm.m[id]
	return pr, ok
}

func (pm *pendingMap) remove(id uint32) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.m, id)
}

// snapshot returns every pending request currently registered, for shutdown
// to complete without holding the map mutex across each completion.
func (pm *pendingMap) snapshot() []*pendingRequest {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	out := make([]*pendingRequest, 0, len(pm.m))
	for _, pr := range pm.m {
		out = append(out, pr)
	}
	return out
}
