package datastream

import "sync"

// Registry is the engine's stream table: id -> Stream, guarded by its own
// mutex, mutated by stream-opcode handlers and by shutdown.
type Registry struct {
	mu      sync.Mutex
	streams map[uint32]*Stream
	cap     int
}

func NewRegistry(capacity int) *Registry {
	return &Registry{streams: make(map[uint32]*Stream), cap: capacity}
}

// Open inserts a new Stream for id if absent; idempotent. Returns the
// (possibly pre-existing) stream.
func (r *Registry) Open(id uint32) *Stream {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.streams[id]; ok {
		return s
	}
	s := New(id, r.cap)
	r.streams[id] = s
	return s
}

// Get looks up an existing stream without creating one.
func (r *Registry) Get(id uint32) (*Stream, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.streams[id]
	return s, ok
}

// Close closes and removes the stream for id, if present. Returns whether
// the stream existed.
func (r *Registry) Close(id uint32) bool {
	r.mu.Lock()
	s, ok := r.streams[id]
	if ok {
		delete(r.streams, id)
	}
	r.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

// CloseAll closes and removes every registered stream, used by engine shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.streams
	r.streams = make(map[uint32]*Stream)
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}

// Len reports the number of open streams, used for the open-DataStreams gauge.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.streams)
}
