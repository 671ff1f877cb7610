package ipc

import (
	"time"

	"github.com/dotcef/ipc/constant"
)

// Config tunes the engine's defaults, mirroring the teacher's client/config.go
// accessor pattern: a zero Config is valid and every Get falls back to a
// package-level default.
type Config struct {
	MaxPacketBody       int
	DataStreamCapacity  int
	WorkerPoolSize      int
	BufferPoolSize      int
	BufferPoolInitial   int
	StatsEnabled        bool
	StatsTitle          string

	// PendingRequestTimeout bounds how long Call waits for a response.
	// Zero (the default, constant.NoTimeout) means block forever, matching
	// spec.md §5's "there are no per-call timeouts" — set it only to give a
	// caller an escape hatch against a wedged peer.
	PendingRequestTimeout time.Duration
}

func (c Config) pendingRequestTimeout() time.Duration {
	if c.PendingRequestTimeout > 0 {
		return c.PendingRequestTimeout
	}
	return constant.NoTimeout
}

func (c Config) maxPacketBody() int {
	if c.MaxPacketBody > 0 {
		return c.MaxPacketBody
	}
	return constant.MaxPacketBody
}

func (c Config) dataStreamCapacity() int {
	if c.DataStreamCapacity > 0 {
		return c.DataStreamCapacity
	}
	return constant.DefaultDataStreamCapacity
}

func (c Config) workerPoolSize() int {
	if c.WorkerPoolSize > 0 {
		return c.WorkerPoolSize
	}
	return constant.DefaultWorkerPoolSize
}

// bufferPoolSize defaults to maxPacketBody: the pool has to be able to hand
// out a buffer for the largest packet the header-size check will accept, or
// a legal body between the old fixed default and the cap gets dropped with
// ErrBufferTooSmall after already passing that check.
func (c Config) bufferPoolSize() int {
	if c.BufferPoolSize > 0 {
		return c.BufferPoolSize
	}
	return c.maxPacketBody()
}

func (c Config) bufferPoolInitial() int {
	if c.BufferPoolInitial > 0 {
		return c.BufferPoolInitial
	}
	return constant.DefaultBufferPoolInitial
}

func (c Config) statsTitle() string {
	if c.StatsTitle != "" {
		return c.StatsTitle
	}
	return "IpcEngine"
}
