package constant

import "time"

const (
	// HeaderSize is the fixed 10-byte packet header: size(4) + request_id(4) + kind(1) + opcode(1).
	HeaderSize = 10

	// MaxPacketBody is the compile-time cap on a packet's body length (the
	// bytes after the 10-byte header).
	// Packets that declare a larger size terminate the connection.
	MaxPacketBody = 10 << 20

	// DefaultDataStreamCapacity is the default ring buffer size for a DataStream.
	DefaultDataStreamCapacity = 10 << 20

	// DefaultWorkerPoolSize is the number of workers draining Parallel-class
	// requests and all inbound notifications.
	DefaultWorkerPoolSize = 4

	// DefaultBufferPoolInitial is how many buffers the pool pre-allocates on
	// construction.
	DefaultBufferPoolInitial = 8

	// DefaultMetricsLogInterval matches the teacher's statistics reporting cadence.
	DefaultMetricsLogInterval = 10 * time.Second

	// NoTimeout is the sentinel PendingRequestTimeout value meaning "block forever",
	// matching spec.md §5: "there are no per-call timeouts."
	NoTimeout = time.Duration(0)
)
