package ipc

import "github.com/dotcef/ipc/statistics/metrics"

// metricsHandle bundles the engine's registered metrics, grounded in the
// teacher's client/transport.go histogram fields (connGetHist, tripHist, ...)
// generalized from connection-pool timings to packet/call/stream timings.
type metricsHandle struct {
	tripHist       metrics.Histogram
	packetsRead    metrics.Counter
	buffersInFlight metrics.Counter
	openStreams    metrics.Gauge
	streamBytes    metrics.Meter
}

func (e *Engine) initMetrics() {
	e.tripHist = metrics.NewHistogram(metrics.NewUniformSample(1028))
	e.packetsRead = metrics.NewCounter()
	e.buffersInFlight = metrics.NewCounter()
	e.openStreams = metrics.NewGauge()
	e.streamBytes = metrics.NewMeter()

	_ = e.stats.Registry.Register("call.roundtrip.ms", e.tripHist)
	_ = e.stats.Registry.Register("packets.read", e.packetsRead)
	_ = e.stats.Registry.Register("buffers.inflight", e.buffersInFlight)
	_ = e.stats.Registry.Register("streams.open", e.openStreams)
	_ = e.stats.Registry.Register("stream.bytes", e.streamBytes)
}
