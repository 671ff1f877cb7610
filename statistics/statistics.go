// Package statistics owns one metrics.Registry per IpcEngine and the
// periodic log routine that reports it, generalized from the teacher's
// separate client/server globals (statistics/client.go, statistics/server.go)
// into one type since a single IpcEngine serves either role depending on
// which handler table it was constructed with.
package statistics

import (
	"github.com/dotcef/ipc/constant"
	"github.com/dotcef/ipc/statistics/metrics"
)

// Stats bundles the registry an engine instance reports into and the
// housekeeping needed to start/stop the periodic log routine.
type Stats struct {
	Title     string
	Enabled   bool
	Registry  metrics.Registry
	closeChan chan struct{}
}

func New(title string, enabled bool) *Stats {
	return &Stats{
		Title:     title,
		Enabled:   enabled,
		Registry:  metrics.NewRegistry(),
		closeChan: make(chan struct{}),
	}
}

// Run starts the periodic LogRoutine if stats are enabled; otherwise it is a no-op.
func (s *Stats) Run() {
	if s.Enabled {
		metrics.LogRoutine(s.Title, s.Registry, constant.DefaultMetricsLogInterval, s.closeChan)
	}
}

// Close stops the log routine and unregisters every metric.
func (s *Stats) Close() {
	close(s.closeChan)
	s.Registry.UnregisterAll()
}
