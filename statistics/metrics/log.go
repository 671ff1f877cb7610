package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dotcef/ipc/log"
)

// LogRoutine reports r's contents to log.Info every freq until closeChan is
// closed, on its own goroutine.
func LogRoutine(title string, r Registry, freq time.Duration, closeChan chan struct{}) {
	go func() {
		ticker := time.NewTicker(freq)
		defer ticker.Stop()
		for {
			select {
			case <-closeChan:
				return
			case <-ticker.C:
				if line := format(title, r); line != "" {
					log.Info(line)
				}
			}
		}
	}()
}

// section accumulates the formatted entries for one metric kind (counter,
// gauge, hist, meter), sorted by name before rendering.
type section struct {
	kind    string
	entries []string
}

func (s *section) add(name, value string) {
	s.entries = append(s.entries, fmt.Sprintf("%s: %s", name, value))
}

func (s *section) render(sb *strings.Builder) {
	if len(s.entries) == 0 {
		return
	}
	sort.Strings(s.entries)
	fmt.Fprintf(sb, "%s(%d):{", s.kind, len(s.entries))
	for _, e := range s.entries {
		sb.WriteString("[")
		sb.WriteString(e)
		sb.WriteString("],")
	}
	sb.WriteString("}, ")
}

// format renders every metric in r into a single log line, grouped by kind.
// Histograms are snapshotted and cleared as they're read, matching the
// windowed-percentile reporting the rest of this package's metrics assume;
// counters, gauges, and meters are cumulative and left untouched.
func format(title string, r Registry) string {
	counters := &section{kind: "counter"}
	gauges := &section{kind: "gauge"}
	hists := &section{kind: "hist"}
	meters := &section{kind: "meter"}

	r.Each(func(name string, i interface{}) {
		switch metric := i.(type) {
		case Counter:
			if n := metric.Count(); n != 0 {
				counters.add(name, fmt.Sprintf("%d", n))
			}
		case Gauge:
			if n := metric.Value(); n != 0 {
				gauges.add(name, fmt.Sprintf("%d", n))
			}
		case GaugeFloat64:
			if n := metric.Value(); n != 0 {
				gauges.add(name, fmt.Sprintf("%f", n))
			}
		case Histogram:
			if metric.Count() == 0 {
				return
			}
			h := metric.Snapshot()
			metric.Clear()
			ps := h.Percentiles([]float64{0.5, 0.75, 0.95, 0.99})
			hists.add(name, fmt.Sprintf("count=%d, min=%d, max=%d, mean=%.2f, stddev=%.2f, median=%.2f, 75%%=%.2f, 95%%=%.2f, 99%%=%.2f",
				h.Count(), h.Min(), h.Max(), h.Mean(), h.StdDev(), ps[0], ps[1], ps[2], ps[3]))
		case Meter:
			if metric.Count() == 0 {
				return
			}
			m := metric.Snapshot()
			meters.add(name, fmt.Sprintf("count=%d, 1mRate=%.2f, 5mRate=%.2f, 15mRate=%.2f, meanRate=%.2f",
				metric.Count(), m.Rate1(), m.Rate5(), m.Rate15(), m.RateMean()))
		}
	})

	var sb strings.Builder
	for _, s := range []*section{counters, gauges, hists, meters} {
		s.render(&sb)
	}
	if sb.Len() == 0 {
		return ""
	}
	return title + "==>" + sb.String()
}
