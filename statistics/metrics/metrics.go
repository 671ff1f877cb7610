// Package metrics re-exports the pieces of github.com/rcrowley/go-metrics
// this module's engine instrumentation needs, under the same names the
// teacher's statistics/metrics package called them by (Registry, Counter,
// Gauge, Histogram, Meter) — the teacher vendored/aliased this exact
// library locally; here it is a direct dependency instead.
package metrics

import gometrics "github.com/rcrowley/go-metrics"

type (
	Registry     = gometrics.Registry
	Counter      = gometrics.Counter
	Gauge        = gometrics.Gauge
	GaugeFloat64 = gometrics.GaugeFloat64
	Histogram    = gometrics.Histogram
	Meter        = gometrics.Meter
	Sample       = gometrics.Sample
)

func NewRegistry() Registry               { return gometrics.NewRegistry() }
func NewCounter() Counter                  { return gometrics.NewCounter() }
func NewGauge() Gauge                      { return gometrics.NewGauge() }
func NewGaugeFloat64() GaugeFloat64        { return gometrics.NewGaugeFloat64() }
func NewMeter() Meter                      { return gometrics.NewMeter() }
func NewUniformSample(n int) Sample        { return gometrics.NewUniformSample(n) }
func NewHistogram(s Sample) Histogram      { return gometrics.NewHistogram(s) }
