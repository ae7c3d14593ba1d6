package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const recorderSubsystem = "recorder"

type RecorderCounters interface {
	RunId() string
	Dropped() uint64
}

type RecorderCollector struct {
	recorder RecorderCounters

	dropped *prometheus.Desc
}

func NewRecorderCollector(recorder RecorderCounters) *RecorderCollector {
	return &RecorderCollector{
		recorder: recorder,
		dropped: prometheus.NewDesc(prometheus.BuildFQName(namespace, recorderSubsystem, "dropped_total"),
			"Number of commands missing in the recorded run because the recorder buffer was full",
			[]string{"run_id"}, nil,
		),
	}
}

func (collector *RecorderCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.dropped
}

func (collector *RecorderCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(collector.dropped, prometheus.CounterValue, float64(collector.recorder.Dropped()), collector.recorder.RunId())
}
