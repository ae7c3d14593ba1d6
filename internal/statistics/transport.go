package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	publisherSubsystem = "publisher"
	framesSubsystem    = "frames"
)

type CommandCounters interface {
	Counters() (published, dropped, failed uint64)
}

type FrameCounters interface {
	Counters() (received, rejected uint64)
}

// TransportCollector exposes the counters of the frame intake and the command publisher
type TransportCollector struct {
	publisher CommandCounters
	frames    FrameCounters

	published *prometheus.Desc
	dropped   *prometheus.Desc
	failed    *prometheus.Desc
	received  *prometheus.Desc
	rejected  *prometheus.Desc
}

func NewTransportCollector(publisher CommandCounters, frames FrameCounters) *TransportCollector {
	return &TransportCollector{
		publisher: publisher,
		frames:    frames,
		published: prometheus.NewDesc(prometheus.BuildFQName(namespace, publisherSubsystem, "published_total"),
			"Number of commands delivered to the actuation channel",
			[]string{}, nil,
		),
		dropped: prometheus.NewDesc(prometheus.BuildFQName(namespace, publisherSubsystem, "dropped_total"),
			"Number of commands dropped because the queue was full",
			[]string{}, nil,
		),
		failed: prometheus.NewDesc(prometheus.BuildFQName(namespace, publisherSubsystem, "failed_total"),
			"Number of commands that could not be delivered",
			[]string{}, nil,
		),
		received: prometheus.NewDesc(prometheus.BuildFQName(namespace, framesSubsystem, "received_total"),
			"Number of camera frames accepted",
			[]string{}, nil,
		),
		rejected: prometheus.NewDesc(prometheus.BuildFQName(namespace, framesSubsystem, "rejected_total"),
			"Number of camera frames rejected as invalid",
			[]string{}, nil,
		),
	}
}

func (collector *TransportCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.published
	ch <- collector.dropped
	ch <- collector.failed
	ch <- collector.received
	ch <- collector.rejected
}

func (collector *TransportCollector) Collect(ch chan<- prometheus.Metric) {
	published, dropped, failed := collector.publisher.Counters()
	ch <- prometheus.MustNewConstMetric(collector.published, prometheus.CounterValue, float64(published))
	ch <- prometheus.MustNewConstMetric(collector.dropped, prometheus.CounterValue, float64(dropped))
	ch <- prometheus.MustNewConstMetric(collector.failed, prometheus.CounterValue, float64(failed))

	received, rejected := collector.frames.Counters()
	ch <- prometheus.MustNewConstMetric(collector.received, prometheus.CounterValue, float64(received))
	ch <- prometheus.MustNewConstMetric(collector.rejected, prometheus.CounterValue, float64(rejected))
}
