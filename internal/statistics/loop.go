package statistics

import (
	"github.com/lane2go/lane2go/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/constraints"
)

const loopSubsystem = "loop"

type ControlLoop[T constraints.Float] interface {
	GetStatistics() controller.ControlLoopStatistics
	LastResult() (controller.CycleResult[T], bool)
}

type LoopCollector[T constraints.Float] struct {
	loop ControlLoop[T]

	steeringAngle        *prometheus.Desc
	speed                *prometheus.Desc
	estimatedPosition    *prometheus.Desc
	crossTrackError      *prometheus.Desc
	idleCycles           *prometheus.Desc
	activeCycles         *prometheus.Desc
	degenerateDetections *prometheus.Desc
	saturatedSteering    *prometheus.Desc
}

func NewLoopCollector[T constraints.Float](loop ControlLoop[T]) *LoopCollector[T] {
	return &LoopCollector[T]{
		loop: loop,
		steeringAngle: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "steering_angle"),
			"Steering angle of the most recent cycle, in degrees",
			nil, nil,
		),
		speed: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "speed"),
			"Vehicle speed of the most recent cycle",
			nil, nil,
		),
		estimatedPosition: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "estimated_position"),
			"Smoothed lane center of the most recent cycle, in pixels",
			nil, nil,
		),
		crossTrackError: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "error"),
			"Cross-track error of the most recent cycle, in pixels",
			nil, nil,
		),
		idleCycles: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "idle_cycles_total"),
			"Number of cycles without a camera frame",
			nil, nil,
		),
		activeCycles: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "active_cycles_total"),
			"Number of cycles that emitted a command",
			nil, nil,
		),
		degenerateDetections: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "degenerate_detections_total"),
			"Number of cycles where at least one lane line was not found",
			nil, nil,
		),
		saturatedSteering: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "saturated_steering_total"),
			"Number of cycles where the steering angle had to be clamped",
			nil, nil,
		),
	}
}

func (collector *LoopCollector[T]) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.steeringAngle
	ch <- collector.speed
	ch <- collector.estimatedPosition
	ch <- collector.crossTrackError
	ch <- collector.idleCycles
	ch <- collector.activeCycles
	ch <- collector.degenerateDetections
	ch <- collector.saturatedSteering
}

// Collect implements required collect function for all prometheus collectors
func (collector *LoopCollector[T]) Collect(ch chan<- prometheus.Metric) {
	stats := collector.loop.GetStatistics()
	ch <- prometheus.MustNewConstMetric(collector.idleCycles, prometheus.CounterValue, float64(stats.IdleCycles))
	ch <- prometheus.MustNewConstMetric(collector.activeCycles, prometheus.CounterValue, float64(stats.ActiveCycles))
	ch <- prometheus.MustNewConstMetric(collector.degenerateDetections, prometheus.CounterValue, float64(stats.DegenerateDetections))
	ch <- prometheus.MustNewConstMetric(collector.saturatedSteering, prometheus.CounterValue, float64(stats.SaturatedSteering))

	result, ok := collector.loop.LastResult()
	if !ok {
		return
	}
	ch <- prometheus.MustNewConstMetric(collector.steeringAngle, prometheus.GaugeValue, float64(result.Steering))
	ch <- prometheus.MustNewConstMetric(collector.speed, prometheus.GaugeValue, float64(result.Speed))
	ch <- prometheus.MustNewConstMetric(collector.estimatedPosition, prometheus.GaugeValue, float64(result.Estimated))
	ch <- prometheus.MustNewConstMetric(collector.crossTrackError, prometheus.GaugeValue, float64(result.Error))
}
