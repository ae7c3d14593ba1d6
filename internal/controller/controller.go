package controller

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/lane2go/lane2go/internal/actuation"
	"github.com/lane2go/lane2go/internal/configuration"
	"github.com/lane2go/lane2go/internal/filter"
	"github.com/lane2go/lane2go/internal/perception"
	"github.com/lane2go/lane2go/internal/speed"
	"github.com/lane2go/lane2go/internal/steering"
	"github.com/lane2go/lane2go/internal/ui"
	"github.com/lane2go/lane2go/internal/util"
	"golang.org/x/exp/constraints"
)

// FrameSource provides the most recent camera frame
type FrameSource interface {
	CurrentFrame() (*perception.Frame, bool)
}

type Publisher interface {
	// Publish hands the command over to the actuation channel, without waiting for delivery
	Publish(command actuation.Command)
}

// CycleListener is notified after every active cycle. Listeners are called on the
// control loop goroutine and must not block.
type CycleListener[T constraints.Float] interface {
	OnCycle(frame *perception.Frame, result CycleResult[T])
}

// CycleResult holds the intermediate values of a single active cycle
type CycleResult[T constraints.Float] struct {
	Time        time.Time               `json:"time"`
	Position    perception.LanePosition `json:"position"`
	Estimated   int                     `json:"estimated"`
	Error       int                     `json:"error"`
	RawSteering T                       `json:"-"`
	Steering    T                       `json:"steering"`
	Speed       T                       `json:"speed"`
	Command     actuation.Command       `json:"command"`
}

type ControlLoopStatistics struct {
	IdleCycles           uint64 `json:"idleCycles"`
	ActiveCycles         uint64 `json:"activeCycles"`
	DegenerateDetections uint64 `json:"degenerateDetections"`
	SaturatedSteering    uint64 `json:"saturatedSteering"`
}

type Dependencies[T constraints.Float] struct {
	Frames    FrameSource
	Detector  perception.Detector
	Law       steering.SteeringLaw[T]
	Publisher Publisher
	Listeners []CycleListener[T]
}

// ControlLoop turns the latest camera frame into a steering and speed command once per cycle.
// It is Idle until the first frame arrives and Active from then on.
type ControlLoop[T constraints.Float] struct {
	frames    FrameSource
	detector  perception.Detector
	filter    *filter.MovingAverageFilter[T]
	law       steering.SteeringLaw[T]
	ramp      *speed.RampController[T]
	publisher Publisher
	listeners []CycleListener[T]

	cycleRate     time.Duration
	steeringLimit T
	centerOffset  int

	speed T

	mu         sync.Mutex
	statistics ControlLoopStatistics
	lastResult *CycleResult[T]

	now func() time.Time
}

func NewControlLoop[T constraints.Float](config configuration.Configuration, deps Dependencies[T]) *ControlLoop[T] {
	return &ControlLoop[T]{
		frames:    deps.Frames,
		detector:  deps.Detector,
		filter:    filter.NewMovingAverageFilter[T](config.MovingAverageFilter.SampleSize),
		law:       deps.Law,
		ramp:      speed.NewRampControllerFromConfig[T](config.Vehicle),
		publisher: deps.Publisher,
		listeners: deps.Listeners,

		cycleRate:     config.ControlRate,
		steeringLimit: T(math.Abs(config.Vehicle.SteeringAngleLimit)),
		centerOffset:  config.Steering.CenterOffset,

		speed: T(config.Vehicle.StartSpeed),
		now:   time.Now,
	}
}

// Run executes one cycle per tick until ctx is cancelled.
// A cycle that has already started is always completed.
func (l *ControlLoop[T]) Run(ctx context.Context) error {
	ui.Info("Starting control loop (cycle rate: %s)", l.cycleRate)

	ticker := time.NewTicker(l.cycleRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Cycle()
		}
	}
}

// Cycle runs a single iteration of the control loop and returns the emitted command.
// If no frame was received yet, nothing is changed and no command is emitted.
func (l *ControlLoop[T]) Cycle() (actuation.Command, bool) {
	frame, ok := l.frames.CurrentFrame()
	if !ok {
		l.mu.Lock()
		l.statistics.IdleCycles++
		l.mu.Unlock()
		return actuation.Command{}, false
	}

	position := l.detector.GetLanePosition(frame)

	l.filter.AddSample(position.Center())
	smoothed, err := l.filter.GetResult()
	if err != nil {
		// unreachable, a sample was just added
		ui.Error("Moving average filter: %v", err)
		return actuation.Command{}, false
	}
	estimated := util.RoundToInt(smoothed)
	errorFromMid := estimated - frame.Width/2 + l.centerOffset

	rawSteering := l.law.ComputeSteering(errorFromMid, 0, l.speed)
	steeringAngle := l.clampSteering(rawSteering)

	l.speed = l.ramp.Update(l.speed, steeringAngle)

	command := actuation.NewCommand(steeringAngle, l.speed)
	l.publisher.Publish(command)
	ui.Debug("%v  %v", steeringAngle, l.speed)

	result := CycleResult[T]{
		Time:        l.now(),
		Position:    position,
		Estimated:   estimated,
		Error:       errorFromMid,
		RawSteering: rawSteering,
		Steering:    steeringAngle,
		Speed:       l.speed,
		Command:     command,
	}
	l.record(result)

	for _, listener := range l.listeners {
		listener.OnCycle(frame, result)
	}

	return command, true
}

// clampSteering limits the steering angle to the actuator range,
// an undefined steering angle results in driving straight
func (l *ControlLoop[T]) clampSteering(angle T) T {
	if math.IsNaN(float64(angle)) {
		return 0
	}
	return util.Coerce(angle, -l.steeringLimit, l.steeringLimit)
}

func (l *ControlLoop[T]) record(result CycleResult[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.statistics.ActiveCycles++
	if result.Position.Degenerate() {
		l.statistics.DegenerateDetections++
		ui.Debug("Lane not found (left: %v, right: %v)", result.Position.LeftFound, result.Position.RightFound)
	}
	if result.RawSteering != result.Steering {
		l.statistics.SaturatedSteering++
	}
	l.lastResult = &result
}

// Speed returns the current vehicle speed, it must not be called while Run is active
func (l *ControlLoop[T]) Speed() T {
	return l.speed
}

func (l *ControlLoop[T]) GetStatistics() ControlLoopStatistics {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.statistics
}

// LastResult returns the result of the most recent active cycle, if any
func (l *ControlLoop[T]) LastResult() (CycleResult[T], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastResult == nil {
		return CycleResult[T]{}, false
	}
	return *l.lastResult, true
}

// IsActive reports whether at least one frame was processed
func (l *ControlLoop[T]) IsActive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastResult != nil
}
