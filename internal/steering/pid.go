package steering

import (
	"math"
	"time"

	"github.com/lane2go/lane2go/internal/util"
	"golang.org/x/exp/constraints"
)

// PidLaw steers using a PID loop on the cross-track error.
// The loop drives the error towards zero, its output is used as steering angle directly.
type PidLaw[T constraints.Float] struct {
	pidLoop *util.PidLoop
}

func NewPidLaw[T constraints.Float](p, i, d float64) *PidLaw[T] {
	return &PidLaw[T]{
		pidLoop: util.NewPidLoop(p, i, d, math.Inf(-1), math.Inf(1)),
	}
}

// WithClock replaces the time source of the underlying PID loop
func (l *PidLaw[T]) WithClock(now func() time.Time) *PidLaw[T] {
	l.pidLoop.WithClock(now)
	return l
}

func (l *PidLaw[T]) ComputeSteering(crossTrackError int, headingError T, speed T) T {
	// with a setpoint of zero and the negated error as measurement, the
	// loop error equals the cross-track error and the derivative term
	// acts on the change of the cross-track error
	measured := -float64(crossTrackError)
	output := l.pidLoop.Loop(0, measured)
	return T(output)
}
