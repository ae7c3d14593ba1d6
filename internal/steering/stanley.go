package steering

import (
	"math"

	"golang.org/x/exp/constraints"
)

// StanleyLaw is a Stanley style lateral controller:
//
//	delta = heading + atan2(gain * crossTrackError, lookAheadDistance + |speed|)
//
// The look-ahead distance softens the law at low speeds and keeps it defined at standstill.
type StanleyLaw[T constraints.Float] struct {
	gain              T
	lookAheadDistance T
}

func NewStanleyLaw[T constraints.Float](gain T, lookAheadDistance T) *StanleyLaw[T] {
	return &StanleyLaw[T]{
		gain:              gain,
		lookAheadDistance: lookAheadDistance,
	}
}

func (l *StanleyLaw[T]) ComputeSteering(crossTrackError int, headingError T, speed T) T {
	crossTrackTerm := math.Atan2(
		float64(l.gain)*float64(crossTrackError),
		float64(l.lookAheadDistance)+math.Abs(float64(speed)),
	)
	return toDegrees(headingError + T(crossTrackTerm))
}
