// Package steering contains the steering laws that turn a cross-track error into a steering angle.
package steering

import (
	"fmt"
	"math"

	"github.com/lane2go/lane2go/internal/configuration"
	"golang.org/x/exp/constraints"
)

type SteeringLaw[T constraints.Float] interface {
	// ComputeSteering calculates the steering angle (in degrees) for the given
	// cross-track error (in pixels), heading error (in radians) and vehicle speed.
	// The result is not bounded, clamping is up to the caller.
	ComputeSteering(crossTrackError int, headingError T, speed T) T
}

// NewSteeringLaw creates the steering law selected by the given configuration.
func NewSteeringLaw[T constraints.Float](config configuration.SteeringConfig) (SteeringLaw[T], error) {
	switch config.Type {
	case configuration.SteeringLawStanley:
		return NewStanleyLaw[T](T(config.Stanley.Gain), T(config.Stanley.LookAheadDistance)), nil
	case configuration.SteeringLawPid:
		return NewPidLaw[T](config.Pid.P, config.Pid.I, config.Pid.D), nil
	}
	return nil, fmt.Errorf("no matching steering law for type: %s", config.Type)
}

func toDegrees[T constraints.Float](radians T) T {
	return T(float64(radians) * 180 / math.Pi)
}
