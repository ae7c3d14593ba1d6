// Package speed contains the hysteretic speed ramp of the vehicle.
package speed

import (
	"github.com/lane2go/lane2go/internal/configuration"
	"github.com/lane2go/lane2go/internal/util"
	"golang.org/x/exp/constraints"
)

// RampController slows the vehicle down by a fixed step while the steering angle
// exceeds a threshold and speeds it up by a fixed step otherwise. The result
// always stays within [minSpeed, maxSpeed].
type RampController[T constraints.Float] struct {
	minSpeed         T
	maxSpeed         T
	threshold        T
	accelerationStep T
	decelerationStep T
}

func NewRampController[T constraints.Float](
	minSpeed T,
	maxSpeed T,
	threshold T,
	accelerationStep T,
	decelerationStep T,
) *RampController[T] {
	return &RampController[T]{
		minSpeed:         minSpeed,
		maxSpeed:         maxSpeed,
		threshold:        threshold,
		accelerationStep: accelerationStep,
		decelerationStep: decelerationStep,
	}
}

func NewRampControllerFromConfig[T constraints.Float](config configuration.VehicleConfig) *RampController[T] {
	return NewRampController[T](
		T(config.MinSpeed),
		T(config.MaxSpeed),
		T(config.SpeedControlThreshold),
		T(config.AccelerationStep),
		T(config.DecelerationStep),
	)
}

// Update returns the speed for the next cycle, based on the current speed and steering angle
func (c *RampController[T]) Update(speed T, steeringAngle T) T {
	if steeringAngle > c.threshold || steeringAngle < -c.threshold {
		return util.Coerce(speed-c.decelerationStep, c.minSpeed, c.maxSpeed)
	}
	return util.Coerce(speed+c.accelerationStep, c.minSpeed, c.maxSpeed)
}
