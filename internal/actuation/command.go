// Package actuation contains the actuation command and its asynchronous publishing.
package actuation

import (
	"github.com/lane2go/lane2go/internal/util"
	"golang.org/x/exp/constraints"
)

// Command is a single steering and speed command for the vehicle
type Command struct {
	// Angle is the steering angle in degrees
	Angle int `json:"angle"`
	Speed int `json:"speed"`
}

func NewCommand[T constraints.Float](steeringAngle T, speed T) Command {
	return Command{
		Angle: util.RoundToInt(steeringAngle),
		Speed: util.RoundToInt(speed),
	}
}
