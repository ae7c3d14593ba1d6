// Package filter contains the smoothing applied to the lane center estimates.
package filter

import (
	"errors"

	"github.com/asecurityteam/rolling"
	"github.com/lane2go/lane2go/internal/util"
	"golang.org/x/exp/constraints"
)

var ErrNoSamples = errors.New("moving average filter has no samples yet")

// MovingAverageFilter is a bounded-memory moving average. Once the window is
// full, each new sample evicts the oldest one.
// It is not safe for concurrent use.
type MovingAverageFilter[T constraints.Float] struct {
	window     *rolling.PointPolicy
	sampleSize int
	count      int
	last       int
}

func NewMovingAverageFilter[T constraints.Float](sampleSize int) *MovingAverageFilter[T] {
	if sampleSize < 1 {
		sampleSize = 1
	}
	return &MovingAverageFilter[T]{
		window:     util.CreateRollingWindow(sampleSize),
		sampleSize: sampleSize,
	}
}

func (f *MovingAverageFilter[T]) AddSample(sample int) {
	f.window.Append(float64(sample))
	f.last = sample
	if f.count < f.sampleSize {
		f.count++
	}
}

// GetResult returns the mean of the samples currently held by the filter,
// or ErrNoSamples if no sample was added yet.
func (f *MovingAverageFilter[T]) GetResult() (T, error) {
	if f.count == 0 {
		return 0, ErrNoSamples
	}
	// empty slots of the window hold 0, so they don't contribute to the sum
	sum := util.GetWindowSum(f.window)
	return T(sum / float64(f.count)), nil
}

// Count returns the number of samples currently held, at most Capacity()
func (f *MovingAverageFilter[T]) Count() int {
	return f.count
}

func (f *MovingAverageFilter[T]) Capacity() int {
	return f.sampleSize
}

// LastSample returns the most recently added sample
func (f *MovingAverageFilter[T]) LastSample() int {
	return f.last
}
