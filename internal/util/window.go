package util

import "github.com/asecurityteam/rolling"

// CreateRollingWindow creates a point window holding the last "size" values.
// Note that unused slots of a fresh window hold 0.
func CreateRollingWindow(size int) *rolling.PointPolicy {
	return rolling.NewPointPolicy(rolling.NewWindow(size))
}

// GetWindowSum returns the sum of all values in the given window
func GetWindowSum(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Sum)
}

// GetWindowValues returns a copy of all slots in the given window, in slot order
func GetWindowValues(window *rolling.PointPolicy) []float64 {
	var values []float64
	window.Reduce(func(w rolling.Window) float64 {
		for _, bucket := range w {
			values = append(values, bucket...)
		}
		return 0
	})
	return values
}
