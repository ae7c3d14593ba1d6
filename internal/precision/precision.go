//go:build !lane2go_float32

// Package precision fixes the floating point type used throughout the control core.
// Build with the "lane2go_float32" tag to run the whole loop in single precision.
package precision

type Float = float64
