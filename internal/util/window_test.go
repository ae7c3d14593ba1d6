package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestGetWindowSum(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(1)
	window.Append(2)

	// WHEN
	sum := GetWindowSum(window)

	// THEN
	assert.Equal(t, 3.0, sum)
}

func TestGetWindowSum_Evicts(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(1)
	window.Append(2)
	window.Append(3)
	window.Append(4)

	// WHEN
	sum := GetWindowSum(window)

	// THEN
	assert.Equal(t, 9.0, sum)
}

func TestGetWindowValues(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(1)
	window.Append(2)
	window.Append(3)
	window.Append(4)

	// WHEN
	values := GetWindowValues(window)

	// THEN
	assert.ElementsMatch(t, []float64{2, 3, 4}, values)
}
