package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	// GIVEN
	min, max := -50.0, 50.0

	// WHEN
	above := Coerce(1000.0, min, max)
	below := Coerce(-1000.0, min, max)
	within := Coerce(12.5, min, max)

	// THEN
	assert.Equal(t, 50.0, above)
	assert.Equal(t, -50.0, below)
	assert.Equal(t, 12.5, within)
}

func TestCoerceFloat32(t *testing.T) {
	// WHEN
	result := Coerce(float32(51), -50, 50)

	// THEN
	assert.Equal(t, float32(50), result)
}

func TestAvg(t *testing.T) {
	// GIVEN
	values := []float64{1, 2, 3, 4}

	// WHEN
	result := Avg(values)

	// THEN
	assert.Equal(t, 2.5, result)
}

func TestRoundToInt(t *testing.T) {
	assert.Equal(t, 3, RoundToInt(2.5))
	assert.Equal(t, -3, RoundToInt(-2.5))
	assert.Equal(t, 2, RoundToInt(2.49))
	assert.Equal(t, 0, RoundToInt(float32(-0.4)))
}
