package drive

import (
	"testing"
	"time"

	"github.com/lane2go/lane2go/internal/persistence"
	"github.com/stretchr/testify/assert"
)

func createRecords() []persistence.Record {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return []persistence.Record{
		{Time: start, Angle: -3, Speed: 10, Estimated: 311, Error: -3},
		{Time: start.Add(33 * time.Millisecond), Angle: 0, Speed: 11, Estimated: 314, Error: 0},
		{Time: start.Add(66 * time.Millisecond), Angle: 8, Speed: 9, Estimated: 330, Error: 16},
	}
}

func TestTail(t *testing.T) {
	records := createRecords()

	assert.Equal(t, records, tail(records, 0))
	assert.Equal(t, records, tail(records, 5))
	assert.Equal(t, records[1:], tail(records, 2))
}

func TestRecordRows(t *testing.T) {
	// WHEN
	rows := recordRows(createRecords())

	// THEN
	assert.Equal(t, []string{"12:00:00.066", "8", "9", "330", "+16"}, rows[2])
	assert.Equal(t, "-3", rows[0][4])
}

func TestRecordSeries(t *testing.T) {
	// WHEN
	steering, speed := recordSeries(createRecords())

	// THEN
	assert.Equal(t, []float64{-3, 0, 8}, steering)
	assert.Equal(t, []float64{10, 11, 9}, speed)
}
