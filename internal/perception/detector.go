package perception

import (
	"github.com/lane2go/lane2go/internal/configuration"
	"github.com/lane2go/lane2go/internal/util"
)

// LanePosition is the horizontal pixel position of the left and right lane
// marking. A side that could not be found is reported at the respective frame
// edge (0 or the frame width) with its Found flag set to false.
type LanePosition struct {
	Left       int  `json:"left"`
	Right      int  `json:"right"`
	LeftFound  bool `json:"leftFound"`
	RightFound bool `json:"rightFound"`
}

// Degenerate reports whether at least one of the lanes was not found
func (p LanePosition) Degenerate() bool {
	return !p.LeftFound || !p.RightFound
}

// Center is the midpoint between both lanes
func (p LanePosition) Center() int {
	return (p.Left + p.Right) / 2
}

type Detector interface {
	// GetLanePosition locates the lanes in the given frame. It always returns a position,
	// see LanePosition for the contract of lanes that were not found.
	GetLanePosition(frame *Frame) LanePosition
}

// RowScanDetector finds the lanes by scanning a single image row outwards from
// the image center, looking for the first run of lane colored pixels on each side.
type RowScanDetector struct {
	scanRow      int
	threshold    uint8
	darkLanes    bool
	minLaneWidth int
}

func NewRowScanDetector(config configuration.DetectorConfig) *RowScanDetector {
	return &RowScanDetector{
		scanRow:      config.ScanRow,
		threshold:    uint8(util.Coerce(config.Threshold, 0, 255)),
		darkLanes:    config.DarkLanes,
		minLaneWidth: max(config.MinLaneWidth, 1),
	}
}

// ScanRow returns the row that is scanned in a frame of the given height
func (d *RowScanDetector) ScanRow(height int) int {
	return util.Coerce(d.scanRow, 0, height-1)
}

func (d *RowScanDetector) GetLanePosition(frame *Frame) LanePosition {
	row := d.ScanRow(frame.Height)
	center := frame.Width / 2

	position := LanePosition{
		Left:  0,
		Right: frame.Width,
	}
	if left, ok := d.findLane(frame, row, center-1, -1); ok {
		position.Left = left
		position.LeftFound = true
	}
	if right, ok := d.findLane(frame, row, center, 1); ok {
		position.Right = right
		position.RightFound = true
	}
	return position
}

func (d *RowScanDetector) isLanePixel(frame *Frame, x, y int) bool {
	gray := frame.Gray(x, y)
	if d.darkLanes {
		return gray < d.threshold
	}
	return gray > d.threshold
}

// findLane walks from start in the given direction and returns the center
// of the first run of lane pixels that is at least minLaneWidth wide
func (d *RowScanDetector) findLane(frame *Frame, row int, start int, direction int) (int, bool) {
	runStart := -1
	for x := start; x >= 0 && x < frame.Width; x += direction {
		if d.isLanePixel(frame, x, row) {
			if runStart < 0 {
				runStart = x
			}
			continue
		}
		if runStart >= 0 {
			if width := (x - runStart) * direction; width >= d.minLaneWidth {
				return (runStart + x - direction) / 2, true
			}
			runStart = -1
		}
	}

	if runStart >= 0 {
		end := 0
		if direction > 0 {
			end = frame.Width - 1
		}
		if width := (end-runStart)*direction + 1; width >= d.minLaneWidth {
			return (runStart + end) / 2, true
		}
	}
	return 0, false
}
