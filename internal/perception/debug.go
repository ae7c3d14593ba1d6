package perception

import (
	"image"
	"image/color"
	"image/draw"
)

const markerHalfSize = 5

var (
	colorScanRow   = color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}
	colorLane      = color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}
	colorLaneLost  = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
	colorEstimated = color.RGBA{R: 0x00, G: 0x00, B: 0xff, A: 0xff}
	colorCenter    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// DebugImage renders the frame together with the scan row, the detected
// lanes and the estimated lane center.
func (d *RowScanDetector) DebugImage(frame *Frame, position LanePosition, estimated int) *image.RGBA {
	img := frame.ToImage()
	row := d.ScanRow(frame.Height)

	draw.Draw(img, image.Rect(0, row, frame.Width, row+1), image.NewUniform(colorScanRow), image.Point{}, draw.Src)

	drawMarker(img, position.Left, row, laneColor(position.LeftFound))
	drawMarker(img, position.Right, row, laneColor(position.RightFound))
	drawMarker(img, estimated, row, colorEstimated)
	drawMarker(img, frame.Width/2, row, colorCenter)
	return img
}

func laneColor(found bool) color.Color {
	if found {
		return colorLane
	}
	return colorLaneLost
}

// drawMarker draws the outline of a square centered at x, y
func drawMarker(img *image.RGBA, x, y int, c color.Color) {
	rect := image.Rect(x-markerHalfSize, y-markerHalfSize, x+markerHalfSize, y+markerHalfSize)
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1),
		image.Rect(rect.Min.X, rect.Max.Y-1, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+1, rect.Max.Y),
		image.Rect(rect.Max.X-1, rect.Min.Y, rect.Max.X, rect.Max.Y),
	}
	for _, edge := range edges {
		draw.Draw(img, edge.Intersect(img.Bounds()), src, image.Point{}, draw.Src)
	}
}
