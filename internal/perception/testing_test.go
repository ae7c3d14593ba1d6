package perception

// newUniformFrame creates a BGR frame where every pixel has the given gray value
func newUniformFrame(width, height int, gray uint8) *Frame {
	stride := width * channels
	pix := make([]byte, stride*height)
	for i := range pix {
		pix[i] = gray
	}
	return &Frame{Width: width, Height: height, Stride: stride, Pix: pix}
}

// paintColumns sets the given columns of every row to the gray value
func paintColumns(frame *Frame, from, to int, gray uint8) {
	for y := 0; y < frame.Height; y++ {
		for x := from; x <= to; x++ {
			i := y*frame.Stride + x*channels
			frame.Pix[i] = gray
			frame.Pix[i+1] = gray
			frame.Pix[i+2] = gray
		}
	}
}
