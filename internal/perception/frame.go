// Package perception receives camera images and locates the lanes in them.
package perception

import (
	"errors"
	"fmt"
)

const (
	EncodingRGB8 = "rgb8"
	EncodingBGR8 = "bgr8"

	channels = 3

	// MaxImageDimension bounds width and height of accepted images
	MaxImageDimension = 8192
)

var ErrInvalidImage = errors.New("invalid image")

// Image is a raw camera image as delivered by the transport
type Image struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Step     int    `json:"step"`
	Encoding string `json:"encoding"`
	Data     []byte `json:"data"`
}

// Frame is a packed 8 bit BGR image, rows are Stride bytes apart
type Frame struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// At returns the blue, green and red value of the pixel at x, y
func (f *Frame) At(x, y int) (b, g, r uint8) {
	i := y*f.Stride + x*channels
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Gray returns the luma of the pixel at x, y
func (f *Frame) Gray(x, y int) uint8 {
	b, g, r := f.At(x, y)
	// ITU-R BT.601
	return uint8((299*int(r) + 587*int(g) + 114*int(b) + 500) / 1000)
}

func (img *Image) validate() error {
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, img.Width, img.Height)
	}
	if img.Width > MaxImageDimension || img.Height > MaxImageDimension {
		return fmt.Errorf("%w: dimensions %dx%d exceed %d", ErrInvalidImage, img.Width, img.Height, MaxImageDimension)
	}
	if img.Height > 1 && img.Step > len(img.Data) {
		return fmt.Errorf("%w: step %d exceeds the data length %d", ErrInvalidImage, img.Step, len(img.Data))
	}
	if img.Step < img.Width*channels {
		return fmt.Errorf("%w: step %d is smaller than a row of %d pixels", ErrInvalidImage, img.Step, img.Width)
	}
	required := (img.Height-1)*img.Step + img.Width*channels
	if len(img.Data) < required {
		return fmt.Errorf("%w: expected at least %d bytes, got %d", ErrInvalidImage, required, len(img.Data))
	}
	return nil
}

// ToBGRFrame converts the image into a packed BGR frame.
func (img *Image) ToBGRFrame() (*Frame, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}

	var swap bool
	switch img.Encoding {
	case EncodingRGB8, "":
		swap = true
	case EncodingBGR8:
		swap = false
	default:
		return nil, fmt.Errorf("%w: unsupported encoding '%s'", ErrInvalidImage, img.Encoding)
	}

	stride := img.Width * channels
	frame := &Frame{
		Width:  img.Width,
		Height: img.Height,
		Stride: stride,
		Pix:    make([]byte, stride*img.Height),
	}
	for y := 0; y < img.Height; y++ {
		src := img.Data[y*img.Step : y*img.Step+stride]
		dst := frame.Pix[y*stride : (y+1)*stride]
		if !swap {
			copy(dst, src)
			continue
		}
		for x := 0; x < stride; x += channels {
			dst[x] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x]
		}
	}
	return frame, nil
}
