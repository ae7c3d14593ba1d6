package perception

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImage_ToBGRFrame_SwapsChannels(t *testing.T) {
	// GIVEN
	image := Image{
		Width:    2,
		Height:   1,
		Step:     6,
		Encoding: EncodingRGB8,
		Data:     []byte{1, 2, 3, 4, 5, 6},
	}

	// WHEN
	frame, err := image.ToBGRFrame()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 2, 1, 6, 5, 4}, frame.Pix)
	b, g, r := frame.At(1, 0)
	assert.Equal(t, []uint8{6, 5, 4}, []uint8{b, g, r})
}

func TestImage_ToBGRFrame_DropsRowPadding(t *testing.T) {
	// GIVEN
	image := Image{
		Width:    1,
		Height:   2,
		Step:     4,
		Encoding: EncodingRGB8,
		Data:     []byte{10, 20, 30, 0xff, 40, 50, 60},
	}

	// WHEN
	frame, err := image.ToBGRFrame()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 3, frame.Stride)
	assert.Equal(t, []byte{30, 20, 10, 60, 50, 40}, frame.Pix)
}

func TestImage_ToBGRFrame_KeepsBGR(t *testing.T) {
	// GIVEN
	image := Image{
		Width:    1,
		Height:   1,
		Step:     3,
		Encoding: EncodingBGR8,
		Data:     []byte{1, 2, 3},
	}

	// WHEN
	frame, err := image.ToBGRFrame()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, frame.Pix)
}

func TestImage_ToBGRFrame_DoesNotAliasInput(t *testing.T) {
	// GIVEN
	data := []byte{1, 2, 3}
	image := Image{Width: 1, Height: 1, Step: 3, Encoding: EncodingBGR8, Data: data}

	// WHEN
	frame, err := image.ToBGRFrame()
	data[0] = 99

	// THEN
	require.NoError(t, err)
	assert.Equal(t, byte(1), frame.Pix[0])
}

func TestImage_ToBGRFrame_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		image Image
	}{
		{"zero width", Image{Width: 0, Height: 1, Step: 3, Data: []byte{1, 2, 3}}},
		{"step too small", Image{Width: 2, Height: 1, Step: 3, Data: make([]byte, 6)}},
		{"buffer too small", Image{Width: 2, Height: 2, Step: 6, Data: make([]byte, 11)}},
		{"huge width", Image{Width: 1 << 62, Height: 1, Step: 0, Encoding: EncodingRGB8, Data: []byte{1, 2, 3}}},
		{"huge height", Image{Width: 1, Height: 1 << 62, Step: 3, Encoding: EncodingRGB8, Data: []byte{1, 2, 3}}},
		{"step beyond data", Image{Width: 1, Height: 2, Step: 1 << 62, Encoding: EncodingRGB8, Data: make([]byte, 6)}},
		{"unsupported encoding", Image{Width: 1, Height: 1, Step: 3, Encoding: "mono8", Data: make([]byte, 3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// WHEN
			frame, err := tt.image.ToBGRFrame()

			// THEN
			assert.Nil(t, frame)
			assert.True(t, errors.Is(err, ErrInvalidImage))
		})
	}
}

func TestFrame_Gray(t *testing.T) {
	// GIVEN
	frame := newUniformFrame(1, 1, 200)

	// WHEN
	gray := frame.Gray(0, 0)

	// THEN
	assert.Equal(t, uint8(200), gray)
}

func TestFrame_ImageRoundTrip(t *testing.T) {
	// GIVEN
	frame := &Frame{Width: 2, Height: 1, Stride: 6, Pix: []byte{1, 2, 3, 4, 5, 6}}

	// WHEN
	result := FrameFromImage(frame.ToImage())

	// THEN
	assert.Equal(t, frame, result)
}
