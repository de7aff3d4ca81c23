package surface

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/photoedit/internal/geom"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		size Size
		ok   bool
	}{
		{"small preset", Size{800, 600}, true},
		{"lower bound", Size{100, 100}, true},
		{"upper bound", Size{4096, 4096}, true},
		{"too narrow", Size{99, 600}, false},
		{"too tall", Size{800, 4097}, false},
		{"zero", Size{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.size)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDimensions))
			var de *DimensionError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tc.size.Width, de.Width)
			assert.Contains(t, err.Error(), "between 100 and 4096")
		})
	}
}

func TestParseSize(t *testing.T) {
	s, err := ParseSize("Medium")
	require.NoError(t, err)
	assert.Equal(t, Size{1024, 768}, s)

	s, err = ParseSize("640x480")
	require.NoError(t, err)
	assert.Equal(t, Size{640, 480}, s)

	_, err = ParseSize("50x480")
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = ParseSize("huge")
	assert.Error(t, err)
}

func TestNewRejectsInvalidSize(t *testing.T) {
	s, err := New(Size{5000, 600}, white)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestNewFillsBackground(t *testing.T) {
	s, err := New(Size{100, 120}, white)
	require.NoError(t, err)
	assert.Equal(t, Size{100, 120}, s.Size())
	assert.Equal(t, white, s.Image().RGBAAt(0, 0))
	assert.Equal(t, white, s.Image().RGBAAt(99, 119))
}

func TestPixelsRestore(t *testing.T) {
	s, err := New(Size{100, 100}, white)
	require.NoError(t, err)
	before := s.Pixels()
	s.StrokeFreehand([]geom.Point{geom.Pt(10, 10), geom.Pt(50, 50)}, Pen{Color: black, Width: 3})
	assert.False(t, bytes.Equal(before, s.Image().Pix))

	require.NoError(t, s.Restore(before))
	assert.True(t, bytes.Equal(before, s.Image().Pix))

	assert.Error(t, s.Restore(before[:10]))
}

func TestStrokeFreehandNeedsTwoPoints(t *testing.T) {
	s, err := New(Size{100, 100}, white)
	require.NoError(t, err)
	before := s.Pixels()
	s.StrokeFreehand(nil, Pen{Color: black, Width: 4})
	s.StrokeFreehand([]geom.Point{geom.Pt(20, 20)}, Pen{Color: black, Width: 4})
	assert.True(t, bytes.Equal(before, s.Image().Pix))
}

func TestStrokeFreehandReachesLastPoint(t *testing.T) {
	s, err := New(Size{200, 200}, white)
	require.NoError(t, err)
	pts := []geom.Point{geom.Pt(10, 10), geom.Pt(30, 40), geom.Pt(60, 50), geom.Pt(90, 90), geom.Pt(120, 100)}
	s.StrokeFreehand(pts, Pen{Color: black, Width: 1})
	assert.Equal(t, black, s.Image().RGBAAt(10, 10), "curve starts at first sample")
	assert.Equal(t, black, s.Image().RGBAAt(120, 100), "curve ends at last sample")
}

func TestPreviewShapeDoesNotAccumulate(t *testing.T) {
	s, err := New(Size{200, 200}, white)
	require.NoError(t, err)
	floor := s.Pixels()
	pen := Pen{Color: black, Width: 1}

	require.NoError(t, s.PreviewShape(ShapeRectangle, geom.Pt(10, 10), geom.Pt(50, 50), pen, floor))
	assert.Equal(t, black, s.Image().RGBAAt(49, 30))

	require.NoError(t, s.PreviewShape(ShapeRectangle, geom.Pt(10, 10), geom.Pt(100, 100), pen, floor))
	assert.Equal(t, white, s.Image().RGBAAt(49, 30), "earlier outline must be gone")
	assert.Equal(t, black, s.Image().RGBAAt(99, 30))
}

func TestDrawShapeCircleAndLine(t *testing.T) {
	s, err := New(Size{200, 200}, white)
	require.NoError(t, err)
	pen := Pen{Color: black, Width: 1}
	s.DrawShape(ShapeCircle, geom.Pt(100, 100), geom.Pt(130, 100), pen)
	assert.Equal(t, black, s.Image().RGBAAt(130, 100))
	assert.Equal(t, white, s.Image().RGBAAt(100, 100))

	s.DrawShape(ShapeLine, geom.Pt(0, 0), geom.Pt(20, 20), pen)
	assert.Equal(t, black, s.Image().RGBAAt(10, 10))
}

func TestDrawDashedRectLeavesGaps(t *testing.T) {
	s, err := New(Size{100, 100}, white)
	require.NoError(t, err)
	blue := color.RGBA{0, 168, 255, 255}
	DrawDashedRect(s.Image(), s.Bounds().Inset(10), 5, 1, blue, nil)
	assert.Equal(t, blue, s.Image().RGBAAt(10, 10))
	assert.Equal(t, white, s.Image().RGBAAt(16, 10), "second dash slot is a gap")
	assert.Equal(t, blue, s.Image().RGBAAt(20, 10))
}
