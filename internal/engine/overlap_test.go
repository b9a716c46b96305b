package engine

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/tessera/internal/model"
)

func TestHasOverlap_SelfOverlap(t *testing.T) {
	m := maskWithBlock(image.Pt(10, 10), image.Rect(3, 3, 6, 6))

	overlap, err := HasOverlap(m, m, image.Point{})

	require.NoError(t, err)
	assert.True(t, overlap)
}

func TestHasOverlap_Disjoint(t *testing.T) {
	canvas := maskWithBlock(image.Pt(20, 20), image.Rect(0, 0, 10, 10))

	overlap, err := HasOverlap(canvas, solidMask(10, 10), image.Pt(10, 0))
	require.NoError(t, err)
	assert.False(t, overlap)

	overlap, err = HasOverlap(canvas, solidMask(10, 10), image.Pt(9, 9))
	require.NoError(t, err)
	assert.True(t, overlap)
}

func TestHasOverlap_EmptyAssetPixelsIgnored(t *testing.T) {
	canvas := solidMask(10, 10)
	asset := model.NewMask(4, 4)

	overlap, err := HasOverlap(canvas, asset, image.Pt(2, 2))

	require.NoError(t, err)
	assert.False(t, overlap)
}

func TestHasOverlap_OutOfBounds(t *testing.T) {
	canvas := model.NewMask(10, 10)

	for _, off := range []image.Point{{-1, 0}, {0, -1}, {7, 0}, {0, 7}} {
		_, err := HasOverlap(canvas, solidMask(4, 4), off)
		require.Error(t, err, "offset %v", off)
		assert.True(t, errors.Is(err, model.ErrOutOfBounds), "offset %v", off)
	}

	_, err := HasOverlap(canvas, solidMask(4, 4), image.Pt(6, 6))
	assert.NoError(t, err, "footprint touching the far edge is inside")
}

func TestPlaceExact_Composites(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	bg := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			bg.SetNRGBA(x, y, red)
		}
	}
	fg := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	fg.SetNRGBA(0, 0, blue)
	fg.SetNRGBA(1, 1, blue)

	out, err := PlaceExact(bg, fg, image.Pt(1, 1))
	require.NoError(t, err)

	assert.Equal(t, blue, out.NRGBAAt(1, 1))
	assert.Equal(t, blue, out.NRGBAAt(2, 2))
	assert.Equal(t, red, out.NRGBAAt(2, 1), "transparent foreground keeps background")
	assert.Equal(t, red, out.NRGBAAt(0, 0))
	assert.Equal(t, red, bg.NRGBAAt(1, 1), "background is not modified")
}

func TestPlaceExact_OntoTransparent(t *testing.T) {
	bg := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	asset := solidAsset(3, 3)

	out, err := PlaceExact(bg, asset.Image, image.Pt(5, 5))
	require.NoError(t, err)

	m, err := model.ToMask(out)
	require.NoError(t, err)
	assert.Equal(t, 9, m.Count())
	assert.True(t, m.At(7, 7))
	assert.False(t, m.At(4, 4))
}

func TestPlaceExact_Errors(t *testing.T) {
	bg := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	fg := solidAsset(4, 4).Image

	_, err := PlaceExact(bg, fg, image.Pt(-1, 0))
	assert.True(t, errors.Is(err, model.ErrOutOfBounds))

	_, err = PlaceExact(bg, fg, image.Pt(5, 0))
	assert.True(t, errors.Is(err, model.ErrOutOfBounds))

	_, err = PlaceExact(bg, solidAsset(9, 1).Image, image.Point{})
	assert.True(t, errors.Is(err, model.ErrOutOfBounds))
}

func TestHasOverlap_EmptyMaskOutsideCanvas(t *testing.T) {
	canvas := solidMask(10, 10)

	tests := []struct {
		size image.Point
		off  image.Point
	}{
		{image.Pt(0, 0), image.Pt(-5, -5)},
		{image.Pt(0, 5), image.Pt(0, 100)},
		{image.Pt(5, 0), image.Pt(100, 0)},
		{image.Pt(0, 0), image.Pt(11, 0)},
	}
	for _, tt := range tests {
		overlap, err := HasOverlap(canvas, model.NewMask(tt.size.X, tt.size.Y), tt.off)
		assert.True(t, errors.Is(err, model.ErrOutOfBounds), "%v mask at %v", tt.size, tt.off)
		assert.False(t, overlap)
	}

	overlap, err := HasOverlap(canvas, model.NewMask(0, 5), image.Pt(10, 5))
	require.NoError(t, err, "empty footprint on the far edge is inside")
	assert.False(t, overlap)
}

func TestPlaceExact_EmptyForegroundOutside(t *testing.T) {
	bg := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	_, err := PlaceExact(bg, image.NewNRGBA(image.Rect(0, 0, 0, 5)), image.Pt(0, 100))
	assert.True(t, errors.Is(err, model.ErrOutOfBounds))

	out, err := PlaceExact(bg, image.NewNRGBA(image.Rect(0, 0, 0, 0)), image.Pt(4, 4))
	require.NoError(t, err)
	assert.Equal(t, bg.Bounds(), out.Bounds())
}
