package engine

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/piwi3910/tessera/internal/model"
)

// contains reports whether a size-sized footprint at offset lies fully
// inside bounds. Empty footprints are checked by their corner too, so a
// zero-width mask outside the canvas is rejected.
func contains(bounds image.Rectangle, size, offset image.Point) bool {
	if size.X < 0 || size.Y < 0 {
		return false
	}
	return offset.X >= bounds.Min.X && offset.Y >= bounds.Min.Y &&
		offset.X+size.X <= bounds.Max.X && offset.Y+size.Y <= bounds.Max.Y
}

// HasOverlap reports whether any occupied pixel of asset, translated by
// offset, lands on an occupied pixel of canvas. Unlike tiling, which clips,
// the translated footprint must lie fully inside the canvas.
func HasOverlap(canvas, asset *model.Mask, offset image.Point) (bool, error) {
	if !contains(canvas.Bounds(), asset.Size(), offset) {
		return false, model.OutOfBounds("HasOverlap",
			"%dx%d mask at %v does not fit in %dx%d canvas",
			asset.Width, asset.Height, offset, canvas.Width, canvas.Height)
	}

	for y := 0; y < asset.Height; y++ {
		src := asset.Bits[y*asset.Width : (y+1)*asset.Width]
		row := (y + offset.Y) * canvas.Width
		dst := canvas.Bits[row+offset.X : row+offset.X+asset.Width]
		for x, occupied := range src {
			if occupied && dst[x] {
				return true, nil
			}
		}
	}
	return false, nil
}

// PlaceExact alpha-composites foreground over a copy of background at offset.
// The offset must be non-negative and the foreground must fit entirely.
// background is not modified.
func PlaceExact(background *image.NRGBA, foreground image.Image, offset image.Point) (*image.NRGBA, error) {
	fb := foreground.Bounds()
	bb := background.Bounds()
	if offset.X < 0 || offset.Y < 0 {
		return nil, model.OutOfBounds("PlaceExact", "offset %v is negative", offset)
	}
	if !contains(image.Rectangle{Max: bb.Size()}, fb.Size(), offset) {
		return nil, model.OutOfBounds("PlaceExact",
			"%dx%d foreground at %v does not fit in %dx%d background",
			fb.Dx(), fb.Dy(), offset, bb.Dx(), bb.Dy())
	}

	out := image.NewNRGBA(image.Rectangle{Max: bb.Size()})
	xdraw.Draw(out, out.Bounds(), background, bb.Min, xdraw.Src)

	dst := image.Rectangle{Min: offset, Max: offset.Add(fb.Size())}
	xdraw.Draw(out, dst, foreground, fb.Min, xdraw.Over)
	return out, nil
}
