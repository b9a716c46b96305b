package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/piwi3910/tessera/internal/model"
)

// Coverage colors. Empty cells stay transparent.
var (
	exactColor   = color.NRGBA{R: 0, G: 150, B: 136, A: 255} // teal
	overlapColor = color.NRGBA{R: 150, G: 30, B: 30, A: 255} // dark red, brightened per extra stamp
)

// CoverageImage renders an accumulator as an image: transparent where
// empty, teal where covered exactly once, red where stamps overlap. Red
// brightens with the overlap count.
func CoverageImage(c *model.Canvas) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	for i, n := range c.Counts {
		var col color.NRGBA
		switch {
		case n == 1:
			col = exactColor
		case n > 1:
			col = overlapColor
			col.R = uint8(min(255, int(overlapColor.R)+15*int(min(n-2, 7))))
		default:
			continue
		}
		img.Pix[i*4+0] = col.R
		img.Pix[i*4+1] = col.G
		img.Pix[i*4+2] = col.B
		img.Pix[i*4+3] = col.A
	}
	return img
}

// Preview scales img down so that neither side exceeds maxSide pixels.
// Nearest-neighbour sampling keeps mask edges crisp. Images already small
// enough are returned unchanged.
func Preview(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return img
	}
	w, h := maxSide, maxSide
	if b.Dx() > b.Dy() {
		h = max(1, b.Dy()*maxSide/b.Dx())
	} else {
		w = max(1, b.Dx()*maxSide/b.Dy())
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
