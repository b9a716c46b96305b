package engine

import (
	"image"

	"github.com/piwi3910/tessera/internal/model"
)

// RenderWindow is the default half-extent of stamp indices: i and j each run
// over [-RenderWindow, RenderWindow), i.e. 40x40 = 1600 stamps.
const RenderWindow = 20

// RenderTiling stamps m across a copy of canvas at every lattice offset
// i*Delta1 + j*Delta2 and returns the copy. Each stamp adds its 0/1
// occupancy to the accumulator, so a cell covered by k stamps holds k.
// Addition is commutative, so the result does not depend on stamp order.
// The input canvas is not modified.
func RenderTiling(canvas *model.Canvas, m *model.Mask, cfg model.TilingConfig) *model.Canvas {
	return RenderTilingWindow(canvas, m, cfg, RenderWindow)
}

// RenderTilingWindow is RenderTiling with an explicit index half-extent.
func RenderTilingWindow(canvas *model.Canvas, m *model.Mask, cfg model.TilingConfig, half int) *model.Canvas {
	out := canvas.Clone()
	for i := -half; i < half; i++ {
		for j := -half; j < half; j++ {
			stamp(out, m, cfg.Offset(i, j))
		}
	}
	return out
}

// stamp adds m's occupancy at (ox, oy), clipped to the canvas.
func stamp(c *model.Canvas, m *model.Mask, off image.Point) {
	ox, oy := off.X, off.Y

	// Entirely left/above the origin or right/below the extent: no pixel work.
	if ox+m.Width <= 0 || oy+m.Height <= 0 || ox >= c.Width || oy >= c.Height {
		return
	}

	x0 := max(0, -ox)
	y0 := max(0, -oy)
	x1 := min(m.Width, c.Width-ox)
	y1 := min(m.Height, c.Height-oy)

	for y := y0; y < y1; y++ {
		src := m.Bits[y*m.Width : (y+1)*m.Width]
		dst := c.Counts[(y+oy)*c.Width : (y+oy+1)*c.Width]
		for x := x0; x < x1; x++ {
			if src[x] {
				dst[x+ox]++
			}
		}
	}
}

// ScoreTiling renders cfg onto a copy of backdrop and returns
// fracExact - fracOverlap, a value in [-1, 1]. Since the empty, exact and
// overlap fractions sum to 1, the score rewards filling empty cells and
// penalises overlap at the same time. backdrop is not modified.
func ScoreTiling(backdrop *model.Canvas, m *model.Mask, cfg model.TilingConfig) float64 {
	return scoreCoverage(RenderTiling(backdrop, m, cfg).Coverage())
}

// ScoreTilingWindow is ScoreTiling with an explicit index half-extent.
func ScoreTilingWindow(backdrop *model.Canvas, m *model.Mask, cfg model.TilingConfig, half int) float64 {
	return scoreCoverage(RenderTilingWindow(backdrop, m, cfg, half).Coverage())
}

func scoreCoverage(cov model.Coverage) float64 {
	return cov.ExactFraction() - cov.OverlapFraction()
}
