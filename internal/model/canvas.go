package model

import "image"

// Canvas is a fixed-size per-pixel coverage counter.
// 0 = empty, 1 = covered exactly once, >1 = overlapping stamps.
// Counts are int32 so that a degenerate lattice stacking every stamp on the
// same pixel cannot wrap.
type Canvas struct {
	Width  int
	Height int
	Counts []int32
}

// NewCanvas returns an empty accumulator of the given size.
func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Canvas{Width: w, Height: h, Counts: make([]int32, w*h)}
}

// CanvasFromMask seeds an accumulator with count 1 wherever the mask is occupied.
func CanvasFromMask(m *Mask) *Canvas {
	c := NewCanvas(m.Width, m.Height)
	for i, b := range m.Bits {
		if b {
			c.Counts[i] = 1
		}
	}
	return c
}

// Size returns the canvas dimensions as a point.
func (c *Canvas) Size() image.Point {
	return image.Pt(c.Width, c.Height)
}

// Clone returns a deep copy.
func (c *Canvas) Clone() *Canvas {
	out := &Canvas{Width: c.Width, Height: c.Height, Counts: make([]int32, len(c.Counts))}
	copy(out.Counts, c.Counts)
	return out
}

// At returns the count at (x, y), or 0 outside the canvas.
func (c *Canvas) At(x, y int) int32 {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return 0
	}
	return c.Counts[y*c.Width+x]
}

// Add increments the count at (x, y) by n. Coordinates outside are ignored.
func (c *Canvas) Add(x, y int, n int32) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.Counts[y*c.Width+x] += n
}

// Mask returns the occupied cells (count > 0).
func (c *Canvas) Mask() *Mask {
	m := NewMask(c.Width, c.Height)
	for i, n := range c.Counts {
		m.Bits[i] = n > 0
	}
	return m
}

// Equal reports whether two canvases have identical size and counts.
func (c *Canvas) Equal(o *Canvas) bool {
	if c.Width != o.Width || c.Height != o.Height {
		return false
	}
	for i := range c.Counts {
		if c.Counts[i] != o.Counts[i] {
			return false
		}
	}
	return true
}

// Coverage tallies cells by coverage class.
type Coverage struct {
	Empty   int
	Exact   int
	Overlap int
	Total   int
}

// Coverage counts empty, exactly-covered and overlapping cells.
func (c *Canvas) Coverage() Coverage {
	cov := Coverage{Total: len(c.Counts)}
	for _, n := range c.Counts {
		switch {
		case n == 1:
			cov.Exact++
		case n > 1:
			cov.Overlap++
		default:
			cov.Empty++
		}
	}
	return cov
}

// ExactFraction returns the share of cells covered exactly once.
func (cov Coverage) ExactFraction() float64 {
	if cov.Total == 0 {
		return 0
	}
	return float64(cov.Exact) / float64(cov.Total)
}

// OverlapFraction returns the share of cells covered more than once.
func (cov Coverage) OverlapFraction() float64 {
	if cov.Total == 0 {
		return 0
	}
	return float64(cov.Overlap) / float64(cov.Total)
}

// EmptyFraction returns the share of uncovered cells.
func (cov Coverage) EmptyFraction() float64 {
	if cov.Total == 0 {
		return 0
	}
	return float64(cov.Empty) / float64(cov.Total)
}
