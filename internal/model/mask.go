package model

import (
	"image"
)

// Mask is a boolean occupancy grid stored row-major.
// Bits always has exactly Width*Height entries.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask returns an empty (all transparent) mask.
func NewMask(w, h int) *Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Mask{Width: w, Height: h, Bits: make([]bool, w*h)}
}

// MaskFromBits wraps an existing occupancy slice. The slice is copied.
func MaskFromBits(w, h int, bits []bool) (*Mask, error) {
	if w < 0 || h < 0 || len(bits) != w*h {
		return nil, ShapeMismatch("MaskFromBits", "%d bits for a %dx%d mask", len(bits), w, h)
	}
	m := NewMask(w, h)
	copy(m.Bits, bits)
	return m, nil
}

// ToMask extracts occupancy (opacity > 0) from an image's opacity channel.
// Gray images are treated as a single luminance-as-opacity channel. Layouts
// without an opacity channel fail with a shape mismatch.
func ToMask(img image.Image) (*Mask, error) {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < m.Height; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < m.Width; x++ {
				m.Bits[y*m.Width+x] = row[x*4+3] > 0
			}
		}
	case *image.RGBA:
		for y := 0; y < m.Height; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < m.Width; x++ {
				m.Bits[y*m.Width+x] = row[x*4+3] > 0
			}
		}
	case *image.Alpha:
		for y := 0; y < m.Height; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < m.Width; x++ {
				m.Bits[y*m.Width+x] = row[x] > 0
			}
		}
	case *image.Gray:
		for y := 0; y < m.Height; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < m.Width; x++ {
				m.Bits[y*m.Width+x] = row[x] > 0
			}
		}
	case *image.NRGBA64, *image.RGBA64, *image.Alpha16, *image.Paletted:
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				m.Bits[y*m.Width+x] = a > 0
			}
		}
	case *image.Gray16:
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				m.Bits[y*m.Width+x] = src.Gray16At(b.Min.X+x, b.Min.Y+y).Y > 0
			}
		}
	default:
		return nil, ShapeMismatch("ToMask", "image type %T has no opacity channel", img)
	}
	return m, nil
}

// Size returns the mask dimensions as a point.
func (m *Mask) Size() image.Point {
	return image.Pt(m.Width, m.Height)
}

// Bounds returns the mask rectangle anchored at the origin.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// At reports whether (x, y) is occupied. Coordinates outside the mask are empty.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// Set marks (x, y). Coordinates outside the mask are ignored.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Bits[y*m.Width+x] = v
}

// Count returns the number of occupied pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Fraction returns the occupied share of the mask area, or 0 for an empty mask.
func (m *Mask) Fraction() float64 {
	if len(m.Bits) == 0 {
		return 0
	}
	return float64(m.Count()) / float64(len(m.Bits))
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	c := NewMask(m.Width, m.Height)
	copy(c.Bits, m.Bits)
	return c
}

// Pad grows the mask by r pixels on every side, filling the margin with fill.
func (m *Mask) Pad(r int, fill bool) *Mask {
	if r <= 0 {
		return m.Clone()
	}
	p := NewMask(m.Width+2*r, m.Height+2*r)
	if fill {
		for i := range p.Bits {
			p.Bits[i] = true
		}
	}
	for y := 0; y < m.Height; y++ {
		copy(p.Bits[(y+r)*p.Width+r:(y+r)*p.Width+r+m.Width], m.Bits[y*m.Width:(y+1)*m.Width])
	}
	return p
}

// Expand places the mask at offset on an otherwise empty mask of the given size.
// Pixels falling outside the target are dropped.
func (m *Mask) Expand(size, offset image.Point) *Mask {
	out := NewMask(size.X, size.Y)
	for y := 0; y < m.Height; y++ {
		ty := y + offset.Y
		if ty < 0 || ty >= out.Height {
			continue
		}
		for x := 0; x < m.Width; x++ {
			if m.Bits[y*m.Width+x] {
				out.Set(x+offset.X, ty, true)
			}
		}
	}
	return out
}
