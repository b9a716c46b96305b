package engine

import (
	"math"

	"github.com/piwi3910/tessera/internal/model"
)

// TightnessRadius is the structuring radius used for tightness scoring. Both
// masks are padded by this many pixels before dilation.
const TightnessRadius = 10

// Disk is a disk-shaped structuring element: all offsets (dx, dy) with
// dx*dx + dy*dy <= Radius*Radius.
type Disk struct {
	Radius int
	half   []int // half-width of the disk row at dy = i - Radius
}

// NewDisk builds the structuring element of radius r (r < 0 is treated as 0).
func NewDisk(r int) Disk {
	if r < 0 {
		r = 0
	}
	d := Disk{Radius: r, half: make([]int, 2*r+1)}
	for dy := -r; dy <= r; dy++ {
		d.half[dy+r] = int(math.Floor(math.Sqrt(float64(r*r - dy*dy))))
	}
	return d
}

// Contains reports whether the offset (dx, dy) belongs to the element.
func (d Disk) Contains(dx, dy int) bool {
	if dy < -d.Radius || dy > d.Radius {
		return false
	}
	h := d.half[dy+d.Radius]
	return dx >= -h && dx <= h
}

// Area returns the number of offsets in the element.
func (d Disk) Area() int {
	n := 0
	for _, h := range d.half {
		n += 2*h + 1
	}
	return n
}

// Dilate returns the morphological dilation of m by d. Pixels beyond the
// mask edge count as empty. Each horizontal run of set pixels is widened by
// the disk row half-width, so a run is processed once per disk row.
func Dilate(m *model.Mask, d Disk) *model.Mask {
	out := model.NewMask(m.Width, m.Height)
	r := d.Radius

	for y := 0; y < m.Height; y++ {
		row := m.Bits[y*m.Width : (y+1)*m.Width]
		for x := 0; x < m.Width; {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < m.Width && row[x] {
				x++
			}
			end := x - 1 // inclusive

			for dy := -r; dy <= r; dy++ {
				ty := y + dy
				if ty < 0 || ty >= m.Height {
					continue
				}
				h := d.half[dy+r]
				lo := max(0, start-h)
				hi := min(m.Width-1, end+h)
				dst := out.Bits[ty*m.Width : (ty+1)*m.Width]
				for tx := lo; tx <= hi; tx++ {
					dst[tx] = true
				}
			}
		}
	}
	return out
}

// Tightness scores how closely fg hugs the content of bg without
// overlapping it, using TightnessRadius.
func Tightness(bg, fg *model.Mask) (int, error) {
	return TightnessWithRadius(bg, fg, TightnessRadius)
}

// TightnessWithRadius counts background pixels inside the edge band of fg.
// Both masks are padded by r, the background with occupied pixels so the
// canvas border counts as content and the foreground with empty pixels. The
// edge band is the disk-dilated foreground minus the foreground itself.
// Both masks must have the same shape.
func TightnessWithRadius(bg, fg *model.Mask, r int) (int, error) {
	if bg.Width != fg.Width || bg.Height != fg.Height {
		return 0, model.ShapeMismatch("Tightness",
			"background %dx%d vs foreground %dx%d", bg.Width, bg.Height, fg.Width, fg.Height)
	}

	bgPad := bg.Pad(r, true)
	fgPad := fg.Pad(r, false)
	grown := Dilate(fgPad, NewDisk(r))

	n := 0
	for i, inBand := range grown.Bits {
		if inBand && !fgPad.Bits[i] && bgPad.Bits[i] {
			n++
		}
	}
	return n, nil
}
