package importer

import (
	"math"
	"slices"

	"github.com/piwi3910/tessera/internal/model"
)

// point is a 2D vertex in drawing units.
type point struct {
	X, Y float64
}

// outline is a closed polygon; the last vertex connects back to the first.
type outline []point

// boundingBox returns the min and max corners of the outline.
func (o outline) boundingBox() (point, point) {
	if len(o) == 0 {
		return point{}, point{}
	}
	lo, hi := o[0], o[0]
	for _, p := range o[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// normalized moves the outline so its bounding box starts at (0, 0).
func (o outline) normalized() outline {
	lo, _ := o.boundingBox()
	out := make(outline, len(o))
	for i, p := range o {
		out[i] = point{X: p.X - lo.X, Y: p.Y - lo.Y}
	}
	return out
}

// area is the unsigned shoelace area.
func (o outline) area() float64 {
	var sum float64
	for i, p := range o {
		q := o[(i+1)%len(o)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(sum) / 2
}

// rasterize samples the outline at pixel centres with the even-odd rule.
// scale is pixels per drawing unit. The outline must already start at
// (0, 0); drawing y grows upward, so rows are flipped to image y-down.
func rasterize(o outline, scale float64) *model.Mask {
	_, hi := o.boundingBox()
	w := int(math.Ceil(hi.X*scale - 1e-9))
	h := int(math.Ceil(hi.Y*scale - 1e-9))
	m := model.NewMask(max(w, 0), max(h, 0))
	if len(o) < 3 {
		return m
	}

	var xs []float64
	for row := 0; row < m.Height; row++ {
		y := (float64(m.Height-row) - 0.5) / scale

		xs = xs[:0]
		for i := range o {
			a, b := o[i], o[(i+1)%len(o)]
			// Half-open test so a vertex on the scanline is counted once.
			if (a.Y > y) == (b.Y > y) {
				continue
			}
			xs = append(xs, a.X+(y-a.Y)*(b.X-a.X)/(b.Y-a.Y))
		}
		slices.Sort(xs)

		for k := 0; k+1 < len(xs); k += 2 {
			// Pixel centre cx = (col + 0.5) / scale must lie in [xs[k], xs[k+1]).
			from := max(0, int(math.Ceil(xs[k]*scale-0.5)))
			to := min(m.Width, int(math.Ceil(xs[k+1]*scale-0.5)))
			for col := from; col < to; col++ {
				m.Bits[row*m.Width+col] = true
			}
		}
	}
	return m
}

// ellipseOutline approximates the ellipse inscribed in a w x h box.
func ellipseOutline(w, h float64, numSegments int) outline {
	o := make(outline, numSegments)
	for i := range o {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		o[i] = point{
			X: w/2 + w/2*math.Cos(angle),
			Y: h/2 + h/2*math.Sin(angle),
		}
	}
	return o
}
