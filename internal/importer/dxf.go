package importer

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/tessera/internal/model"
)

const (
	circleSegments = 64   // polygon sides for a full circle
	arcSegments    = 32   // polygon sides per arc or bulge
	chainTolerance = 0.01 // endpoint gap still treated as joined, in drawing units
)

// segment is one loose edge waiting to be chained into an outline.
type segment struct {
	start, end point
}

// dxfShapes gathers closed outlines and loose edges from a drawing.
type dxfShapes struct {
	outlines []outline
	segments []segment
	warnings []string
}

func (s *dxfShapes) add(ent entity.Entity) {
	switch e := ent.(type) {
	case *entity.LwPolyline:
		if o := lwPolylineToOutline(e); len(o) >= 3 {
			s.outlines = append(s.outlines, o)
		} else {
			s.warnings = append(s.warnings, "skipped LWPOLYLINE with fewer than 3 vertices")
		}
	case *entity.Circle:
		s.outlines = append(s.outlines, circleToOutline(e, circleSegments))
	case *entity.Arc:
		pts := arcToPoints(e, arcSegments)
		for i := 1; i < len(pts); i++ {
			s.segments = append(s.segments, segment{pts[i-1], pts[i]})
		}
	case *entity.Line:
		s.segments = append(s.segments, segment{
			start: point{e.Start[0], e.Start[1]},
			end:   point{e.End[0], e.End[1]},
		})
	}
}

// ImportDXF turns every closed shape of a DXF drawing into an asset:
// LWPOLYLINEs (bulges included), CIRCLEs, and LINE/ARC chains that close on
// themselves. Each shape is moved to the origin and rasterised at scale
// pixels per drawing unit into an opaque white asset. Other entity types are
// ignored.
func ImportDXF(path string, scale float64) ImportResult {
	var result ImportResult

	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid scale %v: must be a positive number", scale))
		return result
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open DXF file: %v", err))
		return result
	}
	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes dxfShapes
	for _, e := range entities {
		shapes.add(e)
	}
	result.Warnings = append(result.Warnings, shapes.warnings...)

	outlines := append(shapes.outlines, chainSegments(shapes.segments, chainTolerance)...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "no closed shapes found in DXF file")
		return result
	}

	for i, o := range outlines {
		o = o.normalized()
		_, size := o.boundingBox()
		if size.X*scale < 1 || size.Y*scale < 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("shape %d: smaller than one pixel (%.2f x %.2f units)", i+1, size.X, size.Y))
			continue
		}
		m := rasterize(o, scale)
		if m.Count() == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("shape %d: no pixel centres inside", i+1))
			continue
		}
		result.Assets = append(result.Assets, model.AssetFromMask(fmt.Sprintf("DXF Shape %d", i+1), m))
	}
	return result
}

// arcPoints samples n+1 points from angle start through start+sweep
// (radians, positive is counter-clockwise).
func arcPoints(c point, r, start, sweep float64, n int) []point {
	pts := make([]point, n+1)
	for i := range pts {
		a := start + sweep*float64(i)/float64(n)
		pts[i] = point{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)}
	}
	return pts
}

// lwPolylineToOutline flattens a LWPOLYLINE, replacing every bulged edge
// with arc points. The polyline is treated as closed.
func lwPolylineToOutline(lw *entity.LwPolyline) outline {
	var o outline
	n := len(lw.Vertices)
	for i, v := range lw.Vertices {
		cur := point{v[0], v[1]}
		var bulge float64
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) < 1e-9 {
			o = append(o, cur)
			continue
		}
		next := lw.Vertices[(i+1)%n]
		arc := bulgeArcPoints(cur, point{next[0], next[1]}, bulge, arcSegments)
		// The next vertex is emitted by its own iteration.
		o = append(o, arc[:len(arc)-1]...)
	}
	return o
}

// bulgeArcPoints follows the arc from p1 to p2 described by a DXF bulge,
// the tangent of a quarter of the signed included angle. Positive bulges
// turn counter-clockwise.
func bulgeArcPoints(p1, p2 point, bulge float64, n int) outline {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return outline{p1, p2}
	}

	theta := 4 * math.Atan(bulge)
	half := theta / 2
	r := math.Abs(chord / (2 * math.Sin(half)))

	// Centre sits on the left normal of the chord, at signed distance
	// (chord/2)·cot(θ/2) from its midpoint.
	off := chord / 2 / math.Tan(half)
	c := point{
		X: (p1.X+p2.X)/2 - dy/chord*off,
		Y: (p1.Y+p2.Y)/2 + dx/chord*off,
	}

	start := math.Atan2(p1.Y-c.Y, p1.X-c.X)
	pts := arcPoints(c, r, start, theta, n)
	pts[n] = p2
	return pts
}

// circleToOutline approximates a circle as a regular n-gon.
func circleToOutline(ci *entity.Circle, n int) outline {
	c := point{ci.Center[0], ci.Center[1]}
	pts := arcPoints(c, ci.Radius, 0, 2*math.Pi, n)
	return pts[:n]
}

// arcToPoints flattens an ARC entity. DXF arcs run counter-clockwise from
// Angle[0] to Angle[1], in degrees.
func arcToPoints(a *entity.Arc, n int) []point {
	start := a.Angle[0] * math.Pi / 180
	sweep := a.Angle[1]*math.Pi/180 - start
	if sweep <= 0 {
		sweep += 2 * math.Pi
	}
	c := point{a.Circle.Center[0], a.Circle.Center[1]}
	return arcPoints(c, a.Circle.Radius, start, sweep, n)
}

// chainSegments walks loose segments end to end. A walk that returns to its
// starting point within tol becomes an outline; open walks are dropped.
// Outlines are returned largest first.
func chainSegments(segs []segment, tol float64) []outline {
	rest := slices.Clone(segs)
	var out []outline

	for len(rest) > 0 {
		chain := []point{rest[0].start, rest[0].end}
		rest = rest[1:]
		for !closes(chain, tol) {
			i, next := nextLink(rest, chain[len(chain)-1], tol)
			if i < 0 {
				break
			}
			chain = append(chain, next)
			rest = slices.Delete(rest, i, i+1)
		}
		if closes(chain, tol) {
			out = append(out, outline(chain[:len(chain)-1]))
		}
	}

	slices.SortStableFunc(out, func(a, b outline) int {
		return cmp.Compare(b.area(), a.area())
	})
	return out
}

// nextLink finds the first segment touching tail and returns its far end.
func nextLink(segs []segment, tail point, tol float64) (int, point) {
	for i, s := range segs {
		switch {
		case pointsClose(tail, s.start, tol):
			return i, s.end
		case pointsClose(tail, s.end, tol):
			return i, s.start
		}
	}
	return -1, point{}
}

// closes reports whether a walk of at least three edges is back at its start.
func closes(chain []point, tol float64) bool {
	return len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tol)
}

func pointsClose(a, b point, tol float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tol
}
