package importer

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/tessera/internal/model"
)

// Shape is the footprint drawn for a shape-list row.
type Shape string

const (
	ShapeRect    Shape = "rect"
	ShapeEllipse Shape = "ellipse"
)

// ColumnMapping holds the index of each column role, -1 when absent.
type ColumnMapping struct {
	Label    int
	Width    int
	Height   int
	Quantity int
	Shape    int
}

// positional is the layout assumed for lists without a header.
var positional = ColumnMapping{Label: 0, Width: 1, Height: 2, Quantity: 3, Shape: 4}

// headerRoles maps each accepted header, lowercased, to its column role.
var headerRoles = map[string]string{
	"label": "label", "name": "label", "asset": "label", "asset name": "label",
	"description": "label", "desc": "label", "piece": "label", "item": "label",

	"width": "width", "w": "width", "length": "width", "len": "width", "x": "width",

	"height": "height", "h": "height", "depth": "height", "d": "height", "y": "height",

	"quantity": "quantity", "qty": "quantity", "count": "quantity", "num": "quantity",
	"amount": "quantity", "pcs": "quantity", "pieces": "quantity",

	"shape": "shape", "form": "shape", "type": "shape", "outline": "shape",
}

func (m *ColumnMapping) slot(role string) *int {
	switch role {
	case "label":
		return &m.Label
	case "width":
		return &m.Width
	case "height":
		return &m.Height
	case "quantity":
		return &m.Quantity
	case "shape":
		return &m.Shape
	}
	return nil
}

// missing names the required roles the mapping lacks.
func (m ColumnMapping) missing() []string {
	var out []string
	for _, c := range []struct {
		name string
		idx  int
	}{{"width", m.Width}, {"height", m.Height}, {"quantity", m.Quantity}} {
		if c.idx < 0 {
			out = append(out, c.name)
		}
	}
	return out
}

// DetectColumns matches header cells against the known aliases, ignoring
// case. The first cell naming a role wins. When no cell matches, row is
// treated as data and the positional mapping is returned with false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	m := ColumnMapping{Label: -1, Width: -1, Height: -1, Quantity: -1, Shape: -1}
	found := false
	for i, cell := range row {
		idx := m.slot(headerRoles[strings.ToLower(strings.TrimSpace(cell))])
		if idx == nil {
			continue
		}
		found = true
		if *idx < 0 {
			*idx = i
		}
	}
	if !found {
		return positional, false
	}
	return m, true
}

// parseShape reports the shape named by s; unknown names fall back to rect.
func parseShape(s string) (Shape, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "-", "rect", "rectangle", "box", "square":
		return ShapeRect, true
	case "ellipse", "circle", "oval", "round":
		return ShapeEllipse, true
	}
	return ShapeRect, false
}

// shapeRow is one parsed shape-list entry.
type shapeRow struct {
	label    string
	size     image.Point
	quantity int
	shape    Shape
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// pixels reads a size cell rounded to whole pixels.
func pixels(row []string, idx int, name string) (int, error) {
	raw := cell(row, idx)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return int(math.Round(v)), nil
}

// parseRow reads one entry. fallback labels rows without a label cell. A
// non-empty warning reports a recoverable problem.
func parseRow(row []string, m ColumnMapping, fallback string) (shapeRow, string, error) {
	w, err := pixels(row, m.Width, "width")
	if err != nil {
		return shapeRow{}, "", err
	}
	h, err := pixels(row, m.Height, "height")
	if err != nil {
		return shapeRow{}, "", err
	}

	rawQty := cell(row, m.Quantity)
	if rawQty == "" {
		return shapeRow{}, "", fmt.Errorf("missing quantity")
	}
	qty, err := strconv.Atoi(rawQty)
	if err != nil {
		return shapeRow{}, "", fmt.Errorf("invalid quantity %q", rawQty)
	}
	if w <= 0 || h <= 0 || qty <= 0 {
		return shapeRow{}, "", fmt.Errorf("width, height and quantity must be positive")
	}

	sr := shapeRow{label: cell(row, m.Label), size: image.Pt(w, h), quantity: qty, shape: ShapeRect}
	if sr.label == "" {
		sr.label = fallback
	}

	var warning string
	if raw := cell(row, m.Shape); raw != "" {
		shape, ok := parseShape(raw)
		if !ok {
			warning = fmt.Sprintf("unknown shape %q, using rect", raw)
		}
		sr.shape = shape
	}
	return sr, warning, nil
}

// mask draws the footprint of the entry.
func (sr shapeRow) mask() *model.Mask {
	if sr.shape == ShapeEllipse {
		o := ellipseOutline(float64(sr.size.X), float64(sr.size.Y), 64)
		return rasterize(o, 1).Expand(sr.size, image.Point{})
	}
	m := model.NewMask(sr.size.X, sr.size.Y)
	for i := range m.Bits {
		m.Bits[i] = true
	}
	return m
}

// assets expands the entry into quantity assets, numbering copies.
func (sr shapeRow) assets() []model.Asset {
	m := sr.mask()
	out := make([]model.Asset, sr.quantity)
	for i := range out {
		label := sr.label
		if sr.quantity > 1 {
			label = fmt.Sprintf("%s #%d", sr.label, i+1)
		}
		out[i] = model.AssetFromMask(label, m)
	}
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// importRows turns shape-list rows into assets. unit names a row in
// messages ("line" for CSV, "row" for sheets).
func importRows(rows [][]string, unit string, result ImportResult) ImportResult {
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "no data rows found")
		return result
	}

	mapping, header := DetectColumns(rows[0])
	first := 0
	switch {
	case header:
		first = 1
		if missing := mapping.missing(); len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("header is missing required columns: %s", strings.Join(missing, ", ")))
			return result
		}
	case len(rows[0]) >= 3 && !numeric(rows[0][mapping.Width]):
		// Unrecognised header over positional data.
		first = 1
	}
	if first == 1 {
		result.Warnings = append(result.Warnings, "skipping header row")
	}

	parsed := 0
	for i := first; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		where := fmt.Sprintf("%s %d", unit, i+1)

		sr, warning, err := parseRow(rows[i], mapping, fmt.Sprintf("Shape %d", parsed+1))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", where, err))
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", where, warning))
		}
		parsed++
		result.Assets = append(result.Assets, sr.assets()...)
	}
	return result
}

func numeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}
