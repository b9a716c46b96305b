// Package export writes tiling and placement results to PDF, PNG and XLSX
// files. Callers choose every output path.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/tessera/internal/engine"
	"github.com/piwi3910/tessera/internal/model"
)

// outlinePalette colours placed assets in turn.
var outlinePalette = []color.RGBA{
	{76, 175, 80, 255},  // green
	{33, 150, 243, 255}, // blue
	{255, 152, 0, 255},  // orange
	{156, 39, 176, 255}, // purple
	{0, 188, 212, 255},  // cyan
	{244, 67, 54, 255},  // red
	{255, 235, 59, 255}, // yellow
	{121, 85, 72, 255},  // brown
}

func paletteColor(i int) (int, int, int) {
	c := outlinePalette[i%len(outlinePalette)]
	return int(c.R), int(c.G), int(c.B)
}

// A4 landscape, in mm.
const (
	pageW   = 297.0
	pageH   = 210.0
	margin  = 15.0
	titleH  = 12.0
	bodyTop = margin + titleH + 5.0
	bodyW   = pageW - 2*margin
	rowH    = 6.0

	previewPixels = 512 // longest side of embedded raster previews
)

// newReport starts a landscape page with a title line and a stats line.
func newReport(title, stats string) *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, margin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(margin, margin)
	pdf.CellFormat(bodyW, titleH, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(margin, margin+titleH)
	pdf.CellFormat(bodyW, 5, stats, "", 0, "L", false, 0, "")
	return pdf
}

// finish stamps the footer and writes the file.
func finish(pdf *fpdf.Fpdf, path string) error {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(margin, pageH-margin)
	pdf.CellFormat(bodyW, 4, "Tessera - mask tiling and placement", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return pdf.OutputFileAndClose(path)
}

// ExportTilingPDF writes a one-page tiling report: the asset, the coverage
// of the winning lattice, a QR code of the lattice and the leaderboard.
func ExportTilingPDF(path string, asset model.Asset, result model.TilingResult, board []engine.Ranked[model.TilingConfig]) error {
	if !result.Found() {
		return fmt.Errorf("no tiling configuration to export")
	}

	cov := result.Canvas.Coverage()
	pdf := newReport(
		fmt.Sprintf("Tiling: %s (%d x %d px)", assetTitle(asset), asset.Width(), asset.Height()),
		fmt.Sprintf("Delta1: %s | Delta2: %s | Score: %.4f | Exact: %.1f%% | Overlap: %.1f%% | Empty: %.1f%% | Configs: %d",
			result.Config.Delta1, result.Config.Delta2, result.Score,
			100*cov.ExactFraction(), 100*cov.OverlapFraction(), 100*cov.EmptyFraction(), result.Evaluated),
	)

	const box, gap = 70.0, 10.0
	panels := []struct {
		name, caption string
		img           image.Image
	}{
		{"asset", "Asset", asset.Image},
		{"coverage", "Coverage", CoverageImage(result.Canvas)},
	}
	x := margin
	for _, p := range panels {
		if err := drawRaster(pdf, p.name, p.img, x, bodyTop, box); err != nil {
			return err
		}
		drawCaption(pdf, p.caption, x, bodyTop+box+1, box)
		x += box + gap
	}
	drawCoverageLegend(pdf, margin+box+gap, bodyTop+box+6)

	if err := placeQR(pdf, "tiling_qr", NewTilingInfo(result), x, bodyTop, 40); err != nil {
		return err
	}
	drawCaption(pdf, "Lattice", x, bodyTop+41, 40)

	leaderboard := pdfTable{
		title:   "Leaderboard",
		headers: []string{"#", "Delta1", "Delta2", "Cross", "Score"},
		widths:  []float64{12, 28, 28, 18, 20},
	}
	for i, e := range board {
		leaderboard.rows = append(leaderboard.rows, []string{
			strconv.Itoa(i + 1),
			e.Item.Delta1.String(),
			e.Item.Delta2.String(),
			strconv.Itoa(e.Item.Cross()),
			fmt.Sprintf("%.4f", e.Score),
		})
	}
	leaderboard.draw(pdf, x, bodyTop+50)

	return finish(pdf, path)
}

// ExportPlacementPDF writes the composited canvas with every placed asset
// outlined, followed by a placement table. Nil results are listed as not
// placed.
func ExportPlacementPDF(path string, results []*model.PlacementResult, final *image.NRGBA) error {
	if final == nil {
		return fmt.Errorf("no canvas to export")
	}
	m, err := model.ToMask(final)
	if err != nil {
		return err
	}

	placed := 0
	for _, r := range results {
		if r != nil {
			placed++
		}
	}

	size := final.Bounds().Size()
	pdf := newReport(
		fmt.Sprintf("Placement: %d x %d px canvas", size.X, size.Y),
		fmt.Sprintf("Placed: %d | Skipped: %d | Coverage: %.1f%%", placed, len(results)-placed, 100*m.Fraction()),
	)

	side := pageH - bodyTop - margin
	scale := math.Min(side/float64(size.X), side/float64(size.Y))
	w, h := float64(size.X)*scale, float64(size.Y)*scale

	// Light backdrop under transparent areas.
	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(margin, bodyTop, w, h, "FD")
	if err := drawImage(pdf, "canvas", final, margin, bodyTop, w, h); err != nil {
		return err
	}

	table := pdfTable{
		title:   "Placements",
		headers: []string{"#", "Asset", "Offset", "Tightness", "Strategy"},
		widths:  []float64{10, 20, 24, 18, 18},
		marker:  map[int]int{},
		missing: map[int]bool{},
	}
	pdf.SetLineWidth(0.4)
	for i, r := range results {
		if r == nil {
			table.missing[len(table.rows)] = true
			table.rows = append(table.rows, []string{strconv.Itoa(i + 1), "-", "not placed", "-", "-"})
			continue
		}
		pdf.SetDrawColor(paletteColor(i))
		pdf.Rect(margin+float64(r.Offset.X)*scale, bodyTop+float64(r.Offset.Y)*scale,
			float64(r.Size.X)*scale, float64(r.Size.Y)*scale, "D")

		table.marker[len(table.rows)] = i
		table.rows = append(table.rows, []string{
			strconv.Itoa(i + 1), r.AssetID, r.Offset.String(), strconv.Itoa(r.Tightness), string(r.Strategy),
		})
	}
	table.draw(pdf, margin+w+10, bodyTop)

	return finish(pdf, path)
}

// pdfTable is a titled grid with zebra rows. Rows that would run past the
// bottom margin are dropped.
type pdfTable struct {
	title   string
	headers []string
	widths  []float64
	rows    [][]string
	marker  map[int]int  // row -> palette index of a swatch left of the row
	missing map[int]bool // rows printed in red
}

func (t pdfTable) draw(pdf *fpdf.Fpdf, x, y float64) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(x, y)
	pdf.CellFormat(100, 7, t.title, "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	t.line(pdf, t.headers, x, y)
	y += rowH

	pdf.SetFont("Helvetica", "", 8)
	for i, row := range t.rows {
		if y > pageH-margin-rowH {
			break
		}
		if p, ok := t.marker[i]; ok {
			pdf.SetFillColor(paletteColor(p))
			pdf.Rect(x-4, y+1.5, 3, 3, "F")
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		if t.missing[i] {
			pdf.SetTextColor(200, 0, 0)
		}
		t.line(pdf, row, x, y)
		pdf.SetTextColor(0, 0, 0)
		y += rowH
	}
}

func (t pdfTable) line(pdf *fpdf.Fpdf, cells []string, x, y float64) {
	for j, c := range cells {
		pdf.SetXY(x, y)
		pdf.CellFormat(t.widths[j], rowH, c, "1", 0, "C", true, 0, "")
		x += t.widths[j]
	}
}

// drawRaster embeds img scaled to fit a box x box square, keeping its aspect.
func drawRaster(pdf *fpdf.Fpdf, name string, img image.Image, x, y, box float64) error {
	b := img.Bounds()
	scale := math.Min(box/float64(b.Dx()), box/float64(b.Dy()))
	w, h := float64(b.Dx())*scale, float64(b.Dy())*scale

	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.2)
	pdf.Rect(x, y, box, box, "D")
	return drawImage(pdf, name, img, x+(box-w)/2, y+(box-h)/2, w, h)
}

// drawImage embeds a downscaled PNG of img stretched to w x h.
func drawImage(pdf *fpdf.Fpdf, name string, img image.Image, x, y, w, h float64) error {
	data, err := encodePNG(Preview(img, previewPixels))
	if err != nil {
		return err
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return pdf.Error()
}

func drawCaption(pdf *fpdf.Fpdf, text string, x, y, w float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, 4, text, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawCoverageLegend renders swatches for the coverage classes; empty is
// an outlined box.
func drawCoverageLegend(pdf *fpdf.Fpdf, x, y float64) {
	swatches := []struct {
		label string
		c     color.NRGBA
	}{
		{"Exact", exactColor},
		{"Overlap", overlapColor},
		{"Empty", color.NRGBA{}},
	}

	pdf.SetFont("Helvetica", "", 7)
	for _, s := range swatches {
		if s.c.A == 0 {
			pdf.SetDrawColor(150, 150, 150)
			pdf.Rect(x, y+0.5, 3, 3, "D")
		} else {
			pdf.SetFillColor(int(s.c.R), int(s.c.G), int(s.c.B))
			pdf.Rect(x, y+0.5, 3, 3, "F")
		}
		pdf.SetXY(x+4, y)
		w := pdf.GetStringWidth(s.label) + 2
		pdf.CellFormat(w, 4, s.label, "", 0, "L", false, 0, "")
		x += w + 8
	}
}

func assetTitle(a model.Asset) string {
	if a.Label != "" {
		return a.Label
	}
	return a.ID
}
