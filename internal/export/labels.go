package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/tessera/internal/model"
)

// LabelInfo holds the data encoded into each placement label's QR code.
type LabelInfo struct {
	Index     int            `json:"index"`
	AssetID   string         `json:"asset"`
	X         int            `json:"x"`
	Y         int            `json:"y"`
	Width     int            `json:"w"`
	Height    int            `json:"h"`
	Tightness int            `json:"tightness"`
	Strategy  model.Strategy `json:"strategy"`
}

// TilingInfo is the QR payload of a tiling report: enough to re-render the
// winning lattice without rerunning the search.
type TilingInfo struct {
	AssetID string  `json:"asset"`
	D1      [2]int  `json:"d1"`
	D2      [2]int  `json:"d2"`
	Score   float64 `json:"score"`
}

// sheetLayout describes a page of equally sized sticky labels, in mm.
type sheetLayout struct {
	top, left     float64
	width, height float64
	cols, rows    int
	qr, pad       float64
}

// avery5160 is the common 3 x 10 address label sheet on US Letter.
var avery5160 = sheetLayout{
	top: 12.7, left: 4.8,
	width: 66.7, height: 25.4,
	cols: 3, rows: 10,
	qr: 20, pad: 2,
}

// origin returns the top-left corner of the i-th label and whether it
// starts a new page.
func (l sheetLayout) origin(i int) (x, y float64, newPage bool) {
	perPage := l.cols * l.rows
	slot := i % perPage
	x = l.left + float64(slot%l.cols)*l.width
	y = l.top + float64(slot/l.cols)*l.height
	return x, y, slot == 0
}

// labelLine is one row of text beside the QR code.
type labelLine struct {
	style string
	size  float64
	gray  int
	h     float64
	text  string
}

func (info LabelInfo) lines() []labelLine {
	return []labelLine{
		{"B", 9, 0, 4.5, fmt.Sprintf("#%d  %s", info.Index, info.AssetID)},
		{"", 7, 0, 3.5, fmt.Sprintf("%d x %d px", info.Width, info.Height)},
		{"", 6, 100, 3.5, fmt.Sprintf("@ (%d, %d)  tightness %d", info.X, info.Y, info.Tightness)},
		{"I", 6, 100, 3, string(info.Strategy)},
	}
}

// ExportLabels writes one QR-coded sticker per placed asset onto Avery 5160
// sheets. Skipped assets get no sticker.
func ExportLabels(path string, results []*model.PlacementResult) error {
	infos := CollectLabelInfos(results)
	if len(infos) == 0 {
		return fmt.Errorf("no placements to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, info := range infos {
		x, y, newPage := avery5160.origin(i)
		if newPage {
			pdf.AddPage()
		}
		if err := avery5160.render(pdf, x, y, info); err != nil {
			return fmt.Errorf("label for %q: %w", info.AssetID, err)
		}
	}
	return pdf.OutputFileAndClose(path)
}

// render draws a hairline frame, the QR code on the right and the text
// lines on the left.
func (l sheetLayout) render(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, l.width, l.height, "D")

	name := fmt.Sprintf("qr_%d_%s", info.Index, info.AssetID)
	if err := placeQR(pdf, name, info, x+l.width-l.qr-l.pad, y+(l.height-l.qr)/2, l.qr); err != nil {
		return err
	}

	textW := l.width - l.qr - 3*l.pad
	cy := y + l.pad
	for _, line := range info.lines() {
		pdf.SetFont("Helvetica", line.style, line.size)
		pdf.SetTextColor(line.gray, line.gray, line.gray)
		pdf.SetXY(x+l.pad, cy)
		pdf.CellFormat(textW, line.h, line.text, "", 0, "L", false, 0, "")
		cy += line.h + 0.5
	}
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// placeQR encodes v as JSON into a QR code and draws it at (x, y).
func placeQR(pdf *fpdf.Fpdf, name string, v any, x, y, size float64) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding QR payload: %w", err)
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encoding QR code: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, x, y, size, size, false, opts, 0, "")
	return nil
}

// CollectLabelInfos lists the placed results. Index is the 1-based position
// in results, so skipped assets leave gaps.
func CollectLabelInfos(results []*model.PlacementResult) []LabelInfo {
	var infos []LabelInfo
	for i, r := range results {
		if r == nil {
			continue
		}
		infos = append(infos, LabelInfo{
			Index:     i + 1,
			AssetID:   r.AssetID,
			X:         r.Offset.X,
			Y:         r.Offset.Y,
			Width:     r.Size.X,
			Height:    r.Size.Y,
			Tightness: r.Tightness,
			Strategy:  r.Strategy,
		})
	}
	return infos
}

// NewTilingInfo builds the QR payload for a tiling result.
func NewTilingInfo(r model.TilingResult) TilingInfo {
	return TilingInfo{
		AssetID: r.AssetID,
		D1:      [2]int{r.Config.Delta1.X, r.Config.Delta1.Y},
		D2:      [2]int{r.Config.Delta2.X, r.Config.Delta2.Y},
		Score:   r.Score,
	}
}
