package model

import (
	"image"
	"math"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

// Asset is a masked cutout ready for tiling or placement.
// The image is treated as immutable once the asset is built.
type Asset struct {
	ID    string       `json:"id"`
	Label string       `json:"label"`
	Image *image.NRGBA `json:"-"`
}

// NewAsset converts img to NRGBA and assigns a short ID. Images without an
// opacity channel are rejected.
func NewAsset(label string, img image.Image) (Asset, error) {
	if _, err := ToMask(img); err != nil {
		return Asset{}, err
	}
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(nrgba, nrgba.Bounds(), img, b.Min, xdraw.Src)
	}
	return Asset{
		ID:    uuid.New().String()[:8],
		Label: label,
		Image: nrgba,
	}, nil
}

// AssetFromMask builds an opaque white asset whose alpha follows m.
func AssetFromMask(label string, m *Mask) Asset {
	img := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, b := range m.Bits {
		if b {
			img.Pix[i*4+0] = 255
			img.Pix[i*4+1] = 255
			img.Pix[i*4+2] = 255
			img.Pix[i*4+3] = 255
		}
	}
	return Asset{
		ID:    uuid.New().String()[:8],
		Label: label,
		Image: img,
	}
}

// Width returns the asset width in pixels.
func (a Asset) Width() int { return a.Image.Bounds().Dx() }

// Height returns the asset height in pixels.
func (a Asset) Height() int { return a.Image.Bounds().Dy() }

// Size returns the asset dimensions as a point.
func (a Asset) Size() image.Point {
	return image.Pt(a.Width(), a.Height())
}

// Mask returns the thresholded (alpha > 0) occupancy of the asset.
func (a Asset) Mask() *Mask {
	m, _ := ToMask(a.Image) // NRGBA always has an opacity channel
	return m
}

// TilingConfig is a lattice generated by two integer basis vectors.
type TilingConfig struct {
	Delta1 image.Point `json:"delta1"`
	Delta2 image.Point `json:"delta2"`
}

// Cross returns the 2D cross product Delta1 x Delta2.
func (c TilingConfig) Cross() int {
	return c.Delta1.X*c.Delta2.Y - c.Delta1.Y*c.Delta2.X
}

// IsDegenerate reports whether the lattice collapses to a line or a point
// (a zero basis vector or parallel basis vectors).
func (c TilingConfig) IsDegenerate() bool {
	return c.Cross() == 0
}

// Offset returns the stamp position i*Delta1 + j*Delta2.
func (c TilingConfig) Offset(i, j int) image.Point {
	return c.Delta1.Mul(i).Add(c.Delta2.Mul(j))
}

// Proposal is a candidate position for an asset. It is consumed once.
type Proposal struct {
	Asset  *Asset
	Offset image.Point
}

// Strategy selects the placement acceptance policy.
type Strategy string

const (
	StrategyFirstFit Strategy = "first-fit" // Accept the first non-overlapping proposal
	StrategyTightest Strategy = "tightest"  // Scan all proposals, keep the tightest fit
)

// ProposalMode selects how placement positions are generated.
type ProposalMode string

const (
	ProposalGrid   ProposalMode = "grid"   // Evenly spaced grid over the free range
	ProposalRandom ProposalMode = "random" // Uniform random draws
)

// TilingResult is the outcome of a lattice search for one asset.
type TilingResult struct {
	ID        string       `json:"id"`
	AssetID   string       `json:"asset_id"`
	Config    TilingConfig `json:"config"`
	Score     float64      `json:"score"`
	Evaluated int          `json:"evaluated"`
	Canvas    *Canvas      `json:"-"`
}

// Found reports whether the search produced a configuration.
func (r TilingResult) Found() bool {
	return r.Canvas != nil && !math.IsInf(r.Score, -1)
}

// PlacementResult is an accepted placement and the composited canvas it produced.
type PlacementResult struct {
	ID        string       `json:"id"`
	AssetID   string       `json:"asset_id"`
	Offset    image.Point  `json:"offset"`
	Size      image.Point  `json:"size"`
	Tightness int          `json:"tightness"`
	Strategy  Strategy     `json:"strategy"`
	Image     *image.NRGBA `json:"-"`
}

// NewResultID returns a fresh identifier for search results.
func NewResultID() string {
	return uuid.New().String()[:8]
}
