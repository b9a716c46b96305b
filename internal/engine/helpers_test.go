package engine

import (
	"image"
	"image/color"

	"github.com/piwi3910/tessera/internal/model"
)

// solidMask returns a fully occupied w x h mask.
func solidMask(w, h int) *model.Mask {
	m := model.NewMask(w, h)
	for i := range m.Bits {
		m.Bits[i] = true
	}
	return m
}

// solidAsset returns an opaque w x h asset.
func solidAsset(w, h int) model.Asset {
	return model.AssetFromMask("solid", solidMask(w, h))
}

// canvasWithBlock returns a transparent canvas with an opaque block filling r.
func canvasWithBlock(size image.Point, r image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(image.Rectangle{Max: size})
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return img
}

// maskWithBlock returns an empty mask of size with r occupied.
func maskWithBlock(size image.Point, r image.Rectangle) *model.Mask {
	m := model.NewMask(size.X, size.Y)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

// fixedProposals yields asset at each offset in order.
func fixedProposals(asset *model.Asset, offsets ...image.Point) func(func(model.Proposal) bool) {
	return func(yield func(model.Proposal) bool) {
		for _, off := range offsets {
			if !yield(model.Proposal{Asset: asset, Offset: off}) {
				return
			}
		}
	}
}
