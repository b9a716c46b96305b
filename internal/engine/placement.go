package engine

import (
	"image"
	"iter"
	"math/rand"

	"github.com/piwi3910/tessera/internal/model"
)

// ProposeRandom draws attempts offsets uniformly from
// [0, W-w) x [0, H-h). The generator is explicit state: restarting the
// sequence keeps drawing from rng. An asset that leaves no free range on
// either axis fails with OutOfBounds.
func ProposeRandom(asset *model.Asset, canvasSize image.Point, attempts int, rng *rand.Rand) (iter.Seq[model.Proposal], error) {
	free := canvasSize.Sub(asset.Size())
	if free.X <= 0 || free.Y <= 0 {
		return nil, model.OutOfBounds("ProposeRandom",
			"%dx%d asset leaves no free range on a %dx%d canvas",
			asset.Width(), asset.Height(), canvasSize.X, canvasSize.Y)
	}

	return func(yield func(model.Proposal) bool) {
		for i := 0; i < attempts; i++ {
			x := rng.Intn(free.X)
			y := rng.Intn(free.Y)
			if !yield(model.Proposal{Asset: asset, Offset: image.Pt(x, y)}) {
				return
			}
		}
	}, nil
}

// ProposeGrid yields a gridSize.X x gridSize.Y grid of offsets spread evenly
// over the free range, x outer and y inner. Offsets are truncated toward
// zero. Each axis needs at least two grid points; otherwise the spacing
// divides by zero and DegenerateGrid is returned.
func ProposeGrid(asset *model.Asset, canvasSize, gridSize image.Point) (iter.Seq[model.Proposal], error) {
	if gridSize.X <= 1 || gridSize.Y <= 1 {
		return nil, model.DegenerateGrid("ProposeGrid", "grid %dx%d needs at least 2 points per axis", gridSize.X, gridSize.Y)
	}
	effective := canvasSize.Sub(asset.Size())
	if effective.X < 0 || effective.Y < 0 {
		return nil, model.OutOfBounds("ProposeGrid",
			"%dx%d asset is larger than the %dx%d canvas",
			asset.Width(), asset.Height(), canvasSize.X, canvasSize.Y)
	}

	return func(yield func(model.Proposal) bool) {
		for x := 0; x < gridSize.X; x++ {
			for y := 0; y < gridSize.Y; y++ {
				off := image.Pt(
					int(float64(x)/float64(gridSize.X-1)*float64(effective.X)),
					int(float64(y)/float64(gridSize.Y-1)*float64(effective.Y)),
				)
				if !yield(model.Proposal{Asset: asset, Offset: off}) {
					return
				}
			}
		}
	}, nil
}

// candidate is a non-overlapping proposal together with the masks needed to
// score it.
type candidate struct {
	proposal model.Proposal
	fg       *model.Mask
}

// fits filters proposals down to those that do not overlap the canvas.
// The first overlap-test failure stops the sequence and is stored in *errp.
func fits(bg *model.Mask, proposals iter.Seq[model.Proposal], errp *error) iter.Seq[candidate] {
	return func(yield func(candidate) bool) {
		for p := range proposals {
			m := p.Asset.Mask()
			overlap, err := HasOverlap(bg, m, p.Offset)
			if err != nil {
				*errp = err
				return
			}
			if overlap {
				continue
			}
			if !yield(candidate{proposal: p, fg: m}) {
				return
			}
		}
	}
}

// PlaceFirstFit composites the first proposal that does not overlap the
// canvas and stops there. It returns nil when every proposal overlaps.
func PlaceFirstFit(canvas *image.NRGBA, proposals iter.Seq[model.Proposal]) (*model.PlacementResult, error) {
	bg, err := model.ToMask(canvas)
	if err != nil {
		return nil, err
	}

	var iterErr error
	for c := range fits(bg, proposals, &iterErr) {
		return composite(canvas, c.proposal, 0, model.StrategyFirstFit)
	}
	return nil, iterErr
}

// PlaceTightest evaluates every proposal, discards overlapping ones and
// composites the one with the highest tightness. Ties keep the earliest
// proposal. It returns nil when no proposal fits.
func PlaceTightest(canvas *image.NRGBA, proposals iter.Seq[model.Proposal]) (*model.PlacementResult, error) {
	return placeTightest(canvas, proposals, TightnessRadius)
}

func placeTightest(canvas *image.NRGBA, proposals iter.Seq[model.Proposal], radius int) (*model.PlacementResult, error) {
	bg, err := model.ToMask(canvas)
	if err != nil {
		return nil, err
	}

	var iterErr error
	best, score, ok := SelectBest(fits(bg, proposals, &iterErr), func(c candidate) float64 {
		fg := c.fg.Expand(bg.Size(), c.proposal.Offset)
		t, _ := TightnessWithRadius(bg, fg, radius) // same shape by construction
		return float64(t)
	})
	if iterErr != nil {
		return nil, iterErr
	}
	if !ok {
		return nil, nil
	}
	return composite(canvas, best.proposal, int(score), model.StrategyTightest)
}

func composite(canvas *image.NRGBA, p model.Proposal, tightness int, strategy model.Strategy) (*model.PlacementResult, error) {
	img, err := PlaceExact(canvas, p.Asset.Image, p.Offset)
	if err != nil {
		return nil, err
	}
	return &model.PlacementResult{
		ID:        model.NewResultID(),
		AssetID:   p.Asset.ID,
		Offset:    p.Offset,
		Size:      p.Asset.Size(),
		Tightness: tightness,
		Strategy:  strategy,
		Image:     img,
	}, nil
}

// Place dispatches to the acceptance policy named by strategy.
func Place(canvas *image.NRGBA, proposals iter.Seq[model.Proposal], strategy model.Strategy) (*model.PlacementResult, error) {
	return placeWith(canvas, proposals, strategy, TightnessRadius)
}

// placeWith is Place with an explicit tightness radius.
func placeWith(canvas *image.NRGBA, proposals iter.Seq[model.Proposal], strategy model.Strategy, radius int) (*model.PlacementResult, error) {
	if strategy == model.StrategyFirstFit {
		return PlaceFirstFit(canvas, proposals)
	}
	return placeTightest(canvas, proposals, radius)
}
