package engine

import (
	"context"
	"fmt"
	"image"
	"iter"
	"math"
	"math/rand"

	"github.com/piwi3910/tessera/internal/logging"
	"github.com/piwi3910/tessera/internal/model"
)

// Searcher runs tiling and placement searches with a fixed set of settings.
// It keeps no state between calls apart from the random source used for
// random proposals, so a Searcher must not be shared between goroutines.
type Searcher struct {
	Settings model.Settings
	rng      *rand.Rand
}

// New returns a Searcher for settings. Random proposals draw from a source
// seeded with settings.Seed.
func New(settings model.Settings) *Searcher {
	return &Searcher{
		Settings: settings,
		rng:      rand.New(rand.NewSource(settings.Seed)),
	}
}

// lattice returns the configured lattice, falling back to DefaultLattice.
func (s *Searcher) lattice() Lattice {
	if s.Settings.LatticeStep <= 0 || s.Settings.LatticeSteps <= 0 {
		return DefaultLattice
	}
	return Lattice{Step: s.Settings.LatticeStep, Steps: s.Settings.LatticeSteps}
}

func (s *Searcher) window() int {
	if s.Settings.RenderWindow <= 0 {
		return RenderWindow
	}
	return s.Settings.RenderWindow
}

// radius returns the configured tightness radius, falling back to
// TightnessRadius when unset.
func (s *Searcher) radius() int {
	if s.Settings.TightnessRadius <= 0 {
		return TightnessRadius
	}
	return s.Settings.TightnessRadius
}

// SearchTiling scores every lattice config for asset on an empty
// Settings.TileCanvas and returns the best one together with its rendered
// accumulator. The leaderboard holds the Settings.LeaderboardSize best
// configs in rank order. When the lattice yields no configs the result has
// Score -Inf and a nil Canvas. The search stops between configs once ctx is
// done and returns ctx.Err().
func (s *Searcher) SearchTiling(ctx context.Context, asset model.Asset) (model.TilingResult, *Leaderboard[model.TilingConfig], error) {
	logger := logging.FromContext(ctx).With("asset", asset.ID)
	size := s.Settings.TileCanvas
	if size.X <= 0 || size.Y <= 0 {
		return model.TilingResult{}, nil, model.OutOfBounds("SearchTiling", "tile canvas %v is empty", size)
	}

	m := asset.Mask()
	backdrop := model.NewCanvas(size.X, size.Y)
	lattice := s.lattice()
	half := s.window()
	board := NewLeaderboard[model.TilingConfig](s.Settings.LeaderboardSize)

	logger.Info("tiling search started",
		"asset_size", asset.Size(), "canvas", size, "configs", lattice.Count(), "window", half)
	progress := logging.Start(logger)

	score := func(cfg model.TilingConfig) float64 {
		sc := ScoreTilingWindow(backdrop, m, cfg, half)
		logger.Debug("scored lattice", "delta1", cfg.Delta1, "delta2", cfg.Delta2, "score", sc)
		return sc
	}
	best, bestScore, ok := SelectBest(untilDone(ctx, lattice.Configs()), board.Scoring(score))
	if err := ctx.Err(); err != nil {
		logger.Warn("tiling search cancelled", "evaluated", board.Seen())
		return model.TilingResult{}, nil, err
	}
	result := model.TilingResult{
		ID:        model.NewResultID(),
		AssetID:   asset.ID,
		Score:     bestScore,
		Evaluated: board.Seen(),
	}
	if !ok {
		logger.Warn("tiling search found no configuration", "score", scoreText(bestScore))
		return result, board, nil
	}

	result.Config = best
	result.Canvas = RenderTilingWindow(backdrop, m, best, half)
	progress.Done("tiling search finished",
		"delta1", best.Delta1, "delta2", best.Delta2, "score", scoreText(bestScore))
	return result, board, nil
}

// Proposals builds the proposal sequence configured in Settings for asset.
func (s *Searcher) Proposals(asset *model.Asset, canvasSize image.Point) (iter.Seq[model.Proposal], error) {
	if s.Settings.Proposal == model.ProposalRandom {
		return ProposeRandom(asset, canvasSize, s.Settings.Attempts, s.rng)
	}
	return ProposeGrid(asset, canvasSize, s.Settings.GridSize)
}

// Place positions asset on canvas with the configured proposals and strategy.
// It returns nil when no proposal fits.
func (s *Searcher) Place(ctx context.Context, canvas *image.NRGBA, asset model.Asset) (*model.PlacementResult, error) {
	logger := logging.FromContext(ctx).With("asset", asset.ID)

	proposals, err := s.Proposals(&asset, canvas.Bounds().Size())
	if err != nil {
		return nil, err
	}

	res, err := placeWith(canvas, proposals, s.Settings.Strategy, s.radius())
	if err != nil {
		return nil, fmt.Errorf("placing asset %s: %w", asset.ID, err)
	}

	if res == nil {
		logger.Info("no placement fits", "strategy", s.Settings.Strategy)
		return nil, nil
	}
	logger.Info("placed asset", "offset", res.Offset, "tightness", res.Tightness, "strategy", res.Strategy)
	return res, nil
}

// PlaceAll places assets one after another, each onto the canvas produced by
// the previous placement. Assets that do not fit are skipped and reported as
// nil entries. The returned image is the final composited canvas. Once ctx
// is done no further asset is placed and ctx.Err() is returned along with
// the results so far.
func (s *Searcher) PlaceAll(ctx context.Context, canvas *image.NRGBA, assets []model.Asset) ([]*model.PlacementResult, *image.NRGBA, error) {
	logger := logging.FromContext(ctx)
	progress := logging.Start(logger)

	results := make([]*model.PlacementResult, 0, len(assets))
	current := canvas
	placed := 0
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			logger.Warn("placement cancelled", "placed", placed, "remaining", len(assets)-len(results))
			return results, current, err
		}
		res, err := s.Place(ctx, current, a)
		if err != nil {
			return results, current, err
		}
		results = append(results, res)
		if res != nil {
			current = res.Image
			placed++
		}
	}

	progress.Done("placement finished", "placed", placed, "skipped", len(assets)-placed)
	return results, current, nil
}

// Compare runs every default scenario for asset on canvas over one shared
// proposal sequence. The configured strategy comes first, and tightness
// uses the configured radius. It returns ctx.Err() if ctx is already done.
func (s *Searcher) Compare(ctx context.Context, canvas *image.NRGBA, asset model.Asset) ([]ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx).With("asset", asset.ID)

	proposals, err := s.Proposals(&asset, canvas.Bounds().Size())
	if err != nil {
		return nil, err
	}
	results, err := CompareStrategiesWithRadius(BuildDefaultScenarios(s.Settings.Strategy), canvas, proposals, s.radius())
	if err != nil {
		return nil, fmt.Errorf("comparing strategies for asset %s: %w", asset.ID, err)
	}
	for _, r := range results {
		logger.Debug("scenario evaluated", "scenario", r.Scenario.Name, "placed", r.Placed, "tightness", r.Tightness)
	}
	return results, nil
}

// NewPlacementCanvas returns a transparent canvas of Settings.PlaceCanvas size.
func (s *Searcher) NewPlacementCanvas() *image.NRGBA {
	return image.NewNRGBA(image.Rectangle{Max: s.Settings.PlaceCanvas})
}

// untilDone stops seq as soon as ctx is done.
func untilDone[T any](ctx context.Context, seq iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			if ctx.Err() != nil || !yield(v) {
				return
			}
		}
	}
}

// scoreText formats a score for logs.
func scoreText(v float64) string {
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return fmt.Sprintf("%.4f", v)
}
