package engine

import (
	"image"
	"iter"
	"slices"

	"github.com/piwi3910/tessera/internal/model"
)

// ComparisonScenario names one placement strategy to run.
type ComparisonScenario struct {
	Name     string
	Strategy model.Strategy
}

// ComparisonResult holds the placement a scenario produced and the numbers
// shown side by side.
type ComparisonResult struct {
	Scenario  ComparisonScenario
	Result    *model.PlacementResult
	Placed    bool
	Offset    image.Point
	Tightness int
	Coverage  float64 // occupied share of the composited canvas
}

// BuildDefaultScenarios returns first-fit and tightest, with the configured
// strategy first.
func BuildDefaultScenarios(current model.Strategy) []ComparisonScenario {
	firstFit := ComparisonScenario{Name: "First Fit", Strategy: model.StrategyFirstFit}
	tightest := ComparisonScenario{Name: "Tightest", Strategy: model.StrategyTightest}
	if current == model.StrategyFirstFit {
		return []ComparisonScenario{firstFit, tightest}
	}
	return []ComparisonScenario{tightest, firstFit}
}

// CompareStrategies runs every scenario over the same proposals. The
// proposal sequence is collected once so random proposals are identical
// across scenarios. Results follow scenario order. Tightness uses the
// default radius.
func CompareStrategies(scenarios []ComparisonScenario, canvas *image.NRGBA, proposals iter.Seq[model.Proposal]) ([]ComparisonResult, error) {
	return CompareStrategiesWithRadius(scenarios, canvas, proposals, TightnessRadius)
}

// CompareStrategiesWithRadius is CompareStrategies with an explicit
// tightness radius.
func CompareStrategiesWithRadius(scenarios []ComparisonScenario, canvas *image.NRGBA, proposals iter.Seq[model.Proposal], radius int) ([]ComparisonResult, error) {
	collected := slices.Collect(proposals)
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		res, err := placeWith(canvas, slices.Values(collected), scenario.Strategy, radius)
		if err != nil {
			return results, err
		}

		cr := ComparisonResult{Scenario: scenario, Result: res}
		if res != nil {
			cr.Placed = true
			cr.Offset = res.Offset
			cr.Tightness = res.Tightness
			m, err := model.ToMask(res.Image)
			if err != nil {
				return results, err
			}
			cr.Coverage = m.Fraction()
		}
		results = append(results, cr)
	}

	return results, nil
}
