package engine

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/tessera/internal/model"
)

func TestScoreTiling_ExactGridScoresOne(t *testing.T) {
	backdrop := model.NewCanvas(512, 512)
	cfg := model.TilingConfig{Delta1: image.Pt(64, 0), Delta2: image.Pt(0, 64)}

	score := ScoreTiling(backdrop, solidMask(64, 64), cfg)

	assert.InDelta(t, 1.0, score, 1e-12)
}

func TestRenderTiling_DoesNotMutateInput(t *testing.T) {
	backdrop := model.NewCanvas(128, 128)
	cfg := model.TilingConfig{Delta1: image.Pt(32, 0), Delta2: image.Pt(0, 48)}

	out := RenderTiling(backdrop, solidMask(40, 40), cfg)

	assert.Equal(t, model.NewCanvas(128, 128).Counts, backdrop.Counts)
	assert.NotZero(t, out.Coverage().Overlap)
}

func TestRenderTiling_Idempotent(t *testing.T) {
	backdrop := model.NewCanvas(100, 80)
	m := maskWithBlock(image.Pt(30, 20), image.Rect(5, 0, 25, 20))
	cfg := model.TilingConfig{Delta1: image.Pt(32, 0), Delta2: image.Pt(64, 96)}

	a := RenderTiling(backdrop, m, cfg)
	b := RenderTiling(backdrop, m, cfg)

	assert.True(t, a.Equal(b))
}

func TestRenderTiling_OrderIndependent(t *testing.T) {
	backdrop := model.NewCanvas(96, 96)
	m := maskWithBlock(image.Pt(40, 40), image.Rect(0, 0, 40, 25))
	cfg := model.TilingConfig{Delta1: image.Pt(32, 0), Delta2: image.Pt(32, 32)}

	forward := RenderTiling(backdrop, m, cfg)

	reverse := backdrop.Clone()
	for i := RenderWindow - 1; i >= -RenderWindow; i-- {
		for j := RenderWindow - 1; j >= -RenderWindow; j-- {
			stamp(reverse, m, cfg.Offset(i, j))
		}
	}

	assert.True(t, forward.Equal(reverse))
}

func TestRenderTilingWindow_ClipsAndSkips(t *testing.T) {
	backdrop := model.NewCanvas(50, 50)
	cfg := model.TilingConfig{Delta1: image.Pt(100, 0), Delta2: image.Pt(0, 100)}

	// i, j in {-1, 0}: only the (0, 0) stamp reaches the canvas.
	out := RenderTilingWindow(backdrop, solidMask(10, 10), cfg, 1)

	cov := out.Coverage()
	assert.Equal(t, 100, cov.Exact)
	assert.Equal(t, 0, cov.Overlap)
	assert.Equal(t, int32(1), out.At(9, 9))
	assert.Equal(t, int32(0), out.At(10, 10))
}

func TestRenderTiling_PartialStampIsClipped(t *testing.T) {
	backdrop := model.NewCanvas(20, 20)
	cfg := model.TilingConfig{Delta1: image.Pt(15, 0), Delta2: image.Pt(0, 100)}

	// Window 1 reaches x = 0 only; window 2 adds x = 15, clipped to 5 columns.
	out := RenderTilingWindow(backdrop, solidMask(10, 10), cfg, 1)
	out2 := RenderTilingWindow(backdrop, solidMask(10, 10), cfg, 2)

	assert.Equal(t, 100, out.Coverage().Exact)
	assert.Equal(t, 150, out2.Coverage().Exact)
	assert.Equal(t, int32(1), out2.At(19, 0))
}

func TestScoreTiling_ZeroVectorStacksStamps(t *testing.T) {
	backdrop := model.NewCanvas(8, 8)

	out := RenderTiling(backdrop, solidMask(4, 4), model.TilingConfig{})
	score := ScoreTiling(backdrop, solidMask(4, 4), model.TilingConfig{})

	assert.Equal(t, int32(4*RenderWindow*RenderWindow), out.At(0, 0))
	assert.InDelta(t, -0.25, score, 1e-12)
}

func TestScoreTiling_Range(t *testing.T) {
	backdrop := model.NewCanvas(64, 64)
	m := maskWithBlock(image.Pt(24, 24), image.Rect(0, 0, 24, 12))

	for cfg := range (Lattice{Step: 16, Steps: 4}).Configs() {
		s := ScoreTiling(backdrop, m, cfg)
		require.GreaterOrEqual(t, s, -1.0, "config %v", cfg)
		require.LessOrEqual(t, s, 1.0, "config %v", cfg)
	}
}

func TestScoreTiling_BackdropCoverageCounts(t *testing.T) {
	// A pre-covered backdrop turns an exact tiling into a full overlap.
	backdrop := model.CanvasFromMask(solidMask(64, 64))
	cfg := model.TilingConfig{Delta1: image.Pt(32, 0), Delta2: image.Pt(0, 32)}

	score := ScoreTiling(backdrop, solidMask(32, 32), cfg)

	assert.InDelta(t, -1.0, score, 1e-12)
	assert.Equal(t, int32(1), backdrop.At(0, 0))
}
