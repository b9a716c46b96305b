package engine

import (
	"image"
	"iter"

	"github.com/piwi3910/tessera/internal/model"
)

// Lattice describes the coarse grid candidate basis vectors are drawn from:
// each component takes the values 0, Step, 2*Step, ..., (Steps-1)*Step.
type Lattice struct {
	Step  int
	Steps int
}

// DefaultLattice yields components {0, 32, ..., 224}: 64 vectors, 8 per axis.
var DefaultLattice = Lattice{Step: 32, Steps: 8}

// Vectors enumerates candidate repeat vectors, dx outer and dy inner.
// The zero vector is included.
func (l Lattice) Vectors() iter.Seq[image.Point] {
	return func(yield func(image.Point) bool) {
		for i := 0; i < l.Steps; i++ {
			for j := 0; j < l.Steps; j++ {
				if !yield(image.Pt(i*l.Step, j*l.Step)) {
					return
				}
			}
		}
	}
}

// Configs enumerates ordered basis pairs (v1, v2) with cross(v1, v2) >= 0,
// v1 outer and v2 inner. A pair and its swap never both appear unless the
// cross product is zero. Degenerate pairs (zero or parallel vectors) are kept;
// they are valid input for scoring and simply score poorly.
//
// The order is part of the contract: SelectBest keeps the first of equally
// scored configs.
func (l Lattice) Configs() iter.Seq[model.TilingConfig] {
	return func(yield func(model.TilingConfig) bool) {
		for v1 := range l.Vectors() {
			for v2 := range l.Vectors() {
				cfg := model.TilingConfig{Delta1: v1, Delta2: v2}
				if cfg.Cross() < 0 {
					continue
				}
				if !yield(cfg) {
					return
				}
			}
		}
	}
}

// Count returns the number of configs Configs yields.
func (l Lattice) Count() int {
	n := 0
	for range l.Configs() {
		n++
	}
	return n
}

// CandidateVectors enumerates DefaultLattice vectors.
func CandidateVectors() iter.Seq[image.Point] {
	return DefaultLattice.Vectors()
}

// EnumerateConfigs enumerates DefaultLattice configs.
func EnumerateConfigs() iter.Seq[model.TilingConfig] {
	return DefaultLattice.Configs()
}
