package engine

import (
	"iter"
	"math"
	"sort"
)

// SelectBest scans candidates once and returns the highest-scoring one.
// Each candidate is scored exactly once. Only a strictly greater score
// replaces the current best, so ties keep the earliest candidate and NaN
// scores never win. An empty sequence yields (zero, -Inf, false).
func SelectBest[T any](candidates iter.Seq[T], score func(T) float64) (T, float64, bool) {
	var best T
	bestScore := math.Inf(-1)
	found := false

	for c := range candidates {
		s := score(c)
		if s > bestScore {
			best = c
			bestScore = s
			found = true
		}
	}
	return best, bestScore, found
}

// Ranked is a candidate with the score it was given and its position in the
// sequence it came from.
type Ranked[T any] struct {
	Item  T
	Score float64
	Seq   int
}

// Leaderboard keeps the N best scored candidates. It is fed from inside a
// scoring function so nothing is evaluated twice. Equal scores rank by
// arrival order.
type Leaderboard[T any] struct {
	size    int
	seen    int
	entries []Ranked[T]
}

// NewLeaderboard returns a leaderboard that keeps at most size entries.
// A size of zero or less keeps nothing.
func NewLeaderboard[T any](size int) *Leaderboard[T] {
	if size < 0 {
		size = 0
	}
	return &Leaderboard[T]{size: size, entries: make([]Ranked[T], 0, size)}
}

// Observe records a scored candidate.
func (lb *Leaderboard[T]) Observe(item T, score float64) {
	seq := lb.seen
	lb.seen++
	if lb.size == 0 || math.IsNaN(score) {
		return
	}
	if len(lb.entries) == lb.size && score <= lb.entries[len(lb.entries)-1].Score {
		return
	}

	// First index whose score is strictly lower: equal scores stay ahead.
	idx := sort.Search(len(lb.entries), func(i int) bool {
		return lb.entries[i].Score < score
	})
	lb.entries = append(lb.entries, Ranked[T]{})
	copy(lb.entries[idx+1:], lb.entries[idx:])
	lb.entries[idx] = Ranked[T]{Item: item, Score: score, Seq: seq}
	if len(lb.entries) > lb.size {
		lb.entries = lb.entries[:lb.size]
	}
}

// Entries returns the ranked candidates, best first.
func (lb *Leaderboard[T]) Entries() []Ranked[T] {
	out := make([]Ranked[T], len(lb.entries))
	copy(out, lb.entries)
	return out
}

// Seen returns how many candidates were observed.
func (lb *Leaderboard[T]) Seen() int {
	return lb.seen
}

// Scoring wraps score so every evaluation is also recorded on the leaderboard.
func (lb *Leaderboard[T]) Scoring(score func(T) float64) func(T) float64 {
	return func(item T) float64 {
		s := score(item)
		lb.Observe(item, s)
		return s
	}
}
