package strategy

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"DrawSentinel/internal/model"
)

// ErrInsufficientHistory is returned when an algorithm needs more draws than supplied.
var ErrInsufficientHistory = errors.New("insufficient history")

// Families group algorithms for display.
const (
	FamilyFrequency  = "frequency"
	FamilyGap        = "gap"
	FamilyPattern    = "pattern"
	FamilyNumerology = "numerology"
	FamilyModel      = "model"
)

// ScoreFunc returns one score per pool number, indexed by pool.Index(n).
// Higher means more likely to be suggested. rng is only non-nil for
// randomized algorithms.
type ScoreFunc func(history []model.Draw, p model.Pool, rng *rand.Rand) []float64

// Algorithm is one independent scoring heuristic.
type Algorithm struct {
	Name       string
	Family     string
	MinHistory int
	Randomized bool
	Score      ScoreFunc
}

// Predict scores both pools and ranks them. The rng for randomized
// algorithms is seeded from seed and the history length, so a replay over
// the same history yields the same picks.
func (a Algorithm) Predict(history []model.Draw, seed int64) (model.AlgorithmResult, error) {
	if len(history) < a.MinHistory || len(history) == 0 {
		return model.AlgorithmResult{}, fmt.Errorf("%s needs %d draws, have %d: %w",
			a.Name, a.MinHistory, len(history), ErrInsufficientHistory)
	}
	var mainRng, bonusRng *rand.Rand
	if a.Randomized {
		n := uint64(len(history))
		mainRng = rand.New(rand.NewPCG(uint64(seed), n<<1))
		bonusRng = rand.New(rand.NewPCG(uint64(seed), n<<1|1))
	}
	return model.AlgorithmResult{
		Algorithm: a.Name,
		Family:    a.Family,
		Main:      Rank(a.Score(history, model.MainPool, mainRng), model.MainPool),
		Bonus:     Rank(a.Score(history, model.BonusPool, bonusRng), model.BonusPool),
	}, nil
}

// Rank turns per-number scores into exactly p.Pick distinct candidates.
// Non-finite scores count as zero. Ties resolve to the lower number.
func Rank(scores []float64, p model.Pool) []model.ScoredCandidate {
	cs := make([]model.ScoredCandidate, p.Size())
	for i := range cs {
		s := 0.0
		if i < len(scores) && !math.IsNaN(scores[i]) && !math.IsInf(scores[i], 0) {
			s = scores[i]
		}
		cs[i] = model.ScoredCandidate{Number: p.Number(i), Score: s}
	}
	sortCandidates(cs)
	return cs[:p.Pick]
}

func sortCandidates(cs []model.ScoredCandidate) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Score != cs[j].Score {
			return cs[i].Score > cs[j].Score
		}
		return cs[i].Number < cs[j].Number
	})
}

// Registry returns every built-in algorithm in display order.
func Registry() []Algorithm {
	var out []Algorithm
	out = append(out, frequencyAlgorithms()...)
	out = append(out, gapAlgorithms()...)
	out = append(out, patternAlgorithms()...)
	out = append(out, numerologyAlgorithms()...)
	out = append(out, modelAlgorithms()...)
	return out
}

// Lookup finds an algorithm by name.
func Lookup(name string) (Algorithm, bool) {
	for _, a := range Registry() {
		if a.Name == name {
			return a, true
		}
	}
	return Algorithm{}, false
}

// nudge adds a frequency tie-breaker small enough to never reorder distinct base scores
// that differ by at least 1e-3.
func nudge(scores []float64, history []model.Draw, p model.Pool) []float64 {
	freq := frequencyOf(history, p)
	denom := float64(len(history)+1) * 1e4
	for i := range scores {
		scores[i] += float64(freq[i]) / denom
	}
	return scores
}

func indicator(p model.Pool, nums ...int) []float64 {
	scores := make([]float64, p.Size())
	for _, n := range nums {
		if p.Contains(n) {
			scores[p.Index(n)] = 1
		}
	}
	return scores
}

func lastDraw(history []model.Draw) model.Draw {
	return history[len(history)-1]
}
