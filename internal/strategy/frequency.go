package strategy

import (
	"math"
	"math/rand/v2"

	"DrawSentinel/internal/calculator"
	"DrawSentinel/internal/model"
)

func frequencyAlgorithms() []Algorithm {
	return []Algorithm{
		{Name: "hot", Family: FamilyFrequency, MinHistory: 1, Score: scoreHot},
		{Name: "cold", Family: FamilyFrequency, MinHistory: 1, Score: scoreCold},
		{Name: "hot-10", Family: FamilyFrequency, MinHistory: 10, Score: scoreHotLast(10)},
		{Name: "hot-25", Family: FamilyFrequency, MinHistory: 25, Score: scoreHotLast(25)},
		{Name: "hot-50", Family: FamilyFrequency, MinHistory: 50, Score: scoreHotLast(50)},
		{Name: "recency-decay", Family: FamilyFrequency, MinHistory: 5, Score: scoreRecencyDecay},
		{Name: "trend", Family: FamilyFrequency, MinHistory: 40, Score: scoreTrend},
		{Name: "chi-deviation", Family: FamilyFrequency, MinHistory: 10, Score: scoreChiDeviation},
		{Name: "bayes-smoothing", Family: FamilyFrequency, MinHistory: 15, Score: scoreBayesSmoothing},
	}
}

func frequencyOf(history []model.Draw, p model.Pool) []int {
	return calculator.Frequency(history, p)
}

func toFloats(counts []int) []float64 {
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = float64(c)
	}
	return out
}

// scoreHot favours numbers drawn most often over the whole history.
func scoreHot(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	return toFloats(frequencyOf(history, p))
}

// scoreCold favours numbers drawn least often.
func scoreCold(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	scores := toFloats(frequencyOf(history, p))
	for i := range scores {
		scores[i] = -scores[i]
	}
	return scores
}

func scoreHotLast(n int) ScoreFunc {
	return func(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
		return nudge(toFloats(calculator.FrequencyLast(history, p, n)), history, p)
	}
}

// scoreRecencyDecay weights appearances with a 15-draw half-life.
func scoreRecencyDecay(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	return calculator.DecayedFrequency(history, p, 15)
}

// scoreTrend compares the recent appearance rate against the long-run rate.
func scoreTrend(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	const recent = 20
	longRate := calculator.Rates(frequencyOf(history, p), len(history))
	shortRate := calculator.Rates(calculator.FrequencyLast(history, p, recent), recent)
	scores := make([]float64, p.Size())
	for i := range scores {
		scores[i] = shortRate[i] - longRate[i]
	}
	return nudge(scores, history, p)
}

// scoreChiDeviation ranks by how far each number sits below its expected
// count, normalized like a chi-square term.
func scoreChiDeviation(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	expected := float64(len(history)*p.Pick) / float64(p.Size())
	freq := frequencyOf(history, p)
	scores := make([]float64, p.Size())
	if expected == 0 {
		return scores
	}
	for i, f := range freq {
		scores[i] = (expected - float64(f)) / math.Sqrt(expected)
	}
	return scores
}

// scoreBayesSmoothing shrinks the last 15 draws toward the long-run rate
// with a prior worth 20 draws.
func scoreBayesSmoothing(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	const (
		recent   = 15
		strength = 20.0
	)
	longRate := calculator.Rates(frequencyOf(history, p), len(history))
	recentCounts := calculator.FrequencyLast(history, p, recent)
	scores := make([]float64, p.Size())
	for i := range scores {
		scores[i] = (float64(recentCounts[i]) + strength*longRate[i]) / (recent + strength)
	}
	return scores
}
