package strategy

import (
	"math"
	"math/rand/v2"

	"DrawSentinel/internal/calculator"
	"DrawSentinel/internal/model"
)

func gapAlgorithms() []Algorithm {
	return []Algorithm{
		{Name: "overdue", Family: FamilyGap, MinHistory: 5, Score: scoreOverdue},
		{Name: "gap-ratio", Family: FamilyGap, MinHistory: 20, Score: scoreGapRatio},
		{Name: "gap-due", Family: FamilyGap, MinHistory: 20, Score: scoreGapDue},
		{Name: "poisson-due", Family: FamilyGap, MinHistory: 20, Score: scorePoissonDue},
	}
}

// scoreOverdue favours numbers absent for the longest time.
func scoreOverdue(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	return nudge(toFloats(calculator.CurrentGaps(history, p)), history, p)
}

// scoreGapRatio scores the current gap relative to the number's average gap.
func scoreGapRatio(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	gaps := calculator.CurrentGaps(history, p)
	avg := calculator.AverageGaps(history, p)
	scores := make([]float64, p.Size())
	for i := range scores {
		if avg[i] > 0 {
			scores[i] = float64(gaps[i]) / avg[i]
		}
	}
	return scores
}

// scoreGapDue favours numbers whose current gap is closest to their average gap.
func scoreGapDue(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	gaps := calculator.CurrentGaps(history, p)
	avg := calculator.AverageGaps(history, p)
	scores := make([]float64, p.Size())
	for i := range scores {
		scores[i] = -math.Abs(float64(gaps[i]) - avg[i])
	}
	return nudge(scores, history, p)
}

// scorePoissonDue is the Poisson probability of at least one appearance
// across the current gap plus the next draw.
func scorePoissonDue(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	rates := calculator.Rates(frequencyOf(history, p), len(history))
	gaps := calculator.CurrentGaps(history, p)
	scores := make([]float64, p.Size())
	for i := range scores {
		scores[i] = 1 - math.Exp(-rates[i]*float64(gaps[i]+1))
	}
	return scores
}
