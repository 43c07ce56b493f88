package calculator

import (
	"math"
	"sort"

	"DrawSentinel/internal/model"
)

// SumStats returns the mean, min and max sum of main numbers.
func SumStats(draws []model.Draw) (mean float64, lo, hi int, err error) {
	if len(draws) == 0 {
		return 0, 0, 0, ErrInsufficientData
	}
	lo, hi = math.MaxInt, math.MinInt
	total := 0
	for _, d := range draws {
		s := 0
		for _, x := range d.Main {
			s += x
		}
		total += s
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	return float64(total) / float64(len(draws)), lo, hi, nil
}

// ParityCounts returns how many odd and even numbers of the pool were drawn.
func ParityCounts(draws []model.Draw, p model.Pool) (odd, even int) {
	for _, d := range draws {
		for _, x := range d.Numbers(p) {
			if x%2 == 1 {
				odd++
			} else {
				even++
			}
		}
	}
	return odd, even
}

// DigitalRoot repeatedly sums the decimal digits of n until one digit remains.
func DigitalRoot(n int) int {
	if n <= 0 {
		return 0
	}
	return 1 + (n-1)%9
}

// Summarize computes the dataset overview shown to users.
func Summarize(draws []model.Draw) (model.DatasetStats, error) {
	if len(draws) == 0 {
		return model.DatasetStats{}, ErrInsufficientData
	}
	st := model.DatasetStats{
		Count:     len(draws),
		FirstDate: draws[0].Date,
		LastDate:  draws[len(draws)-1].Date,
	}
	mainFreq := Frequency(draws, model.MainPool)
	bonusFreq := Frequency(draws, model.BonusPool)
	st.HotMain = extremes(mainFreq, model.MainPool, 5, true)
	st.ColdMain = extremes(mainFreq, model.MainPool, 5, false)
	st.HotBonus = extremes(bonusFreq, model.BonusPool, 2, true)
	st.ColdBonus = extremes(bonusFreq, model.BonusPool, 2, false)

	mean, lo, hi, err := SumStats(draws)
	if err != nil {
		return st, err
	}
	st.MeanSum, st.MinSum, st.MaxSum = mean, lo, hi

	odd, even := ParityCounts(draws, model.MainPool)
	if odd+even > 0 {
		st.OddRatio = float64(odd) / float64(odd+even)
	}
	return st, nil
}

func extremes(counts []int, p model.Pool, n int, hottest bool) []model.ScoredCandidate {
	cs := make([]model.ScoredCandidate, len(counts))
	for i, c := range counts {
		cs[i] = model.ScoredCandidate{Number: p.Number(i), Score: float64(c)}
	}
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Score != cs[j].Score {
			if hottest {
				return cs[i].Score > cs[j].Score
			}
			return cs[i].Score < cs[j].Score
		}
		return cs[i].Number < cs[j].Number
	})
	if n > len(cs) {
		n = len(cs)
	}
	return cs[:n]
}
