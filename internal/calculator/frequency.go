package calculator

import (
	"errors"
	"math"

	"DrawSentinel/internal/model"
)

// ErrInsufficientData is returned when the history is too short for a calculation.
var ErrInsufficientData = errors.New("not enough draws for calculation")

// Frequency counts appearances of every pool number over the whole history.
func Frequency(draws []model.Draw, p model.Pool) []int {
	return FrequencyLast(draws, p, 0)
}

// FrequencyLast counts appearances over the most recent n draws (n <= 0 means all).
func FrequencyLast(draws []model.Draw, p model.Pool, n int) []int {
	counts := make([]int, p.Size())
	for _, d := range tail(draws, n) {
		for _, x := range d.Numbers(p) {
			if p.Contains(x) {
				counts[p.Index(x)]++
			}
		}
	}
	return counts
}

// DecayedFrequency weights each appearance by 0.5^(age/halfLife), age 0 being the latest draw.
func DecayedFrequency(draws []model.Draw, p model.Pool, halfLife float64) []float64 {
	scores := make([]float64, p.Size())
	if halfLife <= 0 {
		return scores
	}
	last := len(draws) - 1
	for i, d := range draws {
		w := math.Pow(0.5, float64(last-i)/halfLife)
		for _, x := range d.Numbers(p) {
			if p.Contains(x) {
				scores[p.Index(x)] += w
			}
		}
	}
	return scores
}

// Rates converts counts to per-draw appearance rates.
func Rates(counts []int, draws int) []float64 {
	out := make([]float64, len(counts))
	if draws == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = float64(c) / float64(draws)
	}
	return out
}
