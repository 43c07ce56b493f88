package calculator

import "DrawSentinel/internal/model"

// CurrentGaps returns, per number, how many draws have passed since it last
// appeared. A number never seen gets len(draws).
func CurrentGaps(draws []model.Draw, p model.Pool) []int {
	gaps := make([]int, p.Size())
	for i := range gaps {
		gaps[i] = len(draws)
	}
	for i := len(draws) - 1; i >= 0; i-- {
		age := len(draws) - 1 - i
		for _, x := range draws[i].Numbers(p) {
			if p.Contains(x) && gaps[p.Index(x)] == len(draws) {
				gaps[p.Index(x)] = age
			}
		}
	}
	return gaps
}

// AverageGaps returns the mean interval between consecutive appearances of
// each number. Numbers seen fewer than twice get len(draws).
func AverageGaps(draws []model.Draw, p model.Pool) []float64 {
	lastSeen := make([]int, p.Size())
	sum := make([]int, p.Size())
	intervals := make([]int, p.Size())
	for i := range lastSeen {
		lastSeen[i] = -1
	}
	for i, d := range draws {
		for _, x := range d.Numbers(p) {
			if !p.Contains(x) {
				continue
			}
			idx := p.Index(x)
			if lastSeen[idx] >= 0 {
				sum[idx] += i - lastSeen[idx]
				intervals[idx]++
			}
			lastSeen[idx] = i
		}
	}
	out := make([]float64, p.Size())
	for i := range out {
		if intervals[i] == 0 {
			out[i] = float64(len(draws))
			continue
		}
		out[i] = float64(sum[i]) / float64(intervals[i])
	}
	return out
}
