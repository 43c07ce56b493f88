package calculator

import "DrawSentinel/internal/model"

// PairCounts returns a symmetric matrix of how often two numbers were drawn together.
func PairCounts(draws []model.Draw, p model.Pool) [][]int {
	m := newMatrix(p.Size())
	for _, d := range draws {
		nums := d.Numbers(p)
		for i := 0; i < len(nums); i++ {
			for j := i + 1; j < len(nums); j++ {
				a, b := nums[i], nums[j]
				if !p.Contains(a) || !p.Contains(b) {
					continue
				}
				m[p.Index(a)][p.Index(b)]++
				m[p.Index(b)][p.Index(a)]++
			}
		}
	}
	return m
}

// Transitions counts, for every pair (a, b), how often b was drawn in the
// draw immediately after one containing a.
func Transitions(draws []model.Draw, p model.Pool) [][]int {
	m := newMatrix(p.Size())
	for i := 1; i < len(draws); i++ {
		for _, a := range draws[i-1].Numbers(p) {
			for _, b := range draws[i].Numbers(p) {
				if p.Contains(a) && p.Contains(b) {
					m[p.Index(a)][p.Index(b)]++
				}
			}
		}
	}
	return m
}

func newMatrix(n int) [][]int {
	m := make([][]int, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	return m
}
