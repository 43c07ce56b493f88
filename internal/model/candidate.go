package model

// ScoredCandidate is a number under consideration with its score.
type ScoredCandidate struct {
	Number int     `json:"number"`
	Score  float64 `json:"score"`
}

// CandidateNumbers extracts the bare numbers from a ranked list.
func CandidateNumbers(cs []ScoredCandidate) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.Number
	}
	return out
}
