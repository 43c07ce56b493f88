package strategy

import (
	"math"
	"math/rand/v2"
	"slices"
	"strconv"

	"DrawSentinel/internal/calculator"
	"DrawSentinel/internal/model"
)

func patternAlgorithms() []Algorithm {
	return []Algorithm{
		{Name: "repeat-last", Family: FamilyPattern, MinHistory: 1, Score: scoreRepeatLast},
		{Name: "neighbors", Family: FamilyPattern, MinHistory: 1, Score: scoreNeighbors},
		{Name: "pair-affinity", Family: FamilyPattern, MinHistory: 10, Score: scorePairAffinity},
		{Name: "pair-strength", Family: FamilyPattern, MinHistory: 10, Score: scorePairStrength},
		{Name: "decade-balance", Family: FamilyPattern, MinHistory: 10, Score: scoreDecadeBalance},
		{Name: "parity-balance", Family: FamilyPattern, MinHistory: 10, Score: scoreParityBalance},
		{Name: "high-low-balance", Family: FamilyPattern, MinHistory: 10, Score: scoreHighLowBalance},
		{Name: "sum-target", Family: FamilyPattern, MinHistory: 5, Score: scoreSumTarget},
		{Name: "center-mass", Family: FamilyPattern, MinHistory: 10, Score: scoreCenterMass},
		{Name: "last-digit", Family: FamilyPattern, MinHistory: 5, Score: scoreLastDigit},
		{Name: "position-frequency", Family: FamilyPattern, MinHistory: 10, Score: scorePositionFrequency},
		{Name: "mirror", Family: FamilyPattern, MinHistory: 1, Score: scoreMirror},
		{Name: "complement", Family: FamilyPattern, MinHistory: 1, Score: scoreComplement},
		{Name: "delta", Family: FamilyPattern, MinHistory: 10, Score: scoreDelta},
	}
}

// scoreRepeatLast suggests the numbers from the latest draw again.
func scoreRepeatLast(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	return nudge(indicator(p, lastDraw(history).Numbers(p)...), history, p)
}

// scoreNeighbors favours numbers adjacent to the latest draw.
func scoreNeighbors(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	scores := make([]float64, p.Size())
	for _, n := range lastDraw(history).Numbers(p) {
		for _, m := range []int{n - 1, n + 1} {
			if p.Contains(m) {
				scores[p.Index(m)]++
			}
		}
	}
	return nudge(scores, history, p)
}

// scorePairAffinity sums how often each number was drawn alongside the latest draw's numbers.
func scorePairAffinity(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	pairs := calculator.PairCounts(history, p)
	scores := make([]float64, p.Size())
	for _, m := range lastDraw(history).Numbers(p) {
		if !p.Contains(m) {
			continue
		}
		for i := range scores {
			scores[i] += float64(pairs[p.Index(m)][i])
		}
	}
	return nudge(scores, history, p)
}

// scorePairStrength scores each number by its strongest single partner.
func scorePairStrength(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	pairs := calculator.PairCounts(history, p)
	scores := make([]float64, p.Size())
	for i, row := range pairs {
		scores[i] = float64(slices.Max(row))
	}
	return nudge(scores, history, p)
}

func bucketWidth(p model.Pool) int {
	if p.Size() <= 12 {
		return 3
	}
	return 10
}

// scoreDecadeBalance favours buckets under-represented in the last 10 draws.
func scoreDecadeBalance(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	const window = 10
	width := bucketWidth(p)
	buckets := (p.Size() + width - 1) / width
	observed := make([]float64, buckets)
	recent := calculator.FrequencyLast(history, p, window)
	for i, c := range recent {
		observed[i/width] += float64(c)
	}
	draws := min(window, len(history))
	scores := make([]float64, p.Size())
	for i := range scores {
		b := i / width
		size := min(width, p.Size()-b*width)
		expected := float64(draws*p.Pick*size) / float64(p.Size())
		scores[i] = expected - observed[b]
	}
	return nudge(scores, history, p)
}

// scoreParityBalance favours the parity drawn less often over the last 10 draws.
func scoreParityBalance(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	recent := history[max(0, len(history)-10):]
	odd, even := calculator.ParityCounts(recent, p)
	wantOdd := odd < even
	scores := make([]float64, p.Size())
	for i := range scores {
		if (p.Number(i)%2 == 1) == wantOdd {
			scores[i] = 1
		}
	}
	return nudge(scores, history, p)
}

// scoreHighLowBalance favours the half of the pool drawn less often recently.
func scoreHighLowBalance(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	recent := calculator.FrequencyLast(history, p, 10)
	half := p.Size() / 2
	low, high := 0, 0
	for i, c := range recent {
		if i < half {
			low += c
		} else {
			high += c
		}
	}
	scores := make([]float64, p.Size())
	for i := range scores {
		if (i < half) == (low < high) {
			scores[i] = 1
		}
	}
	return nudge(scores, history, p)
}

// scoreSumTarget favours numbers near the historical mean sum divided evenly across picks.
func scoreSumTarget(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	total := 0
	for _, d := range history {
		for _, n := range d.Numbers(p) {
			total += n
		}
	}
	target := float64(total) / float64(len(history)*p.Pick)
	scores := make([]float64, p.Size())
	for i := range scores {
		scores[i] = -math.Abs(float64(p.Number(i)) - target)
	}
	return nudge(scores, history, p)
}

// scoreCenterMass is a gaussian around the mean number of the last 10 draws.
func scoreCenterMass(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	recent := history[max(0, len(history)-10):]
	var nums []float64
	for _, d := range recent {
		for _, n := range d.Numbers(p) {
			nums = append(nums, float64(n))
		}
	}
	mean, sd := meanStd(nums)
	if sd == 0 {
		sd = 1
	}
	scores := make([]float64, p.Size())
	for i := range scores {
		z := (float64(p.Number(i)) - mean) / sd
		scores[i] = math.Exp(-z * z / 2)
	}
	return scores
}

// scoreLastDigit favours numbers whose final digit is drawn most.
func scoreLastDigit(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	var digits [10]int
	for _, d := range history {
		for _, n := range d.Numbers(p) {
			digits[n%10]++
		}
	}
	scores := make([]float64, p.Size())
	for i := range scores {
		scores[i] = float64(digits[p.Number(i)%10])
	}
	return nudge(scores, history, p)
}

// scorePositionFrequency uses how often a number occupies any sorted slot.
func scorePositionFrequency(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	counts := make([][]int, p.Pick)
	for i := range counts {
		counts[i] = make([]int, p.Size())
	}
	for _, d := range history {
		nums := slices.Sorted(slices.Values(d.Numbers(p)))
		for pos, n := range nums {
			if pos < p.Pick && p.Contains(n) {
				counts[pos][p.Index(n)]++
			}
		}
	}
	scores := make([]float64, p.Size())
	for i := range scores {
		best := 0
		for pos := range counts {
			best = max(best, counts[pos][i])
		}
		scores[i] = float64(best)
	}
	return nudge(scores, history, p)
}

func mirrorOf(n int) int {
	s := []byte(strconv.Itoa(n))
	if len(s) == 1 {
		return n * 10
	}
	slices.Reverse(s)
	m, _ := strconv.Atoi(string(s))
	return m
}

// scoreMirror suggests the digit-reversed forms of the latest numbers.
func scoreMirror(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	scores := make([]float64, p.Size())
	for _, n := range lastDraw(history).Numbers(p) {
		if m := mirrorOf(n); m != n && p.Contains(m) {
			scores[p.Index(m)]++
		}
	}
	return nudge(scores, history, p)
}

// scoreComplement reflects the latest numbers around the pool centre.
func scoreComplement(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	scores := make([]float64, p.Size())
	for _, n := range lastDraw(history).Numbers(p) {
		if c := p.Min + p.Max - n; p.Contains(c) {
			scores[p.Index(c)]++
		}
	}
	return nudge(scores, history, p)
}

// scoreDelta applies the most common gaps between sorted numbers to the latest draw.
func scoreDelta(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	deltas := make([]int, p.Size())
	for _, d := range history {
		nums := slices.Sorted(slices.Values(d.Numbers(p)))
		for i := 1; i < len(nums); i++ {
			if dd := nums[i] - nums[i-1]; dd > 0 && dd < len(deltas) {
				deltas[dd]++
			}
		}
	}
	last := lastDraw(history).Numbers(p)
	scores := make([]float64, p.Size())
	for i := range scores {
		n := p.Number(i)
		for _, m := range last {
			if dd := n - m; dd > 0 && dd < len(deltas) {
				scores[i] += float64(deltas[dd])
			} else if dd < 0 && -dd < len(deltas) {
				scores[i] += float64(deltas[-dd])
			}
		}
	}
	return nudge(scores, history, p)
}

func meanStd(xs []float64) (mean, sd float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		sd += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sd / float64(len(xs)))
}
