package strategy

import (
	"math"
	"math/rand/v2"
	"sort"

	"DrawSentinel/internal/calculator"
	"DrawSentinel/internal/model"
)

// The "model" family borrows machine-learning names for small deterministic
// (or seeded) heuristics. None of them has predictive power on IID draws.
func modelAlgorithms() []Algorithm {
	return []Algorithm{
		{Name: "markov", Family: FamilyModel, MinHistory: 10, Score: scoreMarkov},
		{Name: "naive-bayes", Family: FamilyModel, MinHistory: 10, Score: scoreNaiveBayes},
		{Name: "knn", Family: FamilyModel, MinHistory: 20, Score: scoreKNN},
		{Name: "ma-cross", Family: FamilyModel, MinHistory: 20, Score: scoreMACross},
		{Name: "rsi-reversal", Family: FamilyModel, MinHistory: 15, Score: scoreRSIReversal},
		{Name: "regression-slope", Family: FamilyModel, MinHistory: 30, Score: scoreRegressionSlope},
		{Name: "perceptron", Family: FamilyModel, MinHistory: 50, Score: scorePerceptron},
		{Name: "monte-carlo", Family: FamilyModel, MinHistory: 1, Randomized: true, Score: scoreMonteCarlo},
		{Name: "genetic", Family: FamilyModel, MinHistory: 10, Randomized: true, Score: scoreGenetic},
	}
}

// scoreMarkov sums first-order transition probabilities from the latest draw.
func scoreMarkov(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	tr := calculator.Transitions(history, p)
	freq := calculator.Frequency(history[:len(history)-1], p)
	scores := make([]float64, p.Size())
	for _, m := range lastDraw(history).Numbers(p) {
		if !p.Contains(m) {
			continue
		}
		from := p.Index(m)
		if freq[from] == 0 {
			continue
		}
		for i := range scores {
			scores[i] += float64(tr[from][i]) / float64(freq[from])
		}
	}
	return nudge(scores, history, p)
}

// scoreNaiveBayes treats the latest draw's numbers as independent evidence
// for each candidate, with Laplace smoothing.
func scoreNaiveBayes(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	tr := calculator.Transitions(history, p)
	next := calculator.Frequency(history[1:], p)
	total := float64(len(history) - 1)
	scores := make([]float64, p.Size())
	for i := range scores {
		logp := math.Log((float64(next[i]) + 1) / (total + 2))
		for _, m := range lastDraw(history).Numbers(p) {
			if !p.Contains(m) {
				continue
			}
			logp += math.Log((float64(tr[p.Index(m)][i]) + 1) / (float64(next[i]) + 2))
		}
		scores[i] = logp
	}
	return scores
}

// scoreKNN finds the past draws most similar to the latest one and votes for
// whatever followed them.
func scoreKNN(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	const k = 10
	last := lastDraw(history)
	type neighbour struct {
		idx     int
		overlap int
	}
	var ns []neighbour
	for i := 0; i < len(history)-1; i++ {
		ns = append(ns, neighbour{idx: i, overlap: last.Hits(p, history[i].Numbers(p))})
	}
	sort.SliceStable(ns, func(a, b int) bool {
		if ns[a].overlap != ns[b].overlap {
			return ns[a].overlap > ns[b].overlap
		}
		return ns[a].idx > ns[b].idx
	})
	scores := make([]float64, p.Size())
	for _, n := range ns[:min(k, len(ns))] {
		for _, x := range history[n.idx+1].Numbers(p) {
			if p.Contains(x) {
				scores[p.Index(x)] += 1 + float64(n.overlap)
			}
		}
	}
	return nudge(scores, history, p)
}

// scoreMACross compares a 5-draw against a 20-draw moving average of appearances.
func scoreMACross(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	scores := make([]float64, p.Size())
	for i := range scores {
		series := calculator.AppearanceSeries(history, p, p.Number(i), 20)
		fast, err1 := calculator.CalculateSMA(series, 5)
		slow, err2 := calculator.CalculateSMA(series, 20)
		if err1 != nil || err2 != nil {
			continue
		}
		scores[i] = fast - slow
	}
	return nudge(scores, history, p)
}

// scoreRSIReversal treats a low appearance RSI as oversold, i.e. due.
func scoreRSIReversal(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	scores := make([]float64, p.Size())
	for i := range scores {
		series := calculator.AppearanceSeries(history, p, p.Number(i), 60)
		rsi, err := calculator.CalculateRSI(series, 14)
		if err != nil {
			continue
		}
		scores[i] = 100 - rsi
	}
	return nudge(scores, history, p)
}

// scoreRegressionSlope fits a least-squares line to the cumulative
// appearance count of the last 30 draws.
func scoreRegressionSlope(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	scores := make([]float64, p.Size())
	for i := range scores {
		scores[i] = slope(calculator.CumulativeSeries(history, p, p.Number(i), 30))
	}
	return nudge(scores, history, p)
}

func slope(ys []float64) float64 {
	n := float64(len(ys))
	if n < 2 {
		return 0
	}
	var sx, sy, sxy, sxx float64
	for i, y := range ys {
		x := float64(i)
		sx += x
		sy += y
		sxy += x * y
		sxx += x * x
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}

// perceptronInputs describes every pool number just before draw t.
func perceptronInputs(history []model.Draw, p model.Pool, t int) [][4]float64 {
	past := history[:t]
	recent := calculator.FrequencyLast(past, p, 10)
	gaps := calculator.CurrentGaps(past, p)
	freq := calculator.Frequency(past, p)
	out := make([][4]float64, p.Size())
	for idx := range out {
		out[idx] = [4]float64{
			1,
			float64(recent[idx]) / 10,
			float64(gaps[idx]) / float64(len(past)),
			float64(freq[idx]) / float64(len(past)),
		}
	}
	return out
}

// scorePerceptron trains a single-layer perceptron on the last 40 draws with
// recent rate, gap and long-run rate as inputs.
func scorePerceptron(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	const (
		trainDraws = 40
		epochs     = 5
		lr         = 0.1
	)
	type sample struct {
		x [4]float64
		y float64
	}
	var samples []sample
	for t := max(10, len(history)-trainDraws); t < len(history); t++ {
		drawn := indicator(p, history[t].Numbers(p)...)
		for idx, x := range perceptronInputs(history, p, t) {
			samples = append(samples, sample{x: x, y: drawn[idx]})
		}
	}

	var w [4]float64
	for e := 0; e < epochs; e++ {
		for _, s := range samples {
			out := sigmoid(dot(w, s.x))
			for j := range w {
				w[j] += lr * (s.y - out) * s.x[j]
			}
		}
	}
	scores := make([]float64, p.Size())
	for idx, x := range perceptronInputs(history, p, len(history)) {
		scores[idx] = dot(w, x)
	}
	return scores
}

func dot(a, b [4]float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// scoreMonteCarlo simulates frequency-weighted tickets and counts selections.
func scoreMonteCarlo(history []model.Draw, p model.Pool, rng *rand.Rand) []float64 {
	const simulations = 500
	weights := toFloats(calculator.Frequency(history, p))
	for i := range weights {
		weights[i]++
	}
	scores := make([]float64, p.Size())
	for s := 0; s < simulations; s++ {
		for _, idx := range weightedSample(rng, weights, p.Pick) {
			scores[idx]++
		}
	}
	return scores
}

// weightedSample draws k distinct indices with probability proportional to weight.
func weightedSample(rng *rand.Rand, weights []float64, k int) []int {
	w := append([]float64(nil), weights...)
	out := make([]int, 0, k)
	for len(out) < k {
		total := 0.0
		for _, x := range w {
			total += x
		}
		if total <= 0 {
			break
		}
		r := rng.Float64() * total
		chosen := len(w) - 1
		for i, x := range w {
			if r < x {
				chosen = i
				break
			}
			r -= x
		}
		if w[chosen] == 0 {
			continue
		}
		out = append(out, chosen)
		w[chosen] = 0
	}
	return out
}

// scoreGenetic evolves tickets toward high frequency and pair co-occurrence,
// then counts how often each number survives in the final population.
func scoreGenetic(history []model.Draw, p model.Pool, rng *rand.Rand) []float64 {
	const (
		population  = 30
		generations = 25
		mutation    = 0.2
	)
	freq := calculator.Frequency(history, p)
	pairs := calculator.PairCounts(history, p)
	fitness := func(t []int) float64 {
		f := 0.0
		for i, a := range t {
			f += float64(freq[a])
			for _, b := range t[i+1:] {
				f += float64(pairs[a][b]) * 0.5
			}
		}
		return f
	}
	uniform := make([]float64, p.Size())
	for i := range uniform {
		uniform[i] = 1
	}

	pop := make([][]int, population)
	for i := range pop {
		pop[i] = weightedSample(rng, uniform, p.Pick)
	}
	tournament := func() []int {
		a, b := pop[rng.IntN(population)], pop[rng.IntN(population)]
		if fitness(a) >= fitness(b) {
			return a
		}
		return b
	}
	for g := 0; g < generations; g++ {
		next := make([][]int, population)
		for i := range next {
			child := crossover(rng, tournament(), tournament(), p.Size(), p.Pick)
			if rng.Float64() < mutation {
				mutate(rng, child, p.Size())
			}
			next[i] = child
		}
		pop = next
	}

	sort.SliceStable(pop, func(i, j int) bool { return fitness(pop[i]) > fitness(pop[j]) })
	scores := make([]float64, p.Size())
	for rank, t := range pop {
		for _, idx := range t {
			scores[idx] += float64(population - rank)
		}
	}
	return scores
}

// crossover picks k distinct indices from the union of two parents, topping up at random.
func crossover(rng *rand.Rand, a, b []int, size, k int) []int {
	genes := append(append([]int(nil), a...), b...)
	rng.Shuffle(len(genes), func(i, j int) { genes[i], genes[j] = genes[j], genes[i] })
	seen := make(map[int]bool, k)
	child := make([]int, 0, k)
	for _, g := range genes {
		if len(child) == k {
			break
		}
		if !seen[g] {
			seen[g] = true
			child = append(child, g)
		}
	}
	for len(child) < k {
		g := rng.IntN(size)
		if !seen[g] {
			seen[g] = true
			child = append(child, g)
		}
	}
	return child
}

func mutate(rng *rand.Rand, t []int, size int) {
	pos := rng.IntN(len(t))
	for {
		g := rng.IntN(size)
		dup := false
		for _, x := range t {
			if x == g {
				dup = true
				break
			}
		}
		if !dup {
			t[pos] = g
			return
		}
	}
}
