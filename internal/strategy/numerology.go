package strategy

import (
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"DrawSentinel/internal/calculator"
	"DrawSentinel/internal/model"
)

var phi = (1 + math.Sqrt(5)) / 2

func numerologyAlgorithms() []Algorithm {
	return []Algorithm{
		{Name: "digital-root", Family: FamilyNumerology, MinHistory: 5, Score: scoreDigitalRoot},
		{Name: "date-numerology", Family: FamilyNumerology, MinHistory: 3, Score: scoreDateNumerology},
		{Name: "fibonacci", Family: FamilyNumerology, MinHistory: 1, Score: scoreFibonacci},
		{Name: "prime", Family: FamilyNumerology, MinHistory: 1, Score: scorePrime},
		{Name: "golden-ratio", Family: FamilyNumerology, MinHistory: 1, Score: scoreGoldenRatio},
		{Name: "lucky-seven", Family: FamilyNumerology, MinHistory: 1, Score: scoreLuckySeven},
	}
}

// scoreDigitalRoot favours numbers sharing the most common digital root.
func scoreDigitalRoot(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	var roots [10]int
	for _, d := range history {
		for _, n := range d.Numbers(p) {
			roots[calculator.DigitalRoot(n)]++
		}
	}
	scores := make([]float64, p.Size())
	for i := range scores {
		scores[i] = float64(roots[calculator.DigitalRoot(p.Number(i))])
	}
	return nudge(scores, history, p)
}

// NextDrawDate estimates the next draw date from the median spacing of the last draws.
func NextDrawDate(history []model.Draw) time.Time {
	last := lastDraw(history).Date
	var spacings []time.Duration
	for i := max(1, len(history)-10); i < len(history); i++ {
		if d := history[i].Date.Sub(history[i-1].Date); d > 0 {
			spacings = append(spacings, d)
		}
	}
	if len(spacings) == 0 {
		return last.AddDate(0, 0, 7)
	}
	sort.Slice(spacings, func(i, j int) bool { return spacings[i] < spacings[j] })
	return last.Add(spacings[len(spacings)/2])
}

// scoreDateNumerology derives numbers from the day, month and year of the next draw.
func scoreDateNumerology(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	next := NextDrawDate(history)
	day, month, year := next.Day(), int(next.Month()), next.Year()
	yearDigits := 0
	for y := year; y > 0; y /= 10 {
		yearDigits += y % 10
	}
	seeds := []int{day, month, day + month, yearDigits, day * month, year % 100, day + month + yearDigits}
	scores := make([]float64, p.Size())
	for _, s := range seeds {
		n := wrap(s, p)
		scores[p.Index(n)]++
	}
	return nudge(scores, history, p)
}

func wrap(x int, p model.Pool) int {
	if x < 0 {
		x = -x
	}
	return p.Min + (x+p.Size()-p.Min)%p.Size()
}

// scoreFibonacci favours Fibonacci numbers, ordered among themselves by frequency.
func scoreFibonacci(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	var fibs []int
	for a, b := 1, 2; a <= p.Max; a, b = b, a+b {
		fibs = append(fibs, a)
	}
	return nudge(indicator(p, fibs...), history, p)
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// scorePrime favours prime numbers.
func scorePrime(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	scores := make([]float64, p.Size())
	for i := range scores {
		if isPrime(p.Number(i)) {
			scores[i] = 1
		}
	}
	return nudge(scores, history, p)
}

// scoreGoldenRatio favours numbers whose golden-ratio phase is closest to
// the phase of the upcoming draw index.
func scoreGoldenRatio(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	_, target := math.Modf(float64(len(history)+1) * phi)
	scores := make([]float64, p.Size())
	for i := range scores {
		_, frac := math.Modf(float64(p.Number(i)) * phi)
		d := math.Abs(frac - target)
		scores[i] = -math.Min(d, 1-d)
	}
	return scores
}

func hasDigitSeven(n int) bool {
	for ; n > 0; n /= 10 {
		if n%10 == 7 {
			return true
		}
	}
	return false
}

// scoreLuckySeven favours multiples of seven and numbers containing a seven.
func scoreLuckySeven(history []model.Draw, p model.Pool, _ *rand.Rand) []float64 {
	scores := make([]float64, p.Size())
	for i := range scores {
		n := p.Number(i)
		if n%7 == 0 {
			scores[i]++
		}
		if hasDigitSeven(n) {
			scores[i]++
		}
	}
	return nudge(scores, history, p)
}
