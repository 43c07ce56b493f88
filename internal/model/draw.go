package model

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrInvalidDraw is returned when a draw violates pool constraints.
var ErrInvalidDraw = errors.New("invalid draw")

// Pool describes one set of numbers drawn per game.
type Pool struct {
	Name string
	Min  int
	Max  int
	Pick int
}

var (
	MainPool  = Pool{Name: "main", Min: 1, Max: 50, Pick: 5}
	BonusPool = Pool{Name: "bonus", Min: 1, Max: 12, Pick: 2}
)

// Size returns how many numbers the pool contains.
func (p Pool) Size() int { return p.Max - p.Min + 1 }

// Contains reports whether n lies within the pool range.
func (p Pool) Contains(n int) bool { return n >= p.Min && n <= p.Max }

// Index maps a number to its slot in a per-number score slice.
func (p Pool) Index(n int) int { return n - p.Min }

// Number is the inverse of Index.
func (p Pool) Number(i int) int { return i + p.Min }

// Baseline is the expected number of hits for a uniformly random pick.
func (p Pool) Baseline() float64 {
	return float64(p.Pick*p.Pick) / float64(p.Size())
}

// Draw is a single historical result.
type Draw struct {
	Date  time.Time `json:"date"`
	Main  []int     `json:"main"`
	Bonus []int     `json:"bonus"`
}

// Numbers returns the draw's numbers for the given pool.
func (d Draw) Numbers(p Pool) []int {
	if p.Name == BonusPool.Name {
		return d.Bonus
	}
	return d.Main
}

// Normalize returns a copy with both number sets sorted ascending.
func (d Draw) Normalize() Draw {
	out := Draw{Date: d.Date, Main: slices.Clone(d.Main), Bonus: slices.Clone(d.Bonus)}
	slices.Sort(out.Main)
	slices.Sort(out.Bonus)
	return out
}

// Validate checks counts, ranges and distinctness for both pools.
func (d Draw) Validate() error {
	if d.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidDraw)
	}
	if err := validateSet(d.Main, MainPool); err != nil {
		return err
	}
	return validateSet(d.Bonus, BonusPool)
}

func validateSet(nums []int, p Pool) error {
	if len(nums) != p.Pick {
		return fmt.Errorf("%w: %s has %d numbers, want %d", ErrInvalidDraw, p.Name, len(nums), p.Pick)
	}
	seen := make(map[int]bool, len(nums))
	for _, n := range nums {
		if !p.Contains(n) {
			return fmt.Errorf("%w: %s number %d out of range [%d,%d]", ErrInvalidDraw, p.Name, n, p.Min, p.Max)
		}
		if seen[n] {
			return fmt.Errorf("%w: %s number %d repeated", ErrInvalidDraw, p.Name, n)
		}
		seen[n] = true
	}
	return nil
}

// Hits counts how many of picked appear in the draw for the pool.
func (d Draw) Hits(p Pool, picked []int) int {
	nums := d.Numbers(p)
	hits := 0
	for _, n := range picked {
		if slices.Contains(nums, n) {
			hits++
		}
	}
	return hits
}
