package collector

import (
	"context"
	"math/rand/v2"
	"time"

	"DrawSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Draws []model.Draw
	Count int
	Seed  uint64
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDraws(_ context.Context) ([]model.Draw, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Draws != nil {
		return m.Draws, nil
	}
	return GenerateDraws(m.Count, m.Seed), nil
}

// GenerateDraws returns count uniformly random draws on a Tuesday/Friday
// calendar. The same seed always yields the same history.
func GenerateDraws(count int, seed uint64) []model.Draw {
	rng := rand.New(rand.NewPCG(seed, 0x5eed))
	pick := func(p model.Pool) []int {
		perm := rng.Perm(p.Size())[:p.Pick]
		out := make([]int, len(perm))
		for i, idx := range perm {
			out[i] = p.Number(idx)
		}
		return out
	}
	date := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	draws := make([]model.Draw, count)
	for i := range draws {
		draws[i] = model.Draw{Date: date, Main: pick(model.MainPool), Bonus: pick(model.BonusPool)}.Normalize()
		if date.Weekday() == time.Tuesday {
			date = date.AddDate(0, 0, 3)
		} else {
			date = date.AddDate(0, 0, 4)
		}
	}
	return draws
}
