package strategy

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DrawSentinel/internal/model"
)

// synthHistory returns n weekly draws with uniformly random numbers.
func synthHistory(n int, seed uint64) []model.Draw {
	rng := rand.New(rand.NewPCG(seed, 7))
	start := time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)
	pick := func(p model.Pool) []int {
		perm := rng.Perm(p.Size())[:p.Pick]
		out := make([]int, len(perm))
		for i, idx := range perm {
			out[i] = p.Number(idx)
		}
		return out
	}
	draws := make([]model.Draw, n)
	for i := range draws {
		draws[i] = model.Draw{
			Date:  start.AddDate(0, 0, 7*i),
			Main:  pick(model.MainPool),
			Bonus: pick(model.BonusPool),
		}.Normalize()
	}
	return draws
}

func assertValidPick(t *testing.T, name string, p model.Pool, cs []model.ScoredCandidate) {
	t.Helper()
	if len(cs) != p.Pick {
		t.Fatalf("%s %s: expected %d numbers, got %d", name, p.Name, p.Pick, len(cs))
	}
	seen := make(map[int]bool)
	for _, c := range cs {
		if !p.Contains(c.Number) {
			t.Errorf("%s %s: %d out of range", name, p.Name, c.Number)
		}
		if seen[c.Number] {
			t.Errorf("%s %s: duplicate %d", name, p.Name, c.Number)
		}
		seen[c.Number] = true
	}
}

func TestRegistry_UniqueNames(t *testing.T) {
	reg := Registry()
	if len(reg) < 40 {
		t.Fatalf("expected at least 40 algorithms, got %d", len(reg))
	}
	seen := make(map[string]bool)
	for _, a := range reg {
		if seen[a.Name] {
			t.Errorf("duplicate algorithm name %q", a.Name)
		}
		seen[a.Name] = true
		if a.Score == nil {
			t.Errorf("%s has no score func", a.Name)
		}
	}
	if _, ok := Lookup("markov"); !ok {
		t.Error("markov not found")
	}
	if _, ok := Lookup("astrology"); ok {
		t.Error("unexpected algorithm found")
	}
}

func TestAlgorithms_ValidPicks(t *testing.T) {
	history := synthHistory(120, 1)
	for _, a := range Registry() {
		t.Run(a.Name, func(t *testing.T) {
			res, err := a.Predict(history, 42)
			require.NoError(t, err)
			assert.Equal(t, a.Name, res.Algorithm)
			assertValidPick(t, a.Name, model.MainPool, res.Main)
			assertValidPick(t, a.Name, model.BonusPool, res.Bonus)
		})
	}
}

func TestAlgorithms_Deterministic(t *testing.T) {
	history := synthHistory(80, 2)
	for _, a := range Registry() {
		first, err := a.Predict(history, 7)
		require.NoError(t, err)
		second, err := a.Predict(history, 7)
		require.NoError(t, err)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("%s not deterministic (-first +second):\n%s", a.Name, diff)
		}
	}
}

func TestAlgorithm_InsufficientHistory(t *testing.T) {
	a, ok := Lookup("perceptron")
	require.True(t, ok)
	_, err := a.Predict(synthHistory(a.MinHistory-1, 3), 1)
	assert.True(t, errors.Is(err, ErrInsufficientHistory))

	_, err = a.Predict(nil, 1)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestRank_TieBreakAndNonFinite(t *testing.T) {
	scores := make([]float64, model.BonusPool.Size())
	scores[model.BonusPool.Index(9)] = math.NaN()
	scores[model.BonusPool.Index(11)] = math.Inf(1)
	got := Rank(scores, model.BonusPool)
	want := []model.ScoredCandidate{{Number: 1, Score: 0}, {Number: 2, Score: 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rank mismatch (-want +got):\n%s", diff)
	}

	scores[model.BonusPool.Index(12)] = 3
	got = Rank(scores, model.BonusPool)
	assert.Equal(t, 12, got[0].Number)
	assert.Equal(t, 1, got[1].Number)
}

func TestVote(t *testing.T) {
	tests := []struct {
		name    string
		lists   [][]model.ScoredCandidate
		weights []float64
		want    []int
	}{
		{
			name: "positional",
			lists: [][]model.ScoredCandidate{
				{{Number: 3}, {Number: 5}},
				{{Number: 5}, {Number: 7}},
			},
			want: []int{5, 3},
		},
		{
			name: "ties go to lower number",
			lists: [][]model.ScoredCandidate{
				{{Number: 9}, {Number: 4}},
				{{Number: 4}, {Number: 9}},
			},
			want: []int{4, 9},
		},
		{
			name: "weights",
			lists: [][]model.ScoredCandidate{
				{{Number: 1}, {Number: 2}},
				{{Number: 11}, {Number: 12}},
			},
			weights: []float64{1, 3},
			want:    []int{11, 12},
		},
		{
			name: "missing weight counts as one",
			lists: [][]model.ScoredCandidate{
				{{Number: 6}, {Number: 8}},
				{{Number: 8}, {Number: 10}},
			},
			weights: []float64{0.5},
			want:    []int{8, 6},
		},
		{
			name: "out of range ignored",
			lists: [][]model.ScoredCandidate{
				{{Number: 40}, {Number: 2}},
			},
			want: []int{2, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.CandidateNumbers(Vote(tt.lists, tt.weights, model.BonusPool))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Predict(t *testing.T) {
	history := synthHistory(100, 4)
	e := NewEngine(42, 30)

	pred, err := e.Predict(history)
	require.NoError(t, err)
	assertValidPick(t, "ensemble", model.MainPool, pred.Main)
	assertValidPick(t, "ensemble", model.BonusPool, pred.Bonus)
	assert.Equal(t, len(Registry()), len(pred.Results))
	assert.Empty(t, pred.Skipped)
	assert.False(t, pred.Weighted)
	assert.Equal(t, history[len(history)-1].Date, pred.BasedOn)
	assert.NotEmpty(t, pred.ID)

	again, err := e.Predict(history)
	require.NoError(t, err)
	assert.Equal(t, pred.Main, again.Main)
	assert.Equal(t, pred.Bonus, again.Bonus)
}

func TestEngine_PredictSkipsShortAlgorithms(t *testing.T) {
	e := NewEngine(42, 5)
	pred, err := e.Predict(synthHistory(12, 5))
	require.NoError(t, err)
	assert.Contains(t, pred.Skipped, "perceptron")
	assert.NotContains(t, pred.Skipped, "hot")
	assert.Len(t, pred.Results, len(Registry())-len(pred.Skipped))
}

func TestEngine_PredictInsufficientHistory(t *testing.T) {
	e := NewEngine(42, 30)
	_, err := e.Predict(synthHistory(10, 6))
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestEngine_PredictWeighted(t *testing.T) {
	history := synthHistory(60, 8)
	only := func(name string) []Algorithm {
		a, _ := Lookup(name)
		return []Algorithm{a}
	}
	hot := &Engine{Algorithms: append(only("hot"), only("cold")...), MinHistory: 1,
		Weights: map[string]float64{"hot": 100, "cold": 0}}
	pred, err := hot.Predict(history)
	require.NoError(t, err)
	assert.True(t, pred.Weighted)

	res, err := only("hot")[0].Predict(history, 0)
	require.NoError(t, err)
	assert.Equal(t, model.CandidateNumbers(res.Main), model.CandidateNumbers(pred.Main))
}

func TestEngine_Backtest(t *testing.T) {
	history := synthHistory(70, 9)
	e := NewEngine(42, 30)

	report, err := e.Backtest(context.Background(), history, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, report.Tests)
	require.Len(t, report.Rows, len(e.Algorithms))
	for i, row := range report.Rows {
		assert.Equal(t, e.Algorithms[i].Name, row.Algorithm)
		if row.Tests > 0 {
			sum := 0
			for _, c := range row.MainDist {
				sum += c
			}
			assert.Equal(t, row.Tests, sum, row.Algorithm)
		}
	}
	assert.Equal(t, 8, report.Ensemble.Tests)
	assert.InDelta(t, 0.5, report.BaselineMain, 1e-9)
	assert.InDelta(t, 1.0/3, report.BaselineBonus, 1e-9)
}

func TestEngine_BacktestWindowBoundedByHistory(t *testing.T) {
	e := NewEngine(42, 30)
	e.Algorithms = e.Algorithms[:3]
	report, err := e.Backtest(context.Background(), synthHistory(40, 10), 500)
	require.NoError(t, err)
	assert.Equal(t, 10, report.Tests)

	_, err = e.Backtest(context.Background(), synthHistory(30, 10), 5)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestEngine_BacktestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine(42, 30).Backtest(ctx, synthHistory(60, 11), 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWeightsFromReport(t *testing.T) {
	report := &model.BacktestReport{
		BaselineMain:  0.5,
		BaselineBonus: 0.5,
		Rows: []model.AlgorithmStats{
			{Algorithm: "a", Tests: 10, AvgMain: 1.0, AvgBonus: 0.5},
			{Algorithm: "b", Tests: 10, AvgMain: 0.5, AvgBonus: 0},
			{Algorithm: "c"},
		},
	}
	w := WeightsFromReport(report)
	// raw weights 3, 1, 1 with mean 5/3
	assert.InDelta(t, 1.8, w["a"], 1e-9)
	assert.InDelta(t, 0.6, w["b"], 1e-9)
	assert.InDelta(t, 0.6, w["c"], 1e-9)

	mean := (w["a"] + w["b"] + w["c"]) / 3
	assert.InDelta(t, 1.0, mean, 1e-9)
}

func TestNextDrawDate(t *testing.T) {
	history := synthHistory(5, 12)
	want := history[4].Date.AddDate(0, 0, 7)
	if got := NextDrawDate(history); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := NextDrawDate(history[:1]); !got.Equal(history[0].Date.AddDate(0, 0, 7)) {
		t.Errorf("single draw: got %v", got)
	}
}
