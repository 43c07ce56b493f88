package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DrawSentinel/internal/model"
)

func cands(nums ...int) []model.ScoredCandidate {
	out := make([]model.ScoredCandidate, len(nums))
	for i, n := range nums {
		out[i] = model.ScoredCandidate{Number: n, Score: float64(len(nums) - i)}
	}
	return out
}

func sampleReport() *model.BacktestReport {
	return &model.BacktestReport{
		ID:            "run-1",
		RunAt:         time.Date(2025, 3, 4, 21, 0, 0, 0, time.UTC),
		Window:        20,
		Tests:         20,
		BaselineMain:  0.5,
		BaselineBonus: 1.0 / 3,
		Rows: []model.AlgorithmStats{
			{Algorithm: "cold", Family: "frequency", Tests: 20, AvgMain: 0.40, Lift: 0.8},
			{Algorithm: "hot", Family: "frequency", Tests: 20, AvgMain: 0.65, AvgBonus: 0.3, BestMain: 2, Lift: 1.3},
		},
		Ensemble: model.AlgorithmStats{Algorithm: "ensemble", Family: "vote", Tests: 20, AvgMain: 0.5, Lift: 1},
	}
}

func TestPrediction(t *testing.T) {
	p := &model.Prediction{
		BasedOn:     time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		HistorySize: 1250,
		Main:        cands(3, 17, 22, 38, 49),
		Bonus:       cands(2, 11),
		Results: []model.AlgorithmResult{
			{Algorithm: "hot", Family: "frequency", Main: cands(3, 17, 22, 38, 49), Bonus: cands(2, 11)},
		},
		Skipped: []string{"perceptron"},
	}
	out := Prediction(p)
	assert.Contains(t, out, "Tue 2025-03-04")
	assert.Contains(t, out, "1,250 draws")
	assert.Contains(t, out, "unweighted vote")
	assert.Contains(t, out, "03 17 22 38 49")
	assert.Contains(t, out, "perceptron")
	assert.Contains(t, out, "random")
}

func TestBacktest_SortedBestFirst(t *testing.T) {
	out := Backtest(sampleReport())
	hot := strings.Index(out, "hot")
	cold := strings.Index(out, "cold")
	require.True(t, hot >= 0 && cold >= 0)
	assert.Less(t, hot, cold)
	assert.Contains(t, out, "1st")
	assert.Contains(t, out, "ensemble")
	assert.Contains(t, out, "0.500 main")
}

func TestBacktestMarkdown(t *testing.T) {
	md := BacktestMarkdown(sampleReport())
	assert.True(t, strings.HasPrefix(md, "# Backtest: last 20 draws"))
	assert.Contains(t, md, "| hot | frequency | 20 | 0.650 |")
	assert.Contains(t, md, "**ensemble**")

	out, err := RenderMarkdown(md, 80)
	require.NoError(t, err)
	assert.Contains(t, out, "hot")
}

func TestStats(t *testing.T) {
	out := Stats(model.DatasetStats{
		Count:     156,
		Source:    "bundled",
		FirstDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		LastDate:  time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC),
		HotMain:   cands(7, 21),
		MeanSum:   127.4,
		MinSum:    40,
		MaxSum:    210,
		OddRatio:  0.52,
	})
	assert.Contains(t, out, "bundled")
	assert.Contains(t, out, "2024-12-27")
	assert.Contains(t, out, "07 21")
	assert.Contains(t, out, "52.0%")
	assert.NotContains(t, out, "fetched")
}

func TestWeights(t *testing.T) {
	assert.Contains(t, Weights(model.WeightState{}), "unweighted")

	out := Weights(model.WeightState{
		Weights:       map[string]float64{"cold": 0.7, "hot": 1.3},
		Window:        50,
		Runs:          2,
		LastLearnedAt: time.Now().Add(-2 * time.Hour),
	})
	assert.Contains(t, out, "2nd run")
	assert.Less(t, strings.Index(out, "hot"), strings.Index(out, "cold"))
	assert.Contains(t, out, "1.300")
}
