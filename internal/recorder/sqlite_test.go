package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DrawSentinel/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "db", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestSQLite_DrawsUpsert(t *testing.T) {
	r := openTemp(t)

	require.NoError(t, r.SaveDraws([]model.Draw{
		{Date: date("2025-01-07"), Main: []int{5, 4, 3, 2, 1}, Bonus: []int{2, 1}},
		{Date: date("2025-01-03"), Main: []int{10, 20, 30, 40, 50}, Bonus: []int{11, 12}},
	}))
	require.NoError(t, r.SaveDraws([]model.Draw{
		{Date: date("2025-01-07"), Main: []int{6, 7, 8, 9, 10}, Bonus: []int{3, 4}},
	}))

	draws, err := r.LoadDraws()
	require.NoError(t, err)
	require.Len(t, draws, 2)
	assert.True(t, draws[0].Date.Equal(date("2025-01-03")))
	assert.Equal(t, []int{6, 7, 8, 9, 10}, draws[1].Main)
	assert.Equal(t, []int{3, 4}, draws[1].Bonus)
}

func TestSQLite_SaveDrawsRejectsInvalid(t *testing.T) {
	r := openTemp(t)
	err := r.SaveDraws([]model.Draw{
		{Date: date("2025-01-03"), Main: []int{1, 2, 3, 4, 5}, Bonus: []int{1, 2}},
		{Date: date("2025-01-07"), Main: []int{1, 2, 3}, Bonus: []int{1, 2}},
	})
	assert.ErrorIs(t, err, model.ErrInvalidDraw)

	draws, err := r.LoadDraws()
	require.NoError(t, err)
	assert.Empty(t, draws)
}

func TestSQLite_Predictions(t *testing.T) {
	r := openTemp(t)
	now := time.Now()
	for i, id := range []string{"first", "second"} {
		require.NoError(t, r.RecordPrediction(&model.Prediction{
			ID:          id,
			GeneratedAt: now.Add(time.Duration(i) * time.Minute),
			BasedOn:     date("2025-01-07"),
			HistorySize: 100 + i,
			Main:        []model.ScoredCandidate{{Number: 1}, {Number: 2}, {Number: 3}, {Number: 4}, {Number: 5}},
			Bonus:       []model.ScoredCandidate{{Number: 6}, {Number: 7}},
			Weighted:    i == 1,
		}))
	}

	recs, err := r.RecentPredictions(5)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "second", recs[0].ID)
	assert.True(t, recs[0].Weighted)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, recs[0].Main)
	assert.Equal(t, []int{6, 7}, recs[0].Bonus)
	assert.False(t, recs[0].Evaluated)

	require.NoError(t, r.ScorePrediction("second", date("2025-01-10"), 2, 1))
	recs, err = r.RecentPredictions(1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Evaluated)
	assert.Equal(t, 2, recs[0].MainHits)
	assert.Equal(t, 1, recs[0].BonusHits)
	assert.True(t, recs[0].EvaluatedOn.Equal(date("2025-01-10")))

	assert.Error(t, r.ScorePrediction("missing", date("2025-01-10"), 0, 0))
}

func TestSQLite_RecordBacktest(t *testing.T) {
	r := openTemp(t)
	rep := &model.BacktestReport{
		ID:     "run-1",
		RunAt:  time.Now(),
		Window: 10,
		Tests:  10,
		Rows: []model.AlgorithmStats{
			{Algorithm: "hot", Family: "frequency", Tests: 10, MainHits: 6, AvgMain: 0.6, Lift: 1.2},
			{Algorithm: "cold", Family: "frequency", Tests: 10, MainHits: 4, AvgMain: 0.4, Lift: 0.8},
		},
		BaselineMain:  0.5,
		BaselineBonus: 1.0 / 3,
	}
	require.NoError(t, r.RecordBacktest(rep))

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM backtest_rows WHERE run_id = ?`, "run-1").Scan(&n))
	assert.Equal(t, 2, n)

	assert.Error(t, r.RecordBacktest(rep), "duplicate run id")
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.SaveDraws([]model.Draw{
		{Date: date("2025-01-03"), Main: []int{1, 2, 3, 4, 5}, Bonus: []int{1, 2}},
	}))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()
	draws, err := r.LoadDraws()
	require.NoError(t, err)
	assert.Len(t, draws, 1)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.SaveDraws(nil))
	draws, err := r.LoadDraws()
	assert.NoError(t, err)
	assert.Nil(t, draws)
	assert.NoError(t, r.Close())
}
