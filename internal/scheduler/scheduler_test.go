package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"DrawSentinel/internal/collector"
	"DrawSentinel/internal/recorder"
	"DrawSentinel/internal/strategy"
	"DrawSentinel/internal/weights"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))
}

type fakeSender struct {
	mu   sync.Mutex
	msgs []string
	err  error
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return f.err
}

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.msgs...)
}

// fastEngine keeps the registry small so tests stay quick.
func fastEngine() *strategy.Engine {
	e := strategy.NewEngine(42, 20)
	var algs []strategy.Algorithm
	for _, name := range []string{"hot", "cold", "overdue", "markov", "monte-carlo"} {
		a, ok := strategy.Lookup(name)
		if !ok {
			panic("missing algorithm " + name)
		}
		algs = append(algs, a)
	}
	e.Algorithms = algs
	return e
}

type fixture struct {
	sched   *Scheduler
	fetcher *collector.MockFetcher
	sender  *fakeSender
	rec     recorder.Recorder
}

func newFixture(t *testing.T, rec recorder.Recorder) *fixture {
	t.Helper()
	fetcher := &collector.MockFetcher{Draws: collector.GenerateDraws(60, 1)}
	wm, err := weights.NewManager(filepath.Join(t.TempDir(), "weights.json"))
	require.NoError(t, err)
	sender := &fakeSender{}
	col := collector.NewCollector(fetcher, rec)
	s := NewScheduler(context.Background(), col, fastEngine(), wm, sender, rec, 10)
	return &fixture{sched: s, fetcher: fetcher, sender: sender, rec: rec}
}

func TestRefresh_PredictsAndNotifies(t *testing.T) {
	f := newFixture(t, recorder.NewNoopRecorder())
	f.sched.RunRefreshNow()

	msgs := f.sender.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "prediction")
	assert.Contains(t, msgs[0], "unweighted vote")
}

func TestRefresh_ScoresPreviousPrediction(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer rec.Close()

	f := newFixture(t, rec)
	all := collector.GenerateDraws(61, 1)
	f.fetcher.Draws = all[:60]
	f.sched.RunRefreshNow()

	f.fetcher.Draws = all
	f.sched.RunRefreshNow()

	recs, err := rec.RecentPredictions(2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.False(t, recs[0].Evaluated, "newest prediction has no following draw yet")
	assert.True(t, recs[1].Evaluated)
	assert.True(t, recs[1].EvaluatedOn.Equal(all[60].Date))

	msgs := f.sender.messages()
	require.Len(t, msgs, 3)
	assert.Contains(t, msgs[1], "Result")
}

func TestRefresh_CollectFailureNotifies(t *testing.T) {
	f := newFixture(t, recorder.NewNoopRecorder())
	f.sched.Collector.Bundled = nil
	f.fetcher.Err = errors.New("offline")
	f.sched.RunRefreshNow()

	msgs := f.sender.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Refresh failed")
}

func TestLearn_AppliesWeights(t *testing.T) {
	f := newFixture(t, recorder.NewNoopRecorder())
	f.sched.RunLearnNow()

	state := f.sched.Weights.GetState()
	assert.Len(t, state.Weights, 5)
	assert.Equal(t, 1, state.Runs)
	assert.Equal(t, 10, state.Window)

	reply := f.sched.HandleCommand("/predict")
	assert.Contains(t, reply, "learned weights")
}

func TestHandleCommand(t *testing.T) {
	f := newFixture(t, recorder.NewNoopRecorder())

	tests := []struct {
		command string
		want    string
	}{
		{"/stats", "Draws: 60"},
		{"/refresh", "Loaded 60 draws from mock"},
		{"/predict", "Main:"},
		{"/backtest", "last 10 draws"},
		{"/weights", "unweighted"},
		{"/start", "Available commands"},
		{"hello", "Available commands"},
	}
	for _, tt := range tests {
		t.Run(strings.TrimPrefix(tt.command, "/"), func(t *testing.T) {
			assert.Contains(t, f.sched.HandleCommand(tt.command), tt.want)
		})
	}
}

func TestHandleCommand_SendFailureDoesNotBlockReply(t *testing.T) {
	f := newFixture(t, recorder.NewNoopRecorder())
	f.sender.err = errors.New("telegram down")
	f.sched.RunRefreshNow()
	assert.Contains(t, f.sched.HandleCommand("/stats"), "Draws: 60")
}

func TestRegisterAll(t *testing.T) {
	f := newFixture(t, recorder.NewNoopRecorder())
	require.NoError(t, f.sched.RegisterAll("0 30 23 * * 2,5", "0 0 4 * * 0"))
	assert.Len(t, f.sched.Cron.Entries(), 2)

	f.sched.Start()
	f.sched.Stop()

	g := newFixture(t, recorder.NewNoopRecorder())
	assert.Error(t, g.sched.RegisterAll("not a cron", "0 0 4 * * 0"))
}
