package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"DrawSentinel/internal/model"
)

// Backtest replays the last window draws. For each target draw every
// algorithm predicts from the draws before it and is scored on hits.
// Algorithms run concurrently; rows keep registry order.
func (e *Engine) Backtest(ctx context.Context, history []model.Draw, window int) (*model.BacktestReport, error) {
	if window <= 0 {
		return nil, fmt.Errorf("backtest window must be positive, got %d", window)
	}
	floor := max(e.MinHistory, 1)
	start := max(floor, len(history)-window)
	if start >= len(history) {
		return nil, fmt.Errorf("backtest with %d draws (need more than %d): %w", len(history), floor, ErrInsufficientHistory)
	}
	tests := len(history) - start

	rows := make([]model.AlgorithmStats, len(e.Algorithms))
	// picks[a][t] is algorithm a's result for target start+t; nil when skipped.
	picks := make([][]*model.AlgorithmResult, len(e.Algorithms))

	g, gctx := errgroup.WithContext(ctx)
	for ai, alg := range e.Algorithms {
		g.Go(func() error {
			row := model.AlgorithmStats{Algorithm: alg.Name, Family: alg.Family}
			picks[ai] = make([]*model.AlgorithmResult, tests)
			for t := 0; t < tests; t++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				target := start + t
				res, err := alg.Predict(history[:target], e.Seed)
				if err != nil {
					if errors.Is(err, ErrInsufficientHistory) {
						continue
					}
					return fmt.Errorf("backtest %s: %w", alg.Name, err)
				}
				picks[ai][t] = &res
				row.Add(
					history[target].Hits(model.MainPool, model.CandidateNumbers(res.Main)),
					history[target].Hits(model.BonusPool, model.CandidateNumbers(res.Bonus)),
				)
			}
			row.Finish(model.MainPool.Baseline())
			rows[ai] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ensemble := model.AlgorithmStats{Algorithm: "ensemble", Family: "ensemble"}
	for t := 0; t < tests; t++ {
		var results []model.AlgorithmResult
		for ai := range e.Algorithms {
			if r := picks[ai][t]; r != nil {
				results = append(results, *r)
			}
		}
		if len(results) == 0 {
			continue
		}
		main, bonus := e.vote(results, nil)
		target := history[start+t]
		ensemble.Add(
			target.Hits(model.MainPool, model.CandidateNumbers(main)),
			target.Hits(model.BonusPool, model.CandidateNumbers(bonus)),
		)
	}
	ensemble.Finish(model.MainPool.Baseline())

	return &model.BacktestReport{
		ID:            uuid.NewString(),
		RunAt:         time.Now(),
		Window:        window,
		Tests:         tests,
		Rows:          rows,
		Ensemble:      ensemble,
		BaselineMain:  model.MainPool.Baseline(),
		BaselineBonus: model.BonusPool.Baseline(),
	}, nil
}
