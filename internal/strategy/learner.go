package strategy

import (
	"context"

	"DrawSentinel/internal/model"
)

// LearnWeights backtests the engine and derives historical-average vote
// weights: each algorithm's main and bonus lift summed, then scaled so the
// mean weight is 1. Algorithms never tested keep weight 1.
func (e *Engine) LearnWeights(ctx context.Context, history []model.Draw, window int) (map[string]float64, *model.BacktestReport, error) {
	report, err := e.Backtest(ctx, history, window)
	if err != nil {
		return nil, nil, err
	}
	return WeightsFromReport(report), report, nil
}

// WeightsFromReport converts backtest rows into normalized vote weights.
func WeightsFromReport(report *model.BacktestReport) map[string]float64 {
	weights := make(map[string]float64, len(report.Rows))
	sum := 0.0
	for _, row := range report.Rows {
		w := 1.0
		if row.Tests > 0 {
			w = 0
			if report.BaselineMain > 0 {
				w += row.AvgMain / report.BaselineMain
			}
			if report.BaselineBonus > 0 {
				w += row.AvgBonus / report.BaselineBonus
			}
		}
		weights[row.Algorithm] = w
		sum += w
	}
	if sum == 0 || len(weights) == 0 {
		for k := range weights {
			weights[k] = 1
		}
		return weights
	}
	mean := sum / float64(len(weights))
	for k, w := range weights {
		weights[k] = w / mean
	}
	return weights
}
