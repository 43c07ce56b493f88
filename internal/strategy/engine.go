package strategy

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"DrawSentinel/internal/model"
)

// Engine runs every registered algorithm and merges their picks.
type Engine struct {
	Algorithms []Algorithm
	// Weights maps algorithm name to vote weight; nil means unweighted.
	Weights map[string]float64
	Seed    int64
	// MinHistory is the floor below which no prediction is attempted.
	MinHistory int
}

// NewEngine creates an engine over the full registry.
func NewEngine(seed int64, minHistory int) *Engine {
	return &Engine{Algorithms: Registry(), Seed: seed, MinHistory: minHistory}
}

// WithWeights returns a copy of the engine voting with w. A nil w votes unweighted.
func (e *Engine) WithWeights(w map[string]float64) *Engine {
	c := *e
	c.Weights = w
	return &c
}

// Run executes each algorithm over the history. Algorithms lacking history are
// reported by name in skipped rather than failing the run.
func (e *Engine) Run(history []model.Draw) (results []model.AlgorithmResult, skipped []string, err error) {
	for _, a := range e.Algorithms {
		res, err := a.Predict(history, e.Seed)
		if err != nil {
			if errors.Is(err, ErrInsufficientHistory) {
				skipped = append(skipped, a.Name)
				continue
			}
			return nil, nil, fmt.Errorf("run %s: %w", a.Name, err)
		}
		results = append(results, res)
	}
	return results, skipped, nil
}

// Predict computes the ensemble prediction for the draw after history.
func (e *Engine) Predict(history []model.Draw) (*model.Prediction, error) {
	if len(history) == 0 || len(history) < e.MinHistory {
		return nil, fmt.Errorf("predict with %d draws (need %d): %w", len(history), e.MinHistory, ErrInsufficientHistory)
	}
	results, skipped, err := e.Run(history)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no algorithm could run: %w", ErrInsufficientHistory)
	}
	main, bonus := e.vote(results, e.Weights)
	return &model.Prediction{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now(),
		BasedOn:     lastDraw(history).Date,
		HistorySize: len(history),
		Main:        main,
		Bonus:       bonus,
		Results:     results,
		Skipped:     skipped,
		Weighted:    len(e.Weights) > 0,
	}, nil
}

func (e *Engine) vote(results []model.AlgorithmResult, weights map[string]float64) (main, bonus []model.ScoredCandidate) {
	mainLists := make([][]model.ScoredCandidate, len(results))
	bonusLists := make([][]model.ScoredCandidate, len(results))
	w := make([]float64, len(results))
	for i, r := range results {
		mainLists[i] = r.Main
		bonusLists[i] = r.Bonus
		w[i] = 1
		if v, ok := weights[r.Algorithm]; ok {
			w[i] = v
		}
	}
	return Vote(mainLists, w, model.MainPool), Vote(bonusLists, w, model.BonusPool)
}

// Vote merges ranked lists. Position i of a list of length L contributes
// weight*(L-i) to its number; lists without a weight count as 1. The top
// p.Pick numbers by total are returned, ties going to the lower number.
func Vote(lists [][]model.ScoredCandidate, weights []float64, p model.Pool) []model.ScoredCandidate {
	totals := make([]float64, p.Size())
	for li, list := range lists {
		w := 1.0
		if li < len(weights) {
			w = weights[li]
		}
		for pos, c := range list {
			if !p.Contains(c.Number) {
				continue
			}
			totals[p.Index(c.Number)] += w * float64(len(list)-pos)
		}
	}
	return Rank(totals, p)
}
