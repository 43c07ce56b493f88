package model

import "time"

// AlgorithmResult is one scoring algorithm's ranked output.
type AlgorithmResult struct {
	Algorithm string            `json:"algorithm"`
	Family    string            `json:"family"`
	Main      []ScoredCandidate `json:"main"`
	Bonus     []ScoredCandidate `json:"bonus"`
}

// Prediction is the final output of the strategy engine.
type Prediction struct {
	ID          string            `json:"id"`
	GeneratedAt time.Time         `json:"generated_at"`
	BasedOn     time.Time         `json:"based_on"`
	HistorySize int               `json:"history_size"`
	Main        []ScoredCandidate `json:"main"`
	Bonus       []ScoredCandidate `json:"bonus"`
	Results     []AlgorithmResult `json:"results"`
	Skipped     []string          `json:"skipped,omitempty"`
	Weighted    bool              `json:"weighted"`
}

// AlgorithmStats summarizes one algorithm's backtest.
type AlgorithmStats struct {
	Algorithm string  `json:"algorithm"`
	Family    string  `json:"family"`
	Tests     int     `json:"tests"`
	MainHits  int     `json:"main_hits"`
	BonusHits int     `json:"bonus_hits"`
	AvgMain   float64 `json:"avg_main"`
	AvgBonus  float64 `json:"avg_bonus"`
	MainDist  [6]int  `json:"main_dist"`
	BonusDist [3]int  `json:"bonus_dist"`
	BestMain  int     `json:"best_main"`
	Lift      float64 `json:"lift"`
}

// Add folds one test outcome into the running totals.
func (s *AlgorithmStats) Add(mainHits, bonusHits int) {
	s.Tests++
	s.MainHits += mainHits
	s.BonusHits += bonusHits
	if mainHits < len(s.MainDist) {
		s.MainDist[mainHits]++
	}
	if bonusHits < len(s.BonusDist) {
		s.BonusDist[bonusHits]++
	}
	if mainHits > s.BestMain {
		s.BestMain = mainHits
	}
}

// Finish computes averages and lift against the main-pool baseline.
func (s *AlgorithmStats) Finish(baselineMain float64) {
	if s.Tests == 0 {
		return
	}
	s.AvgMain = float64(s.MainHits) / float64(s.Tests)
	s.AvgBonus = float64(s.BonusHits) / float64(s.Tests)
	if baselineMain > 0 {
		s.Lift = s.AvgMain / baselineMain
	}
}

// BacktestReport holds the result of replaying every algorithm over history.
type BacktestReport struct {
	ID            string           `json:"id"`
	RunAt         time.Time        `json:"run_at"`
	Window        int              `json:"window"`
	Tests         int              `json:"tests"`
	Rows          []AlgorithmStats `json:"rows"`
	Ensemble      AlgorithmStats   `json:"ensemble"`
	BaselineMain  float64          `json:"baseline_main"`
	BaselineBonus float64          `json:"baseline_bonus"`
}
