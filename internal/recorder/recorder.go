package recorder

import (
	"time"

	"DrawSentinel/internal/model"
)

// PredictionRecord is a stored ensemble prediction, optionally scored
// against the draw that followed it.
type PredictionRecord struct {
	ID          string
	GeneratedAt time.Time
	BasedOn     time.Time
	HistorySize int
	Main        []int
	Bonus       []int
	Weighted    bool
	Evaluated   bool
	EvaluatedOn time.Time
	MainHits    int
	BonusHits   int
}

// Recorder persists draws, predictions and backtests.
type Recorder interface {
	SaveDraws(draws []model.Draw) error
	LoadDraws() ([]model.Draw, error)
	RecordPrediction(p *model.Prediction) error
	RecordBacktest(r *model.BacktestReport) error
	RecentPredictions(n int) ([]PredictionRecord, error)
	ScorePrediction(id string, against time.Time, mainHits, bonusHits int) error
	Close() error
}
