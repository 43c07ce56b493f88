package recorder

import (
	"time"

	"DrawSentinel/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) SaveDraws(_ []model.Draw) error                        { return nil }
func (n *NoopRecorder) LoadDraws() ([]model.Draw, error)                      { return nil, nil }
func (n *NoopRecorder) RecordPrediction(_ *model.Prediction) error            { return nil }
func (n *NoopRecorder) RecordBacktest(_ *model.BacktestReport) error          { return nil }
func (n *NoopRecorder) RecentPredictions(_ int) ([]PredictionRecord, error)   { return nil, nil }
func (n *NoopRecorder) ScorePrediction(_ string, _ time.Time, _, _ int) error { return nil }
func (n *NoopRecorder) Close() error                                          { return nil }
