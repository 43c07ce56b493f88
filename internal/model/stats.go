package model

import "time"

// DatasetStats summarizes the loaded draw history.
type DatasetStats struct {
	Count     int               `json:"count"`
	FirstDate time.Time         `json:"first_date"`
	LastDate  time.Time         `json:"last_date"`
	HotMain   []ScoredCandidate `json:"hot_main"`
	ColdMain  []ScoredCandidate `json:"cold_main"`
	HotBonus  []ScoredCandidate `json:"hot_bonus"`
	ColdBonus []ScoredCandidate `json:"cold_bonus"`
	MeanSum   float64           `json:"mean_sum"`
	MinSum    int               `json:"min_sum"`
	MaxSum    int               `json:"max_sum"`
	OddRatio  float64           `json:"odd_ratio"` // share of odd main numbers, 0.0 ~ 1.0
	Source    string            `json:"source"`
	FetchedAt time.Time         `json:"fetched_at"`
}
