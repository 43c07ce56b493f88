package model

import "time"

// WeightState tracks learned per-algorithm ensemble weights.
type WeightState struct {
	Weights       map[string]float64 `json:"weights"`
	Window        int                `json:"window"`
	Runs          int                `json:"runs"`
	LastLearnedAt time.Time          `json:"last_learned_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
