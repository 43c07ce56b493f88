package weights

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"DrawSentinel/internal/model"
)

// LoadState reads the weight state from a JSON file. Returns an empty state if the file doesn't exist.
func LoadState(filePath string) (*model.WeightState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.WeightState{}, nil
		}
		return nil, err
	}
	var state model.WeightState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	return &state, nil
}

// SaveState writes the weight state through a temp file so readers never see a partial write.
func SaveState(filePath string, state *model.WeightState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filePath)
}
