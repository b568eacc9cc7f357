package settings

import (
	"encoding/json"
	"os"
	"time"

	"StockDash/internal/model"
)

// LoadState reads settings from a JSON file. Returns a zero state if the file doesn't exist.
func LoadState(filePath string) (*model.Settings, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Settings{}, nil
		}
		return nil, err
	}
	var state model.Settings
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes settings to a JSON file.
func SaveState(filePath string, state *model.Settings) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
