package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// accrualState is the persisted per-wallet map: wallet address → unix
// milliseconds of the last realized accrual.
type accrualState map[string]int64

// loadState reads the accrual state from a JSON file. Returns an empty state
// if the file doesn't exist.
func loadState(filePath string) (accrualState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return accrualState{}, nil
		}
		return nil, err
	}
	var state accrualState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return state, nil
}

// saveState writes the accrual state to a JSON file, creating the parent
// directory when needed.
func saveState(filePath string, state accrualState) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
