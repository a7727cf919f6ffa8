package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// FileStorage persists the cart snapshot as JSON in a single file, the
// server-side stand-in for the browser's local-storage key.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads the snapshot. A missing file or a corrupt snapshot both yield
// an empty cart: local-storage content is never trusted.
func (f *FileStorage) Load() (State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("failed to read cart file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, nil
	}
	return state, nil
}

func (f *FileStorage) Save(state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode cart state: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cart file: %w", err)
	}
	return nil
}
