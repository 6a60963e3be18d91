package trip

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes the trip as indented JSON, matching the layout the
// training pipeline consumes.
func WriteFile(path string, tr *Trip) error {
	data, err := json.MarshalIndent(tr, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal trip %s: %w", tr.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write trip file: %w", err)
	}
	return nil
}

// ReadFile loads a trip from a JSON file.
func ReadFile(path string) (*Trip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trip file: %w", err)
	}
	var tr Trip
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("failed to parse trip file %s: %w", filepath.Base(path), err)
	}
	if len(tr.Sequence) == 0 {
		return nil, fmt.Errorf("trip file %s has an empty sequence: %w", filepath.Base(path), ErrInvalidInput)
	}
	return &tr, nil
}

// LatestFile returns the most recently modified .json file in dir, or an
// empty string when the directory holds no trips.
func LatestFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read trip directory: %w", err)
	}
	var latest string
	var latestMod int64
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); latest == "" || mod > latestMod {
			latest = filepath.Join(dir, e.Name())
			latestMod = mod
		}
	}
	return latest, nil
}
