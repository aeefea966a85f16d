package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AnyUserName/wirthmage-cli/internal/setting"
)

// New creates an empty manifest for a run with the given settings.
func New(s setting.Settings) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Settings:    s,
		BasePath:    "./",
		Items:       make(map[string]Item),
	}
}

// ComputeStats recalculates aggregate statistics from items.
func (m *Manifest) ComputeStats() {
	var s Stats
	s.TotalItems = len(m.Items)
	s.Failed = len(m.Failures)
	for _, it := range m.Items {
		s.TotalInputBytes += it.Source.Size
		s.TotalOutputs += len(it.Outputs)
		for _, o := range it.Outputs {
			s.TotalOutputBytes += o.Size
		}
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest. A directory path is resolved to the manifest
// file inside it.
func ReadJSON(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
