package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/wirthmage-cli/internal/setting"
)

func testManifest() *Manifest {
	m := New(setting.Settings{OutputSize: "CARD", ScaleX2: true, OutputType: "BMP", Colors: 16, Mask: true})
	m.BuildInfo = &BuildInfo{Workers: 2, QueueSize: 1}
	m.Items["test/image"] = Item{
		Source: SourceInfo{
			Path: "in/test/image.png", Width: 400, Height: 400,
			Format: "png", Size: 100000, Hash: "0123456789abcdef",
		},
		Outputs: []Output{
			{Format: "bmp", Scale: 1, Width: 74, Height: 94, Colors: 16, BitDepth: 4, Size: 3878, Hash: "abcd1234abcd1234", Path: "test/image.bmp"},
			{Format: "bmp", Scale: 2, Width: 148, Height: 188, Colors: 16, BitDepth: 4, Size: 14214, Hash: "ffff0000ffff0000", Path: "test/image.x2.bmp"},
		},
	}
	m.Failures = []Failure{{Source: "in/broken.png", Error: "decode: unexpected EOF"}}
	return m
}

func TestManifestRoundtrip(t *testing.T) {
	m := testManifest()

	// Write to temp file.
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Read back and parse.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var m2 Manifest
	if err := json.Unmarshal(data, &m2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Verify fields.
	if m2.Version != SupportedManifestVersion {
		t.Errorf("version: got %d, want %d", m2.Version, SupportedManifestVersion)
	}
	if m2.Settings != m.Settings {
		t.Errorf("settings: got %+v", m2.Settings)
	}
	if m2.BuildInfo == nil {
		t.Fatal("build_info missing")
	}
	if m2.BuildInfo.Workers != 2 {
		t.Errorf("workers: got %d", m2.BuildInfo.Workers)
	}

	it, ok := m2.Items["test/image"]
	if !ok {
		t.Fatal("item test/image missing")
	}
	if it.Source.Hash != "0123456789abcdef" {
		t.Errorf("source hash: got %q", it.Source.Hash)
	}
	if len(it.Outputs) != 2 {
		t.Fatalf("outputs: got %d", len(it.Outputs))
	}
	if it.Outputs[1].Path != "test/image.x2.bmp" || it.Outputs[1].Scale != 2 {
		t.Errorf("output[1]: got %+v", it.Outputs[1])
	}
	if it.Outputs[0].BitDepth != 4 {
		t.Errorf("bit depth: got %d", it.Outputs[0].BitDepth)
	}

	// Stats.
	if m2.Stats.TotalItems != 1 {
		t.Errorf("total_items: got %d", m2.Stats.TotalItems)
	}
	if m2.Stats.TotalOutputs != 2 {
		t.Errorf("total_outputs: got %d", m2.Stats.TotalOutputs)
	}
	if m2.Stats.TotalInputBytes != 100000 {
		t.Errorf("total_input_bytes: got %d", m2.Stats.TotalInputBytes)
	}
	if m2.Stats.TotalOutputBytes != 3878+14214 {
		t.Errorf("total_output_bytes: got %d", m2.Stats.TotalOutputBytes)
	}
	if m2.Stats.Failed != 1 {
		t.Errorf("failed: got %d", m2.Stats.Failed)
	}
}

func TestReadJSON(t *testing.T) {
	dir := t.TempDir()
	if err := WriteJSON(testManifest(), filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Both the directory and the file resolve to the same manifest.
	for _, p := range []string{dir, filepath.Join(dir, FileName)} {
		m, err := ReadJSON(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if len(m.Items) != 1 {
			t.Errorf("%s: items: got %d", p, len(m.Items))
		}
	}

	if _, err := ReadJSON(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing manifest")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadJSON(bad); err == nil {
		t.Error("expected parse error")
	}
}

func TestEmptyManifestStats(t *testing.T) {
	m := New(setting.Default())
	m.ComputeStats()

	if m.Stats.TotalItems != 0 || m.Stats.TotalOutputs != 0 {
		t.Errorf("expected zero stats, got %+v", m.Stats)
	}
	if m.Items == nil {
		t.Error("items map should be initialized")
	}
}
