package manifest

import "github.com/AnyUserName/wirthmage-cli/internal/setting"

// FileName is the manifest written into every output directory.
const FileName = "wirthmage.manifest.json"

// Manifest is the top-level record of a wirthmage conversion run.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Settings    setting.Settings `json:"settings"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Items       map[string]Item  `json:"items"`
	Failures    []Failure        `json:"failures,omitempty"`
	Canceled    bool             `json:"canceled,omitempty"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures run-time parameters for diagnostics.
type BuildInfo struct {
	Workers   int `json:"workers"`    // one per scale factor
	QueueSize int `json:"queue_size"` // per-worker task queue capacity
}

// Item describes one source image and the files written for it. Items are
// keyed by output base path without suffix or extension.
type Item struct {
	Source  SourceInfo `json:"source"`
	Outputs []Output   `json:"outputs"`
}

// SourceInfo holds metadata about the source image.
type SourceInfo struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
	Hash   string `json:"hash"` // first 16 hex chars of xxhash64
}

// Output is one encoded file of an item at one scale.
type Output struct {
	Format   string `json:"format"` // "bmp", "png", "jpeg"
	Scale    int    `json:"scale"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Colors   int    `json:"colors"` // palette entries, 0 for direct color
	BitDepth int    `json:"bit_depth"`
	Size     int64  `json:"size"` // bytes on disk
	Hash     string `json:"hash"`
	Path     string `json:"path"` // relative to base_path
}

// Failure records a source that produced no output.
type Failure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalItems       int   `json:"total_items"`
	TotalOutputs     int   `json:"total_outputs"`
	Failed           int   `json:"failed,omitempty"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
