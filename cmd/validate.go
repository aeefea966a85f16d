package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/wirthmage-cli/internal/encoder"
	"github.com/AnyUserName/wirthmage-cli/internal/hasher"
	"github.com/AnyUserName/wirthmage-cli/internal/manifest"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a wirthmage manifest and check the recorded files",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	manifestPath := args[0]

	m, err := manifest.ReadJSON(manifestPath)
	if err != nil {
		return err
	}

	baseDir := manifestPath
	if info, err := os.Stat(manifestPath); err == nil && !info.IsDir() {
		baseDir = filepath.Dir(manifestPath)
	}
	errors := validateManifest(m, baseDir)

	if len(errors) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		fmt.Printf("  ✓ %d items, %d outputs — all files present and unchanged\n", m.Stats.TotalItems, m.Stats.TotalOutputs)
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(errors))
	for _, e := range errors {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errors))
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	// Check version.
	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	keys := make([]string, 0, len(m.Items))
	for key := range m.Items {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	seenPaths := map[string]bool{}
	for _, key := range keys {
		item := m.Items[key]

		if item.Source.Width <= 0 || item.Source.Height <= 0 {
			errs = append(errs, fmt.Sprintf("item %q: invalid source dimensions %dx%d",
				key, item.Source.Width, item.Source.Height))
		}
		if len(item.Outputs) == 0 {
			errs = append(errs, fmt.Sprintf("item %q: no outputs", key))
		}

		for i, o := range item.Outputs {
			if _, err := encoder.ParseKind(o.Format); err != nil {
				errs = append(errs, fmt.Sprintf("item %q output[%d]: %v", key, i, err))
			}
			if o.Width <= 0 || o.Height <= 0 {
				errs = append(errs, fmt.Sprintf("item %q output[%d]: invalid dimensions %dx%d",
					key, i, o.Width, o.Height))
			}
			if o.Scale != 1 && o.Scale != 2 && o.Scale != 4 {
				errs = append(errs, fmt.Sprintf("item %q output[%d]: invalid scale %d", key, i, o.Scale))
			}
			if o.Hash == "" {
				errs = append(errs, fmt.Sprintf("item %q output[%d]: missing hash", key, i))
			}
			if o.Path == "" {
				errs = append(errs, fmt.Sprintf("item %q output[%d]: missing path", key, i))
				continue
			}

			// Check duplicate paths.
			if seenPaths[o.Path] {
				errs = append(errs, fmt.Sprintf("item %q output[%d]: duplicate path %q", key, i, o.Path))
			}
			seenPaths[o.Path] = true

			// Check the file exists and is unchanged.
			fullPath := filepath.Join(baseDir, filepath.FromSlash(o.Path))
			info, err := os.Stat(fullPath)
			if err != nil {
				errs = append(errs, fmt.Sprintf("item %q output[%d]: file not found: %s", key, i, o.Path))
				continue
			}
			if info.Size() != o.Size {
				errs = append(errs, fmt.Sprintf("item %q output[%d]: size mismatch: manifest=%d, disk=%d",
					key, i, o.Size, info.Size()))
				continue
			}
			if o.Hash == "" {
				continue
			}
			sum, err := hasher.FileHash(fullPath, len(o.Hash))
			if err != nil {
				errs = append(errs, fmt.Sprintf("item %q output[%d]: %v", key, i, err))
			} else if sum != o.Hash {
				errs = append(errs, fmt.Sprintf("item %q output[%d]: hash mismatch: manifest=%s, disk=%s",
					key, i, o.Hash, sum))
			}
		}
	}

	// Verify stats consistency.
	outputCount := 0
	for _, it := range m.Items {
		outputCount += len(it.Outputs)
	}
	if m.Stats.TotalItems != len(m.Items) {
		errs = append(errs, fmt.Sprintf("stats.total_items mismatch: %d != %d", m.Stats.TotalItems, len(m.Items)))
	}
	if m.Stats.TotalOutputs != outputCount {
		errs = append(errs, fmt.Sprintf("stats.total_outputs mismatch: %d != %d", m.Stats.TotalOutputs, outputCount))
	}

	return errs
}
