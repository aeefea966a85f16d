package cmd

import (
	"fmt"
	"sort"

	"github.com/AnyUserName/wirthmage-cli/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a conversion output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	m, err := manifest.ReadJSON(args[0])
	if err != nil {
		return err
	}

	printStats(m)
	return nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	s := m.Settings
	fmt.Printf("  Settings:         %s %s, colors %d, mask %t, outline %q\n",
		s.OutputSize, s.OutputType, s.Colors, s.Mask, s.Outline)
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d (queue %d)\n", m.BuildInfo.Workers, m.BuildInfo.QueueSize)
	}
	if m.Canceled {
		fmt.Println("  Run was canceled before all sources were converted")
	}
	fmt.Println()

	st := m.Stats
	fmt.Printf("  Total items:      %d\n", st.TotalItems)
	fmt.Printf("  Total outputs:    %d\n", st.TotalOutputs)
	fmt.Printf("  Failed:           %d\n", st.Failed)
	fmt.Printf("  Input size:       %s\n", formatBytes(st.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(st.TotalOutputBytes))
	fmt.Println()

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, it := range m.Items {
		for _, o := range it.Outputs {
			fs := formatStats[o.Format]
			fs.count++
			fs.bytes += o.Size
			formatStats[o.Format] = fs
		}
	}

	fmt.Println("  Format breakdown:")
	for _, f := range []string{"bmp", "png", "jpeg"} {
		if fs, ok := formatStats[f]; ok {
			fmt.Printf("    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
		}
	}
	fmt.Println()

	// Per-scale breakdown.
	type scaleKey struct {
		scale, w, h int
	}
	scaleStats := map[scaleKey]int{}
	for _, it := range m.Items {
		for _, o := range it.Outputs {
			scaleStats[scaleKey{o.Scale, o.Width, o.Height}]++
		}
	}
	var keys []scaleKey
	for k := range scaleStats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].scale != keys[j].scale {
			return keys[i].scale < keys[j].scale
		}
		return keys[i].w*keys[i].h < keys[j].w*keys[j].h
	})
	fmt.Println("  Scale breakdown:")
	for _, k := range keys {
		fmt.Printf("    x%d  %4dx%-4d  %4d outputs\n", k.scale, k.w, k.h, scaleStats[k])
	}
	fmt.Println()

	// Palette and bit depth breakdown.
	depthStats := map[int]int{}
	for _, it := range m.Items {
		for _, o := range it.Outputs {
			depthStats[o.BitDepth]++
		}
	}
	var depths []int
	for d := range depthStats {
		depths = append(depths, d)
	}
	sort.Ints(depths)
	fmt.Println("  Bit depth breakdown:")
	for _, d := range depths {
		fmt.Printf("    %2d bpp  %4d outputs\n", d, depthStats[d])
	}

	// Warnings.
	var warnings []string
	for key, it := range m.Items {
		if len(it.Outputs) == 0 {
			warnings = append(warnings, fmt.Sprintf("item %q has no outputs", key))
		}
	}
	for _, f := range m.Failures {
		warnings = append(warnings, fmt.Sprintf("%s failed: %s", f.Source, f.Error))
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}
