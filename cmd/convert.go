package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AnyUserName/wirthmage-cli/internal/manifest"
	"github.com/AnyUserName/wirthmage-cli/internal/pipeline"
	"github.com/AnyUserName/wirthmage-cli/internal/setting"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	convertOutDir  string
	convertSize    string
	convertX2      bool
	convertX4      bool
	convertType    string
	convertColors  int
	convertMask    bool
	convertOutline string
	convertPreset  string
	convertConfig  string
	convertSave    bool
	convertQueue   int
)

var convertCmd = &cobra.Command{
	Use:   "convert <input>...",
	Short: "Convert images and write the outputs + manifest",
	Long: `Converts image files and directories (png, jpg, jpeg, webp, gif, bmp,
tiff). Directories are walked; hidden directories are skipped.

Settings come from the settings file (see --config), then --preset, then
any flag given explicitly. Use --save to store the result.

Output filenames are <name><suffix>.<ext> where the suffix is empty, .x2
or .x4. A name seen earlier in the run goes into a directory named after
the source hash.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	bindConvertFlags(convertCmd.Flags())
	rootCmd.AddCommand(convertCmd)
}

func bindConvertFlags(f *pflag.FlagSet) {
	f.StringVarP(&convertOutDir, "out", "o", "./wirthmage_out", "output directory")
	f.StringVar(&convertSize, "size", "ASIS", "output size: ASIS, CARD, YADO or FULL")
	f.BoolVar(&convertX2, "x2", false, "also write a 2x output (not with ASIS)")
	f.BoolVar(&convertX4, "x4", false, "also write a 4x output (not with ASIS)")
	f.StringVarP(&convertType, "type", "t", "BMP", "output type: BMP, PNG or JPEG")
	f.IntVarP(&convertColors, "colors", "c", 0, "palette size 2-256 (0 = keep colors)")
	f.BoolVarP(&convertMask, "mask", "m", false, "make the color of the top-left pixel transparent")
	f.StringVar(&convertOutline, "outline", "", "outline style name or inner=<color>,outer=<color> (see `wirthmage presets`)")
	f.StringVarP(&convertPreset, "preset", "p", "", "built-in settings preset")
	f.StringVar(&convertConfig, "config", "", "settings file (default: user config dir)")
	f.BoolVar(&convertSave, "save", false, "save the effective settings")
	f.IntVar(&convertQueue, "queue", pipeline.DefaultQueueSize, "task queue size per scale worker")
}

func runConvert(cmd *cobra.Command, args []string) error {
	start := time.Now()

	absOutput, err := filepath.Abs(convertOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	configPath := convertConfig
	if configPath == "" {
		if configPath, err = setting.DefaultPath(); err != nil {
			return err
		}
	}

	s, err := resolveSettings(configPath, convertPreset, cmd.Flags())
	if err != nil {
		return err
	}
	if convertSave {
		if err := setting.Save(configPath, s); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		logVerbose("settings saved to %s", configPath)
	}

	logVerbose("output:   %s", absOutput)
	logVerbose("settings: size=%s x2=%t x4=%t type=%s colors=%d mask=%t outline=%q",
		s.OutputSize, s.ScaleX2, s.ScaleX4, s.OutputType, s.Colors, s.Mask, s.Outline)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	p := pipeline.New(pipeline.Config{
		Inputs:    args,
		OutputDir: absOutput,
		Settings:  s,
		QueueSize: convertQueue,
		Verbose:   verbose,
	})

	m, runErr := p.Run(ctx)
	if m == nil {
		return fmt.Errorf("pipeline: %w", runErr)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printConvertReport(m, time.Since(start))

	if runErr != nil {
		return fmt.Errorf("pipeline: %w", runErr)
	}
	return nil
}

// resolveSettings layers the settings file, the preset and the flags that
// were set explicitly.
func resolveSettings(configPath, preset string, flags *pflag.FlagSet) (setting.Settings, error) {
	s, err := setting.Load(configPath)
	if err != nil {
		return s, err
	}

	if preset != "" {
		p, ok := setting.Get(preset)
		if !ok {
			return s, fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(setting.Names(), ", "))
		}
		s = p
	}

	if flags.Changed("size") {
		s.OutputSize = convertSize
	}
	if flags.Changed("x2") {
		s.ScaleX2 = convertX2
	}
	if flags.Changed("x4") {
		s.ScaleX4 = convertX4
	}
	if flags.Changed("type") {
		s.OutputType = convertType
	}
	if flags.Changed("colors") {
		s.Colors = convertColors
	}
	if flags.Changed("mask") {
		s.Mask = convertMask
	}
	if flags.Changed("outline") {
		s.Outline = convertOutline
	}

	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func printConvertReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	if m.Canceled {
		fmt.Println("║            wirthmage convert canceled            ║")
	} else {
		fmt.Println("║            wirthmage convert complete            ║")
	}
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	stats := m.Stats
	fmt.Printf("  Items:       %d\n", stats.TotalItems)
	fmt.Printf("  Outputs:     %d\n", stats.TotalOutputs)
	if stats.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", stats.Failed)
	}
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d  (queue %d each)\n", m.BuildInfo.Workers, m.BuildInfo.QueueSize)
	}
	fmt.Println()

	// Top 10 largest outputs.
	if len(m.Items) > 0 {
		type outputSize struct {
			path string
			size int64
			dims string
		}
		var items []outputSize
		for _, it := range m.Items {
			for _, o := range it.Outputs {
				items = append(items, outputSize{o.Path, o.Size, fmt.Sprintf("%dx%d", o.Width, o.Height)})
			}
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].size != items[j].size {
				return items[i].size > items[j].size
			}
			return items[i].path < items[j].path
		})
		n := min(len(items), 10)
		fmt.Printf("  Top %d largest outputs:\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %9s  %8s\n", truncKey(it.path, 40), it.dims, formatBytes(it.size))
		}
		fmt.Println()
	}

	if len(m.Failures) > 0 {
		fmt.Println("  Failures:")
		for _, f := range m.Failures {
			fmt.Printf("    ✗ %s: %s\n", f.Source, f.Error)
		}
		fmt.Println()
	}

	data, _ := json.Marshal(m)
	fmt.Printf("  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
