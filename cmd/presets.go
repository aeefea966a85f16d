package cmd

import (
	"fmt"

	"github.com/AnyUserName/wirthmage-cli/internal/dimension"
	"github.com/AnyUserName/wirthmage-cli/internal/mask"
	"github.com/AnyUserName/wirthmage-cli/internal/setting"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List size presets, settings presets and outline styles",
	Args:  cobra.NoArgs,
	Run:   runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(_ *cobra.Command, _ []string) {
	fmt.Println()
	fmt.Println("  Sizes:")
	fmt.Printf("    %-6s  source size (x2/x4 disabled)\n", dimension.ASIS)
	for _, name := range dimension.PresetNames() {
		d, _ := dimension.Preset(name)
		fmt.Printf("    %-6s  %s\n", name, d)
	}
	fmt.Println()

	fmt.Println("  Settings presets (--preset):")
	for _, name := range setting.Names() {
		s, _ := setting.Get(name)
		scales := ""
		for _, sc := range s.Scales()[1:] {
			scales += " " + sc.Suffix
		}
		outline := s.Outline
		if outline == "" {
			outline = "none"
		}
		fmt.Printf("    %-10s  %-4s %-4s colors=%-3d mask=%-5t outline=%s%s\n",
			name, s.OutputSize, s.OutputType, s.Colors, s.Mask, outline, scales)
	}
	fmt.Println()

	fmt.Println("  Outline styles (--outline):")
	fmt.Printf("    %-18s  %s\n", "none", "no outline")
	for _, pair := range mask.OutlineStyleNames() {
		fmt.Printf("    %-18s  %s\n", pair[0], pair[1])
	}
	fmt.Printf("    %-18s  %s\n", "inner=..,outer=..", "custom colors, e.g. inner=#202040,outer=white")
	fmt.Println()
}
