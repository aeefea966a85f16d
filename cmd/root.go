package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "wirthmage",
	Short: "Convert images into palette-reduced game assets",
	Long: `wirthmage — turns illustrations into card, inn and full-size assets:
center-cropped to a size preset, optionally keyed against the corner
background color with an outline, reduced to a fixed palette and written
as indexed BMP, PNG or JPEG.

Every run writes a manifest describing the files it produced.`,
	Version:      version,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"wirthmage %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[wirthmage] "+format+"\n", args...)
	}
}
