// Command asli is the batch/project driver: it loads
// source files (directly, or through a --project command file), runs
// them through the parse/resolve/check front end, and reports
// diagnostics. It never emits C; that is asl2c's job.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "asli",
	Short: "ASL batch driver",
	Long:  "asli loads ASL source files and a project file of commands, typechecks them, and reports diagnostics.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runAsli,
}

func init() {
	rootCmd.PersistentFlags().String("color", "auto", "colorize diagnostics (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 200, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Bool("nobanner", false, "suppress the startup banner")
	rootCmd.PersistentFlags().Bool("batchmode", false, "non-interactive: exit after processing the given files/project")
	rootCmd.PersistentFlags().String("project", "", "run commands from a project file")
	rootCmd.PersistentFlags().String("configuration", "", "FFI export/import list (JSON)")
	rootCmd.PersistentFlags().Int("steps", 0, "evaluator step budget (accepted for original-tool compatibility; asli performs no evaluation)")
	rootCmd.PersistentFlags().String("ui", "auto", "batch progress display (auto|on|off)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
