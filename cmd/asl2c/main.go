// Command asl2c compiles ASL source files into C-family translation
// units: it runs the same front end as asli, then the transform pipeline
// and the C emitter, and writes the generated files (plus the asl_rt
// runtime support sources) into the output directory.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "asl2c [files]",
	Short: "ASL to C compiler",
	Long:  "asl2c typechecks ASL source files, lowers them to a monomorphic form, and emits C source for one of three runtime variants (fallback, c23, ac).",
	Args:  cobra.ArbitraryArgs,
	RunE:  runAsl2c,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("backend", "", "runtime variant: fallback, c23, or ac")
	f.String("output-dir", "", "directory for generated files (default: current directory)")
	f.String("basename", "", "base name of the generated files")
	f.Int("num-c-files", 0, "number of function files to split definitions across")
	f.Bool("new-ffi", false, "restrict imported functions to the configuration's imports list")
	f.Bool("line-info", false, "emit #line directives pointing at the ASL source")
	f.String("thread-local-pointer", "", "route global accesses through this thread-local pointer")
	f.String("thread-local", "", "configuration group of globals to wrap thread-locally")
	f.String("configuration", "", "FFI export/import list (JSON)")
	f.String("run", "", "emit a main() that calls this function")
	f.Int("max-diagnostics", 200, "maximum number of diagnostics to show")
	f.String("color", "auto", "colorize diagnostics (auto|on|off)")
	f.Bool("quiet", false, "suppress non-essential output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
