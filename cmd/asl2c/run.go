package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"asli/internal/config"
	"asli/internal/diagfmt"
	"asli/internal/driver"
	"asli/internal/emit"
	"asli/internal/project"
	runtimeembed "asli/runtime"
)

func runAsl2c(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	sess, err := sessionSettings(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	configPath, _ := flags.GetString("configuration")
	runFn, _ := flags.GetString("run")
	newFFI, _ := flags.GetBool("new-ffi")
	quiet, _ := flags.GetBool("quiet")
	maxDiags, _ := flags.GetInt("max-diagnostics")
	colorFlag, _ := flags.GetString("color")

	useColor := colorFlag == "on" || (colorFlag != "off" && isTerminal(os.Stdout))

	var ffi config.FFI
	if configPath != "" {
		if ffi, err = config.LoadFFI(configPath); err != nil {
			return err
		}
	}
	if !newFFI {
		// Without --new-ffi every function stays linkable; the imports
		// list only gates the unlisted-import filter.
		ffi.Imports = nil
	}

	files := args
	if p, ok := project.NewSearchPath(sess.ASLPath).FindPrelude(); ok && !contains(files, p) {
		files = append([]string{p}, files...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no source files given")
	}

	wd, _ := os.Getwd()
	s := driver.NewSession(wd, maxDiags)
	if err := s.LoadFiles(files); err != nil {
		return err
	}

	res, err := s.Run(driver.RunOptions{
		FFI:     ffi,
		Emit:    true,
		Backend: sess.Backend,
		EmitOptions: emit.Options{
			Basename:    sess.Basename,
			NumCFiles:   sess.NumCFiles,
			LineInfo:    sess.LineInfo,
			RunFunction: runFn,
			Exports:     ffi.Exports,
		},
		ThreadLocalPointer: sess.ThreadLocalPointer,
	})
	if err != nil {
		return err
	}

	s.Diags.Sort()
	s.Diags.Dedup()
	if s.Diags.Len() > 0 && !quiet {
		diagfmt.Pretty(os.Stderr, s.Diags, s.FS, diagfmt.PrettyOpts{
			Color:       useColor,
			BaseDir:     wd,
			ShowNotes:   true,
			ShowPreview: true,
		})
	}
	if s.Diags.HasErrors() {
		cmd.SilenceErrors = true
		return fmt.Errorf("%d diagnostics", s.Diags.Len())
	}

	if err := writeFiles(sess.OutputDir, res.Files, sess.Backend); err != nil {
		return err
	}
	if !quiet {
		fmt.Printf("wrote %d files to %s\n", len(res.Files)+2, displayDir(sess.OutputDir))
	}
	return nil
}

// sessionSettings layers CLI flags over an asl.toml manifest (when one
// exists in the working directory) over the built-in defaults.
func sessionSettings(cmd *cobra.Command) (config.Session, error) {
	sess := config.Default()
	if _, err := os.Stat("asl.toml"); err == nil {
		_, _, fromManifest, err := config.Load("asl.toml")
		if err != nil {
			return config.Session{}, err
		}
		sess = fromManifest
	}
	flags := cmd.Flags()
	if v, _ := flags.GetString("backend"); v != "" {
		b, err := config.ParseBackend(v)
		if err != nil {
			return config.Session{}, err
		}
		sess.Backend = b
	}
	if v, _ := flags.GetString("output-dir"); v != "" {
		sess.OutputDir = v
	}
	if v, _ := flags.GetString("basename"); v != "" {
		sess.Basename = v
	}
	if v, _ := flags.GetInt("num-c-files"); v > 0 {
		sess.NumCFiles = v
	}
	if v, _ := flags.GetBool("line-info"); v {
		sess.LineInfo = true
	}
	if v, _ := flags.GetString("thread-local-pointer"); v != "" {
		sess.ThreadLocalPointer = v
	}
	if v, _ := flags.GetString("thread-local"); v != "" {
		sess.ThreadLocal = v
	}
	return sess, nil
}

// writeFiles writes the emitted files plus the embedded asl_rt runtime
// sources into dir. The ac variant compiles as C++, so its generated
// bodies get a .cpp extension.
func writeFiles(dir string, files []emit.File, backend config.Backend) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, f := range files {
		name := f.Name
		if backend == config.BackendAC && strings.HasSuffix(name, ".c") {
			name = strings.TrimSuffix(name, ".c") + ".cpp"
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(f.Body), 0o644); err != nil {
			return err
		}
	}
	rtFS := runtimeembed.NativeRuntimeFS()
	return fs.WalkDir(rtFS, "native", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(rtFS, path)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, filepath.Base(path)), data, 0o644)
	})
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
