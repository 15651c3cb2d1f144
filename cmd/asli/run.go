package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"asli/internal/config"
	"asli/internal/diagfmt"
	"asli/internal/driver"
	"asli/internal/project"
	"asli/internal/ui"
	"asli/internal/version"
)

func runAsli(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	flags := cmd.Flags()
	nobanner, _ := flags.GetBool("nobanner")
	quiet, _ := flags.GetBool("quiet")
	maxDiags, _ := flags.GetInt("max-diagnostics")
	projectPath, _ := flags.GetString("project")
	configPath, _ := flags.GetString("configuration")
	colorFlag, _ := flags.GetString("color")
	uiFlag, _ := flags.GetString("ui")

	useColor, err := readColorMode(colorFlag)
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	if !nobanner && !quiet {
		fmt.Printf("ASLi %s\n", version.Version)
	}

	files := append([]string(nil), args...)
	var ffi config.FFI
	if configPath != "" {
		if ffi, err = config.LoadFFI(configPath); err != nil {
			return err
		}
	}
	if projectPath != "" {
		cmds, err := project.ParseProjectFile(projectPath)
		if err != nil {
			return err
		}
		for _, c := range cmds {
			switch c.Kind {
			case project.CmdLoad:
				files = append(files, c.Arg)
			case project.CmdConfiguration:
				if ffi, err = config.LoadFFI(c.Arg); err != nil {
					return fmt.Errorf("line %d: %w", c.Line, err)
				}
			case project.CmdSteps:
				if _, err := strconv.Atoi(c.Arg); err != nil {
					return fmt.Errorf("line %d: steps wants a count, got %q", c.Line, c.Arg)
				}
				// Accepted for the evaluator collaborator; asli itself
				// performs no evaluation.
			case project.CmdRun:
				// The front end runs once over everything loaded; a run
				// directive carries no extra state here.
			}
		}
	}
	files = withPrelude(files)
	if len(files) == 0 {
		return fmt.Errorf("no source files: pass paths or --project")
	}

	wd, _ := os.Getwd()
	sess := driver.NewSession(wd, maxDiags)
	if err := sess.LoadFiles(files); err != nil {
		return err
	}

	runOpts := driver.RunOptions{FFI: ffi}
	if shouldUseTUI(mode) && !quiet {
		if err := runWithProgress(sess, files, runOpts); err != nil {
			return err
		}
	} else if _, err := sess.Run(runOpts); err != nil {
		return err
	}

	sess.Diags.Sort()
	sess.Diags.Dedup()
	if !quiet || sess.Diags.HasErrors() {
		diagfmt.Pretty(os.Stderr, sess.Diags, sess.FS, diagfmt.PrettyOpts{
			Color:       useColor,
			BaseDir:     wd,
			ShowNotes:   true,
			ShowFixes:   true,
			ShowPreview: true,
		})
	}
	if sess.Diags.HasErrors() {
		cmd.SilenceErrors = true
		return fmt.Errorf("%d diagnostics", sess.Diags.Len())
	}
	return nil
}

// withPrelude places prelude.asl (found along ASL_PATH) ahead of files
// unless one of them already names it.
func withPrelude(files []string) []string {
	for _, f := range files {
		if filepath.Base(f) == "prelude.asl" {
			return files
		}
	}
	if p, ok := project.NewSearchPath(nil).FindPrelude(); ok {
		return append([]string{p}, files...)
	}
	return files
}

// runWithProgress drives the pipeline with the bubbletea progress display
// attached via a ChannelSink; pipeline and display run concurrently, the
// channel close tells the display to quit.
func runWithProgress(sess *driver.Session, files []string, opts driver.RunOptions) error {
	events := make(chan driver.Event, 64)
	sess.Sink = driver.ChannelSink{Ch: events}
	prog := tea.NewProgram(ui.NewProgressModel("asli", files, events))

	runErr := make(chan error, 1)
	go func() {
		_, err := sess.Run(opts)
		close(events)
		runErr <- err
	}()
	// A terminal that rejects the TUI only loses the display; the
	// pipeline result still decides the outcome. Keep draining events so
	// the pipeline never blocks on a display that already exited.
	_, _ = prog.Run()
	go func() {
		for range events {
		}
	}()
	return <-runErr
}
