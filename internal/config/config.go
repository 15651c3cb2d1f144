// Package config loads asli/asl2c session configuration: the project
// manifest (asl.toml) and the FFI import/export list asl2c
// accepts as a `--configuration <json>` file.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Backend names the runtime variant an asl2c invocation targets.
type Backend string

const (
	BackendFallback Backend = "fallback"
	BackendC23      Backend = "c23"
	BackendAC       Backend = "ac"
)

func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendFallback, BackendC23, BackendAC:
		return Backend(s), nil
	default:
		return "", fmt.Errorf("unknown backend %q: want fallback, c23, or ac", s)
	}
}

// Session holds every session setting asli/asl2c accept, merged from
// the project manifest and overridden by CLI flags.
type Session struct {
	ASLPath             []string `toml:"asl_path"`
	MaxDiagnostics      int      `toml:"max_diagnostics"`
	Backend             Backend  `toml:"backend"`
	OutputDir           string   `toml:"output_dir"`
	Basename            string   `toml:"basename"`
	NumCFiles           int      `toml:"num_c_files"`
	LineInfo            bool     `toml:"line_info"`
	ThreadLocalPointer  string   `toml:"thread_local_pointer"`
	ThreadLocal         string   `toml:"thread_local"`
}

// manifestDoc is the on-disk shape of asl.toml: [package]/[run] tables
// plus an [asl] table carrying the settings unique to this compiler.
type manifestDoc struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Run struct {
		Main string `toml:"main"`
	} `toml:"run"`
	ASL Session `toml:"asl"`
}

// Default returns the built-in defaults applied before any manifest or
// flag is consulted.
func Default() Session {
	return Session{
		MaxDiagnostics: 200,
		Backend:        BackendFallback,
		Basename:       "out",
		NumCFiles:      1,
	}
}

// Load reads path as a TOML project manifest and returns its package name,
// run-main entry, and asl-specific session settings layered over Default().
func Load(path string) (pkgName, runMain string, sess Session, err error) {
	var doc manifestDoc
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return "", "", Session{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") || strings.TrimSpace(doc.Package.Name) == "" {
		return "", "", Session{}, fmt.Errorf("%s: missing [package].name", path)
	}
	sess = Default()
	if meta.IsDefined("asl", "asl_path") {
		sess.ASLPath = doc.ASL.ASLPath
	}
	if meta.IsDefined("asl", "max_diagnostics") {
		sess.MaxDiagnostics = doc.ASL.MaxDiagnostics
	}
	if meta.IsDefined("asl", "backend") {
		sess.Backend = doc.ASL.Backend
	}
	if meta.IsDefined("asl", "output_dir") {
		sess.OutputDir = doc.ASL.OutputDir
	}
	if meta.IsDefined("asl", "basename") {
		sess.Basename = doc.ASL.Basename
	}
	if meta.IsDefined("asl", "num_c_files") && doc.ASL.NumCFiles > 0 {
		sess.NumCFiles = doc.ASL.NumCFiles
	}
	if meta.IsDefined("asl", "line_info") {
		sess.LineInfo = doc.ASL.LineInfo
	}
	if meta.IsDefined("asl", "thread_local_pointer") {
		sess.ThreadLocalPointer = doc.ASL.ThreadLocalPointer
	}
	if meta.IsDefined("asl", "thread_local") {
		sess.ThreadLocal = doc.ASL.ThreadLocal
	}
	return doc.Package.Name, doc.Run.Main, sess, nil
}
