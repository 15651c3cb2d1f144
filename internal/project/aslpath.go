package project

import (
	"os"
	"path/filepath"
	"strings"
)

// SearchPath is the resolved, ordered list of directories to search for a
// source file named by an ASL_PATH-relative path (in particular
// prelude.asl).
type SearchPath struct {
	dirs []string
}

// NewSearchPath builds a SearchPath from an explicit directory list
// followed by the colon-separated ASL_PATH environment variable, matching
// the order a shell PATH lookup uses: explicit entries first.
func NewSearchPath(explicit []string) SearchPath {
	dirs := make([]string, 0, len(explicit)+4)
	dirs = append(dirs, explicit...)
	if env := os.Getenv("ASL_PATH"); env != "" {
		for _, d := range strings.Split(env, string(os.PathListSeparator)) {
			if d != "" {
				dirs = append(dirs, d)
			}
		}
	}
	return SearchPath{dirs: dirs}
}

// Find returns the first existing "<dir>/<name>" along the search path.
func (sp SearchPath) Find(name string) (string, bool) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return name, true
		}
		return "", false
	}
	for _, d := range sp.dirs {
		candidate := filepath.Join(d, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// FindPrelude locates prelude.asl along the search path.
func (sp SearchPath) FindPrelude() (string, bool) {
	return sp.Find("prelude.asl")
}

// Dirs returns the resolved directory list, explicit entries first.
func (sp SearchPath) Dirs() []string {
	return sp.dirs
}
