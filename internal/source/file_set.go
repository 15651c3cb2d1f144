package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and provides global byte offset resolution.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase creates a FileSet rooted at the given base directory, used to resolve
// relative ASL_PATH entries.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		files:   make([]File, 0),
		index:   make(map[string]FileID),
		baseDir: baseDir,
	}
}

// SetBaseDir sets the base directory used when formatting relative paths.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir returns the current base directory, defaulting to the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores a file from normalized bytes, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists, so that
// stale spans referring to an earlier version remain valid.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller (CLI argument or ASL_PATH search)
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds a virtual file (stdin, REPL line, test fixture) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// GetByPath returns the *File for a path, if it was loaded into this FileSet.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// GetLine returns the 1-based line from a file, or "" if it does not exist.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	var start, end, lenLineIdx, lenContent uint32
	var err error
	lenLineIdx, err = safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err = safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start >= lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}

	return string(f.Content[start:end])
}

// FormatPath formats a file's path according to mode: "absolute", "relative", "basename", "auto".
// baseDir is only consulted for "relative" (falling back to the working directory).
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "auto":
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}

// AbsolutePath resolves p to an absolute, slash-normalized path.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(abs), nil
}

// RelativePath expresses p relative to base, slash-normalized.
func RelativePath(p, base string) (string, error) {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// BaseName returns the final path element of p.
func BaseName(p string) string {
	return filepath.Base(p)
}
