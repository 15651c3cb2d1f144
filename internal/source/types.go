package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata recorded while a file was loaded.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was synthesized in memory (test fixture, stdin, REPL line) rather than read from disk.
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM indicates a UTF-8 byte-order mark was stripped on load.
	FileHadBOM
	// FileNormalizedCRLF indicates CRLF line endings were rewritten to LF on load.
	FileNormalizedCRLF
)

// File holds the content and indexing metadata for one loaded source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based human-readable source position.
type LineCol struct {
	Line uint32
	Col  uint32
}
