package diagfmt

// PathMode specifies how file paths are displayed, forwarded verbatim to
// source.File.FormatPath's mode string.
type PathMode uint8

const (
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// PrettyOpts configures human-readable diagnostic rendering.
type PrettyOpts struct {
	Color       bool
	Context     uint8 // extra source lines to show above/below the primary span
	PathMode    PathMode
	BaseDir     string
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures structured diagnostic output consumed by editors/LSP
// clients.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	BaseDir          string
	Max              int
	IncludeNotes     bool
	IncludeFixes     bool
}
