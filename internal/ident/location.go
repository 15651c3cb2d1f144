package ident

import (
	"fmt"

	"asli/internal/source"
)

// Location is either Unknown or a resolved range of (file, line, column)
// positions. Every AST node that can fail typechecking carries a Location so
// diagnostics can point at source.
type Location struct {
	known bool
	span  source.Span
}

// Unknown is the Location carried by synthesized nodes with no source origin
// (builtins, generated getter/setter calls before Desugar attaches a real span).
var Unknown = Location{}

// FromSpan builds a resolved Location from a byte span.
func FromSpan(span source.Span) Location {
	return Location{known: true, span: span}
}

// IsKnown reports whether the location resolves to real source text.
func (l Location) IsKnown() bool {
	return l.known
}

// Span returns the underlying byte span and whether it is known.
func (l Location) Span() (source.Span, bool) {
	return l.span, l.known
}

// Cover returns the smallest known Location spanning both l and other. If
// either side is Unknown, the other side wins; Unknown.Cover(Unknown) is Unknown.
func (l Location) Cover(other Location) Location {
	switch {
	case !l.known:
		return other
	case !other.known:
		return l
	default:
		return Location{known: true, span: l.span.Cover(other.span)}
	}
}

// Describe renders a human-readable "file:line:col" position, or "<unknown>".
func (l Location) Describe(fs *source.FileSet) string {
	if !l.known {
		return "<unknown>"
	}
	f := fs.Get(l.span.File)
	start, _ := fs.Resolve(l.span)
	return fmt.Sprintf("%s:%d:%d", f.Path, start.Line, start.Col)
}
