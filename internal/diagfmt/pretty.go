package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"asli/internal/diag"
	"asli/internal/source"
)

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	warnColor   = color.New(color.FgYellow, color.Bold)
	infoColor   = color.New(color.FgCyan, color.Bold)
	locColor    = color.New(color.Faint)
	caretColor  = color.New(color.FgRed, color.Bold)
	noteColor   = color.New(color.FgBlue)
	fixColor    = color.New(color.FgGreen)
	gutterColor = color.New(color.Faint)
)

// Pretty renders every diagnostic in bag, in order, as a human-readable
// report: "<path>:<line>:<col>: <SEVERITY> <code>: <message>" followed by a
// source excerpt with a caret underline under the primary span, then notes
// and suggested fixes in the same shape. Call bag.Sort() first for stable,
// deterministic ordering.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	items := bag.Items()
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeDiagnostic(w, items[i], fs, opts)
	}
}

func writeDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	fmt.Fprintf(w, "%s: %s %s: %s\n", locString(fs, d.Primary, opts), sevString(d.Severity, opts.Color), d.Code.ID(), d.Message)
	if fs != nil {
		writeExcerpt(w, fs, d.Primary, opts)
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", noteLabel(opts.Color), locString(fs, n.Span, opts), n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			writeFix(w, fs, f, opts)
		}
	}
}

func locString(fs *source.FileSet, sp source.Span, opts PrettyOpts) string {
	if fs == nil {
		return sp.String()
	}
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	path := f.FormatPath(opts.PathMode.String(), opts.BaseDir)
	s := fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
	if opts.Color {
		return locColor.Sprint(s)
	}
	return s
}

func sevString(sev diag.Severity, colored bool) string {
	s := sev.String()
	if !colored {
		return s
	}
	switch sev {
	case diag.SevError:
		return errorColor.Sprint(s)
	case diag.SevWarning:
		return warnColor.Sprint(s)
	default:
		return infoColor.Sprint(s)
	}
}

func noteLabel(colored bool) string {
	if colored {
		return noteColor.Sprint("note:")
	}
	return "note:"
}

// writeExcerpt prints the source line(s) covering sp, with opts.Context
// extra lines above and below, and a caret underline beneath sp's columns
// on its start line.
func writeExcerpt(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	firstLine := start.Line
	if uint32(opts.Context) < firstLine {
		firstLine -= uint32(opts.Context)
	} else {
		firstLine = 1
	}
	lastLine := end.Line + uint32(opts.Context)

	gutterWidth := len(fmt.Sprintf("%d", lastLine))
	for line := firstLine; line <= lastLine; line++ {
		text := f.GetLine(line)
		if text == "" && line != start.Line {
			continue
		}
		gutter := fmt.Sprintf("%*d | ", gutterWidth, line)
		if opts.Color {
			gutter = gutterColor.Sprint(gutter)
		}
		fmt.Fprintf(w, "%s%s\n", gutter, text)
		if line == start.Line {
			writeCaretLine(w, gutterWidth, start.Col, caretWidth(start, end), text, opts.Color)
		}
	}
}

func caretWidth(start, end source.LineCol) int {
	if end.Line != start.Line {
		return 1
	}
	if end.Col <= start.Col {
		return 1
	}
	return int(end.Col - start.Col)
}

func writeCaretLine(w io.Writer, gutterWidth int, col uint32, width int, line string, colored bool) {
	pad := strings.Repeat(" ", int(col-1))
	carets := strings.Repeat("^", width)
	if colored {
		carets = caretColor.Sprint(carets)
	}
	blankGutter := strings.Repeat(" ", gutterWidth) + " | "
	if colored {
		blankGutter = gutterColor.Sprint(blankGutter)
	}
	fmt.Fprintf(w, "%s%s%s\n", blankGutter, pad, carets)
}

func writeFix(w io.Writer, fs *source.FileSet, f diag.Fix, opts PrettyOpts) {
	title := f.Title
	if opts.Color {
		title = fixColor.Sprint(title)
	}
	fmt.Fprintf(w, "  fix: %s\n", title)
	if !opts.ShowPreview {
		return
	}
	for _, e := range f.Edits {
		before, after, err := buildFixEditPreview(fs, e)
		if err != nil {
			continue
		}
		for _, l := range before {
			fmt.Fprintf(w, "    - %s\n", l)
		}
		for _, l := range after {
			fmt.Fprintf(w, "    + %s\n", l)
		}
	}
}
