package diagfmt

import (
	"encoding/json"
	"io"

	"asli/internal/diag"
	"asli/internal/source"
)

type jsonPosition struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

type jsonSpan struct {
	Path  string        `json:"path"`
	Start *jsonPosition `json:"start,omitempty"`
	End   *jsonPosition `json:"end,omitempty"`
}

type jsonNote struct {
	Span jsonSpan `json:"span"`
	Msg  string   `json:"message"`
}

type jsonFixEdit struct {
	Span    jsonSpan `json:"span"`
	NewText string   `json:"newText"`
}

type jsonFix struct {
	Title string        `json:"title"`
	Edits []jsonFixEdit `json:"edits"`
}

type jsonDiagnostic struct {
	Severity string    `json:"severity"`
	Code     string    `json:"code"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Span     jsonSpan  `json:"span"`
	Notes    []jsonNote `json:"notes,omitempty"`
	Fixes    []jsonFix  `json:"fixes,omitempty"`
}

// JSON writes bag as a JSON array of diagnostics, one object per
// diagnostic, for editor/LSP consumption. Neither asli nor asl2c has a
// flag that selects this output; both print through Pretty.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	items := bag.Items()
	max := len(items)
	if opts.Max > 0 && opts.Max < max {
		max = opts.Max
	}
	out := make([]jsonDiagnostic, 0, max)
	for i := 0; i < max; i++ {
		out = append(out, toJSONDiagnostic(items[i], fs, opts))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSONDiagnostic(d diag.Diagnostic, fs *source.FileSet, opts JSONOpts) jsonDiagnostic {
	out := jsonDiagnostic{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Span:     toJSONSpan(d.Primary, fs, opts),
	}
	if opts.IncludeNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, jsonNote{Span: toJSONSpan(n.Span, fs, opts), Msg: n.Msg})
		}
	}
	if opts.IncludeFixes {
		for _, f := range d.Fixes {
			jf := jsonFix{Title: f.Title}
			for _, e := range f.Edits {
				jf.Edits = append(jf.Edits, jsonFixEdit{Span: toJSONSpan(e.Span, fs, opts), NewText: e.NewText})
			}
			out.Fixes = append(out.Fixes, jf)
		}
	}
	return out
}

func toJSONSpan(sp source.Span, fs *source.FileSet, opts JSONOpts) jsonSpan {
	if fs == nil {
		return jsonSpan{}
	}
	f := fs.Get(sp.File)
	js := jsonSpan{Path: f.FormatPath(opts.PathMode.String(), opts.BaseDir)}
	if opts.IncludePositions {
		start, end := fs.Resolve(sp)
		js.Start = &jsonPosition{Line: start.Line, Col: start.Col}
		js.End = &jsonPosition{Line: end.Line, Col: end.Col}
	}
	return js
}
