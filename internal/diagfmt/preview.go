package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"asli/internal/diag"
	"asli/internal/source"
)

// buildFixEditPreview renders the lines spanned by a fix edit before and
// after the edit is applied, for diff-style display when
// PrettyOpts.ShowPreview is set.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (before, after []string, err error) {
	if fs == nil {
		return nil, nil, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return nil, nil, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}

	startPos, endPos := fs.Resolve(edit.Span)
	endLine := endPos.Line
	if endLine < startPos.Line {
		endLine = startPos.Line
	}

	blockStart := lineStartOffset(file, startPos.Line)
	blockEnd := max(lineEndOffsetInclusive(file, endLine), blockStart)

	lenContent, convErr := safecast.Conv[uint32](len(file.Content))
	if convErr != nil {
		return nil, nil, fmt.Errorf("file content length overflow: %w", convErr)
	}
	blockEnd = min(blockEnd, lenContent)

	original := make([]byte, blockEnd-blockStart)
	copy(original, file.Content[blockStart:blockEnd])

	relStart := int(edit.Span.Start - blockStart)
	relEnd := int(edit.Span.End - blockStart)
	if relStart < 0 || relStart > len(original) {
		return nil, nil, fmt.Errorf("edit span start %d out of range", relStart)
	}
	if relEnd < relStart || relEnd > len(original) {
		return nil, nil, fmt.Errorf("edit span end %d out of range", relEnd)
	}

	patched := make([]byte, 0, len(original)+len(edit.NewText))
	patched = append(patched, original[:relStart]...)
	patched = append(patched, edit.NewText...)
	patched = append(patched, original[relEnd:]...)

	return splitPreviewLines(original), splitPreviewLines(patched), nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

func lineStartOffset(f *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	idx := line - 2
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return contentLen(f)
}

func lineEndOffsetInclusive(f *source.File, line uint32) uint32 {
	if line == 0 {
		return 0
	}
	idx := line - 1
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return contentLen(f)
}

func contentLen(f *source.File) uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file content length overflow: %w", err))
	}
	return n
}
