package source

import "testing"

func TestFileSetAddAndResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("prelude.asl", []byte("line one\nline two\nline three"), 0)

	f := fs.Get(id)
	if f.Path != "prelude.asl" {
		t.Fatalf("Path = %q, want prelude.asl", f.Path)
	}

	span := Span{File: id, Start: 9, End: 13}
	start, end := fs.Resolve(span)
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("start = %+v, want line 2 col 1", start)
	}
	if end.Line != 2 {
		t.Fatalf("end.Line = %d, want 2", end.Line)
	}

	if got := f.GetLine(2); got != "line two" {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(99); got != "" {
		t.Fatalf("GetLine(99) = %q, want empty", got)
	}
}

func TestFileSetVirtualAndLookup(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("<stdin>", []byte("x"))

	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Fatalf("expected FileVirtual flag")
	}

	got, ok := fs.GetLatest("<stdin>")
	if !ok || got != id {
		t.Fatalf("GetLatest = (%v, %v), want (%v, true)", got, ok, id)
	}

	// Re-adding the same path allocates a fresh FileID; the old span stays valid.
	id2 := fs.Add("<stdin>", []byte("y"), FileVirtual)
	if id2 == id {
		t.Fatalf("expected a distinct FileID on re-add")
	}
	if latest, _ := fs.GetLatest("<stdin>"); latest != id2 {
		t.Fatalf("GetLatest should track the most recent add")
	}
}

func TestNormalizeCRLFAndBOM(t *testing.T) {
	fs := NewFileSet()
	id, err := fs.addTestLoad("a.asl", []byte("\xEF\xBB\xBFfoo\r\nbar\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected BOM+CRLF flags, got %v", f.Flags)
	}
	if string(f.Content) != "foo\nbar\n" {
		t.Fatalf("Content = %q", f.Content)
	}
}

// addTestLoad mirrors Load's normalization without touching the filesystem.
func (fileSet *FileSet) addTestLoad(path string, raw []byte) (FileID, error) {
	content, hadBOM := removeBOM(raw)
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
