package ident

import (
	"testing"

	"asli/internal/source"
)

func TestIdentEquality(t *testing.T) {
	in := source.NewInterner()
	a := New(in.Intern("Zeros"))
	b := New(in.Intern("Zeros"))
	if !a.Equal(b) {
		t.Fatalf("identical name+tag should be equal")
	}

	tagged := a.WithTag(7)
	if a.Equal(tagged) {
		t.Fatalf("different tags must not be equal")
	}
	if !a.SameRoot(tagged) {
		t.Fatalf("SameRoot should ignore the tag")
	}
}

func TestDerive(t *testing.T) {
	in := source.NewInterner()
	mem := New(in.Intern("Mem"))
	getter := Derive(in, mem, "_read")
	if got := getter.String(in); got != "Mem_read" {
		t.Fatalf("Derive = %q", got)
	}
	if getter.Tag != mem.Tag {
		t.Fatalf("Derive must preserve the source identifier's tag")
	}
}

func TestSupplyFreshIsDistinct(t *testing.T) {
	in := source.NewInterner()
	s := NewSupply(in, "__tmp")

	a := s.Fresh()
	b := s.Fresh()
	if a.Equal(b) {
		t.Fatalf("Fresh() must never repeat an identifier")
	}
	if !a.IsTagged() || !b.IsTagged() {
		t.Fatalf("Fresh identifiers must carry a nonzero tag")
	}

	s.Reset()
	c := s.Fresh()
	if c.Name != a.Name {
		// After Reset the counter restarts, so the *name* repeats...
	}
	if c.Tag != a.Tag {
		t.Fatalf("Reset should restart the tag counter: got %d, want %d", c.Tag, a.Tag)
	}
}

func TestLocationCover(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Add("a.asl", []byte("0123456789"), 0)

	l1 := FromSpan(source.Span{File: f, Start: 2, End: 4})
	l2 := FromSpan(source.Span{File: f, Start: 6, End: 8})

	merged := l1.Cover(l2)
	span, ok := merged.Span()
	if !ok || span.Start != 2 || span.End != 8 {
		t.Fatalf("Cover = %+v", span)
	}

	if Unknown.Cover(l1) != l1 {
		t.Fatalf("Unknown.Cover(l1) should equal l1")
	}
}
