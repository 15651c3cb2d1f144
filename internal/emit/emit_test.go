package emit

import (
	"strings"
	"testing"
)

func TestCNameRenamesOnlyCollisions(t *testing.T) {
	e := &emitter{}
	cases := map[string]string{
		"if":     "asl_if",
		"struct": "asl_struct",
		"main":   "asl_main",
		"Step":   "Step",
		"x":      "x",
	}
	for in, want := range cases {
		if got := e.cName(in); got != want {
			t.Errorf("cName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCNameIsInjectiveOverReservedSet(t *testing.T) {
	e := &emitter{}
	seen := map[string]string{}
	for word := range reserved {
		out := e.cName(word)
		if prev, dup := seen[out]; dup {
			t.Fatalf("%q and %q both render as %q", prev, word, out)
		}
		seen[out] = word
	}
}

func TestEmitFuncFilesNaming(t *testing.T) {
	e := &emitter{opts: Options{Basename: "out", NumCFiles: 3}}
	files, err := e.emitFuncFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	for i, want := range []string{"out_0.c", "out_1.c", "out_2.c"} {
		if files[i].Name != want {
			t.Errorf("file %d named %q, want %q", i, files[i].Name, want)
		}
		if !strings.Contains(files[i].Body, `#include "out.h"`) {
			t.Errorf("file %d misses the shared include", i)
		}
	}

	e = &emitter{opts: Options{Basename: "out", NumCFiles: 1}}
	files, err = e.emitFuncFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Name != "out.c" {
		t.Fatalf("single-file naming: %+v", files)
	}
}
