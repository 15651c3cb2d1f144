package project

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseProjectCommands(t *testing.T) {
	input := `# comment
load prelude.asl
load spec/memory.asl

configuration exports.json
steps 100
run
`
	cmds, err := parseProjectCommands(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Command{
		{Kind: CmdLoad, Arg: "prelude.asl", Line: 2},
		{Kind: CmdLoad, Arg: "spec/memory.asl", Line: 3},
		{Kind: CmdConfiguration, Arg: "exports.json", Line: 5},
		{Kind: CmdSteps, Arg: "100", Line: 6},
		{Kind: CmdRun, Line: 7},
	}
	if diff := cmp.Diff(want, cmds); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProjectCommandsRejectsUnknownDirective(t *testing.T) {
	_, err := parseProjectCommands(strings.NewReader("evaluate foo\n"))
	if err == nil || !strings.Contains(err.Error(), "unknown project directive") {
		t.Fatalf("want unknown-directive error, got %v", err)
	}
}

func TestParseProjectCommandsRejectsBareLoad(t *testing.T) {
	if _, err := parseProjectCommands(strings.NewReader("load\n")); err == nil {
		t.Fatal("want error for load without a path")
	}
}

func TestSearchPathFindsPrelude(t *testing.T) {
	dir := t.TempDir()
	prelude := filepath.Join(dir, "prelude.asl")
	if err := os.WriteFile(prelude, []byte("// prelude\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ASL_PATH", dir)

	got, ok := NewSearchPath(nil).FindPrelude()
	if !ok || got != prelude {
		t.Fatalf("FindPrelude = %q, %v; want %q, true", got, ok, prelude)
	}
}

func TestSearchPathExplicitEntriesWin(t *testing.T) {
	envDir := t.TempDir()
	explicitDir := t.TempDir()
	for _, d := range []string{envDir, explicitDir} {
		if err := os.WriteFile(filepath.Join(d, "common.asl"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("ASL_PATH", envDir)

	got, ok := NewSearchPath([]string{explicitDir}).Find("common.asl")
	if !ok || got != filepath.Join(explicitDir, "common.asl") {
		t.Fatalf("Find = %q, %v; want the explicit entry first", got, ok)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	unit := &CachedUnit{
		Path:        "spec/memory.asl",
		ContentHash: Digest(sha256.Sum256([]byte("func Mem() => bits(8)"))),
		Broken:      true,
		Diagnostics: []CachedDiagnostic{
			{Severity: 2, Code: "SEM3401", Message: "width mismatch", Line: 3, Col: 7},
		},
	}
	if err := cache.Put(unit); err != nil {
		t.Fatal(err)
	}

	got, ok, err := cache.Get(unit.ContentHash)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v; want hit", ok, err)
	}
	if got.Path != unit.Path || got.Broken != unit.Broken || len(got.Diagnostics) != 1 {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.Diagnostics[0] != unit.Diagnostics[0] {
		t.Fatalf("diagnostic mismatch: %+v", got.Diagnostics[0])
	}

	if _, ok, _ := cache.Get(Digest(sha256.Sum256([]byte("something else")))); ok {
		t.Fatal("unexpected hit for a different digest")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := cache.Get(unit.ContentHash); ok {
		t.Fatal("entry survived DropAll")
	}
}
