package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadManifest(t *testing.T) {
	p := writeTemp(t, "asl.toml", `
[package]
name = "cpu-spec"

[run]
main = "Reset"

[asl]
backend = "c23"
basename = "cpu"
num_c_files = 4
line_info = true
asl_path = ["spec", "lib"]
`)
	pkg, runMain, sess, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkg != "cpu-spec" || runMain != "Reset" {
		t.Fatalf("got pkg=%q main=%q", pkg, runMain)
	}
	if sess.Backend != BackendC23 || sess.Basename != "cpu" || sess.NumCFiles != 4 || !sess.LineInfo {
		t.Fatalf("session not layered over defaults: %+v", sess)
	}
	if len(sess.ASLPath) != 2 || sess.ASLPath[0] != "spec" {
		t.Fatalf("asl_path not read: %v", sess.ASLPath)
	}
	// Defaults survive for keys the manifest omits.
	if sess.MaxDiagnostics != 200 {
		t.Fatalf("MaxDiagnostics default lost: %d", sess.MaxDiagnostics)
	}
}

func TestLoadManifestRequiresPackageName(t *testing.T) {
	p := writeTemp(t, "asl.toml", "[run]\nmain = \"Reset\"\n")
	if _, _, _, err := Load(p); err == nil {
		t.Fatal("want error for missing [package].name")
	}
}

func TestParseBackend(t *testing.T) {
	for _, name := range []string{"fallback", "c23", "ac"} {
		if _, err := ParseBackend(name); err != nil {
			t.Errorf("ParseBackend(%q) failed: %v", name, err)
		}
	}
	if _, err := ParseBackend("llvm"); err == nil {
		t.Error("want error for unknown backend")
	}
}

func TestLoadFFI(t *testing.T) {
	p := writeTemp(t, "exports.json", `{"exports": ["Step", "Reset"], "imports": ["HostPrint"]}`)
	ffi, err := LoadFFI(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ffi.Exports) != 2 || ffi.Exports[1] != "Reset" || len(ffi.Imports) != 1 {
		t.Fatalf("unexpected FFI: %+v", ffi)
	}
}

func TestLoadFFIRejectsMalformedJSON(t *testing.T) {
	p := writeTemp(t, "exports.json", "{exports}")
	if _, err := LoadFFI(p); err == nil {
		t.Fatal("want error for malformed JSON")
	}
}
