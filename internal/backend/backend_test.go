package backend_test

import (
	"strings"
	"testing"

	"asli/internal/backend"
	_ "asli/internal/backend/ac"
	_ "asli/internal/backend/c23"
	_ "asli/internal/backend/fallback"
)

func mustNew(t *testing.T, name string) backend.Runtime {
	t.Helper()
	rt, err := backend.New(name, backend.Config{})
	if err != nil {
		t.Fatalf("backend %q not registered: %v", name, err)
	}
	return rt
}

func TestAllVariantsRegistered(t *testing.T) {
	for _, name := range []string{"fallback", "c23", "ac"} {
		rt := mustNew(t, name)
		if rt.Name() != name {
			t.Errorf("variant %q reports Name %q", name, rt.Name())
		}
		if !strings.Contains(rt.FileHeader(), "asl_rt.h") {
			t.Errorf("variant %q header misses asl_rt.h include", name)
		}
	}
	if _, err := backend.New("llvm", backend.Config{}); err == nil {
		t.Error("want error for unknown variant")
	}
}

func TestVariantsDisagreeOnlyOnRepresentation(t *testing.T) {
	fb, c23, ac := mustNew(t, "fallback"), mustNew(t, "c23"), mustNew(t, "ac")

	// Unbounded int is the shared asl_int_t in every variant.
	for _, rt := range []backend.Runtime{fb, c23, ac} {
		if got := rt.TypeName(backend.ValueInt, 0); got != "asl_int_t" {
			t.Errorf("%s: int type = %q", rt.Name(), got)
		}
	}

	if got := fb.TypeName(backend.ValueSInt, 65); got != "asl_bv_t" {
		t.Errorf("fallback sint type = %q", got)
	}
	if got := c23.TypeName(backend.ValueSInt, 65); got != "signed _BitInt(65)" {
		t.Errorf("c23 sint type = %q", got)
	}
	if got := ac.TypeName(backend.ValueSInt, 65); got != "ac_int<65, true>" {
		t.Errorf("ac sint type = %q", got)
	}
}

func TestBoundedArithRendering(t *testing.T) {
	fb, c23 := mustNew(t, "fallback"), mustNew(t, "c23")

	if got := fb.BoundedArith(backend.OpAdd, 8, "a", "b"); got != "asl_sint_add(8, a, b)" {
		t.Errorf("fallback add = %q", got)
	}
	// c23 uses the native operator where one exists...
	if got := c23.BoundedArith(backend.OpAdd, 8, "a", "b"); got != "(a + b)" {
		t.Errorf("c23 add = %q", got)
	}
	// ...and the helper library where C has no operator.
	if got := c23.BoundedArith(backend.OpFDiv, 8, "a", "b"); !strings.HasPrefix(got, "asl_sint_fdiv(") {
		t.Errorf("c23 fdiv = %q", got)
	}
}

func TestResizeIdentityIsStillACast(t *testing.T) {
	// resize_sintN n n x must be a value-preserving rendering in every
	// variant; the fallback keeps the widths explicit, c23/ac lean on the
	// target type's own truncation rules.
	fb, c23 := mustNew(t, "fallback"), mustNew(t, "c23")
	if got := fb.ResizeSInt("x", 8, 8); got != "asl_resize_sint(8, 8, x)" {
		t.Errorf("fallback resize = %q", got)
	}
	if got := c23.ResizeSInt("x", 8, 8); got != "((signed _BitInt(8))(x))" {
		t.Errorf("c23 resize = %q", got)
	}
}

func TestSliceGetWidths(t *testing.T) {
	c23 := mustNew(t, "c23")
	// x[11:4] of a 32-bit value is an 8-bit result.
	if got := c23.SliceGet("x", 32, 11, 4); got != "((unsigned _BitInt(8))((x) >> 4))" {
		t.Errorf("c23 slice = %q", got)
	}
}
