package symbols

import "asli/internal/source"

// PreludeEntry describes a symbol injected into the global scope before any
// source is resolved. The prelude supplies the two builtin named types
// (int, RAM) plus the backend intrinsic surface: integer
// arithmetic, sintN resize/convert, RAM access, and the print primitives the
// emitter lowers calls to directly instead of generating a callee.
type PreludeEntry struct {
	Name      string
	Kind      SymbolKind
	Signature *FunctionSignature
}

func sig(params []string, result string) *FunctionSignature {
	keys := make([]TypeKey, len(params))
	names := make([]source.StringID, len(params))
	defaults := make([]bool, len(params))
	for i, p := range params {
		keys[i] = TypeKey(p)
		names[i] = source.NoStringID
	}
	return &FunctionSignature{
		Params:     keys,
		ParamNames: names,
		Defaults:   defaults,
		Result:     TypeKey(result),
		HasBody:    false,
	}
}

// builtinPreludeEntries returns the default set of built-in symbols exposed
// to every translation unit.
func builtinPreludeEntries() []PreludeEntry {
	entries := []PreludeEntry{
		{Name: "int", Kind: SymbolType},
		{Name: "RAM", Kind: SymbolType},
	}

	arith := []string{
		"add", "sub", "neg", "mul", "shl", "shr",
		"zdiv", "zrem", "fdiv", "frem", "exact_div",
		"eq", "ne", "lt", "le", "gt", "ge",
		"align", "is_pow2", "mod_pow2", "pow2",
		"min", "max",
	}
	for _, name := range arith {
		result := "int"
		switch name {
		case "eq", "ne", "lt", "le", "gt", "ge", "is_pow2":
			result = "bool"
		}
		entries = append(entries, PreludeEntry{
			Name:      name,
			Kind:      SymbolFunction,
			Signature: sig([]string{"int", "int"}, result),
		})
	}

	entries = append(entries,
		PreludeEntry{Name: "resize_sintN", Kind: SymbolFunction, Signature: sig([]string{"sintN", "int"}, "sintN")},
		PreludeEntry{Name: "cvt_int_sintN", Kind: SymbolFunction, Signature: sig([]string{"int"}, "sintN")},
		PreludeEntry{Name: "cvt_sintN_int", Kind: SymbolFunction, Signature: sig([]string{"sintN"}, "int")},

		PreludeEntry{Name: "ram_init", Kind: SymbolFunction, Signature: sig([]string{"int"}, "RAM")},
		PreludeEntry{Name: "ram_read", Kind: SymbolFunction, Signature: sig([]string{"RAM", "int"}, "bits")},
		PreludeEntry{Name: "ram_write", Kind: SymbolFunction, Signature: sig([]string{"RAM", "int", "bits"}, "nothing")},

		PreludeEntry{Name: "print_int", Kind: SymbolFunction, Signature: sig([]string{"int"}, "nothing")},
		PreludeEntry{Name: "print_sintN", Kind: SymbolFunction, Signature: sig([]string{"sintN"}, "nothing")},
		PreludeEntry{Name: "print_bits", Kind: SymbolFunction, Signature: sig([]string{"bits"}, "nothing")},
		PreludeEntry{Name: "print_char", Kind: SymbolFunction, Signature: sig([]string{"int"}, "nothing")},
		PreludeEntry{Name: "print_string", Kind: SymbolFunction, Signature: sig([]string{"string"}, "nothing")},
		PreludeEntry{Name: "print_decimal", Kind: SymbolFunction, Signature: sig([]string{"int"}, "nothing")},
		PreludeEntry{Name: "print_hex", Kind: SymbolFunction, Signature: sig([]string{"int"}, "nothing")},
	)
	return entries
}

// mergePrelude combines the default builtins with caller-supplied entries,
// letting a backend variant (fallback/c23/ac) extend the intrinsic surface.
func mergePrelude(custom []PreludeEntry) []PreludeEntry {
	defaults := builtinPreludeEntries()
	if len(custom) == 0 {
		return defaults
	}
	result := make([]PreludeEntry, 0, len(defaults)+len(custom))
	result = append(result, defaults...)
	result = append(result, custom...)
	return result
}
