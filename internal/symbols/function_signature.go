package symbols

import (
	"fmt"
	"strings"

	"asli/internal/ast"
	"asli/internal/source"
)

// TypeKey is a structural, string-keyed rendering of a type expression used
// to compare overload candidates without running the full typechecker.
type TypeKey string

// FunctionSignature is the simplified view of a callable's shape that the
// resolver needs to disambiguate overload candidates: filter
// by arity, then by parameter-type compatibility.
type FunctionSignature struct {
	Params     []TypeKey
	ParamNames []source.StringID
	Defaults   []bool // true if the parameter has a default value
	Result     TypeKey
	HasBody    bool
	Throws     ast.ThrowsTag
}

func buildFunctionSignature(b *ast.Builder, strings_ *source.Interner, params []ast.FnParam, ret ast.TypeID, throws ast.ThrowsTag, hasBody bool) *FunctionSignature {
	sig := &FunctionSignature{
		Params:     make([]TypeKey, 0, len(params)),
		ParamNames: make([]source.StringID, 0, len(params)),
		Defaults:   make([]bool, 0, len(params)),
		Result:     makeTypeKey(b, strings_, ret),
		HasBody:    hasBody,
		Throws:     throws,
	}
	for _, p := range params {
		sig.Params = append(sig.Params, makeTypeKey(b, strings_, p.Type))
		sig.ParamNames = append(sig.ParamNames, p.Name)
		sig.Defaults = append(sig.Defaults, p.Default.IsValid())
	}
	return sig
}

func makeTypeKey(b *ast.Builder, strings_ *source.Interner, typeID ast.TypeID) TypeKey {
	if !typeID.IsValid() || b == nil {
		return ""
	}
	ty := b.Types.Get(typeID)
	if ty == nil {
		return TypeKey(fmt.Sprintf("type#%d", typeID))
	}
	switch ty.Kind {
	case ast.TyIdent:
		if data, ok := b.Types.Ident(typeID); ok {
			name := strings_.MustLookup(data.Name)
			if len(data.Args) == 0 {
				return TypeKey(name)
			}
			args := make([]string, 0, len(data.Args))
			for range data.Args {
				args = append(args, "expr")
			}
			return TypeKey(name + "(" + strings.Join(args, ",") + ")")
		}
	case ast.TyInteger:
		if data, ok := b.Types.Integer(typeID); ok {
			if len(data.Constraints) == 0 {
				return TypeKey("integer")
			}
			return TypeKey(fmt.Sprintf("integer{%d}", len(data.Constraints)))
		}
	case ast.TySizedInt:
		return TypeKey("sintN")
	case ast.TyBits:
		return TypeKey("bits")
	case ast.TyArray:
		if data, ok := b.Types.Array(typeID); ok {
			return TypeKey("array(" + string(makeTypeKey(b, strings_, data.Elem)) + ")")
		}
	case ast.TyTuple:
		if data, ok := b.Types.Tuple(typeID); ok {
			elems := make([]string, 0, len(data.Elems))
			for _, elem := range data.Elems {
				elems = append(elems, string(makeTypeKey(b, strings_, elem)))
			}
			return TypeKey("(" + strings.Join(elems, ",") + ")")
		}
	case ast.TyTypeOf:
		return TypeKey("typeof(expr)")
	}
	return TypeKey(fmt.Sprintf("type#%d", typeID))
}

func signaturesEqual(a, b *FunctionSignature) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Result != b.Result || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	return true
}

func signatureDiffersFromAll(sig *FunctionSignature, existing []*Symbol) bool {
	for _, sym := range existing {
		if sym == nil {
			continue
		}
		if signaturesEqual(sig, sym.Signature) {
			return false
		}
	}
	return true
}
