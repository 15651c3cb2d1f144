package sema

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/source"
	"asli/internal/symbols"
)

// resolveType converts an ast.TypeID into a checked Ty, following named
// type-abbreviation chains and looking up record/exception/enum
// declarations in the global symbol table. Builtin names (int, RAM,
// boolean, string) fall through the TyIdent case to their corresponding Ty
// constructor.
func (c *Checker) resolveType(id ast.TypeID) Ty {
	if !id.IsValid() {
		return Invalid()
	}
	ty := c.B.Types.Get(id)
	if ty == nil {
		return Invalid()
	}
	switch ty.Kind {
	case ast.TyIdent:
		d, _ := c.B.Types.Ident(id)
		return c.resolveNamedType(d.Name, d.Args, id)
	case ast.TyInteger:
		d, _ := c.B.Types.Integer(id)
		return IntWith(d.Constraints)
	case ast.TySizedInt:
		d, _ := c.B.Types.SizedInt(id)
		return SIntOf(d.Width)
	case ast.TyBits:
		d, _ := c.B.Types.Bits_(id)
		return BitsOf(d.Width)
	case ast.TyArray:
		d, _ := c.B.Types.Array(id)
		elem := c.resolveType(d.Elem)
		return Ty{Kind: TyArray, Elem: &elem, Size: d.Size}
	case ast.TyTuple:
		d, _ := c.B.Types.Tuple(id)
		elems := make([]Ty, len(d.Elems))
		for i, e := range d.Elems {
			elems[i] = c.resolveType(e)
		}
		return Ty{Kind: TyTuple, Elems: elems}
	case ast.TyTypeOf:
		d, _ := c.B.Types.TypeOf(id)
		return c.tcExpr(d.Expr)
	default:
		return Invalid()
	}
}

// resolveNamedType looks name up in the global environment: "int" and "RAM"
// are the two builtin named types (the builtin prelude); anything else must
// be a record, exception record, enumeration, or type abbreviation declared
// somewhere in the translation unit.
func (c *Checker) resolveNamedType(name source.StringID, args []ast.ExprID, site ast.TypeID) Ty {
	text := c.Str.MustLookup(name)
	switch text {
	case "int":
		return UnconstrainedInt()
	case "RAM":
		return RAM()
	case "boolean":
		return Bool()
	case "string":
		return String_()
	}
	symID, ok := c.Table.Types[name]
	if !ok {
		ty := c.B.Types.Get(site)
		sp := source.Span{}
		if ty != nil {
			sp = ty.Span
		}
		c.report(diag.NewError(diag.UnknownType, sp, "unknown type "+text))
		return Invalid()
	}
	sym := c.Table.Symbols.Get(symID)
	if sym == nil {
		return Invalid()
	}
	switch sym.Kind {
	case symbols.SymbolType:
		decl := c.B.Decls.Get(sym.Decl)
		if decl == nil {
			return Invalid()
		}
		switch decl.Kind {
		case ast.DeclRecord:
			return Ty{Kind: TyRecord, Name: name, Decl: sym.Decl}
		case ast.DeclExceptionRecord:
			return Ty{Kind: TyException, Name: name, Decl: sym.Decl}
		case ast.DeclEnumeration:
			return Ty{Kind: TyEnum, Name: name, Decl: sym.Decl}
		case ast.DeclTypeAbbrev:
			d, _ := c.B.Decls.TypeAbbrev(sym.Decl)
			return c.resolveType(d.Target)
		case ast.DeclForwardType:
			return Invalid()
		case ast.DeclBuiltinType:
			bd, _ := c.B.Decls.BuiltinType(sym.Decl)
			switch c.Str.MustLookup(bd.Name) {
			case "int":
				return UnconstrainedInt()
			case "RAM":
				return RAM()
			}
		}
	}
	return Invalid()
}
