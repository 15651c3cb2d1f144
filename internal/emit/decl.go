package emit

import (
	"fmt"
	"strings"

	"asli/internal/ast"
	"asli/internal/source"
)

// declPrototype renders the header-file forward declaration for id, or ""
// for declarations that contribute no C prototype (operators, builtins,
// getters/setters inlined away by GetSetInlinePass, config constants
// rendered as plain globals in the types file).
func (e *emitter) declPrototype(id ast.DeclID) string {
	decl := e.in.B.Decls.Get(id)
	if decl == nil {
		return ""
	}
	switch decl.Kind {
	case ast.DeclFunctionDef:
		d, _ := e.in.B.Decls.FunctionDef(id)
		return fmt.Sprintf("%s %s(%s)", e.cType(d.ReturnType), e.cName(e.lookupString(d.Name)), e.cParamList(d.Params))
	case ast.DeclFunctionType:
		d, _ := e.in.B.Decls.FunctionType(id)
		return fmt.Sprintf("%s %s(%s)", e.cType(d.ReturnType), e.cName(e.lookupString(d.Name)), e.cParamList(d.Params))
	case ast.DeclRecord:
		d, _ := e.in.B.Decls.Record(id)
		return e.structDecl(d.Name, d.Fields)
	case ast.DeclExceptionRecord:
		d, _ := e.in.B.Decls.ExceptionRecord(id)
		return e.structDecl(d.Name, d.Fields)
	case ast.DeclEnumeration:
		d, _ := e.in.B.Decls.Enumeration(id)
		return e.enumDecl(d.Name, d.Members)
	case ast.DeclConstant:
		d, _ := e.in.B.Decls.Constant(id)
		return fmt.Sprintf("extern %s %s%s", e.cType(d.Type), e.cName(e.lookupString(d.Name)), e.arraySuffix(d.Type))
	case ast.DeclConfigConstant:
		d, _ := e.in.B.Decls.ConfigConstant(id)
		return fmt.Sprintf("extern %s %s%s", e.cType(d.Type), e.cName(e.lookupString(d.Name)), e.arraySuffix(d.Type))
	case ast.DeclVariable:
		d, _ := e.in.B.Decls.Variable(id)
		return fmt.Sprintf("extern %s %s%s", e.cType(d.Type), e.cName(e.lookupString(d.Name)), e.arraySuffix(d.Type))
	default:
		return ""
	}
}

func (e *emitter) structDecl(name source.StringID, fields []ast.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "struct %s {\n", e.cName(e.lookupString(name)))
	for _, f := range fields {
		fmt.Fprintf(&b, "    %s %s%s;\n", e.cType(f.Type), e.cName(e.lookupString(f.Name)), e.arraySuffix(f.Type))
	}
	b.WriteString("}")
	return b.String()
}

func (e *emitter) enumDecl(name source.StringID, members []ast.EnumMember) string {
	var b strings.Builder
	fmt.Fprintf(&b, "enum %s {\n", e.cName(e.lookupString(name)))
	for i, m := range members {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "    %s_%s", e.cName(e.lookupString(name)), e.cName(e.lookupString(m.Name)))
	}
	b.WriteString("\n}")
	return b.String()
}

// emitTypeOrGlobalDecl writes the types file's entry for id: struct/enum
// tag definitions and global variable storage (constants, config constants
// with their session-overridable default, and module-level variables).
// Function declarations contribute nothing here; emitFuncFiles handles them.
func (e *emitter) emitTypeOrGlobalDecl(b *strings.Builder, id ast.DeclID) {
	decl := e.in.B.Decls.Get(id)
	if decl == nil {
		return
	}
	switch decl.Kind {
	case ast.DeclRecord:
		d, _ := e.in.B.Decls.Record(id)
		fmt.Fprintf(b, "%s;\n\n", e.structDecl(d.Name, d.Fields))
	case ast.DeclExceptionRecord:
		d, _ := e.in.B.Decls.ExceptionRecord(id)
		fmt.Fprintf(b, "%s;\n\n", e.structDecl(d.Name, d.Fields))
	case ast.DeclEnumeration:
		d, _ := e.in.B.Decls.Enumeration(id)
		fmt.Fprintf(b, "%s;\n\n", e.enumDecl(d.Name, d.Members))
	case ast.DeclConstant:
		d, _ := e.in.B.Decls.Constant(id)
		fmt.Fprintf(b, "%s %s%s = %s;\n\n", e.cType(d.Type), e.cName(e.lookupString(d.Name)), e.arraySuffix(d.Type), e.expr(d.Value))
	case ast.DeclConfigConstant:
		d, _ := e.in.B.Decls.ConfigConstant(id)
		fmt.Fprintf(b, "%s %s%s = %s;\n\n", e.cType(d.Type), e.cName(e.lookupString(d.Name)), e.arraySuffix(d.Type), e.expr(d.Default))
	case ast.DeclVariable:
		d, _ := e.in.B.Decls.Variable(id)
		init := ""
		if d.Init.IsValid() {
			init = " = " + e.expr(d.Init)
		}
		fmt.Fprintf(b, "%s %s%s%s;\n\n", e.cType(d.Type), e.cName(e.lookupString(d.Name)), e.arraySuffix(d.Type), init)
	}
}

// functionBody renders a DeclFunctionDef's full C definition; it returns
// ok=false for every other declaration kind, which the caller skips.
func (e *emitter) functionBody(id ast.DeclID) (string, bool, error) {
	decl := e.in.B.Decls.Get(id)
	if decl == nil || decl.Kind != ast.DeclFunctionDef {
		return "", false, nil
	}
	d, _ := e.in.B.Decls.FunctionDef(id)
	if !d.Body.IsValid() {
		return "", false, nil // prototype only, no definition to emit
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s(%s) {\n", e.cType(d.ReturnType), e.cName(e.lookupString(d.Name)), e.cParamList(d.Params))
	s := &stmtPrinter{e: e, out: &b, indent: 1}
	if err := s.stmt(d.Body); err != nil {
		return "", false, err
	}
	b.WriteString("}\n")
	return b.String(), true, nil
}
