package emit

import (
	"fmt"
	"strings"

	"asli/internal/ast"
	"asli/internal/sema"
	"asli/internal/source"
)

// stmtPrinter walks a statement tree into indented C source. By the time
// emit runs, internal/xform's lowering passes have already eliminated
// tuple/bittuple bindings, case statements, and let-expressions, so the
// shapes here are deliberately narrower than ast.StmtKind's full set;
// anything that should not survive the pipeline fails with an internal
// error rather than silently mis-rendering.
type stmtPrinter struct {
	e      *emitter
	out    *strings.Builder
	indent int
}

func (s *stmtPrinter) pad() string { return strings.Repeat("    ", s.indent) }

// lineInfo writes a #line directive pointing at the statement's source
// position when --line-info is on. Statements synthesized by the checker
// or the transform pipeline carry an empty span and emit no directive.
func (s *stmtPrinter) lineInfo(span source.Span) {
	if !s.e.opts.LineInfo || s.e.in.FS == nil || span.Empty() {
		return
	}
	start, _ := s.e.in.FS.Resolve(span)
	fmt.Fprintf(s.out, "#line %d %q\n", start.Line, s.e.in.FS.Get(span.File).Path)
}

func (s *stmtPrinter) stmt(id ast.StmtID) error {
	if !id.IsValid() {
		return nil
	}
	st := s.e.in.B.Stmts.Get(id)
	if st == nil {
		return nil
	}
	s.lineInfo(st.Span)
	switch st.Kind {
	case ast.StmtBlock:
		d, _ := s.e.in.B.Stmts.Block(id)
		for _, child := range d.Stmts {
			if err := s.stmt(child); err != nil {
				return err
			}
		}
		return nil
	case ast.StmtVarDecl:
		return s.varDecl(id)
	case ast.StmtAssign:
		return s.assign(id)
	case ast.StmtCallExpr:
		d, _ := s.e.in.B.Stmts.CallExpr(id)
		fmt.Fprintf(s.out, "%s%s;\n", s.pad(), s.e.expr(d.Call))
		return nil
	case ast.StmtReturn:
		d, _ := s.e.in.B.Stmts.Return(id)
		if d.HasValue {
			fmt.Fprintf(s.out, "%sreturn %s;\n", s.pad(), s.e.expr(d.Value))
		} else {
			fmt.Fprintf(s.out, "%sreturn;\n", s.pad())
		}
		return nil
	case ast.StmtAssert:
		d, _ := s.e.in.B.Stmts.Assert(id)
		fmt.Fprintf(s.out, "%sasl_assert(%s);\n", s.pad(), s.e.expr(d.Cond))
		return nil
	case ast.StmtThrow:
		d, _ := s.e.in.B.Stmts.Throw(id)
		t, ok := s.e.in.Sema.ExprTypes[d.Exception]
		if !ok || t.Kind != sema.TyException {
			return fmt.Errorf("throw of non-exception expression cannot be emitted")
		}
		name := s.e.cName(s.e.lookupString(t.Name))
		fmt.Fprintf(s.out, "%sdo { struct %s asl_exn_val = %s; asl_throw(%q, &asl_exn_val, sizeof asl_exn_val); } while (0);\n",
			s.pad(), name, s.e.expr(d.Exception), name)
		return nil
	case ast.StmtTryCatch:
		return s.tryCatch(id)
	case ast.StmtIf:
		return s.ifStmt(id)
	case ast.StmtForTo:
		return s.forTo(id)
	case ast.StmtWhile:
		d, _ := s.e.in.B.Stmts.While(id)
		fmt.Fprintf(s.out, "%swhile (%s) {\n", s.pad(), s.e.expr(d.Cond))
		s.indent++
		if err := s.stmt(d.Body); err != nil {
			return err
		}
		s.indent--
		fmt.Fprintf(s.out, "%s}\n", s.pad())
		return nil
	case ast.StmtRepeatUntil:
		d, _ := s.e.in.B.Stmts.RepeatUntil(id)
		fmt.Fprintf(s.out, "%sdo {\n", s.pad())
		s.indent++
		if err := s.stmt(d.Body); err != nil {
			return err
		}
		s.indent--
		fmt.Fprintf(s.out, "%s} while (!(%s));\n", s.pad(), s.e.expr(d.Cond))
		return nil
	case ast.StmtCase:
		return internalStmtError(s, id, "case statement reached emit; CasePass should have lowered it")
	default:
		return internalStmtError(s, id, "unhandled statement kind in emit")
	}
}

func internalStmtError(s *stmtPrinter, id ast.StmtID, msg string) error {
	if st := s.e.in.B.Stmts.Get(id); st != nil {
		return fmt.Errorf("%s (span %v)", msg, st.Span)
	}
	return fmt.Errorf("%s", msg)
}

// assign renders a plain lvalue assignment, or a setter call for the two
// lvalue kinds symbols.Resolver's setter resolution produces (a bare write,
// or a read-modify-write pair whose read half already ran as part of
// evaluating d.Value).
func (s *stmtPrinter) assign(id ast.StmtID) error {
	d, _ := s.e.in.B.Stmts.Assign(id)
	lv := s.e.in.B.LValues.Get(d.Target)
	if lv == nil {
		return fmt.Errorf("invalid assignment target")
	}
	switch lv.Kind {
	case ast.LVWrite:
		w, _ := s.e.in.B.LValues.Write(d.Target)
		fmt.Fprintf(s.out, "%s%s;\n", s.pad(), s.e.callExprText(w.Setter, append(append([]ast.ExprID(nil), w.Args...), d.Value)))
		return nil
	case ast.LVReadWrite:
		rw, _ := s.e.in.B.LValues.ReadWrite(d.Target)
		fmt.Fprintf(s.out, "%s%s;\n", s.pad(), s.e.callExprText(rw.Setter, append(append([]ast.ExprID(nil), rw.Args...), d.Value)))
		return nil
	default:
		target, err := s.lvalue(d.Target)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s%s = %s;\n", s.pad(), target, s.e.expr(d.Value))
		return nil
	}
}

func (s *stmtPrinter) varDecl(id ast.StmtID) error {
	d, _ := s.e.in.B.Stmts.VarDecl(id)
	if d.Shape != ast.VarDeclSingle {
		return internalStmtError(s, id, "tuple/bittuple var-decl reached emit; lowering should have eliminated it")
	}
	name := s.e.lookupString(d.Names[0])
	typ := s.e.cType(d.Type)
	suffix := s.e.arraySuffix(d.Type)
	if d.Init.IsValid() {
		fmt.Fprintf(s.out, "%s%s %s%s = %s;\n", s.pad(), typ, s.e.cName(name), suffix, s.e.expr(d.Init))
	} else {
		fmt.Fprintf(s.out, "%s%s %s%s;\n", s.pad(), typ, s.e.cName(name), suffix)
	}
	return nil
}

func (s *stmtPrinter) ifStmt(id ast.StmtID) error {
	d, _ := s.e.in.B.Stmts.If(id)
	for i, arm := range d.Arms {
		kw := "if"
		if i > 0 {
			kw = "} else if"
		}
		fmt.Fprintf(s.out, "%s%s (%s) {\n", s.pad(), kw, s.e.expr(arm.Cond))
		s.indent++
		if err := s.stmt(arm.Then); err != nil {
			return err
		}
		s.indent--
	}
	if d.Else.IsValid() {
		fmt.Fprintf(s.out, "%s} else {\n", s.pad())
		s.indent++
		if err := s.stmt(d.Else); err != nil {
			return err
		}
		s.indent--
	}
	fmt.Fprintf(s.out, "%s}\n", s.pad())
	return nil
}

func (s *stmtPrinter) forTo(id ast.StmtID) error {
	d, _ := s.e.in.B.Stmts.ForTo(id)
	v := s.e.cName(s.e.lookupString(d.Var))
	lo := s.e.expr(d.Lo)
	hi := s.e.expr(d.Hi)
	intType := s.e.rt().TypeName(0, 0) // backend.ValueInt == 0
	if d.Descending {
		fmt.Fprintf(s.out, "%sfor (%s %s = %s; %s >= %s; %s--) {\n", s.pad(), intType, v, hi, v, lo, v)
	} else {
		fmt.Fprintf(s.out, "%sfor (%s %s = %s; %s <= %s; %s++) {\n", s.pad(), intType, v, lo, v, hi, v)
	}
	s.indent++
	if err := s.stmt(d.Body); err != nil {
		return err
	}
	s.indent--
	fmt.Fprintf(s.out, "%s}\n", s.pad())
	return nil
}

// tryCatch lowers ASL's try/catch onto the setjmp-based exception runtime:
// asl_try begins a protected region (pushing a jump target), asl_try_end
// pops it on normal exit, and the arms test the propagated exception's
// type tag. A handled arm clears the tag; an unmatched exception without
// a default arm re-raises to the next enclosing region.
func (s *stmtPrinter) tryCatch(id ast.StmtID) error {
	d, _ := s.e.in.B.Stmts.TryCatch(id)
	fmt.Fprintf(s.out, "%sif (asl_try()) {\n", s.pad())
	s.indent++
	if err := s.stmt(d.Body); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%sasl_try_end();\n", s.pad())
	s.indent--
	fmt.Fprintf(s.out, "%s} else {\n", s.pad())
	s.indent++
	for i, arm := range d.Arms {
		kw := "if"
		if i > 0 {
			kw = "else if"
		}
		armType := s.e.cType(arm.ExceptionType)
		fmt.Fprintf(s.out, "%s%s (asl_catch_matches(%q)) {\n", s.pad(), kw, strings.TrimPrefix(armType, "struct "))
		s.indent++
		if arm.Binder != 0 {
			fmt.Fprintf(s.out, "%s%s %s = *(%s *)asl_catch_payload();\n", s.pad(), armType, s.e.cName(s.e.lookupString(arm.Binder)), armType)
		}
		fmt.Fprintf(s.out, "%sasl_catch_handled();\n", s.pad())
		if err := s.stmt(arm.Body); err != nil {
			return err
		}
		s.indent--
		fmt.Fprintf(s.out, "%s}", s.pad())
		if i == len(d.Arms)-1 && !d.Default.IsValid() {
			s.out.WriteString(" else { asl_reraise(); }\n")
		} else {
			s.out.WriteString("\n")
		}
	}
	if d.Default.IsValid() {
		fmt.Fprintf(s.out, "%selse {\n", s.pad())
		s.indent++
		fmt.Fprintf(s.out, "%sasl_catch_handled();\n", s.pad())
		if err := s.stmt(d.Default); err != nil {
			return err
		}
		s.indent--
		fmt.Fprintf(s.out, "%s}\n", s.pad())
	}
	s.indent--
	fmt.Fprintf(s.out, "%s}\n", s.pad())
	return nil
}

func (s *stmtPrinter) lvalue(id ast.LValueID) (string, error) {
	lv := s.e.in.B.LValues.Get(id)
	if lv == nil {
		return "", fmt.Errorf("invalid lvalue")
	}
	switch lv.Kind {
	case ast.LVIdent:
		d, _ := s.e.in.B.LValues.Ident(id)
		return s.e.cName(s.e.lookupString(d.Name)), nil
	case ast.LVField:
		d, _ := s.e.in.B.LValues.Field(id)
		return fmt.Sprintf("%s.%s", s.e.expr(d.Base), s.e.cName(s.e.lookupString(d.Name))), nil
	case ast.LVIndex:
		d, _ := s.e.in.B.LValues.Index(id)
		return fmt.Sprintf("%s[%s]", s.e.expr(d.Base), s.e.expr(d.Index)), nil
	default:
		return "", fmt.Errorf("unhandled lvalue kind in emit: %v", lv.Kind)
	}
}
