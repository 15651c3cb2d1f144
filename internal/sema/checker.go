package sema

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/entail"
	"asli/internal/source"
	"asli/internal/symbols"
	"asli/internal/value"
	"asli/internal/value/fold"
)

// Checker walks one translation unit's AST and produces typed diagnostics,
// resolving names against a pre-populated global symbols.Table. One Checker
// handles the whole file; CheckFile drives it declaration by declaration,
// one pass over the whole program.
type Checker struct {
	B     *ast.Builder
	Str   *source.Interner
	Table *symbols.Table
	Diags *diag.Bag

	Folder *fold.Folder
	Consts map[source.StringID]value.Value

	// scope is the current function-body/block binding stack; nil outside
	// any declaration body.
	scope *localScope

	// ret is the declared return type of the function/getter currently
	// being checked, used to check return statements.
	ret Ty

	// assumptions accumulates the conjunction of asserted/narrowed facts in
	// scope at the current program point, consulted by entail.Entails when
	// checking a refinement subtype obligation.
	assumptions []ast.ExprID

	// pendingChecks accumulates runtime-check predicates not yet
	// lifted into assert statements by the enclosing tcStmt call.
	pendingChecks []ast.ExprID

	// ExprTypes records every expression's inferred type as tcExpr computes
	// it, so later passes (internal/xform, internal/mono) can consult a
	// type without re-running the checker over the same tree.
	ExprTypes map[ast.ExprID]Ty

	normalizer *entail.Normalizer
}

// Result is what CheckFile leaves behind for the transform pipeline to
// consume: the type recorded for every expression it visited, plus the
// folded value of every global constant.
type Result struct {
	ExprTypes map[ast.ExprID]Ty
	Consts    map[source.StringID]value.Value
}

// NewChecker builds a Checker ready to check decls registered in table.
func NewChecker(b *ast.Builder, str *source.Interner, table *symbols.Table, diags *diag.Bag, consts map[source.StringID]value.Value) *Checker {
	if consts == nil {
		consts = map[source.StringID]value.Value{}
	}
	folder := fold.New(b, str, consts)
	c := &Checker{
		B:      b,
		Str:    str,
		Table:  table,
		Diags:  diags,
		Folder:    folder,
		Consts:    consts,
		ExprTypes: make(map[ast.ExprID]Ty),
	}
	c.normalizer = entail.NewNormalizer(b, str, folder, c.resolveDeclName)
	return c
}

// Result snapshots the type recorded for every expression this Checker has
// checked so far, for handoff to internal/xform and internal/mono.
func (c *Checker) Result() Result {
	return Result{ExprTypes: c.ExprTypes, Consts: c.Consts}
}

// resolveDeclName gives internal/entail's normalizer a way to turn a
// resolved call-target DeclID into a stable name for its min/max axiom
// bookkeeping, without entail importing internal/symbols.
func (c *Checker) resolveDeclName(id ast.DeclID) (string, bool) {
	d := c.B.Decls.Get(id)
	if d == nil {
		return "", false
	}
	switch d.Kind {
	case ast.DeclFunctionDef:
		fd, _ := c.B.Decls.FunctionDef(id)
		return c.Str.MustLookup(fd.Name), true
	case ast.DeclFunctionType:
		fd, _ := c.B.Decls.FunctionType(id)
		return c.Str.MustLookup(fd.Name), true
	case ast.DeclBuiltinFunction:
		bd, _ := c.B.Decls.BuiltinFunction(id)
		return c.Str.MustLookup(bd.Name), true
	}
	return "", false
}

// report adds a diagnostic, respecting the bag's configured limit. The
// caller decides whether AtLimit() being reached means "stop checking this
// declaration" (it does).
func (c *Checker) report(d diag.Diagnostic) {
	c.Diags.Add(d)
}

// entailEnv builds a fresh entailment environment seeded with the
// assumptions currently in scope, for one Satisfies query.
func (c *Checker) entailEnv() *entail.Env {
	env := entail.NewEnv(c.normalizer)
	for _, a := range c.assumptions {
		env.Assume(a)
	}
	return env
}

// pushAssumption records fact (e.g. an asserted condition, or the
// then-branch condition of an if) for the remainder of the current scope.
// The caller is responsible for popping via assumptionMark/restore.
func (c *Checker) pushAssumption(fact ast.ExprID) {
	if fact.IsValid() {
		c.assumptions = append(c.assumptions, fact)
	}
}

func (c *Checker) assumptionMark() int { return len(c.assumptions) }

func (c *Checker) restoreAssumptions(mark int) {
	c.assumptions = c.assumptions[:mark]
}

// pushScope opens a new local binding scope, returning the previous one so
// the caller can restore it when the block ends.
func (c *Checker) pushScope() *localScope {
	prev := c.scope
	c.scope = newLocalScope(prev)
	return prev
}

func (c *Checker) popScope(prev *localScope) {
	c.scope = prev
}

// lookupLocal resolves name against the local scope stack only and reports
// found=false when no local binding exists; globals and enum members are
// looked up by the callers (tcIdent, tcLValue), not here.
func (c *Checker) lookupLocal(name source.StringID) (Ty, bool, bool) {
	if c.scope != nil {
		if b, ok := c.scope.lookup(name); ok {
			return b.ty, b.mutable, true
		}
	}
	return Ty{}, false, false
}
