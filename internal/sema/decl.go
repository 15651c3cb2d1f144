package sema

import (
	"asli/internal/ast"
	"asli/internal/diag"
)

// CheckFile typechecks every declaration in fileID, in source order. The
// caller is expected to have already run internal/symbols' Resolver over
// the same file so Table is fully populated before this walk begins.
func (c *Checker) CheckFile(fileID ast.FileID) {
	file := c.B.Files.Get(fileID)
	if file == nil {
		return
	}
	for _, declID := range file.Decls {
		if c.Diags.AtLimit() {
			return
		}
		c.checkDecl(declID)
	}
}

func (c *Checker) checkDecl(id ast.DeclID) {
	decl := c.B.Decls.Get(id)
	if decl == nil {
		return
	}
	switch decl.Kind {
	case ast.DeclFunctionDef:
		c.checkFunctionDef(id)
	case ast.DeclGetter:
		c.checkGetter(id)
	case ast.DeclSetter:
		c.checkSetter(id)
	case ast.DeclConstant:
		c.checkConstant(id)
	case ast.DeclConfigConstant:
		c.checkConfigConstant(id)
	case ast.DeclVariable:
		c.checkVariable(id)
	case ast.DeclRecord:
		c.checkRecord(id)
	case ast.DeclExceptionRecord:
		c.checkExceptionRecord(id)
	case ast.DeclTypeAbbrev:
		d, _ := c.B.Decls.TypeAbbrev(id)
		c.resolveType(d.Target)
	case ast.DeclEnumeration:
		c.checkEnumeration(id)
	case ast.DeclFunctionType, ast.DeclBuiltinFunction, ast.DeclBuiltinType,
		ast.DeclForwardType, ast.DeclOperator:
		// Prototype-only or purely structural declarations: nothing to
		// check beyond what internal/symbols' resolver already validated.
	}
}

func (c *Checker) checkFunctionDef(id ast.DeclID) {
	d, _ := c.B.Decls.FunctionDef(id)
	if !d.Body.IsValid() {
		return
	}
	prevRet := c.ret
	prevScope := c.scope
	c.ret = Invalid()
	if d.ReturnType.IsValid() {
		c.ret = c.resolveType(d.ReturnType)
	} else {
		c.ret = Nothing()
	}
	c.scope = newLocalScope(nil)
	c.bindParams(d.Params)
	d.Body = c.tcStmt(d.Body)
	c.scope = prevScope
	c.ret = prevRet
}

func (c *Checker) checkGetter(id ast.DeclID) {
	d, _ := c.B.Decls.Getter(id)
	if !d.Body.IsValid() {
		return
	}
	prevRet := c.ret
	prevScope := c.scope
	c.ret = c.resolveType(d.ReturnType)
	c.scope = newLocalScope(nil)
	c.bindParams(d.Params)
	d.Body = c.tcStmt(d.Body)
	c.scope = prevScope
	c.ret = prevRet
}

func (c *Checker) checkSetter(id ast.DeclID) {
	d, _ := c.B.Decls.Setter(id)
	if !d.Body.IsValid() {
		return
	}
	prevRet := c.ret
	prevScope := c.scope
	c.ret = Nothing()
	c.scope = newLocalScope(nil)
	c.bindParams(d.Params)
	c.scope.bind(d.Value.Name, c.resolveType(d.Value.Type), false)
	d.Body = c.tcStmt(d.Body)
	c.scope = prevScope
	c.ret = prevRet
}

func (c *Checker) bindParams(params []ast.FnParam) {
	for _, p := range params {
		ty := c.resolveType(p.Type)
		if p.Default.IsValid() {
			defTy := c.tcExpr(p.Default)
			if defTy.IsValid() && ty.IsValid() && !c.Satisfies(defTy, ty) {
				c.report(diag.NewError(diag.TypeErrorSubrangeEntail, p.Span,
					"default value for '"+c.Str.MustLookup(p.Name)+"' does not satisfy its declared type"))
			}
		}
		c.scope.bind(p.Name, ty, false)
	}
}

func (c *Checker) checkConstant(id ast.DeclID) {
	d, _ := c.B.Decls.Constant(id)
	valTy := c.tcExpr(d.Value)
	if d.Type.IsValid() {
		declared := c.resolveType(d.Type)
		if valTy.IsValid() && !c.Satisfies(valTy, declared) {
			c.report(diag.NewError(diag.TypeErrorSubrangeEntail, d.Span,
				"'"+c.Str.MustLookup(d.Name)+"' value does not satisfy its declared type"))
		}
	}
	if v, ok := c.Folder.Fold(d.Value); ok {
		c.Consts[d.Name] = v
	}
}

func (c *Checker) checkConfigConstant(id ast.DeclID) {
	d, _ := c.B.Decls.ConfigConstant(id)
	declared := c.resolveType(d.Type)
	if d.Default.IsValid() {
		defTy := c.tcExpr(d.Default)
		if defTy.IsValid() && !c.Satisfies(defTy, declared) {
			c.report(diag.NewError(diag.TypeErrorSubrangeEntail, d.Span,
				"config constant '"+c.Str.MustLookup(d.Name)+"' default does not satisfy its declared type"))
		}
	}
}

func (c *Checker) checkVariable(id ast.DeclID) {
	d, _ := c.B.Decls.Variable(id)
	declared := c.resolveType(d.Type)
	if d.Init.IsValid() {
		initTy := c.tcExpr(d.Init)
		if initTy.IsValid() && !c.Satisfies(initTy, declared) {
			c.report(diag.NewError(diag.TypeErrorSubrangeEntail, d.Span,
				"global '"+c.Str.MustLookup(d.Name)+"' initializer does not satisfy its declared type"))
		}
	}
}

func (c *Checker) checkRecord(id ast.DeclID) {
	d, _ := c.B.Decls.Record(id)
	for _, f := range d.Fields {
		c.resolveType(f.Type)
	}
}

func (c *Checker) checkExceptionRecord(id ast.DeclID) {
	d, _ := c.B.Decls.ExceptionRecord(id)
	for _, f := range d.Fields {
		c.resolveType(f.Type)
	}
}

func (c *Checker) checkEnumeration(id ast.DeclID) {
	d, _ := c.B.Decls.Enumeration(id)
	for _, m := range d.Members {
		if m.Value.IsValid() {
			c.tcExpr(m.Value)
		}
	}
}
