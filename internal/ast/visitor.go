package ast

// VisitAction is the per-node decision a Visitor returns before descent.
type VisitAction uint8

const (
	// Descend recurses into the node's children, then applies the
	// visitor's post-transform hook to the (possibly rewritten) node.
	Descend VisitAction = iota
	// Skip leaves the node and its children untouched.
	Skip
	// Replace substitutes a different node in place of this one; the
	// replacement is not itself traversed.
	Replace
)

// ExprVisitor rewrites an expression tree in pre-order. PreExpr runs before
// a node's children are visited and decides whether to descend into them,
// skip them outright, or replace the whole node. PostExpr runs after
// children have been visited (only when PreExpr chose Descend) and may
// rewrite the node once more; this is the "descend and post-transform"
// action from the traversal contract.
type ExprVisitor interface {
	PreExpr(b *Builder, id ExprID) (action VisitAction, replacement ExprID)
	PostExpr(b *Builder, id ExprID) ExprID
}

// NoOpVisitor descends into every node and changes nothing; embed it to
// override only the hooks a pass actually needs.
type NoOpVisitor struct{}

func (NoOpVisitor) PreExpr(*Builder, ExprID) (VisitAction, ExprID) { return Descend, NoExprID }
func (NoOpVisitor) PostExpr(_ *Builder, id ExprID) ExprID          { return id }

// WalkExpr traverses id in pre-order under v, rewriting child slots in
// place and returning the (possibly replaced) node id.
func WalkExpr(b *Builder, v ExprVisitor, id ExprID) ExprID {
	if !id.IsValid() {
		return id
	}

	action, replacement := v.PreExpr(b, id)
	switch action {
	case Replace:
		return replacement
	case Skip:
		return id
	}

	shape := b.Exprs.Get(id)
	switch shape.Kind {
	case ExprLiteral, ExprIdent, ExprUnknownOfType:
		// leaves; nothing to descend into

	case ExprField:
		d, _ := b.Exprs.Field(id)
		d.Base = WalkExpr(b, v, d.Base)

	case ExprMultiField:
		d, _ := b.Exprs.MultiField(id)
		d.Base = WalkExpr(b, v, d.Base)

	case ExprIndex:
		d, _ := b.Exprs.Index(id)
		d.Base = WalkExpr(b, v, d.Base)
		d.Index = WalkExpr(b, v, d.Index)

	case ExprBitslice:
		d, _ := b.Exprs.Bitslice(id)
		d.Base = WalkExpr(b, v, d.Base)
		if d.A.IsValid() {
			d.A = WalkExpr(b, v, d.A)
		}
		if d.B.IsValid() {
			d.B = WalkExpr(b, v, d.B)
		}

	case ExprRecordConstruct:
		d, _ := b.Exprs.RecordConstruct(id)
		for i := range d.Fields {
			d.Fields[i].Value = WalkExpr(b, v, d.Fields[i].Value)
		}

	case ExprWith:
		d, _ := b.Exprs.With(id)
		d.Base = WalkExpr(b, v, d.Base)
		for i := range d.Changes {
			c := &d.Changes[i]
			if c.Lo.IsValid() {
				c.Lo = WalkExpr(b, v, c.Lo)
			}
			if c.Width.IsValid() {
				c.Width = WalkExpr(b, v, c.Width)
			}
			c.Value = WalkExpr(b, v, c.Value)
		}

	case ExprIf:
		d, _ := b.Exprs.If(id)
		for i := range d.Arms {
			d.Arms[i].Cond = WalkExpr(b, v, d.Arms[i].Cond)
			d.Arms[i].Then = WalkExpr(b, v, d.Arms[i].Then)
		}
		if d.Else.IsValid() {
			d.Else = WalkExpr(b, v, d.Else)
		}

	case ExprLet:
		d, _ := b.Exprs.Let(id)
		d.Value = WalkExpr(b, v, d.Value)
		d.Body = WalkExpr(b, v, d.Body)

	case ExprAssertIn:
		d, _ := b.Exprs.AssertIn(id)
		d.Value = WalkExpr(b, v, d.Value)
		d.Set = WalkExpr(b, v, d.Set)

	case ExprCallUntyped:
		d, _ := b.Exprs.CallUntyped(id)
		for i := range d.Args {
			d.Args[i].Value = WalkExpr(b, v, d.Args[i].Value)
		}

	case ExprCallTyped:
		d, _ := b.Exprs.CallTyped(id)
		for i := range d.Params {
			d.Params[i] = WalkExpr(b, v, d.Params[i])
		}
		for i := range d.Args {
			d.Args[i] = WalkExpr(b, v, d.Args[i])
		}

	case ExprTuple:
		d, _ := b.Exprs.Tuple(id)
		for i := range d.Elems {
			d.Elems[i] = WalkExpr(b, v, d.Elems[i])
		}

	case ExprConcat:
		d, _ := b.Exprs.Concat(id)
		for i := range d.Elems {
			d.Elems[i] = WalkExpr(b, v, d.Elems[i])
		}
		for i := range d.Widths {
			if d.Widths[i].IsValid() {
				d.Widths[i] = WalkExpr(b, v, d.Widths[i])
			}
		}

	case ExprUnary:
		d, _ := b.Exprs.Unary(id)
		d.Operand = WalkExpr(b, v, d.Operand)

	case ExprBinary:
		d, _ := b.Exprs.Binary(id)
		d.Left = WalkExpr(b, v, d.Left)
		d.Right = WalkExpr(b, v, d.Right)

	case ExprAsConstraint:
		// Short-circuit: the constraint is a type-level construct, so we
		// do not descend into it even though we descend into the operand.
		d, _ := b.Exprs.AsConstraint(id)
		d.Operand = WalkExpr(b, v, d.Operand)

	case ExprAsType:
		d, _ := b.Exprs.AsType(id)
		d.Operand = WalkExpr(b, v, d.Operand)

	case ExprArrayInit:
		d, _ := b.Exprs.ArrayInit(id)
		switch d.Kind {
		case ArrayInitList:
			for i := range d.Elems {
				d.Elems[i] = WalkExpr(b, v, d.Elems[i])
			}
		case ArrayInitFill:
			d.Fill = WalkExpr(b, v, d.Fill)
		}

	case ExprPatternIn:
		d, _ := b.Exprs.PatternIn(id)
		d.Value = WalkExpr(b, v, d.Value)
	}

	return v.PostExpr(b, id)
}
