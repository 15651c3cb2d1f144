// Package sema implements the global evaluation-order/effect checks and
// the typechecker: bidirectional type inference over internal/ast trees,
// overload/getter/setter disambiguation against internal/symbols' global
// environment, refinement-subtype checking via internal/entail, and
// diagnostic reporting through internal/diag.
//
// The package is split one file per concern — environment, expression
// inference, statement inference, declaration inference, call resolution —
// all walking the same AST the parser produced rather than a separate
// typed IR. The type lattice covers refinement-constrained integers,
// sintN, bitvectors, records, exception records, enumerations, arrays,
// and tuples.
package sema
