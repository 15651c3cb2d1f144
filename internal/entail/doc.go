// Package entail implements the typechecker's entailment engine: given a
// conjunction of scope assumptions, decide whether they imply a goal
// boolean expression over ASL's integer theory.
//
// Rather than binding an external SMT solver, the engine is a built-in
// decision procedure for the linear fragment the typechecker actually
// emits: constant-fold both sides first, then normalize into linear
// integer terms over a fixed operator set and decide entailment
// structurally, treating any construct outside that set as a fresh
// uninterpreted atom so that syntactically identical subterms still
// compare equal. Sound but incomplete: width expressions, array sizes,
// and constraint bounds built from +, -, *, shl/pow2, min/max are decided;
// anything needing case splits is conservatively rejected.
package entail
