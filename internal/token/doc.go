// Package token defines lexical token kinds and trivia for the ASL lexer.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Begin..End).
//   - Attributes/pragmas are lexed as '@' (Kind: At) + Ident; no per-attribute token kinds.
//   - Keywords are case-sensitive: structural keywords are lowercase, the
//     operator keywords (AND, OR, DIV, QUOT, ...) and TRUE/FALSE are uppercase.
//   - Built-in type names (integer, boolean, bits, string, ...) are identifiers.
//     They are recognized by the symbol table, not the lexer.
package token
