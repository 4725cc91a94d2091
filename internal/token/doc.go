// Package token defines lexical token kinds and trivia for the Swift subset
// understood by scopetree.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Begin..End).
//   - Attributes are lexed as '@' (Kind: At) + Ident; no per-attribute token kinds.
//   - Conditional-compilation directives (#if, #elseif, #else, #endif) are
//     ordinary tokens; the parser evaluates them.
//   - Comments never appear in the main token stream, only as leading Trivia.
package token
