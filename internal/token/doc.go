// Package token defines lexical token kinds and trivia for the approx C dialect.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - APPROX, ENDORSE and DEDORSE are reserved words, like C keywords.
//   - Preprocessor lines (# ...) are never part of the main token stream; the
//     lexer stores them as leading TriviaPreproc.
//   - Typedef names are plain identifiers; the parser decides whether an
//     identifier names a type.
package token
