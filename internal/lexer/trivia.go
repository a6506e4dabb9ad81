package lexer

import (
	"approxc/internal/diag"
	"approxc/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ', '\t', '\f', '\v' коалесцируются в один TriviaSpace
// - последовательные '\n' коалесцируются в один TriviaNewline
// - //... до \n -> TriviaLineComment
// - /* ... */ -> TriviaBlockComment (без вложенности, как в C)
// - '#' в начале строки -> TriviaPreproc до конца строки с учётом '\' продолжений.
// Препроцессор не исполняется: файл должен быть уже обработан либо не зависеть от макросов.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if isSpace(b) {
			for isSpace(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			lx.push(token.TriviaSpace, start)
			continue
		}

		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.bol = true
			lx.push(token.TriviaNewline, start)
			continue
		}

		if b == '#' && lx.bol {
			lx.scanPreprocLine()
			lx.push(token.TriviaPreproc, start)
			continue
		}

		if b == '/' && lx.scanCommentIntoHold() {
			continue
		}

		break
	}
}

func (lx *Lexer) push(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}

func (lx *Lexer) scanPreprocLine() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\\' {
			if _, b1, ok := lx.cursor.Peek2(); ok && b1 == '\n' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				continue
			}
		}
		if b == '\n' {
			return
		}
		lx.cursor.Bump()
	}
}

// //... , /*...*/
func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	if !lx.cursor.Eat('/') {
		return false
	}
	switch lx.cursor.Peek() {
	case '/':
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.push(token.TriviaLineComment, start)
		return true

	case '*':
		lx.cursor.Bump()
		closed := false
		for !lx.cursor.EOF() {
			if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '*' && b1 == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		if !closed {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		lx.push(token.TriviaBlockComment, start)
		return true

	default:
		// это не комментарий — пусть сканируется как оператор '/'
		lx.cursor.Reset(start)
		return false
	}
}
