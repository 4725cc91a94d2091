package lexer

import (
	"scopetree/internal/diag"
	"scopetree/internal/token"
)

// collectLeadingTrivia складывает в lx.hold всё, что стоит перед следующим
// значимым токеном. Пробелы и переводы строк склеиваются в один элемент на
// серию; комментарии идут по одному.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	if lx.cursor.Off == 0 {
		lx.skipShebang()
	}
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t':
			lx.eatWhile(func(c byte) bool { return c == ' ' || c == '\t' })
			lx.pushTrivia(token.TriviaSpace, start)
		case b == '\n' || b == '\r':
			lx.eatWhile(func(c byte) bool { return c == '\n' || c == '\r' })
			lx.pushTrivia(token.TriviaNewline, start)
		case b == '/' && lx.scanComment(start):
		default:
			return
		}
	}
}

// skipShebang: "#!" в начале файла читается как строчный комментарий
func (lx *Lexer) skipShebang() {
	start := lx.cursor.Mark()
	if b0, b1, ok := lx.cursor.Peek2(); !ok || b0 != '#' || b1 != '!' {
		return
	}
	lx.eatWhile(func(c byte) bool { return c != '\n' })
	lx.pushTrivia(token.TriviaLineComment, start)
}

func (lx *Lexer) eatWhile(pred func(byte) bool) {
	for !lx.cursor.EOF() && pred(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

// scanComment reads "//..." or a nested "/* ... */" starting at the cursor.
// It leaves the cursor untouched and returns false for a lone '/'.
func (lx *Lexer) scanComment(start Mark) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' || (b1 != '/' && b1 != '*') {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	if b1 == '/' {
		lx.eatWhile(func(c byte) bool { return c != '\n' })
		lx.pushTrivia(token.TriviaLineComment, start)
		return true
	}

	depth := 1
	for depth > 0 && !lx.cursor.EOF() {
		switch {
		case lx.eat("/*"):
			depth++
		case lx.eat("*/"):
			depth--
		default:
			lx.cursor.Bump()
		}
	}
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	}
	lx.pushTrivia(token.TriviaBlockComment, start)
	return true
}
