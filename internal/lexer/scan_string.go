package lexer

import (
	"scopetree/internal/diag"
	"scopetree/internal/token"
)

// scanString reads "..." or a multi-line """...""" literal. Interpolations
// `\( ... )` stay part of the literal; their parentheses and nested string
// literals are balanced so `"\(f(")"))"` is one token.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	multiline := false
	if b0, b1, b2, ok := lx.cursor.Peek3(); ok && b0 == '"' && b1 == '"' && b2 == '"' {
		multiline = true
		lx.cursor.Bump()
		lx.cursor.Bump()
	}
	lx.cursor.Bump() // opening '"'

	depth := 0 // вложенность скобок внутри \( )
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' && !multiline {
			// перевод строки в однострочном литерале
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		if depth > 0 {
			switch b {
			case '"':
				lx.scanString()
				continue
			case '(':
				depth++
			case ')':
				depth--
			}
			lx.cursor.Bump()
			continue
		}
		switch b {
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.Eat('(') {
				depth = 1
				continue
			}
			lx.cursor.Bump()
			continue
		case '"':
			if !multiline {
				lx.cursor.Bump()
				return lx.stringToken(start)
			}
			if b0, b1, b2, ok := lx.cursor.Peek3(); ok && b0 == '"' && b1 == '"' && b2 == '"' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				lx.cursor.Bump()
				return lx.stringToken(start)
			}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) stringToken(start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
