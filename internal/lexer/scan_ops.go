package lexer

import (
	"scopetree/internal/diag"
	"scopetree/internal/token"
)

// multiOps проверяются по порядку: длинные раньше коротких.
var multiOps = [...]struct {
	text string
	kind token.Kind
}{
	{"...", token.DotDotDot},
	{"..<", token.DotDotLt},
	{"->", token.Arrow},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"+=", token.PlusAssign},
}

var singleOps = [256]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
	'%': token.Percent, '=': token.Assign, '!': token.Bang,
	'<': token.Lt, '>': token.Gt, '&': token.Amp, '|': token.Pipe,
	'?': token.Question, ':': token.Colon, ';': token.Semicolon,
	',': token.Comma, '.': token.Dot, '@': token.At, '_': token.Underscore,
	'(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket,
}

// hasPrefix reports whether the unread input starts with s.
func (lx *Lexer) hasPrefix(s string) bool {
	rest := lx.file.Content[lx.cursor.Off:lx.cursor.Limit]
	return len(rest) >= len(s) && string(rest[:len(s)]) == s
}

// eat съедает s целиком, если вход с него начинается.
func (lx *Lexer) eat(s string) bool {
	if !lx.hasPrefix(s) {
		return false
	}
	lx.cursor.Seek(lx.cursor.Off + uint32(len(s))) // #nosec G115 -- operator literal
	return true
}

// scanOperatorOrPunct берёт самый длинный подходящий оператор.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	kind := token.Invalid
	for _, op := range multiOps {
		if lx.eat(op.text) {
			kind = op.kind
			break
		}
	}
	if kind == token.Invalid {
		kind = singleOps[lx.cursor.Bump()]
	}

	sp := lx.cursor.SpanFrom(start)
	if kind == token.Invalid {
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
	}
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
